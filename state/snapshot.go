package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dogechain-lab/fastrlp"
	"github.com/dogechain-lab/moveledger/state/txindex"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/hashicorp/go-multierror"
)

var (
	ErrSnapshotInconsistent = errors.New("inconsistent snapshot")
)

// OwnershipEntry lists the current objects of one owner
type OwnershipEntry struct {
	Owner types.Owner
	IDs   []types.ObjectID
}

// ObjectOwnerEntry is one row of the object to owner reverse index
type ObjectOwnerEntry struct {
	ID    types.ObjectID
	Owner types.Owner
}

type TimelineEntry struct {
	ID       types.ObjectID
	Timeline *Timeline
}

// Snapshot is a self contained copy of a Store. Every list is in a
// canonical order so equal stores export equal snapshots.
type Snapshot struct {
	Checkpoint   uint64
	Objects      []*types.Object
	Ownership    []OwnershipEntry
	ObjectOwners []ObjectOwnerEntry
	Timelines    []TimelineEntry
	Transactions []*types.TransactionResponse
	Indices      *txindex.Indices
}

func ownerLess(a, b types.Owner) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}

	if a.Address != b.Address {
		return string(a.Address[:]) < string(b.Address[:])
	}

	return a.InitialSharedVersion < b.InitialSharedVersion
}

func idLess(a, b types.ObjectID) bool {
	return string(a[:]) < string(b[:])
}

// Export deep copies the store
func (s *Store) Export() (*Snapshot, error) {
	snap := &Snapshot{
		Checkpoint: s.checkpoint,
		Objects:    s.Objects(),
		Indices:    s.indices.Copy(),
	}

	for owner, set := range s.owned {
		entry := OwnershipEntry{Owner: owner}
		for id := range set {
			entry.IDs = append(entry.IDs, id)
		}

		sort.Slice(entry.IDs, func(i, j int) bool {
			return idLess(entry.IDs[i], entry.IDs[j])
		})

		snap.Ownership = append(snap.Ownership, entry)
	}

	sort.Slice(snap.Ownership, func(i, j int) bool {
		return ownerLess(snap.Ownership[i].Owner, snap.Ownership[j].Owner)
	})

	for id, owner := range s.owners {
		snap.ObjectOwners = append(snap.ObjectOwners, ObjectOwnerEntry{ID: id, Owner: owner})
	}

	sort.Slice(snap.ObjectOwners, func(i, j int) bool {
		return idLess(snap.ObjectOwners[i].ID, snap.ObjectOwners[j].ID)
	})

	for id, t := range s.timelines {
		snap.Timelines = append(snap.Timelines, TimelineEntry{ID: id, Timeline: t.Copy()})
	}

	sort.Slice(snap.Timelines, func(i, j int) bool {
		return idLess(snap.Timelines[i].ID, snap.Timelines[j].ID)
	})

	for _, digest := range s.order {
		resp, err := copyResponse(s.transactions[digest])
		if err != nil {
			return nil, err
		}

		snap.Transactions = append(snap.Transactions, resp)
	}

	return snap, nil
}

// Validate reports every structural problem of the snapshot
func (snap *Snapshot) Validate() error {
	var result *multierror.Error

	fail := func(format string, args ...interface{}) {
		result = multierror.Append(result, fmt.Errorf("%w: %s", ErrSnapshotInconsistent, fmt.Sprintf(format, args...)))
	}

	timelines := make(map[types.ObjectID]*Timeline, len(snap.Timelines))

	for _, entry := range snap.Timelines {
		if entry.Timeline == nil {
			fail("timeline of %s is empty", entry.ID)

			continue
		}

		if _, ok := timelines[entry.ID]; ok {
			fail("duplicate timeline of %s", entry.ID)
		}

		timelines[entry.ID] = entry.Timeline

		for i, obj := range entry.Timeline.Versions {
			if obj.ID != entry.ID {
				fail("timeline of %s holds object %s", entry.ID, obj.ID)
			}

			if i > 0 && obj.Version <= entry.Timeline.Versions[i-1].Version {
				fail("timeline of %s is not ascending at version %d", entry.ID, obj.Version)
			}
		}
	}

	objects := make(map[types.ObjectID]*types.Object, len(snap.Objects))

	for _, obj := range snap.Objects {
		if _, ok := objects[obj.ID]; ok {
			fail("duplicate object %s", obj.ID)
		}

		objects[obj.ID] = obj

		t, ok := timelines[obj.ID]
		if !ok {
			fail("object %s has no timeline", obj.ID)

			continue
		}

		if _, ok := t.Find(obj.Version); !ok {
			fail("object %s version %d missing from its timeline", obj.ID, obj.Version)
		}

		if t.DeletedAt != nil {
			fail("live object %s is marked deleted", obj.ID)
		}
	}

	owners := make(map[types.ObjectID]types.Owner, len(snap.ObjectOwners))

	for _, entry := range snap.ObjectOwners {
		obj, ok := objects[entry.ID]
		if !ok {
			fail("owner recorded for missing object %s", entry.ID)

			continue
		}

		if obj.Owner != entry.Owner {
			fail("owner of %s is %s, index says %s", entry.ID, obj.Owner, entry.Owner)
		}

		owners[entry.ID] = entry.Owner
	}

	if len(owners) != len(objects) {
		fail("%d objects but %d owner records", len(objects), len(owners))
	}

	indexed := 0

	for _, entry := range snap.Ownership {
		for _, id := range entry.IDs {
			indexed++

			if owner, ok := owners[id]; !ok || owner != entry.Owner {
				fail("ownership index places %s under %s", id, entry.Owner)
			}
		}
	}

	if indexed != len(owners) {
		fail("ownership index holds %d objects, expected %d", indexed, len(owners))
	}

	recorded := make(map[types.Digest]struct{}, len(snap.Transactions))

	for _, resp := range snap.Transactions {
		if _, ok := recorded[resp.Digest]; ok {
			fail("duplicate transaction %s", resp.Digest)
		}

		recorded[resp.Digest] = struct{}{}

		if resp.Transaction == nil || resp.Transaction.Data == nil {
			fail("transaction %s has no data", resp.Digest)
		}
	}

	if snap.Indices == nil {
		fail("missing transaction indices")
	} else {
		digests := snap.Indices.Digests()
		for _, d := range digests {
			if _, ok := recorded[d]; !ok {
				fail("index refers to unrecorded transaction %s", d)
			}
		}

		if len(digests) != len(recorded) {
			fail("%d transactions but %d indexed", len(recorded), len(digests))
		}
	}

	return result.ErrorOrNil()
}

// Restore replaces the whole content of the store with snap. Nothing is
// changed when snap fails validation.
func (s *Store) Restore(snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	restored := NewStore()
	restored.checkpoint = snap.Checkpoint
	restored.indices = snap.Indices.Copy()

	for _, obj := range snap.Objects {
		restored.objects[obj.ID] = obj.Copy()
	}

	for _, entry := range snap.ObjectOwners {
		restored.setOwner(entry.ID, entry.Owner)
	}

	for _, entry := range snap.Timelines {
		restored.timelines[entry.ID] = entry.Timeline.Copy()
	}

	for _, resp := range snap.Transactions {
		stored, err := copyResponse(resp)
		if err != nil {
			return err
		}

		restored.transactions[stored.Digest] = stored
		restored.order = append(restored.order, stored.Digest)
	}

	*s = *restored

	return nil
}

func (snap *Snapshot) MarshalRLP() []byte {
	return types.MarshalRLP(snap)
}

func (snap *Snapshot) UnmarshalRLP(b []byte) error {
	return types.UnmarshalRLP(b, snap)
}

func (snap *Snapshot) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(snap.Checkpoint))

	objects := ar.NewArray()
	for _, obj := range snap.Objects {
		objects.Set(obj.MarshalWith(ar))
	}

	v.Set(objects)

	ownership := ar.NewArray()

	for _, entry := range snap.Ownership {
		e := ar.NewArray()
		e.Set(entry.Owner.MarshalWith(ar))
		e.Set(types.NewObjectIDs(ar, entry.IDs))
		ownership.Set(e)
	}

	v.Set(ownership)

	owners := ar.NewArray()

	for _, entry := range snap.ObjectOwners {
		e := ar.NewArray()
		e.Set(entry.ID.MarshalWith(ar))
		e.Set(entry.Owner.MarshalWith(ar))
		owners.Set(e)
	}

	v.Set(owners)

	timelines := ar.NewArray()

	for _, entry := range snap.Timelines {
		e := ar.NewArray()
		e.Set(entry.ID.MarshalWith(ar))

		versions := ar.NewArray()
		for _, obj := range entry.Timeline.Versions {
			versions.Set(obj.MarshalWith(ar))
		}

		e.Set(versions)

		deletedAt := ar.NewArray()
		if entry.Timeline.DeletedAt != nil {
			deletedAt.Set(ar.NewUint(uint64(*entry.Timeline.DeletedAt)))
		}

		e.Set(deletedAt)
		timelines.Set(e)
	}

	v.Set(timelines)

	transactions := ar.NewArray()
	for _, resp := range snap.Transactions {
		transactions.Set(resp.MarshalWith(ar))
	}

	v.Set(transactions)

	if snap.Indices != nil {
		v.Set(snap.Indices.MarshalWith(ar))
	} else {
		v.Set(txindex.NewIndices().MarshalWith(ar))
	}

	return v
}

func (snap *Snapshot) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := types.ElemsOf(v, "snapshot", 7)
	if err != nil {
		return err
	}

	if snap.Checkpoint, err = elems[0].GetUint64(); err != nil {
		return err
	}

	objects, err := types.ElemsOf(elems[1], "objects", -1)
	if err != nil {
		return err
	}

	snap.Objects = nil

	for _, ov := range objects {
		obj := &types.Object{}
		if err := obj.UnmarshalValue(ov); err != nil {
			return err
		}

		snap.Objects = append(snap.Objects, obj)
	}

	if snap.Ownership, err = decodeOwnership(elems[2]); err != nil {
		return err
	}

	if snap.ObjectOwners, err = decodeObjectOwners(elems[3]); err != nil {
		return err
	}

	if snap.Timelines, err = decodeTimelines(elems[4]); err != nil {
		return err
	}

	transactions, err := types.ElemsOf(elems[5], "transactions", -1)
	if err != nil {
		return err
	}

	snap.Transactions = nil

	for _, tv := range transactions {
		resp := &types.TransactionResponse{}
		if err := resp.UnmarshalValue(tv); err != nil {
			return err
		}

		snap.Transactions = append(snap.Transactions, resp)
	}

	snap.Indices = txindex.NewIndices()

	return snap.Indices.UnmarshalValue(elems[6])
}

func decodeOwnership(v *fastrlp.Value) ([]OwnershipEntry, error) {
	elems, err := types.ElemsOf(v, "ownership", -1)
	if err != nil {
		return nil, err
	}

	var entries []OwnershipEntry

	for _, ev := range elems {
		fields, err := types.ElemsOf(ev, "ownership entry", 2)
		if err != nil {
			return nil, err
		}

		entry := OwnershipEntry{}
		if err := entry.Owner.UnmarshalValue(fields[0]); err != nil {
			return nil, err
		}

		if entry.IDs, err = types.DecodeObjectIDs(fields[1]); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func decodeObjectOwners(v *fastrlp.Value) ([]ObjectOwnerEntry, error) {
	elems, err := types.ElemsOf(v, "object owners", -1)
	if err != nil {
		return nil, err
	}

	var entries []ObjectOwnerEntry

	for _, ev := range elems {
		fields, err := types.ElemsOf(ev, "object owner", 2)
		if err != nil {
			return nil, err
		}

		entry := ObjectOwnerEntry{}
		if err := entry.ID.UnmarshalValue(fields[0]); err != nil {
			return nil, err
		}

		if err := entry.Owner.UnmarshalValue(fields[1]); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func decodeTimelines(v *fastrlp.Value) ([]TimelineEntry, error) {
	elems, err := types.ElemsOf(v, "timelines", -1)
	if err != nil {
		return nil, err
	}

	var entries []TimelineEntry

	for _, ev := range elems {
		fields, err := types.ElemsOf(ev, "timeline", 3)
		if err != nil {
			return nil, err
		}

		entry := TimelineEntry{Timeline: &Timeline{}}
		if err := entry.ID.UnmarshalValue(fields[0]); err != nil {
			return nil, err
		}

		versions, err := types.ElemsOf(fields[1], "timeline versions", -1)
		if err != nil {
			return nil, err
		}

		for _, ov := range versions {
			obj := &types.Object{}
			if err := obj.UnmarshalValue(ov); err != nil {
				return nil, err
			}

			entry.Timeline.Versions = append(entry.Timeline.Versions, obj)
		}

		deletedAt, err := types.ElemsOf(fields[2], "deleted at", -1)
		if err != nil {
			return nil, err
		}

		switch len(deletedAt) {
		case 0:
		case 1:
			n, err := deletedAt[0].GetUint64()
			if err != nil {
				return nil, err
			}

			version := types.SequenceNumber(n)
			entry.Timeline.DeletedAt = &version
		default:
			return nil, fmt.Errorf("%w: deleted at has %d elements", types.ErrRLPDecode, len(deletedAt))
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
