package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dogechain-lab/moveledger/state/txindex"
	"github.com/dogechain-lab/moveledger/types"
)

var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrVersionRegression   = errors.New("object version regression")
	ErrTransactionExists   = errors.New("transaction already recorded")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInconsistentChanges = errors.New("object changes do not match written objects")
)

// Store holds the live objects, their version timelines, the ownership
// index, the recorded transactions with their indices and the checkpoint
// counter. It is not safe for concurrent use.
type Store struct {
	objects   map[types.ObjectID]*types.Object
	timelines map[types.ObjectID]*Timeline

	// ownership index, always consistent with objects
	owned  map[types.Owner]map[types.ObjectID]struct{}
	owners map[types.ObjectID]types.Owner

	transactions map[types.Digest]*types.TransactionResponse
	order        []types.Digest
	indices      *txindex.Indices

	checkpoint uint64
}

func NewStore() *Store {
	return &Store{
		objects:      make(map[types.ObjectID]*types.Object),
		timelines:    make(map[types.ObjectID]*Timeline),
		owned:        make(map[types.Owner]map[types.ObjectID]struct{}),
		owners:       make(map[types.ObjectID]types.Owner),
		transactions: make(map[types.Digest]*types.TransactionResponse),
		indices:      txindex.NewIndices(),
	}
}

func (s *Store) setOwner(id types.ObjectID, owner types.Owner) {
	if prev, ok := s.owners[id]; ok {
		if prev == owner {
			return
		}

		s.dropOwner(id)
	}

	set, ok := s.owned[owner]
	if !ok {
		set = make(map[types.ObjectID]struct{})
		s.owned[owner] = set
	}

	set[id] = struct{}{}
	s.owners[id] = owner
}

func (s *Store) dropOwner(id types.ObjectID) {
	prev, ok := s.owners[id]
	if !ok {
		return
	}

	delete(s.owners, id)

	if set := s.owned[prev]; set != nil {
		delete(set, id)

		if len(set) == 0 {
			delete(s.owned, prev)
		}
	}
}

func (s *Store) timeline(id types.ObjectID) *Timeline {
	t, ok := s.timelines[id]
	if !ok {
		t = &Timeline{}
		s.timelines[id] = t
	}

	return t
}

func (s *Store) checkVersion(obj *types.Object) error {
	t, ok := s.timelines[obj.ID]
	if !ok {
		return nil
	}

	if latest := t.Latest(); latest != nil && obj.Version < latest.Version {
		return fmt.Errorf("%w: %s at version %d, latest is %d",
			ErrVersionRegression, obj.ID, obj.Version, latest.Version)
	}

	return nil
}

// Insert records obj in its timeline, clears a deletion marker, moves it
// to its owner and makes it the current value
func (s *Store) Insert(obj *types.Object) error {
	if err := s.checkVersion(obj); err != nil {
		return err
	}

	obj = obj.Copy()

	t := s.timeline(obj.ID)
	t.put(obj)
	t.DeletedAt = nil

	s.objects[obj.ID] = obj
	s.setOwner(obj.ID, obj.Owner)

	return nil
}

// Remove tombstones the current value of id at its last version. The
// history stays readable.
func (s *Store) Remove(id types.ObjectID) error {
	obj, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}

	deletedAt := obj.Version
	s.timeline(id).DeletedAt = &deletedAt

	delete(s.objects, id)
	s.dropOwner(id)

	return nil
}

// RemoveWithoutTrace drops id together with its history
func (s *Store) RemoveWithoutTrace(id types.ObjectID) {
	delete(s.objects, id)
	delete(s.timelines, id)
	s.dropOwner(id)
}

// Wrap records the wrapped value of id in its timeline and takes the
// object out of the current map and the ownership index without
// tombstoning it
func (s *Store) Wrap(id types.ObjectID, obj *types.Object) error {
	if obj.ID != id {
		return fmt.Errorf("%w: wrapping %s with value of %s", ErrInconsistentChanges, id, obj.ID)
	}

	if err := s.checkVersion(obj); err != nil {
		return err
	}

	s.timeline(id).put(obj.Copy())

	delete(s.objects, id)
	s.dropOwner(id)

	return nil
}

// Object returns a copy of the current value of id
func (s *Store) Object(id types.ObjectID) (*types.Object, bool) {
	obj, ok := s.objects[id]
	if !ok {
		return nil, false
	}

	return obj.Copy(), true
}

// Owner returns the owner of the current value of id
func (s *Store) Owner(id types.ObjectID) (types.Owner, bool) {
	owner, ok := s.owners[id]

	return owner, ok
}

// Exists reports whether id has ever been recorded
func (s *Store) Exists(id types.ObjectID) bool {
	_, ok := s.timelines[id]

	return ok
}

// Timeline returns a copy of the history of id
func (s *Store) Timeline(id types.ObjectID) (*Timeline, bool) {
	t, ok := s.timelines[id]
	if !ok {
		return nil, false
	}

	return t.Copy(), true
}

// GetAtVersion resolves a historical read
func (s *Store) GetAtVersion(id types.ObjectID, version types.SequenceNumber) *types.PastObjectRead {
	read := &types.PastObjectRead{
		ObjectID:     id,
		AskedVersion: version,
	}

	t, ok := s.timelines[id]
	if !ok {
		read.Status = types.ObjectNotExists

		return read
	}

	if t.DeletedAt != nil && *t.DeletedAt == version {
		read.Status = types.ObjectDeleted
		read.Reference = types.ObjectRef{
			ObjectID: id,
			Version:  version,
			Digest:   types.ObjectDigestDeleted,
		}

		return read
	}

	if obj, ok := t.Find(version); ok {
		read.Status = types.VersionFound
		read.Reference = obj.Reference()
		read.Object = obj.Copy()
		read.Layout = obj.Type.Copy()

		return read
	}

	if latest := t.Latest(); t.DeletedAt == nil && latest != nil && version > latest.Version {
		read.Status = types.VersionTooHigh
		read.LatestVersion = latest.Version

		return read
	}

	read.Status = types.VersionNotFound

	return read
}

func sortObjects(objs []*types.Object) {
	sort.Slice(objs, func(i, j int) bool {
		return string(objs[i].ID[:]) < string(objs[j].ID[:])
	})
}

// ObjectsFor returns copies of the current objects of owner ordered by id
func (s *Store) ObjectsFor(owner types.Owner) []*types.Object {
	set := s.owned[owner]

	objs := make([]*types.Object, 0, len(set))
	for id := range set {
		objs = append(objs, s.objects[id].Copy())
	}

	sortObjects(objs)

	return objs
}

// OwnedBy returns the objects held by an address
func (s *Store) OwnedBy(addr types.Address) []*types.Object {
	return s.ObjectsFor(types.AddressOwner(addr))
}

// ChildrenOf returns the objects owned by the parent object
func (s *Store) ChildrenOf(parent types.ObjectID) []*types.Object {
	return s.ObjectsFor(types.ObjectOwner(parent))
}

// Objects returns copies of every current object ordered by id
func (s *Store) Objects() []*types.Object {
	objs := make([]*types.Object, 0, len(s.objects))
	for _, obj := range s.objects {
		objs = append(objs, obj.Copy())
	}

	sortObjects(objs)

	return objs
}

// Len is the number of current objects
func (s *Store) Len() int {
	return len(s.objects)
}

// ApplyChanges persists the outcome of a transaction. Every change is
// checked against the written and wrapped values before anything is
// mutated, so a mismatch leaves the store untouched.
func (s *Store) ApplyChanges(changes []types.ObjectChange, written, wrapped []*types.Object) error {
	writes := make(map[types.ObjectID]*types.Object, len(written))
	for _, obj := range written {
		writes[obj.ID] = obj
	}

	wraps := make(map[types.ObjectID]*types.Object, len(wrapped))
	for _, obj := range wrapped {
		wraps[obj.ID] = obj
	}

	for _, c := range changes {
		var err error

		switch c.Kind {
		case types.ChangeCreated, types.ChangeMutated, types.ChangeTransferred, types.ChangePublished:
			obj, ok := writes[c.ObjectID]
			if !ok {
				return fmt.Errorf("%w: %s %s was not written", ErrInconsistentChanges, c.Kind, c.ObjectID)
			}

			err = s.checkVersion(obj)
		case types.ChangeWrapped:
			obj, ok := wraps[c.ObjectID]
			if !ok {
				return fmt.Errorf("%w: %s was not wrapped", ErrInconsistentChanges, c.ObjectID)
			}

			err = s.checkVersion(obj)
		case types.ChangeDeleted:
			if _, ok := s.objects[c.ObjectID]; !ok {
				err = fmt.Errorf("%w: %s", ErrObjectNotFound, c.ObjectID)
			}
		}

		if err != nil {
			return err
		}
	}

	for _, c := range changes {
		var err error

		switch c.Kind {
		case types.ChangeCreated, types.ChangeMutated, types.ChangeTransferred, types.ChangePublished:
			err = s.Insert(writes[c.ObjectID])
		case types.ChangeWrapped:
			err = s.Wrap(c.ObjectID, wraps[c.ObjectID])
		case types.ChangeDeleted:
			err = s.Remove(c.ObjectID)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func copyResponse(resp *types.TransactionResponse) (*types.TransactionResponse, error) {
	c := &types.TransactionResponse{}
	if err := c.UnmarshalRLP(resp.MarshalRLP()); err != nil {
		return nil, err
	}

	return c, nil
}

// RecordTransaction stores resp and indexes it. Records are write once
// by digest.
func (s *Store) RecordTransaction(resp *types.TransactionResponse) error {
	if _, ok := s.transactions[resp.Digest]; ok {
		return fmt.Errorf("%w: %s", ErrTransactionExists, resp.Digest)
	}

	if resp.Transaction == nil || resp.Transaction.Data == nil {
		return fmt.Errorf("record %s: missing transaction data", resp.Digest)
	}

	stored, err := copyResponse(resp)
	if err != nil {
		return err
	}

	s.transactions[stored.Digest] = stored
	s.order = append(s.order, stored.Digest)

	s.indices.IndexTransaction(stored.Transaction.Data, stored.ObjectChanges)

	return nil
}

// Transaction returns a copy of the recorded response of digest
func (s *Store) Transaction(digest types.Digest) (*types.TransactionResponse, error) {
	resp, ok := s.transactions[digest]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, digest)
	}

	return copyResponse(resp)
}

// HasTransaction reports whether digest has been recorded
func (s *Store) HasTransaction(digest types.Digest) bool {
	_, ok := s.transactions[digest]

	return ok
}

// Transactions returns the recorded digests in insertion order
func (s *Store) Transactions() []types.Digest {
	return append([]types.Digest{}, s.order...)
}

// Query answers filter from the transaction indices
func (s *Store) Query(filter types.TransactionFilter) ([]types.Digest, error) {
	return s.indices.Query(filter)
}

func (s *Store) Checkpoint() uint64 {
	return s.checkpoint
}

// BumpCheckpoint advances the checkpoint counter and returns the new value
func (s *Store) BumpCheckpoint() uint64 {
	s.checkpoint++

	return s.checkpoint
}
