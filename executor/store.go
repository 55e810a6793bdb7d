package executor

import (
	"encoding/binary"
	"sort"

	"github.com/dogechain-lab/moveledger/types"
	iradix "github.com/hashicorp/go-immutable-radix"
)

var (
	DeletedDigest = types.ObjectDigestDeleted
	WrappedDigest = types.ObjectDigestWrapped
)

var (
	objectPrefix = []byte("o")
	eventPrefix  = []byte("e")
)

type entryKind uint8

const (
	entryWritten entryKind = iota
	entryDeleted
	entryWrapped
)

type entry struct {
	kind   entryKind
	object *types.Object
}

// TemporaryStore buffers the writes of one transaction on top of the live
// objects. Snapshots are cheap copies of the radix tree, so a failed
// command sequence can be reverted to the state right after gas smashing.
type TemporaryStore struct {
	reader    ObjectReader
	inputs    map[types.ObjectID]*types.Object
	digest    types.Digest
	lamport   types.SequenceNumber
	snapshots []*iradix.Tree
	txn       *iradix.Txn
	events    int
	created   uint64
}

// NewTemporaryStore prepares a store for the transaction digest over the
// checked inputs. The lamport version is one above the highest input version.
func NewTemporaryStore(reader ObjectReader, inputs *CheckedInputObjects, digest types.Digest) *TemporaryStore {
	s := &TemporaryStore{
		reader:    reader,
		inputs:    make(map[types.ObjectID]*types.Object),
		digest:    digest,
		snapshots: []*iradix.Tree{},
		txn:       iradix.New().Txn(),
	}

	var highest types.SequenceNumber

	if inputs != nil {
		for _, obj := range inputs.All() {
			s.inputs[obj.ID] = obj
			if obj.Version > highest {
				highest = obj.Version
			}
		}
	}

	s.lamport = highest + 1

	return s
}

func objectKey(id types.ObjectID) []byte {
	return append(append([]byte{}, objectPrefix...), id[:]...)
}

func eventKey(seq int) []byte {
	key := make([]byte, len(eventPrefix)+8)
	copy(key, eventPrefix)
	binary.BigEndian.PutUint64(key[len(eventPrefix):], uint64(seq))

	return key
}

// Snapshot takes a snapshot at this point in time
func (s *TemporaryStore) Snapshot() int {
	t := s.txn.CommitOnly()

	id := len(s.snapshots)
	s.snapshots = append(s.snapshots, t)

	return id
}

// RevertToSnapshot reverts to a given snapshot
func (s *TemporaryStore) RevertToSnapshot(id int) {
	if id >= len(s.snapshots) {
		panic("revert to unknown snapshot")
	}

	tree := s.snapshots[id]
	s.txn = tree.Txn()

	events := 0

	tree.Root().WalkPrefix(eventPrefix, func(k []byte, v interface{}) bool {
		events++

		return false
	})

	s.events = events
}

func (s *TemporaryStore) Digest() types.Digest {
	return s.digest
}

func (s *TemporaryStore) LamportVersion() types.SequenceNumber {
	return s.lamport
}

// NextObjectID derives the id of the next object created by the transaction
func (s *TemporaryStore) NextObjectID(derive func(types.Digest, uint64) types.ObjectID) types.ObjectID {
	id := derive(s.digest, s.created)
	s.created++

	return id
}

func (s *TemporaryStore) lookup(id types.ObjectID) (*entry, bool) {
	v, ok := s.txn.Get(objectKey(id))
	if !ok {
		return nil, false
	}

	//nolint:forcetypeassert
	return v.(*entry), true
}

// Read returns a copy of the object as seen by the transaction. Objects
// outside the inputs are visible only when they are child objects or
// immutable, the way dynamic fields and packages are loaded.
func (s *TemporaryStore) Read(id types.ObjectID) (*types.Object, bool) {
	if e, ok := s.lookup(id); ok {
		if e.kind != entryWritten {
			return nil, false
		}

		return e.object.Copy(), true
	}

	if obj, ok := s.inputs[id]; ok {
		return obj.Copy(), true
	}

	if s.reader == nil {
		return nil, false
	}

	obj, ok := s.reader.Object(id)
	if !ok || !(obj.Owner.IsChild() || obj.Owner.IsImmutable()) {
		return nil, false
	}

	return obj.Copy(), true
}

// Write buffers a new value of the object
func (s *TemporaryStore) Write(obj *types.Object) {
	s.txn.Insert(objectKey(obj.ID), &entry{kind: entryWritten, object: obj.Copy()})
}

// Delete tombstones the object
func (s *TemporaryStore) Delete(id types.ObjectID) {
	s.txn.Insert(objectKey(id), &entry{kind: entryDeleted})
}

// Wrap removes the object from independent existence, keeping its last value
func (s *TemporaryStore) Wrap(obj *types.Object) {
	s.txn.Insert(objectKey(obj.ID), &entry{kind: entryWrapped, object: obj.Copy()})
}

// EmitEvent appends an event
func (s *TemporaryStore) EmitEvent(ev types.Event) {
	s.txn.Insert(eventKey(s.events), &ev)
	s.events++
}

// existed reports whether id is live outside the transaction
func (s *TemporaryStore) existed(id types.ObjectID) (*types.Object, bool) {
	if obj, ok := s.inputs[id]; ok {
		return obj, true
	}

	if s.reader == nil {
		return nil, false
	}

	return s.reader.Object(id)
}

// Previous returns the value of id before the transaction, if it was live
func (s *TemporaryStore) Previous(id types.ObjectID) (*types.Object, bool) {
	return s.existed(id)
}

func (s *TemporaryStore) walkObjects(fn func(id types.ObjectID, e *entry)) {
	s.txn.Root().WalkPrefix(objectPrefix, func(k []byte, v interface{}) bool {
		//nolint:forcetypeassert
		fn(types.BytesToObjectID(k[len(objectPrefix):]), v.(*entry))

		return false
	})
}

// Written returns the objects written by the transaction ordered by id
func (s *TemporaryStore) Written() []*types.Object {
	var written []*types.Object

	s.walkObjects(func(id types.ObjectID, e *entry) {
		if e.kind == entryWritten {
			written = append(written, e.object)
		}
	})

	return written
}

// Deleted returns the ids of previously live objects deleted by the transaction
func (s *TemporaryStore) Deleted() []types.ObjectID {
	var deleted []types.ObjectID

	s.walkObjects(func(id types.ObjectID, e *entry) {
		if _, ok := s.existed(id); ok && e.kind == entryDeleted {
			deleted = append(deleted, id)
		}
	})

	return deleted
}

// WrappedObjects returns the last value of previously live objects wrapped
// by the transaction
func (s *TemporaryStore) WrappedObjects() []*types.Object {
	var wrapped []*types.Object

	s.walkObjects(func(id types.ObjectID, e *entry) {
		if _, ok := s.existed(id); ok && e.kind == entryWrapped {
			wrapped = append(wrapped, e.object)
		}
	})

	return wrapped
}

// Events returns the emitted events in order
func (s *TemporaryStore) Events() []types.Event {
	var events []types.Event

	s.txn.Root().WalkPrefix(eventPrefix, func(k []byte, v interface{}) bool {
		//nolint:forcetypeassert
		events = append(events, *v.(*types.Event))

		return false
	})

	return events
}

// finalize stamps every written and wrapped object with the lamport version
// and the transaction digest. Freshly published packages keep version 1.
func (s *TemporaryStore) finalize() {
	type stamped struct {
		id    types.ObjectID
		entry *entry
	}

	var updates []stamped

	s.walkObjects(func(id types.ObjectID, e *entry) {
		if e.object == nil {
			return
		}

		obj := e.object.Copy()
		obj.PreviousTransaction = s.digest

		if _, ok := s.existed(id); !ok && obj.IsPackage() {
			obj.Version = 1
		} else {
			obj.Version = s.lamport
		}

		updates = append(updates, stamped{id: id, entry: &entry{kind: e.kind, object: obj}})
	})

	for _, u := range updates {
		s.txn.Insert(objectKey(u.id), u.entry)
	}
}

// effects builds the transaction effects from the buffered writes
func (s *TemporaryStore) effects(
	status types.ExecutionStatus,
	epoch uint64,
	gas types.GasCostSummary,
	gasID types.ObjectID,
) *types.TransactionEffects {
	effects := &types.TransactionEffects{
		Status:            status,
		ExecutedEpoch:     epoch,
		GasUsed:           gas,
		TransactionDigest: s.digest,
	}

	for _, obj := range s.Written() {
		ref := types.OwnedObjectRef{Owner: obj.Owner, Reference: obj.Reference()}

		if _, ok := s.existed(obj.ID); ok {
			effects.Mutated = append(effects.Mutated, ref)
		} else {
			effects.Created = append(effects.Created, ref)
		}

		if obj.ID == gasID {
			effects.GasObject = ref
		}
	}

	for _, id := range s.Deleted() {
		effects.Deleted = append(effects.Deleted, types.ObjectRef{
			ObjectID: id,
			Version:  s.lamport,
			Digest:   DeletedDigest,
		})
	}

	for _, obj := range s.WrappedObjects() {
		effects.Wrapped = append(effects.Wrapped, types.ObjectRef{
			ObjectID: obj.ID,
			Version:  s.lamport,
			Digest:   WrappedDigest,
		})
	}

	if events := s.Events(); len(events) > 0 {
		digest := types.EventsDigest(events)
		effects.EventsDigest = &digest
	}

	effects.Dependencies = s.dependencies()

	return effects
}

func (s *TemporaryStore) dependencies() []types.Digest {
	seen := make(map[types.Digest]struct{})

	var deps []types.Digest

	for _, obj := range s.inputs {
		prev := obj.PreviousTransaction
		if prev == types.ZeroDigest {
			continue
		}

		if _, ok := seen[prev]; ok {
			continue
		}

		seen[prev] = struct{}{}
		deps = append(deps, prev)
	}

	sort.Slice(deps, func(i, j int) bool {
		return string(deps[i][:]) < string(deps[j][:])
	})

	return deps
}
