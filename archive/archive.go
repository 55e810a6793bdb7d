package archive

import (
	"errors"
	"fmt"

	"github.com/dogechain-lab/fastrlp"
	"github.com/dogechain-lab/moveledger/helper/kvdb"
	"github.com/dogechain-lab/moveledger/state"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrNoHead           = errors.New("archive has no head snapshot")
)

var (
	headKey    = []byte("head")
	blobPrefix = []byte("s/")
	infoPrefix = []byte("i/")
)

func blobKey(name string) []byte {
	return append(append([]byte{}, blobPrefix...), name...)
}

func infoKey(name string) []byte {
	return append(append([]byte{}, infoPrefix...), name...)
}

// Entry describes one stored snapshot
type Entry struct {
	Name         string `json:"name"`
	Checkpoint   uint64 `json:"checkpoint"`
	Objects      uint64 `json:"objects"`
	Transactions uint64 `json:"transactions"`
	Size         uint64 `json:"size"`
	Compressed   bool   `json:"compressed"`
}

func (e *Entry) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewBytes([]byte(e.Name)))
	v.Set(ar.NewUint(e.Checkpoint))
	v.Set(ar.NewUint(e.Objects))
	v.Set(ar.NewUint(e.Transactions))
	v.Set(ar.NewUint(e.Size))

	if e.Compressed {
		v.Set(ar.NewUint(1))
	} else {
		v.Set(ar.NewUint(0))
	}

	return v
}

func (e *Entry) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := types.ElemsOf(v, "archive entry", 6)
	if err != nil {
		return err
	}

	if e.Name, err = types.DecodeString(elems[0]); err != nil {
		return err
	}

	counters := []*uint64{&e.Checkpoint, &e.Objects, &e.Transactions, &e.Size}
	for i, dst := range counters {
		if *dst, err = elems[i+1].GetUint64(); err != nil {
			return err
		}
	}

	compressed, err := elems[5].GetUint64()
	if err != nil {
		return err
	}

	e.Compressed = compressed == 1

	return nil
}

// Archive keeps named snapshots in a kv storage and tracks the head one
type Archive struct {
	logger    hclog.Logger
	db        kvdb.KVBatchStorage
	zstdLevel int
}

// NewArchive stores snapshots in db, compressed with zstd at zstdLevel
// when it is positive
func NewArchive(logger hclog.Logger, db kvdb.KVBatchStorage, zstdLevel int) *Archive {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Archive{
		logger:    logger.Named("archive"),
		db:        db,
		zstdLevel: zstdLevel,
	}
}

// Close closes the underlying storage
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) save(name string, snap *state.Snapshot, head bool) (string, error) {
	if name == "" {
		name = uuid.New().String()
	}

	blob, err := Serialize(snap, a.zstdLevel)
	if err != nil {
		return "", err
	}

	entry := &Entry{
		Name:         name,
		Checkpoint:   snap.Checkpoint,
		Objects:      uint64(len(snap.Objects)),
		Transactions: uint64(len(snap.Transactions)),
		Size:         uint64(len(blob)),
		Compressed:   IsCompressed(blob),
	}

	batch := a.db.NewBatch()

	if err := batch.Set(blobKey(name), blob); err != nil {
		return "", err
	}

	if err := batch.Set(infoKey(name), types.MarshalRLP(entry)); err != nil {
		return "", err
	}

	if head {
		if err := batch.Set(headKey, []byte(name)); err != nil {
			return "", err
		}
	}

	if err := batch.Write(); err != nil {
		return "", err
	}

	a.logger.Info("snapshot saved", "name", name, "checkpoint", snap.Checkpoint, "size", len(blob), "head", head)

	return name, nil
}

// Save stores snap under name, a random name when empty, and returns the
// name used
func (a *Archive) Save(name string, snap *state.Snapshot) (string, error) {
	return a.save(name, snap, false)
}

// Commit stores snap under name and makes it the head
func (a *Archive) Commit(name string, snap *state.Snapshot) (string, error) {
	return a.save(name, snap, true)
}

// Load decodes the snapshot stored under name
func (a *Archive) Load(name string) (*state.Snapshot, error) {
	blob, ok, err := a.db.Get(blobKey(name))
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}

	snap, err := Deserialize(blob)
	if err != nil {
		a.logger.Error("failed to decode snapshot", "name", name, "err", err)

		return nil, err
	}

	return snap, nil
}

// Entry returns the description of the snapshot stored under name
func (a *Archive) Entry(name string) (*Entry, error) {
	raw, ok, err := a.db.Get(infoKey(name))
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}

	entry := &Entry{}
	if err := types.UnmarshalRLP(raw, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// List describes every stored snapshot, ordered by name
func (a *Archive) List() ([]*Entry, error) {
	iter := a.db.NewIterator(infoPrefix, nil)
	defer iter.Release()

	var entries []*Entry

	for iter.Next() {
		entry := &Entry{}
		if err := types.UnmarshalRLP(iter.Value(), entry); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, iter.Error()
}

// Delete removes the snapshot stored under name, clearing the head when
// it points to it
func (a *Archive) Delete(name string) error {
	if _, err := a.Entry(name); err != nil {
		return err
	}

	head, ok, err := a.Head()
	if err != nil {
		return err
	}

	batch := a.db.NewBatch()

	if err := batch.Delete(blobKey(name)); err != nil {
		return err
	}

	if err := batch.Delete(infoKey(name)); err != nil {
		return err
	}

	if ok && head == name {
		if err := batch.Delete(headKey); err != nil {
			return err
		}
	}

	if err := batch.Write(); err != nil {
		return err
	}

	a.logger.Info("snapshot deleted", "name", name)

	return nil
}

// Head returns the name of the head snapshot
func (a *Archive) Head() (string, bool, error) {
	name, ok, err := a.db.Get(headKey)
	if err != nil || !ok {
		return "", false, err
	}

	return string(name), true, nil
}

// SetHead makes the stored snapshot name the head
func (a *Archive) SetHead(name string) error {
	if _, err := a.Entry(name); err != nil {
		return err
	}

	return a.db.Set(headKey, []byte(name))
}

// LoadHead decodes the head snapshot
func (a *Archive) LoadHead() (*state.Snapshot, error) {
	name, ok, err := a.Head()
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrNoHead
	}

	return a.Load(name)
}
