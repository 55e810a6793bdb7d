package leveldb

import (
	"errors"

	"github.com/dogechain-lab/moveledger/helper/kvdb"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	// floor for the block cache, in MiB
	minCache = 16
	// floor for open file handles
	minHandles = 16

	DefaultCache               = 64 // MiB
	DefaultHandles             = 64
	DefaultBloomKeyBits        = 2048
	DefaultCompactionTableSize = 4  // MiB
	DefaultCompactionTotalSize = 40 // MiB
	DefaultNoSyncFlag          = false
)

// store adapts a goleveldb handle to kvdb.KVBatchStorage
type store struct {
	db *leveldb.DB
}

// New opens (or creates) the database under dir
func New(dir string, options ...Option) (kvdb.KVBatchStorage, error) {
	o, err := newDBOption(options)
	if err != nil {
		return nil, err
	}

	db, err := leveldb.OpenFile(dir, o.options)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("leveldb opened", "dir", dir)

	return &store{db: db}, nil
}

// NewMemory opens a database backed by memory only
func NewMemory(options ...Option) (kvdb.KVBatchStorage, error) {
	o, err := newDBOption(options)
	if err != nil {
		return nil, err
	}

	db, err := leveldb.Open(storage.NewMemStorage(), o.options)
	if err != nil {
		return nil, err
	}

	return &store{db: db}, nil
}

func (s *store) Has(key []byte) (bool, error) {
	return s.db.Has(key, nil)
}

// Get reports a missing key as exists == false without an error
func (s *store) Get(key []byte) ([]byte, bool, error) {
	value, err := s.db.Get(key, nil)

	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	default:
		return value, true, nil
	}
}

func (s *store) Set(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *store) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

func (s *store) NewBatch() kvdb.Batch {
	return &writeBatch{db: s.db, ops: new(leveldb.Batch)}
}

// NewIterator walks keys under prefix, beginning at prefix+start
func (s *store) NewIterator(prefix, start []byte) kvdb.Iterator {
	r := util.BytesPrefix(prefix)
	r.Start = append(r.Start, start...)

	return s.db.NewIterator(r, nil)
}

func (s *store) Close() error {
	return s.db.Close()
}

// writeBatch applies its operations atomically on Write
type writeBatch struct {
	db  *leveldb.DB
	ops *leveldb.Batch
}

func (b *writeBatch) Set(key, value []byte) error {
	b.ops.Put(key, value)

	return nil
}

func (b *writeBatch) Delete(key []byte) error {
	b.ops.Delete(key)

	return nil
}

func (b *writeBatch) Write() error {
	return b.db.Write(b.ops, nil)
}
