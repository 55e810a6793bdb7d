package leveldb

import (
	"fmt"

	"github.com/dogechain-lab/moveledger/helper/kvdb"
	"github.com/hashicorp/go-hclog"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Option tunes the store before it is opened
type Option func(*dbOption) error

type dbOption struct {
	logger  kvdb.Logger
	options *opt.Options
}

func positive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("leveldb %s must be positive, got %d", name, v)
	}

	return nil
}

// SetBloomKeyBits sets the bloom filter bits per key
func SetBloomKeyBits(bits int) Option {
	return func(o *dbOption) error {
		if err := positive("bloom key bits", bits); err != nil {
			return err
		}

		o.options.Filter = filter.NewBloomFilter(bits)

		return nil
	}
}

// SetCacheSize sets the block cache in MiB
func SetCacheSize(mib int) Option {
	return func(o *dbOption) error {
		if err := positive("cache size", mib); err != nil {
			return err
		}

		o.options.BlockCacheCapacity = mib * opt.MiB

		return nil
	}
}

// SetCompactionTableSize sets the sorted table size in MiB.
// The write buffer follows at twice the size.
func SetCompactionTableSize(mib int) Option {
	return func(o *dbOption) error {
		if err := positive("compaction table size", mib); err != nil {
			return err
		}

		o.options.CompactionTableSize = mib * opt.MiB
		o.options.WriteBuffer = 2 * mib * opt.MiB

		return nil
	}
}

// SetHandles caps the open file handles
func SetHandles(n int) Option {
	return func(o *dbOption) error {
		if err := positive("handles", n); err != nil {
			return err
		}

		o.options.OpenFilesCacheCapacity = n

		return nil
	}
}

// SetLogger replaces the silent default logger
func SetLogger(logger kvdb.Logger) Option {
	return func(o *dbOption) error {
		if logger == nil {
			logger = hclog.NewNullLogger()
		}

		o.logger = logger

		return nil
	}
}

// SetNoSync turns off fsync on writes
func SetNoSync(noSync bool) Option {
	return func(o *dbOption) error {
		o.options.NoSync = noSync

		return nil
	}
}

func SetReadonly(readonly bool) Option {
	return func(o *dbOption) error {
		o.options.ReadOnly = readonly

		return nil
	}
}

// snapshots are written whole and read rarely, so the tables stay small
func defaultLevelDBOptions() *opt.Options {
	return &opt.Options{
		OpenFilesCacheCapacity: minHandles,
		BlockCacheCapacity:     minCache * opt.MiB,
		CompactionTableSize:    DefaultCompactionTableSize * opt.MiB,
		CompactionTotalSize:    DefaultCompactionTotalSize * opt.MiB,
		WriteBuffer:            2 * DefaultCompactionTableSize * opt.MiB,
		Filter:                 filter.NewBloomFilter(DefaultBloomKeyBits),
		DisableSeeksCompaction: true,
	}
}

func newDBOption(options []Option) (*dbOption, error) {
	o := &dbOption{
		logger:  hclog.NewNullLogger(),
		options: defaultLevelDBOptions(),
	}

	for _, option := range options {
		if option == nil {
			continue
		}

		if err := option(o); err != nil {
			return nil, err
		}
	}

	o.logger.Debug("leveldb options",
		"cache_mib", o.options.BlockCacheCapacity/opt.MiB,
		"handles", o.options.OpenFilesCacheCapacity,
		"no_sync", o.options.NoSync,
		"readonly", o.options.ReadOnly,
	)

	return o, nil
}
