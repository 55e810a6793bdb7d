package leveldb

import (
	"encoding/binary"
	"testing"

	"github.com/dogechain-lab/moveledger/helper/kvdb"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDB(t *testing.T) kvdb.KVBatchStorage {
	t.Helper()

	db, err := New(t.TempDir(), SetLogger(hclog.NewNullLogger()), SetCacheSize(minCache))
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createMemoryDB(t *testing.T) kvdb.KVBatchStorage {
	t.Helper()

	db, err := NewMemory()
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestLevelDB(t *testing.T) {
	t.Parallel()

	backends := []struct {
		name string
		open func(t *testing.T) kvdb.KVBatchStorage
	}{
		{"file", createTestDB},
		{"memory", createMemoryDB},
	}

	for _, backend := range backends {
		backend := backend

		t.Run(backend.name+"/GetSetDelete", func(t *testing.T) {
			t.Parallel()

			db := backend.open(t)

			key, value := []byte("hello"), []byte("world")

			require.NoError(t, db.Set(key, value))

			v, exist, err := db.Get(key)
			assert.NoError(t, err)
			assert.True(t, exist)
			assert.Equal(t, value, v)

			has, err := db.Has(key)
			assert.NoError(t, err)
			assert.True(t, has)

			require.NoError(t, db.Delete(key))

			v, exist, err = db.Get(key)
			assert.NoError(t, err)
			assert.False(t, exist)
			assert.Nil(t, v)
		})

		t.Run(backend.name+"/BatchIterator", func(t *testing.T) {
			t.Parallel()

			db := backend.open(t)
			batch := db.NewBatch()

			for i := 0; i < 10; i++ {
				key := make([]byte, 5)
				key[0] = 'a'
				binary.BigEndian.PutUint32(key[1:], uint32(i))

				require.NoError(t, batch.Set(key, []byte{byte(i)}))
			}

			require.NoError(t, batch.Set([]byte("b"), []byte("other prefix")))
			require.NoError(t, batch.Delete([]byte{'a', 0, 0, 0, 9}))
			require.NoError(t, batch.Write())

			iter := db.NewIterator([]byte("a"), []byte{0, 0, 0, 3})
			defer iter.Release()

			var values []byte

			for iter.Next() {
				assert.Equal(t, byte('a'), iter.Key()[0])

				values = append(values, iter.Value()...)
			}

			assert.NoError(t, iter.Error())
			assert.Equal(t, []byte{3, 4, 5, 6, 7, 8}, values)
		})
	}
}

func TestInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := NewMemory(SetCacheSize(0))
	assert.Error(t, err)

	_, err = NewMemory(SetHandles(-1))
	assert.Error(t, err)

	_, err = NewMemory(SetBloomKeyBits(0))
	assert.Error(t, err)

	_, err = NewMemory(SetCompactionTableSize(-4))
	assert.Error(t, err)
}

func TestOptionsApplied(t *testing.T) {
	t.Parallel()

	o, err := newDBOption([]Option{
		SetCacheSize(32),
		SetHandles(128),
		SetCompactionTableSize(8),
		SetNoSync(true),
		SetReadonly(true),
		nil,
	})
	require.NoError(t, err)

	assert.Equal(t, 32*1024*1024, o.options.BlockCacheCapacity)
	assert.Equal(t, 128, o.options.OpenFilesCacheCapacity)
	assert.Equal(t, 16*1024*1024, o.options.WriteBuffer)
	assert.True(t, o.options.NoSync)
	assert.True(t, o.options.ReadOnly)
}
