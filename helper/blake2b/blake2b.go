package blake2b

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// DefaultBlake2bPool is a default pool of 256-bit hashers
var DefaultBlake2bPool = &Pool{}

// Pool is a pool of blake2b-256 hashers
type Pool struct {
	pool sync.Pool
}

// Get returns a reset hasher from the pool
func (p *Pool) Get() hash.Hash {
	v := p.pool.Get()
	if v == nil {
		// a nil key never fails
		h, _ := blake2b.New256(nil)

		return h
	}

	//nolint:forcetypeassert
	h := v.(hash.Hash)
	h.Reset()

	return h
}

// Put releases the hasher back to the pool
func (p *Pool) Put(h hash.Hash) {
	p.pool.Put(h)
}

// Sum256 hashes the concatenation of all parts
func Sum256(parts ...[]byte) (out [32]byte) {
	h := DefaultBlake2bPool.Get()
	defer DefaultBlake2bPool.Put(h)

	for _, p := range parts {
		h.Write(p)
	}

	h.Sum(out[:0])

	return out
}
