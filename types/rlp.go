package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dogechain-lab/fastrlp"
	"github.com/dogechain-lab/moveledger/helper/blake2b"
)

var (
	ErrRLPDecode = errors.New("rlp decode error")
)

var (
	marshalArenaPool    fastrlp.ArenaPool
	unmarshalParserPool fastrlp.ParserPool
)

// RLPMarshaler builds the canonical encoding of a value inside an arena
type RLPMarshaler interface {
	MarshalWith(ar *fastrlp.Arena) *fastrlp.Value
}

// RLPUnmarshaler decodes a value from an already parsed rlp tree
type RLPUnmarshaler interface {
	UnmarshalValue(v *fastrlp.Value) error
}

// MarshalRLP returns the canonical encoding of m
func MarshalRLP(m RLPMarshaler) []byte {
	ar := marshalArenaPool.Get()
	defer marshalArenaPool.Put(ar)

	return m.MarshalWith(ar).MarshalTo(nil)
}

// MarshalDigest hashes a domain prefix followed by the canonical encoding of m
func MarshalDigest(prefix string, m RLPMarshaler) Digest {
	return Digest(blake2b.Sum256([]byte(prefix), MarshalRLP(m)))
}

// UnmarshalRLP parses b and decodes it into u
func UnmarshalRLP(b []byte, u RLPUnmarshaler) error {
	p := unmarshalParserPool.Get()
	defer unmarshalParserPool.Put(p)

	v, err := p.Parse(b)
	if err != nil {
		return err
	}

	return u.UnmarshalValue(v)
}

// ElemsOf returns the elements of an rlp list, checking its length
func ElemsOf(v *fastrlp.Value, name string, expected int) ([]*fastrlp.Value, error) {
	elems, err := v.GetElems()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrRLPDecode, name, err.Error())
	}

	if expected >= 0 && len(elems) != expected {
		return nil, fmt.Errorf("%w: incorrect number of elements to decode %s, expected %d but found %d",
			ErrRLPDecode, name, expected, len(elems))
	}

	return elems, nil
}

func decodeFixed(v *fastrlp.Value, dst []byte, name string) error {
	b, err := v.GetBytes(nil)
	if err != nil {
		return err
	}

	if len(b) != len(dst) {
		return fmt.Errorf("%w: %s has %d bytes, expected %d", ErrRLPDecode, name, len(b), len(dst))
	}

	copy(dst, b)

	return nil
}

// DecodeBytes copies a byte string out of the parser buffer
func DecodeBytes(v *fastrlp.Value) ([]byte, error) {
	return v.GetBytes(nil)
}

// DecodeString decodes a byte string as text
func DecodeString(v *fastrlp.Value) (string, error) {
	b, err := v.GetBytes(nil)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func decodeBool(v *fastrlp.Value) (bool, error) {
	n, err := v.GetUint64()
	if err != nil {
		return false, err
	}

	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}

	return false, fmt.Errorf("%w: invalid bool %d", ErrRLPDecode, n)
}

func newBool(ar *fastrlp.Arena, b bool) *fastrlp.Value {
	if b {
		return ar.NewUint(1)
	}

	return ar.NewUint(0)
}

func newString(ar *fastrlp.Arena, s string) *fastrlp.Value {
	return ar.NewBytes([]byte(s))
}

func newStrings(ar *fastrlp.Arena, ss []string) *fastrlp.Value {
	v := ar.NewArray()
	for _, s := range ss {
		v.Set(newString(ar, s))
	}

	return v
}

func decodeStrings(v *fastrlp.Value, name string) ([]string, error) {
	elems, err := ElemsOf(v, name, -1)
	if err != nil {
		return nil, err
	}

	if len(elems) == 0 {
		return nil, nil
	}

	out := make([]string, len(elems))

	for i, elem := range elems {
		if out[i], err = DecodeString(elem); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// an optional uint64 is a list of zero or one element
func newOptionalUint(ar *fastrlp.Arena, n *uint64) *fastrlp.Value {
	v := ar.NewArray()
	if n != nil {
		v.Set(ar.NewUint(*n))
	}

	return v
}

func decodeOptionalUint(v *fastrlp.Value, name string) (*uint64, error) {
	elems, err := ElemsOf(v, name, -1)
	if err != nil {
		return nil, err
	}

	switch len(elems) {
	case 0:
		return nil, nil
	case 1:
		n, err := elems[0].GetUint64()
		if err != nil {
			return nil, err
		}

		return &n, nil
	}

	return nil, fmt.Errorf("%w: %s has %d elements", ErrRLPDecode, name, len(elems))
}

// signed big integers are encoded as [negative, magnitude]
func newSignedBigInt(ar *fastrlp.Arena, n *big.Int) *fastrlp.Value {
	v := ar.NewArray()
	if n == nil {
		n = new(big.Int)
	}

	v.Set(newBool(ar, n.Sign() < 0))
	v.Set(ar.NewBigInt(new(big.Int).Abs(n)))

	return v
}

func decodeSignedBigInt(v *fastrlp.Value) (*big.Int, error) {
	elems, err := ElemsOf(v, "signed integer", 2)
	if err != nil {
		return nil, err
	}

	negative, err := decodeBool(elems[0])
	if err != nil {
		return nil, err
	}

	n := new(big.Int)
	if err := elems[1].GetBigInt(n); err != nil {
		return nil, err
	}

	if negative {
		n.Neg(n)
	}

	return n, nil
}

func (a Address) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	return ar.NewCopyBytes(a[:])
}

func (a *Address) UnmarshalValue(v *fastrlp.Value) error {
	return decodeFixed(v, a[:], "address")
}

func (id ObjectID) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	return ar.NewCopyBytes(id[:])
}

func (id *ObjectID) UnmarshalValue(v *fastrlp.Value) error {
	return decodeFixed(v, id[:], "object id")
}

func (d Digest) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	return ar.NewCopyBytes(d[:])
}

func (d *Digest) UnmarshalValue(v *fastrlp.Value) error {
	return decodeFixed(v, d[:], "digest")
}

// NewObjectIDs encodes a list of object ids
func NewObjectIDs(ar *fastrlp.Arena, ids []ObjectID) *fastrlp.Value {
	v := ar.NewArray()
	for _, id := range ids {
		v.Set(id.MarshalWith(ar))
	}

	return v
}

// DecodeObjectIDs decodes a list of object ids
func DecodeObjectIDs(v *fastrlp.Value) ([]ObjectID, error) {
	elems, err := ElemsOf(v, "object ids", -1)
	if err != nil {
		return nil, err
	}

	if len(elems) == 0 {
		return nil, nil
	}

	ids := make([]ObjectID, len(elems))

	for i, elem := range elems {
		if err := ids[i].UnmarshalValue(elem); err != nil {
			return nil, err
		}
	}

	return ids, nil
}

// NewDigests encodes a list of digests
func NewDigests(ar *fastrlp.Arena, digests []Digest) *fastrlp.Value {
	v := ar.NewArray()
	for _, d := range digests {
		v.Set(d.MarshalWith(ar))
	}

	return v
}

// DecodeDigests decodes a list of digests
func DecodeDigests(v *fastrlp.Value) ([]Digest, error) {
	elems, err := ElemsOf(v, "digests", -1)
	if err != nil {
		return nil, err
	}

	if len(elems) == 0 {
		return nil, nil
	}

	digests := make([]Digest, len(elems))

	for i, elem := range elems {
		if err := digests[i].UnmarshalValue(elem); err != nil {
			return nil, err
		}
	}

	return digests, nil
}

func (r ObjectRef) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(r.ObjectID.MarshalWith(ar))
	v.Set(ar.NewUint(uint64(r.Version)))
	v.Set(r.Digest.MarshalWith(ar))

	return v
}

func (r *ObjectRef) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "object ref", 3)
	if err != nil {
		return err
	}

	if err := r.ObjectID.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	version, err := elems[1].GetUint64()
	if err != nil {
		return err
	}

	r.Version = SequenceNumber(version)

	return r.Digest.UnmarshalValue(elems[2])
}

func newObjectRefs(ar *fastrlp.Arena, refs []ObjectRef) *fastrlp.Value {
	v := ar.NewArray()
	for _, r := range refs {
		v.Set(r.MarshalWith(ar))
	}

	return v
}

func decodeObjectRefs(v *fastrlp.Value) ([]ObjectRef, error) {
	elems, err := ElemsOf(v, "object refs", -1)
	if err != nil {
		return nil, err
	}

	if len(elems) == 0 {
		return nil, nil
	}

	refs := make([]ObjectRef, len(elems))

	for i, elem := range elems {
		if err := refs[i].UnmarshalValue(elem); err != nil {
			return nil, err
		}
	}

	return refs, nil
}
