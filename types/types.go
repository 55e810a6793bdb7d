package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	AddressLength = 32
	DigestLength  = 32
)

var (
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidObjectID = errors.New("invalid object id")
	ErrInvalidDigest   = errors.New("invalid digest")
)

var (
	ZeroAddress  = Address{}
	ZeroObjectID = ObjectID{}
	ZeroDigest   = Digest{}
)

// Well known framework objects
var (
	StdlibPackageID    = ObjectIDFromUint64(0x1)
	FrameworkPackageID = ObjectIDFromUint64(0x2)
	ClockObjectID      = ObjectIDFromUint64(0x6)

	FrameworkAddress = Address(FrameworkPackageID)
)

// Address is an account address derived from a public key
type Address [AddressLength]byte

// ObjectID identifies an object across all of its versions
type ObjectID [AddressLength]byte

// Digest is a blake2b-256 content hash
type Digest [DigestLength]byte

// SequenceNumber is an object version
type SequenceNumber uint64

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ObjectID reinterprets the address as an object id, which is how child
// ownership refers to its parent.
func (a Address) ObjectID() ObjectID {
	return ObjectID(a)
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}

func (id ObjectID) Bytes() []byte {
	return id[:]
}

func (id ObjectID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// ShortString trims leading zeroes, e.g. 0x2 for the framework package
func (id ObjectID) ShortString() string {
	trimmed := TrimLeftZeroes(id[:])
	if len(trimmed) == 0 {
		return "0x0"
	}

	return "0x" + strings.TrimPrefix(hex.EncodeToString(trimmed), "0")
}

func (id ObjectID) Address() Address {
	return Address(id)
}

func (id ObjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ObjectID) UnmarshalText(input []byte) error {
	parsed, err := ParseObjectID(string(input))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

func (d Digest) Bytes() []byte {
	return d[:]
}

func (d Digest) String() string {
	return "0x" + hex.EncodeToString(d[:])
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(input []byte) error {
	parsed, err := ParseDigest(string(input))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// BytesToAddress keeps the last 32 bytes of b, left padding shorter input
func BytesToAddress(b []byte) Address {
	var a Address

	copy(a[:], leftPad(b, AddressLength))

	return a
}

func BytesToObjectID(b []byte) ObjectID {
	return ObjectID(BytesToAddress(b))
}

func BytesToDigest(b []byte) Digest {
	var d Digest

	copy(d[:], leftPad(b, DigestLength))

	return d
}

// StringToAddress parses a hex address, returning the zero address on malformed input
func StringToAddress(str string) Address {
	return BytesToAddress(StringToBytes(str))
}

// ObjectIDFromUint64 builds the id used by framework objects such as 0x2
func ObjectIDFromUint64(n uint64) ObjectID {
	var id ObjectID

	for i := 0; i < 8; i++ {
		id[AddressLength-1-i] = byte(n >> (8 * i))
	}

	return id
}

func parseFixed(str string, size int, kind error) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(str), "0x")
	if trimmed == "" || len(trimmed) > size*2 {
		return nil, fmt.Errorf("%w: %q", kind, str)
	}

	b, err := ParseHexBytes(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", kind, str)
	}

	return leftPad(b, size), nil
}

// ParseAddress parses a full or short (0x2) hex address
func ParseAddress(str string) (Address, error) {
	b, err := parseFixed(str, AddressLength, ErrInvalidAddress)
	if err != nil {
		return Address{}, err
	}

	return BytesToAddress(b), nil
}

// ParseObjectID parses a full or short (0x6) hex object id
func ParseObjectID(str string) (ObjectID, error) {
	b, err := parseFixed(str, AddressLength, ErrInvalidObjectID)
	if err != nil {
		return ObjectID{}, err
	}

	return BytesToObjectID(b), nil
}

// ParseDigest requires the full 32 byte form
func ParseDigest(str string) (Digest, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(str), "0x")
	if len(trimmed) != DigestLength*2 {
		return Digest{}, fmt.Errorf("%w: %q", ErrInvalidDigest, str)
	}

	b, err := ParseHexBytes(trimmed)
	if err != nil {
		return Digest{}, fmt.Errorf("%w: %q", ErrInvalidDigest, str)
	}

	return BytesToDigest(b), nil
}

// MustParseObjectID panics on malformed input, for constants and tests
func MustParseObjectID(str string) ObjectID {
	id, err := ParseObjectID(str)
	if err != nil {
		panic(err)
	}

	return id
}

func MustParseAddress(str string) Address {
	a, err := ParseAddress(str)
	if err != nil {
		panic(err)
	}

	return a
}

// ObjectRef pins an object to a single version
type ObjectRef struct {
	ObjectID ObjectID       `json:"objectId"`
	Version  SequenceNumber `json:"version"`
	Digest   Digest         `json:"digest"`
}

func (r ObjectRef) String() string {
	return fmt.Sprintf("(%s, %d, %s)", r.ObjectID, r.Version, r.Digest)
}
