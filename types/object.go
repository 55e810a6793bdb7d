package types

import (
	"encoding/binary"
	"errors"
	"sort"

	"github.com/dogechain-lab/fastrlp"
)

const (
	// CoinContentsLength is the size of a coin body: uid followed by a little endian u64
	CoinContentsLength = AddressLength + 8

	// MistPerSui is the number of base units in one SUI
	MistPerSui uint64 = 1_000_000_000
)

var (
	ErrNotCoin = errors.New("object is not a coin")
)

var (
	// SuiCoinType is the native gas coin type
	SuiCoinType = NewStructTag(FrameworkAddress, "sui", "SUI").TypeTag()
	// ClockType is the type of the shared clock object
	ClockType = NewStructTag(FrameworkAddress, "clock", "Clock")
	// UpgradeCapType is handed to the publisher of a package
	UpgradeCapType = NewStructTag(FrameworkAddress, "package", "UpgradeCap")
)

var (
	// ObjectDigestDeleted is the digest of a deletion record
	ObjectDigestDeleted = filledDigest(99)
	// ObjectDigestWrapped is the digest of a wrapping record
	ObjectDigestWrapped = filledDigest(88)
)

func filledDigest(b byte) Digest {
	var d Digest
	for i := range d {
		d[i] = b
	}

	return d
}

// CoinStructTag returns 0x2::coin::Coin<coinType>
func CoinStructTag(coinType TypeTag) *StructTag {
	return NewStructTag(FrameworkAddress, "coin", "Coin", coinType)
}

// GasCoinStructTag returns the tag of a SUI coin
func GasCoinStructTag() *StructTag {
	return CoinStructTag(SuiCoinType)
}

// PackageModule is one compiled module of a package
type PackageModule struct {
	Name     string `json:"name"`
	Bytecode []byte `json:"bytecode"`
}

// Object is one version of a ledger object. Move objects carry a struct
// type and opaque contents whose first 32 bytes are the object uid.
// Packages carry no type and a list of modules.
type Object struct {
	ID                  ObjectID
	Version             SequenceNumber
	Owner               Owner
	Type                *StructTag
	HasPublicTransfer   bool
	Contents            []byte
	Modules             []PackageModule
	PreviousTransaction Digest
	StorageRebate       uint64
}

// NewMoveObject builds a move object, prefixing contents with the uid
func NewMoveObject(
	id ObjectID,
	version SequenceNumber,
	owner Owner,
	tag *StructTag,
	body []byte,
	previousTransaction Digest,
) *Object {
	contents := make([]byte, 0, AddressLength+len(body))
	contents = append(contents, id[:]...)
	contents = append(contents, body...)

	return &Object{
		ID:                  id,
		Version:             version,
		Owner:               owner,
		Type:                tag,
		HasPublicTransfer:   true,
		Contents:            contents,
		PreviousTransaction: previousTransaction,
	}
}

// NewCoin builds a coin object of the given type and value
func NewCoin(
	id ObjectID,
	version SequenceNumber,
	owner Owner,
	coinType TypeTag,
	value uint64,
	previousTransaction Digest,
) *Object {
	body := make([]byte, 8)
	binary.LittleEndian.PutUint64(body, value)

	return NewMoveObject(id, version, owner, CoinStructTag(coinType), body, previousTransaction)
}

// NewGasCoin builds a SUI coin
func NewGasCoin(id ObjectID, version SequenceNumber, owner Address, value uint64, prev Digest) *Object {
	return NewCoin(id, version, AddressOwner(owner), SuiCoinType, value, prev)
}

// NewPackage builds an immutable package object, modules sorted by name
func NewPackage(id ObjectID, version SequenceNumber, modules []PackageModule, prev Digest) *Object {
	sorted := make([]PackageModule, len(modules))
	copy(sorted, modules)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	return &Object{
		ID:                  id,
		Version:             version,
		Owner:               ImmutableOwner(),
		Modules:             sorted,
		PreviousTransaction: prev,
	}
}

// IsPackage reports whether the object is a package: no Move type and at
// least one module
func (o *Object) IsPackage() bool {
	return o.Type == nil && len(o.Modules) > 0
}

// ModuleNames lists package module names in order
func (o *Object) ModuleNames() []string {
	if len(o.Modules) == 0 {
		return nil
	}

	names := make([]string, len(o.Modules))
	for i, m := range o.Modules {
		names[i] = m.Name
	}

	return names
}

// IsCoin reports whether the object is a 0x2::coin::Coin
func (o *Object) IsCoin() bool {
	return o.Type.Is(FrameworkAddress, "coin", "Coin") && len(o.Type.TypeParams) == 1
}

// IsGasCoin reports whether the object is a SUI coin
func (o *Object) IsGasCoin() bool {
	return o.IsCoin() && o.Type.TypeParams[0] == SuiCoinType
}

// CoinType returns the first type parameter of a coin
func (o *Object) CoinType() (TypeTag, bool) {
	if !o.IsCoin() {
		return "", false
	}

	return o.Type.TypeParams[0], true
}

// CoinValue reads the balance of a coin
func (o *Object) CoinValue() (uint64, error) {
	if !o.IsCoin() || len(o.Contents) < CoinContentsLength {
		return 0, ErrNotCoin
	}

	return binary.LittleEndian.Uint64(o.Contents[AddressLength:CoinContentsLength]), nil
}

// SetCoinValue overwrites the balance of a coin
func (o *Object) SetCoinValue(value uint64) error {
	if !o.IsCoin() || len(o.Contents) < CoinContentsLength {
		return ErrNotCoin
	}

	binary.LittleEndian.PutUint64(o.Contents[AddressLength:CoinContentsLength], value)

	return nil
}

// Body returns the contents after the uid
func (o *Object) Body() []byte {
	if len(o.Contents) < AddressLength {
		return nil
	}

	return o.Contents[AddressLength:]
}

// Size approximates the stored size of the object for storage pricing
func (o *Object) Size() int {
	size := len(o.Contents)
	for _, m := range o.Modules {
		size += len(m.Name) + len(m.Bytecode)
	}

	return size + AddressLength
}

// Digest is the blake2b hash of the canonical encoding
func (o *Object) Digest() Digest {
	return MarshalDigest("Object::", o)
}

// Reference returns the (id, version, digest) triple
func (o *Object) Reference() ObjectRef {
	return ObjectRef{
		ObjectID: o.ID,
		Version:  o.Version,
		Digest:   o.Digest(),
	}
}

// Copy returns a deep copy
func (o *Object) Copy() *Object {
	c := *o
	c.Type = o.Type.Copy()
	c.Contents = CopyBytes(o.Contents)

	if o.Modules != nil {
		c.Modules = make([]PackageModule, len(o.Modules))
		for i, m := range o.Modules {
			c.Modules[i] = PackageModule{Name: m.Name, Bytecode: CopyBytes(m.Bytecode)}
		}
	}

	return &c
}

func (o *Object) MarshalRLP() []byte {
	return MarshalRLP(o)
}

func (o *Object) UnmarshalRLP(b []byte) error {
	return UnmarshalRLP(b, o)
}

func (o *Object) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(o.ID.MarshalWith(ar))
	v.Set(ar.NewUint(uint64(o.Version)))
	v.Set(o.Owner.MarshalWith(ar))
	v.Set(newOptionalStructTag(ar, o.Type))
	v.Set(newBool(ar, o.HasPublicTransfer))
	v.Set(ar.NewCopyBytes(o.Contents))

	modules := ar.NewArray()

	for _, m := range o.Modules {
		mv := ar.NewArray()
		mv.Set(newString(ar, m.Name))
		mv.Set(ar.NewCopyBytes(m.Bytecode))
		modules.Set(mv)
	}

	v.Set(modules)
	v.Set(o.PreviousTransaction.MarshalWith(ar))
	v.Set(ar.NewUint(o.StorageRebate))

	return v
}

func (o *Object) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "object", 9)
	if err != nil {
		return err
	}

	if err := o.ID.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	version, err := elems[1].GetUint64()
	if err != nil {
		return err
	}

	o.Version = SequenceNumber(version)

	if err := o.Owner.UnmarshalValue(elems[2]); err != nil {
		return err
	}

	if o.Type, err = decodeOptionalStructTag(elems[3]); err != nil {
		return err
	}

	if o.HasPublicTransfer, err = decodeBool(elems[4]); err != nil {
		return err
	}

	if o.Contents, err = DecodeBytes(elems[5]); err != nil {
		return err
	}

	modules, err := ElemsOf(elems[6], "modules", -1)
	if err != nil {
		return err
	}

	o.Modules = nil

	for _, mv := range modules {
		fields, err := ElemsOf(mv, "module", 2)
		if err != nil {
			return err
		}

		m := PackageModule{}

		if m.Name, err = DecodeString(fields[0]); err != nil {
			return err
		}

		if m.Bytecode, err = DecodeBytes(fields[1]); err != nil {
			return err
		}

		o.Modules = append(o.Modules, m)
	}

	if err := o.PreviousTransaction.UnmarshalValue(elems[7]); err != nil {
		return err
	}

	o.StorageRebate, err = elems[8].GetUint64()

	return err
}
