package types

import (
	"encoding/json"
	"fmt"

	"github.com/dogechain-lab/fastrlp"
)

type OwnerKind uint8

const (
	OwnerAddress OwnerKind = iota
	OwnerObject
	OwnerShared
	OwnerImmutable
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerAddress:
		return "AddressOwner"
	case OwnerObject:
		return "ObjectOwner"
	case OwnerShared:
		return "Shared"
	case OwnerImmutable:
		return "Immutable"
	}

	return fmt.Sprintf("OwnerKind(%d)", uint8(k))
}

// Owner classifies who may use an object. Address holds the owning account
// for address owners and the parent object id for object owners.
type Owner struct {
	Kind                 OwnerKind
	Address              Address
	InitialSharedVersion SequenceNumber
}

func AddressOwner(a Address) Owner {
	return Owner{Kind: OwnerAddress, Address: a}
}

func ObjectOwner(parent ObjectID) Owner {
	return Owner{Kind: OwnerObject, Address: parent.Address()}
}

func SharedOwner(initialSharedVersion SequenceNumber) Owner {
	return Owner{Kind: OwnerShared, InitialSharedVersion: initialSharedVersion}
}

func ImmutableOwner() Owner {
	return Owner{Kind: OwnerImmutable}
}

func (o Owner) IsAddressOwned() bool {
	return o.Kind == OwnerAddress
}

func (o Owner) IsChild() bool {
	return o.Kind == OwnerObject
}

func (o Owner) IsShared() bool {
	return o.Kind == OwnerShared
}

func (o Owner) IsImmutable() bool {
	return o.Kind == OwnerImmutable
}

// OwnerAddress returns the owning account of an address owned object
func (o Owner) OwnerAddress() (Address, bool) {
	if o.Kind != OwnerAddress {
		return Address{}, false
	}

	return o.Address, true
}

func (o Owner) String() string {
	switch o.Kind {
	case OwnerAddress, OwnerObject:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Address)
	case OwnerShared:
		return fmt.Sprintf("Shared(%d)", o.InitialSharedVersion)
	}

	return o.Kind.String()
}

func (o Owner) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case OwnerAddress:
		return json.Marshal(map[string]Address{"AddressOwner": o.Address})
	case OwnerObject:
		return json.Marshal(map[string]Address{"ObjectOwner": o.Address})
	case OwnerShared:
		return json.Marshal(map[string]map[string]SequenceNumber{
			"Shared": {"initial_shared_version": o.InitialSharedVersion},
		})
	}

	return json.Marshal("Immutable")
}

func (o Owner) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(uint64(o.Kind)))
	v.Set(o.Address.MarshalWith(ar))
	v.Set(ar.NewUint(uint64(o.InitialSharedVersion)))

	return v
}

func (o *Owner) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "owner", 3)
	if err != nil {
		return err
	}

	kind, err := elems[0].GetUint64()
	if err != nil {
		return err
	}

	if kind > uint64(OwnerImmutable) {
		return fmt.Errorf("%w: unknown owner kind %d", ErrRLPDecode, kind)
	}

	o.Kind = OwnerKind(kind)

	if err := o.Address.UnmarshalValue(elems[1]); err != nil {
		return err
	}

	version, err := elems[2].GetUint64()
	if err != nil {
		return err
	}

	o.InitialSharedVersion = SequenceNumber(version)

	return nil
}
