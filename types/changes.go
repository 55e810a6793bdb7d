package types

import (
	"fmt"
	"math/big"

	"github.com/dogechain-lab/fastrlp"
)

type ObjectChangeKind uint8

const (
	ChangePublished ObjectChangeKind = iota
	ChangeTransferred
	ChangeMutated
	ChangeDeleted
	ChangeWrapped
	ChangeCreated
)

func (k ObjectChangeKind) String() string {
	switch k {
	case ChangePublished:
		return "published"
	case ChangeTransferred:
		return "transferred"
	case ChangeMutated:
		return "mutated"
	case ChangeDeleted:
		return "deleted"
	case ChangeWrapped:
		return "wrapped"
	case ChangeCreated:
		return "created"
	}

	return fmt.Sprintf("ObjectChangeKind(%d)", uint8(k))
}

func (k ObjectChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ObjectChange summarizes what a transaction did to one object.
//
// Owner is set for created and mutated objects, Recipient for transferred
// ones. Published changes carry the package module names and no type.
type ObjectChange struct {
	Kind            ObjectChangeKind `json:"type"`
	Sender          Address          `json:"sender"`
	Owner           *Owner           `json:"owner,omitempty"`
	Recipient       *Owner           `json:"recipient,omitempty"`
	ObjectType      TypeTag          `json:"objectType,omitempty"`
	ObjectID        ObjectID         `json:"objectId"`
	Version         SequenceNumber   `json:"version"`
	PreviousVersion SequenceNumber   `json:"previousVersion,omitempty"`
	Digest          Digest           `json:"digest"`
	Modules         []string         `json:"modules,omitempty"`
}

// BalanceChange is the net change of one coin type for one owner
type BalanceChange struct {
	Owner    Owner    `json:"owner"`
	CoinType TypeTag  `json:"coinType"`
	Amount   *big.Int `json:"amount"`
}

func newOptionalOwner(ar *fastrlp.Arena, o *Owner) *fastrlp.Value {
	v := ar.NewArray()
	if o != nil {
		v.Set(o.MarshalWith(ar))
	}

	return v
}

func decodeOptionalOwner(v *fastrlp.Value) (*Owner, error) {
	elems, err := ElemsOf(v, "optional owner", -1)
	if err != nil {
		return nil, err
	}

	switch len(elems) {
	case 0:
		return nil, nil
	case 1:
		o := &Owner{}
		if err := o.UnmarshalValue(elems[0]); err != nil {
			return nil, err
		}

		return o, nil
	}

	return nil, fmt.Errorf("%w: optional owner has %d elements", ErrRLPDecode, len(elems))
}

func (c *ObjectChange) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(uint64(c.Kind)))
	v.Set(c.Sender.MarshalWith(ar))
	v.Set(newOptionalOwner(ar, c.Owner))
	v.Set(newOptionalOwner(ar, c.Recipient))
	v.Set(newString(ar, string(c.ObjectType)))
	v.Set(c.ObjectID.MarshalWith(ar))
	v.Set(ar.NewUint(uint64(c.Version)))
	v.Set(ar.NewUint(uint64(c.PreviousVersion)))
	v.Set(c.Digest.MarshalWith(ar))
	v.Set(newStrings(ar, c.Modules))

	return v
}

func (c *ObjectChange) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "object change", 10)
	if err != nil {
		return err
	}

	kind, err := elems[0].GetUint64()
	if err != nil {
		return err
	}

	if kind > uint64(ChangeCreated) {
		return fmt.Errorf("%w: unknown object change kind %d", ErrRLPDecode, kind)
	}

	c.Kind = ObjectChangeKind(kind)

	if err := c.Sender.UnmarshalValue(elems[1]); err != nil {
		return err
	}

	if c.Owner, err = decodeOptionalOwner(elems[2]); err != nil {
		return err
	}

	if c.Recipient, err = decodeOptionalOwner(elems[3]); err != nil {
		return err
	}

	objectType, err := DecodeString(elems[4])
	if err != nil {
		return err
	}

	c.ObjectType = TypeTag(objectType)

	if err := c.ObjectID.UnmarshalValue(elems[5]); err != nil {
		return err
	}

	version, err := elems[6].GetUint64()
	if err != nil {
		return err
	}

	previous, err := elems[7].GetUint64()
	if err != nil {
		return err
	}

	c.Version, c.PreviousVersion = SequenceNumber(version), SequenceNumber(previous)

	if err := c.Digest.UnmarshalValue(elems[8]); err != nil {
		return err
	}

	c.Modules, err = decodeStrings(elems[9], "modules")

	return err
}

func (b *BalanceChange) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(b.Owner.MarshalWith(ar))
	v.Set(newString(ar, string(b.CoinType)))
	v.Set(newSignedBigInt(ar, b.Amount))

	return v
}

func (b *BalanceChange) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "balance change", 3)
	if err != nil {
		return err
	}

	if err := b.Owner.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	coinType, err := DecodeString(elems[1])
	if err != nil {
		return err
	}

	b.CoinType = TypeTag(coinType)
	b.Amount, err = decodeSignedBigInt(elems[2])

	return err
}
