package types

import (
	"fmt"

	"github.com/dogechain-lab/fastrlp"
)

// EventID locates an event within its transaction
type EventID struct {
	TxDigest Digest `json:"txDigest"`
	EventSeq uint64 `json:"eventSeq"`
}

// TransactionEvent is an event as reported in a transaction response
type TransactionEvent struct {
	ID          EventID `json:"id"`
	Event       Event   `json:"event"`
	TimestampMs *uint64 `json:"timestampMs,omitempty"`
}

func (e *TransactionEvent) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(e.ID.TxDigest.MarshalWith(ar))
	v.Set(ar.NewUint(e.ID.EventSeq))
	v.Set(e.Event.MarshalWith(ar))
	v.Set(newOptionalUint(ar, e.TimestampMs))

	return v
}

func (e *TransactionEvent) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "transaction event", 4)
	if err != nil {
		return err
	}

	if err := e.ID.TxDigest.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	if e.ID.EventSeq, err = elems[1].GetUint64(); err != nil {
		return err
	}

	if err := e.Event.UnmarshalValue(elems[2]); err != nil {
		return err
	}

	e.TimestampMs, err = decodeOptionalUint(elems[3], "timestamp")

	return err
}

// TransactionResponse is the finalized record of one submitted transaction.
// Errors is non-empty only for failed or early returned transactions.
type TransactionResponse struct {
	Digest         Digest              `json:"digest"`
	Transaction    *SignedTransaction  `json:"-"`
	RawTransaction []byte              `json:"rawTransaction"`
	Effects        *TransactionEffects `json:"effects,omitempty"`
	Events         []TransactionEvent  `json:"events,omitempty"`
	ObjectChanges  []ObjectChange      `json:"objectChanges,omitempty"`
	BalanceChanges []BalanceChange     `json:"balanceChanges,omitempty"`
	TimestampMs    *uint64             `json:"timestampMs,omitempty"`
	Checkpoint     *uint64             `json:"checkpoint,omitempty"`
	Errors         []string            `json:"errors,omitempty"`
}

// Failed reports whether the transaction was rejected or aborted
func (r *TransactionResponse) Failed() bool {
	return len(r.Errors) > 0
}

func (r *TransactionResponse) MarshalRLP() []byte {
	return MarshalRLP(r)
}

func (r *TransactionResponse) UnmarshalRLP(b []byte) error {
	return UnmarshalRLP(b, r)
}

func (r *TransactionResponse) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(r.Digest.MarshalWith(ar))

	tx := ar.NewArray()
	if r.Transaction != nil {
		tx.Set(r.Transaction.MarshalWith(ar))
	}

	v.Set(tx)
	v.Set(ar.NewCopyBytes(r.RawTransaction))

	effects := ar.NewArray()
	if r.Effects != nil {
		effects.Set(r.Effects.MarshalWith(ar))
	}

	v.Set(effects)

	events := ar.NewArray()
	for i := range r.Events {
		events.Set(r.Events[i].MarshalWith(ar))
	}

	v.Set(events)

	objectChanges := ar.NewArray()
	for i := range r.ObjectChanges {
		objectChanges.Set(r.ObjectChanges[i].MarshalWith(ar))
	}

	v.Set(objectChanges)

	balanceChanges := ar.NewArray()
	for i := range r.BalanceChanges {
		balanceChanges.Set(r.BalanceChanges[i].MarshalWith(ar))
	}

	v.Set(balanceChanges)
	v.Set(newOptionalUint(ar, r.TimestampMs))
	v.Set(newOptionalUint(ar, r.Checkpoint))
	v.Set(newStrings(ar, r.Errors))

	return v
}

func (r *TransactionResponse) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "transaction response", 10)
	if err != nil {
		return err
	}

	if err := r.Digest.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	tx, err := ElemsOf(elems[1], "transaction", -1)
	if err != nil {
		return err
	}

	r.Transaction = nil

	if len(tx) == 1 {
		r.Transaction = &SignedTransaction{}
		if err := r.Transaction.UnmarshalValue(tx[0]); err != nil {
			return err
		}
	} else if len(tx) > 1 {
		return fmt.Errorf("%w: transaction has %d elements", ErrRLPDecode, len(tx))
	}

	if r.RawTransaction, err = DecodeBytes(elems[2]); err != nil {
		return err
	}

	effects, err := ElemsOf(elems[3], "effects", -1)
	if err != nil {
		return err
	}

	r.Effects = nil

	if len(effects) == 1 {
		r.Effects = &TransactionEffects{}
		if err := r.Effects.UnmarshalValue(effects[0]); err != nil {
			return err
		}
	} else if len(effects) > 1 {
		return fmt.Errorf("%w: effects has %d elements", ErrRLPDecode, len(effects))
	}

	events, err := ElemsOf(elems[4], "events", -1)
	if err != nil {
		return err
	}

	r.Events = nil

	for _, ev := range events {
		e := TransactionEvent{}
		if err := e.UnmarshalValue(ev); err != nil {
			return err
		}

		r.Events = append(r.Events, e)
	}

	objectChanges, err := ElemsOf(elems[5], "object changes", -1)
	if err != nil {
		return err
	}

	r.ObjectChanges = nil

	for _, cv := range objectChanges {
		c := ObjectChange{}
		if err := c.UnmarshalValue(cv); err != nil {
			return err
		}

		r.ObjectChanges = append(r.ObjectChanges, c)
	}

	balanceChanges, err := ElemsOf(elems[6], "balance changes", -1)
	if err != nil {
		return err
	}

	r.BalanceChanges = nil

	for _, bv := range balanceChanges {
		b := BalanceChange{}
		if err := b.UnmarshalValue(bv); err != nil {
			return err
		}

		r.BalanceChanges = append(r.BalanceChanges, b)
	}

	if r.TimestampMs, err = decodeOptionalUint(elems[7], "timestamp"); err != nil {
		return err
	}

	if r.Checkpoint, err = decodeOptionalUint(elems[8], "checkpoint"); err != nil {
		return err
	}

	r.Errors, err = decodeStrings(elems[9], "errors")

	return err
}

// DryRunResponse previews the outcome of a transaction without persisting it
type DryRunResponse struct {
	Effects              *TransactionEffects `json:"effects,omitempty"`
	Events               []TransactionEvent  `json:"events,omitempty"`
	ObjectChanges        []ObjectChange      `json:"objectChanges,omitempty"`
	BalanceChanges       []BalanceChange     `json:"balanceChanges,omitempty"`
	Input                *TransactionData    `json:"-"`
	ExecutionErrorSource string              `json:"executionErrorSource,omitempty"`
}

type PastObjectStatus uint8

const (
	VersionFound PastObjectStatus = iota
	ObjectNotExists
	ObjectDeleted
	VersionNotFound
	VersionTooHigh
)

func (s PastObjectStatus) String() string {
	switch s {
	case VersionFound:
		return "VersionFound"
	case ObjectNotExists:
		return "ObjectNotExists"
	case ObjectDeleted:
		return "ObjectDeleted"
	case VersionNotFound:
		return "VersionNotFound"
	case VersionTooHigh:
		return "VersionTooHigh"
	}

	return fmt.Sprintf("PastObjectStatus(%d)", uint8(s))
}

func (s PastObjectStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PastObjectRead is the result of a historical object read.
//
// VersionFound fills Reference, Object and Layout. ObjectDeleted fills
// Reference with the deletion record. VersionTooHigh fills AskedVersion and
// LatestVersion. The not found variants only carry the id and AskedVersion.
type PastObjectRead struct {
	Status        PastObjectStatus `json:"status"`
	ObjectID      ObjectID         `json:"objectId"`
	Reference     ObjectRef        `json:"reference"`
	Object        *Object          `json:"object,omitempty"`
	Layout        *StructTag       `json:"layout,omitempty"`
	AskedVersion  SequenceNumber   `json:"askedVersion"`
	LatestVersion SequenceNumber   `json:"latestVersion,omitempty"`
}

// Coin is a summary of one coin object
type Coin struct {
	CoinType            TypeTag        `json:"coinType"`
	CoinObjectID        ObjectID       `json:"coinObjectId"`
	Version             SequenceNumber `json:"version"`
	Digest              Digest         `json:"digest"`
	Balance             uint64         `json:"balance"`
	PreviousTransaction Digest         `json:"previousTransaction"`
}

// Balance is the total of one coin type held by an owner
type Balance struct {
	CoinType        TypeTag `json:"coinType"`
	CoinObjectCount int     `json:"coinObjectCount"`
	TotalBalance    uint64  `json:"totalBalance"`
}

type DynamicFieldKind uint8

const (
	DynamicField DynamicFieldKind = iota
	DynamicObject
)

func (k DynamicFieldKind) String() string {
	if k == DynamicObject {
		return "DynamicObject"
	}

	return "DynamicField"
}

// DynamicFieldName is the typed key of a dynamic field. Value is the
// decoded form of the BCS encoded key.
type DynamicFieldName struct {
	Type  TypeTag     `json:"type"`
	Value interface{} `json:"value"`
	BCS   []byte      `json:"bcsName"`
}

// DynamicFieldInfo describes one child of a parent object. For dynamic
// object fields ObjectID refers to the wrapped object, not the field.
type DynamicFieldInfo struct {
	Name       DynamicFieldName `json:"name"`
	Kind       DynamicFieldKind `json:"type"`
	ObjectType TypeTag          `json:"objectType"`
	ObjectID   ObjectID         `json:"objectId"`
	Version    SequenceNumber   `json:"version"`
	Digest     Digest           `json:"digest"`
}
