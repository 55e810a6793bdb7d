package types

import (
	"github.com/dogechain-lab/fastrlp"
)

// ExecutionStatus is the outcome recorded in effects
type ExecutionStatus struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// GasCostSummary breaks down the gas charged for a transaction
type GasCostSummary struct {
	ComputationCost         uint64 `json:"computationCost"`
	StorageCost             uint64 `json:"storageCost"`
	StorageRebate           uint64 `json:"storageRebate"`
	NonRefundableStorageFee uint64 `json:"nonRefundableStorageFee"`
}

// NetGasUsage is computation plus storage minus the rebate
func (g GasCostSummary) NetGasUsage() int64 {
	return int64(g.ComputationCost+g.StorageCost) - int64(g.StorageRebate)
}

// GasUsed is the amount deducted from the gas coin
func (g GasCostSummary) GasUsed() uint64 {
	if g.ComputationCost+g.StorageCost < g.StorageRebate {
		return 0
	}

	return g.ComputationCost + g.StorageCost - g.StorageRebate
}

// OwnedObjectRef is an object reference with the owner after execution
type OwnedObjectRef struct {
	Owner     Owner     `json:"owner"`
	Reference ObjectRef `json:"reference"`
}

// TransactionEffects is the structured outcome of executing a transaction
type TransactionEffects struct {
	Status               ExecutionStatus  `json:"status"`
	ExecutedEpoch        uint64           `json:"executedEpoch"`
	GasUsed              GasCostSummary   `json:"gasUsed"`
	TransactionDigest    Digest           `json:"transactionDigest"`
	Created              []OwnedObjectRef `json:"created,omitempty"`
	Mutated              []OwnedObjectRef `json:"mutated,omitempty"`
	Unwrapped            []OwnedObjectRef `json:"unwrapped,omitempty"`
	Deleted              []ObjectRef      `json:"deleted,omitempty"`
	UnwrappedThenDeleted []ObjectRef      `json:"unwrappedThenDeleted,omitempty"`
	Wrapped              []ObjectRef      `json:"wrapped,omitempty"`
	GasObject            OwnedObjectRef   `json:"gasObject"`
	EventsDigest         *Digest          `json:"eventsDigest,omitempty"`
	Dependencies         []Digest         `json:"dependencies,omitempty"`
}

// AllTombstones lists objects that stopped existing independently
func (e *TransactionEffects) AllTombstones() []ObjectRef {
	out := make([]ObjectRef, 0, len(e.Deleted)+len(e.UnwrappedThenDeleted)+len(e.Wrapped))
	out = append(out, e.Deleted...)
	out = append(out, e.UnwrappedThenDeleted...)
	out = append(out, e.Wrapped...)

	return out
}

// WrappedIDs returns the set of ids wrapped by the transaction
func (e *TransactionEffects) WrappedIDs() map[ObjectID]struct{} {
	out := make(map[ObjectID]struct{}, len(e.Wrapped))
	for _, r := range e.Wrapped {
		out[r.ObjectID] = struct{}{}
	}

	return out
}

func (s ExecutionStatus) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(newBool(ar, s.Success))
	v.Set(newString(ar, s.Error))

	return v
}

func (s *ExecutionStatus) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "execution status", 2)
	if err != nil {
		return err
	}

	if s.Success, err = decodeBool(elems[0]); err != nil {
		return err
	}

	s.Error, err = DecodeString(elems[1])

	return err
}

func (g GasCostSummary) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(g.ComputationCost))
	v.Set(ar.NewUint(g.StorageCost))
	v.Set(ar.NewUint(g.StorageRebate))
	v.Set(ar.NewUint(g.NonRefundableStorageFee))

	return v
}

func (g *GasCostSummary) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "gas cost summary", 4)
	if err != nil {
		return err
	}

	fields := []*uint64{&g.ComputationCost, &g.StorageCost, &g.StorageRebate, &g.NonRefundableStorageFee}

	for i, elem := range elems {
		if *fields[i], err = elem.GetUint64(); err != nil {
			return err
		}
	}

	return nil
}

func (r OwnedObjectRef) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(r.Owner.MarshalWith(ar))
	v.Set(r.Reference.MarshalWith(ar))

	return v
}

func (r *OwnedObjectRef) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "owned object ref", 2)
	if err != nil {
		return err
	}

	if err := r.Owner.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	return r.Reference.UnmarshalValue(elems[1])
}

func newOwnedRefs(ar *fastrlp.Arena, refs []OwnedObjectRef) *fastrlp.Value {
	v := ar.NewArray()
	for _, r := range refs {
		v.Set(r.MarshalWith(ar))
	}

	return v
}

func decodeOwnedRefs(v *fastrlp.Value) ([]OwnedObjectRef, error) {
	elems, err := ElemsOf(v, "owned object refs", -1)
	if err != nil {
		return nil, err
	}

	if len(elems) == 0 {
		return nil, nil
	}

	refs := make([]OwnedObjectRef, len(elems))

	for i, elem := range elems {
		if err := refs[i].UnmarshalValue(elem); err != nil {
			return nil, err
		}
	}

	return refs, nil
}

func (e *TransactionEffects) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(e.Status.MarshalWith(ar))
	v.Set(ar.NewUint(e.ExecutedEpoch))
	v.Set(e.GasUsed.MarshalWith(ar))
	v.Set(e.TransactionDigest.MarshalWith(ar))
	v.Set(newOwnedRefs(ar, e.Created))
	v.Set(newOwnedRefs(ar, e.Mutated))
	v.Set(newOwnedRefs(ar, e.Unwrapped))
	v.Set(newObjectRefs(ar, e.Deleted))
	v.Set(newObjectRefs(ar, e.UnwrappedThenDeleted))
	v.Set(newObjectRefs(ar, e.Wrapped))
	v.Set(e.GasObject.MarshalWith(ar))

	events := ar.NewArray()
	if e.EventsDigest != nil {
		events.Set(e.EventsDigest.MarshalWith(ar))
	}

	v.Set(events)
	v.Set(NewDigests(ar, e.Dependencies))

	return v
}

func (e *TransactionEffects) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "effects", 13)
	if err != nil {
		return err
	}

	if err := e.Status.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	if e.ExecutedEpoch, err = elems[1].GetUint64(); err != nil {
		return err
	}

	if err := e.GasUsed.UnmarshalValue(elems[2]); err != nil {
		return err
	}

	if err := e.TransactionDigest.UnmarshalValue(elems[3]); err != nil {
		return err
	}

	if e.Created, err = decodeOwnedRefs(elems[4]); err != nil {
		return err
	}

	if e.Mutated, err = decodeOwnedRefs(elems[5]); err != nil {
		return err
	}

	if e.Unwrapped, err = decodeOwnedRefs(elems[6]); err != nil {
		return err
	}

	if e.Deleted, err = decodeObjectRefs(elems[7]); err != nil {
		return err
	}

	if e.UnwrappedThenDeleted, err = decodeObjectRefs(elems[8]); err != nil {
		return err
	}

	if e.Wrapped, err = decodeObjectRefs(elems[9]); err != nil {
		return err
	}

	if err := e.GasObject.UnmarshalValue(elems[10]); err != nil {
		return err
	}

	eventsDigest, err := DecodeDigests(elems[11])
	if err != nil {
		return err
	}

	e.EventsDigest = nil

	if len(eventsDigest) > 0 {
		e.EventsDigest = &eventsDigest[0]
	}

	e.Dependencies, err = DecodeDigests(elems[12])

	return err
}

// Event is emitted by a move function during execution
type Event struct {
	PackageID         ObjectID   `json:"packageId"`
	TransactionModule string     `json:"transactionModule"`
	Sender            Address    `json:"sender"`
	Type              *StructTag `json:"type"`
	Contents          []byte     `json:"contents"`
}

func (e *Event) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(e.PackageID.MarshalWith(ar))
	v.Set(newString(ar, e.TransactionModule))
	v.Set(e.Sender.MarshalWith(ar))
	v.Set(newOptionalStructTag(ar, e.Type))
	v.Set(ar.NewCopyBytes(e.Contents))

	return v
}

func (e *Event) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "event", 5)
	if err != nil {
		return err
	}

	if err := e.PackageID.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	if e.TransactionModule, err = DecodeString(elems[1]); err != nil {
		return err
	}

	if err := e.Sender.UnmarshalValue(elems[2]); err != nil {
		return err
	}

	if e.Type, err = decodeOptionalStructTag(elems[3]); err != nil {
		return err
	}

	e.Contents, err = DecodeBytes(elems[4])

	return err
}

// EventsDigest hashes the canonical encoding of a list of events
func EventsDigest(events []Event) Digest {
	return MarshalDigest("TransactionEvents::", eventList(events))
}

type eventList []Event

func (l eventList) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	for i := range l {
		v.Set(l[i].MarshalWith(ar))
	}

	return v
}
