package executor

import (
	"encoding/binary"
	"fmt"

	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/types"
)

// Value is a runtime value passed between commands: an object by id, a
// pure BCS value, or a vector of values.
type Value struct {
	Object   *types.ObjectID
	Pure     []byte
	Elements []Value
}

func ObjectValue(id types.ObjectID) Value {
	return Value{Object: &id}
}

func PureValue(b []byte) Value {
	return Value{Pure: b}
}

func U64Value(n uint64) Value {
	return PureValue(types.EncodeU64(n))
}

func (v Value) IsObject() bool {
	return v.Object != nil
}

// NativeFunction implements a Move function natively
type NativeFunction func(ctx *CallContext, typeArgs []types.TypeTag, args []Value) ([]Value, error)

// CallContext exposes the transaction state to native functions
type CallContext struct {
	store       *TemporaryStore
	sender      types.Address
	epoch       uint64
	timestampMs uint64
	call        *types.MoveCall
}

func (c *CallContext) Sender() types.Address {
	return c.sender
}

func (c *CallContext) Epoch() uint64 {
	return c.epoch
}

func (c *CallContext) TimestampMs() uint64 {
	return c.timestampMs
}

func (c *CallContext) Digest() types.Digest {
	return c.store.Digest()
}

// Object loads the object held by v
func (c *CallContext) Object(v Value) (*types.Object, error) {
	if !v.IsObject() {
		return nil, newError(InvalidArgument, "expected an object, got a pure value")
	}

	obj, ok := c.store.Read(*v.Object)
	if !ok {
		return nil, newError(InvalidArgument, "object %s is not available", v.Object)
	}

	return obj, nil
}

// MutableObject loads the object held by v, rejecting immutable objects
func (c *CallContext) MutableObject(v Value) (*types.Object, error) {
	obj, err := c.Object(v)
	if err != nil {
		return nil, err
	}

	if obj.Owner.IsImmutable() {
		return nil, newError(InvalidObjectMutation, "object %s is immutable", obj.ID)
	}

	return obj, nil
}

// LoadObject reads an object by id, such as a dynamic field child
func (c *CallContext) LoadObject(id types.ObjectID) (*types.Object, bool) {
	return c.store.Read(id)
}

func (c *CallContext) Write(obj *types.Object) {
	c.store.Write(obj)
}

func (c *CallContext) Delete(id types.ObjectID) {
	c.store.Delete(id)
}

func (c *CallContext) Wrap(obj *types.Object) {
	c.store.Wrap(obj)
}

// NewObjectID derives a fresh id for an object created by this call
func (c *CallContext) NewObjectID() types.ObjectID {
	return c.store.NextObjectID(crypto.DeriveObjectID)
}

// NewObject creates and writes a move object with a fresh id
func (c *CallContext) NewObject(owner types.Owner, tag *types.StructTag, body []byte) *types.Object {
	obj := types.NewMoveObject(c.NewObjectID(), 0, owner, tag, body, c.Digest())
	c.store.Write(obj)

	return obj
}

// Transfer moves obj to owner. Shared and immutable objects cannot move.
func (c *CallContext) Transfer(obj *types.Object, owner types.Owner) error {
	if obj.Owner.IsShared() || obj.Owner.IsImmutable() {
		return newError(InvalidTransfer, "object %s is %s", obj.ID, obj.Owner.Kind)
	}

	if !obj.HasPublicTransfer {
		return newError(InvalidTransfer, "object %s has no public transfer", obj.ID)
	}

	obj.Owner = owner
	c.store.Write(obj)

	return nil
}

// Emit records an event raised by the current call
func (c *CallContext) Emit(tag *types.StructTag, contents []byte) {
	ev := types.Event{
		Sender:   c.sender,
		Type:     tag,
		Contents: types.CopyBytes(contents),
	}

	if c.call != nil {
		ev.PackageID = c.call.Package
		ev.TransactionModule = c.call.Module
	}

	c.store.EmitEvent(ev)
}

// U64 decodes a pure u64 argument
func U64(v Value) (uint64, error) {
	if v.IsObject() || len(v.Pure) != 8 {
		return 0, newError(InvalidArgument, "expected a u64")
	}

	return binary.LittleEndian.Uint64(v.Pure), nil
}

// AddressArg decodes a pure address argument
func AddressArg(v Value) (types.Address, error) {
	if v.IsObject() || len(v.Pure) != types.AddressLength {
		return types.Address{}, newError(InvalidArgument, "expected an address")
	}

	return types.BytesToAddress(v.Pure), nil
}

func expectArgs(args []Value, n int) error {
	if len(args) != n {
		return newError(InvalidArgument, "expected %d arguments, got %d", n, len(args))
	}

	return nil
}

func expectTypeArgs(typeArgs []types.TypeTag, n int) error {
	if len(typeArgs) != n {
		return newError(InvalidArgument, "expected %d type arguments, got %d", n, len(typeArgs))
	}

	return nil
}

func functionKey(pkg types.ObjectID, module, function string) string {
	return fmt.Sprintf("%s::%s::%s", pkg, module, function)
}
