package executor

import (
	"bytes"
	"fmt"

	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/types"
)

var (
	DynamicFieldType  = types.NewStructTag(types.FrameworkAddress, "dynamic_field", "Field")
	dynamicObjectName = types.NewStructTag(types.FrameworkAddress, "dynamic_object_field", "Wrapper")
)

// DynamicFieldTag returns 0x2::dynamic_field::Field<name, value>
func DynamicFieldTag(name, value types.TypeTag) *types.StructTag {
	return types.NewStructTag(types.FrameworkAddress, "dynamic_field", "Field", name, value)
}

// DynamicObjectNameType returns 0x2::dynamic_object_field::Wrapper<name>
func DynamicObjectNameType(name types.TypeTag) types.TypeTag {
	return types.NewStructTag(types.FrameworkAddress, "dynamic_object_field", "Wrapper", name).TypeTag()
}

// IsDynamicObjectName reports whether tag is a Wrapper<N> name type
func IsDynamicObjectName(tag types.TypeTag) bool {
	st, err := tag.StructTag()
	if err != nil {
		return false
	}

	return st.Is(dynamicObjectName.Address, dynamicObjectName.Module, dynamicObjectName.Name)
}

// move abort codes of the builtin natives
const (
	abortNonZeroCoin       = 0
	abortFieldExists       = 0
	abortFieldDoesNotExist = 1
	abortSharedNotFresh    = 0
)

func abort(code uint64, format string, args ...interface{}) *ExecutionError {
	return newError(MoveAbort, "%s, code %d", fmt.Sprintf(format, args...), code)
}

func (e *NativeExecutor) registerBuiltins() {
	framework := types.FrameworkPackageID

	e.Register(framework, "transfer", "public_transfer", nativePublicTransfer)
	e.Register(framework, "transfer", "public_share_object", nativeShareObject)
	e.Register(framework, "transfer", "public_freeze_object", nativeFreezeObject)
	e.Register(framework, "coin", "value", nativeCoinValue)
	e.Register(framework, "coin", "destroy_zero", nativeCoinDestroyZero)
	e.Register(framework, "clock", "timestamp_ms", nativeClockTimestamp)
	e.Register(framework, "event", "emit", nativeEmit)
	e.Register(framework, "dynamic_field", "add", nativeFieldAdd)
	e.Register(framework, "dynamic_field", "borrow", nativeFieldBorrow)
	e.Register(framework, "dynamic_field", "remove", nativeFieldRemove)
	e.Register(framework, "dynamic_field", "exists_", nativeFieldExists)
	e.Register(framework, "dynamic_object_field", "add", nativeObjectFieldAdd)
	e.Register(framework, "dynamic_object_field", "remove", nativeObjectFieldRemove)
}

func nativePublicTransfer(ctx *CallContext, _ []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectArgs(args, 2); err != nil {
		return nil, err
	}

	obj, err := ctx.Object(args[0])
	if err != nil {
		return nil, err
	}

	recipient, err := AddressArg(args[1])
	if err != nil {
		return nil, err
	}

	return nil, ctx.Transfer(obj, types.AddressOwner(recipient))
}

func nativeShareObject(ctx *CallContext, _ []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectArgs(args, 1); err != nil {
		return nil, err
	}

	obj, err := ctx.MutableObject(args[0])
	if err != nil {
		return nil, err
	}

	if _, existed := ctx.store.Previous(obj.ID); existed {
		return nil, abort(abortSharedNotFresh, "object %s was created before this transaction", obj.ID)
	}

	obj.Owner = types.SharedOwner(ctx.store.LamportVersion())
	ctx.Write(obj)

	return nil, nil
}

func nativeFreezeObject(ctx *CallContext, _ []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectArgs(args, 1); err != nil {
		return nil, err
	}

	obj, err := ctx.MutableObject(args[0])
	if err != nil {
		return nil, err
	}

	if obj.Owner.IsShared() {
		return nil, newError(InvalidTransfer, "shared object %s cannot be frozen", obj.ID)
	}

	obj.Owner = types.ImmutableOwner()
	ctx.Write(obj)

	return nil, nil
}

func coinArg(ctx *CallContext, v Value) (*types.Object, uint64, error) {
	coin, err := ctx.Object(v)
	if err != nil {
		return nil, 0, err
	}

	value, err := coin.CoinValue()
	if err != nil {
		return nil, 0, newError(InvalidArgument, "object %s is not a coin", coin.ID)
	}

	return coin, value, nil
}

func nativeCoinValue(ctx *CallContext, _ []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectArgs(args, 1); err != nil {
		return nil, err
	}

	_, value, err := coinArg(ctx, args[0])
	if err != nil {
		return nil, err
	}

	return []Value{U64Value(value)}, nil
}

func nativeCoinDestroyZero(ctx *CallContext, _ []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectArgs(args, 1); err != nil {
		return nil, err
	}

	coin, value, err := coinArg(ctx, args[0])
	if err != nil {
		return nil, err
	}

	if value != 0 {
		return nil, abort(abortNonZeroCoin, "coin %s holds %d", coin.ID, value)
	}

	ctx.Delete(coin.ID)

	return nil, nil
}

func nativeClockTimestamp(ctx *CallContext, _ []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectArgs(args, 1); err != nil {
		return nil, err
	}

	clock, err := ctx.Object(args[0])
	if err != nil {
		return nil, err
	}

	body := clock.Body()
	if !clock.Type.Is(types.ClockType.Address, types.ClockType.Module, types.ClockType.Name) || len(body) < 8 {
		return nil, newError(InvalidArgument, "object %s is not the clock", clock.ID)
	}

	return []Value{PureValue(types.CopyBytes(body[:8]))}, nil
}

func nativeEmit(ctx *CallContext, typeArgs []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectTypeArgs(typeArgs, 1); err != nil {
		return nil, err
	}

	if err := expectArgs(args, 1); err != nil {
		return nil, err
	}

	tag, err := typeArgs[0].StructTag()
	if err != nil {
		return nil, newError(InvalidArgument, "event type %s is not a struct", typeArgs[0])
	}

	if args[0].IsObject() {
		return nil, newError(InvalidArgument, "events must be pure values")
	}

	ctx.Emit(tag, args[0].Pure)

	return nil, nil
}

// fieldArgs resolves (parent, name) and the derived field id
func fieldArgs(ctx *CallContext, nameType types.TypeTag, args []Value) (*types.Object, []byte, types.ObjectID, error) {
	parent, err := ctx.MutableObject(args[0])
	if err != nil {
		return nil, nil, types.ObjectID{}, err
	}

	if args[1].IsObject() {
		return nil, nil, types.ObjectID{}, newError(InvalidArgument, "dynamic field names must be pure values")
	}

	name := args[1].Pure

	return parent, name, crypto.DeriveDynamicFieldID(parent.ID, nameType, name), nil
}

func nativeFieldAdd(ctx *CallContext, typeArgs []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectTypeArgs(typeArgs, 2); err != nil {
		return nil, err
	}

	if err := expectArgs(args, 3); err != nil {
		return nil, err
	}

	parent, name, fieldID, err := fieldArgs(ctx, typeArgs[0], args)
	if err != nil {
		return nil, err
	}

	if _, exists := ctx.LoadObject(fieldID); exists {
		return nil, abort(abortFieldExists, "field %s already exists on %s", fieldID, parent.ID)
	}

	value := args[2].Pure

	if args[2].IsObject() {
		obj, err := ctx.MutableObject(args[2])
		if err != nil {
			return nil, err
		}

		if obj.Owner.IsShared() {
			return nil, newError(InvalidTransfer, "shared object %s cannot be wrapped", obj.ID)
		}

		value = obj.Contents
		ctx.Wrap(obj)
	}

	body := append(types.CopyBytes(name), value...)
	field := types.NewMoveObject(fieldID, 0, types.ObjectOwner(parent.ID),
		DynamicFieldTag(typeArgs[0], typeArgs[1]), body, ctx.Digest())

	ctx.Write(field)
	ctx.Write(parent)

	return nil, nil
}

func loadField(ctx *CallContext, parent *types.Object, fieldID types.ObjectID, name []byte) (*types.Object, []byte, error) {
	field, ok := ctx.LoadObject(fieldID)
	if !ok || field.Owner != types.ObjectOwner(parent.ID) {
		return nil, nil, abort(abortFieldDoesNotExist, "field %s does not exist on %s", fieldID, parent.ID)
	}

	body := field.Body()
	if !bytes.HasPrefix(body, name) {
		return nil, nil, newError(InvalidArgument, "field %s has a different name", fieldID)
	}

	return field, body[len(name):], nil
}

func nativeFieldBorrow(ctx *CallContext, typeArgs []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectTypeArgs(typeArgs, 2); err != nil {
		return nil, err
	}

	if err := expectArgs(args, 2); err != nil {
		return nil, err
	}

	parent, name, fieldID, err := fieldArgs(ctx, typeArgs[0], args)
	if err != nil {
		return nil, err
	}

	_, value, err := loadField(ctx, parent, fieldID, name)
	if err != nil {
		return nil, err
	}

	return []Value{PureValue(types.CopyBytes(value))}, nil
}

func nativeFieldExists(ctx *CallContext, typeArgs []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectTypeArgs(typeArgs, 1); err != nil {
		return nil, err
	}

	if err := expectArgs(args, 2); err != nil {
		return nil, err
	}

	parent, name, fieldID, err := fieldArgs(ctx, typeArgs[0], args)
	if err != nil {
		return nil, err
	}

	_, _, err = loadField(ctx, parent, fieldID, name)

	return []Value{PureValue([]byte{boolByte(err == nil)})}, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}

	return 0
}

// isPureStruct reports whether a struct type is passed by value rather
// than as an object
func isPureStruct(tag types.TypeTag) bool {
	return tag == types.ObjectIDType || tag == types.StringType || tag == types.ASCIIStringType
}

func nativeFieldRemove(ctx *CallContext, typeArgs []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectTypeArgs(typeArgs, 2); err != nil {
		return nil, err
	}

	if err := expectArgs(args, 2); err != nil {
		return nil, err
	}

	parent, name, fieldID, err := fieldArgs(ctx, typeArgs[0], args)
	if err != nil {
		return nil, err
	}

	_, value, err := loadField(ctx, parent, fieldID, name)
	if err != nil {
		return nil, err
	}

	ctx.Delete(fieldID)
	ctx.Write(parent)

	valueType := typeArgs[1]
	if !valueType.IsStruct() || isPureStruct(valueType) || len(value) < types.AddressLength {
		return []Value{PureValue(types.CopyBytes(value))}, nil
	}

	tag, err := valueType.StructTag()
	if err != nil {
		return nil, newError(InvalidArgument, "invalid value type %s", valueType)
	}

	// unwrap: the object comes back to the sender with its original uid
	obj := &types.Object{
		ID:                types.BytesToObjectID(value[:types.AddressLength]),
		Owner:             types.AddressOwner(ctx.Sender()),
		Type:              tag,
		HasPublicTransfer: true,
		Contents:          types.CopyBytes(value),
	}
	ctx.Write(obj)

	return []Value{ObjectValue(obj.ID)}, nil
}

func nativeObjectFieldAdd(ctx *CallContext, typeArgs []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectTypeArgs(typeArgs, 2); err != nil {
		return nil, err
	}

	if err := expectArgs(args, 3); err != nil {
		return nil, err
	}

	wrapperType := DynamicObjectNameType(typeArgs[0])

	parent, name, fieldID, err := fieldArgs(ctx, wrapperType, args)
	if err != nil {
		return nil, err
	}

	if _, exists := ctx.LoadObject(fieldID); exists {
		return nil, abort(abortFieldExists, "field %s already exists on %s", fieldID, parent.ID)
	}

	child, err := ctx.MutableObject(args[2])
	if err != nil {
		return nil, err
	}

	body := append(types.CopyBytes(name), child.ID[:]...)
	field := types.NewMoveObject(fieldID, 0, types.ObjectOwner(parent.ID),
		DynamicFieldTag(wrapperType, types.ObjectIDType), body, ctx.Digest())

	if err := ctx.Transfer(child, types.ObjectOwner(fieldID)); err != nil {
		return nil, err
	}

	ctx.Write(field)
	ctx.Write(parent)

	return nil, nil
}

func nativeObjectFieldRemove(ctx *CallContext, typeArgs []types.TypeTag, args []Value) ([]Value, error) {
	if err := expectTypeArgs(typeArgs, 2); err != nil {
		return nil, err
	}

	if err := expectArgs(args, 2); err != nil {
		return nil, err
	}

	parent, name, fieldID, err := fieldArgs(ctx, DynamicObjectNameType(typeArgs[0]), args)
	if err != nil {
		return nil, err
	}

	_, value, err := loadField(ctx, parent, fieldID, name)
	if err != nil {
		return nil, err
	}

	if len(value) != types.AddressLength {
		return nil, newError(InvalidArgument, "field %s does not hold an object id", fieldID)
	}

	child, ok := ctx.LoadObject(types.BytesToObjectID(value))
	if !ok {
		return nil, abort(abortFieldDoesNotExist, "object %x behind field %s is missing", value, fieldID)
	}

	child.Owner = types.AddressOwner(ctx.Sender())
	ctx.Write(child)
	ctx.Delete(fieldID)
	ctx.Write(parent)

	return []Value{ObjectValue(child.ID)}, nil
}
