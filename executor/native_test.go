package executor

import (
	"testing"

	"github.com/dogechain-lab/moveledger/chain"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBudget = 50_000_000

var (
	testRecipient = types.Address{0xbb}
	counterType   = types.NewStructTag(types.Address{0xcc}, "counter", "Counter")
)

type fixture struct {
	reader mapReader
	owner  types.Address
	gasID  types.ObjectID
	params *chain.Params
	exec   *NativeExecutor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		reader: mapReader{},
		owner:  types.Address{0xaa},
		gasID:  types.ObjectIDFromUint64(0x100),
		params: chain.DefaultParams(),
		exec:   NewNativeExecutor(nil),
	}

	for _, obj := range chain.DefaultGenesis().Objects() {
		f.reader[obj.ID] = obj
	}

	f.add(types.NewGasCoin(f.gasID, 1, f.owner, types.MistPerSui, types.ZeroDigest))

	return f
}

func (f *fixture) add(obj *types.Object) *types.Object {
	f.reader[obj.ID] = obj

	return obj
}

func (f *fixture) execute(t *testing.T, pt *types.ProgrammableTransaction, budget uint64, inputs ...types.ObjectID) *ExecutionOutput {
	t.Helper()

	gas := f.reader[f.gasID]
	tx := types.NewProgrammableTransactionData(f.owner, []types.ObjectRef{gas.Reference()}, pt, budget, 10)

	status, err := NewGasStatus(budget, 10, 10, f.params)
	require.NoError(t, err)

	checked := &CheckedInputObjects{Gas: []*types.Object{gas}}
	for _, id := range inputs {
		checked.Objects = append(checked.Objects, f.reader[id])
	}

	return f.exec.Execute(&ExecutionParams{
		Store:   f.reader,
		Params:  f.params,
		Inputs:  checked,
		GasData: tx.GasData,
		Gas:     status,
		Kind:    tx.Kind,
		Sender:  f.owner,
		Digest:  tx.Digest(),
	})
}

func (f *fixture) apply(out *ExecutionOutput) {
	for _, obj := range out.Store.Written() {
		f.reader[obj.ID] = obj
	}

	for _, id := range out.Store.Deleted() {
		delete(f.reader, id)
	}

	for _, obj := range out.Store.WrappedObjects() {
		delete(f.reader, obj.ID)
	}
}

func writtenObject(t *testing.T, out *ExecutionOutput, id types.ObjectID) *types.Object {
	t.Helper()

	for _, obj := range out.Store.Written() {
		if obj.ID == id {
			return obj
		}
	}

	require.Failf(t, "object not written", "%s", id)

	return nil
}

func coinValue(t *testing.T, obj *types.Object) uint64 {
	t.Helper()

	value, err := obj.CoinValue()
	require.NoError(t, err)

	return value
}

func TestExecuteSplitAndTransfer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	out := f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{types.PureArg(types.EncodeU64(100)), types.PureArg(testRecipient.Bytes())},
		Commands: []types.Command{
			types.SplitCoinsCommand(types.GasCoinArg(), []types.Argument{types.InputArg(0)}),
			types.TransferObjectsCommand([]types.Argument{types.ResultArg(0)}, types.InputArg(1)),
		},
	}, testBudget)
	require.Nil(t, out.Err)
	assert.True(t, out.Effects.Status.Success)

	require.Len(t, out.Effects.Created, 1)
	created := writtenObject(t, out, out.Effects.Created[0].Reference.ObjectID)
	assert.Equal(t, types.AddressOwner(testRecipient), created.Owner)
	assert.Equal(t, uint64(100), coinValue(t, created))
	assert.Equal(t, types.SequenceNumber(2), created.Version)

	gas := out.Effects.GasUsed
	assert.Equal(t, uint64(3_000*10), gas.ComputationCost)
	assert.NotZero(t, gas.StorageCost)

	gasCoin := writtenObject(t, out, f.gasID)
	assert.Equal(t, types.MistPerSui-100-gas.ComputationCost-gas.StorageCost+gas.StorageRebate, coinValue(t, gasCoin))
	assert.Equal(t, gasCoin.Reference(), out.Effects.GasObject.Reference)
	assert.Equal(t, uint64(gasCoin.Size())*f.params.StoragePrice, gasCoin.StorageRebate)
}

func TestExecuteFailureRevertsCommands(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	coin := f.add(types.NewGasCoin(types.ObjectIDFromUint64(0x200), 1, f.owner, 10, types.ZeroDigest))

	out := f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{
			types.OwnedObjectArg(coin.Reference()),
			types.PureArg(types.EncodeU64(5)),
			types.PureArg(types.EncodeU64(50)),
		},
		Commands: []types.Command{
			types.SplitCoinsCommand(types.InputArg(0), []types.Argument{types.InputArg(1)}),
			types.SplitCoinsCommand(types.InputArg(0), []types.Argument{types.InputArg(2)}),
		},
	}, testBudget, coin.ID)

	require.NotNil(t, out.Err)
	assert.Equal(t, InsufficientCoinBalance, out.Err.Kind)
	assert.Equal(t, 1, out.Err.Command)
	assert.False(t, out.Effects.Status.Success)
	assert.Equal(t, out.Err.Error(), out.Effects.Status.Error)

	// only the gas coin is touched
	written := out.Store.Written()
	require.Len(t, written, 1)
	assert.Equal(t, f.gasID, written[0].ID)
	assert.Empty(t, out.Effects.Created)
	assert.Less(t, coinValue(t, written[0]), types.MistPerSui)
}

func TestExecuteOutOfGas(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	budget := f.params.MinGasBudget(10)

	out := f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{types.PureArg(testRecipient.Bytes())},
		Commands: []types.Command{
			types.TransferObjectsCommand([]types.Argument{types.GasCoinArg()}, types.InputArg(0)),
		},
	}, budget)

	require.NotNil(t, out.Err)
	assert.Equal(t, InsufficientGas, out.Err.Kind)

	gasCoin := writtenObject(t, out, f.gasID)
	assert.Equal(t, types.AddressOwner(f.owner), gasCoin.Owner)
	assert.Equal(t, types.MistPerSui-budget, coinValue(t, gasCoin))
}

func TestExecuteMergeCoins(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a := f.add(types.NewGasCoin(types.ObjectIDFromUint64(0x200), 1, f.owner, 10, types.ZeroDigest))
	b := f.add(types.NewGasCoin(types.ObjectIDFromUint64(0x201), 4, f.owner, 32, types.ZeroDigest))

	out := f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{types.OwnedObjectArg(a.Reference()), types.OwnedObjectArg(b.Reference())},
		Commands: []types.Command{
			types.MergeCoinsCommand(types.InputArg(0), []types.Argument{types.InputArg(1)}),
		},
	}, testBudget, a.ID, b.ID)
	require.Nil(t, out.Err)

	merged := writtenObject(t, out, a.ID)
	assert.Equal(t, uint64(42), coinValue(t, merged))
	assert.Equal(t, types.SequenceNumber(5), merged.Version)
	assert.Equal(t, []types.ObjectID{b.ID}, out.Store.Deleted())
	require.Len(t, out.Effects.Deleted, 1)
}

func TestExecuteMergeGasCoinRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a := f.add(types.NewGasCoin(types.ObjectIDFromUint64(0x200), 1, f.owner, 10, types.ZeroDigest))

	out := f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{types.OwnedObjectArg(a.Reference())},
		Commands: []types.Command{
			types.MergeCoinsCommand(types.InputArg(0), []types.Argument{types.GasCoinArg()}),
		},
	}, testBudget, a.ID)

	require.NotNil(t, out.Err)
	assert.Equal(t, InvalidGasObject, out.Err.Kind)
}

func TestExecutePublish(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	out := f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{types.PureArg(f.owner.Bytes())},
		Commands: []types.Command{
			types.PublishCommand(
				[]types.PackageModule{{Name: "counter", Bytecode: []byte{1}}, {Name: "admin", Bytecode: []byte{2}}},
				[]types.ObjectID{types.StdlibPackageID, types.FrameworkPackageID},
			),
			types.TransferObjectsCommand([]types.Argument{types.ResultArg(0)}, types.InputArg(0)),
		},
	}, testBudget)
	require.Nil(t, out.Err)
	require.Len(t, out.Effects.Created, 2)

	var pkg, upgradeCap *types.Object

	for _, ref := range out.Effects.Created {
		obj := writtenObject(t, out, ref.Reference.ObjectID)
		if obj.IsPackage() {
			pkg = obj
		} else {
			upgradeCap = obj
		}
	}

	require.NotNil(t, pkg)
	require.NotNil(t, upgradeCap)

	assert.Equal(t, types.SequenceNumber(1), pkg.Version)
	assert.Equal(t, []string{"admin", "counter"}, pkg.ModuleNames())
	assert.True(t, pkg.Owner.IsImmutable())
	assert.Equal(t, types.UpgradeCapType.String(), upgradeCap.Type.String())
	assert.Equal(t, types.AddressOwner(f.owner), upgradeCap.Owner)
	assert.Equal(t, pkg.ID[:], upgradeCap.Body()[:types.AddressLength])
}

func TestExecutePublishMissingDependency(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	out := f.execute(t, &types.ProgrammableTransaction{
		Commands: []types.Command{
			types.PublishCommand([]types.PackageModule{{Name: "m"}}, []types.ObjectID{types.ObjectIDFromUint64(0x99)}),
		},
	}, testBudget)

	require.NotNil(t, out.Err)
	assert.Equal(t, PackageNotFound, out.Err.Kind)
}

func TestExecuteMoveCallResolution(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name string
		call *types.MoveCall
		kind ErrorKind
	}{
		{"unknown package", &types.MoveCall{Package: types.ObjectIDFromUint64(0x99), Module: "m", Function: "f"}, PackageNotFound},
		{"unknown module", &types.MoveCall{Package: types.FrameworkPackageID, Module: "nope", Function: "f"}, FunctionNotFound},
		{"unknown function", &types.MoveCall{Package: types.FrameworkPackageID, Module: "coin", Function: "nope"}, FunctionNotFound},
	}

	for _, tt := range tests {
		out := f.execute(t, &types.ProgrammableTransaction{
			Commands: []types.Command{types.MoveCallCommand(tt.call)},
		}, testBudget)

		require.NotNil(t, out.Err, tt.name)
		assert.Equal(t, tt.kind, out.Err.Kind, tt.name)
	}
}

func TestExecuteRegisteredNative(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	pkgID := types.ObjectIDFromUint64(0xcc)
	f.add(types.NewPackage(pkgID, 1, []types.PackageModule{{Name: "counter"}}, types.ZeroDigest))

	f.exec.Register(pkgID, "counter", "create", func(ctx *CallContext, _ []types.TypeTag, args []Value) ([]Value, error) {
		start, err := U64(args[0])
		if err != nil {
			return nil, err
		}

		obj := ctx.NewObject(types.AddressOwner(ctx.Sender()), counterType, types.EncodeU64(start))
		ctx.Emit(counterType, obj.ID[:])

		return []Value{ObjectValue(obj.ID)}, nil
	})

	out := f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{types.PureArg(types.EncodeU64(7))},
		Commands: []types.Command{
			types.MoveCallCommand(&types.MoveCall{
				Package:   pkgID,
				Module:    "counter",
				Function:  "create",
				Arguments: []types.Argument{types.InputArg(0)},
			}),
		},
	}, testBudget)
	require.Nil(t, out.Err)

	require.Len(t, out.Effects.Created, 1)
	events := out.Store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, pkgID, events[0].PackageID)
	assert.Equal(t, "counter", events[0].TransactionModule)
	assert.Equal(t, f.owner, events[0].Sender)
	require.NotNil(t, out.Effects.EventsDigest)
	assert.Equal(t, types.EventsDigest(events), *out.Effects.EventsDigest)
}

func TestExecuteDynamicFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	parent := f.add(types.NewMoveObject(types.ObjectIDFromUint64(0x300), 1, types.AddressOwner(f.owner), counterType, nil, types.ZeroDigest))
	item := f.add(types.NewMoveObject(types.ObjectIDFromUint64(0x301), 1, types.AddressOwner(f.owner), counterType, nil, types.ZeroDigest))

	fieldCall := func(module, function string, typeArgs []types.TypeTag, args ...types.Argument) types.Command {
		return types.MoveCallCommand(&types.MoveCall{
			Package:       types.FrameworkPackageID,
			Module:        module,
			Function:      function,
			TypeArguments: typeArgs,
			Arguments:     args,
		})
	}

	// add a u64 field and wrap item under a second key
	out := f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{
			types.OwnedObjectArg(parent.Reference()),
			types.PureArg(types.EncodeU64(1)),
			types.PureArg(types.EncodeU64(99)),
			types.OwnedObjectArg(item.Reference()),
			types.PureArg(types.EncodeU64(2)),
		},
		Commands: []types.Command{
			fieldCall("dynamic_field", "add", []types.TypeTag{"u64", "u64"},
				types.InputArg(0), types.InputArg(1), types.InputArg(2)),
			fieldCall("dynamic_field", "add", []types.TypeTag{"u64", counterType.TypeTag()},
				types.InputArg(0), types.InputArg(4), types.InputArg(3)),
		},
	}, testBudget, parent.ID, item.ID)
	require.Nil(t, out.Err)

	require.Len(t, out.Effects.Created, 2)
	for _, ref := range out.Effects.Created {
		assert.Equal(t, types.ObjectOwner(parent.ID), ref.Owner)
	}

	require.Len(t, out.Effects.Wrapped, 1)
	assert.Equal(t, item.ID, out.Effects.Wrapped[0].ObjectID)
	assert.Equal(t, parent.ID, writtenObject(t, out, parent.ID).ID)

	f.apply(out)
	parent = f.reader[parent.ID]

	// removing the wrapped value unwraps item back to the sender
	out = f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{
			types.OwnedObjectArg(parent.Reference()),
			types.PureArg(types.EncodeU64(2)),
		},
		Commands: []types.Command{
			fieldCall("dynamic_field", "remove", []types.TypeTag{"u64", counterType.TypeTag()},
				types.InputArg(0), types.InputArg(1)),
		},
	}, testBudget, parent.ID)
	require.Nil(t, out.Err)

	unwrapped := writtenObject(t, out, item.ID)
	assert.Equal(t, types.AddressOwner(f.owner), unwrapped.Owner)
	assert.Equal(t, counterType.String(), unwrapped.Type.String())
	require.Len(t, out.Effects.Deleted, 1)

	// a second add under an existing key aborts
	f.apply(out)
	parent = f.reader[parent.ID]

	out = f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{
			types.OwnedObjectArg(parent.Reference()),
			types.PureArg(types.EncodeU64(1)),
			types.PureArg(types.EncodeU64(5)),
		},
		Commands: []types.Command{
			fieldCall("dynamic_field", "add", []types.TypeTag{"u64", "u64"},
				types.InputArg(0), types.InputArg(1), types.InputArg(2)),
		},
	}, testBudget, parent.ID)
	require.NotNil(t, out.Err)
	assert.Equal(t, MoveAbort, out.Err.Kind)
}

func TestExecuteDynamicObjectField(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	parent := f.add(types.NewMoveObject(types.ObjectIDFromUint64(0x300), 1, types.AddressOwner(f.owner), counterType, nil, types.ZeroDigest))
	child := f.add(types.NewMoveObject(types.ObjectIDFromUint64(0x301), 1, types.AddressOwner(f.owner), counterType, nil, types.ZeroDigest))

	out := f.execute(t, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{
			types.OwnedObjectArg(parent.Reference()),
			types.PureArg(types.EncodeBCSBytes([]byte("key"))),
			types.OwnedObjectArg(child.Reference()),
		},
		Commands: []types.Command{
			types.MoveCallCommand(&types.MoveCall{
				Package:       types.FrameworkPackageID,
				Module:        "dynamic_object_field",
				Function:      "add",
				TypeArguments: []types.TypeTag{types.StringType, counterType.TypeTag()},
				Arguments:     []types.Argument{types.InputArg(0), types.InputArg(1), types.InputArg(2)},
			}),
		},
	}, testBudget, parent.ID, child.ID)
	require.Nil(t, out.Err)

	require.Len(t, out.Effects.Created, 1)
	field := writtenObject(t, out, out.Effects.Created[0].Reference.ObjectID)
	assert.Equal(t, types.ObjectOwner(parent.ID), field.Owner)
	assert.Equal(t, types.ObjectOwner(field.ID), writtenObject(t, out, child.ID).Owner)
	assert.Empty(t, out.Effects.Wrapped)
}
