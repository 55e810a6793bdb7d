package ledger

import (
	"testing"

	"github.com/dogechain-lab/moveledger/state"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldCall(module, function string, typeArgs []types.TypeTag, args ...types.Argument) types.Command {
	return types.MoveCallCommand(&types.MoveCall{
		Package:       types.FrameworkPackageID,
		Module:        module,
		Function:      function,
		TypeArguments: typeArgs,
		Arguments:     args,
	})
}

func TestDynamicFields(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	owner := types.AddressOwner(l.alice.Address())

	parent := types.NewMoveObject(types.ObjectIDFromUint64(0x300), 1, owner, counterType, nil, types.ZeroDigest)
	child := types.NewMoveObject(types.ObjectIDFromUint64(0x301), 1, owner, counterType, types.EncodeU64(5), types.ZeroDigest)

	require.NoError(t, l.CreateObject(parent))
	require.NoError(t, l.CreateObject(child))

	data := l.data(t, l.alice, &types.ProgrammableTransaction{
		Inputs: []types.CallArg{
			types.OwnedObjectArg(parent.Reference()),
			types.PureArg(types.EncodeU64(1)),
			types.PureArg(types.EncodeU64(99)),
			types.PureArg(types.EncodeBCSBytes([]byte("key"))),
			types.OwnedObjectArg(child.Reference()),
		},
		Commands: []types.Command{
			fieldCall("dynamic_field", "add", []types.TypeTag{"u64", "u64"},
				types.InputArg(0), types.InputArg(1), types.InputArg(2)),
			fieldCall("dynamic_object_field", "add", []types.TypeTag{types.StringType, counterType.TypeTag()},
				types.InputArg(0), types.InputArg(3), types.InputArg(4)),
		},
	})

	resp := l.execute(t, sign(t, data, l.alice))
	require.False(t, resp.Failed(), "errors: %v", resp.Errors)

	// children leave the owner index of alice
	for _, obj := range l.OwnedObjects(l.alice.Address()) {
		assert.NotEqual(t, child.ID, obj.ID)
	}

	fields, err := l.DynamicFields(parent.ID)
	require.NoError(t, err)
	require.Len(t, fields, 2)

	byKind := make(map[types.DynamicFieldKind]types.DynamicFieldInfo)
	for _, f := range fields {
		byKind[f.Kind] = f
	}

	value := byKind[types.DynamicField]
	assert.Equal(t, types.TypeTag("u64"), value.Name.Type)
	assert.Equal(t, "1", value.Name.Value)
	assert.Equal(t, types.EncodeU64(1), value.Name.BCS)
	assert.Equal(t, types.TypeTag("u64"), value.ObjectType)

	object := byKind[types.DynamicObject]
	assert.Equal(t, types.StringType, object.Name.Type)
	assert.Equal(t, "key", object.Name.Value)
	assert.Equal(t, child.ID, object.ObjectID)
	assert.Equal(t, counterType.TypeTag(), object.ObjectType)

	field, err := l.DynamicFieldObject(parent.ID, value.Name)
	require.NoError(t, err)
	assert.Equal(t, value.ObjectID, field.ID)
	assert.Equal(t, types.ObjectOwner(parent.ID), field.Owner)

	resolved, err := l.DynamicFieldObject(parent.ID, object.Name)
	require.NoError(t, err)
	assert.Equal(t, child.ID, resolved.ID)
	assert.Equal(t, types.EncodeU64(5), resolved.Body())

	_, err = l.DynamicFieldObject(parent.ID, types.DynamicFieldName{Type: "u64", BCS: types.EncodeU64(2)})
	assert.ErrorIs(t, err, state.ErrObjectNotFound)

	_, err = l.DynamicFields(types.ObjectIDFromUint64(0xdead))
	assert.ErrorIs(t, err, state.ErrObjectNotFound)

	// other objects have no fields
	none, err := l.DynamicFields(l.coin(l.bob, 0))
	require.NoError(t, err)
	assert.Empty(t, none)
}
