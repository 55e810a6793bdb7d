package executor

import (
	"testing"

	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader map[types.ObjectID]*types.Object

func (m mapReader) Object(id types.ObjectID) (*types.Object, bool) {
	obj, ok := m[id]

	return obj, ok
}

func TestTemporaryStoreSnapshot(t *testing.T) {
	t.Parallel()

	owner := types.Address{1}
	coin := types.NewGasCoin(types.ObjectIDFromUint64(0x10), 3, owner, 100, types.ZeroDigest)

	store := NewTemporaryStore(mapReader{}, &CheckedInputObjects{Gas: []*types.Object{coin}}, types.Digest{9})
	assert.Equal(t, types.SequenceNumber(4), store.LamportVersion())

	snapshot := store.Snapshot()

	updated := coin.Copy()
	require.NoError(t, updated.SetCoinValue(50))
	store.Write(updated)
	store.EmitEvent(types.Event{Sender: owner, Type: types.ClockType})

	read, ok := store.Read(coin.ID)
	require.True(t, ok)

	value, _ := read.CoinValue()
	assert.Equal(t, uint64(50), value)
	assert.Len(t, store.Events(), 1)

	store.RevertToSnapshot(snapshot)

	read, ok = store.Read(coin.ID)
	require.True(t, ok)

	value, _ = read.CoinValue()
	assert.Equal(t, uint64(100), value)
	assert.Empty(t, store.Written())
	assert.Empty(t, store.Events())

	// the input itself is never modified
	value, _ = coin.CoinValue()
	assert.Equal(t, uint64(100), value)
}

func TestTemporaryStoreVisibility(t *testing.T) {
	t.Parallel()

	owner := types.Address{1}
	parent := types.ObjectIDFromUint64(0x20)

	owned := types.NewGasCoin(types.ObjectIDFromUint64(0x30), 1, owner, 1, types.ZeroDigest)
	child := types.NewMoveObject(types.ObjectIDFromUint64(0x31), 1, types.ObjectOwner(parent),
		types.ClockType, nil, types.ZeroDigest)
	pkg := types.NewPackage(types.FrameworkPackageID, 1, []types.PackageModule{{Name: "coin"}}, types.ZeroDigest)

	reader := mapReader{owned.ID: owned, child.ID: child, pkg.ID: pkg}
	store := NewTemporaryStore(reader, &CheckedInputObjects{}, types.Digest{1})

	_, ok := store.Read(owned.ID)
	assert.False(t, ok, "owned objects must be declared inputs")

	_, ok = store.Read(child.ID)
	assert.True(t, ok)

	_, ok = store.Read(pkg.ID)
	assert.True(t, ok)
}

func TestTemporaryStoreEffects(t *testing.T) {
	t.Parallel()

	owner := types.Address{1}
	digest := types.Digest{7}

	gas := types.NewGasCoin(types.ObjectIDFromUint64(0x10), 2, owner, 100, types.Digest{3})
	victim := types.NewGasCoin(types.ObjectIDFromUint64(0x11), 5, owner, 1, types.ZeroDigest)
	wrapped := types.NewMoveObject(types.ObjectIDFromUint64(0x12), 1, types.AddressOwner(owner),
		types.ClockType, nil, types.ZeroDigest)

	inputs := &CheckedInputObjects{Gas: []*types.Object{gas}, Objects: []*types.Object{victim, wrapped}}
	store := NewTemporaryStore(mapReader{}, inputs, digest)

	created := types.NewGasCoin(crypto.DeriveObjectID(digest, 0), 0, owner, 5, digest)
	ephemeral := types.NewGasCoin(crypto.DeriveObjectID(digest, 1), 0, owner, 5, digest)

	store.Write(gas)
	store.Write(created)
	store.Write(ephemeral)
	store.Delete(ephemeral.ID)
	store.Delete(victim.ID)
	store.Wrap(wrapped)
	store.finalize()

	effects := store.effects(types.ExecutionStatus{Success: true}, 0, types.GasCostSummary{}, gas.ID)

	require.Len(t, effects.Created, 1)
	assert.Equal(t, created.ID, effects.Created[0].Reference.ObjectID)
	assert.Equal(t, types.SequenceNumber(6), effects.Created[0].Reference.Version)

	require.Len(t, effects.Mutated, 1)
	assert.Equal(t, gas.ID, effects.GasObject.Reference.ObjectID)

	require.Len(t, effects.Deleted, 1)
	assert.Equal(t, types.ObjectRef{ObjectID: victim.ID, Version: 6, Digest: DeletedDigest}, effects.Deleted[0])

	require.Len(t, effects.Wrapped, 1)
	assert.Equal(t, WrappedDigest, effects.Wrapped[0].Digest)

	assert.Equal(t, []types.Digest{{3}}, effects.Dependencies)
	assert.Nil(t, effects.EventsDigest)

	for _, obj := range store.Written() {
		assert.Equal(t, digest, obj.PreviousTransaction)
	}
}
