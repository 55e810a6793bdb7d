package chain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dogechain-lab/moveledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisObjects(t *testing.T) {
	t.Parallel()

	alice := types.Address{0xa}
	g := DefaultGenesis()
	g.TimestampMs = 1234
	g.Alloc = GenesisAlloc{
		alice: {Coins: []uint64{10, 20}},
	}

	objects := g.Objects()
	require.Len(t, objects, 5)

	assert.Equal(t, types.StdlibPackageID, objects[0].ID)
	assert.True(t, objects[0].IsPackage())
	assert.Equal(t, types.FrameworkPackageID, objects[1].ID)

	clock := objects[2]
	assert.Equal(t, types.ClockObjectID, clock.ID)
	assert.True(t, clock.Owner.IsShared())
	assert.Equal(t, []byte{0xd2, 0x04, 0, 0, 0, 0, 0, 0}, clock.Body())

	for i, coin := range objects[3:] {
		assert.True(t, coin.IsGasCoin())
		assert.Equal(t, types.AddressOwner(alice), coin.Owner)
		assert.Equal(t, GenesisCoinID(alice, uint64(i)), coin.ID)
	}

	value, err := objects[4].CoinValue()
	require.NoError(t, err)
	assert.Equal(t, uint64(20), value)

	// deterministic
	again := g.Objects()
	for i := range objects {
		assert.Equal(t, objects[i].Digest(), again[i].Digest())
	}
}

func TestImport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "chain.json")

	content := `{
		"name": "local",
		"genesis": {"timestampMs": 99},
		"params": {"referenceGasPrice": 25, "maxGasPrice": 1000, "maxGasBudget": 1000000000,
			"minComputationUnits": 10, "commandUnits": 10, "maxTransactionSize": 1024, "maxCommands": 8}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	c, err := Import(path)
	require.NoError(t, err)

	assert.Equal(t, "local", c.Name)
	assert.Equal(t, uint64(99), c.Genesis.TimestampMs)
	assert.Equal(t, uint64(25), c.Params.ReferenceGasPrice)
}

func TestImportInvalid(t *testing.T) {
	t.Parallel()

	_, err := importChain([]byte(`{"params": {"referenceGasPrice": 0}}`))
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = importChain([]byte(`{"genesis": {"packages": [{"id": "0x9", "modules": []}]}}`))
	assert.ErrorIs(t, err, ErrEmptyGenesisPackage)

	_, err = Import(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
