package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinValue(t *testing.T) {
	t.Parallel()

	owner := MustParseAddress("0xa11ce")
	coin := NewGasCoin(ObjectIDFromUint64(0x100), 1, owner, 500, ZeroDigest)

	assert.True(t, coin.IsCoin())
	assert.True(t, coin.IsGasCoin())

	value, err := coin.CoinValue()
	require.NoError(t, err)
	assert.Equal(t, uint64(500), value)

	require.NoError(t, coin.SetCoinValue(42))

	value, err = coin.CoinValue()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), value)

	coinType, ok := coin.CoinType()
	assert.True(t, ok)
	assert.Equal(t, SuiCoinType, coinType)
}

func TestPackageIsNotCoin(t *testing.T) {
	t.Parallel()

	pkg := NewPackage(ObjectIDFromUint64(0x200), 1, []PackageModule{
		{Name: "zeta", Bytecode: []byte{1}},
		{Name: "alpha", Bytecode: []byte{2}},
	}, ZeroDigest)

	assert.True(t, pkg.IsPackage())
	assert.False(t, pkg.IsCoin())
	assert.Equal(t, []string{"alpha", "zeta"}, pkg.ModuleNames())

	_, err := pkg.CoinValue()
	assert.ErrorIs(t, err, ErrNotCoin)

	untyped := NewMoveObject(ObjectIDFromUint64(0x201), 1, ImmutableOwner(), nil, nil, ZeroDigest)
	assert.False(t, untyped.IsPackage())
}

func TestObjectDigestTracksContents(t *testing.T) {
	t.Parallel()

	coin := NewGasCoin(ObjectIDFromUint64(0x100), 1, ZeroAddress, 500, ZeroDigest)
	copied := coin.Copy()

	assert.Equal(t, coin.Digest(), copied.Digest())

	require.NoError(t, copied.SetCoinValue(501))
	assert.NotEqual(t, coin.Digest(), copied.Digest())

	value, err := coin.CoinValue()
	require.NoError(t, err)
	assert.Equal(t, uint64(500), value)
}
