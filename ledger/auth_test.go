package ledger

import (
	"errors"
	"testing"

	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingVerifier struct {
	calls int
	err   error
}

func (v *countingVerifier) VerifyTransaction(*types.SignedTransaction, uint64) error {
	v.calls++

	return v.err
}

func testSigned(t *testing.T, signer *crypto.Ed25519KeyPair) *types.SignedTransaction {
	t.Helper()

	data := types.NewProgrammableTransactionData(
		signer.Address(),
		nil,
		&types.ProgrammableTransaction{},
		testBudget,
		10,
	)

	return sign(t, data, signer)
}

func TestAuthVerifyCache(t *testing.T) {
	t.Parallel()

	verifier := &countingVerifier{}

	auth, err := NewAuthExtension(verifier, 2)
	require.NoError(t, err)

	tx := testSigned(t, testKey(t, 1))

	require.NoError(t, auth.VerifyTransaction(tx, 0))
	require.NoError(t, auth.VerifyTransaction(tx, 0))
	assert.Equal(t, 1, verifier.calls)

	// a different epoch is verified again
	require.NoError(t, auth.VerifyTransaction(tx, 1))
	assert.Equal(t, 2, verifier.calls)

	// so are different signatures over the same data
	other := &types.SignedTransaction{Data: tx.Data}
	require.NoError(t, auth.VerifyTransaction(other, 0))
	assert.Equal(t, 3, verifier.calls)
}

func TestAuthVerifyFailureNotCached(t *testing.T) {
	t.Parallel()

	verifier := &countingVerifier{err: errors.New("bad signature")}

	auth, err := NewAuthExtension(verifier, 0)
	require.NoError(t, err)

	tx := testSigned(t, testKey(t, 1))

	assert.EqualError(t, auth.VerifyTransaction(tx, 0), "bad signature")
	assert.Error(t, auth.VerifyTransaction(tx, 0))
	assert.Equal(t, 2, verifier.calls)
}

func TestAuthDisabled(t *testing.T) {
	t.Parallel()

	verifier := &countingVerifier{err: errors.New("bad signature")}

	auth, err := NewAuthExtension(verifier, 0)
	require.NoError(t, err)

	assert.Equal(t, AuthEnabled, auth.SetMode(AuthDisabled))
	assert.Equal(t, AuthDisabled, auth.Mode())

	tx := testSigned(t, testKey(t, 1))
	foreign := types.NewGasCoin(types.ObjectIDFromUint64(1), 1, types.Address{0xee}, 1, types.ZeroDigest)

	assert.NoError(t, auth.VerifyTransaction(tx, 0))
	assert.NoError(t, auth.VerifyObjectOwnership(tx, []*types.Object{foreign}))
	assert.Zero(t, verifier.calls)
}

func TestVerifyObjectOwnership(t *testing.T) {
	t.Parallel()

	alice, bob := testKey(t, 1), testKey(t, 2)

	auth, err := NewAuthExtension(crypto.NewTransactionVerifier(), 0)
	require.NoError(t, err)

	object := func(owner types.Owner) *types.Object {
		return types.NewMoveObject(types.ObjectIDFromUint64(0x10), 1, owner, counterType, nil, types.ZeroDigest)
	}

	sponsored := testSigned(t, alice)
	sponsored.Data.GasData.Owner = bob.Address()
	sponsored = sign(t, sponsored.Data, alice, bob)

	tests := []struct {
		name  string
		tx    *types.SignedTransaction
		owner types.Owner
		ok    bool
	}{
		{"sender owned", testSigned(t, alice), types.AddressOwner(alice.Address()), true},
		{"foreign owned", testSigned(t, alice), types.AddressOwner(bob.Address()), false},
		{"sponsor owned", sponsored, types.AddressOwner(bob.Address()), true},
		{"shared", testSigned(t, alice), types.SharedOwner(1), true},
		{"immutable", testSigned(t, alice), types.ImmutableOwner(), true},
		{"child", testSigned(t, alice), types.ObjectOwner(types.ObjectIDFromUint64(0x20)), true},
		{"unsigned sender", &types.SignedTransaction{Data: testSigned(t, bob).Data}, types.AddressOwner(bob.Address()), false},
		{"unsigned shared", &types.SignedTransaction{Data: testSigned(t, bob).Data}, types.SharedOwner(1), true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := auth.VerifyObjectOwnership(tt.tx, []*types.Object{object(tt.owner)})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrOwnershipViolation)
			}
		})
	}
}

func TestParseAuthMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []AuthMode{AuthEnabled, AuthDisabled} {
		parsed, err := ParseAuthMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParseAuthMode("maybe")
	assert.Error(t, err)
}

func TestControlExtension(t *testing.T) {
	t.Parallel()

	c := NewControlExtension()
	assert.False(t, c.Armed())

	_, ok := c.Take()
	assert.False(t, ok)

	c.RejectNext("first")
	c.RejectNext("second")
	assert.True(t, c.Armed())

	reason, ok := c.Take()
	require.True(t, ok)
	assert.Equal(t, "second", reason)

	_, ok = c.Take()
	assert.False(t, ok)
}
