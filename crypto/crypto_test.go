package crypto

import (
	"bytes"
	"testing"

	"github.com/dogechain-lab/moveledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEd25519(t *testing.T, b byte) *Ed25519KeyPair {
	t.Helper()

	key, err := Ed25519FromSeed(bytes.Repeat([]byte{b}, 32))
	require.NoError(t, err)

	return key
}

func testSecp256k1(t *testing.T, b byte) *Secp256k1KeyPair {
	t.Helper()

	key, err := Secp256k1FromBytes(bytes.Repeat([]byte{b}, 32))
	require.NoError(t, err)

	return key
}

func transferTx(sender types.Address) *types.TransactionData {
	return types.NewProgrammableTransactionData(
		sender,
		[]types.ObjectRef{{ObjectID: types.ObjectIDFromUint64(0x100), Version: 1}},
		&types.ProgrammableTransaction{
			Inputs: []types.CallArg{types.PureArg(sender.Bytes())},
			Commands: []types.Command{
				types.TransferObjectsCommand([]types.Argument{types.GasCoinArg()}, types.InputArg(0)),
			},
		},
		1_000_000,
		10,
	)
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	keys := []KeyPair{testEd25519(t, 1), testSecp256k1(t, 2)}

	for _, key := range keys {
		key := key

		t.Run(key.Scheme().String(), func(t *testing.T) {
			t.Parallel()

			digest := types.Digest{1, 2, 3}

			sig, err := key.Sign(digest)
			require.NoError(t, err)

			assert.NoError(t, VerifySignature(sig, digest))
			assert.ErrorIs(t, VerifySignature(sig, types.Digest{4}), ErrSignatureMismatch)
			assert.Equal(t, key.Address(), SignatureAddress(sig))

			raw, err := types.SignatureFromBytes(sig.Bytes())
			require.NoError(t, err)
			assert.Equal(t, sig, raw)
		})
	}
}

func TestDeriveObjectID(t *testing.T) {
	t.Parallel()

	digest := types.Digest{1}

	assert.Equal(t, DeriveObjectID(digest, 0), DeriveObjectID(digest, 0))
	assert.NotEqual(t, DeriveObjectID(digest, 0), DeriveObjectID(digest, 1))
	assert.NotEqual(t, DeriveObjectID(digest, 0), DeriveObjectID(types.Digest{2}, 0))
}

func TestVerifyTransaction(t *testing.T) {
	t.Parallel()

	alice, bob := testEd25519(t, 1), testSecp256k1(t, 2)

	sponsored := transferTx(alice.Address())
	sponsored.GasData.Owner = bob.Address()

	expiring := transferTx(alice.Address())
	expiring.Expiration = 1

	tests := []struct {
		name    string
		tx      *types.TransactionData
		signers []KeyPair
		epoch   uint64
		err     error
	}{
		{"sender signed", transferTx(alice.Address()), []KeyPair{alice}, 0, nil},
		{"no signatures", transferTx(alice.Address()), nil, 0, ErrNoSignatures},
		{"wrong signer", transferTx(alice.Address()), []KeyPair{bob}, 0, ErrUnexpectedSigner},
		{"extra signer", transferTx(alice.Address()), []KeyPair{alice, bob}, 0, ErrUnexpectedSigner},
		{"duplicate signer", transferTx(alice.Address()), []KeyPair{alice, alice}, 0, ErrUnexpectedSigner},
		{"sponsored", sponsored, []KeyPair{alice, bob}, 0, nil},
		{"sponsor missing", sponsored, []KeyPair{alice}, 0, ErrMissingSignature},
		{"not expired", expiring, []KeyPair{alice}, 1, nil},
		{"expired", expiring, []KeyPair{alice}, 2, ErrTransactionExpire},
	}

	verifier := NewTransactionVerifier()

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			signed, err := SignTransaction(tt.tx, tt.signers...)
			require.NoError(t, err)

			err = verifier.VerifyTransaction(signed, tt.epoch)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestVerifyTransactionTampered(t *testing.T) {
	t.Parallel()

	alice := testEd25519(t, 1)

	signed, err := SignTransaction(transferTx(alice.Address()), alice)
	require.NoError(t, err)

	signed.Data.GasData.Budget++

	assert.ErrorIs(t, NewTransactionVerifier().VerifyTransaction(signed, 0), ErrSignatureMismatch)
}
