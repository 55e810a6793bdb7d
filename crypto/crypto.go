package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/dogechain-lab/moveledger/helper/blake2b"
	"github.com/dogechain-lab/moveledger/types"
)

var (
	ErrInvalidPublicKey     = errors.New("invalid public key")
	ErrSignatureMismatch    = errors.New("signature verification failed")
	ErrUnsupportedScheme    = errors.New("unsupported signature scheme")
	ErrInvalidSecp256k1Seed = errors.New("invalid secp256k1 private key")
)

// KeyPair signs transaction digests on behalf of one address
type KeyPair interface {
	Scheme() types.SignatureScheme
	PublicKey() []byte
	Address() types.Address
	Sign(digest types.Digest) (types.Signature, error)
}

// AddressFromPublicKey derives blake2b(flag || public key)
func AddressFromPublicKey(scheme types.SignatureScheme, publicKey []byte) types.Address {
	return types.Address(blake2b.Sum256([]byte{byte(scheme)}, publicKey))
}

// SignatureAddress returns the address of the signer of sig
func SignatureAddress(sig types.Signature) types.Address {
	return AddressFromPublicKey(sig.Scheme, sig.PublicKey)
}

// DeriveObjectID computes the id of the index-th object created by a transaction
func DeriveObjectID(txDigest types.Digest, index uint64) types.ObjectID {
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], index)

	return types.ObjectID(blake2b.Sum256(txDigest[:], buf[:]))
}

// Ed25519KeyPair is an ed25519 signer
type Ed25519KeyPair struct {
	priv ed25519.PrivateKey
}

// GenerateEd25519 creates a random ed25519 key pair
func GenerateEd25519() (*Ed25519KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	return &Ed25519KeyPair{priv: priv}, nil
}

// Ed25519FromSeed derives a deterministic key pair from a 32 byte seed
func Ed25519FromSeed(seed []byte) (*Ed25519KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	return &Ed25519KeyPair{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

func (k *Ed25519KeyPair) Scheme() types.SignatureScheme {
	return types.SchemeEd25519
}

func (k *Ed25519KeyPair) PublicKey() []byte {
	//nolint:forcetypeassert
	return k.priv.Public().(ed25519.PublicKey)
}

func (k *Ed25519KeyPair) Address() types.Address {
	return AddressFromPublicKey(k.Scheme(), k.PublicKey())
}

func (k *Ed25519KeyPair) Sign(digest types.Digest) (types.Signature, error) {
	return types.Signature{
		Scheme:    types.SchemeEd25519,
		Signature: ed25519.Sign(k.priv, digest[:]),
		PublicKey: types.CopyBytes(k.PublicKey()),
	}, nil
}

// Secp256k1KeyPair is a secp256k1 signer
type Secp256k1KeyPair struct {
	priv *btcec.PrivateKey
}

// GenerateSecp256k1 creates a random secp256k1 key pair
func GenerateSecp256k1() (*Secp256k1KeyPair, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, err
	}

	return &Secp256k1KeyPair{priv: priv}, nil
}

// Secp256k1FromBytes loads a 32 byte private key
func Secp256k1FromBytes(b []byte) (*Secp256k1KeyPair, error) {
	if len(b) != 32 || new(big.Int).SetBytes(b).Sign() == 0 {
		return nil, ErrInvalidSecp256k1Seed
	}

	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), b)

	return &Secp256k1KeyPair{priv: priv}, nil
}

func (k *Secp256k1KeyPair) Scheme() types.SignatureScheme {
	return types.SchemeSecp256k1
}

func (k *Secp256k1KeyPair) PublicKey() []byte {
	return k.priv.PubKey().SerializeCompressed()
}

func (k *Secp256k1KeyPair) Address() types.Address {
	return AddressFromPublicKey(k.Scheme(), k.PublicKey())
}

func (k *Secp256k1KeyPair) Sign(digest types.Digest) (types.Signature, error) {
	sig, err := k.priv.Sign(digest[:])
	if err != nil {
		return types.Signature{}, err
	}

	raw := make([]byte, types.SignatureLength)
	sig.R.FillBytes(raw[:32])
	sig.S.FillBytes(raw[32:])

	return types.Signature{
		Scheme:    types.SchemeSecp256k1,
		Signature: raw,
		PublicKey: k.PublicKey(),
	}, nil
}

// VerifySignature checks sig over digest under the embedded public key
func VerifySignature(sig types.Signature, digest types.Digest) error {
	if len(sig.Signature) != types.SignatureLength {
		return fmt.Errorf("%w: signature has %d bytes", ErrSignatureMismatch, len(sig.Signature))
	}

	switch sig.Scheme {
	case types.SchemeEd25519:
		if len(sig.PublicKey) != ed25519.PublicKeySize {
			return ErrInvalidPublicKey
		}

		if !ed25519.Verify(sig.PublicKey, digest[:], sig.Signature) {
			return ErrSignatureMismatch
		}

		return nil
	case types.SchemeSecp256k1:
		pub, err := btcec.ParsePubKey(sig.PublicKey, btcec.S256())
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidPublicKey, err.Error())
		}

		signature := &btcec.Signature{
			R: new(big.Int).SetBytes(sig.Signature[:32]),
			S: new(big.Int).SetBytes(sig.Signature[32:]),
		}

		if !signature.Verify(digest[:], pub) {
			return ErrSignatureMismatch
		}

		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedScheme, sig.Scheme)
}

// SignTransaction signs the transaction intent digest with every key pair
func SignTransaction(tx *types.TransactionData, signers ...KeyPair) (*types.SignedTransaction, error) {
	digest := tx.SigningDigest()
	signed := &types.SignedTransaction{Data: tx}

	for _, signer := range signers {
		sig, err := signer.Sign(digest)
		if err != nil {
			return nil, err
		}

		signed.Signatures = append(signed.Signatures, sig)
	}

	return signed, nil
}

// DeriveDynamicFieldID computes the id of the field keyed by (keyType, key) under parent
func DeriveDynamicFieldID(parent types.ObjectID, keyType types.TypeTag, key []byte) types.ObjectID {
	var length [8]byte

	binary.LittleEndian.PutUint64(length[:], uint64(len(key)))

	return types.ObjectID(blake2b.Sum256([]byte{0xf0}, parent[:], length[:], key, []byte(keyType)))
}
