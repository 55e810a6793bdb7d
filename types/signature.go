package types

import (
	"errors"
	"fmt"

	"github.com/dogechain-lab/fastrlp"
)

var ErrInvalidSignature = errors.New("invalid signature encoding")

type SignatureScheme uint8

const (
	SchemeEd25519   SignatureScheme = 0x00
	SchemeSecp256k1 SignatureScheme = 0x01
)

const (
	SignatureLength          = 64
	Ed25519PublicKeyLength   = 32
	Secp256k1PublicKeyLength = 33
)

func (s SignatureScheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ED25519"
	case SchemeSecp256k1:
		return "Secp256k1"
	}

	return fmt.Sprintf("SignatureScheme(%d)", uint8(s))
}

// PublicKeyLength returns the expected public key size of the scheme
func (s SignatureScheme) PublicKeyLength() (int, bool) {
	switch s {
	case SchemeEd25519:
		return Ed25519PublicKeyLength, true
	case SchemeSecp256k1:
		return Secp256k1PublicKeyLength, true
	}

	return 0, false
}

// Signature is a scheme flag, a 64 byte signature and the signer public key
type Signature struct {
	Scheme    SignatureScheme
	Signature []byte
	PublicKey []byte
}

// Bytes serializes the signature as flag || signature || public key
func (s Signature) Bytes() []byte {
	out := make([]byte, 0, 1+len(s.Signature)+len(s.PublicKey))
	out = append(out, byte(s.Scheme))
	out = append(out, s.Signature...)
	out = append(out, s.PublicKey...)

	return out
}

// SignatureFromBytes parses the flag || signature || public key form
func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) < 1+SignatureLength {
		return Signature{}, fmt.Errorf("%w: %d bytes", ErrInvalidSignature, len(b))
	}

	scheme := SignatureScheme(b[0])

	pkLen, ok := scheme.PublicKeyLength()
	if !ok {
		return Signature{}, fmt.Errorf("%w: unknown scheme %d", ErrInvalidSignature, b[0])
	}

	if len(b) != 1+SignatureLength+pkLen {
		return Signature{}, fmt.Errorf("%w: %d bytes for %s", ErrInvalidSignature, len(b), scheme)
	}

	return Signature{
		Scheme:    scheme,
		Signature: CopyBytes(b[1 : 1+SignatureLength]),
		PublicKey: CopyBytes(b[1+SignatureLength:]),
	}, nil
}

// SignedTransaction is transaction data together with its signatures
type SignedTransaction struct {
	Data       *TransactionData
	Signatures []Signature
}

func (s *SignedTransaction) Digest() Digest {
	return s.Data.Digest()
}

func (s *SignedTransaction) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(s.Data.MarshalWith(ar))

	sigs := ar.NewArray()
	for _, sig := range s.Signatures {
		sigs.Set(ar.NewCopyBytes(sig.Bytes()))
	}

	v.Set(sigs)

	return v
}

func (s *SignedTransaction) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "signed transaction", 2)
	if err != nil {
		return err
	}

	s.Data = &TransactionData{}
	if err := s.Data.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	sigs, err := ElemsOf(elems[1], "signatures", -1)
	if err != nil {
		return err
	}

	s.Signatures = nil

	for _, sv := range sigs {
		raw, err := DecodeBytes(sv)
		if err != nil {
			return err
		}

		sig, err := SignatureFromBytes(raw)
		if err != nil {
			return err
		}

		s.Signatures = append(s.Signatures, sig)
	}

	return nil
}
