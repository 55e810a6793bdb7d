package ledger

import (
	"errors"
	"fmt"

	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/helper/blake2b"
	"github.com/dogechain-lab/moveledger/types"
	lru "github.com/hashicorp/golang-lru"
)

var (
	ErrOwnershipViolation = errors.New("ownership violation")
)

type AuthMode uint8

const (
	AuthEnabled AuthMode = iota
	AuthDisabled
)

func (m AuthMode) String() string {
	if m == AuthDisabled {
		return "disabled"
	}

	return "enabled"
}

// ParseAuthMode accepts "enabled" or "disabled"
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "enabled":
		return AuthEnabled, nil
	case "disabled":
		return AuthDisabled, nil
	}

	return AuthEnabled, fmt.Errorf("unknown auth mode %q", s)
}

// AuthExtension gates signature and ownership checks. When disabled every
// check passes.
type AuthExtension struct {
	mode     AuthMode
	verifier Verifier

	// verified signature sets, keyed by digest, signatures and epoch
	verified *lru.Cache
}

func NewAuthExtension(verifier Verifier, cacheSize int) (*AuthExtension, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultAuthCacheSize
	}

	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}

	return &AuthExtension{
		mode:     AuthEnabled,
		verifier: verifier,
		verified: cache,
	}, nil
}

func (a *AuthExtension) Mode() AuthMode {
	return a.mode
}

// SetMode switches the mode and returns the previous one
func (a *AuthExtension) SetMode(mode AuthMode) AuthMode {
	prev := a.mode
	a.mode = mode

	return prev
}

func verifiedKey(tx *types.SignedTransaction, epoch uint64) types.Digest {
	digest := tx.Data.Digest()
	parts := [][]byte{digest[:], types.EncodeU64(epoch)}

	for _, sig := range tx.Signatures {
		parts = append(parts, sig.Bytes())
	}

	return types.Digest(blake2b.Sum256(parts...))
}

// VerifyTransaction checks the signatures of tx at epoch
func (a *AuthExtension) VerifyTransaction(tx *types.SignedTransaction, epoch uint64) error {
	if a.mode == AuthDisabled {
		return nil
	}

	key := verifiedKey(tx, epoch)
	if a.verified.Contains(key) {
		return nil
	}

	if err := a.verifier.VerifyTransaction(tx, epoch); err != nil {
		return err
	}

	a.verified.Add(key, struct{}{})

	return nil
}

// VerifyObjectOwnership checks that every address owned object is owned by
// a signer of tx. The sender counts only through its signature.
func (a *AuthExtension) VerifyObjectOwnership(tx *types.SignedTransaction, objects []*types.Object) error {
	if a.mode == AuthDisabled {
		return nil
	}

	signers := make(map[types.Address]struct{}, len(tx.Signatures))
	for _, sig := range tx.Signatures {
		signers[crypto.SignatureAddress(sig)] = struct{}{}
	}

	for _, obj := range objects {
		owner, ok := obj.Owner.OwnerAddress()
		if !ok {
			continue
		}

		if _, signed := signers[owner]; !signed {
			return fmt.Errorf("%w: object owned by %s accessed without owner signature", ErrOwnershipViolation, owner)
		}
	}

	return nil
}
