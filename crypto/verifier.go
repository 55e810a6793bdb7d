package crypto

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dogechain-lab/moveledger/types"
)

var (
	ErrNoSignatures      = errors.New("transaction has no signatures")
	ErrMissingSignature  = errors.New("missing signature")
	ErrUnexpectedSigner  = errors.New("unexpected signer")
	ErrTransactionExpire = errors.New("transaction expired")
)

// TransactionVerifier checks that a transaction is signed by exactly its
// sender and gas owner, and has not expired.
type TransactionVerifier struct{}

func NewTransactionVerifier() *TransactionVerifier {
	return &TransactionVerifier{}
}

// RequiredSigners returns the sender and, when sponsored, the gas owner
func RequiredSigners(tx *types.TransactionData) []types.Address {
	signers := []types.Address{tx.Sender}
	if owner := tx.GasOwner(); owner != tx.Sender {
		signers = append(signers, owner)
	}

	return signers
}

func (v *TransactionVerifier) VerifyTransaction(tx *types.SignedTransaction, epoch uint64) error {
	if tx.Data.Expiration != 0 && epoch > tx.Data.Expiration {
		return fmt.Errorf("%w: expiration epoch %d, current epoch %d", ErrTransactionExpire, tx.Data.Expiration, epoch)
	}

	if len(tx.Signatures) == 0 {
		return ErrNoSignatures
	}

	required := make(map[types.Address]bool)
	for _, addr := range RequiredSigners(tx.Data) {
		required[addr] = false
	}

	digest := tx.Data.SigningDigest()

	for _, sig := range tx.Signatures {
		signer := SignatureAddress(sig)

		seen, ok := required[signer]
		if !ok {
			return fmt.Errorf("%w: %s is neither sender nor gas owner", ErrUnexpectedSigner, signer)
		}

		if seen {
			return fmt.Errorf("%w: %s signed twice", ErrUnexpectedSigner, signer)
		}

		if err := VerifySignature(sig, digest); err != nil {
			return fmt.Errorf("signature of %s: %w", signer, err)
		}

		required[signer] = true
	}

	var missing []string

	for addr, seen := range required {
		if !seen {
			missing = append(missing, addr.String())
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)

		return fmt.Errorf("%w: %v", ErrMissingSignature, missing)
	}

	return nil
}
