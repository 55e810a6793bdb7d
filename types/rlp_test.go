package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransaction() *TransactionData {
	sender := MustParseAddress("0xa11ce")

	return NewProgrammableTransactionData(
		sender,
		[]ObjectRef{{ObjectID: ObjectIDFromUint64(0x100), Version: 3, Digest: Digest{9}}},
		&ProgrammableTransaction{
			Inputs: []CallArg{
				PureArg([]byte{1, 2, 3}),
				OwnedObjectArg(ObjectRef{ObjectID: ObjectIDFromUint64(0x101), Version: 1}),
				SharedObjectArg(ClockObjectID, 1, false),
			},
			Commands: []Command{
				SplitCoinsCommand(GasCoinArg(), []Argument{InputArg(0)}),
				MoveCallCommand(&MoveCall{
					Package:       FrameworkPackageID,
					Module:        "pay",
					Function:      "split",
					TypeArguments: []TypeTag{SuiCoinType},
					Arguments:     []Argument{NestedResultArg(0, 0), InputArg(2)},
				}),
				PublishCommand([]PackageModule{{Name: "m", Bytecode: []byte{0xa}}}, []ObjectID{StdlibPackageID}),
			},
		},
		1000,
		10,
	)
}

func TestTransactionDataRoundTrip(t *testing.T) {
	t.Parallel()

	tx := sampleTransaction()

	decoded := &TransactionData{}
	require.NoError(t, decoded.UnmarshalRLP(tx.MarshalRLP()))

	assert.Equal(t, tx, decoded)
	assert.Equal(t, tx.Digest(), decoded.Digest())
	assert.NotEqual(t, tx.Digest(), tx.SigningDigest())
}

func TestTransactionResponseRoundTrip(t *testing.T) {
	t.Parallel()

	tx := sampleTransaction()
	timestamp, checkpoint := uint64(1700), uint64(4)
	eventsDigest := Digest{7}
	owner := AddressOwner(tx.Sender)

	resp := &TransactionResponse{
		Digest: tx.Digest(),
		Transaction: &SignedTransaction{
			Data: tx,
			Signatures: []Signature{{
				Scheme:    SchemeEd25519,
				Signature: make([]byte, SignatureLength),
				PublicKey: make([]byte, Ed25519PublicKeyLength),
			}},
		},
		RawTransaction: tx.MarshalRLP(),
		Effects: &TransactionEffects{
			Status:            ExecutionStatus{Success: false, Error: "InsufficientGas"},
			GasUsed:           GasCostSummary{ComputationCost: 1000, StorageCost: 20, StorageRebate: 5},
			TransactionDigest: tx.Digest(),
			Mutated:           []OwnedObjectRef{{Owner: owner, Reference: ObjectRef{Version: 4}}},
			Wrapped:           []ObjectRef{{ObjectID: ObjectIDFromUint64(0x101), Version: 4}},
			GasObject:         OwnedObjectRef{Owner: owner},
			EventsDigest:      &eventsDigest,
			Dependencies:      []Digest{{1}},
		},
		Events: []TransactionEvent{{
			ID: EventID{TxDigest: tx.Digest()},
			Event: Event{
				PackageID:         FrameworkPackageID,
				TransactionModule: "pay",
				Sender:            tx.Sender,
				Type:              NewStructTag(FrameworkAddress, "pay", "Split"),
				Contents:          []byte{1},
			},
			TimestampMs: &timestamp,
		}},
		ObjectChanges: []ObjectChange{{
			Kind:            ChangeMutated,
			Sender:          tx.Sender,
			Owner:           &owner,
			ObjectType:      GasCoinStructTag().TypeTag(),
			ObjectID:        ObjectIDFromUint64(0x100),
			Version:         4,
			PreviousVersion: 3,
		}, {
			Kind:     ChangePublished,
			ObjectID: ObjectIDFromUint64(0x300),
			Version:  1,
			Modules:  []string{"m"},
		}},
		BalanceChanges: []BalanceChange{{
			Owner:    owner,
			CoinType: SuiCoinType,
			Amount:   big.NewInt(-1015),
		}},
		TimestampMs: &timestamp,
		Checkpoint:  &checkpoint,
		Errors:      []string{"InsufficientGas"},
	}

	decoded := &TransactionResponse{}
	require.NoError(t, decoded.UnmarshalRLP(resp.MarshalRLP()))

	assert.Equal(t, resp, decoded)
}

func TestUnmarshalRejectsWrongArity(t *testing.T) {
	t.Parallel()

	ref := ObjectRef{ObjectID: ObjectIDFromUint64(1)}
	obj := &Object{}

	assert.ErrorIs(t, UnmarshalRLP(MarshalRLP(ref), obj), ErrRLPDecode)
}
