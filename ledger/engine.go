package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dogechain-lab/moveledger/chain"
	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/executor"
	"github.com/dogechain-lab/moveledger/state"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/hashicorp/go-hclog"
)

var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidObject      = errors.New("invalid object")
)

// Engine is an in-process ledger. It validates, executes and records
// transactions against a versioned object store and answers queries over
// the recorded history.
//
// The engine is single writer: callers sharing it between goroutines must
// serialize every call.
type Engine struct {
	logger   hclog.Logger
	params   *chain.Params
	store    *state.Store
	executor executor.Executor
	auth     *AuthExtension
	control  *ControlExtension
	metrics  *Metrics
	stream   *eventStream

	// mints counts coins minted outside of transactions
	mints uint64
}

// NewEngine builds an engine over the genesis objects of the config
func NewEngine(opts ...Option) (*Engine, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	if cfg.Params == nil {
		cfg.Params = chain.DefaultParams()
	}

	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}

	if cfg.Genesis == nil {
		cfg.Genesis = chain.DefaultGenesis()
	}

	if cfg.Metrics == nil {
		cfg.Metrics = NilMetrics()
	}

	if cfg.Executor == nil {
		cfg.Executor = executor.NewNativeExecutor(cfg.Logger)
	}

	if cfg.Verifier == nil {
		cfg.Verifier = crypto.NewTransactionVerifier()
	}

	auth, err := NewAuthExtension(cfg.Verifier, cfg.AuthCacheSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		logger:   cfg.Logger.Named("ledger"),
		params:   cfg.Params.Copy(),
		store:    state.NewStore(),
		executor: cfg.Executor,
		auth:     auth,
		control:  NewControlExtension(),
		metrics:  cfg.Metrics,
	}

	genesis := *cfg.Genesis
	if cfg.InitialTimeMs != nil {
		genesis.TimestampMs = *cfg.InitialTimeMs
	}

	for _, obj := range genesis.Objects() {
		if err := e.store.Insert(obj); err != nil {
			return nil, fmt.Errorf("genesis object %s: %w", obj.ID, err)
		}
	}

	e.stream = newEventStream(context.Background())

	e.metrics.SetLiveObjects(float64(e.store.Len()))
	e.metrics.SetCheckpoint(0)

	e.logger.Info("ledger ready", "objects", e.store.Len(), "timestamp", genesis.TimestampMs,
		"reference_gas_price", e.params.ReferenceGasPrice)

	return e, nil
}

// Close stops the event feed
func (e *Engine) Close() {
	e.stream.Close()
}

// Subscribe returns a subscription to the engine events, nil after Close
func (e *Engine) Subscribe() Subscription {
	sub := e.stream.subscribe()
	if sub == nil {
		return nil
	}

	return sub
}

// Params returns a copy of the protocol params
func (e *Engine) Params() *chain.Params {
	return e.params.Copy()
}

func (e *Engine) ReferenceGasPrice() uint64 {
	return e.params.ReferenceGasPrice
}

func (e *Engine) Epoch() uint64 {
	return e.params.Epoch
}

// Object returns the current value of id
func (e *Engine) Object(id types.ObjectID) (*types.Object, error) {
	obj, ok := e.store.Object(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", state.ErrObjectNotFound, id)
	}

	return obj, nil
}

// GetAtVersion reads id as of version
func (e *Engine) GetAtVersion(id types.ObjectID, version types.SequenceNumber) *types.PastObjectRead {
	return e.store.GetAtVersion(id, version)
}

// OwnedObjects lists the objects owned by addr, ordered by id
func (e *Engine) OwnedObjects(addr types.Address) []*types.Object {
	return e.store.OwnedBy(addr)
}

// Objects lists every live object, ordered by id
func (e *Engine) Objects() []*types.Object {
	return e.store.Objects()
}

// CreateObject inserts obj as is, outside of any transaction
func (e *Engine) CreateObject(obj *types.Object) error {
	if obj == nil || obj.Version == 0 {
		return fmt.Errorf("%w: objects need a positive version", ErrInvalidObject)
	}

	if !obj.IsPackage() && obj.Type == nil {
		return fmt.Errorf("%w: move object %s has no type", ErrInvalidObject, obj.ID)
	}

	if err := e.store.Insert(obj); err != nil {
		return err
	}

	e.metrics.SetLiveObjects(float64(e.store.Len()))

	return nil
}

// DeleteObject tombstones the current value of id
func (e *Engine) DeleteObject(id types.ObjectID) error {
	if err := e.store.Remove(id); err != nil {
		return err
	}

	e.metrics.SetLiveObjects(float64(e.store.Len()))

	return nil
}

// Execute validates, runs and records tx. Validation failures come back
// as an unrecorded response carrying the errors. A digest that was already
// recorded returns the recorded response, unless a rejection is armed.
func (e *Engine) Execute(tx *types.SignedTransaction) (*types.TransactionResponse, error) {
	if tx == nil || tx.Data == nil {
		return nil, fmt.Errorf("%w: missing transaction data", ErrInvalidTransaction)
	}

	digest := tx.Data.Digest()
	if !e.control.Armed() && e.store.HasTransaction(digest) {
		return e.store.Transaction(digest)
	}

	f := newFlow(e, tx)

	res, err := e.runPipeline(executionStages(), f)
	if err != nil {
		return nil, err
	}

	if res.Kind == EarlyReturn {
		e.metrics.EarlyReturnsInc()

		return res.Response, nil
	}

	resp := f.response

	e.metrics.TransactionsInc()

	if resp.Failed() {
		e.metrics.FailedTransactionsInc()
	}

	e.metrics.SetLiveObjects(float64(e.store.Len()))

	e.logger.Debug("transaction recorded", "digest", digest, "failed", resp.Failed())
	e.stream.push(&Event{
		Type:        EventTransaction,
		Digest:      digest,
		Failed:      resp.Failed(),
		Checkpoint:  e.store.Checkpoint(),
		TimestampMs: e.Time(),
	})

	return resp, nil
}

func copyTransactionData(data *types.TransactionData) (*types.TransactionData, error) {
	c := &types.TransactionData{}
	if err := c.UnmarshalRLP(data.MarshalRLP()); err != nil {
		return nil, err
	}

	return c, nil
}

// DryRun previews data without recording anything. Signatures and object
// ownership are not checked. An empty payment is covered by a temporary
// gas coin worth the budget plus the balance of the gas owner.
func (e *Engine) DryRun(data *types.TransactionData) (*types.DryRunResponse, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: missing transaction data", ErrInvalidTransaction)
	}

	data, err := copyTransactionData(data)
	if err != nil {
		return nil, err
	}

	var resp *types.DryRunResponse

	err = e.withAuthOverride(AuthDisabled, func() error {
		if len(data.GasData.Payment) == 0 {
			ref, err := e.mintTemporaryGas(data)
			if err != nil {
				return err
			}

			defer e.store.RemoveWithoutTrace(ref.ObjectID)

			data.GasData.Payment = []types.ObjectRef{ref}
		}

		f := newFlow(e, &types.SignedTransaction{Data: data})

		res, err := e.runPipeline(dryRunStages(), f)
		if err != nil {
			return err
		}

		if res.Kind == EarlyReturn {
			resp = &types.DryRunResponse{Input: data}
			if errs := res.Response.Errors; len(errs) > 0 {
				resp.ExecutionErrorSource = errs[0]
			}

			return nil
		}

		resp = f.dryRun

		return nil
	})

	e.metrics.SetLiveObjects(float64(e.store.Len()))

	if err != nil {
		return nil, err
	}

	e.metrics.DryRunsInc()

	return resp, nil
}

func (e *Engine) mintTemporaryGas(data *types.TransactionData) (types.ObjectRef, error) {
	owner := data.GasOwner()

	balance, err := e.Balance(owner, "")
	if err != nil {
		return types.ObjectRef{}, err
	}

	amount := data.GasData.Budget + balance
	if amount < balance {
		return types.ObjectRef{}, fmt.Errorf("%w: budget %d overflows the balance of %s",
			ErrInvalidTransaction, data.GasData.Budget, owner)
	}

	// the counter stays put so the next real mint is unaffected
	id, _ := e.nextMintID()
	if err := e.insertCoin(id, owner, amount, types.SuiCoinType); err != nil {
		return types.ObjectRef{}, err
	}

	coin, _ := e.store.Object(id)

	return coin.Reference(), nil
}

// Transaction returns the recorded response of digest
func (e *Engine) Transaction(digest types.Digest) (*types.TransactionResponse, error) {
	return e.store.Transaction(digest)
}

// Transactions lists the recorded digests in execution order
func (e *Engine) Transactions() []types.Digest {
	return e.store.Transactions()
}

// Query returns the recorded responses matching filter, ordered by digest
func (e *Engine) Query(filter types.TransactionFilter) ([]*types.TransactionResponse, error) {
	digests, err := e.store.Query(filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*types.TransactionResponse, 0, len(digests))

	for _, digest := range digests {
		resp, err := e.store.Transaction(digest)
		if err != nil {
			return nil, err
		}

		responses = append(responses, resp)
	}

	return responses, nil
}

// LatestCheckpoint returns the checkpoint counter
func (e *Engine) LatestCheckpoint() uint64 {
	return e.store.Checkpoint()
}

// BumpCheckpoint advances the checkpoint counter and returns the new value
func (e *Engine) BumpCheckpoint() uint64 {
	checkpoint := e.store.BumpCheckpoint()

	e.metrics.SetCheckpoint(float64(checkpoint))
	e.logger.Info("checkpoint bumped", "checkpoint", checkpoint)
	e.stream.push(&Event{Type: EventCheckpoint, Checkpoint: checkpoint, TimestampMs: e.Time()})

	return checkpoint
}

func (e *Engine) AuthMode() AuthMode {
	return e.auth.Mode()
}

// SetAuthMode switches signature and ownership checks, returning the
// previous mode
func (e *Engine) SetAuthMode(mode AuthMode) AuthMode {
	prev := e.auth.SetMode(mode)

	e.logger.Debug("auth mode set", "mode", mode, "previous", prev)

	return prev
}

// RejectNext makes the next executed or dry run transaction return early
// with reason
func (e *Engine) RejectNext(reason string) {
	e.control.RejectNext(reason)
}

// withAuthOverride runs fn under mode and restores the previous mode
// however fn exits
func (e *Engine) withAuthOverride(mode AuthMode, fn func() error) error {
	prev := e.auth.SetMode(mode)
	defer e.auth.SetMode(prev)

	return fn()
}
