package ledger

import (
	"errors"
	"fmt"

	"github.com/dogechain-lab/moveledger/executor"
	"github.com/dogechain-lab/moveledger/types"
)

var (
	ErrInvalidExecutorOutput = errors.New("executor returned no output")
)

// checkedObjects resolves the gas payment and the object inputs of tx
// against the live objects and checks who may use them
func (e *Engine) checkedObjects(tx *types.SignedTransaction) (*executor.CheckedInputObjects, error) {
	data := tx.Data
	inputs := &executor.CheckedInputObjects{}

	for _, ref := range data.GasData.Payment {
		obj, ok := e.store.Object(ref.ObjectID)
		if !ok {
			return nil, fmt.Errorf("gas payment object %s not found", ref.ObjectID)
		}

		inputs.Gas = append(inputs.Gas, obj)
	}

	for _, arg := range data.Inputs() {
		id, ok := arg.ObjectID()
		if !ok {
			continue
		}

		obj, ok := e.store.Object(id)
		if !ok {
			return nil, fmt.Errorf("no object %s", id)
		}

		inputs.Objects = append(inputs.Objects, obj)
	}

	if err := e.auth.VerifyObjectOwnership(tx, inputs.All()); err != nil {
		return nil, err
	}

	return inputs, nil
}

// checkLimits enforces the protocol size limits on a transaction
func (e *Engine) checkLimits(data *types.TransactionData) error {
	if size := len(data.MarshalRLP()); size > e.params.MaxTransactionSize {
		return fmt.Errorf("transaction size %d exceeds the limit %d", size, e.params.MaxTransactionSize)
	}

	if n := len(data.Commands()); n > e.params.MaxCommands {
		return fmt.Errorf("transaction has %d commands, the limit is %d", n, e.params.MaxCommands)
	}

	return nil
}

func gasBalance(coins []*types.Object) uint64 {
	var total uint64

	for _, coin := range coins {
		if !coin.IsGasCoin() {
			continue
		}

		value, err := coin.CoinValue()
		if err != nil || total+value < total {
			continue
		}

		total += value
	}

	return total
}

// validationStage rejects transactions that may not run: a forced
// rejection, bad signatures, unknown or foreign objects, or bad gas
type validationStage struct{}

func (validationStage) Name() string {
	return "validation"
}

func (validationStage) Run(f *flow) (Result, error) {
	e := f.engine

	if reason, ok := e.control.Take(); ok {
		return f.earlyReturn(reason), nil
	}

	if err := e.checkLimits(f.data()); err != nil {
		return f.earlyReturn(err.Error()), nil
	}

	if err := e.auth.VerifyTransaction(f.tx, e.params.Epoch); err != nil {
		return f.earlyReturn(err.Error()), nil
	}

	inputs, err := e.checkedObjects(f.tx)
	if err != nil {
		return f.earlyReturn(err.Error()), nil
	}

	gasData := f.data().GasData

	gas, err := executor.NewGasStatus(gasData.Budget, gasData.Price, e.params.ReferenceGasPrice, e.params)
	if err != nil {
		return f.earlyReturn(err.Error()), nil
	}

	if balance := gasBalance(inputs.Gas); balance < gasData.Budget {
		return f.earlyReturn(fmt.Sprintf("gas balance %d is lower than the budget %d", balance, gasData.Budget)), nil
	}

	f.inputs = inputs
	f.gas = gas

	return continueResult(), nil
}

// executionStage hands the checked transaction to the executor
type executionStage struct{}

func (executionStage) Name() string {
	return "execution"
}

func (executionStage) Run(f *flow) (Result, error) {
	e := f.engine
	data := f.data()

	f.output = e.executor.Execute(&executor.ExecutionParams{
		Store:       e.store,
		Params:      e.params,
		Epoch:       e.params.Epoch,
		TimestampMs: e.Time(),
		Inputs:      f.inputs,
		GasData:     data.GasData,
		Gas:         f.gas,
		Kind:        data.Kind,
		Sender:      data.Sender,
		Digest:      f.digest,
	})

	if f.output == nil || f.output.Store == nil || f.output.Effects == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidExecutorOutput, f.digest)
	}

	return continueResult(), nil
}

// collect derives events, object changes and balance changes from the
// execution output
func (f *flow) collect() {
	store := f.output.Store

	f.events = transactionEvents(f.digest, store.Events(), f.engine.Time())
	f.objectChanges = objectChanges(f.data().Sender, store)
	f.balanceChanges = balanceChanges(store)
}

func (f *flow) executionErrors() []string {
	if f.output.Err == nil {
		return nil
	}

	return []string{f.output.Err.Error()}
}

type effectsStage struct{}

func (effectsStage) Name() string {
	return "effects"
}

func (effectsStage) Run(f *flow) (Result, error) {
	f.collect()

	return continueResult(), nil
}

// storageStage applies the object changes and records the transaction
type storageStage struct{}

func (storageStage) Name() string {
	return "storage"
}

func (storageStage) Run(f *flow) (Result, error) {
	e := f.engine
	store := f.output.Store

	if err := e.store.ApplyChanges(f.objectChanges, store.Written(), store.WrappedObjects()); err != nil {
		return Result{}, err
	}

	timestamp := e.Time()
	checkpoint := e.store.Checkpoint()

	resp := &types.TransactionResponse{
		Digest:         f.digest,
		Transaction:    f.tx,
		RawTransaction: f.data().MarshalRLP(),
		Effects:        f.output.Effects,
		Events:         f.events,
		ObjectChanges:  f.objectChanges,
		BalanceChanges: f.balanceChanges,
		TimestampMs:    &timestamp,
		Checkpoint:     &checkpoint,
		Errors:         f.executionErrors(),
	}

	if err := e.store.RecordTransaction(resp); err != nil {
		return Result{}, err
	}

	f.response = resp

	return continueResult(), nil
}

// dryRunStage reports the outcome without touching the store
type dryRunStage struct{}

func (dryRunStage) Name() string {
	return "dry_run"
}

func (dryRunStage) Run(f *flow) (Result, error) {
	f.collect()

	f.dryRun = &types.DryRunResponse{
		Effects:        f.output.Effects,
		Events:         f.events,
		ObjectChanges:  f.objectChanges,
		BalanceChanges: f.balanceChanges,
		Input:          f.data(),
	}

	if errs := f.executionErrors(); len(errs) > 0 {
		f.dryRun.ExecutionErrorSource = errs[0]
	}

	return continueResult(), nil
}
