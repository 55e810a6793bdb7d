package ledger

import (
	"time"

	"github.com/dogechain-lab/moveledger/executor"
	"github.com/dogechain-lab/moveledger/types"
)

type ResultKind uint8

const (
	// Continue hands the flow to the next stage
	Continue ResultKind = iota
	// EarlyReturn stops the pipeline with Response
	EarlyReturn
)

// Result is the outcome of one stage
type Result struct {
	Kind     ResultKind
	Response *types.TransactionResponse
}

func continueResult() Result {
	return Result{Kind: Continue}
}

// Stage is one step of transaction processing. A stage returns an error
// only when the engine state is inconsistent; transaction level failures
// are reported as an early return.
type Stage interface {
	Name() string
	Run(f *flow) (Result, error)
}

// flow carries a transaction through the stages
type flow struct {
	engine *Engine

	tx     *types.SignedTransaction
	digest types.Digest

	inputs *executor.CheckedInputObjects
	gas    *executor.GasStatus
	output *executor.ExecutionOutput

	events         []types.TransactionEvent
	objectChanges  []types.ObjectChange
	balanceChanges []types.BalanceChange

	response *types.TransactionResponse
	dryRun   *types.DryRunResponse
}

func newFlow(e *Engine, tx *types.SignedTransaction) *flow {
	return &flow{
		engine: e,
		tx:     tx,
		digest: tx.Data.Digest(),
	}
}

func (f *flow) data() *types.TransactionData {
	return f.tx.Data
}

// earlyReturn builds the unrecorded response of a rejected transaction
func (f *flow) earlyReturn(errs ...string) Result {
	timestamp := f.engine.Time()
	checkpoint := f.engine.store.Checkpoint()

	return Result{
		Kind: EarlyReturn,
		Response: &types.TransactionResponse{
			Digest:         f.digest,
			Transaction:    f.tx,
			RawTransaction: f.data().MarshalRLP(),
			TimestampMs:    &timestamp,
			Checkpoint:     &checkpoint,
			Errors:         errs,
		},
	}
}

// runPipeline runs stages in order until one returns early or fails
func (e *Engine) runPipeline(stages []Stage, f *flow) (Result, error) {
	for _, stage := range stages {
		start := time.Now()

		res, err := stage.Run(f)

		e.metrics.StageSecondsObserve(stage.Name(), time.Since(start).Seconds())

		if err != nil {
			e.logger.Error("pipeline stage failed", "stage", stage.Name(), "digest", f.digest, "err", err)

			return Result{}, err
		}

		if res.Kind == EarlyReturn {
			e.logger.Warn("transaction returned early", "stage", stage.Name(), "digest", f.digest,
				"errors", res.Response.Errors)

			return res, nil
		}

		e.logger.Debug("stage done", "stage", stage.Name(), "digest", f.digest)
	}

	return continueResult(), nil
}

func executionStages() []Stage {
	return []Stage{
		validationStage{},
		executionStage{},
		effectsStage{},
		storageStage{},
	}
}

func dryRunStages() []Stage {
	return []Stage{
		validationStage{},
		executionStage{},
		dryRunStage{},
	}
}
