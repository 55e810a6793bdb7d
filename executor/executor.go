package executor

import (
	"errors"
	"fmt"

	"github.com/dogechain-lab/moveledger/chain"
	"github.com/dogechain-lab/moveledger/types"
)

// ObjectReader is the read view of live objects given to an executor
type ObjectReader interface {
	Object(id types.ObjectID) (*types.Object, bool)
}

// Executor computes the effects of a checked transaction. Implementations
// must be deterministic: the same params over the same objects must yield
// the same output.
type Executor interface {
	Execute(params *ExecutionParams) *ExecutionOutput
}

// CheckedInputObjects are the resolved gas payment and input objects of a
// transaction, in declaration order
type CheckedInputObjects struct {
	Gas     []*types.Object
	Objects []*types.Object
}

// All returns gas objects followed by input objects
func (c *CheckedInputObjects) All() []*types.Object {
	all := make([]*types.Object, 0, len(c.Gas)+len(c.Objects))
	all = append(all, c.Gas...)
	all = append(all, c.Objects...)

	return all
}

type ExecutionParams struct {
	Store       ObjectReader
	Params      *chain.Params
	Epoch       uint64
	TimestampMs uint64
	Inputs      *CheckedInputObjects
	GasData     types.GasData
	Gas         *GasStatus
	Kind        types.TransactionKind
	Sender      types.Address
	Digest      types.Digest
}

// ExecutionOutput is the result of running a transaction. Err is set when
// execution aborted; Store and Effects then only carry the gas charge.
type ExecutionOutput struct {
	Store   *TemporaryStore
	Effects *types.TransactionEffects
	Err     *ExecutionError
}

type ErrorKind uint8

const (
	InsufficientGas ErrorKind = iota
	InvalidGasObject
	InvalidArgument
	InvalidTransfer
	InvalidObjectMutation
	InsufficientCoinBalance
	CoinBalanceOverflow
	CoinTypeMismatch
	PackageNotFound
	FunctionNotFound
	PublishError
	MoveAbort
	UnsupportedTransaction
)

func (k ErrorKind) String() string {
	switch k {
	case InsufficientGas:
		return "InsufficientGas"
	case InvalidGasObject:
		return "InvalidGasObject"
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidTransfer:
		return "InvalidTransfer"
	case InvalidObjectMutation:
		return "InvalidObjectMutation"
	case InsufficientCoinBalance:
		return "InsufficientCoinBalance"
	case CoinBalanceOverflow:
		return "CoinBalanceOverflow"
	case CoinTypeMismatch:
		return "CoinTypeMismatch"
	case PackageNotFound:
		return "PackageNotFound"
	case FunctionNotFound:
		return "FunctionNotFound"
	case PublishError:
		return "PublishError"
	case MoveAbort:
		return "MoveAbort"
	case UnsupportedTransaction:
		return "UnsupportedTransaction"
	}

	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// ExecutionError is an abort raised while running commands. Command is the
// index of the failing command, or -1 when the failure is not tied to one.
type ExecutionError struct {
	Kind    ErrorKind
	Command int
	Message string
}

func (e *ExecutionError) Error() string {
	if e.Command >= 0 {
		return fmt.Sprintf("%s in command %d: %s", e.Kind, e.Command, e.Message)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Kind: kind, Command: -1, Message: fmt.Sprintf(format, args...)}
}

// AsExecutionError unwraps err into an ExecutionError, treating anything
// else as an abort of kind
func AsExecutionError(err error, kind ErrorKind) *ExecutionError {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr
	}

	return &ExecutionError{Kind: kind, Command: -1, Message: err.Error()}
}
