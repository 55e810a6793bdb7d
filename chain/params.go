package chain

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

const (
	DefaultReferenceGasPrice   = 10
	DefaultMaxGasPrice         = 100_000
	DefaultMaxGasBudget        = 50_000_000_000
	DefaultMinComputationUnits = 1_000
	DefaultCommandUnits        = 1_000
	DefaultStoragePrice        = 76
	DefaultStorageRebateRate   = 9_900 // basis points
	DefaultMaxTransactionSize  = 128 * 1024
	DefaultMaxCommands         = 1_024
)

var (
	ErrInvalidParams = errors.New("invalid protocol params")
)

// Params is the protocol configuration, loaded once when the engine is
// built and shared with the executor.
type Params struct {
	ProtocolVersion uint64 `json:"protocolVersion"`
	Epoch           uint64 `json:"epoch"`

	// gas pricing, in MIST per unit
	ReferenceGasPrice uint64 `json:"referenceGasPrice"`
	MaxGasPrice       uint64 `json:"maxGasPrice"`
	StoragePrice      uint64 `json:"storagePrice"`

	// gas limits
	MaxGasBudget        uint64 `json:"maxGasBudget"`
	MinComputationUnits uint64 `json:"minComputationUnits"`
	CommandUnits        uint64 `json:"commandUnits"`

	// StorageRebateRate is the share of storage fees refunded on deletion, in basis points
	StorageRebateRate uint64 `json:"storageRebateRate"`

	MaxTransactionSize int `json:"maxTransactionSize"`
	MaxCommands        int `json:"maxCommands"`
}

// DefaultParams returns the sandbox protocol configuration
func DefaultParams() *Params {
	return &Params{
		ProtocolVersion:     1,
		ReferenceGasPrice:   DefaultReferenceGasPrice,
		MaxGasPrice:         DefaultMaxGasPrice,
		StoragePrice:        DefaultStoragePrice,
		MaxGasBudget:        DefaultMaxGasBudget,
		MinComputationUnits: DefaultMinComputationUnits,
		CommandUnits:        DefaultCommandUnits,
		StorageRebateRate:   DefaultStorageRebateRate,
		MaxTransactionSize:  DefaultMaxTransactionSize,
		MaxCommands:         DefaultMaxCommands,
	}
}

// MinGasBudget is the smallest budget able to pay for the minimum computation
func (p *Params) MinGasBudget(price uint64) uint64 {
	return p.MinComputationUnits * price
}

// Copy returns a shallow copy, params hold no references
func (p *Params) Copy() *Params {
	c := *p

	return &c
}

// Validate reports every inconsistent field at once
func (p *Params) Validate() error {
	var result *multierror.Error

	if p.ReferenceGasPrice == 0 {
		result = multierror.Append(result, fmt.Errorf("%w: reference gas price must be positive", ErrInvalidParams))
	}

	if p.MaxGasPrice < p.ReferenceGasPrice {
		result = multierror.Append(result, fmt.Errorf("%w: max gas price %d below reference price %d",
			ErrInvalidParams, p.MaxGasPrice, p.ReferenceGasPrice))
	}

	if p.MaxGasBudget == 0 {
		result = multierror.Append(result, fmt.Errorf("%w: max gas budget must be positive", ErrInvalidParams))
	}

	if p.MinGasBudget(p.ReferenceGasPrice) > p.MaxGasBudget {
		result = multierror.Append(result, fmt.Errorf("%w: minimum budget exceeds max gas budget", ErrInvalidParams))
	}

	if p.StorageRebateRate > 10_000 {
		result = multierror.Append(result, fmt.Errorf("%w: storage rebate rate %d exceeds 10000 basis points",
			ErrInvalidParams, p.StorageRebateRate))
	}

	if p.MaxTransactionSize <= 0 || p.MaxCommands <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: transaction limits must be positive", ErrInvalidParams))
	}

	return result.ErrorOrNil()
}
