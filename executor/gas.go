package executor

import (
	"errors"
	"fmt"

	"github.com/dogechain-lab/moveledger/chain"
	"github.com/dogechain-lab/moveledger/types"
)

var (
	ErrGasPriceUnderReference = errors.New("gas price is lower than the reference gas price")
	ErrGasPriceTooHigh        = errors.New("gas price exceeds the max gas price")
	ErrGasBudgetTooHigh       = errors.New("gas budget exceeds the max gas budget")
	ErrGasBudgetTooLow        = errors.New("gas budget is lower than the minimum budget")
	ErrOutOfGas               = errors.New("out of gas")
)

const basisPoints = 10_000

// GasStatus meters a single transaction against its budget
type GasStatus struct {
	budget            uint64
	price             uint64
	referencePrice    uint64
	storagePrice      uint64
	storageRebateRate uint64

	computationUnits uint64
	storageCost      uint64
	storageRebate    uint64
	nonRefundable    uint64
}

// NewGasStatus validates budget and price against the protocol params
func NewGasStatus(budget, price, referencePrice uint64, params *chain.Params) (*GasStatus, error) {
	if price < referencePrice {
		return nil, fmt.Errorf("%w: %d < %d", ErrGasPriceUnderReference, price, referencePrice)
	}

	if price > params.MaxGasPrice {
		return nil, fmt.Errorf("%w: %d > %d", ErrGasPriceTooHigh, price, params.MaxGasPrice)
	}

	if budget > params.MaxGasBudget {
		return nil, fmt.Errorf("%w: %d > %d", ErrGasBudgetTooHigh, budget, params.MaxGasBudget)
	}

	if minBudget := params.MinGasBudget(price); budget < minBudget {
		return nil, fmt.Errorf("%w: %d < %d", ErrGasBudgetTooLow, budget, minBudget)
	}

	return &GasStatus{
		budget:            budget,
		price:             price,
		referencePrice:    referencePrice,
		storagePrice:      params.StoragePrice,
		storageRebateRate: params.StorageRebateRate,
	}, nil
}

// NewUnmeteredGasStatus never runs out of gas
func NewUnmeteredGasStatus() *GasStatus {
	return &GasStatus{budget: ^uint64(0), price: 0}
}

func (g *GasStatus) Budget() uint64 {
	return g.budget
}

func (g *GasStatus) Price() uint64 {
	return g.price
}

func (g *GasStatus) ReferencePrice() uint64 {
	return g.referencePrice
}

func (g *GasStatus) computationCost() uint64 {
	return g.computationUnits * g.price
}

// ChargeComputation adds units, failing once the budget is exhausted. On
// failure the full remaining budget is consumed.
func (g *GasStatus) ChargeComputation(units uint64) error {
	if g.price == 0 {
		g.computationUnits += units

		return nil
	}

	maxUnits := g.budget / g.price
	if g.computationUnits+units > maxUnits {
		g.computationUnits = maxUnits

		return fmt.Errorf("%w: computation exceeds budget %d", ErrOutOfGas, g.budget)
	}

	g.computationUnits += units

	return nil
}

// ChargeStorage prices newly written bytes and refunds the rebate of the
// previous versions of the written or deleted objects
func (g *GasStatus) ChargeStorage(bytes uint64, previousRebate uint64) error {
	g.storageCost += bytes * g.storagePrice
	refund := previousRebate * g.storageRebateRate / basisPoints
	g.storageRebate += refund
	g.nonRefundable += previousRebate - refund

	if g.price != 0 && g.computationCost()+g.storageCost > g.budget {
		return fmt.Errorf("%w: storage cost %d exceeds remaining budget", ErrOutOfGas, g.storageCost)
	}

	return nil
}

// ResetStorage drops storage charges, used when effects are reverted
func (g *GasStatus) ResetStorage() {
	g.storageCost, g.storageRebate, g.nonRefundable = 0, 0, 0
}

// StorageRebateFor is the rebate recorded on an object of the given size
func (g *GasStatus) StorageRebateFor(size int) uint64 {
	return uint64(size) * g.storagePrice
}

// Summary reports the charges so far
func (g *GasStatus) Summary() types.GasCostSummary {
	return types.GasCostSummary{
		ComputationCost:         g.computationCost(),
		StorageCost:             g.storageCost,
		StorageRebate:           g.storageRebate,
		NonRefundableStorageFee: g.nonRefundable,
	}
}
