package ledger

import (
	"errors"
	"fmt"

	"github.com/dogechain-lab/moveledger/state"
	"github.com/dogechain-lab/moveledger/types"
)

var (
	ErrEmptyPackage = errors.New("package has no modules")
	ErrNotPackage   = errors.New("object is not a package")
)

// PublishPackage publishes modules on behalf of sender and transfers the
// upgrade capability back to it. The sender is funded up to the publish
// allowance first and pays with all of its SUI coins. Signatures are not
// required.
func (e *Engine) PublishPackage(
	sender types.Address,
	modules []types.PackageModule,
	deps []types.ObjectID,
) (*types.TransactionResponse, error) {
	if len(modules) == 0 {
		return nil, ErrEmptyPackage
	}

	var resp *types.TransactionResponse

	err := e.withAuthOverride(AuthDisabled, func() error {
		balance, err := e.Balance(sender, "")
		if err != nil {
			return err
		}

		if balance < publishTopUp {
			if _, err := e.Mint(sender, publishTopUp-balance, ""); err != nil {
				return err
			}

			balance = publishTopUp
		}

		budget := balance
		if budget > e.params.MaxGasBudget {
			budget = e.params.MaxGasBudget
		}

		pt := &types.ProgrammableTransaction{
			Inputs: []types.CallArg{types.PureArg(sender.Bytes())},
			Commands: []types.Command{
				types.PublishCommand(modules, deps),
				types.TransferObjectsCommand([]types.Argument{types.ResultArg(0)}, types.InputArg(0)),
			},
		}

		data := types.NewProgrammableTransactionData(
			sender,
			e.DefaultGasPayment(sender),
			pt,
			budget,
			e.params.ReferenceGasPrice,
		)

		resp, err = e.Execute(&types.SignedTransaction{Data: data})

		return err
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Package returns the module names of the package id
func (e *Engine) Package(id types.ObjectID) ([]string, error) {
	obj, ok := e.store.Object(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", state.ErrObjectNotFound, id)
	}

	if !obj.IsPackage() {
		return nil, fmt.Errorf("%w: %s", ErrNotPackage, id)
	}

	return obj.ModuleNames(), nil
}

// PublishedPackage returns the id of the package created by resp
func PublishedPackage(resp *types.TransactionResponse) (types.ObjectID, bool) {
	for _, c := range resp.ObjectChanges {
		if c.Kind == types.ChangePublished {
			return c.ObjectID, true
		}
	}

	return types.ObjectID{}, false
}
