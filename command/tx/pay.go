package tx

import (
	"errors"

	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

const (
	toFlag     = "to"
	amountFlag = "amount"
)

var errZeroAmount = errors.New("amount must be positive")

var payParams = &payTxParams{}

type payTxParams struct {
	submitParams

	rawTo  string
	amount uint64

	to types.Address
}

func payCommand() *cobra.Command {
	payCmd := &cobra.Command{
		Use:     "pay",
		Short:   "Splits an amount off the gas coin of the sender and sends it to a recipient",
		Args:    cobra.NoArgs,
		PreRunE: runPayPreRun,
		Run:     runPayCommand,
	}

	setSubmitFlags(payCmd, &payParams.submitParams)

	payCmd.Flags().StringVar(&payParams.rawTo, toFlag, "", "the recipient address")
	payCmd.Flags().Uint64Var(&payParams.amount, amountFlag, 0, "the amount in MIST")

	_ = payCmd.MarkFlagRequired(toFlag)
	_ = payCmd.MarkFlagRequired(amountFlag)

	return payCmd
}

func runPayPreRun(_ *cobra.Command, _ []string) error {
	if err := payParams.validateFlags(); err != nil {
		return err
	}

	if payParams.amount == 0 {
		return errZeroAmount
	}

	to, err := types.ParseAddress(payParams.rawTo)
	if err != nil {
		return err
	}

	payParams.to = to

	return nil
}

func runPayCommand(cmd *cobra.Command, _ []string) {
	runSubmit(cmd, &payParams.submitParams, func() (*types.ProgrammableTransaction, error) {
		return &types.ProgrammableTransaction{
			Inputs: []types.CallArg{
				types.PureArg(types.EncodeU64(payParams.amount)),
				types.PureArg(payParams.to.Bytes()),
			},
			Commands: []types.Command{
				types.SplitCoinsCommand(types.GasCoinArg(), []types.Argument{types.InputArg(0)}),
				types.TransferObjectsCommand([]types.Argument{types.ResultArg(0)}, types.InputArg(1)),
			},
		}, nil
	})
}
