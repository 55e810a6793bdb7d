package tx

import (
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

var transferParams = &transferTxParams{}

type transferTxParams struct {
	submitParams

	rawTo string
	to    types.Address
}

func transferCommand() *cobra.Command {
	transferCmd := &cobra.Command{
		Use:     "transfer <object-id>",
		Short:   "Transfers a whole object owned by the sender to a recipient",
		Args:    cobra.ExactArgs(1),
		PreRunE: runTransferPreRun,
		Run:     runTransferCommand,
	}

	setSubmitFlags(transferCmd, &transferParams.submitParams)

	transferCmd.Flags().StringVar(&transferParams.rawTo, toFlag, "", "the recipient address")

	_ = transferCmd.MarkFlagRequired(toFlag)

	return transferCmd
}

func runTransferPreRun(_ *cobra.Command, _ []string) error {
	if err := transferParams.validateFlags(); err != nil {
		return err
	}

	to, err := types.ParseAddress(transferParams.rawTo)
	if err != nil {
		return err
	}

	transferParams.to = to

	return nil
}

// the object reference is read from the ledger, so the session is opened
// before the transaction is built
func runTransferCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	id, err := types.ParseObjectID(args[0])
	if err != nil {
		outputter.SetError(err)

		return
	}

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	obj, err := s.Engine.Object(id)
	if err != nil {
		outputter.SetError(err)

		return
	}

	pt := &types.ProgrammableTransaction{
		Inputs: []types.CallArg{
			types.OwnedObjectArg(obj.Reference()),
			types.PureArg(transferParams.to.Bytes()),
		},
		Commands: []types.Command{
			types.TransferObjectsCommand([]types.Argument{types.InputArg(0)}, types.InputArg(1)),
		},
	}

	result, err := transferParams.submit(s, pt, id)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}
