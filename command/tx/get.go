package tx

import (
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

func getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <digest>",
		Short: "Returns a recorded transaction",
		Args:  cobra.ExactArgs(1),
		Run:   runGetCommand,
	}
}

func runGetCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	digest, err := types.ParseDigest(args[0])
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

	resp, err := s.Engine.Transaction(digest)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&TransactionResult{TransactionResponse: resp})
}
