package object

import (
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

const versionFlag = "version"

var getVersion uint64

func getCommand() *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get <object-id>",
		Short: "Returns the current object, or the given version of it",
		Args:  cobra.ExactArgs(1),
		Run:   runGetCommand,
	}

	getCmd.Flags().Uint64Var(
		&getVersion,
		versionFlag,
		0,
		"read this version from the object history",
	)

	return getCmd
}

func runGetCommand(cmd *cobra.Command, args []string) {
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

	if cmd.Flags().Changed(versionFlag) {
		read := s.Engine.GetAtVersion(id, types.SequenceNumber(getVersion))
		outputter.SetCommandResult(newPastObjectResult(read))

		return
	}

	obj, err := s.Engine.Object(id)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(NewObjectResult(obj))
}
