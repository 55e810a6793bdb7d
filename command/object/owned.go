package object

import (
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

func ownedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "owned <address>",
		Short: "Lists the objects owned by an address",
		Args:  cobra.ExactArgs(1),
		Run:   runOwnedCommand,
	}
}

func runOwnedCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	addr, err := types.ParseAddress(args[0])
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

	objects := s.Engine.OwnedObjects(addr)

	result := &ObjectListResult{Objects: make([]*ObjectResult, 0, len(objects))}
	for _, obj := range objects {
		result.Objects = append(result.Objects, NewObjectResult(obj))
	}

	outputter.SetCommandResult(result)
}
