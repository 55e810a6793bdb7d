package object

import (
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

func deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <object-id>",
		Short: "Deletes an object outside of any transaction, keeping its history",
		Args:  cobra.ExactArgs(1),
		Run:   runDeleteCommand,
	}
}

func runDeleteCommand(cmd *cobra.Command, args []string) {
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

	if err := s.Engine.DeleteObject(id); err != nil {
		outputter.SetError(err)

		return
	}

	if _, err := s.Commit(); err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&DeleteResult{Reference: obj.Reference()})
}
