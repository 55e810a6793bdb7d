package object

import (
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

func fieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <parent-id>",
		Short: "Lists the dynamic fields of an object",
		Args:  cobra.ExactArgs(1),
		Run:   runFieldsCommand,
	}
}

func runFieldsCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	parent, err := types.ParseObjectID(args[0])
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

	fields, err := s.Engine.DynamicFields(parent)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&FieldsResult{Parent: parent, Fields: fields})
}
