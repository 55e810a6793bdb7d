package object

import (
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	objectCmd := &cobra.Command{
		Use:   "object",
		Short: "Top level command for reading and editing ledger objects. Only accepts subcommands.",
	}

	registerSubcommands(objectCmd)

	return objectCmd
}

func registerSubcommands(baseCmd *cobra.Command) {
	baseCmd.AddCommand(
		getCommand(),
		ownedCommand(),
		fieldsCommand(),
		createCommand(),
		deleteCommand(),
	)
}
