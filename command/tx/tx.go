package tx

import (
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Top level command for submitting and reading transactions. Only accepts subcommands.",
	}

	registerSubcommands(txCmd)

	return txCmd
}

func registerSubcommands(baseCmd *cobra.Command) {
	baseCmd.AddCommand(
		payCommand(),
		transferCommand(),
		publishCommand(),
		getCommand(),
		listCommand(),
		queryCommand(),
	)
}
