package snapshot

import (
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Top level command for saving and restoring ledger snapshots. Only accepts subcommands.",
	}

	registerSubcommands(snapshotCmd)

	return snapshotCmd
}

func registerSubcommands(baseCmd *cobra.Command) {
	baseCmd.AddCommand(
		saveCommand(),
		listCommand(),
		loadCommand(),
		deleteCommand(),
		exportCommand(),
		importCommand(),
	)
}
