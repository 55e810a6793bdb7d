package root

import (
	"fmt"
	"os"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/auth"
	"github.com/dogechain-lab/moveledger/command/checkpoint"
	"github.com/dogechain-lab/moveledger/command/clock"
	"github.com/dogechain-lab/moveledger/command/coin"
	"github.com/dogechain-lab/moveledger/command/genesis"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/command/object"
	"github.com/dogechain-lab/moveledger/command/snapshot"
	"github.com/dogechain-lab/moveledger/command/tx"
	"github.com/dogechain-lab/moveledger/command/version"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:           "moveledger",
			Short:         "A deterministic in-process ledger for Move objects, persisted between invocations",
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	}

	helper.RegisterJSONOutputFlag(rootCommand.baseCmd)
	helper.RegisterDataDirFlag(rootCommand.baseCmd)
	helper.RegisterConfigFlag(rootCommand.baseCmd)
	helper.RegisterLogLevelFlag(rootCommand.baseCmd)

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		version.GetCommand(),
		genesis.GetCommand(),
		object.GetCommand(),
		tx.GetCommand(),
		coin.GetCommand(),
		clock.GetCommand(),
		checkpoint.GetCommand(),
		auth.GetCommand(),
		snapshot.GetCommand(),
	)
}

// Command exposes the cobra command, for embedding and tests
func (rc *RootCommand) Command() *cobra.Command {
	return rc.baseCmd
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}

	if command.Failed() {
		os.Exit(1)
	}
}
