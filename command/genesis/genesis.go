package genesis

import (
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	genesisCmd := &cobra.Command{
		Use:     "init",
		Short:   "Creates a new ledger from the genesis in the data directory",
		Args:    cobra.NoArgs,
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	setFlags(genesisCmd)

	return genesisCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(
		&params.force,
		forceFlag,
		false,
		"replace the head snapshot of an already initialized ledger",
	)

	cmd.Flags().Uint64Var(
		&params.initialTime,
		initialTimeFlag,
		0,
		"the clock timestamp in ms to start from, instead of the genesis one",
	)

	cmd.Flags().StringSliceVar(
		&params.rawFund,
		fundFlag,
		nil,
		"addresses to fund with a gas coin of --fund-amount",
	)

	cmd.Flags().Uint64Var(
		&params.fundAmount,
		fundAmountFlag,
		1000*types.MistPerSui,
		"the value in MIST of every funding coin",
	)
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.InitSession(
		cmd,
		params.force,
		params.engineOptions(cmd.Flags().Changed(initialTimeFlag))...,
	)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	funded, err := params.fundAccounts(s)
	if err != nil {
		outputter.SetError(err)

		return
	}

	name, err := s.Commit()
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&GenesisResult{
		Chain:      s.Chain.Name,
		DataDir:    s.Config.DataDir,
		Snapshot:   name,
		TimeMs:     s.Engine.Time(),
		Objects:    len(s.Engine.Objects()),
		Funded:     funded,
		Checkpoint: s.Engine.LatestCheckpoint(),
	})
}
