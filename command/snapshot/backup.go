package snapshot

import (
	"github.com/dogechain-lab/moveledger/archive"
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/spf13/cobra"
)

const (
	overwriteFlag = "overwrite"
	compressFlag  = "compress"
)

var (
	overwrite bool
	compress  bool
)

func exportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Writes the head ledger state to a backup file",
		Args:  cobra.ExactArgs(1),
		Run:   runExportCommand,
	}

	exportCmd.Flags().BoolVar(&overwrite, overwriteFlag, false, "replace an existing backup file")
	exportCmd.Flags().BoolVar(&compress, compressFlag, true, "compress the backup with zstd")

	return exportCmd
}

func runExportCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	level := s.Config.ZstdLevel
	if level <= 0 {
		level = command.DefaultZstdLevel
	}

	checkpoint, err := archive.CreateBackup(s.Engine, s.Logger, args[0], overwrite, compress, level)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&BackupResult{Action: "exported", Path: args[0], Checkpoint: checkpoint})
}

func importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replaces the head ledger state with a backup file",
		Args:  cobra.ExactArgs(1),
		Run:   runImportCommand,
	}
}

func runImportCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	if err := archive.RestoreBackup(s.Logger, s.Engine, args[0]); err != nil {
		outputter.SetError(err)

		return
	}

	if _, err := s.Commit(); err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&BackupResult{
		Action:     "imported",
		Path:       args[0],
		Checkpoint: s.Engine.LatestCheckpoint(),
	})
}
