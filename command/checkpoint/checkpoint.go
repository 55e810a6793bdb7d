package checkpoint

import (
	"fmt"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	checkpointCmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Top level command for the checkpoint counter. Only accepts subcommands.",
	}

	checkpointCmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Returns the latest checkpoint",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				runCheckpointCommand(cmd, false)
			},
		},
		&cobra.Command{
			Use:   "bump",
			Short: "Advances the checkpoint counter by one",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				runCheckpointCommand(cmd, true)
			},
		},
	)

	return checkpointCmd
}

func runCheckpointCommand(cmd *cobra.Command, bump bool) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	checkpoint := s.Engine.LatestCheckpoint()

	if bump {
		checkpoint = s.Engine.BumpCheckpoint()

		if _, err := s.Commit(); err != nil {
			outputter.SetError(err)

			return
		}
	}

	outputter.SetCommandResult(&CheckpointResult{Checkpoint: checkpoint})
}

type CheckpointResult struct {
	Checkpoint uint64 `json:"checkpoint"`
}

func (r *CheckpointResult) GetOutput() string {
	return fmt.Sprintf("\n[CHECKPOINT]\n%s\n", helper.FormatKV([]string{
		fmt.Sprintf("Latest|%d", r.Checkpoint),
	}))
}
