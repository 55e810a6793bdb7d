package clock

import (
	"strconv"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	clockCmd := &cobra.Command{
		Use:   "clock",
		Short: "Top level command for the ledger clock. Only accepts subcommands.",
	}

	registerSubcommands(clockCmd)

	return clockCmd
}

func registerSubcommands(baseCmd *cobra.Command) {
	baseCmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Returns the clock timestamp in ms",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				runClockCommand(cmd, nil)
			},
		},
		&cobra.Command{
			Use:   "set <timestamp-ms>",
			Short: "Sets the clock timestamp",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				runClockCommand(cmd, func(s *helper.Session) error {
					ms, err := strconv.ParseUint(args[0], 10, 64)
					if err != nil {
						return err
					}

					return s.Engine.SetTime(ms)
				})
			},
		},
		&cobra.Command{
			Use:   "advance <duration-ms>",
			Short: "Moves the clock forward",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				runClockCommand(cmd, func(s *helper.Session) error {
					ms, err := strconv.ParseUint(args[0], 10, 64)
					if err != nil {
						return err
					}

					return s.Engine.AdvanceTime(ms)
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Sets the clock to the current wall time",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				runClockCommand(cmd, func(s *helper.Session) error {
					return s.Engine.ResetTime()
				})
			},
		},
	)
}

// runClockCommand applies update, if any, commits and reports the clock
func runClockCommand(cmd *cobra.Command, update func(*helper.Session) error) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	if update != nil {
		if err := update(s); err != nil {
			outputter.SetError(err)

			return
		}

		if _, err := s.Commit(); err != nil {
			outputter.SetError(err)

			return
		}
	}

	outputter.SetCommandResult(&ClockResult{TimestampMs: s.Engine.Time()})
}
