package auth

import (
	"fmt"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/ledger"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Top level command for signature checking. Only accepts subcommands.",
	}

	authCmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Returns whether signatures and ownership are checked",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				runAuthCommand(cmd, nil)
			},
		},
		&cobra.Command{
			Use:       "set <enabled|disabled>",
			Short:     "Turns signature and ownership checks on or off",
			Args:      cobra.ExactValidArgs(1),
			ValidArgs: []string{ledger.AuthEnabled.String(), ledger.AuthDisabled.String()},
			Run: func(cmd *cobra.Command, args []string) {
				runAuthCommand(cmd, &args[0])
			},
		},
	)

	return authCmd
}

func runAuthCommand(cmd *cobra.Command, rawMode *string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	result := &AuthResult{Mode: s.Engine.AuthMode().String()}

	if rawMode != nil {
		mode, err := ledger.ParseAuthMode(*rawMode)
		if err != nil {
			outputter.SetError(err)

			return
		}

		if err := s.SaveAuthMode(mode); err != nil {
			outputter.SetError(err)

			return
		}

		result.Previous = result.Mode
		result.Mode = mode.String()
	}

	outputter.SetCommandResult(result)
}

type AuthResult struct {
	Mode     string `json:"mode"`
	Previous string `json:"previous,omitempty"`
}

func (r *AuthResult) GetOutput() string {
	rows := []string{fmt.Sprintf("Mode|%s", r.Mode)}
	if r.Previous != "" {
		rows = append(rows, fmt.Sprintf("Previous|%s", r.Previous))
	}

	return fmt.Sprintf("\n[AUTH]\n%s\n", helper.FormatKV(rows))
}
