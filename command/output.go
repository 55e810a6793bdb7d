package command

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/atomic"
)

// failed is raised by any outputter that wrote an error, so the root
// command can set the exit code
var failed = atomic.NewBool(false)

// Failed reports whether a command of this process wrote an error
func Failed() bool {
	return failed.Load()
}

type OutputFormatter interface {
	// SetError sets the encountered error
	SetError(err error)
	// SetCommandResult sets the result of the command execution
	SetCommandResult(result CommandResult)
	// WriteOutput writes the previously set result / error output
	WriteOutput()
	// Failed reports whether an error was set
	Failed() bool
	getErrorOutput() string
	getCommandOutput() string
}

type CommandResult interface {
	GetOutput() string
}

// InitializeOutputter picks the output format from the --json flag and
// writes to the streams of cmd
func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	common := commonOutputFormatter{
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}

	if shouldOutputJSON(cmd) {
		return &jsonOutput{commonOutputFormatter: common}
	}

	return &cliOutput{commonOutputFormatter: common}
}

func shouldOutputJSON(baseCmd *cobra.Command) bool {
	flag := baseCmd.Flag(JSONOutputFlag)

	return flag != nil && flag.Changed
}

type commonOutputFormatter struct {
	stdout io.Writer
	stderr io.Writer

	errorOutput   error
	commandOutput CommandResult
}

func (c *commonOutputFormatter) SetError(err error) {
	c.errorOutput = err

	if err != nil {
		failed.Store(true)
	}
}

func (c *commonOutputFormatter) SetCommandResult(result CommandResult) {
	c.commandOutput = result
}

func (c *commonOutputFormatter) Failed() bool {
	return c.errorOutput != nil
}
