package command

import (
	"fmt"
)

type cliOutput struct {
	commonOutputFormatter
}

func (cli *cliOutput) WriteOutput() {
	if cli.errorOutput != nil {
		_, _ = fmt.Fprintln(cli.stderr, cli.getErrorOutput())

		return
	}

	_, _ = fmt.Fprintln(cli.stdout, cli.getCommandOutput())
}

func (cli *cliOutput) getErrorOutput() string {
	if cli.errorOutput == nil {
		return ""
	}

	return cli.errorOutput.Error()
}

func (cli *cliOutput) getCommandOutput() string {
	if cli.commandOutput == nil {
		return ""
	}

	return cli.commandOutput.GetOutput()
}
