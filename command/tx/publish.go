package tx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

const (
	senderFlag  = "sender"
	moduleFlag  = "module"
	depFlag     = "dep"
	modulesFlag = "modules-dir"
)

var errNoModules = errors.New("at least one --module or a --modules-dir is required")

var publishParams = &publishTxParams{}

type publishTxParams struct {
	rawSender  string
	moduleList []string
	modulesDir string
	rawDeps    []string

	sender  types.Address
	modules []types.PackageModule
	deps    []types.ObjectID
}

// readModules loads every .mv file of dir as a module named after the file
func readModules(dir string) ([]types.PackageModule, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.mv"))
	if err != nil {
		return nil, err
	}

	modules := make([]types.PackageModule, 0, len(paths))

	for _, path := range paths {
		bytecode, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		modules = append(modules, types.PackageModule{
			Name:     strings.TrimSuffix(filepath.Base(path), ".mv"),
			Bytecode: bytecode,
		})
	}

	return modules, nil
}

func (p *publishTxParams) validateFlags() error {
	sender, err := types.ParseAddress(p.rawSender)
	if err != nil {
		return err
	}

	p.sender = sender
	p.modules = p.modules[:0]

	for _, name := range p.moduleList {
		p.modules = append(p.modules, types.PackageModule{Name: name})
	}

	if p.modulesDir != "" {
		modules, err := readModules(p.modulesDir)
		if err != nil {
			return fmt.Errorf("failed to read modules: %w", err)
		}

		p.modules = append(p.modules, modules...)
	}

	if len(p.modules) == 0 {
		return errNoModules
	}

	p.deps = p.deps[:0]

	for _, raw := range p.rawDeps {
		id, err := types.ParseObjectID(raw)
		if err != nil {
			return err
		}

		p.deps = append(p.deps, id)
	}

	return nil
}

func publishCommand() *cobra.Command {
	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Publishes a package on behalf of a sender, funding it when needed",
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return publishParams.validateFlags()
		},
		Run: runPublishCommand,
	}

	publishCmd.Flags().StringVar(&publishParams.rawSender, senderFlag, "", "the publishing address")
	publishCmd.Flags().StringSliceVar(&publishParams.moduleList, moduleFlag, nil, "names of modules without bytecode")
	publishCmd.Flags().StringVar(&publishParams.modulesDir, modulesFlag, "", "a directory of compiled .mv modules")
	publishCmd.Flags().StringSliceVar(&publishParams.rawDeps, depFlag, nil, "ids of the packages depended on")

	_ = publishCmd.MarkFlagRequired(senderFlag)

	return publishCmd
}

func runPublishCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	resp, err := s.Engine.PublishPackage(publishParams.sender, publishParams.modules, publishParams.deps)
	if err != nil {
		outputter.SetError(err)

		return
	}

	if resp.Effects != nil {
		if _, err := s.Commit(); err != nil {
			outputter.SetError(err)

			return
		}
	}

	outputter.SetCommandResult(newPublishResult(resp))
}
