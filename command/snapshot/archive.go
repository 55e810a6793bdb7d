package snapshot

import (
	"github.com/dogechain-lab/moveledger/archive"
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/spf13/cobra"
)

func saveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save [name]",
		Short: "Saves the head ledger state under a name, generated when omitted",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSaveCommand,
	}
}

func runSaveCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	snap, err := s.Engine.Export()
	if err != nil {
		outputter.SetError(err)

		return
	}

	if name, err = s.Archive.Save(name, snap); err != nil {
		outputter.SetError(err)

		return
	}

	entry, err := s.Archive.Entry(name)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&EntryResult{Action: "saved", Entry: entry})
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists the saved snapshots",
		Args:  cobra.NoArgs,
		Run:   runListCommand,
	}
}

func runListCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	entries, err := s.Archive.List()
	if err != nil {
		outputter.SetError(err)

		return
	}

	head, _, err := s.Archive.Head()
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&ListResult{Head: head, Entries: entries})
}

func loadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <name>",
		Short: "Makes a saved snapshot the head ledger state",
		Args:  cobra.ExactArgs(1),
		Run:   runLoadCommand,
	}
}

func runLoadCommand(cmd *cobra.Command, args []string) {
	runEntryCommand(cmd, args[0], "loaded", func(a *archive.Archive) error {
		return a.SetHead(args[0])
	})
}

func deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Deletes a saved snapshot",
		Args:  cobra.ExactArgs(1),
		Run:   runDeleteCommand,
	}
}

func runDeleteCommand(cmd *cobra.Command, args []string) {
	runEntryCommand(cmd, args[0], "deleted", func(a *archive.Archive) error {
		return a.Delete(args[0])
	})
}

// runEntryCommand applies fn to the named snapshot and reports the entry
// as it was before
func runEntryCommand(cmd *cobra.Command, name, action string, fn func(*archive.Archive) error) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	entry, err := s.Archive.Entry(name)
	if err != nil {
		outputter.SetError(err)

		return
	}

	if err := fn(s.Archive); err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&EntryResult{Action: action, Entry: entry})
}
