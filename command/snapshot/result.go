package snapshot

import (
	"fmt"
	"strings"

	"github.com/dogechain-lab/moveledger/archive"
	"github.com/dogechain-lab/moveledger/command/helper"
)

type EntryResult struct {
	Action string         `json:"action"`
	Entry  *archive.Entry `json:"snapshot"`
}

func (r *EntryResult) GetOutput() string {
	return fmt.Sprintf("\n[SNAPSHOT %s]\n%s\n", strings.ToUpper(r.Action), helper.FormatKV([]string{
		fmt.Sprintf("Name|%s", r.Entry.Name),
		fmt.Sprintf("Checkpoint|%d", r.Entry.Checkpoint),
		fmt.Sprintf("Objects|%d", r.Entry.Objects),
		fmt.Sprintf("Transactions|%d", r.Entry.Transactions),
		fmt.Sprintf("Size|%d", r.Entry.Size),
		fmt.Sprintf("Compressed|%t", r.Entry.Compressed),
	}))
}

type ListResult struct {
	Head    string           `json:"head"`
	Entries []*archive.Entry `json:"snapshots"`
}

func (r *ListResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString("\n[SNAPSHOTS]\n")

	if len(r.Entries) == 0 {
		buffer.WriteString("No snapshots saved\n")

		return buffer.String()
	}

	rows := []string{"Name|Checkpoint|Objects|Transactions|Size|Head"}

	for _, e := range r.Entries {
		head := ""
		if e.Name == r.Head {
			head = "*"
		}

		rows = append(rows, fmt.Sprintf("%s|%d|%d|%d|%d|%s",
			e.Name, e.Checkpoint, e.Objects, e.Transactions, e.Size, head))
	}

	buffer.WriteString(helper.FormatList(rows))
	buffer.WriteString("\n")

	return buffer.String()
}

type BackupResult struct {
	Action     string `json:"action"`
	Path       string `json:"path"`
	Checkpoint uint64 `json:"checkpoint"`
}

func (r *BackupResult) GetOutput() string {
	return fmt.Sprintf("\n[BACKUP %s]\n%s\n", strings.ToUpper(r.Action), helper.FormatKV([]string{
		fmt.Sprintf("Path|%s", r.Path),
		fmt.Sprintf("Checkpoint|%d", r.Checkpoint),
	}))
}
