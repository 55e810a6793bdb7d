package clock

import (
	"fmt"
	"time"

	"github.com/dogechain-lab/moveledger/command/helper"
)

type ClockResult struct {
	TimestampMs uint64 `json:"timestampMs"`
}

func (r *ClockResult) GetOutput() string {
	//nolint:gosec
	wall := time.UnixMilli(int64(r.TimestampMs)).UTC()

	return fmt.Sprintf("\n[CLOCK]\n%s\n", helper.FormatKV([]string{
		fmt.Sprintf("Timestamp|%d", r.TimestampMs),
		fmt.Sprintf("UTC|%s", wall.Format(time.RFC3339Nano)),
	}))
}
