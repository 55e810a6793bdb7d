package ledger

import (
	"fmt"

	"github.com/dogechain-lab/moveledger/types"
)

type EventType int

const (
	EventTransaction EventType = iota // Transaction recorded
	EventCheckpoint                   // Checkpoint bumped
	EventClock                        // Clock changed
	EventRestore                      // Store replaced from a snapshot
)

func (t EventType) String() string {
	switch t {
	case EventTransaction:
		return "transaction"
	case EventCheckpoint:
		return "checkpoint"
	case EventClock:
		return "clock"
	case EventRestore:
		return "restore"
	}

	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is the ledger event that gets passed to the listeners
type Event struct {
	Type EventType

	// Digest of the recorded transaction
	Digest types.Digest

	// Failed is set when the recorded transaction aborted
	Failed bool

	Checkpoint  uint64
	TimestampMs uint64
}
