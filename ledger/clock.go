package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dogechain-lab/moveledger/chain"
	"github.com/dogechain-lab/moveledger/types"
)

var (
	ErrClockMissing = errors.New("clock object missing")
	ErrClockCorrupt = errors.New("clock object is malformed")
)

func (e *Engine) clock() (*types.Object, uint64, error) {
	obj, ok := e.store.Object(types.ClockObjectID)
	if !ok {
		return nil, 0, ErrClockMissing
	}

	body := obj.Body()
	if obj.Type == nil || !obj.Type.Is(types.FrameworkAddress, "clock", "Clock") || len(body) < 8 {
		return nil, 0, fmt.Errorf("%w: %s", ErrClockCorrupt, obj.Type)
	}

	return obj, binary.LittleEndian.Uint64(body[:8]), nil
}

// Time returns the clock timestamp in milliseconds. A missing clock reads
// as zero.
func (e *Engine) Time() uint64 {
	_, ms, err := e.clock()
	if err != nil {
		return 0
	}

	return ms
}

// SetTime writes a new version of the clock holding ms
func (e *Engine) SetTime(ms uint64) error {
	obj, _, err := e.clock()
	if err != nil {
		return err
	}

	next := chain.NewClockObject(obj.Version+1, ms, obj.PreviousTransaction)
	next.Owner = obj.Owner

	if err := e.store.Insert(next); err != nil {
		return err
	}

	e.logger.Debug("clock set", "timestamp", ms, "version", next.Version)
	e.stream.push(&Event{Type: EventClock, Checkpoint: e.store.Checkpoint(), TimestampMs: ms})

	return nil
}

// AdvanceTime moves the clock forward by ms
func (e *Engine) AdvanceTime(ms uint64) error {
	_, now, err := e.clock()
	if err != nil {
		return err
	}

	if now+ms < now {
		return fmt.Errorf("advancing clock %d by %d overflows", now, ms)
	}

	return e.SetTime(now + ms)
}

// ResetTime sets the clock back to zero
func (e *Engine) ResetTime() error {
	return e.SetTime(0)
}
