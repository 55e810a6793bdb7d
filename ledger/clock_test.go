package ledger

import (
	"math"
	"testing"

	"github.com/dogechain-lab/moveledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, WithInitialTime(1_000))

	sub := l.Subscribe()
	require.NotNil(t, sub)

	require.NoError(t, l.SetTime(5_000))
	assert.Equal(t, uint64(5_000), l.Time())

	ev := <-sub.GetEvent()
	assert.Equal(t, EventClock, ev.Type)
	assert.Equal(t, uint64(5_000), ev.TimestampMs)

	require.NoError(t, l.AdvanceTime(10))
	assert.Equal(t, uint64(5_010), l.Time())

	clock, err := l.Object(types.ClockObjectID)
	require.NoError(t, err)
	assert.Equal(t, types.SequenceNumber(3), clock.Version)
	assert.Equal(t, types.SharedOwner(1), clock.Owner)

	// history keeps every value
	read := l.GetAtVersion(types.ClockObjectID, 1)
	require.Equal(t, types.VersionFound, read.Status)
	assert.Equal(t, types.EncodeU64(1_000), read.Object.Body())

	require.NoError(t, l.ResetTime())
	assert.Equal(t, uint64(0), l.Time())
}

func TestClockStampsTransactions(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	require.NoError(t, l.SetTime(77))

	resp := l.execute(t, l.payTx(t, l.alice, l.bob.Address(), 1))
	require.False(t, resp.Failed(), "errors: %v", resp.Errors)
	assert.Equal(t, uint64(77), *resp.TimestampMs)
}

func TestAdvanceTimeOverflow(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	require.NoError(t, l.SetTime(math.MaxUint64))

	assert.Error(t, l.AdvanceTime(1))
	assert.Equal(t, uint64(math.MaxUint64), l.Time())
}

func TestClockMissing(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	require.NoError(t, l.DeleteObject(types.ClockObjectID))

	assert.Equal(t, uint64(0), l.Time())
	assert.ErrorIs(t, l.SetTime(1), ErrClockMissing)
	assert.ErrorIs(t, l.AdvanceTime(1), ErrClockMissing)
}

func TestClockCorrupt(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)

	broken := types.NewMoveObject(types.ClockObjectID, 2, types.SharedOwner(1), types.ClockType, nil, types.ZeroDigest)
	require.NoError(t, l.CreateObject(broken))

	assert.ErrorIs(t, l.SetTime(1), ErrClockCorrupt)
}
