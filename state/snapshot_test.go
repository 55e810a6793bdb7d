package state

import (
	"testing"

	"github.com/dogechain-lab/moveledger/types"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populatedStore(t *testing.T) *Store {
	t.Helper()

	s := NewStore()

	require.NoError(t, s.Insert(coinAt(1, 1, addr1, 10)))
	require.NoError(t, s.Insert(coinAt(1, 2, addr2, 10)))
	require.NoError(t, s.Insert(coinAt(2, 1, addr1, 20)))
	require.NoError(t, s.Insert(coinAt(3, 1, addr3, 30)))
	require.NoError(t, s.Remove(types.ObjectIDFromUint64(3)))
	require.NoError(t, s.Insert(coinAt(4, 1, addr3, 40)))
	require.NoError(t, s.Wrap(types.ObjectIDFromUint64(4), coinAt(4, 2, addr3, 40)))

	require.NoError(t, s.RecordTransaction(recordedTx(addr1, coinAt(2, 1, addr1, 20), addr2)))
	s.BumpCheckpoint()

	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	s := populatedStore(t)

	snap, err := s.Export()
	require.NoError(t, err)
	require.NoError(t, snap.Validate())

	decoded := &Snapshot{}
	require.NoError(t, decoded.UnmarshalRLP(snap.MarshalRLP()))

	restored := NewStore()
	require.NoError(t, restored.Insert(coinAt(9, 1, addr1, 1)))
	require.NoError(t, restored.Restore(decoded))

	_, ok := restored.Object(types.ObjectIDFromUint64(9))
	assert.False(t, ok, "restore must replace, not merge")

	assert.Equal(t, s.Checkpoint(), restored.Checkpoint())
	assert.Equal(t, s.Transactions(), restored.Transactions())

	for _, addr := range []types.Address{addr1, addr2, addr3} {
		assert.Equal(t, ids(s.OwnedBy(addr)), ids(restored.OwnedBy(addr)))
	}

	for id := uint64(1); id <= 5; id++ {
		for v := types.SequenceNumber(0); v <= 3; v++ {
			want := s.GetAtVersion(types.ObjectIDFromUint64(id), v)
			got := restored.GetAtVersion(types.ObjectIDFromUint64(id), v)

			assert.Equal(t, want.Status, got.Status, "object %d version %d", id, v)
			assert.Equal(t, want.Reference, got.Reference)
		}
	}

	filter := types.FilterBySender(addr1)

	want, err := s.Query(filter)
	require.NoError(t, err)

	got, err := restored.Query(filter)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	again, err := restored.Export()
	require.NoError(t, err)
	assert.Equal(t, snap.MarshalRLP(), again.MarshalRLP())
}

func TestSnapshotValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		corrupt func(snap *Snapshot)
	}{
		{
			"owner mismatch",
			func(snap *Snapshot) {
				snap.ObjectOwners[0].Owner = types.AddressOwner(addr3)
			},
		},
		{
			"object without timeline",
			func(snap *Snapshot) {
				snap.Timelines = snap.Timelines[1:]
			},
		},
		{
			"ownership index drift",
			func(snap *Snapshot) {
				snap.Ownership = snap.Ownership[1:]
			},
		},
		{
			"unrecorded indexed transaction",
			func(snap *Snapshot) {
				snap.Transactions = nil
			},
		},
		{
			"missing indices",
			func(snap *Snapshot) {
				snap.Indices = nil
			},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := populatedStore(t)

			snap, err := s.Export()
			require.NoError(t, err)

			tt.corrupt(snap)

			err = snap.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSnapshotInconsistent)

			var merr *multierror.Error
			assert.ErrorAs(t, err, &merr)

			target := NewStore()
			require.NoError(t, target.Insert(coinAt(9, 1, addr1, 1)))
			require.Error(t, target.Restore(snap))

			_, ok := target.Object(types.ObjectIDFromUint64(9))
			assert.True(t, ok, "failed restore must not touch the store")
		})
	}
}
