package ledger

import (
	"github.com/dogechain-lab/moveledger/archive"
	"github.com/dogechain-lab/moveledger/state"
)

// Export captures the whole ledger state
func (e *Engine) Export() (*state.Snapshot, error) {
	return e.store.Export()
}

// Restore replaces the ledger state with snap. An invalid snapshot leaves
// the state untouched.
func (e *Engine) Restore(snap *state.Snapshot) error {
	if err := e.store.Restore(snap); err != nil {
		e.logger.Error("snapshot rejected", "err", err)

		return err
	}

	e.metrics.SetLiveObjects(float64(e.store.Len()))
	e.metrics.SetCheckpoint(float64(e.store.Checkpoint()))

	e.logger.Info("snapshot restored", "checkpoint", e.store.Checkpoint(), "objects", e.store.Len())
	e.stream.push(&Event{Type: EventRestore, Checkpoint: e.store.Checkpoint(), TimestampMs: e.Time()})

	return nil
}

// Serialize exports the ledger state as bytes, zstd compressed at
// zstdLevel when it is positive
func (e *Engine) Serialize(zstdLevel int) ([]byte, error) {
	snap, err := e.Export()
	if err != nil {
		return nil, err
	}

	return archive.Serialize(snap, zstdLevel)
}

// Deserialize replaces the ledger state with the serialized snapshot blob
func (e *Engine) Deserialize(blob []byte) error {
	snap, err := archive.Deserialize(blob)
	if err != nil {
		return err
	}

	return e.Restore(snap)
}

var _ archive.Snapshotter = (*Engine)(nil)
