package archive

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dogechain-lab/fastrlp"
	"github.com/dogechain-lab/moveledger/state"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/klauspost/compress/zstd"
)

// FormatVersion is the version of the snapshot encoding
const FormatVersion = 1

var (
	ErrSnapshotCorrupted = errors.New("snapshot corrupted")
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd} // zstd Magic number

// envelope prefixes the store snapshot with the format version
type envelope struct {
	version  uint64
	snapshot *state.Snapshot
}

func (e *envelope) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(e.version))
	v.Set(e.snapshot.MarshalWith(ar))

	return v
}

func (e *envelope) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := types.ElemsOf(v, "snapshot envelope", 2)
	if err != nil {
		return err
	}

	if e.version, err = elems[0].GetUint64(); err != nil {
		return err
	}

	if e.version != FormatVersion {
		return fmt.Errorf("%w: version %d", ErrUnsupportedFormat, e.version)
	}

	e.snapshot = &state.Snapshot{}

	return e.snapshot.UnmarshalValue(elems[1])
}

// Encode returns the canonical encoding of snap
func Encode(snap *state.Snapshot) []byte {
	return types.MarshalRLP(&envelope{version: FormatVersion, snapshot: snap})
}

// Decode parses and validates an encoded snapshot
func Decode(b []byte) (*state.Snapshot, error) {
	e := &envelope{}
	if err := types.UnmarshalRLP(b, e); err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %s", ErrSnapshotCorrupted, err.Error())
	}

	if err := e.snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotCorrupted, err.Error())
	}

	return e.snapshot, nil
}

// IsCompressed reports whether blob starts with the zstd magic number
func IsCompressed(blob []byte) bool {
	return bytes.HasPrefix(blob, zstdMagic)
}

// Serialize encodes snap, compressing it with zstd at level when level is
// positive
func Serialize(snap *state.Snapshot, level int) ([]byte, error) {
	raw := Encode(snap)
	if level <= 0 {
		return raw, nil
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, err
	}
	defer encoder.Close()

	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Deserialize decompresses blob when needed and decodes it
func Deserialize(blob []byte) (*state.Snapshot, error) {
	if !IsCompressed(blob) {
		return Decode(blob)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	raw, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotCorrupted, err.Error())
	}

	return Decode(raw)
}
