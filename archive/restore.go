package archive

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/dogechain-lab/moveledger/state"
	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"
)

// ReadSnapshot reads a snapshot written by WriteSnapshot, compressed or not
func ReadSnapshot(log hclog.Logger, reader io.Reader) (*state.Snapshot, error) {
	fbuf := bufio.NewReaderSize(reader, 1*1024*1024)

	// check whether the stream is compressed
	magic, err := fbuf.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	var readBuf io.Reader

	if bytes.Equal(magic, zstdMagic) {
		zstdReader, err := zstd.NewReader(fbuf)
		if err != nil {
			return nil, err
		}
		defer zstdReader.Close()

		log.Debug("snapshot is compressed with zstd")

		readBuf = zstdReader
	} else {
		readBuf = fbuf
	}

	raw, err := io.ReadAll(readBuf)
	if err != nil {
		return nil, err
	}

	return Decode(raw)
}

// RestoreBackup reads the snapshot archive at filePath and replaces the
// state of dst with it. Nothing is replaced when the archive is invalid.
func RestoreBackup(log hclog.Logger, dst Snapshotter, filePath string) error {
	fp, err := os.OpenFile(filePath, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer fp.Close()

	snap, err := ReadSnapshot(log, fp)
	if err != nil {
		log.Error("failed to read snapshot", "path", filePath, "err", err)

		return err
	}

	if err := dst.Restore(snap); err != nil {
		return err
	}

	log.Info("snapshot restored",
		"path", filePath,
		"checkpoint", snap.Checkpoint,
		"objects", len(snap.Objects),
		"transactions", len(snap.Transactions),
	)

	return nil
}
