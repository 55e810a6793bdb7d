package archive

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/dogechain-lab/moveledger/state"
	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"
)

// Snapshotter exports and replaces the whole state of a ledger
type Snapshotter interface {
	Export() (*state.Snapshot, error)
	Restore(snap *state.Snapshot) error
}

// WriteSnapshot streams the encoding of snap to writer, through a zstd
// encoder when enableZstdCompression is set
func WriteSnapshot(
	writer io.Writer,
	snap *state.Snapshot,
	enableZstdCompression bool,
	zstdLevel int,
) (err error) {
	var writeBuf io.Writer = writer

	if enableZstdCompression {
		var zstdWriter *zstd.Encoder

		zstdWriter, err = zstd.NewWriter(writer,
			zstd.WithEncoderLevel(
				zstd.EncoderLevelFromZstd(zstdLevel),
			))
		if err != nil {
			return err
		}

		defer func() {
			if closeErr := zstdWriter.Close(); err == nil {
				err = closeErr
			}
		}()

		writeBuf = zstdWriter
	}

	// tips: writer.Write() not necessarily write all data, use io.Copy() instead
	_, err = io.Copy(writeBuf, bytes.NewBuffer(Encode(snap)))

	return err
}

// CreateBackup exports src and saves the snapshot as a binary archive to
// the given path. It returns the checkpoint of the saved snapshot.
func CreateBackup(
	src Snapshotter,
	logger hclog.Logger,
	outPath string,
	overwriteFile bool,
	enableZstdCompression bool,
	zstdLevel int,
) (checkpoint uint64, err error) {
	snap, err := src.Export()
	if err != nil {
		return 0, err
	}

	// allow to overwrite the overwrites file only if it's explicitly set
	fileFlag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwriteFile {
		fileFlag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	fp, err := os.OpenFile(outPath, fileFlag, 0644)
	if err != nil {
		return 0, err
	}

	defer func() {
		if closeErr := fp.Close(); err == nil {
			err = closeErr
		}
	}()

	fbuf := bufio.NewWriterSize(fp, 1*1024*1024)

	if err = WriteSnapshot(fbuf, snap, enableZstdCompression, zstdLevel); err != nil {
		return 0, err
	}

	if err = fbuf.Flush(); err != nil {
		return 0, err
	}

	logger.Info("wrote snapshot to backup",
		"path", outPath,
		"checkpoint", snap.Checkpoint,
		"objects", len(snap.Objects),
		"transactions", len(snap.Transactions),
		"zstd", enableZstdCompression,
	)

	return snap.Checkpoint, nil
}
