// SPDX-License-Identifier: MIT
package present

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// SnapshotName returns the file name used for frame seq.
func SnapshotName(seq uint64) string {
	return fmt.Sprintf("frame-%06d.png", seq)
}

// WriteSnapshot encodes img as PNG into dir and returns the written path.
func WriteSnapshot(dir string, seq uint64, img image.Image) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "creating snapshot directory")
	}

	path := filepath.Join(dir, SnapshotName(seq))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating snapshot")
	}

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "encoding snapshot %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "closing snapshot %s", path)
	}
	return path, nil
}
