// SPDX-License-Identifier: MIT

// Package source loads the image the renderer warps.
package source

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	applog "rowwarp/internal/log"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrInvalidSize is returned for a non-positive target size.
var ErrInvalidSize = errors.New("source: target size must be positive")

// Load decodes the image at path and scales it to exactly width x height.
func Load(path string, width, height int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening source image")
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding source image %s", path)
	}
	b := img.Bounds()
	applog.Debugf("Source: Decoded %s image %dx%d from %s", format, b.Dx(), b.Dy(), path)

	return Fit(img, width, height)
}

// Fit returns img as a width x height RGBA image anchored at the origin.
// Images already that size are copied, anything else is scaled bilinearly.
func Fit(img image.Image, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "%dx%d", width, height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst, nil
	}
	if b.Empty() {
		return nil, errors.Errorf("source: image has no pixels (%v)", b)
	}

	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}
