// SPDX-License-Identifier: MIT

// Package warp stretches the rows of a source image according to a vector
// of samples. Sample y owns a horizontal band of H/N rows; each row in the
// band shows the leftmost part of the same source row, stretched by 1/value
// and cut off at floor(W*value) columns. Everything right of the cut stays
// transparent black.
package warp

import (
	"image"
	"math"
)

// Params control one warp.
type Params struct {
	MaxValue float64       // Ceiling used by the Ceiling mode.
	Mode     Normalization // How samples are normalised.
	Reversed bool          // Flip sample order (and so band order).
}

// Compositor owns the destination frame and its normalisation scratch. The
// returned frame is reused by the next Warp call.
type Compositor struct {
	width  int
	height int
	dst    *image.RGBA
	norm   []float64
}

// NewCompositor allocates a compositor for frames of width x height.
func NewCompositor(width, height int) *Compositor {
	return &Compositor{
		width:  width,
		height: height,
		dst:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Bounds returns the frame rectangle.
func (c *Compositor) Bounds() image.Rectangle {
	return c.dst.Rect
}

// Frame returns the last composed frame.
func (c *Compositor) Frame() *image.RGBA {
	return c.dst
}

// Warp composes a frame from samples and src. src should have the
// compositor's dimensions; a smaller source limits the rows and columns
// that can be sampled. An empty samples vector yields a blank frame.
func (c *Compositor) Warp(samples []float64, src *image.RGBA, p Params) *image.RGBA {
	clear(c.dst.Pix)

	n := len(samples)
	if n == 0 || src == nil {
		return c.dst
	}
	if cap(c.norm) < n {
		c.norm = make([]float64, n)
	}
	c.norm = c.norm[:n]
	normalize(c.norm, samples, p)

	w, h := c.width, c.height
	srcW := min(w, src.Rect.Dx())
	srcH := min(h, src.Rect.Dy())
	if srcW <= 0 || srcH <= 0 {
		return c.dst
	}
	rowsPerSample := float64(h) / float64(n)

	for y, value := range c.norm {
		// Zero has no stretch factor; NaN and negatives draw nothing either.
		if !(value > 0) {
			continue
		}

		startRow := int(math.Floor(float64(y) * rowsPerSample))
		endRow := min(int(math.Floor(float64(y+1)*rowsPerSample)), srcH)
		rowWidth := min(int(math.Floor(float64(w)*value)), w)

		for row := startRow; row < endRow; row++ {
			dst := c.dst.Pix[row*c.dst.Stride : row*c.dst.Stride+w*4]
			off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+row)
			srcRow := src.Pix[off : off+srcW*4]
			stretchRow(dst, srcRow, rowWidth, value)
		}
	}

	return c.dst
}

// stretchRow fills dst[0:rowWidth] from src, reading column floor(x/value).
func stretchRow(dst, src []byte, rowWidth int, value float64) {
	srcW := len(src) / 4
	if value == 1 {
		copy(dst[:min(rowWidth, srcW)*4], src)
		return
	}
	for x := 0; x < rowWidth; x++ {
		sx := int(float64(x) / value)
		if sx >= srcW {
			sx = srcW - 1
		}
		copy(dst[x*4:x*4+4], src[sx*4:sx*4+4])
	}
}
