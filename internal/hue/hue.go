// SPDX-License-Identifier: MIT

// Package hue computes the cycling hue offset and applies it on the CPU.
// The window presenter does the same rotation in a shader; this is the
// reference used by the headless presenter and by tests.
package hue

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Phase returns elapsed/period modulo 1, a value in [0, 1) that wraps once
// per period. A non-positive period freezes the phase at 0.
func Phase(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	p := math.Mod(elapsed.Seconds()/period.Seconds(), 1)
	if p < 0 {
		p++
	}
	return p
}

// Rotate shifts the hue of a premultiplied RGBA colour by phase turns,
// keeping saturation, value and alpha.
func Rotate(c color.RGBA, phase float64) color.RGBA {
	if c.A == 0 {
		return c
	}

	a := float64(c.A)
	col := colorful.Color{
		R: float64(c.R) / a,
		G: float64(c.G) / a,
		B: float64(c.B) / a,
	}
	h, s, v := col.Hsv()
	h = math.Mod(h+phase*360, 360)
	if h < 0 {
		h += 360
	}
	out := colorful.Hsv(h, s, v).Clamped()

	return color.RGBA{
		R: premul(out.R, c.A),
		G: premul(out.G, c.A),
		B: premul(out.B, c.A),
		A: c.A,
	}
}

func premul(v float64, a uint8) uint8 {
	return uint8(math.Round(v * float64(a)))
}

// RotateImage writes src with its hue shifted by phase into dst. Both
// images must have the same bounds. Fully transparent pixels are copied
// as-is.
func RotateImage(dst, src *image.RGBA, phase float64) {
	if phase == 0 {
		copy(dst.Pix, src.Pix)
		return
	}

	var last, lastOut color.RGBA
	for i := 0; i+3 < len(src.Pix); i += 4 {
		px := color.RGBA{R: src.Pix[i], G: src.Pix[i+1], B: src.Pix[i+2], A: src.Pix[i+3]}
		out := px
		if px.A != 0 {
			// Warped rows repeat stretched pixels, so neighbours are often equal.
			if px != last || i == 0 {
				last, lastOut = px, Rotate(px, phase)
			}
			out = lastOut
		}
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = out.R, out.G, out.B, out.A
	}
}
