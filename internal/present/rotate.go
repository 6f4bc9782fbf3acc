// SPDX-License-Identifier: MIT
package present

import "image"

// RotatedBounds returns the size of a w x h frame after an optional quarter
// turn.
func RotatedBounds(w, h int, rotate bool) (int, int) {
	if rotate {
		return h, w
	}
	return w, h
}

// RotateCCW writes src turned 90 degrees counterclockwise into dst, which
// must be src's height wide and src's width tall.
func RotateCCW(dst, src *image.RGBA) {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	for y := 0; y < h; y++ {
		srow := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			// (x, y) lands on (y, w-1-x).
			d := (w-1-x)*dst.Stride + y*4
			copy(dst.Pix[d:d+4], srow[x*4:x*4+4])
		}
	}
}
