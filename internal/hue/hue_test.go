// SPDX-License-Identifier: MIT
package hue

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"
)

func TestPhase(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		period  time.Duration
		want    float64
	}{
		{"start", 0, time.Minute, 0},
		{"half minute", 30 * time.Second, time.Minute, 0.5},
		{"wraps", 90 * time.Second, time.Minute, 0.5},
		{"exact period", 2 * time.Minute, time.Minute, 0},
		{"custom period", 5 * time.Second, 20 * time.Second, 0.25},
		{"zero period", time.Hour, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Phase(tt.elapsed, tt.period)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Phase(%s, %s) = %v, want %v", tt.elapsed, tt.period, got, tt.want)
			}
			if got < 0 || got >= 1 {
				t.Errorf("Phase out of [0,1): %v", got)
			}
		})
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name  string
		in    color.RGBA
		phase float64
		want  color.RGBA
	}{
		{"red to green", color.RGBA{255, 0, 0, 255}, 1.0 / 3, color.RGBA{0, 255, 0, 255}},
		{"red to blue", color.RGBA{255, 0, 0, 255}, 2.0 / 3, color.RGBA{0, 0, 255, 255}},
		{"full turn", color.RGBA{12, 200, 99, 255}, 1, color.RGBA{12, 200, 99, 255}},
		{"grey unchanged", color.RGBA{128, 128, 128, 255}, 0.4, color.RGBA{128, 128, 128, 255}},
		{"transparent unchanged", color.RGBA{}, 0.25, color.RGBA{}},
		{"premultiplied red", color.RGBA{128, 0, 0, 128}, 1.0 / 3, color.RGBA{0, 128, 0, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotate(tt.in, tt.phase)
			if !near(got, tt.want) {
				t.Errorf("Rotate(%v, %v) = %v, want %v", tt.in, tt.phase, got, tt.want)
			}
		})
	}
}

func TestRotateImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	src.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	src.SetRGBA(1, 0, color.RGBA{255, 0, 0, 255})
	dst := image.NewRGBA(src.Rect)

	RotateImage(dst, src, 1.0/3)

	for x := 0; x < 2; x++ {
		if got := dst.RGBAAt(x, 0); !near(got, color.RGBA{0, 255, 0, 255}) {
			t.Errorf("pixel %d = %v, want green", x, got)
		}
	}
	if got := dst.RGBAAt(2, 0); got != (color.RGBA{}) {
		t.Errorf("transparent pixel = %v", got)
	}
}

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return int(x)-int(y) <= 1 && int(y)-int(x) <= 1 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && a.A == b.A
}
