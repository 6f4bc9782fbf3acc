// SPDX-License-Identifier: MIT
package feed

import (
	"math"
	"path/filepath"
	"testing"

	"rowwarp/pkg/utils"
)

func TestPeak(t *testing.T) {
	tests := []struct {
		name string
		buf  []int32
		want int32
	}{
		{"empty", nil, 0},
		{"positive", []int32{1, 5, 3}, 5},
		{"negative", []int32{-7, 2}, 7},
		{"max", []int32{math.MaxInt32, -5}, math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Peak(tt.buf); got != tt.want {
				t.Errorf("Peak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGateThreshold(t *testing.T) {
	tests := []struct {
		level float64
		want  int32
	}{
		{-0.1, 0},
		{0, 0},
		{0.5, int32(0.5 * math.MaxInt32)},
		{1, math.MaxInt32},
		{1.5, math.MaxInt32},
	}
	for _, tt := range tests {
		if got := GateThreshold(tt.level); got != tt.want {
			t.Errorf("GateThreshold(%v) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestCaptureProcessGates(t *testing.T) {
	a, _ := NewAnalyzer(256, testSampleRate, Hann)
	c := NewCapture(CaptureConfig{Gate: 0.5})
	c.buffer = make([]int32, 256)

	loud := utils.GenerateSineWave(256, testSampleRate, 1000)
	c.process(loud, a)
	if utils.FindPeakBin(a.Magnitudes(), 0, a.Bins()-1) == 0 {
		t.Fatal("loud frame produced no spectrum")
	}

	quiet := make([]int32, 256)
	for i, s := range loud {
		quiet[i] = s / 10
	}
	c.process(quiet, a)
	for i, m := range a.Magnitudes() {
		if m != 0 {
			t.Fatalf("bin %d = %v, gated frame should be silent", i, m)
		}
	}
	if c.frames.Load() != 2 || c.gated.Load() != 1 {
		t.Errorf("frames = %d, gated = %d", c.frames.Load(), c.gated.Load())
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.wav")
	rec, err := NewRecorder(path, 8000, 4)
	if err != nil {
		t.Fatal(err)
	}

	rec.Write([]int32{0, 1 << 30, -(1 << 30), 0})
	rec.Write([]int32{1 << 29})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	clip, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	want := []float64{0, 0.5, -0.5, 0, 0.25}
	if len(clip.Samples) != len(want) {
		t.Fatalf("samples = %v", clip.Samples)
	}
	for i := range want {
		if math.Abs(clip.Samples[i]-want[i]) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, clip.Samples[i], want[i])
		}
	}
}

func TestDeviceKind(t *testing.T) {
	tests := []struct {
		in, out int
		want    string
	}{
		{2, 2, "Input/Output"},
		{1, 0, "Input"},
		{0, 2, "Output"},
		{0, 0, ""},
	}
	for _, tt := range tests {
		d := Device{MaxInputChannels: tt.in, MaxOutputChannels: tt.out}
		if got := d.Kind(); got != tt.want {
			t.Errorf("Kind(%d in, %d out) = %q, want %q", tt.in, tt.out, got, tt.want)
		}
	}
}
