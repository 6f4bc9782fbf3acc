// SPDX-License-Identifier: MIT
package feed

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rowwarp/pkg/utils"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// writeWAV encodes interleaved 16-bit samples to a temporary file.
func writeWAV(t *testing.T, data []int, sampleRate, channels int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWAVMono(t *testing.T) {
	path := writeWAV(t, []int{0, 16384, -16384, 32767}, 8000, 1)

	clip, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if clip.SampleRate != 8000 || len(clip.Samples) != 4 {
		t.Fatalf("clip = %v Hz, %d samples", clip.SampleRate, len(clip.Samples))
	}
	want := []float64{0, 0.5, -0.5, 32767.0 / 32768}
	for i := range want {
		if math.Abs(clip.Samples[i]-want[i]) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, clip.Samples[i], want[i])
		}
	}
	if d := clip.Duration(); d < 499*time.Microsecond || d > 501*time.Microsecond {
		t.Errorf("duration = %s", d)
	}
}

func TestLoadWAVDownmixesStereo(t *testing.T) {
	path := writeWAV(t, []int{16384, 0, -16384, -16384}, 8000, 2)

	clip, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	want := []float64{0.25, -0.5}
	if len(clip.Samples) != len(want) {
		t.Fatalf("len = %d", len(clip.Samples))
	}
	for i := range want {
		if math.Abs(clip.Samples[i]-want[i]) > 1e-9 {
			t.Errorf("frame %d = %v, want %v", i, clip.Samples[i], want[i])
		}
	}
}

func TestLoadWAVInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("RIFF nonsense"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWAV(path); !errors.Is(err, ErrInvalidWAV) {
		t.Errorf("err = %v, want ErrInvalidWAV", err)
	}
	if _, err := LoadWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClipFrameAtWraps(t *testing.T) {
	clip := &Clip{Samples: []float64{0, 1, 2, 3, 4}, SampleRate: 5}
	dst := make([]float64, 7)

	tests := []struct {
		pos  int
		want []float64
	}{
		{0, []float64{0, 1, 2, 3, 4, 0, 1}},
		{3, []float64{3, 4, 0, 1, 2, 3, 4}},
		{12, []float64{2, 3, 4, 0, 1, 2, 3}},
		{-2, []float64{3, 4, 0, 1, 2, 3, 4}},
	}
	for _, tt := range tests {
		clip.FrameAt(tt.pos, dst)
		for i := range dst {
			if dst[i] != tt.want[i] {
				t.Errorf("FrameAt(%d) = %v, want %v", tt.pos, dst, tt.want)
				break
			}
		}
	}
}

func TestWAVInputStepTracksClock(t *testing.T) {
	const rate = 8000
	clip := &Clip{Samples: utils.SineWave(rate, rate, 1000, 0.8), SampleRate: rate}
	a, err := NewAnalyzer(256, rate, Hann)
	if err != nil {
		t.Fatal(err)
	}

	in := NewWAVInput(clip)
	in.Step(250*time.Millisecond, a)

	peak := utils.FindPeakBin(a.Magnitudes(), 1, a.Bins()-1)
	if got := a.FrequencyForBin(peak); math.Abs(got-1000) > rate/256.0 {
		t.Errorf("peak at %.1f Hz, want ~1000", got)
	}
}
