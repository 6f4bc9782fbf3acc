// SPDX-License-Identifier: MIT
package feed

import (
	"context"
	"os"
	"time"

	applog "rowwarp/internal/log"

	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// ErrInvalidWAV is returned for files the decoder cannot read.
var ErrInvalidWAV = errors.New("feed: not a valid WAV file")

// Clip is a decoded file, downmixed to mono and scaled to [-1, 1].
type Clip struct {
	Samples    []float64
	SampleRate float64
}

// LoadWAV decodes the PCM WAV file at path.
func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening wav")
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, errors.Wrapf(ErrInvalidWAV, "%s", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}

	channels := max(buf.Format.NumChannels, 1)
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = int(d.BitDepth)
	}
	scale := 1.0 / float64(int64(1)<<(depth-1))

	frames := len(buf.Data) / channels
	if frames == 0 {
		return nil, errors.Wrapf(ErrInvalidWAV, "%s has no samples", path)
	}
	samples := make([]float64, frames)
	for i := range samples {
		var sum int
		for c := 0; c < channels; c++ {
			sum += buf.Data[i*channels+c]
		}
		samples[i] = float64(sum) / float64(channels) * scale
	}

	applog.Infof("WAV: Loaded %s (%d frames, %d Hz, %d-bit, %d channels)",
		path, frames, buf.Format.SampleRate, depth, channels)
	return &Clip{Samples: samples, SampleRate: float64(buf.Format.SampleRate)}, nil
}

// Duration returns the clip length.
func (c *Clip) Duration() time.Duration {
	return time.Duration(float64(len(c.Samples)) / c.SampleRate * float64(time.Second))
}

// FrameAt fills dst with samples starting at pos, wrapping at the end of
// the clip.
func (c *Clip) FrameAt(pos int, dst []float64) {
	n := len(c.Samples)
	pos %= n
	if pos < 0 {
		pos += n
	}
	for i := range dst {
		dst[i] = c.Samples[pos]
		pos++
		if pos == n {
			pos = 0
		}
	}
}

// WAVInput plays a clip through an analyzer in real time, looping.
type WAVInput struct {
	clip  *Clip
	frame []float64
}

// NewWAVInput returns an input for clip.
func NewWAVInput(clip *Clip) *WAVInput {
	return &WAVInput{clip: clip}
}

// Run feeds the analyzer one frame per hop until ctx is cancelled. The read
// position follows the wall clock so the spectrum keeps pace with playback.
func (w *WAVInput) Run(ctx context.Context, a *Analyzer) error {
	if w.clip.SampleRate != a.SampleRate() {
		applog.Warnf("WAV: Clip rate %.0f Hz differs from analyzer rate %.0f Hz", w.clip.SampleRate, a.SampleRate())
	}
	if len(w.frame) != a.Size() {
		w.frame = make([]float64, a.Size())
	}

	hop := time.Duration(float64(a.Size()) / w.clip.SampleRate * float64(time.Second) / 2)
	ticker := time.NewTicker(max(hop, time.Millisecond))
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			w.Step(now.Sub(start), a)
		}
	}
}

// Step analyzes the frame that ends at elapsed into the clip.
func (w *WAVInput) Step(elapsed time.Duration, a *Analyzer) {
	if len(w.frame) != a.Size() {
		w.frame = make([]float64, a.Size())
	}
	end := int(elapsed.Seconds() * w.clip.SampleRate)
	w.clip.FrameAt(end-len(w.frame), w.frame)
	a.Process(w.frame)
}
