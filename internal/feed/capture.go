// SPDX-License-Identifier: MIT
package feed

import (
	"context"
	"math"
	"os"
	"sync/atomic"

	applog "rowwarp/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

// CaptureConfig configures a live input.
type CaptureConfig struct {
	Device     int
	SampleRate float64
	Gate       float64 // Peak level in [0, 1] below which frames count as silence.
	Record     string  // Optional WAV path receiving the raw input.
}

// Capture feeds a PortAudio input stream into an analyzer. The stream
// callback runs on PortAudio's thread and must not allocate.
type Capture struct {
	cfg    CaptureConfig
	gate   int32
	buffer []int32

	recorder *Recorder
	frames   atomic.Uint64
	gated    atomic.Uint64
}

// NewCapture returns an unopened capture.
func NewCapture(cfg CaptureConfig) *Capture {
	return &Capture{
		cfg:  cfg,
		gate: GateThreshold(cfg.Gate),
	}
}

// GateThreshold converts a level in [0, 1] to an absolute 32-bit amplitude.
func GateThreshold(level float64) int32 {
	level = min(max(level, 0), 1)
	return int32(level * float64(math.MaxInt32))
}

// Peak returns the largest absolute sample in buf.
func Peak(buf []int32) int32 {
	var peak int32
	for _, s := range buf {
		mask := s >> 31
		amp := (s ^ mask) - mask
		diff := amp - peak
		peak += (diff & (diff >> 31)) ^ diff
	}
	return peak
}

// Run opens the device and streams into a until ctx is cancelled.
// PortAudio must be initialized.
func (c *Capture) Run(ctx context.Context, a *Analyzer) error {
	dev, err := InputDevice(c.cfg.Device)
	if err != nil {
		return err
	}

	c.buffer = make([]int32, a.Size())
	if c.cfg.Record != "" {
		rec, err := NewRecorder(c.cfg.Record, int(c.cfg.SampleRate), a.Size())
		if err != nil {
			return err
		}
		c.recorder = rec
		defer func() {
			if err := rec.Close(); err != nil {
				applog.Errorf("Capture: Closing recording: %v", err)
			}
		}()
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      c.cfg.SampleRate,
		FramesPerBuffer: a.Size(),
	}

	stream, err := portaudio.OpenStream(params, func(in []int32) {
		c.process(in, a)
	})
	if err != nil {
		return errors.Wrapf(err, "opening input %q", dev.Name)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return errors.Wrapf(err, "starting input %q", dev.Name)
	}
	applog.Infof("Capture: Streaming from %q at %.0f Hz", dev.Name, c.cfg.SampleRate)

	<-ctx.Done()

	if err := stream.Stop(); err != nil {
		return errors.Wrap(err, "stopping input")
	}
	applog.Infof("Capture: Stopped after %d frames (%d gated)", c.frames.Load(), c.gated.Load())
	return nil
}

func (c *Capture) process(in []int32, a *Analyzer) {
	n := copy(c.buffer, in)
	frame := c.buffer[:n]
	c.frames.Add(1)

	if c.recorder != nil {
		c.recorder.Write(frame)
	}

	if Peak(frame) <= c.gate {
		c.gated.Add(1)
		a.Silence()
		return
	}
	a.ProcessInt32(frame)
}

// Recorder writes 32-bit mono PCM to a WAV file.
type Recorder struct {
	file *os.File
	enc  *wav.Encoder
	buf  *audio.IntBuffer
	err  error
}

// NewRecorder creates path and prepares to receive frames of up to
// frameSize samples.
func NewRecorder(path string, sampleRate, frameSize int) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "creating recording")
	}
	return &Recorder{
		file: f,
		enc:  wav.NewEncoder(f, sampleRate, 32, 1, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			Data:           make([]int, frameSize),
			SourceBitDepth: 32,
		},
	}, nil
}

// Write appends frame. The first error is kept and reported by Close.
func (r *Recorder) Write(frame []int32) {
	if r.err != nil {
		return
	}
	data := r.buf.Data[:cap(r.buf.Data)]
	if len(frame) > len(data) {
		frame = frame[:len(data)]
	}
	for i, s := range frame {
		data[i] = int(s)
	}
	r.buf.Data = data[:len(frame)]
	r.err = r.enc.Write(r.buf)
}

// Close finalizes the WAV header and closes the file.
func (r *Recorder) Close() error {
	encErr := r.enc.Close()
	fileErr := r.file.Close()
	switch {
	case r.err != nil:
		return errors.Wrap(r.err, "writing recording")
	case encErr != nil:
		return errors.Wrap(encErr, "finalizing recording")
	case fileErr != nil:
		return errors.Wrap(fileErr, "closing recording")
	}
	return nil
}
