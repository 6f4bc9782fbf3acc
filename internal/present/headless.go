// SPDX-License-Identifier: MIT

// Package present puts composed frames somewhere visible. The window
// presenter lives in present/window; this package holds the headless
// runner and the helpers both share.
package present

import (
	"context"
	"image"
	"time"

	"rowwarp/internal/hue"
	applog "rowwarp/internal/log"
	"rowwarp/internal/render"

	"github.com/pkg/errors"
)

// ErrInvalidFPS is returned for a non-positive frame rate.
var ErrInvalidFPS = errors.New("present: fps must be positive")

// HeadlessOptions configures a Headless runner.
type HeadlessOptions struct {
	FPS           int
	Frames        uint64 // Stop after this many frames; 0 runs until cancelled.
	Rotate        bool
	SnapshotDir   string
	SnapshotEvery int // Write every Nth frame; 0 disables snapshots.
}

// Headless ticks a render loop at a fixed rate without a display, applying
// the hue rotation on the CPU.
type Headless struct {
	loop *render.Loop
	opts HeadlessOptions

	tinted  *image.RGBA
	rotated *image.RGBA
	count   uint64
}

// NewHeadless returns a runner for loop.
func NewHeadless(loop *render.Loop, opts HeadlessOptions) (*Headless, error) {
	if opts.FPS <= 0 {
		return nil, errors.Wrapf(ErrInvalidFPS, "got %d", opts.FPS)
	}

	b := loop.State().Source().Bounds()
	h := &Headless{
		loop:   loop,
		opts:   opts,
		tinted: image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy())),
	}
	if opts.Rotate {
		w, ht := RotatedBounds(b.Dx(), b.Dy(), true)
		h.rotated = image.NewRGBA(image.Rect(0, 0, w, ht))
	}
	return h, nil
}

// Run ticks until ctx is cancelled or the frame limit is reached.
func (h *Headless) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(h.opts.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	applog.Infof("Headless: Running at %d fps (%s per frame)", h.opts.FPS, interval)

	for {
		select {
		case <-ctx.Done():
			applog.Infof("Headless: Stopping after %d frames", h.count)
			return nil
		case now := <-ticker.C:
			if _, err := h.Frame(now); err != nil {
				return err
			}
			if h.opts.Frames > 0 && h.count >= h.opts.Frames {
				applog.Infof("Headless: Reached frame limit %d", h.opts.Frames)
				return nil
			}
		}
	}
}

// Frame renders one frame for now and returns the presented image, which
// is reused by the next call.
func (h *Headless) Frame(now time.Time) (*image.RGBA, error) {
	f := h.loop.Step(now)
	h.count++

	hue.RotateImage(h.tinted, f.Image, f.Hue)
	out := h.tinted
	if h.rotated != nil {
		RotateCCW(h.rotated, out)
		out = h.rotated
	}

	if h.opts.SnapshotEvery > 0 && h.opts.SnapshotDir != "" && f.Seq%uint64(h.opts.SnapshotEvery) == 0 {
		path, err := WriteSnapshot(h.opts.SnapshotDir, f.Seq, out)
		if err != nil {
			return nil, err
		}
		applog.Debugf("Headless: Wrote %s", path)
	}
	return out, nil
}

// Count returns the number of frames rendered so far.
func (h *Headless) Count() uint64 {
	return h.count
}
