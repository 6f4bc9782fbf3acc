// SPDX-License-Identifier: MIT

// Package render owns the per-frame pipeline: window the newest vector,
// resample it, advance the smoother and warp the source image.
package render

import (
	"image"

	"rowwarp/internal/config"
	"rowwarp/internal/resample"
	"rowwarp/internal/smoother"
	"rowwarp/internal/warp"

	"github.com/pkg/errors"
)

// ErrEmptyWindow is returned when the active mode's window selects no
// samples from the inbound vector.
var ErrEmptyWindow = errors.New("render: sample window is empty")

// State is the renderer state owned by the frame loop. Nothing in it is
// safe for concurrent use.
type State struct {
	settings   *config.Settings
	source     *image.RGBA
	smoother   *smoother.Smoother
	compositor *warp.Compositor

	raw []float64 // last accepted inbound vector, kept for Reconfigure
}

// NewState builds the pipeline for source. settings is shared with the
// controls panel and read on every frame.
func NewState(settings *config.Settings, source *image.RGBA) *State {
	settings.Sanitize()
	b := source.Bounds()
	return &State{
		settings:   settings,
		source:     source,
		smoother:   smoother.New(),
		compositor: warp.NewCompositor(b.Dx(), b.Dy()),
	}
}

// Settings returns the live tunables.
func (s *State) Settings() *config.Settings {
	return s.settings
}

// Source returns the unwarped source image.
func (s *State) Source() *image.RGBA {
	return s.source
}

// HasData reports whether a target has been accepted.
func (s *State) HasData() bool {
	return s.smoother.Current() != nil
}

// OnNewTarget windows and resamples raw and makes it the smoother's target.
// It never draws. A rejected vector leaves the previous target in place.
func (s *State) OnNewTarget(raw []float64) error {
	vec, err := s.derive(raw)
	if err != nil {
		return err
	}
	s.raw = raw
	s.smoother.SetTarget(vec)
	return nil
}

// Reconfigure re-derives the target from the last accepted vector after a
// change to the resolution, mode or windows. A resolution change reseeds
// the smoother with the new target.
func (s *State) Reconfigure() error {
	s.settings.Sanitize()
	if s.raw == nil {
		return nil
	}
	vec, err := s.derive(s.raw)
	if err != nil {
		return err
	}
	s.smoother.SetTarget(vec)
	return nil
}

// Tick advances the smoother by one step and composes the frame. Before
// the first vector arrives the unwarped source is shown. The returned
// image is reused by the next Tick.
func (s *State) Tick() *image.RGBA {
	cur, ok := s.smoother.Tick(s.settings.Alpha)
	if !ok {
		return s.source
	}
	return s.compositor.Warp(cur, s.source, s.params())
}

func (s *State) params() warp.Params {
	p := warp.Params{
		MaxValue: s.settings.MaxValue,
		Mode:     warp.Ceiling,
		Reversed: s.settings.ActiveWindow().Reversed,
	}
	if s.settings.Normalize == config.NormalizeMinMax {
		p.Mode = warp.MinMax
	}
	return p
}

func (s *State) derive(raw []float64) ([]float64, error) {
	sel, err := SelectWindow(raw, s.settings.ActiveWindow())
	if err != nil {
		return nil, err
	}
	vec, err := resample.Resample(sel, s.settings.Resolution)
	if err != nil {
		return nil, errors.Wrapf(err, "resampling %d samples", len(sel))
	}
	return vec, nil
}

// SelectWindow returns raw[w.Start : w.Start+w.Length], clamped to raw. A
// zero Length runs to the end.
func SelectWindow(raw []float64, w config.Window) ([]float64, error) {
	start := max(w.Start, 0)
	if start >= len(raw) {
		return nil, errors.Wrapf(ErrEmptyWindow, "start %d with %d samples", w.Start, len(raw))
	}
	end := len(raw)
	if w.Length > 0 {
		end = min(start+w.Length, len(raw))
	}
	return raw[start:end], nil
}
