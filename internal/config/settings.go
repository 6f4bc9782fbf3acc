// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Normalize selects how raw samples are mapped onto [0, 1] before warping.
type Normalize string

const (
	// NormalizeCeiling divides every sample by Settings.MaxValue.
	NormalizeCeiling Normalize = "ceiling"
	// NormalizeMinMax scales each vector by its own minimum and maximum.
	NormalizeMinMax Normalize = "minmax"
)

// Tunable defaults and bounds.
const (
	DefaultMaxValue   = 100.0
	DefaultResolution = 5100
	DefaultAlpha      = 0.01
	DefaultHuePeriod  = time.Minute

	MinResolution = 2
	MaxResolution = 1 << 16
	ModeCount     = 2
)

// Window selects part of the inbound vector for one display mode. A Length
// of zero extends the window to the end of the vector.
type Window struct {
	Start    int  `yaml:"start"`
	Length   int  `yaml:"length"`
	Reversed bool `yaml:"reversed"`
}

// Settings are the tunables persisted between runs and edited live through
// the controls panel.
type Settings struct {
	MaxValue   float64       `yaml:"max_value"`           // Ceiling for NormalizeCeiling.
	Normalize  Normalize     `yaml:"normalize"`           // ceiling or minmax.
	Resolution int           `yaml:"resolution"`          // Resampled vector length N.
	Alpha      float64       `yaml:"interpolation_speed"` // Per-frame smoothing step.
	HuePeriod  time.Duration `yaml:"hue_period"`          // One full hue rotation.
	Mode       int           `yaml:"mode"`                // Index into Modes.
	Modes      []Window      `yaml:"modes"`               // One window per display mode.
}

// DefaultSettings returns the factory tunables. The second mode shows the
// same window flipped.
func DefaultSettings() *Settings {
	return &Settings{
		MaxValue:   DefaultMaxValue,
		Normalize:  NormalizeCeiling,
		Resolution: DefaultResolution,
		Alpha:      DefaultAlpha,
		HuePeriod:  DefaultHuePeriod,
		Mode:       0,
		Modes: []Window{
			{Start: 0, Length: 0, Reversed: false},
			{Start: 0, Length: 0, Reversed: true},
		},
	}
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Modes = append([]Window(nil), s.Modes...)
	return &c
}

// ActiveWindow returns the window of the current mode.
func (s *Settings) ActiveWindow() Window {
	if s.Mode < 0 || s.Mode >= len(s.Modes) {
		return Window{}
	}
	return s.Modes[s.Mode]
}

// Sanitize clamps every tunable into its valid range instead of rejecting
// the document; a hand-edited file should never stop the display.
func (s *Settings) Sanitize() {
	defaults := DefaultSettings()

	switch {
	case s.Resolution < MinResolution:
		s.Resolution = MinResolution
	case s.Resolution > MaxResolution:
		s.Resolution = MaxResolution
	}

	switch {
	case math.IsNaN(s.Alpha):
		s.Alpha = DefaultAlpha
	case s.Alpha < 0:
		s.Alpha = 0
	case s.Alpha > 1:
		s.Alpha = 1
	}

	// Zero is allowed and falls back to min-max normalisation in the warp.
	switch {
	case math.IsNaN(s.MaxValue) || math.IsInf(s.MaxValue, 1):
		s.MaxValue = DefaultMaxValue
	case s.MaxValue < 0:
		s.MaxValue = 0
	}

	if s.Normalize != NormalizeCeiling && s.Normalize != NormalizeMinMax {
		s.Normalize = NormalizeCeiling
	}

	if s.HuePeriod <= 0 {
		s.HuePeriod = DefaultHuePeriod
	}

	for len(s.Modes) < ModeCount {
		s.Modes = append(s.Modes, defaults.Modes[len(s.Modes)])
	}
	s.Modes = s.Modes[:ModeCount]
	for i := range s.Modes {
		if s.Modes[i].Start < 0 {
			s.Modes[i].Start = 0
		}
		if s.Modes[i].Length < 0 {
			s.Modes[i].Length = 0
		}
	}

	switch {
	case s.Mode < 0:
		s.Mode = 0
	case s.Mode >= ModeCount:
		s.Mode = ModeCount - 1
	}
}

// LoadSettings reads the tunables document at path. A missing file yields
// the defaults so a fresh install starts without one.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	s.Sanitize()
	return s, nil
}

// SaveSettings writes the tunables to path, replacing it atomically.
func SaveSettings(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
