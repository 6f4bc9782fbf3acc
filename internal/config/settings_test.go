// SPDX-License-Identifier: MIT
package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadSettings_MissingFileYieldsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if !reflect.DeepEqual(s, DefaultSettings()) {
		t.Errorf("got %+v, want defaults", s)
	}
}

func TestSaveLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	want := DefaultSettings()
	want.MaxValue = 42.5
	want.Normalize = NormalizeMinMax
	want.Resolution = 300
	want.Alpha = 0.2
	want.HuePeriod = 90 * time.Second
	want.Mode = 1
	want.Modes[1] = Window{Start: 10, Length: 200, Reversed: true}

	if err := SaveSettings(path, want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadSettings_PartialDocumentKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("max_value: 7\nhue_period: 30s\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.MaxValue != 7 || s.HuePeriod != 30*time.Second {
		t.Errorf("file values not applied: %+v", s)
	}
	if s.Resolution != DefaultResolution || s.Alpha != DefaultAlpha {
		t.Errorf("defaults lost: %+v", s)
	}
}

func TestLoadSettings_NaNFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	doc := "interpolation_speed: .nan\nmax_value: .nan\nresolution: 4\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Alpha != DefaultAlpha {
		t.Errorf("Alpha = %v, want %v", s.Alpha, DefaultAlpha)
	}
	if s.MaxValue != DefaultMaxValue {
		t.Errorf("MaxValue = %v, want %v", s.MaxValue, DefaultMaxValue)
	}
	if s.Resolution != 4 {
		t.Errorf("Resolution = %d, want 4", s.Resolution)
	}
}

func TestSanitizeInfiniteMaxValue(t *testing.T) {
	s := DefaultSettings()
	s.MaxValue = math.Inf(1)
	s.Alpha = math.Inf(1)
	s.Sanitize()
	if s.MaxValue != DefaultMaxValue {
		t.Errorf("MaxValue = %v, want %v", s.MaxValue, DefaultMaxValue)
	}
	if s.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", s.Alpha)
	}
}

func TestSanitize(t *testing.T) {
	s := &Settings{
		MaxValue:   -3,
		Normalize:  "loudest",
		Resolution: 1,
		Alpha:      4,
		HuePeriod:  0,
		Mode:       9,
		Modes:      []Window{{Start: -5, Length: -1}},
	}
	s.Sanitize()

	if s.MaxValue != 0 {
		t.Errorf("MaxValue = %v, want 0", s.MaxValue)
	}
	if s.Normalize != NormalizeCeiling {
		t.Errorf("Normalize = %q", s.Normalize)
	}
	if s.Resolution != MinResolution {
		t.Errorf("Resolution = %d", s.Resolution)
	}
	if s.Alpha != 1 {
		t.Errorf("Alpha = %v", s.Alpha)
	}
	if s.HuePeriod != DefaultHuePeriod {
		t.Errorf("HuePeriod = %s", s.HuePeriod)
	}
	if len(s.Modes) != ModeCount {
		t.Fatalf("len(Modes) = %d", len(s.Modes))
	}
	if s.Modes[0] != (Window{}) {
		t.Errorf("Modes[0] = %+v", s.Modes[0])
	}
	if !s.Modes[1].Reversed {
		t.Error("padded mode should come from the defaults")
	}
	if s.Mode != ModeCount-1 {
		t.Errorf("Mode = %d", s.Mode)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := DefaultSettings()
	c := s.Clone()
	c.Modes[0].Start = 99
	if s.Modes[0].Start == 99 {
		t.Error("Clone shares the Modes slice")
	}
}
