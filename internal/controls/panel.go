// SPDX-License-Identifier: MIT

// Package controls is the live tuning panel shared by the window presenter
// and the terminal settings editor.
package controls

import (
	"fmt"
	"time"

	"rowwarp/internal/config"
	applog "rowwarp/internal/log"
)

const huePeriodStep = 5 * time.Second

// Item identifies one tunable row in the panel.
type Item int

const (
	MaxValue Item = iota
	Normalize
	Resolution
	Speed
	HuePeriod
	Mode
	WindowStart
	WindowLength
	Reversed

	itemCount
)

var itemLabels = [itemCount]string{
	MaxValue:     "max value",
	Normalize:    "normalize",
	Resolution:   "resolution",
	Speed:        "interpolation speed",
	HuePeriod:    "hue period",
	Mode:         "mode",
	WindowStart:  "window start",
	WindowLength: "window length",
	Reversed:     "reversed",
}

func (i Item) String() string {
	if i < 0 || i >= itemCount {
		return "unknown"
	}
	return itemLabels[i]
}

// Entry is one rendered panel row.
type Entry struct {
	Item     Item
	Label    string
	Value    string
	Selected bool
}

// Panel edits a Settings value in place. Methods that change anything the
// render state derives its target from return true; the caller then
// re-derives it.
type Panel struct {
	settings *config.Settings
	path     string
	cursor   Item
	visible  bool
}

// NewPanel returns a hidden panel over settings, saving to path.
func NewPanel(settings *config.Settings, path string) *Panel {
	return &Panel{settings: settings, path: path}
}

// Settings returns the settings being edited.
func (p *Panel) Settings() *config.Settings { return p.settings }

// Path returns where Save writes.
func (p *Panel) Path() string { return p.path }

// Cursor returns the selected item.
func (p *Panel) Cursor() Item { return p.cursor }

// Visible reports whether the overlay is shown.
func (p *Panel) Visible() bool { return p.visible }

// ToggleOverlay shows or hides the overlay.
func (p *Panel) ToggleOverlay() { p.visible = !p.visible }

// Up moves the cursor to the previous item, wrapping around.
func (p *Panel) Up() {
	p.cursor = (p.cursor + itemCount - 1) % itemCount
}

// Down moves the cursor to the next item, wrapping around.
func (p *Panel) Down() {
	p.cursor = (p.cursor + 1) % itemCount
}

// Inc increments the selected item.
func (p *Panel) Inc() bool { return p.adjust(+1) }

// Dec decrements the selected item.
func (p *Panel) Dec() bool { return p.adjust(-1) }

// ToggleMode switches to the next display mode.
func (p *Panel) ToggleMode() bool {
	p.settings.Mode = (p.settings.Mode + 1) % config.ModeCount
	applog.Infof("Controls: Switched to mode %d", p.settings.Mode)
	return true
}

// RestoreDefaults replaces every tunable with its factory value.
func (p *Panel) RestoreDefaults() bool {
	*p.settings = *config.DefaultSettings()
	applog.Infof("Controls: Restored default settings")
	return true
}

// Save persists the settings to the panel's path.
func (p *Panel) Save() error {
	if err := config.SaveSettings(p.path, p.settings); err != nil {
		return err
	}
	applog.Infof("Controls: Saved settings to %s", p.path)
	return nil
}

// Entries renders every item with its current value.
func (p *Panel) Entries() []Entry {
	out := make([]Entry, 0, itemCount)
	for i := Item(0); i < itemCount; i++ {
		out = append(out, Entry{
			Item:     i,
			Label:    i.String(),
			Value:    p.value(i),
			Selected: i == p.cursor,
		})
	}
	return out
}

func (p *Panel) value(i Item) string {
	s := p.settings
	w := s.ActiveWindow()
	switch i {
	case MaxValue:
		return fmt.Sprintf("%g", s.MaxValue)
	case Normalize:
		return string(s.Normalize)
	case Resolution:
		return fmt.Sprintf("%d", s.Resolution)
	case Speed:
		return fmt.Sprintf("%.3f", s.Alpha)
	case HuePeriod:
		return s.HuePeriod.String()
	case Mode:
		return fmt.Sprintf("%d/%d", s.Mode+1, config.ModeCount)
	case WindowStart:
		return fmt.Sprintf("%d", w.Start)
	case WindowLength:
		if w.Length == 0 {
			return "all"
		}
		return fmt.Sprintf("%d", w.Length)
	case Reversed:
		return fmt.Sprintf("%t", w.Reversed)
	}
	return ""
}

func (p *Panel) adjust(dir int) bool {
	s := p.settings
	s.Sanitize()
	refresh := false

	switch p.cursor {
	case MaxValue:
		step := 10.0
		if dir < 0 && s.MaxValue <= step {
			step = s.MaxValue / 2
		}
		s.MaxValue += float64(dir) * step
	case Normalize:
		if s.Normalize == config.NormalizeCeiling {
			s.Normalize = config.NormalizeMinMax
		} else {
			s.Normalize = config.NormalizeCeiling
		}
	case Resolution:
		s.Resolution += dir * resolutionStep(s.Resolution, dir)
		refresh = true
	case Speed:
		s.Alpha += float64(dir) * 0.005
	case HuePeriod:
		s.HuePeriod = max(s.HuePeriod+time.Duration(dir)*huePeriodStep, huePeriodStep)
	case Mode:
		s.Mode = (s.Mode + config.ModeCount + dir) % config.ModeCount
		refresh = true
	case WindowStart:
		s.Modes[s.Mode].Start += dir * 10
		refresh = true
	case WindowLength:
		s.Modes[s.Mode].Length += dir * 10
		refresh = true
	case Reversed:
		s.Modes[s.Mode].Reversed = !s.Modes[s.Mode].Reversed
	}

	s.Sanitize()
	applog.Debugf("Controls: %s = %s", p.cursor, p.value(p.cursor))
	return refresh
}

// resolutionStep scales the step with the magnitude so both small and
// large resolutions are reachable in a few presses.
func resolutionStep(n, dir int) int {
	switch {
	case n > 1000 || (n == 1000 && dir > 0):
		return 100
	case n > 100 || (n == 100 && dir > 0):
		return 10
	default:
		return 1
	}
}
