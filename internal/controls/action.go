// SPDX-License-Identifier: MIT
package controls

// Action is an input-independent panel command. Front ends map their own
// key events onto these.
type Action int

const (
	ActionNone Action = iota
	ActionToggleOverlay
	ActionUp
	ActionDown
	ActionInc
	ActionDec
	ActionToggleMode
	ActionRestoreDefaults
	ActionSave
)

// Apply performs a. It reports whether the render target must be
// re-derived. Navigation and adjustment only act while the overlay is
// visible, so stray key presses never change a running display.
func (p *Panel) Apply(a Action) (refresh bool, err error) {
	switch a {
	case ActionToggleOverlay:
		p.ToggleOverlay()
	case ActionToggleMode:
		refresh = p.ToggleMode()
	case ActionSave:
		err = p.Save()
	}

	if !p.visible {
		return refresh, err
	}

	switch a {
	case ActionUp:
		p.Up()
	case ActionDown:
		p.Down()
	case ActionInc:
		refresh = p.Inc()
	case ActionDec:
		refresh = p.Dec()
	case ActionRestoreDefaults:
		refresh = p.RestoreDefaults()
	}
	return refresh, err
}
