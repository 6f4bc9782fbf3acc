// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"strings"

	"rowwarp/internal/controls"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var settingsKeys = []struct {
	binding key.Binding
	action  controls.Action
}{
	{key.NewBinding(key.WithKeys("up", "k")), controls.ActionUp},
	{key.NewBinding(key.WithKeys("down", "j")), controls.ActionDown},
	{key.NewBinding(key.WithKeys("right", "l", "+")), controls.ActionInc},
	{key.NewBinding(key.WithKeys("left", "h", "-")), controls.ActionDec},
	{key.NewBinding(key.WithKeys("m")), controls.ActionToggleMode},
	{key.NewBinding(key.WithKeys("r")), controls.ActionRestoreDefaults},
	{key.NewBinding(key.WithKeys("s")), controls.ActionSave},
}

// SettingsModel edits the persisted display settings through the same
// panel the window overlay uses.
type SettingsModel struct {
	panel  *controls.Panel
	status string
	dirty  bool
}

// NewSettingsModel returns an editor over panel, showing the overlay.
func NewSettingsModel(panel *controls.Panel) SettingsModel {
	if !panel.Visible() {
		panel.ToggleOverlay()
	}
	return SettingsModel{panel: panel}
}

// Init implements tea.Model.
func (m SettingsModel) Init() tea.Cmd { return nil }

// Update handles key presses.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(km, keyQuit) {
		return m, tea.Quit
	}

	for _, k := range settingsKeys {
		if !key.Matches(km, k.binding) {
			continue
		}
		_, err := m.panel.Apply(k.action)
		switch {
		case err != nil:
			m.status = errorStyle.Render(err.Error())
		case k.action == controls.ActionSave:
			m.status = "saved"
			m.dirty = false
		case k.action != controls.ActionUp && k.action != controls.ActionDown:
			m.status = ""
			m.dirty = true
		}
		break
	}
	return m, nil
}

// View renders the settings table.
func (m SettingsModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Display Settings"))
	sb.WriteString("\n\n")

	for _, e := range m.panel.Entries() {
		line := fmt.Sprintf("  %-20s %s", e.Label, e.Value)
		if e.Selected {
			line = highlightStyle.Render("▶ " + line[2:])
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if m.dirty {
		sb.WriteString("unsaved changes\n")
	}
	if m.status != "" {
		sb.WriteString(m.status + "\n")
	}
	sb.WriteString(infoStyle.Render("↑/↓: Select • ←/→: Adjust • m: Mode • r: Defaults • s: Save • q: Quit"))
	return sb.String()
}

// Dirty reports whether there are unsaved edits.
func (m SettingsModel) Dirty() bool { return m.dirty }

// EditSettings runs the editor until the user quits.
func EditSettings(panel *controls.Panel) (SettingsModel, error) {
	final, err := tea.NewProgram(NewSettingsModel(panel)).Run()
	if err != nil {
		return SettingsModel{}, err
	}
	return final.(SettingsModel), nil
}
