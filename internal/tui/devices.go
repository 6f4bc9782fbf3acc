// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"strings"

	"rowwarp/internal/feed"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	keyQuit   = key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"))
	keyUp     = key.NewBinding(key.WithKeys("up", "k"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keySelect = key.NewBinding(key.WithKeys("enter"))
)

// DeviceListModel lets the user pick an input device for the feed.
type DeviceListModel struct {
	fetch    func() ([]feed.Device, error)
	devices  []feed.Device
	cursor   int
	selected *feed.Device
	viewport viewport.Model
	ready    bool
	err      error
}

type devicesMsg struct{ devices []feed.Device }

type errMsg struct{ err error }

// NewDeviceListModel returns a picker that loads its list with fetch.
func NewDeviceListModel(fetch func() ([]feed.Device, error)) DeviceListModel {
	return DeviceListModel{fetch: fetch}
}

// Init loads the device list.
func (m DeviceListModel) Init() tea.Cmd {
	return func() tea.Msg {
		devices, err := m.fetch()
		if err != nil {
			return errMsg{err}
		}
		return devicesMsg{devices}
	}
}

// Update handles input and updates the model.
func (m DeviceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}

	case devicesMsg:
		m.devices = msg.devices
		// Start on the first device that can capture.
		for i, d := range m.devices {
			if d.MaxInputChannels > 0 {
				m.cursor = i
				break
			}
		}

	case errMsg:
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyQuit):
			return m, tea.Quit
		case key.Matches(msg, keyUp):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keyDown):
			if m.cursor < len(m.devices)-1 {
				m.cursor++
			}
		case key.Matches(msg, keySelect):
			if m.cursor < len(m.devices) && m.devices[m.cursor].MaxInputChannels > 0 {
				d := m.devices[m.cursor]
				m.selected = &d
				return m, tea.Quit
			}
		}
	}

	if m.ready {
		m.viewport.SetContent(m.renderDevices())
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the UI.
func (m DeviceListModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\nPress q to exit."
	}
	if !m.ready {
		return "Initializing..."
	}

	title := titleStyle.Render("Input Devices")
	help := infoStyle.Render("↑/↓: Navigate • Enter: Use for feed • q: Quit")
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

// Selected returns the chosen device, if any.
func (m DeviceListModel) Selected() (feed.Device, bool) {
	if m.selected == nil {
		return feed.Device{}, false
	}
	return *m.selected, true
}

func (m DeviceListModel) renderDevices() string {
	if len(m.devices) == 0 {
		return "No audio devices found."
	}

	var sb strings.Builder
	for i, d := range m.devices {
		info := fmt.Sprintf("[%d] %s (%s)\n", d.ID, d.Name, d.Kind())
		info += fmt.Sprintf("    Input channels: %d, Default sample rate: %.0f Hz\n", d.MaxInputChannels, d.DefaultSampleRate)
		if i == m.cursor {
			info = highlightStyle.Render(info)
		}
		sb.WriteString(info)
		sb.WriteString("\n")
	}
	return sb.String()
}

// PickDevice runs the picker full screen and returns the chosen device.
func PickDevice(fetch func() ([]feed.Device, error)) (feed.Device, bool, error) {
	final, err := tea.NewProgram(NewDeviceListModel(fetch), tea.WithAltScreen()).Run()
	if err != nil {
		return feed.Device{}, false, err
	}
	m := final.(DeviceListModel)
	if m.err != nil {
		return feed.Device{}, false, m.err
	}
	d, ok := m.Selected()
	return d, ok, nil
}
