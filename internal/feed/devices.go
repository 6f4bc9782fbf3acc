// SPDX-License-Identifier: MIT
package feed

import (
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

// DefaultDevice selects the system default input.
const DefaultDevice = -1

// ErrInvalidDevice is returned for a device index that does not exist.
var ErrInvalidDevice = errors.New("feed: invalid device")

// Device describes an audio device.
type Device struct {
	ID                int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	LowInputLatency   float64 // milliseconds
	HighInputLatency  float64 // milliseconds
}

// Kind returns Input, Output or Input/Output.
func (d Device) Kind() string {
	switch {
	case d.MaxInputChannels > 0 && d.MaxOutputChannels > 0:
		return "Input/Output"
	case d.MaxInputChannels > 0:
		return "Input"
	case d.MaxOutputChannels > 0:
		return "Output"
	}
	return ""
}

// Initialize sets up PortAudio. Pair it with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "failed to initialize PortAudio")
	}
	return nil
}

// Terminate shuts PortAudio down.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return errors.Wrap(err, "failed to terminate PortAudio")
	}
	return nil
}

// Devices lists every PortAudio device. PortAudio must be initialized.
func Devices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "listing devices")
	}

	devices := make([]Device, len(infos))
	for i, info := range infos {
		devices[i] = Device{
			ID:                i,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			MaxOutputChannels: info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
			LowInputLatency:   info.DefaultLowInputLatency.Seconds() * 1000,
			HighInputLatency:  info.DefaultHighInputLatency.Seconds() * 1000,
		}
	}
	return devices, nil
}

// InputDevice returns the device with index id, or the default input for
// DefaultDevice.
func InputDevice(id int) (*portaudio.DeviceInfo, error) {
	if id == DefaultDevice {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, errors.Wrap(err, "default input device")
		}
		return dev, nil
	}

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "listing devices")
	}
	if id < 0 || id >= len(infos) {
		return nil, errors.Wrapf(ErrInvalidDevice, "id %d of %d", id, len(infos))
	}
	if infos[id].MaxInputChannels < 1 {
		return nil, errors.Wrapf(ErrInvalidDevice, "%q has no inputs", infos[id].Name)
	}
	return infos[id], nil
}

// WriteDevices prints devices in the list command's format.
func WriteDevices(w io.Writer, devices []Device) {
	fmt.Fprintf(w, "\nAvailable Audio Devices\n\n")
	for _, d := range devices {
		fmt.Fprintf(w, "[%d] %s (%s)\n", d.ID, d.Name, d.Kind())
		fmt.Fprintf(w, "    Input channels: %d, Output channels: %d\n", d.MaxInputChannels, d.MaxOutputChannels)
		fmt.Fprintf(w, "    Default sample rate: %.0f Hz\n", d.DefaultSampleRate)
		fmt.Fprintf(w, "    Latency: Low=%.2fms, High=%.2fms\n\n", d.LowInputLatency, d.HighInputLatency)
	}
}
