// SPDX-License-Identifier: MIT
package feed

import (
	"math/cmplx"
	"strings"
	"sync"

	applog "rowwarp/internal/log"
	"rowwarp/pkg/bitint"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc selects the FFT window function.
type WindowFunc int

const (
	BartlettHann WindowFunc = iota
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
)

var windowNames = map[WindowFunc]string{
	BartlettHann:    "BartlettHann",
	Blackman:        "Blackman",
	BlackmanNuttall: "BlackmanNuttall",
	Hann:            "Hann",
	Hamming:         "Hamming",
	Lanczos:         "Lanczos",
	Nuttall:         "Nuttall",
}

func (w WindowFunc) String() string {
	if name, ok := windowNames[w]; ok {
		return name
	}
	return "unknown"
}

var (
	ErrFFTSize       = errors.New("feed: fft size must be a power of 2")
	ErrSampleRate    = errors.New("feed: sample rate must be positive")
	ErrUnknownWindow = errors.New("feed: unknown window function")
	ErrBufferLength  = errors.New("feed: destination length does not match bin count")
)

// Analyzer turns frames of audio into a magnitude spectrum. Process is
// called from the audio side, the Magnitudes methods from the publisher.
type Analyzer struct {
	fft        *fourier.FFT
	size       int
	sampleRate float64

	mu        sync.RWMutex
	input     []float64
	coeffs    []complex128
	magnitude []float64
	window    []float64
}

// NewAnalyzer returns an analyzer for size-point frames.
func NewAnalyzer(size int, sampleRate float64, wf WindowFunc) (*Analyzer, error) {
	if !bitint.IsPowerOfTwo(size) {
		return nil, errors.Wrapf(ErrFFTSize, "got %d", size)
	}
	if sampleRate <= 0 {
		return nil, errors.Wrapf(ErrSampleRate, "got %f", sampleRate)
	}

	coeffs := make([]float64, size)
	applyWindow(coeffs, wf)
	bins := size/2 + 1

	applog.Infof("Analyzer: Initializing (Size: %d, SampleRate: %.1f Hz, Window: %s)", size, sampleRate, wf)

	return &Analyzer{
		fft:        fourier.NewFFT(size),
		size:       size,
		sampleRate: sampleRate,
		input:      make([]float64, size),
		coeffs:     make([]complex128, bins),
		magnitude:  make([]float64, bins),
		window:     coeffs,
	}, nil
}

// Process windows frame (samples in [-1, 1]), zero-padding or truncating it
// to the FFT size, and replaces the current spectrum.
func (a *Analyzer) Process(frame []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.size {
		if i < len(frame) {
			a.input[i] = frame[i] * a.window[i]
		} else {
			a.input[i] = 0
		}
	}
	a.transform()
}

// ProcessInt32 is Process for full-scale 32-bit PCM as delivered by the
// capture stream.
func (a *Analyzer) ProcessInt32(frame []int32) {
	const norm = 1.0 / float64(0x80000000)

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.size {
		if i < len(frame) {
			a.input[i] = float64(frame[i]) * norm * a.window[i]
		} else {
			a.input[i] = 0
		}
	}
	a.transform()
}

// Silence clears the current spectrum.
func (a *Analyzer) Silence() {
	a.mu.Lock()
	clear(a.magnitude)
	a.mu.Unlock()
}

func (a *Analyzer) transform() {
	a.fft.Coefficients(a.coeffs, a.input)
	for i, c := range a.coeffs {
		a.magnitude[i] = cmplx.Abs(c)
	}
}

// Magnitudes returns a copy of the latest spectrum.
func (a *Analyzer) Magnitudes() []float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]float64(nil), a.magnitude...)
}

// MagnitudesInto copies the latest spectrum into dst, which must hold
// exactly Bins values.
func (a *Analyzer) MagnitudesInto(dst []float64) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(dst) != len(a.magnitude) {
		return errors.Wrapf(ErrBufferLength, "got %d, need %d", len(dst), len(a.magnitude))
	}
	copy(dst, a.magnitude)
	return nil
}

// FrequencyForBin returns the centre frequency of bin in Hz, or 0 when bin
// is out of range.
func (a *Analyzer) FrequencyForBin(bin int) float64 {
	if bin < 0 || bin >= len(a.magnitude) {
		return 0
	}
	return float64(bin) * a.sampleRate / float64(a.size)
}

// Bins returns the number of spectrum values, size/2+1.
func (a *Analyzer) Bins() int { return len(a.magnitude) }

// Size returns the FFT size.
func (a *Analyzer) Size() int { return a.size }

// SampleRate returns the sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// ParseWindowFunc converts a case-insensitive name to a WindowFunc. Unknown
// names return Hann and ErrUnknownWindow.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(name) {
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return Hann, errors.Wrapf(ErrUnknownWindow, "%q", name)
	}
}

func applyWindow(coeffs []float64, wf WindowFunc) {
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch wf {
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	default:
		window.Hann(coeffs)
	}
}
