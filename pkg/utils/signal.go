// SPDX-License-Identifier: MIT

// Package utils holds signal generators and fakes shared by tests.
package utils

import (
	"math"
	"sync"
)

// MockBroadcaster records published vectors instead of sending them.
type MockBroadcaster struct {
	mu    sync.Mutex
	last  []float64
	count int
}

// Broadcast stores a copy of vec.
func (m *MockBroadcaster) Broadcast(vec []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last[:0], vec...)
	m.count++
	return nil
}

// Last returns a copy of the most recent vector and the number received.
func (m *MockBroadcaster) Last() ([]float64, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.last...), m.count
}

// SineWave returns size samples of a unit sine at frequency Hz, scaled by
// amplitude.
func SineWave(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*frequency*t) * amplitude
	}
	return buffer
}

// GenerateSineWave returns a 32-bit PCM sine at 90% of full scale.
func GenerateSineWave(size int, sampleRate, frequency float64) []int32 {
	buffer := make([]int32, size)
	for i, v := range SineWave(size, sampleRate, frequency, 0.9) {
		buffer[i] = int32(v * math.MaxInt32)
	}
	return buffer
}

// GenerateComplexWave returns 32-bit PCM of a 440Hz tone with two
// harmonics.
func GenerateComplexWave(size int, sampleRate float64) []int32 {
	buffer := make([]int32, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
		buffer[i] = int32(signal * math.MaxInt32 * 0.9)
	}
	return buffer
}

// FindPeakBin returns the index of the largest magnitude within
// [startBin, endBin], clamped to the slice.
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}
	startBin = max(startBin, 0)
	endBin = min(endBin, len(magnitudes)-1)

	peakBin := startBin
	peakValue := magnitudes[startBin]
	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}
	return peakBin
}
