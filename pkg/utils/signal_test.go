// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"os"
	"testing"
)

const (
	testSize       = 1024
	testSampleRate = 44100
	testFrequency  = 440.0 // A4 note
)

var testMagnitudes []float64

func TestMain(m *testing.M) {
	testMagnitudes = make([]float64, testSize)

	// A "hill" with its peak at testSize/4.
	for i := range testMagnitudes {
		testMagnitudes[i] = math.Exp(-0.01 * math.Pow(float64(i-testSize/4), 2))
	}

	os.Exit(m.Run())
}

func TestMockBroadcaster(t *testing.T) {
	m := &MockBroadcaster{}
	in := []float64{0.1, 0.2, 0.3}

	if err := m.Broadcast(in); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	in[0] = 999

	last, n := m.Last()
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	if len(last) != 3 || last[0] != 0.1 {
		t.Errorf("Broadcast() stored a reference instead of a copy: %v", last)
	}

	m.Broadcast(nil)
	if last, n = m.Last(); n != 2 || len(last) != 0 {
		t.Errorf("after empty broadcast: %v, %d", last, n)
	}
}

func TestGenerateSineWave(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		frequency  float64
	}{
		{"A4 Note", 44100, 440.0},
		{"Middle C", 44100, 261.63},
		{"High Sample Rate", 192000, 440.0},
		{"Low Sample Rate", 8000, 440.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateSineWave(testSize, tt.sampleRate, tt.frequency)
			if len(result) != testSize {
				t.Fatalf("buffer size = %d, want %d", len(result), testSize)
			}

			samplesPerCycle := tt.sampleRate / tt.frequency
			if float64(testSize) <= samplesPerCycle {
				return
			}
			crossings := 0
			for i := 1; i < testSize; i++ {
				if (result[i-1] < 0) != (result[i] < 0) {
					crossings++
				}
			}
			expected := float64(testSize) / (samplesPerCycle / 2)
			if tolerance := 0.2 * expected; math.Abs(float64(crossings)-expected) > tolerance {
				t.Errorf("zero crossings = %d, expected approximately %.1f±%.1f", crossings, expected, tolerance)
			}
		})
	}
}

func TestSineWaveAmplitude(t *testing.T) {
	wave := SineWave(testSize, testSampleRate, testFrequency, 0.5)
	peak := 0.0
	for _, v := range wave {
		peak = max(peak, math.Abs(v))
	}
	if peak > 0.5 || peak < 0.49 {
		t.Errorf("peak = %v, want ~0.5", peak)
	}
}

func TestGenerateComplexWave(t *testing.T) {
	result := GenerateComplexWave(testSize, testSampleRate)
	for _, v := range result {
		if v != 0 {
			return
		}
	}
	t.Error("GenerateComplexWave() produced all zeros")
}

func TestFindPeakBin(t *testing.T) {
	tests := []struct {
		name     string
		mags     []float64
		start    int
		end      int
		expected int
	}{
		{"Full Range", testMagnitudes, 0, testSize - 1, testSize / 4},
		{"Partial Range Start", testMagnitudes, testSize / 8, testSize - 1, testSize / 4},
		{"Partial Range End", testMagnitudes, 0, testSize / 3, testSize / 4},
		{"Negative Start", testMagnitudes, -10, testSize - 1, testSize / 4},
		{"Out of Range End", testMagnitudes, 0, testSize * 2, testSize / 4},
		{"Empty Slice", []float64{}, 0, 10, 0},
		{"Single Value", []float64{1.0}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := FindPeakBin(tt.mags, tt.start, tt.end); result != tt.expected {
				t.Errorf("FindPeakBin() = %d, want %d", result, tt.expected)
			}
		})
	}

	allocs := testing.AllocsPerRun(100, func() {
		FindPeakBin(testMagnitudes, 0, len(testMagnitudes)-1)
	})
	if allocs > 0 {
		t.Errorf("FindPeakBin allocated memory: got %.1f allocs, want 0", allocs)
	}
}

func BenchmarkFindPeakBin(b *testing.B) {
	for _, size := range []int{64, 1024, 8192} {
		mags := make([]float64, size)
		for i := range mags {
			mags[i] = math.Exp(-0.01 * math.Pow(float64(i-size/2), 2))
		}
		b.Run("", func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				FindPeakBin(mags, 0, size-1)
			}
		})
	}
}
