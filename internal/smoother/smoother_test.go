// SPDX-License-Identifier: MIT
package smoother

import (
	"math"
	"testing"
)

func TestTickBeforeTargetIsNoop(t *testing.T) {
	s := New()
	if v, ok := s.Tick(0.5); ok || v != nil {
		t.Errorf("Tick before target = %v, %v; want nil, false", v, ok)
	}
}

func TestFirstTargetSeedsCurrentAsCopy(t *testing.T) {
	s := New()
	vec := []float64{1, 2, 3}
	s.SetTarget(vec)

	cur := s.Current()
	for i := range vec {
		if cur[i] != vec[i] {
			t.Fatalf("current = %v, want %v", cur, vec)
		}
	}
	vec[0] = 100
	if s.Current()[0] == 100 {
		t.Error("current aliases the first target")
	}
}

func TestLaterTargetsDoNotResetCurrent(t *testing.T) {
	s := New()
	s.SetTarget([]float64{0, 0})
	s.SetTarget([]float64{10, 10})

	if cur := s.Current(); cur[0] != 0 || cur[1] != 0 {
		t.Errorf("current = %v, want [0 0]", cur)
	}
	v, _ := s.Tick(0.5)
	if v[0] != 5 || v[1] != 5 {
		t.Errorf("after tick = %v, want [5 5]", v)
	}
}

func TestTickConvergesMonotonically(t *testing.T) {
	s := New()
	s.SetTarget([]float64{0, 100, -50, 3})
	s.SetTarget([]float64{100, 0, 50, 3.5})
	target := s.Target()

	prev := make([]float64, 4)
	side := make([]float64, 4)
	for i := range prev {
		prev[i] = math.Abs(s.Current()[i] - target[i])
		side[i] = math.Copysign(1, s.Current()[i]-target[i])
	}

	for tick := 0; tick < 200; tick++ {
		cur, ok := s.Tick(0.01)
		if !ok {
			t.Fatal("Tick reported no data")
		}
		for i := range cur {
			d := math.Abs(cur[i] - target[i])
			if d >= prev[i] {
				t.Fatalf("tick %d index %d: distance %v did not decrease from %v", tick, i, d, prev[i])
			}
			// No overshoot: current stays on its starting side of target.
			if (cur[i]-target[i])*side[i] < 0 {
				t.Fatalf("tick %d index %d overshot", tick, i)
			}
			prev[i] = d
		}
	}
}

func TestTickIdempotentAtTarget(t *testing.T) {
	s := New()
	vec := []float64{0.1, 0.2, 0.3}
	s.SetTarget(vec)

	for range 10 {
		cur, _ := s.Tick(0.37)
		for i := range vec {
			if cur[i] != vec[i] {
				t.Fatalf("current drifted: %v", cur)
			}
		}
	}
}

func TestTickAlphaBounds(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		want  []float64
	}{
		{"snap at one", 1, []float64{0.3, -7}},
		{"snap above one", 2.5, []float64{0.3, -7}},
		{"freeze at zero", 0, []float64{0.1, 4}},
		{"freeze below zero", -1, []float64{0.1, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.SetTarget([]float64{0.1, 4})
			s.SetTarget([]float64{0.3, -7})
			cur, _ := s.Tick(tt.alpha)
			for i := range tt.want {
				if cur[i] != tt.want[i] {
					t.Errorf("current = %v, want %v", cur, tt.want)
				}
			}
		})
	}
}

func TestResolutionChangeReseeds(t *testing.T) {
	s := New()
	s.SetTarget([]float64{1, 1, 1})
	s.SetTarget([]float64{5, 6})

	cur, _ := s.Tick(0.01)
	if len(cur) != 2 || cur[0] != 5 || cur[1] != 6 {
		t.Errorf("current = %v, want [5 6]", cur)
	}
}

func TestTickZeroAllocs(t *testing.T) {
	s := New()
	s.SetTarget(make([]float64, 5100))
	next := make([]float64, 5100)
	for i := range next {
		next[i] = float64(i)
	}
	s.SetTarget(next)

	allocs := testing.AllocsPerRun(100, func() {
		s.Tick(0.01)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations in Tick, got %.1f", allocs)
	}
}

func BenchmarkTick(b *testing.B) {
	s := New()
	s.SetTarget(make([]float64, 5100))
	next := make([]float64, 5100)
	for i := range next {
		next[i] = float64(i % 91)
	}
	s.SetTarget(next)

	b.ReportAllocs()
	for b.Loop() {
		s.Tick(0.01)
	}
}
