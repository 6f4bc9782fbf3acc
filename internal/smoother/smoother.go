// SPDX-License-Identifier: MIT

// Package smoother chases a target vector with a per-frame exponential step.
package smoother

// Smoother owns the current and target vectors. It is not safe for
// concurrent use; only the frame loop touches it.
type Smoother struct {
	current []float64
	target  []float64
}

// New returns an empty smoother. Tick is a no-op until the first target.
func New() *Smoother {
	return &Smoother{}
}

// SetTarget replaces the target with vec; the smoother takes ownership of
// it. The first target ever, or one whose length differs from the current
// vector (resolution changed), also re-initialises current as a copy.
func (s *Smoother) SetTarget(vec []float64) {
	s.target = vec
	if s.current == nil || len(s.current) != len(vec) {
		s.current = append(make([]float64, 0, len(vec)), vec...)
	}
}

// Tick moves current a fraction alpha of the way toward target and returns
// it. It reports false before the first target. alpha >= 1 snaps, alpha <= 0
// freezes. The returned slice is owned by the smoother.
func (s *Smoother) Tick(alpha float64) ([]float64, bool) {
	if s.current == nil || s.target == nil {
		return nil, false
	}

	switch {
	case alpha <= 0:
	case alpha >= 1:
		copy(s.current, s.target)
	default:
		for i, t := range s.target {
			s.current[i] += (t - s.current[i]) * alpha
		}
	}

	return s.current, true
}

// Current returns the running vector, or nil before the first target.
func (s *Smoother) Current() []float64 {
	return s.current
}

// Target returns the latest target, or nil before the first one.
func (s *Smoother) Target() []float64 {
	return s.target
}

// Reset forgets both vectors; the next SetTarget seeds current again.
func (s *Smoother) Reset() {
	s.current = nil
	s.target = nil
}
