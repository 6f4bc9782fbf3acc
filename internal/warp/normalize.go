// SPDX-License-Identifier: MIT
package warp

import "gonum.org/v1/gonum/floats"

// Normalization selects how samples are mapped onto [0, 1].
type Normalization int

const (
	// Ceiling divides each sample by Params.MaxValue and clamps at 1.
	Ceiling Normalization = iota
	// MinMax scales by the vector's own minimum and maximum.
	MinMax
)

// String implements fmt.Stringer.
func (n Normalization) String() string {
	switch n {
	case Ceiling:
		return "ceiling"
	case MinMax:
		return "minmax"
	default:
		return "unknown"
	}
}

// normalize writes the normalised samples into dst, in reverse order when
// reversed is set. len(dst) must equal len(samples) and be non-zero.
//
// Ceiling mode with a non-positive MaxValue falls back to MinMax. MinMax on a
// constant vector has no range and yields zeros, which leave every band blank.
func normalize(dst, samples []float64, p Params) {
	n := len(samples)
	at := func(i int) float64 {
		if p.Reversed {
			return samples[n-1-i]
		}
		return samples[i]
	}

	if p.Mode == Ceiling && p.MaxValue > 0 {
		for i := range dst {
			v := at(i) / p.MaxValue
			if v > 1 {
				v = 1
			}
			dst[i] = v
		}
		return
	}

	lo := floats.Min(samples)
	hi := floats.Max(samples)
	rng := hi - lo
	if !(rng > 0) {
		clear(dst)
		return
	}
	for i := range dst {
		dst[i] = (at(i) - lo) / rng
	}
}
