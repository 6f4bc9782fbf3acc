// SPDX-License-Identifier: MIT

// Package resample converts an arbitrary-length vector into a fixed-length
// one by piecewise-linear interpolation over index space.
package resample

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidResampleParameters is returned when the input is empty or the
// target length is below two; the index scale (L-1)/(N-1) is undefined there.
var ErrInvalidResampleParameters = errors.New("resample: need at least 1 input sample and a target length of at least 2")

// Resample returns a new vector of length n interpolated from data. The
// first and last outputs equal data[0] and data[len(data)-1] exactly.
func Resample(data []float64, n int) ([]float64, error) {
	if len(data) < 1 || n < 2 {
		return nil, ErrInvalidResampleParameters
	}
	out := make([]float64, n)
	if err := Into(out, data); err != nil {
		return nil, err
	}
	return out, nil
}

// Into resamples data into dst, using len(dst) as the target length. It
// does not allocate.
func Into(dst, data []float64) error {
	n := len(dst)
	if len(data) < 1 || n < 2 {
		return ErrInvalidResampleParameters
	}

	// Integer numerator keeps pos exact at both ends: (N-1)(L-1)/(N-1) == L-1.
	span := float64(len(data) - 1)
	den := float64(n - 1)
	for i := range dst {
		pos := float64(i) * span / den
		low := math.Floor(pos)
		high := math.Ceil(pos)
		weight := pos - low

		a := data[int(low)]
		b := data[int(high)]
		if weight == 0 || a == b {
			dst[i] = a
			continue
		}
		dst[i] = (1-weight)*a + weight*b
	}
	return nil
}
