// SPDX-License-Identifier: MIT

// Package bitint holds the power-of-two helpers used to size FFT frames
// for the feed analyzer. All functions are allocation free.
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size. Non-positive
// sizes return 1. Subtracting one first keeps exact powers unchanged:
// 8-1 = 0b0111, Len = 3, 1<<3 = 8.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2. A power of two
// has a single bit set, so clearing the lowest set bit leaves zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
