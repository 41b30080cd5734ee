// SPDX-License-Identifier: MIT
// Package bitint provides power-of-2 helpers for buffer sizing. All
// operations are constant time, allocation free and real-time safe.
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size. Powers of 2 are
// preserved; the subtraction of 1 before taking the bit length is what
// keeps exact powers from being doubled. Non-positive sizes yield 1.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}

	// 64-bit platforms (where int is 64-bit)
	if ^uint(0)>>63 == 0 {
		return int(1 << (bits.Len64(uint64(size - 1))))
	}

	// 32-bit platforms
	return int(1 << (bits.Len32(uint32(size - 1))))
}

// IsPowerOfTwo checks if n is a power of 2. Powers of 2 have exactly
// one bit set, so n & (n-1) is 0 for them and only them among the
// positive integers.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
