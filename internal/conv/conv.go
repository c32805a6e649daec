// Package conv provides checked integer conversion helpers for the matcher.
//
// These functions perform bounds checking before narrowing integer conversions
// to prevent silent overflow. They panic on overflow since this indicates a
// programming error (e.g., more automaton states than a state id can hold).
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// RuneToUint16 safely converts a rune holding a UTF-16 code unit to uint16.
// Panics if r < 0 or r > math.MaxUint16.
//
//go:inline
func RuneToUint16(r rune) uint16 {
	if r < 0 || r > math.MaxUint16 {
		panic("integer overflow: rune value out of uint16 range")
	}
	return uint16(r)
}
