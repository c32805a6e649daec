// Package simd provides vectorized search primitives for the matcher's
// accelerators: locating candidate bytes in UTF-8 input and candidate code
// units in UTF-16 input.
//
// Byte search dispatches on CPU features detected at package initialization:
// on hardware with 256-bit (AVX2) or NEON (ASIMD) vectors, single-needle
// search uses the runtime's vectorized bytes.IndexByte for inputs long enough
// to amortize setup; everything else uses SWAR (SIMD Within A Register) code
// that inspects eight bytes or four code units per uint64.
package simd

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// CPU feature detection flags set at package initialization.
var (
	// hasVector reports a CPU with wide vector units the runtime's
	// assembly search routines exploit.
	hasVector = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD
)

// vectorThreshold is the input length from which vector search beats SWAR.
const vectorThreshold = 32

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// Example:
//
//	pos := simd.Memchr([]byte("hello world"), 'o')
//	// pos == 4
func Memchr(haystack []byte, needle byte) int {
	if hasVector && len(haystack) >= vectorThreshold {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrSWAR(haystack, needle)
}

// Memchr2 returns the index of the first byte equal to needle1 or needle2,
// or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	if needle1 == needle2 {
		return Memchr(haystack, needle1)
	}
	return memchr2SWAR(haystack, needle1, needle2)
}

// Memchr3 returns the index of the first byte equal to any of the three
// needles, or -1 if none is present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	return memchr3SWAR(haystack, needle1, needle2, needle3)
}
