package simd

import (
	"bytes"
	"slices"
)

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack. It is equivalent to
// bytes.Index.
//
// The search looks for the needle's rarest byte (by ByteFrequencies) with
// Memchr and verifies the full needle around each candidate.
//
// Example:
//
//	pos := simd.Memmem([]byte("GET http://example.com"), []byte("http://"))
//	// pos == 4
func Memmem(haystack, needle []byte) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return Memchr(haystack, needle[0])
	}

	rare, rareIdx := rareByte(needle)
	// Candidates for the rare byte lie in [rareIdx, last].
	last := len(haystack) - len(needle) + rareIdx
	for pos := rareIdx; pos <= last; {
		found := Memchr(haystack[pos:last+1], rare)
		if found < 0 {
			return -1
		}
		pos += found
		start := pos - rareIdx
		if bytes.Equal(haystack[start:start+len(needle)], needle) {
			return start
		}
		pos++
	}
	return -1
}

// MemmemU16 returns the index of the first instance of needle in haystack,
// or -1 if needle is not present. It is the code-unit counterpart of Memmem.
func MemmemU16(haystack, needle []uint16) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return MemchrU16(haystack, needle[0])
	}

	rareIdx := len(needle) - 1
	for i := rareIdx - 1; i >= 0; i-- {
		if unitRank(needle[i]) < unitRank(needle[rareIdx]) {
			rareIdx = i
		}
	}
	rare := needle[rareIdx]

	last := len(haystack) - len(needle) + rareIdx
	for pos := rareIdx; pos <= last; {
		found := MemchrU16(haystack[pos:last+1], rare)
		if found < 0 {
			return -1
		}
		pos += found
		start := pos - rareIdx
		if slices.Equal(haystack[start:start+len(needle)], needle) {
			return start
		}
		pos++
	}
	return -1
}
