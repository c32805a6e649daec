package simd

import "math/bits"

// MemchrU16 returns the index of the first code unit equal to needle,
// or -1 if needle is not present in haystack.
func MemchrU16(haystack []uint16, needle uint16) int {
	raw := unitBytes(haystack)
	mask := broadcastUnit(needle)
	idx := 0
	for ; idx+4 <= len(haystack); idx += 4 {
		if found := zeroUnits(loadUnits(raw, idx) ^ mask); found != 0 {
			return idx + bits.TrailingZeros64(found)/16
		}
	}
	for ; idx < len(haystack); idx++ {
		if haystack[idx] == needle {
			return idx
		}
	}
	return -1
}

// Memchr2U16 returns the index of the first code unit equal to needle1 or
// needle2, or -1 if neither is present.
func Memchr2U16(haystack []uint16, needle1, needle2 uint16) int {
	raw := unitBytes(haystack)
	mask1 := broadcastUnit(needle1)
	mask2 := broadcastUnit(needle2)
	idx := 0
	for ; idx+4 <= len(haystack); idx += 4 {
		chunk := loadUnits(raw, idx)
		if found := zeroUnits(chunk^mask1) | zeroUnits(chunk^mask2); found != 0 {
			return idx + bits.TrailingZeros64(found)/16
		}
	}
	for ; idx < len(haystack); idx++ {
		if c := haystack[idx]; c == needle1 || c == needle2 {
			return idx
		}
	}
	return -1
}

// Memchr3U16 returns the index of the first code unit equal to any of the
// three needles, or -1 if none is present.
func Memchr3U16(haystack []uint16, needle1, needle2, needle3 uint16) int {
	raw := unitBytes(haystack)
	mask1 := broadcastUnit(needle1)
	mask2 := broadcastUnit(needle2)
	mask3 := broadcastUnit(needle3)
	idx := 0
	for ; idx+4 <= len(haystack); idx += 4 {
		chunk := loadUnits(raw, idx)
		found := zeroUnits(chunk^mask1) | zeroUnits(chunk^mask2) | zeroUnits(chunk^mask3)
		if found != 0 {
			return idx + bits.TrailingZeros64(found)/16
		}
	}
	for ; idx < len(haystack); idx++ {
		if c := haystack[idx]; c == needle1 || c == needle2 || c == needle3 {
			return idx
		}
	}
	return -1
}

// IndexAnyU16 returns the index of the first code unit equal to any of
// needles, or -1. Up to three needles use the SWAR searches.
func IndexAnyU16(haystack []uint16, needles []uint16) int {
	switch len(needles) {
	case 0:
		return -1
	case 1:
		return MemchrU16(haystack, needles[0])
	case 2:
		return Memchr2U16(haystack, needles[0], needles[1])
	case 3:
		return Memchr3U16(haystack, needles[0], needles[1], needles[2])
	}
	for i, c := range haystack {
		for _, n := range needles {
			if c == n {
				return i
			}
		}
	}
	return -1
}
