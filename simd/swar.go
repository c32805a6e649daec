package simd

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

// Zero-lane detection constants (Hacker's Delight): for a word v,
// (v - lo) & ^v & hi has the high bit of a lane set when that lane of v is
// zero. Borrows may mark lanes above the first zero lane, but never below
// it, so the lowest marked lane is exact.
const (
	lo8  = 0x0101010101010101
	hi8  = 0x8080808080808080
	lo16 = 0x0001000100010001
	hi16 = 0x8000800080008000
)

func zeroBytes(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}

func zeroUnits(v uint64) uint64 {
	return (v - lo16) & ^v & hi16
}

// memchrSWAR searches 8 bytes at a time.
func memchrSWAR(haystack []byte, needle byte) int {
	mask := uint64(needle) * lo8
	idx := 0
	for ; idx+8 <= len(haystack); idx += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[idx:])
		if found := zeroBytes(chunk ^ mask); found != 0 {
			return idx + bits.TrailingZeros64(found)/8
		}
	}
	for ; idx < len(haystack); idx++ {
		if haystack[idx] == needle {
			return idx
		}
	}
	return -1
}

func memchr2SWAR(haystack []byte, needle1, needle2 byte) int {
	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8
	idx := 0
	for ; idx+8 <= len(haystack); idx += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[idx:])
		if found := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2); found != 0 {
			return idx + bits.TrailingZeros64(found)/8
		}
	}
	for ; idx < len(haystack); idx++ {
		if b := haystack[idx]; b == needle1 || b == needle2 {
			return idx
		}
	}
	return -1
}

func memchr3SWAR(haystack []byte, needle1, needle2, needle3 byte) int {
	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8
	mask3 := uint64(needle3) * lo8
	idx := 0
	for ; idx+8 <= len(haystack); idx += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[idx:])
		found := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2) | zeroBytes(chunk^mask3)
		if found != 0 {
			return idx + bits.TrailingZeros64(found)/8
		}
	}
	for ; idx < len(haystack); idx++ {
		if b := haystack[idx]; b == needle1 || b == needle2 || b == needle3 {
			return idx
		}
	}
	return -1
}

// unitBytes views code units as their in-memory bytes.
func unitBytes(units []uint16) []byte {
	if len(units) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(units))), len(units)*2)
}

// broadcastUnit returns a word holding c in each of its four 16-bit lanes,
// laid out exactly as four consecutive code units are read by loadUnits.
func broadcastUnit(c uint16) uint64 {
	v := [4]uint16{c, c, c, c}
	return binary.LittleEndian.Uint64(unitBytes(v[:]))
}

// loadUnits reads four code units starting at units[i]. Lane k (bits
// 16k..16k+15) holds units[i+k] in memory byte order on every platform.
func loadUnits(raw []byte, i int) uint64 {
	return binary.LittleEndian.Uint64(raw[i*2:])
}
