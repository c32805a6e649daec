package symbolic

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/coregx/symregex/alphabet"
	"github.com/coregx/symregex/internal/conv"
	"github.com/coregx/symregex/simd"
)

// source presents an input as a sequence of UTF-16 code units separated by
// boundaries. The three search phases are written once against it.
//
// Boundaries are opaque ints ordered like the input. end() is the boundary
// after the last code unit; 0 is the boundary before the first.
type source interface {
	end() int

	// next reads the code unit after pos.
	next(pos int) (uint16, int)

	// prev reads the code unit before pos.
	prev(pos int) (uint16, int)

	// advance moves past one whole character.
	advance(pos int) int

	// offset converts a boundary into a position in the caller's units.
	offset(pos int) int

	// skipAhead moves the plain SearchForward root past input where no match
	// can start. It returns the boundary to resume from, and the boundary after
	// a literal when the scan may jump straight to the skip state (-1
	// otherwise). at is -1 when no match can start in the rest of the input.
	skipAhead(a *accel, pos int) (at, after int)
}

// unitSource reads UTF-16 code units. Boundaries are indexes.
type unitSource struct {
	units []uint16
}

func (s unitSource) end() int { return len(s.units) }

func (s unitSource) next(pos int) (uint16, int) {
	return s.units[pos], pos + 1
}

func (s unitSource) prev(pos int) (uint16, int) {
	return s.units[pos-1], pos - 1
}

func (s unitSource) advance(pos int) int {
	if c := s.units[pos]; c >= 0xD800 && c < 0xDC00 && pos+1 < len(s.units) {
		if lo := s.units[pos+1]; lo >= 0xDC00 && lo <= 0xDFFF {
			return pos + 2
		}
	}
	return pos + 1
}

func (s unitSource) offset(pos int) int { return pos }

func (s unitSource) skipAhead(a *accel, pos int) (int, int) {
	switch {
	case a.unitLit != nil:
		return s.findLiteral(a, pos)
	case a.startSet != nil:
		return s.findStart(a, pos), -1
	}
	return pos, -1
}

func (s unitSource) findLiteral(a *accel, pos int) (int, int) {
	at := a.unitLit.Find(s.units, pos)
	if at < 0 {
		return -1, -1
	}
	if a.exact {
		return at, at + a.unitLit.LiteralLen()
	}
	return at, -1
}

func (s unitSource) findStart(a *accel, pos int) int {
	rest := s.units[pos:]
	if a.members != nil {
		if i := simd.IndexAnyU16(rest, a.members); i >= 0 {
			return pos + i
		}
		return -1
	}
	for i, c := range rest {
		if a.startSet.Contains(c) {
			return pos + i
		}
	}
	return -1
}

// utf8Source reads UTF-8 text as the UTF-16 code units it encodes. A
// boundary is byte<<1|half, where half is set between the two surrogates of
// a four-byte sequence. Invalid bytes decode as U+FFFD, one byte at a time.
type utf8Source struct {
	buf []byte
}

func (s utf8Source) end() int { return len(s.buf) << 1 }

func (s utf8Source) next(pos int) (uint16, int) {
	b := pos >> 1
	r, size := utf8.DecodeRune(s.buf[b:])
	if r <= alphabet.MaxUnit {
		return conv.RuneToUint16(r), (b + size) << 1
	}
	hi, lo := utf16.EncodeRune(r)
	if pos&1 == 0 {
		return conv.RuneToUint16(hi), pos | 1
	}
	return conv.RuneToUint16(lo), (b + size) << 1
}

func (s utf8Source) prev(pos int) (uint16, int) {
	b := pos >> 1
	if pos&1 != 0 {
		r, _ := utf8.DecodeRune(s.buf[b:])
		hi, _ := utf16.EncodeRune(r)
		return conv.RuneToUint16(hi), b << 1
	}
	r, size := utf8.DecodeLastRune(s.buf[:b])
	if r <= alphabet.MaxUnit {
		return conv.RuneToUint16(r), (b - size) << 1
	}
	_, lo := utf16.EncodeRune(r)
	return conv.RuneToUint16(lo), (b-size)<<1 | 1
}

func (s utf8Source) advance(pos int) int {
	b := pos >> 1
	_, size := utf8.DecodeRune(s.buf[b:])
	return (b + size) << 1
}

func (s utf8Source) offset(pos int) int { return pos >> 1 }

func (s utf8Source) skipAhead(a *accel, pos int) (int, int) {
	switch {
	case a.byteLit != nil:
		return s.findLiteral(a, pos)
	case a.startSet != nil:
		return s.findStart(a, pos), -1
	}
	return pos, -1
}

func (s utf8Source) findLiteral(a *accel, pos int) (int, int) {
	if pos&1 != 0 {
		// Mid-character: let the scan step over the low surrogate.
		return pos, -1
	}
	at, after := a.byteLit.Find(s.buf, pos>>1)
	if at < 0 {
		return -1, -1
	}
	if a.exact && a.byteLit.IsComplete() {
		return at << 1, after << 1
	}
	return at << 1, -1
}

func (s utf8Source) findStart(a *accel, pos int) int {
	if pos&1 != 0 {
		return pos
	}
	b := pos >> 1
	if a.asciiMembers != nil {
		var i int
		switch m := a.asciiMembers; len(m) {
		case 1:
			i = simd.Memchr(s.buf[b:], m[0])
		case 2:
			i = simd.Memchr2(s.buf[b:], m[0], m[1])
		default:
			i = simd.Memchr3(s.buf[b:], m[0], m[1], m[2])
		}
		if i < 0 {
			return -1
		}
		return (b + i) << 1
	}

	for b < len(s.buf) {
		if c := s.buf[b]; c < utf8.RuneSelf {
			if a.startSet.Contains(uint16(c)) {
				return b << 1
			}
			b++
			continue
		}
		r, size := utf8.DecodeRune(s.buf[b:])
		// A supplementary character begins with its high surrogate.
		first := r
		if r > alphabet.MaxUnit {
			first, _ = utf16.EncodeRune(r)
		}
		if a.startSet.Contains(conv.RuneToUint16(first)) {
			return b << 1
		}
		b += size
	}
	return -1
}
