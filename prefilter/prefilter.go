// Package prefilter finds candidate match positions for the symbolic matcher
// by searching for the fixed literal every match begins with.
//
// A prefilter never reports a false negative: no match can start before the
// position it returns. When the prefilter is complete, an occurrence also
// covers the whole literal, so the matcher may jump past it directly into
// the automaton state reached after the literal.
//
// Two families exist, one per input encoding:
//   - Prefilter searches UTF-8 bytes: a single byte → simd.Memchr, a substring
//     → simd.Memmem, case-insensitive literals → Aho-Corasick over the UTF-8
//     case variants.
//   - UnitPrefilter searches UTF-16 code units: simd.MemmemU16 for exact
//     literals, a code-unit candidate scan with fold verification otherwise.
//
// Example usage:
//
//	lit := utf16.Encode([]rune("http://"))
//	pf := prefilter.New(lit, false)
//	pos, end := pf.Find([]byte("see http://x"), 0)
//	// pos == 4, end == 11
package prefilter

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/coregx/symregex/alphabet"
	"github.com/coregx/symregex/simd"
)

// MaxVariants bounds the number of UTF-8 spellings generated for a
// case-insensitive literal. Longer literals are truncated to fit.
const MaxVariants = 256

// Prefilter locates candidate occurrences of a literal in UTF-8 input.
type Prefilter interface {
	// Find returns the byte range [pos, end) of the first occurrence starting
	// at or after start, or (-1, -1) if there is none.
	//
	// Parameters:
	//   haystack - the UTF-8 buffer to search
	//   start - the starting position (must be >= 0 and <= len(haystack))
	Find(haystack []byte, start int) (pos, end int)

	// IsComplete reports whether an occurrence spans the entire code-unit
	// literal the prefilter was built from. Incomplete prefilters search for
	// a shortened literal and only bound where a match may start.
	IsComplete() bool

	// LiteralLen returns the number of code units an occurrence covers.
	LiteralLen() int

	// HeapBytes returns the memory held by the prefilter, for profiling.
	HeapBytes() int
}

// UnitPrefilter locates candidate occurrences of a literal in UTF-16 input.
// Occurrences always cover the whole literal.
type UnitPrefilter interface {
	// Find returns the index of the first occurrence at or after start, or -1.
	Find(haystack []uint16, start int) int

	// LiteralLen returns the length of the literal in code units.
	LiteralLen() int
}

// New builds the UTF-8 prefilter for a code-unit literal. When ignoreCase is
// set, each position matches every member of the case-fold orbit of its
// unit. It returns nil when no usable literal remains, which happens when
// the literal starts with a lone surrogate or U+FFFD.
func New(literal []uint16, ignoreCase bool) Prefilter {
	if ignoreCase {
		return newFoldPrefilter(literal)
	}

	needle, used := encodeUnits(literal)
	if len(needle) == 0 {
		return nil
	}
	complete := used == len(literal)
	if len(needle) == 1 {
		return &memchrPrefilter{needle: needle[0], units: used, complete: complete}
	}
	return &memmemPrefilter{needle: needle, units: used, complete: complete}
}

// encodeUnits converts the longest encodable prefix of units to UTF-8 and
// reports how many code units it covers. Encoding stops at a surrogate that
// is not part of a well-formed pair.
func encodeUnits(units []uint16) ([]byte, int) {
	var out []byte
	i := 0
	for i < len(units) {
		r, n := decodeUnit(units[i:])
		if n == 0 {
			break
		}
		out = utf8.AppendRune(out, r)
		i += n
	}
	return out, i
}

// decodeUnit decodes the character at the start of units, returning the
// number of units consumed, or 0 for an unpaired surrogate or U+FFFD. The
// matcher reads every invalid UTF-8 byte as U+FFFD, so its UTF-8 spelling
// is not the only one the literal can match.
func decodeUnit(units []uint16) (rune, int) {
	c := units[0]
	if c == utf8.RuneError {
		return 0, 0
	}
	if !alphabet.IsSurrogate(c) {
		return rune(c), 1
	}
	if len(units) < 2 {
		return 0, 0
	}
	r := utf16.DecodeRune(rune(c), rune(units[1]))
	if r == utf8.RuneError {
		return 0, 0
	}
	return r, 2
}

// memchrPrefilter searches for a single-byte literal.
type memchrPrefilter struct {
	needle   byte
	units    int
	complete bool
}

// Find implements Prefilter.Find using simd.Memchr.
func (p *memchrPrefilter) Find(haystack []byte, start int) (int, int) {
	if start < 0 || start >= len(haystack) {
		return -1, -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1, -1
	}
	return start + idx, start + idx + 1
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchrPrefilter) LiteralLen() int {
	return p.units
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

// memmemPrefilter searches for a multi-byte literal.
type memmemPrefilter struct {
	needle   []byte
	units    int
	complete bool
}

// Find implements Prefilter.Find using simd.Memmem.
func (p *memmemPrefilter) Find(haystack []byte, start int) (int, int) {
	if start < 0 || start >= len(haystack) {
		return -1, -1
	}
	idx := simd.Memmem(haystack[start:], p.needle)
	if idx == -1 {
		return -1, -1
	}
	pos := start + idx
	return pos, pos + len(p.needle)
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memmemPrefilter) LiteralLen() int {
	return p.units
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.needle)
}
