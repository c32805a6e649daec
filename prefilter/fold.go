package prefilter

import (
	"slices"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/symregex/alphabet"
	"github.com/coregx/symregex/simd"
)

// foldPrefilter searches for every UTF-8 spelling of a case-insensitive
// literal at once with an Aho-Corasick automaton.
type foldPrefilter struct {
	auto      *ahocorasick.Automaton
	units     int
	complete  bool
	heapBytes int
}

func newFoldPrefilter(literal []uint16) Prefilter {
	variants := [][]byte{nil}
	used := 0
	for used < len(literal) {
		r, n := decodeUnit(literal[used:])
		if n == 0 {
			break
		}
		orbit := []rune{r}
		if n == 1 {
			orbit = orbit[:0]
			for c := range alphabet.Fold(literal[used]).All() {
				orbit = append(orbit, rune(c))
			}
		}
		if len(variants)*len(orbit) > MaxVariants {
			break
		}

		next := make([][]byte, 0, len(variants)*len(orbit))
		for _, v := range variants {
			for _, o := range orbit {
				next = append(next, utf8.AppendRune(slices.Clip(v), o))
			}
		}
		variants = next
		used += n
	}
	if used == 0 {
		return nil
	}

	builder := ahocorasick.NewBuilder()
	heap := 0
	for _, v := range variants {
		builder.AddPattern(v)
		heap += len(v)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &foldPrefilter{
		auto:      auto,
		units:     used,
		complete:  used == len(literal),
		heapBytes: heap,
	}
}

// Find implements Prefilter.Find using the Aho-Corasick automaton.
func (p *foldPrefilter) Find(haystack []byte, start int) (int, int) {
	if start < 0 || start >= len(haystack) {
		return -1, -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1, -1
	}
	return m.Start, m.End
}

// IsComplete implements Prefilter.IsComplete.
func (p *foldPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *foldPrefilter) LiteralLen() int {
	return p.units
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *foldPrefilter) HeapBytes() int {
	return p.heapBytes
}

// NewUnits builds the UTF-16 prefilter for a literal, or nil for an empty
// literal.
func NewUnits(literal []uint16, ignoreCase bool) UnitPrefilter {
	if len(literal) == 0 {
		return nil
	}
	if !ignoreCase {
		return &unitPrefilter{needle: slices.Clone(literal)}
	}

	p := &unitFoldPrefilter{members: make([]*alphabet.Membership, len(literal))}
	best := -1
	for i, c := range literal {
		orbit := alphabet.Fold(c)
		p.members[i] = alphabet.NewMembership(orbit)
		if best < 0 || orbit.Size() < p.members[best].Set().Size() {
			best = i
		}
	}
	p.anchor = best
	for c := range p.members[best].Set().All() {
		p.needles = append(p.needles, c)
	}
	return p
}

// unitPrefilter searches for an exact code-unit literal.
type unitPrefilter struct {
	needle []uint16
}

// Find implements UnitPrefilter.Find using simd.MemmemU16.
func (p *unitPrefilter) Find(haystack []uint16, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.MemmemU16(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// LiteralLen implements UnitPrefilter.LiteralLen.
func (p *unitPrefilter) LiteralLen() int {
	return len(p.needle)
}

// unitFoldPrefilter searches for a case-insensitive code-unit literal. The
// position with the smallest fold orbit anchors the scan; candidates are
// verified against the orbit of every position.
type unitFoldPrefilter struct {
	members []*alphabet.Membership
	anchor  int
	needles []uint16
}

// Find implements UnitPrefilter.Find.
func (p *unitFoldPrefilter) Find(haystack []uint16, start int) int {
	if start < 0 {
		return -1
	}
	n := len(p.members)
	last := len(haystack) - n + p.anchor
	for pos := start + p.anchor; pos <= last; {
		idx := simd.IndexAnyU16(haystack[pos:last+1], p.needles)
		if idx < 0 {
			return -1
		}
		pos += idx
		s := pos - p.anchor
		if p.verify(haystack[s : s+n]) {
			return s
		}
		pos++
	}
	return -1
}

func (p *unitFoldPrefilter) verify(window []uint16) bool {
	for i, c := range window {
		if !p.members[i].Contains(c) {
			return false
		}
	}
	return true
}

// LiteralLen implements UnitPrefilter.LiteralLen.
func (p *unitFoldPrefilter) LiteralLen() int {
	return len(p.members)
}
