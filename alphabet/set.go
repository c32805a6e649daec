// Package alphabet provides the character-class algebra used by the symbolic
// matcher: sets of UTF-16 code units, the minterm partition of the code-unit
// space induced by a pattern's predicates, and solvers that answer membership
// and enumeration queries over that partition.
//
// All sets live in the domain 0x0000-0xFFFF. A set is an immutable, sorted
// list of disjoint, non-adjacent ranges, so two sets are equal exactly when
// their range lists are equal.
package alphabet

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// MaxUnit is the largest code unit in the domain.
const MaxUnit = 0xFFFF

// Range is an inclusive interval of code units.
type Range struct {
	Lo, Hi uint16
}

// Set is an immutable set of code units.
//
// The zero value is the empty set.
type Set struct {
	ranges []Range
}

// Empty returns the empty set.
func Empty() Set {
	return Set{}
}

// Full returns the set of every code unit.
func Full() Set {
	return Set{ranges: []Range{{0, MaxUnit}}}
}

// Single returns the set containing only c.
func Single(c uint16) Set {
	return Set{ranges: []Range{{c, c}}}
}

// NewSet builds a set from arbitrary (possibly overlapping, unordered) ranges.
// Ranges with Lo > Hi are ignored.
func NewSet(ranges ...Range) Set {
	rs := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Lo <= r.Hi {
			rs = append(rs, r)
		}
	}
	return Set{ranges: normalize(rs)}
}

// normalize sorts rs and merges overlapping or adjacent ranges in place.
func normalize(rs []Range) []Range {
	if len(rs) < 2 {
		return rs
	}
	slices.SortFunc(rs, func(a, b Range) int {
		return int(a.Lo) - int(b.Lo)
	})

	out := rs[:1]
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		if int(r.Lo) <= int(last.Hi)+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// Ranges returns the canonical ranges of s. The caller must not modify the result.
func (s Set) Ranges() []Range {
	return s.ranges
}

// IsEmpty reports whether s has no members.
func (s Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// IsFull reports whether s contains every code unit.
func (s Set) IsFull() bool {
	return len(s.ranges) == 1 && s.ranges[0] == Range{0, MaxUnit}
}

// Size returns the number of code units in s.
func (s Set) Size() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.Hi) - int(r.Lo) + 1
	}
	return n
}

// Min returns the smallest member of s.
func (s Set) Min() (uint16, bool) {
	if len(s.ranges) == 0 {
		return 0, false
	}
	return s.ranges[0].Lo, true
}

// Single returns the only member of s when s is a singleton.
func (s Set) Single() (uint16, bool) {
	if len(s.ranges) == 1 && s.ranges[0].Lo == s.ranges[0].Hi {
		return s.ranges[0].Lo, true
	}
	return 0, false
}

// Contains reports whether c is a member of s.
func (s Set) Contains(c uint16) bool {
	// Binary search for the first range ending at or after c.
	lo, hi := 0, len(s.ranges)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if s.ranges[mid].Hi < c {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(s.ranges) && s.ranges[lo].Lo <= c
}

// Union returns s ∪ t.
func (s Set) Union(t Set) Set {
	if s.IsEmpty() {
		return t
	}
	if t.IsEmpty() {
		return s
	}
	rs := make([]Range, 0, len(s.ranges)+len(t.ranges))
	rs = append(rs, s.ranges...)
	rs = append(rs, t.ranges...)
	return Set{ranges: normalize(rs)}
}

// Intersect returns s ∩ t.
func (s Set) Intersect(t Set) Set {
	var out []Range
	i, j := 0, 0
	for i < len(s.ranges) && j < len(t.ranges) {
		a, b := s.ranges[i], t.ranges[j]
		lo := max(a.Lo, b.Lo)
		hi := min(a.Hi, b.Hi)
		if lo <= hi {
			out = append(out, Range{lo, hi})
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return Set{ranges: out}
}

// Complement returns the code units not in s.
func (s Set) Complement() Set {
	var out []Range
	next := 0
	for _, r := range s.ranges {
		if int(r.Lo) > next {
			out = append(out, Range{uint16(next), r.Lo - 1})
		}
		next = int(r.Hi) + 1
	}
	if next <= MaxUnit {
		out = append(out, Range{uint16(next), MaxUnit})
	}
	return Set{ranges: out}
}

// Minus returns s \ t.
func (s Set) Minus(t Set) Set {
	return s.Intersect(t.Complement())
}

// Equal reports whether s and t have the same members.
func (s Set) Equal(t Set) bool {
	return slices.Equal(s.ranges, t.ranges)
}

// All iterates the members of s in ascending order.
func (s Set) All() iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		for _, r := range s.ranges {
			for c := int(r.Lo); c <= int(r.Hi); c++ {
				if !yield(uint16(c)) {
					return
				}
			}
		}
	}
}

// Key returns a compact string that identifies s. Equal sets have equal keys.
func (s Set) Key() string {
	var b strings.Builder
	b.Grow(len(s.ranges) * 4)
	for _, r := range s.ranges {
		b.WriteByte(byte(r.Lo >> 8))
		b.WriteByte(byte(r.Lo))
		b.WriteByte(byte(r.Hi >> 8))
		b.WriteByte(byte(r.Hi))
	}
	return b.String()
}

// String renders s as a bracketed class, e.g. [a-z0-9].
func (s Set) String() string {
	if s.IsEmpty() {
		return "[]"
	}
	if s.IsFull() {
		return "."
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range s.ranges {
		writeUnit(&b, r.Lo)
		if r.Hi != r.Lo {
			if r.Hi > r.Lo+1 {
				b.WriteByte('-')
			}
			writeUnit(&b, r.Hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}

func writeUnit(b *strings.Builder, c uint16) {
	switch {
	case c >= 0x21 && c < 0x7F && !strings.ContainsRune(`[]-\^`, rune(c)):
		b.WriteByte(byte(c))
	case c < 0x100:
		b.WriteString(`\x`)
		b.WriteString(leftPad(strconv.FormatUint(uint64(c), 16), 2))
	default:
		b.WriteString(`\u`)
		b.WriteString(leftPad(strconv.FormatUint(uint64(c), 16), 4))
	}
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}
