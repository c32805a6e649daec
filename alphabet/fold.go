package alphabet

import "unicode"

// IsSurrogate reports whether c is a UTF-16 surrogate code unit.
func IsSurrogate(c uint16) bool {
	return c >= 0xD800 && c <= 0xDFFF
}

// Fold returns the simple case-folding orbit of c: every BMP code unit that
// is equal to c under Unicode simple case folding, c included. Surrogates and
// characters without case variants fold only to themselves.
func Fold(c uint16) Set {
	if IsSurrogate(c) {
		return Single(c)
	}
	rs := []Range{{c, c}}
	for r := unicode.SimpleFold(rune(c)); r != rune(c); r = unicode.SimpleFold(r) {
		if r <= MaxUnit {
			rs = append(rs, Range{uint16(r), uint16(r)})
		}
	}
	return Set{ranges: normalize(rs)}
}

// Membership is a fast membership test for a set, with a direct table for
// ASCII and a range search above it.
type Membership struct {
	ascii [128]bool
	set   Set
}

// NewMembership builds the membership test for s.
func NewMembership(s Set) *Membership {
	m := &Membership{set: s}
	for _, r := range s.ranges {
		if r.Lo >= 128 {
			break
		}
		for c := r.Lo; c <= min(r.Hi, 127); c++ {
			m.ascii[c] = true
		}
	}
	return m
}

// Contains reports whether c is in the set.
func (m *Membership) Contains(c uint16) bool {
	if c < 128 {
		return m.ascii[c]
	}
	return m.set.Contains(c)
}

// Set returns the underlying set.
func (m *Membership) Set() Set {
	return m.set
}
