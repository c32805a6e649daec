package alphabet

import (
	"sort"
	"strings"

	"github.com/coregx/symregex/internal/sparse"
)

// Partition is the minterm partition of the code-unit space induced by a
// list of predicates.
//
// Two code units belong to the same atom iff every predicate either contains
// both or contains neither. Derivatives of a pattern built from those
// predicates are therefore identical for all members of an atom, and the
// matcher computes transitions once per atom instead of once per code unit.
//
// Construction follows the boundary technique used for byte classes: every
// predicate range contributes its endpoints as boundaries, the boundaries
// split the domain into intervals, and intervals with the same membership
// signature are merged into one atom.
type Partition struct {
	// starts[i] is the first code unit of interval i; intervals are contiguous
	// and cover the whole domain.
	starts []uint16
	// atomOf[i] is the atom of interval i.
	atomOf []int32
	// ascii is a direct lookup for the first 128 code units.
	ascii [128]int32
	// atoms holds each atom as a set.
	atoms []Set
}

// NewPartition computes the partition induced by preds.
// An empty predicate list yields a single atom covering the domain.
func NewPartition(preds []Set) *Partition {
	// Boundary marks: a bit at c means a new interval starts at c.
	var marks [(MaxUnit + 1) / 64]uint64
	mark := func(c int) {
		if c > 0 && c <= MaxUnit {
			marks[c/64] |= 1 << (c % 64)
		}
	}
	for _, p := range preds {
		for _, r := range p.ranges {
			mark(int(r.Lo))
			mark(int(r.Hi) + 1)
		}
	}

	starts := []uint16{0}
	for c := 1; c <= MaxUnit; c++ {
		if marks[c/64]&(1<<(c%64)) != 0 {
			starts = append(starts, uint16(c))
		}
	}

	p := &Partition{
		starts: starts,
		atomOf: make([]int32, len(starts)),
	}

	// Intervals with the same signature across preds share an atom. Atom ids
	// are assigned in order of first appearance, so they are deterministic.
	bySig := make(map[string]int32)
	var ranges [][]Range
	sig := make([]byte, len(preds))
	for i, lo := range starts {
		hi := uint16(MaxUnit)
		if i+1 < len(starts) {
			hi = starts[i+1] - 1
		}
		for j, pred := range preds {
			sig[j] = '0'
			if pred.Contains(lo) {
				sig[j] = '1'
			}
		}
		key := string(sig)
		atom, ok := bySig[key]
		if !ok {
			atom = int32(len(ranges))
			bySig[key] = atom
			ranges = append(ranges, nil)
		}
		p.atomOf[i] = atom
		ranges[atom] = append(ranges[atom], Range{lo, hi})
	}

	p.atoms = make([]Set, len(ranges))
	for i, rs := range ranges {
		p.atoms[i] = Set{ranges: normalize(rs)}
	}
	for c := range p.ascii {
		p.ascii[c] = p.atomOf[p.interval(uint16(c))]
	}
	return p
}

// interval returns the index of the interval containing c.
func (p *Partition) interval(c uint16) int {
	// Largest i with starts[i] <= c; starts[0] == 0 so i >= 0.
	return sort.Search(len(p.starts), func(i int) bool {
		return p.starts[i] > c
	}) - 1
}

// AtomCount returns the number of atoms K.
func (p *Partition) AtomCount() int {
	return len(p.atoms)
}

// Classify returns the atom containing code unit c.
func (p *Partition) Classify(c uint16) int {
	if c < 128 {
		return int(p.ascii[c])
	}
	return int(p.atomOf[p.interval(c)])
}

// Atom returns the members of atom a.
func (p *Partition) Atom(a int) Set {
	return p.atoms[a]
}

// Representative returns the smallest member of atom a.
func (p *Partition) Representative(a int) uint16 {
	return p.atoms[a].ranges[0].Lo
}

// AtomsOf returns the atoms that intersect s, in order of first appearance.
func (p *Partition) AtomsOf(s Set) []int {
	seen := sparse.New(len(p.atoms))
	for _, r := range s.ranges {
		first := p.interval(r.Lo)
		for i := first; i < len(p.starts) && p.starts[i] <= r.Hi; i++ {
			seen.Insert(int(p.atomOf[i]))
		}
	}
	return seen.AppendTo(nil)
}

// String lists the atoms, mainly for debugging.
func (p *Partition) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, a := range p.atoms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('}')
	return b.String()
}
