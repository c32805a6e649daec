package alphabet

import (
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
)

// ErrUnsupportedAlphabet is returned by NewSolver for an unknown Kind.
var ErrUnsupportedAlphabet = errors.New("alphabet: unsupported alphabet kind")

// Kind selects the solver representation.
type Kind uint8

const (
	// CharSetKind answers predicate membership by testing an atom's
	// representative code unit against the predicate's ranges.
	CharSetKind Kind = iota

	// BitVectorKind precomputes, for every registered predicate, a bit vector
	// over atoms. Membership is a single bit test.
	BitVectorKind
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case CharSetKind:
		return "CharSet"
	case BitVectorKind:
		return "BitVector"
	default:
		return fmt.Sprintf("UnknownKind(%d)", k)
	}
}

// Solver answers the alphabet queries the matcher and the sampler need.
//
// A Solver is built once from the complete predicate list of a pattern and is
// immutable afterwards, so it is safe for concurrent use.
type Solver interface {
	// Kind reports the representation in use.
	Kind() Kind

	// AtomCount returns the number of atoms K.
	AtomCount() int

	// Classify maps a code unit to its atom.
	Classify(c uint16) int

	// Includes reports whether registered predicate pred contains atom.
	Includes(pred, atom int) bool

	// Atom returns the members of an atom.
	Atom(atom int) Set

	// Representative returns the smallest member of an atom.
	Representative(atom int) uint16

	// AtomsOf returns the atoms intersecting s.
	AtomsOf(s Set) []int

	// IsSatisfiable reports whether s has at least one member.
	IsSatisfiable(s Set) bool

	// DomainSize returns the number of members of s.
	DomainSize(s Set) int

	// Symbols enumerates the members of s in ascending order.
	Symbols(s Set) iter.Seq[uint16]

	// Choose picks a uniformly random member of s; false if s is empty.
	Choose(r *rand.Rand, s Set) (uint16, bool)
}

// NewSolver builds a solver of the given kind over preds. Predicate ids used
// by Includes are indexes into preds.
func NewSolver(kind Kind, preds []Set) (Solver, error) {
	switch kind {
	case CharSetKind:
		return &charSetSolver{
			base:  base{Partition: NewPartition(preds)},
			preds: preds,
		}, nil
	case BitVectorKind:
		p := NewPartition(preds)
		words := (p.AtomCount() + 63) / 64
		vecs := make([][]uint64, len(preds))
		for i, pred := range preds {
			vec := make([]uint64, words)
			for _, a := range p.AtomsOf(pred) {
				vec[a/64] |= 1 << (a % 64)
			}
			vecs[i] = vec
		}
		return &bitVectorSolver{base: base{Partition: p}, vecs: vecs}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlphabet, kind)
	}
}

// base carries the queries that only depend on the partition and on sets.
type base struct {
	*Partition
}

func (base) IsSatisfiable(s Set) bool {
	return !s.IsEmpty()
}

func (base) DomainSize(s Set) int {
	return s.Size()
}

func (base) Symbols(s Set) iter.Seq[uint16] {
	return s.All()
}

func (base) Choose(r *rand.Rand, s Set) (uint16, bool) {
	return Choose(r, s)
}

type charSetSolver struct {
	base
	preds []Set
}

func (*charSetSolver) Kind() Kind { return CharSetKind }

func (s *charSetSolver) Includes(pred, atom int) bool {
	return s.preds[pred].Contains(s.Representative(atom))
}

type bitVectorSolver struct {
	base
	vecs [][]uint64
}

func (*bitVectorSolver) Kind() Kind { return BitVectorKind }

func (s *bitVectorSolver) Includes(pred, atom int) bool {
	return s.vecs[pred][atom/64]&(1<<(atom%64)) != 0
}

// Choose picks a uniformly random member of s.
func Choose(r *rand.Rand, s Set) (uint16, bool) {
	n := s.Size()
	if n == 0 {
		return 0, false
	}
	k := r.IntN(n)
	for _, rg := range s.ranges {
		w := int(rg.Hi) - int(rg.Lo) + 1
		if k < w {
			return rg.Lo + uint16(k), true
		}
		k -= w
	}
	panic("unreachable: index beyond set size")
}
