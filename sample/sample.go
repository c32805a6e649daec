// Package sample generates random strings accepted by a pattern.
//
// Loops are unrolled to a bounded number of iterations first; the unrolled
// pattern is then walked, choosing one alternative at each alternation and
// one member at each character predicate. Boundary repetition counts are
// drawn more often than the others so small datasets cover corner cases.
//
// Anchors produce no text. A pattern whose anchors cannot be satisfied
// (a^b) still yields strings; they are not matches.
package sample

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"unicode/utf16"

	"github.com/coregx/symregex/alphabet"
	"github.com/coregx/symregex/pattern"
)

// ErrEmptySet is returned when a sample would need a member of an empty
// character set, or the pattern accepts nothing.
var ErrEmptySet = errors.New("sample: empty character set")

const (
	defaultCornerCaseProb  = 5
	defaultMaxSamplingIter = 3
)

// Option configures a Sampler.
type Option func(*Sampler)

// WithCornerCaseProb sets the inverse probability with which a loop is
// unrolled exactly to its lower bound, and likewise to its upper bound.
// Values below 2 are ignored.
func WithCornerCaseProb(n int) Option {
	return func(s *Sampler) {
		if n >= 2 {
			s.cornerCaseProb = n
		}
	}
}

// WithMaxSamplingIter bounds Dataset to n attempts per requested sample.
func WithMaxSamplingIter(n int) Option {
	return func(s *Sampler) {
		if n >= 1 {
			s.maxSamplingIter = n
		}
	}
}

// WithSeed makes the sampler deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

// Sampler draws random strings from a pattern. It is not safe for
// concurrent use.
type Sampler struct {
	b      *pattern.Builder
	solver alphabet.Solver
	root   pattern.Node

	maxUnroll       int
	cornerCaseProb  int
	maxSamplingIter int
	rng             *rand.Rand
}

// New returns a sampler for p. Unbounded loops, and bounded loops above
// maxUnroll, are unrolled at most maxUnroll times.
//
// The sampler compiles its own copy of the pattern, so p may keep being used
// by a matcher.
func New(p *pattern.Pattern, maxUnroll int, opts ...Option) (*Sampler, error) {
	if maxUnroll < 0 {
		return nil, fmt.Errorf("sample: negative maxUnroll %d", maxUnroll)
	}
	own, err := pattern.Compile(p.String())
	if err != nil {
		return nil, err
	}
	solver, err := own.Builder.Freeze(alphabet.CharSetKind)
	if err != nil {
		return nil, err
	}

	s := &Sampler{
		b:               own.Builder,
		solver:          solver,
		root:            own.Root,
		maxUnroll:       maxUnroll,
		cornerCaseProb:  defaultCornerCaseProb,
		maxSamplingIter: defaultMaxSamplingIter,
		rng:             rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Unroll replaces every loop of n with a concatenation of copies of its
// body. Each loop draws its own iteration count.
func (s *Sampler) Unroll(n pattern.Node) pattern.Node {
	b := s.b
	switch b.Kind(n) {
	case pattern.KindConcat:
		head, tail := b.Operands(n)
		return b.Concat(s.Unroll(head), s.Unroll(tail))

	case pattern.KindOr:
		alts := b.Alternatives(n)
		out := make([]pattern.Node, len(alts))
		for i, a := range alts {
			out[i] = s.Unroll(a)
		}
		return b.Or(out...)

	case pattern.KindLoop:
		body, lo, hi := b.LoopOf(n)
		count := s.iterations(lo, hi)
		out := b.Epsilon()
		for range count {
			out = b.Concat(s.Unroll(body), out)
		}
		return out

	default:
		return n
	}
}

// iterations draws the unrolled length of a loop.
func (s *Sampler) iterations(lo, hi int) int {
	upper := hi
	if hi == pattern.Unbounded || hi > s.maxUnroll {
		upper = s.maxUnroll
	}
	upper = max(upper, lo)

	switch s.rng.IntN(s.cornerCaseProb) {
	case 0:
		return lo
	case 1:
		return upper
	}
	return lo + s.rng.IntN(upper-lo+1)
}

// SampleUnits draws one string as UTF-16 code units.
func (s *Sampler) SampleUnits() ([]uint16, error) {
	var out []uint16
	if err := s.emit(s.Unroll(s.root), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Sampler) emit(n pattern.Node, out *[]uint16) error {
	b := s.b
	switch b.Kind(n) {
	case pattern.KindNothing:
		return ErrEmptySet
	case pattern.KindSet:
		c, ok := s.solver.Choose(s.rng, b.Pred(n))
		if !ok {
			return fmt.Errorf("%w: %v", ErrEmptySet, b.Pred(n))
		}
		*out = append(*out, c)
	case pattern.KindConcat:
		head, tail := b.Operands(n)
		if err := s.emit(head, out); err != nil {
			return err
		}
		return s.emit(tail, out)
	case pattern.KindOr:
		alts := b.Alternatives(n)
		return s.emit(alts[s.rng.IntN(len(alts))], out)
	case pattern.KindLoop:
		// Unroll leaves no loops behind.
		return s.emit(s.Unroll(n), out)
	}
	return nil
}

// Sample draws one string.
func (s *Sampler) Sample() (string, error) {
	units, err := s.SampleUnits()
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

// Dataset draws up to n distinct strings, giving up after n times the
// maximum sampling iterations. Strings are returned in the order drawn.
func (s *Sampler) Dataset(n int) ([]string, error) {
	seen := make(map[string]struct{}, n)
	var out []string
	for attempt := 0; attempt < n*s.maxSamplingIter && len(out) < n; attempt++ {
		str, err := s.Sample()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[str]; dup {
			continue
		}
		seen[str] = struct{}{}
		out = append(out, str)
	}
	return out, nil
}
