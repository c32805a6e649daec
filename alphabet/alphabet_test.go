package alphabet

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestSet_Normalize(t *testing.T) {
	s := NewSet(Range{'x', 'z'}, Range{'a', 'c'}, Range{'b', 'f'}, Range{'g', 'g'}, Range{'q', 'p'})

	want := []Range{{'a', 'g'}, {'x', 'z'}}
	if !slices.Equal(s.Ranges(), want) {
		t.Errorf("Ranges() = %v, want %v", s.Ranges(), want)
	}
	if s.Size() != 10 {
		t.Errorf("Size() = %d, want 10", s.Size())
	}
}

func TestSet_Contains(t *testing.T) {
	s := NewSet(Range{'0', '9'}, Range{'a', 'f'}, Range{0x4E00, 0x4E10})

	tests := []struct {
		c    uint16
		want bool
	}{
		{'0', true},
		{'5', true},
		{'9', true},
		{':', false},
		{'`', false},
		{'a', true},
		{'f', true},
		{'g', false},
		{0x4E00, true},
		{0x4E10, true},
		{0x4E11, false},
		{0xFFFF, false},
		{0, false},
	}

	for _, tt := range tests {
		if got := s.Contains(tt.c); got != tt.want {
			t.Errorf("Contains(%#x) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestSet_Algebra(t *testing.T) {
	lower := NewSet(Range{'a', 'z'})
	vowels := NewSet(Range{'a', 'a'}, Range{'e', 'e'}, Range{'i', 'i'}, Range{'o', 'o'}, Range{'u', 'u'})

	if got := lower.Intersect(vowels); !got.Equal(vowels) {
		t.Errorf("Intersect() = %v, want %v", got, vowels)
	}
	if got := lower.Union(vowels); !got.Equal(lower) {
		t.Errorf("Union() = %v, want %v", got, lower)
	}
	if got := lower.Minus(vowels).Size(); got != 21 {
		t.Errorf("Minus().Size() = %d, want 21", got)
	}

	comp := lower.Complement()
	if comp.Contains('m') || !comp.Contains('A') || !comp.Contains(0xFFFF) || !comp.Contains(0) {
		t.Errorf("Complement() = %v has wrong membership", comp)
	}
	if !comp.Complement().Equal(lower) {
		t.Error("Complement() is not an involution")
	}
	if !Full().Complement().IsEmpty() {
		t.Error("Full().Complement() should be empty")
	}
	if !Empty().Complement().IsFull() {
		t.Error("Empty().Complement() should be full")
	}
}

func TestSet_Key(t *testing.T) {
	a := NewSet(Range{'a', 'c'}, Range{'d', 'f'})
	b := NewSet(Range{'a', 'f'})
	c := NewSet(Range{'a', 'e'})

	if a.Key() != b.Key() {
		t.Error("equal sets should have equal keys")
	}
	if a.Key() == c.Key() {
		t.Error("different sets should have different keys")
	}
}

func TestSet_String(t *testing.T) {
	tests := []struct {
		set  Set
		want string
	}{
		{Empty(), "[]"},
		{Full(), "."},
		{Single('a'), "[a]"},
		{NewSet(Range{'a', 'z'}), "[a-z]"},
		{NewSet(Range{'a', 'b'}), "[ab]"},
		{NewSet(Range{'-', '-'}, Range{0x100, 0x100}), `[\x2d\u0100]`},
	}

	for _, tt := range tests {
		if got := tt.set.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPartition_Minterms(t *testing.T) {
	// [a-z] and [x] split the domain into {x}, [a-wyz] and the rest.
	p := NewPartition([]Set{NewSet(Range{'a', 'z'}), Single('x'), Full()})

	if p.AtomCount() != 3 {
		t.Fatalf("AtomCount() = %d, want 3 (%v)", p.AtomCount(), p)
	}

	if p.Classify('a') != p.Classify('w') || p.Classify('a') != p.Classify('z') {
		t.Error("a, w and z should share an atom")
	}
	if p.Classify('x') == p.Classify('a') {
		t.Error("x should have its own atom")
	}
	if p.Classify('A') != p.Classify(0xFFFF) {
		t.Error("A and U+FFFF should share an atom")
	}

	rest := p.Atom(p.Classify('0'))
	if rest.Contains('b') || !rest.Contains(0x7B) || !rest.Contains(0) {
		t.Errorf("rest atom = %v has wrong membership", rest)
	}
}

func TestPartition_CoversDomain(t *testing.T) {
	preds := []Set{
		NewSet(Range{'0', '9'}),
		NewSet(Range{'5', 'F'}),
		NewSet(Range{0x100, 0x2FF}, Range{0xE000, 0xFFFF}),
	}
	p := NewPartition(preds)

	total := 0
	for a := 0; a < p.AtomCount(); a++ {
		atom := p.Atom(a)
		total += atom.Size()
		for c := range atom.All() {
			if p.Classify(c) != a {
				t.Fatalf("Classify(%#x) = %d, want %d", c, p.Classify(c), a)
			}
		}
	}
	if total != MaxUnit+1 {
		t.Errorf("atoms cover %d code units, want %d", total, MaxUnit+1)
	}
}

func TestPartition_Empty(t *testing.T) {
	p := NewPartition(nil)
	if p.AtomCount() != 1 {
		t.Errorf("AtomCount() = %d, want 1", p.AtomCount())
	}
	if !p.Atom(0).IsFull() {
		t.Errorf("Atom(0) = %v, want full", p.Atom(0))
	}
}

func TestPartition_AtomsOf(t *testing.T) {
	digits := NewSet(Range{'0', '9'})
	lower := NewSet(Range{'a', 'z'})
	p := NewPartition([]Set{digits, lower})

	got := p.AtomsOf(digits.Union(lower))
	want := []int{p.Classify('0'), p.Classify('a')}
	if !slices.Equal(got, want) {
		t.Errorf("AtomsOf() = %v, want %v", got, want)
	}
}

func TestSolver_Kinds(t *testing.T) {
	preds := []Set{NewSet(Range{'a', 'z'}), NewSet(Range{'0', '9'}), Single('q'), Full()}

	for _, kind := range []Kind{CharSetKind, BitVectorKind} {
		t.Run(kind.String(), func(t *testing.T) {
			s, err := NewSolver(kind, preds)
			if err != nil {
				t.Fatalf("NewSolver() error = %v", err)
			}
			if s.Kind() != kind {
				t.Errorf("Kind() = %v, want %v", s.Kind(), kind)
			}

			for pred, set := range preds {
				for atom := 0; atom < s.AtomCount(); atom++ {
					want := set.Contains(s.Representative(atom))
					if got := s.Includes(pred, atom); got != want {
						t.Errorf("Includes(%d, %d) = %v, want %v", pred, atom, got, want)
					}
				}
			}
		})
	}
}

func TestSolver_Unsupported(t *testing.T) {
	_, err := NewSolver(Kind(42), nil)
	if !errors.Is(err, ErrUnsupportedAlphabet) {
		t.Errorf("NewSolver() error = %v, want ErrUnsupportedAlphabet", err)
	}
	if got := Kind(42).String(); got != "UnknownKind(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestChoose(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	s := NewSet(Range{'a', 'c'}, Range{'x', 'x'})

	seen := map[uint16]bool{}
	for range 500 {
		c, ok := Choose(r, s)
		if !ok {
			t.Fatal("Choose() returned false for non-empty set")
		}
		if !s.Contains(c) {
			t.Fatalf("Choose() = %q, not a member", c)
		}
		seen[c] = true
	}
	if len(seen) != 4 {
		t.Errorf("Choose() produced %d distinct members, want 4", len(seen))
	}

	if _, ok := Choose(r, Empty()); ok {
		t.Error("Choose(Empty()) should return false")
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		c    uint16
		want Set
	}{
		{'a', NewSet(Range{'A', 'A'}, Range{'a', 'a'})},
		{'K', NewSet(Range{'K', 'K'}, Range{'k', 'k'}, Range{0x212A, 0x212A})},
		{'1', Single('1')},
		{0xD800, Single(0xD800)},
	}

	for _, tt := range tests {
		if got := Fold(tt.c); !got.Equal(tt.want) {
			t.Errorf("Fold(%q) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestMembership(t *testing.T) {
	s := NewSet(Range{'a', 'c'}, Range{0x3B1, 0x3C9})
	m := NewMembership(s)

	for c := 0; c <= 0x400; c++ {
		if got, want := m.Contains(uint16(c)), s.Contains(uint16(c)); got != want {
			t.Fatalf("Contains(%#x) = %v, want %v", c, got, want)
		}
	}
}
