package pattern

import (
	"github.com/coregx/symregex/alphabet"
)

// MaxPrefixLen bounds the length of a computed fixed prefix.
const MaxPrefixLen = 64

// Prefix is a sequence of predicates that every non-empty match of a node
// begins with, found by following derivatives while they do not depend on
// the consumed code unit.
type Prefix struct {
	// Preds[i] is the set of code units allowed at offset i.
	Preds []alphabet.Set
	// Rest is the derivative of the node after any prefix of length len(Preds).
	Rest Node
}

// Len returns the number of code units in the prefix.
func (p Prefix) Len() int {
	return len(p.Preds)
}

// FixedPrefix computes the prefix of n at an interior position. Extension
// stops when the node is nullable in any context, when code units in the
// start set lead to different derivatives, or at MaxPrefixLen. Freeze must
// have been called.
//
// A node nullable only at an input edge, such as (ab)*$, ends the prefix: a
// match may stop there when the edge is reached.
func (b *Builder) FixedPrefix(n Node) Prefix {
	p := Prefix{Rest: n}
	cur := n
	for len(p.Preds) < MaxPrefixLen {
		if b.nodes[cur].nullMask != 0 {
			break
		}
		ss := b.StartSet(cur)
		if ss.IsEmpty() {
			break
		}
		atoms := b.solver.AtomsOf(ss)
		next := b.Derivative(cur, atoms[0])
		if next == b.nothing {
			break
		}
		same := true
		for _, a := range atoms[1:] {
			if b.Derivative(cur, a) != next {
				same = false
				break
			}
		}
		if !same {
			break
		}
		p.Preds = append(p.Preds, ss)
		cur = next
		p.Rest = cur
	}
	return p
}

// Literal extracts a searchable literal from the prefix.
//
// The exact literal is the leading run of singleton predicates. When the
// leading run of case-fold orbits is longer and contains a non-singleton
// orbit it is returned instead with ignoreCase set; units then hold the
// smallest member of each orbit.
func (p Prefix) Literal() (units []uint16, ignoreCase bool) {
	var exact []uint16
	for _, s := range p.Preds {
		c, ok := s.Single()
		if !ok {
			break
		}
		exact = append(exact, c)
	}

	var folded []uint16
	multi := false
	for _, s := range p.Preds {
		c, ok := s.Min()
		if !ok || !alphabet.Fold(c).Equal(s) {
			break
		}
		if s.Size() > 1 {
			multi = true
		}
		folded = append(folded, c)
	}

	if multi && len(folded) > len(exact) {
		return folded, true
	}
	return exact, false
}
