package pattern

import (
	"github.com/coregx/symregex/alphabet"
)

// Derivative returns the Brzozowski derivative of n with respect to atom:
// the node accepting every w such that c·w is accepted by n, for any code
// unit c in the atom.
//
// Derivatives are taken at an interior position. Any ^ still present has
// not been resolved by ResolveStart and can no longer match, and $ cannot
// match before a consumed code unit. Freeze must have been called.
func (b *Builder) Derivative(n Node, atom int) Node {
	if b.solver == nil {
		panic("pattern: Derivative called before Freeze")
	}
	key := uint64(n)<<32 | uint64(uint32(atom))
	if d, ok := b.deriv[key]; ok {
		return d
	}
	d := b.derivative(n, atom)
	b.deriv[key] = d
	return d
}

func (b *Builder) derivative(n Node, atom int) Node {
	nd := b.nodes[n]
	switch nd.kind {
	case KindSet:
		if b.solver.Includes(int(nd.pred), atom) {
			return b.epsilon
		}
		return b.nothing

	case KindConcat:
		head := b.Concat(b.Derivative(nd.left, atom), nd.right)
		if b.nodes[nd.left].nullMask&interior != 0 {
			return b.Or(head, b.Derivative(nd.right, atom))
		}
		return head

	case KindOr:
		ds := make([]Node, len(nd.alts))
		for i, a := range nd.alts {
			ds[i] = b.Derivative(a, atom)
		}
		return b.Or(ds...)

	case KindLoop:
		hi := int(nd.hi)
		if hi != Unbounded {
			hi--
		}
		rest := b.Loop(nd.left, int(nd.lo)-1, hi)
		return b.Concat(b.Derivative(nd.left, atom), rest)

	default:
		// ⊥, ε and anchors consume nothing.
		return b.nothing
	}
}

// interior is the nullability bit of a position that is neither the start
// nor the end of input.
const interior uint8 = 1

// DerivativeSymbol is Derivative for the atom containing c.
func (b *Builder) DerivativeSymbol(n Node, c uint16) Node {
	return b.Derivative(n, b.solver.Classify(c))
}

// Reverse returns the node accepting the reversal of every string n accepts.
// Anchors swap roles: a reversed ^ is $ and vice versa.
func (b *Builder) Reverse(n Node) Node {
	if r, ok := b.reversed[n]; ok {
		return r
	}
	var r Node
	nd := b.nodes[n]
	switch nd.kind {
	case KindConcat:
		r = b.Concat(b.Reverse(nd.right), b.Reverse(nd.left))
	case KindOr:
		rs := make([]Node, len(nd.alts))
		for i, a := range nd.alts {
			rs[i] = b.Reverse(a)
		}
		r = b.Or(rs...)
	case KindLoop:
		r = b.Loop(b.Reverse(nd.left), int(nd.lo), int(nd.hi))
	case KindStartAnchor:
		r = b.end
	case KindEndAnchor:
		r = b.start
	default:
		r = n
	}
	b.reversed[n] = r
	return r
}

// ResolveStart returns the node to use when n starts at the beginning of the
// input: every ^ that can be reached before the first consumed code unit is
// satisfied and replaced by ε. The result accepts the same strings as n at
// the start of input, and derivatives of it may be taken at interior
// positions. Nodes without anchors are returned unchanged.
func (b *Builder) ResolveStart(n Node) Node {
	nd := b.nodes[n]
	if !nd.anchors {
		return n
	}
	if r, ok := b.resolved[n]; ok {
		return r
	}

	var r Node
	switch nd.kind {
	case KindStartAnchor:
		r = b.epsilon
	case KindConcat:
		r = b.Concat(b.ResolveStart(nd.left), nd.right)
		if b.Nullable(nd.left, true, false) {
			r = b.Or(r, b.ResolveStart(nd.right))
		}
	case KindOr:
		rs := make([]Node, len(nd.alts))
		for i, a := range nd.alts {
			rs[i] = b.ResolveStart(a)
		}
		r = b.Or(rs...)
	case KindLoop:
		r = b.resolveLoop(nd.left, int(nd.lo), int(nd.hi))
	default:
		r = n
	}
	b.resolved[n] = r
	return r
}

// resolveLoop unfolds one iteration of body{lo,hi} at the start of input.
func (b *Builder) resolveLoop(body Node, lo, hi int) Node {
	restHi := hi
	if hi != Unbounded {
		restHi--
	}
	first := b.Concat(b.ResolveStart(body), b.Loop(body, lo-1, restHi))
	if lo == 0 {
		// Leading empty iterations can be dropped without leaving the bounds.
		return b.Or(b.epsilon, first)
	}
	if b.Nullable(body, true, false) {
		// An empty first iteration still counts towards lo.
		return b.Or(first, b.ResolveStart(b.Loop(body, lo-1, restHi)))
	}
	return first
}

// Containment returns .*·n·.*, which accepts exactly the inputs that contain
// a match of n. Its derivatives reach .* as soon as a match has been seen.
func (b *Builder) Containment(n Node) Node {
	return b.Concat(b.dotStar, b.Concat(n, b.dotStar))
}

// StartSet returns the code units that can begin a non-empty match of n at an
// interior position. The result may over-approximate.
func (b *Builder) StartSet(n Node) alphabet.Set {
	nd := b.nodes[n]
	switch nd.kind {
	case KindSet:
		return b.preds[nd.pred]
	case KindConcat:
		s := b.StartSet(nd.left)
		if b.nodes[nd.left].nullMask&interior != 0 {
			s = s.Union(b.StartSet(nd.right))
		}
		return s
	case KindOr:
		var s alphabet.Set
		for _, a := range nd.alts {
			s = s.Union(b.StartSet(a))
		}
		return s
	case KindLoop:
		return b.StartSet(nd.left)
	default:
		return alphabet.Empty()
	}
}
