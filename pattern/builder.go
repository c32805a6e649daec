// Package pattern implements the symbolic regex algebra the matcher runs on.
//
// Patterns are trees of nodes over predicates (sets of UTF-16 code units).
// Every node is hash-consed in a Builder arena: constructing a node that is
// structurally equal to an existing one returns the existing handle, so two
// nodes denote the same term iff their handles are equal. Constructors apply
// the usual simplifications (associativity, commutativity and idempotence of
// alternation, identity and absorption laws) which keeps the set of distinct
// derivatives of any pattern finite.
//
// A Builder is not safe for concurrent use. The matcher serializes all
// mutations behind its own lock.
package pattern

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/coregx/symregex/alphabet"
)

// Node is a handle to an interned node. Handles are only meaningful for the
// Builder that produced them.
type Node uint32

// Kind identifies the shape of a node.
type Kind uint8

const (
	// KindNothing matches no input (⊥).
	KindNothing Kind = iota
	// KindEpsilon matches only the empty string (ε).
	KindEpsilon
	// KindSet matches one code unit from a predicate.
	KindSet
	// KindConcat is a sequence of two nodes; chains are right-associated.
	KindConcat
	// KindOr is an alternation of two or more distinct nodes.
	KindOr
	// KindLoop repeats a body between lo and hi times (hi < 0 is unbounded).
	KindLoop
	// KindStartAnchor matches the empty string at the start of input.
	KindStartAnchor
	// KindEndAnchor matches the empty string at the end of input.
	KindEndAnchor
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNothing:
		return "Nothing"
	case KindEpsilon:
		return "Epsilon"
	case KindSet:
		return "Set"
	case KindConcat:
		return "Concat"
	case KindOr:
		return "Or"
	case KindLoop:
		return "Loop"
	case KindStartAnchor:
		return "StartAnchor"
	case KindEndAnchor:
		return "EndAnchor"
	default:
		return fmt.Sprintf("UnknownKind(%d)", k)
	}
}

// Nullability masks. Bit i is set when the node accepts the empty string in
// context i, where i = atStart | atEnd<<1.
const (
	nullNever  uint8 = 0b0000
	nullAlways uint8 = 0b1111
	nullStart  uint8 = 0b1010
	nullEnd    uint8 = 0b1100
)

// Unbounded is the hi value of a loop without an upper bound.
const Unbounded = -1

type node struct {
	kind  Kind
	pred  int32 // KindSet: predicate id
	left  Node  // KindConcat: head; KindLoop: body
	right Node  // KindConcat: tail
	lo    int32 // KindLoop
	hi    int32 // KindLoop; Unbounded for no limit
	alts  []Node

	nullMask uint8
	anchors  bool
}

func (n *node) equal(o *node) bool {
	return n.kind == o.kind &&
		n.pred == o.pred &&
		n.left == o.left &&
		n.right == o.right &&
		n.lo == o.lo &&
		n.hi == o.hi &&
		slices.Equal(n.alts, o.alts)
}

// Builder interns nodes and predicates for one pattern.
type Builder struct {
	nodes   []node
	buckets map[uint64][]Node
	scratch []byte

	preds   []alphabet.Set
	predIDs map[string]int32

	solver alphabet.Solver

	nothing, epsilon, dotStar, start, end Node

	deriv    map[uint64]Node
	reversed map[Node]Node
	resolved map[Node]Node
}

// NewBuilder returns a builder with ⊥, ε, the anchors and .* pre-interned.
// The full predicate always has id 0.
func NewBuilder() *Builder {
	b := &Builder{
		buckets:  make(map[uint64][]Node),
		predIDs:  make(map[string]int32),
		deriv:    make(map[uint64]Node),
		reversed: make(map[Node]Node),
		resolved: make(map[Node]Node),
	}
	b.nothing = b.intern(node{kind: KindNothing})
	b.epsilon = b.intern(node{kind: KindEpsilon})
	b.start = b.intern(node{kind: KindStartAnchor})
	b.end = b.intern(node{kind: KindEndAnchor})
	b.dotStar = b.Loop(b.Set(alphabet.Full()), 0, Unbounded)
	return b
}

// NodeCount returns the number of interned nodes.
func (b *Builder) NodeCount() int {
	return len(b.nodes)
}

// Predicates returns the registered predicates, indexed by predicate id.
func (b *Builder) Predicates() []alphabet.Set {
	return b.preds
}

// Freeze builds the alphabet solver over the registered predicates. After
// Freeze no new predicate may be registered; derivatives only ever reuse
// existing predicates, so this restriction never affects matching.
// Calling Freeze again returns the existing solver if the kind matches.
func (b *Builder) Freeze(kind alphabet.Kind) (alphabet.Solver, error) {
	if b.solver != nil {
		if b.solver.Kind() != kind {
			return nil, fmt.Errorf("pattern: builder already frozen with %v alphabet", b.solver.Kind())
		}
		return b.solver, nil
	}
	s, err := alphabet.NewSolver(kind, b.preds)
	if err != nil {
		return nil, err
	}
	b.solver = s
	return s, nil
}

// Solver returns the solver built by Freeze, or nil.
func (b *Builder) Solver() alphabet.Solver {
	return b.solver
}

func (b *Builder) hash(n *node) uint64 {
	buf := b.scratch[:0]
	buf = append(buf, byte(n.kind))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n.pred))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n.left))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n.right))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n.lo))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n.hi))
	for _, a := range n.alts {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(a))
	}
	b.scratch = buf
	return xxhash.Sum64(buf)
}

// intern returns the handle of n, adding it to the arena if it is new.
func (b *Builder) intern(n node) Node {
	h := b.hash(&n)
	for _, id := range b.buckets[h] {
		if b.nodes[id].equal(&n) {
			return id
		}
	}

	switch n.kind {
	case KindEpsilon:
		n.nullMask = nullAlways
	case KindStartAnchor:
		n.nullMask = nullStart
		n.anchors = true
	case KindEndAnchor:
		n.nullMask = nullEnd
		n.anchors = true
	case KindConcat:
		l, r := &b.nodes[n.left], &b.nodes[n.right]
		n.nullMask = l.nullMask & r.nullMask
		n.anchors = l.anchors || r.anchors
	case KindOr:
		for _, a := range n.alts {
			n.nullMask |= b.nodes[a].nullMask
			n.anchors = n.anchors || b.nodes[a].anchors
		}
	case KindLoop:
		body := &b.nodes[n.left]
		n.nullMask = body.nullMask
		if n.lo == 0 {
			n.nullMask = nullAlways
		}
		n.anchors = body.anchors
	}

	id := Node(len(b.nodes))
	b.nodes = append(b.nodes, n)
	b.buckets[h] = append(b.buckets[h], id)
	return id
}

func (b *Builder) predID(s alphabet.Set) int32 {
	key := s.Key()
	if id, ok := b.predIDs[key]; ok {
		return id
	}
	if b.solver != nil {
		panic("pattern: new predicate registered after Freeze")
	}
	id := int32(len(b.preds))
	b.preds = append(b.preds, s)
	b.predIDs[key] = id
	return id
}

// Nothing returns ⊥.
func (b *Builder) Nothing() Node { return b.nothing }

// Epsilon returns ε.
func (b *Builder) Epsilon() Node { return b.epsilon }

// DotStar returns the loop over the full predicate, which accepts everything.
func (b *Builder) DotStar() Node { return b.dotStar }

// StartAnchor returns ^ (beginning of text).
func (b *Builder) StartAnchor() Node { return b.start }

// EndAnchor returns $ (end of text).
func (b *Builder) EndAnchor() Node { return b.end }

// Set returns the node matching one code unit from s. The empty set is ⊥.
func (b *Builder) Set(s alphabet.Set) Node {
	if s.IsEmpty() {
		return b.nothing
	}
	return b.intern(node{kind: KindSet, pred: b.predID(s)})
}

// Concat returns the sequence l·r.
func (b *Builder) Concat(l, r Node) Node {
	switch {
	case l == b.nothing || r == b.nothing:
		return b.nothing
	case l == b.epsilon:
		return r
	case r == b.epsilon:
		return l
	}

	ln := &b.nodes[l]
	if ln.kind == KindConcat {
		// Right-associate: (x·y)·r = x·(y·r).
		head, tail := ln.left, ln.right
		return b.Concat(head, b.Concat(tail, r))
	}

	// x*·x* = x* and x*·(x*·y) = x*·y; this covers .*·.* = .*.
	if ln.kind == KindLoop && ln.lo == 0 && ln.hi == Unbounded {
		if r == l {
			return l
		}
		rn := &b.nodes[r]
		if rn.kind == KindConcat && rn.left == l {
			return r
		}
	}

	return b.intern(node{kind: KindConcat, left: l, right: r})
}

// ConcatAll returns the right-associated sequence of nodes; ε when empty.
func (b *Builder) ConcatAll(nodes ...Node) Node {
	out := b.epsilon
	for i := len(nodes) - 1; i >= 0; i-- {
		out = b.Concat(nodes[i], out)
	}
	return out
}

// Or returns the alternation of nodes. Nested alternations are flattened,
// ⊥ is dropped, duplicates are removed and alternatives are kept in handle
// order; any .* alternative absorbs the whole alternation.
func (b *Builder) Or(nodes ...Node) Node {
	alts := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch {
		case n == b.nothing:
			continue
		case n == b.dotStar:
			return b.dotStar
		case b.nodes[n].kind == KindOr:
			alts = append(alts, b.nodes[n].alts...)
		default:
			alts = append(alts, n)
		}
	}
	slices.Sort(alts)
	alts = slices.Compact(alts)

	switch len(alts) {
	case 0:
		return b.nothing
	case 1:
		return alts[0]
	}
	return b.intern(node{kind: KindOr, alts: alts})
}

// Loop returns body repeated between lo and hi times; hi == Unbounded for no
// upper bound.
func (b *Builder) Loop(body Node, lo, hi int) Node {
	if hi != Unbounded && hi < lo {
		return b.nothing
	}
	if lo < 0 {
		lo = 0
	}
	switch {
	case hi == 0:
		return b.epsilon
	case body == b.nothing:
		if lo == 0 {
			return b.epsilon
		}
		return b.nothing
	case body == b.epsilon:
		return b.epsilon
	case lo == 1 && hi == 1:
		return body
	}

	bn := &b.nodes[body]
	// A body that accepts ε in every context makes the lower bound moot.
	if bn.nullMask == nullAlways {
		lo = 0
	}
	// (x*)* = x*.
	if lo == 0 && hi == Unbounded && bn.kind == KindLoop && bn.lo == 0 && bn.hi == Unbounded {
		return body
	}
	return b.intern(node{kind: KindLoop, left: body, lo: int32(lo), hi: int32(hi)})
}

// Kind returns the kind of n.
func (b *Builder) Kind(n Node) Kind {
	return b.nodes[n].kind
}

// Pred returns the predicate of a KindSet node.
func (b *Builder) Pred(n Node) alphabet.Set {
	return b.preds[b.nodes[n].pred]
}

// PredID returns the predicate id of a KindSet node.
func (b *Builder) PredID(n Node) int {
	return int(b.nodes[n].pred)
}

// Operands returns head and tail of a KindConcat node.
func (b *Builder) Operands(n Node) (head, tail Node) {
	return b.nodes[n].left, b.nodes[n].right
}

// Alternatives returns the alternatives of a KindOr node. The caller must
// not modify the result.
func (b *Builder) Alternatives(n Node) []Node {
	return b.nodes[n].alts
}

// LoopOf returns body and bounds of a KindLoop node.
func (b *Builder) LoopOf(n Node) (body Node, lo, hi int) {
	nd := &b.nodes[n]
	return nd.left, int(nd.lo), int(nd.hi)
}

// NullMask returns the four-context nullability mask of n. Bit
// atStart|atEnd<<1 is set when n accepts ε in that context.
func (b *Builder) NullMask(n Node) uint8 {
	return b.nodes[n].nullMask
}

// Nullable reports whether n accepts the empty string at a position with the
// given context.
func (b *Builder) Nullable(n Node, atStart, atEnd bool) bool {
	return b.nodes[n].nullMask&ContextBit(atStart, atEnd) != 0
}

// HasAnchors reports whether n contains ^ or $.
func (b *Builder) HasAnchors(n Node) bool {
	return b.nodes[n].anchors
}

// ContextBit returns the nullability mask bit for a position context.
func ContextBit(atStart, atEnd bool) uint8 {
	i := 0
	if atStart {
		i |= 1
	}
	if atEnd {
		i |= 2
	}
	return 1 << i
}
