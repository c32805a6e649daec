package symbolic

import (
	"fmt"

	"github.com/coregx/symregex/pattern"
)

// StateID uniquely identifies a state of the lazy automaton.
//
// Ids are issued from 1 in creation order and never reused. The value 0 is
// the "not yet computed" marker of the transition table and is never handed
// out as a state.
type StateID uint32

// unknown marks a transition table entry that has not been computed.
const unknown StateID = 0

// firstState is the id given to the first interned state. With distinct
// root nodes the three roots get ids 1 (SearchForward), 2 (SearchBackward)
// and 3 (Forward).
const firstState StateID = 1

// String returns a readable state name
func (s StateID) String() string {
	return fmt.Sprintf("q%d", uint32(s))
}

// stateInfo is everything a scan needs about a state. It is computed once
// when the state is interned so scans never consult the pattern arena.
type stateInfo struct {
	node pattern.Node

	// nullMask has bit atStart|atEnd<<1 set when the node accepts ε in that
	// context.
	nullMask uint8

	// reject is set for ⊥: no continuation can match.
	reject bool

	// accept is set for .*: every continuation matches.
	accept bool
}

func newStateInfo(b *pattern.Builder, n pattern.Node) *stateInfo {
	return &stateInfo{
		node:     n,
		nullMask: b.NullMask(n),
		reject:   n == b.Nothing(),
		accept:   n == b.DotStar(),
	}
}

// nullable reports whether the state accepts ε at a boundary with the given
// context.
func (s *stateInfo) nullable(atStart, atEnd bool) bool {
	return s.nullMask&pattern.ContextBit(atStart, atEnd) != 0
}
