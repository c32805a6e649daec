// Package symbolic implements a lazy symbolic-derivative automaton and the
// bidirectional search protocol built on it.
//
// A Matcher never backtracks. States are pattern nodes; the successor of a
// state on an input symbol is the node's derivative with respect to the atom
// (alphabet partition cell) containing the symbol. Transitions are computed
// on first use and cached for every later scan, so matching is linear in the
// input once the reachable states exist.
//
// Three root automata drive FindMatches:
//   - SearchForward (.*A) finds the earliest boundary where some match ends
//   - SearchBackward (reverse of A) walks back from it to the match start
//   - Forward (A) walks forward from the start to the longest match end
//
// Example usage:
//
//	p, _ := pattern.Compile(`ab*`)
//	m, _ := symbolic.New(p, symbolic.DefaultConfig())
//	ms, _ := m.Matches(utf16.Encode([]rune("xaabby")))
//	// ms == []Match{{1, 1}, {2, 3}}
package symbolic

import (
	"log/slog"
	"sync"

	"github.com/coregx/symregex/pattern"
)

// Match is a match position in symbol units: code units for UTF-16 input,
// bytes for UTF-8 input.
type Match struct {
	Start  int
	Length int
}

// End returns the position just past the match.
func (m Match) End() int {
	return m.Start + m.Length
}

// Matcher searches text for a compiled pattern.
//
// A Matcher is safe for concurrent use by multiple goroutines.
type Matcher struct {
	pattern  *pattern.Pattern
	root     pattern.Node
	anchored bool
	cache    *Cache
	logger   *slog.Logger

	// Roots, and their variants for a scan that starts at the input edge the
	// automaton reads from first. Without anchors each pair is one state.
	searchFwd, searchFwdEdge StateID
	searchBwd, searchBwdEdge StateID
	fwd, fwdEdge             StateID

	acc accel

	// containment is the .*A.* automaton, resolved for offset 0. Only
	// patterns with anchors use it, so it is built on first use.
	containOnce sync.Once
	containment StateID
}

// New builds a matcher for p. The pattern's builder is frozen with the
// configured alphabet and owned by the matcher from then on.
func New(p *pattern.Pattern, cfg Config) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := p.Builder
	if _, err := b.Freeze(cfg.Alphabet); err != nil {
		return nil, &Error{
			Kind:    UnsupportedConfig,
			Message: "cannot build alphabet",
			Cause:   err,
		}
	}

	root := p.Root
	m := &Matcher{
		pattern:  p,
		root:     root,
		anchored: b.HasAnchors(root),
		cache:    NewCache(b, cfg.StateLimit, cfg.logger()),
		logger:   cfg.logger(),
	}

	searchFwd := b.Concat(b.DotStar(), root)
	reversed := b.Reverse(root)
	m.searchFwd = m.cache.Intern(searchFwd)
	m.searchBwd = m.cache.Intern(reversed)
	m.fwd = m.cache.Intern(root)
	m.searchFwdEdge = m.cache.Intern(b.ResolveStart(searchFwd))
	m.searchBwdEdge = m.cache.Intern(b.ResolveStart(reversed))
	m.fwdEdge = m.cache.Intern(b.ResolveStart(root))

	m.acc = buildAccel(b, m.cache, root, m.searchFwd, m.searchBwd, &cfg)

	m.logger.Debug("symbolic: matcher built",
		slog.String("pattern", p.String()),
		slog.String("alphabet", cfg.Alphabet.String()),
		slog.Int("atoms", m.cache.atoms),
		slog.Int("literal_len", len(m.acc.literal)),
		slog.Bool("literal_exact", m.acc.exact),
		slog.Int("reverse_prefix_len", m.acc.revLen),
		slog.Bool("anchored", m.anchored))
	return m, nil
}

// String returns the source pattern.
func (m *Matcher) String() string {
	return m.pattern.String()
}

// Stats returns the current size of the automaton.
func (m *Matcher) Stats() Stats {
	return m.cache.Stats()
}

// IsMatch reports whether the code units contain a match.
func (m *Matcher) IsMatch(input []uint16) bool {
	return isMatch(m, unitSource{units: input})
}

// Matches returns all non-overlapping matches in the code units, in order.
// Positions are code-unit offsets.
func (m *Matcher) Matches(input []uint16) ([]Match, error) {
	return matches(m, unitSource{units: input})
}

// IsMatchUTF8 reports whether the UTF-8 text contains a match.
func (m *Matcher) IsMatchUTF8(input []byte) bool {
	return isMatch(m, utf8Source{buf: input})
}

// MatchesUTF8 returns all non-overlapping matches in the UTF-8 text, in
// order. Positions are byte offsets.
func (m *Matcher) MatchesUTF8(input []byte) ([]Match, error) {
	return matches(m, utf8Source{buf: input})
}

// containmentRoot returns the containment automaton's start state, building
// it on first use.
func (m *Matcher) containmentRoot() StateID {
	m.containOnce.Do(func() {
		m.containment = m.cache.Build(func(b *pattern.Builder) pattern.Node {
			return b.ResolveStart(b.Containment(m.root))
		})
	})
	return m.containment
}
