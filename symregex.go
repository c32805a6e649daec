// Package symregex provides a linear-time regular expression matcher built
// on symbolic derivatives.
//
// A pattern is compiled into an algebra of character predicates. Matching
// runs a lazily built automaton whose states are derivatives of the pattern,
// so there is no backtracking and no up-front determinization: the time per
// input symbol is constant once the states in use exist.
//
// Matching works on UTF-16 code units. UTF-8 input is decoded on the fly,
// and supplementary characters are matched as surrogate pairs in both
// encodings, so results agree between the two.
//
// Basic usage:
//
//	re, err := symregex.Compile(`ab*`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	re.IsMatchString("xaabby") // true
//	ms, _ := re.FindAllString("xaabby")
//	// ms == []Match{{Start: 1, Length: 1}, {Start: 2, Length: 3}}
//
// Semantics:
//   - Each match is found by locating the earliest match end, then the
//     smallest start of a match ending there, then the longest match from
//     that start
//   - Matches do not overlap; empty matches follow the Go regexp rules
//   - Greedy and lazy operators behave the same
//   - ^ and $ match only at the beginning and end of the input; (?m) line
//     anchors and word boundaries are rejected
//
// Advanced usage:
//
//	cfg := symregex.DefaultConfig().WithStateLimit(1_000)
//	re, err := symregex.CompileWithConfig(`(a|b)*abb`, cfg)
package symregex

import (
	"unsafe"

	"github.com/coregx/symregex/dfa/symbolic"
	"github.com/coregx/symregex/pattern"
	"github.com/coregx/symregex/sample"
)

// Config configures compilation. See symbolic.Config for the fields.
type Config = symbolic.Config

// Match is a match position. Offsets are bytes for UTF-8 input and code
// units for UTF-16 input.
type Match = symbolic.Match

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := symregex.MustCompile(`hello`)
//	if re.IsMatch([]byte("hello world")) {
//	    println("matched!")
//	}
type Regex struct {
	matcher *symbolic.Matcher
	pattern *pattern.Pattern
}

// Compile compiles a regular expression pattern.
//
// Syntax is Perl-compatible (same as Go's stdlib regexp), minus multi-line
// anchors and word boundaries.
func Compile(expr string) (*Regex, error) {
	return CompileWithConfig(expr, DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var hexRegex = symregex.MustCompile(`0x[0-9a-f]+`)
func MustCompile(expr string) *Regex {
	re, err := Compile(expr)
	if err != nil {
		panic("regexp: Compile(`" + expr + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	cfg := symregex.DefaultConfig().WithAlphabet(alphabet.BitVectorKind)
//	re, err := symregex.CompileWithConfig("(a|b|c)*", cfg)
func CompileWithConfig(expr string, config Config) (*Regex, error) {
	p, err := pattern.Compile(expr)
	if err != nil {
		return nil, err
	}
	m, err := symbolic.New(p, config)
	if err != nil {
		return nil, err
	}
	return &Regex{matcher: m, pattern: p}, nil
}

// DefaultConfig returns the default configuration for compilation.
//
// Users can customize this and pass to CompileWithConfig.
func DefaultConfig() Config {
	return symbolic.DefaultConfig()
}

// IsMatch reports whether the UTF-8 text b contains a match.
func (r *Regex) IsMatch(b []byte) bool {
	return r.matcher.IsMatchUTF8(b)
}

// IsMatchString reports whether s contains a match.
func (r *Regex) IsMatchString(s string) bool {
	return r.matcher.IsMatchUTF8(stringBytes(s))
}

// IsMatchUTF16 reports whether the code units contain a match.
func (r *Regex) IsMatchUTF16(units []uint16) bool {
	return r.matcher.IsMatch(units)
}

// FindAll returns every non-overlapping match in the UTF-8 text b, with byte
// offsets. The error is non-nil only if the matcher detected a broken
// internal invariant; no partial result is returned then.
func (r *Regex) FindAll(b []byte) ([]Match, error) {
	return r.matcher.MatchesUTF8(b)
}

// FindAllString is FindAll for a string.
func (r *Regex) FindAllString(s string) ([]Match, error) {
	return r.matcher.MatchesUTF8(stringBytes(s))
}

// FindAllUTF16 returns every non-overlapping match in the code units, with
// code-unit offsets.
func (r *Regex) FindAllUTF16(units []uint16) ([]Match, error) {
	return r.matcher.Matches(units)
}

// Sampler returns a generator of random strings accepted by the pattern.
// Loops are unrolled at most maxUnroll times.
func (r *Regex) Sampler(maxUnroll int, opts ...sample.Option) (*sample.Sampler, error) {
	return sample.New(r.pattern, maxUnroll, opts...)
}

// Stats returns the current size of the automaton.
func (r *Regex) Stats() symbolic.Stats {
	return r.matcher.Stats()
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern.String()
}

// stringBytes views s as bytes without copying. The matcher never writes to
// its input.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// QuoteMeta returns a string that escapes all regular expression metacharacters
// inside the argument text; the returned string is a regular expression matching
// the literal text.
//
// Example:
//
//	escaped := symregex.QuoteMeta("hello.world")
//	// escaped = "hello\\.world"
//	re := symregex.MustCompile(escaped)
//	re.IsMatchString("hello.world") // true
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

// isSpecial returns true if c is in the special characters string.
func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}
