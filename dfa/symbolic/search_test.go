package symbolic

import (
	"regexp"
	"testing"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/symregex/alphabet"
	"github.com/coregx/symregex/pattern"
)

func u16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func newMatcher(t testing.TB, expr string, cfg Config) *Matcher {
	t.Helper()
	p, err := pattern.Compile(expr)
	if err != nil {
		t.Fatalf("pattern.Compile(%q) error = %v", expr, err)
	}
	m, err := New(p, cfg)
	if err != nil {
		t.Fatalf("New(%q) error = %v", expr, err)
	}
	return m
}

// reference answers the same questions as the matcher by brute force over
// plain derivatives: no cache, no roots, no accelerators.
type reference struct {
	b    *pattern.Builder
	root pattern.Node
}

func newReference(t testing.TB, expr string) *reference {
	t.Helper()
	p, err := pattern.Compile(expr)
	if err != nil {
		t.Fatalf("pattern.Compile(%q) error = %v", expr, err)
	}
	if _, err := p.Builder.Freeze(alphabet.CharSetKind); err != nil {
		t.Fatal(err)
	}
	return &reference{b: p.Builder, root: p.Root}
}

// accepts reports whether the pattern matches exactly in[s:e].
func (r *reference) accepts(in []uint16, s, e int) bool {
	q := r.root
	if s == 0 {
		q = r.b.ResolveStart(q)
	}
	for i := s; i < e; i++ {
		q = r.b.DerivativeSymbol(q, in[i])
	}
	return r.b.Nullable(q, e == 0, e == len(in))
}

// matches finds the earliest match end, the smallest start for it, and the
// longest end from that start, with Go's empty-match rules.
func (r *reference) matches(in []uint16) []Match {
	n := len(in)
	var out []Match
	prevEnd := -1
	for pos := 0; pos <= n; {
		s, e := -1, -1
	earliest:
		for end := pos; end <= n; end++ {
			for start := pos; start <= end; start++ {
				if r.accepts(in, start, end) {
					s, e = start, end
					break earliest
				}
			}
		}
		if e < 0 {
			break
		}
		end := e
		for x := e; x <= n; x++ {
			if r.accepts(in, s, x) {
				end = x
			}
		}

		accept := true
		if end == pos {
			accept = s != prevEnd
			pos++
		} else {
			pos = end
		}
		prevEnd = end
		if accept {
			out = append(out, Match{Start: s, Length: end - s})
		}
	}
	return out
}

var referencePatterns = []string{
	`ab*`,
	`a*`,
	`a+b`,
	`(ab|a)(c|bcd)`,
	`[a-c]+d?`,
	`^a`,
	`a$`,
	`^$`,
	`^a*$`,
	`x*`,
	`(a|b)*c`,
	`a{2,3}`,
	`(?i)ab`,
	`abc|bcd`,
	`a.c`,
	`[^a]+`,
	`(a*)(b*)`,
	`\d+`,
	`(ab)+$`,
	`^(ab)+`,
	`b|abc`,
	`a?`,
	`(?s).`,
	`\Aab|b\z`,
	`a(b|$)`,
}

var referenceInputs = []string{
	"", "a", "b", "ab", "abc", "aab", "abab", "xaabby", "abcd", "bcd",
	"aaaa", "cab", "ab\nab", "12a345", "AbaB", "bbab",
}

func testConfigs() map[string]Config {
	return map[string]Config{
		"default":      DefaultConfig(),
		"no_prefilter": DefaultConfig().WithPrefilter(false),
		"bitvector":    DefaultConfig().WithAlphabet(alphabet.BitVectorKind),
		"overflow":     DefaultConfig().WithStateLimit(1),
		"table_scan":   DefaultConfig().WithStartSetSizeLimit(0),
	}
}

func TestMatches_Reference(t *testing.T) {
	for name, cfg := range testConfigs() {
		t.Run(name, func(t *testing.T) {
			for _, expr := range referencePatterns {
				ref := newReference(t, expr)
				m := newMatcher(t, expr, cfg)
				for _, in := range referenceInputs {
					units := u16(in)
					got, err := m.Matches(units)
					if err != nil {
						t.Fatalf("Matches(%q, %q) error = %v", expr, in, err)
					}
					if diff := cmp.Diff(ref.matches(units), got); diff != "" {
						t.Errorf("Matches(%q, %q) mismatch (-want +got):\n%s", expr, in, diff)
					}
				}
			}
		})
	}
}

func TestIsMatch_Stdlib(t *testing.T) {
	for name, cfg := range testConfigs() {
		t.Run(name, func(t *testing.T) {
			for _, expr := range referencePatterns {
				re := regexp.MustCompile(expr)
				m := newMatcher(t, expr, cfg)
				for _, in := range referenceInputs {
					want := re.MatchString(in)
					if got := m.IsMatch(u16(in)); got != want {
						t.Errorf("IsMatch(%q, %q) = %v, want %v", expr, in, got, want)
					}
					if got := m.IsMatchUTF8([]byte(in)); got != want {
						t.Errorf("IsMatchUTF8(%q, %q) = %v, want %v", expr, in, got, want)
					}
				}
			}
		})
	}
}

func TestIsMatch_ConsistentWithMatches(t *testing.T) {
	for _, expr := range referencePatterns {
		m := newMatcher(t, expr, DefaultConfig())
		for _, in := range referenceInputs {
			ms, err := m.Matches(u16(in))
			if err != nil {
				t.Fatal(err)
			}
			if got := m.IsMatch(u16(in)); got != (len(ms) > 0) {
				t.Errorf("%q on %q: IsMatch = %v, but %d matches", expr, in, got, len(ms))
			}
		}
	}
}

func TestMatches_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		input string
		want  []Match
	}{
		{"star_after_literal", `ab*`, "xaabby", []Match{{1, 1}, {2, 3}}},
		{"anchored_exact", `^abc$`, "abc", []Match{{0, 3}}},
		{"anchored_no_match", `^abc$`, "xabc", nil},
		{"empty_input", `a*`, "", []Match{{0, 0}}},
		{"empty_then_run", `a*`, "baa", []Match{{0, 0}, {1, 2}}},
		{"empty_everywhere", `x*`, "ab", []Match{{0, 0}, {1, 0}, {2, 0}}},
		{"end_anchor", `abc$`, "abcabc", []Match{{3, 3}}},
		{"start_anchor", `^a`, "aaa", []Match{{0, 1}}},
		{"longest_alternative", `a|ab`, "ab", []Match{{0, 2}}},
		{"digits", `[0-9]+`, "a12b345", []Match{{1, 2}, {4, 3}}},
		{"ignore_case", `(?i)hello`, "say HeLLo", []Match{{4, 5}}},
		{"literal_prefix", `http://[a-z]+`, "see http://go and http://x.", []Match{{4, 9}, {18, 8}}},
		{"supplementary", `😀+`, "a😀😀b", []Match{{1, 4}}},
		{"dot_pair", `.`, "a😀", []Match{{0, 1}, {1, 2}}},
		{"no_match", `z`, "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatcher(t, tt.expr, DefaultConfig())
			got, err := m.Matches(u16(tt.input))
			if err != nil {
				t.Fatalf("Matches() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Matches() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsMatch_Anchors(t *testing.T) {
	tests := []struct {
		expr  string
		input string
		want  bool
	}{
		{`^abc$`, "abc", true},
		{`^abc$`, "xabc", false},
		{`^abc$`, "abcx", false},
		{`^$`, "", true},
		{`^$`, "a", false},
		{`a^b`, "ab", false},
		{`a$b`, "ab", false},
		{`(^|x)a`, "ya", false},
		{`(^|x)a`, "xa", true},
		{`(^|x)a`, "ab", true},
		{`a*`, "", true},
	}

	for _, tt := range tests {
		m := newMatcher(t, tt.expr, DefaultConfig())
		if got := m.IsMatch(u16(tt.input)); got != tt.want {
			t.Errorf("IsMatch(%q, %q) = %v, want %v", tt.expr, tt.input, got, tt.want)
		}
	}
}

// byteOffsets maps each code-unit boundary of s to its byte offset. An
// invalid byte is one U+FFFD unit, as in u16.
func byteOffsets(s string) map[int]int {
	offsets := map[int]int{0: 0}
	unit := 0
	for b := 0; b < len(s); {
		r, size := utf8.DecodeRuneInString(s[b:])
		unit += utf16.RuneLen(r)
		b += size
		offsets[unit] = b
	}
	return offsets
}

func TestMatchesUTF8_EquivalentToUnits(t *testing.T) {
	patterns := []string{
		`.`, `.+`, `😀`, `[^a]`, `é+`, `x*`, `a|😀`, `\p{Han}+`, `(?i)straße`, `b$`, `^.`,
		`\x{FFFD}abc`, `a\x{FFFD}+`, `\x{FFFD}`,
	}
	inputs := []string{
		"", "a", "héllo", "a😀b", "数据😀x", "STRASSE straße", "😀😀", "ab",
		"\xffabc", "xa\xfe\xff", "\xef\xbf\xbdabc", "\xf0\x9f",
	}

	for _, expr := range patterns {
		m := newMatcher(t, expr, DefaultConfig())
		for _, in := range inputs {
			units, err := m.Matches(u16(in))
			if err != nil {
				t.Fatal(err)
			}
			offsets := byteOffsets(in)
			var want []Match
			for _, mt := range units {
				start := offsets[mt.Start]
				want = append(want, Match{Start: start, Length: offsets[mt.End()] - start})
			}

			got, err := m.MatchesUTF8([]byte(in))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("MatchesUTF8(%q, %q) mismatch (-want +got):\n%s", expr, in, diff)
			}
			if m.IsMatchUTF8([]byte(in)) != m.IsMatch(u16(in)) {
				t.Errorf("IsMatchUTF8(%q, %q) disagrees with IsMatch", expr, in)
			}
		}
	}
}

func TestMatches_AnchoredPrefilter(t *testing.T) {
	tests := []struct {
		expr  string
		input string
		want  []Match
	}{
		{`(ab)+$`, "cab", []Match{{1, 2}}},
		{`x(ab)*$`, "zxab", []Match{{1, 3}}},
		{`x(ab)*$`, "xaby", nil},
		{`^a*`, "aab", []Match{{0, 2}}},
		{`^a*`, "ba", []Match{{0, 0}}},
		{`a|^`, "ba", []Match{{0, 0}, {1, 1}}},
		{`^(ab)+`, "ab", []Match{{0, 2}}},
		{`^(ab)+`, "abab", []Match{{0, 4}}},
		{`^a?`, "xééé", []Match{{0, 0}}},
		{`ab(c|$)`, "xab", []Match{{1, 2}}},
	}

	scalar := DefaultConfig().WithPrefilter(false)
	for _, tt := range tests {
		t.Run(tt.expr+" on "+tt.input, func(t *testing.T) {
			m := newMatcher(t, tt.expr, DefaultConfig())
			got, err := m.Matches(u16(tt.input))
			if err != nil {
				t.Fatalf("Matches() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Matches() mismatch (-want +got):\n%s", diff)
			}

			plain, err := newMatcher(t, tt.expr, scalar).Matches(u16(tt.input))
			if err != nil {
				t.Fatalf("Matches() without prefilter error = %v", err)
			}
			if diff := cmp.Diff(plain, got); diff != "" {
				t.Errorf("accelerated and scalar scans differ (-scalar +accelerated):\n%s", diff)
			}
			if ok := m.IsMatch(u16(tt.input)); ok != (len(got) > 0) {
				t.Errorf("IsMatch() = %v with %d matches", ok, len(got))
			}
			if _, err := m.MatchesUTF8([]byte(tt.input)); err != nil {
				t.Errorf("MatchesUTF8() error = %v", err)
			}
		})
	}
}

func TestJumpBack(t *testing.T) {
	src := unitSource{units: u16("abcd")}
	tests := []struct {
		e, c, k int
		want    int
		wantOK  bool
	}{
		{4, 0, 2, 2, true},
		{4, 2, 2, 2, true},
		{4, 3, 2, 4, false},
		{1, 1, 1, 1, false},
		{4, 0, 0, 4, true},
	}
	for _, tt := range tests {
		got, ok := jumpBack(src, tt.e, tt.c, tt.k)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("jumpBack(e=%d, c=%d, k=%d) = (%d, %v), want (%d, %v)",
				tt.e, tt.c, tt.k, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMatches_Deterministic(t *testing.T) {
	m := newMatcher(t, `(a|b)*c|d+`, DefaultConfig())
	in := u16("abacdd cab ddd")
	first, err := m.Matches(in)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		again, err := m.Matches(in)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("second scan differs (-first +again):\n%s", diff)
		}
	}
}

func TestMatches_NonOverlapping(t *testing.T) {
	m := newMatcher(t, `a+|b*`, DefaultConfig())
	ms, err := m.Matches(u16("aabxbbbaa"))
	if err != nil {
		t.Fatal(err)
	}
	prev := 0
	for i, mt := range ms {
		if mt.Start < prev {
			t.Fatalf("match %d %v overlaps the previous one ending at %d", i, mt, prev)
		}
		prev = mt.End()
	}
}
