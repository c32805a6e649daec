package pattern

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"unicode"
	"unicode/utf16"

	"github.com/coregx/symregex/alphabet"
)

// ErrUnsupportedSyntax is returned for constructs the symbolic algebra cannot
// express: multi-line anchors and word boundaries.
var ErrUnsupportedSyntax = errors.New("pattern: unsupported syntax")

// Pattern is a compiled pattern: the arena and the root node.
//
// A Pattern is owned by the matcher built from it; it must not be shared
// between matchers.
type Pattern struct {
	Builder *Builder
	Root    Node
	expr    string
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.expr
}

// Compile parses expr with Perl syntax and converts it into a Pattern.
func Compile(expr string) (*Pattern, error) {
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("pattern: parse %q: %w", expr, err)
	}
	b := NewBuilder()
	root, err := b.FromSyntax(re)
	if err != nil {
		return nil, fmt.Errorf("pattern: compile %q: %w", expr, err)
	}
	return &Pattern{Builder: b, Root: root, expr: expr}, nil
}

// FromSyntax converts a parsed regular expression into a node over UTF-16
// code units. Characters outside the Basic Multilingual Plane become
// surrogate-pair sequences. Repetition operators ignore greediness, since
// the matcher reports longest matches.
func (b *Builder) FromSyntax(re *syntax.Regexp) (Node, error) {
	switch re.Op {
	case syntax.OpNoMatch:
		return b.nothing, nil
	case syntax.OpEmptyMatch:
		return b.epsilon, nil

	case syntax.OpLiteral:
		nodes := make([]Node, len(re.Rune))
		for i, r := range re.Rune {
			if re.Flags&syntax.FoldCase != 0 {
				nodes[i] = b.runeRanges(foldRanges(r))
			} else {
				nodes[i] = b.runeRanges([]rune{r, r})
			}
		}
		return b.ConcatAll(nodes...), nil

	case syntax.OpCharClass:
		return b.runeRanges(re.Rune), nil
	case syntax.OpAnyCharNotNL:
		return b.runeRanges([]rune{0, '\n' - 1, '\n' + 1, unicode.MaxRune}), nil
	case syntax.OpAnyChar:
		return b.runeRanges([]rune{0, unicode.MaxRune}), nil

	case syntax.OpBeginText:
		return b.start, nil
	case syntax.OpEndText:
		return b.end, nil
	case syntax.OpBeginLine, syntax.OpEndLine:
		return 0, fmt.Errorf("%w: multi-line anchor %v", ErrUnsupportedSyntax, re)
	case syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return 0, fmt.Errorf("%w: word boundary %v", ErrUnsupportedSyntax, re)

	case syntax.OpCapture:
		return b.FromSyntax(re.Sub[0])

	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		body, err := b.FromSyntax(re.Sub[0])
		if err != nil {
			return 0, err
		}
		switch re.Op {
		case syntax.OpStar:
			return b.Loop(body, 0, Unbounded), nil
		case syntax.OpPlus:
			return b.Loop(body, 1, Unbounded), nil
		case syntax.OpQuest:
			return b.Loop(body, 0, 1), nil
		default:
			return b.Loop(body, re.Min, re.Max), nil
		}

	case syntax.OpConcat, syntax.OpAlternate:
		subs := make([]Node, len(re.Sub))
		for i, sub := range re.Sub {
			n, err := b.FromSyntax(sub)
			if err != nil {
				return 0, err
			}
			subs[i] = n
		}
		if re.Op == syntax.OpConcat {
			return b.ConcatAll(subs...), nil
		}
		return b.Or(subs...), nil
	}
	return 0, fmt.Errorf("%w: operator %v", ErrUnsupportedSyntax, re.Op)
}

// foldRanges returns the simple case-folding orbit of r as rune ranges.
func foldRanges(r rune) []rune {
	out := []rune{r, r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		out = append(out, f, f)
	}
	return out
}

// runeRanges converts rune ranges (lo, hi pairs) into a node over code units.
// BMP characters become one predicate; surrogate code points are not
// characters and are dropped; supplementary characters become high·low
// surrogate sequences.
func (b *Builder) runeRanges(pairs []rune) Node {
	var bmp []alphabet.Range
	var alts []Node
	for i := 0; i+1 < len(pairs); i += 2 {
		lo, hi := pairs[i], pairs[i+1]
		if lo <= 0xFFFF {
			bmp = append(bmp, alphabet.Range{Lo: uint16(lo), Hi: uint16(min(hi, 0xFFFF))})
		}
		if hi >= 0x10000 {
			alts = append(alts, b.surrogateRange(max(lo, 0x10000), hi)...)
		}
	}
	set := alphabet.NewSet(bmp...).Minus(alphabet.NewSet(alphabet.Range{Lo: 0xD800, Hi: 0xDFFF}))
	return b.Or(append(alts, b.Set(set))...)
}

// surrogateRange encodes the supplementary range [lo, hi] as alternatives of
// high·low surrogate sequences.
func (b *Builder) surrogateRange(lo, hi rune) []Node {
	pair := func(hLo, hHi, lLo, lHi uint16) Node {
		return b.Concat(
			b.Set(alphabet.NewSet(alphabet.Range{Lo: hLo, Hi: hHi})),
			b.Set(alphabet.NewSet(alphabet.Range{Lo: lLo, Hi: lHi})),
		)
	}

	ha, la := splitSurrogates(lo)
	hb, lb := splitSurrogates(hi)
	if ha == hb {
		return []Node{pair(ha, ha, la, lb)}
	}

	var out []Node
	first, last := ha, hb
	if la != 0xDC00 {
		out = append(out, pair(ha, ha, la, 0xDFFF))
		first++
	}
	if lb != 0xDFFF {
		out = append(out, pair(hb, hb, 0xDC00, lb))
		last--
	}
	if first <= last {
		out = append(out, pair(first, last, 0xDC00, 0xDFFF))
	}
	return out
}

func splitSurrogates(r rune) (hi, lo uint16) {
	r1, r2 := utf16.EncodeRune(r)
	return uint16(r1), uint16(r2)
}
