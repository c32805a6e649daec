package pattern

import (
	"strconv"
	"strings"
)

// String renders n in a regex-like notation for debugging.
func (b *Builder) String(n Node) string {
	var sb strings.Builder
	b.write(&sb, n)
	return sb.String()
}

func (b *Builder) write(sb *strings.Builder, n Node) {
	nd := &b.nodes[n]
	switch nd.kind {
	case KindNothing:
		sb.WriteString("⊥")
	case KindEpsilon:
		sb.WriteString("ε")
	case KindStartAnchor:
		sb.WriteByte('^')
	case KindEndAnchor:
		sb.WriteByte('$')
	case KindSet:
		s := b.preds[nd.pred]
		if c, ok := s.Single(); ok && c >= 0x20 && c < 0x7F && !strings.ContainsRune(`\.+*?()|[]{}^$`, rune(c)) {
			sb.WriteByte(byte(c))
			return
		}
		sb.WriteString(s.String())
	case KindConcat:
		b.writeOperand(sb, nd.left, KindConcat)
		b.writeOperand(sb, nd.right, KindConcat)
	case KindOr:
		sb.WriteByte('(')
		for i, a := range nd.alts {
			if i > 0 {
				sb.WriteByte('|')
			}
			b.write(sb, a)
		}
		sb.WriteByte(')')
	case KindLoop:
		b.writeOperand(sb, nd.left, KindLoop)
		switch {
		case nd.lo == 0 && nd.hi == Unbounded:
			sb.WriteByte('*')
		case nd.lo == 1 && nd.hi == Unbounded:
			sb.WriteByte('+')
		case nd.lo == 0 && nd.hi == 1:
			sb.WriteByte('?')
		default:
			sb.WriteByte('{')
			sb.WriteString(strconv.Itoa(int(nd.lo)))
			if nd.hi != nd.lo {
				sb.WriteByte(',')
				if nd.hi != Unbounded {
					sb.WriteString(strconv.Itoa(int(nd.hi)))
				}
			}
			sb.WriteByte('}')
		}
	}
}

// writeOperand parenthesizes n when it binds looser than its parent.
func (b *Builder) writeOperand(sb *strings.Builder, n Node, parent Kind) {
	k := b.nodes[n].kind
	if parent == KindLoop && (k == KindConcat || k == KindLoop) {
		sb.WriteByte('(')
		b.write(sb, n)
		sb.WriteByte(')')
		return
	}
	b.write(sb, n)
}
