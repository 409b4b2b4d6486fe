package regex

import (
	"fmt"
	"io"
	"strings"
)

// String renders the compiled groups back into pattern syntax. Compiling the
// result yields the same groups.
func (r *Regex) String() string {
	var sb strings.Builder
	for _, g := range r.groups {
		sb.WriteString(g.String())
	}
	return sb.String()
}

func (g CharGroup) String() string {
	var sb strings.Builder
	switch c, single := g.singleMember(); {
	case g.isAny():
		sb.WriteByte('.')
	case single && !g.negated:
		sb.WriteString(escapeChar(c))
	default:
		sb.WriteByte('[')
		if g.negated {
			sb.WriteByte('^')
		}
		sb.WriteString(g.ranges())
		sb.WriteByte(']')
	}
	sb.WriteString(g.quant.String())
	return sb.String()
}

// Describe writes one line per group in plain words, for example
//
//	one in "abc", one or more times
func (r *Regex) Describe(w io.Writer) error {
	for _, g := range r.groups {
		if _, err := fmt.Fprintln(w, g.describe()); err != nil {
			return err
		}
	}
	return nil
}

func (g CharGroup) describe() string {
	var what string
	switch {
	case g.isAny():
		what = "any character"
	case g.negated:
		what = fmt.Sprintf("one not in %q", string(g.Members()))
	default:
		what = fmt.Sprintf("one in %q", string(g.Members()))
	}

	switch g.quant {
	case QuantStar:
		return what + ", zero or more times"
	case QuantPlus:
		return what + ", one or more times"
	case QuantQuestion:
		return what + ", optionally"
	}
	return what + ", exactly once"
}

func (g CharGroup) singleMember() (byte, bool) {
	m := g.Members()
	if len(m) != 1 {
		return 0, false
	}
	return m[0], true
}

// ranges renders the stored set, collapsing runs of three or more
// consecutive characters into lo-hi.
func (g CharGroup) ranges() string {
	var sb strings.Builder
	for c := 0; c < charsetSize; {
		if !g.set[c] {
			c++
			continue
		}
		end := c
		for end+1 < charsetSize && g.set[end+1] {
			end++
		}
		switch {
		case end-c >= 2:
			sb.WriteString(escapeChar(byte(c)))
			sb.WriteByte('-')
			sb.WriteString(escapeChar(byte(end)))
		default:
			for x := c; x <= end; x++ {
				sb.WriteString(escapeChar(byte(x)))
			}
		}
		c = end + 1
	}
	return sb.String()
}

func escapeChar(c byte) string {
	switch {
	case c == '\n':
		return `\n`
	case c == '\t':
		return `\t`
	case strings.IndexByte(escapable, c) >= 0:
		return `\` + string(c)
	}
	return string(c)
}
