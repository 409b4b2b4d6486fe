// Package regex implements the small regular expression dialect used by the
// lexer rule files.
//
// A pattern is a sequence of atoms, each optionally followed by one of the
// quantifiers '*', '+' or '?':
//
//	c        a literal 7-bit character
//	.        any of the 128 characters
//	[...]    a set of characters and ascending ranges such as a-z
//	[^...]   the complement of a set; '[' and a '^' that is not first are
//	         plain members
//	^atom    the complement of a single atom; ^^ excludes '^' itself
//	\n \t    newline and tab
//	\c       c taken literally, for c in * + ? . ^ [ ] - \
//
// There is no alternation, grouping, capture or anchoring; a compiled pattern
// always matches from the position it is applied at.
package regex

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Regex is a compiled pattern: the ordered list of groups it consumes.
type Regex struct {
	pattern string
	groups  []CharGroup
}

// CompileError describes why a pattern was rejected.
type CompileError struct {
	Pattern string
	Offset  int
	Msg     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("regex %q: %s at offset %d", e.Pattern, e.Msg, e.Offset)
}

// escapable lists the characters that may follow a backslash literally.
const escapable = `*+?.^[]-\`

// Compile parses pattern into a Regex.
func Compile(pattern string) (*Regex, error) {
	c := compiler{src: pattern}
	groups, err := c.compile()
	if err != nil {
		return nil, err
	}
	return &Regex{pattern: pattern, groups: groups}, nil
}

// MustCompile is like Compile but panics on an invalid pattern.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

func (r *Regex) Pattern() string { return r.pattern }

// Groups returns a copy of the compiled groups in match order.
func (r *Regex) Groups() []CharGroup { return slices.Clone(r.groups) }

func (r *Regex) Len() int { return len(r.groups) }

// Literal returns the exact text the pattern matches when every group is a
// single plain character.
func (r *Regex) Literal() (string, bool) {
	if len(r.groups) == 0 {
		return "", false
	}
	var sb strings.Builder
	for _, g := range r.groups {
		c, ok := g.literal()
		if !ok {
			return "", false
		}
		sb.WriteByte(c)
	}
	return sb.String(), true
}

type compiler struct {
	src string
	pos int
}

func (c *compiler) errorf(offset int, format string, args ...any) error {
	return &CompileError{Pattern: c.src, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (c *compiler) eof() bool { return c.pos >= len(c.src) }

func (c *compiler) peek() byte { return c.src[c.pos] }

func isQuantifier(ch byte) bool {
	return ch == '*' || ch == '+' || ch == '?'
}

func (c *compiler) compile() ([]CharGroup, error) {
	var groups []CharGroup
	for !c.eof() {
		g, err := c.atom()
		if err != nil {
			return nil, err
		}
		if !c.eof() && isQuantifier(c.peek()) {
			switch c.peek() {
			case '*':
				g.quant = QuantStar
			case '+':
				g.quant = QuantPlus
			case '?':
				g.quant = QuantQuestion
			}
			c.pos++
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// atom parses one atom at the top level, including a leading '^'.
func (c *compiler) atom() (CharGroup, error) {
	var g CharGroup
	start := c.pos
	ch := c.peek()

	switch {
	case isQuantifier(ch):
		return g, c.errorf(start, "quantifier '%c' has nothing to quantify", ch)
	case ch == ']':
		return g, c.errorf(start, "unmatched ']'")
	case ch == '^':
		c.pos++
		if c.eof() {
			return g, c.errorf(start, "'^' at end of pattern")
		}
		next := c.peek()
		if isQuantifier(next) || next == ']' {
			return g, c.errorf(c.pos, "'^' followed by '%c'", next)
		}
		if next == '^' {
			c.pos++
			g.add('^')
			g.negated = true
			return g, nil
		}
		inner, err := c.atom()
		if err != nil {
			return g, err
		}
		// Negation is set, not flipped: ^[^a] still excludes a.
		inner.negated = true
		return inner, nil
	case ch == '.':
		c.pos++
		g.addAll()
	case ch == '[':
		return c.bracket()
	case ch == '\\':
		lit, err := c.escape()
		if err != nil {
			return g, err
		}
		g.add(lit)
	default:
		if ch >= charsetSize {
			return g, c.errorf(start, "non-ASCII byte 0x%02x", ch)
		}
		c.pos++
		g.add(ch)
	}
	return g, nil
}

// escape consumes a backslash sequence and returns the character it denotes.
func (c *compiler) escape() (byte, error) {
	start := c.pos
	c.pos++
	if c.eof() {
		return 0, c.errorf(start, "trailing '\\'")
	}
	ch := c.peek()
	c.pos++
	switch {
	case ch == 'n':
		return '\n', nil
	case ch == 't':
		return '\t', nil
	case strings.IndexByte(escapable, ch) >= 0:
		return ch, nil
	}
	return 0, c.errorf(start, "unknown escape '\\%c'", ch)
}

// bracket parses a [...] set. The opening '[' is at c.pos.
func (c *compiler) bracket() (CharGroup, error) {
	var g CharGroup
	open := c.pos
	c.pos++
	if !c.eof() && c.peek() == '^' {
		g.negated = true
		c.pos++
	}
	if !c.eof() && c.peek() == ']' {
		return g, c.errorf(open, "empty '[]'")
	}

	for {
		if c.eof() {
			return g, c.errorf(open, "unclosed '['")
		}
		if c.peek() == ']' {
			c.pos++
			return g, nil
		}

		lo, err := c.setChar()
		if err != nil {
			return g, err
		}
		if c.eof() || c.peek() != '-' {
			g.add(lo)
			continue
		}

		dash := c.pos
		c.pos++
		if c.eof() {
			return g, c.errorf(open, "unclosed '['")
		}
		if c.peek() == ']' {
			return g, c.errorf(dash, "bare '-' in '[]'")
		}
		hi, err := c.setChar()
		if err != nil {
			return g, err
		}
		if lo >= hi {
			return g, c.errorf(dash, "invalid range '%c-%c'", lo, hi)
		}
		g.addRange(lo, hi)
	}
}

// setChar reads one character inside brackets.
func (c *compiler) setChar() (byte, error) {
	ch := c.peek()
	switch {
	case ch == '\\':
		return c.escape()
	case ch == '*' || ch == '+' || ch == '?' || ch == '.':
		return 0, c.errorf(c.pos, "'%c' not allowed in '[]'", ch)
	case ch == '-':
		return 0, c.errorf(c.pos, "bare '-' in '[]'")
	case ch >= charsetSize:
		return 0, c.errorf(c.pos, "non-ASCII byte 0x%02x", ch)
	}
	c.pos++
	return ch, nil
}
