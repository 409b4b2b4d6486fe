// Package lexer splits source text into tokens using an ordered rule table.
package lexer

import "fmt"

// Lexer applies its rules in order at each position; the first rule that
// matches at least one character wins.
type Lexer struct {
	rules []Rule
	pf    *prefilter
}

// Error reports a position where no rule matched.
type Error struct {
	Line   int
	Column int
	Char   byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: no rule matches %q", e.Line, e.Column, e.Char)
}

func New(rules []Rule) *Lexer {
	return &Lexer{rules: rules, pf: newPrefilter(rules)}
}

// Lex tokenizes src with rules.
func Lex(rules []Rule, src string) ([]Token, error) {
	return New(rules).Lex(src)
}

func (l *Lexer) Lex(src string) ([]Token, error) {
	var tokens []Token
	scan := l.pf.scan(src)
	line, col := 1, 0

	for pos := 0; pos < len(src); {
		rule, end := l.firstMatch(src, pos, scan)
		if rule < 0 {
			return nil, &Error{Line: line, Column: col, Char: src[pos]}
		}

		tokens = append(tokens, Token{
			Type:   l.rules[rule].Type,
			Value:  src[pos:end],
			Line:   line,
			Column: col,
		})

		for ; pos < end; pos++ {
			if src[pos] == '\n' {
				line++
				col = 0
			} else {
				col++
			}
		}
	}
	return tokens, nil
}

// firstMatch returns the index of the first rule matching a non-empty
// prefix at pos and the end of that match, or -1.
func (l *Lexer) firstMatch(src string, pos int, scan *literalScan) (int, int) {
	for i, r := range l.rules {
		if l.pf.isLiteral(i) && !scan.startsAt(pos) {
			continue
		}
		if ok, end := r.Pattern.MatchAt(src, pos); ok && end > pos {
			return i, end
		}
	}
	return -1, pos
}
