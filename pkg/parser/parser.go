// Package parser builds a code object from the token stream of a .pyasm
// source.
//
// Grammar, with blank and comment tokens allowed between items on a line:
//
//	code      = { ".set" key value NEWLINE } { table } ".text" NEWLINE text
//	table     = (".interned" | ".varnames" | ".freevars" | ".cellvars" | ".names") NEWLINE { STRING }
//	          | ".consts" NEWLINE { const }
//	const     = NUMBER | STRING | None | True | False
//	          | "[" { const } "]" | "(" { const } ")"
//	          | ".code_start" [ NUMBER ] NEWLINE code ".code_end"
//	text      = { ".line" NUMBER | LABEL ":" | INSN0 | INSN1 operand }
//	operand   = IDENTIFIER | NUMBER
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"pyas/pkg/lexer"
	"pyas/pkg/pyobj"
)

// Error is a grammar violation at a token. Snippet holds the offending source
// line; it is not part of the message.
type Error struct {
	Token   lexer.Token
	AtEOF   bool
	Msg     string
	Snippet string
}

func (e *Error) Error() string {
	if e.AtEOF {
		return fmt.Sprintf("end of input: %s", e.Msg)
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Token.Line, e.Token.Column, e.Msg)
}

// Parser consumes the tokens of one source file.
type Parser struct {
	tokens      []lexer.Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []lexer.Token, src string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(src, "\n")}
}

// Parse builds the top-level code object. src is only used for error
// snippets.
func Parse(tokens []lexer.Token, src string) (*pyobj.Code, error) {
	return NewParser(tokens, src).Parse()
}

func (p *Parser) Parse() (*pyobj.Code, error) {
	code, err := p.parseCode(false)
	if err != nil {
		return nil, err
	}
	p.skipLayout()
	if !p.atEOF() {
		return nil, p.errorf(p.peek(), "unexpected %s after .text section", describe(p.peek()))
	}
	return code, nil
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if tok == (lexer.Token{}) {
		return &Error{AtEOF: true, Msg: msg}
	}
	snippet := "<source unavailable>"
	if idx := tok.Line - 1; idx >= 0 && idx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[idx])
	}
	return &Error{Token: tok, Msg: msg, Snippet: snippet}
}

func (p *Parser) atEOF() bool { return p.pos >= len(p.tokens) }

// peek returns the current token, or the zero token at end of input.
func (p *Parser) peek() lexer.Token {
	if p.atEOF() {
		return lexer.Token{}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if !p.atEOF() {
		p.pos++
	}
	return tok
}

// skipBlank skips spaces and comments on the current line.
func (p *Parser) skipBlank() {
	for !p.atEOF() {
		t := p.peek()
		if !t.Is(lexer.TypeBlank) && !t.Is(lexer.TypeComment) {
			return
		}
		p.pos++
	}
}

// skipLayout skips spaces, comments and newlines.
func (p *Parser) skipLayout() {
	for !p.atEOF() {
		t := p.peek()
		if !t.Is(lexer.TypeBlank) && !t.Is(lexer.TypeComment) && !t.Is(lexer.TypeNewline) {
			return
		}
		p.pos++
	}
}

// endLine requires the rest of the line to be empty.
func (p *Parser) endLine(after string) error {
	p.skipBlank()
	if p.atEOF() {
		return nil
	}
	tok := p.peek()
	if !tok.Is(lexer.TypeNewline) {
		return p.errorf(tok, "expected newline after %s, found %s", after, describe(tok))
	}
	p.pos++
	return nil
}

// expect skips blanks and consumes a token whose type matches pattern.
func (p *Parser) expect(pattern, what string) (lexer.Token, error) {
	p.skipBlank()
	tok := p.peek()
	if p.atEOF() || !tok.Matches(pattern) {
		return tok, p.errorf(tok, "expected %s, found %s", what, describe(tok))
	}
	p.pos++
	return tok, nil
}

func describe(tok lexer.Token) string {
	if tok == (lexer.Token{}) {
		return "end of input"
	}
	if tok.Is(lexer.TypeNewline) {
		return "newline"
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Value)
}

// parseCode parses one code object. Nested objects end at .code_end, the
// top-level one at end of input.
func (p *Parser) parseCode(nested bool) (*pyobj.Code, error) {
	code := &pyobj.Code{}
	p.skipLayout()

	if err := p.parseSettings(code); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for {
		p.skipLayout()
		tok := p.peek()
		if p.atEOF() {
			return nil, p.errorf(tok, "missing .text section")
		}
		if tok.Is(lexer.TypeText) {
			p.pos++
			if err := p.endLine(".text"); err != nil {
				return nil, err
			}
			break
		}
		if seen[tok.Type] {
			return nil, p.errorf(tok, "duplicate %s section", tok.Value)
		}
		seen[tok.Type] = true
		if err := p.parseTable(code, tok); err != nil {
			return nil, err
		}
	}

	instrs, err := p.parseText(nested)
	if err != nil {
		return nil, err
	}
	code.Instructions = instrs
	code.LocalCount = int32(len(code.Varnames))
	return code, nil
}

// parseTable parses the section introduced by tok.
func (p *Parser) parseTable(code *pyobj.Code, tok lexer.Token) error {
	var dst *[]string
	switch tok.Type {
	case lexer.TypeInterned:
		dst = &code.Interned
	case lexer.TypeVarnames:
		dst = &code.Varnames
	case lexer.TypeFreevars:
		dst = &code.Freevars
	case lexer.TypeCellvars:
		dst = &code.Cellvars
	case lexer.TypeNames:
		dst = &code.Names
	case lexer.TypeConsts:
	default:
		return p.errorf(tok, "expected a section directive, found %s", describe(tok))
	}
	p.pos++
	if err := p.endLine(tok.Value); err != nil {
		return err
	}

	if dst == nil {
		consts, err := p.parseConsts()
		if err != nil {
			return err
		}
		code.Consts = consts
		return nil
	}

	table := []string{}
	for {
		p.skipLayout()
		t := p.peek()
		if p.atEOF() || t.Matches("directive::*") {
			*dst = table
			return nil
		}
		if !t.Matches("string::*") {
			return p.errorf(t, "expected string in %s, found %s", tok.Value, describe(t))
		}
		s, err := p.unquote(t)
		if err != nil {
			return err
		}
		table = append(table, s)
		p.pos++
	}
}

func (p *Parser) unquote(tok lexer.Token) (string, error) {
	s, err := strconv.Unquote(tok.Value)
	if err != nil {
		return "", p.errorf(tok, "malformed string %s", tok.Value)
	}
	return s, nil
}
