package parser

import (
	"strconv"

	"pyas/pkg/lexer"
	"pyas/pkg/pyobj"
)

// parseConsts reads constants up to the next section directive.
func (p *Parser) parseConsts() ([]pyobj.Object, error) {
	consts := []pyobj.Object{}
	for {
		p.skipLayout()
		tok := p.peek()
		if p.atEOF() || (tok.Matches("directive::*") && !tok.Is(lexer.TypeCodeStart)) {
			return consts, nil
		}
		obj, err := p.parseConst()
		if err != nil {
			return nil, err
		}
		consts = append(consts, obj)
	}
}

func (p *Parser) parseConst() (pyobj.Object, error) {
	tok := p.peek()
	switch {
	case tok.Is(lexer.TypeInt), tok.Is(lexer.TypeUint):
		p.pos++
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "integer %s out of range", tok.Value)
		}
		return pyobj.NewInt(v), nil

	case tok.Is(lexer.TypeHex), tok.Is(lexer.TypeOct), tok.Is(lexer.TypeBin):
		p.pos++
		v, err := strconv.ParseInt(tok.Value, 0, 64)
		if err != nil {
			return nil, p.errorf(tok, "integer %s out of range", tok.Value)
		}
		return pyobj.NewInt(v), nil

	case tok.Is(lexer.TypeFloat), tok.Is(lexer.TypeFloatExp):
		p.pos++
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorf(tok, "bad float %s", tok.Value)
		}
		return pyobj.Float(v), nil

	case tok.Matches("string::*"):
		p.pos++
		s, err := p.unquote(tok)
		if err != nil {
			return nil, err
		}
		return pyobj.String(s), nil

	case tok.Is(lexer.TypeNone):
		p.pos++
		return pyobj.None{}, nil
	case tok.Is(lexer.TypeTrue):
		p.pos++
		return pyobj.Bool(true), nil
	case tok.Is(lexer.TypeFalse):
		p.pos++
		return pyobj.Bool(false), nil

	case tok.Is(lexer.TypeBracketLeft):
		items, err := p.parseSequence(lexer.TypeBracketRight, "]")
		if err != nil {
			return nil, err
		}
		return pyobj.List(items), nil

	case tok.Is(lexer.TypeParenLeft):
		items, err := p.parseSequence(lexer.TypeParenRight, ")")
		if err != nil {
			return nil, err
		}
		return pyobj.Tuple(items), nil

	case tok.Is(lexer.TypeCodeStart):
		return p.parseNestedCode()
	}
	return nil, p.errorf(tok, "expected a constant, found %s", describe(tok))
}

// parseSequence reads constants between an opening token and closeType.
func (p *Parser) parseSequence(closeType, closeText string) ([]pyobj.Object, error) {
	open := p.advance()
	items := []pyobj.Object{}
	for {
		p.skipLayout()
		tok := p.peek()
		if p.atEOF() {
			return nil, p.errorf(open, "unclosed %q, expected %q", open.Value, closeText)
		}
		if tok.Is(closeType) {
			p.pos++
			return items, nil
		}
		obj, err := p.parseConst()
		if err != nil {
			return nil, err
		}
		items = append(items, obj)
	}
}

// parseNestedCode reads a .code_start ... .code_end block. The optional
// number after .code_start is the nested object's first line.
func (p *Parser) parseNestedCode() (pyobj.Object, error) {
	start := p.advance()
	p.skipBlank()

	var firstLine int32
	if tok := p.peek(); tok.Matches("number::*") {
		v, err := strconv.ParseInt(tok.Value, 0, 32)
		if err != nil || v < 0 {
			return nil, p.errorf(tok, "bad first line number %s", tok.Value)
		}
		firstLine = int32(v)
		p.pos++
	}
	if err := p.endLine(start.Value); err != nil {
		return nil, err
	}

	code, err := p.parseCode(true)
	if err != nil {
		return nil, err
	}
	if firstLine != 0 {
		code.FirstLineNo = firstLine
	}

	if _, err := p.expect(lexer.TypeCodeEnd, ".code_end"); err != nil {
		return nil, err
	}
	return code, nil
}
