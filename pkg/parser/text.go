package parser

import (
	"strconv"
	"strings"

	"pyas/pkg/lexer"
	"pyas/pkg/pyobj"
)

// parseText reads the instruction stream. Every label an operand refers to
// must be defined somewhere in the same stream.
func (p *Parser) parseText(nested bool) ([]pyobj.Instruction, error) {
	var instrs []pyobj.Instruction
	defined := map[string]bool{}
	var refs []lexer.Token

	for {
		p.skipLayout()
		if p.atEOF() {
			break
		}
		tok := p.peek()
		at := pyobj.Pos{Line: tok.Line, Column: tok.Column}

		switch {
		case nested && tok.Is(lexer.TypeCodeEnd):
			return instrs, p.checkRefs(refs, defined)

		case tok.Is(lexer.TypeLine):
			p.pos++
			num, err := p.expect("number::*", "line number")
			if err != nil {
				return nil, err
			}
			line, err := strconv.ParseInt(num.Value, 0, 32)
			if err != nil || line < 0 {
				return nil, p.errorf(num, "bad line number %s", num.Value)
			}
			instrs = append(instrs, pyobj.LineMarker{Line: int(line), At: at})

		case tok.Is(lexer.TypeLabel):
			p.pos++
			name := strings.TrimSuffix(tok.Value, ":")
			if defined[name] {
				return nil, p.errorf(tok, "duplicate label %q", name)
			}
			defined[name] = true
			instrs = append(instrs, pyobj.LabelDef{Name: name, At: at})

		case tok.Matches("insn::*"):
			p.pos++
			hasArg, opcode, err := pyobj.ParseInsnType(tok.Type)
			if err != nil {
				return nil, p.errorf(tok, "%v", err)
			}
			op := pyobj.Op{Name: tok.Value, Opcode: opcode, HasArg: hasArg, At: at}
			if hasArg {
				arg, ref, err := p.parseOperand(tok)
				if err != nil {
					return nil, err
				}
				if arg.IsLabel() {
					refs = append(refs, ref)
				}
				op.Arg = arg
			}
			instrs = append(instrs, op)

		default:
			return nil, p.errorf(tok, "unexpected %s in .text section", describe(tok))
		}
	}

	if nested {
		return nil, p.errorf(lexer.Token{}, "missing .code_end")
	}
	return instrs, p.checkRefs(refs, defined)
}

// parseOperand reads the operand of insn. A symbol is a label reference.
func (p *Parser) parseOperand(insn lexer.Token) (*pyobj.Operand, lexer.Token, error) {
	p.skipBlank()
	tok := p.peek()
	switch {
	case tok.Is(lexer.TypeSymbol):
		p.pos++
		return &pyobj.Operand{Label: tok.Value}, tok, nil

	case tok.Is(lexer.TypeInt), tok.Is(lexer.TypeUint):
		p.pos++
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, tok, p.errorf(tok, "operand %s out of range", tok.Value)
		}
		return &pyobj.Operand{Value: v}, tok, nil

	case tok.Is(lexer.TypeHex), tok.Is(lexer.TypeOct), tok.Is(lexer.TypeBin):
		p.pos++
		v, err := strconv.ParseInt(tok.Value, 0, 64)
		if err != nil {
			return nil, tok, p.errorf(tok, "operand %s out of range", tok.Value)
		}
		return &pyobj.Operand{Value: v}, tok, nil
	}
	if p.atEOF() || tok.Is(lexer.TypeNewline) {
		return nil, tok, p.errorf(insn, "%s expects an operand", insn.Value)
	}
	return nil, tok, p.errorf(tok, "expected operand for %s, found %s", insn.Value, describe(tok))
}

func (p *Parser) checkRefs(refs []lexer.Token, defined map[string]bool) error {
	for _, ref := range refs {
		if !defined[ref.Value] {
			return p.errorf(ref, "undefined label %q", ref.Value)
		}
	}
	return nil
}
