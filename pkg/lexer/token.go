package lexer

import (
	"fmt"
	"strings"
)

// Token types produced by the default rule file. Rule files may use any other
// type names; the parser only understands these.
const (
	TypeSet       = "directive::set"
	TypeLine      = "directive::line"
	TypeInterned  = "directive::interned"
	TypeVarnames  = "directive::varnames"
	TypeFreevars  = "directive::freevars"
	TypeCellvars  = "directive::cellvars"
	TypeConsts    = "directive::consts"
	TypeNames     = "directive::names"
	TypeText      = "directive::text"
	TypeCodeStart = "directive::code_start"
	TypeCodeEnd   = "directive::code_end"

	TypeSymbol = "identifier::symbol"
	TypeLabel  = "identifier::label"

	TypeBlank   = "structure::blank"
	TypeNewline = "structure::newline"
	TypeComment = "structure::comment"

	TypeInt      = "number::int"
	TypeUint     = "number::uint"
	TypeHex      = "number::hex"
	TypeOct      = "number::oct"
	TypeBin      = "number::bin"
	TypeFloat    = "number::float"
	TypeFloatExp = "number::floatexp"

	TypeString = "string::double"

	TypeNone  = "pycst::None"
	TypeTrue  = "pycst::True"
	TypeFalse = "pycst::False"

	TypeBracketLeft  = "bracket::left"
	TypeBracketRight = "bracket::right"
	TypeParenLeft    = "paren::left"
	TypeParenRight   = "paren::right"

	// Instruction types carry arity and opcode, e.g. insn::1:0x64.
	TypeInsn0 = "insn::0:"
	TypeInsn1 = "insn::1:"
)

// Token is one lexeme. Line is 1-based and Column is the 0-based byte offset
// within the line.
type Token struct {
	Type   string
	Value  string
	Line   int
	Column int
}

// Is reports whether the token has exactly the given type.
func (t Token) Is(typ string) bool {
	return t.Type == typ
}

// Matches reports whether the token type matches pattern. A trailing '*'
// matches any suffix, so "number::*" matches every number.
func (t Token) Matches(pattern string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(t.Type, prefix)
	}
	return t.Type == pattern
}

func (t Token) String() string {
	return fmt.Sprintf("[%d:%d:%s] %q", t.Line, t.Column, t.Type, t.Value)
}
