package pyobj

import (
	"fmt"
	"strconv"
	"strings"
)

// Pos is a source location: 1-based line, 0-based column.
type Pos struct {
	Line   int
	Column int
}

// Instruction is one entry of a .text section: a LabelDef, a LineMarker or
// an Op.
type Instruction interface {
	Position() Pos
	isInstruction()
}

// LabelDef binds Name to the offset of the next emitted byte.
type LabelDef struct {
	Name string
	At   Pos
}

// LineMarker sets the source line for the bytes that follow. It emits no
// bytecode.
type LineMarker struct {
	Line int
	At   Pos
}

// Op is an opcode with an optional operand.
type Op struct {
	Name   string
	Opcode byte
	HasArg bool
	Arg    *Operand
	At     Pos
}

// Operand is either a literal value or a reference to a label.
type Operand struct {
	Value int64
	Label string
}

func (o *Operand) IsLabel() bool { return o.Label != "" }

func (o *Operand) String() string {
	if o.IsLabel() {
		return o.Label
	}
	return strconv.FormatInt(o.Value, 10)
}

func (l LabelDef) Position() Pos   { return l.At }
func (l LineMarker) Position() Pos { return l.At }
func (o Op) Position() Pos         { return o.At }

func (LabelDef) isInstruction()   {}
func (LineMarker) isInstruction() {}
func (Op) isInstruction()         {}

// Size returns the number of bytecode bytes the instruction occupies.
func Size(ins Instruction) int {
	op, ok := ins.(Op)
	if !ok {
		return 0
	}
	if op.HasArg {
		return 3
	}
	return 1
}

// ParseInsnType decodes an instruction token type such as "insn::1:0x64"
// into its arity and opcode.
func ParseInsnType(typ string) (hasArg bool, opcode byte, err error) {
	rest, ok := strings.CutPrefix(typ, "insn::")
	if !ok {
		return false, 0, fmt.Errorf("%q is not an instruction type", typ)
	}
	arity, code, ok := strings.Cut(rest, ":")
	if !ok {
		return false, 0, fmt.Errorf("instruction type %q has no opcode", typ)
	}
	switch arity {
	case "0":
	case "1":
		hasArg = true
	default:
		return false, 0, fmt.Errorf("instruction type %q has arity %q; want 0 or 1", typ, arity)
	}
	v, err := strconv.ParseUint(code, 0, 8)
	if err != nil {
		return false, 0, fmt.Errorf("instruction type %q: bad opcode: %w", typ, err)
	}
	return hasArg, byte(v), nil
}
