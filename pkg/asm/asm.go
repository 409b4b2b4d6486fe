// Package asm turns the instruction stream of a code object into Python 2.7
// bytecode and its line number table.
package asm

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"pyas/pkg/pyobj"
)

// Assembler resolves labels in two passes. Pass 1 sizes every instruction and
// records label offsets; pass 2 emits opcodes and operands.
type Assembler struct {
	// StrictLineTable turns a line table overflow into an error. Otherwise
	// the overflow is logged and the code object gets an empty table.
	StrictLineTable bool
	Logger          *log.Logger

	labels map[string]int
}

func NewAssembler() *Assembler {
	return &Assembler{Logger: log.New(io.Discard, "", 0)}
}

// Assemble assembles code with default settings.
func Assemble(code *pyobj.Code) error {
	return NewAssembler().Assemble(code)
}

// Assemble fills in Bytecode and Lnotab for code and every code object
// nested in its constants. Nested objects are assembled first.
func (a *Assembler) Assemble(code *pyobj.Code) error {
	for _, child := range code.Children() {
		if err := a.Assemble(child); err != nil {
			return fmt.Errorf("code object %q: %w", child.Name, err)
		}
	}

	a.labels = make(map[string]int)
	size, err := a.pass1(code.Instructions)
	if err != nil {
		return err
	}
	bytecode, err := a.pass2(code.Instructions, size)
	if err != nil {
		return err
	}

	if code.FirstLineNo <= 0 {
		code.FirstLineNo = 1
	}
	lnotab, err := BuildLineTable(int(code.FirstLineNo), code.Instructions)
	if err != nil {
		if a.StrictLineTable {
			return err
		}
		a.logf("warning: %s: %v; line table left empty", code.Name, err)
		lnotab = nil
	}

	code.Bytecode = bytecode
	code.Lnotab = lnotab
	a.logf("assembled %s: %d bytes, %d labels, %d line table bytes", code.Name, len(bytecode), len(a.labels), len(lnotab))
	return nil
}

func (a *Assembler) logf(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}

// pass1 returns the bytecode size and records label offsets.
func (a *Assembler) pass1(instrs []pyobj.Instruction) (int, error) {
	offset := 0
	for _, ins := range instrs {
		if lbl, ok := ins.(pyobj.LabelDef); ok {
			if _, exists := a.labels[lbl.Name]; exists {
				return 0, errorAt(lbl.At, ErrDuplicateLabel, "%q", lbl.Name)
			}
			a.labels[lbl.Name] = offset
		}
		offset += pyobj.Size(ins)
	}
	return offset, nil
}

// pass2 emits exactly size bytes.
func (a *Assembler) pass2(instrs []pyobj.Instruction, size int) ([]byte, error) {
	buf := make([]byte, 0, size)
	for _, ins := range instrs {
		op, ok := ins.(pyobj.Op)
		if !ok {
			continue
		}
		buf = append(buf, op.Opcode)
		if !op.HasArg {
			continue
		}
		arg, err := a.operand(op, len(buf))
		if err != nil {
			return nil, err
		}
		buf = binary.LittleEndian.AppendUint16(buf, arg)
	}

	if len(buf) != size {
		return nil, &Error{Err: ErrSizeMismatch, Detail: fmt.Sprintf("pass 1 computed %d bytes, pass 2 wrote %d", size, len(buf))}
	}
	return buf, nil
}

// operand resolves the argument of op, whose operand bytes start at offset.
func (a *Assembler) operand(op pyobj.Op, offset int) (uint16, error) {
	if op.Arg == nil {
		return 0, errorAt(op.At, ErrMissingOperand, "%s", op.Name)
	}

	if !op.Arg.IsLabel() {
		v := op.Arg.Value
		if v < 0 || v > 0xFFFF {
			return 0, errorAt(op.At, ErrOperandRange, "%s %d", op.Name, v)
		}
		return uint16(v), nil
	}

	target, ok := a.labels[op.Arg.Label]
	if !ok {
		return 0, errorAt(op.At, ErrUndefinedLabel, "%q", op.Arg.Label)
	}
	v := target
	if IsRelativeJump(op.Opcode) {
		v = target - (offset + 2)
		if v < 0 {
			return 0, errorAt(op.At, ErrOperandRange, "%s cannot jump backward to %q", op.Name, op.Arg.Label)
		}
	}
	if v > 0xFFFF {
		return 0, errorAt(op.At, ErrOperandRange, "%s %s is %d bytes away", op.Name, op.Arg.Label, v)
	}
	return uint16(v), nil
}
