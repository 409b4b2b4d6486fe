package asm

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/exp/slices"

	"pyas/pkg/pyobj"
)

// Disassembler prints assembled code objects in the layout of Python's dis
// module: source line, offset, mnemonic, operand and a hint.
type Disassembler struct {
	w       io.Writer
	printed bool
}

func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// Disassemble writes code and every nested code object to w.
func Disassemble(w io.Writer, code *pyobj.Code) error {
	return NewDisassembler(w).Disassemble(code)
}

func (d *Disassembler) Disassemble(code *pyobj.Code) error {
	if code == nil {
		return fmt.Errorf("nil code object")
	}
	if d.printed {
		fmt.Fprintln(d.w)
	}
	d.printed = true

	fmt.Fprintf(d.w, "code %s (args=%d, locals=%d, stack=%d, flags=0x%04x) file=%s line=%d\n",
		code.Name, code.ArgCount, code.LocalCount, code.StackSize, code.Flags, code.Filename, code.FirstLineNo)
	if err := d.disassembleBytecode(code); err != nil {
		return fmt.Errorf("%s: %w", code.Name, err)
	}
	for _, child := range code.Children() {
		if err := d.Disassemble(child); err != nil {
			return err
		}
	}
	return nil
}

func (d *Disassembler) disassembleBytecode(code *pyobj.Code) error {
	bc := code.Bytecode
	lastLine := -1
	for ip := 0; ip < len(bc); {
		offset := ip
		op := bc[ip]
		ip++

		lineStr := ""
		if line := LineForOffset(code.Lnotab, int(code.FirstLineNo), offset); line != lastLine {
			lineStr = strconv.Itoa(line)
			lastLine = line
		}

		detail := ""
		if op >= HaveArgument {
			if ip+2 > len(bc) {
				return fmt.Errorf("truncated operand at offset %d", offset)
			}
			arg := int(binary.LittleEndian.Uint16(bc[ip:]))
			ip += 2
			detail = strconv.Itoa(arg)
			if hint := operandHint(code, op, arg, ip); hint != "" {
				detail += " (" + hint + ")"
			}
		}

		fmt.Fprintf(d.w, "%4s %6d %-20s", lineStr, offset, OpName(op))
		if detail != "" {
			fmt.Fprintf(d.w, " %s", detail)
		}
		fmt.Fprintln(d.w)
	}
	return nil
}

// operandHint explains arg for op; next is the offset after the instruction.
func operandHint(code *pyobj.Code, op byte, arg, next int) string {
	switch {
	case op == OpLoadConst:
		if arg < len(code.Consts) {
			return pyobj.Repr(code.Consts[arg])
		}
	case op == OpCompareOp:
		if arg < len(compareOps) {
			return compareOps[arg]
		}
	case slices.Contains(nameOps, op):
		if arg < len(code.Names) {
			return code.Names[arg]
		}
	case slices.Contains(localOps, op):
		if arg < len(code.Varnames) {
			return code.Varnames[arg]
		}
	case slices.Contains(freeOps, op):
		if arg < len(code.Cellvars) {
			return code.Cellvars[arg]
		}
		if i := arg - len(code.Cellvars); i < len(code.Freevars) {
			return code.Freevars[i]
		}
	case IsRelativeJump(op):
		return "to " + strconv.Itoa(next+arg)
	case isAbsoluteJump(op):
		return "to " + strconv.Itoa(arg)
	}
	return ""
}
