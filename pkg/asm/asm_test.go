package asm

import (
	"bytes"
	"errors"
	"log"
	"reflect"
	"strings"
	"testing"

	"pyas/pkg/pyobj"
)

var opcodeByName = func() map[string]byte {
	m := make(map[string]byte, len(Opcodes))
	for code, name := range Opcodes {
		m[name] = code
	}
	return m
}()

// op builds a no-operand instruction.
func op(name string) pyobj.Op {
	code, ok := opcodeByName[name]
	if !ok {
		panic("unknown opcode " + name)
	}
	return pyobj.Op{Name: name, Opcode: code}
}

// opArg builds an instruction with a literal operand.
func opArg(name string, v int64) pyobj.Op {
	o := op(name)
	o.HasArg = true
	o.Arg = &pyobj.Operand{Value: v}
	return o
}

// opLabel builds an instruction whose operand refers to a label.
func opLabel(name, label string) pyobj.Op {
	o := op(name)
	o.HasArg = true
	o.Arg = &pyobj.Operand{Label: label}
	return o
}

func label(name string) pyobj.LabelDef { return pyobj.LabelDef{Name: name} }

func line(n int) pyobj.LineMarker { return pyobj.LineMarker{Line: n} }

func assemble(t *testing.T, instrs ...pyobj.Instruction) *pyobj.Code {
	t.Helper()
	code := &pyobj.Code{Name: "<test>", Instructions: instrs}
	if err := Assemble(code); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return code
}

func TestAssembleSimple(t *testing.T) {
	code := assemble(t, opArg("LOAD_CONST", 0), op("RETURN_VALUE"))
	want := []byte{0x64, 0x00, 0x00, 0x53}
	if !bytes.Equal(code.Bytecode, want) {
		t.Errorf("Bytecode = % x; want % x", code.Bytecode, want)
	}
	if code.FirstLineNo != 1 {
		t.Errorf("FirstLineNo = %d; want 1", code.FirstLineNo)
	}
}

func TestOperandLittleEndian(t *testing.T) {
	code := assemble(t, opArg("LOAD_CONST", 0x1234), opArg("EXTENDED_ARG", 0xFFFF))
	want := []byte{0x64, 0x34, 0x12, 0x91, 0xff, 0xff}
	if !bytes.Equal(code.Bytecode, want) {
		t.Errorf("Bytecode = % x; want % x", code.Bytecode, want)
	}
}

func TestTwoPassSize(t *testing.T) {
	tests := []struct {
		noArg, withArg int
	}{
		{0, 0},
		{1, 0},
		{0, 1},
		{5, 7},
		{100, 33},
	}
	for _, tc := range tests {
		var instrs []pyobj.Instruction
		for i := 0; i < tc.noArg; i++ {
			instrs = append(instrs, op("NOP"))
		}
		for i := 0; i < tc.withArg; i++ {
			instrs = append(instrs, opArg("LOAD_FAST", int64(i)))
		}

		a := NewAssembler()
		a.labels = make(map[string]int)
		size, err := a.pass1(instrs)
		if err != nil {
			t.Fatal(err)
		}
		want := tc.noArg + 3*tc.withArg
		if size != want {
			t.Errorf("pass1 size(%d, %d) = %d; want %d", tc.noArg, tc.withArg, size, want)
		}
		bc, err := a.pass2(instrs, size)
		if err != nil {
			t.Fatal(err)
		}
		if len(bc) != size {
			t.Errorf("pass2 wrote %d bytes; pass1 computed %d", len(bc), size)
		}
	}
}

func TestLabelsAndMarkersTakeNoSpace(t *testing.T) {
	code := assemble(t, label("a"), line(1), label("b"), op("NOP"), line(2), label("c"))
	if len(code.Bytecode) != 1 {
		t.Errorf("Bytecode = % x; want 1 byte", code.Bytecode)
	}
}

func TestRelativeJump(t *testing.T) {
	// JUMP_FORWARD occupies 0..2; its operand ends at 3. Ten NOPs later the
	// target sits 10 bytes past the operand.
	instrs := []pyobj.Instruction{opLabel("JUMP_FORWARD", "target")}
	for i := 0; i < 10; i++ {
		instrs = append(instrs, op("NOP"))
	}
	instrs = append(instrs, label("target"), op("RETURN_VALUE"))

	code := assemble(t, instrs...)
	if code.Bytecode[1] != 10 || code.Bytecode[2] != 0 {
		t.Errorf("JUMP_FORWARD operand = % x; want 0a 00", code.Bytecode[1:3])
	}
}

func TestRelativeJumpOpcodes(t *testing.T) {
	for _, name := range []string{"FOR_ITER", "JUMP_FORWARD", "SETUP_LOOP", "SETUP_EXCEPT", "SETUP_FINALLY", "SETUP_WITH"} {
		code := assemble(t, opLabel(name, "end"), op("NOP"), op("NOP"), label("end"), op("RETURN_VALUE"))
		if code.Bytecode[1] != 2 {
			t.Errorf("%s operand = %d; want 2 (relative)", name, code.Bytecode[1])
		}
	}
}

func TestAbsoluteJump(t *testing.T) {
	code := assemble(t,
		op("NOP"),
		label("loop"),
		opArg("LOAD_NAME", 0),
		opLabel("POP_JUMP_IF_FALSE", "done"),
		opLabel("JUMP_ABSOLUTE", "loop"),
		label("done"),
		op("RETURN_VALUE"),
	)
	want := []byte{
		0x09,
		0x65, 0x00, 0x00,
		0x72, 0x0a, 0x00,
		0x71, 0x01, 0x00,
		0x53,
	}
	if !bytes.Equal(code.Bytecode, want) {
		t.Errorf("Bytecode = % x; want % x", code.Bytecode, want)
	}
}

func TestLoopWithSetupLoop(t *testing.T) {
	code := assemble(t,
		opLabel("SETUP_LOOP", "after"), // 0
		opArg("LOAD_NAME", 0),          // 3
		op("GET_ITER"),                 // 6
		label("top"),
		opLabel("FOR_ITER", "exit"), // 7
		opArg("STORE_NAME", 1),      // 10
		opLabel("JUMP_ABSOLUTE", "top"),
		label("exit"),
		op("POP_BLOCK"), // 16
		label("after"),
		opArg("LOAD_CONST", 0), // 17
		op("RETURN_VALUE"),
	)
	if got := code.Bytecode[1]; got != 14 {
		t.Errorf("SETUP_LOOP operand = %d; want 14", got)
	}
	if got := code.Bytecode[8]; got != 6 {
		t.Errorf("FOR_ITER operand = %d; want 6", got)
	}
	if got := code.Bytecode[14]; got != 7 {
		t.Errorf("JUMP_ABSOLUTE operand = %d; want 7", got)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name   string
		instrs []pyobj.Instruction
		want   error
	}{
		{"undefined label", []pyobj.Instruction{opLabel("JUMP_ABSOLUTE", "nowhere")}, ErrUndefinedLabel},
		{"missing operand", []pyobj.Instruction{pyobj.Op{Name: "LOAD_CONST", Opcode: 0x64, HasArg: true}}, ErrMissingOperand},
		{"duplicate label", []pyobj.Instruction{label("a"), op("NOP"), label("a")}, ErrDuplicateLabel},
		{"operand too large", []pyobj.Instruction{opArg("LOAD_CONST", 0x10000)}, ErrOperandRange},
		{"negative operand", []pyobj.Instruction{opArg("LOAD_CONST", -1)}, ErrOperandRange},
		{"backward relative jump", []pyobj.Instruction{label("top"), opLabel("JUMP_FORWARD", "top")}, ErrOperandRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code := &pyobj.Code{Instructions: tc.instrs}
			err := Assemble(code)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Assemble error = %v; want %v", err, tc.want)
			}
			var ae *Error
			if !errors.As(err, &ae) {
				t.Errorf("error %T is not *asm.Error", err)
			}
			if code.Bytecode != nil {
				t.Errorf("Bytecode set after failure: % x", code.Bytecode)
			}
		})
	}
}

func TestErrorPosition(t *testing.T) {
	jump := opLabel("JUMP_ABSOLUTE", "missing")
	jump.At = pyobj.Pos{Line: 7, Column: 2}
	err := Assemble(&pyobj.Code{Instructions: []pyobj.Instruction{jump}})
	if err == nil || !strings.HasPrefix(err.Error(), "line 7, column 2: undefined label") {
		t.Errorf("error = %v", err)
	}
}

func TestLabelsArePerCodeObject(t *testing.T) {
	inner := &pyobj.Code{Name: "inner", Instructions: []pyobj.Instruction{
		label("end"), op("RETURN_VALUE"),
	}}
	outer := &pyobj.Code{Name: "outer", Consts: []pyobj.Object{inner}, Instructions: []pyobj.Instruction{
		opArg("LOAD_CONST", 0), op("NOP"), label("end"), opLabel("JUMP_ABSOLUTE", "end"),
	}}
	if err := Assemble(outer); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(inner.Bytecode, []byte{0x53}) {
		t.Errorf("inner Bytecode = % x", inner.Bytecode)
	}
	if outer.Bytecode[5] != 4 {
		t.Errorf("outer label resolved to %d; want 4", outer.Bytecode[5])
	}
}

func TestNestedErrorNamesCodeObject(t *testing.T) {
	inner := &pyobj.Code{Name: "broken", Instructions: []pyobj.Instruction{opLabel("JUMP_ABSOLUTE", "x")}}
	outer := &pyobj.Code{Name: "outer", Consts: []pyobj.Object{pyobj.Tuple{inner}}}
	err := Assemble(outer)
	if !errors.Is(err, ErrUndefinedLabel) || !strings.Contains(err.Error(), `"broken"`) {
		t.Errorf("error = %v", err)
	}
}

func TestLineTableOverflowPolicy(t *testing.T) {
	instrs := []pyobj.Instruction{line(1), op("NOP"), line(1000), op("RETURN_VALUE")}

	var logBuf bytes.Buffer
	a := NewAssembler()
	a.Logger = log.New(&logBuf, "", 0)
	code := &pyobj.Code{Name: "big", Instructions: instrs}
	if err := a.Assemble(code); err != nil {
		t.Fatalf("default policy returned error: %v", err)
	}
	if len(code.Lnotab) != 0 {
		t.Errorf("Lnotab = % x; want empty", code.Lnotab)
	}
	if len(code.Bytecode) != 2 {
		t.Errorf("Bytecode = % x", code.Bytecode)
	}
	if !strings.Contains(logBuf.String(), "line table overflow") {
		t.Errorf("log = %q; want an overflow warning", logBuf.String())
	}

	strict := NewAssembler()
	strict.StrictLineTable = true
	err := strict.Assemble(&pyobj.Code{Instructions: instrs})
	var lte *LineTableError
	if !errors.As(err, &lte) {
		t.Fatalf("strict error = %v; want *LineTableError", err)
	}
	if lte.LineDelta != 999 {
		t.Errorf("LineDelta = %d; want 999", lte.LineDelta)
	}
}

func TestLnotabFromMarkers(t *testing.T) {
	code := &pyobj.Code{FirstLineNo: 1, Instructions: []pyobj.Instruction{
		line(2), opArg("LOAD_CONST", 0), opArg("STORE_NAME", 0),
		line(3), line(3), op("NOP"),
		opArg("LOAD_CONST", 1), op("RETURN_VALUE"),
	}}
	if err := Assemble(code); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 1, 6, 1}
	if !reflect.DeepEqual(code.Lnotab, want) {
		t.Errorf("Lnotab = %v; want %v", code.Lnotab, want)
	}
}

func TestOpcodeTable(t *testing.T) {
	if len(Opcodes) != 119 {
		t.Errorf("len(Opcodes) = %d; want 119", len(Opcodes))
	}
	if len(opcodeByName) != len(Opcodes) {
		t.Errorf("opcode names are not unique: %d names for %d opcodes", len(opcodeByName), len(Opcodes))
	}
	if OpName(0xff) != "<255>" {
		t.Errorf("OpName(0xff) = %q", OpName(0xff))
	}
	if !IsRelativeJump(OpSetupWith) || IsRelativeJump(OpJumpAbsolute) {
		t.Errorf("IsRelativeJump misclassifies jumps")
	}
}
