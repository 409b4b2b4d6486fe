package asm

import (
	"fmt"
	"testing"

	"pyas/pkg/pyobj"
)

// loopProgram builds n counting loops, each with its own labels and line
// markers, roughly the shape a compiler emits for a module of for-loops.
func loopProgram(n int) *pyobj.Code {
	var instrs []pyobj.Instruction
	for i := 0; i < n; i++ {
		top := fmt.Sprintf("top_%d", i)
		exit := fmt.Sprintf("exit_%d", i)
		after := fmt.Sprintf("after_%d", i)
		instrs = append(instrs,
			line(i*3+1),
			opLabel("SETUP_LOOP", after),
			opArg("LOAD_NAME", 0),
			op("GET_ITER"),
			label(top),
			opLabel("FOR_ITER", exit),
			line(i*3+2),
			opArg("STORE_NAME", 1),
			opArg("LOAD_NAME", 1),
			op("PRINT_ITEM"),
			op("PRINT_NEWLINE"),
			opLabel("JUMP_ABSOLUTE", top),
			label(exit),
			op("POP_BLOCK"),
			label(after),
		)
	}
	instrs = append(instrs, opArg("LOAD_CONST", 0), op("RETURN_VALUE"))
	return &pyobj.Code{Name: "<bench>", Instructions: instrs}
}

func benchmarkAssemble(b *testing.B, loops int) {
	proto := loopProgram(loops)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		code := *proto
		if err := Assemble(&code); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssemble_Small(b *testing.B)  { benchmarkAssemble(b, 2) }
func BenchmarkAssemble_Medium(b *testing.B) { benchmarkAssemble(b, 20) }
func BenchmarkAssemble_Large(b *testing.B)  { benchmarkAssemble(b, 200) }
