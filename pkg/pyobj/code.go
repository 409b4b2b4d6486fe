package pyobj

// Code is a Python 2.7 code object. The parser fills in everything except
// Bytecode and Lnotab, which the assembler derives from Instructions.
type Code struct {
	ArgCount    int32
	LocalCount  int32
	StackSize   int32
	Flags       uint32
	VersionPyVM int

	Interned []string
	Varnames []string
	Freevars []string
	Cellvars []string
	Names    []string
	Consts   []Object

	Bytecode []byte

	Filename    string
	Name        string
	FirstLineNo int32
	Lnotab      []byte

	Instructions []Instruction
}

// Children returns the code objects nested in c's constants, including those
// inside lists and tuples, in constant order.
func (c *Code) Children() []*Code {
	var out []*Code
	var walk func(objs []Object)
	walk = func(objs []Object) {
		for _, o := range objs {
			switch v := o.(type) {
			case *Code:
				out = append(out, v)
			case List:
				walk(v)
			case Tuple:
				walk(v)
			}
		}
	}
	walk(c.Consts)
	return out
}
