package asm

import "pyas/pkg/pyobj"

// LineTable builds a co_lnotab: pairs of (offset delta, line delta) bytes
// relative to the previous entry, starting from offset 0 and the first line.
type LineTable struct {
	lastOffset int
	lastLine   int
	data       []byte
}

func NewLineTable(firstLine int) *LineTable {
	if firstLine <= 0 {
		firstLine = 1
	}
	return &LineTable{lastLine: firstLine}
}

// Add records that bytecode from offset on belongs to line. A marker that
// moves neither adds nothing.
func (t *LineTable) Add(offset, line int) error {
	dOff := offset - t.lastOffset
	dLine := line - t.lastLine
	if dOff == 0 && dLine == 0 {
		return nil
	}
	if dOff < 0 || dOff > 255 || dLine < 0 || dLine > 255 {
		return &LineTableError{Line: line, OffsetDelta: dOff, LineDelta: dLine}
	}
	t.data = append(t.data, byte(dOff), byte(dLine))
	t.lastOffset = offset
	t.lastLine = line
	return nil
}

func (t *LineTable) Bytes() []byte { return t.data }

// BuildLineTable walks instrs and returns the line table for them.
func BuildLineTable(firstLine int, instrs []pyobj.Instruction) ([]byte, error) {
	t := NewLineTable(firstLine)
	offset := 0
	for _, ins := range instrs {
		if m, ok := ins.(pyobj.LineMarker); ok {
			if err := t.Add(offset, m.Line); err != nil {
				return nil, err
			}
		}
		offset += pyobj.Size(ins)
	}
	return t.Bytes(), nil
}

// LineForOffset decodes lnotab and returns the source line of the byte at
// offset.
func LineForOffset(lnotab []byte, firstLine, offset int) int {
	line := firstLine
	addr := 0
	for i := 0; i+1 < len(lnotab); i += 2 {
		addr += int(lnotab[i])
		if addr > offset {
			break
		}
		line += int(lnotab[i+1])
	}
	return line
}
