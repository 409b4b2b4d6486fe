package asm

import (
	"errors"
	"fmt"

	"pyas/pkg/pyobj"
)

var (
	ErrUndefinedLabel = errors.New("undefined label")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrMissingOperand = errors.New("missing operand")
	ErrOperandRange   = errors.New("operand out of range")
	ErrSizeMismatch   = errors.New("bytecode size mismatch")
)

// Error is a fatal assembly error at an instruction.
type Error struct {
	Line   int
	Column int
	Err    error
	Detail string
}

func errorAt(at pyobj.Pos, err error, format string, args ...any) *Error {
	return &Error{Line: at.Line, Column: at.Column, Err: err, Detail: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("line %d, column %d: %v: %s", e.Line, e.Column, e.Err, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// LineTableError reports a line marker whose deltas cannot be encoded in
// the line number table.
type LineTableError struct {
	Line        int
	OffsetDelta int
	LineDelta   int
}

func (e *LineTableError) Error() string {
	return fmt.Sprintf("line table overflow at line %d: offset delta %d, line delta %d (each must be within 0..255)",
		e.Line, e.OffsetDelta, e.LineDelta)
}
