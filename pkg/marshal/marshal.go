// Package marshal writes objects in the CPython 2.7 marshal format and
// produces .pyc files.
package marshal

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"pyas/pkg/pyobj"
)

// Magic is the Python 2.7 .pyc header.
var Magic = [4]byte{0x03, 0xF3, 0x0D, 0x0A}

// Type tags.
const (
	TagNone  = 'N'
	TagTrue  = 'T'
	TagFalse = 'F'
	TagInt   = 'i'
	TagInt64 = 'I'
	TagFloat = 'g'
	TagStr   = 's'
	TagList  = '['
	TagTuple = '('
	TagCode  = 'c'
)

// Writer encodes objects to an underlying writer. The first write error is
// kept and returned by every later call.
type Writer struct {
	w   io.Writer
	err error
	buf [8]byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (m *Writer) write(p []byte) {
	if m.err != nil {
		return
	}
	_, m.err = m.w.Write(p)
}

func (m *Writer) tag(t byte) {
	m.buf[0] = t
	m.write(m.buf[:1])
}

func (m *Writer) uint32(v uint32) {
	binary.LittleEndian.PutUint32(m.buf[:4], v)
	m.write(m.buf[:4])
}

func (m *Writer) uint64(v uint64) {
	binary.LittleEndian.PutUint64(m.buf[:8], v)
	m.write(m.buf[:8])
}

func (m *Writer) length(n int) {
	if n > math.MaxInt32 {
		if m.err == nil {
			m.err = fmt.Errorf("marshal: length %d does not fit in 32 bits", n)
		}
		return
	}
	m.uint32(uint32(n))
}

func (m *Writer) bytes(b []byte) {
	m.tag(TagStr)
	m.length(len(b))
	m.write(b)
}

func (m *Writer) sequence(t byte, items []pyobj.Object) {
	m.tag(t)
	m.length(len(items))
	for _, it := range items {
		m.object(it)
	}
}

// WriteObject encodes obj.
func (m *Writer) WriteObject(obj pyobj.Object) error {
	m.object(obj)
	return m.err
}

func (m *Writer) object(obj pyobj.Object) {
	switch v := obj.(type) {
	case pyobj.None:
		m.tag(TagNone)
	case pyobj.Bool:
		if v {
			m.tag(TagTrue)
		} else {
			m.tag(TagFalse)
		}
	case pyobj.Int:
		m.tag(TagInt)
		m.uint32(uint32(v))
	case pyobj.Int64:
		m.tag(TagInt64)
		m.uint64(uint64(v))
	case pyobj.Float:
		m.tag(TagFloat)
		m.uint64(math.Float64bits(float64(v)))
	case pyobj.String:
		m.bytes([]byte(v))
	case pyobj.List:
		m.sequence(TagList, v)
	case pyobj.Tuple:
		m.sequence(TagTuple, v)
	case *pyobj.Code:
		m.code(v)
	default:
		if m.err == nil {
			m.err = fmt.Errorf("marshal: unsupported object %T", obj)
		}
	}
}

// code writes a code object. Every table is written as a tuple.
func (m *Writer) code(c *pyobj.Code) {
	m.tag(TagCode)
	m.uint32(uint32(c.ArgCount))
	m.uint32(uint32(c.LocalCount))
	m.uint32(uint32(c.StackSize))
	m.uint32(c.Flags)
	m.bytes(c.Bytecode)
	m.sequence(TagTuple, c.Consts)
	m.sequence(TagTuple, pyobj.Strings(c.Names))
	m.sequence(TagTuple, pyobj.Strings(c.Varnames))
	m.sequence(TagTuple, pyobj.Strings(c.Freevars))
	m.sequence(TagTuple, pyobj.Strings(c.Cellvars))
	m.bytes([]byte(c.Filename))
	m.bytes([]byte(c.Name))
	m.uint32(uint32(c.FirstLineNo))
	m.bytes(c.Lnotab)
}

// Marshal returns the encoding of obj.
func Marshal(obj pyobj.Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).WriteObject(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes a complete .pyc: magic, modification time and the
// top-level code object.
func WriteFile(w io.Writer, code *pyobj.Code, mtime time.Time) error {
	m := NewWriter(w)
	m.write(Magic[:])
	m.uint32(uint32(mtime.Unix()))
	return m.WriteObject(code)
}
