// Package pyobj models the values stored in a compiled Python 2.7 module:
// constants, code objects and the instruction stream a code object is
// assembled from.
package pyobj

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the concrete type of an Object.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindInt64
	KindFloat
	KindString
	KindList
	KindTuple
	KindCode
)

var kindNames = [...]string{
	KindNone:   "none",
	KindBool:   "bool",
	KindInt:    "int",
	KindInt64:  "int64",
	KindFloat:  "float",
	KindString: "string",
	KindList:   "list",
	KindTuple:  "tuple",
	KindCode:   "code",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Object is a constant value. The set of implementations is closed.
type Object interface {
	Kind() Kind
	isObject()
}

type (
	None   struct{}
	Bool   bool
	Int    int32
	Int64  int64
	Float  float64
	String string
	List   []Object
	Tuple  []Object
)

func (None) Kind() Kind   { return KindNone }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Int64) Kind() Kind  { return KindInt64 }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (List) Kind() Kind   { return KindList }
func (Tuple) Kind() Kind  { return KindTuple }
func (*Code) Kind() Kind  { return KindCode }

func (None) isObject()   {}
func (Bool) isObject()   {}
func (Int) isObject()    {}
func (Int64) isObject()  {}
func (Float) isObject()  {}
func (String) isObject() {}
func (List) isObject()   {}
func (Tuple) isObject()  {}
func (*Code) isObject()  {}

// NewInt returns an Int when v fits in 32 bits and an Int64 otherwise.
func NewInt(v int64) Object {
	if v >= -1<<31 && v <= 1<<31-1 {
		return Int(v)
	}
	return Int64(v)
}

// Strings converts a string table into a tuple of String objects.
func Strings(table []string) Tuple {
	out := make(Tuple, len(table))
	for i, s := range table {
		out[i] = String(s)
	}
	return out
}

// Repr formats obj the way Python 2 would print it.
func Repr(obj Object) string {
	switch v := obj.(type) {
	case None:
		return "None"
	case Bool:
		if v {
			return "True"
		}
		return "False"
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Int64:
		return strconv.FormatInt(int64(v), 10) + "L"
	case Float:
		s := strconv.FormatFloat(float64(v), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case String:
		return strconv.Quote(string(v))
	case List:
		return "[" + reprItems(v) + "]"
	case Tuple:
		if len(v) == 1 {
			return "(" + Repr(v[0]) + ",)"
		}
		return "(" + reprItems(v) + ")"
	case *Code:
		return fmt.Sprintf("<code object %s, file %q, line %d>", v.Name, v.Filename, v.FirstLineNo)
	}
	return fmt.Sprintf("<%T>", obj)
}

func reprItems(items []Object) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = Repr(it)
	}
	return strings.Join(parts, ", ")
}
