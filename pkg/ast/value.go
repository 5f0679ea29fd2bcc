package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	IntegerKind Kind = iota
	FloatKind
	BoolKind
)

var kindNames = [...]string{
	IntegerKind: "integer",
	FloatKind:   "float",
	BoolKind:    "bool",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Epsilon is the tolerance used when comparing floats for equality.
var Epsilon = math.Nextafter(1, 2) - 1

// Value is a literal constant or runtime value: an Integer, a Float or a Bool.
// The zero Value is Integer(0).
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
}

func Integer(i int64) Value   { return Value{kind: IntegerKind, i: i} }
func Float(f float64) Value   { return Value{kind: FloatKind, f: f} }
func Bool(b bool) Value       { return Value{kind: BoolKind, b: b} }
func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsFloat() bool { return v.kind == FloatKind }

// Int returns the value as an integer. Floats truncate toward zero and bools
// map to 0 and 1.
func (v Value) Int() int64 {
	switch v.kind {
	case FloatKind:
		return int64(v.f)
	case BoolKind:
		if v.b {
			return 1
		}
		return 0
	}
	return v.i
}

// Float64 returns the value as a float, promoting integers and bools.
func (v Value) Float64() float64 {
	if v.kind == FloatKind {
		return v.f
	}
	return float64(v.Int())
}

// Truthy reports whether the value counts as true in a condition or logical
// operator: non-zero numbers and true.
func (v Value) Truthy() bool {
	switch v.kind {
	case FloatKind:
		return v.f != 0
	case BoolKind:
		return v.b
	}
	return v.i != 0
}

func (v Value) String() string {
	switch v.kind {
	case FloatKind:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.b)
	}
	return strconv.FormatInt(v.i, 10)
}

// Literal renders v the way it would be written in source, so reading it
// back yields the same variant: Float(2) is "2.0", not "2".
func (v Value) Literal() string {
	if v.kind != FloatKind || math.IsInf(v.f, 0) || math.IsNaN(v.f) {
		return v.String()
	}
	s := strconv.FormatFloat(v.f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// GoString keeps the variant visible, e.g. Float(24) rather than 24.
func (v Value) GoString() string {
	switch v.kind {
	case FloatKind:
		return fmt.Sprintf("Float(%s)", v)
	case BoolKind:
		return fmt.Sprintf("Bool(%s)", v)
	}
	return fmt.Sprintf("Integer(%s)", v)
}

// Same reports whether a and b hold the same variant and payload. Unlike
// Equal it never promotes.
func (v Value) Same(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case FloatKind:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case BoolKind:
		return v.b == o.b
	}
	return v.i == o.i
}
