package ast

import (
	"errors"
	"fmt"
	"math"
)

var ErrDivisionByZero = errors.New("division by zero")

// EvalBinary applies op to a and b.
//
// Integer and Bool operands stay integral; any Float operand promotes the
// operation to Float. Divide always yields a Float. Comparisons and logical
// operators yield Bool.
func EvalBinary(op BinaryOperator, a, b Value) (Value, error) {
	switch op {
	case Add:
		return arith(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y }), nil
	case Subtract:
		return arith(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y }), nil
	case Multiply:
		return arith(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y }), nil
	case Divide:
		if !a.IsFloat() && !b.IsFloat() && b.Int() == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Float(a.Float64() / b.Float64()), nil
	case Remainder:
		if a.IsFloat() || b.IsFloat() {
			return Float(math.Mod(a.Float64(), b.Float64())), nil
		}
		if b.Int() == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Integer(a.Int() % b.Int()), nil
	case Power:
		return power(a, b), nil
	case LessThan:
		return Bool(compare(a, b) < 0), nil
	case LessThanEqual:
		return Bool(compare(a, b) <= 0), nil
	case GreaterThan:
		return Bool(compare(a, b) > 0), nil
	case GreaterThanEqual:
		return Bool(compare(a, b) >= 0), nil
	case Equal:
		return Bool(Equals(a, b)), nil
	case NotEqual:
		return Bool(!Equals(a, b)), nil
	case LogicalAnd:
		return Bool(a.Truthy() && b.Truthy()), nil
	case LogicalOr:
		return Bool(a.Truthy() || b.Truthy()), nil
	case LogicalXor:
		return Bool(a.Truthy() != b.Truthy()), nil
	}
	return Value{}, fmt.Errorf("unknown binary operator %d", int(op))
}

// EvalUnary applies a prefix operator to v.
func EvalUnary(op UnaryOperator, v Value) (Value, error) {
	switch op {
	case Plus:
		return v, nil
	case Minus:
		if v.IsFloat() {
			return Float(-v.f), nil
		}
		return Integer(-v.Int()), nil
	case Not:
		return Bool(!v.Truthy()), nil
	}
	return Value{}, fmt.Errorf("unknown unary operator %d", int(op))
}

// Equals compares two values numerically. Floats compare within Epsilon.
func Equals(a, b Value) bool {
	if a.kind == BoolKind && b.kind == BoolKind {
		return a.b == b.b
	}
	if a.IsFloat() || b.IsFloat() {
		return math.Abs(a.Float64()-b.Float64()) <= Epsilon
	}
	return a.Int() == b.Int()
}

func arith(a, b Value, ints func(x, y int64) int64, floats func(x, y float64) float64) Value {
	if a.IsFloat() || b.IsFloat() {
		return Float(floats(a.Float64(), b.Float64()))
	}
	return Integer(ints(a.Int(), b.Int()))
}

func compare(a, b Value) int {
	if a.IsFloat() || b.IsFloat() {
		x, y := a.Float64(), b.Float64()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	x, y := a.Int(), b.Int()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func power(a, b Value) Value {
	if a.IsFloat() || b.IsFloat() || b.Int() < 0 {
		return Float(math.Pow(a.Float64(), b.Float64()))
	}
	base, exp, result := a.Int(), b.Int(), int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return Integer(result)
}
