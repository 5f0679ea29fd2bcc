package ast

import "fmt"

// BinaryOperator is an infix operator.
type BinaryOperator int

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	Remainder
	Power
	LessThan
	LessThanEqual
	GreaterThan
	GreaterThanEqual
	Equal
	NotEqual
	LogicalAnd
	LogicalOr
	LogicalXor
)

var binarySymbols = [...]string{
	Add:              "+",
	Subtract:         "-",
	Multiply:         "*",
	Divide:           "/",
	Remainder:        "%",
	Power:            "**",
	LessThan:         "<",
	LessThanEqual:    "<=",
	GreaterThan:      ">",
	GreaterThanEqual: ">=",
	Equal:            "==",
	NotEqual:         "!=",
	LogicalAnd:       "and",
	LogicalOr:        "or",
	LogicalXor:       "xor",
}

func (op BinaryOperator) String() string {
	if int(op) >= 0 && int(op) < len(binarySymbols) {
		return binarySymbols[op]
	}
	return fmt.Sprintf("BinaryOperator(%d)", int(op))
}

// UnaryOperator is a prefix operator.
type UnaryOperator int

const (
	Plus UnaryOperator = iota
	Minus
	Not
)

var unarySymbols = [...]string{
	Plus:  "+",
	Minus: "-",
	Not:   "not",
}

func (op UnaryOperator) String() string {
	if int(op) >= 0 && int(op) < len(unarySymbols) {
		return unarySymbols[op]
	}
	return fmt.Sprintf("UnaryOperator(%d)", int(op))
}
