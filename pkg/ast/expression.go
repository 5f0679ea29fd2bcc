package ast

import "fmt"

// Expression is implemented by every node that produces a value.
type Expression interface {
	expressionNode()
	String() string
}

// Literal is a constant taken straight from the source.
//
//	print 10;
//	      ^^  Literal{Value: Integer(10)}
type Literal struct {
	Value Value
}

func (*Literal) expressionNode()  {}
func (l *Literal) String() string { return l.Value.String() }

// Binary represents Left Op Right.
//
//	x + 1
//	^ ^ ^
//	| | |
//	| | Right
//	| Op
//	Left
type Binary struct {
	Left  Expression
	Op    BinaryOperator
	Right Expression
}

func (*Binary) expressionNode() {}
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Unary represents Op Operand, e.g. -x or not done.
type Unary struct {
	Op      UnaryOperator
	Operand Expression
}

func (*Unary) expressionNode()  {}
func (u *Unary) String() string { return fmt.Sprintf("(%s %s)", u.Op, u.Operand) }

// Name is a read of a declared identifier.
type Name struct {
	Name string
}

func (*Name) expressionNode()  {}
func (n *Name) String() string { return n.Name }
