package builder

import (
	"alloy/pkg/ast"
	"alloy/pkg/parsetree"
)

// Associativity decides which side of a chain of equal-precedence operators
// groups first.
type Associativity int

const (
	LeftAssoc Associativity = iota
	RightAssoc
)

// Binding describes one infix operator: the AST operator it builds and how
// tightly it binds.
type Binding struct {
	Op    ast.BinaryOperator
	Level int
	Assoc Associativity
}

// leftPower is the binding power the operator presents to its left operand.
func (b Binding) leftPower() int { return b.Level * 2 }

// rightPower is the minimum binding power accepted on the right. Left
// associative operators refuse an equal-level operator on their right.
func (b Binding) rightPower() int {
	if b.Assoc == RightAssoc {
		return b.leftPower()
	}
	return b.leftPower() + 1
}

// PrecedenceTable maps operator rules to their bindings. Build one with
// DefaultPrecedence and hand it to NewExpressionBuilder; it is never
// mutated afterwards.
type PrecedenceTable struct {
	infix       map[parsetree.Rule]Binding
	prefix      map[parsetree.Rule]ast.UnaryOperator
	prefixLevel int
}

// Precedence levels, lowest to highest.
const (
	levelXor = iota + 1
	levelOr
	levelAnd
	levelEquality
	levelRelational
	levelAdditive
	levelMultiplicative
	levelPrefix
	levelPower
)

// DefaultPrecedence returns the language's operator table:
//
//	xor < or < and < (== !=) < (< <= > >=) < (+ -) < (* / %) < prefix < **
//
// Everything is left associative except **.
func DefaultPrecedence() PrecedenceTable {
	left := func(op ast.BinaryOperator, level int) Binding {
		return Binding{Op: op, Level: level, Assoc: LeftAssoc}
	}
	return PrecedenceTable{
		infix: map[parsetree.Rule]Binding{
			parsetree.LogicalXor:       left(ast.LogicalXor, levelXor),
			parsetree.LogicalOr:        left(ast.LogicalOr, levelOr),
			parsetree.LogicalAnd:       left(ast.LogicalAnd, levelAnd),
			parsetree.Equal:            left(ast.Equal, levelEquality),
			parsetree.NotEqual:         left(ast.NotEqual, levelEquality),
			parsetree.LessThan:         left(ast.LessThan, levelRelational),
			parsetree.LessThanEqual:    left(ast.LessThanEqual, levelRelational),
			parsetree.GreaterThan:      left(ast.GreaterThan, levelRelational),
			parsetree.GreaterThanEqual: left(ast.GreaterThanEqual, levelRelational),
			parsetree.Add:              left(ast.Add, levelAdditive),
			parsetree.Subtract:         left(ast.Subtract, levelAdditive),
			parsetree.Multiply:         left(ast.Multiply, levelMultiplicative),
			parsetree.Divide:           left(ast.Divide, levelMultiplicative),
			parsetree.Remainder:        left(ast.Remainder, levelMultiplicative),
			parsetree.Power:            {Op: ast.Power, Level: levelPower, Assoc: RightAssoc},
		},
		prefix: map[parsetree.Rule]ast.UnaryOperator{
			parsetree.Plus:  ast.Plus,
			parsetree.Minus: ast.Minus,
			parsetree.Not:   ast.Not,
		},
		prefixLevel: levelPrefix,
	}
}

// Infix looks up the binding for an operator rule.
func (t PrecedenceTable) Infix(rule parsetree.Rule) (Binding, bool) {
	b, ok := t.infix[rule]
	return b, ok
}

func (t PrecedenceTable) prefixPower() int { return t.prefixLevel * 2 }
