package parsetree

import "fmt"

// Rule tags a parse tree node with the grammar production that produced it.
type Rule int

const (
	EOI Rule = iota // end-of-input marker, always the last child of Program

	Program
	Statements

	// Statements
	PrintStatement
	DeclarationStatement
	AssignmentStatement
	IfStatement
	IfBody
	ElseIfBody
	ElseBody
	WhileStatement
	ForStatement
	BlockStatement
	BreakStatement
	ContinueStatement
	ExpressionStatement

	// Expressions
	Expression // flat sequence of operands and operators
	Identifier
	Integer
	Float
	Boolean

	// Keywords
	KwPrint
	KwVar
	KwConst
	KwIf
	KwElse
	KwWhile
	KwFor
	KwIn
	KwBreak
	KwContinue

	// Binary operators
	Add
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

	// Prefix operators
	Plus
	Minus
	Not
)

var ruleNames = [...]string{
	EOI:                  "EOI",
	Program:              "program",
	Statements:           "statements",
	PrintStatement:       "print_statement",
	DeclarationStatement: "declaration_statement",
	AssignmentStatement:  "assignment_statement",
	IfStatement:          "if_statement",
	IfBody:               "if_body",
	ElseIfBody:           "else_if_body",
	ElseBody:             "else_body",
	WhileStatement:       "while_statement",
	ForStatement:         "for_statement",
	BlockStatement:       "block_statement",
	BreakStatement:       "break_statement",
	ContinueStatement:    "continue_statement",
	ExpressionStatement:  "expression_statement",
	Expression:           "expression",
	Identifier:           "identifier",
	Integer:              "integer",
	Float:                "float",
	Boolean:              "boolean",
	KwPrint:              "k_print",
	KwVar:                "k_var",
	KwConst:              "k_const",
	KwIf:                 "k_if",
	KwElse:               "k_else",
	KwWhile:              "k_while",
	KwFor:                "k_for",
	KwIn:                 "k_in",
	KwBreak:              "k_break",
	KwContinue:           "k_continue",
	Add:                  "add",
	Subtract:             "subtract",
	Multiply:             "multiply",
	Divide:               "divide",
	Remainder:            "remainder",
	Power:                "power",
	LessThan:             "less_than",
	LessThanEqual:        "less_than_equal",
	GreaterThan:          "greater_than",
	GreaterThanEqual:     "greater_than_equal",
	Equal:                "equal",
	NotEqual:             "not_equal",
	LogicalAnd:           "logical_and",
	LogicalOr:            "logical_or",
	LogicalXor:           "logical_xor",
	Plus:                 "plus",
	Minus:                "minus",
	Not:                  "not",
}

func (r Rule) String() string {
	if int(r) >= 0 && int(r) < len(ruleNames) && ruleNames[r] != "" {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// IsBinaryOperator reports whether r tags an infix operator leaf.
func (r Rule) IsBinaryOperator() bool {
	return r >= Add && r <= LogicalXor
}

// IsPrefixOperator reports whether r tags a prefix operator leaf.
func (r Rule) IsPrefixOperator() bool {
	return r >= Plus && r <= Not
}
