package builder

import (
	"errors"
	"testing"

	"alloy/pkg/grammar"
	"alloy/pkg/parsetree"
)

// buildExpr parses `print <src>;` and returns the built expression as text.
func buildExpr(t *testing.T, src string) string {
	t.Helper()
	tree, err := grammar.Parse("print " + src + ";")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	stmt := tree.Children[0]
	expr, err := NewExpressionBuilder(DefaultPrecedence()).Build(stmt.Children[1])
	if err != nil {
		t.Fatalf("build %q: %v", src, err)
	}
	return expr.String()
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1", "1"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"a - b - c", "((a - b) - c)"},
		{"a / b % c", "((a / b) % c)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-a ** b", "(- (a ** b))"},
		{"-a * b", "((- a) * b)"},
		{"- - a", "(- (- a))"},
		{"+x", "(+ x)"},
		{"not a and b", "((not a) and b)"},
		{"a or b and c", "(a or (b and c))"},
		{"a xor b or c", "(a xor (b or c))"},
		{"a == b < c", "(a == (b < c))"},
		{"a + 1 >= b * 2", "((a + 1) >= (b * 2))"},
		{"a != b == c", "((a != b) == c)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 ** -1", "(2 ** (- 1))"},
		{"1.5 + true", "(1.5 + true)"},
		{"0x10 + 0b1", "(16 + 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := buildExpr(t, tt.input); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestExpressionMalformed(t *testing.T) {
	leaf := func(r parsetree.Rule, text string) *parsetree.Node { return parsetree.Leaf(r, text, 1) }
	tests := []struct {
		name string
		node *parsetree.Node
	}{
		{"nil", nil},
		{"empty expression", parsetree.Branch(parsetree.Expression)},
		{"dangling operator", parsetree.Branch(parsetree.Expression, leaf(parsetree.Integer, "1"), leaf(parsetree.Add, "+"))},
		{"two operands", parsetree.Branch(parsetree.Expression, leaf(parsetree.Integer, "1"), leaf(parsetree.Integer, "2"))},
		{"bad boolean", leaf(parsetree.Boolean, "maybe")},
		{"keyword as operand", leaf(parsetree.KwPrint, "print")},
	}

	b := NewExpressionBuilder(DefaultPrecedence())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.node)
			if !errors.Is(err, ErrMalformedTree) {
				t.Errorf("expected ErrMalformedTree, got %v", err)
			}
		})
	}
}

func TestBindingPowers(t *testing.T) {
	table := DefaultPrecedence()
	pow, ok := table.Infix(parsetree.Power)
	if !ok {
		t.Fatal("power missing from table")
	}
	if pow.rightPower() != pow.leftPower() {
		t.Errorf("power: expected right associative, got left %d right %d", pow.leftPower(), pow.rightPower())
	}
	add, _ := table.Infix(parsetree.Add)
	if add.rightPower() != add.leftPower()+1 {
		t.Errorf("add: expected left associative, got left %d right %d", add.leftPower(), add.rightPower())
	}
	if table.prefixPower() <= add.leftPower() || table.prefixPower() >= pow.leftPower() {
		t.Errorf("prefix power %d should sit between additive %d and power %d", table.prefixPower(), add.leftPower(), pow.leftPower())
	}
	if _, ok := table.Infix(parsetree.Minus); ok {
		t.Error("prefix minus should not be an infix operator")
	}
}
