package builder

import (
	"errors"
	"fmt"

	"alloy/pkg/ast"
	"alloy/pkg/parsetree"
)

// ErrMalformedTree reports a parse tree whose shape the builders do not
// expect. It signals a grammar/builder mismatch rather than a user error.
var ErrMalformedTree = errors.New("malformed parse tree")

func malformed(n *parsetree.Node, format string, args ...any) error {
	line := 0
	if n != nil {
		line = n.Line
	}
	return fmt.Errorf("%w: line %d: %s", ErrMalformedTree, line, fmt.Sprintf(format, args...))
}

// ExpressionBuilder turns flat Expression nodes into typed trees by
// precedence climbing.
type ExpressionBuilder struct {
	table PrecedenceTable
}

func NewExpressionBuilder(table PrecedenceTable) *ExpressionBuilder {
	return &ExpressionBuilder{table: table}
}

// Build converts an Expression node (or a bare operand node) into an
// ast.Expression.
func (b *ExpressionBuilder) Build(node *parsetree.Node) (ast.Expression, error) {
	if node == nil {
		return nil, malformed(nil, "nil expression node")
	}
	if node.Rule != parsetree.Expression {
		return b.atom(node)
	}
	c := &climber{b: b, nodes: node.Children, parent: node}
	expr, err := c.climb(0)
	if err != nil {
		return nil, err
	}
	if c.pos != len(c.nodes) {
		return nil, malformed(c.nodes[c.pos], "unexpected %s after expression", c.nodes[c.pos].Rule)
	}
	return expr, nil
}

// climber walks the children of one Expression node.
type climber struct {
	b      *ExpressionBuilder
	nodes  []*parsetree.Node
	pos    int
	parent *parsetree.Node
}

// climb parses an operand and then folds in every operator whose left
// binding power is at least min.
func (c *climber) climb(min int) (ast.Expression, error) {
	left, err := c.operand()
	if err != nil {
		return nil, err
	}
	for c.pos < len(c.nodes) {
		opNode := c.nodes[c.pos]
		binding, ok := c.b.table.Infix(opNode.Rule)
		if !ok {
			return nil, malformed(opNode, "expected binary operator, got %s", opNode.Rule)
		}
		if binding.leftPower() < min {
			break
		}
		c.pos++
		right, err := c.climb(binding.rightPower())
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: binding.Op, Right: right}
	}
	return left, nil
}

func (c *climber) operand() (ast.Expression, error) {
	if c.pos >= len(c.nodes) {
		return nil, malformed(c.parent, "expression ends where an operand is expected")
	}
	node := c.nodes[c.pos]
	c.pos++
	if op, ok := c.b.table.prefix[node.Rule]; ok {
		inner, err := c.climb(c.b.table.prefixPower())
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Operand: inner}, nil
	}
	return c.b.atom(node)
}

// atom builds a literal, a name or a parenthesized sub-expression.
func (b *ExpressionBuilder) atom(node *parsetree.Node) (ast.Expression, error) {
	switch node.Rule {
	case parsetree.Expression:
		return b.Build(node)
	case parsetree.Identifier:
		return &ast.Name{Name: node.Text}, nil
	case parsetree.Integer:
		i, err := ast.ParseInteger(node.Text)
		if err != nil {
			return nil, malformed(node, "integer literal %q: %v", node.Text, err)
		}
		return &ast.Literal{Value: ast.Integer(i)}, nil
	case parsetree.Float:
		f, err := ast.ParseFloat(node.Text)
		if err != nil {
			return nil, malformed(node, "float literal %q: %v", node.Text, err)
		}
		return &ast.Literal{Value: ast.Float(f)}, nil
	case parsetree.Boolean:
		switch node.Text {
		case "true":
			return &ast.Literal{Value: ast.Bool(true)}, nil
		case "false":
			return &ast.Literal{Value: ast.Bool(false)}, nil
		}
		return nil, malformed(node, "boolean literal %q", node.Text)
	}
	return nil, malformed(node, "expected operand, got %s", node.Rule)
}
