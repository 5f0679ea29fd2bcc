package builder

import (
	"alloy/pkg/ast"
	"alloy/pkg/parsetree"
)

// StatementBuilder turns statement nodes into typed statements, delegating
// expressions to an ExpressionBuilder.
type StatementBuilder struct {
	exprs *ExpressionBuilder
}

func NewStatementBuilder(exprs *ExpressionBuilder) *StatementBuilder {
	return &StatementBuilder{exprs: exprs}
}

// New returns a StatementBuilder wired to the default precedence table.
func New() *StatementBuilder {
	return NewStatementBuilder(NewExpressionBuilder(DefaultPrecedence()))
}

// BuildProgram builds every statement of a Program node.
func (b *StatementBuilder) BuildProgram(root *parsetree.Node) ([]ast.Statement, error) {
	if root == nil || root.Rule != parsetree.Program {
		return nil, malformed(root, "expected program")
	}
	return b.BuildMany(root.Children)
}

// BuildMany builds nodes in order and stops at the EOI marker.
func (b *StatementBuilder) BuildMany(nodes []*parsetree.Node) ([]ast.Statement, error) {
	stmts := make([]ast.Statement, 0, len(nodes))
	for _, n := range nodes {
		if n.Rule == parsetree.EOI {
			break
		}
		s, err := b.Build(n)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// Build converts one statement node.
func (b *StatementBuilder) Build(node *parsetree.Node) (ast.Statement, error) {
	if node == nil {
		return nil, malformed(nil, "nil statement node")
	}
	switch node.Rule {
	case parsetree.PrintStatement:
		return b.buildPrint(node)
	case parsetree.DeclarationStatement:
		return b.buildDeclaration(node)
	case parsetree.AssignmentStatement:
		return b.buildAssignment(node)
	case parsetree.IfStatement:
		return b.buildIf(node)
	case parsetree.WhileStatement:
		return b.buildWhile(node)
	case parsetree.ForStatement:
		return b.buildFor(node)
	case parsetree.BlockStatement:
		return b.buildBlock(node)
	case parsetree.BreakStatement:
		if _, err := (&cursor{node: node}).keyword(parsetree.KwBreak); err != nil {
			return nil, err
		}
		return &ast.Break{}, nil
	case parsetree.ContinueStatement:
		if _, err := (&cursor{node: node}).keyword(parsetree.KwContinue); err != nil {
			return nil, err
		}
		return &ast.Continue{}, nil
	case parsetree.ExpressionStatement:
		c := &cursor{node: node}
		expr, err := b.expression(c)
		if err != nil {
			return nil, err
		}
		if err := c.done(); err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Expr: expr}, nil
	}
	return nil, malformed(node, "unexpected %s in statement position", node.Rule)
}

func (b *StatementBuilder) buildPrint(node *parsetree.Node) (ast.Statement, error) {
	c := &cursor{node: node}
	if _, err := c.keyword(parsetree.KwPrint); err != nil {
		return nil, err
	}
	expr, err := b.expression(c)
	if err != nil {
		return nil, err
	}
	return &ast.Print{Expr: expr}, c.done()
}

func (b *StatementBuilder) buildDeclaration(node *parsetree.Node) (ast.Statement, error) {
	c := &cursor{node: node}
	kw, err := c.next()
	if err != nil {
		return nil, err
	}
	var kind ast.IdentifierKind
	switch kw.Rule {
	case parsetree.KwVar:
		kind = ast.Variable
	case parsetree.KwConst:
		kind = ast.Constant
	default:
		return nil, malformed(kw, "expected var or const, got %s", kw.Rule)
	}
	name, err := c.expect(parsetree.Identifier)
	if err != nil {
		return nil, err
	}
	decl := &ast.Declaration{Ident: ast.Identifier{Name: name.Text, Kind: kind}}
	if c.more() {
		if decl.Init, err = b.expression(c); err != nil {
			return nil, err
		}
	}
	return decl, c.done()
}

func (b *StatementBuilder) buildAssignment(node *parsetree.Node) (ast.Statement, error) {
	c := &cursor{node: node}
	name, err := c.expect(parsetree.Identifier)
	if err != nil {
		return nil, err
	}
	value, err := b.expression(c)
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Name: name.Text, Value: value}, c.done()
}

// buildIf keeps the branches in source order: the if body, every else-if
// body, then the optional else body.
func (b *StatementBuilder) buildIf(node *parsetree.Node) (ast.Statement, error) {
	c := &cursor{node: node}
	first, err := c.expect(parsetree.IfBody)
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{}
	if stmt.Primary, err = b.branch(first, parsetree.KwIf); err != nil {
		return nil, err
	}
	for c.more() {
		part, err := c.next()
		if err != nil {
			return nil, err
		}
		switch part.Rule {
		case parsetree.ElseIfBody:
			br, err := b.branch(part, parsetree.KwElse, parsetree.KwIf)
			if err != nil {
				return nil, err
			}
			stmt.ElseIfs = append(stmt.ElseIfs, br)
		case parsetree.ElseBody:
			pc := &cursor{node: part}
			if _, err := pc.keyword(parsetree.KwElse); err != nil {
				return nil, err
			}
			if stmt.Else, err = b.body(pc); err != nil {
				return nil, err
			}
			if err := pc.done(); err != nil {
				return nil, err
			}
			return stmt, c.done()
		default:
			return nil, malformed(part, "unexpected %s in if statement", part.Rule)
		}
	}
	return stmt, nil
}

// branch destructures `keywords... expression statements`.
func (b *StatementBuilder) branch(node *parsetree.Node, keywords ...parsetree.Rule) (ast.Branch, error) {
	c := &cursor{node: node}
	for _, kw := range keywords {
		if _, err := c.keyword(kw); err != nil {
			return ast.Branch{}, err
		}
	}
	cond, err := b.expression(c)
	if err != nil {
		return ast.Branch{}, err
	}
	body, err := b.body(c)
	if err != nil {
		return ast.Branch{}, err
	}
	return ast.Branch{Cond: cond, Body: body}, c.done()
}

func (b *StatementBuilder) buildWhile(node *parsetree.Node) (ast.Statement, error) {
	br, err := b.branch(node, parsetree.KwWhile)
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: br.Cond, Body: br.Body}, nil
}

func (b *StatementBuilder) buildFor(node *parsetree.Node) (ast.Statement, error) {
	c := &cursor{node: node}
	if _, err := c.keyword(parsetree.KwFor); err != nil {
		return nil, err
	}
	name, err := c.expect(parsetree.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := c.keyword(parsetree.KwIn); err != nil {
		return nil, err
	}
	iter, err := b.expression(c)
	if err != nil {
		return nil, err
	}
	body, err := b.body(c)
	if err != nil {
		return nil, err
	}
	return &ast.For{
		Var:  ast.Identifier{Name: name.Text, Kind: ast.Variable},
		Iter: iter,
		Body: body,
	}, c.done()
}

func (b *StatementBuilder) buildBlock(node *parsetree.Node) (ast.Statement, error) {
	c := &cursor{node: node}
	body, err := b.body(c)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Body: body}, c.done()
}

func (b *StatementBuilder) expression(c *cursor) (ast.Expression, error) {
	n, err := c.next()
	if err != nil {
		return nil, err
	}
	return b.exprs.Build(n)
}

// body builds a Statements node. The result is never nil, so an empty
// body and an absent one stay distinguishable.
func (b *StatementBuilder) body(c *cursor) ([]ast.Statement, error) {
	n, err := c.expect(parsetree.Statements)
	if err != nil {
		return nil, err
	}
	return b.BuildMany(n.Children)
}

// cursor steps through a node's children positionally.
type cursor struct {
	node *parsetree.Node
	pos  int
}

func (c *cursor) more() bool { return c.pos < len(c.node.Children) }

func (c *cursor) next() (*parsetree.Node, error) {
	if !c.more() {
		return nil, malformed(c.node, "%s is missing a child", c.node.Rule)
	}
	n := c.node.Children[c.pos]
	c.pos++
	return n, nil
}

func (c *cursor) expect(rule parsetree.Rule) (*parsetree.Node, error) {
	n, err := c.next()
	if err != nil {
		return nil, err
	}
	if n.Rule != rule {
		return nil, malformed(n, "expected %s in %s, got %s", rule, c.node.Rule, n.Rule)
	}
	return n, nil
}

// keyword consumes a keyword leaf without keeping it.
func (c *cursor) keyword(rule parsetree.Rule) (*parsetree.Node, error) {
	return c.expect(rule)
}

func (c *cursor) done() error {
	if c.more() {
		extra := c.node.Children[c.pos]
		return malformed(extra, "unexpected %s at end of %s", extra.Rule, c.node.Rule)
	}
	return nil
}
