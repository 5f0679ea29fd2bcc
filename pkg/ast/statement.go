package ast

import (
	"fmt"
	"strings"
)

// IdentifierKind records whether a name was declared const or var.
type IdentifierKind int

const (
	Variable IdentifierKind = iota
	Constant
)

func (k IdentifierKind) String() string {
	if k == Constant {
		return "const"
	}
	return "var"
}

// Identifier is a declared name together with the kind fixed by its
// declaring statement.
type Identifier struct {
	Name string
	Kind IdentifierKind
}

func (i Identifier) String() string { return i.Kind.String() + " " + i.Name }

// Statement is implemented by every statement node.
type Statement interface {
	statementNode()
	String() string
}

// Print evaluates Expr and displays the result.
type Print struct {
	Expr Expression
}

func (*Print) statementNode()   {}
func (p *Print) String() string { return fmt.Sprintf("Print(%s)", p.Expr) }

// Declaration introduces a name. Init is nil for `var x;`.
//
//	const limit = 10;
//	      ^^^^^   ^^  Declaration{Ident: {limit, Constant}, Init: Literal{10}}
type Declaration struct {
	Ident Identifier
	Init  Expression
}

func (*Declaration) statementNode() {}
func (d *Declaration) String() string {
	if d.Init == nil {
		return fmt.Sprintf("Declare(%s)", d.Ident)
	}
	return fmt.Sprintf("Declare(%s = %s)", d.Ident, d.Init)
}

// Assignment stores Value into an existing variable.
type Assignment struct {
	Name  string
	Value Expression
}

func (*Assignment) statementNode() {}
func (a *Assignment) String() string {
	return fmt.Sprintf("Assign(%s = %s)", a.Name, a.Value)
}

// Branch is one condition/body pair of an if chain.
type Branch struct {
	Cond Expression
	Body []Statement
}

func (b Branch) String() string {
	return fmt.Sprintf("%s %s", b.Cond, bodyString(b.Body))
}

// If holds the primary branch, the else-if branches in source order and an
// optional else body (nil when absent).
//
//	if a { .. } else if b { .. } else { .. }
//	   ^^^^^^^^         ^^^^^^^^      ^^^^^^
//	   Primary          ElseIfs[0]    Else
type If struct {
	Primary Branch
	ElseIfs []Branch
	Else    []Statement
}

func (*If) statementNode() {}
func (i *If) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "If(%s", i.Primary)
	for _, b := range i.ElseIfs {
		fmt.Fprintf(&sb, " elif %s", b)
	}
	if i.Else != nil {
		fmt.Fprintf(&sb, " else %s", bodyString(i.Else))
	}
	sb.WriteString(")")
	return sb.String()
}

// While loops over Body while Cond is truthy.
type While struct {
	Cond Expression
	Body []Statement
}

func (*While) statementNode() {}
func (w *While) String() string {
	return fmt.Sprintf("While(%s %s)", w.Cond, bodyString(w.Body))
}

// For iterates Var over 0..Iter-1.
type For struct {
	Var  Identifier
	Iter Expression
	Body []Statement
}

func (*For) statementNode() {}
func (f *For) String() string {
	return fmt.Sprintf("For(%s in %s %s)", f.Var.Name, f.Iter, bodyString(f.Body))
}

// Block is a braced statement list. It does not open a new scope.
type Block struct {
	Body []Statement
}

func (*Block) statementNode()   {}
func (b *Block) String() string { return "Block" + bodyString(b.Body) }

type Break struct{}

func (*Break) statementNode() {}
func (*Break) String() string { return "Break" }

type Continue struct{}

func (*Continue) statementNode() {}
func (*Continue) String() string { return "Continue" }

// ExpressionStatement evaluates Expr and discards the result.
type ExpressionStatement struct {
	Expr Expression
}

func (*ExpressionStatement) statementNode()   {}
func (e *ExpressionStatement) String() string { return fmt.Sprintf("Expr(%s)", e.Expr) }

func bodyString(body []Statement) string {
	parts := make([]string, len(body))
	for i, s := range body {
		parts[i] = s.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}
