package builder

import (
	"errors"
	"reflect"
	"testing"

	"alloy/pkg/ast"
	"alloy/pkg/grammar"
	"alloy/pkg/parsetree"
)

func buildProgram(t *testing.T, src string) []ast.Statement {
	t.Helper()
	tree, err := grammar.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	stmts, err := New().BuildProgram(tree)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return stmts
}

func TestBuildStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{}},
		{"declarations", "var x; const y = 2; var z = y * 3;",
			[]string{"Declare(var x)", "Declare(const y = 2)", "Declare(var z = (y * 3))"}},
		{"assignment and print", "x = x + 1; print x;",
			[]string{"Assign(x = (x + 1))", "Print(x)"}},
		{"if chain", "if a { print 1; } else if b { } else if c { print 3; } else { print 4; }",
			[]string{"If(a {Print(1)} elif b {} elif c {Print(3)} else {Print(4)})"}},
		{"if with empty else", "if a { } else { }",
			[]string{"If(a {} else {})"}},
		{"while", "while i < 10 { i = i + 1; break; }",
			[]string{"While((i < 10) {Assign(i = (i + 1)); Break})"}},
		{"for", "for i in n + 1 { continue; }",
			[]string{"For(i in (n + 1) {Continue})"}},
		{"block and expression", "{ 1 + 2; }",
			[]string{"Block{Expr((1 + 2))}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := buildProgram(t, tt.input)
			got := make([]string, len(stmts))
			for i, s := range stmts {
				got[i] = s.String()
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBuildIfElsePresence(t *testing.T) {
	without := buildProgram(t, "if a { }")[0].(*ast.If)
	if without.Else != nil {
		t.Errorf("expected nil else body, got %v", without.Else)
	}
	if without.Primary.Body == nil {
		t.Error("expected empty non-nil primary body")
	}

	with := buildProgram(t, "if a { } else { }")[0].(*ast.If)
	if with.Else == nil || len(with.Else) != 0 {
		t.Errorf("expected empty non-nil else body, got %#v", with.Else)
	}
}

func TestBuildIdentifierKinds(t *testing.T) {
	stmts := buildProgram(t, "const c = 1; var v; for i in 2 { }")
	if got := stmts[0].(*ast.Declaration).Ident; got != (ast.Identifier{Name: "c", Kind: ast.Constant}) {
		t.Errorf("expected const c, got %v", got)
	}
	decl := stmts[1].(*ast.Declaration)
	if decl.Ident.Kind != ast.Variable || decl.Init != nil {
		t.Errorf("expected uninitialized var v, got %v", decl)
	}
	if got := stmts[2].(*ast.For).Var; got != (ast.Identifier{Name: "i", Kind: ast.Variable}) {
		t.Errorf("expected loop variable var i, got %v", got)
	}
}

func TestBuildMalformed(t *testing.T) {
	leaf := func(r parsetree.Rule, text string) *parsetree.Node { return parsetree.Leaf(r, text, 1) }
	expr := parsetree.Branch(parsetree.Expression, leaf(parsetree.Integer, "1"))
	tests := []struct {
		name string
		node *parsetree.Node
	}{
		{"nil", nil},
		{"bare expression", expr},
		{"print missing keyword", parsetree.Branch(parsetree.PrintStatement, expr)},
		{"print extra child", parsetree.Branch(parsetree.PrintStatement, leaf(parsetree.KwPrint, "print"), expr, expr)},
		{"declaration bad keyword", parsetree.Branch(parsetree.DeclarationStatement, leaf(parsetree.KwIf, "if"), leaf(parsetree.Identifier, "x"))},
		{"while without body", parsetree.Branch(parsetree.WhileStatement, leaf(parsetree.KwWhile, "while"), expr)},
		{"if without if body", parsetree.Branch(parsetree.IfStatement, leaf(parsetree.KwIf, "if"))},
		{"else before else if", parsetree.Branch(parsetree.IfStatement,
			parsetree.Branch(parsetree.IfBody, leaf(parsetree.KwIf, "if"), expr, parsetree.Branch(parsetree.Statements)),
			parsetree.Branch(parsetree.ElseBody, leaf(parsetree.KwElse, "else"), parsetree.Branch(parsetree.Statements)),
			parsetree.Branch(parsetree.ElseIfBody, leaf(parsetree.KwElse, "else"), leaf(parsetree.KwIf, "if"), expr, parsetree.Branch(parsetree.Statements)),
		)},
		{"if with stray child", parsetree.Branch(parsetree.IfStatement,
			parsetree.Branch(parsetree.IfBody, leaf(parsetree.KwIf, "if"), expr, parsetree.Branch(parsetree.Statements)),
			expr,
		)},
		{"break with operand", parsetree.Branch(parsetree.BreakStatement, expr)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Build(tt.node)
			if !errors.Is(err, ErrMalformedTree) {
				t.Errorf("expected ErrMalformedTree, got %v", err)
			}
		})
	}

	if _, err := New().BuildProgram(expr); !errors.Is(err, ErrMalformedTree) {
		t.Errorf("BuildProgram on non-program: expected ErrMalformedTree, got %v", err)
	}
}
