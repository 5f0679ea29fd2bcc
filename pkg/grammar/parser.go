package grammar

import (
	"fmt"
	"strings"

	"alloy/pkg/parsetree"
)

// Parser consumes the flat token slice produced by the Lexer and builds the
// rule-tagged parse tree.
//
// Grammar:
//
//	program     = statement* EOI
//	statement   = print | declaration | if | while | for | block
//	            | break | continue | assignment | exprStmt
//	print       = "print" expression ";"
//	declaration = ("var" | "const") IDENTIFIER ("=" expression)? ";"
//	assignment  = IDENTIFIER "=" expression ";"
//	if          = "if" expression statements
//	              ("else" "if" expression statements)*
//	              ("else" statements)?
//	while       = "while" expression statements
//	for         = "for" IDENTIFIER "in" expression statements
//	block       = statements
//	statements  = "{" statement* "}"
//	exprStmt    = expression ";"
//	expression  = prefix* atom (binop prefix* atom)*
//	atom        = INTEGER | FLOAT | "true" | "false" | IDENTIFIER | "(" expression ")"
//
// Expressions are emitted flat; operator precedence is resolved later by the
// expression builder.
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1

	snippet := "<source unavailable>"
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}

	return fmt.Errorf("line %d: %s\n  |> %s", tok.Line, msg, snippet)
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekNext() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it has type tt, otherwise errors.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s %q", tt, tok.Type, tok.Lexeme)
	}
	return p.advance(), nil
}

// keyword consumes a keyword token and returns it as a leaf tagged rule.
func (p *Parser) keyword(tt TokenType, rule parsetree.Rule) (*parsetree.Node, error) {
	tok, err := p.expect(tt)
	if err != nil {
		return nil, err
	}
	return parsetree.Leaf(rule, tok.Lexeme, tok.Line), nil
}

// ParseProgram parses the whole token stream into a Program node whose last
// child is the EOI marker.
func (p *Parser) ParseProgram() (*parsetree.Node, error) {
	root := &parsetree.Node{Rule: parsetree.Program, Line: 1}
	for p.peek().Type != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, stmt)
	}
	eof := p.peek()
	root.Children = append(root.Children, parsetree.Leaf(parsetree.EOI, "", eof.Line))
	return root, nil
}

func (p *Parser) parseStatement() (*parsetree.Node, error) {
	tok := p.peek()
	switch tok.Type {
	case PRINT:
		return p.parsePrint()
	case VAR, CONST:
		return p.parseDeclaration()
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case FOR:
		return p.parseFor()
	case LBRACE:
		body, err := p.parseStatements()
		if err != nil {
			return nil, err
		}
		return parsetree.Branch(parsetree.BlockStatement, body), nil
	case BREAK:
		return p.parseJump(BREAK, parsetree.KwBreak, parsetree.BreakStatement)
	case CONTINUE:
		return p.parseJump(CONTINUE, parsetree.KwContinue, parsetree.ContinueStatement)
	case RESERVED:
		return nil, p.fmtError(tok, "%q is reserved and not supported", tok.Lexeme)
	case IDENTIFIER:
		if p.peekNext().Type == ASSIGN {
			return p.parseAssignment()
		}
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return parsetree.Branch(parsetree.ExpressionStatement, expr), nil
}

func (p *Parser) parsePrint() (*parsetree.Node, error) {
	kw, err := p.keyword(PRINT, parsetree.KwPrint)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return parsetree.Branch(parsetree.PrintStatement, kw, expr), nil
}

func (p *Parser) parseDeclaration() (*parsetree.Node, error) {
	tok := p.advance()
	rule := parsetree.KwVar
	if tok.Type == CONST {
		rule = parsetree.KwConst
	}
	kw := parsetree.Leaf(rule, tok.Lexeme, tok.Line)

	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	node := parsetree.Branch(parsetree.DeclarationStatement, kw,
		parsetree.Leaf(parsetree.Identifier, nameTok.Lexeme, nameTok.Line))

	if p.peek().Type == ASSIGN {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, expr)
	} else if tok.Type == CONST {
		return nil, p.fmtError(nameTok, "const %q requires an initializer", nameTok.Lexeme)
	}

	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parseAssignment() (*parsetree.Node, error) {
	nameTok := p.advance()
	p.advance() // =
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return parsetree.Branch(parsetree.AssignmentStatement,
		parsetree.Leaf(parsetree.Identifier, nameTok.Lexeme, nameTok.Line), expr), nil
}

func (p *Parser) parseIf() (*parsetree.Node, error) {
	kwIf, err := p.keyword(IF, parsetree.KwIf)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	node := parsetree.Branch(parsetree.IfStatement, parsetree.Branch(parsetree.IfBody, kwIf, cond, body))

	for p.peek().Type == ELSE {
		elseTok := p.advance()
		kwElse := parsetree.Leaf(parsetree.KwElse, elseTok.Lexeme, elseTok.Line)

		if p.peek().Type != IF {
			body, err := p.parseStatements()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, parsetree.Branch(parsetree.ElseBody, kwElse, body))
			break
		}

		kwIf, _ := p.keyword(IF, parsetree.KwIf)
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		body, err := p.parseStatements()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, parsetree.Branch(parsetree.ElseIfBody, kwElse, kwIf, cond, body))
	}
	return node, nil
}

func (p *Parser) parseWhile() (*parsetree.Node, error) {
	kw, err := p.keyword(WHILE, parsetree.KwWhile)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	return parsetree.Branch(parsetree.WhileStatement, kw, cond, body), nil
}

func (p *Parser) parseFor() (*parsetree.Node, error) {
	kwFor, err := p.keyword(FOR, parsetree.KwFor)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	kwIn, err := p.keyword(IN, parsetree.KwIn)
	if err != nil {
		return nil, err
	}
	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	ident := parsetree.Leaf(parsetree.Identifier, nameTok.Lexeme, nameTok.Line)
	return parsetree.Branch(parsetree.ForStatement, kwFor, ident, kwIn, iter, body), nil
}

func (p *Parser) parseJump(tt TokenType, kwRule, rule parsetree.Rule) (*parsetree.Node, error) {
	kw, err := p.keyword(tt, kwRule)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return parsetree.Branch(rule, kw), nil
}

// parseStatements parses a braced statement list.
func (p *Parser) parseStatements() (*parsetree.Node, error) {
	open, err := p.expect(LBRACE)
	if err != nil {
		return nil, err
	}
	node := &parsetree.Node{Rule: parsetree.Statements, Line: open.Line}
	for p.peek().Type != RBRACE {
		if p.peek().Type == EOF {
			return nil, p.fmtError(open, "unterminated block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, stmt)
	}
	p.advance() // }
	return node, nil
}

var binaryOperators = map[TokenType]parsetree.Rule{
	PLUS:       parsetree.Add,
	MINUS:      parsetree.Subtract,
	STAR:       parsetree.Multiply,
	SLASH:      parsetree.Divide,
	PERCENT:    parsetree.Remainder,
	STAR_STAR:  parsetree.Power,
	LESS:       parsetree.LessThan,
	LESS_EQ:    parsetree.LessThanEqual,
	GREATER:    parsetree.GreaterThan,
	GREATER_EQ: parsetree.GreaterThanEqual,
	EQUALS:     parsetree.Equal,
	NOT_EQ:     parsetree.NotEqual,
	AND:        parsetree.LogicalAnd,
	OR:         parsetree.LogicalOr,
	XOR:        parsetree.LogicalXor,
}

var prefixOperators = map[TokenType]parsetree.Rule{
	PLUS:  parsetree.Plus,
	MINUS: parsetree.Minus,
	NOT:   parsetree.Not,
}

// parseExpression recognizes an operand/operator alternation and returns it
// as a flat Expression node.
func (p *Parser) parseExpression() (*parsetree.Node, error) {
	start := p.peek()
	node := &parsetree.Node{Rule: parsetree.Expression, Line: start.Line}
	for {
		for {
			tok := p.peek()
			rule, ok := prefixOperators[tok.Type]
			if !ok {
				break
			}
			p.advance()
			node.Children = append(node.Children, parsetree.Leaf(rule, tok.Lexeme, tok.Line))
		}

		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, atom)

		tok := p.peek()
		rule, ok := binaryOperators[tok.Type]
		if !ok {
			return node, nil
		}
		p.advance()
		node.Children = append(node.Children, parsetree.Leaf(rule, tok.Lexeme, tok.Line))
	}
}

func (p *Parser) parseAtom() (*parsetree.Node, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER:
		p.advance()
		return parsetree.Leaf(parsetree.Integer, tok.Lexeme, tok.Line), nil
	case FLOAT:
		p.advance()
		return parsetree.Leaf(parsetree.Float, tok.Lexeme, tok.Line), nil
	case TRUE, FALSE:
		p.advance()
		return parsetree.Leaf(parsetree.Boolean, tok.Lexeme, tok.Line), nil
	case IDENTIFIER:
		p.advance()
		return parsetree.Leaf(parsetree.Identifier, tok.Lexeme, tok.Line), nil
	case LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case EOF:
		return nil, p.fmtError(tok, "unexpected end of input in expression")
	}
	return nil, p.fmtError(tok, "unexpected %s %q in expression", tok.Type, tok.Lexeme)
}

// Parse lexes and parses src into a Program parse tree.
func Parse(src string) (*parsetree.Node, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens, src).ParseProgram()
}
