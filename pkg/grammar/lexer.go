package grammar

import (
	"fmt"
	"unicode"

	"alloy/pkg/ast"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"print":    PRINT,
	"var":      VAR,
	"const":    CONST,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"xor":      XOR,
	"fn":       RESERVED,
	"return":   RESERVED,
	"null":     RESERVED,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything up to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
func (l *Lexer) skipBlockComment() error {
	startLine := l.line
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return fmt.Errorf("unterminated block comment (opened on line %d)", startLine)
}

// scanIdent collects a full identifier or keyword token.
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !isIdentStart(r) && !isDecimal(r) {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

// scanNumber collects an integer literal (decimal, 0x, 0o or 0b, with '_'
// separators) or a float literal. The first rune is a digit or a '.'
// followed by a digit.
func (l *Lexer) scanNumber() (Token, error) {
	line := l.line
	start := l.pos

	if l.peek() == '0' {
		var digit func(rune) bool
		switch l.peek2() {
		case 'x', 'X':
			digit = isHex
		case 'o', 'O':
			digit = func(r rune) bool { return r >= '0' && r <= '7' }
		case 'b', 'B':
			digit = func(r rune) bool { return r == '0' || r == '1' }
		}
		if digit != nil {
			l.advance()
			l.advance()
			for l.pos < len(l.src) && (digit(l.peek()) || l.peek() == '_') {
				l.advance()
			}
			lexeme := string(l.src[start:l.pos])
			if _, err := ast.ParseInteger(lexeme); err != nil {
				return Token{}, fmt.Errorf("invalid integer literal %q on line %d", lexeme, line)
			}
			return Token{Type: INTEGER, Lexeme: lexeme, Line: line}, nil
		}
	}

	l.scanDecimalDigits()
	isFloat := false
	if l.peek() == '.' {
		isFloat = true
		l.advance()
		l.scanDecimalDigits()
	}
	lexeme := string(l.src[start:l.pos])
	if isFloat {
		if lexeme == "." {
			return Token{}, fmt.Errorf("unexpected character '.' on line %d", line)
		}
		if _, err := ast.ParseFloat(lexeme); err != nil {
			return Token{}, fmt.Errorf("invalid float literal %q on line %d", lexeme, line)
		}
		return Token{Type: FLOAT, Lexeme: lexeme, Line: line}, nil
	}
	if _, err := ast.ParseInteger(lexeme); err != nil {
		return Token{}, fmt.Errorf("integer literal %q out of range on line %d", lexeme, line)
	}
	return Token{Type: INTEGER, Lexeme: lexeme, Line: line}, nil
}

func (l *Lexer) scanDecimalDigits() {
	for l.pos < len(l.src) && (isDecimal(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			if err := l.skipBlockComment(); err != nil {
				return Token{}, err
			}
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	if isIdentStart(ch) {
		return l.scanIdent(), nil
	}
	if isDecimal(ch) || (ch == '.' && isDecimal(l.peek2())) {
		return l.scanNumber()
	}

	l.advance()
	single := func(tt TokenType) (Token, error) {
		return Token{Type: tt, Lexeme: string(ch), Line: line}, nil
	}
	pair := func(next rune, two, one TokenType) (Token, error) {
		if l.peek() == next {
			l.advance()
			return Token{Type: two, Lexeme: string([]rune{ch, next}), Line: line}, nil
		}
		return single(one)
	}

	switch ch {
	case '{':
		return single(LBRACE)
	case '}':
		return single(RBRACE)
	case '(':
		return single(LPAREN)
	case ')':
		return single(RPAREN)
	case ';':
		return single(SEMICOLON)
	case '+':
		return single(PLUS)
	case '-':
		return single(MINUS)
	case '*':
		return pair('*', STAR_STAR, STAR)
	case '/':
		return single(SLASH)
	case '%':
		return single(PERCENT)
	case '=':
		return pair('=', EQUALS, ASSIGN)
	case '<':
		return pair('=', LESS_EQ, LESS)
	case '>':
		return pair('=', GREATER_EQ, GREATER)
	case '!':
		if l.peek() == '=' {
			l.advance()
			return Token{Type: NOT_EQ, Lexeme: "!=", Line: line}, nil
		}
	}
	return Token{}, fmt.Errorf("unexpected character %q on line %d", ch, line)
}

// Lex tokenizes src. The returned slice always ends with an EOF token.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDecimal(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool {
	return isDecimal(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
