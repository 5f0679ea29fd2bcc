package grammar

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable name
	INTEGER    // integer literal in any radix
	FLOAT      // float literal

	// Keywords
	PRINT    // "print"
	VAR      // "var"
	CONST    // "const"
	IF       // "if"
	ELSE     // "else"
	WHILE    // "while"
	FOR      // "for"
	IN       // "in"
	BREAK    // "break"
	CONTINUE // "continue"
	TRUE     // "true"
	FALSE    // "false"
	AND      // "and"
	OR       // "or"
	NOT      // "not"
	XOR      // "xor"
	RESERVED // "fn", "return", "null"

	// Paired delimiters
	LBRACE // {
	RBRACE // }
	LPAREN // (
	RPAREN // )

	SEMICOLON // ;

	// Arithmetic operators
	PLUS      // +
	MINUS     // -
	STAR      // *
	STAR_STAR // **
	SLASH     // /
	PERCENT   // %

	// Assignment / comparison
	ASSIGN     // =
	EQUALS     // ==
	NOT_EQ     // !=
	LESS       // <
	LESS_EQ    // <=
	GREATER    // >
	GREATER_EQ // >=
)

var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	FLOAT:      "FLOAT",
	PRINT:      "PRINT",
	VAR:        "VAR",
	CONST:      "CONST",
	IF:         "IF",
	ELSE:       "ELSE",
	WHILE:      "WHILE",
	FOR:        "FOR",
	IN:         "IN",
	BREAK:      "BREAK",
	CONTINUE:   "CONTINUE",
	TRUE:       "TRUE",
	FALSE:      "FALSE",
	AND:        "AND",
	OR:         "OR",
	NOT:        "NOT",
	XOR:        "XOR",
	RESERVED:   "RESERVED",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	SEMICOLON:  "SEMICOLON",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	STAR_STAR:  "STAR_STAR",
	SLASH:      "SLASH",
	PERCENT:    "PERCENT",
	ASSIGN:     "ASSIGN",
	EQUALS:     "EQUALS",
	NOT_EQ:     "NOT_EQ",
	LESS:       "LESS",
	LESS_EQ:    "LESS_EQ",
	GREATER:    "GREATER",
	GREATER_EQ: "GREATER_EQ",
}

func (t TokenType) String() string {
	if int(t) >= 0 && int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical unit.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("{%s %q line:%d}", t.Type, t.Lexeme, t.Line)
}
