package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseInteger converts an integer literal into its value. Prefixed forms
// (0x, 0o, 0b) follow Go's rules; plain decimal literals never take the
// leading-zero octal form. Underscores separate digits.
func ParseInteger(lexeme string) (int64, error) {
	if len(lexeme) > 1 && lexeme[0] == '0' && strings.ContainsAny(lexeme[1:2], "xXoObB") {
		return strconv.ParseInt(lexeme, 0, 64)
	}
	return strconv.ParseInt(strings.ReplaceAll(lexeme, "_", ""), 10, 64)
}

// ParseFloat converts a float literal ("1.5", ".5", "1.") into its value.
func ParseFloat(lexeme string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(lexeme, "_", ""), 64)
}

// ParseLiteral reads back a value rendered by Value.Literal.
func ParseLiteral(s string) (Value, error) {
	switch {
	case s == "true" || s == "false":
		return Bool(s == "true"), nil
	case strings.ContainsAny(s, ".eE") || strings.HasSuffix(s, "Inf") || s == "NaN":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("bad float literal %q: %w", s, err)
		}
		return Float(f), nil
	}
	i, err := ParseInteger(s)
	if err != nil {
		return Value{}, fmt.Errorf("bad integer literal %q: %w", s, err)
	}
	return Integer(i), nil
}
