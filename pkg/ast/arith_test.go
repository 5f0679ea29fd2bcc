package ast

import (
	"errors"
	"math"
	"testing"
)

func TestEvalBinary(t *testing.T) {
	tests := []struct {
		name     string
		op       BinaryOperator
		a, b     Value
		expected Value
	}{
		{"int add", Add, Integer(2), Integer(3), Integer(5)},
		{"mixed add promotes", Add, Integer(2), Float(0.5), Float(2.5)},
		{"bool counts as int", Add, Bool(true), Integer(1), Integer(2)},
		{"subtract", Subtract, Integer(2), Integer(5), Integer(-3)},
		{"multiply", Multiply, Integer(6), Integer(7), Integer(42)},
		{"divide is float", Divide, Integer(7), Integer(2), Float(3.5)},
		{"float divide by zero", Divide, Float(1), Integer(0), Float(math.Inf(1))},
		{"remainder", Remainder, Integer(7), Integer(3), Integer(1)},
		{"float remainder", Remainder, Float(7.5), Integer(2), Float(1.5)},
		{"power", Power, Integer(2), Integer(10), Integer(1024)},
		{"power zero", Power, Integer(5), Integer(0), Integer(1)},
		{"negative exponent", Power, Integer(2), Integer(-1), Float(0.5)},
		{"float power", Power, Float(4), Float(0.5), Float(2)},
		{"less than", LessThan, Integer(1), Float(1.5), Bool(true)},
		{"less equal", LessThanEqual, Integer(2), Integer(2), Bool(true)},
		{"greater than", GreaterThan, Integer(2), Integer(3), Bool(false)},
		{"greater equal", GreaterThanEqual, Float(3), Integer(3), Bool(true)},
		{"equal across kinds", Equal, Integer(3), Float(3), Bool(true)},
		{"not equal", NotEqual, Integer(3), Integer(4), Bool(true)},
		{"and", LogicalAnd, Bool(true), Integer(0), Bool(false)},
		{"or", LogicalOr, Integer(0), Float(0.1), Bool(true)},
		{"xor", LogicalXor, Bool(true), Bool(true), Bool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalBinary(tt.op, tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Same(tt.expected) {
				t.Errorf("%#v %s %#v: expected %#v, got %#v", tt.a, tt.op, tt.b, tt.expected, got)
			}
		})
	}
}

func TestBinaryDivisionByZero(t *testing.T) {
	for _, op := range []BinaryOperator{Divide, Remainder} {
		t.Run(op.String(), func(t *testing.T) {
			_, err := EvalBinary(op, Integer(1), Integer(0))
			if !errors.Is(err, ErrDivisionByZero) {
				t.Errorf("expected ErrDivisionByZero, got %v", err)
			}
		})
	}
}

func TestEvalUnary(t *testing.T) {
	tests := []struct {
		op       UnaryOperator
		in       Value
		expected Value
	}{
		{Plus, Float(1.5), Float(1.5)},
		{Minus, Integer(4), Integer(-4)},
		{Minus, Float(2.5), Float(-2.5)},
		{Minus, Bool(true), Integer(-1)},
		{Not, Integer(0), Bool(true)},
		{Not, Bool(true), Bool(false)},
	}
	for _, tt := range tests {
		got, err := EvalUnary(tt.op, tt.in)
		if err != nil {
			t.Fatalf("%s %#v: unexpected error: %v", tt.op, tt.in, err)
		}
		if !got.Same(tt.expected) {
			t.Errorf("%s %#v: expected %#v, got %#v", tt.op, tt.in, tt.expected, got)
		}
	}
}

func TestEqualsEpsilon(t *testing.T) {
	if !Equals(Float(0.1+0.2), Float(0.3)) {
		t.Error("expected 0.1+0.2 to equal 0.3 within epsilon")
	}
	if Equals(Float(1), Float(1.001)) {
		t.Error("expected 1 and 1.001 to differ")
	}
	if !Equals(Bool(true), Integer(1)) {
		t.Error("expected true to equal 1")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v      Value
		str    string
		goStr  string
		truthy bool
	}{
		{Integer(-7), "-7", "Integer(-7)", true},
		{Float(24), "24", "Float(24)", true},
		{Float(0.25), "0.25", "Float(0.25)", true},
		{Bool(false), "false", "Bool(false)", false},
		{Value{}, "0", "Integer(0)", false},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.str {
			t.Errorf("String: expected %q, got %q", tt.str, got)
		}
		if got := tt.v.GoString(); got != tt.goStr {
			t.Errorf("GoString: expected %q, got %q", tt.goStr, got)
		}
		if got := tt.v.Truthy(); got != tt.truthy {
			t.Errorf("%s Truthy: expected %v, got %v", tt.goStr, tt.truthy, got)
		}
	}
}

func TestParseLiterals(t *testing.T) {
	ints := map[string]int64{
		"0":                   0,
		"010":                 10,
		"1_000":               1000,
		"0x_ff":               255,
		"0o17":                15,
		"0B1010":              10,
		"9223372036854775807": math.MaxInt64,
	}
	for lexeme, want := range ints {
		got, err := ParseInteger(lexeme)
		if err != nil {
			t.Errorf("ParseInteger(%q): unexpected error: %v", lexeme, err)
			continue
		}
		if got != want {
			t.Errorf("ParseInteger(%q): expected %d, got %d", lexeme, want, got)
		}
	}
	if _, err := ParseInteger("9223372036854775808"); err == nil {
		t.Error("expected overflow error")
	}

	floats := map[string]float64{"1.5": 1.5, ".5": 0.5, "2.": 2, "1_0.2_5": 10.25}
	for lexeme, want := range floats {
		got, err := ParseFloat(lexeme)
		if err != nil {
			t.Errorf("ParseFloat(%q): unexpected error: %v", lexeme, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFloat(%q): expected %v, got %v", lexeme, want, got)
		}
	}
}

func TestValueLiteralReadsBack(t *testing.T) {
	tests := []struct {
		v   Value
		lit string
	}{
		{Integer(42), "42"},
		{Float(2), "2.0"},
		{Float(0.1), "0.1"},
		{Float(1e20), "100000000000000000000.0"},
		{Bool(true), "true"},
	}
	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			if got := tt.v.Literal(); got != tt.lit {
				t.Fatalf("expected %q, got %q", tt.lit, got)
			}
			back, err := ParseLiteral(tt.lit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !back.Same(tt.v) {
				t.Errorf("expected %#v, got %#v", tt.v, back)
			}
		})
	}
	if _, err := ParseLiteral("abc"); err == nil {
		t.Error("expected error for non-literal")
	}
}
