package termui

import (
	"strings"
	"testing"

	"alloy/pkg/compiler"
	"alloy/pkg/config"
)

func TestDisassemblyColorStripsToPlain(t *testing.T) {
	code, err := compiler.CompileSource("var x = 1.5; while x > 0 { x = x - 1; if x < 0.2 { break; } } print not x;", compiler.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	plain := Disassembly(code, false)
	if plain != code.String() {
		t.Errorf("plain rendering should equal code.String():\n%s\nvs\n%s", plain, code.String())
	}
	colored := Disassembly(code, true)
	if colored == plain {
		t.Fatal("expected styled output to differ from plain output")
	}
	if got := Plain(colored); got != plain {
		t.Errorf("stripped output differs:\nexpected\n%s\ngot\n%s", plain, got)
	}
}

func TestError(t *testing.T) {
	if got := Error("boom", false); got != "boom" {
		t.Errorf("expected plain message, got %q", got)
	}
	styled := Error("boom", true)
	if !strings.Contains(styled, "\x1b[") || Plain(styled) != "boom" {
		t.Errorf("expected styled boom, got %q", styled)
	}
}

func TestUseColor(t *testing.T) {
	if !UseColor(config.ColorAlways, nil) {
		t.Error("always should force color")
	}
	if UseColor(config.ColorNever, nil) {
		t.Error("never should disable color")
	}
	t.Setenv("NO_COLOR", "1")
	if UseColor(config.ColorAuto, nil) {
		t.Error("NO_COLOR should disable auto color")
	}
}
