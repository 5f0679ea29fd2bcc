package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"alloy/pkg/config"
)

func newTestSession() (*session, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newSession(config.Default(), logger, &out, &errOut, false), &out, &errOut
}

func TestSessionKeepsState(t *testing.T) {
	s, out, errOut := newTestSession()
	inputs := []string{
		"var x = 2;",
		"x = x * 21;",
		"print x;",
		"for i in 2 { print i + x; }",
	}
	for _, in := range inputs {
		if !s.eval(in) {
			t.Fatalf("%q ended the session", in)
		}
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected errors: %s", errOut)
	}
	if out.String() != "42\n42\n43\n" {
		t.Errorf("expected 42 42 43, got %q", out.String())
	}
}

func TestSessionRecoversFromErrors(t *testing.T) {
	s, out, errOut := newTestSession()
	steps := []struct {
		input   string
		wantErr string
	}{
		{"const k = 1;", ""},
		{"k = 2;", "cannot assign"},
		{"var k;", "redefinition"},
		{"print 1 +;", "in expression"},
		{"while true { break; } y = 1;", "undefined identifier"},
		{"print 5 / 0;", "division by zero"},
		{"if true { var q = 1; break; }", "outside of loop"},
		{"var q = 2;", ""},
		{"print q;", ""},
		{"print k;", ""},
	}
	for _, st := range steps {
		errOut.Reset()
		s.eval(st.input)
		if st.wantErr == "" {
			if errOut.Len() != 0 {
				t.Errorf("%q: unexpected error %s", st.input, errOut)
			}
			continue
		}
		if !strings.Contains(errOut.String(), st.wantErr) {
			t.Errorf("%q: expected error containing %q, got %q", st.input, st.wantErr, errOut)
		}
	}
	if !strings.HasSuffix(out.String(), "1\n") {
		t.Errorf("expected final print of k, got %q", out.String())
	}
}

func TestSessionCommands(t *testing.T) {
	s, out, _ := newTestSession()
	s.eval("var total = 3;")

	s.eval(":dis")
	if !strings.Contains(out.String(), "StoreSymbol") {
		t.Errorf("expected disassembly, got %q", out.String())
	}
	out.Reset()
	s.eval(":symbols")
	if !strings.Contains(out.String(), "total") {
		t.Errorf("expected symbol dump, got %q", out.String())
	}
	if s.eval(":quit") || s.eval("exit") {
		t.Error("expected quit commands to end the session")
	}
	if !s.eval("   ") {
		t.Error("blank input should not end the session")
	}
}

func TestUnbalanced(t *testing.T) {
	if !unbalanced("while true {\n") {
		t.Error("expected open block to be unbalanced")
	}
	if unbalanced("if a { } else { }") {
		t.Error("expected closed blocks to be balanced")
	}
}
