package compiler

import (
	"archive/zip"
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCodeFileRoundTrip(t *testing.T) {
	code := mustCompile(t, "var a = 1; const b = 2.5; var c = true; for i in 3 { a = a * 2 + b; } print a xor c;")

	path := filepath.Join(t.TempDir(), "prog.alc")
	if err := code.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(loaded, code) {
		t.Errorf("round trip mismatch:\nexpected\n%s\ngot\n%s", code, loaded)
	}
	for i, v := range code.Constants {
		if !loaded.Constants[i].Same(v) {
			t.Errorf("constant %d: expected %#v, got %#v", i, v, loaded.Constants[i])
		}
	}
}

func TestInstructionEncoding(t *testing.T) {
	in := []Instruction{{Op: OpJump, Arg: 0x1234}, {Op: OpPop}, {Op: OpLoadValue, Arg: 0xFFFF}}
	raw := encodeInstructions(in)
	expected := []byte{byte(OpJump), 0x34, 0x12, byte(OpPop), 0, 0, byte(OpLoadValue), 0xFF, 0xFF}
	if !bytes.Equal(raw, expected) {
		t.Errorf("expected %x, got %x", expected, raw)
	}
	out, err := decodeInstructions(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("expected %v, got %v", in, out)
	}
}

// archive builds a ZIP from name/content pairs.
func archive(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for name, data := range entries {
		if err := writeZipEntry(zw, name, []byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUnmarshalArchiveRejectsCorruptInput(t *testing.T) {
	manifest := `{"version":1,"constants":[{"kind":"integer","int":4}],"names":["x"],"instructions":2}`
	good := string([]byte{byte(OpLoadValue), 0, 0, byte(OpStoreSymbol), 0, 0})

	if _, err := UnmarshalArchive(archive(t, map[string]string{"code.json": manifest, "instructions.bin": good})); err != nil {
		t.Fatalf("expected valid archive, got %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("hello")},
		{"missing manifest", archive(t, map[string]string{"instructions.bin": good})},
		{"missing instructions", archive(t, map[string]string{"code.json": manifest})},
		{"bad json", archive(t, map[string]string{"code.json": "{", "instructions.bin": good})},
		{"wrong version", archive(t, map[string]string{
			"code.json":        `{"version":99,"constants":[],"names":[],"instructions":0}`,
			"instructions.bin": "",
		})},
		{"truncated instructions", archive(t, map[string]string{"code.json": manifest, "instructions.bin": good[:4]})},
		{"count mismatch", archive(t, map[string]string{
			"code.json":        `{"version":1,"constants":[{"kind":"integer","int":4}],"names":["x"],"instructions":1}`,
			"instructions.bin": good,
		})},
		{"unknown constant kind", archive(t, map[string]string{
			"code.json":        `{"version":1,"constants":[{"kind":"string"}],"names":["x"],"instructions":2}`,
			"instructions.bin": good,
		})},
		{"slot out of range", archive(t, map[string]string{
			"code.json":        `{"version":1,"constants":[{"kind":"integer","int":4}],"names":[],"instructions":2}`,
			"instructions.bin": good,
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalArchive(tt.data); !errors.Is(err, ErrBadCodeFile) {
				t.Errorf("expected ErrBadCodeFile, got %v", err)
			}
		})
	}
}
