package compiler

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"alloy/pkg/ast"
)

// codeFileVersion is bumped whenever the archive layout changes.
const codeFileVersion = 1

// manifest is the JSON part of a code file.
type manifest struct {
	Version   int             `json:"version"`
	Constants []constantEntry `json:"constants"`
	Names     []string        `json:"names"`
	Count     int             `json:"instructions"`
}

type constantEntry struct {
	Kind  string  `json:"kind"`
	Int   int64   `json:"int,omitempty"`
	Float float64 `json:"float,omitempty"`
	Bool  bool    `json:"bool,omitempty"`
}

func toEntry(v ast.Value) constantEntry {
	e := constantEntry{Kind: v.Kind().String()}
	switch v.Kind() {
	case ast.FloatKind:
		e.Float = v.Float64()
	case ast.BoolKind:
		e.Bool = v.Truthy()
	default:
		e.Int = v.Int()
	}
	return e
}

func fromEntry(e constantEntry) (ast.Value, error) {
	switch e.Kind {
	case ast.IntegerKind.String():
		return ast.Integer(e.Int), nil
	case ast.FloatKind.String():
		return ast.Float(e.Float), nil
	case ast.BoolKind.String():
		return ast.Bool(e.Bool), nil
	}
	return ast.Value{}, fmt.Errorf("%w: unknown constant kind %q", ErrBadCodeFile, e.Kind)
}

// MarshalArchive serialises the code object into an in-memory ZIP archive
// holding code.json and instructions.bin.
func (c *CodeObject) MarshalArchive() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	m := manifest{
		Version:   codeFileVersion,
		Constants: make([]constantEntry, len(c.Constants)),
		Names:     c.Names,
		Count:     len(c.Instructions),
	}
	for i, v := range c.Constants {
		m.Constants[i] = toEntry(v)
	}
	jsonData, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal code.json: %w", err)
	}
	if err := writeZipEntry(zw, "code.json", jsonData); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "instructions.bin", encodeInstructions(c.Instructions)); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalArchive reads an archive produced by MarshalArchive and validates
// the result.
func UnmarshalArchive(data []byte) (*CodeObject, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open zip: %v", ErrBadCodeFile, err)
	}
	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, "code.json")
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, fmt.Errorf("%w: unmarshal code.json: %v", ErrBadCodeFile, err)
	}
	if m.Version != codeFileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadCodeFile, m.Version)
	}

	raw, err := readZipEntry(fileMap, "instructions.bin")
	if err != nil {
		return nil, err
	}
	instructions, err := decodeInstructions(raw)
	if err != nil {
		return nil, err
	}
	if len(instructions) != m.Count {
		return nil, fmt.Errorf("%w: expected %d instructions, found %d", ErrBadCodeFile, m.Count, len(instructions))
	}

	code := &CodeObject{Instructions: instructions, Names: m.Names}
	for _, e := range m.Constants {
		v, err := fromEntry(e)
		if err != nil {
			return nil, err
		}
		code.Constants = append(code.Constants, v)
	}
	if err := code.Validate(); err != nil {
		return nil, err
	}
	return code, nil
}

// WriteFile writes the code archive to path.
func (c *CodeObject) WriteFile(path string) error {
	data, err := c.MarshalArchive()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a code archive from path.
func ReadFile(path string) (*CodeObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalArchive(data)
}

//  helpers

// encodeInstructions packs each instruction as op, arg low byte, arg high byte.
func encodeInstructions(code []Instruction) []byte {
	out := make([]byte, 0, len(code)*3)
	for _, in := range code {
		out = append(out, byte(in.Op), byte(in.Arg), byte(in.Arg>>8))
	}
	return out
}

func decodeInstructions(raw []byte) ([]Instruction, error) {
	if len(raw)%3 != 0 {
		return nil, fmt.Errorf("%w: instructions.bin length %d is not a multiple of 3", ErrBadCodeFile, len(raw))
	}
	code := make([]Instruction, len(raw)/3)
	for i := range code {
		b := raw[i*3:]
		code[i] = Instruction{Op: Opcode(b[0]), Arg: uint16(b[1]) | uint16(b[2])<<8}
	}
	return code, nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrBadCodeFile, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
