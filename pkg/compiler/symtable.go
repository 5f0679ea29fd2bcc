package compiler

import (
	"fmt"
	"strings"

	"alloy/pkg/ast"
)

// Symbol is the compile-time record of one declared name.
type Symbol struct {
	Slot uint16
	Kind ast.IdentifierKind
}

// SymbolTable maps declared names to dense storage slots and collects the
// constant pool. There is one flat scope per compilation unit: a name is
// visible from its declaration to the end of the unit and can never be
// declared twice.
type SymbolTable struct {
	symbols   map[string]Symbol
	names     []string    // indexed by slot
	constants []ast.Value // indexed by pool position
	maxSlots  int
	finished  bool
}

// NewSymbolTable returns an empty table that hands out at most maxSlots
// symbol slots and maxSlots pool entries.
func NewSymbolTable(maxSlots int) *SymbolTable {
	if maxSlots <= 0 || maxSlots > MaxSlots {
		maxSlots = MaxSlots
	}
	return &SymbolTable{
		symbols:  make(map[string]Symbol),
		maxSlots: maxSlots,
	}
}

func (s *SymbolTable) mustBeOpen() {
	if s.finished {
		panic("symbol table used after Finish")
	}
}

// Register declares id and returns its slot.
func (s *SymbolTable) Register(id ast.Identifier) (uint16, error) {
	s.mustBeOpen()
	if _, ok := s.symbols[id.Name]; ok {
		return 0, &CompileError{Kind: Redefinition, Name: id.Name}
	}
	if len(s.names) >= s.maxSlots {
		return 0, &CompileError{Kind: VariableLimitReached, Name: id.Name}
	}
	slot := uint16(len(s.names))
	s.symbols[id.Name] = Symbol{Slot: slot, Kind: id.Kind}
	s.names = append(s.names, id.Name)
	return slot, nil
}

// Get looks up a declared name.
func (s *SymbolTable) Get(name string) (Symbol, bool) {
	s.mustBeOpen()
	sym, ok := s.symbols[name]
	return sym, ok
}

// RegisterValue appends v to the constant pool. Equal literals are not
// merged; every occurrence gets its own entry.
func (s *SymbolTable) RegisterValue(v ast.Value) (uint16, error) {
	s.mustBeOpen()
	if len(s.constants) >= s.maxSlots {
		return 0, &CompileError{Kind: VariableLimitReached}
	}
	s.constants = append(s.constants, v)
	return uint16(len(s.constants) - 1), nil
}

// unbindFrom forgets every name declared at slot start or later. The slots
// stay allocated because dead code may still address them.
func (s *SymbolTable) unbindFrom(start int) {
	for _, name := range s.names[start:] {
		if sym, ok := s.symbols[name]; ok && int(sym.Slot) >= start {
			delete(s.symbols, name)
		}
	}
}

// Len returns the number of declared symbols.
func (s *SymbolTable) Len() int { return len(s.names) }

// Names returns a copy of the debug names, indexed by slot.
func (s *SymbolTable) Names() []string {
	return append([]string(nil), s.names...)
}

// Constants returns a copy of the constant pool.
func (s *SymbolTable) Constants() []ast.Value {
	return append([]ast.Value(nil), s.constants...)
}

// Finish hands over the constant pool and the debug names. The table is
// unusable afterwards.
func (s *SymbolTable) Finish() ([]ast.Value, []string) {
	s.mustBeOpen()
	constants, names := s.constants, s.names
	s.symbols, s.constants, s.names = nil, nil, nil
	s.finished = true
	return constants, names
}

// String returns a human-readable dump of the symbol table in slot order.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	sb.WriteString("Symbol Table\n")
	for slot, name := range s.names {
		kind := "-"
		if sym, ok := s.symbols[name]; ok && int(sym.Slot) == slot {
			kind = sym.Kind.String()
		}
		fmt.Fprintf(&sb, "  %4d  %-5s  %s\n", slot, kind, name)
	}
	fmt.Fprintf(&sb, "Constants (%d)\n", len(s.constants))
	for i, v := range s.constants {
		fmt.Fprintf(&sb, "  %4d  %#v\n", i, v)
	}
	return sb.String()
}
