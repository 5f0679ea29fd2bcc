package compiler

import (
	"errors"
	"fmt"
	"strings"

	"alloy/pkg/ast"
)

// CodeObject is the finished output of a compilation unit.
type CodeObject struct {
	Instructions []Instruction
	Constants    []ast.Value
	Names        []string // debug names, indexed by slot
}

// ErrBadCodeFile reports a code object whose operands do not line up with
// its constant pool, names or instruction count.
var ErrBadCodeFile = errors.New("invalid code object")

// Validate checks every opcode and operand.
func (c *CodeObject) Validate() error {
	for addr, in := range c.Instructions {
		if !in.Op.Valid() {
			return fmt.Errorf("%w: unknown opcode %d at %d", ErrBadCodeFile, int(in.Op), addr)
		}
		switch in.Op.Operand() {
		case SlotOperand:
			if int(in.Arg) >= len(c.Names) {
				return fmt.Errorf("%w: slot %d out of range at %d", ErrBadCodeFile, in.Arg, addr)
			}
		case ConstantOperand:
			if int(in.Arg) >= len(c.Constants) {
				return fmt.Errorf("%w: constant %d out of range at %d", ErrBadCodeFile, in.Arg, addr)
			}
		case TargetOperand:
			if int(in.Arg) > len(c.Instructions) {
				return fmt.Errorf("%w: jump target %d out of range at %d", ErrBadCodeFile, in.Arg, addr)
			}
		}
	}
	return nil
}

// DisasmLine is one row of a disassembly listing.
type DisasmLine struct {
	Addr    int
	Op      Opcode
	Arg     uint16
	Operand OperandKind
	Ref     string // resolved name or constant, empty for plain operands
}

func (l DisasmLine) format(width int) string {
	switch l.Operand {
	case NoOperand:
		return fmt.Sprintf("%4d  %s", l.Addr, l.Op)
	case TargetOperand:
		return fmt.Sprintf("%4d  %-*s %d", l.Addr, width, l.Op, l.Arg)
	}
	return fmt.Sprintf("%4d  %-*s %d (%s)", l.Addr, width, l.Op, l.Arg, l.Ref)
}

func (l DisasmLine) String() string { return l.format(MnemonicWidth) }

// MnemonicWidth is the width of the widest mnemonic.
var MnemonicWidth = func() int {
	w := 0
	for op := Opcode(0); op < opCount; op++ {
		w = max(w, len(op.String()))
	}
	return w
}()

// Disassemble resolves every instruction's operand for display.
func (c *CodeObject) Disassemble() []DisasmLine {
	lines := make([]DisasmLine, len(c.Instructions))
	for addr, in := range c.Instructions {
		l := DisasmLine{Addr: addr, Op: in.Op, Arg: in.Arg, Operand: in.Op.Operand()}
		switch l.Operand {
		case SlotOperand:
			l.Ref = "?"
			if int(in.Arg) < len(c.Names) {
				l.Ref = c.Names[in.Arg]
			}
		case ConstantOperand:
			l.Ref = "?"
			if int(in.Arg) < len(c.Constants) {
				l.Ref = c.Constants[in.Arg].Literal()
			}
		}
		lines[addr] = l
	}
	return lines
}

// String renders the disassembly, one instruction per line.
func (c *CodeObject) String() string {
	var sb strings.Builder
	for _, l := range c.Disassemble() {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
