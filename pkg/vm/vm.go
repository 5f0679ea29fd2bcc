package vm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"alloy/pkg/ast"
	"alloy/pkg/compiler"
)

var (
	ErrStackUnderflow = errors.New("operand stack underflow")
	ErrUninitialized  = errors.New("read of uninitialized variable")
	ErrDivisionByZero = ast.ErrDivisionByZero
	ErrBadOpcode      = errors.New("bad opcode")
	ErrStepLimit      = errors.New("step limit exceeded")
)

// Fault wraps a runtime error with the address of the failing instruction.
type Fault struct {
	PC  int
	Op  compiler.Opcode
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("pc %d (%s): %v", f.PC, f.Op, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// Machine executes a CodeObject on an operand stack.
type Machine struct {
	Code      []compiler.Instruction
	Constants []ast.Value
	Names     []string

	Slots []ast.Value
	set   []bool
	Stack []ast.Value

	PC     int
	Halted bool
	Steps  int

	// Output receives Display output. Defaults to os.Stdout.
	Output io.Writer
	Logger *slog.Logger
}

// New returns a machine ready to run code from address 0.
func New(code *compiler.CodeObject) *Machine {
	m := &Machine{}
	m.Load(code)
	return m
}

// Load swaps in code while keeping variable values, so a REPL can append
// to a program and continue from where it stopped. Slots for names the new
// code declares start uninitialized.
func (m *Machine) Load(code *compiler.CodeObject) {
	m.Code = code.Instructions
	m.Constants = code.Constants
	m.Names = code.Names
	for len(m.Slots) < len(code.Names) {
		m.Slots = append(m.Slots, ast.Value{})
		m.set = append(m.set, false)
	}
	m.Halted = m.PC >= len(m.Code)
}

func (m *Machine) outputSink() io.Writer {
	if m.Output != nil {
		return m.Output
	}
	return os.Stdout
}

func (m *Machine) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// Jump moves execution to addr without running anything.
func (m *Machine) Jump(addr int) {
	m.PC = addr
	m.Halted = m.PC >= len(m.Code)
}

func (m *Machine) push(v ast.Value) { m.Stack = append(m.Stack, v) }

func (m *Machine) pop() (ast.Value, error) {
	if len(m.Stack) == 0 {
		return ast.Value{}, ErrStackUnderflow
	}
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return v, nil
}

// Step executes one instruction.
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}
	if m.PC < 0 || m.PC >= len(m.Code) {
		m.Halted = true
		return nil
	}

	pc := m.PC
	instr := m.Code[pc]
	m.PC++
	m.Steps++

	if err := m.exec(instr); err != nil {
		m.Halted = true
		m.logger().Debug("vm fault", "pc", pc, "op", instr.Op.String(), "error", err)
		return &Fault{PC: pc, Op: instr.Op, Err: err}
	}
	if m.PC >= len(m.Code) {
		m.Halted = true
	}
	return nil
}

func (m *Machine) exec(instr compiler.Instruction) error {
	switch instr.Op {
	case compiler.OpStoreSymbol:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if int(instr.Arg) >= len(m.Slots) {
			return fmt.Errorf("%w: slot %d", ErrBadOpcode, instr.Arg)
		}
		m.Slots[instr.Arg] = v
		m.set[instr.Arg] = true

	case compiler.OpLoadSymbol:
		if int(instr.Arg) >= len(m.Slots) {
			return fmt.Errorf("%w: slot %d", ErrBadOpcode, instr.Arg)
		}
		if !m.set[instr.Arg] {
			return fmt.Errorf("%w %q", ErrUninitialized, m.Names[instr.Arg])
		}
		m.push(m.Slots[instr.Arg])

	case compiler.OpLoadValue:
		if int(instr.Arg) >= len(m.Constants) {
			return fmt.Errorf("%w: constant %d", ErrBadOpcode, instr.Arg)
		}
		m.push(m.Constants[instr.Arg])

	case compiler.OpPop:
		if _, err := m.pop(); err != nil {
			return err
		}

	case compiler.OpDisplay:
		v, err := m.pop()
		if err != nil {
			return err
		}
		fmt.Fprintln(m.outputSink(), v)

	case compiler.OpJump:
		m.PC = int(instr.Arg)

	case compiler.OpJumpIfTrue, compiler.OpJumpIfFalse:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if v.Truthy() == (instr.Op == compiler.OpJumpIfTrue) {
			m.PC = int(instr.Arg)
		}

	case compiler.OpUnaryMinus, compiler.OpUnaryNot:
		v, err := m.pop()
		if err != nil {
			return err
		}
		op := ast.Minus
		if instr.Op == compiler.OpUnaryNot {
			op = ast.Not
		}
		r, err := ast.EvalUnary(op, v)
		if err != nil {
			return err
		}
		m.push(r)

	default:
		op, ok := instr.Op.BinaryOperator()
		if !ok {
			return fmt.Errorf("%w %d", ErrBadOpcode, int(instr.Op))
		}
		right, err := m.pop()
		if err != nil {
			return err
		}
		left, err := m.pop()
		if err != nil {
			return err
		}
		r, err := ast.EvalBinary(op, left, right)
		if err != nil {
			return err
		}
		m.push(r)
	}
	return nil
}

// Run executes until the program counter leaves the code.
func (m *Machine) Run() error {
	return m.RunLimit(0)
}

// RunLimit is Run with a cap on executed instructions. A limit of 0 means
// no cap.
func (m *Machine) RunLimit(maxSteps int) error {
	start := m.Steps
	for !m.Halted {
		if maxSteps > 0 && m.Steps-start >= maxSteps {
			return &Fault{PC: m.PC, Op: m.Code[m.PC].Op, Err: ErrStepLimit}
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Value returns the current value of a named variable.
func (m *Machine) Value(name string) (ast.Value, bool) {
	for slot, n := range m.Names {
		if n == name && slot < len(m.Slots) && m.set[slot] {
			return m.Slots[slot], true
		}
	}
	return ast.Value{}, false
}
