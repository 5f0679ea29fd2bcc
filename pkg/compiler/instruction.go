package compiler

import (
	"fmt"
	"math"

	"alloy/pkg/ast"
)

// Operand limits. Slots and pool indices are u16 operands, and so are jump
// targets, which may point one past the last instruction.
const (
	MaxSlots        = math.MaxUint16 + 1
	MaxInstructions = math.MaxUint16
)

// Opcode identifies a stack machine instruction.
type Opcode uint8

const (
	OpStoreSymbol Opcode = iota // pop into slot Arg
	OpLoadSymbol                // push slot Arg
	OpLoadValue                 // push constant Arg
	OpPop                       // discard top of stack
	OpDisplay                   // pop and print

	OpJump        // jump to Arg
	OpJumpIfTrue  // pop; jump to Arg when truthy
	OpJumpIfFalse // pop; jump to Arg when falsy

	OpBinaryAdd
	OpBinarySubtract
	OpBinaryMultiply
	OpBinaryDivide
	OpBinaryRemainder
	OpBinaryPower
	OpBinaryLessThan
	OpBinaryLessThanEqual
	OpBinaryGreaterThan
	OpBinaryGreaterThanEqual
	OpBinaryEqual
	OpBinaryNotEqual
	OpBinaryLogicalAnd
	OpBinaryLogicalOr
	OpBinaryLogicalXor

	OpUnaryMinus
	OpUnaryNot

	opCount
)

var opNames = [...]string{
	OpStoreSymbol:            "StoreSymbol",
	OpLoadSymbol:             "LoadSymbol",
	OpLoadValue:              "LoadValue",
	OpPop:                    "Pop",
	OpDisplay:                "Display",
	OpJump:                   "Jump",
	OpJumpIfTrue:             "JumpIfTrue",
	OpJumpIfFalse:            "JumpIfFalse",
	OpBinaryAdd:              "BinaryAdd",
	OpBinarySubtract:         "BinarySubtract",
	OpBinaryMultiply:         "BinaryMultiply",
	OpBinaryDivide:           "BinaryDivide",
	OpBinaryRemainder:        "BinaryRemainder",
	OpBinaryPower:            "BinaryPower",
	OpBinaryLessThan:         "BinaryLessThan",
	OpBinaryLessThanEqual:    "BinaryLessThanEqual",
	OpBinaryGreaterThan:      "BinaryGreaterThan",
	OpBinaryGreaterThanEqual: "BinaryGreaterThanEqual",
	OpBinaryEqual:            "BinaryEqual",
	OpBinaryNotEqual:         "BinaryNotEqual",
	OpBinaryLogicalAnd:       "BinaryLogicalAnd",
	OpBinaryLogicalOr:        "BinaryLogicalOr",
	OpBinaryLogicalXor:       "BinaryLogicalXor",
	OpUnaryMinus:             "UnaryMinus",
	OpUnaryNot:               "UnaryNot",
}

func (op Opcode) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// Valid reports whether op is a known opcode.
func (op Opcode) Valid() bool { return op < opCount }

// OperandKind says what an instruction's Arg refers to.
type OperandKind int

const (
	NoOperand OperandKind = iota
	SlotOperand
	ConstantOperand
	TargetOperand
)

// Operand returns the meaning of Arg for op.
func (op Opcode) Operand() OperandKind {
	switch op {
	case OpStoreSymbol, OpLoadSymbol:
		return SlotOperand
	case OpLoadValue:
		return ConstantOperand
	case OpJump, OpJumpIfTrue, OpJumpIfFalse:
		return TargetOperand
	}
	return NoOperand
}

// IsJump reports whether op transfers control.
func (op Opcode) IsJump() bool { return op.Operand() == TargetOperand }

// Instruction is one stack machine instruction. Arg is ignored by opcodes
// without an operand.
type Instruction struct {
	Op  Opcode
	Arg uint16
}

func (i Instruction) String() string {
	if i.Op.Operand() == NoOperand {
		return i.Op.String()
	}
	return fmt.Sprintf("%s %d", i.Op, i.Arg)
}

var binaryOpcodes = map[ast.BinaryOperator]Opcode{
	ast.Add:              OpBinaryAdd,
	ast.Subtract:         OpBinarySubtract,
	ast.Multiply:         OpBinaryMultiply,
	ast.Divide:           OpBinaryDivide,
	ast.Remainder:        OpBinaryRemainder,
	ast.Power:            OpBinaryPower,
	ast.LessThan:         OpBinaryLessThan,
	ast.LessThanEqual:    OpBinaryLessThanEqual,
	ast.GreaterThan:      OpBinaryGreaterThan,
	ast.GreaterThanEqual: OpBinaryGreaterThanEqual,
	ast.Equal:            OpBinaryEqual,
	ast.NotEqual:         OpBinaryNotEqual,
	ast.LogicalAnd:       OpBinaryLogicalAnd,
	ast.LogicalOr:        OpBinaryLogicalOr,
	ast.LogicalXor:       OpBinaryLogicalXor,
}

// BinaryOperator maps a binary opcode back to its operator.
func (op Opcode) BinaryOperator() (ast.BinaryOperator, bool) {
	if op < OpBinaryAdd || op > OpBinaryLogicalXor {
		return 0, false
	}
	return ast.BinaryOperator(op - OpBinaryAdd), true
}
