package compiler

import (
	"fmt"
	"log/slog"

	"alloy/pkg/ast"
)

// BlockType tags a structured construct while it is being lowered.
type BlockType int

const (
	Block BlockType = iota
	If
	While
	For
)

var blockTypeNames = [...]string{
	Block: "Block",
	If:    "If",
	While: "While",
	For:   "For",
}

func (b BlockType) String() string {
	if int(b) >= 0 && int(b) < len(blockTypeNames) {
		return blockTypeNames[b]
	}
	return fmt.Sprintf("BlockType(%d)", int(b))
}

func (b BlockType) isLoop() bool { return b == While || b == For }

// JumpRef is the address of a jump whose target is not known yet. It must
// be resolved exactly once.
type JumpRef int

// frame is one entry of the block stack. head is the continue target of a
// loop, or -1 until the loop places it.
type frame struct {
	kind BlockType
	head int
}

// Options tunes a Compiler. Zero limits mean the u16 operand bounds.
type Options struct {
	MaxInstructions int
	MaxSlots        int
	Logger          *slog.Logger
}

// DefaultOptions returns the widest limits the instruction encoding allows.
func DefaultOptions() Options {
	return Options{MaxInstructions: MaxInstructions, MaxSlots: MaxSlots}
}

// Compiler lowers statements into one flat instruction stream. Call Compile
// once per top-level statement, then Finish.
type Compiler struct {
	code   []Instruction
	syms   *SymbolTable
	blocks []frame

	// deferred holds the jumps to patch when the block at a given stack
	// depth exits. A frame at index i owns key i.
	deferred map[int][]JumpRef

	// pending tracks every emitted jump that still has a placeholder target.
	pending map[JumpRef]struct{}

	maxInstructions int
	forLoops        int
	log             *slog.Logger
	finished        bool
}

func New(opts Options) *Compiler {
	maxInstr := opts.MaxInstructions
	if maxInstr <= 0 || maxInstr > MaxInstructions {
		maxInstr = MaxInstructions
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		syms:            NewSymbolTable(opts.MaxSlots),
		deferred:        make(map[int][]JumpRef),
		pending:         make(map[JumpRef]struct{}),
		maxInstructions: maxInstr,
		log:             logger,
	}
}

// Compile lowers one top-level statement. On failure the instructions
// already appended for it stay in the buffer as dead code, their open jumps
// are pointed past them, the block stack is restored and the names it
// declared are unbound, so compilation can continue with the next statement.
func (c *Compiler) Compile(stmt ast.Statement) (err error) {
	if c.finished {
		panic("compiler used after Finish")
	}
	depth, firstSlot := len(c.blocks), c.syms.Len()
	defer func() {
		if err != nil {
			c.unwind(depth)
			c.syms.unbindFrom(firstSlot)
			c.log.Debug("statement failed", "stmt", stmt.String(), "error", err)
			return
		}
		if len(c.pending) != 0 {
			panic(fmt.Sprintf("%d unresolved jumps after %s", len(c.pending), stmt))
		}
	}()
	return c.statement(stmt)
}

func (c *Compiler) unwind(depth int) {
	for d := range c.deferred {
		if d >= depth {
			delete(c.deferred, d)
		}
	}
	c.blocks = c.blocks[:depth]
	for ref := range c.pending {
		c.targetJump(ref)
	}
}

// Len returns the number of instructions emitted so far.
func (c *Compiler) Len() int { return len(c.code) }

// Symbols exposes the symbol table for inspection.
func (c *Compiler) Symbols() *SymbolTable { return c.syms }

// Snapshot returns a copy of everything compiled so far without draining
// the compiler.
func (c *Compiler) Snapshot() *CodeObject {
	return &CodeObject{
		Instructions: append([]Instruction(nil), c.code...),
		Constants:    c.syms.Constants(),
		Names:        c.syms.Names(),
	}
}

// Finish drains the compiler into a CodeObject. The compiler is unusable
// afterwards.
func (c *Compiler) Finish() *CodeObject {
	constants, names := c.syms.Finish()
	code := &CodeObject{Instructions: c.code, Constants: constants, Names: names}
	c.code = nil
	c.finished = true
	return code
}

//  Jump engine

func (c *Compiler) emit(instr Instruction) error {
	if len(c.code) >= c.maxInstructions {
		return &CompileError{Kind: InstructionLimitReached}
	}
	c.code = append(c.code, instr)
	return nil
}

func (c *Compiler) emitOp(op Opcode) error {
	return c.emit(Instruction{Op: op})
}

func (c *Compiler) emitArg(op Opcode, arg uint16) error {
	return c.emit(Instruction{Op: op, Arg: arg})
}

// emitJump emits a jump with placeholder target 0.
func (c *Compiler) emitJump(op Opcode) (JumpRef, error) {
	if !op.IsJump() {
		panic(fmt.Sprintf("emitJump with non-jump opcode %s", op))
	}
	ref := JumpRef(len(c.code))
	if err := c.emitArg(op, 0); err != nil {
		return 0, err
	}
	c.pending[ref] = struct{}{}
	return ref, nil
}

// emitJumpTo emits a jump to an address that is already known.
func (c *Compiler) emitJumpTo(op Opcode, target int) error {
	return c.emitArg(op, uint16(target))
}

// placeLabel returns the address of the next instruction.
func (c *Compiler) placeLabel() int { return len(c.code) }

// targetJump points ref at the next instruction.
func (c *Compiler) targetJump(ref JumpRef) {
	if _, ok := c.pending[ref]; !ok {
		panic(fmt.Sprintf("jump at %d resolved twice or never emitted", int(ref)))
	}
	delete(c.pending, ref)
	c.code[ref].Arg = uint16(len(c.code))
}

func (c *Compiler) enterBlock(kind BlockType) {
	c.blocks = append(c.blocks, frame{kind: kind, head: -1})
}

// exitBlock pops kind and resolves every jump deferred to its exit.
func (c *Compiler) exitBlock(kind BlockType) {
	top := len(c.blocks) - 1
	if top < 0 || c.blocks[top].kind != kind {
		panic(fmt.Sprintf("exitBlock(%s) does not match the block stack", kind))
	}
	c.blocks = c.blocks[:top]
	for _, ref := range c.deferred[top] {
		c.targetJump(ref)
	}
	delete(c.deferred, top)
}

// setLoopHead records the continue target of the innermost block.
func (c *Compiler) setLoopHead(addr int) {
	c.blocks[len(c.blocks)-1].head = addr
}

// targetJumpOnExit defers ref to the exit of the nearest enclosing block of
// the given kind.
func (c *Compiler) targetJumpOnExit(kind BlockType, ref JumpRef) {
	for i := len(c.blocks) - 1; i >= 0; i-- {
		if c.blocks[i].kind == kind {
			c.deferred[i] = append(c.deferred[i], ref)
			return
		}
	}
	panic(fmt.Sprintf("no enclosing %s block", kind))
}

// nearestLoop returns the stack index of the innermost While or For frame.
func (c *Compiler) nearestLoop() (int, bool) {
	for i := len(c.blocks) - 1; i >= 0; i-- {
		if c.blocks[i].kind.isLoop() {
			return i, true
		}
	}
	return 0, false
}

// targetJumpOnLoopExit defers ref to the exit of the innermost loop.
func (c *Compiler) targetJumpOnLoopExit(ref JumpRef) bool {
	i, ok := c.nearestLoop()
	if !ok {
		return false
	}
	c.deferred[i] = append(c.deferred[i], ref)
	return true
}
