package compiler

import (
	"fmt"

	"alloy/pkg/ast"
)

func (c *Compiler) statement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Print:
		if err := c.expression(s.Expr); err != nil {
			return err
		}
		return c.emitOp(OpDisplay)

	case *ast.ExpressionStatement:
		if err := c.expression(s.Expr); err != nil {
			return err
		}
		return c.emitOp(OpPop)

	case *ast.Declaration:
		return c.declaration(s)

	case *ast.Assignment:
		sym, ok := c.syms.Get(s.Name)
		if !ok {
			return &CompileError{Kind: UndefinedIdentifier, Name: s.Name}
		}
		if sym.Kind == ast.Constant {
			return &CompileError{Kind: AssignmentToConst, Name: s.Name}
		}
		if err := c.expression(s.Value); err != nil {
			return err
		}
		return c.emitArg(OpStoreSymbol, sym.Slot)

	case *ast.If:
		return c.ifChain(s)

	case *ast.While:
		return c.while(s)

	case *ast.For:
		return c.forLoop(s)

	case *ast.Block:
		c.enterBlock(Block)
		if err := c.statements(s.Body); err != nil {
			return err
		}
		c.exitBlock(Block)
		return nil

	case *ast.Break:
		if _, ok := c.nearestLoop(); !ok {
			return &CompileError{Kind: BreakOutsideLoop}
		}
		ref, err := c.emitJump(OpJump)
		if err != nil {
			return err
		}
		c.targetJumpOnLoopExit(ref)
		return nil

	case *ast.Continue:
		i, ok := c.nearestLoop()
		if !ok {
			return &CompileError{Kind: ContinueOutsideLoop}
		}
		return c.emitJumpTo(OpJump, c.blocks[i].head)
	}
	return fmt.Errorf("unsupported statement %T", stmt)
}

func (c *Compiler) statements(body []ast.Statement) error {
	for _, s := range body {
		if err := c.statement(s); err != nil {
			return err
		}
	}
	return nil
}

// declaration compiles the initializer before registering the name, so an
// initializer cannot refer to the name it initializes.
func (c *Compiler) declaration(s *ast.Declaration) error {
	if s.Init != nil {
		if err := c.expression(s.Init); err != nil {
			return err
		}
	}
	slot, err := c.syms.Register(s.Ident)
	if err != nil {
		return err
	}
	if s.Init == nil {
		return nil
	}
	return c.emitArg(OpStoreSymbol, slot)
}

// ifChain lowers if / else if / else. Every branch that runs jumps to the
// exit of the If block, past the whole chain.
//
//	    <cond 0>
//	    JumpIfFalse next0
//	    <body 0>
//	    Jump exit
//	next0:
//	    <cond 1>
//	    JumpIfFalse next1
//	    <body 1>
//	    Jump exit
//	next1:
//	    <else body>
//	exit:
func (c *Compiler) ifChain(s *ast.If) error {
	c.enterBlock(If)
	branches := append([]ast.Branch{s.Primary}, s.ElseIfs...)
	for _, br := range branches {
		if err := c.expression(br.Cond); err != nil {
			return err
		}
		failed, err := c.emitJump(OpJumpIfFalse)
		if err != nil {
			return err
		}
		if err := c.statements(br.Body); err != nil {
			return err
		}
		exit, err := c.emitJump(OpJump)
		if err != nil {
			return err
		}
		c.targetJumpOnExit(If, exit)
		c.targetJump(failed)
	}
	if s.Else != nil {
		if err := c.statements(s.Else); err != nil {
			return err
		}
	}
	c.exitBlock(If)
	return nil
}

// while lowers a loop whose exit jump is patched when the While block
// closes.
//
//	head:
//	    <cond>
//	    JumpIfFalse exit
//	    <body>
//	    Jump head
//	exit:
func (c *Compiler) while(s *ast.While) error {
	c.enterBlock(While)
	head := c.placeLabel()
	c.setLoopHead(head)
	if err := c.expression(s.Cond); err != nil {
		return err
	}
	exit, err := c.emitJump(OpJumpIfFalse)
	if err != nil {
		return err
	}
	c.targetJumpOnExit(While, exit)
	if err := c.statements(s.Body); err != nil {
		return err
	}
	if err := c.emitJumpTo(OpJump, head); err != nil {
		return err
	}
	c.exitBlock(While)
	return nil
}

// forLoop counts Var from 0 up to, but excluding, the value of Iter. The
// bound is evaluated once into a hidden constant named "for#N".
//
//	    <iter>; StoreSymbol for#N
//	    LoadValue 0; StoreSymbol var
//	    Jump cond
//	head:
//	    LoadSymbol var; LoadValue 1; BinaryAdd; StoreSymbol var
//	cond:
//	    LoadSymbol var; LoadSymbol for#N; BinaryLessThan
//	    JumpIfFalse exit
//	    <body>
//	    Jump head
//	exit:
func (c *Compiler) forLoop(s *ast.For) error {
	c.enterBlock(For)

	if err := c.expression(s.Iter); err != nil {
		return err
	}
	bound, err := c.syms.Register(ast.Identifier{Name: fmt.Sprintf("for#%d", c.forLoops), Kind: ast.Constant})
	if err != nil {
		return err
	}
	c.forLoops++
	if err := c.emitArg(OpStoreSymbol, bound); err != nil {
		return err
	}

	slot, err := c.loopVariable(s.Var)
	if err != nil {
		return err
	}
	if err := c.literal(ast.Integer(0)); err != nil {
		return err
	}
	if err := c.emitArg(OpStoreSymbol, slot); err != nil {
		return err
	}
	skip, err := c.emitJump(OpJump)
	if err != nil {
		return err
	}

	head := c.placeLabel()
	c.setLoopHead(head)
	if err := c.emitArg(OpLoadSymbol, slot); err != nil {
		return err
	}
	if err := c.literal(ast.Integer(1)); err != nil {
		return err
	}
	if err := c.emitOp(OpBinaryAdd); err != nil {
		return err
	}
	if err := c.emitArg(OpStoreSymbol, slot); err != nil {
		return err
	}

	c.targetJump(skip)
	if err := c.emitArg(OpLoadSymbol, slot); err != nil {
		return err
	}
	if err := c.emitArg(OpLoadSymbol, bound); err != nil {
		return err
	}
	if err := c.emitOp(OpBinaryLessThan); err != nil {
		return err
	}
	exit, err := c.emitJump(OpJumpIfFalse)
	if err != nil {
		return err
	}
	c.targetJumpOnExit(For, exit)

	if err := c.statements(s.Body); err != nil {
		return err
	}
	if err := c.emitJumpTo(OpJump, head); err != nil {
		return err
	}
	c.exitBlock(For)
	return nil
}

// loopVariable reuses an existing variable or declares a new one.
func (c *Compiler) loopVariable(id ast.Identifier) (uint16, error) {
	sym, ok := c.syms.Get(id.Name)
	if !ok {
		return c.syms.Register(ast.Identifier{Name: id.Name, Kind: ast.Variable})
	}
	if sym.Kind == ast.Constant {
		return 0, &CompileError{Kind: AssignmentToConst, Name: id.Name}
	}
	return sym.Slot, nil
}

func (c *Compiler) expression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.Literal:
		return c.literal(e.Value)

	case *ast.Name:
		sym, ok := c.syms.Get(e.Name)
		if !ok {
			return &CompileError{Kind: UndefinedIdentifier, Name: e.Name}
		}
		return c.emitArg(OpLoadSymbol, sym.Slot)

	case *ast.Binary:
		if err := c.expression(e.Left); err != nil {
			return err
		}
		if err := c.expression(e.Right); err != nil {
			return err
		}
		op, ok := binaryOpcodes[e.Op]
		if !ok {
			return fmt.Errorf("unsupported binary operator %s", e.Op)
		}
		return c.emitOp(op)

	case *ast.Unary:
		if err := c.expression(e.Operand); err != nil {
			return err
		}
		switch e.Op {
		case ast.Plus:
			return nil
		case ast.Minus:
			return c.emitOp(OpUnaryMinus)
		case ast.Not:
			return c.emitOp(OpUnaryNot)
		}
		return fmt.Errorf("unsupported unary operator %s", e.Op)
	}
	return fmt.Errorf("unsupported expression %T", expr)
}

func (c *Compiler) literal(v ast.Value) error {
	idx, err := c.syms.RegisterValue(v)
	if err != nil {
		return err
	}
	return c.emitArg(OpLoadValue, idx)
}
