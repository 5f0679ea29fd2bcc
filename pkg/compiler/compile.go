package compiler

import (
	"fmt"
	"log/slog"

	"alloy/pkg/builder"
	"alloy/pkg/grammar"
)

// CompileSource runs the whole pipeline over src: grammar, AST builders and
// compiler. It stops at the first failing statement.
func CompileSource(src string, opts Options) (*CodeObject, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tree, err := grammar.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	stmts, err := builder.New().BuildProgram(tree)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	logger.Debug("built program", "statements", len(stmts))

	c := New(opts)
	for i, stmt := range stmts {
		if err := c.Compile(stmt); err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	code := c.Finish()
	logger.Debug("compiled program",
		"instructions", len(code.Instructions),
		"constants", len(code.Constants),
		"symbols", len(code.Names))
	return code, nil
}
