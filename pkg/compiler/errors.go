package compiler

import "fmt"

// ErrorKind enumerates every way compiling a statement can fail.
type ErrorKind int

const (
	Redefinition ErrorKind = iota + 1
	UndefinedIdentifier
	AssignmentToConst
	BreakOutsideLoop
	ContinueOutsideLoop
	VariableLimitReached
	InstructionLimitReached
)

var errorKindNames = [...]string{
	Redefinition:            "Redefinition",
	UndefinedIdentifier:     "UndefinedIdentifier",
	AssignmentToConst:       "AssignmentToConst",
	BreakOutsideLoop:        "BreakOutsideLoop",
	ContinueOutsideLoop:     "ContinueOutsideLoop",
	VariableLimitReached:    "VariableLimitReached",
	InstructionLimitReached: "InstructionLimitReached",
}

func (k ErrorKind) String() string {
	if k > 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// CompileError is returned by Compiler.Compile. Name is set for the kinds
// that concern a particular identifier.
type CompileError struct {
	Kind ErrorKind
	Name string
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case Redefinition:
		return fmt.Sprintf("redefinition of %q", e.Name)
	case UndefinedIdentifier:
		return fmt.Sprintf("undefined identifier %q", e.Name)
	case AssignmentToConst:
		if e.Name != "" {
			return fmt.Sprintf("cannot assign to constant %q", e.Name)
		}
		return "cannot assign to constant"
	case BreakOutsideLoop:
		return "break statement outside of loop"
	case ContinueOutsideLoop:
		return "continue statement outside of loop"
	case VariableLimitReached:
		return "variable limit reached"
	case InstructionLimitReached:
		return "instruction limit reached"
	}
	return e.Kind.String()
}

// Is matches another *CompileError of the same kind. A target without a name
// matches every name, so errors.Is(err, ErrRedefinition) works for any
// redefinition.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Name == "" || t.Name == e.Name)
}

// Sentinels for errors.Is.
var (
	ErrRedefinition            = &CompileError{Kind: Redefinition}
	ErrUndefinedIdentifier     = &CompileError{Kind: UndefinedIdentifier}
	ErrAssignmentToConst       = &CompileError{Kind: AssignmentToConst}
	ErrBreakOutsideLoop        = &CompileError{Kind: BreakOutsideLoop}
	ErrContinueOutsideLoop     = &CompileError{Kind: ContinueOutsideLoop}
	ErrVariableLimitReached    = &CompileError{Kind: VariableLimitReached}
	ErrInstructionLimitReached = &CompileError{Kind: InstructionLimitReached}
)
