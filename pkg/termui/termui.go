// Package termui renders compiler output for terminals.
package termui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"alloy/pkg/compiler"
	"alloy/pkg/config"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// UseColor resolves a color mode against the file output goes to.
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return os.Getenv("NO_COLOR") == "" && IsTerminal(f)
}

var (
	addrStyle     = ansi.Style{}.Faint()
	mnemonicStyle = ansi.Style{}.Bold()
	jumpStyle     = ansi.Style{}.Bold().ForegroundColor(ansi.Magenta)
	symbolStyle   = ansi.Style{}.ForegroundColor(ansi.Cyan)
	constantStyle = ansi.Style{}.ForegroundColor(ansi.Yellow)
	errorStyle    = ansi.Style{}.Bold().ForegroundColor(ansi.Red)
)

// Disassembly renders code one instruction per line. With color off the
// output equals code.String().
func Disassembly(code *compiler.CodeObject, color bool) string {
	var sb strings.Builder
	for _, l := range code.Disassemble() {
		sb.WriteString(Line(l, color))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Line renders one disassembly row.
func Line(l compiler.DisasmLine, color bool) string {
	if !color {
		return l.String()
	}
	addr := addrStyle.Styled(fmt.Sprintf("%4d", l.Addr))
	style := mnemonicStyle
	if l.Op.IsJump() {
		style = jumpStyle
	}
	mnemonic := style.Styled(l.Op.String())
	if l.Operand == compiler.NoOperand {
		return addr + "  " + mnemonic
	}
	mnemonic = pad(mnemonic, compiler.MnemonicWidth)

	switch l.Operand {
	case compiler.SlotOperand:
		return fmt.Sprintf("%s  %s %d (%s)", addr, mnemonic, l.Arg, symbolStyle.Styled(l.Ref))
	case compiler.ConstantOperand:
		return fmt.Sprintf("%s  %s %d (%s)", addr, mnemonic, l.Arg, constantStyle.Styled(l.Ref))
	}
	return fmt.Sprintf("%s  %s %d", addr, mnemonic, l.Arg)
}

// Error styles an error message for the terminal.
func Error(msg string, color bool) string {
	if !color {
		return msg
	}
	return errorStyle.Styled(msg)
}

// pad right-pads s to width display cells, ignoring escape sequences.
func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Plain removes any styling from s.
func Plain(s string) string { return ansi.Strip(s) }
