package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"alloy/pkg/builder"
	"alloy/pkg/compiler"
	"alloy/pkg/config"
	"alloy/pkg/grammar"
	"alloy/pkg/termui"
	"alloy/pkg/vm"
)

const continuationPrompt = "... "

var commands = []string{":dis", ":symbols", ":quit"}

// session keeps one compiler and one machine alive across inputs. Each
// accepted statement is appended to the same code buffer and run from its
// first instruction, so variables persist between lines.
type session struct {
	cfg        config.Config
	compiler   *compiler.Compiler
	machine    *vm.Machine
	statements *builder.StatementBuilder
	color      bool
	out        io.Writer
	errOut     io.Writer
}

func newSession(cfg config.Config, logger *slog.Logger, out, errOut io.Writer, color bool) *session {
	c := compiler.New(cfg.CompilerOptions(logger))
	m := vm.New(c.Snapshot())
	m.Output = out
	m.Logger = logger
	return &session{
		cfg:        cfg,
		compiler:   c,
		machine:    m,
		statements: builder.New(),
		color:      color,
		out:        out,
		errOut:     errOut,
	}
}

func (s *session) fail(err error) {
	fmt.Fprintln(s.errOut, termui.Error(err.Error(), s.color))
}

// eval compiles and runs one chunk of source. It returns false when the
// session should end.
func (s *session) eval(src string) bool {
	switch strings.TrimSpace(src) {
	case "":
		return true
	case ":quit", "exit":
		return false
	case ":dis":
		fmt.Fprint(s.out, termui.Disassembly(s.compiler.Snapshot(), s.color))
		return true
	case ":symbols":
		fmt.Fprint(s.out, s.compiler.Symbols())
		return true
	}

	tree, err := grammar.Parse(src)
	if err != nil {
		s.fail(err)
		return true
	}
	stmts, err := s.statements.BuildProgram(tree)
	if err != nil {
		s.fail(err)
		return true
	}
	for _, stmt := range stmts {
		start := s.compiler.Len()
		if err := s.compiler.Compile(stmt); err != nil {
			s.fail(err)
			return true
		}
		s.machine.Load(s.compiler.Snapshot())
		s.machine.Jump(start)
		s.machine.Stack = s.machine.Stack[:0]
		if err := s.machine.RunLimit(s.cfg.VM.MaxSteps); err != nil {
			s.fail(err)
			return true
		}
	}
	return true
}

// unbalanced reports whether src has more opening braces than closing ones,
// meaning the user is still typing a block.
func unbalanced(src string) bool {
	return strings.Count(src, "{") > strings.Count(src, "}")
}

func main() {
	configPath := flag.String("config", "", "YAML config file (default: "+config.DefaultFilename+" if present)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	var (
		cfg config.Config
		err error
	)
	if *configPath == "" {
		cfg, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level := cfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := config.NewLogger(level)

	s := newSession(cfg, logger, os.Stdout, os.Stderr, termui.UseColor(cfg.Output.Color, os.Stdout))

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(in string) []string {
		var out []string
		for _, c := range commands {
			if strings.HasPrefix(c, in) {
				out = append(out, c)
			}
		}
		return out
	})

	historyPath := cfg.HistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}

	var buf strings.Builder
	for {
		prompt := cfg.REPL.Prompt
		if buf.Len() > 0 {
			prompt = continuationPrompt
		}
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			buf.Reset()
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Error("reading input", "error", err)
			}
			break
		}

		buf.WriteString(input)
		buf.WriteByte('\n')
		if unbalanced(buf.String()) {
			continue
		}
		src := buf.String()
		buf.Reset()
		if strings.TrimSpace(src) != "" {
			line.AppendHistory(strings.TrimSpace(src))
		}
		if !s.eval(src) {
			break
		}
	}

	if historyPath != "" {
		if f, err := os.Create(historyPath); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		} else {
			logger.Warn("saving history", "path", historyPath, "error", err)
		}
	}
}
