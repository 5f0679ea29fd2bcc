package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"alloy/pkg/compiler"
	"alloy/pkg/config"
	"alloy/pkg/termui"
	"alloy/pkg/vm"
)

// codeExt is the extension of compiled code archives.
const codeExt = ".alc"

func main() {
	inPath := flag.String("in", "", "input source file path")
	outPath := flag.String("out", "", "output code file path (default: input with "+codeExt+" extension)")
	runProgram := flag.Bool("run", false, "run the compiled program after writing it")
	runBinPath := flag.String("run-bin", "", "run an existing code file")
	disassemble := flag.Bool("dis", false, "print the disassembly of the compiled or loaded code")
	configPath := flag.String("config", "", "YAML config file (default: "+config.DefaultFilename+" if present)")
	maxSteps := flag.Int("max-steps", -1, "abort a run after this many instructions (0 = unlimited)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level := cfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := config.NewLogger(level)
	slog.SetDefault(logger)

	if *maxSteps >= 0 {
		cfg.VM.MaxSteps = *maxSteps
	}
	if *disassemble {
		cfg.Output.Disassemble = true
	}
	color := termui.UseColor(cfg.Output.Color, os.Stdout)

	if *runProgram && *runBinPath != "" {
		fmt.Fprintln(os.Stderr, "use either -run or -run-bin, not both")
		os.Exit(2)
	}

	if batch := flag.Args(); len(batch) > 0 {
		if *inPath != "" || *runProgram || *runBinPath != "" {
			fmt.Fprintln(os.Stderr, "positional files are compiled in batch mode and cannot be combined with -in, -run or -run-bin")
			os.Exit(2)
		}
		if err := compileBatch(batch, cfg, logger); err != nil {
			fmt.Fprintln(os.Stderr, termui.Error(err.Error(), color))
			os.Exit(1)
		}
		return
	}

	if *inPath == "" && *runBinPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in to compile, -run to run the compiled output, or -run-bin <file> to run an existing code file")
		flag.Usage()
		os.Exit(2)
	}

	var code *compiler.CodeObject
	if *inPath != "" {
		code, err = compileFile(*inPath, cfg, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, termui.Error(fmt.Sprintf("compilation failed: %v", err), color))
			os.Exit(1)
		}

		output := *outPath
		if output == "" {
			output = defaultOutputPath(*inPath)
		}
		if err := code.WriteFile(output); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write code file %q: %v\n", output, err)
			os.Exit(1)
		}
		fmt.Printf("compiled %d instructions, %d constants -> %s\n", len(code.Instructions), len(code.Constants), output)
	}

	if *runBinPath != "" {
		code, err = compiler.ReadFile(*runBinPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load code file %q: %v\n", *runBinPath, err)
			os.Exit(1)
		}
	}

	if cfg.Output.Disassemble {
		fmt.Print(termui.Disassembly(code, color))
	}

	if !*runProgram && *runBinPath == "" {
		return
	}
	if err := runCode(code, cfg.VM.MaxSteps, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, termui.Error(fmt.Sprintf("run failed: %v", err), color))
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + codeExt
	}
	return strings.TrimSuffix(inPath, ext) + codeExt
}

func compileFile(path string, cfg config.Config, logger *slog.Logger) (*compiler.CodeObject, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source %q: %w", path, err)
	}
	return compiler.CompileSource(string(source), cfg.CompilerOptions(logger.With("file", path)))
}

// compileBatch compiles every file next to its source. A progress bar is
// shown when stderr is a terminal; all failures are reported together.
func compileBatch(paths []string, cfg config.Config, logger *slog.Logger) error {
	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("compiling"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(termui.IsTerminal(os.Stderr)),
	)

	var errs []error
	for _, path := range paths {
		bar.Describe(filepath.Base(path))
		code, err := compileFile(path, cfg, logger)
		if err == nil {
			err = code.WriteFile(defaultOutputPath(path))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			logger.Debug("batch compile failed", "file", path, "error", err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	logger.Info("batch compile finished", "files", len(paths), "failed", len(errs))
	return errors.Join(errs...)
}

func runCode(code *compiler.CodeObject, maxSteps int, out io.Writer) error {
	m := vm.New(code)
	m.Output = out
	if err := m.RunLimit(maxSteps); err != nil {
		return err
	}
	slog.Debug("run complete", "steps", m.Steps, "stack", len(m.Stack))
	return nil
}
