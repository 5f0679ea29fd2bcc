package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"alloy/pkg/compiler"
)

// DefaultFilename is looked up in the working directory when no -config
// flag is given.
const DefaultFilename = "alloy.yml"

// Color modes for Output.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings shared by alloyc and the REPL.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Compiler CompilerConfig `yaml:"compiler"`
	Output   OutputConfig   `yaml:"output"`
	VM       VMConfig       `yaml:"vm"`
	REPL     REPLConfig     `yaml:"repl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type CompilerConfig struct {
	MaxInstructions int `yaml:"max_instructions"`
	MaxSlots        int `yaml:"max_slots"`
}

type OutputConfig struct {
	Disassemble bool   `yaml:"disassemble"`
	Color       string `yaml:"color"`
}

type VMConfig struct {
	MaxSteps int `yaml:"max_steps"` // 0 disables the limit
}

type REPLConfig struct {
	HistoryFile string `yaml:"history_file"`
	Prompt      string `yaml:"prompt"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Compiler: CompilerConfig{
			MaxInstructions: compiler.MaxInstructions,
			MaxSlots:        compiler.MaxSlots,
		},
		Output: OutputConfig{Color: ColorAuto},
		VM:     VMConfig{MaxSteps: 10_000_000},
		REPL: REPLConfig{
			HistoryFile: "~/.alloy_history",
			Prompt:      ">>> ",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads DefaultFilename from the working directory if it
// exists, and the defaults otherwise.
func LoadDefault() (Config, error) {
	if _, err := os.Stat(DefaultFilename); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to stat config", "path", DefaultFilename, "error", err)
		}
		return Default(), nil
	}
	return Load(DefaultFilename)
}

// Validate rejects limits the instruction encoding cannot represent and
// unknown enumerations.
func (c Config) Validate() error {
	if c.Compiler.MaxInstructions < 1 || c.Compiler.MaxInstructions > compiler.MaxInstructions {
		return fmt.Errorf("compiler.max_instructions must be between 1 and %d, got %d",
			compiler.MaxInstructions, c.Compiler.MaxInstructions)
	}
	if c.Compiler.MaxSlots < 1 || c.Compiler.MaxSlots > compiler.MaxSlots {
		return fmt.Errorf("compiler.max_slots must be between 1 and %d, got %d",
			compiler.MaxSlots, c.Compiler.MaxSlots)
	}
	if c.VM.MaxSteps < 0 {
		return fmt.Errorf("vm.max_steps must not be negative, got %d", c.VM.MaxSteps)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// CompilerOptions converts the compiler section into compiler.Options.
func (c Config) CompilerOptions(logger *slog.Logger) compiler.Options {
	return compiler.Options{
		MaxInstructions: c.Compiler.MaxInstructions,
		MaxSlots:        c.Compiler.MaxSlots,
		Logger:          logger,
	}
}

// SlogLevel maps log.level onto a slog level. Unknown levels map to info.
func (c Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
}

// HistoryPath expands a leading ~ in the REPL history file.
func (c Config) HistoryPath() string {
	p := c.REPL.HistoryFile
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// NewLogger builds the stderr text logger used by the command line tools.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
