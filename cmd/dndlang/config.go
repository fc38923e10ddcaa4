package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

const (
	modePlain = "plain"
	modeTUI   = "tui"
	modeREPL  = "repl"
)

// Config holds command configuration. Environment values are defaults that
// flags override.
type Config struct {
	Mode     string `env:"DNDLANG_MODE"      envDefault:"plain"`
	Seed     int64  `env:"DNDLANG_SEED"`
	MaxDepth int    `env:"DNDLANG_MAX_DEPTH" envDefault:"1000"`
	Color    bool   `env:"DNDLANG_COLOR"     envDefault:"true"`
	Verbose  bool   `env:"DNDLANG_VERBOSE"`
	Tokens   bool   `env:"DNDLANG_TOKENS"`

	// Path is the program file, taken from the first positional argument.
	Path string
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "run mode: plain|tui|repl")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed (0 picks a random seed)")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum function call depth")
	fs.BoolVar(&cfg.Color, "color", cfg.Color, "colorize diagnostics")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.BoolVar(&cfg.Tokens, "tokens", cfg.Tokens, "print the token stream instead of running")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Path = fs.Arg(0)

	switch cfg.Mode {
	case modePlain, modeTUI:
		if cfg.Path == "" {
			return Config{}, errors.New("program path is required")
		}
	case modeREPL:
	default:
		return Config{}, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if cfg.Tokens && cfg.Path == "" {
		return Config{}, errors.New("program path is required")
	}
	return cfg, nil
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
