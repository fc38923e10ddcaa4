package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/gosuda/dndlang"
	druntime "github.com/gosuda/dndlang/runtime"
)

// runPlain executes the program at cfg.Path, writing Log output to out and
// diagnostics to errOut. Cancelling ctx interrupts the running program.
func runPlain(ctx context.Context, cfg Config, out, errOut io.Writer) (bool, error) {
	logger := newLogger(cfg, errOut)

	f, err := os.Open(cfg.Path)
	if err != nil {
		return false, fmt.Errorf("open program: %w", err)
	}
	defer f.Close()

	logger.Printf("parsing %s", cfg.Path)
	in := dndlang.New(f, dndlang.Config{
		Stdout:   out,
		Stderr:   diagnosticWriter(cfg, errOut),
		Seed:     cfg.Seed,
		MaxDepth: cfg.MaxDepth,
	})
	if !in.Usable() {
		ok := in.Execute()
		return ok, nil
	}

	vm := in.VM()
	logger.Printf("loaded %d function(s), %d template(s)", len(in.Program().Functions), len(vm.Templates()))
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			logger.Printf("interrupt received")
			vm.Interrupt()
		case <-done:
		}
	}()

	ok := in.Execute()
	if !ok {
		var rtErr *druntime.Error
		if errors.As(in.Err(), &rtErr) && len(rtErr.Trace) > 0 {
			logger.Printf("call trace (innermost first): %v", rtErr.Trace)
		}
	}
	logger.Printf("finished ok=%v", ok)
	return ok, nil
}

// newLogger returns the verbose trace logger; it discards everything unless
// verbose logging is enabled.
func newLogger(cfg Config, errOut io.Writer) *log.Logger {
	if !cfg.Verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(errOut, "dndlang: ", 0)
}

// diagnosticWriter colors everything written through it when color output
// is enabled.
func diagnosticWriter(cfg Config, errOut io.Writer) io.Writer {
	if !cfg.Color {
		return errOut
	}
	return &colorWriter{w: errOut, c: color.New(color.FgRed, color.Bold)}
}

type colorWriter struct {
	w io.Writer
	c *color.Color
}

func (cw *colorWriter) Write(p []byte) (int, error) {
	if _, err := cw.c.Fprint(cw.w, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
