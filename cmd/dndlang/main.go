package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <program.adv>\n", os.Args[0])
		flag.PrintDefaults()
	}
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		exitf("Error: %v", err)
	}

	if cfg.Tokens {
		if err := dumpTokens(cfg.Path, os.Stdout); err != nil {
			exitf("Error: %v", err)
		}
		return
	}

	switch cfg.Mode {
	case modeTUI:
		p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			exitf("tui: %v", err)
		}
	case modeREPL:
		if err := runREPL(cfg, os.Stdout, os.Stderr); err != nil {
			exitf("Error: %v", err)
		}
	default:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ok, err := runPlain(ctx, cfg, os.Stdout, os.Stderr)
		if err != nil {
			exitf("Error: %v", err)
		}
		if !ok {
			stop()
			os.Exit(1)
		}
	}
}
