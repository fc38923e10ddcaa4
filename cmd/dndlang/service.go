package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gosuda/dndlang"
	druntime "github.com/gosuda/dndlang/runtime"
)

// compileFile parses and loads the program named by cfg.
func compileFile(cfg Config) (*druntime.VM, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open program: %w", err)
	}
	defer f.Close()

	vm, err := dndlang.Compile(f)
	if err != nil {
		return nil, err
	}
	if cfg.Seed != 0 {
		vm.SetSeed(cfg.Seed)
	}
	vm.SetMaxDepth(cfg.MaxDepth)
	return vm, nil
}

// runVM runs vm to completion, forwarding every output and the final result
// to events.
func runVM(vm *druntime.VM, events chan<- tea.Msg) {
	defer close(events)
	vm.SetOutputHook(func(out druntime.Output) {
		events <- vmOutputMsg{out: out}
	})
	_, err := vm.Run()
	events <- vmDoneMsg{err: err}
}
