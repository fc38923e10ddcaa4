package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	druntime "github.com/gosuda/dndlang/runtime"
)

func TestModelCollectsOutput(t *testing.T) {
	var m tea.Model = newModel(Config{Path: "game.adv"})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m, _ = m.Update(vmOutputMsg{out: druntime.Output{Text: "a", NewLine: false}})
	m, _ = m.Update(vmOutputMsg{out: druntime.Output{Text: "b", NewLine: true}})
	m, _ = m.Update(vmOutputMsg{out: druntime.Output{Text: "c", NewLine: true}})
	mm := m.(model)
	if strings.Join(mm.history, "|") != "ab|c" || mm.tail != "" {
		t.Fatalf("unexpected history %q tail %q", mm.history, mm.tail)
	}
	if !strings.Contains(mm.View(), "game.adv") {
		t.Fatalf("status line missing from view")
	}
}

func TestModelDone(t *testing.T) {
	var m tea.Model = newModel(Config{Path: "game.adv"})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m, _ = m.Update(vmDoneMsg{err: errors.New("boom")})
	mm := m.(model)
	if mm.status != "failed" || mm.running {
		t.Fatalf("unexpected state %q running=%v", mm.status, mm.running)
	}
	if len(mm.history) != 1 || !strings.Contains(mm.history[0], "boom") {
		t.Fatalf("error not shown: %q", mm.history)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit when idle")
	}
}

func TestModelInterruptsRunningVM(t *testing.T) {
	path := writeProgram(t, "while (1 < 2) { }")
	vm, err := compileFile(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	var m tea.Model = newModel(Config{Path: path})
	m, _ = m.Update(vmStartedMsg{vm: vm})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd != nil {
		t.Fatal("ctrl+c should interrupt instead of quitting")
	}
	if m.(model).status != "interrupting" {
		t.Fatalf("unexpected status %q", m.(model).status)
	}
	if _, err := vm.Run(); druntime.KindOf(err) != druntime.Interrupted {
		t.Fatalf("expected interruption, got %v", err)
	}
}
