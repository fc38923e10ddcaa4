package main

import (
	tea "github.com/charmbracelet/bubbletea"

	druntime "github.com/gosuda/dndlang/runtime"
)

type vmStartedMsg struct {
	vm     *druntime.VM
	events <-chan tea.Msg
}

type vmOutputMsg struct {
	out druntime.Output
}

type vmDoneMsg struct {
	err error
}

type vmPollMsg struct{}
