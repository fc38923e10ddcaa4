package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/gosuda/dndlang"
	"github.com/gosuda/dndlang/ast"
	"github.com/gosuda/dndlang/parser"
	druntime "github.com/gosuda/dndlang/runtime"
)

const (
	promptMain  = "adv> "
	promptCont  = "...> "
	historyFile = ".dndlang_history"
)

// session is the state of one REPL: a VM whose top-level scope persists
// across inputs.
type session struct {
	vm     *druntime.VM
	out    io.Writer
	errOut io.Writer
	red    func(a ...any) string
}

func newSession(cfg Config, out, errOut io.Writer) (*session, error) {
	var vm *druntime.VM
	if cfg.Path != "" {
		f, err := os.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open program: %w", err)
		}
		defer f.Close()
		vm, err = dndlang.Compile(f)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		vm, err = druntime.New(&ast.Program{})
		if err != nil {
			return nil, err
		}
	}
	if cfg.Seed != 0 {
		vm.SetSeed(cfg.Seed)
	}
	vm.SetMaxDepth(cfg.MaxDepth)

	red := fmt.Sprint
	if cfg.Color {
		red = color.New(color.FgRed).SprintFunc()
	}
	s := &session{vm: vm, out: out, errOut: errOut, red: red}
	vm.SetOutputHook(func(o druntime.Output) {
		if o.NewLine {
			fmt.Fprintln(out, o.Text)
			return
		}
		fmt.Fprint(out, o.Text)
	})
	if cfg.Path != "" {
		if _, err := vm.Run(); err != nil {
			fmt.Fprintln(errOut, s.red(err.Error()))
		}
	}
	return s, nil
}

// handle runs one complete input. It reports whether the REPL should exit.
func (s *session) handle(code string) (exit bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	if strings.HasPrefix(code, ":") {
		switch strings.ToLower(code) {
		case ":quit", ":q":
			return true
		case ":templates":
			for _, t := range s.vm.Templates() {
				fmt.Fprintln(s.out, describeTemplate(t))
			}
		case ":vars":
			globals := s.vm.Globals()
			names := make([]string, 0, len(globals))
			for name := range globals {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(s.out, "%s = %s\n", name, globals[name])
			}
		default:
			fmt.Fprintln(s.out, "unknown command. Commands: :templates, :vars, :quit")
		}
		return false
	}
	prog, err := parser.ParseString(code)
	if err != nil {
		fmt.Fprintln(s.errOut, s.red(err.Error()))
		return false
	}
	if _, err := s.vm.Eval(prog); err != nil {
		fmt.Fprintln(s.errOut, s.red(err.Error()))
	}
	return false
}

func describeTemplate(t ast.Template) string {
	switch tt := t.(type) {
	case ast.Item:
		return "item " + tt.Name
	case ast.Character:
		return "character " + tt.Name
	default:
		return t.TemplateName()
	}
}

func runREPL(cfg Config, out, errOut io.Writer) error {
	s, err := newSession(cfg, out, errOut)
	if err != nil {
		return err
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(code) != "" {
			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		}
		if s.handle(code) {
			return nil
		}
	}
}

// readByParseProbe keeps reading lines while the collected input is a
// prefix of a valid program.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := parser.ParseString(src); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
