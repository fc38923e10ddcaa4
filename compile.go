package dndlang

import (
	"fmt"
	"io"
	"os"

	"github.com/gosuda/dndlang/ast"
	"github.com/gosuda/dndlang/parser"
	druntime "github.com/gosuda/dndlang/runtime"
)

// Compile parses a program and builds a VM instance.
func Compile(r io.Reader) (*druntime.VM, error) {
	program, err := parser.ParseProgram(r)
	if err != nil {
		return nil, err
	}
	return druntime.New(program)
}

// Parse only returns AST program for tooling use.
func Parse(r io.Reader) (*ast.Program, error) {
	return parser.ParseProgram(r)
}

// Config controls an Interpreter. Zero values select os.Stdout, os.Stderr,
// a random seed and the default call depth.
type Config struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Seed     int64
	MaxDepth int
}

// Interpreter parses a program once and executes it on demand.
type Interpreter struct {
	cfg     Config
	program *ast.Program
	vm      *druntime.VM
	err     error
}

// New reads and parses the whole program from r. A lexical or syntax error
// is written to the error channel right away and leaves the interpreter
// unusable.
func New(r io.Reader, cfg Config) *Interpreter {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	in := &Interpreter{cfg: cfg}
	program, err := parser.ParseProgram(r)
	if err != nil {
		in.err = err
		fmt.Fprintln(cfg.Stderr, err)
		return in
	}
	in.program = program
	vm, err := druntime.New(program)
	if err != nil {
		in.err = err
		return in
	}
	if cfg.Seed != 0 {
		vm.SetSeed(cfg.Seed)
	}
	vm.SetMaxDepth(cfg.MaxDepth)
	vm.SetOutputHook(func(out druntime.Output) {
		if out.NewLine {
			fmt.Fprintln(cfg.Stdout, out.Text)
			return
		}
		fmt.Fprint(cfg.Stdout, out.Text)
	})
	in.vm = vm
	return in
}

// Usable reports whether the program parsed and loaded.
func (in *Interpreter) Usable() bool {
	return in.vm != nil
}

// Err returns the error of the last failed step, if any.
func (in *Interpreter) Err() error {
	return in.err
}

// Program returns the parsed program, or nil when parsing failed.
func (in *Interpreter) Program() *ast.Program {
	return in.program
}

// VM returns the loaded VM, or nil when the interpreter is unusable.
func (in *Interpreter) VM() *druntime.VM {
	return in.vm
}

// Execute runs the top-level instructions. The first runtime error is
// written to the error channel and makes Execute report false.
func (in *Interpreter) Execute() bool {
	if in.vm == nil {
		if in.program != nil && in.err != nil {
			fmt.Fprintln(in.cfg.Stderr, in.err)
		}
		return false
	}
	if _, err := in.vm.Run(); err != nil {
		in.err = err
		fmt.Fprintln(in.cfg.Stderr, err)
		return false
	}
	in.err = nil
	return true
}
