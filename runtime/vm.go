package druntime

import (
	"errors"
	"math/rand"
	"time"

	"github.com/edwingeng/deque"
	"github.com/tevino/abool/v2"

	"github.com/gosuda/dndlang/ast"
)

// DefaultMaxDepth bounds nested function calls.
const DefaultMaxDepth = 1000

type Output struct {
	Text    string
	NewLine bool
}

type VM struct {
	program     *ast.Program
	scope       *Scope
	rng         *rand.Rand
	maxDepth    int
	frames      deque.Deque
	interrupted *abool.AtomicBool
	outputs     []Output
	outputHook  func(Output)
	templates   map[string]ast.Template
	order       []string
}

type frame struct {
	fn *ast.Function
}

// New loads the function definitions and templates of program into a fresh
// top-level scope.
func New(program *ast.Program) (*VM, error) {
	seed, err := NewSeed()
	if err != nil {
		seed = time.Now().UnixNano()
	}
	vm := &VM{
		program:     program,
		scope:       NewScope(),
		rng:         rand.New(rand.NewSource(seed)),
		maxDepth:    DefaultMaxDepth,
		frames:      deque.NewDeque(),
		interrupted: abool.NewBool(false),
		templates:   map[string]ast.Template{},
	}
	if err := vm.load(program); err != nil {
		return nil, err
	}
	return vm, nil
}

// load registers the functions and templates of program. Nothing is
// registered unless every name is new.
func (vm *VM) load(program *ast.Program) error {
	funcs := make(map[string]bool, len(program.Functions))
	for _, fn := range program.Functions {
		if _, err := vm.scope.Definition(fn.Name); err == nil || funcs[fn.Name] {
			return errAlreadyDefined(fn.Name, fn.Line())
		}
		funcs[fn.Name] = true
	}
	templates := make(map[string]bool, len(program.Templates))
	for _, t := range program.Templates {
		name := t.TemplateName()
		if _, ok := vm.templates[name]; ok || templates[name] {
			return errAlreadyDefined(name, templateLine(t))
		}
		templates[name] = true
	}

	for _, fn := range program.Functions {
		if err := vm.scope.AddDefinition(fn); err != nil {
			return err
		}
	}
	for _, t := range program.Templates {
		vm.templates[t.TemplateName()] = t
		vm.order = append(vm.order, t.TemplateName())
	}
	return nil
}

func templateLine(t ast.Template) int {
	switch tt := t.(type) {
	case ast.Item:
		return tt.Line()
	case ast.Character:
		return tt.Line()
	default:
		return 0
	}
}

// SetSeed makes dice rolls reproducible.
func (vm *VM) SetSeed(seed int64) {
	vm.rng = rand.New(rand.NewSource(seed))
}

// SetMaxDepth sets the call depth past which a RecursionError is raised.
// Non-positive values restore the default.
func (vm *VM) SetMaxDepth(depth int) {
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	vm.maxDepth = depth
}

// SetOutputHook registers fn to receive every output as it is produced.
func (vm *VM) SetOutputHook(fn func(Output)) {
	vm.outputHook = fn
}

// Interrupt asks a running program to stop before its next instruction. It
// is safe to call from another goroutine.
func (vm *VM) Interrupt() {
	vm.interrupted.Set()
}

func (vm *VM) checkInterrupt() error {
	if !vm.interrupted.IsSet() {
		return nil
	}
	vm.interrupted.UnSet()
	return newError(Interrupted, "Execution interrupted")
}

// Templates returns the registered templates in declaration order.
func (vm *VM) Templates() []ast.Template {
	out := make([]ast.Template, 0, len(vm.order))
	for _, name := range vm.order {
		out = append(out, vm.templates[name])
	}
	return out
}

func (vm *VM) Template(name string) (ast.Template, bool) {
	t, ok := vm.templates[name]
	return t, ok
}

// Globals returns a copy of the top-level variables.
func (vm *VM) Globals() map[string]Value {
	cp := make(map[string]Value, len(vm.scope.vars))
	for k, v := range vm.scope.vars {
		cp[k] = v
	}
	return cp
}

// Run executes the top-level instructions in order. The first error stops the
// run; a return at top level is ignored.
func (vm *VM) Run() ([]Output, error) {
	vm.outputs = vm.outputs[:0]
	if err := vm.runInstructions(vm.program.Instructions); err != nil {
		return append([]Output(nil), vm.outputs...), err
	}
	return append([]Output(nil), vm.outputs...), nil
}

// Eval loads the definitions and templates of program into the running VM and
// executes its instructions against the existing top-level scope.
func (vm *VM) Eval(program *ast.Program) ([]Output, error) {
	vm.outputs = vm.outputs[:0]
	if err := vm.load(program); err != nil {
		return nil, err
	}
	if err := vm.runInstructions(program.Instructions); err != nil {
		return append([]Output(nil), vm.outputs...), err
	}
	return append([]Output(nil), vm.outputs...), nil
}

func (vm *VM) runInstructions(instructions []ast.Statement) error {
	for _, stmt := range instructions {
		if _, err := vm.runStatement(vm.scope, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) emit(out Output) {
	vm.outputs = append(vm.outputs, out)
	if vm.outputHook != nil {
		vm.outputHook(out)
	}
}

// callFunction evaluates the arguments in the caller's scope and runs the
// function body in a child scope.
func (vm *VM) callFunction(scope *Scope, call ast.CallExpr) (Value, error) {
	fn, err := scope.Definition(call.Name)
	if err != nil {
		return Value{}, err
	}
	if len(call.Args) != len(fn.Params) {
		return Value{}, errArgumentCount(len(call.Args), len(fn.Params))
	}
	callee := scope.Child()
	for i, param := range fn.Params {
		v, err := vm.evalExpr(scope, call.Args[i])
		if err != nil {
			return Value{}, err
		}
		if err := callee.AddVariable(param.Name); err != nil {
			return Value{}, err
		}
		if err := callee.SetVariable(param.Name, v); err != nil {
			return Value{}, err
		}
	}
	if vm.frames.Len() >= vm.maxDepth {
		return Value{}, newError(RecursionError, "Recursion limit exceeded")
	}

	vm.frames.PushBack(&frame{fn: fn})
	res, err := vm.runBlock(callee, fn.Body)
	top := vm.frames.PopBack().(*frame)
	if err != nil {
		var rtErr *Error
		if errors.As(err, &rtErr) {
			rtErr.Trace = append(rtErr.Trace, top.fn.Name)
		}
		return Value{}, err
	}
	if res.kind == resultReturn {
		return res.value, nil
	}
	return None(), nil
}

// Depth returns the number of function calls in progress.
func (vm *VM) Depth() int {
	return vm.frames.Len()
}
