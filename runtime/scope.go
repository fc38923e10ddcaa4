package druntime

import (
	"sort"

	"github.com/gosuda/dndlang/ast"
)

// Definitions is the function table of a program. One table is shared by
// every scope of a run.
type Definitions struct {
	funcs map[string]*ast.Function
}

func newDefinitions() *Definitions {
	return &Definitions{funcs: map[string]*ast.Function{}}
}

// Scope holds the variables of the top level or of one function call.
type Scope struct {
	vars map[string]Value
	defs *Definitions
}

func NewScope() *Scope {
	return &Scope{vars: map[string]Value{}, defs: newDefinitions()}
}

// Child returns an empty scope sharing s's definitions.
func (s *Scope) Child() *Scope {
	return &Scope{vars: map[string]Value{}, defs: s.defs}
}

func (s *Scope) AddVariable(name string) error {
	if _, ok := s.vars[name]; ok {
		return newError(MultipleNameError, "Name '%s' is already defined", name)
	}
	s.vars[name] = None()
	return nil
}

func (s *Scope) SetVariable(name string, v Value) error {
	if _, ok := s.vars[name]; !ok {
		return newError(UndeclaredVariableError, "Variable '%s' is not declared", name)
	}
	s.vars[name] = v
	return nil
}

func (s *Scope) Variable(name string) (Value, error) {
	v, ok := s.vars[name]
	if !ok {
		return Value{}, newError(UndeclaredVariableError, "Variable '%s' is not declared", name)
	}
	return v, nil
}

// Names returns the declared variable names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scope) AddDefinition(fn *ast.Function) error {
	if _, ok := s.defs.funcs[fn.Name]; ok {
		return errAlreadyDefined(fn.Name, fn.Line())
	}
	s.defs.funcs[fn.Name] = fn
	return nil
}

func (s *Scope) Definition(name string) (*ast.Function, error) {
	fn, ok := s.defs.funcs[name]
	if !ok {
		return nil, newError(NameError, "Name '%s' is not defined", name)
	}
	return fn, nil
}
