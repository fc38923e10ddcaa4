package druntime

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorKind names a runtime error category. It is printed as the prefix of
// the diagnostic.
type ErrorKind string

const (
	TypeError               ErrorKind = "TypeError"
	RecursionError          ErrorKind = "RecursionError"
	ArgumentError           ErrorKind = "ArgumentError"
	NameError               ErrorKind = "NameError"
	MultipleNameError       ErrorKind = "MultipleNameError"
	UndeclaredVariableError ErrorKind = "UndeclaredVariableError"
	ZeroDivisionError       ErrorKind = "ZeroDivisionError"
	Interrupted             ErrorKind = "Interrupted"
)

// Error is a runtime failure. Line is the source line of the innermost
// instruction executing when it happened, or 0 when unknown.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	// Trace lists the functions being executed, innermost first.
	Trace []string
	Cause error
}

func (e *Error) Error() string {
	line := "unknown"
	if e.Line > 0 {
		line = strconv.Itoa(e.Line)
	}
	return fmt.Sprintf("%s: %s, line %s", e.Kind, e.Message, line)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the runtime error in err's chain, or "" if
// there is none.
func KindOf(err error) ErrorKind {
	var rtErr *Error
	if errors.As(err, &rtErr) {
		return rtErr.Kind
	}
	return ""
}

// atLine stamps err with line unless an inner instruction already did.
func atLine(err error, line int) error {
	var rtErr *Error
	if errors.As(err, &rtErr) && rtErr.Line == 0 {
		rtErr.Line = line
	}
	return err
}

func errAlreadyDefined(name string, line int) *Error {
	e := newError(MultipleNameError, "Name '%s' is already defined", name)
	e.Line = line
	return e
}

func errUnsupportedArithmetic() *Error {
	return newError(TypeError, "Attempted arithmetic operation on unsupported type")
}

func errArgumentCount(args, params int) *Error {
	diff := params - args
	format := "Function call missing %d %s"
	if diff < 0 {
		diff = -diff
		format = "Function call has %d extra %s"
	}
	noun := "argument"
	if diff > 1 {
		noun = "arguments"
	}
	return newError(ArgumentError, format, diff, noun)
}
