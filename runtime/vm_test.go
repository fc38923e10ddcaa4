package druntime

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gosuda/dndlang/ast"
	"github.com/gosuda/dndlang/parser"
)

func newVM(t *testing.T, src string) *VM {
	t.Helper()
	prog, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	vm, err := New(prog)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	vm.SetSeed(1)
	return vm
}

func runLines(t *testing.T, src string) []string {
	t.Helper()
	out, err := newVM(t, src).Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	lines := make([]string, len(out))
	for i, o := range out {
		lines[i] = o.Text
	}
	return lines
}

func runErr(t *testing.T, src string) *Error {
	t.Helper()
	_, err := newVM(t, src).Run()
	var rtErr *Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	return rtErr
}

func TestExpressionPrecedenceYieldsFloat(t *testing.T) {
	vm := newVM(t, "Number i; i = 2 + 2 / (2 * 2) + 1;")
	if _, err := vm.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	got := vm.Globals()["i"]
	if got.Kind() != FloatKind || got.Float64() != 3.5 {
		t.Fatalf("unexpected value: %v (%s)", got, got.Kind())
	}
}

func TestArithmeticKinds(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"? 1 + 2 * 3;", "7"},
		{"? 7 - 2 - 1;", "4"},
		{"? 4 / 2;", "2.0"},
		{"? 1 / 4;", "0.25"},
		{"? (1 + 2) * 3;", "9"},
		{"? 1 / 2 * 4;", "2.0"},
		{"? 10 - 4 / 8;", "9.5"},
	}
	for _, tt := range tests {
		lines := runLines(t, tt.src)
		if len(lines) != 1 || lines[0] != tt.want {
			t.Fatalf("%s: got %v, want %s", tt.src, lines, tt.want)
		}
	}
}

func TestLogValues(t *testing.T) {
	lines := runLines(t, `Thing s; ? s; s = "text"; ? s; s = 3d6; ? s; ? "literal";`)
	want := []string{"None", "text", "3d6", "literal"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestDiceRollWithinBounds(t *testing.T) {
	vm := newVM(t, "Dice d; d = 2d6; Number r; Number i; i = 0; while (i < 200) { r = ^d + ^1d4; i = i + 1; ? r; }")
	out, err := vm.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(out) != 200 {
		t.Fatalf("unexpected output count %d", len(out))
	}
	for _, o := range out {
		var n int
		for _, c := range o.Text {
			if c < '0' || c > '9' {
				t.Fatalf("roll is not an integer: %q", o.Text)
			}
			n = n*10 + int(c-'0')
		}
		if n < 3 || n > 16 {
			t.Fatalf("roll out of range: %d", n)
		}
	}
}

func TestSeedMakesRollsReproducible(t *testing.T) {
	src := "? ^10d20; ? ^10d20;"
	a := runLines(t, src)
	b := runLines(t, src)
	if strings.Join(a, ",") != strings.Join(b, ",") {
		t.Fatalf("same seed gave %v and %v", a, b)
	}
}

func TestWhileReevaluatesCondition(t *testing.T) {
	lines := runLines(t, "Number i; i = 0; while (i < 5) { ? i; i = i + 1; } ? i;")
	if strings.Join(lines, ",") != "0,1,2,3,4,5" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestIfElse(t *testing.T) {
	lines := runLines(t, `Number a; a = 3; if (a >= 3) { ? "yes"; } else { ? "no"; } if (a == 4) { ? "four"; } else { ? "other"; } if (a < 0) { ? "neg"; }`)
	if strings.Join(lines, ",") != "yes,other" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestReturnShortCircuitsNestedBlocks(t *testing.T) {
	src := `
function find(limit) {
	Number i;
	i = 0;
	while (i < 100) {
		if (i == limit) {
			while (1 < 2) {
				return i * 10;
			}
		}
		i = i + 1;
	}
	return 0 - 1;
}
? find(7);
? find(200);
`
	lines := runLines(t, src)
	if strings.Join(lines, ",") != "70,-1" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestTopLevelReturnIsIgnored(t *testing.T) {
	lines := runLines(t, `? "a"; return 1; ? "b";`)
	if strings.Join(lines, ",") != "a,b" {
		t.Fatalf("unexpected output %v", lines)
	}
	lines = runLines(t, `? "a"; Number x; x = 1; if (x == 1) { return 0; } ? "b";`)
	if strings.Join(lines, ",") != "a,b" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestFunctionWithoutReturnYieldsNone(t *testing.T) {
	lines := runLines(t, `function greet(name) { ? name; } ? greet("Bob");`)
	if strings.Join(lines, ",") != "Bob,None" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestArgumentsEvaluatedInCallerScope(t *testing.T) {
	src := `
function inc(n) { return n + 1; }
function twice(n) { return inc(inc(n)); }
Number n;
n = 5;
? twice(n * 2);
? n;
`
	lines := runLines(t, src)
	if strings.Join(lines, ",") != "12,5" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestCallScopeIsIsolated(t *testing.T) {
	e := runErr(t, "Number g; g = 1; function peek() { return g; } ? peek();")
	if e.Kind != UndeclaredVariableError || e.Message != "Variable 'g' is not declared" {
		t.Fatalf("unexpected error %v", e)
	}
	if len(e.Trace) != 1 || e.Trace[0] != "peek" {
		t.Fatalf("unexpected trace %v", e.Trace)
	}
}

func TestRecursion(t *testing.T) {
	src := `
function fib(n) {
	if (n < 2) { return n; }
	return fib(n - 1) + fib(n - 2);
}
? fib(15);
`
	lines := runLines(t, src)
	if strings.Join(lines, ",") != "610" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestRecursionLimit(t *testing.T) {
	vm := newVM(t, "function loop(n) { return loop(n + 1); }\nloop(0);")
	vm.SetMaxDepth(50)
	_, err := vm.Run()
	var rtErr *Error
	if !errors.As(err, &rtErr) || rtErr.Kind != RecursionError {
		t.Fatalf("expected recursion error, got %v", err)
	}
	if rtErr.Error() != "RecursionError: Recursion limit exceeded, line 1" {
		t.Fatalf("unexpected message %q", rtErr.Error())
	}
	if len(rtErr.Trace) != 50 {
		t.Fatalf("unexpected trace depth %d", len(rtErr.Trace))
	}
	if vm.Depth() != 0 {
		t.Fatalf("frames left on the stack: %d", vm.Depth())
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind ErrorKind
		msg  string
	}{
		{"duplicate declaration", "Number a;\nNumber a;", MultipleNameError, "MultipleNameError: Name 'a' is already defined, line 2"},
		{"undeclared write", "a = 1;", UndeclaredVariableError, "UndeclaredVariableError: Variable 'a' is not declared, line 1"},
		{"undeclared read", "Number a;\na = b + 1;", UndeclaredVariableError, "UndeclaredVariableError: Variable 'b' is not declared, line 2"},
		{"undefined function", "\nmissing(1);", NameError, "NameError: Name 'missing' is not defined, line 2"},
		{"missing argument", "function f(a, b) { return a; }\nf(1);", ArgumentError, "ArgumentError: Function call missing 1 argument, line 2"},
		{"missing arguments", "function f(a, b) { return a; }\nf();", ArgumentError, "ArgumentError: Function call missing 2 arguments, line 2"},
		{"extra argument", "function f(a) { return a; }\nf(1, 2);", ArgumentError, "ArgumentError: Function call has 1 extra argument, line 2"},
		{"string arithmetic", `Text s; s = "a"; s = s + 1;`, TypeError, "TypeError: Attempted arithmetic operation on unsupported type, line 1"},
		{"dice arithmetic", "? 1 + 2d6;", TypeError, "TypeError: Attempted arithmetic operation on unsupported type, line 1"},
		{"string ordering", `if ("a" < "b") { }`, TypeError, "TypeError: Attempted comparison on unsupported type, line 1"},
		{"roll number", "Number n; n = 3; ? ^n;", TypeError, "TypeError: Attempted to roll a value of type int, line 1"},
		{"zero faces", "? ^2d0;", TypeError, "TypeError: Cannot roll 2d0, line 1"},
		{"division by zero", "? 1 / (2 - 2);", ZeroDivisionError, "ZeroDivisionError: division by zero, line 1"},
	}
	for _, tt := range tests {
		e := runErr(t, tt.src)
		if e.Kind != tt.kind {
			t.Fatalf("%s: kind %s, want %s", tt.name, e.Kind, tt.kind)
		}
		if e.Error() != tt.msg {
			t.Fatalf("%s: message %q, want %q", tt.name, e.Error(), tt.msg)
		}
	}
}

func TestErrorReportsInnermostLine(t *testing.T) {
	src := "function f() {\n  Number x;\n  return y;\n}\n\n? f();"
	e := runErr(t, src)
	if e.Line != 3 {
		t.Fatalf("line %d, want 3", e.Line)
	}
}

func TestErrorStopsRun(t *testing.T) {
	vm := newVM(t, `? "before"; a = 1; ? "after";`)
	out, err := vm.Run()
	if err == nil {
		t.Fatal("expected error")
	}
	if len(out) != 1 || out[0].Text != "before" {
		t.Fatalf("unexpected output %v", out)
	}
}

func TestUnknownLine(t *testing.T) {
	e := &Error{Kind: TypeError, Message: "boom"}
	if e.Error() != "TypeError: boom, line unknown" {
		t.Fatalf("unexpected message %q", e.Error())
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	e := runErr(t, "a = 1;")
	if !errors.Is(e, &Error{Kind: UndeclaredVariableError}) {
		t.Fatal("errors.Is should match on kind")
	}
	if errors.Is(e, &Error{Kind: NameError}) {
		t.Fatal("errors.Is should not match another kind")
	}
	if KindOf(e) != UndeclaredVariableError {
		t.Fatalf("unexpected kind %s", KindOf(e))
	}
}

func TestStringEquality(t *testing.T) {
	lines := runLines(t, `Text s; s = "hi"; if (s == "hi") { ? "same"; } if (s == 1) { ? "never"; } if (2 == 4 / 2) { ? "numeric"; }`)
	if strings.Join(lines, ",") != "same,numeric" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestAttackMoveIsNoOp(t *testing.T) {
	lines := runLines(t, `Knight a; Orc b; a >> b; ? "done";`)
	if strings.Join(lines, ",") != "done" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestDuplicateFunctionRejectedAtLoad(t *testing.T) {
	prog, err := parser.ParseString("function f() { }\n\nfunction f() { }")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = New(prog)
	if err == nil || err.Error() != "MultipleNameError: Name 'f' is already defined, line 3" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestTemplatesRegisteredInOrder(t *testing.T) {
	vm := newVM(t, "item Gold { value: 1 } character Hero { health: 10 } item Shield { }")
	var names []string
	for _, tmpl := range vm.Templates() {
		names = append(names, tmpl.TemplateName())
	}
	if strings.Join(names, ",") != "Gold,Hero,Shield" {
		t.Fatalf("unexpected templates %v", names)
	}
	tmpl, ok := vm.Template("Hero")
	if !ok {
		t.Fatal("Hero should be registered")
	}
	if ch, ok := tmpl.(ast.Character); !ok || ch.Health.Base != 10 {
		t.Fatalf("unexpected template %+v", tmpl)
	}
}

func TestOutputHook(t *testing.T) {
	vm := newVM(t, `? 1; ? "two";`)
	var got []Output
	vm.SetOutputHook(func(o Output) { got = append(got, o) })
	if _, err := vm.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(got) != 2 || got[1].Text != "two" || !got[1].NewLine {
		t.Fatalf("unexpected hook output %+v", got)
	}
}

func TestInterrupt(t *testing.T) {
	vm := newVM(t, "while (1 < 2) { }")
	vm.Interrupt()
	_, err := vm.Run()
	if KindOf(err) != Interrupted {
		t.Fatalf("expected interruption, got %v", err)
	}
}

func TestInterruptFromHook(t *testing.T) {
	vm := newVM(t, "Number i; i = 0; while (i < 1000) { ? i; i = i + 1; }")
	vm.SetOutputHook(func(o Output) {
		if o.Text == "9" {
			vm.Interrupt()
		}
	})
	out, err := vm.Run()
	if KindOf(err) != Interrupted {
		t.Fatalf("expected interruption, got %v", err)
	}
	if len(out) != 10 {
		t.Fatalf("unexpected output count %d", len(out))
	}
}

func TestEvalKeepsState(t *testing.T) {
	vm := newVM(t, "Number total; total = 1;")
	if _, err := vm.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	chunks := []string{
		"function add(a, b) { return a + b; }",
		"total = add(total, 41);",
		"? total;",
	}
	var last []Output
	for _, src := range chunks {
		prog, err := parser.ParseString(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		last, err = vm.Eval(prog)
		if err != nil {
			t.Fatalf("eval %q: %v", src, err)
		}
	}
	if len(last) != 1 || last[0].Text != "42" {
		t.Fatalf("unexpected output %+v", last)
	}
}

func TestFailedEvalRegistersNothing(t *testing.T) {
	vm := newVM(t, "function f() { return 1; }")
	prog, err := parser.ParseString("function g() { return 2; }\nitem Sword { }\nfunction f() { return 3; }")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = vm.Eval(prog)
	var rtErr *Error
	if !errors.As(err, &rtErr) || rtErr.Kind != MultipleNameError || rtErr.Line != 3 {
		t.Fatalf("unexpected error %v", err)
	}
	if _, ok := vm.Template("Sword"); ok {
		t.Fatal("Sword should not be registered")
	}
	if _, err := vm.scope.Definition("g"); KindOf(err) != NameError {
		t.Fatalf("g should not be registered: %v", err)
	}

	prog, err = parser.ParseString("item Sword { }\nitem Sword { }")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := vm.Eval(prog); KindOf(err) != MultipleNameError {
		t.Fatalf("duplicate template in one chunk: %v", err)
	}
	if len(vm.Templates()) != 0 {
		t.Fatalf("unexpected templates %v", vm.Templates())
	}
}

func TestIntArithOverflow(t *testing.T) {
	tests := []struct {
		op   ast.ArithOp
		x, y int64
		want int64
		ok   bool
	}{
		{ast.OpAdd, 2, 3, 5, true},
		{ast.OpAdd, math.MaxInt64, 1, 0, false},
		{ast.OpAdd, math.MinInt64, -1, 0, false},
		{ast.OpAdd, math.MaxInt64, math.MinInt64, -1, true},
		{ast.OpSub, math.MinInt64, 1, 0, false},
		{ast.OpSub, 0, math.MinInt64, 0, false},
		{ast.OpSub, -1, math.MaxInt64, math.MinInt64, true},
		{ast.OpMul, 3037000500, 3037000500, 0, false},
		{ast.OpMul, -1, math.MinInt64, 0, false},
		{ast.OpMul, math.MinInt64, 1, math.MinInt64, true},
		{ast.OpMul, 0, math.MinInt64, 0, true},
	}
	for _, tt := range tests {
		got, ok := intArith(tt.op, tt.x, tt.y)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("%d %s %d: got (%d, %v), want (%d, %v)", tt.x, tt.op, tt.y, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOverflowFallsBackToFloat(t *testing.T) {
	lines := runLines(t, "? 9223372036854775807 + 1; ? 9223372036854775807 - 1;")
	if strings.Join(lines, ",") != "9.223372036854776e+18,9223372036854775806" {
		t.Fatalf("unexpected output %v", lines)
	}
}
