package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestSessionKeepsState(t *testing.T) {
	var out, errOut bytes.Buffer
	s, err := newSession(Config{Seed: 3}, &out, &errOut)
	if err != nil {
		t.Fatal(err)
	}
	inputs := []string{
		"Number hp;",
		"hp = 10;",
		"function heal(x) {\n  return x + 5;\n}",
		"hp = heal(hp);",
		"? hp;",
	}
	for _, in := range inputs {
		if s.handle(in) {
			t.Fatalf("%q should not exit", in)
		}
	}
	if out.String() != "15\n" || errOut.Len() != 0 {
		t.Fatalf("unexpected output %q / %q", out.String(), errOut.String())
	}
}

func TestSessionReportsErrorsAndContinues(t *testing.T) {
	var out, errOut bytes.Buffer
	s, err := newSession(Config{}, &out, &errOut)
	if err != nil {
		t.Fatal(err)
	}
	s.handle("a = 1;")
	s.handle("item { }")
	s.handle(`? "still here";`)
	stderr := errOut.String()
	if !strings.Contains(stderr, "UndeclaredVariableError") || !strings.Contains(stderr, "UnexpectedTokenError") {
		t.Fatalf("unexpected diagnostics %q", stderr)
	}
	if out.String() != "still here\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSessionCommands(t *testing.T) {
	path := writeProgram(t, "item Gold { value: 1 }\ncharacter Hero { health: 3 }\nNumber n;\nn = 2;\n")
	var out, errOut bytes.Buffer
	s, err := newSession(Config{Path: path}, &out, &errOut)
	if err != nil {
		t.Fatal(err)
	}
	s.handle(":templates")
	s.handle(":vars")
	s.handle(":bogus")
	want := "item Gold\ncharacter Hero\nn = 2\nunknown command. Commands: :templates, :vars, :quit\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
	if !s.handle(":quit") {
		t.Fatal(":quit should exit")
	}
}
