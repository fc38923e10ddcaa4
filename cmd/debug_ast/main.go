package main

import (
	"fmt"
	"os"

	"github.com/gosuda/dndlang/ast"
	"github.com/gosuda/dndlang/parser"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <program.adv>\n", os.Args[0])
		os.Exit(2)
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	prog, err := parser.ParseProgram(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := ast.Fprint(os.Stdout, prog); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
