package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gosuda/dndlang/lexer"
)

// dumpTokens prints every token of the program up to and including the end
// of file token.
func dumpTokens(path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open program: %w", err)
	}
	defer f.Close()

	lx := lexer.New(f)
	for {
		tok, err := lx.NextToken()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, tok)
		if tok.Kind == lexer.EOF {
			return nil
		}
	}
}
