package parser

import (
	"io"
	"strings"

	"github.com/gosuda/dndlang/ast"
	"github.com/gosuda/dndlang/lexer"
)

// ParseProgram lexes and parses a whole source stream.
func ParseProgram(r io.Reader) (*ast.Program, error) {
	return New(lexer.New(r)).Parse()
}

func ParseString(src string) (*ast.Program, error) {
	return ParseProgram(strings.NewReader(src))
}
