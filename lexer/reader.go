package lexer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Position is a location in the source. Lines start at 1, columns at 0;
// Column counts the characters consumed on the current line.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, char %d", p.Line, p.Column)
}

// eof is returned by NextChar and Peek once the input is exhausted.
const eof rune = -1

// Reader wraps a character stream with one character of lookahead.
type Reader struct {
	src     io.RuneReader
	pos     Position
	peeked  rune
	hasPeek bool
	err     error
}

func NewReader(r io.Reader) *Reader {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return &Reader{src: rr, pos: Position{Line: 1, Column: 0}}
}

// NextChar consumes the next character and advances the position.
// It returns eof at the end of input.
func (r *Reader) NextChar() rune {
	c := r.Peek()
	r.hasPeek = false
	if c == eof {
		return eof
	}
	if c == '\n' {
		r.pos.Line++
		r.pos.Column = 0
	} else {
		r.pos.Column++
	}
	return c
}

// Peek returns the next character without consuming it.
func (r *Reader) Peek() rune {
	if r.hasPeek {
		return r.peeked
	}
	r.peeked = r.read()
	r.hasPeek = true
	return r.peeked
}

func (r *Reader) read() rune {
	if r.err != nil {
		return eof
	}
	c, _, err := r.src.ReadRune()
	if err != nil {
		r.err = err
		return eof
	}
	return c
}

// Position reports where the next character will be read from.
func (r *Reader) Position() Position {
	return r.pos
}

// Err returns the first non-EOF read failure, if any.
func (r *Reader) Err() error {
	if errors.Is(r.err, io.EOF) {
		return nil
	}
	return r.err
}
