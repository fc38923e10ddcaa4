package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

type ErrorKind string

const (
	DiceLiteralError   ErrorKind = "DiceLiteralError"
	StringLiteralError ErrorKind = "StringLiteralError"
	ReadError          ErrorKind = "ReadError"
)

// Error is a fatal lexical error. Lexing does not recover from it.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     Position
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s, %s", e.Kind, e.Message, e.Pos)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Lexer turns a character stream into tokens, one per NextToken call.
type Lexer struct {
	reader *Reader
}

func New(r io.Reader) *Lexer {
	return &Lexer{reader: NewReader(r)}
}

// Position reports the reader position after the last consumed character.
func (l *Lexer) Position() Position {
	return l.reader.Position()
}

func (l *Lexer) NextToken() (Token, error) {
	c := l.nextNonWhitespace()
	pos := l.reader.Position()
	switch {
	case c == eof:
		if err := l.reader.Err(); err != nil {
			return Token{}, &Error{Kind: ReadError, Message: err.Error(), Pos: pos, Cause: err}
		}
		return Token{Kind: EOF, Pos: pos}, nil
	case isWordChar(c):
		return l.keywordOrIdentifier(c, pos), nil
	case isDigit(c):
		return l.numberOrDice(c, pos)
	case c == '"':
		return l.stringLiteral(pos)
	default:
		return l.special(c, pos), nil
	}
}

// Tokens lexes the remaining input, including the trailing EOF token.
func (l *Lexer) Tokens() ([]Token, error) {
	var out []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out, nil
		}
	}
}

func (l *Lexer) nextNonWhitespace() rune {
	c := l.reader.NextChar()
	for c != eof && unicode.IsSpace(c) {
		c = l.reader.NextChar()
	}
	return c
}

func (l *Lexer) keywordOrIdentifier(first rune, pos Position) Token {
	var b strings.Builder
	b.WriteRune(first)
	for isWordChar(l.reader.Peek()) {
		b.WriteRune(l.reader.NextChar())
	}
	word := b.String()
	if kind, ok := keywords[word]; ok {
		return Token{Kind: kind, Pos: pos}
	}
	return Token{Kind: Identifier, Value: word, Pos: pos}
}

func (l *Lexer) numberOrDice(first rune, pos Position) (Token, error) {
	count := string(first) + l.digits()
	if pc := l.reader.Peek(); pc != 'd' && pc != 'D' {
		return Token{Kind: NumberLiteral, Value: count, Pos: pos}, nil
	}
	l.reader.NextChar()
	faces := l.digits()
	if faces == "" {
		return Token{}, &Error{
			Kind:    DiceLiteralError,
			Message: "Dice literal without the amount of faces",
			Pos:     l.reader.Position(),
		}
	}
	return Token{Kind: DiceLiteral, Value: count + "d" + faces, Pos: pos}, nil
}

func (l *Lexer) digits() string {
	var b strings.Builder
	for isDigit(l.reader.Peek()) {
		b.WriteRune(l.reader.NextChar())
	}
	return b.String()
}

func (l *Lexer) stringLiteral(start Position) (Token, error) {
	var b strings.Builder
	for {
		switch pc := l.reader.Peek(); pc {
		case '"':
			l.reader.NextChar()
			return Token{Kind: StringLiteral, Value: b.String(), Pos: start}, nil
		case eof:
			return Token{}, &Error{
				Kind:    StringLiteralError,
				Message: "String opening without closing",
				Pos:     start,
			}
		default:
			b.WriteRune(l.reader.NextChar())
		}
	}
}

func (l *Lexer) special(c rune, pos Position) Token {
	tok := func(kind Kind) Token { return Token{Kind: kind, Pos: pos} }
	switch c {
	case '+':
		if l.accept('=') {
			return tok(IncreasesBy)
		}
		return tok(Plus)
	case '*':
		if l.accept('=') {
			return tok(MultipliesBy)
		}
		return tok(Asterisk)
	case '>':
		if l.accept('>') {
			return tok(AttackMove)
		}
		if l.accept('=') {
			return tok(MoreOrEqual)
		}
		return tok(MoreThan)
	case '<':
		if l.accept('=') {
			return tok(LessOrEqual)
		}
		return tok(LessThan)
	case '=':
		if l.accept('=') {
			return tok(Equals)
		}
		return tok(Assign)
	}
	if kind, ok := punctuation[c]; ok {
		return tok(kind)
	}
	return Token{Kind: Unknown, Value: string(c), Pos: pos}
}

// accept consumes the next character if it equals want.
func (l *Lexer) accept(want rune) bool {
	if l.reader.Peek() != want {
		return false
	}
	l.reader.NextChar()
	return true
}

func isWordChar(r rune) bool {
	return r != eof && (unicode.IsLetter(r) || r == '_')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
