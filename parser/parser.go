package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/dndlang/ast"
	"github.com/gosuda/dndlang/lexer"
)

// UnexpectedTokenError reports a token outside the set the grammar allows at
// that point. Parsing stops at the first one.
type UnexpectedTokenError struct {
	Expected []lexer.Kind
	Got      lexer.Token
}

func (e *UnexpectedTokenError) Error() string {
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	return fmt.Sprintf("UnexpectedTokenError: expected: [%s]; got: %s '%s', %s",
		strings.Join(names, ", "), e.Got.Kind, e.Got.Value, e.Got.Pos)
}

// Error is a syntactically well-formed token the parser cannot use, such as a
// number literal that overflows.
type Error struct {
	Message string
	Pos     lexer.Position
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("SyntaxError: %s, %s", e.Message, e.Pos)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsIncomplete reports whether err was caused by the input ending early, so
// that more input could still make it parse.
func IsIncomplete(err error) bool {
	var unexpected *UnexpectedTokenError
	if errors.As(err, &unexpected) {
		return unexpected.Got.Kind == lexer.EOF
	}
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return lexErr.Kind == lexer.StringLiteralError
	}
	return false
}

var (
	statementStart = []lexer.Kind{
		lexer.Item, lexer.Character, lexer.Function, lexer.Identifier,
		lexer.While, lexer.If, lexer.QuestionMark, lexer.Return, lexer.EOF,
	}
	instructionStart = []lexer.Kind{
		lexer.Identifier, lexer.While, lexer.If, lexer.QuestionMark, lexer.Return,
	}
	afterIdentifier = []lexer.Kind{
		lexer.Assign, lexer.RoundOpen, lexer.Identifier, lexer.AttackMove,
	}
	compareOps = []lexer.Kind{
		lexer.LessThan, lexer.MoreThan, lexer.LessOrEqual, lexer.MoreOrEqual, lexer.Equals,
	}
)

// Parser is a recursive-descent parser with one token of lookahead.
type Parser struct {
	lx       *lexer.Lexer
	buffered *lexer.Token
	err      error
}

func New(lx *lexer.Lexer) *Parser {
	return &Parser{lx: lx}
}

// Parse consumes the whole token stream.
func (p *Parser) Parse() (*ast.Program, error) {
	p.buffered = nil
	prog := &ast.Program{}
	for {
		tok, err := p.accept(statementStart...)
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.EOF:
			return prog, nil
		case lexer.Item:
			item, err := p.parseItem(tok)
			if err != nil {
				return nil, err
			}
			prog.Templates = append(prog.Templates, item)
		case lexer.Character:
			ch, err := p.parseCharacter(tok)
			if err != nil {
				return nil, err
			}
			prog.Templates = append(prog.Templates, ch)
		case lexer.Function:
			fn, err := p.parseFunction(tok)
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, fn)
		default:
			st, err := p.parseInstruction(tok)
			if err != nil {
				return nil, err
			}
			prog.Instructions = append(prog.Instructions, st)
		}
	}
}

func (p *Parser) next() (lexer.Token, error) {
	if p.buffered != nil {
		tok := *p.buffered
		p.buffered = nil
		return tok, nil
	}
	return p.lx.NextToken()
}

// accept consumes the next token, which must be one of kinds.
func (p *Parser) accept(kinds ...lexer.Kind) (lexer.Token, error) {
	if p.err != nil {
		return lexer.Token{}, p.err
	}
	tok, err := p.next()
	if err != nil {
		p.err = err
		return lexer.Token{}, err
	}
	if !oneOf(tok.Kind, kinds) {
		return lexer.Token{}, &UnexpectedTokenError{Expected: kinds, Got: tok}
	}
	return tok, nil
}

// peek reports whether the next token is one of kinds without consuming it.
// A lexer failure makes peek report false; the following accept returns it.
func (p *Parser) peek(kinds ...lexer.Kind) bool {
	if p.err != nil {
		return false
	}
	if p.buffered == nil {
		tok, err := p.lx.NextToken()
		if err != nil {
			p.err = err
			return false
		}
		p.buffered = &tok
	}
	return oneOf(p.buffered.Kind, kinds)
}

func oneOf(k lexer.Kind, kinds []lexer.Kind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func (p *Parser) parseFunction(kw lexer.Token) (*ast.Function, error) {
	name, err := p.accept(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.accept(lexer.RoundOpen); err != nil {
		return nil, err
	}
	var params []ast.VarRef
	if p.peek(lexer.RoundClose) {
		p.accept(lexer.RoundClose)
	} else {
		for {
			param, err := p.accept(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.VarRef{Name: param.Value})
			sep, err := p.accept(lexer.Comma, lexer.RoundClose)
			if err != nil {
				return nil, err
			}
			if sep.Kind == lexer.RoundClose {
				break
			}
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		Node:   ast.Node{LineNo: kw.Pos.Line},
		Name:   name.Value,
		Params: params,
		Body:   body,
	}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.accept(lexer.CurlyOpen); err != nil {
		return nil, err
	}
	block := &ast.Block{}
	for !p.peek(lexer.CurlyClose) {
		tok, err := p.accept(instructionStart...)
		if err != nil {
			return nil, err
		}
		st, err := p.parseInstruction(tok)
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, st)
	}
	if _, err := p.accept(lexer.CurlyClose); err != nil {
		return nil, err
	}
	return block, nil
}

// parseInstruction parses the instruction introduced by the already consumed
// token tok.
func (p *Parser) parseInstruction(tok lexer.Token) (ast.Statement, error) {
	node := ast.Node{LineNo: tok.Pos.Line}
	switch tok.Kind {
	case lexer.Identifier:
		st, err := p.parseIdentifierStatement(tok, node)
		if err != nil {
			return nil, err
		}
		return st, p.semicolon()
	case lexer.While:
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.WhileStmt{Node: node, Cond: cond, Body: body}, nil
	case lexer.If:
		return p.parseIf(node)
	case lexer.QuestionMark:
		e, err := p.parseAssignable()
		if err != nil {
			return nil, err
		}
		return ast.LogStmt{Node: node, Expr: e}, p.semicolon()
	case lexer.Return:
		e, err := p.parseAssignable()
		if err != nil {
			return nil, err
		}
		return ast.ReturnStmt{Node: node, Expr: e}, p.semicolon()
	default:
		return nil, &UnexpectedTokenError{Expected: instructionStart, Got: tok}
	}
}

func (p *Parser) semicolon() error {
	_, err := p.accept(lexer.Semicolon)
	return err
}

// parseIdentifierStatement disambiguates declaration, assignment, call and
// attack move by the token following the identifier.
func (p *Parser) parseIdentifierStatement(ident lexer.Token, node ast.Node) (ast.Statement, error) {
	tok, err := p.accept(afterIdentifier...)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case lexer.Assign:
		e, err := p.parseAssignable()
		if err != nil {
			return nil, err
		}
		return ast.AssignStmt{Node: node, Target: ast.VarRef{Name: ident.Value}, Expr: e}, nil
	case lexer.RoundOpen:
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return ast.CallStmt{Node: node, Call: ast.CallExpr{Name: ident.Value, Args: args}}, nil
	case lexer.Identifier:
		return ast.DeclStmt{Node: node, TypeName: ident.Value, Var: ast.VarRef{Name: tok.Value}}, nil
	default:
		defender, err := p.accept(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		return ast.AttackStmt{
			Node:     node,
			Attacker: ast.VarRef{Name: ident.Value},
			Defender: ast.VarRef{Name: defender.Value},
		}, nil
	}
}

func (p *Parser) parseIf(node ast.Node) (ast.Statement, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	st := ast.IfStmt{Node: node, Cond: cond, Body: body}
	if p.peek(lexer.Else) {
		p.accept(lexer.Else)
		st.Else, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (p *Parser) parseCondition() (ast.Condition, error) {
	if _, err := p.accept(lexer.RoundOpen); err != nil {
		return ast.Condition{}, err
	}
	left, err := p.parseAssignable()
	if err != nil {
		return ast.Condition{}, err
	}
	opTok, err := p.accept(compareOps...)
	if err != nil {
		return ast.Condition{}, err
	}
	right, err := p.parseAssignable()
	if err != nil {
		return ast.Condition{}, err
	}
	if _, err := p.accept(lexer.RoundClose); err != nil {
		return ast.Condition{}, err
	}
	return ast.Condition{Left: left, Op: compareOp(opTok.Kind), Right: right}, nil
}

func compareOp(k lexer.Kind) ast.CompareOp {
	switch k {
	case lexer.LessThan:
		return ast.OpLess
	case lexer.MoreThan:
		return ast.OpGreater
	case lexer.LessOrEqual:
		return ast.OpLessEqual
	case lexer.MoreOrEqual:
		return ast.OpGreaterEqual
	default:
		return ast.OpEqual
	}
}
