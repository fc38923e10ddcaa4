package parser

import (
	"strconv"
	"strings"

	"github.com/gosuda/dndlang/ast"
	"github.com/gosuda/dndlang/lexer"
)

var primaryStart = []lexer.Kind{
	lexer.RoundOpen, lexer.Identifier, lexer.Caret, lexer.NumberLiteral, lexer.DiceLiteral,
}

// parseAssignable parses anything allowed on the right of `=`, after `?` and
// `return`, as a call argument, or as a condition operand.
func (p *Parser) parseAssignable() (ast.Expr, error) {
	if p.peek(lexer.StringLiteral) {
		tok, err := p.accept(lexer.StringLiteral)
		if err != nil {
			return nil, err
		}
		return ast.StringLit{Value: tok.Value}, nil
	}
	return p.parseExpression()
}

// parseExpression parses the additive tier. Single operands are returned
// as-is instead of being wrapped.
func (p *Parser) parseExpression() (ast.Expr, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	expr := ast.Expression{Operands: []ast.Expr{first}}
	for p.peek(lexer.Plus, lexer.Minus) {
		opTok, err := p.accept(lexer.Plus, lexer.Minus)
		if err != nil {
			return nil, err
		}
		operand, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr.Operators = append(expr.Operators, arithOp(opTok.Kind))
		expr.Operands = append(expr.Operands, operand)
	}
	return collapse(expr), nil
}

// parseTerm parses the multiplicative tier.
func (p *Parser) parseTerm() (ast.Expr, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	expr := ast.Expression{Operands: []ast.Expr{first}}
	for p.peek(lexer.Asterisk, lexer.Slash) {
		opTok, err := p.accept(lexer.Asterisk, lexer.Slash)
		if err != nil {
			return nil, err
		}
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		expr.Operators = append(expr.Operators, arithOp(opTok.Kind))
		expr.Operands = append(expr.Operands, operand)
	}
	return collapse(expr), nil
}

func collapse(e ast.Expression) ast.Expr {
	if len(e.Operators) == 0 {
		return e.Operands[0]
	}
	return e
}

func arithOp(k lexer.Kind) ast.ArithOp {
	switch k {
	case lexer.Plus:
		return ast.OpAdd
	case lexer.Minus:
		return ast.OpSub
	case lexer.Asterisk:
		return ast.OpMul
	default:
		return ast.OpDiv
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok, err := p.accept(primaryStart...)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case lexer.RoundOpen:
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.accept(lexer.RoundClose); err != nil {
			return nil, err
		}
		return e, nil
	case lexer.Identifier:
		if p.peek(lexer.RoundOpen) {
			p.accept(lexer.RoundOpen)
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return ast.CallExpr{Name: tok.Value, Args: args}, nil
		}
		return ast.VarRef{Name: tok.Value}, nil
	case lexer.Caret:
		operand, err := p.accept(lexer.DiceLiteral, lexer.Identifier)
		if err != nil {
			return nil, err
		}
		if operand.Kind == lexer.Identifier {
			return ast.DiceRoll{Operand: ast.VarRef{Name: operand.Value}}, nil
		}
		d, err := diceLiteral(operand)
		if err != nil {
			return nil, err
		}
		return ast.DiceRoll{Operand: d}, nil
	case lexer.NumberLiteral:
		n, err := numberLiteral(tok)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		d, err := diceLiteral(tok)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// parseCallArgs parses the argument list after an opening parenthesis has
// been consumed, including the closing parenthesis.
func (p *Parser) parseCallArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.peek(lexer.RoundClose) {
		_, err := p.accept(lexer.RoundClose)
		return args, err
	}
	for {
		arg, err := p.parseAssignable()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		sep, err := p.accept(lexer.Comma, lexer.RoundClose)
		if err != nil {
			return nil, err
		}
		if sep.Kind == lexer.RoundClose {
			return args, nil
		}
	}
}

func numberLiteral(tok lexer.Token) (ast.NumberLit, error) {
	v, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return ast.NumberLit{}, &Error{Message: "invalid number literal '" + tok.Value + "'", Pos: tok.Pos, Cause: err}
	}
	return ast.NumberLit{Value: v}, nil
}

func diceLiteral(tok lexer.Token) (ast.DiceLit, error) {
	count, faces, _ := strings.Cut(tok.Value, "d")
	c, err := strconv.Atoi(count)
	if err != nil {
		return ast.DiceLit{}, &Error{Message: "invalid dice literal '" + tok.Value + "'", Pos: tok.Pos, Cause: err}
	}
	f, err := strconv.Atoi(faces)
	if err != nil {
		return ast.DiceLit{}, &Error{Message: "invalid dice literal '" + tok.Value + "'", Pos: tok.Pos, Cause: err}
	}
	return ast.DiceLit{Count: c, Faces: f}, nil
}
