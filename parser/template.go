package parser

import (
	"github.com/gosuda/dndlang/ast"
	"github.com/gosuda/dndlang/lexer"
)

var (
	itemFields = []lexer.Kind{
		lexer.Health, lexer.Attack, lexer.Defence, lexer.Desc, lexer.Value,
	}
	characterFields = []lexer.Kind{
		lexer.Health, lexer.Attack, lexer.Defence, lexer.Level, lexer.Reqexp,
		lexer.Exp, lexer.Equipped, lexer.Inventory, lexer.Reward,
	}
)

func (p *Parser) parseItem(kw lexer.Token) (ast.Item, error) {
	name, err := p.accept(lexer.Identifier)
	if err != nil {
		return ast.Item{}, err
	}
	item := ast.Item{Node: ast.Node{LineNo: kw.Pos.Line}, Name: name.Value}
	if _, err := p.accept(lexer.CurlyOpen); err != nil {
		return ast.Item{}, err
	}
	for p.peek(itemFields...) {
		field, err := p.accept(itemFields...)
		if err != nil {
			return ast.Item{}, err
		}
		if _, err := p.accept(lexer.Colon); err != nil {
			return ast.Item{}, err
		}
		if field.Kind == lexer.Desc {
			tok, err := p.accept(lexer.StringLiteral)
			if err != nil {
				return ast.Item{}, err
			}
			item.Desc = &ast.StringLit{Value: tok.Value}
			continue
		}
		n, err := p.parseNumber()
		if err != nil {
			return ast.Item{}, err
		}
		switch field.Kind {
		case lexer.Health:
			item.Health = &n
		case lexer.Attack:
			item.Attack = &n
		case lexer.Defence:
			item.Defence = &n
		case lexer.Value:
			item.Value = &n
		}
	}
	if _, err := p.accept(lexer.CurlyClose); err != nil {
		return ast.Item{}, err
	}
	return item, nil
}

func (p *Parser) parseCharacter(kw lexer.Token) (ast.Character, error) {
	name, err := p.accept(lexer.Identifier)
	if err != nil {
		return ast.Character{}, err
	}
	ch := ast.Character{Node: ast.Node{LineNo: kw.Pos.Line}, Name: name.Value}
	if _, err := p.accept(lexer.CurlyOpen); err != nil {
		return ast.Character{}, err
	}
	for p.peek(characterFields...) {
		field, err := p.accept(characterFields...)
		if err != nil {
			return ast.Character{}, err
		}
		if _, err := p.accept(lexer.Colon); err != nil {
			return ast.Character{}, err
		}
		switch field.Kind {
		case lexer.Equipped, lexer.Inventory, lexer.Reward:
			set, err := p.parseItemSet()
			if err != nil {
				return ast.Character{}, err
			}
			switch field.Kind {
			case lexer.Equipped:
				ch.Equipped = set
			case lexer.Inventory:
				ch.Inventory = set
			default:
				ch.Reward = set
			}
		default:
			attr, err := p.parseCharacterStat()
			if err != nil {
				return ast.Character{}, err
			}
			switch field.Kind {
			case lexer.Health:
				ch.Health = attr
			case lexer.Attack:
				ch.Attack = attr
			case lexer.Defence:
				ch.Defence = attr
			case lexer.Level:
				ch.Level = attr
			case lexer.Reqexp:
				ch.Reqexp = attr
			case lexer.Exp:
				ch.Exp = attr
			}
		}
	}
	if _, err := p.accept(lexer.CurlyClose); err != nil {
		return ast.Character{}, err
	}
	return ch, nil
}

// parseCharacterStat parses `NUMBER [('+=' | '*=') (NUMBER | DICE)]`.
func (p *Parser) parseCharacterStat() (*ast.CharacterAttribute, error) {
	base, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	attr := &ast.CharacterAttribute{Base: base.Value}
	if !p.peek(lexer.IncreasesBy, lexer.MultipliesBy) {
		return attr, nil
	}
	opTok, err := p.accept(lexer.IncreasesBy, lexer.MultipliesBy)
	if err != nil {
		return nil, err
	}
	attr.Increase = ast.IncreaseAdd
	if opTok.Kind == lexer.MultipliesBy {
		attr.Increase = ast.IncreaseMultiply
	}
	amount, err := p.accept(lexer.NumberLiteral, lexer.DiceLiteral)
	if err != nil {
		return nil, err
	}
	if amount.Kind == lexer.DiceLiteral {
		d, err := diceLiteral(amount)
		if err != nil {
			return nil, err
		}
		attr.Amount = d
		return attr, nil
	}
	n, err := numberLiteral(amount)
	if err != nil {
		return nil, err
	}
	attr.Amount = n
	return attr, nil
}

// parseItemSet parses `Name[/N] (& Name[/N])*`. Entries without a quantity
// count once; the set ends at the first entry not followed by `&`.
func (p *Parser) parseItemSet() ([]ast.ItemStack, error) {
	var set []ast.ItemStack
	for {
		name, err := p.accept(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		stack := ast.ItemStack{Name: name.Value, Quantity: 1}
		if p.peek(lexer.Slash) {
			p.accept(lexer.Slash)
			n, err := p.parseNumber()
			if err != nil {
				return nil, err
			}
			stack.Quantity = n.Value
		}
		set = append(set, stack)
		if !p.peek(lexer.And) {
			return set, nil
		}
		p.accept(lexer.And)
	}
}

func (p *Parser) parseNumber() (ast.NumberLit, error) {
	tok, err := p.accept(lexer.NumberLiteral)
	if err != nil {
		return ast.NumberLit{}, err
	}
	return numberLiteral(tok)
}
