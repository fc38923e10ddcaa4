package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FormatExpr renders an expression back to source-like text.
func FormatExpr(e Expr) string {
	switch ex := e.(type) {
	case NumberLit:
		return strconv.FormatInt(ex.Value, 10)
	case StringLit:
		return strconv.Quote(ex.Value)
	case DiceLit:
		return fmt.Sprintf("%dd%d", ex.Count, ex.Faces)
	case VarRef:
		return ex.Name
	case DiceRoll:
		return "^" + FormatExpr(ex.Operand)
	case CallExpr:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = FormatExpr(a)
		}
		return ex.Name + "(" + strings.Join(args, ", ") + ")"
	case Expression:
		var b strings.Builder
		b.WriteByte('(')
		for i, operand := range ex.Operands {
			if i > 0 && i-1 < len(ex.Operators) {
				b.WriteString(" " + ex.Operators[i-1].String() + " ")
			}
			b.WriteString(FormatExpr(operand))
		}
		b.WriteByte(')')
		return b.String()
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func formatCondition(c Condition) string {
	return "(" + FormatExpr(c.Left) + " " + c.Op.String() + " " + FormatExpr(c.Right) + ")"
}

// FormatStatement renders the head of a statement on one line. Nested blocks
// are summarised by their statement count.
func FormatStatement(s Statement) string {
	switch st := s.(type) {
	case DeclStmt:
		return fmt.Sprintf("Declaration %s %s", st.TypeName, st.Var.Name)
	case AssignStmt:
		return fmt.Sprintf("Assignment %s = %s", st.Target.Name, FormatExpr(st.Expr))
	case AttackStmt:
		return fmt.Sprintf("AttackMove %s >> %s", st.Attacker.Name, st.Defender.Name)
	case WhileStmt:
		return fmt.Sprintf("While %s stmts=%d", formatCondition(st.Cond), blockLen(st.Body))
	case IfStmt:
		if st.Else != nil {
			return fmt.Sprintf("If %s stmts=%d else=%d", formatCondition(st.Cond), blockLen(st.Body), blockLen(st.Else))
		}
		return fmt.Sprintf("If %s stmts=%d", formatCondition(st.Cond), blockLen(st.Body))
	case LogStmt:
		return "Log " + FormatExpr(st.Expr)
	case ReturnStmt:
		return "Return " + FormatExpr(st.Expr)
	case CallStmt:
		return "Call " + FormatExpr(st.Call)
	default:
		return fmt.Sprintf("%T", s)
	}
}

func blockLen(b *Block) int {
	if b == nil {
		return 0
	}
	return len(b.Statements)
}

// Fprint writes an indented dump of the program.
func Fprint(w io.Writer, p *Program) error {
	pw := &printer{w: w}
	pw.line(0, "Instructions:")
	for _, st := range p.Instructions {
		pw.statement(1, st)
	}
	pw.line(0, "Functions:")
	for _, fn := range p.Functions {
		params := make([]string, len(fn.Params))
		for i, v := range fn.Params {
			params[i] = v.Name
		}
		pw.line(1, fmt.Sprintf("line %d: %s(%s)", fn.Line(), fn.Name, strings.Join(params, ", ")))
		pw.block(2, fn.Body)
	}
	pw.line(0, "Templates:")
	for _, t := range p.Templates {
		pw.template(1, t)
	}
	return pw.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(depth int, text string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), text)
}

func (p *printer) statement(depth int, s Statement) {
	p.line(depth, fmt.Sprintf("line %d: %s", s.Line(), FormatStatement(s)))
	switch st := s.(type) {
	case WhileStmt:
		p.block(depth+1, st.Body)
	case IfStmt:
		p.block(depth+1, st.Body)
		if st.Else != nil {
			p.line(depth, "else:")
			p.block(depth+1, st.Else)
		}
	}
}

func (p *printer) block(depth int, b *Block) {
	if b == nil {
		return
	}
	for _, st := range b.Statements {
		p.statement(depth, st)
	}
}

func (p *printer) template(depth int, t Template) {
	switch tt := t.(type) {
	case Item:
		p.line(depth, "item "+tt.Name)
		if tt.Desc != nil {
			p.line(depth+1, "desc: "+strconv.Quote(tt.Desc.Value))
		}
		for _, f := range []struct {
			name string
			v    *NumberLit
		}{{"value", tt.Value}, {"health", tt.Health}, {"attack", tt.Attack}, {"defence", tt.Defence}} {
			if f.v != nil {
				p.line(depth+1, fmt.Sprintf("%s: %d", f.name, f.v.Value))
			}
		}
	case Character:
		p.line(depth, "character "+tt.Name)
		for _, f := range []struct {
			name string
			v    *CharacterAttribute
		}{{"level", tt.Level}, {"reqexp", tt.Reqexp}, {"exp", tt.Exp}, {"health", tt.Health}, {"attack", tt.Attack}, {"defence", tt.Defence}} {
			if f.v != nil {
				p.line(depth+1, f.name+": "+FormatAttribute(*f.v))
			}
		}
		for _, f := range []struct {
			name string
			v    []ItemStack
		}{{"equipped", tt.Equipped}, {"inventory", tt.Inventory}, {"reward", tt.Reward}} {
			if len(f.v) > 0 {
				p.line(depth+1, f.name+": "+FormatItemSet(f.v))
			}
		}
	}
}

func FormatAttribute(a CharacterAttribute) string {
	s := strconv.FormatInt(a.Base, 10)
	if a.Increase != IncreaseNone && a.Amount != nil {
		s += " " + a.Increase.String() + " " + FormatExpr(a.Amount)
	}
	return s
}

func FormatItemSet(items []ItemStack) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s/%d", it.Name, it.Quantity)
	}
	return strings.Join(parts, " & ")
}
