package ast

// Program is the parsed source. It is built once by the parser and only read
// afterwards.
type Program struct {
	Templates    []Template
	Functions    []*Function
	Instructions []Statement
}

// Node carries the source line a statement started on.
type Node struct {
	LineNo int
}

func (n Node) Line() int { return n.LineNo }

type Function struct {
	Node
	Name   string
	Params []VarRef
	Body   *Block
}

type Block struct {
	Statements []Statement
}

type Statement interface {
	isStatement()
	Line() int
}

type DeclStmt struct {
	Node
	TypeName string
	Var      VarRef
}

func (DeclStmt) isStatement() {}

type AssignStmt struct {
	Node
	Target VarRef
	Expr   Expr
}

func (AssignStmt) isStatement() {}

// AttackStmt is `attacker >> defender`. It has no runtime effect.
type AttackStmt struct {
	Node
	Attacker VarRef
	Defender VarRef
}

func (AttackStmt) isStatement() {}

type WhileStmt struct {
	Node
	Cond Condition
	Body *Block
}

func (WhileStmt) isStatement() {}

type IfStmt struct {
	Node
	Cond Condition
	Body *Block
	Else *Block
}

func (IfStmt) isStatement() {}

type LogStmt struct {
	Node
	Expr Expr
}

func (LogStmt) isStatement() {}

type ReturnStmt struct {
	Node
	Expr Expr
}

func (ReturnStmt) isStatement() {}

type CallStmt struct {
	Node
	Call CallExpr
}

func (CallStmt) isStatement() {}

type CompareOp int

const (
	OpLess CompareOp = iota
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpEqual
)

func (op CompareOp) String() string {
	switch op {
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpLessEqual:
		return "<="
	case OpGreaterEqual:
		return ">="
	case OpEqual:
		return "=="
	default:
		return "?"
	}
}

type Condition struct {
	Left  Expr
	Op    CompareOp
	Right Expr
}

type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

type Expr interface {
	isExpr()
}

type NumberLit struct {
	Value int64
}

func (NumberLit) isExpr() {}

type StringLit struct {
	Value string
}

func (StringLit) isExpr() {}

// DiceLit is `<Count>d<Faces>`. As a value it is not numeric; DiceRoll turns
// it into a number.
type DiceLit struct {
	Count int
	Faces int
}

func (DiceLit) isExpr() {}

type VarRef struct {
	Name string
}

func (VarRef) isExpr() {}

type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}

// DiceRoll is `^2d6` or `^name`. Operand is a DiceLit or a VarRef.
type DiceRoll struct {
	Operand Expr
}

func (DiceRoll) isExpr() {}

// Expression folds Operands left to right; Operators[i] sits between
// Operands[i] and Operands[i+1].
type Expression struct {
	Operands  []Expr
	Operators []ArithOp
}

func (Expression) isExpr() {}

type Template interface {
	isTemplate()
	TemplateName() string
}

type Item struct {
	Node
	Name    string
	Desc    *StringLit
	Value   *NumberLit
	Health  *NumberLit
	Attack  *NumberLit
	Defence *NumberLit
}

func (Item) isTemplate() {}

func (t Item) TemplateName() string { return t.Name }

type Character struct {
	Node
	Name      string
	Level     *CharacterAttribute
	Reqexp    *CharacterAttribute
	Exp       *CharacterAttribute
	Health    *CharacterAttribute
	Attack    *CharacterAttribute
	Defence   *CharacterAttribute
	Equipped  []ItemStack
	Inventory []ItemStack
	Reward    []ItemStack
}

func (Character) isTemplate() {}

func (t Character) TemplateName() string { return t.Name }

type IncreaseOp int

const (
	IncreaseNone IncreaseOp = iota
	IncreaseAdd
	IncreaseMultiply
)

func (op IncreaseOp) String() string {
	switch op {
	case IncreaseAdd:
		return "+="
	case IncreaseMultiply:
		return "*="
	default:
		return ""
	}
}

// CharacterAttribute is a stat with an optional growth rule. Amount is a
// NumberLit or a DiceLit and is nil when Increase is IncreaseNone.
type CharacterAttribute struct {
	Base     int64
	Increase IncreaseOp
	Amount   Expr
}

type ItemStack struct {
	Name     string
	Quantity int64
}
