package lexer

import "fmt"

type Kind int

const (
	// keywords (templates, general)
	Item Kind = iota
	Character
	Health
	Attack
	Defence
	// keywords (character)
	Level
	Reqexp
	Exp
	Equipped
	Inventory
	Reward
	// keywords (item)
	Desc
	Value
	// keywords (instructions)
	While
	If
	Else
	Function
	Return

	CurlyOpen    // {
	CurlyClose   // }
	RoundOpen    // (
	RoundClose   // )
	Plus         // +
	Minus        // -
	Asterisk     // *
	Slash        // /
	Assign       // =
	IncreasesBy  // +=
	MultipliesBy // *=
	Semicolon    // ;
	Dot          // .
	Colon        // :
	Comma        // ,
	And          // &
	Caret        // ^
	LessThan     // <
	MoreThan     // >
	LessOrEqual  // <=
	MoreOrEqual  // >=
	Equals       // ==
	AttackMove   // >>
	QuestionMark // ?

	Identifier
	NumberLiteral
	StringLiteral
	DiceLiteral

	Unknown
	EOF
)

var kindNames = [...]string{
	Item:          "ITEM",
	Character:     "CHARACTER",
	Health:        "HEALTH",
	Attack:        "ATTACK",
	Defence:       "DEFENCE",
	Level:         "LEVEL",
	Reqexp:        "REQEXP",
	Exp:           "EXP",
	Equipped:      "EQUIPPED",
	Inventory:     "INVENTORY",
	Reward:        "REWARD",
	Desc:          "DESC",
	Value:         "VALUE",
	While:         "WHILE",
	If:            "IF",
	Else:          "ELSE",
	Function:      "FUNCTION",
	Return:        "RETURN",
	CurlyOpen:     "CURLY_OPEN",
	CurlyClose:    "CURLY_CLOSE",
	RoundOpen:     "ROUND_OPEN",
	RoundClose:    "ROUND_CLOSE",
	Plus:          "PLUS",
	Minus:         "MINUS",
	Asterisk:      "ASTERISK",
	Slash:         "SLASH",
	Assign:        "ASSIGN",
	IncreasesBy:   "INCREASES_BY",
	MultipliesBy:  "MULTIPLIES_BY",
	Semicolon:     "SEMICOLON",
	Dot:           "DOT",
	Colon:         "COLON",
	Comma:         "COMMA",
	And:           "AND",
	Caret:         "CARET",
	LessThan:      "LESS_THAN",
	MoreThan:      "MORE_THAN",
	LessOrEqual:   "LESS_OR_EQUAL",
	MoreOrEqual:   "MORE_OR_EQUAL",
	Equals:        "EQUALS",
	AttackMove:    "ATTACK_MOVE",
	QuestionMark:  "QUESTION_MARK",
	Identifier:    "IDENTIFIER",
	NumberLiteral: "NUMBER_LITERAL",
	StringLiteral: "STRING_LITERAL",
	DiceLiteral:   "DICE_LITERAL",
	Unknown:       "UNKNOWN",
	EOF:           "END_OF_FILE",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"item":      Item,
	"character": Character,

	"level":     Level,
	"reqexp":    Reqexp,
	"exp":       Exp,
	"health":    Health,
	"attack":    Attack,
	"defence":   Defence,
	"equipped":  Equipped,
	"inventory": Inventory,
	"reward":    Reward,

	"desc":  Desc,
	"value": Value,

	"while":    While,
	"if":       If,
	"else":     Else,
	"function": Function,
	"return":   Return,
}

var punctuation = map[rune]Kind{
	'{': CurlyOpen,
	'}': CurlyClose,
	'(': RoundOpen,
	')': RoundClose,
	'+': Plus,
	'-': Minus,
	'*': Asterisk,
	'/': Slash,
	'=': Assign,
	';': Semicolon,
	'.': Dot,
	':': Colon,
	',': Comma,
	'&': And,
	'^': Caret,
	'?': QuestionMark,
}

// LookupKeyword reports the keyword kind for word, if it is reserved.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}

// Token is a single lexeme. Value holds the text of identifiers, literals
// and unknown characters; Pos is where the token starts.
type Token struct {
	Kind  Kind
	Value string
	Pos   Position
}

func (t Token) String() string {
	return fmt.Sprintf("[Value: %s\tType: %s]", t.Value, t.Kind)
}
