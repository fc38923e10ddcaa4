package druntime

import (
	"strconv"
	"strings"
)

type ValueKind int

const (
	NoneKind ValueKind = iota
	IntKind
	FloatKind
	StringKind
	DiceKind
)

func (k ValueKind) String() string {
	switch k {
	case NoneKind:
		return "none"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case DiceKind:
		return "dice"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The zero Value is None, the value of a declared
// but unassigned variable and of a call that never returned.
type Value struct {
	kind  ValueKind
	i     int64
	f     float64
	s     string
	count int
	faces int
}

func None() Value {
	return Value{}
}

func Int(v int64) Value {
	return Value{kind: IntKind, i: v}
}

func Float(v float64) Value {
	return Value{kind: FloatKind, f: v}
}

func Str(v string) Value {
	return Value{kind: StringKind, s: v}
}

func Dice(count, faces int) Value {
	return Value{kind: DiceKind, count: count, faces: faces}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNumeric() bool {
	return v.kind == IntKind || v.kind == FloatKind
}

func (v Value) Int64() int64 {
	switch v.kind {
	case IntKind:
		return v.i
	case FloatKind:
		return int64(v.f)
	default:
		return 0
	}
}

func (v Value) Float64() float64 {
	switch v.kind {
	case IntKind:
		return float64(v.i)
	case FloatKind:
		return v.f
	default:
		return 0
	}
}

// DiceSpec returns the count and faces of a dice value.
func (v Value) DiceSpec() (count, faces int, ok bool) {
	if v.kind != DiceKind {
		return 0, 0, false
	}
	return v.count, v.faces, true
}

func (v Value) String() string {
	switch v.kind {
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return formatFloat(v.f)
	case StringKind:
		return v.s
	case DiceKind:
		return strconv.Itoa(v.count) + "d" + strconv.Itoa(v.faces)
	default:
		return "None"
	}
}

// formatFloat prints the shortest representation that round-trips, keeping
// a fractional part on integral values so 4/2 reads as 2.0.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

// Equal reports whether a == b holds in the language. Numbers compare by
// value across int and float; other kinds compare only with their own kind.
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		if a.kind == IntKind && b.kind == IntKind {
			return a.i == b.i
		}
		return a.Float64() == b.Float64()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case StringKind:
		return a.s == b.s
	case DiceKind:
		return a.count == b.count && a.faces == b.faces
	default:
		return true
	}
}
