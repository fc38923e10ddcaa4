package druntime

import (
	"cmp"
	"math"

	"github.com/gosuda/dndlang/ast"
)

func (vm *VM) evalExpr(scope *Scope, e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case ast.NumberLit:
		return Int(ex.Value), nil
	case ast.StringLit:
		return Str(ex.Value), nil
	case ast.DiceLit:
		return Dice(ex.Count, ex.Faces), nil
	case ast.VarRef:
		return scope.Variable(ex.Name)
	case ast.CallExpr:
		return vm.callFunction(scope, ex)
	case ast.DiceRoll:
		v, err := vm.evalExpr(scope, ex.Operand)
		if err != nil {
			return Value{}, err
		}
		return vm.roll(v)
	case ast.Expression:
		return vm.evalExpression(scope, ex)
	default:
		return Value{}, newError(TypeError, "unsupported expression %T", e)
	}
}

func (vm *VM) roll(v Value) (Value, error) {
	count, faces, ok := v.DiceSpec()
	if !ok {
		return Value{}, newError(TypeError, "Attempted to roll a value of type %s", v.Kind())
	}
	total, err := RollDice(vm.rng, count, faces)
	if err != nil {
		return Value{}, &Error{Kind: TypeError, Message: "Cannot roll " + v.String(), Cause: err}
	}
	return Int(total), nil
}

// evalExpression folds the operands left to right. A single operand passes
// through untouched, so it may be of any kind.
func (vm *VM) evalExpression(scope *Scope, ex ast.Expression) (Value, error) {
	if len(ex.Operands) == 0 {
		return None(), nil
	}
	acc, err := vm.evalExpr(scope, ex.Operands[0])
	if err != nil {
		return Value{}, err
	}
	if len(ex.Operators) == 0 {
		return acc, nil
	}
	if !acc.IsNumeric() {
		return Value{}, errUnsupportedArithmetic()
	}
	for i, op := range ex.Operators {
		if i+1 >= len(ex.Operands) {
			break
		}
		next, err := vm.evalExpr(scope, ex.Operands[i+1])
		if err != nil {
			return Value{}, err
		}
		acc, err = arith(op, acc, next)
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

// arith applies op to two numbers. Integer operands stay integral except
// under division, which always yields a float.
func arith(op ast.ArithOp, a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, errUnsupportedArithmetic()
	}
	if op == ast.OpDiv {
		if b.Float64() == 0 {
			return Value{}, newError(ZeroDivisionError, "division by zero")
		}
		return Float(a.Float64() / b.Float64()), nil
	}
	if a.Kind() == IntKind && b.Kind() == IntKind {
		if v, ok := intArith(op, a.Int64(), b.Int64()); ok {
			return Int(v), nil
		}
	}
	x, y := a.Float64(), b.Float64()
	switch op {
	case ast.OpAdd:
		return Float(x + y), nil
	case ast.OpSub:
		return Float(x - y), nil
	default:
		return Float(x * y), nil
	}
}

// intArith reports false when the result does not fit in an int64; the caller
// then falls back to float arithmetic.
func intArith(op ast.ArithOp, x, y int64) (int64, bool) {
	switch op {
	case ast.OpAdd:
		r := x + y
		return r, (x >= 0) != (y >= 0) || (r >= 0) == (x >= 0)
	case ast.OpSub:
		r := x - y
		return r, (x >= 0) == (y >= 0) || (r >= 0) == (x >= 0)
	default:
		if x == 0 || y == 0 {
			return 0, true
		}
		if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return 0, false
		}
		r := x * y
		if r/y != x {
			return 0, false
		}
		return r, true
	}
}

func (vm *VM) evalCondition(scope *Scope, c ast.Condition) (bool, error) {
	left, err := vm.evalExpr(scope, c.Left)
	if err != nil {
		return false, err
	}
	right, err := vm.evalExpr(scope, c.Right)
	if err != nil {
		return false, err
	}
	return compare(c.Op, left, right)
}

// compare applies a relational operator. Equality is defined for every pair
// of values; ordering only for numbers.
func compare(op ast.CompareOp, a, b Value) (bool, error) {
	if op == ast.OpEqual {
		return Equal(a, b), nil
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return false, newError(TypeError, "Attempted comparison on unsupported type")
	}
	var order int
	if a.Kind() == IntKind && b.Kind() == IntKind {
		order = cmp.Compare(a.Int64(), b.Int64())
	} else {
		order = cmp.Compare(a.Float64(), b.Float64())
	}
	switch op {
	case ast.OpLess:
		return order < 0, nil
	case ast.OpGreater:
		return order > 0, nil
	case ast.OpLessEqual:
		return order <= 0, nil
	default:
		return order >= 0, nil
	}
}
