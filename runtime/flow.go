package druntime

import "github.com/gosuda/dndlang/ast"

type resultKind int

const (
	resultNone resultKind = iota
	resultReturn
)

// execResult is the control signal of an executed statement. A return
// signal stops every enclosing block up to the function call or the top
// level.
type execResult struct {
	kind  resultKind
	value Value
}

func (vm *VM) runBlock(scope *Scope, block *ast.Block) (execResult, error) {
	if block == nil {
		return execResult{kind: resultNone}, nil
	}
	for _, stmt := range block.Statements {
		res, err := vm.runStatement(scope, stmt)
		if err != nil {
			return execResult{}, err
		}
		if res.kind != resultNone {
			return res, nil
		}
	}
	return execResult{kind: resultNone}, nil
}

func (vm *VM) runStatement(scope *Scope, stmt ast.Statement) (execResult, error) {
	if err := vm.checkInterrupt(); err != nil {
		return execResult{}, atLine(err, stmt.Line())
	}
	res, err := vm.execStatement(scope, stmt)
	if err != nil {
		return execResult{}, atLine(err, stmt.Line())
	}
	return res, nil
}

func (vm *VM) execStatement(scope *Scope, stmt ast.Statement) (execResult, error) {
	switch s := stmt.(type) {
	case ast.DeclStmt:
		return execResult{kind: resultNone}, scope.AddVariable(s.Var.Name)
	case ast.AssignStmt:
		v, err := vm.evalExpr(scope, s.Expr)
		if err != nil {
			return execResult{}, err
		}
		return execResult{kind: resultNone}, scope.SetVariable(s.Target.Name, v)
	case ast.AttackStmt:
		return execResult{kind: resultNone}, nil
	case ast.WhileStmt:
		for {
			ok, err := vm.evalCondition(scope, s.Cond)
			if err != nil {
				return execResult{}, err
			}
			if !ok {
				return execResult{kind: resultNone}, nil
			}
			res, err := vm.runBlock(scope, s.Body)
			if err != nil {
				return execResult{}, err
			}
			if res.kind == resultReturn {
				return res, nil
			}
			if err := vm.checkInterrupt(); err != nil {
				return execResult{}, err
			}
		}
	case ast.IfStmt:
		ok, err := vm.evalCondition(scope, s.Cond)
		if err != nil {
			return execResult{}, err
		}
		if ok {
			return vm.runBlock(scope, s.Body)
		}
		return vm.runBlock(scope, s.Else)
	case ast.LogStmt:
		v, err := vm.evalExpr(scope, s.Expr)
		if err != nil {
			return execResult{}, err
		}
		vm.emit(Output{Text: v.String(), NewLine: true})
		return execResult{kind: resultNone}, nil
	case ast.ReturnStmt:
		v, err := vm.evalExpr(scope, s.Expr)
		if err != nil {
			return execResult{}, err
		}
		return execResult{kind: resultReturn, value: v}, nil
	case ast.CallStmt:
		if _, err := vm.callFunction(scope, s.Call); err != nil {
			return execResult{}, err
		}
		return execResult{kind: resultNone}, nil
	default:
		return execResult{}, newError(TypeError, "unsupported statement %T", stmt)
	}
}
