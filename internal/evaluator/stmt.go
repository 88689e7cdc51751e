package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// execBlock runs a sequence of statements in order, stopping at the first
// propagated signal or error.
func (in *Interp) execBlock(scope *runtime.Scope, stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := in.execStmt(scope, s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interp) execStmt(scope *runtime.Scope, s ast.Stmt) error {
	if err := in.tick(s); err != nil {
		return err
	}
	switch n := s.(type) {
	case *ast.StmtSeq:
		return in.execBlock(scope, n.Stmts)
	case *ast.ExprStmt:
		_, err := in.evalExpr(scope, n.Value)
		return err
	case *ast.Assign:
		return in.execAssign(scope, n)
	case *ast.AugAssign:
		return in.execAugAssign(scope, n)
	case *ast.If:
		return in.execIf(scope, n)
	case *ast.While:
		return in.execWhile(scope, n)
	case *ast.For:
		return in.execFor(scope, n)
	case *ast.Break:
		return runtime.BreakSignal{}
	case *ast.Continue:
		return runtime.ContinueSignal{}
	case *ast.Pass:
		return nil
	case *ast.Return:
		var v runtime.Value = runtime.None
		if n.Value != nil {
			rv, err := in.evalExpr(scope, n.Value)
			if err != nil {
				return err
			}
			v = rv
		}
		return runtime.ReturnSignal{Value: v}
	case *ast.Try:
		return in.execTry(scope, n)
	case *ast.Raise:
		return in.execRaise(scope, n)
	case *ast.With:
		return in.execWith(scope, n)
	case *ast.Assert:
		return in.execAssert(scope, n)
	case *ast.Del:
		return in.execDel(scope, n)
	case *ast.Import:
		return in.execImport(scope, n)
	case *ast.ImportFrom:
		return in.execImportFrom(scope, n)
	case *ast.FunctionDef:
		return in.evalFunctionDef(scope, n)
	case *ast.ClassDef:
		return in.evalClassDef(scope, n)
	case *ast.Global:
		for _, name := range n.Names {
			scope.DeclareGlobal(name)
		}
		return nil
	case *ast.Nonlocal:
		for _, name := range n.Names {
			scope.DeclareNonlocal(name)
		}
		return nil
	}
	return errors.NewAt(errors.KindInternal, s.Pos(), "unsupported statement node %T", s)
}

func (in *Interp) execAssign(scope *runtime.Scope, n *ast.Assign) error {
	val, err := in.evalExpr(scope, n.Value)
	if err != nil {
		return err
	}
	for _, t := range n.Targets {
		if err := in.assignTarget(scope, t, val); err != nil {
			return in.classify(err, n.Pos())
		}
	}
	return nil
}

func (in *Interp) execAugAssign(scope *runtime.Scope, n *ast.AugAssign) error {
	cur, err := in.evalExpr(scope, n.Target)
	if err != nil {
		return err
	}
	rhs, err := in.evalExpr(scope, n.Value)
	if err != nil {
		return err
	}
	if names, ok := binDunder[n.Op]; ok {
		iname := "__i" + names[0][2:]
		if m, ok := in.lookupDunder(cur, iname); ok {
			v, err := in.callFunctionValue(m, []runtime.Value{rhs}, nil)
			if err != nil {
				return err
			}
			return in.assignTarget(scope, n.Target, v)
		}
	}
	result, err := in.applyBinOp(n.Op, cur, rhs, n.Pos())
	if err != nil {
		return in.classify(err, n.Pos())
	}
	return in.assignTarget(scope, n.Target, result)
}

func (in *Interp) execIf(scope *runtime.Scope, n *ast.If) error {
	test, err := in.evalExpr(scope, n.Test)
	if err != nil {
		return err
	}
	if test.Truthy() {
		return in.execBlock(scope, n.Body)
	}
	return in.execBlock(scope, n.Orelse)
}

func (in *Interp) execWhile(scope *runtime.Scope, n *ast.While) error {
	var count int64
	for {
		test, err := in.evalExpr(scope, n.Test)
		if err != nil {
			return err
		}
		if !test.Truthy() {
			return in.execBlock(scope, n.Orelse)
		}
		count++
		if in.Limits.MaxLoopIterations > 0 && count > in.Limits.MaxLoopIterations {
			return errors.NewAt(errors.KindIterationLimit, n.Pos(), "iterations in While loop exceeded %d", in.Limits.MaxLoopIterations)
		}
		if err := in.execBlock(scope, n.Body); err != nil {
			if _, ok := err.(runtime.BreakSignal); ok {
				return nil
			}
			if _, ok := err.(runtime.ContinueSignal); ok {
				continue
			}
			return err
		}
	}
}

func (in *Interp) execFor(scope *runtime.Scope, n *ast.For) error {
	iterVal, err := in.evalExpr(scope, n.Iter)
	if err != nil {
		return err
	}
	broke := false
	err = in.forEach(iterVal, n.Pos(), func(item runtime.Value) (bool, error) {
		if aerr := in.assignTarget(scope, n.Target, item); aerr != nil {
			return false, aerr
		}
		berr := in.execBlock(scope, n.Body)
		if berr == nil {
			return false, nil
		}
		if _, ok := berr.(runtime.BreakSignal); ok {
			broke = true
			return true, nil
		}
		if _, ok := berr.(runtime.ContinueSignal); ok {
			return false, nil
		}
		return false, berr
	})
	if err != nil {
		return err
	}
	if !broke {
		return in.execBlock(scope, n.Orelse)
	}
	return nil
}

func (in *Interp) execAssert(scope *runtime.Scope, n *ast.Assert) error {
	test, err := in.evalExpr(scope, n.Test)
	if err != nil {
		return err
	}
	if test.Truthy() {
		return nil
	}
	if n.Msg != nil {
		msgV, err := in.evalExpr(scope, n.Msg)
		if err != nil {
			return err
		}
		return errors.NewAt(errors.KindAssertion, n.Pos(), "%s", msgV.String())
	}
	return errors.NewAt(errors.KindAssertion, n.Pos(), "%s", n.Source)
}

func (in *Interp) execDel(scope *runtime.Scope, n *ast.Del) error {
	for _, t := range n.Targets {
		switch target := t.(type) {
		case *ast.Name:
			if !scope.Delete(target.Ident) {
				return errors.NewAt(errors.KindNameNotDefined, n.Pos(), "name '%s' is not defined", target.Ident)
			}
		case *ast.Attribute:
			v, err := in.evalExpr(scope, target.Value)
			if err != nil {
				return err
			}
			if err := in.delAttr(v, target.Attr, target.Pos()); err != nil {
				return err
			}
		case *ast.Subscript:
			v, err := in.evalExpr(scope, target.Value)
			if err != nil {
				return err
			}
			idx, err := in.evalExpr(scope, target.Index)
			if err != nil {
				return err
			}
			if err := in.delSubscript(v, idx, target.Pos()); err != nil {
				return err
			}
		default:
			return errors.NewAt(errors.KindInternal, n.Pos(), "invalid del target")
		}
	}
	return nil
}
