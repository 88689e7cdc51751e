package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/token"
)

// assignTarget implements spec.md §4.3's destructuring assignment: a name
// binds in the current frame, an attribute dispatches to setAttr, a
// subscript dispatches to setSubscript, and a tuple/list target recurses
// with at most one starred sub-target absorbing the surplus.
func (in *Interp) assignTarget(scope *runtime.Scope, target ast.Expr, val runtime.Value) error {
	switch t := target.(type) {
	case *ast.Name:
		return in.Env.AssignChecked(scope, t.Ident, val)
	case *ast.Attribute:
		ov, err := in.evalExpr(scope, t.Value)
		if err != nil {
			return err
		}
		return in.setAttr(ov, t.Attr, val, t.Pos())
	case *ast.Subscript:
		ov, err := in.evalExpr(scope, t.Value)
		if err != nil {
			return err
		}
		idx, err := in.evalExpr(scope, t.Index)
		if err != nil {
			return err
		}
		return in.setSubscript(ov, idx, val, t.Pos())
	case *ast.TupleExpr:
		return in.destructure(scope, t.Elts, val, t.Pos())
	case *ast.ListExpr:
		return in.destructure(scope, t.Elts, val, t.Pos())
	}
	return errors.NewAt(errors.KindInternal, target.Pos(), "invalid assignment target")
}

func (in *Interp) destructure(scope *runtime.Scope, targets []ast.Expr, val runtime.Value, pos token.Position) error {
	seq, err := in.toSlice(val, pos)
	if err != nil {
		return err
	}
	starIdx := -1
	for i, t := range targets {
		if _, ok := t.(*ast.Starred); ok {
			if starIdx != -1 {
				return errors.NewAt(errors.KindSyntax, pos, "multiple starred expressions in assignment")
			}
			starIdx = i
		}
	}
	if starIdx == -1 {
		if len(seq) != len(targets) {
			return errors.NewAt(errors.KindType, pos, "not enough values to unpack (expected %d, got %d)", len(targets), len(seq))
		}
		for i, t := range targets {
			if err := in.assignTarget(scope, t, seq[i]); err != nil {
				return err
			}
		}
		return nil
	}
	before := starIdx
	after := len(targets) - starIdx - 1
	if len(seq) < before+after {
		return errors.NewAt(errors.KindType, pos, "not enough values to unpack")
	}
	for i := 0; i < before; i++ {
		if err := in.assignTarget(scope, targets[i], seq[i]); err != nil {
			return err
		}
	}
	mid := append([]runtime.Value{}, seq[before:len(seq)-after]...)
	starred := targets[starIdx].(*ast.Starred)
	if err := in.assignTarget(scope, starred.Value, runtime.NewList(mid)); err != nil {
		return err
	}
	for i := 0; i < after; i++ {
		if err := in.assignTarget(scope, targets[starIdx+1+i], seq[len(seq)-after+i]); err != nil {
			return err
		}
	}
	return nil
}
