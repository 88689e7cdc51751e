package evaluator

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/closematch"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/token"
)

func (in *Interp) evalExpr(scope *runtime.Scope, e ast.Expr) (runtime.Value, error) {
	if err := in.tick(e); err != nil {
		return nil, err
	}
	switch n := e.(type) {
	case *ast.Num:
		return in.evalNum(n)
	case *ast.Str:
		return runtime.Str(n.Value), nil
	case *ast.Bytes:
		return runtime.Bytes(n.Value), nil
	case *ast.BoolLit:
		return runtime.Bool(n.Value), nil
	case *ast.NoneLit:
		return runtime.None, nil
	case *ast.Name:
		return in.evalName(scope, n)
	case *ast.BinOp:
		return in.evalBinOp(scope, n)
	case *ast.UnaryOp:
		return in.evalUnaryOp(scope, n)
	case *ast.BoolOp:
		return in.evalBoolOp(scope, n)
	case *ast.Compare:
		return in.evalCompare(scope, n)
	case *ast.Call:
		return in.evalCall(scope, n)
	case *ast.Attribute:
		return in.evalAttribute(scope, n)
	case *ast.Subscript:
		return in.evalSubscript(scope, n)
	case *ast.FString:
		return in.evalFString(scope, n)
	case *ast.ListExpr:
		return in.evalListExpr(scope, n)
	case *ast.TupleExpr:
		return in.evalTupleExpr(scope, n)
	case *ast.SetExpr:
		return in.evalSetExpr(scope, n)
	case *ast.DictExpr:
		return in.evalDictExpr(scope, n)
	case *ast.ListComp:
		return in.evalListComp(scope, n)
	case *ast.SetComp:
		return in.evalSetComp(scope, n)
	case *ast.DictComp:
		return in.evalDictComp(scope, n)
	case *ast.GeneratorExp:
		return in.evalGeneratorExp(scope, n)
	case *ast.Lambda:
		return in.evalLambda(scope, n)
	case *ast.Starred:
		return in.evalExpr(scope, n.Value)
	case *ast.IfExp:
		return in.evalIfExp(scope, n)
	case *ast.YieldExpr:
		return in.evalYield(scope, n)
	}
	return nil, errors.NewAt(errors.KindInternal, e.Pos(), "unsupported expression node %T", e)
}

func (in *Interp) evalNum(n *ast.Num) (runtime.Value, error) {
	if n.IsFloat {
		var f float64
		if _, err := fmt.Sscanf(n.Literal, "%g", &f); err != nil {
			return nil, errors.NewAt(errors.KindSyntax, n.Pos(), "invalid float literal %q", n.Literal)
		}
		return runtime.Float(f), nil
	}
	i, err := runtime.NewIntFromString(n.Literal)
	if err != nil {
		return nil, errors.NewAt(errors.KindSyntax, n.Pos(), "invalid integer literal %q", n.Literal)
	}
	return i, nil
}

func (in *Interp) evalName(scope *runtime.Scope, n *ast.Name) (runtime.Value, error) {
	if v, ok := in.Env.Lookup(scope, n.Ident); ok {
		return v, nil
	}
	hint := closematch.Suggest(n.Ident, in.Env.AllNames(scope))
	msg := fmt.Sprintf("name '%s' is not defined", n.Ident)
	if hint != "" {
		msg += fmt.Sprintf(" (did you mean '%s'?)", hint)
	}
	return nil, errors.NewAt(errors.KindNameNotDefined, n.Pos(), "%s", msg)
}

func (in *Interp) evalBoolOp(scope *runtime.Scope, n *ast.BoolOp) (runtime.Value, error) {
	var last runtime.Value = runtime.None
	for _, v := range n.Values {
		val, err := in.evalExpr(scope, v)
		if err != nil {
			return nil, err
		}
		last = val
		if n.Op == token.OR && val.Truthy() {
			return val, nil
		}
		if n.Op == token.AND && !val.Truthy() {
			return val, nil
		}
	}
	return last, nil
}

func (in *Interp) evalUnaryOp(scope *runtime.Scope, n *ast.UnaryOp) (runtime.Value, error) {
	v, err := in.evalExpr(scope, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.NOT:
		return runtime.Bool(!v.Truthy()), nil
	case token.MINUS:
		switch t := v.(type) {
		case runtime.Int:
			r := runtime.NewInt(0)
			r.V.Neg(t.V)
			return r, nil
		case runtime.Float:
			return -t, nil
		case runtime.Bool:
			if t {
				return runtime.NewInt(-1), nil
			}
			return runtime.NewInt(0), nil
		}
	case token.PLUS:
		if runtime.IsNumeric(v) {
			return v, nil
		}
	case token.TILDE:
		if bi, ok := runtime.AsBigInt(v); ok {
			r := runtime.NewInt(0)
			r.V.Not(bi)
			return r, nil
		}
	}
	if m, ok := in.lookupDunder(v, "__"+unaryDunderName(n.Op)+"__"); ok {
		return in.callFunctionValue(m, []runtime.Value{}, nil)
	}
	return nil, errors.NewAt(errors.KindType, n.Pos(), "bad operand type for unary: '%s'", v.Type())
}

func unaryDunderName(op token.Kind) string {
	switch op {
	case token.MINUS:
		return "neg"
	case token.PLUS:
		return "pos"
	case token.TILDE:
		return "invert"
	}
	return "unknown"
}

func (in *Interp) evalYield(scope *runtime.Scope, n *ast.YieldExpr) (runtime.Value, error) {
	if in.yieldFn == nil {
		return nil, errors.NewAt(errors.KindInternal, n.Pos(), "yield outside generator")
	}
	var v runtime.Value = runtime.None
	if n.Value != nil {
		ev, err := in.evalExpr(scope, n.Value)
		if err != nil {
			return nil, err
		}
		v = ev
	}
	in.yieldFn(v)
	return runtime.None, nil
}

func (in *Interp) evalIfExp(scope *runtime.Scope, n *ast.IfExp) (runtime.Value, error) {
	test, err := in.evalExpr(scope, n.Test)
	if err != nil {
		return nil, err
	}
	if test.Truthy() {
		return in.evalExpr(scope, n.Body)
	}
	return in.evalExpr(scope, n.Orelse)
}

func (in *Interp) evalListExpr(scope *runtime.Scope, n *ast.ListExpr) (runtime.Value, error) {
	elems, err := in.evalExprSliceWithStars(scope, n.Elts)
	if err != nil {
		return nil, err
	}
	return runtime.NewList(elems), nil
}

func (in *Interp) evalTupleExpr(scope *runtime.Scope, n *ast.TupleExpr) (runtime.Value, error) {
	elems, err := in.evalExprSliceWithStars(scope, n.Elts)
	if err != nil {
		return nil, err
	}
	return runtime.NewTuple(elems), nil
}

func (in *Interp) evalSetExpr(scope *runtime.Scope, n *ast.SetExpr) (runtime.Value, error) {
	elems, err := in.evalExprSliceWithStars(scope, n.Elts)
	if err != nil {
		return nil, err
	}
	s := runtime.NewSet()
	for _, e := range elems {
		if err := s.Add(e); err != nil {
			return nil, errors.NewAt(errors.KindType, n.Pos(), "%s", err.Error())
		}
	}
	return s, nil
}

func (in *Interp) evalDictExpr(scope *runtime.Scope, n *ast.DictExpr) (runtime.Value, error) {
	d := runtime.NewDict()
	for i, k := range n.Keys {
		if k == nil {
			// **spread entry
			spread, err := in.evalExpr(scope, n.Values[i])
			if err != nil {
				return nil, err
			}
			sd, ok := spread.(*runtime.Dict)
			if !ok {
				return nil, errors.NewAt(errors.KindType, n.Pos(), "dict update argument must be a dict")
			}
			for _, key := range sd.Keys() {
				val, _, _ := sd.Get(key)
				if err := d.Set(key, val); err != nil {
					return nil, errors.NewAt(errors.KindType, n.Pos(), "%s", err.Error())
				}
			}
			continue
		}
		kv, err := in.evalExpr(scope, k)
		if err != nil {
			return nil, err
		}
		vv, err := in.evalExpr(scope, n.Values[i])
		if err != nil {
			return nil, err
		}
		if err := d.Set(kv, vv); err != nil {
			return nil, errors.NewAt(errors.KindType, n.Pos(), "%s", err.Error())
		}
	}
	return d, nil
}

// evalExprSliceWithStars evaluates a literal element list, splicing any
// *ast.Starred entry's iterable in place (`[*a, b]`).
func (in *Interp) evalExprSliceWithStars(scope *runtime.Scope, elts []ast.Expr) ([]runtime.Value, error) {
	var out []runtime.Value
	for _, e := range elts {
		if st, ok := e.(*ast.Starred); ok {
			v, err := in.evalExpr(scope, st.Value)
			if err != nil {
				return nil, err
			}
			seq, err := in.toSlice(v, st.Pos())
			if err != nil {
				return nil, err
			}
			out = append(out, seq...)
			continue
		}
		v, err := in.evalExpr(scope, e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (in *Interp) evalFString(scope *runtime.Scope, n *ast.FString) (runtime.Value, error) {
	var sb strings.Builder
	for _, part := range n.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Literal)
			continue
		}
		v, err := in.evalExpr(scope, part.Expr)
		if err != nil {
			return nil, err
		}
		sb.WriteString(runtime.FormatSpec(v, part.Spec))
	}
	return runtime.Str(sb.String()), nil
}

func (in *Interp) evalLambda(scope *runtime.Scope, n *ast.Lambda) (runtime.Value, error) {
	defaults, kwdefaults, err := in.evalParamDefaults(scope, n.Params)
	if err != nil {
		return nil, err
	}
	return &runtime.Function{
		Params: n.Params, Defaults: defaults, KwDefaults: kwdefaults,
		Body: []ast.Stmt{&ast.Return{Value: n.Body, P: n.Pos()}}, Closure: scope,
	}, nil
}

func (in *Interp) evalParamDefaults(scope *runtime.Scope, params *ast.Params) ([]runtime.Value, map[string]runtime.Value, error) {
	var defaults []runtime.Value
	for _, p := range params.Positional {
		if p.Default == nil {
			continue
		}
		v, err := in.evalExpr(scope, p.Default)
		if err != nil {
			return nil, nil, err
		}
		defaults = append(defaults, v)
	}
	kwdefaults := map[string]runtime.Value{}
	for _, p := range params.KwOnly {
		if p.Default == nil {
			continue
		}
		v, err := in.evalExpr(scope, p.Default)
		if err != nil {
			return nil, nil, err
		}
		kwdefaults[p.Name] = v
	}
	return defaults, kwdefaults, nil
}
