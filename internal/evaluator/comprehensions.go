package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// runComprehension drives the nested `for ... if ...` clauses of a
// comprehension/generator expression, invoking emit once per surviving
// combination of bindings in a fresh child scope per clause so the loop
// variables never leak into the enclosing scope (spec.md §4.2).
func (in *Interp) runComprehension(scope *runtime.Scope, gens []ast.Comprehension, emit func(*runtime.Scope) error) error {
	if len(gens) == 0 {
		return emit(scope)
	}
	clause := gens[0]
	iterVal, err := in.evalExpr(scope, clause.Iter)
	if err != nil {
		return err
	}
	return in.forEach(iterVal, clause.Iter.Pos(), func(item runtime.Value) (bool, error) {
		inner := runtime.NewChildScope(scope)
		if err := in.assignTarget(inner, clause.Target, item); err != nil {
			return false, err
		}
		for _, cond := range clause.Ifs {
			v, err := in.evalExpr(inner, cond)
			if err != nil {
				return false, err
			}
			if !v.Truthy() {
				return false, nil
			}
		}
		return false, in.runComprehension(inner, gens[1:], emit)
	})
}

func (in *Interp) evalListComp(scope *runtime.Scope, n *ast.ListComp) (runtime.Value, error) {
	var out []runtime.Value
	err := in.runComprehension(scope, n.Generators, func(inner *runtime.Scope) error {
		v, err := in.evalExpr(inner, n.Elt)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runtime.NewList(out), nil
}

func (in *Interp) evalSetComp(scope *runtime.Scope, n *ast.SetComp) (runtime.Value, error) {
	s := runtime.NewSet()
	err := in.runComprehension(scope, n.Generators, func(inner *runtime.Scope) error {
		v, err := in.evalExpr(inner, n.Elt)
		if err != nil {
			return err
		}
		return s.Add(v)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (in *Interp) evalDictComp(scope *runtime.Scope, n *ast.DictComp) (runtime.Value, error) {
	d := runtime.NewDict()
	err := in.runComprehension(scope, n.Generators, func(inner *runtime.Scope) error {
		k, err := in.evalExpr(inner, n.Key)
		if err != nil {
			return err
		}
		v, err := in.evalExpr(inner, n.Value)
		if err != nil {
			return err
		}
		return d.Set(k, v)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// evalGeneratorExp builds a lazy single-use generator (spec.md §4.2: "A
// generator expression is lazy: evaluated through the same generator
// protocol as a generator function, single-use"), driven on its own
// goroutine exactly like a `yield`-containing function body.
func (in *Interp) evalGeneratorExp(scope *runtime.Scope, n *ast.GeneratorExp) (runtime.Value, error) {
	return runtime.NewGenerator("<genexpr>", func(yield func(runtime.Value)) (runtime.Value, error) {
		gi := in.withYield(yield)
		err := gi.runComprehension(scope, n.Generators, func(inner *runtime.Scope) error {
			v, err := gi.evalExpr(inner, n.Elt)
			if err != nil {
				return err
			}
			yield(v)
			return nil
		})
		return runtime.None, err
	}), nil
}
