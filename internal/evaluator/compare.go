package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/token"
)

// evalCompare implements spec.md's chained comparison: `a OP1 b OP2 c` is
// `a OP1 b and b OP2 c`, but each middle term is evaluated exactly once.
func (in *Interp) evalCompare(scope *runtime.Scope, n *ast.Compare) (runtime.Value, error) {
	left, err := in.evalExpr(scope, n.Left)
	if err != nil {
		return nil, err
	}
	for i, op := range n.Ops {
		right, err := in.evalExpr(scope, n.Comps[i])
		if err != nil {
			return nil, err
		}
		ok, err := in.applyCompare(op, left, right, n.Pos())
		if err != nil {
			return nil, in.classify(err, n.Pos())
		}
		if !ok {
			return runtime.Bool(false), nil
		}
		left = right
	}
	return runtime.Bool(true), nil
}

func (in *Interp) applyCompare(op token.Kind, l, r runtime.Value, pos token.Position) (bool, error) {
	switch op {
	case token.IS:
		return sameObject(l, r), nil
	case token.ISNOT:
		return !sameObject(l, r), nil
	case token.IN:
		return in.containsValue(r, l, pos)
	case token.NOTIN:
		found, err := in.containsValue(r, l, pos)
		return !found, err
	case token.EQ:
		return in.valuesEqual(l, r)
	case token.NOTEQ:
		eq, err := in.valuesEqual(l, r)
		return !eq, err
	case token.LT, token.LTE, token.GT, token.GTE:
		return in.orderCompare(op, l, r, pos)
	}
	return false, errors.NewAt(errors.KindInternal, pos, "unsupported comparison operator")
}

// sameObject implements `is`/`is not`: identity for instances/containers,
// value equality for the host language's small immutable scalars (ints,
// floats, bools, strings, None), matching typical interned-literal behavior.
func sameObject(l, r runtime.Value) bool {
	switch lt := l.(type) {
	case runtime.NoneValue:
		_, ok := r.(runtime.NoneValue)
		return ok
	case runtime.Bool:
		rt, ok := r.(runtime.Bool)
		return ok && lt == rt
	case runtime.Int:
		rt, ok := r.(runtime.Int)
		return ok && lt.V.Cmp(rt.V) == 0
	case runtime.Float:
		rt, ok := r.(runtime.Float)
		return ok && lt == rt
	case runtime.Str:
		rt, ok := r.(runtime.Str)
		return ok && lt == rt
	}
	return l == r
}

func (in *Interp) valuesEqual(l, r runtime.Value) (bool, error) {
	if m, ok := in.lookupDunder(l, "__eq__"); ok {
		v, err := in.callFunctionValue(m, []runtime.Value{r}, nil)
		if err != nil {
			return false, err
		}
		return v.Truthy(), nil
	}
	if runtime.IsNumeric(l) && runtime.IsNumeric(r) {
		lf, _ := runtime.AsFloat(l)
		rf, _ := runtime.AsFloat(r)
		return lf == rf, nil
	}
	switch lt := l.(type) {
	case runtime.Str:
		rt, ok := r.(runtime.Str)
		return ok && lt == rt, nil
	case runtime.NoneValue:
		_, ok := r.(runtime.NoneValue)
		return ok, nil
	case *runtime.List:
		rt, ok := r.(*runtime.List)
		if !ok || len(rt.Elems) != len(lt.Elems) {
			return false, nil
		}
		for i := range lt.Elems {
			eq, err := in.valuesEqual(lt.Elems[i], rt.Elems[i])
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case *runtime.Tuple:
		rt, ok := r.(*runtime.Tuple)
		if !ok || len(rt.Elems) != len(lt.Elems) {
			return false, nil
		}
		for i := range lt.Elems {
			eq, err := in.valuesEqual(lt.Elems[i], rt.Elems[i])
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	}
	return sameObject(l, r), nil
}

func (in *Interp) orderCompare(op token.Kind, l, r runtime.Value, pos token.Position) (bool, error) {
	names := map[token.Kind]string{token.LT: "__lt__", token.LTE: "__le__", token.GT: "__gt__", token.GTE: "__ge__"}
	if m, ok := in.lookupDunder(l, names[op]); ok {
		v, err := in.callFunctionValue(m, []runtime.Value{r}, nil)
		if err != nil {
			return false, err
		}
		return v.Truthy(), nil
	}
	if runtime.IsNumeric(l) && runtime.IsNumeric(r) {
		lf, _ := runtime.AsFloat(l)
		rf, _ := runtime.AsFloat(r)
		switch op {
		case token.LT:
			return lf < rf, nil
		case token.LTE:
			return lf <= rf, nil
		case token.GT:
			return lf > rf, nil
		case token.GTE:
			return lf >= rf, nil
		}
	}
	if ls, ok := l.(runtime.Str); ok {
		if rs, ok := r.(runtime.Str); ok {
			switch op {
			case token.LT:
				return ls < rs, nil
			case token.LTE:
				return ls <= rs, nil
			case token.GT:
				return ls > rs, nil
			case token.GTE:
				return ls >= rs, nil
			}
		}
	}
	return false, errors.NewAt(errors.KindType, pos, "'%s' not supported between instances of '%s' and '%s'", op, l.Type(), r.Type())
}

// containsValue implements `in`/`not in` for sequences, strings, mappings
// (key membership) and sets, dispatching to __contains__ for instances.
func (in *Interp) containsValue(container, item runtime.Value, pos token.Position) (bool, error) {
	switch c := container.(type) {
	case *runtime.List:
		for _, e := range c.Elems {
			if eq, err := in.valuesEqual(e, item); err != nil || eq {
				return eq, err
			}
		}
		return false, nil
	case *runtime.Tuple:
		for _, e := range c.Elems {
			if eq, err := in.valuesEqual(e, item); err != nil || eq {
				return eq, err
			}
		}
		return false, nil
	case runtime.Str:
		sub, ok := item.(runtime.Str)
		if !ok {
			return false, errors.NewAt(errors.KindType, pos, "'in <string>' requires string as left operand, not '%s'", item.Type())
		}
		return containsSubstr(string(c), string(sub)), nil
	case *runtime.Dict:
		_, ok, err := c.Get(item)
		if err != nil {
			return false, nil
		}
		return ok, nil
	case *runtime.SetValue:
		ok, err := c.Contains(item)
		if err != nil {
			return false, nil
		}
		return ok, nil
	}
	if m, ok := in.lookupDunder(container, "__contains__"); ok {
		v, err := in.callFunctionValue(m, []runtime.Value{item}, nil)
		if err != nil {
			return false, err
		}
		return v.Truthy(), nil
	}
	return false, errors.NewAt(errors.KindType, pos, "argument of type '%s' is not iterable", container.Type())
}

func containsSubstr(s, sub string) bool {
	if sub == "" {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
