package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/token"
)

func (in *Interp) evalSubscript(scope *runtime.Scope, n *ast.Subscript) (runtime.Value, error) {
	v, err := in.evalExpr(scope, n.Value)
	if err != nil {
		return nil, err
	}
	if sl, ok := n.Index.(*ast.Slice); ok {
		return in.evalSliceGet(scope, v, sl)
	}
	idx, err := in.evalExpr(scope, n.Index)
	if err != nil {
		return nil, err
	}
	return in.subscriptGet(v, idx, n.Pos())
}

func (in *Interp) subscriptGet(v, idx runtime.Value, pos token.Position) (runtime.Value, error) {
	switch t := v.(type) {
	case *runtime.List:
		i, err := sequenceIndex(idx, len(t.Elems), pos)
		if err != nil {
			return nil, err
		}
		return t.Elems[i], nil
	case *runtime.Tuple:
		i, err := sequenceIndex(idx, len(t.Elems), pos)
		if err != nil {
			return nil, err
		}
		return t.Elems[i], nil
	case runtime.Str:
		runes := []rune(string(t))
		i, err := sequenceIndex(idx, len(runes), pos)
		if err != nil {
			return nil, err
		}
		return runtime.Str(string(runes[i])), nil
	case *runtime.Dict:
		val, ok, err := t.Get(idx)
		if err != nil {
			return nil, errors.NewAt(errors.KindType, pos, "%s", err.Error())
		}
		if !ok {
			return nil, errors.NewAt(errors.KindKey, pos, "%s", runtime.Repr(idx))
		}
		return val, nil
	}
	if m, ok := in.lookupDunder(v, "__getitem__"); ok {
		return in.callFunctionValue(m, []runtime.Value{idx}, nil)
	}
	return nil, errors.NewAt(errors.KindType, pos, "'%s' object is not subscriptable", v.Type())
}

// sequenceIndex resolves a Python-style (possibly negative) integer index
// against length, bounds-checking and raising IndexError on overflow.
func sequenceIndex(idx runtime.Value, length int, pos token.Position) (int, error) {
	i, ok := idx.(runtime.Int)
	if !ok {
		return 0, errors.NewAt(errors.KindType, pos, "indices must be integers, not '%s'", idx.Type())
	}
	n := int(i.Int64())
	if n < 0 {
		n += length
	}
	if n < 0 || n >= length {
		return 0, errors.NewAt(errors.KindIndex, pos, "index out of range")
	}
	return n, nil
}

func (in *Interp) evalSliceGet(scope *runtime.Scope, v runtime.Value, sl *ast.Slice) (runtime.Value, error) {
	length, err := in.subscriptLength(v, sl.Pos())
	if err != nil {
		return nil, err
	}
	start, stop, step, err := in.resolveSlice(scope, sl, length)
	if err != nil {
		return nil, err
	}
	indices := sliceIndices(start, stop, step, length)
	switch t := v.(type) {
	case *runtime.List:
		out := make([]runtime.Value, len(indices))
		for i, idx := range indices {
			out[i] = t.Elems[idx]
		}
		return runtime.NewList(out), nil
	case *runtime.Tuple:
		out := make([]runtime.Value, len(indices))
		for i, idx := range indices {
			out[i] = t.Elems[idx]
		}
		return runtime.NewTuple(out), nil
	case runtime.Str:
		runes := []rune(string(t))
		out := make([]rune, len(indices))
		for i, idx := range indices {
			out[i] = runes[idx]
		}
		return runtime.Str(string(out)), nil
	}
	return nil, errors.NewAt(errors.KindType, sl.Pos(), "'%s' object is not subscriptable", v.Type())
}

func (in *Interp) subscriptLength(v runtime.Value, pos token.Position) (int, error) {
	switch t := v.(type) {
	case *runtime.List:
		return len(t.Elems), nil
	case *runtime.Tuple:
		return len(t.Elems), nil
	case runtime.Str:
		return len([]rune(string(t))), nil
	}
	return 0, errors.NewAt(errors.KindType, pos, "'%s' object is not subscriptable", v.Type())
}

func (in *Interp) resolveSlice(scope *runtime.Scope, sl *ast.Slice, length int) (start, stop, step int, err error) {
	step = 1
	if sl.Step != nil {
		v, e := in.evalExpr(scope, sl.Step)
		if e != nil {
			return 0, 0, 0, e
		}
		i, ok := v.(runtime.Int)
		if !ok || i.Int64() == 0 {
			return 0, 0, 0, errors.NewAt(errors.KindType, sl.Pos(), "slice step cannot be zero")
		}
		step = int(i.Int64())
	}
	if step > 0 {
		start, stop = 0, length
	} else {
		start, stop = length-1, -length-1
	}
	if sl.Lower != nil {
		v, e := in.evalExpr(scope, sl.Lower)
		if e != nil {
			return 0, 0, 0, e
		}
		start = clampSliceIndex(v, length, step > 0)
	}
	if sl.Upper != nil {
		v, e := in.evalExpr(scope, sl.Upper)
		if e != nil {
			return 0, 0, 0, e
		}
		stop = clampSliceIndex(v, length, step > 0)
	}
	return start, stop, step, nil
}

func clampSliceIndex(v runtime.Value, length int, forward bool) int {
	i, ok := v.(runtime.Int)
	if !ok {
		return 0
	}
	n := int(i.Int64())
	if n < 0 {
		n += length
	}
	if forward {
		if n < 0 {
			n = 0
		}
		if n > length {
			n = length
		}
	} else {
		if n < -1 {
			n = -1
		}
		if n >= length {
			n = length - 1
		}
	}
	return n
}

func sliceIndices(start, stop, step, length int) []int {
	var out []int
	if step > 0 {
		for i := start; i < stop; i += step {
			if i >= 0 && i < length {
				out = append(out, i)
			}
		}
	} else {
		for i := start; i > stop; i += step {
			if i >= 0 && i < length {
				out = append(out, i)
			}
		}
	}
	return out
}

// setSubscript implements the assignment-target half: __setitem__ dispatch
// for instances, direct index write for lists, key write for dicts.
func (in *Interp) setSubscript(v, idx, val runtime.Value, pos token.Position) error {
	switch t := v.(type) {
	case *runtime.List:
		i, err := sequenceIndex(idx, len(t.Elems), pos)
		if err != nil {
			return err
		}
		t.Elems[i] = val
		return nil
	case *runtime.Dict:
		if err := t.Set(idx, val); err != nil {
			return errors.NewAt(errors.KindType, pos, "%s", err.Error())
		}
		return nil
	}
	if m, ok := in.lookupDunder(v, "__setitem__"); ok {
		_, err := in.callFunctionValue(m, []runtime.Value{idx, val}, nil)
		return err
	}
	return errors.NewAt(errors.KindType, pos, "'%s' object does not support item assignment", v.Type())
}

func (in *Interp) delSubscript(v, idx runtime.Value, pos token.Position) error {
	switch t := v.(type) {
	case *runtime.List:
		i, err := sequenceIndex(idx, len(t.Elems), pos)
		if err != nil {
			return err
		}
		t.Elems = append(t.Elems[:i], t.Elems[i+1:]...)
		return nil
	case *runtime.Dict:
		ok, err := t.Delete(idx)
		if err != nil {
			return errors.NewAt(errors.KindType, pos, "%s", err.Error())
		}
		if !ok {
			return errors.NewAt(errors.KindKey, pos, "%s", runtime.Repr(idx))
		}
		return nil
	}
	if m, ok := in.lookupDunder(v, "__delitem__"); ok {
		_, err := in.callFunctionValue(m, []runtime.Value{idx}, nil)
		return err
	}
	return errors.NewAt(errors.KindType, pos, "'%s' object does not support item deletion", v.Type())
}
