package evaluator

import (
	"math"
	"math/big"
	"strings"

	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/token"
)

func mathPow(a, b float64) float64 { return math.Pow(a, b) }

var binDunder = map[token.Kind][2]string{
	token.PLUS:     {"__add__", "__radd__"},
	token.MINUS:    {"__sub__", "__rsub__"},
	token.STAR:     {"__mul__", "__rmul__"},
	token.SLASH:    {"__truediv__", "__rtruediv__"},
	token.DOUBLESLASH: {"__floordiv__", "__rfloordiv__"},
	token.PERCENT:      {"__mod__", "__rmod__"},
	token.DOUBLESTAR:   {"__pow__", "__rpow__"},
	token.AMP:      {"__and__", "__rand__"},
	token.PIPE:     {"__or__", "__ror__"},
	token.CARET:    {"__xor__", "__rxor__"},
	token.LSHIFT:   {"__lshift__", "__rlshift__"},
	token.RSHIFT:   {"__rshift__", "__rrshift__"},
}

func (in *Interp) evalBinOp(scope *runtime.Scope, n *ast.BinOp) (runtime.Value, error) {
	l, err := in.evalExpr(scope, n.Left)
	if err != nil {
		return nil, err
	}
	r, err := in.evalExpr(scope, n.Right)
	if err != nil {
		return nil, err
	}
	v, err := in.applyBinOp(n.Op, l, r, n.Pos())
	if err != nil {
		return nil, in.classify(err, n.Pos())
	}
	return v, nil
}

func (in *Interp) applyBinOp(op token.Kind, l, r runtime.Value, pos token.Position) (runtime.Value, error) {
	switch op {
	case token.PLUS:
		if v, ok, err := addValues(l, r); ok || err != nil {
			return v, err
		}
		if _, lok := l.(*runtime.List); lok {
			if _, rok := r.(*runtime.List); !rok {
				return nil, errors.NewAt(errors.KindType, pos, "Cannot add non-list value %s to a list.", runtime.Repr(r))
			}
		}
	case token.MINUS:
		if v, ok := arith(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }, func(a, b float64) float64 { return a - b }); ok {
			return v, nil
		}
	case token.STAR:
		if v, ok, err := mulValues(l, r); ok || err != nil {
			return v, err
		}
	case token.SLASH:
		return divValues(l, r, pos)
	case token.DOUBLESLASH:
		return floorDivValues(l, r, pos)
	case token.PERCENT:
		return modValues(l, r, pos)
	case token.DOUBLESTAR:
		if v, ok := powValues(l, r); ok {
			return v, nil
		}
	case token.AMP:
		if v, ok := bitwise(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) }); ok {
			return v, nil
		}
	case token.PIPE:
		if v, ok := bitwise(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Or(a, b) }); ok {
			return v, nil
		}
	case token.CARET:
		if v, ok := bitwise(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) }); ok {
			return v, nil
		}
	case token.LSHIFT:
		if v, ok := shift(l, r, true); ok {
			return v, nil
		}
	case token.RSHIFT:
		if v, ok := shift(l, r, false); ok {
			return v, nil
		}
	}
	if names, ok := binDunder[op]; ok {
		if m, ok := in.lookupDunder(l, names[0]); ok {
			return in.callFunctionValue(m, []runtime.Value{r}, nil)
		}
		if m, ok := in.lookupDunder(r, names[1]); ok {
			return in.callFunctionValue(m, []runtime.Value{l}, nil)
		}
	}
	return nil, errors.NewAt(errors.KindType, pos, "unsupported operand type(s) for %v: '%s' and '%s'", op, l.Type(), r.Type())
}

func addValues(l, r runtime.Value) (runtime.Value, bool, error) {
	if ls, ok := l.(runtime.Str); ok {
		if rs, ok := r.(runtime.Str); ok {
			return runtime.Str(string(ls) + string(rs)), true, nil
		}
		return nil, false, nil
	}
	if ll, ok := l.(*runtime.List); ok {
		if rl, ok := r.(*runtime.List); ok {
			out := append(append([]runtime.Value{}, ll.Elems...), rl.Elems...)
			return runtime.NewList(out), true, nil
		}
		return nil, false, nil
	}
	if lt, ok := l.(*runtime.Tuple); ok {
		if rt, ok := r.(*runtime.Tuple); ok {
			out := append(append([]runtime.Value{}, lt.Elems...), rt.Elems...)
			return runtime.NewTuple(out), true, nil
		}
		return nil, false, nil
	}
	if v, ok := arith(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }, func(a, b float64) float64 { return a + b }); ok {
		return v, true, nil
	}
	return nil, false, nil
}

func mulValues(l, r runtime.Value) (runtime.Value, bool, error) {
	if s, n, ok := seqRepeatArgs(l, r); ok {
		return repeatSeq(s, n)
	}
	if v, ok := arith(l, r, func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }, func(a, b float64) float64 { return a * b }); ok {
		return v, true, nil
	}
	return nil, false, nil
}

func seqRepeatArgs(l, r runtime.Value) (runtime.Value, int, bool) {
	if n, ok := r.(runtime.Int); ok {
		switch l.(type) {
		case *runtime.List, *runtime.Tuple, runtime.Str:
			return l, int(n.Int64()), true
		}
	}
	if n, ok := l.(runtime.Int); ok {
		switch r.(type) {
		case *runtime.List, *runtime.Tuple, runtime.Str:
			return r, int(n.Int64()), true
		}
	}
	return nil, 0, false
}

func repeatSeq(s runtime.Value, n int) (runtime.Value, bool, error) {
	if n < 0 {
		n = 0
	}
	switch t := s.(type) {
	case *runtime.List:
		var out []runtime.Value
		for i := 0; i < n; i++ {
			out = append(out, t.Elems...)
		}
		return runtime.NewList(out), true, nil
	case *runtime.Tuple:
		var out []runtime.Value
		for i := 0; i < n; i++ {
			out = append(out, t.Elems...)
		}
		return runtime.NewTuple(out), true, nil
	case runtime.Str:
		return runtime.Str(strings.Repeat(string(t), n)), true, nil
	}
	return nil, false, nil
}

func arith(l, r runtime.Value, intOp func(a, b *big.Int) *big.Int, floatOp func(a, b float64) float64) (runtime.Value, bool) {
	if !runtime.IsNumeric(l) || !runtime.IsNumeric(r) {
		return nil, false
	}
	if runtime.BothIntegral(l, r) {
		lb, _ := runtime.AsBigInt(l)
		rb, _ := runtime.AsBigInt(r)
		return runtime.Int{V: intOp(lb, rb)}, true
	}
	lf, _ := runtime.AsFloat(l)
	rf, _ := runtime.AsFloat(r)
	return runtime.Float(floatOp(lf, rf)), true
}

func bitwise(l, r runtime.Value, op func(a, b *big.Int) *big.Int) (runtime.Value, bool) {
	lb, ok1 := runtime.AsBigInt(l)
	rb, ok2 := runtime.AsBigInt(r)
	if !ok1 || !ok2 {
		return nil, false
	}
	return runtime.Int{V: op(lb, rb)}, true
}

func shift(l, r runtime.Value, left bool) (runtime.Value, bool) {
	lb, ok1 := runtime.AsBigInt(l)
	rb, ok2 := runtime.AsBigInt(r)
	if !ok1 || !ok2 {
		return nil, false
	}
	n := uint(rb.Int64())
	out := new(big.Int)
	if left {
		out.Lsh(lb, n)
	} else {
		out.Rsh(lb, n)
	}
	return runtime.Int{V: out}, true
}

func divValues(l, r runtime.Value, pos token.Position) (runtime.Value, error) {
	if !runtime.IsNumeric(l) || !runtime.IsNumeric(r) {
		return nil, errors.NewAt(errors.KindType, pos, "unsupported operand type(s) for /: '%s' and '%s'", l.Type(), r.Type())
	}
	rf, _ := runtime.AsFloat(r)
	if rf == 0 {
		return nil, errors.NewAt(errors.KindType, pos, "division by zero")
	}
	lf, _ := runtime.AsFloat(l)
	return runtime.Float(lf / rf), nil
}

func floorDivValues(l, r runtime.Value, pos token.Position) (runtime.Value, error) {
	if !runtime.IsNumeric(l) || !runtime.IsNumeric(r) {
		return nil, errors.NewAt(errors.KindType, pos, "unsupported operand type(s) for //: '%s' and '%s'", l.Type(), r.Type())
	}
	if runtime.BothIntegral(l, r) {
		lb, _ := runtime.AsBigInt(l)
		rb, _ := runtime.AsBigInt(r)
		if rb.Sign() == 0 {
			return nil, errors.NewAt(errors.KindType, pos, "integer division or modulo by zero")
		}
		q := new(big.Int)
		m := new(big.Int)
		q.DivMod(lb, rb, m)
		return runtime.Int{V: q}, nil
	}
	lf, _ := runtime.AsFloat(l)
	rf, _ := runtime.AsFloat(r)
	if rf == 0 {
		return nil, errors.NewAt(errors.KindType, pos, "float floor division by zero")
	}
	q := lf / rf
	if q < 0 {
		return runtime.Float(float64(int64(q)) - 1), nil
	}
	return runtime.Float(float64(int64(q))), nil
}

func modValues(l, r runtime.Value, pos token.Position) (runtime.Value, error) {
	if !runtime.IsNumeric(l) || !runtime.IsNumeric(r) {
		return nil, errors.NewAt(errors.KindType, pos, "unsupported operand type(s) for %%: '%s' and '%s'", l.Type(), r.Type())
	}
	if runtime.BothIntegral(l, r) {
		lb, _ := runtime.AsBigInt(l)
		rb, _ := runtime.AsBigInt(r)
		if rb.Sign() == 0 {
			return nil, errors.NewAt(errors.KindType, pos, "integer division or modulo by zero")
		}
		m := new(big.Int).Mod(lb, rb)
		return runtime.Int{V: m}, nil
	}
	lf, _ := runtime.AsFloat(l)
	rf, _ := runtime.AsFloat(r)
	if rf == 0 {
		return nil, errors.NewAt(errors.KindType, pos, "float modulo")
	}
	m := lf - rf*float64(int64(lf/rf))
	return runtime.Float(m), nil
}

func powValues(l, r runtime.Value) (runtime.Value, bool) {
	if !runtime.IsNumeric(l) || !runtime.IsNumeric(r) {
		return nil, false
	}
	if runtime.BothIntegral(l, r) {
		rb, _ := runtime.AsBigInt(r)
		if rb.Sign() >= 0 {
			lb, _ := runtime.AsBigInt(l)
			return runtime.Int{V: new(big.Int).Exp(lb, rb, nil)}, true
		}
	}
	lf, _ := runtime.AsFloat(l)
	rf, _ := runtime.AsFloat(r)
	return runtime.Float(mathPow(lf, rf)), true
}
