package sandbox

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/go-pysb/internal/runtime"
)

// DefaultBuiltins returns the closed set of pure, non-I/O built-in
// callables spec.md §6 names as always available without an explicit
// import: a fixed table of runtime.HostCallable values the environment's
// Tools namespace is seeded with. `print` is the one impure member of the
// set; it writes through the StringSink the caller supplied rather than to
// a host stream directly, keeping the sandbox boundary intact.
func DefaultBuiltins(stdout StringSink) map[string]runtime.Value {
	out := map[string]runtime.Value{}
	reg := func(name string, fn runtime.HostFunc) {
		out[name] = &runtime.HostCallable{Name: name, Fn: fn}
	}

	reg("abs", builtinAbs)
	reg("round", builtinRound)
	reg("min", builtinMinMax(false))
	reg("max", builtinMinMax(true))
	reg("sum", builtinSum)
	reg("pow", builtinPow)
	reg("divmod", builtinDivmod)
	reg("int", builtinInt)
	reg("float", builtinFloat)
	reg("str", builtinStr)
	reg("bool", builtinBool)
	reg("list", builtinList)
	reg("tuple", builtinTuple)
	reg("dict", builtinDict)
	reg("set", builtinSet)
	reg("bytes", builtinBytes)
	reg("len", builtinLen)
	reg("type", builtinType)
	reg("isinstance", builtinIsinstance)
	reg("hasattr", builtinHasattr)
	reg("getattr", builtinGetattr)
	reg("range", builtinRange)
	reg("enumerate", builtinEnumerate)
	reg("zip", builtinZip)
	reg("map", builtinMap)
	reg("filter", builtinFilter)
	reg("sorted", builtinSorted)
	reg("reversed", builtinReversed)
	reg("iter", builtinIter)
	reg("next", builtinNext)
	reg("any", builtinAny)
	reg("all", builtinAll)
	reg("chr", builtinChr)
	reg("ord", builtinOrd)
	reg("repr", builtinRepr)
	reg("format", builtinFormat)
	reg("print", builtinPrint(stdout))

	for name, cls := range runtime.NewBuiltinExceptions() {
		out[name] = cls
	}

	return out
}

// StringSink is the minimal write surface `print` needs; *bytes.Buffer,
// os.Stdout and strings.Builder all satisfy it without pulling io into
// this file's public shape.
type StringSink interface {
	WriteString(s string) (int, error)
}

func builtinAbs(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("abs() takes exactly one argument (%d given)", len(args))
	}
	switch v := args[0].(type) {
	case runtime.Int:
		var r runtime.Int
		r = runtime.NewInt(0)
		r.V.Abs(v.V)
		return r, nil
	case runtime.Float:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case runtime.Bool:
		if v {
			return runtime.NewInt(1), nil
		}
		return runtime.NewInt(0), nil
	}
	return nil, fmt.Errorf("bad operand type for abs(): '%s'", args[0].Type())
}

func builtinRound(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("round() takes one or two arguments (%d given)", len(args))
	}
	f, ok := runtime.AsFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("type %s doesn't define __round__ method", args[0].Type())
	}
	ndigits := 0
	if len(args) == 2 {
		bi, ok := runtime.AsBigInt(args[1])
		if !ok {
			return nil, fmt.Errorf("'%s' object cannot be interpreted as an integer", args[1].Type())
		}
		ndigits = int(bi.Int64())
	}
	mul := 1.0
	for i := 0; i < ndigits; i++ {
		mul *= 10
	}
	for i := 0; i > ndigits; i-- {
		mul /= 10
	}
	rounded := roundHalfToEven(f*mul) / mul
	if len(args) == 1 {
		return runtime.NewIntFromFloat(rounded), nil
	}
	return runtime.Float(rounded), nil
}

func roundHalfToEven(f float64) float64 {
	floor := float64(int64(f))
	diff := f - floor
	switch {
	case diff < 0.5:
		return floor
	case diff > 0.5:
		return floor + 1
	default:
		if int64(floor)%2 == 0 {
			return floor
		}
		return floor + 1
	}
}

func builtinMinMax(wantMax bool) runtime.HostFunc {
	return func(args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
		name := "min"
		if wantMax {
			name = "max"
		}
		items := args
		if len(args) == 1 {
			seq, err := asIndexable(args[0])
			if err != nil {
				return nil, fmt.Errorf("%s() argument must be iterable", name)
			}
			items = seq
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%s() arg is an empty sequence", name)
		}
		best := items[0]
		for _, v := range items[1:] {
			bf, _ := runtime.AsFloat(best)
			vf, _ := runtime.AsFloat(v)
			if (wantMax && vf > bf) || (!wantMax && vf < bf) {
				best = v
			}
		}
		return best, nil
	}
}

func builtinSum(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("sum() takes one or two arguments (%d given)", len(args))
	}
	seq, err := asIndexable(args[0])
	if err != nil {
		return nil, fmt.Errorf("sum() argument must be iterable")
	}
	var total float64
	allInt := true
	for _, v := range seq {
		f, ok := runtime.AsFloat(v)
		if !ok {
			return nil, fmt.Errorf("unsupported operand type(s) for +: '%s'", v.Type())
		}
		if _, isInt := v.(runtime.Int); !isInt {
			if _, isBool := v.(runtime.Bool); !isBool {
				allInt = false
			}
		}
		total += f
	}
	if len(args) == 2 {
		sf, ok := runtime.AsFloat(args[1])
		if !ok {
			return nil, fmt.Errorf("sum() start value must be numeric")
		}
		if _, isInt := args[1].(runtime.Int); !isInt {
			allInt = false
		}
		total += sf
	}
	if allInt {
		return runtime.NewIntFromFloat(total), nil
	}
	return runtime.Float(total), nil
}

func builtinPow(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("pow() takes exactly two arguments (%d given)", len(args))
	}
	x, _ := runtime.AsFloat(args[0])
	y, _ := runtime.AsFloat(args[1])
	if runtime.BothIntegral(args[0], args[1]) && y >= 0 {
		bx, _ := runtime.AsBigInt(args[0])
		by, _ := runtime.AsBigInt(args[1])
		r := runtime.NewInt(0)
		r.V.Exp(bx, by, nil)
		return r, nil
	}
	var result float64 = 1
	for i := 0.0; i < y; i++ {
		result *= x
	}
	return runtime.Float(result), nil
}

func builtinDivmod(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("divmod() takes exactly two arguments (%d given)", len(args))
	}
	if runtime.BothIntegral(args[0], args[1]) {
		a, _ := runtime.AsBigInt(args[0])
		b, _ := runtime.AsBigInt(args[1])
		if b.Sign() == 0 {
			return nil, fmt.Errorf("integer division or modulo by zero")
		}
		q, m := runtime.NewInt(0), runtime.NewInt(0)
		q.V.DivMod(a, b, m.V)
		return runtime.NewTuple([]runtime.Value{q, m}), nil
	}
	a, _ := runtime.AsFloat(args[0])
	b, _ := runtime.AsFloat(args[1])
	if b == 0 {
		return nil, fmt.Errorf("float divmod()")
	}
	q := float64(int64(a / b))
	m := a - q*b
	return runtime.NewTuple([]runtime.Value{runtime.Float(q), runtime.Float(m)}), nil
}

func builtinInt(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.NewInt(0), nil
	}
	switch v := args[0].(type) {
	case runtime.Str:
		n, err := runtime.NewIntFromString(strings.TrimSpace(string(v)))
		if err != nil {
			return nil, fmt.Errorf("invalid literal for int() with base 10: '%s'", v)
		}
		return n, nil
	default:
		f, ok := runtime.AsFloat(v)
		if !ok {
			return nil, fmt.Errorf("int() argument must be a string or a number, not '%s'", v.Type())
		}
		return runtime.NewIntFromFloat(f), nil
	}
}

func builtinFloat(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Float(0), nil
	}
	switch v := args[0].(type) {
	case runtime.Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, fmt.Errorf("could not convert string to float: '%s'", v)
		}
		return runtime.Float(f), nil
	default:
		f, ok := runtime.AsFloat(v)
		if !ok {
			return nil, fmt.Errorf("float() argument must be a string or a number, not '%s'", v.Type())
		}
		return runtime.Float(f), nil
	}
}

func builtinStr(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Str(""), nil
	}
	return runtime.Str(args[0].String()), nil
}

func builtinBool(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Bool(false), nil
	}
	return runtime.Bool(args[0].Truthy()), nil
}

func builtinList(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.NewList(nil), nil
	}
	seq, err := iterableToSlice(args[0])
	if err != nil {
		return nil, err
	}
	return runtime.NewList(seq), nil
}

func builtinTuple(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.NewTuple(nil), nil
	}
	seq, err := iterableToSlice(args[0])
	if err != nil {
		return nil, err
	}
	return runtime.NewTuple(seq), nil
}

func builtinDict(args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	d := runtime.NewDict()
	if len(args) == 1 {
		seq, err := iterableToSlice(args[0])
		if err != nil {
			return nil, err
		}
		for _, pair := range seq {
			p, err := asIndexable(pair)
			if err != nil || len(p) != 2 {
				return nil, fmt.Errorf("dictionary update sequence element has wrong length")
			}
			if err := d.Set(p[0], p[1]); err != nil {
				return nil, err
			}
		}
	}
	for k, v := range kwargs {
		if err := d.Set(runtime.Str(k), v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func builtinSet(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	s := runtime.NewSet()
	if len(args) == 1 {
		seq, err := iterableToSlice(args[0])
		if err != nil {
			return nil, err
		}
		for _, v := range seq {
			if err := s.Add(v); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func builtinBytes(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Bytes(nil), nil
	}
	switch v := args[0].(type) {
	case runtime.Int:
		return runtime.Bytes(make([]byte, v.Int64())), nil
	case runtime.Str:
		return runtime.Bytes([]byte(v)), nil
	}
	return nil, fmt.Errorf("cannot convert '%s' object to bytes", args[0].Type())
}

func builtinLen(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len() takes exactly one argument (%d given)", len(args))
	}
	switch v := args[0].(type) {
	case *runtime.List:
		return runtime.NewInt(int64(len(v.Elems))), nil
	case *runtime.Tuple:
		return runtime.NewInt(int64(len(v.Elems))), nil
	case runtime.Str:
		return runtime.NewInt(int64(len([]rune(string(v))))), nil
	case runtime.Bytes:
		return runtime.NewInt(int64(len(v))), nil
	case *runtime.Dict:
		return runtime.NewInt(int64(v.Len())), nil
	case *runtime.SetValue:
		return runtime.NewInt(int64(v.Len())), nil
	}
	return nil, fmt.Errorf("object of type '%s' has no len()", args[0].Type())
}

func builtinType(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("type() takes exactly one argument (%d given)", len(args))
	}
	if inst, ok := args[0].(*runtime.Instance); ok {
		return inst.Class, nil
	}
	return runtime.Str(args[0].Type()), nil
}

func builtinIsinstance(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("isinstance() takes exactly two arguments (%d given)", len(args))
	}
	classes, err := classTuple(args[1])
	if err != nil {
		return nil, err
	}
	inst, ok := args[0].(*runtime.Instance)
	if !ok {
		for _, c := range classes {
			if c.Name == args[0].Type() {
				return runtime.Bool(true), nil
			}
		}
		return runtime.Bool(false), nil
	}
	for _, c := range classes {
		if inst.Class.IsSubclassOf(c) {
			return runtime.Bool(true), nil
		}
	}
	return runtime.Bool(false), nil
}

func classTuple(v runtime.Value) ([]*runtime.Class, error) {
	switch t := v.(type) {
	case *runtime.Class:
		return []*runtime.Class{t}, nil
	case *runtime.Tuple:
		out := make([]*runtime.Class, 0, len(t.Elems))
		for _, e := range t.Elems {
			c, ok := e.(*runtime.Class)
			if !ok {
				return nil, fmt.Errorf("isinstance() arg 2 must be a type or tuple of types")
			}
			out = append(out, c)
		}
		return out, nil
	}
	return nil, fmt.Errorf("isinstance() arg 2 must be a type or tuple of types")
}

func builtinHasattr(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("hasattr() takes exactly two arguments (%d given)", len(args))
	}
	name, ok := args[1].(runtime.Str)
	if !ok {
		return nil, fmt.Errorf("hasattr(): attribute name must be string")
	}
	_, found := attrLookup(args[0], string(name))
	return runtime.Bool(found), nil
}

func builtinGetattr(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("getattr() takes two or three arguments (%d given)", len(args))
	}
	name, ok := args[1].(runtime.Str)
	if !ok {
		return nil, fmt.Errorf("getattr(): attribute name must be string")
	}
	v, found := attrLookup(args[0], string(name))
	if found {
		return v, nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return nil, fmt.Errorf("'%s' object has no attribute '%s'", args[0].Type(), name)
}

func attrLookup(v runtime.Value, name string) (runtime.Value, bool) {
	switch t := v.(type) {
	case *runtime.Instance:
		return t.GetAttr(name)
	case *runtime.Class:
		got, _, ok := t.Lookup(name)
		return got, ok
	}
	if method, ok := MethodFor(v, name); ok {
		return &runtime.BoundMethodHost{Receiver: v, Callable: method}, true
	}
	return nil, false
}

func builtinRange(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		bi, ok := runtime.AsBigInt(args[0])
		if !ok {
			return nil, fmt.Errorf("'%s' object cannot be interpreted as an integer", args[0].Type())
		}
		stop = bi.Int64()
	case 2, 3:
		a, ok1 := runtime.AsBigInt(args[0])
		b, ok2 := runtime.AsBigInt(args[1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("range() arguments must be integers")
		}
		start, stop = a.Int64(), b.Int64()
		if len(args) == 3 {
			c, ok := runtime.AsBigInt(args[2])
			if !ok {
				return nil, fmt.Errorf("range() arguments must be integers")
			}
			step = c.Int64()
			if step == 0 {
				return nil, fmt.Errorf("range() arg 3 must not be zero")
			}
		}
	default:
		return nil, fmt.Errorf("range expected 1 to 3 arguments, got %d", len(args))
	}
	var elems []runtime.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			elems = append(elems, runtime.NewInt(i))
		}
	} else {
		for i := start; i > stop; i += step {
			elems = append(elems, runtime.NewInt(i))
		}
	}
	return runtime.NewList(elems), nil
}

func builtinEnumerate(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("enumerate() takes one or two arguments (%d given)", len(args))
	}
	seq, err := iterableToSlice(args[0])
	if err != nil {
		return nil, err
	}
	start := int64(0)
	if len(args) == 2 {
		bi, ok := runtime.AsBigInt(args[1])
		if !ok {
			return nil, fmt.Errorf("enumerate() second argument must be an integer")
		}
		start = bi.Int64()
	}
	out := make([]runtime.Value, len(seq))
	for i, v := range seq {
		out[i] = runtime.NewTuple([]runtime.Value{runtime.NewInt(start + int64(i)), v})
	}
	return runtime.NewList(out), nil
}

func builtinZip(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	seqs := make([][]runtime.Value, len(args))
	minLen := -1
	for i, a := range args {
		seq, err := iterableToSlice(a)
		if err != nil {
			return nil, err
		}
		seqs[i] = seq
		if minLen == -1 || len(seq) < minLen {
			minLen = len(seq)
		}
	}
	if minLen == -1 {
		minLen = 0
	}
	out := make([]runtime.Value, minLen)
	for i := 0; i < minLen; i++ {
		row := make([]runtime.Value, len(seqs))
		for j := range seqs {
			row[j] = seqs[j][i]
		}
		out[i] = runtime.NewTuple(row)
	}
	return runtime.NewList(out), nil
}

// Caller lets map/filter/sorted invoke a function value; implemented by the
// evaluator and installed at wiring time since only it knows how to invoke
// runtime.Function/closures.
type Caller interface {
	Call(fn runtime.Value, args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error)
}

var activeCaller Caller

// SetCaller installs the evaluator's function-invocation hook so map,
// filter and sorted's key= can call back into user code. Must be called
// once during session wiring before any script runs.
func SetCaller(c Caller) { activeCaller = c }

func builtinMap(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("map() must have at least two arguments")
	}
	if activeCaller == nil {
		return nil, fmt.Errorf("map() unavailable: no caller installed")
	}
	seq, err := iterableToSlice(args[1])
	if err != nil {
		return nil, err
	}
	out := make([]runtime.Value, len(seq))
	for i, v := range seq {
		r, err := activeCaller.Call(args[0], []runtime.Value{v}, nil)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return runtime.NewList(out), nil
}

func builtinFilter(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("filter() takes exactly two arguments (%d given)", len(args))
	}
	seq, err := iterableToSlice(args[1])
	if err != nil {
		return nil, err
	}
	var out []runtime.Value
	for _, v := range seq {
		keep := v.Truthy()
		if _, isNone := args[0].(runtime.NoneValue); !isNone {
			if activeCaller == nil {
				return nil, fmt.Errorf("filter() unavailable: no caller installed")
			}
			r, err := activeCaller.Call(args[0], []runtime.Value{v}, nil)
			if err != nil {
				return nil, err
			}
			keep = r.Truthy()
		}
		if keep {
			out = append(out, v)
		}
	}
	return runtime.NewList(out), nil
}

func builtinSorted(args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("sorted() takes exactly one argument (%d given)", len(args))
	}
	seq, err := iterableToSlice(args[0])
	if err != nil {
		return nil, err
	}
	out := append([]runtime.Value(nil), seq...)
	keyFn, hasKey := kwargs["key"]
	reverse := false
	if r, ok := kwargs["reverse"]; ok {
		reverse = r.Truthy()
	}
	var sortErr error
	less := func(i, j int) bool {
		a, b := out[i], out[j]
		if hasKey {
			if activeCaller == nil {
				sortErr = fmt.Errorf("sorted() key unavailable: no caller installed")
				return false
			}
			ka, err := activeCaller.Call(keyFn, []runtime.Value{a}, nil)
			if err != nil {
				sortErr = err
				return false
			}
			kb, err := activeCaller.Call(keyFn, []runtime.Value{b}, nil)
			if err != nil {
				sortErr = err
				return false
			}
			a, b = ka, kb
		}
		return valueLess(a, b)
	}
	sort.SliceStable(out, less)
	if sortErr != nil {
		return nil, sortErr
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return runtime.NewList(out), nil
}

func valueLess(a, b runtime.Value) bool {
	if af, aok := runtime.AsFloat(a); aok {
		if bf, bok := runtime.AsFloat(b); bok {
			return af < bf
		}
	}
	if as, ok := a.(runtime.Str); ok {
		if bs, ok := b.(runtime.Str); ok {
			return as < bs
		}
	}
	return a.String() < b.String()
}

func builtinReversed(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("reversed() takes exactly one argument (%d given)", len(args))
	}
	seq, err := iterableToSlice(args[0])
	if err != nil {
		return nil, err
	}
	out := make([]runtime.Value, len(seq))
	for i, v := range seq {
		out[len(seq)-1-i] = v
	}
	return runtime.NewList(out), nil
}

func builtinIter(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("iter() takes exactly one argument (%d given)", len(args))
	}
	return args[0], nil
}

func builtinNext(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("next() takes one or two arguments (%d given)", len(args))
	}
	gen, ok := args[0].(*runtime.Generator)
	if !ok {
		return nil, fmt.Errorf("'%s' object is not an iterator", args[0].Type())
	}
	v, ok, err := gen.Advance()
	if err != nil {
		return nil, err
	}
	if !ok {
		if len(args) == 2 {
			return args[1], nil
		}
		return nil, &runtime.StopIteration{}
	}
	return v, nil
}

func builtinAny(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	seq, err := iterableToSlice(mustOne(args))
	if err != nil {
		return nil, err
	}
	for _, v := range seq {
		if v.Truthy() {
			return runtime.Bool(true), nil
		}
	}
	return runtime.Bool(false), nil
}

func builtinAll(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	seq, err := iterableToSlice(mustOne(args))
	if err != nil {
		return nil, err
	}
	for _, v := range seq {
		if !v.Truthy() {
			return runtime.Bool(false), nil
		}
	}
	return runtime.Bool(true), nil
}

func mustOne(args []runtime.Value) runtime.Value {
	if len(args) != 1 {
		return runtime.None
	}
	return args[0]
}

func builtinChr(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("chr() takes exactly one argument (%d given)", len(args))
	}
	bi, ok := runtime.AsBigInt(args[0])
	if !ok {
		return nil, fmt.Errorf("an integer is required")
	}
	return runtime.Str(rune(bi.Int64())), nil
}

func builtinOrd(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("ord() takes exactly one argument (%d given)", len(args))
	}
	s, ok := args[0].(runtime.Str)
	if !ok {
		return nil, fmt.Errorf("ord() expected string")
	}
	r := []rune(string(s))
	if len(r) != 1 {
		return nil, fmt.Errorf("ord() expected a character, but string of length %d found", len(r))
	}
	return runtime.NewInt(int64(r[0])), nil
}

func builtinRepr(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("repr() takes exactly one argument (%d given)", len(args))
	}
	return runtime.Str(runtime.Repr(args[0])), nil
}

func builtinFormat(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("format() takes one or two arguments (%d given)", len(args))
	}
	spec := ""
	if len(args) == 2 {
		s, ok := args[1].(runtime.Str)
		if !ok {
			return nil, fmt.Errorf("format() spec must be a string")
		}
		spec = string(s)
	}
	return runtime.Str(runtime.FormatSpec(args[0], spec)), nil
}

func builtinPrint(stdout StringSink) runtime.HostFunc {
	return func(args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
		sep := " "
		if s, ok := kwargs["sep"].(runtime.Str); ok {
			sep = string(s)
		}
		end := "\n"
		if e, ok := kwargs["end"].(runtime.Str); ok {
			end = string(e)
		}
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		if stdout != nil {
			stdout.WriteString(strings.Join(parts, sep) + end)
		}
		return runtime.None, nil
	}
}

// iterableToSlice materializes any of the host language's built-in
// iterables (list, tuple, dict keys, set, str characters, generator) into
// a Go slice for the eager builtins above.
func iterableToSlice(v runtime.Value) ([]runtime.Value, error) {
	switch t := v.(type) {
	case *runtime.List:
		return t.Elems, nil
	case *runtime.Tuple:
		return t.Elems, nil
	case *runtime.SetValue:
		return t.Elems(), nil
	case *runtime.Dict:
		return t.Keys(), nil
	case runtime.Str:
		runes := []rune(string(t))
		out := make([]runtime.Value, len(runes))
		for i, r := range runes {
			out[i] = runtime.Str(string(r))
		}
		return out, nil
	case *runtime.Generator:
		var out []runtime.Value
		for {
			val, ok, err := t.Advance()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			out = append(out, val)
		}
		return out, nil
	}
	return nil, fmt.Errorf("'%s' object is not iterable", v.Type())
}
