package sandbox

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// MethodFor resolves an unbound built-in method by receiver type and name,
// the way internal/evaluator's getAttr wires attribute lookups on str/list/
// dict/tuple values into a runtime.BoundMethodHost (spec.md §4.4's "the
// instance map -> class chain -> ..." resolution order has no entry for
// intrinsic types, so this is their equivalent of a class namespace). Every
// returned HostCallable expects the receiver prepended as args[0], matching
// runtime.BoundMethodHost's calling convention.
func MethodFor(receiver runtime.Value, name string) (*runtime.HostCallable, bool) {
	var table map[string]runtime.HostFunc
	switch receiver.(type) {
	case runtime.Str:
		table = strMethods
	case *runtime.List:
		table = listMethods
	case *runtime.Dict:
		table = dictMethods
	case *runtime.Tuple:
		table = tupleMethods
	default:
		return nil, false
	}
	fn, ok := table[name]
	if !ok {
		return nil, false
	}
	return &runtime.HostCallable{Name: name, Fn: fn}, true
}

func recvStr(args []runtime.Value) (string, []runtime.Value, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("missing receiver")
	}
	s, ok := args[0].(runtime.Str)
	if !ok {
		return "", nil, fmt.Errorf("expected a str receiver, got '%s'", args[0].Type())
	}
	return string(s), args[1:], nil
}

func recvList(args []runtime.Value) (*runtime.List, []runtime.Value, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("missing receiver")
	}
	l, ok := args[0].(*runtime.List)
	if !ok {
		return nil, nil, fmt.Errorf("expected a list receiver, got '%s'", args[0].Type())
	}
	return l, args[1:], nil
}

func recvDict(args []runtime.Value) (*runtime.Dict, []runtime.Value, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("missing receiver")
	}
	d, ok := args[0].(*runtime.Dict)
	if !ok {
		return nil, nil, fmt.Errorf("expected a dict receiver, got '%s'", args[0].Type())
	}
	return d, args[1:], nil
}

func recvTuple(args []runtime.Value) (*runtime.Tuple, []runtime.Value, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("missing receiver")
	}
	t, ok := args[0].(*runtime.Tuple)
	if !ok {
		return nil, nil, fmt.Errorf("expected a tuple receiver, got '%s'", args[0].Type())
	}
	return t, args[1:], nil
}

func strArg(v runtime.Value, who string) (string, error) {
	s, ok := v.(runtime.Str)
	if !ok {
		return "", fmt.Errorf("%s: expected a str argument, got '%s'", who, v.Type())
	}
	return string(s), nil
}

var strMethods = map[string]runtime.HostFunc{
	"upper": func(args []Value, _ map[string]Value) (Value, error) {
		s, _, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		return runtime.Str(strings.ToUpper(s)), nil
	},
	"lower": func(args []Value, _ map[string]Value) (Value, error) {
		s, _, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		return runtime.Str(strings.ToLower(s)), nil
	},
	"title": func(args []Value, _ map[string]Value) (Value, error) {
		s, _, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		return runtime.Str(titleCase(s)), nil
	},
	"capitalize": func(args []Value, _ map[string]Value) (Value, error) {
		s, _, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return runtime.Str(""), nil
		}
		r := []rune(strings.ToLower(s))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		return runtime.Str(string(r)), nil
	},
	"strip": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		cutset, err := stripCutset(rest)
		if err != nil {
			return nil, err
		}
		return runtime.Str(strings.Trim(s, cutset)), nil
	},
	"lstrip": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		cutset, err := stripCutset(rest)
		if err != nil {
			return nil, err
		}
		return runtime.Str(strings.TrimLeft(s, cutset)), nil
	},
	"rstrip": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		cutset, err := stripCutset(rest)
		if err != nil {
			return nil, err
		}
		return runtime.Str(strings.TrimRight(s, cutset)), nil
	},
	"split": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		var parts []string
		if len(rest) == 0 {
			parts = strings.Fields(s)
		} else {
			sep, err := strArg(rest[0], "split")
			if err != nil {
				return nil, err
			}
			parts = strings.Split(s, sep)
		}
		elems := make([]runtime.Value, len(parts))
		for i, p := range parts {
			elems[i] = runtime.Str(p)
		}
		return runtime.NewList(elems), nil
	},
	"join": func(args []Value, _ map[string]Value) (Value, error) {
		sep, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("join() takes exactly one argument (%d given)", len(rest))
		}
		items, err := iterableToSlice(rest[0])
		if err != nil {
			return nil, fmt.Errorf("can only join an iterable")
		}
		parts := make([]string, len(items))
		for i, v := range items {
			parts[i], err = strArg(v, "join")
			if err != nil {
				return nil, err
			}
		}
		return runtime.Str(strings.Join(parts, sep)), nil
	},
	"replace": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 2 {
			return nil, fmt.Errorf("replace() takes exactly two arguments (%d given)", len(rest))
		}
		old, err := strArg(rest[0], "replace")
		if err != nil {
			return nil, err
		}
		new, err := strArg(rest[1], "replace")
		if err != nil {
			return nil, err
		}
		return runtime.Str(strings.ReplaceAll(s, old, new)), nil
	},
	"startswith": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("startswith() takes exactly one argument (%d given)", len(rest))
		}
		prefix, err := strArg(rest[0], "startswith")
		if err != nil {
			return nil, err
		}
		return runtime.Bool(strings.HasPrefix(s, prefix)), nil
	},
	"endswith": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("endswith() takes exactly one argument (%d given)", len(rest))
		}
		suffix, err := strArg(rest[0], "endswith")
		if err != nil {
			return nil, err
		}
		return runtime.Bool(strings.HasSuffix(s, suffix)), nil
	},
	"find": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("find() takes exactly one argument (%d given)", len(rest))
		}
		sub, err := strArg(rest[0], "find")
		if err != nil {
			return nil, err
		}
		return runtime.NewInt(int64(strings.Index(s, sub))), nil
	},
	"index": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("index() takes exactly one argument (%d given)", len(rest))
		}
		sub, err := strArg(rest[0], "index")
		if err != nil {
			return nil, err
		}
		i := strings.Index(s, sub)
		if i < 0 {
			return nil, errors.New(errors.KindValue, "substring not found")
		}
		return runtime.NewInt(int64(i)), nil
	},
	"count": func(args []Value, _ map[string]Value) (Value, error) {
		s, rest, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("count() takes exactly one argument (%d given)", len(rest))
		}
		sub, err := strArg(rest[0], "count")
		if err != nil {
			return nil, err
		}
		return runtime.NewInt(int64(strings.Count(s, sub))), nil
	},
	"isalpha": func(args []Value, _ map[string]Value) (Value, error) {
		s, _, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(s != "" && strings.IndexFunc(s, func(r rune) bool {
			return !isAlpha(r)
		}) == -1), nil
	},
	"isdigit": func(args []Value, _ map[string]Value) (Value, error) {
		s, _, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(s != "" && strings.IndexFunc(s, func(r rune) bool {
			return r < '0' || r > '9'
		}) == -1), nil
	},
	"isspace": func(args []Value, _ map[string]Value) (Value, error) {
		s, _, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(s != "" && strings.TrimSpace(s) == ""), nil
	},
	"isupper": func(args []Value, _ map[string]Value) (Value, error) {
		s, _, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(s != "" && s == strings.ToUpper(s) && s != strings.ToLower(s)), nil
	},
	"islower": func(args []Value, _ map[string]Value) (Value, error) {
		s, _, err := recvStr(args)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(s != "" && s == strings.ToLower(s) && s != strings.ToUpper(s)), nil
	},
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// titleCase upper-cases the first letter of every run of alphabetic runes,
// lower-casing the rest, matching str.title()'s "word boundary" definition.
func titleCase(s string) string {
	r := []rune(s)
	prevAlpha := false
	for i, c := range r {
		if isAlpha(c) {
			if prevAlpha {
				r[i] = []rune(strings.ToLower(string(c)))[0]
			} else {
				r[i] = []rune(strings.ToUpper(string(c)))[0]
			}
			prevAlpha = true
		} else {
			prevAlpha = false
		}
	}
	return string(r)
}

func stripCutset(rest []Value) (string, error) {
	if len(rest) == 0 {
		return " \t\n\r\v\f", nil
	}
	return strArg(rest[0], "strip")
}

var listMethods = map[string]runtime.HostFunc{
	"append": func(args []Value, _ map[string]Value) (Value, error) {
		l, rest, err := recvList(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("append() takes exactly one argument (%d given)", len(rest))
		}
		l.Elems = append(l.Elems, rest[0])
		return runtime.None, nil
	},
	"extend": func(args []Value, _ map[string]Value) (Value, error) {
		l, rest, err := recvList(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("extend() takes exactly one argument (%d given)", len(rest))
		}
		items, err := iterableToSlice(rest[0])
		if err != nil {
			return nil, err
		}
		l.Elems = append(l.Elems, items...)
		return runtime.None, nil
	},
	"insert": func(args []Value, _ map[string]Value) (Value, error) {
		l, rest, err := recvList(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 2 {
			return nil, fmt.Errorf("insert() takes exactly two arguments (%d given)", len(rest))
		}
		idx, ok := runtime.AsBigInt(rest[0])
		if !ok {
			return nil, fmt.Errorf("insert(): index must be an integer")
		}
		i := clampIndex(int(idx.Int64()), len(l.Elems))
		l.Elems = append(l.Elems, nil)
		copy(l.Elems[i+1:], l.Elems[i:])
		l.Elems[i] = rest[1]
		return runtime.None, nil
	},
	"remove": func(args []Value, _ map[string]Value) (Value, error) {
		l, rest, err := recvList(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("remove() takes exactly one argument (%d given)", len(rest))
		}
		for i, e := range l.Elems {
			eq, err := valuesEqual(e, rest[0])
			if err != nil {
				return nil, err
			}
			if eq {
				l.Elems = append(l.Elems[:i], l.Elems[i+1:]...)
				return runtime.None, nil
			}
		}
		return nil, errors.New(errors.KindValue, "list.remove(x): x not in list")
	},
	"pop": func(args []Value, _ map[string]Value) (Value, error) {
		l, rest, err := recvList(args)
		if err != nil {
			return nil, err
		}
		i := len(l.Elems) - 1
		if len(rest) == 1 {
			idx, ok := runtime.AsBigInt(rest[0])
			if !ok {
				return nil, fmt.Errorf("pop(): index must be an integer")
			}
			i = int(idx.Int64())
			if i < 0 {
				i += len(l.Elems)
			}
		}
		if i < 0 || i >= len(l.Elems) {
			return nil, errors.New(errors.KindIndex, "pop index out of range")
		}
		v := l.Elems[i]
		l.Elems = append(l.Elems[:i], l.Elems[i+1:]...)
		return v, nil
	},
	"clear": func(args []Value, _ map[string]Value) (Value, error) {
		l, _, err := recvList(args)
		if err != nil {
			return nil, err
		}
		l.Elems = nil
		return runtime.None, nil
	},
	"index": func(args []Value, _ map[string]Value) (Value, error) {
		l, rest, err := recvList(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("index() takes exactly one argument (%d given)", len(rest))
		}
		for i, e := range l.Elems {
			eq, err := valuesEqual(e, rest[0])
			if err != nil {
				return nil, err
			}
			if eq {
				return runtime.NewInt(int64(i)), nil
			}
		}
		return nil, errors.New(errors.KindValue, "%s is not in list", runtime.Repr(rest[0]))
	},
	"count": func(args []Value, _ map[string]Value) (Value, error) {
		l, rest, err := recvList(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("count() takes exactly one argument (%d given)", len(rest))
		}
		n := 0
		for _, e := range l.Elems {
			eq, err := valuesEqual(e, rest[0])
			if err != nil {
				return nil, err
			}
			if eq {
				n++
			}
		}
		return runtime.NewInt(int64(n)), nil
	},
	"sort": func(args []Value, kwargs map[string]Value) (Value, error) {
		l, _, err := recvList(args)
		if err != nil {
			return nil, err
		}
		reverse := false
		if r, ok := kwargs["reverse"]; ok {
			reverse = r.Truthy()
		}
		var keyFn runtime.Value
		if k, ok := kwargs["key"]; ok {
			keyFn = k
		}
		var sortErr error
		sort.SliceStable(l.Elems, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			a, b := l.Elems[i], l.Elems[j]
			if keyFn != nil {
				if activeCaller == nil {
					sortErr = fmt.Errorf("sort(): key function unavailable")
					return false
				}
				a, sortErr = activeCaller.Call(keyFn, []runtime.Value{a}, nil)
				if sortErr != nil {
					return false
				}
				b, sortErr = activeCaller.Call(keyFn, []runtime.Value{b}, nil)
				if sortErr != nil {
					return false
				}
			}
			return valueLess(a, b)
		})
		if sortErr != nil {
			return nil, sortErr
		}
		if reverse {
			for i, j := 0, len(l.Elems)-1; i < j; i, j = i+1, j-1 {
				l.Elems[i], l.Elems[j] = l.Elems[j], l.Elems[i]
			}
		}
		return runtime.None, nil
	},
	"reverse": func(args []Value, _ map[string]Value) (Value, error) {
		l, _, err := recvList(args)
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(l.Elems)-1; i < j; i, j = i+1, j-1 {
			l.Elems[i], l.Elems[j] = l.Elems[j], l.Elems[i]
		}
		return runtime.None, nil
	},
	"copy": func(args []Value, _ map[string]Value) (Value, error) {
		l, _, err := recvList(args)
		if err != nil {
			return nil, err
		}
		return runtime.NewList(append([]runtime.Value(nil), l.Elems...)), nil
	},
}

var dictMethods = map[string]runtime.HostFunc{
	"items": func(args []Value, _ map[string]Value) (Value, error) {
		d, _, err := recvDict(args)
		if err != nil {
			return nil, err
		}
		keys, vals := d.Keys(), d.Values()
		out := make([]runtime.Value, len(keys))
		for i := range keys {
			out[i] = runtime.NewTuple([]runtime.Value{keys[i], vals[i]})
		}
		return runtime.NewList(out), nil
	},
	"keys": func(args []Value, _ map[string]Value) (Value, error) {
		d, _, err := recvDict(args)
		if err != nil {
			return nil, err
		}
		return runtime.NewList(append([]runtime.Value(nil), d.Keys()...)), nil
	},
	"values": func(args []Value, _ map[string]Value) (Value, error) {
		d, _, err := recvDict(args)
		if err != nil {
			return nil, err
		}
		return runtime.NewList(append([]runtime.Value(nil), d.Values()...)), nil
	},
	"get": func(args []Value, _ map[string]Value) (Value, error) {
		d, rest, err := recvDict(args)
		if err != nil {
			return nil, err
		}
		if len(rest) < 1 || len(rest) > 2 {
			return nil, fmt.Errorf("get() takes one or two arguments (%d given)", len(rest))
		}
		v, ok, err := d.Get(rest[0])
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
		if len(rest) == 2 {
			return rest[1], nil
		}
		return runtime.None, nil
	},
	"pop": func(args []Value, _ map[string]Value) (Value, error) {
		d, rest, err := recvDict(args)
		if err != nil {
			return nil, err
		}
		if len(rest) < 1 || len(rest) > 2 {
			return nil, fmt.Errorf("pop() takes one or two arguments (%d given)", len(rest))
		}
		v, ok, err := d.Get(rest[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			if len(rest) == 2 {
				return rest[1], nil
			}
			return nil, errors.New(errors.KindKey, "%s", runtime.Repr(rest[0]))
		}
		if _, err := d.Delete(rest[0]); err != nil {
			return nil, err
		}
		return v, nil
	},
	"setdefault": func(args []Value, _ map[string]Value) (Value, error) {
		d, rest, err := recvDict(args)
		if err != nil {
			return nil, err
		}
		if len(rest) < 1 || len(rest) > 2 {
			return nil, fmt.Errorf("setdefault() takes one or two arguments (%d given)", len(rest))
		}
		v, ok, err := d.Get(rest[0])
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
		def := Value(runtime.None)
		if len(rest) == 2 {
			def = rest[1]
		}
		if err := d.Set(rest[0], def); err != nil {
			return nil, err
		}
		return def, nil
	},
	"update": func(args []Value, _ map[string]Value) (Value, error) {
		d, rest, err := recvDict(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("update() takes exactly one argument (%d given)", len(rest))
		}
		other, ok := rest[0].(*runtime.Dict)
		if !ok {
			return nil, fmt.Errorf("update() argument must be a dict")
		}
		for i, k := range other.Keys() {
			if err := d.Set(k, other.Values()[i]); err != nil {
				return nil, err
			}
		}
		return runtime.None, nil
	},
	"clear": func(args []Value, _ map[string]Value) (Value, error) {
		d, _, err := recvDict(args)
		if err != nil {
			return nil, err
		}
		for _, k := range append([]runtime.Value(nil), d.Keys()...) {
			if _, err := d.Delete(k); err != nil {
				return nil, err
			}
		}
		return runtime.None, nil
	},
	"copy": func(args []Value, _ map[string]Value) (Value, error) {
		d, _, err := recvDict(args)
		if err != nil {
			return nil, err
		}
		out := runtime.NewDict()
		for i, k := range d.Keys() {
			if err := out.Set(k, d.Values()[i]); err != nil {
				return nil, err
			}
		}
		return out, nil
	},
}

var tupleMethods = map[string]runtime.HostFunc{
	"count": func(args []Value, _ map[string]Value) (Value, error) {
		t, rest, err := recvTuple(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("count() takes exactly one argument (%d given)", len(rest))
		}
		n := 0
		for _, e := range t.Elems {
			eq, err := valuesEqual(e, rest[0])
			if err != nil {
				return nil, err
			}
			if eq {
				n++
			}
		}
		return runtime.NewInt(int64(n)), nil
	},
	"index": func(args []Value, _ map[string]Value) (Value, error) {
		t, rest, err := recvTuple(args)
		if err != nil {
			return nil, err
		}
		if len(rest) != 1 {
			return nil, fmt.Errorf("index() takes exactly one argument (%d given)", len(rest))
		}
		for i, e := range t.Elems {
			eq, err := valuesEqual(e, rest[0])
			if err != nil {
				return nil, err
			}
			if eq {
				return runtime.NewInt(int64(i)), nil
			}
		}
		return nil, errors.New(errors.KindValue, "%s is not in tuple", runtime.Repr(rest[0]))
	},
}

// valuesEqual is a dunder-free structural equality used by the list/tuple
// methods above (remove/index/count have no evaluator in scope to
// dispatch a user class's __eq__, so this only ever needs to agree with
// internal/evaluator's richer valuesEqual on the built-in types it covers).
func valuesEqual(a, b runtime.Value) (bool, error) {
	if af, aok := runtime.AsFloat(a); aok {
		if bf, bok := runtime.AsFloat(b); bok {
			return af == bf, nil
		}
	}
	switch at := a.(type) {
	case runtime.Str:
		bt, ok := b.(runtime.Str)
		return ok && at == bt, nil
	case runtime.NoneValue:
		_, ok := b.(runtime.NoneValue)
		return ok, nil
	case *runtime.List:
		bt, ok := b.(*runtime.List)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return false, nil
		}
		for i := range at.Elems {
			eq, err := valuesEqual(at.Elems[i], bt.Elems[i])
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case *runtime.Tuple:
		bt, ok := b.(*runtime.Tuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return false, nil
		}
		for i := range at.Elems {
			eq, err := valuesEqual(at.Elems[i], bt.Elems[i])
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	default:
		return a.String() == b.String(), nil
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
