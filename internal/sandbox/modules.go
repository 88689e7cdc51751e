package sandbox

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/go-pysb/internal/runtime"
)

// ModuleDef is the unfiltered shape of a host module before wrapping: a
// flat set of members plus nested submodules. spec.md §1 treats the
// runtime library of "safe" intrinsic modules (math, random, itertools,
// re, statistics, queue, unicodedata, stat, pandas, numpy …) as external,
// opaque collaborators; ModuleDef/WrapModule is the adapter boundary the
// core plugs into. `math` and `random` are wired here to demonstrate the
// adapter end-to-end; the remaining names in spec.md §1's list follow the
// identical pattern and are omitted from the default registry (see
// DESIGN.md).
type ModuleDef struct {
	Path       string
	Members    map[string]runtime.Value
	Submodules map[string]*ModuleDef
}

// WrapModule builds the sandbox-filtered runtime.ModuleValue for def,
// recursively re-wrapping any submodule the caller authorizes (§4.6a).
func WrapModule(def *ModuleDef, allowlist []string) *runtime.ModuleValue {
	return &runtime.ModuleValue{
		Name: def.Path,
		GetAttr: func(attr string) (runtime.Value, runtime.AttrStatus, error) {
			if !AttrAuthorized(def.Path, attr, allowlist) {
				return nil, runtime.AttrDenied, fmt.Errorf("AttributeError: module '%s' has no attribute '%s'", def.Path, attr)
			}
			if sub, ok := def.Submodules[attr]; ok {
				return WrapModule(sub, allowlist), runtime.AttrFound, nil
			}
			if v, ok := def.Members[attr]; ok {
				return v, runtime.AttrFound, nil
			}
			return nil, runtime.AttrMissing, fmt.Errorf("AttributeError: module '%s' has no attribute '%s'", def.Path, attr)
		},
	}
}

func hostFn(name string, fn runtime.HostFunc) *runtime.HostCallable {
	return &runtime.HostCallable{Name: name, Fn: fn}
}

func arg1Float(args []Value, name string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s() takes exactly one argument (%d given)", name, len(args))
	}
	f, ok := runtime.AsFloat(args[0])
	if !ok {
		return 0, fmt.Errorf("%s() argument must be a number", name)
	}
	return f, nil
}

// Value is a local alias to keep the helper signatures terse.
type Value = runtime.Value

// MathModule returns the standard-library-backed `math` adapter.
func MathModule() *ModuleDef {
	wrap1 := func(name string, f func(float64) float64) *runtime.HostCallable {
		return hostFn(name, func(args []Value, _ map[string]Value) (Value, error) {
			x, err := arg1Float(args, name)
			if err != nil {
				return nil, err
			}
			return runtime.Float(f(x)), nil
		})
	}
	return &ModuleDef{
		Path: "math",
		Members: map[string]Value{
			"pi":    runtime.Float(math.Pi),
			"e":     runtime.Float(math.E),
			"inf":   runtime.Float(math.Inf(1)),
			"nan":   runtime.Float(math.NaN()),
			"sqrt":  wrap1("sqrt", math.Sqrt),
			"floor": wrap1("floor", math.Floor),
			"ceil":  wrap1("ceil", math.Ceil),
			"fabs":  wrap1("fabs", math.Abs),
			"trunc": wrap1("trunc", math.Trunc),
			"sin":   wrap1("sin", math.Sin),
			"cos":   wrap1("cos", math.Cos),
			"tan":   wrap1("tan", math.Tan),
			"log":   wrap1("log", math.Log),
			"log2":  wrap1("log2", math.Log2),
			"log10": wrap1("log10", math.Log10),
			"isnan": hostFn("isnan", func(args []Value, _ map[string]Value) (Value, error) {
				x, err := arg1Float(args, "isnan")
				if err != nil {
					return nil, err
				}
				return runtime.Bool(math.IsNaN(x)), nil
			}),
			"isinf": hostFn("isinf", func(args []Value, _ map[string]Value) (Value, error) {
				x, err := arg1Float(args, "isinf")
				if err != nil {
					return nil, err
				}
				return runtime.Bool(math.IsInf(x, 0)), nil
			}),
			"pow": hostFn("pow", func(args []Value, _ map[string]Value) (Value, error) {
				if len(args) != 2 {
					return nil, fmt.Errorf("pow() takes exactly two arguments (%d given)", len(args))
				}
				x, ok1 := runtime.AsFloat(args[0])
				y, ok2 := runtime.AsFloat(args[1])
				if !ok1 || !ok2 {
					return nil, fmt.Errorf("pow() arguments must be numbers")
				}
				return runtime.Float(math.Pow(x, y)), nil
			}),
		},
	}
}

// RandomModule returns the standard-library-backed `random` adapter, rooted
// in a dedicated *rand.Rand so `random.seed()` is deterministic per module
// instance rather than mutating process-global state.
func RandomModule() *ModuleDef {
	src := rand.New(rand.NewSource(1))
	return &ModuleDef{
		Path: "random",
		Members: map[string]Value{
			"random": hostFn("random", func(args []Value, _ map[string]Value) (Value, error) {
				return runtime.Float(src.Float64()), nil
			}),
			"seed": hostFn("seed", func(args []Value, _ map[string]Value) (Value, error) {
				if len(args) == 1 {
					if bi, ok := runtime.AsBigInt(args[0]); ok {
						src.Seed(bi.Int64())
					}
				}
				return runtime.None, nil
			}),
			"randint": hostFn("randint", func(args []Value, _ map[string]Value) (Value, error) {
				if len(args) != 2 {
					return nil, fmt.Errorf("randint() takes exactly two arguments (%d given)", len(args))
				}
				lo, ok1 := runtime.AsBigInt(args[0])
				hi, ok2 := runtime.AsBigInt(args[1])
				if !ok1 || !ok2 {
					return nil, fmt.Errorf("randint() arguments must be integers")
				}
				span := hi.Int64() - lo.Int64() + 1
				if span <= 0 {
					return nil, fmt.Errorf("empty range for randint()")
				}
				return runtime.NewInt(lo.Int64() + src.Int63n(span)), nil
			}),
			"uniform": hostFn("uniform", func(args []Value, _ map[string]Value) (Value, error) {
				if len(args) != 2 {
					return nil, fmt.Errorf("uniform() takes exactly two arguments (%d given)", len(args))
				}
				lo, ok1 := runtime.AsFloat(args[0])
				hi, ok2 := runtime.AsFloat(args[1])
				if !ok1 || !ok2 {
					return nil, fmt.Errorf("uniform() arguments must be numbers")
				}
				return runtime.Float(lo + src.Float64()*(hi-lo)), nil
			}),
			"choice": hostFn("choice", func(args []Value, _ map[string]Value) (Value, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("choice() takes exactly one argument (%d given)", len(args))
				}
				seq, err := asIndexable(args[0])
				if err != nil {
					return nil, err
				}
				if len(seq) == 0 {
					return nil, fmt.Errorf("cannot choose from an empty sequence")
				}
				return seq[src.Intn(len(seq))], nil
			}),
			"shuffle": hostFn("shuffle", func(args []Value, _ map[string]Value) (Value, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("shuffle() takes exactly one argument (%d given)", len(args))
				}
				l, ok := args[0].(*runtime.List)
				if !ok {
					return nil, fmt.Errorf("shuffle() argument must be a list")
				}
				src.Shuffle(len(l.Elems), func(i, j int) { l.Elems[i], l.Elems[j] = l.Elems[j], l.Elems[i] })
				return runtime.None, nil
			}),
		},
	}
}

func asIndexable(v Value) ([]Value, error) {
	switch t := v.(type) {
	case *runtime.List:
		return t.Elems, nil
	case *runtime.Tuple:
		return t.Elems, nil
	default:
		return nil, fmt.Errorf("expected a sequence, got %s", v.Type())
	}
}
