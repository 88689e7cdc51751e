package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// Call implements sandbox.Caller so built-ins like map/filter/sorted(key=)
// can invoke user-supplied callables back through the evaluator.
func (in *Interp) Call(fn runtime.Value, args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	return in.callFunctionValue(fn, args, kwargs)
}

func (in *Interp) evalCall(scope *runtime.Scope, n *ast.Call) (runtime.Value, error) {
	if name, ok := n.Func.(*ast.Name); ok && name.Ident == "super" && len(n.Args) == 0 && len(n.Keywords) == 0 {
		if _, bound := in.Env.Lookup(scope, "super"); !bound {
			return in.evalSuperCall(scope, n)
		}
	}
	fn, err := in.evalExpr(scope, n.Func)
	if err != nil {
		return nil, err
	}
	args, kwargs, err := in.evalArgs(scope, n)
	if err != nil {
		return nil, err
	}
	v, err := in.callFunctionValue(fn, args, kwargs)
	if err != nil {
		return nil, in.classify(err, n.Pos())
	}
	return v, nil
}

func (in *Interp) evalArgs(scope *runtime.Scope, n *ast.Call) ([]runtime.Value, map[string]runtime.Value, error) {
	var args []runtime.Value
	for _, a := range n.Args {
		if st, ok := a.(*ast.Starred); ok {
			v, err := in.evalExpr(scope, st.Value)
			if err != nil {
				return nil, nil, err
			}
			seq, err := in.toSlice(v, st.Pos())
			if err != nil {
				return nil, nil, err
			}
			args = append(args, seq...)
			continue
		}
		v, err := in.evalExpr(scope, a)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, v)
	}
	var kwargs map[string]runtime.Value
	for _, kw := range n.Keywords {
		v, err := in.evalExpr(scope, kw.Value)
		if err != nil {
			return nil, nil, err
		}
		if kwargs == nil {
			kwargs = map[string]runtime.Value{}
		}
		if kw.Ident == "" {
			d, ok := v.(*runtime.Dict)
			if !ok {
				return nil, nil, errors.New(errors.KindType, "argument after ** must be a dict")
			}
			for _, k := range d.Keys() {
				val, _, _ := d.Get(k)
				ks, ok := k.(runtime.Str)
				if !ok {
					return nil, nil, errors.New(errors.KindType, "keywords must be strings")
				}
				kwargs[string(ks)] = val
			}
			continue
		}
		kwargs[kw.Ident] = v
	}
	return args, kwargs, nil
}

// callFunctionValue dispatches a call to whichever kind of callable fn is:
// a user Function/closure, a HostCallable/BoundMethodHost, a Class
// (instantiation), or an Instance defining __call__.
func (in *Interp) callFunctionValue(fn runtime.Value, args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	switch f := fn.(type) {
	case *runtime.Function:
		return in.callUserFunction(f, args, kwargs)
	case *runtime.HostCallable:
		v, err := f.Fn(args, kwargs)
		if err != nil {
			return nil, classifyHostError(err)
		}
		return v, nil
	case *runtime.BoundMethodHost:
		allArgs := append([]runtime.Value{f.Receiver}, args...)
		v, err := f.Callable.Fn(allArgs, kwargs)
		if err != nil {
			return nil, classifyHostError(err)
		}
		return v, nil
	case *runtime.Class:
		return in.instantiate(f, args, kwargs)
	case *runtime.Instance:
		if call, ok := f.GetAttr("__call__"); ok {
			return in.callFunctionValue(call, args, kwargs)
		}
	}
	return nil, errors.New(errors.KindType, "'%s' object is not callable", fn.Type())
}

// classifyHostError lets a caller-supplied callable's ClientError pass
// through unwrapped (spec.md §7 reserves ClientError for that case alone),
// preserves an error a builtin already classified itself (e.g. a sandbox
// method raising KindValue), and otherwise classifies an ordinary Go error
// from a HostCallable/BoundMethodHost as a TypeError-like InterpreterError
// so it participates in try/except instead of escaping uncatchable.
func classifyHostError(err error) error {
	if errors.IsClientError(err) {
		return err
	}
	if ie, ok := err.(*errors.InterpreterError); ok {
		return ie
	}
	return errors.New(errors.KindType, "%s", err.Error())
}

// callUserFunction binds args/kwargs to f's parameter descriptor (spec.md
// §4.4's argument-binding order: positional, then defaults, then
// **kwargs/*args spillover), runs the body in a fresh child frame of the
// closure, and unwraps a propagated ReturnSignal into its carried value.
func (in *Interp) callUserFunction(f *runtime.Function, args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	frame := runtime.NewChildScope(f.Closure)
	if f.BoundSelf != nil {
		args = append([]runtime.Value{f.BoundSelf}, args...)
	}
	if err := bindParams(frame, f.Params, f.Defaults, f.KwDefaults, args, kwargs); err != nil {
		return nil, errors.New(errors.KindType, "%s", err.Error())
	}
	if f.DefiningClass != nil && f.BoundSelf != nil {
		frame.Assign(hiddenSelfKey, f.BoundSelf)
		frame.Assign(hiddenClassKey, f.DefiningClass)
	}
	if f.IsGenerator {
		return in.makeGenerator(f, frame), nil
	}
	err := in.execBlock(frame, f.Body)
	if err == nil {
		return runtime.None, nil
	}
	if ret, ok := err.(runtime.ReturnSignal); ok {
		return ret.Value, nil
	}
	return nil, err
}

func bindParams(frame *runtime.Scope, params *ast.Params, defaults []runtime.Value, kwdefaults map[string]runtime.Value, args []runtime.Value, kwargs map[string]runtime.Value) error {
	pos := params.Positional
	firstDefaultIdx := len(pos) - len(defaults)
	i := 0
	for ; i < len(pos) && i < len(args); i++ {
		frame.Assign(pos[i].Name, args[i])
	}
	for ; i < len(pos); i++ {
		if kw, ok := kwargs[pos[i].Name]; ok {
			frame.Assign(pos[i].Name, kw)
			delete(kwargs, pos[i].Name)
			continue
		}
		if i >= firstDefaultIdx {
			frame.Assign(pos[i].Name, defaults[i-firstDefaultIdx])
			continue
		}
		return errorsMissingArg(pos[i].Name)
	}
	if params.VarArg != "" {
		extra := args[min(i, len(args)):]
		if len(args) > len(pos) {
			extra = args[len(pos):]
		} else {
			extra = nil
		}
		frame.Assign(params.VarArg, runtime.NewTuple(extra))
	}
	for _, kw := range params.KwOnly {
		if v, ok := kwargs[kw.Name]; ok {
			frame.Assign(kw.Name, v)
			delete(kwargs, kw.Name)
			continue
		}
		if v, ok := kwdefaults[kw.Name]; ok {
			frame.Assign(kw.Name, v)
			continue
		}
		return errorsMissingArg(kw.Name)
	}
	if params.VarKwArg != "" {
		d := runtime.NewDict()
		for k, v := range kwargs {
			d.Set(runtime.Str(k), v)
		}
		frame.Assign(params.VarKwArg, d)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func errorsMissingArg(name string) error {
	return errors.New(errors.KindType, "missing required argument: '%s'", name)
}

// makeGenerator wraps a generator function's body into a runtime.Generator
// driven by a dedicated goroutine, with `yield` expressions inside the body
// routed through the generator's yield channel (spec.md §9).
func (in *Interp) makeGenerator(f *runtime.Function, frame *runtime.Scope) *runtime.Generator {
	name := f.Name
	if name == "" {
		name = "<anonymous>"
	}
	return runtime.NewGenerator(name, func(yield func(runtime.Value)) (runtime.Value, error) {
		gi := in.withYield(yield)
		err := gi.execBlock(frame, f.Body)
		if err == nil {
			return runtime.None, nil
		}
		if ret, ok := err.(runtime.ReturnSignal); ok {
			return ret.Value, nil
		}
		return nil, err
	})
}
