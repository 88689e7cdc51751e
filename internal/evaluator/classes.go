package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// instantiate allocates a new Instance of class and runs __init__ if the
// class chain defines one (spec.md §4.4); __init__'s return value is
// discarded, matching the host language. __init__ is either a user
// Function (an ordinary `def __init__` in a class body) or a HostCallable
// (the shared constructor every runtime.NewBuiltinExceptions class carries).
func (in *Interp) instantiate(class *runtime.Class, args []runtime.Value, kwargs map[string]runtime.Value) (runtime.Value, error) {
	inst := runtime.NewInstance(class)
	if initFn, _, ok := class.Lookup("__init__"); ok {
		switch fn := initFn.(type) {
		case *runtime.Function:
			if _, err := in.callUserFunction(fn.Bind(inst), args, kwargs); err != nil {
				return nil, err
			}
		case *runtime.HostCallable:
			allArgs := append([]runtime.Value{runtime.Value(inst)}, args...)
			if _, err := fn.Fn(allArgs, kwargs); err != nil {
				return nil, err
			}
		}
	}
	return inst, nil
}

// evalClassDef evaluates a class body in a fresh scope (its assignments
// become the class namespace, per spec.md §4.4), builds the runtime.Class,
// stamps every function found there with DefiningClass for `super()`, and
// binds the class name in scope. Decorators apply innermost-first.
func (in *Interp) evalClassDef(scope *runtime.Scope, n *ast.ClassDef) error {
	var base *runtime.Class
	if n.Base != nil {
		bv, err := in.evalExpr(scope, n.Base)
		if err != nil {
			return err
		}
		bc, ok := bv.(*runtime.Class)
		if !ok {
			return errors.NewAt(errors.KindType, n.Pos(), "base must be a class, got '%s'", bv.Type())
		}
		base = bc
	}
	class := runtime.NewClass(n.Name, base)
	bodyScope := runtime.NewChildScope(scope)
	if err := in.execBlock(bodyScope, n.Body); err != nil {
		return err
	}
	for _, name := range bodyScope.Names() {
		v, _ := bodyScope.GetLocal(name)
		if fn, ok := v.(*runtime.Function); ok {
			fn.IsMethod = true
			fn.DefiningClass = class
		}
		class.Namespace[name] = v
	}
	var result runtime.Value = class
	for i := len(n.Decorators) - 1; i >= 0; i-- {
		dec, err := in.evalExpr(scope, n.Decorators[i])
		if err != nil {
			return err
		}
		result, err = in.callFunctionValue(dec, []runtime.Value{result}, nil)
		if err != nil {
			return err
		}
	}
	return in.Env.AssignChecked(scope, n.Name, result)
}

// evalFunctionDef builds a closure-capturing Function value from a `def`
// statement and binds it under its name, applying decorators
// innermost-first (spec.md §4.3).
func (in *Interp) evalFunctionDef(scope *runtime.Scope, n *ast.FunctionDef) error {
	defaults, kwdefaults, err := in.evalParamDefaults(scope, n.Params)
	if err != nil {
		return err
	}
	fn := &runtime.Function{
		Name: n.Name, Params: n.Params, Defaults: defaults, KwDefaults: kwdefaults,
		Body: n.Body, Closure: scope, IsGenerator: n.IsGenerator,
	}
	var result runtime.Value = fn
	for i := len(n.Decorators) - 1; i >= 0; i-- {
		dec, err := in.evalExpr(scope, n.Decorators[i])
		if err != nil {
			return err
		}
		result, err = in.callFunctionValue(dec, []runtime.Value{result}, nil)
		if err != nil {
			return err
		}
	}
	return in.Env.AssignChecked(scope, n.Name, result)
}

// evalSuperCall resolves a bare `super()` call inside a method body: scope
// must carry the hidden `__class__`/`self` bindings callUserFunction installs
// for methods (DefiningClass-stamped functions).
func (in *Interp) evalSuperCall(scope *runtime.Scope, pos ast.Node) (runtime.Value, error) {
	selfV, ok := scope.Get(hiddenSelfKey)
	if !ok {
		return nil, errors.NewAt(errors.KindType, pos.Pos(), "super(): no current instance")
	}
	classV, ok := scope.Get(hiddenClassKey)
	if !ok {
		return nil, errors.NewAt(errors.KindType, pos.Pos(), "super(): no current class")
	}
	self, ok := selfV.(*runtime.Instance)
	if !ok {
		return nil, errors.NewAt(errors.KindType, pos.Pos(), "super(): current self is not an instance")
	}
	class := classV.(*runtime.Class)
	return &runtime.SuperProxy{Instance: self, FromBase: class.Base}, nil
}

const (
	hiddenSelfKey  = "__self__"
	hiddenClassKey = "__class__"
)
