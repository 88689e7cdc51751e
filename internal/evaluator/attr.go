package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/sandbox"
	"github.com/cwbudde/go-pysb/internal/token"
)

// evalAttribute implements spec.md §4.4's resolution order: instance map ->
// class chain -> sandbox filter for modules and other opaque host values.
func (in *Interp) evalAttribute(scope *runtime.Scope, n *ast.Attribute) (runtime.Value, error) {
	v, err := in.evalExpr(scope, n.Value)
	if err != nil {
		return nil, err
	}
	return in.getAttr(v, n.Attr, n.Pos())
}

func (in *Interp) getAttr(v runtime.Value, attr string, pos token.Position) (runtime.Value, error) {
	if attr == "__class__" {
		if inst, ok := v.(*runtime.Instance); ok {
			return inst.Class, nil
		}
		return runtime.Str(v.Type()), nil
	}
	switch t := v.(type) {
	case *runtime.Instance:
		if av, ok := t.GetAttr(attr); ok {
			return av, nil
		}
		return nil, errors.NewAt(errors.KindAttributeMissing, pos, "'%s' object has no attribute '%s'", t.Class.Name, attr)
	case *runtime.Class:
		if av, _, ok := t.Lookup(attr); ok {
			return av, nil
		}
		return nil, errors.NewAt(errors.KindAttributeMissing, pos, "type object '%s' has no attribute '%s'", t.Name, attr)
	case *runtime.SuperProxy:
		if av, ok := t.GetAttr(attr); ok {
			return av, nil
		}
		return nil, errors.NewAt(errors.KindAttributeMissing, pos, "'super' object has no attribute '%s'", attr)
	case *runtime.ModuleValue:
		av, status, err := t.GetAttr(attr)
		switch status {
		case runtime.AttrFound:
			return av, nil
		case runtime.AttrDenied:
			return nil, errors.NewAt(errors.KindAttributeDenied, pos, "%s", err.Error())
		default:
			if err != nil {
				return nil, errors.NewAt(errors.KindAttributeMissing, pos, "%s", err.Error())
			}
			return nil, errors.NewAt(errors.KindAttributeMissing, pos, "module '%s' has no attribute '%s'", t.Name, attr)
		}
	case *runtime.BoundMethodHost:
		return nil, errors.NewAt(errors.KindAttributeMissing, pos, "'method' object has no attribute '%s'", attr)
	}
	if method, ok := sandbox.MethodFor(v, attr); ok {
		return &runtime.BoundMethodHost{Receiver: v, Callable: method}, nil
	}
	return nil, errors.NewAt(errors.KindAttributeMissing, pos, "'%s' object has no attribute '%s'", v.Type(), attr)
}

// setAttr implements the assignment-target half of attribute access:
// __setattr__ dispatch for instances (direct map write; no dunder override
// modelled, matching spec.md's instance-map description), otherwise an
// error — modules and classes are not assignable targets here.
func (in *Interp) setAttr(v runtime.Value, attr string, val runtime.Value, pos token.Position) error {
	inst, ok := v.(*runtime.Instance)
	if !ok {
		return errors.NewAt(errors.KindType, pos, "'%s' object has no attribute '%s'", v.Type(), attr)
	}
	inst.SetAttr(attr, val)
	return nil
}

func (in *Interp) delAttr(v runtime.Value, attr string, pos token.Position) error {
	inst, ok := v.(*runtime.Instance)
	if !ok {
		return errors.NewAt(errors.KindType, pos, "'%s' object has no attribute '%s'", v.Type(), attr)
	}
	if !inst.DelAttr(attr) {
		return errors.NewAt(errors.KindAttributeMissing, pos, "'%s' object has no attribute '%s'", inst.Class.Name, attr)
	}
	return nil
}
