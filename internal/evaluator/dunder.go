package evaluator

import "github.com/cwbudde/go-pysb/internal/runtime"

// lookupDunder resolves a dunder method (__add__, __eq__, __enter__, ...) on
// v's class chain when v is a user Instance, per spec.md §4.4's "dunder
// dispatch." Host values never carry dunders here; their operators are
// handled directly by the per-type fast paths in expr.go/binop.go.
func (in *Interp) lookupDunder(v runtime.Value, name string) (runtime.Value, bool) {
	switch t := v.(type) {
	case *runtime.Instance:
		if m, ok := t.GetAttr(name); ok {
			return m, true
		}
	case *runtime.SuperProxy:
		if m, ok := t.GetAttr(name); ok {
			return m, true
		}
	}
	return nil, false
}

// classOf returns the Class a value is an instance of, for isinstance/
// issubclass and except-clause matching; ok is false for host values that
// have no user class.
func classOf(v runtime.Value) (*runtime.Class, bool) {
	if inst, ok := v.(*runtime.Instance); ok {
		return inst.Class, true
	}
	return nil, false
}
