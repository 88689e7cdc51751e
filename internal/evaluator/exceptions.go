package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// ordinaryExceptionKinds is every classified Kind a bare `except Exception:`
// sweeps up when the error carries no raised instance — every
// runtime.NewBuiltinExceptions entry except the Exception base itself.
// Sandboxing ceilings (IterationLimitExceeded, OperationLimitExceeded) and
// InternalError are deliberately excluded: they propagate regardless, the
// same way BaseException siblings like SystemExit aren't caught by a bare
// `except Exception:` in the host language.
var ordinaryExceptionKinds = map[errors.Kind]bool{
	errors.KindType:                true,
	errors.KindValue:               true,
	errors.KindKey:                 true,
	errors.KindIndex:               true,
	errors.KindNameNotDefined:      true,
	errors.KindAttributeMissing:    true,
	errors.KindAssertion:           true,
	errors.KindStopIteration:       true,
	errors.KindImportNotAuthorized: true,
}

// execTry implements spec.md §4.3's Try/Except/Finally: handlers matched by
// class (including user classes), an optional bound name, `else` on no
// exception, and `finally` running on every exit path.
func (in *Interp) execTry(scope *runtime.Scope, n *ast.Try) error {
	bodyErr := in.execBlock(scope, n.Body)

	var result error
	if bodyErr == nil {
		result = in.execBlock(scope, n.Orelse)
	} else if ie, ok := asInterpreterError(bodyErr); ok {
		handled := false
		for _, h := range n.Handlers {
			matches, err := in.exceptMatches(scope, h, ie)
			if err != nil {
				result = err
				break
			}
			if !matches {
				continue
			}
			handled = true
			handlerScope := runtime.NewChildScope(scope)
			if h.Name != "" {
				var bound runtime.Value = runtime.None
				if ie.Value != nil {
					bound = ie.Value.(runtime.Value)
				}
				handlerScope.Assign(h.Name, bound)
			}
			prevExc := in.currentExc
			in.currentExc = ie
			result = in.execBlock(handlerScope, h.Body)
			in.currentExc = prevExc
			break
		}
		if !handled {
			result = bodyErr
		}
	} else {
		result = bodyErr
	}

	if len(n.Finally) > 0 {
		if ferr := in.execBlock(scope, n.Finally); ferr != nil {
			return ferr
		}
	}
	return result
}

func asInterpreterError(err error) (*errors.InterpreterError, bool) {
	switch e := err.(type) {
	case *errors.InterpreterError:
		return e, true
	default:
		return nil, false
	}
}

// exceptMatches reports whether handler h catches ie: a bare `except:`
// always matches; h's type expression must evaluate to a Class (user-defined
// or one of runtime.NewBuiltinExceptions' built-ins). It matches when either
// (a) ie carries a raised Instance that is a (transitive) instance of the
// class, or (b) the class is a built-in exception class whose BuiltinKind
// equals ie.Kind — the path that lets `except TypeError:` catch a TypeError
// the dispatcher raised directly rather than one a `raise` statement built.
func (in *Interp) exceptMatches(scope *runtime.Scope, h *ast.ExceptHandler, ie *errors.InterpreterError) (bool, error) {
	if h.Type == nil {
		return true, nil
	}
	tv, err := in.evalExpr(scope, h.Type)
	if err != nil {
		return false, err
	}
	cls, ok := tv.(*runtime.Class)
	if !ok {
		return false, nil
	}
	if ie.Value != nil {
		if rv, ok := ie.Value.(runtime.Value); ok {
			if instCls, ok := classOf(rv); ok && instCls.IsSubclassOf(cls) {
				return true, nil
			}
		}
	}
	if cls.BuiltinKind != "" {
		return errors.Kind(cls.BuiltinKind) == ie.Kind, nil
	}
	if cls.Name == "Exception" {
		return ie.Kind == errors.KindUser || ordinaryExceptionKinds[ie.Kind], nil
	}
	return false, nil
}

// execRaise implements `raise` (re-raise), `raise Exc` (instantiate if a
// class, use directly if an instance) and `raise Exc from Cause`.
func (in *Interp) execRaise(scope *runtime.Scope, n *ast.Raise) error {
	if n.Exc == nil {
		if in.currentExc != nil {
			return in.currentExc
		}
		return errors.NewAt(errors.KindInternal, n.Pos(), "no active exception to re-raise")
	}
	v, err := in.evalExpr(scope, n.Exc)
	if err != nil {
		return err
	}
	var inst runtime.Value
	switch t := v.(type) {
	case *runtime.Class:
		created, err := in.instantiate(t, nil, nil)
		if err != nil {
			return err
		}
		inst = created
	case *runtime.Instance:
		inst = t
	default:
		inst = v
	}
	var cause error
	if n.Cause != nil {
		cv, err := in.evalExpr(scope, n.Cause)
		if err != nil {
			return err
		}
		cause = &errors.ClientError{Cause: errorsFromValue(cv)}
	}
	ie := errors.NewAt(errors.KindUser, n.Pos(), "%s", instanceMessage(inst))
	ie.Value = inst
	ie.Cause = cause
	return ie
}

func errorsFromValue(v runtime.Value) error {
	return &simpleValueError{v}
}

type simpleValueError struct{ v runtime.Value }

func (e *simpleValueError) Error() string { return e.v.String() }

// instanceMessage renders the text an uncaught `raise` surfaces, prefixed
// with the exception's class name the way the host language's traceback
// does ("ValueError: bad input"), so both the class and the message show up
// in an uncaught error's text even though a caught handler reads the two
// apart via e.message.
func instanceMessage(v runtime.Value) string {
	if inst, ok := v.(*runtime.Instance); ok {
		if msg, ok := inst.Attrs["message"]; ok {
			return inst.Class.Name + ": " + msg.String()
		}
		return inst.Class.Name
	}
	return v.String()
}
