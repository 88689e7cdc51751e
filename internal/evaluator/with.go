package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// execWith implements spec.md §4.3's context manager protocol: evaluate the
// context expression, call __enter__, bind its result if `as name` is
// present, run the body, then call __exit__(exc_type, exc_value, tb) —
// passing the exception triplet when exiting by exception, and suppressing
// propagation if __exit__ returns truthy.
func (in *Interp) execWith(scope *runtime.Scope, n *ast.With) error {
	return in.execWithItems(scope, n.Items, n.Body)
}

func (in *Interp) execWithItems(scope *runtime.Scope, items []ast.WithItem, body []ast.Stmt) error {
	if len(items) == 0 {
		return in.execBlock(scope, body)
	}
	item := items[0]
	ctx, err := in.evalExpr(scope, item.Context)
	if err != nil {
		return err
	}
	enter, ok := in.lookupDunder(ctx, "__enter__")
	if !ok {
		return errors.NewAt(errors.KindType, item.Context.Pos(), "'%s' object does not support the context manager protocol", ctx.Type())
	}
	entered, err := in.callFunctionValue(enter, nil, nil)
	if err != nil {
		return err
	}
	if item.Name != nil {
		if err := in.assignTarget(scope, item.Name, entered); err != nil {
			return err
		}
	}

	bodyErr := in.execWithItems(scope, items[1:], body)

	exit, ok := in.lookupDunder(ctx, "__exit__")
	if !ok {
		return bodyErr
	}
	var excType, excValue, tb runtime.Value = runtime.None, runtime.None, runtime.None
	if ie, ok := asInterpreterError(bodyErr); ok {
		if ie.Value != nil {
			if rv, ok := ie.Value.(runtime.Value); ok {
				excValue = rv
				if inst, ok := rv.(*runtime.Instance); ok {
					excType = inst.Class
				}
			}
		} else {
			excValue = runtime.Str(ie.Message)
		}
	}
	suppressed, exitErr := in.callFunctionValue(exit, []runtime.Value{excType, excValue, tb}, nil)
	if exitErr != nil {
		return exitErr
	}
	if bodyErr != nil {
		if _, ok := bodyErr.(runtime.BreakSignal); ok {
			return bodyErr
		}
		if _, ok := bodyErr.(runtime.ContinueSignal); ok {
			return bodyErr
		}
		if _, ok := bodyErr.(runtime.ReturnSignal); ok {
			return bodyErr
		}
		if suppressed != nil && suppressed.Truthy() {
			return nil
		}
		return bodyErr
	}
	return nil
}
