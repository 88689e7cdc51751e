// Package evaluator is the core of this module: the AST dispatcher and
// the tree-walking expression/statement evaluators that implement the
// dynamic semantics of spec.md over the internal/runtime value model,
// behind the internal/sandbox authorization boundary. Split into a
// dispatcher, an expression evaluator, a statement evaluator, and user
// function/class handling.
package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/token"
)

// ModuleResolver is the sandbox import hook: Resolve returns the
// already-filtered runtime.ModuleValue for a dotted import path, or a
// classified ImportNotAuthorized error.
type ModuleResolver interface {
	Resolve(path string) (*runtime.ModuleValue, error)
}

// Limits bounds a single evaluation per spec.md §4.5's sandboxing ceilings.
// Zero fields mean "unbounded" and are the caller's responsibility to set;
// internal/runner supplies sane defaults.
type Limits struct {
	MaxOperations   int64
	MaxLoopIterations int64
}

// Interp is one evaluation session: the environment, the import resolver,
// and the configured ceilings. A single Interp is not safe for concurrent
// use — generators run on their own goroutine but are serialized by
// runtime.Generator.Advance, matching spec.md §5's single-threaded model.
type Interp struct {
	Env      *runtime.Environment
	Resolver ModuleResolver
	Limits   Limits

	// yieldFn is non-nil only while executing inside a generator body
	// (installed by withYield), and is what a `yield` expression calls.
	yieldFn func(runtime.Value)

	// currentExc is the exception bound by the innermost active `except`
	// clause, consulted by a bare `raise` (re-raise).
	currentExc *errors.InterpreterError
}

func New(env *runtime.Environment, resolver ModuleResolver, limits Limits) *Interp {
	return &Interp{Env: env, Resolver: resolver, Limits: limits}
}

// withYield returns a shallow copy of in with yieldFn installed, used to run
// a generator function's body on its dedicated goroutine (see call.go's
// makeGenerator).
func (in *Interp) withYield(yield func(runtime.Value)) *Interp {
	cp := *in
	cp.yieldFn = yield
	return &cp
}

// tick implements §4.1's "increments _operations_count once per dispatched
// node before delegating", and enforces the operation-count ceiling.
func (in *Interp) tick(pos ast.Node) error {
	in.Env.IncrementOps()
	if in.Limits.MaxOperations > 0 && in.Env.OpsCount() > in.Limits.MaxOperations {
		return errors.NewAt(errors.KindOperationLimit, pos.Pos(), "operation count exceeded %d", in.Limits.MaxOperations)
	}
	return nil
}

// Run executes a parsed module's top-level statements in the environment's
// root scope, returning the value of the final top-level expression
// statement (None if the module ends in anything else), matching spec.md
// §6's "the value of the last top-level form."
func (in *Interp) Run(mod *ast.Module) (runtime.Value, error) {
	var last runtime.Value = runtime.None
	for _, stmt := range mod.Body {
		v, err := in.execTop(stmt)
		if err != nil {
			return nil, in.classify(err, stmt.Pos())
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

// execTop runs one top-level statement, returning its expression value when
// it is an ExprStmt (nil otherwise) so Run can track the "last form" value.
func (in *Interp) execTop(stmt ast.Stmt) (runtime.Value, error) {
	if seq, ok := stmt.(*ast.StmtSeq); ok {
		var last runtime.Value
		for _, s := range seq.Stmts {
			v, err := in.execTop(s)
			if err != nil {
				return nil, err
			}
			if v != nil {
				last = v
			}
		}
		return last, nil
	}
	if es, ok := stmt.(*ast.ExprStmt); ok {
		return in.evalExpr(in.Env.Root, es.Value)
	}
	return nil, in.execStmt(in.Env.Root, stmt)
}

// classify attaches a position to an error that isn't already a classified
// *errors.InterpreterError, and preserves the innermost span otherwise
// (§4.1).
func (in *Interp) classify(err error, pos token.Position) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *errors.InterpreterError:
		return e.WithPos(pos)
	case *errors.ClientError:
		return e
	default:
		return errors.Wrap(errors.KindInternal, err, "%s", err.Error())
	}
}
