package runtime

import (
	"strings"

	"github.com/cwbudde/go-pysb/internal/ast"
)

// Function is a user-defined function value: AST body plus captured
// environment plus parameter descriptor (spec.md §3/§4.4).
type Function struct {
	Name        string
	Params      *ast.Params
	Defaults    []Value // evaluated once at def time, aligned to Params.Positional's rightmost entries
	KwDefaults  map[string]Value
	Body        []ast.Stmt
	Closure     *Scope
	IsGenerator bool
	// IsMethod marks a function defined inside a class body: its first
	// positional parameter binds to the instance only when looked up
	// through an instance (spec.md §3's parameter-descriptor flag).
	IsMethod bool
	// BoundSelf is non-nil for a bound method value produced by instance
	// attribute lookup.
	BoundSelf Value
	// DefiningClass is set for a method evaluated inside a class body, so a
	// `super()` call inside it can resolve which base class to start from.
	DefiningClass *Class
}

func (f *Function) Type() string { return "function" }
func (f *Function) String() string {
	if f.Name == "" {
		return "<lambda>"
	}
	return "<function " + f.Name + ">"
}
func (f *Function) Truthy() bool { return true }

// Bind returns a copy of f bound to self, used when a method is accessed
// through an instance (spec.md §3: "Methods found on a class and accessed
// through an instance are bound").
func (f *Function) Bind(self Value) *Function {
	cp := *f
	cp.BoundSelf = self
	return &cp
}

// HostFunc is the Go signature every caller-supplied or built-in callable
// implements: positional args, keyword args by name, returning a Value or
// an error (possibly an *errors.ClientError).
type HostFunc func(args []Value, kwargs map[string]Value) (Value, error)

// HostCallable wraps an opaque host callable invoked via this capability,
// per spec.md §3 ("host-language callable (opaque, invoked via a
// capability)").
type HostCallable struct {
	Name string
	Fn   HostFunc
}

func (h *HostCallable) Type() string   { return "builtin_function_or_method" }
func (h *HostCallable) String() string { return "<built-in function " + h.Name + ">" }
func (h *HostCallable) Truthy() bool   { return true }

// BoundMethodHost wraps a HostCallable bound to a receiver, e.g. a
// str/list/dict/tuple method found via sandbox.MethodFor.
type BoundMethodHost struct {
	Receiver Value
	Callable *HostCallable
}

func (b *BoundMethodHost) Type() string { return "method" }
func (b *BoundMethodHost) String() string {
	return "<bound method " + b.Callable.Name + " of " + b.Receiver.String() + ">"
}
func (b *BoundMethodHost) Truthy() bool { return true }

// ParamNames returns the positional parameter names joined for diagnostics.
func ParamNames(p *ast.Params) string {
	names := make([]string, len(p.Positional))
	for i, prm := range p.Positional {
		names[i] = prm.Name
	}
	return strings.Join(names, ", ")
}
