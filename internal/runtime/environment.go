package runtime

import (
	"fmt"
)

// OpsCountKey and PrintOutputsKey are the two reserved variable names
// spec.md §3 calls out: OpsCountKey tracks the monotonic per-evaluation
// operations count; PrintOutputsKey is reserved for callers and never
// touched by the interpreter itself.
const (
	OpsCountKey      = "_operations_count"
	PrintOutputsKey  = "_print_outputs"
)

// Scope is one level of the variable/local-frame scope chain (spec.md §3's
// "Local frames" and the module-level "Variables" namespace, which is the
// root Scope with no outer), with case-sensitive names plus
// global/nonlocal declarations.
type Scope struct {
	vars     map[string]Value
	outer    *Scope
	globals  map[string]bool // names declared `global` in this frame
	nonlocal map[string]bool // names declared `nonlocal` in this frame
}

// NewRootScope creates the module-level variable scope.
func NewRootScope() *Scope {
	return &Scope{vars: make(map[string]Value)}
}

// NewChildScope creates a scope enclosed by outer, used for function call
// frames and comprehension frames.
func NewChildScope(outer *Scope) *Scope {
	return &Scope{vars: make(map[string]Value), outer: outer}
}

// Root walks to the module-level scope.
func (s *Scope) Root() *Scope {
	cur := s
	for cur.outer != nil {
		cur = cur.outer
	}
	return cur
}

// Get resolves name by searching this scope then outer scopes.
func (s *Scope) Get(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetLocal looks up name only in this scope, without falling through.
func (s *Scope) GetLocal(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// DeclareGlobal marks name as referring to the root scope for the lifetime
// of this frame (the `global` statement).
func (s *Scope) DeclareGlobal(name string) {
	if s.globals == nil {
		s.globals = make(map[string]bool)
	}
	s.globals[name] = true
}

// DeclareNonlocal marks name as referring to the nearest enclosing scope
// that owns it (the `nonlocal` statement).
func (s *Scope) DeclareNonlocal(name string) {
	if s.nonlocal == nil {
		s.nonlocal = make(map[string]bool)
	}
	s.nonlocal[name] = true
}

// Assign implements spec.md §4.3's default: binds in the current frame
// unless the name has been captured as global/nonlocal, in which case the
// write is redirected to the scope that owns it.
func (s *Scope) Assign(name string, val Value) error {
	if s.globals != nil && s.globals[name] {
		s.Root().vars[name] = val
		return nil
	}
	if s.nonlocal != nil && s.nonlocal[name] {
		for cur := s.outer; cur != nil; cur = cur.outer {
			if _, ok := cur.vars[name]; ok {
				cur.vars[name] = val
				return nil
			}
		}
		return fmt.Errorf("no binding for nonlocal '%s' found in an enclosing scope", name)
	}
	s.vars[name] = val
	return nil
}

// Delete removes name from the innermost scope that owns it, reporting
// whether a binding was found.
func (s *Scope) Delete(name string) bool {
	for cur := s; cur != nil; cur = cur.outer {
		if _, ok := cur.vars[name]; ok {
			delete(cur.vars, name)
			return true
		}
	}
	return false
}

// Vars exposes the scope's own binding map, used by internal/runner to
// alias the module-level scope to a caller-supplied variable map by
// identity (spec.md §6).
func (s *Scope) Vars() map[string]Value { return s.vars }

// Names returns every name visible from this scope, innermost first,
// without duplicates — used to build NameNotDefined "did you mean" hints.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for cur := s; cur != nil; cur = cur.outer {
		for k := range cur.vars {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// Environment is the full three-scope model of spec.md §3: a read-only
// static namespace of caller-supplied tools, the module-level variables
// scope (aliased by identity to the caller's map via the runner), and
// whatever local-frame chain the evaluator is currently inside.
type Environment struct {
	Tools    map[string]Value
	Root     *Scope
	opsCount int64
}

// NewEnvironment builds a fresh environment with the given static tools.
func NewEnvironment(tools map[string]Value) *Environment {
	if tools == nil {
		tools = map[string]Value{}
	}
	return &Environment{Tools: tools, Root: NewRootScope()}
}

// NewEnvironmentWithVars builds an environment whose root scope uses vars
// directly as its binding map rather than a fresh copy, so the caller's
// map stays aliased by identity across every evaluation run against this
// environment (spec.md §6: "the caller's variable map is shared by
// identity").
func NewEnvironmentWithVars(tools, vars map[string]Value) *Environment {
	if tools == nil {
		tools = map[string]Value{}
	}
	if vars == nil {
		vars = map[string]Value{}
	}
	return &Environment{Tools: tools, Root: &Scope{vars: vars}}
}

// IncrementOps bumps the monotonic operations counter (§4.1: "increments
// _operations_count once per dispatched node before delegating") and
// mirrors it into the root scope so it is visible in the returned
// variables map, per the §8 scenario `variables: {x: 3, _operations_count: 2}`.
func (e *Environment) IncrementOps() {
	e.opsCount++
	e.Root.vars[OpsCountKey] = NewInt(e.opsCount)
}

// OpsCount returns the current operations count.
func (e *Environment) OpsCount() int64 { return e.opsCount }

// IsTool reports whether name is a caller-supplied static callable.
func (e *Environment) IsTool(name string) bool {
	_, ok := e.Tools[name]
	return ok
}

// Lookup resolves name through the local scope chain, then the static
// tools namespace, matching §3's "every name resolution ... enumerates the
// three scopes."
func (e *Environment) Lookup(scope *Scope, name string) (Value, bool) {
	if v, ok := scope.Get(name); ok {
		return v, true
	}
	if v, ok := e.Tools[name]; ok {
		return v, true
	}
	return nil, false
}

// AllNames enumerates every name visible from scope across all three
// scopes, for close-match suggestion search.
func (e *Environment) AllNames(scope *Scope) []string {
	names := scope.Names()
	for k := range e.Tools {
		names = append(names, k)
	}
	return names
}

// AssignChecked implements the invariant that assignment to a name that
// already exists in the static namespace is rejected (§3: "assignment to
// any name that exists here is rejected with an explicit error").
func (e *Environment) AssignChecked(scope *Scope, name string, val Value) error {
	if e.IsTool(name) {
		return fmt.Errorf("doing this would erase the existing function: %s", name)
	}
	return scope.Assign(name, val)
}
