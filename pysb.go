// Package pysb is the public embedding surface of a sandboxed,
// dynamically-typed scripting interpreter: a single Evaluate call for
// one-shot scripts, and a Session type for long-lived reuse against a
// shared, caller-owned variable map, matching spec.md §6's (callables,
// variables, authorized_imports, stdout) parameter set.
package pysb

import (
	"github.com/cwbudde/go-pysb/internal/evaluator"
	"github.com/cwbudde/go-pysb/internal/runner"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// Value is the uniform runtime value type every expression evaluates to
// and every variable/callable map entry holds (spec.md §2).
type Value = runtime.Value

// StringSink is the minimal write surface `print` output is delivered to;
// *bytes.Buffer, os.Stdout and strings.Builder all satisfy it.
type StringSink = interface {
	WriteString(s string) (int, error)
}

// Option configures a Session or a one-shot Evaluate call.
type Option = runner.Option

// WithCallables supplies externally-provided callables in addition to the
// default pure built-in set.
func WithCallables(c map[string]Value) Option { return runner.WithCallables(c) }

// WithVariables supplies the mutable variable map evaluation reads from
// and writes into; the caller's map stays aliased by identity.
func WithVariables(v map[string]Value) Option { return runner.WithVariables(v) }

// WithAuthorizedImports sets the module-path allow-list; "*" authorizes
// every module.
func WithAuthorizedImports(paths []string) Option { return runner.WithAuthorizedImports(paths) }

// WithStdout routes `print` output to sink.
func WithStdout(sink StringSink) Option { return runner.WithStdout(sink) }

// Limits overrides the sandboxing ceilings spec.md §4.5 names (operation
// count, loop iterations). A zero field means that ceiling is unbounded:
// WithLimits replaces the session's limits as a whole, including the
// default loop-iteration ceiling.
type Limits = evaluator.Limits

// WithLimits overrides the default sandboxing ceilings.
func WithLimits(l Limits) Option { return runner.WithLimits(l) }

// Session is a long-lived interpreter over a shared environment: each
// call to Run evaluates a new script against the same variables, tools
// and import allow-list (spec.md §6's "session object").
type Session struct {
	sess *runner.Session
}

// NewSession builds a Session from the given options.
func NewSession(opts ...Option) *Session {
	return &Session{sess: runner.NewSession(opts...)}
}

// Run evaluates source in the session's shared environment, returning the
// value of its final top-level form, or None if it ended in a
// non-expression statement.
func (s *Session) Run(source string) (Value, error) {
	return s.sess.Run(source)
}

// Variables returns the live, caller-aliased variable map.
func (s *Session) Variables() map[string]Value {
	return s.sess.Variables()
}

// OpsCount returns the session's monotonic operation counter.
func (s *Session) OpsCount() int64 {
	return s.sess.OpsCount()
}

// Evaluate is the one-shot convenience form of spec.md §6's primary
// operation: evaluate(source, callables?, variables?, authorized_imports?,
// stdout?). It is exactly NewSession(opts...).Run(source) for callers who
// don't need to reuse the environment across scripts.
func Evaluate(source string, opts ...Option) (Value, error) {
	return NewSession(opts...).Run(source)
}
