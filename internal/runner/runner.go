// Package runner wires internal/runtime, internal/sandbox and
// internal/evaluator into one ready-to-run evaluation session: a single
// constructor that allocates the environment, seeds its built-ins, and
// hands back one object the caller drives, configured through functional
// options over spec.md §6's full (callables, variables,
// authorized_imports, stdout) parameter set.
package runner

import (
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/evaluator"
	"github.com/cwbudde/go-pysb/internal/parser"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/sandbox"
)

// DefaultMaxLoopIterations is the build-time ceiling spec.md §5 calls for:
// "Per-loop iteration counter with a fixed ceiling ... The ceiling is a
// build-time constant; exceeding it raises a classified error."
const DefaultMaxLoopIterations int64 = 1_000_000

// Session is one long-lived interpreter over a shared environment: every
// call to Run evaluates a new script against the same variables, tools
// and import resolver (spec.md §6's "session object").
type Session struct {
	env      *runtime.Environment
	interp   *evaluator.Interp
	resolver *moduleResolver
}

type config struct {
	callables  map[string]runtime.Value
	variables  map[string]runtime.Value
	authorized []string
	stdout     sandbox.StringSink
	limits     evaluator.Limits
}

// Option configures a Session at construction time.
type Option func(*config)

// WithCallables supplies externally-provided callables in addition to the
// default pure built-in set (spec.md §6's `callables` parameter). Names
// here take priority over a same-named default built-in.
func WithCallables(c map[string]runtime.Value) Option {
	return func(cfg *config) { cfg.callables = c }
}

// WithVariables supplies the mutable variable map evaluation reads from
// and writes into, aliased by identity (spec.md §6's `variables`
// parameter).
func WithVariables(v map[string]runtime.Value) Option {
	return func(cfg *config) { cfg.variables = v }
}

// WithAuthorizedImports sets the module-path allow-list; "*" authorizes
// everything (spec.md §6's `authorized_imports` parameter, §4.6's
// authorization rule).
func WithAuthorizedImports(paths []string) Option {
	return func(cfg *config) { cfg.authorized = paths }
}

// WithStdout routes `print` output to sink (spec.md §6's `stdout`
// parameter).
func WithStdout(sink sandbox.StringSink) Option {
	return func(cfg *config) { cfg.stdout = sink }
}

// WithLimits overrides the default sandboxing ceilings (spec.md §4.5);
// zero fields mean unbounded.
func WithLimits(l evaluator.Limits) Option {
	return func(cfg *config) { cfg.limits = l }
}

// NewSession builds a Session from the given options, registering the
// default built-ins, wiring the sandbox's module registry behind the
// authorized-imports allow-list, and installing the evaluator as the
// sandbox's function-call hook for map/filter/sorted(key=...).
func NewSession(opts ...Option) *Session {
	cfg := &config{limits: evaluator.Limits{MaxLoopIterations: DefaultMaxLoopIterations}}
	for _, o := range opts {
		o(cfg)
	}

	tools := sandbox.DefaultBuiltins(cfg.stdout)
	for name, fn := range cfg.callables {
		tools[name] = fn
	}

	env := runtime.NewEnvironmentWithVars(tools, cfg.variables)
	resolver := newModuleResolver(cfg.authorized)
	interp := evaluator.New(env, resolver, cfg.limits)
	sandbox.SetCaller(interp)

	return &Session{env: env, interp: interp, resolver: resolver}
}

// Run parses and evaluates one script in the session's shared environment,
// returning the value of its final top-level form (spec.md §6).
func (s *Session) Run(source string) (runtime.Value, error) {
	mod, err := parser.Parse(source)
	if err != nil {
		return nil, errors.New(errors.KindSyntax, "%s", err.Error())
	}
	return s.interp.Run(mod)
}

// Variables returns the live module-level variable map. It is the same
// map instance passed via WithVariables, so mutations during Run are
// visible to the caller without re-reading this accessor.
func (s *Session) Variables() map[string]runtime.Value {
	return s.env.Root.Vars()
}

// OpsCount returns the monotonic operation counter spec.md §4.1/§8
// exposes for caller-side policies.
func (s *Session) OpsCount() int64 {
	return s.env.OpsCount()
}
