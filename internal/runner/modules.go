package runner

import (
	"strings"

	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/sandbox"
)

// moduleResolver implements evaluator.ModuleResolver over the sandbox's
// registry of adapted "safe" runtime-library modules (spec.md §1, §4.6),
// gating every resolution through sandbox.Authorized against the
// session's allow-list before a module is ever wrapped and handed to
// script code.
type moduleResolver struct {
	allowlist []string
	registry  map[string]*sandbox.ModuleDef
}

func newModuleResolver(allowlist []string) *moduleResolver {
	return &moduleResolver{
		allowlist: allowlist,
		registry: map[string]*sandbox.ModuleDef{
			"math":   sandbox.MathModule(),
			"random": sandbox.RandomModule(),
		},
	}
}

// Resolve implements evaluator.ModuleResolver: path is the dotted import
// path as written in source (e.g. "random", "math"); only the registry's
// top-level modules are importable directly, matching the registry's flat
// per-module shape (see internal/sandbox/modules.go's doc comment).
func (r *moduleResolver) Resolve(path string) (*runtime.ModuleValue, error) {
	if !sandbox.Authorized(path, r.allowlist) {
		return nil, errors.New(errors.KindImportNotAuthorized, "import of '%s' is not authorized", path)
	}
	root := strings.SplitN(path, ".", 2)[0]
	def, ok := r.registry[root]
	if !ok {
		return nil, errors.New(errors.KindImportNotAuthorized, "no such module '%s'", path)
	}
	return sandbox.WrapModule(def, r.allowlist), nil
}
