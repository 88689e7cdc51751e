package evaluator

import (
	"strings"

	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// execImport resolves each `import a.b.c [as x]` clause through the
// sandbox's ModuleResolver, binding the alias (or the path's leading
// component when none is given) in the current scope.
func (in *Interp) execImport(scope *runtime.Scope, n *ast.Import) error {
	for _, alias := range n.Names {
		mod, err := in.Resolver.Resolve(alias.Name)
		if err != nil {
			return in.classify(err, n.Pos())
		}
		name := alias.AsName
		if name == "" {
			name = strings.SplitN(alias.Name, ".", 2)[0]
		}
		if err := in.Env.AssignChecked(scope, name, mod); err != nil {
			return errors.NewAt(errors.KindType, n.Pos(), "%s", err.Error())
		}
	}
	return nil
}

// execImportFrom resolves `from a.b import x, y as z`, binding each
// attribute pulled off the resolved module.
func (in *Interp) execImportFrom(scope *runtime.Scope, n *ast.ImportFrom) error {
	mod, err := in.Resolver.Resolve(n.Module)
	if err != nil {
		return in.classify(err, n.Pos())
	}
	for _, alias := range n.Names {
		v, err := in.getAttr(mod, alias.Name, n.Pos())
		if err != nil {
			return err
		}
		name := alias.AsName
		if name == "" {
			name = alias.Name
		}
		if err := in.Env.AssignChecked(scope, name, v); err != nil {
			return errors.NewAt(errors.KindType, n.Pos(), "%s", err.Error())
		}
	}
	return nil
}
