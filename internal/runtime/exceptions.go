package runtime

// builtinExceptionSpecs is the closed set of built-in exception class names
// resolvable by `raise`/`except`, each paired with the classified error
// Kind string (see internal/errors) its bare, non-instance form matches.
// "Exception" is the base every other entry single-inherits from, with no
// Kind of its own — it is handled as the catch-all case by name in
// internal/evaluator's exceptMatches.
var builtinExceptionSpecs = []struct {
	name string
	kind string
}{
	{"Exception", ""},
	{"TypeError", "TypeError"},
	{"ValueError", "ValueError"},
	{"KeyError", "KeyError"},
	{"IndexError", "IndexError"},
	{"NameError", "NameNotDefined"},
	{"AttributeError", "AttributeMissing"},
	{"AssertionError", "AssertionError"},
	{"StopIteration", "StopIteration"},
	{"ImportError", "ImportNotAuthorized"},
}

// NewBuiltinExceptions builds the built-in exception classes as ordinary
// runtime values, so `raise ValueError(...)` and `except ValueError:` both
// resolve "ValueError" as a Name the same way any other class does, rather
// than needing dedicated dispatcher cases. Every class shares one __init__
// that stores constructor arguments the way the host language's
// BaseException does: verbatim in .args, with the first positional
// argument doubling as .message.
func NewBuiltinExceptions() map[string]Value {
	init := &HostCallable{Name: "__init__", Fn: baseExceptionInit}
	out := make(map[string]Value, len(builtinExceptionSpecs))
	var base *Class
	for _, spec := range builtinExceptionSpecs {
		cls := &Class{
			Name:        spec.name,
			Base:        base,
			Namespace:   map[string]Value{"__init__": init},
			BuiltinKind: spec.kind,
		}
		if spec.name == "Exception" {
			base = cls
		}
		out[spec.name] = cls
	}
	return out
}

func baseExceptionInit(args []Value, _ map[string]Value) (Value, error) {
	inst := args[0].(*Instance)
	rest := append([]Value(nil), args[1:]...)
	inst.SetAttr("args", NewTuple(rest))
	if len(rest) > 0 {
		inst.SetAttr("message", rest[0])
	} else {
		inst.SetAttr("message", Str(""))
	}
	return None, nil
}
