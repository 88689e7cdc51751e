package evaluator

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/parser"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/sandbox"
)

// nilResolver resolves nothing: Resolve returns a nil module and no error.
// Most evaluator-level tests import nothing, so this stands in for
// internal/runner's real resolver.
type nilResolver struct{}

func (nilResolver) Resolve(path string) (*runtime.ModuleValue, error) {
	return nil, nil
}

func evalSource(t *testing.T, source string) (runtime.Value, *Interp) {
	t.Helper()
	mod, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	tools := sandbox.DefaultBuiltins(nil)
	env := runtime.NewEnvironment(tools)
	in := New(env, nilResolver{}, Limits{MaxLoopIterations: 10000})
	result, err := in.Run(mod)
	if err != nil {
		t.Fatalf("eval error for %q: %v", source, err)
	}
	return result, in
}

func TestClassSingleInheritanceDunderDispatch(t *testing.T) {
	result, _ := evalSource(t, `
class Shape:
    def area(self):
        return 0
    def describe(self):
        return "area=" + str(self.area())

class Square(Shape):
    def __init__(self, side):
        self.side = side
    def area(self):
        return self.side * self.side

Square(4).describe()
`)
	if result.String() != "area=16" {
		t.Fatalf("expected \"area=16\", got %v", result)
	}
}

func TestFunctionDefOverwritesSameNamedVariable(t *testing.T) {
	// spec.md §9's first Open Question: functions and variables share one
	// namespace, so a later `def` with the same name overwrites a prior
	// variable binding (see DESIGN.md's Open Question decisions).
	_, in := evalSource(t, `
greet = 1
def greet():
    return "hi"
result = greet()
`)
	v, ok := in.Env.Root.Get("result")
	if !ok || v.String() != "hi" {
		t.Fatalf("expected def to overwrite the prior variable binding, got %v (ok=%v)", v, ok)
	}
}

func TestExceptionPropagatesThroughTryExcept(t *testing.T) {
	result, _ := evalSource(t, `
class DivisionByZero:
    def __init__(self, message):
        self.message = message

def divide(a, b):
    if b == 0:
        raise DivisionByZero("division by zero")
    return a / b

try:
    divide(1, 0)
    outcome = "no error"
except DivisionByZero as e:
    outcome = "caught: " + e.message
outcome
`)
	if result.String() != "caught: division by zero" {
		t.Fatalf("expected the exception to be caught, got %v", result)
	}
}

func TestBuiltinTypeMethodDispatch(t *testing.T) {
	result, _ := evalSource(t, `'hello'.replace('h', 'o').split('e')`)
	l, ok := result.(*runtime.List)
	if !ok || len(l.Elems) != 2 || l.Elems[0].String() != "o" || l.Elems[1].String() != "llo" {
		t.Fatalf("expected [\"o\", \"llo\"], got %v", result)
	}
}

func TestListComprehensionOverStringMethods(t *testing.T) {
	result, _ := evalSource(t, `
sentence = 'THESEAGULL43'
meaningful_sentence = '-'.join([char.lower() for char in sentence if char.isalpha()])
meaningful_sentence
`)
	if result.String() != "t-h-e-s-e-a-g-u-l-l" {
		t.Fatalf("expected \"t-h-e-s-e-a-g-u-l-l\", got %v", result)
	}
}

func TestDictItemsMethodDispatch(t *testing.T) {
	result, _ := evalSource(t, `
food_items = {"apple": 2, "banana": 3, "orange": 1, "pear": 1}
[item for item, count in food_items.items() if count == 1]
`)
	l, ok := result.(*runtime.List)
	if !ok || len(l.Elems) != 2 || l.Elems[0].String() != "orange" || l.Elems[1].String() != "pear" {
		t.Fatalf("expected [\"orange\", \"pear\"], got %v", result)
	}
}

func TestDunderClassAttribute(t *testing.T) {
	result, _ := evalSource(t, `
integer = 1
integer.__class__
`)
	if result.String() != "int" {
		t.Fatalf("expected \"int\", got %v", result)
	}
}

func TestBuiltinExceptionRaiseAndExcept(t *testing.T) {
	result, _ := evalSource(t, `
try:
    raise ValueError("bad input")
    outcome = "no error"
except ValueError as e:
    outcome = "caught: " + e.message
outcome
`)
	if result.String() != "caught: bad input" {
		t.Fatalf("expected the built-in ValueError to be caught, got %v", result)
	}
}

func TestInterpreterRaisedErrorCaughtByKind(t *testing.T) {
	result, _ := evalSource(t, `
try:
    len(5)
    outcome = "no error"
except TypeError:
    outcome = "caught"
outcome
`)
	if result.String() != "caught" {
		t.Fatalf("expected len(5)'s TypeError to be caught by except TypeError, got %v", result)
	}
}

func TestHostCallableErrorNotUncatchableClientError(t *testing.T) {
	mod, err := parser.Parse(`len(5)`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	env := runtime.NewEnvironment(sandbox.DefaultBuiltins(nil))
	in := New(env, nilResolver{}, Limits{})
	_, err = in.Run(mod)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.IsClientError(err) {
		t.Fatalf("expected len(5)'s error to be classified, not an unwrapped ClientError: %v", err)
	}
}

func TestAddNonListToListIsClassifiedError(t *testing.T) {
	mod, err := parser.Parse(`[1, 2] + 3`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	env := runtime.NewEnvironment(sandbox.DefaultBuiltins(nil))
	in := New(env, nilResolver{}, Limits{})
	_, err = in.Run(mod)
	if err == nil {
		t.Fatal("expected an error adding a non-list to a list")
	}
	if got := err.Error(); !strings.Contains(got, "Cannot add non-list value 3 to a list.") {
		t.Fatalf("unexpected error message: %s", got)
	}
}
