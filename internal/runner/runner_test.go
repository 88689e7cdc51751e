package runner

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-pysb/internal/runtime"
)

func run(t *testing.T, source string, opts ...Option) (runtime.Value, map[string]runtime.Value) {
	t.Helper()
	vars := map[string]runtime.Value{}
	opts = append([]Option{WithVariables(vars)}, opts...)
	sess := NewSession(opts...)
	result, err := sess.Run(source)
	if err != nil {
		t.Fatalf("unexpected error running %q: %v", source, err)
	}
	return result, vars
}

func TestAugmentedAssignment(t *testing.T) {
	_, vars := run(t, "x = 10\nx += 5\nx -= 2\nx *= 3")
	if vars["x"].String() != "39" {
		t.Fatalf("expected x == 39, got %v", vars["x"])
	}
}

func TestStarredDestructuring(t *testing.T) {
	_, vars := run(t, "first, *rest = [1, 2, 3, 4]")
	if vars["first"].String() != "1" {
		t.Fatalf("expected first == 1, got %v", vars["first"])
	}
	rest := vars["rest"].(*runtime.List)
	if len(rest.Elems) != 3 || rest.Elems[0].String() != "2" || rest.Elems[2].String() != "4" {
		t.Fatalf("expected rest == [2, 3, 4], got %v", rest.Elems)
	}
}

func TestGeneratorExpressionIsSingleUse(t *testing.T) {
	sess := NewSession()
	_, err := sess.Run("g = (i for i in range(3))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := sess.Run("list(g)")
	if err != nil {
		t.Fatalf("unexpected error draining generator: %v", err)
	}
	if first.String() != "[0, 1, 2]" {
		t.Fatalf("expected [0, 1, 2], got %v", first)
	}
	second, err := sess.Run("list(g)")
	if err != nil {
		t.Fatalf("unexpected error re-draining generator: %v", err)
	}
	if second.String() != "[]" {
		t.Fatalf("expected an exhausted generator to yield [], got %v", second)
	}
}

func TestImportNotAuthorized(t *testing.T) {
	sess := NewSession(WithAuthorizedImports(nil))
	_, err := sess.Run("import math\nmath.pi")
	if err == nil {
		t.Fatal("expected an import authorization error, got nil")
	}
	if !strings.Contains(err.Error(), "ImportNotAuthorized") {
		t.Fatalf("expected an ImportNotAuthorized error, got: %v", err)
	}
}

func TestCallablesOverrideDefaultBuiltins(t *testing.T) {
	custom := runtime.HostCallable{Name: "len", Fn: func(args []runtime.Value, _ map[string]runtime.Value) (runtime.Value, error) {
		return runtime.NewInt(42), nil
	}}
	sess := NewSession(WithCallables(map[string]runtime.Value{"len": &custom}))
	result, err := sess.Run(`len("hi")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.String() != "42" {
		t.Fatalf("expected caller-supplied len() override to win, got %v", result)
	}
}

func TestOpsCountIncrementsAcrossRuns(t *testing.T) {
	sess := NewSession()
	if _, err := sess.Run("1 + 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := sess.OpsCount()
	if first == 0 {
		t.Fatal("expected a non-zero ops count after evaluating an expression")
	}
	if _, err := sess.Run("2 + 2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.OpsCount() <= first {
		t.Fatalf("expected ops count to keep increasing across runs in the same session, got %d then %d", first, sess.OpsCount())
	}
}
