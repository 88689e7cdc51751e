package pysb_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-pysb"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

// TestEndToEndScenarios exercises the concrete scenarios spec.md §8 lists,
// through the public pysb.Evaluate surface rather than any internal
// package, so it also stands as an integration test of
// internal/runner's wiring.
func TestEndToEndScenarios(t *testing.T) {
	t.Run("assignment then expression returns final value and ops count", func(t *testing.T) {
		vars := map[string]pysb.Value{}
		result, err := pysb.Evaluate("x = 3\nx", pysb.WithVariables(vars))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.String() != "3" {
			t.Fatalf("expected 3, got %v", result)
		}
		xv, ok := vars["x"]
		if !ok || xv.String() != "3" {
			t.Fatalf("expected variables[\"x\"] == 3, got %v (ok=%v)", xv, ok)
		}
		opsV, ok := vars["_operations_count"]
		if !ok || opsV.String() != "2" {
			t.Fatalf("expected variables[\"_operations_count\"] == 2, got %v (ok=%v)", opsV, ok)
		}
	})

	t.Run("default and keyword arguments", func(t *testing.T) {
		result, err := pysb.Evaluate("def f(a, b=333, n=1000):\n    return b + n\nf(1, n=667)")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.String() != "1000" {
			t.Fatalf("expected 1000, got %v", result)
		}
	})

	t.Run("string slicing and reversal", func(t *testing.T) {
		result, err := pysb.Evaluate("'hello'[1:3][::-1]")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.String() != "le" {
			t.Fatalf("expected \"le\", got %v", result)
		}
	})

	t.Run("list comprehension does not leak its loop variable", func(t *testing.T) {
		vars := map[string]pysb.Value{}
		result, err := pysb.Evaluate("x = [i for i in range(3)]", pysb.WithVariables(vars))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_ = result
		xv := vars["x"].(*runtime.List)
		if len(xv.Elems) != 3 || xv.Elems[0].String() != "0" || xv.Elems[2].String() != "2" {
			t.Fatalf("expected [0, 1, 2], got %v", xv.Elems)
		}
		if _, ok := vars["i"]; ok {
			t.Fatalf("expected \"i\" not to leak into variables, got %v", vars["i"])
		}
	})

	t.Run("while loop iteration ceiling", func(t *testing.T) {
		_, err := pysb.Evaluate("i = 0\nwhile i < 3:\n    i -= 1\ni", pysb.WithLimits(pysb.Limits{MaxLoopIterations: 100}))
		if err == nil {
			t.Fatal("expected an IterationLimitExceeded error, got nil")
		}
		if !strings.Contains(err.Error(), "iterations in While loop exceeded") {
			t.Fatalf("expected message to mention the While loop ceiling, got: %v", err)
		}
	})

	t.Run("denied attribute access on an authorized module", func(t *testing.T) {
		_, err := pysb.Evaluate("import random\nrandom._os", pysb.WithAuthorizedImports([]string{"random"}))
		if err == nil {
			t.Fatal("expected an AttributeAccessDenied error, got nil")
		}
		if !strings.Contains(err.Error(), "AttributeError: module 'random' has no attribute '_os'") {
			t.Fatalf("unexpected message: %v", err)
		}
	})

	t.Run("context manager enter and exit", func(t *testing.T) {
		source := `
class Lock:
    def __init__(self):
        self.locked = False
    def __enter__(self):
        self.locked = True
        return self
    def __exit__(self, exc_type, exc_value, tb):
        self.locked = False
        return False

lock = Lock()
with lock as l:
    inside = l.locked
after = lock.locked
`
		vars := map[string]pysb.Value{}
		_, err := pysb.Evaluate(source, pysb.WithVariables(vars))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if vars["inside"].String() != "True" {
			t.Fatalf("expected locked True inside the with body, got %v", vars["inside"])
		}
		if vars["after"].String() != "False" {
			t.Fatalf("expected locked False after the with body, got %v", vars["after"])
		}
	})

	t.Run("assert failure message names the failing comparison only", func(t *testing.T) {
		_, err := pysb.Evaluate("assert 1 == 1\nassert 1 == 2")
		if err == nil {
			t.Fatal("expected an AssertionError, got nil")
		}
		if !strings.Contains(err.Error(), "1 == 2") {
			t.Fatalf("expected message to contain \"1 == 2\", got: %v", err)
		}
		if strings.Contains(err.Error(), "1 == 1") {
			t.Fatalf("message should not mention the passing assertion, got: %v", err)
		}
	})
}
