package runtime

import "testing"

func TestNewEnvironmentWithVarsAliasesByIdentity(t *testing.T) {
	callerVars := map[string]Value{"x": NewInt(1)}
	env := NewEnvironmentWithVars(nil, callerVars)

	env.Root.vars["x"] = NewInt(2)
	if callerVars["x"].(Int).Int64() != 2 {
		t.Fatal("expected mutations through the environment's root scope to be visible in the caller's map")
	}

	callerVars["y"] = NewInt(3)
	if _, ok := env.Root.Get("y"); !ok {
		t.Fatal("expected a mutation through the caller's map to be visible to the environment")
	}
}

func TestIncrementOpsMirrorsIntoRootScope(t *testing.T) {
	env := NewEnvironment(nil)
	env.IncrementOps()
	env.IncrementOps()
	v, ok := env.Root.Get(OpsCountKey)
	if !ok {
		t.Fatal("expected _operations_count to be set in the root scope")
	}
	if v.(Int).Int64() != 2 {
		t.Fatalf("expected _operations_count == 2, got %v", v)
	}
}
