package sandbox

import "testing"

func TestAuthorized(t *testing.T) {
	cases := []struct {
		path      string
		allowlist []string
		want      bool
	}{
		{"math", []string{"math"}, true},
		{"math.sqrt", []string{"math"}, true},
		{"random", nil, false},
		{"random", []string{"*"}, true},
		{"os", []string{"os"}, true},         // explicitly allow-listing a dangerous module authorizes it
		{"os", []string{"*"}, true},          // "*" grants import-time authorization outright, per §4.6(a)
		{"subprocess", []string{"*"}, true},  // same: the dangerous-pattern filter only binds at attribute time
		{"queue", []string{"queue"}, true},
	}
	for _, c := range cases {
		if got := Authorized(c.path, c.allowlist); got != c.want {
			t.Errorf("Authorized(%q, %v) = %v, want %v", c.path, c.allowlist, got, c.want)
		}
	}
}

func TestAttrAuthorizedDeniesEscapeAttributes(t *testing.T) {
	if AttrAuthorized("random", "_os", []string{"random"}) {
		t.Fatal("expected random._os to be denied even though random is authorized")
	}
	if !AttrAuthorized("random", "randint", []string{"random"}) {
		t.Fatal("expected random.randint to be authorized")
	}
	// "*" authorizes the bare `import os` above, but the dangerous-pattern
	// filter still binds at every attribute access regardless.
	if AttrAuthorized("os", "system", []string{"*"}) {
		t.Fatal("expected os.system to be denied even with a wildcard allow-list")
	}
}

func TestMatchDangerousPattern(t *testing.T) {
	if _, ok := MatchDangerousPattern("randint"); ok {
		t.Fatal("randint should not match a dangerous pattern")
	}
	if pat, ok := MatchDangerousPattern("_os"); !ok || pat != "_os" {
		t.Fatalf("expected _os to match pattern _os, got %q, %v", pat, ok)
	}
}
