package sandbox

import (
	"math"
	"testing"

	"github.com/cwbudde/go-pysb/internal/runtime"
)

func TestMathModuleWrapModule(t *testing.T) {
	mod := WrapModule(MathModule(), []string{"math"})

	pi, status, err := mod.GetAttr("pi")
	if err != nil || status != runtime.AttrFound {
		t.Fatalf("expected math.pi to resolve, got status=%v err=%v", status, err)
	}
	if f, ok := pi.(runtime.Float); !ok || math.Abs(float64(f)-math.Pi) > 1e-9 {
		t.Fatalf("expected math.pi ~= %v, got %v", math.Pi, pi)
	}

	sqrtV, status, err := mod.GetAttr("sqrt")
	if err != nil || status != runtime.AttrFound {
		t.Fatalf("expected math.sqrt to resolve, got status=%v err=%v", status, err)
	}
	sqrtFn := sqrtV.(*runtime.HostCallable)
	result, err := sqrtFn.Fn([]runtime.Value{runtime.Float(16)}, nil)
	if err != nil {
		t.Fatalf("sqrt(16) failed: %v", err)
	}
	if f, ok := result.(runtime.Float); !ok || float64(f) != 4 {
		t.Fatalf("expected sqrt(16) == 4, got %v", result)
	}

	_, status, err = mod.GetAttr("_os")
	if status != runtime.AttrDenied || err == nil {
		t.Fatalf("expected math._os to be denied, got status=%v err=%v", status, err)
	}
}

func TestRandomModuleIsDeterministic(t *testing.T) {
	defA := RandomModule()
	modA := WrapModule(defA, []string{"random"})
	randintV, _, err := modA.GetAttr("randint")
	if err != nil {
		t.Fatalf("random.randint resolve failed: %v", err)
	}
	randintFn := randintV.(*runtime.HostCallable)
	result, err := randintFn.Fn([]runtime.Value{runtime.NewInt(1), runtime.NewInt(6)}, nil)
	if err != nil {
		t.Fatalf("randint(1, 6) failed: %v", err)
	}
	n := result.(runtime.Int)
	if n.Int64() < 1 || n.Int64() > 6 {
		t.Fatalf("expected randint(1, 6) in [1, 6], got %v", n)
	}

	modB := WrapModule(RandomModule(), []string{"random"})
	randintBV, _, err := modB.GetAttr("randint")
	if err != nil {
		t.Fatalf("random.randint resolve failed: %v", err)
	}
	again, err := randintBV.(*runtime.HostCallable).Fn([]runtime.Value{runtime.NewInt(1), runtime.NewInt(6)}, nil)
	if err != nil {
		t.Fatalf("randint(1, 6) failed: %v", err)
	}
	if again.(runtime.Int).Int64() != n.Int64() {
		t.Fatalf("expected two fresh random modules to agree, got %v and %v", n, again)
	}
}
