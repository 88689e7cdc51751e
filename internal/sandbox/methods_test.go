package sandbox

import (
	"testing"

	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
)

func callMethod(t *testing.T, recv runtime.Value, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	m, ok := MethodFor(recv, name)
	if !ok {
		t.Fatalf("MethodFor(%v, %q) not found", recv, name)
	}
	allArgs := append([]runtime.Value{recv}, args...)
	v, err := m.Fn(allArgs, nil)
	if err != nil {
		t.Fatalf("%s() returned error: %v", name, err)
	}
	return v
}

func TestStrMethods(t *testing.T) {
	got := callMethod(t, runtime.Str("hello"), "replace", runtime.Str("h"), runtime.Str("o"))
	if got.String() != "oello" {
		t.Fatalf("replace: got %q", got.String())
	}
	split, ok := MethodFor(got, "split")
	if !ok {
		t.Fatal("split not found")
	}
	v, err := split.Fn([]runtime.Value{got, runtime.Str("e")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	l, ok := v.(*runtime.List)
	if !ok || len(l.Elems) != 2 || l.Elems[0].String() != "o" || l.Elems[1].String() != "llo" {
		t.Fatalf("split: got %v", v)
	}

	if got := callMethod(t, runtime.Str("A"), "isalpha"); !got.Truthy() {
		t.Fatal("expected 'A'.isalpha() to be true")
	}
	if got := callMethod(t, runtime.Str("hello"), "upper"); got.String() != "HELLO" {
		t.Fatalf("upper: got %q", got.String())
	}
	joined := callMethod(t, runtime.Str("-"), "join", runtime.NewList([]runtime.Value{runtime.Str("a"), runtime.Str("b")}))
	if joined.String() != "a-b" {
		t.Fatalf("join: got %q", joined.String())
	}
}

func TestStrIndexNotFoundIsValueError(t *testing.T) {
	m, ok := MethodFor(runtime.Str("hello"), "index")
	if !ok {
		t.Fatal("index not found")
	}
	_, err := m.Fn([]runtime.Value{runtime.Str("hello"), runtime.Str("z")}, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	ie, ok := err.(*errors.InterpreterError)
	if !ok || ie.Kind != errors.KindValue {
		t.Fatalf("expected a classified ValueError, got %v", err)
	}
}

func TestListMethods(t *testing.T) {
	l := runtime.NewList([]runtime.Value{runtime.NewInt(1), runtime.NewInt(2)})
	callMethod(t, l, "append", runtime.NewInt(3))
	if len(l.Elems) != 3 {
		t.Fatalf("append: got %v", l.Elems)
	}
	idx := callMethod(t, l, "index", runtime.NewInt(2))
	if idx.String() != "1" {
		t.Fatalf("index: got %v", idx)
	}
	callMethod(t, l, "reverse")
	if l.Elems[0].String() != "3" {
		t.Fatalf("reverse: got %v", l.Elems)
	}
}

func TestDictMethods(t *testing.T) {
	d := runtime.NewDict()
	d.Set(runtime.Str("apple"), runtime.NewInt(2))
	d.Set(runtime.Str("orange"), runtime.NewInt(1))
	items := callMethod(t, d, "items")
	l, ok := items.(*runtime.List)
	if !ok || len(l.Elems) != 2 {
		t.Fatalf("items: got %v", items)
	}
	pair, ok := l.Elems[0].(*runtime.Tuple)
	if !ok || len(pair.Elems) != 2 {
		t.Fatalf("items entry: got %v", l.Elems[0])
	}
}

func TestTupleMethods(t *testing.T) {
	tup := runtime.NewTuple([]runtime.Value{runtime.NewInt(1), runtime.NewInt(2), runtime.NewInt(1)})
	n := callMethod(t, tup, "count", runtime.NewInt(1))
	if n.String() != "2" {
		t.Fatalf("count: got %v", n)
	}
}

func TestMethodForUnknownReceiverMisses(t *testing.T) {
	if _, ok := MethodFor(runtime.NewInt(5), "anything"); ok {
		t.Fatal("expected int to have no dispatched method")
	}
	if _, ok := MethodFor(runtime.Str("x"), "nope"); ok {
		t.Fatal("expected an unknown str method to miss")
	}
}
