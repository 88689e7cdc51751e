// Package runtime implements spec.md §3's data model: the tagged-variant
// Value, the three-scope Environment, user functions/classes/instances, and
// the internal control-flow signals the dispatcher (internal/evaluator)
// propagates.
package runtime

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Value is the tagged-variant runtime value spec.md §3 describes.
type Value interface {
	// Type returns the host-language type name (e.g. "int", "str", "list"),
	// used by the `type()` builtin and in diagnostics.
	Type() string
	String() string
	// Truthy implements the host's boolish conversion for `if`/`while`/
	// `and`/`or`/`not`.
	Truthy() bool
}

// None is the singleton null value.
type NoneValue struct{}

var None = NoneValue{}

func (NoneValue) Type() string   { return "NoneType" }
func (NoneValue) String() string { return "None" }
func (NoneValue) Truthy() bool   { return false }

// Bool wraps a host boolean.
type Bool bool

func (b Bool) Type() string { return "bool" }
func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}
func (b Bool) Truthy() bool { return bool(b) }

// Int is an arbitrary-precision integer (spec.md §3: "integers (arbitrary
// precision)"). math/big is the standard library's bignum type and the
// conventional choice across the Go ecosystem — see DESIGN.md.
type Int struct{ V *big.Int }

func NewInt(i int64) Int { return Int{V: big.NewInt(i)} }

func NewIntFromString(lit string) (Int, error) {
	v, ok := new(big.Int).SetString(lit, 0)
	if !ok {
		return Int{}, fmt.Errorf("invalid integer literal %q", lit)
	}
	return Int{V: v}, nil
}

func (i Int) Type() string   { return "int" }
func (i Int) String() string { return i.V.String() }
func (i Int) Truthy() bool   { return i.V.Sign() != 0 }
func (i Int) Int64() int64   { return i.V.Int64() }

// NewIntFromFloat truncates toward zero, matching int()/round()'s host
// semantics.
func NewIntFromFloat(f float64) Int {
	bi, _ := big.NewFloat(f).Int(nil)
	return Int{V: bi}
}

// Float wraps a host double-precision float.
type Float float64

func (f Float) Type() string { return "float" }
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}
func (f Float) Truthy() bool { return f != 0 }

// Str is an immutable text string.
type Str string

func (s Str) Type() string   { return "str" }
func (s Str) String() string { return string(s) }
func (s Str) Truthy() bool   { return len(s) != 0 }

// Bytes is an immutable byte string.
type Bytes []byte

func (b Bytes) Type() string   { return "bytes" }
func (b Bytes) String() string { return fmt.Sprintf("b'%s'", string(b)) }
func (b Bytes) Truthy() bool   { return len(b) != 0 }

// Repr renders the host language's repr() for a value, falling back to
// String() for kinds without a distinct repr form.
func Repr(v Value) string {
	switch t := v.(type) {
	case Str:
		return "'" + strings.ReplaceAll(string(t), "'", "\\'") + "'"
	case nil:
		return "None"
	default:
		return v.String()
	}
}
