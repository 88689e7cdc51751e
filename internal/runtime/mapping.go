package runtime

import (
	"fmt"
	"strings"
)

// HashKey returns a comparable Go value usable as a map key for v, or an
// error if v is of an unhashable type (list, dict, set, or a mutable user
// instance) — mirroring the host language's TypeError for `unhashable
// type`.
func HashKey(v Value) (any, error) {
	switch t := v.(type) {
	case NoneValue:
		return "none", nil
	case Bool:
		return t, nil
	case Int:
		return "int:" + t.V.String(), nil
	case Float:
		return t, nil
	case Str:
		return "str:" + string(t), nil
	case Bytes:
		return "bytes:" + string(t), nil
	case *Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			k, err := HashKey(e)
			if err != nil {
				return nil, err
			}
			parts[i] = fmt.Sprintf("%v", k)
		}
		return "tuple:" + strings.Join(parts, ","), nil
	default:
		return nil, fmt.Errorf("unhashable type: '%s'", v.Type())
	}
}

// Dict is the insertion-ordered mapping value (spec.md §3).
type Dict struct {
	keys   []Value
	vals   []Value
	index  map[any]int
}

func NewDict() *Dict {
	return &Dict{index: make(map[any]int)}
}

// Get looks up key, returning (value, true) on a hit.
func (d *Dict) Get(key Value) (Value, bool, error) {
	hk, err := HashKey(key)
	if err != nil {
		return nil, false, err
	}
	i, ok := d.index[hk]
	if !ok {
		return nil, false, nil
	}
	return d.vals[i], true, nil
}

// Set inserts or updates key -> value, preserving first-insertion order.
func (d *Dict) Set(key, value Value) error {
	hk, err := HashKey(key)
	if err != nil {
		return err
	}
	if i, ok := d.index[hk]; ok {
		d.vals[i] = value
		return nil
	}
	d.index[hk] = len(d.keys)
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, value)
	return nil
}

// Delete removes key, reporting whether it was present.
func (d *Dict) Delete(key Value) (bool, error) {
	hk, err := HashKey(key)
	if err != nil {
		return false, err
	}
	i, ok := d.index[hk]
	if !ok {
		return false, nil
	}
	d.keys = append(d.keys[:i], d.keys[i+1:]...)
	d.vals = append(d.vals[:i], d.vals[i+1:]...)
	delete(d.index, hk)
	for k, idx := range d.index {
		if idx > i {
			d.index[k] = idx - 1
		}
	}
	return true, nil
}

// Len, Keys and Values support iteration and the len() builtin.
func (d *Dict) Len() int         { return len(d.keys) }
func (d *Dict) Keys() []Value    { return d.keys }
func (d *Dict) Values() []Value  { return d.vals }

func (d *Dict) Type() string { return "dict" }
func (d *Dict) String() string {
	parts := make([]string, len(d.keys))
	for i := range d.keys {
		parts[i] = Repr(d.keys[i]) + ": " + Repr(d.vals[i])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (d *Dict) Truthy() bool { return len(d.keys) != 0 }

// SetValue is the insertion-ordered set value.
type SetValue struct {
	elems []Value
	index map[any]int
}

func NewSet() *SetValue {
	return &SetValue{index: make(map[any]int)}
}

func (s *SetValue) Add(v Value) error {
	hk, err := HashKey(v)
	if err != nil {
		return err
	}
	if _, ok := s.index[hk]; ok {
		return nil
	}
	s.index[hk] = len(s.elems)
	s.elems = append(s.elems, v)
	return nil
}

func (s *SetValue) Contains(v Value) (bool, error) {
	hk, err := HashKey(v)
	if err != nil {
		return false, err
	}
	_, ok := s.index[hk]
	return ok, nil
}

func (s *SetValue) Remove(v Value) (bool, error) {
	hk, err := HashKey(v)
	if err != nil {
		return false, err
	}
	i, ok := s.index[hk]
	if !ok {
		return false, nil
	}
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	delete(s.index, hk)
	for k, idx := range s.index {
		if idx > i {
			s.index[k] = idx - 1
		}
	}
	return true, nil
}

func (s *SetValue) Elems() []Value { return s.elems }
func (s *SetValue) Len() int       { return len(s.elems) }

func (s *SetValue) Type() string { return "set" }
func (s *SetValue) String() string {
	if len(s.elems) == 0 {
		return "set()"
	}
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = Repr(e)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (s *SetValue) Truthy() bool { return len(s.elems) != 0 }
