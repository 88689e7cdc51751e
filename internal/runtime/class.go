package runtime

// Class is a user-defined class value: name, single base class (nil for
// none), and the namespace produced by evaluating the class body
// (spec.md §3, §4.4).
type Class struct {
	Name      string
	Base      *Class
	Namespace map[string]Value
	// BuiltinKind is non-empty only for a built-in exception class (see
	// NewBuiltinExceptions): the classified error Kind string it matches
	// for an interpreter-raised error that carries no raised instance
	// (e.g. `except TypeError:` catching a bad-operand TypeError the
	// dispatcher itself raised, not a `raise TypeError(...)`). Empty for
	// every ordinary user-defined class.
	BuiltinKind string
}

func NewClass(name string, base *Class) *Class {
	return &Class{Name: name, Base: base, Namespace: make(map[string]Value)}
}

func (c *Class) Type() string   { return "type" }
func (c *Class) String() string { return "<class '" + c.Name + "'>" }
func (c *Class) Truthy() bool   { return true }

// LookupOwn resolves name directly on this class's namespace only.
func (c *Class) LookupOwn(name string) (Value, bool) {
	v, ok := c.Namespace[name]
	return v, ok
}

// Lookup resolves name on this class, then recursively on the single base
// class, matching §3's "on miss, on the single base class (recursively)."
func (c *Class) Lookup(name string) (Value, *Class, bool) {
	for cur := c; cur != nil; cur = cur.Base {
		if v, ok := cur.Namespace[name]; ok {
			return v, cur, true
		}
	}
	return nil, nil, false
}

// IsSubclassOf reports whether c is target or descends from it, walking the
// single-inheritance chain; used by isinstance/issubclass.
func (c *Class) IsSubclassOf(target *Class) bool {
	for cur := c; cur != nil; cur = cur.Base {
		if cur == target {
			return true
		}
	}
	return false
}

// Instance is a user-defined object: a class reference plus a per-instance
// attribute map (spec.md §3).
type Instance struct {
	Class *Class
	Attrs map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Attrs: make(map[string]Value)}
}

func (i *Instance) Type() string   { return i.Class.Name }
func (i *Instance) String() string { return "<" + i.Class.Name + " object>" }
func (i *Instance) Truthy() bool   { return true }

// GetAttr resolves name on i: instance map first, then the class chain
// (§3's class-attribute-resolution invariant). Functions found on the
// class are returned bound to i.
func (i *Instance) GetAttr(name string) (Value, bool) {
	if v, ok := i.Attrs[name]; ok {
		return v, true
	}
	if v, cls, ok := i.Class.Lookup(name); ok {
		_ = cls
		if fn, ok := v.(*Function); ok {
			return fn.Bind(i), true
		}
		return v, true
	}
	return nil, false
}

// SetAttr writes directly to the instance attribute map.
func (i *Instance) SetAttr(name string, val Value) {
	i.Attrs[name] = val
}

// DelAttr removes name from the instance attribute map, reporting whether
// it was present.
func (i *Instance) DelAttr(name string) bool {
	if _, ok := i.Attrs[name]; ok {
		delete(i.Attrs, name)
		return true
	}
	return false
}

// SuperProxy is the bound proxy `super()` returns: attribute lookups skip
// the instance's own class and begin at the base (spec.md §4.4).
type SuperProxy struct {
	Instance *Instance
	FromBase *Class
}

func (s *SuperProxy) Type() string   { return "super" }
func (s *SuperProxy) String() string { return "<super: " + s.FromBase.Name + ">" }
func (s *SuperProxy) Truthy() bool   { return true }

// GetAttr resolves name starting at FromBase, binding any function found to
// the underlying instance.
func (s *SuperProxy) GetAttr(name string) (Value, bool) {
	if v, _, ok := s.FromBase.Lookup(name); ok {
		if fn, ok := v.(*Function); ok {
			return fn.Bind(s.Instance), true
		}
		return v, true
	}
	return nil, false
}
