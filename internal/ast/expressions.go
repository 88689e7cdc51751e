package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-pysb/internal/token"
)

func (*Num) exprNode()           {}
func (*Str) exprNode()           {}
func (*Bytes) exprNode()         {}
func (*BoolLit) exprNode()       {}
func (*NoneLit) exprNode()       {}
func (*Name) exprNode()          {}
func (*BinOp) exprNode()         {}
func (*UnaryOp) exprNode()       {}
func (*BoolOp) exprNode()        {}
func (*Compare) exprNode()       {}
func (*Call) exprNode()          {}
func (*Attribute) exprNode()     {}
func (*Subscript) exprNode()     {}
func (*Slice) exprNode()         {}
func (*FString) exprNode()       {}
func (*ListExpr) exprNode()      {}
func (*TupleExpr) exprNode()     {}
func (*SetExpr) exprNode()       {}
func (*DictExpr) exprNode()      {}
func (*ListComp) exprNode()      {}
func (*SetComp) exprNode()       {}
func (*DictComp) exprNode()      {}
func (*GeneratorExp) exprNode()  {}
func (*Lambda) exprNode()        {}
func (*Starred) exprNode()       {}
func (*IfExp) exprNode()         {}
func (*YieldExpr) exprNode()     {}

// Num is an integer or float literal. IsFloat distinguishes `3` from `3.0`.
type Num struct {
	Literal string
	IsFloat bool
	P       token.Position
}

func (n *Num) Pos() token.Position { return n.P }
func (n *Num) String() string      { return n.Literal }

// Str is a string literal (already unescaped by the lexer).
type Str struct {
	Value string
	P     token.Position
}

func (s *Str) Pos() token.Position { return s.P }
func (s *Str) String() string      { return fmt.Sprintf("%q", s.Value) }

// Bytes is a bytes literal, e.g. b"abc".
type Bytes struct {
	Value []byte
	P     token.Position
}

func (b *Bytes) Pos() token.Position { return b.P }
func (b *Bytes) String() string      { return fmt.Sprintf("b%q", b.Value) }

// BoolLit is True or False.
type BoolLit struct {
	Value bool
	P     token.Position
}

func (b *BoolLit) Pos() token.Position { return b.P }
func (b *BoolLit) String() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// NoneLit is the None literal.
type NoneLit struct{ P token.Position }

func (n *NoneLit) Pos() token.Position { return n.P }
func (n *NoneLit) String() string      { return "None" }

// Name is a bare identifier reference.
type Name struct {
	Ident string
	P     token.Position
}

func (n *Name) Pos() token.Position { return n.P }
func (n *Name) String() string      { return n.Ident }

// BinOp is a binary arithmetic/bitwise/sequence operator: + - * / // % ** @
// & | ^ << >>.
type BinOp struct {
	Left  Expr
	Op    token.Kind
	Right Expr
	P     token.Position
}

func (b *BinOp) Pos() token.Position { return b.P }
func (b *BinOp) String() string      { return fmt.Sprintf("(%s %v %s)", b.Left, b.Op, b.Right) }

// UnaryOp is + - not ~.
type UnaryOp struct {
	Op      token.Kind
	Operand Expr
	P       token.Position
}

func (u *UnaryOp) Pos() token.Position { return u.P }
func (u *UnaryOp) String() string      { return fmt.Sprintf("(%v%s)", u.Op, u.Operand) }

// BoolOp is a short-circuiting `and`/`or` chain over 2+ values.
type BoolOp struct {
	Op     token.Kind // AND or OR
	Values []Expr
	P      token.Position
}

func (b *BoolOp) Pos() token.Position { return b.P }
func (b *BoolOp) String() string {
	parts := make([]string, len(b.Values))
	for i, v := range b.Values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, fmt.Sprintf(" %v ", b.Op)) + ")"
}

// Compare is a (possibly chained) comparison: a OP1 b OP2 c ...
type Compare struct {
	Left  Expr
	Ops   []token.Kind
	Comps []Expr
	P     token.Position
}

func (c *Compare) Pos() token.Position { return c.P }
func (c *Compare) String() string      { return "<compare>" }

// Keyword is a `name=value` call argument, or `**value` when Ident == "".
type Keyword struct {
	Ident string
	Value Expr
}

// Call is a function/method/class invocation with positional args,
// `*args`-style Starred entries mixed into Args, and keyword arguments.
type Call struct {
	Func     Expr
	Args     []Expr
	Keywords []Keyword
	P        token.Position
}

func (c *Call) Pos() token.Position { return c.P }
func (c *Call) String() string      { return fmt.Sprintf("%s(...)", c.Func) }

// Attribute is `Value.Attr`.
type Attribute struct {
	Value Expr
	Attr  string
	P     token.Position
}

func (a *Attribute) Pos() token.Position { return a.P }
func (a *Attribute) String() string      { return fmt.Sprintf("%s.%s", a.Value, a.Attr) }

// Subscript is `Value[Index]`; Index may be a *Slice.
type Subscript struct {
	Value Expr
	Index Expr
	P     token.Position
}

func (s *Subscript) Pos() token.Position { return s.P }
func (s *Subscript) String() string      { return fmt.Sprintf("%s[%s]", s.Value, s.Index) }

// Slice is the `lower:upper:step` form; each component may be nil.
type Slice struct {
	Lower Expr
	Upper Expr
	Step  Expr
	P     token.Position
}

func (s *Slice) Pos() token.Position { return s.P }
func (s *Slice) String() string      { return "<slice>" }

// FStringPart is either a literal fragment (Expr == nil) or an interpolated
// expression with an optional format spec.
type FStringPart struct {
	Literal string
	Expr    Expr
	Spec    string
}

// FString is a formatted string literal built from literal and expression
// parts.
type FString struct {
	Parts []FStringPart
	P     token.Position
}

func (f *FString) Pos() token.Position { return f.P }
func (f *FString) String() string      { return "<fstring>" }

// ListExpr is a `[...]` literal.
type ListExpr struct {
	Elts []Expr
	P    token.Position
}

func (l *ListExpr) Pos() token.Position { return l.P }
func (l *ListExpr) String() string      { return "<list>" }

// TupleExpr is a `(...)` or bare comma-separated tuple literal.
type TupleExpr struct {
	Elts []Expr
	P    token.Position
}

func (t *TupleExpr) Pos() token.Position { return t.P }
func (t *TupleExpr) String() string      { return "<tuple>" }

// SetExpr is a `{...}` set literal.
type SetExpr struct {
	Elts []Expr
	P    token.Position
}

func (s *SetExpr) Pos() token.Position { return s.P }
func (s *SetExpr) String() string      { return "<set>" }

// DictExpr is a `{k: v, ...}` mapping literal.
type DictExpr struct {
	Keys   []Expr
	Values []Expr
	P      token.Position
}

func (d *DictExpr) Pos() token.Position { return d.P }
func (d *DictExpr) String() string      { return "<dict>" }

// Comprehension is one `for Target in Iter if Ifs...` clause.
type Comprehension struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

// ListComp is `[Elt for ... ]`.
type ListComp struct {
	Elt        Expr
	Generators []Comprehension
	P          token.Position
}

func (l *ListComp) Pos() token.Position { return l.P }
func (l *ListComp) String() string      { return "<listcomp>" }

// SetComp is `{Elt for ... }`.
type SetComp struct {
	Elt        Expr
	Generators []Comprehension
	P          token.Position
}

func (s *SetComp) Pos() token.Position { return s.P }
func (s *SetComp) String() string      { return "<setcomp>" }

// DictComp is `{Key: Value for ... }`.
type DictComp struct {
	Key, Value Expr
	Generators []Comprehension
	P          token.Position
}

func (d *DictComp) Pos() token.Position { return d.P }
func (d *DictComp) String() string      { return "<dictcomp>" }

// GeneratorExp is `(Elt for ... )`, a lazy single-use sequence per §4.2.
type GeneratorExp struct {
	Elt        Expr
	Generators []Comprehension
	P          token.Position
}

func (g *GeneratorExp) Pos() token.Position { return g.P }
func (g *GeneratorExp) String() string      { return "<genexpr>" }

// Lambda is an anonymous function expression.
type Lambda struct {
	Params *Params
	Body   Expr
	P      token.Position
}

func (l *Lambda) Pos() token.Position { return l.P }
func (l *Lambda) String() string      { return "<lambda>" }

// Starred is `*expr`, valid only in call-argument position or an assignment
// target list.
type Starred struct {
	Value Expr
	P     token.Position
}

func (s *Starred) Pos() token.Position { return s.P }
func (s *Starred) String() string      { return fmt.Sprintf("*%s", s.Value) }

// IfExp is the `A if Cond else B` conditional expression.
type IfExp struct {
	Body, Test, Orelse Expr
	P                  token.Position
}

func (i *IfExp) Pos() token.Position { return i.P }
func (i *IfExp) String() string      { return "<ifexp>" }

// YieldExpr is `yield Value` (Value may be nil for a bare yield).
type YieldExpr struct {
	Value Expr
	P     token.Position
}

func (y *YieldExpr) Pos() token.Position { return y.P }
func (y *YieldExpr) String() string      { return "<yield>" }
