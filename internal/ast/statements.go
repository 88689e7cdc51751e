package ast

import "github.com/cwbudde/go-pysb/internal/token"

func (*ExprStmt) stmtNode()     {}
func (*Assign) stmtNode()       {}
func (*AugAssign) stmtNode()    {}
func (*If) stmtNode()           {}
func (*While) stmtNode()        {}
func (*For) stmtNode()          {}
func (*Break) stmtNode()        {}
func (*Continue) stmtNode()     {}
func (*Pass) stmtNode()         {}
func (*Return) stmtNode()       {}
func (*Try) stmtNode()          {}
func (*Raise) stmtNode()        {}
func (*With) stmtNode()         {}
func (*Assert) stmtNode()       {}
func (*Del) stmtNode()          {}
func (*Import) stmtNode()       {}
func (*ImportFrom) stmtNode()   {}
func (*FunctionDef) stmtNode()  {}
func (*ClassDef) stmtNode()     {}
func (*Global) stmtNode()       {}
func (*Nonlocal) stmtNode()     {}
func (*StmtSeq) stmtNode()      {}

// StmtSeq packs multiple ';'-separated simple statements that appeared on a
// single source line, so the parser can return one ast.Stmt per line while
// the evaluator still runs each sub-statement in order.
type StmtSeq struct {
	Stmts []Stmt
	P     token.Position
}

func (s *StmtSeq) Pos() token.Position { return s.P }
func (s *StmtSeq) String() string      { return "<stmts>" }

// ExprStmt is a bare expression used as a statement (its value becomes the
// "value of the last top-level form" when it is the final statement).
type ExprStmt struct {
	Value Expr
	P     token.Position
}

func (e *ExprStmt) Pos() token.Position { return e.P }
func (e *ExprStmt) String() string      { return e.Value.String() }

// Assign is `Targets[0] = Targets[1] = ... = Value` (chained assignment);
// each target may itself be a TupleExpr/ListExpr for destructuring.
type Assign struct {
	Targets []Expr
	Value   Expr
	P       token.Position
}

func (a *Assign) Pos() token.Position { return a.P }
func (a *Assign) String() string      { return "<assign>" }

// AugAssign is `Target OP= Value`, e.g. `x += 1`.
type AugAssign struct {
	Target Expr
	Op     token.Kind
	Value  Expr
	P      token.Position
}

func (a *AugAssign) Pos() token.Position { return a.P }
func (a *AugAssign) String() string      { return "<augassign>" }

// If is `if Test: Body else: Orelse` (Orelse holds a single nested If for
// `elif` chains, or arbitrary statements for a trailing `else`).
type If struct {
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
	P      token.Position
}

func (i *If) Pos() token.Position { return i.P }
func (i *If) String() string      { return "<if>" }

// While is `while Test: Body else: Orelse`.
type While struct {
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
	P      token.Position
}

func (w *While) Pos() token.Position { return w.P }
func (w *While) String() string      { return "<while>" }

// For is `for Target in Iter: Body else: Orelse`.
type For struct {
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
	P      token.Position
}

func (f *For) Pos() token.Position { return f.P }
func (f *For) String() string      { return "<for>" }

// Break, Continue and Pass are the trivial control-flow statements.
type Break struct{ P token.Position }

func (b *Break) Pos() token.Position { return b.P }
func (b *Break) String() string      { return "break" }

type Continue struct{ P token.Position }

func (c *Continue) Pos() token.Position { return c.P }
func (c *Continue) String() string      { return "continue" }

type Pass struct{ P token.Position }

func (p *Pass) Pos() token.Position { return p.P }
func (p *Pass) String() string      { return "pass" }

// Return is `return Value` (Value nil for a bare return).
type Return struct {
	Value Expr
	P     token.Position
}

func (r *Return) Pos() token.Position { return r.P }
func (r *Return) String() string      { return "<return>" }

// ExceptHandler is one `except Type as Name: Body` clause. Type is nil for
// a bare `except:` catch-all.
type ExceptHandler struct {
	Type Expr
	Name string
	Body []Stmt
	P    token.Position
}

func (e *ExceptHandler) Pos() token.Position { return e.P }
func (e *ExceptHandler) String() string      { return "<except>" }

// Try is `try: Body except ...: ... else: Orelse finally: Finally`.
type Try struct {
	Body     []Stmt
	Handlers []*ExceptHandler
	Orelse   []Stmt
	Finally  []Stmt
	P        token.Position
}

func (t *Try) Pos() token.Position { return t.P }
func (t *Try) String() string      { return "<try>" }

// Raise is `raise` (bare re-raise), `raise Exc`, or `raise Exc from Cause`.
type Raise struct {
	Exc   Expr
	Cause Expr
	P     token.Position
}

func (r *Raise) Pos() token.Position { return r.P }
func (r *Raise) String() string      { return "<raise>" }

// WithItem is one `Context as Name` clause of a `with` statement.
type WithItem struct {
	Context Expr
	Name    Expr
}

// With is `with Items...: Body`.
type With struct {
	Items []WithItem
	Body  []Stmt
	P     token.Position
}

func (w *With) Pos() token.Position { return w.P }
func (w *With) String() string      { return "<with>" }

// Assert is `assert Test, Msg` (Msg nil when omitted). Source carries the
// literal source text of Test for the §4.3/§8 diagnostic requirement.
type Assert struct {
	Test   Expr
	Msg    Expr
	Source string
	P      token.Position
}

func (a *Assert) Pos() token.Position { return a.P }
func (a *Assert) String() string      { return "<assert>" }

// Del is `del Targets...`; each target is a Name, Attribute or Subscript.
type Del struct {
	Targets []Expr
	P       token.Position
}

func (d *Del) Pos() token.Position { return d.P }
func (d *Del) String() string      { return "<del>" }

// Alias is one `Name as AsName` import clause.
type Alias struct {
	Name   string
	AsName string
}

// Import is `import Names...`.
type Import struct {
	Names []Alias
	P     token.Position
}

func (i *Import) Pos() token.Position { return i.P }
func (i *Import) String() string      { return "<import>" }

// ImportFrom is `from Module import Names...`.
type ImportFrom struct {
	Module string
	Names  []Alias
	P      token.Position
}

func (i *ImportFrom) Pos() token.Position { return i.P }
func (i *ImportFrom) String() string      { return "<importfrom>" }

// Param is one function parameter.
type Param struct {
	Name    string
	Default Expr // nil if required
}

// Params is a function's full parameter descriptor in source order, mirroring
// spec.md §3's "Parameter descriptor".
type Params struct {
	Positional []Param
	VarArg     string // "" if no *args
	KwOnly     []Param
	VarKwArg   string // "" if no **kwargs
}

// FunctionDef is `def Name(Params): Body`, with decorators applied
// innermost-first per §4.3.
type FunctionDef struct {
	Name       string
	Params     *Params
	Body       []Stmt
	Decorators []Expr
	IsGenerator bool
	P          token.Position
}

func (f *FunctionDef) Pos() token.Position { return f.P }
func (f *FunctionDef) String() string      { return "def " + f.Name }

// ClassDef is `class Name(Base): Body`. Base is nil for a base-less class.
type ClassDef struct {
	Name       string
	Base       Expr
	Body       []Stmt
	Decorators []Expr
	P          token.Position
}

func (c *ClassDef) Pos() token.Position { return c.P }
func (c *ClassDef) String() string      { return "class " + c.Name }

// Global and Nonlocal declare that the named bindings refer to the module
// or nearest enclosing function scope rather than the current local frame.
type Global struct {
	Names []string
	P     token.Position
}

func (g *Global) Pos() token.Position { return g.P }
func (g *Global) String() string      { return "<global>" }

type Nonlocal struct {
	Names []string
	P     token.Position
}

func (n *Nonlocal) Pos() token.Position { return n.P }
func (n *Nonlocal) String() string      { return "<nonlocal>" }
