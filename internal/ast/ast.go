// Package ast defines the typed AST with positional spans that spec.md's
// §1 treats as the product of an external, third-party parser: "a
// third-party parser for the host language is assumed to produce a typed
// AST with positional spans. The core consumes that AST only." This package
// is that consumed shape. internal/parser is a conforming front end that
// fills it in.
package ast

import "github.com/cwbudde/go-pysb/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
	String() string
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Module is the root node: a sequence of top-level statements.
type Module struct {
	Body []Stmt
}

func (m *Module) Pos() token.Position {
	if len(m.Body) == 0 {
		return token.Position{Line: 1, Column: 1}
	}
	return m.Body[0].Pos()
}
func (m *Module) String() string { return "<module>" }
