package ast

import "github.com/btouchard/fractalc/internal/compiler/token"

// Node is the base interface for all AST nodes
type Node interface {
	TokenLiteral() string
	Pos() token.Position
}

// Expr is the interface for all expression nodes of an equation
type Expr interface {
	Node
	exprNode()
}

// NumberLit is a numeric literal, kept as written: 2, 0.5, 1.
type NumberLit struct {
	Value  string
	Offset token.Position
}

func (n *NumberLit) TokenLiteral() string { return n.Value }
func (n *NumberLit) Pos() token.Position  { return n.Offset }
func (n *NumberLit) exprNode()            {}

// Ident references z, c or a free variable such as juliaC
type Ident struct {
	Name   string
	Offset token.Position
}

func (i *Ident) TokenLiteral() string { return i.Name }
func (i *Ident) Pos() token.Position  { return i.Offset }
func (i *Ident) exprNode()            {}

// BinaryExpr: left op right, op is one of + - * / ^
type BinaryExpr struct {
	Op     string
	Left   Expr
	Right  Expr
	Offset token.Position // position of the operator
}

func (b *BinaryExpr) TokenLiteral() string { return b.Op }
func (b *BinaryExpr) Pos() token.Position  { return b.Offset }
func (b *BinaryExpr) exprNode()            {}

// CallExpr: name(arg). Functions take exactly one argument.
type CallExpr struct {
	Function string
	Arg      Expr
	Offset   token.Position
}

func (c *CallExpr) TokenLiteral() string { return c.Function }
func (c *CallExpr) Pos() token.Position  { return c.Offset }
func (c *CallExpr) exprNode()            {}

// ParenExpr: (inner). Kept in the tree so the generator can reproduce the
// grouping the user wrote.
type ParenExpr struct {
	Inner  Expr
	Offset token.Position
}

func (p *ParenExpr) TokenLiteral() string { return "(" }
func (p *ParenExpr) Pos() token.Position  { return p.Offset }
func (p *ParenExpr) exprNode()            {}

// Walk calls fn for every node of the tree in depth-first, left-to-right
// order. Returning false from fn skips the node's children.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *CallExpr:
		Walk(n.Arg, fn)
	case *ParenExpr:
		Walk(n.Inner, fn)
	}
}
