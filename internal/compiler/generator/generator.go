package generator

import (
	"fmt"
	"strings"

	"github.com/btouchard/fractalc/internal/compiler/ast"
	"github.com/btouchard/fractalc/internal/compiler/token"
	"github.com/btouchard/fractalc/internal/compiler/utils"
)

// complexOps maps the operators that have no component-wise vec2
// equivalent to their shader helpers. '+' and '-' stay infix.
var complexOps = map[string]string{
	token.CARET:    "complexPower",
	token.ASTERISK: "complexMultiply",
	token.SLASH:    "complexDivide",
}

type Generator struct {
	b strings.Builder
}

func New() *Generator {
	return &Generator{}
}

// Generate renders an expression tree as shader source operating on vec2
// complex numbers. Output depends only on the tree.
func (g *Generator) Generate(expr ast.Expr) string {
	g.b.Reset()
	g.genExpr(expr)
	return g.b.String()
}

// Generate is a convenience wrapper around New().Generate.
func Generate(expr ast.Expr) string {
	return New().Generate(expr)
}

func (g *Generator) genExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		g.b.WriteString(e.Value)
	case *ast.Ident:
		g.b.WriteString(e.Name)
	case *ast.BinaryExpr:
		g.genBinary(e)
	case *ast.CallExpr:
		g.b.WriteString(utils.ComplexName(e.Function))
		g.b.WriteString("(")
		g.genExpr(e.Arg)
		g.b.WriteString(")")
	case *ast.ParenExpr:
		g.b.WriteString("(")
		g.genExpr(e.Inner)
		g.b.WriteString(")")
	default:
		g.b.WriteString(fmt.Sprintf("/* unknown expr: %T */", expr))
	}
}

func (g *Generator) genBinary(e *ast.BinaryExpr) {
	if fn, ok := complexOps[e.Op]; ok {
		// complexMultiply(l, r)
		g.b.WriteString(fn)
		g.b.WriteString("(")
		g.genExpr(e.Left)
		g.b.WriteString(", ")
		g.genExpr(e.Right)
		g.b.WriteString(")")
		return
	}
	// (l+r)
	g.b.WriteString("(")
	g.genExpr(e.Left)
	g.b.WriteString(e.Op)
	g.genExpr(e.Right)
	g.b.WriteString(")")
}
