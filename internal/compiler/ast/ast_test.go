package ast

import (
	"testing"

	"github.com/btouchard/fractalc/internal/compiler/token"
)

func TestTokenLiterals(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"NumberLit", &NumberLit{Value: "3.14"}, "3.14"},
		{"Ident", &Ident{Name: "juliaC"}, "juliaC"},
		{"BinaryExpr", &BinaryExpr{Op: "^"}, "^"},
		{"CallExpr", &CallExpr{Function: "sin"}, "sin"},
		{"ParenExpr", &ParenExpr{}, "("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.node.TokenLiteral()
			if result != tt.expected {
				t.Errorf("TokenLiteral() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestPos(t *testing.T) {
	pos := token.Position{Offset: 4}
	nodes := []Node{
		&NumberLit{Offset: pos},
		&Ident{Offset: pos},
		&BinaryExpr{Offset: pos},
		&CallExpr{Offset: pos},
		&ParenExpr{Offset: pos},
	}
	for _, n := range nodes {
		if n.Pos() != pos {
			t.Errorf("%T.Pos() = %v, want %v", n, n.Pos(), pos)
		}
	}
}

func TestWalkOrder(t *testing.T) {
	// sin(z) + (2 * c)
	tree := &BinaryExpr{
		Op:   "+",
		Left: &CallExpr{Function: "sin", Arg: &Ident{Name: "z"}},
		Right: &ParenExpr{Inner: &BinaryExpr{
			Op:    "*",
			Left:  &NumberLit{Value: "2"},
			Right: &Ident{Name: "c"},
		}},
	}

	var visited []string
	Walk(tree, func(e Expr) bool {
		visited = append(visited, e.TokenLiteral())
		return true
	})

	expected := []string{"+", "sin", "z", "(", "*", "2", "c"}
	if len(visited) != len(expected) {
		t.Fatalf("visited %v, want %v", visited, expected)
	}
	for i := range expected {
		if visited[i] != expected[i] {
			t.Errorf("visited[%d] = %q, want %q", i, visited[i], expected[i])
		}
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	tree := &CallExpr{Function: "exp", Arg: &Ident{Name: "z"}}

	count := 0
	Walk(tree, func(e Expr) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Walk visited %d nodes, want 1", count)
	}
}

func TestExpressionNodes(t *testing.T) {
	var _ Expr = (*NumberLit)(nil)
	var _ Expr = (*Ident)(nil)
	var _ Expr = (*BinaryExpr)(nil)
	var _ Expr = (*CallExpr)(nil)
	var _ Expr = (*ParenExpr)(nil)
}
