package generator

import (
	"fmt"
	"sort"

	"github.com/btouchard/fractalc/internal/compiler/ast"
	"github.com/btouchard/fractalc/internal/compiler/errors"
	"github.com/btouchard/fractalc/internal/compiler/token"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance bounds the edit distance of a "did you mean" hint.
const maxSuggestDistance = 2

// hasCallMatch returns true if at least one call in the tree satisfies the predicate.
func hasCallMatch(expr ast.Expr, predicate func(*ast.CallExpr) bool) bool {
	found := false
	ast.Walk(expr, func(e ast.Expr) bool {
		if call, ok := e.(*ast.CallExpr); ok && predicate(call) {
			found = true
		}
		return !found
	})
	return found
}

func isKnownFunction(name string) bool {
	return token.IsBuiltin(name) && name != "z" && name != "c"
}

// HasUnknownFunctions reports whether the tree calls a function the shader
// template does not provide.
func HasUnknownFunctions(expr ast.Expr) bool {
	return hasCallMatch(expr, func(call *ast.CallExpr) bool {
		return !isKnownFunction(call.Function)
	})
}

// CheckFunctions lists calls to functions outside the built-in vocabulary.
// The grammar accepts any name, so these are warnings: the generated code
// will only compile if the template defines the helper.
func CheckFunctions(expr ast.Expr) *errors.ErrorList {
	diags := errors.NewErrorList()
	ast.Walk(expr, func(e ast.Expr) bool {
		call, ok := e.(*ast.CallExpr)
		if !ok || isKnownFunction(call.Function) {
			return true
		}
		msg := fmt.Sprintf("unknown function %q", call.Function)
		if s := Suggest(call.Function); s != "" {
			msg += fmt.Sprintf(", did you mean %q?", s)
		}
		diags.Add(errors.Position{Offset: call.Pos().Offset}, errors.PhaseChecker, msg)
		return true
	})
	return diags
}

// Suggest returns the built-in function closest to name, or "" if nothing
// is close enough.
func Suggest(name string) string {
	candidates := token.Functions()
	sort.Strings(candidates)

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
