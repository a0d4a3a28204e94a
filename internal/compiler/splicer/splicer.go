// Package splicer injects a translated equation into a shader template.
//
// A template carries three marker lines:
//
//	// [CUSTOM_UNIFORMS]          replaced by one uniform per variable
//	// [BEGIN_CUSTOM_EQUATION]    kept, together with the end marker,
//	// [END_CUSTOM_EQUATION]      around a fresh customEquation function
package splicer

import (
	_ "embed"
	"strings"

	"github.com/ahrtr/gocontainer/set"
	"github.com/btouchard/fractalc/internal/compiler/errors"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fractalc.splicer'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.splicer")
}

// Marker lines
const (
	UniformsMarker      = "// [CUSTOM_UNIFORMS]"
	BeginEquationMarker = "// [BEGIN_CUSTOM_EQUATION]"
	EndEquationMarker   = "// [END_CUSTOM_EQUATION]"
)

// DefaultTemplate is a fragment shader that iterates customEquation and
// defines every complex helper the generator can emit.
//
//go:embed templates/fractal.frag
var DefaultTemplate string

// Splice returns template with the uniform declarations for names and the
// customEquation function returning expr. The template is only read; on
// error no output is produced.
func Splice(template string, names []string, expr string) (string, error) {
	u := strings.Index(template, UniformsMarker)
	if u < 0 {
		return "", errors.NewTemplateError(UniformsMarker, "marker not found in template")
	}
	begin := strings.Index(template, BeginEquationMarker)
	if begin < 0 {
		return "", errors.NewTemplateError(BeginEquationMarker, "marker not found in template")
	}
	end := strings.Index(template, EndEquationMarker)
	if end < 0 {
		return "", errors.NewTemplateError(EndEquationMarker, "marker not found in template")
	}
	if end < begin {
		return "", errors.NewTemplateError(EndEquationMarker, "end marker precedes begin marker")
	}
	end += len(EndEquationMarker)

	// the uniform marker occupies its whole line, newline excluded
	lineStart := strings.LastIndexByte(template[:u], '\n') + 1
	lineEnd := len(template)
	if nl := strings.IndexByte(template[u:], '\n'); nl >= 0 {
		lineEnd = u + nl
	}
	if lineEnd > begin && lineStart < end {
		return "", errors.NewTemplateError(UniformsMarker, "marker inside the equation block")
	}

	uniforms := uniformDecls(names)
	equation := equationBlock(expr)

	var b strings.Builder
	b.Grow(len(template) + len(uniforms) + len(equation))
	if lineStart < begin {
		b.WriteString(template[:lineStart])
		b.WriteString(uniforms)
		b.WriteString(template[lineEnd:begin])
		b.WriteString(equation)
		b.WriteString(template[end:])
	} else {
		b.WriteString(template[:begin])
		b.WriteString(equation)
		b.WriteString(template[end:lineStart])
		b.WriteString(uniforms)
		b.WriteString(template[lineEnd:])
	}
	tracer().Debugf("spliced %d uniforms, expression %s", len(names), expr)
	return b.String(), nil
}

// uniformDecls declares each distinct name once, in first-seen order.
func uniformDecls(names []string) string {
	seen := set.New()
	decls := make([]string, 0, len(names))
	for _, n := range names {
		if seen.Contains(n) {
			continue
		}
		seen.Add(n)
		decls = append(decls, "uniform vec2 "+n+";")
	}
	return strings.Join(decls, "\n")
}

func equationBlock(expr string) string {
	return BeginEquationMarker + "\n" +
		"vec2 customEquation(vec2 z, vec2 c) {\n" +
		"    return " + expr + ";\n" +
		"}\n" +
		EndEquationMarker
}
