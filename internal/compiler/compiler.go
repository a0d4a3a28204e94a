// Package compiler translates complex-number equations into shader source.
//
//	"sin(z) + c"  →  "(complexSin(z)+c)"
//
// The pipeline is tokenize → parse → generate. Each stage lives in its own
// package; this package wires them and renders errors for display.
package compiler

import (
	"github.com/btouchard/fractalc/internal/compiler/errors"
	"github.com/btouchard/fractalc/internal/compiler/generator"
	"github.com/btouchard/fractalc/internal/compiler/lexer"
	"github.com/btouchard/fractalc/internal/compiler/parser"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fractalc.compiler'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.compiler")
}

// ErrorPrefix starts every error text shown in place of a program.
const ErrorPrefix = "ERROR: "

// Translate turns an equation into a shader expression. The error is a
// *errors.LexError or *errors.ParseError.
func Translate(text string) (string, error) {
	expr, _, err := Check(text)
	return expr, err
}

// Check translates text and also reports calls to functions the default
// template does not define. Warnings never make the translation fail.
func Check(text string) (string, *errors.ErrorList, error) {
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		tracer().Debugf("tokenize %q: %v", text, err)
		return "", nil, err
	}
	tree, err := parser.Parse(tokens)
	if err != nil {
		tracer().Debugf("parse %q: %v", text, err)
		return "", nil, err
	}
	out := generator.Generate(tree)
	tracer().Debugf("%q → %s", text, out)
	if !generator.HasUnknownFunctions(tree) {
		return out, errors.NewErrorList(), nil
	}
	return out, generator.CheckFunctions(tree), nil
}

// Message renders err the way the host displays a failed translation.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return ErrorPrefix + err.Error()
}
