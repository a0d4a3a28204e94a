//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/btouchard/fractalc/internal/compiler"
	"github.com/btouchard/fractalc/internal/compiler/resolver"
	"github.com/btouchard/fractalc/internal/compiler/splicer"
)

func main() {
	js.Global().Set("translateEquation", js.FuncOf(translateWrapper))
	js.Global().Set("buildProgram", js.FuncOf(buildWrapper))

	// Keep the program alive
	select {}
}

// translateWrapper returns {expression, variables, warnings, error}.
func translateWrapper(this js.Value, args []js.Value) (out interface{}) {
	defer func() {
		if r := recover(); r != nil {
			out = js.ValueOf(map[string]interface{}{"error": fmt.Sprintf("panic: %v", r)})
		}
	}()

	if len(args) != 1 {
		return js.ValueOf(map[string]interface{}{"error": "expected 1 argument (equation)"})
	}
	equation := args[0].String()

	expr, warnings, err := compiler.Check(equation)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": compiler.Message(err)})
	}
	return js.ValueOf(map[string]interface{}{
		"expression": expr,
		"variables":  toJS(resolver.ExtractVariables(equation)),
		"warnings":   toJS(warnings.Messages()),
		"error":      "",
	})
}

// buildWrapper returns {program, error} using the built-in template.
func buildWrapper(this js.Value, args []js.Value) (out interface{}) {
	defer func() {
		if r := recover(); r != nil {
			out = js.ValueOf(map[string]interface{}{"error": fmt.Sprintf("panic: %v", r)})
		}
	}()

	if len(args) != 1 {
		return js.ValueOf(map[string]interface{}{"error": "expected 1 argument (equation)"})
	}
	equation := args[0].String()

	expr, err := compiler.Translate(equation)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"program": "", "error": compiler.Message(err)})
	}
	program, err := splicer.Splice(splicer.DefaultTemplate, resolver.ExtractVariables(equation), expr)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"program": "", "error": compiler.Message(err)})
	}
	return js.ValueOf(map[string]interface{}{"program": program, "error": ""})
}

// toJS converts a string slice to the []interface{} form js.ValueOf accepts.
func toJS(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
