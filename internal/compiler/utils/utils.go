package utils

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize uppercases the first letter of an identifier and leaves the
// rest alone: "asinh" → "Asinh", "myFunc" → "MyFunc".
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	// Casers keep state; one per call.
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// ComplexName returns the shader helper implementing a function of the
// equation language: "sin" → "complexSin".
func ComplexName(fn string) string {
	return "complex" + Capitalize(fn)
}
