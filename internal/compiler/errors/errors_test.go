package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestPositionString(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected string
	}{
		{"start", Position{Offset: 0}, "position 0"},
		{"middle", Position{Offset: 12}, "position 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.pos.String()
			if result != tt.expected {
				t.Errorf("Position.String() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCompileErrorError(t *testing.T) {
	err := &CompileError{
		Pos:     Position{Offset: 5},
		Message: "unexpected token",
		Phase:   "parser",
	}

	result := err.Error()
	expected := "[parser] position 5: unexpected token"

	if result != expected {
		t.Errorf("CompileError.Error() = %q, want %q", result, expected)
	}
}

func TestLexError(t *testing.T) {
	err := NewLexError(2, '&')

	if err.Pos.Offset != 2 {
		t.Errorf("Pos.Offset = %d, want 2", err.Pos.Offset)
	}
	if err.Char != '&' {
		t.Errorf("Char = %q, want '&'", err.Char)
	}
	if err.Phase != PhaseLexer {
		t.Errorf("Phase = %q, want %q", err.Phase, PhaseLexer)
	}
	if !strings.Contains(err.Error(), `'&'`) {
		t.Errorf("Error() = %q, want the offending character", err.Error())
	}
}

func TestParseErrorFormatsMessage(t *testing.T) {
	err := NewParseError(7, "expected %s, got %s", ")", "EOF")

	expected := "[parser] position 7: expected ), got EOF"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestTemplateErrorNamesMarker(t *testing.T) {
	err := NewTemplateError("// [BEGIN_CUSTOM_EQUATION]", "marker not found")

	expected := "[splicer] // [BEGIN_CUSTOM_EQUATION]: marker not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("translate: %w", NewLexError(0, '#'))

	var lexErr *LexError
	if !stderrors.As(wrapped, &lexErr) {
		t.Fatal("errors.As did not find *LexError")
	}
	var parseErr *ParseError
	if stderrors.As(wrapped, &parseErr) {
		t.Error("errors.As matched *ParseError for a lexer error")
	}
}

func TestErrorListAdd(t *testing.T) {
	el := NewErrorList()

	if el.HasErrors() {
		t.Error("Empty ErrorList should not have errors")
	}

	pos := Position{Offset: 10}
	el.Add(pos, PhaseChecker, "unknown function")

	if len(el.Errors) != 1 {
		t.Fatalf("After Add(), len(Errors) = %d, want 1", len(el.Errors))
	}
	if !el.HasErrors() {
		t.Error("ErrorList with 1 error should return true for HasErrors()")
	}

	err := el.Errors[0]
	if err.Pos != pos {
		t.Errorf("Error position = %v, want %v", err.Pos, pos)
	}
	if err.Phase != PhaseChecker {
		t.Errorf("Error phase = %q, want %q", err.Phase, PhaseChecker)
	}
}

func TestErrorListString(t *testing.T) {
	el := NewErrorList()
	el.Add(Position{Offset: 1}, "checker", "unknown function sinn")
	el.Add(Position{Offset: 9}, "checker", "unknown function coss")

	result := el.String()
	if !strings.Contains(result, "[checker] position 1: unknown function sinn") {
		t.Errorf("String() missing first error, got: %s", result)
	}
	if !strings.Contains(result, "[checker] position 9: unknown function coss") {
		t.Errorf("String() missing second error, got: %s", result)
	}
	if len(el.Messages()) != 2 {
		t.Errorf("Messages() length = %d, want 2", len(el.Messages()))
	}
}

func TestErrorListStringEmpty(t *testing.T) {
	el := NewErrorList()
	if result := el.String(); result != "" {
		t.Errorf("Empty ErrorList.String() = %q, want %q", result, "")
	}
}
