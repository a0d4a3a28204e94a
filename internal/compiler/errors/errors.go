package errors

import "fmt"

// Position is a byte offset in the equation text or template.
type Position struct {
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("position %d", p.Offset)
}

// Phases
const (
	PhaseLexer   = "lexer"
	PhaseParser  = "parser"
	PhaseSplicer = "splicer"
	PhaseChecker = "checker"
)

// CompileError represents a translation error with source position
type CompileError struct {
	Pos     Position
	Message string
	Phase   string // "lexer", "parser", "splicer", "checker"
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Pos, e.Message)
}

// LexError reports a character the tokenizer does not recognise.
type LexError struct {
	CompileError
	Char rune
}

func NewLexError(offset int, ch rune) *LexError {
	return &LexError{
		CompileError: CompileError{
			Pos:     Position{Offset: offset},
			Message: fmt.Sprintf("unexpected character %q", ch),
			Phase:   PhaseLexer,
		},
		Char: ch,
	}
}

// ParseError reports a malformed token sequence.
type ParseError struct {
	CompileError
}

func NewParseError(offset int, format string, args ...interface{}) *ParseError {
	return &ParseError{CompileError{
		Pos:     Position{Offset: offset},
		Message: fmt.Sprintf(format, args...),
		Phase:   PhaseParser,
	}}
}

// TemplateError reports a template that lacks a required marker.
type TemplateError struct {
	CompileError
	Marker string
}

func NewTemplateError(marker, message string) *TemplateError {
	return &TemplateError{
		CompileError: CompileError{
			Pos:     Position{Offset: -1},
			Message: message,
			Phase:   PhaseSplicer,
		},
		Marker: marker,
	}
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Marker, e.Message)
}

// ErrorList collects multiple diagnostics
type ErrorList struct {
	Errors []*CompileError
}

func NewErrorList() *ErrorList {
	return &ErrorList{}
}

func (el *ErrorList) Add(pos Position, phase, message string) {
	el.Errors = append(el.Errors, &CompileError{Pos: pos, Message: message, Phase: phase})
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Messages returns every entry rendered with Error().
func (el *ErrorList) Messages() []string {
	msgs := make([]string, 0, len(el.Errors))
	for _, e := range el.Errors {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func (el *ErrorList) String() string {
	s := ""
	for _, e := range el.Errors {
		s += e.Error() + "\n"
	}
	return s
}
