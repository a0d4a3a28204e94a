package token

type TokenType string

// Position is the byte offset where a token starts in the equation text.
type Position struct {
	Offset int
}

type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

const (
	// Special
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Values
	NUMBER   TokenType = "NUMBER"
	VARIABLE TokenType = "VARIABLE"
	FUNCTION TokenType = "FUNCTION"

	OPERATOR TokenType = "OPERATOR"

	// Delimiters
	LPAREN TokenType = "("
	RPAREN TokenType = ")"
)

// Operator symbols
const (
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	CARET    = "^"
)

// precedences maps each binary operator to its binding strength.
// Higher binds tighter.
var precedences = map[string]int{
	PLUS:     1,
	MINUS:    1,
	ASTERISK: 2,
	SLASH:    2,
	CARET:    3,
}

// Precedence returns the binding strength of op and whether op is a known operator.
func Precedence(op string) (int, bool) {
	p, ok := precedences[op]
	return p, ok
}

// IsOperator reports whether ch starts an operator token.
func IsOperator(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '^':
		return true
	}
	return false
}

// builtins are the reserved function and constant names of the equation language.
// z is the iteration variable and c the fractal constant.
var builtins = map[string]bool{
	"abs": true, "exp": true, "log": true, "ln": true, "conj": true,
	"sqrt": true, "mod": true, "real": true, "imag": true,
	"sin": true, "asin": true, "asinh": true, "sinh": true,
	"cos": true, "acos": true, "acosh": true, "cosh": true,
	"tan": true, "atan": true, "atanh": true, "tanh": true,
	"z": true, "c": true,
}

// IsBuiltin reports whether name is reserved and therefore never a free variable.
func IsBuiltin(name string) bool {
	return builtins[name]
}

// Functions returns the built-in function names, excluding the z and c constants.
func Functions() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		if name == "z" || name == "c" {
			continue
		}
		names = append(names, name)
	}
	return names
}
