package lexer

import (
	"unicode/utf8"

	"github.com/btouchard/fractalc/internal/compiler/errors"
	"github.com/btouchard/fractalc/internal/compiler/token"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fractalc.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.lexer")
}

// Lexer scans equation text byte by byte. The grammar is ASCII only, so
// offsets in tokens are byte offsets into the input.
type Lexer struct {
	input        string
	position     int  // current offset in input (bytes)
	readPosition int  // next reading position (bytes)
	ch           byte // current character
	pending      []token.Token
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token. At the end of input it returns EOF;
// an unrecognised character comes back as ILLEGAL.
func (l *Lexer) NextToken() token.Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	l.skipWhitespace()

	if l.atEnd() {
		return token.Token{Type: token.EOF, Pos: token.Position{Offset: len(l.input)}}
	}

	pos := token.Position{Offset: l.position}
	var tok token.Token

	switch {
	case l.ch == '(':
		tok = l.makeToken(token.LPAREN, "(")
	case l.ch == ')':
		tok = l.makeToken(token.RPAREN, ")")
	case token.IsOperator(l.ch):
		tok = l.makeToken(token.OPERATOR, string(l.ch))
	case isDigit(l.ch) || l.ch == '.':
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	case isLetter(l.ch):
		ident := l.readIdentifier()
		if l.ch == '(' {
			// A call: the opening paren is emitted right behind the name.
			l.pending = append(l.pending, l.makeToken(token.LPAREN, "("))
			l.readChar()
			return token.Token{Type: token.FUNCTION, Literal: ident, Pos: pos}
		}
		return token.Token{Type: token.VARIABLE, Literal: ident, Pos: pos}
	default:
		tok = l.makeToken(token.ILLEGAL, string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) makeToken(typ token.TokenType, lit string) token.Token {
	return token.Token{
		Type:    typ,
		Literal: lit,
		Pos:     token.Position{Offset: l.position},
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for !l.atEnd() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber consumes a run of digits and dots. Malformed literals such as
// "1.2.3" are passed through untouched.
func (l *Lexer) readNumber() string {
	start := l.position
	for !l.atEnd() && (isDigit(l.ch) || l.ch == '.') {
		l.readChar()
	}
	return l.input[start:l.position]
}

// Tokenize converts the whole input into tokens. The trailing EOF token is
// not included.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		switch tok.Type {
		case token.EOF:
			tracer().Debugf("tokenized %q into %d tokens", input, len(tokens))
			return tokens, nil
		case token.ILLEGAL:
			r, _ := utf8.DecodeRuneInString(input[tok.Pos.Offset:])
			return nil, errors.NewLexError(tok.Pos.Offset, r)
		}
		tokens = append(tokens, tok)
	}
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
