package parser

import (
	"github.com/btouchard/fractalc/internal/compiler/ast"
	"github.com/btouchard/fractalc/internal/compiler/errors"
	"github.com/btouchard/fractalc/internal/compiler/token"
	"github.com/edwingeng/deque"
	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fractalc.parser'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.parser")
}

// LOWEST is the binding strength below every operator.
const LOWEST = 0

// Parser builds an expression tree from a token sequence by precedence
// climbing. A Parser is single-use.
type Parser struct {
	tokens deque.Deque
	end    int // offset just past the last token
}

func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: deque.NewDeque()}
	for _, tok := range tokens {
		p.tokens.PushBack(tok)
	}
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		p.end = last.Pos.Offset + len(last.Literal)
	}
	return p
}

// Parse parses a complete equation. Every token must be consumed.
func Parse(tokens []token.Token) (ast.Expr, error) {
	if err := checkDelimiters(tokens); err != nil {
		return nil, err
	}
	p := New(tokens)
	expr, err := p.ParseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if !p.tokens.Empty() {
		tok := p.peek()
		return nil, errors.NewParseError(tok.Pos.Offset,
			"unexpected %s %q after end of expression", tok.Type, tok.Literal)
	}
	return expr, nil
}

func (p *Parser) peek() token.Token {
	return p.tokens.Front().(token.Token)
}

func (p *Parser) next() token.Token {
	return p.tokens.PopFront().(token.Token)
}

// ParseExpression parses one primary followed by every operator that binds
// tighter than minPrecedence. The strict comparison makes all operators,
// '^' included, left-associative: 2^3^2 is (2^3)^2.
func (p *Parser) ParseExpression(minPrecedence int) (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for !p.tokens.Empty() {
		tok := p.peek()
		if tok.Type != token.OPERATOR {
			break
		}
		prec, ok := token.Precedence(tok.Literal)
		if !ok {
			return nil, errors.NewParseError(tok.Pos.Offset, "unknown operator %q", tok.Literal)
		}
		if prec <= minPrecedence {
			break
		}
		p.next()

		right, err := p.ParseExpression(prec)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: tok.Literal, Left: left, Right: right, Offset: tok.Pos}
	}

	return left, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	if p.tokens.Empty() {
		return nil, errors.NewParseError(p.end, "unexpected end of input, expected a value")
	}
	tok := p.next()

	switch tok.Type {
	case token.NUMBER:
		return &ast.NumberLit{Value: tok.Literal, Offset: tok.Pos}, nil

	case token.VARIABLE:
		return &ast.Ident{Name: tok.Literal, Offset: tok.Pos}, nil

	case token.FUNCTION:
		if p.tokens.Empty() || p.peek().Type != token.LPAREN {
			return nil, errors.NewParseError(tok.Pos.Offset, "expected '(' after function %s", tok.Literal)
		}
		open := p.next()
		arg, err := p.ParseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(open); err != nil {
			return nil, err
		}
		tracer().Debugf("call %s at %d", tok.Literal, tok.Pos.Offset)
		return &ast.CallExpr{Function: tok.Literal, Arg: arg, Offset: tok.Pos}, nil

	case token.LPAREN:
		inner, err := p.ParseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(tok); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Inner: inner, Offset: tok.Pos}, nil

	default:
		return nil, errors.NewParseError(tok.Pos.Offset, "unexpected %s %q", tok.Type, tok.Literal)
	}
}

// expectClose consumes the ')' matching open.
func (p *Parser) expectClose(open token.Token) error {
	if p.tokens.Empty() {
		return errors.NewParseError(open.Pos.Offset, "missing ')' for '(' at position %d", open.Pos.Offset)
	}
	tok := p.peek()
	if tok.Type != token.RPAREN {
		return errors.NewParseError(tok.Pos.Offset, "expected ')', got %s %q", tok.Type, tok.Literal)
	}
	p.next()
	return nil
}

// checkDelimiters verifies that parentheses pair up before parsing starts,
// so an unclosed '(' is reported where it was opened.
func checkDelimiters(tokens []token.Token) error {
	open := linkedliststack.New()
	for _, tok := range tokens {
		switch tok.Type {
		case token.LPAREN:
			open.Push(tok)
		case token.RPAREN:
			if _, ok := open.Pop(); !ok {
				return errors.NewParseError(tok.Pos.Offset, "unmatched ')'")
			}
		}
	}
	if top, ok := open.Peek(); ok {
		tok := top.(token.Token)
		return errors.NewParseError(tok.Pos.Offset, "missing ')' for '(' at position %d", tok.Pos.Offset)
	}
	return nil
}
