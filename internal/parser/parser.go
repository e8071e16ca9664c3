// Package parser implements the recursive-descent parser for Turbo Pascal.
//
// Statements and declarations use straight recursive descent; expressions use
// Pratt parsing with the dialect's four precedence levels. Errors are recorded
// with their position and parsing continues at the next synchronising token,
// so a single run surfaces multiple diagnostics.
package parser

import (
	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/lexer"
	"github.com/tpascal/go-tpc/pkg/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	RANGE       // ..
	RELATIONAL  // = <> < <= > >= in
	SUM         // + - or xor
	PRODUCT     // * / div mod and shl shr
	PREFIX      // -x, +x, not x, @x
	POSTFIX     // calls, indexing, field access, dereference
)

// precedences maps token types to their infix precedence levels.
var precedences = map[token.Type]int{
	token.DOTDOT:     RANGE,
	token.EQ:         RELATIONAL,
	token.NOT_EQ:     RELATIONAL,
	token.LESS:       RELATIONAL,
	token.GREATER:    RELATIONAL,
	token.LESS_EQ:    RELATIONAL,
	token.GREATER_EQ: RELATIONAL,
	token.IN:         RELATIONAL,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.OR:         SUM,
	token.XOR:        SUM,
	token.ASTERISK:   PRODUCT,
	token.SLASH:      PRODUCT,
	token.DIV:        PRODUCT,
	token.MOD:        PRODUCT,
	token.AND:        PRODUCT,
	token.SHL:        PRODUCT,
	token.SHR:        PRODUCT,
	token.LPAREN:     POSTFIX,
	token.LBRACK:     POSTFIX,
	token.DOT:        POSTFIX,
	token.CARET:      POSTFIX,
}

type prefixParseFn func() ast.Expression

type infixParseFn func(ast.Expression) ast.Expression

// Parser consumes a token stream and builds a program or unit AST.
type Parser struct {
	l              *lexer.Lexer
	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
	errors         []*Error
	curToken       token.Token
	peekToken      token.Token

	// interfaceOnly is set while parsing a unit's interface section, where
	// routine declarations are headers without bodies.
	interfaceOnly bool
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:  p.parseIdentifier,
		token.INT:    p.parseIntegerLiteral,
		token.REAL:   p.parseRealLiteral,
		token.STRING: p.parseStringLiteral,
		token.CHAR:   p.parseCharLiteral,
		token.TRUE:   p.parseBooleanLiteral,
		token.FALSE:  p.parseBooleanLiteral,
		token.NIL:    p.parseNilLiteral,
		token.LPAREN: p.parseGroupedExpression,
		token.LBRACK: p.parseSetLiteral,
		token.MINUS:  p.parseUnaryExpression,
		token.PLUS:   p.parseUnaryExpression,
		token.NOT:    p.parseUnaryExpression,
		token.AT:     p.parseAddressOf,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.DOTDOT:     p.parseRangeExpression,
		token.EQ:         p.parseBinaryExpression,
		token.NOT_EQ:     p.parseBinaryExpression,
		token.LESS:       p.parseBinaryExpression,
		token.GREATER:    p.parseBinaryExpression,
		token.LESS_EQ:    p.parseBinaryExpression,
		token.GREATER_EQ: p.parseBinaryExpression,
		token.IN:         p.parseBinaryExpression,
		token.PLUS:       p.parseBinaryExpression,
		token.MINUS:      p.parseBinaryExpression,
		token.OR:         p.parseBinaryExpression,
		token.XOR:        p.parseBinaryExpression,
		token.ASTERISK:   p.parseBinaryExpression,
		token.SLASH:      p.parseBinaryExpression,
		token.DIV:        p.parseBinaryExpression,
		token.MOD:        p.parseBinaryExpression,
		token.AND:        p.parseBinaryExpression,
		token.SHL:        p.parseBinaryExpression,
		token.SHR:        p.parseBinaryExpression,
		token.LPAREN:     p.parseCallExpression,
		token.LBRACK:     p.parseIndexExpression,
		token.DOT:        p.parseFieldAccess,
		token.CARET:      p.parseDereference,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the accumulated parse errors.
func (p *Parser) Errors() []*Error {
	return p.errors
}

// HasErrors reports whether any parse error was recorded.
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0
}

// LexerErrors returns the lexical errors accumulated during tokenization.
func (p *Parser) LexerErrors() []lexer.Error {
	return p.l.Errors()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the peek token matches, otherwise records an error
// and returns false.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(p.peekToken.Pos, "expected %s, found %s", t, describeToken(p.peekToken))
	return false
}

func (p *Parser) addError(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, NewError(pos, format, args...))
}

// synchronize skips tokens until a statement/declaration boundary so that
// parsing can continue after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.SEMICOLON:
			p.nextToken()
			return
		case token.END, token.UNTIL, token.ELSE,
			token.CONST, token.TYPE, token.VAR, token.LABEL,
			token.PROCEDURE, token.FUNCTION, token.BEGIN:
			return
		}
		p.nextToken()
	}
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func describeToken(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT, token.INT, token.REAL, token.STRING, token.CHAR:
		return "'" + tok.Literal + "'"
	}
	return "'" + tok.Type.String() + "'"
}
