package parser

import (
	"strconv"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/pkg/token"
)

// parseExpression parses an expression with the given minimum precedence.
// On entry curToken is the first token of the expression; on exit curToken is
// its last token.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError(p.curToken.Pos, "unexpected %s in expression", describeToken(p.curToken))
		return nil
	}
	left := prefix()

	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	text := p.curToken.Literal
	var value int64
	var err error
	if len(text) > 0 && text[0] == '$' {
		value, err = strconv.ParseInt(text[1:], 16, 64)
	} else {
		value, err = strconv.ParseInt(text, 10, 64)
	}
	if err != nil {
		p.addError(p.curToken.Pos, "could not parse %q as integer", text)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseRealLiteral() ast.Expression {
	lit := &ast.RealLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(p.curToken.Pos, "could not parse %q as real", p.curToken.Literal)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parseCharLiteral handles both quoted single characters and #N spellings;
// the lexer keeps the #N form in the token literal.
func (p *Parser) parseCharLiteral() ast.Expression {
	lit := &ast.CharLiteral{Token: p.curToken}
	text := p.curToken.Literal
	if len(text) > 1 && text[0] == '#' {
		code, err := strconv.Atoi(text[1:])
		if err != nil || code < 0 || code > 255 {
			p.addError(p.curToken.Pos, "character code %s out of range", text)
			return nil
		}
		lit.Value = byte(code)
	} else if len(text) > 0 {
		lit.Value = text[0]
	}
	return lit
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	expr := &ast.UnaryExpression{Token: p.curToken, Operator: p.curToken.Type}
	p.nextToken()
	expr.Operand = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseAddressOf() ast.Expression {
	expr := &ast.AddressOfExpression{Token: p.curToken}
	p.nextToken()
	expr.Operand = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Type,
		Left:     left,
	}
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	expr := &ast.RangeExpression{Token: p.curToken, Low: left}
	p.nextToken()
	expr.High = p.parseExpression(RANGE)
	return expr
}

// parseCallExpression parses f(args). Arguments may carry :width:precision
// formatting, which only write, writeln and str honour; the analyser
// validates that.
func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: fn}
	call.Arguments = p.parseCallArguments()
	return call
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	args = append(args, p.parseCallArgument())

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseCallArgument())
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return args
}

// parseCallArgument parses one argument, including the e:w[:p] formatted form.
func (p *Parser) parseCallArgument() ast.Expression {
	expr := p.parseExpression(LOWEST)
	if !p.peekTokenIs(token.COLON) {
		return expr
	}

	formatted := &ast.FormattedExpression{Token: p.peekToken, Expr: expr}
	p.nextToken() // ':'
	p.nextToken()
	formatted.Width = p.parseExpression(LOWEST)

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		formatted.Precision = p.parseExpression(LOWEST)
	}

	return formatted
}

func (p *Parser) parseIndexExpression(arr ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Array: arr}

	p.nextToken()
	expr.Indices = append(expr.Indices, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr.Indices = append(expr.Indices, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RBRACK) {
		return nil
	}
	return expr
}

func (p *Parser) parseFieldAccess(record ast.Expression) ast.Expression {
	expr := &ast.FieldAccessExpression{Token: p.curToken, Record: record}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.Field = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return expr
}

func (p *Parser) parseDereference(operand ast.Expression) ast.Expression {
	return &ast.DereferenceExpression{Token: p.curToken, Operand: operand}
}

func (p *Parser) parseSetLiteral() ast.Expression {
	lit := &ast.SetLiteral{Token: p.curToken}

	if p.peekTokenIs(token.RBRACK) {
		p.nextToken()
		return lit
	}

	p.nextToken()
	lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RBRACK) {
		return nil
	}
	return lit
}
