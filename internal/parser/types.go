package parser

import (
	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/pkg/token"
)

// parseTypeExpression parses a type denotation. On entry curToken is the
// type's first token; on exit curToken is its last token.
func (p *Parser) parseTypeExpression() ast.TypeExpression {
	switch p.curToken.Type {
	case token.CARET:
		return p.parsePointerType()
	case token.PACKED:
		// `packed` is accepted and ignored; memory layout is the target
		// compiler's concern.
		p.nextToken()
		return p.parseTypeExpression()
	case token.ARRAY:
		return p.parseArrayType()
	case token.SET:
		return p.parseSetType()
	case token.FILE:
		return p.parseFileType()
	case token.RECORD:
		return p.parseRecordType()
	case token.STRINGTYPE:
		return p.parseStringType()
	case token.LPAREN:
		return p.parseEnumType()
	case token.IDENT:
		if p.peekTokenIs(token.DOTDOT) {
			return p.parseSubrangeType()
		}
		return &ast.TypeRef{Token: p.curToken, Name: p.curToken.Literal}
	case token.INT, token.CHAR, token.MINUS, token.PLUS:
		return p.parseSubrangeType()
	}

	p.addError(p.curToken.Pos, "expected type, found %s", describeToken(p.curToken))
	return &ast.TypeRef{Token: p.curToken, Name: p.curToken.Literal}
}

func (p *Parser) parsePointerType() ast.TypeExpression {
	node := &ast.PointerTypeNode{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return node
	}
	node.Pointee = &ast.TypeRef{Token: p.curToken, Name: p.curToken.Literal}
	return node
}

// parseArrayType parses `array [ d1, ..., dN ] of T`.
func (p *Parser) parseArrayType() ast.TypeExpression {
	node := &ast.ArrayTypeNode{Token: p.curToken}

	if !p.expectPeek(token.LBRACK) {
		p.synchronize()
		return node
	}

	p.nextToken()
	node.Dimensions = append(node.Dimensions, p.parseTypeExpression())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		node.Dimensions = append(node.Dimensions, p.parseTypeExpression())
	}

	if !p.expectPeek(token.RBRACK) {
		p.synchronize()
		return node
	}
	if !p.expectPeek(token.OF) {
		p.synchronize()
		return node
	}
	p.nextToken()
	node.ElementType = p.parseTypeExpression()
	return node
}

func (p *Parser) parseSetType() ast.TypeExpression {
	node := &ast.SetTypeNode{Token: p.curToken}
	if !p.expectPeek(token.OF) {
		p.synchronize()
		return node
	}
	p.nextToken()
	node.ElementType = p.parseTypeExpression()
	return node
}

// parseFileType parses `file` or `file of T`.
func (p *Parser) parseFileType() ast.TypeExpression {
	node := &ast.FileTypeNode{Token: p.curToken}
	if p.peekTokenIs(token.OF) {
		p.nextToken()
		p.nextToken()
		node.ElementType = p.parseTypeExpression()
	}
	return node
}

// parseStringType parses `string` or `string[N]`.
func (p *Parser) parseStringType() ast.TypeExpression {
	tok := p.curToken
	if !p.peekTokenIs(token.LBRACK) {
		return &ast.TypeRef{Token: tok, Name: "string"}
	}

	node := &ast.BoundedStringTypeNode{Token: tok}
	p.nextToken()
	p.nextToken()
	node.Size = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACK) {
		p.synchronize()
	}
	return node
}

func (p *Parser) parseEnumType() ast.TypeExpression {
	node := &ast.EnumTypeNode{Token: p.curToken}

	for {
		if !p.expectPeek(token.IDENT) {
			p.synchronize()
			return node
		}
		node.Values = append(node.Values, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		p.synchronize()
	}
	return node
}

// parseSubrangeType parses `lo..hi` in type position. The bounds are constant
// expressions (numeric, char, or enum constants).
func (p *Parser) parseSubrangeType() ast.TypeExpression {
	node := &ast.SubrangeTypeNode{Token: p.curToken}

	node.Low = p.parseExpression(RANGE)
	if !p.expectPeek(token.DOTDOT) {
		p.synchronize()
		return node
	}
	p.nextToken()
	node.High = p.parseExpression(RANGE)
	return node
}

// parseRecordType parses `record fields [variant part] end`.
func (p *Parser) parseRecordType() ast.TypeExpression {
	node := &ast.RecordTypeNode{Token: p.curToken}
	p.nextToken()

	for p.curTokenIs(token.IDENT) {
		group := p.parseFieldGroup()
		if group != nil {
			node.Fields = append(node.Fields, group)
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		p.nextToken()
	}

	if p.curTokenIs(token.CASE) {
		node.Variant = p.parseVariantPart()
	}

	if !p.curTokenIs(token.END) {
		p.addError(p.curToken.Pos, "expected 'end', found %s", describeToken(p.curToken))
		p.synchronize()
	}
	return node
}

// parseFieldGroup parses `n1, n2 : T`. On exit curToken is the type's last
// token.
func (p *Parser) parseFieldGroup() *ast.FieldGroup {
	group := &ast.FieldGroup{}
	group.Names = append(group.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			p.synchronize()
			return nil
		}
		group.Names = append(group.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(token.COLON) {
		p.synchronize()
		return nil
	}
	p.nextToken()
	group.Spec = p.parseTypeExpression()
	return group
}

// parseVariantPart parses `case [tag :] T of const-list : ( fields ) ; ...`.
// The variant part is terminated by the record's own `end`.
func (p *Parser) parseVariantPart() *ast.VariantPart {
	part := &ast.VariantPart{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		p.synchronize()
		return part
	}
	first := p.curToken

	if p.peekTokenIs(token.COLON) {
		part.TagName = &ast.Identifier{Token: first, Value: first.Literal}
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			p.synchronize()
			return part
		}
		part.TagType = &ast.TypeRef{Token: p.curToken, Name: p.curToken.Literal}
	} else {
		part.TagType = &ast.TypeRef{Token: first, Name: first.Literal}
	}

	if !p.expectPeek(token.OF) {
		p.synchronize()
		return part
	}
	p.nextToken()

	for !p.curTokenIs(token.END) && !p.curTokenIs(token.EOF) {
		branch := p.parseVariantBranch()
		if branch != nil {
			part.Branches = append(part.Branches, branch)
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		p.nextToken()
	}
	return part
}

// parseVariantBranch parses `c1, c2 : ( field groups )`. On exit curToken is
// the closing parenthesis.
func (p *Parser) parseVariantBranch() *ast.VariantBranch {
	branch := &ast.VariantBranch{}

	branch.Consts = append(branch.Consts, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		branch.Consts = append(branch.Consts, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.COLON) {
		p.synchronize()
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		p.synchronize()
		return nil
	}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return branch
	}

	p.nextToken()
	for p.curTokenIs(token.IDENT) {
		group := p.parseFieldGroup()
		if group != nil {
			branch.Fields = append(branch.Fields, group)
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(token.RPAREN) {
		p.synchronize()
	}
	return branch
}
