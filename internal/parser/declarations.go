package parser

import (
	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/pkg/token"
)

// parseDeclarations parses label/const/type/var/procedure/function blocks in
// any order until a token that cannot start a declaration. On exit curToken
// is the first non-declaration token.
func (p *Parser) parseDeclarations() []ast.Declaration {
	var decls []ast.Declaration

	for {
		switch p.curToken.Type {
		case token.LABEL:
			decls = append(decls, p.parseLabelDecl())
		case token.CONST:
			decls = append(decls, p.parseConstBlock()...)
		case token.TYPE:
			decls = append(decls, p.parseTypeBlock()...)
		case token.VAR:
			decls = append(decls, p.parseVarBlock()...)
		case token.PROCEDURE, token.FUNCTION:
			decls = append(decls, p.parseRoutineDecl())
		default:
			return decls
		}
	}
}

// parseLabelDecl parses `label N1, N2, ...;`. On exit curToken is the token
// after the terminating semicolon.
func (p *Parser) parseLabelDecl() ast.Declaration {
	decl := &ast.LabelDecl{Token: p.curToken}

	for {
		if !p.expectPeek(token.INT) {
			p.synchronize()
			return decl
		}
		decl.Labels = append(decl.Labels, p.curToken.Literal)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize()
		return decl
	}
	p.nextToken()
	return decl
}

// parseConstBlock parses `const name = expr; name = expr; ...`.
func (p *Parser) parseConstBlock() []ast.Declaration {
	blockTok := p.curToken
	var decls []ast.Declaration

	p.nextToken()
	for p.curTokenIs(token.IDENT) {
		decl := &ast.ConstDecl{
			Token: blockTok,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}

		if !p.expectPeek(token.EQ) {
			p.synchronize()
			continue
		}
		p.nextToken()
		decl.Value = p.parseExpression(LOWEST)

		if !p.expectPeek(token.SEMICOLON) {
			p.synchronize()
		} else {
			p.nextToken()
		}
		decls = append(decls, decl)
	}

	return decls
}

// parseTypeBlock parses `type name = typeExpr; ...`.
func (p *Parser) parseTypeBlock() []ast.Declaration {
	blockTok := p.curToken
	var decls []ast.Declaration

	p.nextToken()
	for p.curTokenIs(token.IDENT) {
		decl := &ast.TypeDecl{
			Token: blockTok,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}

		if !p.expectPeek(token.EQ) {
			p.synchronize()
			continue
		}
		p.nextToken()
		decl.Spec = p.parseTypeExpression()

		if !p.expectPeek(token.SEMICOLON) {
			p.synchronize()
		} else {
			p.nextToken()
		}
		decls = append(decls, decl)
	}

	return decls
}

// parseVarBlock parses `var n1, n2 : T; ...`.
func (p *Parser) parseVarBlock() []ast.Declaration {
	blockTok := p.curToken
	var decls []ast.Declaration

	p.nextToken()
	for p.curTokenIs(token.IDENT) {
		decl := &ast.VarDecl{Token: blockTok}
		decl.Names = append(decl.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				break
			}
			decl.Names = append(decl.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		}

		if !p.expectPeek(token.COLON) {
			p.synchronize()
			continue
		}
		p.nextToken()
		decl.Spec = p.parseTypeExpression()

		if !p.expectPeek(token.SEMICOLON) {
			p.synchronize()
		} else {
			p.nextToken()
		}
		decls = append(decls, decl)
	}

	return decls
}

// parseRoutineDecl parses a procedure or function declaration, including
// forward declarations and nested routines.
func (p *Parser) parseRoutineDecl() ast.Declaration {
	decl := &ast.FunctionDecl{Token: p.curToken}
	isFunction := p.curTokenIs(token.FUNCTION)

	if !p.expectPeek(token.IDENT) {
		p.synchronize()
		return decl
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		decl.Params = p.parseParamList()
	}

	if isFunction {
		if !p.expectPeek(token.COLON) {
			p.synchronize()
			return decl
		}
		p.nextToken()
		decl.ReturnType = p.parseTypeExpression()
	}

	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize()
		return decl
	}

	// Interface-section declarations are headers only; they behave like
	// forward declarations for the implementation section.
	if p.interfaceOnly {
		decl.IsForward = true
		p.nextToken()
		return decl
	}

	if p.peekTokenIs(token.FORWARD) {
		p.nextToken()
		decl.IsForward = true
		if !p.expectPeek(token.SEMICOLON) {
			p.synchronize()
			return decl
		}
		p.nextToken()
		return decl
	}

	p.nextToken()
	decl.Decls = p.parseDeclarations()

	if !p.curTokenIs(token.BEGIN) {
		p.addError(p.curToken.Pos, "expected 'begin', found %s", describeToken(p.curToken))
		p.synchronize()
		return decl
	}
	decl.Body = p.parseCompoundStatement()

	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize()
		return decl
	}
	p.nextToken()
	return decl
}

// parseParamList parses `( [var|const] n1, n2 : T ; ... )`. On exit curToken
// is the closing parenthesis.
func (p *Parser) parseParamList() []*ast.ParamGroup {
	var groups []*ast.ParamGroup

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return groups
	}

	for {
		group := &ast.ParamGroup{}

		switch p.peekToken.Type {
		case token.VAR:
			group.Mode = ast.VarParam
			p.nextToken()
		case token.CONST:
			group.Mode = ast.ConstParam
			p.nextToken()
		}

		if !p.expectPeek(token.IDENT) {
			p.synchronize()
			return groups
		}
		group.Names = append(group.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				p.synchronize()
				return groups
			}
			group.Names = append(group.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		}

		if !p.expectPeek(token.COLON) {
			p.synchronize()
			return groups
		}
		p.nextToken()
		group.Spec = p.parseTypeExpression()
		groups = append(groups, group)

		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(token.RPAREN) {
		p.synchronize()
	}
	return groups
}

// parseUsesClause parses `uses A, B, C;`. On exit curToken is the token after
// the semicolon.
func (p *Parser) parseUsesClause() *ast.UsesClause {
	clause := &ast.UsesClause{Token: p.curToken}

	for {
		if !p.expectPeek(token.IDENT) {
			p.synchronize()
			return clause
		}
		clause.Units = append(clause.Units, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize()
		return clause
	}
	p.nextToken()
	return clause
}
