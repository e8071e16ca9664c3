package parser

import (
	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/pkg/token"
)

// ParseProgram parses a complete `program` source file.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Token: p.curToken}

	if !p.curTokenIs(token.PROGRAM) {
		p.addError(p.curToken.Pos, "expected 'program', found %s", describeToken(p.curToken))
	} else {
		if !p.expectPeek(token.IDENT) {
			p.synchronize()
		} else {
			prog.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			// Legacy `program Name(input, output);` headers carry a parameter
			// list that modern targets ignore.
			if p.peekTokenIs(token.LPAREN) {
				p.nextToken()
				for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
					p.nextToken()
				}
			}
			if !p.expectPeek(token.SEMICOLON) {
				p.synchronize()
			} else {
				p.nextToken()
			}
		}
	}

	if p.curTokenIs(token.USES) {
		prog.Uses = p.parseUsesClause()
	}

	prog.Decls = p.parseDeclarations()

	if !p.curTokenIs(token.BEGIN) {
		p.addError(p.curToken.Pos, "expected 'begin', found %s", describeToken(p.curToken))
		return prog
	}
	prog.Body = p.parseCompoundStatement()

	if !p.expectPeek(token.DOT) {
		p.synchronize()
	}
	return prog
}

// ParseUnit parses a complete `unit` source file.
func (p *Parser) ParseUnit() *ast.Unit {
	unit := &ast.Unit{Token: p.curToken}

	if !p.curTokenIs(token.UNIT) {
		p.addError(p.curToken.Pos, "expected 'unit', found %s", describeToken(p.curToken))
		return unit
	}
	if !p.expectPeek(token.IDENT) {
		p.synchronize()
		return unit
	}
	unit.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize()
	} else {
		p.nextToken()
	}

	if !p.curTokenIs(token.INTERFACE) {
		p.addError(p.curToken.Pos, "expected 'interface', found %s", describeToken(p.curToken))
	} else {
		p.nextToken()
	}

	if p.curTokenIs(token.USES) {
		unit.InterfaceUses = p.parseUsesClause()
	}
	p.interfaceOnly = true
	unit.InterfaceDecls = p.parseDeclarations()
	p.interfaceOnly = false

	if !p.curTokenIs(token.IMPLEMENTATION) {
		p.addError(p.curToken.Pos, "expected 'implementation', found %s", describeToken(p.curToken))
	} else {
		p.nextToken()
	}

	unit.ImplDecls = p.parseDeclarations()

	// Optional initialization: `initialization stmts end.` or `begin ... end.`
	switch p.curToken.Type {
	case token.INITIALIZATION:
		p.nextToken()
		init := &ast.CompoundStatement{Token: p.curToken}
		init.Statements = p.parseStatementList(token.END)
		unit.Init = init
	case token.BEGIN:
		unit.Init = p.parseCompoundStatement()
	}

	if !p.curTokenIs(token.END) {
		p.addError(p.curToken.Pos, "expected 'end', found %s", describeToken(p.curToken))
		return unit
	}
	if !p.expectPeek(token.DOT) {
		p.synchronize()
	}
	return unit
}
