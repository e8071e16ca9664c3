package parser

import (
	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/pkg/token"
)

// parseStatement parses one statement. On entry curToken is the statement's
// first token; on exit curToken is its last token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.BEGIN:
		return p.parseCompoundStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.REPEAT:
		return p.parseRepeatStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.CASE:
		return p.parseCaseStatement()
	case token.WITH:
		return p.parseWithStatement()
	case token.GOTO:
		return p.parseGotoStatement()
	case token.BREAK:
		return &ast.BreakStatement{Token: p.curToken}
	case token.CONTINUE:
		return &ast.ContinueStatement{Token: p.curToken}
	case token.INT:
		if p.peekTokenIs(token.COLON) {
			return p.parseLabeledStatement()
		}
	case token.SEMICOLON, token.END, token.UNTIL, token.ELSE:
		return &ast.EmptyStatement{Token: p.curToken}
	}
	return p.parseSimpleStatement()
}

// parseSimpleStatement parses an assignment or a procedure call.
func (p *Parser) parseSimpleStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		p.synchronize()
		return &ast.EmptyStatement{Token: tok}
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		stmt := &ast.AssignmentStatement{Token: p.curToken, Target: expr}
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		return stmt
	}

	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// parseStatementList parses statements separated by semicolons until one of
// the terminator tokens appears as the current token.
func (p *Parser) parseStatementList(terminators ...token.Type) []ast.Statement {
	isTerminator := func(t token.Type) bool {
		for _, term := range terminators {
			if t == term {
				return true
			}
		}
		return t == token.EOF
	}

	var stmts []ast.Statement
	for !isTerminator(p.curToken.Type) {
		stmt := p.parseStatement()
		if _, empty := stmt.(*ast.EmptyStatement); !empty {
			stmts = append(stmts, stmt)
		}

		if isTerminator(p.curToken.Type) {
			break
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			continue
		}
		if isTerminator(p.peekToken.Type) {
			p.nextToken()
			continue
		}
		p.addError(p.peekToken.Pos, "expected ';', found %s", describeToken(p.peekToken))
		p.nextToken()
		p.synchronize()
	}
	return stmts
}

func (p *Parser) parseCompoundStatement() *ast.CompoundStatement {
	stmt := &ast.CompoundStatement{Token: p.curToken}
	p.nextToken()
	stmt.Statements = p.parseStatementList(token.END)
	if !p.curTokenIs(token.END) {
		p.addError(p.curToken.Pos, "expected 'end', found %s", describeToken(p.curToken))
	}
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	if !p.expectPeek(token.THEN) {
		p.synchronize()
		return stmt
	}
	p.nextToken()
	stmt.Then = p.parseStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Else = p.parseStatement()
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	if !p.expectPeek(token.DO) {
		p.synchronize()
		return stmt
	}
	p.nextToken()
	stmt.Body = p.parseStatement()

	return stmt
}

func (p *Parser) parseRepeatStatement() ast.Statement {
	stmt := &ast.RepeatStatement{Token: p.curToken}

	p.nextToken()
	stmt.Statements = p.parseStatementList(token.UNTIL)

	if !p.curTokenIs(token.UNTIL) {
		p.addError(p.curToken.Pos, "expected 'until', found %s", describeToken(p.curToken))
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		p.synchronize()
		return stmt
	}
	stmt.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.ASSIGN) {
		p.synchronize()
		return stmt
	}
	p.nextToken()
	stmt.Start = p.parseExpression(LOWEST)

	switch p.peekToken.Type {
	case token.TO:
		p.nextToken()
	case token.DOWNTO:
		stmt.Down = true
		p.nextToken()
	default:
		p.addError(p.peekToken.Pos, "expected 'to' or 'downto', found %s", describeToken(p.peekToken))
		p.synchronize()
		return stmt
	}

	p.nextToken()
	stmt.Limit = p.parseExpression(LOWEST)

	if !p.expectPeek(token.DO) {
		p.synchronize()
		return stmt
	}
	p.nextToken()
	stmt.Body = p.parseStatement()

	return stmt
}

func (p *Parser) parseCaseStatement() ast.Statement {
	stmt := &ast.CaseStatement{Token: p.curToken}

	p.nextToken()
	stmt.Expr = p.parseExpression(LOWEST)

	if !p.expectPeek(token.OF) {
		p.synchronize()
		return stmt
	}
	p.nextToken()

	for !p.curTokenIs(token.END) && !p.curTokenIs(token.ELSE) && !p.curTokenIs(token.EOF) {
		branch := p.parseCaseBranch()
		if branch != nil {
			stmt.Branches = append(stmt.Branches, branch)
		}
		// An empty branch body leaves the terminator as the current token.
		if p.curTokenIs(token.END) || p.curTokenIs(token.ELSE) {
			break
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		p.nextToken()
	}

	if p.curTokenIs(token.ELSE) {
		p.nextToken()
		stmt.Else = p.parseStatement()
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		if !p.expectPeek(token.END) {
			p.synchronize()
		}
		return stmt
	}

	if !p.curTokenIs(token.END) {
		p.addError(p.curToken.Pos, "expected 'end', found %s", describeToken(p.curToken))
	}
	return stmt
}

// parseCaseBranch parses `v1, v2, lo..hi : statement`.
func (p *Parser) parseCaseBranch() *ast.CaseBranch {
	branch := &ast.CaseBranch{}

	branch.Values = append(branch.Values, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		branch.Values = append(branch.Values, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.COLON) {
		p.synchronize()
		return nil
	}
	p.nextToken()
	branch.Body = p.parseStatement()

	return branch
}

func (p *Parser) parseWithStatement() ast.Statement {
	stmt := &ast.WithStatement{Token: p.curToken}

	p.nextToken()
	stmt.Targets = append(stmt.Targets, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		stmt.Targets = append(stmt.Targets, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.DO) {
		p.synchronize()
		return stmt
	}
	p.nextToken()
	stmt.Body = p.parseStatement()

	return stmt
}

func (p *Parser) parseGotoStatement() ast.Statement {
	stmt := &ast.GotoStatement{Token: p.curToken}
	if !p.expectPeek(token.INT) {
		p.synchronize()
		return stmt
	}
	stmt.Label = p.curToken.Literal
	return stmt
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	stmt := &ast.LabeledStatement{Token: p.curToken, Label: p.curToken.Literal}
	p.nextToken() // ':'
	p.nextToken()
	stmt.Stmt = p.parseStatement()
	return stmt
}
