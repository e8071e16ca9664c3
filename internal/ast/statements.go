package ast

import (
	"bytes"
	"strings"

	"github.com/tpascal/go-tpc/pkg/token"
)

// AssignmentStatement represents target := value.
type AssignmentStatement struct {
	Target Expression
	Value  Expression
	Token  token.Token // the ':=' token
}

func (as *AssignmentStatement) statementNode()       {}
func (as *AssignmentStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignmentStatement) Pos() token.Position  { return as.Token.Pos }

func (as *AssignmentStatement) String() string {
	return as.Target.String() + " := " + as.Value.String()
}

// CompoundStatement represents begin ... end.
type CompoundStatement struct {
	Token      token.Token // the 'begin' token
	Statements []Statement
}

func (cs *CompoundStatement) statementNode()       {}
func (cs *CompoundStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *CompoundStatement) Pos() token.Position  { return cs.Token.Pos }

func (cs *CompoundStatement) String() string {
	var out bytes.Buffer
	out.WriteString("begin\n")
	for _, s := range cs.Statements {
		out.WriteString(s.String())
		out.WriteString(";\n")
	}
	out.WriteString("end")
	return out.String()
}

// IfStatement represents if C then S [else S2].
type IfStatement struct {
	Condition Expression
	Then      Statement
	Else      Statement // nil when absent
	Token     token.Token
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() token.Position  { return is.Token.Pos }

func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(is.Condition.String())
	out.WriteString(" then ")
	out.WriteString(is.Then.String())
	if is.Else != nil {
		out.WriteString(" else ")
		out.WriteString(is.Else.String())
	}
	return out.String()
}

// WhileStatement represents while C do S.
type WhileStatement struct {
	Condition Expression
	Body      Statement
	Token     token.Token
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() token.Position  { return ws.Token.Pos }

func (ws *WhileStatement) String() string {
	return "while " + ws.Condition.String() + " do " + ws.Body.String()
}

// RepeatStatement represents repeat S* until C.
type RepeatStatement struct {
	Condition  Expression
	Token      token.Token
	Statements []Statement
}

func (rs *RepeatStatement) statementNode()       {}
func (rs *RepeatStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *RepeatStatement) Pos() token.Position  { return rs.Token.Pos }

func (rs *RepeatStatement) String() string {
	var out bytes.Buffer
	out.WriteString("repeat\n")
	for _, s := range rs.Statements {
		out.WriteString(s.String())
		out.WriteString(";\n")
	}
	out.WriteString("until ")
	out.WriteString(rs.Condition.String())
	return out.String()
}

// ForStatement represents for v := a to|downto b do S.
type ForStatement struct {
	Variable *Identifier
	Start    Expression
	Limit    Expression
	Body     Statement
	Token    token.Token
	Down     bool
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) Pos() token.Position  { return fs.Token.Pos }

func (fs *ForStatement) String() string {
	dir := " to "
	if fs.Down {
		dir = " downto "
	}
	return "for " + fs.Variable.String() + " := " + fs.Start.String() + dir +
		fs.Limit.String() + " do " + fs.Body.String()
}

// CaseBranch is one arm of a case statement. Values may contain literals and
// ranges.
type CaseBranch struct {
	Body   Statement
	Values []Expression
}

func (cb *CaseBranch) String() string {
	vals := make([]string, len(cb.Values))
	for i, v := range cb.Values {
		vals[i] = v.String()
	}
	return strings.Join(vals, ", ") + ": " + cb.Body.String()
}

// CaseStatement represents case e of ... [else S] end.
type CaseStatement struct {
	Expr     Expression
	Else     Statement // nil when absent
	Token    token.Token
	Branches []*CaseBranch
}

func (cs *CaseStatement) statementNode()       {}
func (cs *CaseStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *CaseStatement) Pos() token.Position  { return cs.Token.Pos }

func (cs *CaseStatement) String() string {
	var out bytes.Buffer
	out.WriteString("case ")
	out.WriteString(cs.Expr.String())
	out.WriteString(" of\n")
	for _, b := range cs.Branches {
		out.WriteString(b.String())
		out.WriteString(";\n")
	}
	if cs.Else != nil {
		out.WriteString("else ")
		out.WriteString(cs.Else.String())
		out.WriteString(";\n")
	}
	out.WriteString("end")
	return out.String()
}

// WithStatement represents with e1, e2, ... do S.
type WithStatement struct {
	Body    Statement
	Token   token.Token
	Targets []Expression
}

func (ws *WithStatement) statementNode()       {}
func (ws *WithStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WithStatement) Pos() token.Position  { return ws.Token.Pos }

func (ws *WithStatement) String() string {
	targets := make([]string, len(ws.Targets))
	for i, t := range ws.Targets {
		targets[i] = t.String()
	}
	return "with " + strings.Join(targets, ", ") + " do " + ws.Body.String()
}

// LabeledStatement represents `N: S` where N is a declared decimal label.
type LabeledStatement struct {
	Stmt  Statement
	Label string
	Token token.Token
}

func (ls *LabeledStatement) statementNode()       {}
func (ls *LabeledStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LabeledStatement) String() string       { return ls.Label + ": " + ls.Stmt.String() }
func (ls *LabeledStatement) Pos() token.Position  { return ls.Token.Pos }

// GotoStatement represents goto N.
type GotoStatement struct {
	Label string
	Token token.Token
}

func (gs *GotoStatement) statementNode()       {}
func (gs *GotoStatement) TokenLiteral() string { return gs.Token.Literal }
func (gs *GotoStatement) String() string       { return "goto " + gs.Label }
func (gs *GotoStatement) Pos() token.Position  { return gs.Token.Pos }

// BreakStatement exits the innermost loop.
type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) String() string       { return "break" }
func (bs *BreakStatement) Pos() token.Position  { return bs.Token.Pos }

// ContinueStatement advances the innermost loop.
type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) String() string       { return "continue" }
func (cs *ContinueStatement) Pos() token.Position  { return cs.Token.Pos }

// ExpressionStatement wraps a call (or bare procedure identifier) used in
// statement position.
type ExpressionStatement struct {
	Expression Expression
	Token      token.Token
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string       { return es.Expression.String() }
func (es *ExpressionStatement) Pos() token.Position  { return es.Token.Pos }

// EmptyStatement represents the empty statement between stray semicolons.
type EmptyStatement struct {
	Token token.Token
}

func (es *EmptyStatement) statementNode()       {}
func (es *EmptyStatement) TokenLiteral() string { return es.Token.Literal }
func (es *EmptyStatement) String() string       { return "" }
func (es *EmptyStatement) Pos() token.Position  { return es.Token.Pos }
