// Package ast defines the Abstract Syntax Tree node types for Turbo Pascal.
package ast

import (
	"bytes"
	"strings"

	"github.com/tpascal/go-tpc/internal/types"
	"github.com/tpascal/go-tpc/pkg/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal of the token this node starts at.
	TokenLiteral() string

	// String returns a canonical source form for debugging and testing.
	String() string

	// Pos returns the node's position for error reporting.
	Pos() token.Position
}

// Expression represents any node that produces a value.
type Expression interface {
	Node
	expressionNode()

	// GetType returns the type resolved by the semantic analyser,
	// or types.UNKNOWN before analysis.
	GetType() types.Type

	// SetType records the resolved type on the node.
	SetType(types.Type)
}

// Statement represents a node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Declaration represents a const, type, var, label, routine or uses entry.
type Declaration interface {
	Node
	declarationNode()
}

// TypeExpression represents a type denotation in source
// (a name, ^T, array [...] of T, set of T, record ... end, and so on).
type TypeExpression interface {
	Node
	typeExpressionNode()
}

// typed carries the analyser's resolved type. It is embedded in every
// expression node.
type typed struct {
	typ types.Type
}

func (t *typed) GetType() types.Type {
	if t.typ == nil {
		return types.UNKNOWN
	}
	return t.typ
}

func (t *typed) SetType(typ types.Type) { t.typ = typ }

// Program is the root node for a `program` source file.
type Program struct {
	Name  *Identifier
	Uses  *UsesClause
	Body  *CompoundStatement
	Token token.Token // the 'program' token
	Decls []Declaration
}

func (p *Program) TokenLiteral() string { return p.Token.Literal }
func (p *Program) Pos() token.Position  { return p.Token.Pos }

func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString("program ")
	out.WriteString(p.Name.String())
	out.WriteString(";\n")
	if p.Uses != nil {
		out.WriteString(p.Uses.String())
		out.WriteString("\n")
	}
	for _, d := range p.Decls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	out.WriteString(p.Body.String())
	out.WriteString(".")
	return out.String()
}

// Unit is the root node for a `unit` source file.
type Unit struct {
	Name           *Identifier
	InterfaceUses  *UsesClause
	Init           *CompoundStatement
	Token          token.Token // the 'unit' token
	InterfaceDecls []Declaration
	ImplDecls      []Declaration
}

func (u *Unit) TokenLiteral() string { return u.Token.Literal }
func (u *Unit) Pos() token.Position  { return u.Token.Pos }

func (u *Unit) String() string {
	var out bytes.Buffer
	out.WriteString("unit ")
	out.WriteString(u.Name.String())
	out.WriteString(";\ninterface\n")
	if u.InterfaceUses != nil {
		out.WriteString(u.InterfaceUses.String())
		out.WriteString("\n")
	}
	for _, d := range u.InterfaceDecls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	out.WriteString("implementation\n")
	for _, d := range u.ImplDecls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	if u.Init != nil {
		out.WriteString(u.Init.String())
	}
	out.WriteString("end.")
	return out.String()
}

// UsesClause lists the units imported by a program or unit.
type UsesClause struct {
	Token token.Token // the 'uses' token
	Units []*Identifier
}

func (uc *UsesClause) declarationNode()     {}
func (uc *UsesClause) TokenLiteral() string { return uc.Token.Literal }
func (uc *UsesClause) Pos() token.Position  { return uc.Token.Pos }

func (uc *UsesClause) String() string {
	names := make([]string, len(uc.Units))
	for i, u := range uc.Units {
		names[i] = u.String()
	}
	return "uses " + strings.Join(names, ", ") + ";"
}
