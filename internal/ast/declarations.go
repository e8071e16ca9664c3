package ast

import (
	"bytes"
	"strings"

	"github.com/tpascal/go-tpc/internal/types"
	"github.com/tpascal/go-tpc/pkg/token"
)

// ConstDecl represents one `name = value` entry of a const block.
type ConstDecl struct {
	Name  *Identifier
	Value Expression
	Token token.Token
}

func (cd *ConstDecl) declarationNode()     {}
func (cd *ConstDecl) TokenLiteral() string { return cd.Token.Literal }
func (cd *ConstDecl) String() string       { return "const " + cd.Name.String() + " = " + cd.Value.String() + ";" }
func (cd *ConstDecl) Pos() token.Position  { return cd.Token.Pos }

// TypeDecl represents one `name = type-expression` entry of a type block.
// Resolved carries the structured descriptor built by the analyser.
type TypeDecl struct {
	Name     *Identifier
	Spec     TypeExpression
	Resolved types.Type
	Token    token.Token
}

func (td *TypeDecl) declarationNode()     {}
func (td *TypeDecl) TokenLiteral() string { return td.Token.Literal }
func (td *TypeDecl) String() string       { return "type " + td.Name.String() + " = " + td.Spec.String() + ";" }
func (td *TypeDecl) Pos() token.Position  { return td.Token.Pos }

// VarDecl represents one `n1, n2 : T` entry of a var block.
// Resolved carries the structured descriptor built by the analyser.
type VarDecl struct {
	Spec     TypeExpression
	Resolved types.Type
	Token    token.Token
	Names    []*Identifier
}

func (vd *VarDecl) declarationNode()     {}
func (vd *VarDecl) TokenLiteral() string { return vd.Token.Literal }
func (vd *VarDecl) Pos() token.Position  { return vd.Token.Pos }

func (vd *VarDecl) String() string {
	names := make([]string, len(vd.Names))
	for i, n := range vd.Names {
		names[i] = n.String()
	}
	return "var " + strings.Join(names, ", ") + ": " + vd.Spec.String() + ";"
}

// LabelDecl represents a `label N1, N2;` declaration.
type LabelDecl struct {
	Token  token.Token
	Labels []string
}

func (ld *LabelDecl) declarationNode()     {}
func (ld *LabelDecl) TokenLiteral() string { return ld.Token.Literal }
func (ld *LabelDecl) String() string       { return "label " + strings.Join(ld.Labels, ", ") + ";" }
func (ld *LabelDecl) Pos() token.Position  { return ld.Token.Pos }

// ParamMode selects how a parameter is passed.
type ParamMode int

const (
	// ValueParam is the default copy-in mode.
	ValueParam ParamMode = iota
	// VarParam passes by reference.
	VarParam
	// ConstParam passes read-only; the emitter uses a const reference.
	ConstParam
)

func (m ParamMode) String() string {
	switch m {
	case VarParam:
		return "var "
	case ConstParam:
		return "const "
	}
	return ""
}

// ParamGroup is one `[var|const] n1, n2 : T` group of a parameter list.
// Resolved carries the structured descriptor built by the analyser.
type ParamGroup struct {
	Spec     TypeExpression
	Resolved types.Type
	Names    []*Identifier
	Mode     ParamMode
}

func (pg *ParamGroup) String() string {
	names := make([]string, len(pg.Names))
	for i, n := range pg.Names {
		names[i] = n.String()
	}
	return pg.Mode.String() + strings.Join(names, ", ") + ": " + pg.Spec.String()
}

// FunctionDecl represents a procedure or function declaration. ReturnType is
// nil for procedures. A forward declaration has IsForward set and no body;
// the defining occurrence that follows repeats the header.
type FunctionDecl struct {
	Name           *Identifier
	ReturnType     TypeExpression
	ResolvedReturn types.Type // set by the analyser; nil for procedures
	Body           *CompoundStatement
	Token          token.Token // the 'procedure' or 'function' token
	Params         []*ParamGroup
	Decls          []Declaration
	IsForward      bool
}

func (fd *FunctionDecl) declarationNode()     {}
func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDecl) Pos() token.Position  { return fd.Token.Pos }

// IsProcedure reports whether this routine has no return type.
func (fd *FunctionDecl) IsProcedure() bool { return fd.ReturnType == nil }

func (fd *FunctionDecl) String() string {
	var out bytes.Buffer
	if fd.IsProcedure() {
		out.WriteString("procedure ")
	} else {
		out.WriteString("function ")
	}
	out.WriteString(fd.Name.String())
	if len(fd.Params) > 0 {
		params := make([]string, len(fd.Params))
		for i, p := range fd.Params {
			params[i] = p.String()
		}
		out.WriteString("(" + strings.Join(params, "; ") + ")")
	}
	if fd.ReturnType != nil {
		out.WriteString(": " + fd.ReturnType.String())
	}
	out.WriteString(";")
	if fd.IsForward {
		out.WriteString(" forward;")
		return out.String()
	}
	out.WriteString("\n")
	for _, d := range fd.Decls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	if fd.Body != nil {
		out.WriteString(fd.Body.String())
		out.WriteString(";")
	}
	return out.String()
}
