package ast

import (
	"bytes"
	"strings"

	"github.com/tpascal/go-tpc/pkg/token"
)

// TypeRef is a reference to a built-in or user type by name.
type TypeRef struct {
	Name  string
	Token token.Token
}

func (tr *TypeRef) typeExpressionNode() {}
func (tr *TypeRef) TokenLiteral() string { return tr.Token.Literal }
func (tr *TypeRef) String() string       { return tr.Name }
func (tr *TypeRef) Pos() token.Position  { return tr.Token.Pos }

// PointerTypeNode represents ^T.
type PointerTypeNode struct {
	Pointee *TypeRef
	Token   token.Token // the '^' token
}

func (pt *PointerTypeNode) typeExpressionNode() {}
func (pt *PointerTypeNode) TokenLiteral() string { return pt.Token.Literal }
func (pt *PointerTypeNode) String() string       { return "^" + pt.Pointee.String() }
func (pt *PointerTypeNode) Pos() token.Position  { return pt.Token.Pos }

// ArrayTypeNode represents array[d1, ..., dN] of T. Each dimension is a
// subrange (numeric or char) or a type reference naming an ordinal domain.
type ArrayTypeNode struct {
	ElementType TypeExpression
	Token       token.Token
	Dimensions  []TypeExpression
}

func (at *ArrayTypeNode) typeExpressionNode() {}
func (at *ArrayTypeNode) TokenLiteral() string { return at.Token.Literal }
func (at *ArrayTypeNode) Pos() token.Position  { return at.Token.Pos }

func (at *ArrayTypeNode) String() string {
	dims := make([]string, len(at.Dimensions))
	for i, d := range at.Dimensions {
		dims[i] = d.String()
	}
	return "array[" + strings.Join(dims, ", ") + "] of " + at.ElementType.String()
}

// SetTypeNode represents set of T.
type SetTypeNode struct {
	ElementType TypeExpression
	Token       token.Token
}

func (st *SetTypeNode) typeExpressionNode() {}
func (st *SetTypeNode) TokenLiteral() string { return st.Token.Literal }
func (st *SetTypeNode) String() string       { return "set of " + st.ElementType.String() }
func (st *SetTypeNode) Pos() token.Position  { return st.Token.Pos }

// FileTypeNode represents `file of T`. Bare `text` parses as a TypeRef.
type FileTypeNode struct {
	ElementType TypeExpression
	Token       token.Token
}

func (ft *FileTypeNode) typeExpressionNode() {}
func (ft *FileTypeNode) TokenLiteral() string { return ft.Token.Literal }
func (ft *FileTypeNode) String() string       { return "file of " + ft.ElementType.String() }
func (ft *FileTypeNode) Pos() token.Position  { return ft.Token.Pos }

// FieldGroup is one `n1, n2 : T` group of a record's field list.
type FieldGroup struct {
	Spec  TypeExpression
	Names []*Identifier
}

func (fg *FieldGroup) String() string {
	names := make([]string, len(fg.Names))
	for i, n := range fg.Names {
		names[i] = n.String()
	}
	return strings.Join(names, ", ") + ": " + fg.Spec.String()
}

// VariantBranch is one `const-list: (fields)` arm of a variant part.
type VariantBranch struct {
	Consts []Expression
	Fields []*FieldGroup
}

func (vb *VariantBranch) String() string {
	consts := make([]string, len(vb.Consts))
	for i, c := range vb.Consts {
		consts[i] = c.String()
	}
	fields := make([]string, len(vb.Fields))
	for i, f := range vb.Fields {
		fields[i] = f.String()
	}
	return strings.Join(consts, ", ") + ": (" + strings.Join(fields, "; ") + ")"
}

// VariantPart represents `case [tag :] T of branches` inside a record.
// TagName is nil for the tagless form. All variant fields are accessible at
// all times; the tag never gates access.
type VariantPart struct {
	TagName  *Identifier
	TagType  *TypeRef
	Token    token.Token
	Branches []*VariantBranch
}

func (vp *VariantPart) String() string {
	var out bytes.Buffer
	out.WriteString("case ")
	if vp.TagName != nil {
		out.WriteString(vp.TagName.String())
		out.WriteString(": ")
	}
	out.WriteString(vp.TagType.String())
	out.WriteString(" of ")
	branches := make([]string, len(vp.Branches))
	for i, b := range vp.Branches {
		branches[i] = b.String()
	}
	out.WriteString(strings.Join(branches, "; "))
	return out.String()
}

// RecordTypeNode represents record fieldList [variant part] end.
type RecordTypeNode struct {
	Variant *VariantPart
	Token   token.Token
	Fields  []*FieldGroup
}

func (rt *RecordTypeNode) typeExpressionNode() {}
func (rt *RecordTypeNode) TokenLiteral() string { return rt.Token.Literal }
func (rt *RecordTypeNode) Pos() token.Position  { return rt.Token.Pos }

func (rt *RecordTypeNode) String() string {
	var out bytes.Buffer
	out.WriteString("record ")
	for _, f := range rt.Fields {
		out.WriteString(f.String())
		out.WriteString("; ")
	}
	if rt.Variant != nil {
		out.WriteString(rt.Variant.String())
		out.WriteString(" ")
	}
	out.WriteString("end")
	return out.String()
}

// EnumTypeNode represents (V0, V1, ..., Vk).
type EnumTypeNode struct {
	Token  token.Token
	Values []*Identifier
}

func (et *EnumTypeNode) typeExpressionNode() {}
func (et *EnumTypeNode) TokenLiteral() string { return et.Token.Literal }
func (et *EnumTypeNode) Pos() token.Position  { return et.Token.Pos }

func (et *EnumTypeNode) String() string {
	values := make([]string, len(et.Values))
	for i, v := range et.Values {
		values[i] = v.String()
	}
	return "(" + strings.Join(values, ", ") + ")"
}

// SubrangeTypeNode represents lo..hi in type position.
type SubrangeTypeNode struct {
	Low   Expression
	High  Expression
	Token token.Token
}

func (st *SubrangeTypeNode) typeExpressionNode() {}
func (st *SubrangeTypeNode) TokenLiteral() string { return st.Token.Literal }
func (st *SubrangeTypeNode) String() string       { return st.Low.String() + ".." + st.High.String() }
func (st *SubrangeTypeNode) Pos() token.Position  { return st.Token.Pos }

// BoundedStringTypeNode represents string[N].
type BoundedStringTypeNode struct {
	Size  Expression
	Token token.Token
}

func (bt *BoundedStringTypeNode) typeExpressionNode() {}
func (bt *BoundedStringTypeNode) TokenLiteral() string { return bt.Token.Literal }
func (bt *BoundedStringTypeNode) String() string       { return "string[" + bt.Size.String() + "]" }
func (bt *BoundedStringTypeNode) Pos() token.Position  { return bt.Token.Pos }
