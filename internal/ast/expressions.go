package ast

import (
	"bytes"
	"strings"

	"github.com/tpascal/go-tpc/pkg/token"
)

// Identifier represents a name use: a variable, constant, field, routine or
// type reference.
//
// WithTarget is filled by the semantic analyser when a bare identifier inside
// a `with` block resolves to a field of one of the with targets; the emitter
// then prefixes the access with that target's lvalue.
type Identifier struct {
	typed
	WithTarget Expression
	Value      string
	Token      token.Token
	WithIndex  int // index into the emitter's with-alias stack; valid when WithTarget != nil

	// AutoCall is set by the analyser when this identifier stands alone in
	// statement position and names a parameterless routine; the emitter then
	// appends the call parentheses.
	AutoCall bool

	// BuiltinCall marks a bare niladic built-in function reference
	// (readkey, paramcount, ...); the emitter expands it inline.
	BuiltinCall bool

	// IsCRTColor marks a CRT colour constant that resolved through the
	// predeclared fallback rather than a user symbol.
	IsCRTColor bool
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }

// IntegerLiteral represents an integer literal, including $-hex spellings.
type IntegerLiteral struct {
	typed
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }
func (il *IntegerLiteral) Pos() token.Position  { return il.Token.Pos }

// RealLiteral represents a floating-point literal.
type RealLiteral struct {
	typed
	Token token.Token
	Value float64
}

func (rl *RealLiteral) expressionNode()      {}
func (rl *RealLiteral) TokenLiteral() string { return rl.Token.Literal }
func (rl *RealLiteral) String() string       { return rl.Token.Literal }
func (rl *RealLiteral) Pos() token.Position  { return rl.Token.Pos }

// StringLiteral represents a quoted string of length <> 1.
type StringLiteral struct {
	typed
	Value string
	Token token.Token
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return "'" + strings.ReplaceAll(sl.Value, "'", "''") + "'" }
func (sl *StringLiteral) Pos() token.Position  { return sl.Token.Pos }

// CharLiteral represents a single-character literal, either 'a' or #65.
type CharLiteral struct {
	typed
	Token token.Token
	Value byte
}

func (cl *CharLiteral) expressionNode()      {}
func (cl *CharLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *CharLiteral) Pos() token.Position  { return cl.Token.Pos }

func (cl *CharLiteral) String() string {
	if strings.HasPrefix(cl.Token.Literal, "#") {
		return cl.Token.Literal
	}
	return "'" + string(cl.Value) + "'"
}

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	typed
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() token.Position  { return bl.Token.Pos }

// NilLiteral represents the nil pointer literal.
type NilLiteral struct {
	typed
	Token token.Token
}

func (nl *NilLiteral) expressionNode()      {}
func (nl *NilLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NilLiteral) String() string       { return "nil" }
func (nl *NilLiteral) Pos() token.Position  { return nl.Token.Pos }

// BinaryExpression represents a binary operation.
type BinaryExpression struct {
	typed
	Left     Expression
	Right    Expression
	Token    token.Token // the operator token
	Operator token.Type
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Pos() token.Position  { return be.Token.Pos }

func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator.String() + " " + be.Right.String() + ")"
}

// UnaryExpression represents unary +, - and not.
type UnaryExpression struct {
	typed
	Operand  Expression
	Token    token.Token
	Operator token.Type
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Pos() token.Position  { return ue.Token.Pos }

func (ue *UnaryExpression) String() string {
	op := ue.Operator.String()
	if ue.Operator == token.NOT {
		op += " "
	}
	return "(" + op + ue.Operand.String() + ")"
}

// AddressOfExpression represents @e.
type AddressOfExpression struct {
	typed
	Operand Expression
	Token   token.Token
}

func (ae *AddressOfExpression) expressionNode()      {}
func (ae *AddressOfExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AddressOfExpression) String() string       { return "@" + ae.Operand.String() }
func (ae *AddressOfExpression) Pos() token.Position  { return ae.Token.Pos }

// DereferenceExpression represents e^.
type DereferenceExpression struct {
	typed
	Operand Expression
	Token   token.Token // the '^' token
}

func (de *DereferenceExpression) expressionNode()      {}
func (de *DereferenceExpression) TokenLiteral() string { return de.Token.Literal }
func (de *DereferenceExpression) String() string       { return de.Operand.String() + "^" }
func (de *DereferenceExpression) Pos() token.Position  { return de.Token.Pos }

// CallExpression represents f(args). Builtin is set by the analyser when the
// callee resolved to the built-in surface rather than a user routine.
type CallExpression struct {
	typed
	Function  Expression
	Token     token.Token // the '(' token
	Arguments []Expression
	Builtin   bool
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() token.Position  { return ce.Token.Pos }

func (ce *CallExpression) String() string {
	args := make([]string, len(ce.Arguments))
	for i, a := range ce.Arguments {
		args[i] = a.String()
	}
	return ce.Function.String() + "(" + strings.Join(args, ", ") + ")"
}

// FieldAccessExpression represents r.field.
type FieldAccessExpression struct {
	typed
	Record Expression
	Field  *Identifier
	Token  token.Token // the '.' token
}

func (fa *FieldAccessExpression) expressionNode()      {}
func (fa *FieldAccessExpression) TokenLiteral() string { return fa.Token.Literal }
func (fa *FieldAccessExpression) String() string       { return fa.Record.String() + "." + fa.Field.String() }
func (fa *FieldAccessExpression) Pos() token.Position  { return fa.Token.Pos }

// IndexExpression represents a[i1, ..., iN] with one index per dimension.
type IndexExpression struct {
	typed
	Array   Expression
	Token   token.Token // the '[' token
	Indices []Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Pos() token.Position  { return ie.Token.Pos }

func (ie *IndexExpression) String() string {
	idx := make([]string, len(ie.Indices))
	for i, e := range ie.Indices {
		idx[i] = e.String()
	}
	return ie.Array.String() + "[" + strings.Join(idx, ", ") + "]"
}

// SetLiteral represents [e1, e2, lo..hi, ...].
type SetLiteral struct {
	typed
	Token    token.Token // the '[' token
	Elements []Expression
}

func (sl *SetLiteral) expressionNode()      {}
func (sl *SetLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *SetLiteral) Pos() token.Position  { return sl.Token.Pos }

func (sl *SetLiteral) String() string {
	elems := make([]string, len(sl.Elements))
	for i, e := range sl.Elements {
		elems[i] = e.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// RangeExpression represents lo..hi inside set literals and case labels.
type RangeExpression struct {
	typed
	Low   Expression
	High  Expression
	Token token.Token // the '..' token
}

func (re *RangeExpression) expressionNode()      {}
func (re *RangeExpression) TokenLiteral() string { return re.Token.Literal }
func (re *RangeExpression) String() string       { return re.Low.String() + ".." + re.High.String() }
func (re *RangeExpression) Pos() token.Position  { return re.Token.Pos }

// FormattedExpression represents e:width or e:width:precision inside
// write/writeln argument lists and as str's first argument.
type FormattedExpression struct {
	typed
	Expr      Expression
	Width     Expression
	Precision Expression // nil when only the width is given
	Token     token.Token
}

func (fe *FormattedExpression) expressionNode()      {}
func (fe *FormattedExpression) TokenLiteral() string { return fe.Token.Literal }
func (fe *FormattedExpression) Pos() token.Position  { return fe.Token.Pos }

func (fe *FormattedExpression) String() string {
	var out bytes.Buffer
	out.WriteString(fe.Expr.String())
	out.WriteString(":")
	out.WriteString(fe.Width.String())
	if fe.Precision != nil {
		out.WriteString(":")
		out.WriteString(fe.Precision.String())
	}
	return out.String()
}
