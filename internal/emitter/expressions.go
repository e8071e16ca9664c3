package emitter

import (
	"fmt"
	"strings"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/semantic"
	"github.com/tpascal/go-tpc/internal/types"
	"github.com/tpascal/go-tpc/pkg/ident"
	"github.com/tpascal/go-tpc/pkg/token"
)

// emitExpr lowers one expression to C++ text.
func (e *Emitter) emitExpr(expr ast.Expression) string {
	switch ex := expr.(type) {
	case *ast.IntegerLiteral:
		return fmt.Sprintf("%d", ex.Value)

	case *ast.RealLiteral:
		text := ex.Token.Literal
		if !strings.ContainsAny(text, ".eE") {
			text += ".0"
		}
		return text

	case *ast.StringLiteral:
		return fmt.Sprintf("std::string(\"%s\")", escapeCppString(ex.Value))

	case *ast.CharLiteral:
		return charLiteral(ex.Value)

	case *ast.BooleanLiteral:
		if ex.Value {
			return "true"
		}
		return "false"

	case *ast.NilLiteral:
		return "nullptr"

	case *ast.Identifier:
		return e.emitIdentifier(ex)

	case *ast.BinaryExpression:
		return e.emitBinary(ex)

	case *ast.UnaryExpression:
		op := map[token.Type]string{token.PLUS: "+", token.MINUS: "-", token.NOT: "!"}[ex.Operator]
		return fmt.Sprintf("(%s%s)", op, e.emitExpr(ex.Operand))

	case *ast.AddressOfExpression:
		return fmt.Sprintf("(&%s)", e.emitExpr(ex.Operand))

	case *ast.DereferenceExpression:
		return fmt.Sprintf("(*%s)", e.emitExpr(ex.Operand))

	case *ast.CallExpression:
		return e.emitCall(ex)

	case *ast.FieldAccessExpression:
		return e.emitExpr(ex.Record) + "." + sanitize(ex.Field.Value)

	case *ast.IndexExpression:
		return e.emitIndex(ex)

	case *ast.SetLiteral:
		return e.emitSetLiteral(ex)

	case *ast.FormattedExpression:
		return e.emitFormatted(ex)

	case *ast.RangeExpression:
		// Reached only inside set literals and case labels, which expand
		// ranges themselves; a bare range has no standalone lowering.
		return e.emitExpr(ex.Low)
	}
	return "0"
}

// emitIdentifier lowers a name use: with-bound fields get their target
// prefix, bare built-ins expand inline, and CRT colours map onto the
// runtime's prefixed constants.
func (e *Emitter) emitIdentifier(id *ast.Identifier) string {
	if id.WithTarget != nil {
		return e.withPrefix(id) + "." + sanitize(id.Value)
	}
	if id.BuiltinCall {
		return e.emitBuiltin(id.Value, nil, id.GetType())
	}
	if id.IsCRTColor {
		return "pascal_crt_" + ident.Normalize(id.Value)
	}
	if id.AutoCall {
		return sanitize(id.Value) + "()"
	}
	if sym, ok := e.symbols.Lookup(id.Value); ok && sym.Kind == semantic.ConstSymbol && sym.ConstValue == nil {
		// Predeclared System constants have no user declaration to refer to.
		switch ident.Normalize(id.Value) {
		case "maxint":
			return "2147483647"
		case "pi":
			return "3.14159265358979323846"
		}
	}
	return sanitize(id.Value)
}

// withPrefix renders the access path for a with-bound identifier: the target
// itself when it is a simple name chain, otherwise the alias introduced by
// the with block.
func (e *Emitter) withPrefix(id *ast.Identifier) string {
	if isSimpleLValue(id.WithTarget) {
		return e.emitExpr(id.WithTarget)
	}
	if name, ok := e.withNames[id.WithIndex]; ok {
		return name
	}
	return e.emitExpr(id.WithTarget)
}

// isSimpleLValue reports whether re-emitting the expression is free of side
// effects and re-evaluation cost: identifiers and field chains over them.
func isSimpleLValue(expr ast.Expression) bool {
	switch t := expr.(type) {
	case *ast.Identifier:
		return t.WithTarget == nil
	case *ast.FieldAccessExpression:
		return isSimpleLValue(t.Record)
	case *ast.DereferenceExpression:
		return isSimpleLValue(t.Operand)
	}
	return false
}

var binaryOps = map[token.Type]string{
	token.PLUS:       "+",
	token.MINUS:      "-",
	token.ASTERISK:   "*",
	token.SLASH:      "/",
	token.DIV:        "/",
	token.MOD:        "%",
	token.EQ:         "==",
	token.NOT_EQ:     "!=",
	token.LESS:       "<",
	token.LESS_EQ:    "<=",
	token.GREATER:    ">",
	token.GREATER_EQ: ">=",
	token.AND:        "&&",
	token.OR:         "||",
	token.XOR:        "!=",
	token.SHL:        "<<",
	token.SHR:        ">>",
}

func (e *Emitter) emitBinary(b *ast.BinaryExpression) string {
	left := b.Left.GetType()
	right := b.Right.GetType()

	// Set membership: bind the set operand once, then test.
	if b.Operator == token.IN {
		return fmt.Sprintf("([&](const auto& __s) { return __s.count(%s) > 0; })(%s)",
			e.emitExpr(b.Left), e.emitExpr(b.Right))
	}

	// Set algebra.
	if _, isSet := types.Underlying(left).(*types.SetType); isSet {
		switch b.Operator {
		case token.PLUS:
			return fmt.Sprintf("pascal_set_union(%s, %s)", e.emitExpr(b.Left), e.emitExpr(b.Right))
		case token.MINUS:
			return fmt.Sprintf("pascal_set_difference(%s, %s)", e.emitExpr(b.Left), e.emitExpr(b.Right))
		case token.ASTERISK:
			return fmt.Sprintf("pascal_set_intersection(%s, %s)", e.emitExpr(b.Left), e.emitExpr(b.Right))
		}
	}

	// String concatenation: make sure at least one operand is the dynamic
	// string type so operator+ resolves.
	if b.Operator == token.PLUS && types.IsStringLike(types.Underlying(b.GetType())) {
		return fmt.Sprintf("(%s + %s)", e.stringOperand(b.Left), e.stringOperand(b.Right))
	}

	// Relational operators over mixed string-like operands: C++ has no
	// operator==(std::string, char), so chars and bounded strings convert to
	// the dynamic string type first. Char-with-char stays a plain char
	// comparison.
	switch b.Operator {
	case token.EQ, token.NOT_EQ, token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ:
		lk := types.Underlying(left).TypeKind()
		rk := types.Underlying(right).TypeKind()
		if types.IsStringLike(types.Underlying(left)) && types.IsStringLike(types.Underlying(right)) &&
			!(lk == "CHAR" && rk == "CHAR") && !(lk == "STRING" && rk == "STRING") {
			return fmt.Sprintf("(%s %s %s)",
				e.stringOperand(b.Left), binaryOps[b.Operator], e.stringOperand(b.Right))
		}
	}

	// Real division must not truncate when both operands are integers.
	if b.Operator == token.SLASH && types.Underlying(b.GetType()).TypeKind() == "REAL" &&
		types.IsIntegerLike(left) && types.IsIntegerLike(right) {
		return fmt.Sprintf("(static_cast<double>(%s) / %s)", e.emitExpr(b.Left), e.emitExpr(b.Right))
	}

	op := binaryOps[b.Operator]
	return fmt.Sprintf("(%s %s %s)", e.emitExpr(b.Left), op, e.emitExpr(b.Right))
}

// stringOperand renders a concatenation operand, wrapping chars and bounded
// strings into the dynamic string type.
func (e *Emitter) stringOperand(expr ast.Expression) string {
	switch types.Underlying(expr.GetType()).TypeKind() {
	case "CHAR":
		return fmt.Sprintf("std::string(1, %s)", e.emitExpr(expr))
	case "BOUNDEDSTRING":
		return fmt.Sprintf("std::string(%s)", e.emitExpr(expr))
	}
	return e.emitExpr(expr)
}

// emitIndex flattens N-dimensional indexing to a single row-major offset and
// shifts string indexing from 1-based to the runtime's 0-based form.
func (e *Emitter) emitIndex(ix *ast.IndexExpression) string {
	arrType := types.Underlying(ix.Array.GetType())

	if arr, ok := arrType.(*types.ArrayType); ok {
		strides := arr.Strides()
		var terms []string
		for k, idx := range ix.Indices {
			norm := e.normalizeIndex(idx, arr.Dims[k])
			if strides[k] == 1 {
				terms = append(terms, norm)
			} else {
				terms = append(terms, fmt.Sprintf("%s * %d", norm, strides[k]))
			}
		}
		return fmt.Sprintf("%s[%s]", e.emitExpr(ix.Array), strings.Join(terms, " + "))
	}

	// String indexing: Pascal is 1-based, the runtime string is 0-based.
	return fmt.Sprintf("%s[(%s) - 1]", e.emitExpr(ix.Array), e.emitExpr(ix.Indices[0]))
}

// normalizeIndex subtracts the dimension's low bound (casting enums to their
// ordinal first).
func (e *Emitter) normalizeIndex(idx ast.Expression, dim types.Dimension) string {
	expr := e.emitExpr(idx)
	switch {
	case dim.Enum != nil:
		if dim.Low == 0 {
			return fmt.Sprintf("static_cast<int32_t>(%s)", expr)
		}
		return fmt.Sprintf("(static_cast<int32_t>(%s) - %d)", expr, dim.Low)
	case dim.IsChar:
		return fmt.Sprintf("((%s) - %s)", expr, charLiteral(byte(dim.Low)))
	case dim.Low == 0:
		return fmt.Sprintf("(%s)", expr)
	default:
		return fmt.Sprintf("((%s) - %d)", expr, dim.Low)
	}
}

// emitSetLiteral builds a container-constructed expression. Constant ranges
// expand into their member sequence; non-constant ranges union in a runtime
// range.
func (e *Emitter) emitSetLiteral(lit *ast.SetLiteral) string {
	setType, _ := types.Underlying(lit.GetType()).(*types.SetType)
	elemCpp := "int32_t"
	var elemType types.Type
	if setType != nil && setType.ElementType != nil {
		elemType = setType.ElementType
		elemCpp = e.cppType(elemType)
	}

	// An empty literal with no element type lowers to a braced initializer,
	// which adopts the target set's type at the assignment.
	if len(lit.Elements) == 0 && elemType == nil {
		return "{}"
	}

	var members []string
	var dynamicRanges []string

	for _, elem := range lit.Elements {
		if rng, ok := elem.(*ast.RangeExpression); ok {
			low, okLow := e.constOrdinal(rng.Low)
			high, okHigh := e.constOrdinal(rng.High)
			if okLow && okHigh && high-low < 256 {
				for v := low; v <= high; v++ {
					members = append(members, e.ordinalLiteral(v, elemType))
				}
				continue
			}
			dynamicRanges = append(dynamicRanges, fmt.Sprintf("pascal_set_range<%s>(%s, %s)",
				elemCpp, e.emitExpr(rng.Low), e.emitExpr(rng.High)))
			continue
		}
		members = append(members, e.emitExpr(elem))
	}

	result := fmt.Sprintf("std::set<%s>{%s}", elemCpp, strings.Join(members, ", "))
	for _, rng := range dynamicRanges {
		result = fmt.Sprintf("pascal_set_union(%s, %s)", result, rng)
	}
	return result
}

// ordinalLiteral renders one expanded range member in the element type's
// natural spelling.
func (e *Emitter) ordinalLiteral(v int64, elemType types.Type) string {
	if elemType == nil {
		return fmt.Sprintf("%d", v)
	}
	switch t := types.Underlying(elemType).(type) {
	case *types.EnumType:
		if int(v) < len(t.Values) {
			return sanitize(t.Values[v])
		}
		return fmt.Sprintf("static_cast<%s>(%d)", sanitize(t.Name), v)
	case *types.BasicType:
		if t.TypeKind() == "CHAR" {
			return charLiteral(byte(v))
		}
	}
	return fmt.Sprintf("%d", v)
}

// emitFormatted lowers e:w[:p] to the runtime's stream formatting helper.
func (e *Emitter) emitFormatted(f *ast.FormattedExpression) string {
	if f.Precision != nil {
		return fmt.Sprintf("pascal_fmt(%s, %s, %s)",
			e.emitExpr(f.Expr), e.emitExpr(f.Width), e.emitExpr(f.Precision))
	}
	return fmt.Sprintf("pascal_fmt(%s, %s)", e.emitExpr(f.Expr), e.emitExpr(f.Width))
}

// emitCall lowers a call expression: built-ins expand inline, user routines
// call through (C++ overloading mirrors the Pascal overload sets).
func (e *Emitter) emitCall(call *ast.CallExpression) string {
	fn, ok := call.Function.(*ast.Identifier)
	if !ok {
		return "0"
	}
	if call.Builtin {
		return e.emitBuiltin(fn.Value, call.Arguments, call.GetType())
	}
	args := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		args[i] = e.emitExpr(arg)
	}
	return fmt.Sprintf("%s(%s)", sanitize(fn.Value), strings.Join(args, ", "))
}

// constOrdinal evaluates a compile-time ordinal for range expansion: literal
// integers, chars, enum constants, negation, and global constants.
func (e *Emitter) constOrdinal(expr ast.Expression) (int64, bool) {
	switch ex := expr.(type) {
	case *ast.IntegerLiteral:
		return ex.Value, true
	case *ast.CharLiteral:
		return int64(ex.Value), true
	case *ast.BooleanLiteral:
		if ex.Value {
			return 1, true
		}
		return 0, true
	case *ast.UnaryExpression:
		v, ok := e.constOrdinal(ex.Operand)
		if !ok {
			return 0, false
		}
		switch ex.Operator {
		case token.MINUS:
			return -v, true
		case token.PLUS:
			return v, true
		}
		return 0, false
	case *ast.Identifier:
		if enum, ok := types.Underlying(ex.GetType()).(*types.EnumType); ok {
			if ord, found := enum.Ordinal(ex.Value); found {
				return int64(ord), true
			}
		}
		if sym, ok := e.symbols.Lookup(ex.Value); ok && sym.Kind == semantic.ConstSymbol && sym.ConstValue != nil {
			return e.constOrdinal(sym.ConstValue)
		}
	}
	return 0, false
}

// escapeCppString escapes a Pascal string body for a C++ string literal.
func escapeCppString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			sb.WriteString("\\\\")
		case '"':
			sb.WriteString("\\\"")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		default:
			if c < 32 || c > 126 {
				sb.WriteString(fmt.Sprintf("\\x%02x", c))
			} else {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}

// charLiteral renders one char as a C++ character literal.
func charLiteral(c byte) string {
	switch c {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	case '\n':
		return `'\n'`
	case '\r':
		return `'\r'`
	case '\t':
		return `'\t'`
	}
	if c < 32 || c > 126 {
		return fmt.Sprintf(`'\x%02x'`, c)
	}
	return fmt.Sprintf("'%c'", c)
}
