package semantic

import (
	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/builtins"
	"github.com/tpascal/go-tpc/internal/types"
	"github.com/tpascal/go-tpc/pkg/ident"
	"github.com/tpascal/go-tpc/pkg/token"
)

// typeExpression resolves the type of an expression, decorates the node with
// it, and returns it. Errors annotate the node as Unknown so downstream
// checks stay quiet.
func (a *Analyzer) typeExpression(e ast.Expression) types.Type {
	if e == nil {
		return types.UNKNOWN
	}

	var typ types.Type
	switch expr := e.(type) {
	case *ast.IntegerLiteral:
		typ = types.INTEGER
	case *ast.RealLiteral:
		typ = types.REAL
	case *ast.StringLiteral:
		typ = types.STRING
	case *ast.CharLiteral:
		typ = types.CHAR
	case *ast.BooleanLiteral:
		typ = types.BOOLEAN
	case *ast.NilLiteral:
		typ = types.NIL
	case *ast.Identifier:
		typ = a.typeIdentifier(expr)
	case *ast.BinaryExpression:
		typ = a.typeBinary(expr)
	case *ast.UnaryExpression:
		typ = a.typeUnary(expr)
	case *ast.AddressOfExpression:
		operand := a.typeExpression(expr.Operand)
		typ = types.NewPointerType(operand, operand.String())
	case *ast.DereferenceExpression:
		typ = a.typeDereference(expr)
	case *ast.CallExpression:
		typ = a.typeCall(expr)
	case *ast.FieldAccessExpression:
		typ = a.typeFieldAccess(expr)
	case *ast.IndexExpression:
		typ = a.typeIndex(expr)
	case *ast.SetLiteral:
		typ = a.typeSetLiteral(expr)
	case *ast.RangeExpression:
		typ = a.typeRange(expr)
	case *ast.FormattedExpression:
		typ = a.typeFormatted(expr)
	default:
		typ = types.UNKNOWN
	}

	if typ == nil {
		typ = types.UNKNOWN
	}
	e.SetType(typ)
	return typ
}

// typeIdentifier resolves a name. An unknown name is searched in the
// enclosing with-contexts innermost-first; a matching record field binds the
// identifier to its with-target for the emitter.
//
// Lookup is case-insensitive, so the reference is folded to its
// declaration's spelling; the emitter then prints one canonical name for
// every use.
func (a *Analyzer) typeIdentifier(id *ast.Identifier) types.Type {
	if sym, ok := a.symbols.Lookup(id.Value); ok {
		id.Value = sym.Name
		switch sym.Kind {
		case FunctionSymbol:
			// A function name used without a call has its return type.
			return sym.ReturnType
		case ProcedureSymbol:
			return types.VOID
		case TypeSymbol:
			a.addError(id.Pos(), "type '%s' used as a value", id.Value)
			return types.UNKNOWN
		}
		return sym.Type
	}

	for i := len(a.withStack) - 1; i >= 0; i-- {
		frame := a.withStack[i]
		if frame.record == nil {
			continue
		}
		if field, ok := frame.record.Field(id.Value); ok {
			id.Value = field.Name
			id.WithTarget = frame.target
			id.WithIndex = frame.index
			return field.Type
		}
	}

	// A niladic built-in function used bare (readkey, paramcount, ...).
	if b, ok := builtins.Lookup(id.Value); ok {
		id.BuiltinCall = true
		return b.Result(nil)
	}

	// CRT colour constants behave like predeclared integer constants.
	if _, ok := builtins.CRTColor(id.Value); ok {
		id.IsCRTColor = true
		return types.INTEGER
	}

	a.addError(id.Pos(), "undefined identifier '%s'", id.Value)
	return types.UNKNOWN
}

// typeBinary applies the binary-operator result table.
func (a *Analyzer) typeBinary(e *ast.BinaryExpression) types.Type {
	left := a.typeExpression(e.Left)
	right := a.typeExpression(e.Right)
	if left.TypeKind() == "UNKNOWN" || right.TypeKind() == "UNKNOWN" {
		return types.UNKNOWN
	}

	lk := types.Underlying(left).TypeKind()
	rk := types.Underlying(right).TypeKind()

	switch e.Operator {
	case token.PLUS:
		if types.IsNumeric(left) && types.IsNumeric(right) {
			return numericResult(lk, rk)
		}
		if types.IsStringLike(left) && types.IsStringLike(right) {
			if lk == "BOUNDEDSTRING" {
				return types.Underlying(left)
			}
			if rk == "BOUNDEDSTRING" {
				return types.Underlying(right)
			}
			return types.STRING
		}
		if setType, ok := types.SameSetType(left, right); ok {
			return setType
		}
		if lk == "POINTER" && types.IsIntegerLike(right) {
			return left
		}
		if types.IsIntegerLike(left) && rk == "POINTER" {
			return right
		}

	case token.MINUS:
		if types.IsNumeric(left) && types.IsNumeric(right) {
			return numericResult(lk, rk)
		}
		if setType, ok := types.SameSetType(left, right); ok {
			return setType
		}
		if lk == "POINTER" && types.IsIntegerLike(right) {
			return left
		}
		if lk == "POINTER" && rk == "POINTER" {
			return types.INTEGER
		}

	case token.ASTERISK:
		if types.IsNumeric(left) && types.IsNumeric(right) {
			return numericResult(lk, rk)
		}
		if setType, ok := types.SameSetType(left, right); ok {
			return setType
		}

	case token.SLASH:
		if types.IsNumeric(left) && types.IsNumeric(right) {
			return numericResult(lk, rk)
		}

	case token.DIV, token.MOD:
		if types.IsIntegerLike(left) && types.IsIntegerLike(right) {
			return types.INTEGER
		}

	case token.SHL, token.SHR:
		if types.IsIntegerLike(left) && types.IsIntegerLike(right) {
			return types.INTEGER
		}

	case token.EQ, token.NOT_EQ, token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ:
		if types.Compatible(left, right) || types.Compatible(right, left) {
			return types.BOOLEAN
		}

	case token.AND, token.OR, token.XOR:
		if lk == "BOOLEAN" && rk == "BOOLEAN" {
			return types.BOOLEAN
		}

	case token.IN:
		setType, ok := types.Underlying(right).(*types.SetType)
		if ok && types.IsOrdinal(left) {
			if setType.ElementType == nil || types.Compatible(setType.ElementType, left) {
				return types.BOOLEAN
			}
		}
	}

	a.addError(e.Pos(), "operator '%s' cannot be applied to %s and %s",
		e.Operator, left.String(), right.String())
	return types.UNKNOWN
}

// numericResult yields Real when either operand is Real, otherwise Integer.
func numericResult(lk, rk string) types.Type {
	if lk == "REAL" || rk == "REAL" {
		return types.REAL
	}
	return types.INTEGER
}

func (a *Analyzer) typeUnary(e *ast.UnaryExpression) types.Type {
	operand := a.typeExpression(e.Operand)
	if operand.TypeKind() == "UNKNOWN" {
		return types.UNKNOWN
	}

	switch e.Operator {
	case token.PLUS, token.MINUS:
		if types.IsNumeric(operand) {
			return types.Underlying(operand)
		}
	case token.NOT:
		if types.Underlying(operand).TypeKind() == "BOOLEAN" {
			return types.BOOLEAN
		}
	}

	a.addError(e.Pos(), "operator '%s' cannot be applied to %s", e.Operator, operand.String())
	return types.UNKNOWN
}

// typeDereference types e^ as the operand pointer's pointee.
func (a *Analyzer) typeDereference(e *ast.DereferenceExpression) types.Type {
	operand := a.typeExpression(e.Operand)
	if operand.TypeKind() == "UNKNOWN" {
		return types.UNKNOWN
	}

	ptr, ok := types.Underlying(operand).(*types.PointerType)
	if !ok {
		a.addError(e.Pos(), "'^' requires a pointer, got %s", operand.String())
		return types.UNKNOWN
	}
	if ptr.Pointee != nil {
		return ptr.Pointee
	}
	if sym, found := a.symbols.Lookup(ptr.PointeeName); found && sym.Kind == TypeSymbol {
		ptr.Pointee = sym.Type
		return sym.Type
	}
	if bt, found := builtinTypeFor(ptr.PointeeName); found {
		ptr.Pointee = bt
		return bt
	}
	a.addError(e.Pos(), "unknown pointee type '%s'", ptr.PointeeName)
	return types.UNKNOWN
}

func (a *Analyzer) typeFieldAccess(e *ast.FieldAccessExpression) types.Type {
	recordType := a.typeExpression(e.Record)
	if recordType.TypeKind() == "UNKNOWN" {
		return types.UNKNOWN
	}

	rec, ok := types.Underlying(recordType).(*types.RecordType)
	if !ok {
		a.addError(e.Pos(), "'%s' is not a record", recordType.String())
		return types.UNKNOWN
	}
	field, ok := rec.Field(e.Field.Value)
	if !ok {
		a.addError(e.Field.Pos(), "unknown field '%s' in record %s", e.Field.Value, rec.String())
		return types.UNKNOWN
	}
	e.Field.Value = field.Name
	e.Field.SetType(field.Type)
	return field.Type
}

func (a *Analyzer) typeIndex(e *ast.IndexExpression) types.Type {
	arrType := a.typeExpression(e.Array)
	for _, idx := range e.Indices {
		a.typeExpression(idx)
	}
	if arrType.TypeKind() == "UNKNOWN" {
		return types.UNKNOWN
	}

	switch t := types.Underlying(arrType).(type) {
	case *types.ArrayType:
		if len(e.Indices) != len(t.Dims) {
			a.addError(e.Pos(), "array %s expects %d indices, got %d",
				t.String(), len(t.Dims), len(e.Indices))
			return types.UNKNOWN
		}
		for i, idx := range e.Indices {
			a.checkIndexType(idx, t.Dims[i])
		}
		return t.ElementType

	case *types.BasicType:
		if t.TypeKind() == "STRING" && len(e.Indices) == 1 {
			return types.CHAR
		}
	case *types.BoundedStringType:
		if len(e.Indices) == 1 {
			return types.CHAR
		}
	}

	a.addError(e.Pos(), "'%s' cannot be indexed", arrType.String())
	return types.UNKNOWN
}

// checkIndexType validates one index expression against its dimension.
func (a *Analyzer) checkIndexType(idx ast.Expression, dim types.Dimension) {
	t := idx.GetType()
	if t.TypeKind() == "UNKNOWN" {
		return
	}
	switch {
	case dim.Enum != nil:
		if !types.Underlying(t).Equals(dim.Enum) && !types.IsIntegerLike(t) {
			a.addError(idx.Pos(), "index type %s does not match enumeration %s", t.String(), dim.Enum.Name)
		}
	case dim.IsChar:
		if types.Underlying(t).TypeKind() != "CHAR" {
			a.addError(idx.Pos(), "index type %s does not match char range", t.String())
		}
	default:
		if !types.IsIntegerLike(t) {
			a.addError(idx.Pos(), "array index must be an integer, got %s", t.String())
		}
	}
}

// typeSetLiteral takes the element type from the first element; an empty
// literal is compatible with any declared set type.
func (a *Analyzer) typeSetLiteral(e *ast.SetLiteral) types.Type {
	if len(e.Elements) == 0 {
		return types.NewSetType(nil)
	}

	var elemType types.Type
	for i, elem := range e.Elements {
		t := a.typeExpression(elem)
		if i == 0 {
			elemType = t
			continue
		}
		if elemType.TypeKind() == "UNKNOWN" || t.TypeKind() == "UNKNOWN" {
			continue
		}
		if !types.Compatible(elemType, t) && !types.Compatible(t, elemType) {
			a.addError(elem.Pos(), "set element type %s does not match %s", t.String(), elemType.String())
		}
	}
	if elemType == nil || elemType.TypeKind() == "UNKNOWN" {
		return types.NewSetType(nil)
	}
	if !types.IsOrdinal(elemType) {
		a.addError(e.Pos(), "set elements must be ordinal, got %s", elemType.String())
		return types.UNKNOWN
	}
	return types.NewSetType(elemType)
}

// typeRange requires both endpoints to share one ordinal type; the result
// carries the element type (preserving enum identity for set compatibility).
func (a *Analyzer) typeRange(e *ast.RangeExpression) types.Type {
	low := a.typeExpression(e.Low)
	high := a.typeExpression(e.High)
	if low.TypeKind() == "UNKNOWN" || high.TypeKind() == "UNKNOWN" {
		return types.UNKNOWN
	}
	if !types.IsOrdinal(low) {
		a.addError(e.Pos(), "range bounds must be ordinal, got %s", low.String())
		return types.UNKNOWN
	}
	if !types.Underlying(low).Equals(types.Underlying(high)) &&
		!(types.IsIntegerLike(low) && types.IsIntegerLike(high)) {
		a.addError(e.Pos(), "range bounds have different types: %s and %s", low.String(), high.String())
		return types.UNKNOWN
	}
	return low
}

func (a *Analyzer) typeFormatted(e *ast.FormattedExpression) types.Type {
	inner := a.typeExpression(e.Expr)
	width := a.typeExpression(e.Width)
	if !types.IsIntegerLike(width) && width.TypeKind() != "UNKNOWN" {
		a.addError(e.Width.Pos(), "format width must be an integer")
	}
	if e.Precision != nil {
		precision := a.typeExpression(e.Precision)
		if !types.IsIntegerLike(precision) && precision.TypeKind() != "UNKNOWN" {
			a.addError(e.Precision.Pos(), "format precision must be an integer")
		}
	}
	return inner
}

// ============================================================================
// Calls and overload resolution
// ============================================================================

// typeCall resolves a call: a name with no user declaration resolves to the
// built-in of that name; otherwise user routines are matched by exact
// signature, then by unique compatible overload.
func (a *Analyzer) typeCall(e *ast.CallExpression) types.Type {
	fn, ok := e.Function.(*ast.Identifier)
	if !ok {
		a.addError(e.Pos(), "expression is not callable")
		for _, arg := range e.Arguments {
			a.typeExpression(arg)
		}
		return types.UNKNOWN
	}

	// User declarations shadow built-ins.
	if _, declared := a.symbols.Lookup(fn.Value); !declared {
		if b, isBuiltin := builtins.Lookup(fn.Value); isBuiltin {
			e.Builtin = true
			return a.typeBuiltinCall(e, fn, b)
		}
	}

	argTypes := make([]types.Type, len(e.Arguments))
	for i, arg := range e.Arguments {
		if _, formatted := arg.(*ast.FormattedExpression); formatted {
			a.addError(arg.Pos(), "formatted arguments are only allowed in write, writeln and str")
		}
		argTypes[i] = a.typeExpression(arg)
	}

	// Exact signature match first.
	if sym, found := a.symbols.LookupFunction(fn.Value, argTypes); found {
		fn.Value = sym.Name
		fn.SetType(routineType(sym))
		return routineType(sym)
	}

	// Unique compatible overload.
	overloads := a.symbols.LookupAllOverloads(fn.Value)
	var routines []*Symbol
	for _, sym := range overloads {
		if sym.IsRoutine() {
			routines = append(routines, sym)
		}
	}
	if len(routines) == 0 {
		if len(overloads) > 0 {
			a.addError(fn.Pos(), "'%s' is not a procedure or function", fn.Value)
		} else {
			a.addError(fn.Pos(), "undefined procedure or function '%s'", fn.Value)
		}
		return types.UNKNOWN
	}

	var match *Symbol
	ambiguous := false
	for _, sym := range routines {
		if len(sym.Params) != len(argTypes) {
			continue
		}
		compatible := true
		for i, param := range sym.Params {
			if !types.Compatible(param.Type, argTypes[i]) {
				compatible = false
				break
			}
		}
		if compatible {
			if match != nil {
				ambiguous = true
			}
			match = sym
		}
	}

	if ambiguous {
		a.addError(fn.Pos(), "ambiguous call to overloaded routine '%s'", fn.Value)
		return types.UNKNOWN
	}
	if match == nil {
		a.addError(fn.Pos(), "no overload of '%s' matches the argument types", fn.Value)
		return types.UNKNOWN
	}
	fn.Value = match.Name
	fn.SetType(routineType(match))
	return routineType(match)
}

func routineType(sym *Symbol) types.Type {
	if sym.Kind == FunctionSymbol {
		return sym.ReturnType
	}
	return types.VOID
}

// typeBuiltinCall checks a built-in call. Variadic built-ins bypass arity and
// type checks; formatted arguments are honoured only by write, writeln and str.
func (a *Analyzer) typeBuiltinCall(e *ast.CallExpression, fn *ast.Identifier, b *builtins.Builtin) types.Type {
	// str(x:w:p, s) shares write's formatted-argument form.
	isWrite := ident.Equal(b.Name, "write") || ident.Equal(b.Name, "writeln") || ident.Equal(b.Name, "str")

	argTypes := make([]types.Type, len(e.Arguments))
	for i, arg := range e.Arguments {
		if _, formatted := arg.(*ast.FormattedExpression); formatted && !isWrite {
			a.addError(arg.Pos(), "formatted arguments are only allowed in write, writeln and str")
		}
		argTypes[i] = a.typeExpression(arg)
	}

	if !b.Variadic {
		if len(e.Arguments) < b.MinArgs || len(e.Arguments) > b.MaxArgs {
			if b.MinArgs == b.MaxArgs {
				a.addError(e.Pos(), "'%s' expects %d argument(s), got %d", b.Name, b.MinArgs, len(e.Arguments))
			} else {
				a.addError(e.Pos(), "'%s' expects %d to %d arguments, got %d",
					b.Name, b.MinArgs, b.MaxArgs, len(e.Arguments))
			}
			return b.Result(argTypes)
		}
		a.checkBuiltinArgs(e, b, argTypes)
	}

	result := b.Result(argTypes)
	fn.SetType(result)
	return result
}

// checkBuiltinArgs validates the argument shapes of the non-variadic
// built-ins that constrain them.
func (a *Analyzer) checkBuiltinArgs(e *ast.CallExpression, b *builtins.Builtin, argTypes []types.Type) {
	name := ident.Normalize(b.Name)
	at := func(i int) types.Type {
		if i < len(argTypes) {
			return argTypes[i]
		}
		return types.UNKNOWN
	}

	switch name {
	case "inc", "dec":
		first := at(0)
		if first.TypeKind() != "UNKNOWN" && !types.IsOrdinal(first) && !types.IsPointer(first) {
			a.addError(e.Arguments[0].Pos(), "'%s' requires an ordinal or pointer variable", b.Name)
		}
		if len(argTypes) == 2 && !types.IsIntegerLike(at(1)) && at(1).TypeKind() != "UNKNOWN" {
			a.addError(e.Arguments[1].Pos(), "'%s' stride must be an integer", b.Name)
		}
	case "new", "dispose":
		if !types.IsPointer(at(0)) && at(0).TypeKind() != "UNKNOWN" {
			a.addError(e.Arguments[0].Pos(), "'%s' requires a pointer variable", b.Name)
		}
	case "chr":
		if !types.IsIntegerLike(at(0)) && at(0).TypeKind() != "UNKNOWN" {
			a.addError(e.Arguments[0].Pos(), "'chr' requires an integer")
		}
	case "ord", "succ", "pred":
		if !types.IsOrdinal(at(0)) && at(0).TypeKind() != "UNKNOWN" {
			a.addError(e.Arguments[0].Pos(), "'%s' requires an ordinal", b.Name)
		}
	case "length":
		if !types.IsStringLike(at(0)) && at(0).TypeKind() != "UNKNOWN" {
			a.addError(e.Arguments[0].Pos(), "'length' requires a string")
		}
	}
}
