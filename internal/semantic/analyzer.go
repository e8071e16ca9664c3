// Package semantic implements the symbol-tabled semantic analyser.
//
// The analyser walks the AST once, populating the symbol table, resolving
// every type name to a structured descriptor, decorating each expression node
// with its resolved type, and accumulating positioned errors. It continues
// after a typing error, annotating the offending expression as Unknown so
// downstream checks suppress cascaded noise.
package semantic

import (
	"fmt"
	"strconv"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/types"
	"github.com/tpascal/go-tpc/internal/units"
	"github.com/tpascal/go-tpc/pkg/ident"
	"github.com/tpascal/go-tpc/pkg/token"
)

// withFrame remembers one `with` target: its lvalue expression and record
// descriptor. Frames are searched innermost-first for bare identifiers.
type withFrame struct {
	target ast.Expression
	record *types.RecordType
	index  int
}

// Analyzer performs semantic analysis over one program and its units.
type Analyzer struct {
	symbols         *SymbolTable
	registry        *units.Registry
	currentRoutine  *Symbol
	errors          []*Error
	withStack       []withFrame
	pendingPointers []*types.PointerType
	routineLabels   *ident.Map[bool]
	loadedUnits     *ident.Map[bool]
	unitOrder       []*units.Unit
	withCounter     int
	loopDepth       int
}

// NewAnalyzer creates an analyser with a fresh symbol table.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		symbols:       NewSymbolTable(),
		loadedUnits:   ident.NewMap[bool](),
		routineLabels: ident.NewMap[bool](),
	}
	// Predefined System constants.
	_ = a.symbols.Define("maxint", &Symbol{Kind: ConstSymbol, Type: types.INTEGER})
	_ = a.symbols.Define("pi", &Symbol{Kind: ConstSymbol, Type: types.REAL})
	return a
}

// SetUnitRegistry configures where `uses` units are loaded from. Without a
// registry, only the built-in System/CRT/DOS units resolve.
func (a *Analyzer) SetUnitRegistry(r *units.Registry) {
	a.registry = r
}

// Errors returns the accumulated semantic errors.
func (a *Analyzer) Errors() []*Error {
	return a.errors
}

// HasErrors reports whether any semantic error was recorded.
func (a *Analyzer) HasErrors() bool {
	return len(a.errors) > 0
}

// Symbols exposes the populated symbol table for the emitter (read-only).
func (a *Analyzer) Symbols() *SymbolTable {
	return a.symbols
}

// LoadedUnits returns the units loaded through uses clauses, in load order
// (dependencies before dependents).
func (a *Analyzer) LoadedUnits() []*units.Unit {
	return a.unitOrder
}

func (a *Analyzer) addError(pos token.Position, format string, args ...any) {
	a.errors = append(a.errors, &Error{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// Analyze checks a whole program.
func (a *Analyzer) Analyze(prog *ast.Program) {
	if prog.Uses != nil {
		a.analyzeUses(prog.Uses)
	}
	a.analyzeDeclarations(prog.Decls)
	if prog.Body != nil {
		a.routineLabels = collectLabels(prog.Decls, a)
		a.analyzeStatement(prog.Body)
	}
}

// AnalyzeUnitInterface processes a loaded unit's interface declarations
// against the current symbol table, then its implementation declarations.
func (a *Analyzer) AnalyzeUnitInterface(u *ast.Unit) {
	if u.InterfaceUses != nil {
		a.analyzeUses(u.InterfaceUses)
	}
	a.analyzeDeclarations(u.InterfaceDecls)
	a.analyzeDeclarations(u.ImplDecls)
	if u.Init != nil {
		a.analyzeStatement(u.Init)
	}
}

// analyzeUses resolves each used unit. System, CRT and DOS are a fixed
// built-in surface; anything else comes from the unit registry.
func (a *Analyzer) analyzeUses(uses *ast.UsesClause) {
	for _, name := range uses.Units {
		if ident.Equal(name.Value, "system") || ident.Equal(name.Value, "crt") || ident.Equal(name.Value, "dos") {
			continue
		}
		if a.loadedUnits.Has(name.Value) {
			continue
		}
		a.loadedUnits.Set(name.Value, true)
		if a.registry == nil {
			a.addError(name.Pos(), "unit '%s' cannot be loaded: no search path configured", name.Value)
			continue
		}
		unit, err := a.registry.Load(name.Value)
		if err != nil {
			a.addError(name.Pos(), "%s", err.Error())
			continue
		}
		a.AnalyzeUnitInterface(unit.AST)
		a.unitOrder = append(a.unitOrder, unit)
	}
}

// analyzeDeclarations processes a declaration list in source order, then
// resolves pointer types whose pointee was declared later in the same list.
func (a *Analyzer) analyzeDeclarations(decls []ast.Declaration) {
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.ConstDecl:
			a.analyzeConstDecl(d)
		case *ast.TypeDecl:
			a.analyzeTypeDecl(d)
		case *ast.VarDecl:
			a.analyzeVarDecl(d)
		case *ast.LabelDecl:
			// handled by collectLabels for the owning routine
		case *ast.FunctionDecl:
			a.analyzeRoutineDecl(d)
		case *ast.UsesClause:
			a.analyzeUses(d)
		}
	}
	a.fixupPointers()
}

// fixupPointers resolves pointee types recorded before their declaration.
func (a *Analyzer) fixupPointers() {
	remaining := a.pendingPointers[:0]
	for _, ptr := range a.pendingPointers {
		if ptr.Pointee != nil {
			continue
		}
		if sym, ok := a.symbols.Lookup(ptr.PointeeName); ok && sym.Kind == TypeSymbol {
			ptr.Pointee = sym.Type
			continue
		}
		if t, ok := builtinTypeFor(ptr.PointeeName); ok {
			ptr.Pointee = t
			continue
		}
		remaining = append(remaining, ptr)
	}
	a.pendingPointers = remaining
}

func (a *Analyzer) analyzeConstDecl(d *ast.ConstDecl) {
	typ := a.typeExpression(d.Value)
	sym := &Symbol{Kind: ConstSymbol, Type: typ, Decl: nil}
	sym.ConstValue = d.Value
	if err := a.symbols.Define(d.Name.Value, sym); err != nil {
		a.addError(d.Name.Pos(), "%s", err.Error())
	}
}

func (a *Analyzer) analyzeTypeDecl(d *ast.TypeDecl) {
	typ := a.resolveTypeExpression(d.Spec, d.Name.Value)
	nameType(typ, d.Name.Value)
	d.Resolved = typ
	if err := a.symbols.Define(d.Name.Value, &Symbol{Kind: TypeSymbol, Type: typ}); err != nil {
		a.addError(d.Name.Pos(), "%s", err.Error())
	}
}

func (a *Analyzer) analyzeVarDecl(d *ast.VarDecl) {
	typ := a.resolveTypeExpression(d.Spec, "")
	d.Resolved = typ
	for _, name := range d.Names {
		if err := a.symbols.Define(name.Value, &Symbol{Kind: VariableSymbol, Type: typ}); err != nil {
			a.addError(name.Pos(), "%s", err.Error())
		}
	}
}

// analyzeRoutineDecl handles procedures, functions, forward declarations and
// overloads.
func (a *Analyzer) analyzeRoutineDecl(d *ast.FunctionDecl) {
	kind := ProcedureSymbol
	var returnType types.Type
	if !d.IsProcedure() {
		kind = FunctionSymbol
		returnType = a.resolveTypeExpression(d.ReturnType, "")
		d.ResolvedReturn = returnType
	}

	params := a.resolveParams(d.Params)

	sym := a.matchForward(d.Name.Value, kind, params, returnType)
	if sym == nil {
		sym = &Symbol{Kind: kind, Type: returnType, ReturnType: returnType, Params: params}
		sym.IsForward = d.IsForward
		a.symbols.DefineOverloaded(d.Name.Value, sym)
	} else if d.IsForward {
		a.addError(d.Name.Pos(), "routine '%s' forward-declared twice", d.Name.Value)
	} else {
		sym.IsForward = false
	}
	sym.Decl = d
	// Forward/defining pairs and overload sets emit under one canonical
	// spelling regardless of the casing each occurrence used.
	d.Name.Value = sym.Name

	if d.IsForward {
		return
	}

	// Analyse the body in its own scope.
	outerRoutine := a.currentRoutine
	outerLabels := a.routineLabels
	a.currentRoutine = sym
	a.symbols.EnterScope()

	for _, p := range params {
		if err := a.symbols.Define(p.Name, &Symbol{Kind: ParameterSymbol, Type: p.Type}); err != nil {
			a.addError(d.Name.Pos(), "%s", err.Error())
		}
	}

	a.analyzeDeclarations(d.Decls)
	a.routineLabels = collectLabels(d.Decls, a)
	if d.Body != nil {
		a.analyzeStatement(d.Body)
	}

	a.symbols.ExitScope()
	a.currentRoutine = outerRoutine
	a.routineLabels = outerLabels
}

// matchForward finds a visible forward declaration with the same signature.
func (a *Analyzer) matchForward(name string, kind SymbolKind, params []Param, returnType types.Type) *Symbol {
	for _, sym := range a.symbols.LookupAllOverloads(name) {
		if !sym.IsForward || sym.Kind != kind || len(sym.Params) != len(params) {
			continue
		}
		if kind == FunctionSymbol && (sym.ReturnType == nil || !sym.ReturnType.Equals(returnType)) {
			continue
		}
		same := true
		for i := range params {
			if !sym.Params[i].Type.Equals(params[i].Type) {
				same = false
				break
			}
		}
		if same {
			return sym
		}
	}
	return nil
}

func (a *Analyzer) resolveParams(groups []*ast.ParamGroup) []Param {
	var params []Param
	for _, group := range groups {
		typ := a.resolveTypeExpression(group.Spec, "")
		group.Resolved = typ
		for _, name := range group.Names {
			params = append(params, Param{Name: name.Value, Type: typ, Mode: group.Mode})
		}
	}
	return params
}

// collectLabels gathers the label declarations of a routine (or the main
// program) into the per-routine set, reporting redeclarations.
func collectLabels(decls []ast.Declaration, a *Analyzer) *ident.Map[bool] {
	labels := ident.NewMap[bool]()
	for _, decl := range decls {
		ld, ok := decl.(*ast.LabelDecl)
		if !ok {
			continue
		}
		for _, label := range ld.Labels {
			if labels.Has(label) {
				a.addError(ld.Pos(), "label %s redeclared", label)
				continue
			}
			labels.Set(label, true)
		}
	}
	return labels
}

// ============================================================================
// Type resolution
// ============================================================================

// builtinTypeFor maps built-in type names to their descriptors.
func builtinTypeFor(name string) (types.Type, bool) {
	switch ident.Normalize(name) {
	case "integer":
		return types.INTEGER, true
	case "real":
		return types.REAL, true
	case "boolean":
		return types.BOOLEAN, true
	case "char":
		return types.CHAR, true
	case "byte":
		return types.BYTE, true
	case "string":
		return types.STRING, true
	case "text":
		return types.NewTextFileType(), true
	case "file":
		return types.NewTypedFileType(types.BYTE), true
	}
	return nil, false
}

// resolveTypeExpression turns a syntactic type into a structured descriptor.
// name is the declared type name when resolving a type declaration ("" for
// anonymous uses); enum values and dimension metadata are registered under it.
func (a *Analyzer) resolveTypeExpression(te ast.TypeExpression, name string) types.Type {
	switch t := te.(type) {
	case *ast.TypeRef:
		return a.resolveTypeRef(t)

	case *ast.PointerTypeNode:
		ptr := types.NewPointerType(nil, t.Pointee.Name)
		if sym, ok := a.symbols.Lookup(t.Pointee.Name); ok && sym.Kind == TypeSymbol {
			ptr.Pointee = sym.Type
		} else if bt, ok := builtinTypeFor(t.Pointee.Name); ok {
			ptr.Pointee = bt
		} else {
			// Forward reference; resolved after the enclosing block.
			a.pendingPointers = append(a.pendingPointers, ptr)
		}
		return ptr

	case *ast.ArrayTypeNode:
		return a.resolveArrayType(t)

	case *ast.SetTypeNode:
		elem := a.resolveTypeExpression(t.ElementType, "")
		if !types.IsOrdinal(elem) && elem.TypeKind() != "UNKNOWN" {
			a.addError(t.Pos(), "set element type must be ordinal, got %s", elem.String())
		}
		return types.NewSetType(elem)

	case *ast.FileTypeNode:
		if t.ElementType == nil {
			return types.NewTextFileType()
		}
		return types.NewTypedFileType(a.resolveTypeExpression(t.ElementType, ""))

	case *ast.RecordTypeNode:
		return a.resolveRecordType(t, name)

	case *ast.EnumTypeNode:
		return a.resolveEnumType(t, name)

	case *ast.SubrangeTypeNode:
		return a.resolveSubrangeType(t)

	case *ast.BoundedStringTypeNode:
		size, _, ok := a.evalOrdinalConst(t.Size)
		if !ok || size < 1 || size > 255 {
			a.addError(t.Pos(), "bounded string length must be a constant in 1..255")
			size = 255
		}
		return types.NewBoundedStringType(int(size))
	}

	a.addError(te.Pos(), "unsupported type expression")
	return types.UNKNOWN
}

func (a *Analyzer) resolveTypeRef(t *ast.TypeRef) types.Type {
	if bt, ok := builtinTypeFor(t.Name); ok {
		return bt
	}
	if sym, ok := a.symbols.Lookup(t.Name); ok {
		if sym.Kind == TypeSymbol {
			return sym.Type
		}
		a.addError(t.Pos(), "'%s' is a %s, not a type", t.Name, sym.Kind)
		return types.UNKNOWN
	}
	a.addError(t.Pos(), "unknown type '%s'", t.Name)
	return types.UNKNOWN
}

func (a *Analyzer) resolveArrayType(t *ast.ArrayTypeNode) types.Type {
	var dims []types.Dimension
	for _, d := range t.Dimensions {
		dims = append(dims, a.resolveDimension(d))
	}
	elem := a.resolveTypeExpression(t.ElementType, "")
	return types.NewArrayType(dims, elem)
}

// resolveDimension turns one array bound into a Dimension: a numeric range,
// a char range, or an enumeration domain.
func (a *Analyzer) resolveDimension(d ast.TypeExpression) types.Dimension {
	switch dim := d.(type) {
	case *ast.SubrangeTypeNode:
		low, lowType, okLow := a.evalOrdinalConst(dim.Low)
		high, highType, okHigh := a.evalOrdinalConst(dim.High)
		if !okLow || !okHigh {
			a.addError(dim.Pos(), "array bounds must be constant")
			return types.NewIntDimension(0, 0)
		}
		if low > high {
			a.addError(dim.Pos(), "array low bound %d exceeds high bound %d", low, high)
			return types.NewIntDimension(0, 0)
		}
		if lowType.TypeKind() == "CHAR" && highType.TypeKind() == "CHAR" {
			return types.NewCharDimension(byte(low), byte(high))
		}
		if e, ok := types.Underlying(lowType).(*types.EnumType); ok {
			d := types.NewEnumDimension(e)
			d.Low, d.High = low, high
			return d
		}
		return types.NewIntDimension(low, high)

	case *ast.TypeRef:
		typ := a.resolveTypeRef(dim)
		switch u := types.Underlying(typ).(type) {
		case *types.EnumType:
			return types.NewEnumDimension(u)
		case *types.BasicType:
			if u.TypeKind() == "CHAR" {
				return types.NewCharDimension(0, 255)
			}
			if u.TypeKind() == "BOOLEAN" {
				return types.NewIntDimension(0, 1)
			}
		}
		if sr, ok := typ.(*types.SubrangeType); ok {
			return types.NewIntDimension(sr.LowBound, sr.HighBound)
		}
		a.addError(dim.Pos(), "type '%s' cannot index an array", dim.Name)
		return types.NewIntDimension(0, 0)
	}

	a.addError(d.Pos(), "invalid array dimension")
	return types.NewIntDimension(0, 0)
}

// resolveRecordType flattens the fixed part and every variant branch into a
// single field list. The tag field, when named, is an ordinary field.
func (a *Analyzer) resolveRecordType(t *ast.RecordTypeNode, name string) types.Type {
	var fields []*types.Field
	seen := ident.NewMap[bool]()

	addGroup := func(group *ast.FieldGroup) {
		typ := a.resolveTypeExpression(group.Spec, "")
		for _, n := range group.Names {
			if seen.Has(n.Value) {
				a.addError(n.Pos(), "duplicate record field '%s'", n.Value)
				continue
			}
			seen.Set(n.Value, true)
			fields = append(fields, &types.Field{Name: n.Value, Type: typ})
		}
	}

	for _, group := range t.Fields {
		addGroup(group)
	}

	if t.Variant != nil {
		if t.Variant.TagName != nil {
			tagType := a.resolveTypeRef(t.Variant.TagType)
			if !seen.Has(t.Variant.TagName.Value) {
				seen.Set(t.Variant.TagName.Value, true)
				fields = append(fields, &types.Field{Name: t.Variant.TagName.Value, Type: tagType})
			}
		}
		for _, branch := range t.Variant.Branches {
			for _, group := range branch.Fields {
				addGroup(group)
			}
		}
	}

	return types.NewRecordType(name, fields)
}

// resolveEnumType builds the descriptor and defines one constant symbol per
// value so bare identifiers resolve; ord(Values[i]) = i.
func (a *Analyzer) resolveEnumType(t *ast.EnumTypeNode, name string) types.Type {
	values := make([]string, len(t.Values))
	for i, v := range t.Values {
		values[i] = v.Value
	}
	enum := types.NewEnumType(name, values)
	for _, v := range t.Values {
		if err := a.symbols.Define(v.Value, &Symbol{Kind: ConstSymbol, Type: enum}); err != nil {
			a.addError(v.Pos(), "%s", err.Error())
		}
	}
	return enum
}

func (a *Analyzer) resolveSubrangeType(t *ast.SubrangeTypeNode) types.Type {
	low, lowType, okLow := a.evalOrdinalConst(t.Low)
	high, highType, okHigh := a.evalOrdinalConst(t.High)
	if !okLow || !okHigh {
		a.addError(t.Pos(), "subrange bounds must be ordinal constants")
		return types.UNKNOWN
	}
	if low > high {
		a.addError(t.Pos(), "subrange low bound exceeds high bound")
	}
	base := types.Underlying(lowType)
	if !base.Equals(types.Underlying(highType)) {
		a.addError(t.Pos(), "subrange bounds must share one ordinal type")
	}
	return &types.SubrangeType{BaseType: base, LowBound: low, HighBound: high}
}

// ============================================================================
// Constant evaluation
// ============================================================================

// evalOrdinalConst evaluates a compile-time ordinal constant: integer and
// char literals, negation, enum constants, and references to declared
// constants. Returns the value, its type, and whether evaluation succeeded.
func (a *Analyzer) evalOrdinalConst(e ast.Expression) (int64, types.Type, bool) {
	switch expr := e.(type) {
	case *ast.IntegerLiteral:
		return expr.Value, types.INTEGER, true

	case *ast.CharLiteral:
		return int64(expr.Value), types.CHAR, true

	case *ast.BooleanLiteral:
		if expr.Value {
			return 1, types.BOOLEAN, true
		}
		return 0, types.BOOLEAN, true

	case *ast.UnaryExpression:
		v, t, ok := a.evalOrdinalConst(expr.Operand)
		if !ok {
			return 0, nil, false
		}
		switch expr.Operator {
		case token.MINUS:
			return -v, t, true
		case token.PLUS:
			return v, t, true
		}
		return 0, nil, false

	case *ast.BinaryExpression:
		l, lt, okL := a.evalOrdinalConst(expr.Left)
		r, _, okR := a.evalOrdinalConst(expr.Right)
		if !okL || !okR {
			return 0, nil, false
		}
		switch expr.Operator {
		case token.PLUS:
			return l + r, lt, true
		case token.MINUS:
			return l - r, lt, true
		case token.ASTERISK:
			return l * r, lt, true
		case token.DIV:
			if r == 0 {
				return 0, nil, false
			}
			return l / r, lt, true
		}
		return 0, nil, false

	case *ast.Identifier:
		sym, ok := a.symbols.Lookup(expr.Value)
		if !ok || sym.Kind != ConstSymbol {
			return 0, nil, false
		}
		if enum, isEnum := sym.Type.(*types.EnumType); isEnum {
			if ord, found := enum.Ordinal(expr.Value); found {
				return int64(ord), enum, true
			}
		}
		if sym.ConstValue != nil {
			return a.evalOrdinalConst(sym.ConstValue)
		}
		if ident.Equal(expr.Value, "maxint") {
			return 2147483647, types.INTEGER, true
		}
		return 0, nil, false
	}
	return 0, nil, false
}

// nameType records the declared name on a descriptor so diagnostics and the
// emitter use the user's name.
func nameType(typ types.Type, name string) {
	switch t := typ.(type) {
	case *types.ArrayType:
		if t.Name == "" {
			t.Name = name
		}
	case *types.RecordType:
		if t.Name == "" {
			t.Name = name
		}
	case *types.SetType:
		if t.Name == "" {
			t.Name = name
		}
	case *types.EnumType:
		if t.Name == "" {
			t.Name = name
		}
	case *types.SubrangeType:
		if t.Name == "" {
			t.Name = name
		}
	case *types.BoundedStringType:
		if t.Name == "" {
			t.Name = name
		}
	case *types.PointerType:
		if t.Name == "" {
			t.Name = name
		}
	case *types.FileType:
		if t.Name == "" {
			t.Name = name
		}
	}
}

// labelName normalizes a numeric label for lookup.
func labelName(label string) string {
	if n, err := strconv.Atoi(label); err == nil {
		return strconv.Itoa(n)
	}
	return label
}
