package emitter

import (
	"fmt"
	"strings"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/types"
)

// cppType lowers a type descriptor to its C++ spelling.
func (e *Emitter) cppType(t types.Type) string {
	if t == nil {
		return "int32_t"
	}
	switch typ := t.(type) {
	case *types.BasicType:
		switch typ.TypeKind() {
		case "INTEGER":
			return "int32_t"
		case "REAL":
			return "double"
		case "BOOLEAN":
			return "bool"
		case "CHAR":
			return "char"
		case "BYTE":
			return "uint8_t"
		case "STRING":
			return "std::string"
		case "NIL":
			return "void*"
		case "VOID":
			return "void"
		}
		return "int32_t"

	case *types.PointerType:
		if typ.Name != "" {
			return sanitize(typ.Name)
		}
		return e.cppType(typ.Pointee) + "*"

	case *types.ArrayType:
		if typ.Name != "" {
			return sanitize(typ.Name)
		}
		return fmt.Sprintf("std::array<%s, %d>", e.cppType(typ.ElementType), typ.TotalSize())

	case *types.RecordType:
		if typ.Name != "" {
			return sanitize(typ.Name)
		}
		return "struct { " + e.recordFields(typ, " ") + " }"

	case *types.SetType:
		if typ.Name != "" {
			return sanitize(typ.Name)
		}
		if typ.ElementType == nil {
			return "std::set<int32_t>"
		}
		return fmt.Sprintf("std::set<%s>", e.cppType(typ.ElementType))

	case *types.EnumType:
		return sanitize(typ.Name)

	case *types.SubrangeType:
		return e.cppType(typ.BaseType)

	case *types.BoundedStringType:
		if typ.Name != "" {
			return sanitize(typ.Name)
		}
		return fmt.Sprintf("BoundedString<%d>", typ.MaxLength)

	case *types.FileType:
		return "PascalFile"
	}
	return "int32_t"
}

// recordFields renders the flattened field list, one `T name{};` per field.
func (e *Emitter) recordFields(rec *types.RecordType, sep string) string {
	fields := make([]string, len(rec.Fields))
	for i, f := range rec.Fields {
		fields[i] = fmt.Sprintf("%s %s{};", e.cppType(f.Type), sanitize(f.Name))
	}
	return strings.Join(fields, sep)
}

// emitTypeDecl lowers one `type name = ...` entry. Records become structs,
// enumerations become scoped enums plus one alias constant per value, and
// everything else becomes a using-alias.
func (e *Emitter) emitTypeDecl(d *ast.TypeDecl) {
	name := sanitize(d.Name.Value)
	resolved := d.Resolved
	if resolved == nil {
		return
	}

	switch t := resolved.(type) {
	case *types.RecordType:
		if t.Name != "" && !strings.EqualFold(t.Name, d.Name.Value) {
			// Alias of an already-declared record.
			e.linef("using %s = %s;", name, sanitize(t.Name))
			return
		}
		e.linef("struct %s {", name)
		e.indentLevel++
		for _, f := range t.Fields {
			e.linef("%s %s{};", e.cppType(f.Type), sanitize(f.Name))
		}
		e.indentLevel--
		e.line("};")

	case *types.EnumType:
		if t.Name != "" && !strings.EqualFold(t.Name, d.Name.Value) {
			e.linef("using %s = %s;", name, sanitize(t.Name))
			return
		}
		parts := make([]string, len(t.Values))
		for i, v := range t.Values {
			parts[i] = fmt.Sprintf("%s = %d", sanitize(v), i)
		}
		e.linef("enum class %s : int32_t { %s };", name, strings.Join(parts, ", "))
		// Alias each value at top level so bare Pascal identifiers resolve.
		for _, v := range t.Values {
			e.linef("constexpr %s %s = %s::%s;", name, sanitize(v), name, sanitize(v))
		}

	case *types.ArrayType:
		e.linef("using %s = std::array<%s, %d>;", name, e.cppType(t.ElementType), t.TotalSize())

	case *types.SetType:
		elem := "int32_t"
		if t.ElementType != nil {
			elem = e.cppType(t.ElementType)
		}
		e.linef("using %s = std::set<%s>;", name, elem)

	case *types.BoundedStringType:
		e.linef("using %s = BoundedString<%d>;", name, t.MaxLength)

	case *types.PointerType:
		// `type PNode = ^TNode` may precede TNode's own declaration; an
		// elaborated forward declaration keeps the alias compilable.
		if rec, ok := types.Underlying(t.Pointee).(*types.RecordType); ok && rec.Name != "" {
			e.linef("struct %s;", sanitize(rec.Name))
		}
		e.linef("using %s = %s;", name, e.cppType(t.Pointee)+"*")

	case *types.SubrangeType:
		e.linef("using %s = %s;", name, e.cppType(t.BaseType))

	case *types.FileType:
		e.linef("using %s = PascalFile;", name)

	default:
		e.linef("using %s = %s;", name, e.cppType(resolved))
	}
}

// emitConstDecl lowers one `const name = value` entry.
func (e *Emitter) emitConstDecl(d *ast.ConstDecl) {
	t := d.Value.GetType()
	e.linef("const %s %s = %s;", e.cppType(t), sanitize(d.Name.Value), e.emitExpr(d.Value))
}

// emitVarDecl lowers one `n1, n2 : T` entry, value-initializing every
// variable. Anonymous records keep all names in one declaration so they
// share the unnamed struct type; everything else declares one name per line,
// which keeps anonymous pointer spellings (`TNode*`) correct for every name.
func (e *Emitter) emitVarDecl(d *ast.VarDecl) {
	typ := e.cppType(d.Resolved)

	if rec, ok := types.Underlying(d.Resolved).(*types.RecordType); ok && rec.Name == "" {
		names := make([]string, len(d.Names))
		for i, n := range d.Names {
			names[i] = sanitize(n.Value) + "{}"
		}
		e.linef("%s %s;", typ, strings.Join(names, ", "))
		return
	}

	for _, n := range d.Names {
		e.linef("%s %s{};", typ, sanitize(n.Value))
	}
}
