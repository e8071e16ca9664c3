// Package emitter lowers the analysed AST into a single C++17 translation
// unit. It never mutates the tree; every type decision was resolved by the
// semantic analyser and is read back from the node annotations and the
// symbol table.
package emitter

import (
	"fmt"
	"strings"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/semantic"
	"github.com/tpascal/go-tpc/internal/units"
	"github.com/tpascal/go-tpc/pkg/ident"
)

// Emitter prints one translation unit.
type Emitter struct {
	symbols     *semantic.SymbolTable
	withNames   map[int]string
	out         strings.Builder
	funcStack   []*ast.FunctionDecl
	indentLevel int
	withCounter int
	tempCounter int
	nestedDepth int
}

// New creates an emitter that reads variable and routine information from the
// analyser's symbol table.
func New(symbols *semantic.SymbolTable) *Emitter {
	return &Emitter{
		symbols:   symbols,
		withNames: make(map[int]string),
	}
}

// Emit produces the full translation unit for a program and the units it
// uses.
//
// Layout: runtime prologue, per-unit declarations in load order, forward
// declarations, global constants, types and variables in source order,
// routine bodies in source order, and the entry function that captures
// argc/argv before running the unit initializations and the program block.
func (e *Emitter) Emit(prog *ast.Program, loaded []*units.Unit) string {
	e.out.WriteString(runtimeSource)
	e.line("")
	e.linef("// Translated from program %s.", prog.Name.Value)
	e.line("")

	var inits []*ast.CompoundStatement
	for _, unit := range loaded {
		e.linef("// Unit %s.", unit.Name)
		e.emitGlobalDecls(unit.AST.InterfaceDecls)
		e.emitForwardDecls(unit.AST.InterfaceDecls)
		e.emitGlobalDecls(unit.AST.ImplDecls)
		e.emitRoutineBodies(unit.AST.ImplDecls)
		if unit.AST.Init != nil {
			inits = append(inits, unit.AST.Init)
		}
	}

	e.emitForwardDecls(prog.Decls)
	e.emitGlobalDecls(prog.Decls)
	e.emitRoutineBodies(prog.Decls)

	e.line("static void pascal_main() {")
	e.indentLevel++
	for _, init := range inits {
		for _, stmt := range init.Statements {
			e.emitStatement(stmt)
		}
	}
	if prog.Body != nil {
		for _, stmt := range prog.Body.Statements {
			e.emitStatement(stmt)
		}
	}
	e.indentLevel--
	e.line("}")
	e.line("")
	e.line("int main(int argc, char* argv[]) {")
	e.line("    pascal_argc = argc;")
	e.line("    pascal_argv = argv;")
	e.line("    pascal_main();")
	e.line("    return 0;")
	e.line("}")

	return e.out.String()
}

// emitForwardDecls prints one prototype per forward-marked routine.
func (e *Emitter) emitForwardDecls(decls []ast.Declaration) {
	any := false
	for _, decl := range decls {
		fd, ok := decl.(*ast.FunctionDecl)
		if !ok || !fd.IsForward {
			continue
		}
		e.linef("%s;", e.routineSignature(fd))
		any = true
	}
	if any {
		e.line("")
	}
}

// emitGlobalDecls prints constants, types and variables in source order,
// skipping routines.
func (e *Emitter) emitGlobalDecls(decls []ast.Declaration) {
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.ConstDecl:
			e.emitConstDecl(d)
		case *ast.TypeDecl:
			e.emitTypeDecl(d)
		case *ast.VarDecl:
			e.emitVarDecl(d)
		}
	}
	e.line("")
}

// emitRoutineBodies prints routine definitions in source order, skipping
// nodes that were only forward declarations.
func (e *Emitter) emitRoutineBodies(decls []ast.Declaration) {
	for _, decl := range decls {
		fd, ok := decl.(*ast.FunctionDecl)
		if !ok || fd.IsForward {
			continue
		}
		e.emitRoutine(fd)
		e.line("")
	}
}

// ============================================================================
// Routines
// ============================================================================

// routineSignature renders `ret name(params)` with the parameter passing
// modes lowered to value, reference, or const reference.
func (e *Emitter) routineSignature(fd *ast.FunctionDecl) string {
	ret := "void"
	if fd.ResolvedReturn != nil {
		ret = e.cppType(fd.ResolvedReturn)
	}
	return fmt.Sprintf("static %s %s(%s)", ret, sanitize(fd.Name.Value), e.paramList(fd.Params))
}

func (e *Emitter) paramList(groups []*ast.ParamGroup) string {
	var params []string
	for _, group := range groups {
		typ := e.cppType(group.Resolved)
		for _, name := range group.Names {
			switch group.Mode {
			case ast.VarParam:
				params = append(params, fmt.Sprintf("%s& %s", typ, sanitize(name.Value)))
			case ast.ConstParam:
				params = append(params, fmt.Sprintf("const %s& %s", typ, sanitize(name.Value)))
			default:
				params = append(params, fmt.Sprintf("%s %s", typ, sanitize(name.Value)))
			}
		}
	}
	return strings.Join(params, ", ")
}

// emitRoutine prints a routine definition. Nested routines become
// std::function lambdas so uplevel variable access and recursion both work.
func (e *Emitter) emitRoutine(fd *ast.FunctionDecl) {
	e.funcStack = append(e.funcStack, fd)
	defer func() { e.funcStack = e.funcStack[:len(e.funcStack)-1] }()

	if e.nestedDepth > 0 {
		e.emitNestedRoutine(fd)
		return
	}

	e.linef("%s {", e.routineSignature(fd))
	e.indentLevel++
	e.emitRoutineBody(fd)
	e.indentLevel--
	e.line("}")
}

func (e *Emitter) emitNestedRoutine(fd *ast.FunctionDecl) {
	ret := "void"
	if fd.ResolvedReturn != nil {
		ret = e.cppType(fd.ResolvedReturn)
	}
	var paramTypes []string
	for _, group := range fd.Params {
		typ := e.cppType(group.Resolved)
		for range group.Names {
			switch group.Mode {
			case ast.VarParam:
				paramTypes = append(paramTypes, typ+"&")
			case ast.ConstParam:
				paramTypes = append(paramTypes, "const "+typ+"&")
			default:
				paramTypes = append(paramTypes, typ)
			}
		}
	}
	e.linef("std::function<%s(%s)> %s = [&](%s) -> %s {",
		ret, strings.Join(paramTypes, ", "), sanitize(fd.Name.Value), e.paramList(fd.Params), ret)
	e.indentLevel++
	e.emitRoutineBody(fd)
	e.indentLevel--
	e.line("};")
}

// emitRoutineBody prints the result local, nested declarations, statements
// and the function epilogue.
func (e *Emitter) emitRoutineBody(fd *ast.FunctionDecl) {
	if fd.ResolvedReturn != nil {
		e.linef("%s %s{};", e.cppType(fd.ResolvedReturn), resultVar(fd))
	}

	e.nestedDepth++
	for _, decl := range fd.Decls {
		switch d := decl.(type) {
		case *ast.ConstDecl:
			e.emitConstDecl(d)
		case *ast.TypeDecl:
			e.emitTypeDecl(d)
		case *ast.VarDecl:
			e.emitVarDecl(d)
		case *ast.FunctionDecl:
			if !d.IsForward {
				e.emitRoutine(d)
			}
		}
	}
	e.nestedDepth--

	if fd.Body != nil {
		for _, stmt := range fd.Body.Statements {
			e.emitStatement(stmt)
		}
	}

	if fd.ResolvedReturn != nil {
		e.linef("return %s;", resultVar(fd))
	}
}

// resultVar names the function-result local.
func resultVar(fd *ast.FunctionDecl) string {
	return sanitize(fd.Name.Value) + "_result"
}

// enclosingFunctionNamed returns the innermost function (not procedure) being
// emitted whose name matches, or nil.
func (e *Emitter) enclosingFunctionNamed(name string) *ast.FunctionDecl {
	for i := len(e.funcStack) - 1; i >= 0; i-- {
		fd := e.funcStack[i]
		if fd.ResolvedReturn != nil && ident.Equal(fd.Name.Value, name) {
			return fd
		}
	}
	return nil
}

// currentRoutine returns the routine being emitted, or nil in the main block.
func (e *Emitter) currentRoutine() *ast.FunctionDecl {
	if len(e.funcStack) == 0 {
		return nil
	}
	return e.funcStack[len(e.funcStack)-1]
}

// ============================================================================
// Output helpers
// ============================================================================

func (e *Emitter) line(s string) {
	if s != "" {
		e.out.WriteString(strings.Repeat("    ", e.indentLevel))
	}
	e.out.WriteString(s)
	e.out.WriteString("\n")
}

func (e *Emitter) linef(format string, args ...any) {
	e.line(fmt.Sprintf(format, args...))
}

func (e *Emitter) nextTemp(prefix string) string {
	e.tempCounter++
	return fmt.Sprintf("__%s%d", prefix, e.tempCounter)
}

// cppReserved lists C++ keywords and runtime names that Pascal identifiers
// must not collide with.
var cppReserved = map[string]bool{
	"auto": true, "bool": true, "break": true, "case": true, "catch": true,
	"char": true, "class": true, "const": true, "continue": true,
	"default": true, "delete": true, "do": true, "double": true, "else": true,
	"enum": true, "explicit": true, "extern": true, "false": true,
	"float": true, "for": true, "friend": true, "goto": true, "if": true,
	"inline": true, "int": true, "long": true, "main": true, "namespace": true,
	"new": true, "operator": true, "private": true, "protected": true,
	"public": true, "register": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "template": true, "this": true, "throw": true,
	"true": true, "try": true, "typedef": true, "typename": true,
	"union": true, "unsigned": true, "using": true, "virtual": true,
	"void": true, "volatile": true, "while": true,
}

// sanitize maps a Pascal identifier to a safe C++ identifier.
func sanitize(name string) string {
	if cppReserved[strings.ToLower(name)] {
		return name + "_"
	}
	return name
}
