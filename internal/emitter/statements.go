package emitter

import (
	"fmt"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/types"
	"github.com/tpascal/go-tpc/pkg/ident"
)

// emitStatement lowers one statement.
func (e *Emitter) emitStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.CompoundStatement:
		e.line("{")
		e.indentLevel++
		for _, inner := range st.Statements {
			e.emitStatement(inner)
		}
		e.indentLevel--
		e.line("}")

	case *ast.AssignmentStatement:
		e.emitAssignment(st)

	case *ast.ExpressionStatement:
		e.emitExpressionStatement(st)

	case *ast.IfStatement:
		e.linef("if (%s) {", e.emitExpr(st.Condition))
		e.emitBody(st.Then)
		if st.Else != nil {
			e.line("} else {")
			e.emitBody(st.Else)
		}
		e.line("}")

	case *ast.WhileStatement:
		e.linef("while (%s) {", e.emitExpr(st.Condition))
		e.emitBody(st.Body)
		e.line("}")

	case *ast.RepeatStatement:
		e.line("do {")
		e.indentLevel++
		for _, inner := range st.Statements {
			e.emitStatement(inner)
		}
		e.indentLevel--
		e.linef("} while (!(%s));", e.emitExpr(st.Condition))

	case *ast.ForStatement:
		e.emitFor(st)

	case *ast.CaseStatement:
		e.emitCase(st)

	case *ast.WithStatement:
		e.emitWith(st)

	case *ast.LabeledStatement:
		e.linef("__label_%s:;", st.Label)
		e.emitStatement(st.Stmt)

	case *ast.GotoStatement:
		e.linef("goto __label_%s;", st.Label)

	case *ast.BreakStatement:
		e.line("break;")

	case *ast.ContinueStatement:
		e.line("continue;")

	case *ast.EmptyStatement:
		// nothing
	}
}

// emitBody emits a statement indented one level, flattening compounds.
func (e *Emitter) emitBody(s ast.Statement) {
	e.indentLevel++
	if compound, ok := s.(*ast.CompoundStatement); ok {
		for _, inner := range compound.Statements {
			e.emitStatement(inner)
		}
	} else {
		e.emitStatement(s)
	}
	e.indentLevel--
}

// emitAssignment handles `target := value`, routing assignments to the
// enclosing function's name into its result local.
func (e *Emitter) emitAssignment(st *ast.AssignmentStatement) {
	target := e.emitExpr(st.Target)
	if id, ok := st.Target.(*ast.Identifier); ok && id.WithTarget == nil {
		if fd := e.enclosingFunctionNamed(id.Value); fd != nil {
			target = resultVar(fd)
		}
	}

	value := e.emitExpr(st.Value)
	// A single-character string constant narrows to char.
	if types.Underlying(st.Target.GetType()).TypeKind() == "CHAR" {
		if lit, ok := st.Value.(*ast.StringLiteral); ok && len(lit.Value) == 1 {
			value = charLiteral(lit.Value[0])
		}
	}

	e.linef("%s = %s;", target, value)
}

func (e *Emitter) emitExpressionStatement(st *ast.ExpressionStatement) {
	if call, ok := st.Expression.(*ast.CallExpression); ok && call.Builtin {
		if fn, isIdent := call.Function.(*ast.Identifier); isIdent {
			if e.emitBuiltinStatement(fn.Value, call.Arguments) {
				return
			}
		}
	}
	if id, ok := st.Expression.(*ast.Identifier); ok && id.AutoCall && id.BuiltinCall {
		if e.emitBuiltinStatement(id.Value, nil) {
			return
		}
		e.linef("%s;", e.emitBuiltin(id.Value, nil, id.GetType()))
		return
	}
	e.linef("%s;", e.emitExpr(st.Expression))
}

// emitFor lowers a counted loop. The limit is captured once, matching the
// source language's single evaluation of the final value.
func (e *Emitter) emitFor(st *ast.ForStatement) {
	loopVar := e.emitExpr(st.Variable)
	limit := e.nextTemp("limit")
	varType := types.Underlying(st.Variable.GetType())

	e.line("{")
	e.indentLevel++
	e.linef("const auto %s = %s;", limit, e.emitExpr(st.Limit))

	if enum, isEnum := varType.(*types.EnumType); isEnum {
		enumName := sanitize(enum.Name)
		step := "+ 1"
		cmp := "<="
		if st.Down {
			step = "- 1"
			cmp = ">="
		}
		e.linef("for (%s = %s; static_cast<int32_t>(%s) %s static_cast<int32_t>(%s); %s = static_cast<%s>(static_cast<int32_t>(%s) %s)) {",
			loopVar, e.emitExpr(st.Start), loopVar, cmp, limit, loopVar, enumName, loopVar, step)
	} else {
		cmp, step := "<=", "++"+loopVar
		if st.Down {
			cmp, step = ">=", "--"+loopVar
		}
		e.linef("for (%s = %s; %s %s %s; %s) {", loopVar, e.emitExpr(st.Start), loopVar, cmp, limit, step)
	}

	e.emitBody(st.Body)
	e.line("}")
	e.indentLevel--
	e.line("}")
}

// emitCase lowers a case statement to a switch. Branch lists generate one
// case label per value; range labels expand into their members.
func (e *Emitter) emitCase(st *ast.CaseStatement) {
	selType := types.Underlying(st.Expr.GetType())
	e.linef("switch (%s) {", e.emitExpr(st.Expr))

	for _, branch := range st.Branches {
		for _, value := range branch.Values {
			if rng, ok := value.(*ast.RangeExpression); ok {
				low, okLow := e.constOrdinal(rng.Low)
				high, okHigh := e.constOrdinal(rng.High)
				if okLow && okHigh {
					for v := low; v <= high; v++ {
						e.linef("case %s:", e.caseLabel(v, selType))
					}
					continue
				}
			}
			e.linef("case %s:", e.emitExpr(value))
		}
		e.line("{")
		e.emitBody(branch.Body)
		e.indentLevel++
		e.line("break;")
		e.indentLevel--
		e.line("}")
	}

	if st.Else != nil {
		e.line("default:")
		e.line("{")
		e.emitBody(st.Else)
		e.indentLevel++
		e.line("break;")
		e.indentLevel--
		e.line("}")
	}

	e.line("}")
}

// caseLabel renders one expanded range member in the selector's type.
func (e *Emitter) caseLabel(v int64, selType types.Type) string {
	switch t := selType.(type) {
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

// emitWith opens one scoped block per target. Simple lvalue targets are
// referenced directly at each bound field access; computed targets get a
// reference alias so they evaluate once.
func (e *Emitter) emitWith(st *ast.WithStatement) {
	opened := 0
	for _, target := range st.Targets {
		index := e.withCounter
		e.withCounter++
		if isSimpleLValue(target) {
			e.withNames[index] = e.emitExpr(target)
			continue
		}
		alias := fmt.Sprintf("__with%d", index)
		e.line("{")
		e.indentLevel++
		e.linef("auto& %s = %s;", alias, e.emitExpr(target))
		e.withNames[index] = alias
		opened++
	}

	if compound, ok := st.Body.(*ast.CompoundStatement); ok {
		for _, inner := range compound.Statements {
			e.emitStatement(inner)
		}
	} else {
		e.emitStatement(st.Body)
	}

	for ; opened > 0; opened-- {
		e.indentLevel--
		e.line("}")
	}
}

// ============================================================================
// Statement-level built-ins
// ============================================================================

// emitBuiltinStatement lowers the built-ins that expand to one or more full
// statements. Returns false when the name is an expression-shaped built-in.
func (e *Emitter) emitBuiltinStatement(name string, args []ast.Expression) bool {
	switch ident.Normalize(name) {
	case "write":
		e.emitWrite(args, false)
	case "writeln":
		e.emitWrite(args, true)
	case "read":
		e.emitRead(args, false)
	case "readln":
		e.emitRead(args, true)
	case "new":
		e.emitNew(args)
	case "dispose":
		ptr := e.emitExpr(args[0])
		e.linef("delete %s;", ptr)
		e.linef("%s = nullptr;", ptr)
	case "inc":
		e.emitIncDec(args, "+")
	case "dec":
		e.emitIncDec(args, "-")
	case "halt":
		code := "0"
		if len(args) == 1 {
			code = e.emitExpr(args[0])
		}
		e.linef("std::exit(%s);", code)
	case "exit":
		if fd := e.currentRoutine(); fd != nil && fd.ResolvedReturn != nil {
			e.linef("return %s;", resultVar(fd))
		} else {
			e.line("return;")
		}
	case "str":
		e.emitStr(args)
	default:
		return false
	}
	return true
}

// emitWrite lowers write/writeln for the console and for text files.
func (e *Emitter) emitWrite(args []ast.Expression, newline bool) {
	start := 0
	filePrefix := ""
	if len(args) > 0 && isFileExpr(args[0]) {
		filePrefix = e.emitExpr(args[0]) + "."
		start = 1
	}

	for _, arg := range args[start:] {
		if filePrefix == "" {
			e.linef("pascal_write(%s);", e.emitExpr(arg))
		} else {
			e.linef("%swrite(%s);", filePrefix, e.emitExpr(arg))
		}
	}
	if newline {
		if filePrefix == "" {
			e.line("pascal_writeln();")
		} else {
			e.linef("%swriteln();", filePrefix)
		}
	}
}

// emitRead lowers read/readln. After reading the variables, readln consumes
// the rest of the input line unless the last variable already took the line.
func (e *Emitter) emitRead(args []ast.Expression, line bool) {
	start := 0
	filePrefix := ""
	if len(args) > 0 && isFileExpr(args[0]) {
		filePrefix = e.emitExpr(args[0]) + "."
		start = 1
	}

	lastWasLine := false
	for _, arg := range args[start:] {
		kind := types.Underlying(arg.GetType()).TypeKind()
		lastWasLine = kind == "STRING" || kind == "BOUNDEDSTRING"
		if filePrefix == "" {
			e.linef("pascal_read(%s);", e.emitExpr(arg))
		} else {
			e.linef("%sread(%s);", filePrefix, e.emitExpr(arg))
		}
	}

	if line && !lastWasLine {
		if filePrefix == "" {
			e.line("pascal_readln();")
		} else {
			e.linef("%sreadln();", filePrefix)
		}
	}
}

// emitNew allocates a pointer's pointee with value initialization.
func (e *Emitter) emitNew(args []ast.Expression) {
	ptr, ok := types.Underlying(args[0].GetType()).(*types.PointerType)
	if !ok || ptr.Pointee == nil {
		e.linef("%s = nullptr;", e.emitExpr(args[0]))
		return
	}
	e.linef("%s = new %s();", e.emitExpr(args[0]), e.cppType(ptr.Pointee))
}

// emitIncDec lowers inc/dec with the optional stride. Pointer operands use
// native pointer arithmetic, which strides by sizeof(pointee); enums step
// through their ordinals.
func (e *Emitter) emitIncDec(args []ast.Expression, op string) {
	target := e.emitExpr(args[0])
	stride := "1"
	if len(args) == 2 {
		stride = e.emitExpr(args[1])
	}

	if enum, ok := types.Underlying(args[0].GetType()).(*types.EnumType); ok {
		e.linef("%s = static_cast<%s>(static_cast<int32_t>(%s) %s %s);",
			target, sanitize(enum.Name), target, op, stride)
		return
	}
	e.linef("%s %s= %s;", target, op, stride)
}

// emitStr lowers str(x[:w[:p]], s).
func (e *Emitter) emitStr(args []ast.Expression) {
	if len(args) != 2 {
		return
	}
	dest := e.emitExpr(args[1])
	if formatted, ok := args[0].(*ast.FormattedExpression); ok {
		e.linef("%s = %s;", dest, e.emitFormatted(formatted))
		return
	}
	e.linef("%s = pascal_str(%s);", dest, e.emitExpr(args[0]))
}

func isFileExpr(expr ast.Expression) bool {
	_, ok := types.Underlying(expr.GetType()).(*types.FileType)
	return ok
}
