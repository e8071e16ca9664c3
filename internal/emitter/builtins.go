package emitter

import (
	"fmt"
	"strings"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/types"
	"github.com/tpascal/go-tpc/pkg/ident"
)

// emitBuiltin lowers an expression-position built-in call to its inline
// expansion against the runtime prologue.
func (e *Emitter) emitBuiltin(name string, args []ast.Expression, result types.Type) string {
	arg := func(i int) string {
		if i < len(args) {
			return e.emitExpr(args[i])
		}
		return ""
	}
	strArg := func(i int) string {
		if i < len(args) {
			return e.stringOperand(args[i])
		}
		return ""
	}

	switch ident.Normalize(name) {
	// Strings
	case "length":
		return fmt.Sprintf("pascal_length(%s)", strArg(0))
	case "chr":
		return fmt.Sprintf("static_cast<char>(%s)", arg(0))
	case "ord":
		return fmt.Sprintf("static_cast<int32_t>(%s)", arg(0))
	case "pos":
		return fmt.Sprintf("pascal_pos(%s, %s)", strArg(0), strArg(1))
	case "copy":
		return fmt.Sprintf("pascal_copy(%s, %s, %s)", strArg(0), arg(1), arg(2))
	case "insert":
		return fmt.Sprintf("pascal_insert(%s, %s, %s)", strArg(0), arg(1), arg(2))
	case "delete":
		return fmt.Sprintf("pascal_delete(%s, %s, %s)", arg(0), arg(1), arg(2))
	case "concat":
		parts := make([]string, len(args))
		for i := range args {
			parts[i] = e.stringOperand(args[i])
		}
		return "(" + strings.Join(parts, " + ") + ")"
	case "trim":
		return fmt.Sprintf("pascal_trim(%s)", strArg(0))
	case "uppercase":
		return fmt.Sprintf("pascal_uppercase(%s)", strArg(0))
	case "lowercase":
		return fmt.Sprintf("pascal_lowercase(%s)", strArg(0))
	case "stringofchar":
		return fmt.Sprintf("pascal_stringofchar(%s, %s)", arg(0), arg(1))
	case "leftstr":
		return fmt.Sprintf("pascal_leftstr(%s, %s)", strArg(0), arg(1))
	case "rightstr":
		return fmt.Sprintf("pascal_rightstr(%s, %s)", strArg(0), arg(1))
	case "padleft":
		return fmt.Sprintf("pascal_padleft(%s, %s)", strArg(0), arg(1))
	case "padright":
		return fmt.Sprintf("pascal_padright(%s, %s)", strArg(0), arg(1))
	case "upcase":
		return fmt.Sprintf("pascal_upcase(%s)", arg(0))

	// Numerics
	case "abs":
		return fmt.Sprintf("pascal_abs(%s)", arg(0))
	case "sqr":
		return fmt.Sprintf("pascal_sqr(%s)", arg(0))
	case "sqrt":
		return fmt.Sprintf("std::sqrt(%s)", arg(0))
	case "sin":
		return fmt.Sprintf("std::sin(%s)", arg(0))
	case "cos":
		return fmt.Sprintf("std::cos(%s)", arg(0))
	case "tan":
		return fmt.Sprintf("std::tan(%s)", arg(0))
	case "arctan":
		return fmt.Sprintf("std::atan(%s)", arg(0))
	case "ln":
		return fmt.Sprintf("std::log(%s)", arg(0))
	case "exp":
		return fmt.Sprintf("std::exp(%s)", arg(0))
	case "power":
		return fmt.Sprintf("std::pow(%s, %s)", arg(0), arg(1))
	case "round":
		return fmt.Sprintf("pascal_round(%s)", arg(0))
	case "trunc":
		return fmt.Sprintf("static_cast<int32_t>(%s)", arg(0))
	case "odd":
		return fmt.Sprintf("((%s) %% 2 != 0)", arg(0))
	case "succ":
		return e.emitSuccPred(args[0], "+")
	case "pred":
		return e.emitSuccPred(args[0], "-")
	case "random":
		if len(args) == 0 {
			return "pascal_random()"
		}
		return fmt.Sprintf("pascal_random(%s)", arg(0))
	case "randomize":
		return "pascal_randomize()"

	// Conversions
	case "val":
		return fmt.Sprintf("pascal_val(%s, %s, %s)", strArg(0), arg(1), arg(2))
	case "inttostr", "floattostr":
		return fmt.Sprintf("pascal_str(%s)", arg(0))
	case "strtoint":
		return fmt.Sprintf("pascal_strtoint(%s)", strArg(0))
	case "strtofloat":
		return fmt.Sprintf("pascal_strtofloat(%s)", strArg(0))

	// Program environment
	case "paramcount":
		return "pascal_paramcount()"
	case "paramstr":
		return fmt.Sprintf("pascal_paramstr(%s)", arg(0))
	case "ioresult":
		return "pascal_ioresult()"

	// Files
	case "assign":
		return e.emitAssignFile(args)
	case "reset":
		return fmt.Sprintf("%s.reset()", arg(0))
	case "rewrite":
		return fmt.Sprintf("%s.rewrite()", arg(0))
	case "append":
		return fmt.Sprintf("%s.append()", arg(0))
	case "close":
		return fmt.Sprintf("%s.close()", arg(0))
	case "eof":
		if len(args) == 0 {
			return "std::cin.eof()"
		}
		return fmt.Sprintf("%s.eof()", arg(0))
	case "seek":
		return fmt.Sprintf("%s.seek(%s)", arg(0), arg(1))
	case "filepos":
		return fmt.Sprintf("%s.filepos()", arg(0))
	case "filesize":
		return fmt.Sprintf("%s.filesize()", arg(0))
	case "blockread":
		if len(args) == 4 {
			return fmt.Sprintf("%s.blockread(&(%s), %s, %s)", arg(0), arg(1), arg(2), arg(3))
		}
		return fmt.Sprintf("%s.blockread(&(%s), %s)", arg(0), arg(1), arg(2))
	case "blockwrite":
		if len(args) == 4 {
			return fmt.Sprintf("%s.blockwrite(&(%s), %s, %s)", arg(0), arg(1), arg(2), arg(3))
		}
		return fmt.Sprintf("%s.blockwrite(&(%s), %s)", arg(0), arg(1), arg(2))

	// CRT
	case "clrscr":
		return "pascal_clrscr()"
	case "gotoxy":
		return fmt.Sprintf("pascal_gotoxy(%s, %s)", arg(0), arg(1))
	case "wherex":
		return "pascal_wherex()"
	case "wherey":
		return "pascal_wherey()"
	case "textcolor":
		return fmt.Sprintf("pascal_textcolor(%s)", arg(0))
	case "textbackground":
		return fmt.Sprintf("pascal_textbackground(%s)", arg(0))
	case "keypressed":
		return "pascal_keypressed()"
	case "readkey":
		return "pascal_readkey()"
	case "delay":
		return fmt.Sprintf("pascal_delay(%s)", arg(0))

	// DOS
	case "getdate":
		return fmt.Sprintf("pascal_getdate(%s, %s, %s, %s)", arg(0), arg(1), arg(2), arg(3))
	case "gettime":
		return fmt.Sprintf("pascal_gettime(%s, %s, %s, %s)", arg(0), arg(1), arg(2), arg(3))
	}

	// A statement-shaped built-in reached in expression position; keep the
	// output compilable.
	parts := make([]string, len(args))
	for i := range args {
		parts[i] = e.emitExpr(args[i])
	}
	return fmt.Sprintf("pascal_%s(%s)", ident.Normalize(name), strings.Join(parts, ", "))
}

// emitSuccPred steps an ordinal, casting enums through their ordinal.
func (e *Emitter) emitSuccPred(operand ast.Expression, op string) string {
	expr := e.emitExpr(operand)
	if enum, ok := types.Underlying(operand.GetType()).(*types.EnumType); ok {
		return fmt.Sprintf("static_cast<%s>(static_cast<int32_t>(%s) %s 1)",
			sanitize(enum.Name), expr, op)
	}
	return fmt.Sprintf("(%s %s 1)", expr, op)
}

// emitAssignFile binds a file variable to a path; typed files also record
// their element size so seek/filepos work in records.
func (e *Emitter) emitAssignFile(args []ast.Expression) string {
	file := e.emitExpr(args[0])
	path := e.stringOperand(args[1])
	if ft, ok := types.Underlying(args[0].GetType()).(*types.FileType); ok && !ft.IsText() && ft.ElementType != nil {
		return fmt.Sprintf("%s.assign(%s, sizeof(%s))", file, path, e.cppType(ft.ElementType))
	}
	return fmt.Sprintf("%s.assign(%s)", file, path)
}
