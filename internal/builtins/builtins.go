// Package builtins is the single registry of the System/CRT/DOS built-in
// surface. The analyser consults it for arity and result types; the emitter
// lowers the same names to inline expansions against the runtime prologue.
package builtins

import (
	"github.com/tpascal/go-tpc/internal/types"
	"github.com/tpascal/go-tpc/pkg/ident"
)

// Builtin describes one built-in routine.
type Builtin struct {
	// Result computes the call's result type from the argument types.
	// VOID marks a procedure.
	Result func(args []types.Type) types.Type

	Name string

	// MinArgs/MaxArgs bound the accepted argument count. Ignored when
	// Variadic is set.
	MinArgs int
	MaxArgs int

	// Variadic built-ins (write, writeln, read, readln, concat) bypass
	// arity and argument type checks.
	Variadic bool
}

var registry = ident.NewMap[*Builtin]()

func define(name string, minArgs, maxArgs int, result func([]types.Type) types.Type) {
	registry.Set(name, &Builtin{Name: name, MinArgs: minArgs, MaxArgs: maxArgs, Result: result})
}

func defineVariadic(name string, result func([]types.Type) types.Type) {
	registry.Set(name, &Builtin{Name: name, Variadic: true, Result: result})
}

// Lookup finds a built-in by name, case-insensitively.
func Lookup(name string) (*Builtin, bool) {
	return registry.Get(name)
}

// IsBuiltin reports whether name denotes a built-in routine.
func IsBuiltin(name string) bool {
	return registry.Has(name)
}

func fixed(t types.Type) func([]types.Type) types.Type {
	return func([]types.Type) types.Type { return t }
}

// numericPassthrough yields Real for a Real argument and Integer otherwise
// (abs, sqr).
func numericPassthrough(args []types.Type) types.Type {
	if len(args) == 1 && types.Underlying(args[0]).TypeKind() == "REAL" {
		return types.REAL
	}
	return types.INTEGER
}

// ordinalPassthrough yields the argument's own type (succ, pred).
func ordinalPassthrough(args []types.Type) types.Type {
	if len(args) == 1 {
		return args[0]
	}
	return types.UNKNOWN
}

// randomResult yields Integer for random(n) and Real for random.
func randomResult(args []types.Type) types.Type {
	if len(args) == 0 {
		return types.REAL
	}
	return types.INTEGER
}

func init() {
	// Text I/O
	defineVariadic("write", fixed(types.VOID))
	defineVariadic("writeln", fixed(types.VOID))
	defineVariadic("read", fixed(types.VOID))
	defineVariadic("readln", fixed(types.VOID))
	defineVariadic("concat", fixed(types.STRING))

	// Strings
	define("length", 1, 1, fixed(types.INTEGER))
	define("chr", 1, 1, fixed(types.CHAR))
	define("ord", 1, 1, fixed(types.INTEGER))
	define("pos", 2, 2, fixed(types.INTEGER))
	define("copy", 3, 3, fixed(types.STRING))
	define("insert", 3, 3, fixed(types.VOID))
	define("delete", 3, 3, fixed(types.VOID))
	define("trim", 1, 1, fixed(types.STRING))
	define("uppercase", 1, 1, fixed(types.STRING))
	define("lowercase", 1, 1, fixed(types.STRING))
	define("stringofchar", 2, 2, fixed(types.STRING))
	define("leftstr", 2, 2, fixed(types.STRING))
	define("rightstr", 2, 2, fixed(types.STRING))
	define("padleft", 2, 2, fixed(types.STRING))
	define("padright", 2, 2, fixed(types.STRING))
	define("upcase", 1, 1, fixed(types.CHAR))

	// Numerics
	define("abs", 1, 1, numericPassthrough)
	define("sqr", 1, 1, numericPassthrough)
	define("sqrt", 1, 1, fixed(types.REAL))
	define("sin", 1, 1, fixed(types.REAL))
	define("cos", 1, 1, fixed(types.REAL))
	define("tan", 1, 1, fixed(types.REAL))
	define("arctan", 1, 1, fixed(types.REAL))
	define("ln", 1, 1, fixed(types.REAL))
	define("exp", 1, 1, fixed(types.REAL))
	define("power", 2, 2, fixed(types.REAL))
	define("round", 1, 1, fixed(types.INTEGER))
	define("trunc", 1, 1, fixed(types.INTEGER))
	define("odd", 1, 1, fixed(types.BOOLEAN))
	define("succ", 1, 1, ordinalPassthrough)
	define("pred", 1, 1, ordinalPassthrough)
	define("random", 0, 1, randomResult)
	define("randomize", 0, 0, fixed(types.VOID))

	// Conversions
	define("val", 3, 3, fixed(types.VOID))
	define("str", 2, 2, fixed(types.VOID))
	define("inttostr", 1, 1, fixed(types.STRING))
	define("floattostr", 1, 1, fixed(types.STRING))
	define("strtoint", 1, 1, fixed(types.INTEGER))
	define("strtofloat", 1, 1, fixed(types.REAL))

	// Ordinal update
	define("inc", 1, 2, fixed(types.VOID))
	define("dec", 1, 2, fixed(types.VOID))

	// Heap
	define("new", 1, 1, fixed(types.VOID))
	define("dispose", 1, 1, fixed(types.VOID))

	// Program environment
	define("paramcount", 0, 0, fixed(types.INTEGER))
	define("paramstr", 1, 1, fixed(types.STRING))
	define("halt", 0, 1, fixed(types.VOID))
	define("exit", 0, 0, fixed(types.VOID))

	// Files
	define("assign", 2, 2, fixed(types.VOID))
	define("reset", 1, 1, fixed(types.VOID))
	define("rewrite", 1, 1, fixed(types.VOID))
	define("append", 1, 1, fixed(types.VOID))
	define("close", 1, 1, fixed(types.VOID))
	define("eof", 0, 1, fixed(types.BOOLEAN))
	define("blockread", 3, 4, fixed(types.VOID))
	define("blockwrite", 3, 4, fixed(types.VOID))
	define("seek", 2, 2, fixed(types.VOID))
	define("filepos", 1, 1, fixed(types.INTEGER))
	define("filesize", 1, 1, fixed(types.INTEGER))
	define("ioresult", 0, 0, fixed(types.INTEGER))

	// CRT
	define("clrscr", 0, 0, fixed(types.VOID))
	define("gotoxy", 2, 2, fixed(types.VOID))
	define("wherex", 0, 0, fixed(types.INTEGER))
	define("wherey", 0, 0, fixed(types.INTEGER))
	define("textcolor", 1, 1, fixed(types.VOID))
	define("textbackground", 1, 1, fixed(types.VOID))
	define("keypressed", 0, 0, fixed(types.BOOLEAN))
	define("readkey", 0, 0, fixed(types.CHAR))
	define("delay", 1, 1, fixed(types.VOID))

	// DOS
	define("getdate", 4, 4, fixed(types.VOID))
	define("gettime", 4, 4, fixed(types.VOID))
}
