package semantic

import (
	"fmt"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/types"
	"github.com/tpascal/go-tpc/pkg/ident"
)

// SymbolKind classifies a symbol-table entry.
type SymbolKind int

const (
	ConstSymbol SymbolKind = iota
	VariableSymbol
	ParameterSymbol
	TypeSymbol
	ProcedureSymbol
	FunctionSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case ConstSymbol:
		return "constant"
	case VariableSymbol:
		return "variable"
	case ParameterSymbol:
		return "parameter"
	case TypeSymbol:
		return "type"
	case ProcedureSymbol:
		return "procedure"
	case FunctionSymbol:
		return "function"
	}
	return "symbol"
}

// Param is one declared parameter of a routine symbol. Mode is consumed only
// by the emitter; the analyser treats all modes alike for type checking.
type Param struct {
	Type types.Type
	Name string
	Mode ast.ParamMode
}

// Symbol is one named entity visible in some scope.
type Symbol struct {
	Type       types.Type
	ReturnType types.Type     // routines only
	Decl       *ast.FunctionDecl
	ConstValue ast.Expression // constants only: the declaring expression
	Name       string
	Params     []Param
	Kind       SymbolKind
	Level      int
	IsForward  bool
}

// IsRoutine reports whether the symbol is a procedure or function.
func (s *Symbol) IsRoutine() bool {
	return s.Kind == ProcedureSymbol || s.Kind == FunctionSymbol
}

// scopeFrame is one lexical scope: a bucket list per normalized name.
// Routines get multi-entry buckets (overloads); everything else is unique.
type scopeFrame struct {
	symbols *ident.Map[[]*Symbol]
}

// SymbolTable is a stack of lexical scope frames. Lookup walks innermost to
// outermost. A frame is never re-entered after ExitScope.
type SymbolTable struct {
	frames []*scopeFrame
}

// NewSymbolTable creates a table with the global scope already entered.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.EnterScope()
	return st
}

// EnterScope pushes a new lexical frame.
func (st *SymbolTable) EnterScope() {
	st.frames = append(st.frames, &scopeFrame{symbols: ident.NewMap[[]*Symbol]()})
}

// ExitScope pops the innermost frame.
func (st *SymbolTable) ExitScope() {
	if len(st.frames) > 1 {
		st.frames = st.frames[:len(st.frames)-1]
	}
}

// Level returns the current scope depth; the global scope is level 0.
func (st *SymbolTable) Level() int {
	return len(st.frames) - 1
}

func (st *SymbolTable) current() *scopeFrame {
	return st.frames[len(st.frames)-1]
}

// Define inserts a unique symbol in the current frame. A duplicate definition
// at the same frame is an error.
func (st *SymbolTable) Define(name string, sym *Symbol) error {
	frame := st.current()
	if frame.symbols.Has(name) {
		return fmt.Errorf("identifier '%s' redeclared in the same scope", name)
	}
	sym.Name = name
	sym.Level = st.Level()
	frame.symbols.Set(name, []*Symbol{sym})
	return nil
}

// DefineOverloaded appends a routine symbol to the name's overload bucket in
// the current frame. Buckets live at the frame of the first declaration and
// are never merged across frames. Every entry adopts the first declaration's
// spelling so the whole overload set emits under one canonical name.
func (st *SymbolTable) DefineOverloaded(name string, sym *Symbol) {
	frame := st.current()
	sym.Name = name
	sym.Level = st.Level()
	bucket, _ := frame.symbols.Get(name)
	if len(bucket) > 0 {
		sym.Name = bucket[0].Name
	}
	frame.symbols.Set(name, append(bucket, sym))
}

// Lookup finds the nearest symbol for name, walking frames innermost-first.
// For an overloaded name, the bucket's first entry is returned.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	for i := len(st.frames) - 1; i >= 0; i-- {
		if bucket, ok := st.frames[i].symbols.Get(name); ok && len(bucket) > 0 {
			return bucket[0], true
		}
	}
	return nil, false
}

// LookupAllOverloads returns the full bucket visible from the current scope.
func (st *SymbolTable) LookupAllOverloads(name string) []*Symbol {
	for i := len(st.frames) - 1; i >= 0; i-- {
		if bucket, ok := st.frames[i].symbols.Get(name); ok && len(bucket) > 0 {
			return bucket
		}
	}
	return nil
}

// LookupFunction finds the single overload whose parameter types match
// argTypes element-wise: identity plus the implicit widenings
// (Integer<->Byte, Integer->Real, Char->String, bounded string<->String).
func (st *SymbolTable) LookupFunction(name string, argTypes []types.Type) (*Symbol, bool) {
	for _, sym := range st.LookupAllOverloads(name) {
		if !sym.IsRoutine() || len(sym.Params) != len(argTypes) {
			continue
		}
		match := true
		for i, param := range sym.Params {
			if !signatureMatches(param.Type, argTypes[i]) {
				match = false
				break
			}
		}
		if match {
			return sym, true
		}
	}
	return nil, false
}

// signatureMatches implements the widened identity used for exact overload
// resolution.
func signatureMatches(param, arg types.Type) bool {
	if param == nil || arg == nil {
		return false
	}
	if param.Equals(arg) {
		return true
	}
	pk := types.Underlying(param).TypeKind()
	ak := types.Underlying(arg).TypeKind()
	switch {
	case pk == "INTEGER" && ak == "BYTE", pk == "BYTE" && ak == "INTEGER":
		return true
	case pk == "REAL" && ak == "INTEGER":
		return true
	case pk == "STRING" && ak == "CHAR":
		return true
	case pk == "STRING" && ak == "BOUNDEDSTRING", pk == "BOUNDEDSTRING" && ak == "STRING":
		return true
	}
	return false
}
