package parser

import (
	"testing"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/lexer"
)

func TestProcedureDeclaration(t *testing.T) {
	prog := parseProgram(t, `
program P;
procedure Greet(name: string; var count: integer; const prefix: string);
begin
  count := count + 1
end;
begin end.`)

	fd, ok := prog.Decls[0].(*ast.FunctionDecl)
	if !ok || !fd.IsProcedure() {
		t.Fatalf("procedure not parsed: %T", prog.Decls[0])
	}
	if fd.Name.Value != "Greet" {
		t.Errorf("name = %q", fd.Name.Value)
	}
	if len(fd.Params) != 3 {
		t.Fatalf("param groups = %d, want 3", len(fd.Params))
	}
	if fd.Params[0].Mode != ast.ValueParam {
		t.Errorf("first group mode = %v, want value", fd.Params[0].Mode)
	}
	if fd.Params[1].Mode != ast.VarParam {
		t.Errorf("second group mode = %v, want var", fd.Params[1].Mode)
	}
	if fd.Params[2].Mode != ast.ConstParam {
		t.Errorf("third group mode = %v, want const", fd.Params[2].Mode)
	}
	if fd.Body == nil || len(fd.Body.Statements) != 1 {
		t.Errorf("body not parsed")
	}
}

func TestFunctionDeclaration(t *testing.T) {
	prog := parseProgram(t, `
program P;
function Add(a, b: integer): integer;
begin
  Add := a + b
end;
begin end.`)

	fd := prog.Decls[0].(*ast.FunctionDecl)
	if fd.IsProcedure() {
		t.Fatal("function parsed as procedure")
	}
	if ref, ok := fd.ReturnType.(*ast.TypeRef); !ok || ref.Name != "integer" {
		t.Errorf("return type = %v", fd.ReturnType)
	}
	if len(fd.Params) != 1 || len(fd.Params[0].Names) != 2 {
		t.Errorf("params = %v", fd.Params)
	}
}

func TestForwardDeclaration(t *testing.T) {
	prog := parseProgram(t, `
program P;
procedure Later; forward;
procedure Later;
begin
end;
begin end.`)

	first := prog.Decls[0].(*ast.FunctionDecl)
	if !first.IsForward || first.Body != nil {
		t.Errorf("forward declaration: forward=%v body=%v", first.IsForward, first.Body)
	}
	second := prog.Decls[1].(*ast.FunctionDecl)
	if second.IsForward || second.Body == nil {
		t.Errorf("defining occurrence: forward=%v", second.IsForward)
	}
}

func TestNestedRoutines(t *testing.T) {
	prog := parseProgram(t, `
program P;
procedure Outer;
var local: integer;
  function Inner(n: integer): integer;
  begin
    Inner := n + local
  end;
begin
  local := Inner(1)
end;
begin end.`)

	outer := prog.Decls[0].(*ast.FunctionDecl)
	if len(outer.Decls) != 2 {
		t.Fatalf("outer decls = %d, want 2 (var + nested function)", len(outer.Decls))
	}
	inner, ok := outer.Decls[1].(*ast.FunctionDecl)
	if !ok || inner.Name.Value != "Inner" || inner.IsProcedure() {
		t.Fatalf("nested function not parsed: %T", outer.Decls[1])
	}
}

func TestParameterlessRoutineCallStatement(t *testing.T) {
	prog := parseProgram(t, `
program P;
procedure Ping;
begin
end;
begin
  Ping;
  Ping()
end.`)

	if _, ok := prog.Body.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.Identifier); !ok {
		t.Errorf("bare identifier call not parsed")
	}
	if _, ok := prog.Body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.CallExpression); !ok {
		t.Errorf("explicit call not parsed")
	}
}

func TestParseUnit(t *testing.T) {
	p := New(lexer.New(`
unit MathUtils;
interface
uses Helpers;
function Square(x: integer): integer;
implementation
function Square(x: integer): integer;
begin
  Square := x * x
end;
end.`))
	unit := p.ParseUnit()
	if p.HasErrors() {
		for _, err := range p.Errors() {
			t.Errorf("parse error: %s", err)
		}
		t.FailNow()
	}

	if unit.Name.Value != "MathUtils" {
		t.Errorf("unit name = %q", unit.Name.Value)
	}
	if unit.InterfaceUses == nil || len(unit.InterfaceUses.Units) != 1 {
		t.Error("interface uses clause missing")
	}
	if len(unit.InterfaceDecls) != 1 {
		t.Fatalf("interface decls = %d, want 1", len(unit.InterfaceDecls))
	}
	iface := unit.InterfaceDecls[0].(*ast.FunctionDecl)
	if iface.Name.Value != "Square" || iface.Body != nil {
		t.Errorf("interface function should have no body")
	}
	if len(unit.ImplDecls) != 1 {
		t.Fatalf("implementation decls = %d, want 1", len(unit.ImplDecls))
	}
	impl := unit.ImplDecls[0].(*ast.FunctionDecl)
	if impl.Body == nil {
		t.Error("implementation function should have a body")
	}
}

func TestParseUnitWithInitialization(t *testing.T) {
	p := New(lexer.New(`
unit Seeds;
interface
var counter: integer;
implementation
begin
  counter := 1
end.`))
	unit := p.ParseUnit()
	if p.HasErrors() {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	if unit.Init == nil || len(unit.Init.Statements) != 1 {
		t.Error("initialization block not parsed")
	}
}
