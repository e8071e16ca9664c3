package parser

import (
	"testing"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/lexer"
)

// parseProgram is the test helper: parse source, fail the test on errors.
func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if p.HasErrors() {
		for _, err := range p.Errors() {
			t.Errorf("parse error: %s", err)
		}
		t.FailNow()
	}
	return prog
}

func TestMinimalProgram(t *testing.T) {
	prog := parseProgram(t, "program Hello; begin end.")
	if prog.Name.Value != "Hello" {
		t.Errorf("program name = %q, want Hello", prog.Name.Value)
	}
	if prog.Body == nil || len(prog.Body.Statements) != 0 {
		t.Errorf("expected empty body")
	}
}

func TestProgramHeaderWithParameters(t *testing.T) {
	prog := parseProgram(t, "program Hello(input, output); begin end.")
	if prog.Name.Value != "Hello" {
		t.Errorf("program name = %q", prog.Name.Value)
	}
}

func TestUsesClause(t *testing.T) {
	prog := parseProgram(t, "program P; uses Crt, Dos, MyUnit; begin end.")
	if prog.Uses == nil || len(prog.Uses.Units) != 3 {
		t.Fatalf("uses clause not parsed")
	}
	if prog.Uses.Units[2].Value != "MyUnit" {
		t.Errorf("third unit = %q", prog.Uses.Units[2].Value)
	}
}

func TestVarAndConstDeclarations(t *testing.T) {
	prog := parseProgram(t, `
program P;
const
  Max = 100;
  Greeting = 'hi';
var
  i, j: integer;
  s: string;
begin end.`)

	if len(prog.Decls) != 4 {
		t.Fatalf("decls = %d, want 4", len(prog.Decls))
	}

	c, ok := prog.Decls[0].(*ast.ConstDecl)
	if !ok || c.Name.Value != "Max" {
		t.Fatalf("first decl: %T", prog.Decls[0])
	}
	if lit, ok := c.Value.(*ast.IntegerLiteral); !ok || lit.Value != 100 {
		t.Errorf("Max value not an integer literal")
	}

	v, ok := prog.Decls[2].(*ast.VarDecl)
	if !ok || len(v.Names) != 2 || v.Names[0].Value != "i" || v.Names[1].Value != "j" {
		t.Fatalf("var decl names wrong: %v", prog.Decls[2])
	}
	if ref, ok := v.Spec.(*ast.TypeRef); !ok || ref.Name != "integer" {
		t.Errorf("var type = %v", v.Spec)
	}
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 + 2 = 3", "((1 + 2) = 3)"},
		{"a or b and c", "(a or (b and c))"},
		{"not a and b", "((not a) and b)"},
		{"-a + b", "((-a) + b)"},
		{"a < b = true", "((a < b) = true)"},
		{"x div y mod z", "((x div y) mod z)"},
		{"1 shl 2 + 3", "((1 shl 2) + 3)"},
		{"a <> b", "(a <> b)"},
		{"x in s", "(x in s)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := parseProgram(t, "program P; begin x := "+tt.input+" end.")
			stmt := prog.Body.Statements[0].(*ast.AssignmentStatement)
			if got := stmt.Value.String(); got != tt.expected {
				t.Errorf("String() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestPostfixExpressions(t *testing.T) {
	prog := parseProgram(t, "program P; begin x := p^.next^.value + a[i, j] + f(1, 2).y end.")
	stmt := prog.Body.Statements[0].(*ast.AssignmentStatement)
	if stmt.Value == nil {
		t.Fatal("no value parsed")
	}
	got := stmt.Value.String()
	want := "((p^.next^.value + a[i, j]) + f(1, 2).y)"
	if got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestControlFlowStatements(t *testing.T) {
	prog := parseProgram(t, `
program P;
begin
  if a > 0 then b := 1 else b := 2;
  while a > 0 do a := a - 1;
  repeat
    a := a + 1;
    b := b - 1
  until a > 10;
  for i := 1 to 10 do writeln(i);
  for i := 10 downto 1 do writeln(i)
end.`)

	stmts := prog.Body.Statements
	if len(stmts) != 5 {
		t.Fatalf("statements = %d, want 5", len(stmts))
	}

	ifStmt, ok := stmts[0].(*ast.IfStatement)
	if !ok || ifStmt.Else == nil {
		t.Errorf("if/else not parsed: %T", stmts[0])
	}
	if _, ok := stmts[1].(*ast.WhileStatement); !ok {
		t.Errorf("while not parsed: %T", stmts[1])
	}
	repeatStmt, ok := stmts[2].(*ast.RepeatStatement)
	if !ok || len(repeatStmt.Statements) != 2 {
		t.Errorf("repeat not parsed: %T", stmts[2])
	}
	forUp, ok := stmts[3].(*ast.ForStatement)
	if !ok || forUp.Down {
		t.Errorf("for-to not parsed: %T", stmts[3])
	}
	forDown, ok := stmts[4].(*ast.ForStatement)
	if !ok || !forDown.Down {
		t.Errorf("for-downto not parsed: %T", stmts[4])
	}
}

func TestCaseStatement(t *testing.T) {
	prog := parseProgram(t, `
program P;
begin
  case c of
    1, 2: x := 1;
    3..5: x := 2;
    'a': x := 3
  else
    x := 4;
  end
end.`)

	caseStmt, ok := prog.Body.Statements[0].(*ast.CaseStatement)
	if !ok {
		t.Fatalf("not a case statement: %T", prog.Body.Statements[0])
	}
	if len(caseStmt.Branches) != 3 {
		t.Fatalf("branches = %d, want 3", len(caseStmt.Branches))
	}
	if len(caseStmt.Branches[0].Values) != 2 {
		t.Errorf("first branch values = %d, want 2", len(caseStmt.Branches[0].Values))
	}
	if _, ok := caseStmt.Branches[1].Values[0].(*ast.RangeExpression); !ok {
		t.Errorf("second branch should be a range, got %T", caseStmt.Branches[1].Values[0])
	}
	if caseStmt.Else == nil {
		t.Error("case else missing")
	}
}

func TestWithStatement(t *testing.T) {
	prog := parseProgram(t, "program P; begin with p, q.r do x := 1 end.")
	withStmt, ok := prog.Body.Statements[0].(*ast.WithStatement)
	if !ok || len(withStmt.Targets) != 2 {
		t.Fatalf("with targets not parsed: %T", prog.Body.Statements[0])
	}
}

func TestGotoAndLabels(t *testing.T) {
	prog := parseProgram(t, `
program P;
label 10, 20;
begin
  10: x := 1;
  goto 20;
  20: x := 2
end.`)

	ld, ok := prog.Decls[0].(*ast.LabelDecl)
	if !ok || len(ld.Labels) != 2 || ld.Labels[0] != "10" {
		t.Fatalf("label decl not parsed: %v", prog.Decls[0])
	}
	if _, ok := prog.Body.Statements[0].(*ast.LabeledStatement); !ok {
		t.Errorf("labeled statement not parsed: %T", prog.Body.Statements[0])
	}
	if gotoStmt, ok := prog.Body.Statements[1].(*ast.GotoStatement); !ok || gotoStmt.Label != "20" {
		t.Errorf("goto not parsed: %T", prog.Body.Statements[1])
	}
}

func TestSetLiteralsAndRanges(t *testing.T) {
	prog := parseProgram(t, "program P; begin v := ['a'..'c', 'x']; e := [] end.")
	assign := prog.Body.Statements[0].(*ast.AssignmentStatement)
	lit, ok := assign.Value.(*ast.SetLiteral)
	if !ok || len(lit.Elements) != 2 {
		t.Fatalf("set literal not parsed: %T", assign.Value)
	}
	if _, ok := lit.Elements[0].(*ast.RangeExpression); !ok {
		t.Errorf("first element should be a range, got %T", lit.Elements[0])
	}

	empty := prog.Body.Statements[1].(*ast.AssignmentStatement).Value.(*ast.SetLiteral)
	if len(empty.Elements) != 0 {
		t.Errorf("empty set literal has %d elements", len(empty.Elements))
	}
}

func TestFormattedWriteArguments(t *testing.T) {
	prog := parseProgram(t, "program P; begin writeln(x:8, y:8:2) end.")
	call := prog.Body.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if len(call.Arguments) != 2 {
		t.Fatalf("arguments = %d, want 2", len(call.Arguments))
	}
	first, ok := call.Arguments[0].(*ast.FormattedExpression)
	if !ok || first.Precision != nil {
		t.Errorf("first argument: %T", call.Arguments[0])
	}
	second, ok := call.Arguments[1].(*ast.FormattedExpression)
	if !ok || second.Precision == nil {
		t.Errorf("second argument: %T", call.Arguments[1])
	}
}

func TestErrorRecoveryReportsMultipleErrors(t *testing.T) {
	p := New(lexer.New(`
program P;
var x integer;
var y: ;
begin
  x :=
end.`))
	p.ParseProgram()
	if len(p.Errors()) < 2 {
		t.Errorf("expected multiple errors, got %d", len(p.Errors()))
	}
	for _, err := range p.Errors() {
		if err.Pos.Line == 0 {
			t.Errorf("error without position: %s", err.Message)
		}
	}
}

// Re-printing a valid program and re-parsing it must yield the same tree
// (compared through the canonical printed form).
func TestReprintReparseIsStable(t *testing.T) {
	sources := []string{
		"program P; var i: integer; begin for i := 1 to 3 do writeln(i * i) end.",
		`program P;
type T = record x, y: integer end;
var p: T;
begin
  with p do begin x := 3; y := 4 end;
  writeln(p.x + p.y)
end.`,
		`program P;
const N = 4;
type TColor = (Red, Green, Blue);
var v: set of char; c: TColor;
begin
  v := ['a'..'c', 'x'];
  case c of
    Red: c := Green
  else
    c := Blue;
  end;
  repeat c := Red until c = Red
end.`,
	}

	for _, src := range sources {
		first := parseProgram(t, src)
		printed := first.String()

		p := New(lexer.New(printed))
		second := p.ParseProgram()
		if p.HasErrors() {
			t.Errorf("re-parse of printed form failed: %v\nprinted:\n%s", p.Errors(), printed)
			continue
		}
		if second.String() != printed {
			t.Errorf("re-printed tree differs.\nfirst:\n%s\nsecond:\n%s", printed, second.String())
		}
	}
}
