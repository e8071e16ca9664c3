package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpascal/go-tpc/internal/ast"
	"github.com/tpascal/go-tpc/internal/lexer"
	"github.com/tpascal/go-tpc/internal/parser"
)

// analyze parses and analyses one program, failing the test on parse errors.
func analyze(t *testing.T, src string) (*Analyzer, *ast.Program) {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors")

	a := NewAnalyzer()
	a.Analyze(prog)
	return a, prog
}

// analyzeOK asserts a clean analysis.
func analyzeOK(t *testing.T, src string) (*Analyzer, *ast.Program) {
	t.Helper()
	a, prog := analyze(t, src)
	for _, err := range a.Errors() {
		t.Errorf("unexpected semantic error: %s", err)
	}
	return a, prog
}

// analyzeErr asserts that analysis reports an error containing substr.
func analyzeErr(t *testing.T, src, substr string) {
	t.Helper()
	a, _ := analyze(t, src)
	require.True(t, a.HasErrors(), "expected a semantic error mentioning %q", substr)
	for _, err := range a.Errors() {
		if strings.Contains(err.Message, substr) {
			return
		}
	}
	t.Errorf("no error mentions %q; got %v", substr, a.Errors())
}

func TestUndefinedIdentifier(t *testing.T) {
	analyzeErr(t, "program P; begin x := 1 end.", "undefined identifier 'x'")
}

func TestRedeclarationInScope(t *testing.T) {
	analyzeErr(t, "program P; var x: integer; x: real; begin end.", "redeclared")
}

func TestAssignmentCompatibility(t *testing.T) {
	analyzeOK(t, `
program P;
var i: integer; r: real; s: string; c: char; b: byte;
begin
  r := i;
  i := b;
  b := i;
  s := c;
  i := r
end.`)

	analyzeErr(t, "program P; var i: integer; s: string; begin i := s end.", "cannot assign")
	analyzeErr(t, "program P; var b: boolean; begin b := 1 end.", "cannot assign")
}

func TestBinaryOperatorTyping(t *testing.T) {
	_, prog := analyzeOK(t, `
program P;
var i: integer; r: real; b: boolean; s: string; c: char;
begin
  i := 1 + 2;
  r := 1 + 2.5;
  r := i / 2;
  i := 7 div 2;
  i := 7 mod 2;
  b := i < 10;
  b := b and (i = 1) or not b;
  s := s + c;
  s := c + c;
  i := i shl 2
end.`)

	// Every annotated expression type is drawn from the closed set and is
	// not Unknown (no errors were reported).
	stmts := prog.Body.Statements
	for _, stmt := range stmts {
		if assign, ok := stmt.(*ast.AssignmentStatement); ok {
			assert.NotEqual(t, "UNKNOWN", assign.Value.GetType().TypeKind(),
				"expression %s should have a resolved type", assign.Value)
		}
	}
}

func TestOperatorTypeMismatch(t *testing.T) {
	analyzeErr(t, "program P; var b: boolean; s: string; begin b := b and s end.", "cannot be applied")
	analyzeErr(t, "program P; var i: integer; s: string; begin i := i - s end.", "cannot be applied")
}

func TestDivisionResultTypes(t *testing.T) {
	analyzeErr(t, "program P; var r: real; i: integer; begin i := r div 2 end.", "cannot be applied")
}

func TestBooleanConditions(t *testing.T) {
	analyzeErr(t, "program P; var i: integer; begin if i then i := 1 end.", "must be Boolean")
	analyzeErr(t, "program P; var i: integer; begin while i do i := 1 end.", "must be Boolean")
	analyzeErr(t, "program P; var i: integer; begin repeat i := 1 until i end.", "must be Boolean")
}

func TestEnumDeclarationAndUse(t *testing.T) {
	analyzeOK(t, `
program P;
type TColor = (Red, Green, Blue);
var c: TColor;
begin
  c := Green;
  if c = Blue then c := Red;
  for c := Red to Blue do begin end;
  case c of
    Red: c := Green;
    Green, Blue: c := Red
  end
end.`)
}

func TestRecordsAndFields(t *testing.T) {
	analyzeOK(t, `
program P;
type TPoint = record x, y: integer end;
var p: TPoint;
begin
  p.x := 3;
  p.y := p.x + 1
end.`)

	analyzeErr(t, `
program P;
type TPoint = record x, y: integer end;
var p: TPoint;
begin
  p.z := 3
end.`, "unknown field 'z'")
}

func TestWithBindsFieldsToTargets(t *testing.T) {
	_, prog := analyzeOK(t, `
program P;
type TPoint = record x, y: integer end;
var p: TPoint;
begin
  with p do
  begin
    x := 3;
    y := 4
  end
end.`)

	withStmt := prog.Body.Statements[0].(*ast.WithStatement)
	body := withStmt.Body.(*ast.CompoundStatement)

	for _, stmt := range body.Statements {
		assign := stmt.(*ast.AssignmentStatement)
		id := assign.Target.(*ast.Identifier)
		require.NotNil(t, id.WithTarget, "bare field %s must bind to the with target", id.Value)
		target, ok := id.WithTarget.(*ast.Identifier)
		require.True(t, ok)
		assert.Equal(t, "p", target.Value)
	}
}

func TestWithInnermostFrameWins(t *testing.T) {
	_, prog := analyzeOK(t, `
program P;
type TInner = record x: integer end;
     TOuter = record x: integer; inner: TInner end;
var o: TOuter;
begin
  with o, inner do
    x := 1
end.`)

	withStmt := prog.Body.Statements[0].(*ast.WithStatement)
	assign := withStmt.Body.(*ast.AssignmentStatement)
	id := assign.Target.(*ast.Identifier)
	require.NotNil(t, id.WithTarget)
	// x resolves against the innermost frame (inner), not o.
	inner, ok := id.WithTarget.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "inner", inner.Value)
}

func TestWithTargetMustBeRecord(t *testing.T) {
	analyzeErr(t, "program P; var i: integer; begin with i do i := 1 end.", "must be a record")
}

func TestOverloadResolution(t *testing.T) {
	src := `
program P;
function Max(a, b: integer): integer;
begin
  if a > b then Max := a else Max := b
end;
function Max(a, b: real): real;
begin
  if a > b then Max := a else Max := b
end;
var i: integer; r: real;
begin
  i := Max(1, 2);
  r := Max(1.5, 2.5)
end.`
	analyzeOK(t, src)
}

func TestOverloadExactMatchBeatsCompatible(t *testing.T) {
	analyzeOK(t, `
program P;
function F(a: integer): integer; begin F := a end;
function F(a: real): real; begin F := a end;
var i: integer;
begin
  i := F(1)
end.`)
}

func TestOverloadAmbiguity(t *testing.T) {
	analyzeErr(t, `
program P;
function F(a: integer; b: real): integer; begin F := a end;
function F(a: real; b: integer): integer; begin F := b end;
var i: integer;
begin
  i := F(1.5, 2.5)
end.`, "ambiguous")
}

func TestOverloadNoMatch(t *testing.T) {
	analyzeErr(t, `
program P;
function F(a: integer): integer; begin F := a end;
var s: string;
begin
  s := F('hi', 'there')
end.`, "no overload")
}

func TestCallUndefinedRoutine(t *testing.T) {
	analyzeErr(t, "program P; begin Frobnicate(1) end.", "undefined procedure or function")
}

func TestBareProcedureStatementIsCall(t *testing.T) {
	_, prog := analyzeOK(t, `
program P;
procedure Ping;
begin
end;
begin
  Ping
end.`)

	stmt := prog.Body.Statements[0].(*ast.ExpressionStatement)
	id := stmt.Expression.(*ast.Identifier)
	assert.True(t, id.AutoCall, "statement-position procedure identifier is a call")
}

func TestBareRoutineWithArgsIsError(t *testing.T) {
	analyzeErr(t, `
program P;
procedure Show(n: integer);
begin
end;
begin
  Show
end.`, "requires arguments")
}

func TestLabelsAndGoto(t *testing.T) {
	analyzeOK(t, `
program P;
label 10;
var i: integer;
begin
  10: i := 1;
  goto 10
end.`)

	analyzeErr(t, "program P; begin goto 99 end.", "goto target 99 not declared")
	analyzeErr(t, "program P; label 5, 5; begin 5: end.", "redeclared")
}

func TestForLoopVariableMustBeOrdinal(t *testing.T) {
	analyzeOK(t, `
program P;
type TColor = (Red, Green, Blue);
var i: integer; c: char; col: TColor;
begin
  for i := 1 to 10 do begin end;
  for c := 'a' to 'z' do begin end;
  for col := Red downto Red do begin end
end.`)

	analyzeErr(t, "program P; var r: real; begin for r := 1 to 10 do begin end end.", "must be ordinal")
}

func TestCaseSelectorMustBeOrdinal(t *testing.T) {
	analyzeErr(t, "program P; var s: string; begin case s of 'a': end end.", "must be ordinal")
}

func TestBreakOutsideLoop(t *testing.T) {
	analyzeErr(t, "program P; begin break end.", "outside a loop")
	analyzeOK(t, "program P; var i: integer; begin while true do break; for i := 1 to 2 do continue end.")
}

func TestSetTypesAndOperations(t *testing.T) {
	analyzeOK(t, `
program P;
type TChars = set of char;
var v, w: TChars; b: boolean;
begin
  v := ['a'..'c', 'x'];
  w := v + ['d'];
  w := v * w;
  w := v - w;
  b := 'b' in v;
  b := v = w
end.`)

	analyzeErr(t, "program P; var v: set of char; i: integer; begin v := v + i end.", "cannot be applied")
	analyzeErr(t, "program P; var i: integer; b: boolean; begin b := 'x' in i end.", "cannot be applied")
}

func TestPointersAndDereference(t *testing.T) {
	analyzeOK(t, `
program P;
type PNode = ^TNode;
     TNode = record value: integer; next: PNode end;
var head, p: PNode; i: integer;
begin
  new(p);
  p^.value := 1;
  p^.next := head;
  head := p;
  i := head^.value;
  head := nil;
  dispose(p)
end.`)

	analyzeErr(t, "program P; var i: integer; begin i := i^ end.", "requires a pointer")
}

func TestAddressOf(t *testing.T) {
	analyzeOK(t, `
program P;
var i: integer; p: ^integer;
begin
  p := @i;
  i := p^
end.`)
}

func TestVariantRecordFieldsAllAccessible(t *testing.T) {
	analyzeOK(t, `
program P;
type TShape = record
  area: real;
  case kind: integer of
    1: (radius: real);
    2: (width, height: real)
end;
var s: TShape;
begin
  s.kind := 1;
  s.radius := 2.0;
  s.width := 3.0;
  s.height := s.radius
end.`)
}

func TestArrayIndexing(t *testing.T) {
	analyzeOK(t, `
program P;
type TGrid = array[1..3, 1..4] of integer;
var g: TGrid; i: integer;
begin
  g[1, 2] := 5;
  i := g[3, 4]
end.`)

	analyzeErr(t, `
program P;
type TGrid = array[1..3, 1..4] of integer;
var g: TGrid;
begin
  g[1] := 5
end.`, "expects 2 indices")

	analyzeErr(t, `
program P;
var a: array[1..3] of integer;
begin
  a['x'] := 1
end.`, "index must be an integer")
}

func TestStringIndexingYieldsChar(t *testing.T) {
	analyzeOK(t, `
program P;
var s: string; c: char;
begin
  c := s[1];
  s[2] := c
end.`)
}

func TestBoundedStrings(t *testing.T) {
	analyzeOK(t, `
program P;
type TName = string[20];
var n: TName; s: string; c: char;
begin
  n := 'hello';
  n := s;
  s := n;
  n := n + c;
  n := c
end.`)
}

func TestSubrangeCompatibility(t *testing.T) {
	analyzeOK(t, `
program P;
type TDigit = 0..9;
var d: TDigit; i: integer;
begin
  d := 5;
  i := d;
  d := i
end.`)
}

func TestFormattedOutsideWriteIsError(t *testing.T) {
	analyzeErr(t, `
program P;
function F(x: integer): integer; begin F := x end;
var i: integer;
begin
  i := F(i:4)
end.`, "formatted arguments")
}

func TestBuiltinsResolve(t *testing.T) {
	analyzeOK(t, `
program P;
var i: integer; r: real; s: string; c: char; b: boolean;
begin
  writeln('x = ', 1, ' ', 2.5, ' ', true);
  write(s:10);
  i := length(s);
  c := chr(65);
  i := ord(c);
  s := copy(s, 1, 3) + inttostr(i);
  i := pos('a', s);
  r := sqrt(2) + sin(r) + abs(r);
  i := abs(i) + sqr(i) + round(r) + trunc(r);
  b := odd(i);
  inc(i);
  dec(i, 2);
  i := random(10);
  randomize;
  s := paramstr(0);
  i := paramcount
end.`)
}

func TestBuiltinArity(t *testing.T) {
	analyzeErr(t, "program P; var s: string; begin s := copy(s, 1) end.", "expects 3 argument(s)")
	analyzeErr(t, "program P; begin gotoxy(1) end.", "expects 2 argument(s)")
}

func TestUserDeclarationShadowsBuiltin(t *testing.T) {
	analyzeOK(t, `
program P;
function Length(a, b: integer): integer;
begin
  Length := a + b
end;
var i: integer;
begin
  i := Length(1, 2)
end.`)
}

func TestUnknownUnitReportsError(t *testing.T) {
	a, _ := analyze(t, "program P; uses NoSuchUnit; begin end.")
	require.True(t, a.HasErrors())
}

func TestBuiltinUnitsAreKnown(t *testing.T) {
	analyzeOK(t, "program P; uses System, Crt, Dos; begin clrscr; textcolor(Red) end.")
}

func TestExitAndHalt(t *testing.T) {
	analyzeOK(t, `
program P;
procedure Quit;
begin
  exit
end;
begin
  halt(1)
end.`)
}
