package emitter

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// stripRuntime drops the shared prologue so snapshots capture only the
// program-specific output.
func stripRuntime(out string) string {
	if idx := strings.Index(out, "// Translated from program"); idx >= 0 {
		return out[idx:]
	}
	return out
}

func TestSnapshotArithmeticAndControlFlow(t *testing.T) {
	out := translate(t, `
program P;
var i: integer;
begin
  for i := 1 to 3 do writeln(i * i)
end.`)
	snaps.MatchSnapshot(t, stripRuntime(out))
}

func TestSnapshotRecordsAndWith(t *testing.T) {
	out := translate(t, `
program P;
type T = record x, y: integer end;
var p: T;
begin
  with p do
  begin
    x := 3;
    y := 4
  end;
  writeln(p.x + p.y)
end.`)
	snaps.MatchSnapshot(t, stripRuntime(out))
}

func TestSnapshotPointerList(t *testing.T) {
	out := translate(t, `
program P;
type PNode = ^TNode;
     TNode = record value: integer; next: PNode end;
var head, p: PNode;
begin
  head := nil;
  new(p);
  p^.value := 1;
  p^.next := head;
  head := p;
  while head <> nil do
  begin
    writeln(head^.value);
    head := head^.next
  end
end.`)
	snaps.MatchSnapshot(t, stripRuntime(out))
}

func TestSnapshotOverloadResolution(t *testing.T) {
	out := translate(t, `
program P;
function Max(a, b: integer): integer;
begin
  if a > b then Max := a else Max := b
end;
function Max(a, b: real): real;
begin
  if a > b then Max := a else Max := b
end;
begin
  writeln(Max(1, 2), ' ', Max(1.5, 2.5))
end.`)
	snaps.MatchSnapshot(t, stripRuntime(out))
}
