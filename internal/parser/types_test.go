package parser

import (
	"testing"

	"github.com/tpascal/go-tpc/internal/ast"
)

func typeDecl(t *testing.T, src string) *ast.TypeDecl {
	t.Helper()
	prog := parseProgram(t, "program P; type "+src+" begin end.")
	if len(prog.Decls) == 0 {
		t.Fatal("no declarations parsed")
	}
	td, ok := prog.Decls[0].(*ast.TypeDecl)
	if !ok {
		t.Fatalf("not a type decl: %T", prog.Decls[0])
	}
	return td
}

func TestPointerType(t *testing.T) {
	td := typeDecl(t, "PNode = ^TNode;")
	pt, ok := td.Spec.(*ast.PointerTypeNode)
	if !ok || pt.Pointee.Name != "TNode" {
		t.Fatalf("pointer type not parsed: %v", td.Spec)
	}
}

func TestArrayTypes(t *testing.T) {
	td := typeDecl(t, "TGrid = array[1..3, 1..4] of integer;")
	at, ok := td.Spec.(*ast.ArrayTypeNode)
	if !ok {
		t.Fatalf("array type not parsed: %T", td.Spec)
	}
	if len(at.Dimensions) != 2 {
		t.Fatalf("dimensions = %d, want 2", len(at.Dimensions))
	}
	if _, ok := at.Dimensions[0].(*ast.SubrangeTypeNode); !ok {
		t.Errorf("first dimension should be a subrange, got %T", at.Dimensions[0])
	}
	if ref, ok := at.ElementType.(*ast.TypeRef); !ok || ref.Name != "integer" {
		t.Errorf("element type = %v", at.ElementType)
	}

	// Char-range and enum-named dimensions.
	td = typeDecl(t, "TCounts = array['a'..'z'] of byte;")
	at = td.Spec.(*ast.ArrayTypeNode)
	if _, ok := at.Dimensions[0].(*ast.SubrangeTypeNode); !ok {
		t.Errorf("char dimension should be a subrange, got %T", at.Dimensions[0])
	}

	td = typeDecl(t, "TPerColor = array[TColor] of integer;")
	at = td.Spec.(*ast.ArrayTypeNode)
	if ref, ok := at.Dimensions[0].(*ast.TypeRef); !ok || ref.Name != "TColor" {
		t.Errorf("enum dimension = %v", at.Dimensions[0])
	}
}

func TestSetAndFileTypes(t *testing.T) {
	td := typeDecl(t, "TChars = set of char;")
	st, ok := td.Spec.(*ast.SetTypeNode)
	if !ok {
		t.Fatalf("set type not parsed: %T", td.Spec)
	}
	if ref, ok := st.ElementType.(*ast.TypeRef); !ok || ref.Name != "char" {
		t.Errorf("set element = %v", st.ElementType)
	}

	td = typeDecl(t, "TData = file of integer;")
	ft, ok := td.Spec.(*ast.FileTypeNode)
	if !ok || ft.ElementType == nil {
		t.Fatalf("typed file not parsed: %v", td.Spec)
	}

	td = typeDecl(t, "TRaw = file;")
	ft, ok = td.Spec.(*ast.FileTypeNode)
	if !ok || ft.ElementType != nil {
		t.Fatalf("untyped file not parsed: %v", td.Spec)
	}
}

func TestEnumAndSubrangeTypes(t *testing.T) {
	td := typeDecl(t, "TColor = (Red, Green, Blue);")
	et, ok := td.Spec.(*ast.EnumTypeNode)
	if !ok || len(et.Values) != 3 {
		t.Fatalf("enum not parsed: %v", td.Spec)
	}
	if et.Values[1].Value != "Green" {
		t.Errorf("second value = %q", et.Values[1].Value)
	}

	td = typeDecl(t, "TDigit = 0..9;")
	sr, ok := td.Spec.(*ast.SubrangeTypeNode)
	if !ok {
		t.Fatalf("subrange not parsed: %T", td.Spec)
	}
	if low, ok := sr.Low.(*ast.IntegerLiteral); !ok || low.Value != 0 {
		t.Errorf("low bound = %v", sr.Low)
	}

	td = typeDecl(t, "TTemp = -40..50;")
	if _, ok := td.Spec.(*ast.SubrangeTypeNode); !ok {
		t.Fatalf("negative subrange not parsed: %T", td.Spec)
	}

	td = typeDecl(t, "TLower = 'a'..'z';")
	if _, ok := td.Spec.(*ast.SubrangeTypeNode); !ok {
		t.Fatalf("char subrange not parsed: %T", td.Spec)
	}
}

func TestBoundedStringType(t *testing.T) {
	td := typeDecl(t, "TName = string[40];")
	bt, ok := td.Spec.(*ast.BoundedStringTypeNode)
	if !ok {
		t.Fatalf("bounded string not parsed: %T", td.Spec)
	}
	if size, ok := bt.Size.(*ast.IntegerLiteral); !ok || size.Value != 40 {
		t.Errorf("size = %v", bt.Size)
	}
}

func TestRecordType(t *testing.T) {
	td := typeDecl(t, "TPoint = record x, y: integer; label_: string end;")
	rt, ok := td.Spec.(*ast.RecordTypeNode)
	if !ok {
		t.Fatalf("record not parsed: %T", td.Spec)
	}
	if len(rt.Fields) != 2 {
		t.Fatalf("field groups = %d, want 2", len(rt.Fields))
	}
	if len(rt.Fields[0].Names) != 2 || rt.Fields[0].Names[1].Value != "y" {
		t.Errorf("first group = %v", rt.Fields[0])
	}
	if rt.Variant != nil {
		t.Error("unexpected variant part")
	}
}

func TestVariantRecord(t *testing.T) {
	td := typeDecl(t, `TShape = record
    area: real;
    case kind: integer of
      1: (radius: real);
      2, 3: (width, height: real)
  end;`)

	rt, ok := td.Spec.(*ast.RecordTypeNode)
	if !ok {
		t.Fatalf("record not parsed: %T", td.Spec)
	}
	if rt.Variant == nil {
		t.Fatal("variant part missing")
	}
	if rt.Variant.TagName == nil || rt.Variant.TagName.Value != "kind" {
		t.Errorf("tag name = %v", rt.Variant.TagName)
	}
	if rt.Variant.TagType.Name != "integer" {
		t.Errorf("tag type = %q", rt.Variant.TagType.Name)
	}
	if len(rt.Variant.Branches) != 2 {
		t.Fatalf("branches = %d, want 2", len(rt.Variant.Branches))
	}
	second := rt.Variant.Branches[1]
	if len(second.Consts) != 2 {
		t.Errorf("second branch consts = %d, want 2", len(second.Consts))
	}
	if len(second.Fields) != 1 || len(second.Fields[0].Names) != 2 {
		t.Errorf("second branch fields = %v", second.Fields)
	}
}

func TestTaglessVariantRecord(t *testing.T) {
	td := typeDecl(t, `TMix = record
    case boolean of
      true: (i: integer);
      false: (r: real)
  end;`)

	rt := td.Spec.(*ast.RecordTypeNode)
	if rt.Variant == nil || rt.Variant.TagName != nil {
		t.Fatalf("tagless variant part not parsed: %+v", rt.Variant)
	}
	if rt.Variant.TagType.Name != "boolean" {
		t.Errorf("tag type = %q", rt.Variant.TagType.Name)
	}
}

func TestPackedIsIgnored(t *testing.T) {
	td := typeDecl(t, "TRow = packed array[1..8] of byte;")
	if _, ok := td.Spec.(*ast.ArrayTypeNode); !ok {
		t.Fatalf("packed array not parsed: %T", td.Spec)
	}
}
