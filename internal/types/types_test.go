package types

import "testing"

func TestBasicTypes(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
		kind     string
	}{
		{INTEGER, "Integer", "INTEGER"},
		{REAL, "Real", "REAL"},
		{BOOLEAN, "Boolean", "BOOLEAN"},
		{CHAR, "Char", "CHAR"},
		{BYTE, "Byte", "BYTE"},
		{STRING, "String", "STRING"},
		{VOID, "Void", "VOID"},
		{UNKNOWN, "Unknown", "UNKNOWN"},
		{NIL, "Nil", "NIL"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.typ.String() != tt.expected {
				t.Errorf("String() = %v, want %v", tt.typ.String(), tt.expected)
			}
			if tt.typ.TypeKind() != tt.kind {
				t.Errorf("TypeKind() = %v, want %v", tt.typ.TypeKind(), tt.kind)
			}
		})
	}
}

func TestBasicTypeEquality(t *testing.T) {
	if !INTEGER.Equals(INTEGER) || !REAL.Equals(REAL) {
		t.Error("basic types should equal themselves")
	}
	if INTEGER.Equals(REAL) || CHAR.Equals(STRING) {
		t.Error("distinct basic types should not be equal")
	}
}

func TestClassifiers(t *testing.T) {
	digit := &SubrangeType{BaseType: INTEGER, LowBound: 0, HighBound: 9}
	colors := NewEnumType("TColor", []string{"Red", "Green", "Blue"})

	if !IsNumeric(INTEGER) || !IsNumeric(REAL) || !IsNumeric(BYTE) || !IsNumeric(digit) {
		t.Error("IsNumeric misclassifies")
	}
	if IsNumeric(STRING) || IsNumeric(colors) {
		t.Error("IsNumeric accepts non-numerics")
	}
	if !IsOrdinal(INTEGER) || !IsOrdinal(CHAR) || !IsOrdinal(BOOLEAN) || !IsOrdinal(colors) || !IsOrdinal(digit) {
		t.Error("IsOrdinal misclassifies")
	}
	if IsOrdinal(REAL) || IsOrdinal(STRING) {
		t.Error("IsOrdinal accepts non-ordinals")
	}
	if !IsStringLike(STRING) || !IsStringLike(CHAR) || !IsStringLike(NewBoundedStringType(10)) {
		t.Error("IsStringLike misclassifies")
	}
}

func TestUnderlyingResolvesSubranges(t *testing.T) {
	digit := &SubrangeType{BaseType: INTEGER, LowBound: 0, HighBound: 9}
	nested := &SubrangeType{BaseType: digit, LowBound: 1, HighBound: 5}
	if Underlying(nested) != INTEGER {
		t.Errorf("Underlying(nested subrange) = %v, want Integer", Underlying(nested))
	}
	if Underlying(CHAR) != CHAR {
		t.Error("Underlying of a basic type should be itself")
	}
}

func TestEnumOrdinals(t *testing.T) {
	colors := NewEnumType("TColor", []string{"Red", "Green", "Blue"})

	for i, name := range colors.Values {
		ord, ok := colors.Ordinal(name)
		if !ok || ord != i {
			t.Errorf("Ordinal(%s) = %d, %v, want %d", name, ord, ok, i)
		}
	}
	if _, ok := colors.Ordinal("Purple"); ok {
		t.Error("Ordinal should fail for unknown values")
	}
	if ord, ok := colors.Ordinal("GREEN"); !ok || ord != 1 {
		t.Error("Ordinal should be case-insensitive")
	}
}

func TestArrayMetadata(t *testing.T) {
	arr := NewArrayType([]Dimension{
		NewIntDimension(1, 3),
		NewIntDimension(1, 4),
		NewIntDimension(0, 1),
	}, INTEGER)

	if arr.TotalSize() != 24 {
		t.Errorf("TotalSize() = %d, want 24", arr.TotalSize())
	}

	strides := arr.Strides()
	expected := []int64{8, 2, 1}
	for i := range expected {
		if strides[i] != expected[i] {
			t.Errorf("Strides()[%d] = %d, want %d", i, strides[i], expected[i])
		}
	}
}

// The flattened offset must match the reference row-major formula for every
// in-range index combination.
func TestFlatOffsetMatchesRowMajorReference(t *testing.T) {
	arr := NewArrayType([]Dimension{
		NewIntDimension(2, 5),
		NewIntDimension(-1, 1),
		NewIntDimension(1, 7),
	}, REAL)

	reference := func(i, j, k int64) int64 {
		return (i-2)*(3*7) + (j-(-1))*7 + (k - 1)
	}

	for i := int64(2); i <= 5; i++ {
		for j := int64(-1); j <= 1; j++ {
			for k := int64(1); k <= 7; k++ {
				got := arr.FlatOffset([]int64{i, j, k})
				want := reference(i, j, k)
				if got != want {
					t.Fatalf("FlatOffset(%d,%d,%d) = %d, want %d", i, j, k, got, want)
				}
				if got < 0 || got >= arr.TotalSize() {
					t.Fatalf("offset %d out of bounds [0, %d)", got, arr.TotalSize())
				}
			}
		}
	}
}

func TestCharAndEnumDimensions(t *testing.T) {
	colors := NewEnumType("TColor", []string{"Red", "Green", "Blue"})

	charDim := NewCharDimension('a', 'e')
	if charDim.Count() != 5 || !charDim.IsChar {
		t.Errorf("char dimension: count = %d", charDim.Count())
	}

	enumDim := NewEnumDimension(colors)
	if enumDim.Count() != 3 || enumDim.Enum != colors {
		t.Errorf("enum dimension: count = %d", enumDim.Count())
	}
}

func TestRecordFields(t *testing.T) {
	rec := NewRecordType("TPoint", []*Field{
		{Name: "x", Type: INTEGER},
		{Name: "y", Type: INTEGER},
	})

	if f, ok := rec.Field("X"); !ok || f.Type != INTEGER {
		t.Error("field lookup should be case-insensitive")
	}
	if _, ok := rec.Field("z"); ok {
		t.Error("unknown field should not resolve")
	}
}

func TestSubrangeContains(t *testing.T) {
	digit := &SubrangeType{BaseType: INTEGER, LowBound: 0, HighBound: 9}
	if !digit.Contains(0) || !digit.Contains(9) || !digit.Contains(5) {
		t.Error("Contains should accept in-range values")
	}
	if digit.Contains(-1) || digit.Contains(10) {
		t.Error("Contains should reject out-of-range values")
	}
}

func TestCompatibility(t *testing.T) {
	colors := NewEnumType("TColor", []string{"Red", "Green", "Blue"})
	shapes := NewEnumType("TShape", []string{"Circle", "Square"})
	bounded := NewBoundedStringType(10)
	digit := &SubrangeType{BaseType: INTEGER, LowBound: 0, HighBound: 9}
	node := NewRecordType("TNode", nil)
	pNode := NewPointerType(node, "TNode")

	tests := []struct {
		name     string
		dst, src Type
		expected bool
	}{
		{"identity", INTEGER, INTEGER, true},
		{"real from integer", REAL, INTEGER, true},
		{"integer from real", INTEGER, REAL, true},
		{"integer from byte", INTEGER, BYTE, true},
		{"byte from integer", BYTE, INTEGER, true},
		{"string from char", STRING, CHAR, true},
		{"char from string", CHAR, STRING, false},
		{"bounded from string", bounded, STRING, true},
		{"bounded from char", bounded, CHAR, true},
		{"string from bounded", STRING, bounded, true},
		{"enum identity", colors, colors, true},
		{"distinct enums", colors, shapes, false},
		{"subrange to base", INTEGER, digit, true},
		{"base to subrange", digit, INTEGER, true},
		{"pointer from nil", pNode, NIL, true},
		{"integer from string", INTEGER, STRING, false},
		{"boolean from integer", BOOLEAN, INTEGER, false},
		{"anonymous set to declared", NewSetType(CHAR), NewSetType(nil), true},
		{"set of char to set of char", NewSetType(CHAR), NewSetType(CHAR), true},
		{"set of char to set of enum", NewSetType(colors), NewSetType(CHAR), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compatible(tt.dst, tt.src); got != tt.expected {
				t.Errorf("Compatible(%v, %v) = %v, want %v", tt.dst, tt.src, got, tt.expected)
			}
		})
	}
}

func TestSameSetType(t *testing.T) {
	chars := NewSetType(CHAR)
	chars.Name = "TCharSet"
	anon := NewSetType(nil)

	result, ok := SameSetType(chars, anon)
	if !ok || result != chars {
		t.Errorf("named set with anonymous literal: got %v, %v", result, ok)
	}
	result, ok = SameSetType(anon, chars)
	if !ok || result != chars {
		t.Errorf("anonymous literal with named set: got %v, %v", result, ok)
	}
	if _, ok := SameSetType(chars, INTEGER); ok {
		t.Error("a non-set operand should not participate in set algebra")
	}
}

func TestPointerEquality(t *testing.T) {
	node := NewRecordType("TNode", nil)
	p1 := NewPointerType(node, "TNode")
	p2 := NewPointerType(node, "tnode")
	other := NewPointerType(INTEGER, "Integer")

	if !p1.Equals(p2) {
		t.Error("pointers to the same named type should be equal (case-insensitive)")
	}
	if p1.Equals(other) {
		t.Error("pointers to different pointees should differ")
	}
	if !p1.Equals(NIL) {
		t.Error("every pointer should accept nil")
	}
}
