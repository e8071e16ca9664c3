// Package types defines the structured type descriptors used by the semantic
// analyser and the emitter.
//
// Every user-declared type is represented by a descriptor value (array with
// dimensions, record with fields, pointer with pointee, set with element,
// subrange with bounds, enum with values, bounded string with max length).
// Descriptors are built once when the declaration is analysed and shared by
// reference afterwards; nothing is ever round-tripped through source text.
package types

// Type is the interface implemented by all type descriptors.
type Type interface {
	// String returns the Pascal-facing name of the type for error messages.
	String() string

	// TypeKind returns a stable uppercase tag for the descriptor's category.
	TypeKind() string

	// Equals reports whether two descriptors denote the same type.
	Equals(other Type) bool
}

// BasicType represents one of the built-in primitive types.
type BasicType struct {
	name string
	kind string
}

func (b *BasicType) String() string   { return b.name }
func (b *BasicType) TypeKind() string { return b.kind }

func (b *BasicType) Equals(other Type) bool {
	o, ok := other.(*BasicType)
	return ok && b.kind == o.kind
}

// Built-in primitive types. These are singletons; compare with Equals or
// directly by pointer.
var (
	INTEGER = &BasicType{name: "Integer", kind: "INTEGER"}
	REAL    = &BasicType{name: "Real", kind: "REAL"}
	BOOLEAN = &BasicType{name: "Boolean", kind: "BOOLEAN"}
	CHAR    = &BasicType{name: "Char", kind: "CHAR"}
	BYTE    = &BasicType{name: "Byte", kind: "BYTE"}
	STRING  = &BasicType{name: "String", kind: "STRING"}
	VOID    = &BasicType{name: "Void", kind: "VOID"}
	UNKNOWN = &BasicType{name: "Unknown", kind: "UNKNOWN"}

	// NIL is the type of the nil literal: a pointer compatible with every
	// pointer type.
	NIL = &BasicType{name: "Nil", kind: "NIL"}
)

// IsNumeric reports whether t is Integer, Real or Byte (or a subrange of one).
func IsNumeric(t Type) bool {
	switch Underlying(t).TypeKind() {
	case "INTEGER", "REAL", "BYTE":
		return true
	}
	return false
}

// IsIntegerLike reports whether t holds integral values (Integer, Byte, or an
// integer subrange).
func IsIntegerLike(t Type) bool {
	switch Underlying(t).TypeKind() {
	case "INTEGER", "BYTE":
		return true
	}
	return false
}

// IsOrdinal reports whether t is legal as a loop variable, case selector or
// set element: integer, byte, char, boolean, enum, or a subrange thereof.
func IsOrdinal(t Type) bool {
	switch Underlying(t).TypeKind() {
	case "INTEGER", "BYTE", "CHAR", "BOOLEAN", "ENUM":
		return true
	}
	return false
}

// IsStringLike reports whether t is String, Char or a bounded string.
func IsStringLike(t Type) bool {
	switch t.TypeKind() {
	case "STRING", "CHAR", "BOUNDEDSTRING":
		return true
	}
	return false
}

// IsPointer reports whether t is a pointer type or the nil literal's type.
func IsPointer(t Type) bool {
	kind := t.TypeKind()
	return kind == "POINTER" || kind == "NIL"
}

// Underlying resolves subranges to their base type. All other descriptors
// are their own underlying type.
func Underlying(t Type) Type {
	for {
		sr, ok := t.(*SubrangeType)
		if !ok {
			return t
		}
		t = sr.BaseType
	}
}
