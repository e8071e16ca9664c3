package types

import (
	"fmt"
	"strings"

	"github.com/tpascal/go-tpc/pkg/ident"
)

// ============================================================================
// Pointer
// ============================================================================

// PointerType represents ^T. Pointee may be nil while a forward pointer
// reference (^TNode before TNode is declared) is being resolved; PointeeName
// always carries the referenced type name.
type PointerType struct {
	Pointee     Type
	Name        string
	PointeeName string
}

// NewPointerType creates a pointer descriptor for the given pointee.
func NewPointerType(pointee Type, pointeeName string) *PointerType {
	return &PointerType{Pointee: pointee, PointeeName: pointeeName}
}

func (p *PointerType) String() string {
	if p.Name != "" {
		return p.Name
	}
	return "^" + p.PointeeName
}

func (p *PointerType) TypeKind() string { return "POINTER" }

func (p *PointerType) Equals(other Type) bool {
	if other.TypeKind() == "NIL" {
		return true
	}
	o, ok := other.(*PointerType)
	if !ok {
		return false
	}
	return ident.Equal(p.PointeeName, o.PointeeName)
}

// ============================================================================
// Array
// ============================================================================

// Dimension is one bound pair of a static array: a numeric range, a char
// range, or an enumeration domain.
type Dimension struct {
	Enum   *EnumType
	Low    int64
	High   int64
	IsChar bool
}

// NewIntDimension creates a numeric [low..high] dimension.
func NewIntDimension(low, high int64) Dimension {
	return Dimension{Low: low, High: high}
}

// NewCharDimension creates a character ['a'..'z'] dimension.
func NewCharDimension(low, high byte) Dimension {
	return Dimension{Low: int64(low), High: int64(high), IsChar: true}
}

// NewEnumDimension creates a dimension spanning a full enumeration domain.
func NewEnumDimension(enum *EnumType) Dimension {
	return Dimension{Enum: enum, Low: 0, High: int64(len(enum.Values) - 1)}
}

// Count returns the number of elements along this dimension.
func (d Dimension) Count() int64 {
	return d.High - d.Low + 1
}

func (d Dimension) String() string {
	if d.Enum != nil {
		return d.Enum.Name
	}
	if d.IsChar {
		return fmt.Sprintf("'%c'..'%c'", byte(d.Low), byte(d.High))
	}
	return fmt.Sprintf("%d..%d", d.Low, d.High)
}

// ArrayType represents a static N-dimensional array.
type ArrayType struct {
	ElementType Type
	Name        string
	Dims        []Dimension
}

// NewArrayType creates an array descriptor.
func NewArrayType(dims []Dimension, elem Type) *ArrayType {
	return &ArrayType{Dims: dims, ElementType: elem}
}

func (a *ArrayType) String() string {
	if a.Name != "" {
		return a.Name
	}
	parts := make([]string, len(a.Dims))
	for i, d := range a.Dims {
		parts[i] = d.String()
	}
	return fmt.Sprintf("array[%s] of %s", strings.Join(parts, ", "), a.ElementType.String())
}

func (a *ArrayType) TypeKind() string { return "ARRAY" }

func (a *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	if !ok || len(a.Dims) != len(o.Dims) || !a.ElementType.Equals(o.ElementType) {
		return false
	}
	for i := range a.Dims {
		if a.Dims[i].Low != o.Dims[i].Low || a.Dims[i].High != o.Dims[i].High {
			return false
		}
	}
	return true
}

// TotalSize returns the flattened element count, the product of all
// dimension counts.
func (a *ArrayType) TotalSize() int64 {
	size := int64(1)
	for _, d := range a.Dims {
		size *= d.Count()
	}
	return size
}

// Strides returns, per dimension, the linear distance between consecutive
// indices along that dimension (row-major order).
func (a *ArrayType) Strides() []int64 {
	strides := make([]int64, len(a.Dims))
	stride := int64(1)
	for i := len(a.Dims) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= a.Dims[i].Count()
	}
	return strides
}

// FlatOffset computes the row-major linear offset for raw Pascal indices.
// Each dimension's low bound is subtracted before applying its stride.
func (a *ArrayType) FlatOffset(indices []int64) int64 {
	strides := a.Strides()
	offset := int64(0)
	for i, idx := range indices {
		offset += (idx - a.Dims[i].Low) * strides[i]
	}
	return offset
}

// ============================================================================
// Record
// ============================================================================

// Field is one named record field.
type Field struct {
	Type Type
	Name string
}

// RecordType represents a record. Variant-part fields are flattened into
// Fields alongside the fixed part; the tag never gates access.
type RecordType struct {
	index  *ident.Map[*Field]
	Name   string
	Fields []*Field
}

// NewRecordType creates a record descriptor from an ordered field list.
func NewRecordType(name string, fields []*Field) *RecordType {
	r := &RecordType{Name: name, Fields: fields, index: ident.NewMap[*Field]()}
	for _, f := range fields {
		r.index.Set(f.Name, f)
	}
	return r
}

func (r *RecordType) String() string {
	if r.Name != "" {
		return r.Name
	}
	return "record"
}

func (r *RecordType) TypeKind() string { return "RECORD" }

func (r *RecordType) Equals(other Type) bool {
	o, ok := other.(*RecordType)
	return ok && (r == o || (r.Name != "" && ident.Equal(r.Name, o.Name)))
}

// Field looks up a field by name, case-insensitively.
func (r *RecordType) Field(name string) (*Field, bool) {
	return r.index.Get(name)
}

// ============================================================================
// Set
// ============================================================================

// SetType represents `set of T` for an ordinal element type.
type SetType struct {
	ElementType Type
	Name        string
}

// NewSetType creates a set descriptor.
func NewSetType(elem Type) *SetType {
	return &SetType{ElementType: elem}
}

func (s *SetType) String() string {
	if s.Name != "" {
		return s.Name
	}
	elem := "Unknown"
	if s.ElementType != nil {
		elem = s.ElementType.String()
	}
	return "set of " + elem
}

func (s *SetType) TypeKind() string { return "SET" }

func (s *SetType) Equals(other Type) bool {
	o, ok := other.(*SetType)
	if !ok {
		return false
	}
	if s.ElementType == nil || o.ElementType == nil {
		return s.ElementType == o.ElementType
	}
	return Underlying(s.ElementType).Equals(Underlying(o.ElementType))
}

// ============================================================================
// Enumeration
// ============================================================================

// EnumType represents an enumeration. Values are in declaration order, so
// ord(Values[i]) = i.
type EnumType struct {
	ordinals *ident.Map[int]
	Name     string
	Values   []string
}

// NewEnumType creates an enum descriptor from the ordered value names.
func NewEnumType(name string, values []string) *EnumType {
	e := &EnumType{Name: name, Values: values, ordinals: ident.NewMap[int]()}
	for i, v := range values {
		e.ordinals.Set(v, i)
	}
	return e
}

func (e *EnumType) String() string {
	if e.Name != "" {
		return e.Name
	}
	return "(" + strings.Join(e.Values, ", ") + ")"
}

func (e *EnumType) TypeKind() string { return "ENUM" }

func (e *EnumType) Equals(other Type) bool {
	o, ok := other.(*EnumType)
	return ok && (e == o || (e.Name != "" && ident.Equal(e.Name, o.Name)))
}

// Ordinal returns the 0-based ordinal of a value name.
func (e *EnumType) Ordinal(value string) (int, bool) {
	return e.ordinals.Get(value)
}

// ============================================================================
// Subrange
// ============================================================================

// SubrangeType represents low..high over an ordinal base type.
type SubrangeType struct {
	BaseType  Type
	Name      string
	LowBound  int64
	HighBound int64
}

func (s *SubrangeType) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%d..%d", s.LowBound, s.HighBound)
}

func (s *SubrangeType) TypeKind() string { return "SUBRANGE" }

func (s *SubrangeType) Equals(other Type) bool {
	o, ok := other.(*SubrangeType)
	if !ok {
		return false
	}
	return s.BaseType.Equals(o.BaseType) && s.LowBound == o.LowBound && s.HighBound == o.HighBound
}

// Contains reports whether v lies within the subrange bounds.
func (s *SubrangeType) Contains(v int64) bool {
	return v >= s.LowBound && v <= s.HighBound
}

// ============================================================================
// Bounded string
// ============================================================================

// BoundedStringType represents string[N]. Assignments from longer strings
// truncate to MaxLength.
type BoundedStringType struct {
	Name      string
	MaxLength int
}

// NewBoundedStringType creates a bounded string descriptor.
func NewBoundedStringType(maxLength int) *BoundedStringType {
	return &BoundedStringType{MaxLength: maxLength}
}

func (b *BoundedStringType) String() string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("string[%d]", b.MaxLength)
}

func (b *BoundedStringType) TypeKind() string { return "BOUNDEDSTRING" }

func (b *BoundedStringType) Equals(other Type) bool {
	o, ok := other.(*BoundedStringType)
	return ok && b.MaxLength == o.MaxLength
}

// ============================================================================
// File
// ============================================================================

// FileType represents text files and `file of T`. ElementType is nil for
// text files.
type FileType struct {
	ElementType Type
	Name        string
}

// NewTextFileType creates the descriptor for `text`.
func NewTextFileType() *FileType {
	return &FileType{}
}

// NewTypedFileType creates a `file of T` descriptor.
func NewTypedFileType(elem Type) *FileType {
	return &FileType{ElementType: elem}
}

func (f *FileType) String() string {
	if f.Name != "" {
		return f.Name
	}
	if f.ElementType == nil {
		return "Text"
	}
	return "file of " + f.ElementType.String()
}

func (f *FileType) TypeKind() string { return "FILE" }

func (f *FileType) Equals(other Type) bool {
	o, ok := other.(*FileType)
	if !ok {
		return false
	}
	if f.ElementType == nil || o.ElementType == nil {
		return f.ElementType == o.ElementType
	}
	return f.ElementType.Equals(o.ElementType)
}

// IsText reports whether this is a text file rather than a typed file.
func (f *FileType) IsText() bool { return f.ElementType == nil }
