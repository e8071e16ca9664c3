package types

// Compatible reports whether a value of type src may be assigned to (or
// compared with) a target of type dst.
//
// The rules are identity plus the implicit widenings of the dialect:
// Integer<->Real, Byte<->Integer, Char->String, bounded strings with
// Char/String, an anonymous set literal with any declared set, enum constants
// with their declaring enum, and subranges with their underlying ordinal.
func Compatible(dst, src Type) bool {
	if dst == nil || src == nil {
		return false
	}
	if dst.TypeKind() == "UNKNOWN" || src.TypeKind() == "UNKNOWN" {
		// An earlier error already fired; suppress cascades.
		return true
	}

	d := Underlying(dst)
	s := Underlying(src)

	if d.Equals(s) {
		return true
	}

	dk, sk := d.TypeKind(), s.TypeKind()

	switch dk {
	case "REAL":
		return sk == "INTEGER" || sk == "BYTE"
	case "INTEGER":
		return sk == "BYTE" || sk == "REAL"
	case "BYTE":
		return sk == "INTEGER"
	case "STRING":
		return sk == "CHAR" || sk == "BOUNDEDSTRING"
	case "BOUNDEDSTRING":
		return sk == "CHAR" || sk == "STRING" || sk == "BOUNDEDSTRING"
	case "CHAR":
		// A single-character string constant is assignable to a char.
		return false
	case "POINTER":
		return sk == "NIL" || sk == "POINTER" && d.Equals(s)
	case "NIL":
		return sk == "POINTER"
	case "SET":
		ds, ok1 := d.(*SetType)
		ss, ok2 := s.(*SetType)
		if !ok1 || !ok2 {
			return false
		}
		// An empty or anonymous set literal is compatible with any set.
		if ss.ElementType == nil || ds.ElementType == nil {
			return true
		}
		return Compatible(ds.ElementType, ss.ElementType)
	}

	return false
}

// SameSetType reports whether l and r can participate in set algebra
// together, yielding the declared (named) operand's type.
func SameSetType(l, r Type) (Type, bool) {
	ls, ok1 := Underlying(l).(*SetType)
	rs, ok2 := Underlying(r).(*SetType)
	if !ok1 || !ok2 {
		return nil, false
	}
	if ls.ElementType == nil {
		return rs, true
	}
	if rs.ElementType == nil {
		return ls, true
	}
	if Compatible(ls.ElementType, rs.ElementType) || Compatible(rs.ElementType, ls.ElementType) {
		if ls.Name != "" {
			return ls, true
		}
		return rs, true
	}
	return nil, false
}
