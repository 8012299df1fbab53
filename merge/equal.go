package merge

import "github.com/hconf-go/hconf/ir"

// valueEqual implements the by-value equality spec.md §4.6 rule 2 needs for
// EXTEND-UNIQUE list merge: structural equality of two nodes' resolved-or-not
// content, ignoring parent links and flags.
func valueEqual(a, b *ir.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case ir.MissingType:
		return true
	case ir.NullType:
		return true
	case ir.BoolType:
		return a.Bool == b.Bool
	case ir.IntType:
		return a.Int == b.Int
	case ir.FloatType:
		return a.Float == b.Float
	case ir.StringType, ir.InterpType, ir.PathType:
		return a.String == b.String
	case ir.BytesType:
		return string(a.Bytes) == string(b.Bytes)
	case ir.EnumType:
		return a.EnumOrdinal == b.EnumOrdinal && a.String == b.String
	case ir.ListType:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !valueEqual(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case ir.MapType:
		if a.Len() != b.Len() {
			return false
		}
		for _, k := range a.Keys() {
			bv := b.Get(k)
			if bv == nil || !valueEqual(a.Get(k), bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
