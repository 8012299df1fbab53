package ir

// Truth reports a node's truthiness. Grounded on the teacher's ir.Truth.
func Truth(n *Node) bool {
	switch n.Type {
	case MapType:
		return len(n.Fields) != 0
	case ListType:
		return len(n.Values) != 0
	case StringType:
		return n.String != ""
	case IntType:
		return n.Int != 0
	case FloatType:
		return n.Float != 0
	case BoolType:
		return n.Bool
	case BytesType:
		return len(n.Bytes) != 0
	case NullType, MissingType:
		return false
	default:
		return true
	}
}
