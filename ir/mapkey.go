package ir

// Node.KeyDeclared and Node.KeyEnumT (see node.go) record a map container's
// declared key type (spec.md:39 "Keys may be string, integer, boolean,
// floating, bytes, or enumeration; key type is uniform per container when
// constrained by a schema"). This file holds the coercion/equality/rendering
// helpers that keep a typed map's Fields consistent, mirroring CoerceAssign's
// own shape (ir/coerce.go) the way that function mirrors spec.md §4.1's
// value-coercion table for keys instead of values.

// CoerceMapKey reconciles key against container's declared key type,
// returning a fresh key node of that type or a ValidationError/TypeError
// naming the offending key. It is the key-side counterpart of CoerceAssign:
// a synthetic target node carries container's KeyDeclared/KeyEnumT the way
// CoerceAssign's target carries a field's Declared/EnumT.
func CoerceMapKey(container, key *Node) (*Node, error) {
	if container.Type != MapType {
		return nil, NewTypeError(container, "not a map")
	}
	if key == nil {
		return nil, NewValidationError(container, nil, "map key cannot be nil")
	}
	target := &Node{Type: container.KeyDeclared, Declared: container.KeyDeclared, EnumT: container.KeyEnumT}
	ck, err := CoerceAssign(target, key)
	if err != nil {
		return nil, err
	}
	if ck.IsMissing() || ck.IsNull() {
		return nil, NewValidationError(container, nil, "map key cannot be MISSING or null")
	}
	return ck, nil
}

// keyEqual reports whether a and b name the same map key: same declared
// type and equal scalar payload. Enum keys compare by ordinal (a member's
// identity), bytes keys by content.
func keyEqual(a, b *Node) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case StringType, PathType:
		return a.String == b.String
	case IntType:
		return a.Int == b.Int
	case BoolType:
		return a.Bool == b.Bool
	case FloatType:
		return a.Float == b.Float
	case BytesType:
		return string(a.Bytes) == string(b.Bytes)
	case EnumType:
		return a.EnumOrdinal == b.EnumOrdinal && a.EnumT == b.EnumT
	default:
		return false
	}
}

// keyString renders a key node as the plain string the string-keyed half of
// the map API (Get/Put/Delete/Keys, ToPlain, merge, the access API) operates
// on. A StringType key renders as itself; any other declared key type
// renders via the same language-neutral stringification CoerceAssign's
// string coercion uses, so an IntType- or EnumType-keyed map still has a
// single, stable string form per key even though GetByKey/PutByKey are the
// type-preserving way to address it.
func keyString(k *Node) string {
	if k.Type == StringType {
		return k.String
	}
	s, err := stringify(k)
	if err != nil {
		return k.Type.String()
	}
	return s
}

// GetByKey returns the value bound to key in a map container, matching by
// value rather than by the string-keyed API's exact string form. It does
// not coerce key; callers that build key from an arbitrary source should
// coerce via CoerceMapKey first the way PutByKey does internally.
func (n *Node) GetByKey(key *Node) *Node {
	if n.Type != MapType {
		return nil
	}
	for i, f := range n.Fields {
		if keyEqual(f, key) {
			return n.Values[i]
		}
	}
	return nil
}

// PutByKey inserts or replaces the value for key in a map container,
// coercing key to the container's declared key type first (spec.md:39). It
// returns the coerced key node actually stored.
func (n *Node) PutByKey(key, val *Node) (*Node, error) {
	if n.Type != MapType {
		return nil, NewTypeError(n, "not a map")
	}
	ck, err := CoerceMapKey(n, key)
	if err != nil {
		return nil, err
	}
	attach(n, val, keyString(ck), -1)
	for i, f := range n.Fields {
		if keyEqual(f, ck) {
			n.Fields[i] = ck
			n.Values[i] = val
			return ck, nil
		}
	}
	n.Fields = append(n.Fields, ck)
	n.Values = append(n.Values, val)
	return ck, nil
}

// DeleteByKey removes key from a map container, if a matching key is
// present.
func (n *Node) DeleteByKey(key *Node) {
	if n.Type != MapType {
		return
	}
	for i, f := range n.Fields {
		if !keyEqual(f, key) {
			continue
		}
		n.Fields = append(n.Fields[:i], n.Fields[i+1:]...)
		n.Values = append(n.Values[:i], n.Values[i+1:]...)
		reindex(n)
		return
	}
}
