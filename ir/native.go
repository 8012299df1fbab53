package ir

import "fmt"

// FromNative builds a fresh, unbound tree from a language-native Go value:
// nil, bool, the integer/float kinds, string, []byte, map[string]any, or
// []any (spec.md §6.2 "language-native map/sequence" construction inputs).
// Declared kinds are AnyType throughout; binding a schema later narrows
// them field by field.
func FromNative(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		n := Null(AnyType)
		return n, nil
	case *Node:
		return x.Clone(), nil
	case bool:
		n := FromBool(x)
		n.Declared = AnyType
		return n, nil
	case int:
		return anyInt(int64(x)), nil
	case int64:
		return anyInt(x), nil
	case float64:
		n := FromFloat(x)
		n.Declared = AnyType
		return n, nil
	case float32:
		n := FromFloat(float64(x))
		n.Declared = AnyType
		return n, nil
	case string:
		n := FromString(x)
		n.Declared = AnyType
		return n, nil
	case []byte:
		n := FromBytes(x)
		n.Declared = AnyType
		return n, nil
	case map[string]any:
		m := NewMap()
		for k, vv := range x {
			child, err := FromNative(vv)
			if err != nil {
				return nil, err
			}
			m.put(k, child)
		}
		return m, nil
	case []any:
		l := NewList()
		for _, vv := range x {
			child, err := FromNative(vv)
			if err != nil {
				return nil, err
			}
			l.Append(child)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("ir.FromNative: unsupported native type %T", v)
	}
}

func anyInt(v int64) *Node {
	n := FromInt(v)
	n.Declared = AnyType
	return n
}

// ToPlain projects n to a language-native value without resolving
// interpolations: maps become map[string]any, lists become []any, MISSING
// becomes the package-level Missing sentinel value MissingMarker, and an
// unresolved interpolation is returned as its raw "${...}" text. Use
// package container's ToContainer for the resolving projection described in
// spec.md §4.8.
func (n *Node) ToPlain() any {
	switch n.Type {
	case MapType:
		// Plain projection renders every key by its string form, even for a
		// typed-key container (NewTypedMap): Go's map[string]any has no
		// slot for a typed key, so an IntType/EnumType/etc. key here is
		// deliberately lossy the same way stringify() is for any other
		// scalar-to-string coercion. GetByKey/PutByKey are the type-
		// preserving way to address such a container.
		m := make(map[string]any, len(n.Fields))
		for i, f := range n.Fields {
			m[keyString(f)] = n.Values[i].ToPlain()
		}
		return m
	case ListType:
		l := make([]any, len(n.Values))
		for i, v := range n.Values {
			l[i] = v.ToPlain()
		}
		return l
	case MissingType:
		return MissingMarker
	case NullType:
		return nil
	case InterpType:
		return "${" + n.String + "}"
	default:
		return rawOf(n)
	}
}

// MissingMarker is the sentinel value ToPlain/ToContainer emit in place of a
// MISSING node, since a plain Go map cannot hold the ir.Node MISSING tag
// itself.
type missingMarker struct{}

func (missingMarker) String() string { return "???" }

var MissingMarker = missingMarker{}

// IsMissingMarker reports whether v is the MissingMarker sentinel, for
// callers outside this package that branch on a ToPlain result (the
// concrete missingMarker type is unexported so they cannot switch on it
// directly).
func IsMissingMarker(v any) bool {
	_, ok := v.(missingMarker)
	return ok
}
