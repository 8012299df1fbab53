// Package ir implements the node model of spec.md §3: the scalar/map/list
// value tree with declared types, optionality, the MISSING sentinel, and
// parent-linked ownership, plus the dotted/bracketed path navigation used
// by the access API and the container utilities.
//
// A Node is exclusively owned by its parent container; the parent->child
// edge is strong (Values/Fields hold the children), the child->parent edge
// (Parent, ParentField, ParentIndex) is non-owning and kept consistent by
// every mutation helper in this package.
package ir

// Node is the sum type described in spec.md §3. Type discriminates the
// three variants (scalar/map/list) plus MissingType and NullType, which are
// themselves scalar variants rather than separate booleans, so that a
// MISSING node still carries a Declared kind and a Parent.
type Node struct {
	Type     Type
	Declared Type // declared kind; AnyType accepts any scalar unchanged
	Optional bool

	// Scalar payload. Exactly the field matching Type is meaningful.
	Bool        bool
	Int         int64
	Float       float64
	String      string // string / InterpType raw text / PathType text / EnumType member name
	Bytes       []byte
	EnumOrdinal int
	EnumT       *Enum // non-nil when Type == EnumType or Declared == EnumType

	// Container payload.
	Fields       []*Node // MapType: key nodes, parallel to Values, insertion order
	Values       []*Node // MapType: values; ListType: elements
	ElemDeclared *Type   // optional element-type hint applied to children
	Schema       SchemaBinding

	// KeyDeclared is a map container's declared key type (spec.md:39); the
	// default, via NewMap, is StringType. KeyEnumT carries the enum
	// descriptor when KeyDeclared == EnumType, mirroring EnumT above.
	// PutByKey coerces a key to this type (see CoerceMapKey); Put, the
	// string-keyed writer, stores a StringType key node whatever this says.
	KeyDeclared Type
	KeyEnumT    *Enum

	// Union lists a field's union-of-primitives type hint (spec.md §4.7,
	// §6.2); non-empty only for scalar fields declared by a structured
	// schema as a union. When set, assignment requires an exact arm match
	// rather than the ordinary coercion table (see CoerceAssign).
	Union []Type

	flags flagSet

	Parent      *Node
	ParentField string
	ParentIndex int
}

// SchemaBinding is the opaque interface a container's backing structured
// schema satisfies (spec.md §4.7). It is defined here, rather than imported
// from package schema, to avoid an import cycle; package schema's *Binding
// implements it.
type SchemaBinding interface {
	// HasField reports whether name is a declared field of the schema.
	HasField(name string) bool
	// Open reports whether the container accepts fields beyond the schema
	// (an element-type-hinted Dict, not a closed record).
	Open() bool
}

// Missing returns a new MISSING scalar node declared as kind.
func Missing(kind Type) *Node {
	return &Node{Type: MissingType, Declared: kind}
}

// Null returns a new optional null scalar node declared as kind.
func Null(kind Type) *Node {
	return &Node{Type: NullType, Declared: kind, Optional: true}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Declared: BoolType, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: IntType, Declared: IntType, Int: v}
}

func FromFloat(v float64) *Node {
	return &Node{Type: FloatType, Declared: FloatType, Float: v}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, Declared: StringType, String: v}
}

func FromBytes(v []byte) *Node {
	return &Node{Type: BytesType, Declared: BytesType, Bytes: append([]byte(nil), v...)}
}

// FromInterpolation wraps raw interpolation-bearing text (spec.md §4.2); it
// is syntactically, but not yet semantically, resolved.
func FromInterpolation(text string) *Node {
	return &Node{Type: InterpType, Declared: InterpType, String: text}
}

func FromPath(v string) *Node {
	return &Node{Type: PathType, Declared: PathType, String: v}
}

// NewMap returns an empty, unbound map container with string-typed keys.
func NewMap() *Node {
	return &Node{Type: MapType, Declared: MapType, KeyDeclared: StringType}
}

// NewTypedMap returns an empty map container whose keys are declared as
// keyType rather than NewMap's default StringType (spec.md:39 "Keys may be
// string, integer, boolean, floating, bytes, or enumeration"). Use
// GetByKey/PutByKey/DeleteByKey to address such a container's entries;
// enumType is required when keyType == EnumType.
func NewTypedMap(keyType Type, enumType *Enum) *Node {
	return &Node{Type: MapType, Declared: MapType, KeyDeclared: keyType, KeyEnumT: enumType}
}

// NewList returns an empty list container.
func NewList() *Node {
	return &Node{Type: ListType, Declared: ListType}
}

// IsMissing reports whether n is the MISSING sentinel. MISSING compares
// unequal to null and to every other value (spec.md §4.1).
func (n *Node) IsMissing() bool { return n != nil && n.Type == MissingType }

// IsNull reports whether n holds the null value.
func (n *Node) IsNull() bool { return n != nil && n.Type == NullType }

// IsInterpolation reports whether n holds an unresolved interpolation
// expression.
func (n *Node) IsInterpolation() bool { return n != nil && n.Type == InterpType }

// Root walks Parent links to the root of the tree.
func (n *Node) Root() *Node {
	r := n
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// Len returns the number of children for a container, or 0 for a scalar.
func (n *Node) Len() int {
	switch n.Type {
	case MapType:
		return len(n.Fields)
	case ListType:
		return len(n.Values)
	default:
		return 0
	}
}

// Get returns the value bound to key in a map container, or nil if absent.
// It does not check struct-mode or resolve interpolations; it is the
// low-level primitive used by Path navigation and the merge engine.
func (n *Node) Get(key string) *Node {
	if n.Type != MapType {
		return nil
	}
	for i, f := range n.Fields {
		if keyString(f) == key {
			return n.Values[i]
		}
	}
	return nil
}

// Index returns the i'th element of a list container, or nil if out of
// range.
func (n *Node) Index(i int) *Node {
	if n.Type != ListType || i < 0 || i >= len(n.Values) {
		return nil
	}
	return n.Values[i]
}

// Keys returns a map container's keys in insertion order, as plain strings.
func (n *Node) Keys() []string {
	if n.Type != MapType {
		return nil
	}
	res := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		res[i] = keyString(f)
	}
	return res
}

// put inserts or replaces the value for key in a map container, attaching
// val's parent link. It does not check struct-mode; callers (the access API
// and the merge engine) are responsible for that check.
func (n *Node) put(key string, val *Node) {
	attach(n, val, key, -1)
	for i, f := range n.Fields {
		if keyString(f) == key {
			n.Values[i] = val
			return
		}
	}
	n.Fields = append(n.Fields, FromString(key))
	n.Values = append(n.Values, val)
}

// Put is the exported form of put, for callers (schema binding, merge) that
// build containers field by field outside the full access API.
func (n *Node) Put(key string, val *Node) { n.put(key, val) }

// Delete removes key from a map container, if present.
func (n *Node) Delete(key string) {
	if n.Type != MapType {
		return
	}
	for i, f := range n.Fields {
		if keyString(f) != key {
			continue
		}
		n.Fields = append(n.Fields[:i], n.Fields[i+1:]...)
		n.Values = append(n.Values[:i], n.Values[i+1:]...)
		reindex(n)
		return
	}
}

// Append adds val to the end of a list container.
func (n *Node) Append(val *Node) {
	attach(n, val, "", len(n.Values))
	n.Values = append(n.Values, val)
}

// SetIndex replaces the element at i in a list container.
func (n *Node) SetIndex(i int, val *Node) error {
	if n.Type != ListType {
		return NewTypeError(n, "not a list")
	}
	if i < 0 || i >= len(n.Values) {
		return NewKeyError(n, "index %d out of range (len %d)", i, len(n.Values))
	}
	attach(n, val, "", i)
	n.Values[i] = val
	return nil
}

func attach(parent, child *Node, field string, index int) {
	if child == nil {
		return
	}
	child.Parent = parent
	child.ParentField = field
	child.ParentIndex = index
}

func reindex(n *Node) {
	switch n.Type {
	case MapType:
		for i, v := range n.Values {
			v.ParentIndex = -1
			v.ParentField = keyString(n.Fields[i])
		}
	case ListType:
		for i, v := range n.Values {
			v.ParentIndex = i
		}
	}
}
