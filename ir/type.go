package ir

import "fmt"

// Type tags every Node. Scalar tags double as "declared kind" values when
// they appear in Node.Declared (spec.md §3, §4.1): a scalar's runtime value
// either matches its declared Type after coercion, equals MissingType, or is
// NullType when the node is optional.
type Type int

const (
	// MissingType is the first-class MISSING sentinel (spec.md §3, §4.1).
	MissingType Type = iota
	NullType
	BoolType
	IntType
	FloatType
	StringType
	BytesType
	EnumType
	// InterpType holds an unresolved interpolation expression; the raw text
	// lives in Node.String.
	InterpType
	// PathType holds a filesystem path, stored as text in Node.String.
	PathType
	// AnyType is a declared-kind wildcard: assignment performs no coercion.
	AnyType
	MapType
	ListType
)

var typeNames = map[Type]string{
	MissingType: "Missing",
	NullType:    "Null",
	BoolType:    "Bool",
	IntType:     "Int",
	FloatType:   "Float",
	StringType:  "String",
	BytesType:   "Bytes",
	EnumType:    "Enum",
	InterpType:  "Interpolation",
	PathType:    "Path",
	AnyType:     "Any",
	MapType:     "Map",
	ListType:    "List",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for k, v := range typeNames {
		if v == string(d) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

// IsContainer reports whether t is MapType or ListType.
func (t Type) IsContainer() bool {
	return t == MapType || t == ListType
}

// IsScalar reports whether t names a concrete scalar kind eligible to be a
// Node.Declared value (every Type except the two container kinds).
func (t Type) IsScalar() bool {
	return !t.IsContainer()
}
