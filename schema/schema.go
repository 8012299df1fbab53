// Package schema implements structured-schema binding (spec.md §4.7, C7):
// a declared record type — ordered named fields with a type hint, default,
// and optionality — bound to a map container that then drives runtime
// validation on every subsequent mutation or merge. It is grounded on the
// teacher's schema package: an ordered Field slice plus a process-wide,
// mutex-guarded Registry (schema/registry.go's Register/Lookup/All), and on
// gomap's reflection-based decode for the Go-struct binding path.
package schema

import (
	"fmt"

	"github.com/hconf-go/hconf/ir"
)

// Field is one declared member of a structured schema.
type Field struct {
	Name     string
	Type     ir.Type  // meaningful when Union is empty
	Union    []ir.Type // non-empty for a union-typed field (spec.md §4.7)
	Optional bool

	// ElemDeclared narrows a MapType/ListType field's children, e.g. for a
	// Dict[str,int] or List[int] field.
	ElemDeclared *ir.Type

	// KeyDeclared narrows a MapType field's key type away from the default
	// StringType (spec.md:39), e.g. for a Go map[int]V field. KeyEnumT
	// carries the enum descriptor when *KeyDeclared == ir.EnumType. Both are
	// nil for an ordinary string-keyed map.
	KeyDeclared *ir.Type
	KeyEnumT    *ir.Enum

	// Nested binds a MapType field to another structured schema.
	Nested *Binding

	// EnumT carries the enum descriptor for an EnumType field.
	EnumT *ir.Enum

	Default        *ir.Node
	DefaultFactory func() *ir.Node
}

// Binding is a structured schema: an ordered field list plus whether the
// container additionally accepts fields beyond those declared (an "open"
// record, the way a Dict[str, V] field type is open while a closed record
// is not). Binding implements ir.SchemaBinding.
type Binding struct {
	Name   string
	Fields []Field
	open   bool
}

// NewBinding returns a closed (struct-like) schema named name.
func NewBinding(name string, fields ...Field) *Binding {
	for i := range fields {
		if hasNullArm(fields[i].Union) {
			fields[i].Optional = true
		}
	}
	return &Binding{Name: name, Fields: fields}
}

// NewOpenBinding returns an open schema (e.g. the binding backing a
// Dict[str, V]-typed field): it accepts fields beyond Fields without error
// (spec.md §4.7 "recursive but not recursive-struct").
func NewOpenBinding(name string, fields ...Field) *Binding {
	b := NewBinding(name, fields...)
	b.open = true
	return b
}

func hasNullArm(union []ir.Type) bool {
	for _, t := range union {
		if t == ir.NullType {
			return true
		}
	}
	return false
}

// HasField implements ir.SchemaBinding.
func (b *Binding) HasField(name string) bool {
	_, ok := b.field(name)
	return ok
}

// Open implements ir.SchemaBinding.
func (b *Binding) Open() bool { return b.open }

func (b *Binding) field(name string) (Field, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Instantiate builds a fresh map container bound to b, with every field
// populated from its default (or DefaultFactory, or MISSING when neither is
// given), per spec.md §4.7 "binding a schema produces a map container whose
// per-field child nodes have their declared kind/optionality populated from
// the field metadata".
func Instantiate(b *Binding) *ir.Node {
	root := ir.NewMap()
	root.Schema = b
	for _, f := range b.Fields {
		root.Put(f.Name, instantiateField(f))
	}
	return root
}

func instantiateField(f Field) *ir.Node {
	if f.Nested != nil {
		if f.Type == ir.MapType && f.Nested.Open() && f.KeyDeclared != nil {
			n := ir.NewTypedMap(*f.KeyDeclared, f.KeyEnumT)
			n.Schema = f.Nested
			n.ElemDeclared = f.ElemDeclared
			return n
		}
		return Instantiate(f.Nested)
	}
	var n *ir.Node
	switch {
	case f.DefaultFactory != nil:
		n = f.DefaultFactory()
	case f.Default != nil:
		n = f.Default.Clone()
	default:
		n = ir.Missing(f.Type)
	}
	n.Declared = f.Type
	n.Optional = f.Optional
	if len(f.Union) > 0 {
		n.Union = append([]ir.Type(nil), f.Union...)
	}
	if f.ElemDeclared != nil {
		d := *f.ElemDeclared
		n.ElemDeclared = &d
	}
	if f.EnumT != nil {
		n.EnumT = f.EnumT
	}
	return n
}

// Validate checks a freestanding map literal against b without mutating
// it, the way the access API validates a force_add-free write before
// committing (spec.md §4.5, §4.6 rule 4): every key must be a declared
// field unless b is open.
func Validate(b *Binding, m *ir.Node) error {
	if m.Type != ir.MapType {
		return fmt.Errorf("schema %s: expected a map, got %s", b.Name, m.Type)
	}
	if b.open {
		return nil
	}
	for _, k := range m.Keys() {
		if !b.HasField(k) {
			return ir.NewAttributeError(m, "%q is not a declared field of schema %s", k, b.Name)
		}
	}
	return nil
}
