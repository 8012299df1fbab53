package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hconf-go/hconf/ir"
)

// FromStruct builds a Binding (and, when v is a struct value rather than a
// struct type, a bound instance Node populated from v's field values) by
// reflecting over a Go struct, the way spec.md §6.2's construction input
// "a declared schema type, or an instance of one" requires. Tags use the
// form `hconf:"name,optional"`; an unexported field is skipped. This is
// grounded on the teacher's gomap reflection-based decode, re-aimed at
// building a schema descriptor instead of populating a destination struct.
func FromStruct(v any) (*ir.Node, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv = reflect.New(rv.Type().Elem()).Elem()
			break
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema.FromStruct: %s is not a struct", rv.Kind())
	}
	b, node, err := bindStruct(rv)
	if err != nil {
		return nil, err
	}
	node.Schema = b
	return node, nil
}

func bindStruct(rv reflect.Value) (*Binding, *ir.Node, error) {
	rt := rv.Type()
	b := &Binding{Name: rt.Name()}
	node := ir.NewMap()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		name, optional, skip := parseTag(sf)
		if skip {
			continue
		}
		fv := rv.Field(i)
		field, child, err := bindField(name, optional, sf.Type, fv)
		if err != nil {
			return nil, nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		b.Fields = append(b.Fields, field)
		node.Put(name, child)
	}
	return b, node, nil
}

func parseTag(sf reflect.StructField) (name string, optional bool, skip bool) {
	tag := sf.Tag.Get("hconf")
	if tag == "-" {
		return "", false, true
	}
	name = sf.Name
	if tag != "" {
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			name = parts[0]
		}
		for _, p := range parts[1:] {
			if p == "optional" {
				optional = true
			}
		}
	}
	return name, optional, false
}

// bindField produces both the schema Field descriptor and a populated
// child Node for one struct field, recursing into nested structs, pointers
// (optional wrapping), slices, and maps the way spec.md §4.7 describes a
// field's type hint.
func bindField(name string, optional bool, t reflect.Type, v reflect.Value) (Field, *ir.Node, error) {
	if t.Kind() == reflect.Ptr {
		optional = true
		if !v.IsValid() || v.IsNil() {
			f := Field{Name: name, Optional: true}
			elemField, _, err := bindField(name, true, t.Elem(), reflect.Zero(t.Elem()))
			if err != nil {
				return Field{}, nil, err
			}
			f.Type = elemField.Type
			f.Nested = elemField.Nested
			f.ElemDeclared = elemField.ElemDeclared
			return f, ir.Null(f.Type), nil
		}
		return bindField(name, true, t.Elem(), v.Elem())
	}

	switch t.Kind() {
	case reflect.Bool:
		n := ir.FromBool(v.Bool())
		n.Optional = optional
		return Field{Name: name, Type: ir.BoolType, Optional: optional}, n, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := ir.FromInt(v.Int())
		n.Optional = optional
		return Field{Name: name, Type: ir.IntType, Optional: optional}, n, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := ir.FromInt(int64(v.Uint()))
		n.Optional = optional
		return Field{Name: name, Type: ir.IntType, Optional: optional}, n, nil
	case reflect.Float32, reflect.Float64:
		n := ir.FromFloat(v.Float())
		n.Optional = optional
		return Field{Name: name, Type: ir.FloatType, Optional: optional}, n, nil
	case reflect.String:
		n := ir.FromString(v.String())
		n.Optional = optional
		return Field{Name: name, Type: ir.StringType, Optional: optional}, n, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			var bs []byte
			if v.IsValid() {
				bs = v.Bytes()
			}
			n := ir.FromBytes(bs)
			n.Optional = optional
			return Field{Name: name, Type: ir.BytesType, Optional: optional}, n, nil
		}
		return bindSlice(name, optional, t, v)
	case reflect.Map:
		return bindMap(name, optional, t, v)
	case reflect.Struct:
		sub, subNode, err := bindStruct(v)
		if err != nil {
			return Field{}, nil, err
		}
		subNode.Schema = sub
		return Field{Name: name, Type: ir.MapType, Optional: optional, Nested: sub}, subNode, nil
	default:
		return Field{}, nil, fmt.Errorf("unsupported field kind %s", t.Kind())
	}
}

func bindSlice(name string, optional bool, t reflect.Type, v reflect.Value) (Field, *ir.Node, error) {
	elemT := t.Elem()
	list := ir.NewList()
	n := 0
	if v.IsValid() {
		n = v.Len()
	}
	var elemKind *ir.Type
	for i := 0; i < n; i++ {
		_, child, err := bindField("", false, elemT, v.Index(i))
		if err != nil {
			return Field{}, nil, err
		}
		if elemKind == nil {
			k := child.Declared
			elemKind = &k
		}
		list.Append(child)
	}
	if elemKind == nil {
		_, zeroChild, err := bindField("", false, elemT, reflect.Zero(elemT))
		if err == nil {
			k := zeroChild.Declared
			elemKind = &k
		}
	}
	list.ElemDeclared = elemKind
	f := Field{Name: name, Type: ir.ListType, Optional: optional, ElemDeclared: elemKind}
	return f, list, nil
}

// mapKeyKind maps a Go map's key reflect.Kind to the ir.Type it binds to
// (spec.md:39 "Keys may be string, integer, boolean, floating, bytes, or
// enumeration"). Go has no enum kind of its own, so an enum-keyed map isn't
// reachable from struct reflection; ir.NewTypedMap, called directly or via
// Instantiate for a Field whose KeyDeclared is EnumType, is how an
// EnumType-keyed map gets built.
func mapKeyKind(kt reflect.Type) (ir.Type, error) {
	switch kt.Kind() {
	case reflect.String:
		return ir.StringType, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ir.IntType, nil
	case reflect.Bool:
		return ir.BoolType, nil
	case reflect.Float32, reflect.Float64:
		return ir.FloatType, nil
	default:
		return ir.AnyType, fmt.Errorf("unsupported map key kind %s", kt.Kind())
	}
}

// keyNodeFromReflect builds the ir.Node for one Go map key value, matching
// the scalar kind bindField uses for an ordinary field of the same Go type.
func keyNodeFromReflect(k reflect.Value) *ir.Node {
	switch k.Kind() {
	case reflect.String:
		return ir.FromString(k.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(k.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ir.FromInt(int64(k.Uint()))
	case reflect.Bool:
		return ir.FromBool(k.Bool())
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(k.Float())
	default:
		return ir.FromString(fmt.Sprint(k.Interface()))
	}
}

func bindMap(name string, optional bool, t reflect.Type, v reflect.Value) (Field, *ir.Node, error) {
	elemT := t.Elem()
	keyKind, err := mapKeyKind(t.Key())
	if err != nil {
		return Field{}, nil, fmt.Errorf("field %s: %w", name, err)
	}
	var m *ir.Node
	if keyKind == ir.StringType {
		m = ir.NewMap()
	} else {
		m = ir.NewTypedMap(keyKind, nil)
	}
	if v.IsValid() {
		for _, k := range v.MapKeys() {
			_, child, err := bindField("", false, elemT, v.MapIndex(k))
			if err != nil {
				return Field{}, nil, err
			}
			if keyKind == ir.StringType {
				m.Put(k.String(), child)
				continue
			}
			if _, err := m.PutByKey(keyNodeFromReflect(k), child); err != nil {
				return Field{}, nil, fmt.Errorf("field %s: map key %v: %w", name, k.Interface(), err)
			}
		}
	}
	_, zeroChild, err := bindField("", false, elemT, reflect.Zero(elemT))
	var elemKind *ir.Type
	if err == nil {
		k := zeroChild.Declared
		elemKind = &k
	}
	m.ElemDeclared = elemKind
	f := Field{Name: name, Type: ir.MapType, Optional: optional, ElemDeclared: elemKind, Nested: &Binding{Name: name + "Value", open: true}}
	if keyKind != ir.StringType {
		f.KeyDeclared = &keyKind
	}
	return f, m, nil
}
