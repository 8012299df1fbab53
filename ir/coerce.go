package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoerceAssign implements the coercion table of spec.md §4.1. target
// supplies the declared kind, optionality, and (for EnumType) the enum
// descriptor that the incoming value v must be reconciled against; the
// returned Node is a fresh scalar of target's declared kind, or an error
// naming target's path and v's raw value.
//
// MISSING and unresolved interpolation expressions pass through unchanged:
// MISSING propagates regardless of declared kind (assignment-time coercion
// never resolves a sentinel), and an interpolation is only type-checked
// syntactically at assignment time, semantically at access time (invariant 4).
//
// A target whose declared kind is InterpType (a bare FromInterpolation node)
// declares no value kind, so v is returned as a clone of its own kind.
func CoerceAssign(target, v *Node) (*Node, error) {
	if v == nil || v.IsMissing() {
		m := Missing(target.Declared)
		m.Union = append([]Type(nil), target.Union...)
		return m, nil
	}
	if v.Type == InterpType {
		c := v.Clone()
		c.Declared = target.Declared
		c.Optional = target.Optional
		c.Union = append([]Type(nil), target.Union...)
		return c, nil
	}
	if target.Declared == InterpType {
		return v.Clone(), nil
	}
	if len(target.Union) > 0 {
		return coerceUnion(target, v)
	}
	if v.IsNull() {
		if !target.Optional {
			return nil, NewValidationError(target, nil,
				"null is not compatible with non-optional type %s", target.Declared)
		}
		return Null(target.Declared), nil
	}
	if target.Declared == AnyType {
		c := v.Clone()
		c.Optional = target.Optional
		return c, nil
	}
	switch target.Declared {
	case BoolType:
		return coerceBool(target, v)
	case IntType:
		return coerceInt(target, v)
	case FloatType:
		return coerceFloat(target, v)
	case StringType:
		return coerceString(target, v)
	case BytesType:
		return coerceBytes(target, v)
	case PathType:
		return coercePath(target, v)
	case EnumType:
		return coerceEnum(target, v)
	case MapType, ListType:
		// Container-shaped fields never go through scalar coercion; the
		// caller (merge/access) handles structural reconciliation.
		return nil, NewTypeError(target, "cannot coerce %s into a scalar container field", v.Type)
	default:
		return nil, NewValidationError(target, nil, "unsupported declared type %s", target.Declared)
	}
}

// coerceUnion implements spec.md §4.7's union type hint: a value must
// exactly match one arm's Type, with no cross-arm coercion, and null is
// permitted only when one arm is NullType (which CoerceAssign's caller, the
// schema binder, reflects into target.Optional).
func coerceUnion(target, v *Node) (*Node, error) {
	if v.IsNull() {
		if !target.Optional {
			return nil, NewValidationError(target, nil,
				"null is not compatible with union %v", target.Union)
		}
		n := Null(AnyType)
		n.Union = append([]Type(nil), target.Union...)
		return n, nil
	}
	for _, arm := range target.Union {
		if arm == v.Type {
			c := v.Clone()
			c.Declared = arm
			c.Optional = target.Optional
			c.Union = append([]Type(nil), target.Union...)
			return c, nil
		}
	}
	return nil, NewValidationError(target, rawOf(v),
		"value of type %s does not exactly match any arm of union %v", v.Type, target.Union)
}

var boolWords = map[string]bool{
	"true": true, "on": true, "yes": true,
	"false": false, "off": false, "no": false,
}

func coerceBool(target, v *Node) (*Node, error) {
	switch v.Type {
	case BoolType:
		return newScalar(target, BoolType, func(n *Node) { n.Bool = v.Bool }), nil
	case StringType:
		b, ok := boolWords[strings.ToLower(strings.TrimSpace(v.String))]
		if !ok {
			return nil, NewValidationError(target, v.String,
				"cannot interpret %q as a bool", v.String)
		}
		return newScalar(target, BoolType, func(n *Node) { n.Bool = b }), nil
	default:
		return nil, NewValidationError(target, rawOf(v), "cannot coerce %s to bool", v.Type)
	}
}

func coerceInt(target, v *Node) (*Node, error) {
	switch v.Type {
	case IntType:
		return newScalar(target, IntType, func(n *Node) { n.Int = v.Int }), nil
	case FloatType:
		if v.Float != math.Trunc(v.Float) || math.IsInf(v.Float, 0) || math.IsNaN(v.Float) {
			return nil, NewValidationError(target, v.Float,
				"float %v is not exactly integral, cannot coerce to int", v.Float)
		}
		return newScalar(target, IntType, func(n *Node) { n.Int = int64(v.Float) }), nil
	case StringType:
		i, err := strconv.ParseInt(stripUnderscores(strings.TrimSpace(v.String)), 10, 64)
		if err != nil {
			return nil, NewValidationError(target, v.String, "cannot interpret %q as an int", v.String)
		}
		return newScalar(target, IntType, func(n *Node) { n.Int = i }), nil
	default:
		return nil, NewValidationError(target, rawOf(v), "cannot coerce %s to int", v.Type)
	}
}

func coerceFloat(target, v *Node) (*Node, error) {
	switch v.Type {
	case FloatType:
		return newScalar(target, FloatType, func(n *Node) { n.Float = v.Float }), nil
	case IntType:
		return newScalar(target, FloatType, func(n *Node) { n.Float = float64(v.Int) }), nil
	case StringType:
		s := strings.ToLower(strings.TrimSpace(v.String))
		switch s {
		case "inf", "+inf", "infinity":
			return newScalar(target, FloatType, func(n *Node) { n.Float = math.Inf(1) }), nil
		case "-inf", "-infinity":
			return newScalar(target, FloatType, func(n *Node) { n.Float = math.Inf(-1) }), nil
		case "nan":
			return newScalar(target, FloatType, func(n *Node) { n.Float = math.NaN() }), nil
		}
		f, err := strconv.ParseFloat(stripUnderscores(strings.TrimSpace(v.String)), 64)
		if err != nil {
			return nil, NewValidationError(target, v.String, "cannot interpret %q as a float", v.String)
		}
		return newScalar(target, FloatType, func(n *Node) { n.Float = f }), nil
	default:
		return nil, NewValidationError(target, rawOf(v), "cannot coerce %s to float", v.Type)
	}
}

func coerceString(target, v *Node) (*Node, error) {
	s, err := stringify(v)
	if err != nil {
		return nil, err
	}
	return newScalar(target, StringType, func(n *Node) { n.String = s }), nil
}

func coercePath(target, v *Node) (*Node, error) {
	switch v.Type {
	case PathType, StringType:
		return newScalar(target, PathType, func(n *Node) { n.String = v.String }), nil
	default:
		return nil, NewValidationError(target, rawOf(v), "cannot coerce %s to a filesystem path", v.Type)
	}
}

func coerceBytes(target, v *Node) (*Node, error) {
	switch v.Type {
	case BytesType:
		b := append([]byte(nil), v.Bytes...)
		return newScalar(target, BytesType, func(n *Node) { n.Bytes = b }), nil
	case StringType:
		b := []byte(v.String)
		return newScalar(target, BytesType, func(n *Node) { n.Bytes = b }), nil
	default:
		return nil, NewValidationError(target, rawOf(v), "cannot coerce %s to bytes", v.Type)
	}
}

func coerceEnum(target, v *Node) (*Node, error) {
	if target.EnumT == nil {
		return nil, NewValidationError(target, rawOf(v), "enum field has no enum descriptor")
	}
	switch v.Type {
	case EnumType:
		m, ok := target.EnumT.ByName(v.String)
		if !ok {
			return nil, NewValidationError(target, v.String, "%q is not a member of enum %s", v.String, target.EnumT.Name)
		}
		return FromEnum(target.EnumT, m), nil
	case StringType:
		m, ok := target.EnumT.ByName(v.String)
		if !ok {
			return nil, NewValidationError(target, v.String, "%q is not a member of enum %s", v.String, target.EnumT.Name)
		}
		return FromEnum(target.EnumT, m), nil
	case IntType:
		m, ok := target.EnumT.ByOrdinal(int(v.Int))
		if !ok {
			return nil, NewValidationError(target, v.Int, "%d is not a valid ordinal for enum %s", v.Int, target.EnumT.Name)
		}
		return FromEnum(target.EnumT, m), nil
	default:
		return nil, NewValidationError(target, rawOf(v), "cannot coerce %s to enum %s", v.Type, target.EnumT.Name)
	}
}

func newScalar(target *Node, typ Type, set func(*Node)) *Node {
	n := &Node{Type: typ, Declared: target.Declared, Optional: target.Optional}
	set(n)
	return n
}

func stripUnderscores(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}

// rawOf extracts a Go-native representation of v's scalar payload, for
// attaching to ValidationError.RawValue.
func rawOf(v *Node) any {
	switch v.Type {
	case BoolType:
		return v.Bool
	case IntType:
		return v.Int
	case FloatType:
		return v.Float
	case StringType:
		return v.String
	case BytesType:
		return v.Bytes
	case EnumType:
		return v.QualifiedName()
	case NullType:
		return nil
	default:
		return v.Type.String()
	}
}

// stringify renders any scalar node's language-neutral string
// representation (spec.md §4.1: "string ← any scalar stringified"). Callers
// that later serialize the result must still re-quote it if it would
// re-parse as a bool/int/float (spec.md §6.1); that quoting decision lives
// in the yamlenc package, not here.
func stringify(v *Node) (string, error) {
	switch v.Type {
	case StringType:
		return v.String, nil
	case BoolType:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case IntType:
		return strconv.FormatInt(v.Int, 10), nil
	case FloatType:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case BytesType:
		return string(v.Bytes), nil
	case EnumType:
		return v.QualifiedName(), nil
	case PathType:
		return v.String, nil
	case NullType:
		return "", fmt.Errorf("cannot stringify null")
	default:
		return "", NewValidationError(v, nil, "cannot stringify %s", v.Type)
	}
}

// Stringify is the exported form of stringify, used by the evaluator for
// composite-expression concatenation (spec.md §4.4).
func Stringify(v *Node) (string, error) { return stringify(v) }
