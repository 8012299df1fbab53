// Package yamlenc implements the YAML codec of spec.md §6.1: a canonical
// round trip between YAML text and an ir.Node tree, with "???" decoding to
// MISSING and "${...}" decoding to an unresolved interpolation rather than
// a plain string. Decoding is grounded on the teacher's own dependency on
// github.com/goccy/go-yaml (dirbuild.OpenDir's "build.yaml" loader); the
// encoder is hand-rolled in the shape of the teacher's go-tony/encode
// package, since that package's EncState/indent-tracking approach is
// exactly what a MISSING/interpolation-preserving writer needs and the
// generic library Marshal cannot be taught those two sentinels.
package yamlenc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/hconf-go/hconf/ir"
)

// Decode parses YAML text into an ir.Node tree (spec.md §6.1). An empty
// document decodes to an empty map, matching spec.md's "construction from
// an empty/no input yields an empty map container" rule. A bare "???"
// scalar decodes to MISSING; a bare "${...}" scalar decodes to an
// unresolved interpolation node rather than a literal string.
//
// Decoding targets yaml.UseOrderedMap() rather than Go's unordered
// map[string]any: the library then produces a yaml.MapSlice at every map
// node, keys in document order, which fromGeneric carries straight into
// ir.Node's own insertion-ordered Fields/Values (spec.md:39, spec.md:176 —
// "map insertion order is observable").
func Decode(data []byte) (*ir.Node, error) {
	var generic any
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.UseOrderedMap())
	if err := dec.Decode(&generic); err != nil {
		if errors.Is(err, io.EOF) {
			return ir.NewMap(), nil
		}
		return nil, fmt.Errorf("yamlenc.Decode: %w", err)
	}
	if generic == nil {
		return ir.NewMap(), nil
	}
	return fromGeneric(generic)
}

func fromGeneric(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(ir.AnyType), nil
	case bool:
		n := ir.FromBool(x)
		n.Declared = ir.AnyType
		return n, nil
	case string:
		return stringNode(x), nil
	case int:
		return withAny(ir.FromInt(int64(x))), nil
	case int64:
		return withAny(ir.FromInt(x)), nil
	case uint64:
		return withAny(ir.FromInt(int64(x))), nil
	case float64:
		return withAny(ir.FromFloat(x)), nil
	case []byte:
		return withAny(ir.FromBytes(x)), nil
	case yaml.MapSlice:
		m := ir.NewMap()
		for _, item := range x {
			child, err := fromGeneric(item.Value)
			if err != nil {
				return nil, err
			}
			m.Put(fmt.Sprint(item.Key), child)
		}
		return m, nil
	case map[string]any:
		// Unreachable with yaml.UseOrderedMap() in effect; kept only as a
		// defensive fallback so a library behavior change degrades instead
		// of panicking. Iteration order here is whatever Go's map gives.
		m := ir.NewMap()
		for k, vv := range x {
			child, err := fromGeneric(vv)
			if err != nil {
				return nil, err
			}
			m.Put(k, child)
		}
		return m, nil
	case []any:
		l := ir.NewList()
		for _, vv := range x {
			child, err := fromGeneric(vv)
			if err != nil {
				return nil, err
			}
			l.Append(child)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("yamlenc.Decode: unsupported YAML value %T", v)
	}
}

func withAny(n *ir.Node) *ir.Node {
	n.Declared = ir.AnyType
	return n
}

func stringNode(s string) *ir.Node {
	switch {
	case s == missingLiteral:
		return ir.Missing(ir.AnyType)
	case isInterpolationLiteral(s):
		return ir.FromInterpolation(s)
	default:
		return withAny(ir.FromString(s))
	}
}

const missingLiteral = "???"

func isInterpolationLiteral(s string) bool {
	return len(s) >= 3 && s[:2] == "${" && s[len(s)-1] == '}'
}
