package parse

import (
	"strconv"
	"strings"

	"github.com/hconf-go/hconf/ir"
)

// ElementToNode converts a parsed Element into an ir.Node, for the
// string-decode built-in resolver (spec.md §4.3) and for inline container
// literals that contain no interpolations. Quoted text that does carry
// interpolation fragments is returned as an InterpType node so the caller's
// evaluator can resolve it in its own anchor context.
func ElementToNode(el *Element) (*ir.Node, error) {
	switch el.Kind {
	case ElemPrimitive:
		return parsePrimitive(el.Primitive), nil
	case ElemQuoted:
		if onlyLiterals(el.Quoted) {
			return ir.FromString(flattenLiterals(el.Quoted)), nil
		}
		return ir.FromInterpolation(reconstructText(el.Quoted)), nil
	case ElemList:
		l := ir.NewList()
		for _, child := range el.List {
			cn, err := ElementToNode(child)
			if err != nil {
				return nil, err
			}
			l.Append(cn)
		}
		return l, nil
	case ElemMap:
		m := ir.NewMap()
		for _, entry := range el.Map {
			cn, err := ElementToNode(entry.Value)
			if err != nil {
				return nil, err
			}
			m.Put(entry.Key, cn)
		}
		return m, nil
	default:
		return ir.Null(ir.AnyType), nil
	}
}

func onlyLiterals(t *Text) bool {
	for _, f := range t.Fragments {
		if _, ok := f.(*Literal); !ok {
			return false
		}
	}
	return true
}

func flattenLiterals(t *Text) string {
	var b strings.Builder
	for _, f := range t.Fragments {
		b.WriteString(f.(*Literal).Value)
	}
	return b.String()
}

// reconstructText is a best-effort re-serialization used only as a fallback
// when a quoted inline-literal argument itself still carries interpolation
// fragments; in practice resolver arguments are evaluated before reaching
// this decoder, so this path is rarely exercised.
func reconstructText(t *Text) string {
	var b strings.Builder
	for _, f := range t.Fragments {
		switch x := f.(type) {
		case *Literal:
			b.WriteString(x.Value)
		default:
			b.WriteString("${...}")
		}
	}
	return b.String()
}

var boolLiterals = map[string]bool{"true": true, "false": false}

// parsePrimitive implements the bare-token half of the Element grammar:
// null, bool, int, float, or (falling through) a bare string, all declared
// AnyType until a schema narrows them.
func parsePrimitive(s string) *ir.Node {
	switch strings.ToLower(s) {
	case "null", "~", "":
		n := ir.Null(ir.AnyType)
		return n
	}
	if b, ok := boolLiterals[strings.ToLower(s)]; ok {
		n := ir.FromBool(b)
		n.Declared = ir.AnyType
		return n
	}
	if i, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 10, 64); err == nil {
		n := ir.FromInt(i)
		n.Declared = ir.AnyType
		return n
	}
	switch strings.ToLower(s) {
	case "inf", "+inf", "infinity":
		n := ir.FromFloat(posInf)
		n.Declared = ir.AnyType
		return n
	case "-inf", "-infinity":
		n := ir.FromFloat(negInf)
		n.Declared = ir.AnyType
		return n
	case "nan":
		n := ir.FromFloat(nanVal)
		n.Declared = ir.AnyType
		return n
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64); err == nil {
		n := ir.FromFloat(f)
		n.Declared = ir.AnyType
		return n
	}
	n := ir.FromString(s)
	n.Declared = ir.AnyType
	return n
}
