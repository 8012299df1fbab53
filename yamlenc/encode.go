package yamlenc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hconf-go/hconf/ir"
)

// encState tracks indentation depth and column, grounded on the teacher's
// go-tony/encode.EncState.
type encState struct {
	depth  int
	indent int
	col    int
}

// Encode renders n as canonical YAML text (spec.md §6.1): MISSING renders
// as the bare scalar "???", an unresolved interpolation renders as its
// verbatim "${...}" expression text (never quoted), and any string whose
// unquoted form would otherwise parse back as a number, bool, or null is
// quoted on output so the round trip is lossless.
func Encode(n *ir.Node, w io.Writer) error {
	es := &encState{indent: 2}
	if err := encodeNode(n, w, es); err != nil {
		return err
	}
	return writeRaw(w, "\n")
}

func encodeNode(n *ir.Node, w io.Writer, es *encState) error {
	switch n.Type {
	case ir.MapType:
		return encodeMap(n, w, es)
	case ir.ListType:
		return encodeList(n, w, es)
	case ir.MissingType:
		return writeRaw(w, missingLiteral)
	case ir.InterpType:
		return writeRaw(w, n.String)
	case ir.NullType:
		return writeRaw(w, "null")
	case ir.BoolType:
		return writeRaw(w, strconv.FormatBool(n.Bool))
	case ir.IntType:
		return writeRaw(w, strconv.FormatInt(n.Int, 10))
	case ir.FloatType:
		return writeRaw(w, formatFloat(n.Float))
	case ir.StringType:
		return writeRaw(w, quoteIfNeeded(n.String))
	case ir.BytesType:
		return writeRaw(w, quoteIfNeeded(string(n.Bytes)))
	case ir.PathType:
		return writeRaw(w, quoteIfNeeded(n.String))
	case ir.EnumType:
		return writeRaw(w, quoteIfNeeded(n.QualifiedName()))
	default:
		return fmt.Errorf("yamlenc.Encode: cannot render node of type %s", n.Type)
	}
}

func encodeMap(n *ir.Node, w io.Writer, es *encState) error {
	keys := n.Keys()
	if len(keys) == 0 {
		return writeRaw(w, "{}")
	}
	for i, k := range keys {
		if i > 0 {
			if err := newline(w, es); err != nil {
				return err
			}
		}
		if err := writeRaw(w, quoteKeyIfNeeded(k)+":"); err != nil {
			return err
		}
		v := n.Get(k)
		if err := encodeValue(v, w, es); err != nil {
			return err
		}
	}
	return nil
}

func encodeList(n *ir.Node, w io.Writer, es *encState) error {
	if n.Len() == 0 {
		return writeRaw(w, "[]")
	}
	for i := 0; i < n.Len(); i++ {
		if i > 0 {
			if err := newline(w, es); err != nil {
				return err
			}
		}
		if err := writeRaw(w, "-"); err != nil {
			return err
		}
		if err := encodeValue(n.Index(i), w, es); err != nil {
			return err
		}
	}
	return nil
}

// encodeValue writes the value half of a "key:" or "-" line: inline for
// scalars, indented on following lines for containers.
func encodeValue(v *ir.Node, w io.Writer, es *encState) error {
	if v.Type == ir.MapType || v.Type == ir.ListType {
		n := containerLen(v)
		if n == 0 {
			if err := writeRaw(w, " "); err != nil {
				return err
			}
			return encodeNode(v, w, es)
		}
		es.depth++
		if err := newline(w, es); err != nil {
			return err
		}
		err := encodeNode(v, w, es)
		es.depth--
		return err
	}
	if err := writeRaw(w, " "); err != nil {
		return err
	}
	return encodeNode(v, w, es)
}

func containerLen(n *ir.Node) int {
	if n.Type == ir.MapType {
		return len(n.Keys())
	}
	return n.Len()
}

func newline(w io.Writer, es *encState) error {
	return writeRaw(w, "\n"+strings.Repeat(" ", es.indent*es.depth))
}

func writeRaw(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quoteIfNeeded quotes a string scalar when its bare form would decode back
// to something other than a string: a number, a bool, null, MISSING, or an
// interpolation expression.
func quoteIfNeeded(s string) string {
	if needsQuote(s) {
		return strconv.Quote(s)
	}
	return s
}

func quoteKeyIfNeeded(s string) string {
	if s == "" || needsQuote(s) || strings.ContainsAny(s, ": \t") {
		return strconv.Quote(s)
	}
	return s
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	switch s {
	case "null", "~", "true", "false", "True", "False", missingLiteral:
		return true
	}
	if isInterpolationLiteral(s) {
		return true
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	switch s[0] {
	case ' ', '\t', '-', '?', ':', ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return true
	}
	return strings.ContainsAny(s, "\n")
}
