package resolve

import (
	"strconv"
	"strings"

	"github.com/hconf-go/hconf/grammar/parse"
)

// renderFragment and friends reconstruct a deterministic textual form of an
// already-parsed AST fragment, used only as the resolver-cache key (spec.md
// §4.3: cache keyed by "the textual argument list, not the evaluated
// values"). They are not required to reproduce the original source bytes,
// only to map structurally identical arguments to the same string; two
// occurrences of the same source text always parse to the same AST and so
// always render the same here.
func renderFragment(f parse.Fragment) string {
	switch x := f.(type) {
	case *parse.Literal:
		return x.Value
	case *parse.NodeRef:
		return renderNodeRef(x)
	case *parse.ResolverCall:
		return renderResolverCall(x)
	default:
		return ""
	}
}

func renderNodeRef(ref *parse.NodeRef) string {
	var b strings.Builder
	b.WriteString("${")
	if !ref.Absolute {
		b.WriteString(strings.Repeat(".", ref.RelDepth))
	}
	for i, seg := range ref.Segments {
		switch {
		case seg.Field != nil:
			if i > 0 || !ref.Absolute {
				b.WriteByte('.')
			}
			b.WriteString(*seg.Field)
		case seg.Index != nil:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(*seg.Index))
			b.WriteByte(']')
		case seg.Dynamic != nil:
			b.WriteByte('[')
			b.WriteString(renderText(seg.Dynamic))
			b.WriteByte(']')
		}
	}
	b.WriteString("}")
	return b.String()
}

func renderResolverCall(rc *parse.ResolverCall) string {
	var b strings.Builder
	b.WriteString("${")
	for i, p := range rc.NameParts {
		if i > 0 {
			b.WriteByte('.')
		}
		if p.Literal != nil {
			b.WriteString(*p.Literal)
		} else {
			b.WriteString(renderText(p.Dynamic))
		}
	}
	b.WriteByte(':')
	for i, a := range rc.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		if a.Interp != nil {
			b.WriteString(renderFragment(a.Interp))
		} else {
			b.WriteString(renderElement(a.Element))
		}
	}
	b.WriteString("}")
	return b.String()
}

func renderText(t *parse.Text) string {
	var b strings.Builder
	for _, f := range t.Fragments {
		b.WriteString(renderFragment(f))
	}
	return b.String()
}

func renderElement(el *parse.Element) string {
	switch el.Kind {
	case parse.ElemPrimitive:
		return el.Primitive
	case parse.ElemQuoted:
		return string(el.Quote) + renderText(el.Quoted) + string(el.Quote)
	case parse.ElemList:
		var b strings.Builder
		b.WriteByte('[')
		for i, c := range el.List {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(renderElement(c))
		}
		b.WriteByte(']')
		return b.String()
	case parse.ElemMap:
		var b strings.Builder
		b.WriteByte('{')
		for i, entry := range el.Map {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(entry.Key)
			b.WriteByte(':')
			b.WriteString(renderElement(entry.Value))
		}
		b.WriteByte('}')
		return b.String()
	default:
		return ""
	}
}
