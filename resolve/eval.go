package resolve

import (
	"strings"

	"github.com/hconf-go/hconf/grammar/parse"
	"github.com/hconf-go/hconf/grammar/token"
	"github.com/hconf-go/hconf/internal/hlog"
	"github.com/hconf-go/hconf/ir"
	"go.uber.org/zap"
)

func grammarOffset(err error) int {
	if te, ok := err.(*token.Err); ok {
		return te.Pos.Offset
	}
	return 0
}

// Evaluator walks the grammar/parse AST of one interpolation-bearing node,
// resolving node references and resolver calls against a fixed resolver
// snapshot (spec.md §4.4, C4). It is grounded on the teacher's eval package:
// a stateless walk over an AST dispatching to Symbol implementations, with
// a per-call visited-set threaded through recursive descent to catch cycles
// the way the teacher's Op.Patch threads a visited-set through mergeop.
type Evaluator struct {
	snap *snapshot
}

// NewEvaluator snapshots reg for the lifetime of one evaluation tree.
func NewEvaluator(reg *Registry) *Evaluator {
	return &Evaluator{snap: reg.Snapshot()}
}

// Resolve evaluates n and returns the result, leaving n itself unmodified:
// if n does not hold an unresolved interpolation it is returned unchanged;
// otherwise its text is parsed and evaluated, and the result is
// type-adapted against n's declared kind
// (spec.md §4.1 invariant 4, §4.4).
func (e *Evaluator) Resolve(n *ir.Node) (*ir.Node, error) {
	return e.resolveNode(n, map[*ir.Node]bool{})
}

func (e *Evaluator) resolveNode(n *ir.Node, visiting map[*ir.Node]bool) (*ir.Node, error) {
	if n == nil || n.Type != ir.InterpType {
		return n, nil
	}
	if visiting[n] {
		return nil, ir.NewInterpolationCycleError(n, "interpolation cycle detected at %s", n.String)
	}
	visiting[n] = true
	defer delete(visiting, n)

	hlog.Evalf("resolving interpolation", zap.String("path", n.Path()), zap.String("text", n.String))

	text, err := parse.ParseText(n.String)
	if err != nil {
		return nil, ir.NewGrammarParseError(n, grammarOffset(err), "%s", err)
	}
	result, err := e.evalText(text, n, n.Root(), visiting)
	if err != nil {
		return nil, err
	}
	if result.Type == ir.MapType || result.Type == ir.ListType {
		return result, nil
	}
	return ir.CoerceAssign(n, result)
}

// evalText implements the Text production's evaluation rule: a lone
// top-level interpolation preserves the referent's type, anything else
// (literal text mixed with one or more interpolations) stringifies and
// concatenates every fragment (spec.md §4.4).
func (e *Evaluator) evalText(t *parse.Text, anchor, root *ir.Node, visiting map[*ir.Node]bool) (*ir.Node, error) {
	if len(t.Fragments) == 0 {
		return ir.FromString(""), nil
	}
	if t.SingleExpr() {
		return e.evalFragment(t.Fragments[0], anchor, root, visiting)
	}
	var b strings.Builder
	for _, f := range t.Fragments {
		v, err := e.evalFragment(f, anchor, root, visiting)
		if err != nil {
			return nil, err
		}
		if v.Type == ir.InterpType {
			v, err = e.resolveNode(v, visiting)
			if err != nil {
				return nil, err
			}
		}
		s, err := ir.Stringify(v)
		if err != nil {
			return nil, ir.NewInterpolationValidationError(anchor, "%s", err)
		}
		b.WriteString(s)
	}
	return ir.FromString(b.String()), nil
}

func (e *Evaluator) evalFragment(f parse.Fragment, anchor, root *ir.Node, visiting map[*ir.Node]bool) (*ir.Node, error) {
	switch x := f.(type) {
	case *parse.Literal:
		return ir.FromString(x.Value), nil
	case *parse.NodeRef:
		return e.evalNodeRef(x, anchor, root, visiting)
	case *parse.ResolverCall:
		return e.evalResolverCall(x, anchor, root, visiting)
	default:
		return ir.FromString(""), nil
	}
}

// evalNodeRef navigates a reference relative to anchor (leading-dot count)
// or absolute from root, then walks its segments, the way spec.md §4.2/§4.4
// describe "${..a.b[0]}" resolution. A container reached as the final
// target is returned as-is without descending into it (reference
// passthrough): only the container's own interpolation fragments, if it
// were itself wrapped in one, would be resolved, and containers never are.
func (e *Evaluator) evalNodeRef(ref *parse.NodeRef, anchor, root *ir.Node, visiting map[*ir.Node]bool) (*ir.Node, error) {
	var cur *ir.Node
	var err error
	if ref.Absolute {
		cur = root
	} else {
		cur, err = anchor.Ascend(ref.RelDepth)
		if err != nil {
			return nil, err
		}
	}
	for _, seg := range ref.Segments {
		if cur == nil {
			return nil, ir.NewInterpolationKeyError(anchor, "reference %s has no target", renderNodeRef(ref))
		}
		key, idx, err := e.segmentKey(seg, anchor, root, visiting)
		if err != nil {
			return nil, err
		}
		switch {
		case key != nil:
			if cur.Type != ir.MapType {
				return nil, ir.NewInterpolationKeyError(anchor, "%s: %s is not a map", renderNodeRef(ref), cur.Path())
			}
			next := cur.Get(*key)
			if next == nil {
				return nil, ir.NewInterpolationKeyError(anchor, "%s: key %q not found", renderNodeRef(ref), *key)
			}
			cur = next
		case idx != nil:
			if cur.Type != ir.ListType {
				return nil, ir.NewInterpolationKeyError(anchor, "%s: %s is not a list", renderNodeRef(ref), cur.Path())
			}
			next := cur.Index(*idx)
			if next == nil {
				return nil, ir.NewInterpolationKeyError(anchor, "%s: index %d out of range", renderNodeRef(ref), *idx)
			}
			cur = next
		}
		if cur.IsMissing() {
			return nil, ir.NewInterpolationToMissingValueError(anchor, "%s resolves through a MISSING value at %s", renderNodeRef(ref), cur.Path())
		}
	}
	if cur == nil {
		return nil, ir.NewInterpolationKeyError(anchor, "reference %s has no target", renderNodeRef(ref))
	}
	if cur.Type == ir.InterpType {
		return e.resolveNode(cur, visiting)
	}
	return cur, nil
}

func (e *Evaluator) segmentKey(seg parse.Segment, anchor, root *ir.Node, visiting map[*ir.Node]bool) (*string, *int, error) {
	if seg.Field != nil {
		return seg.Field, nil, nil
	}
	if seg.Index != nil {
		return nil, seg.Index, nil
	}
	v, err := e.evalText(seg.Dynamic, anchor, root, visiting)
	if err != nil {
		return nil, nil, err
	}
	if v.Type == ir.IntType {
		i := int(v.Int)
		return nil, &i, nil
	}
	s, err := ir.Stringify(v)
	if err != nil {
		return nil, nil, err
	}
	return &s, nil, nil
}

// evalResolverCall resolves the callable's (possibly dynamic) name,
// evaluates its arguments left to right, and invokes it through the
// snapshot's cache-aware dispatcher (spec.md §4.3, §4.4).
func (e *Evaluator) evalResolverCall(rc *parse.ResolverCall, anchor, root *ir.Node, visiting map[*ir.Node]bool) (*ir.Node, error) {
	name, err := e.resolveName(rc.NameParts, anchor, root, visiting)
	if err != nil {
		return nil, err
	}
	args := make([]*ir.Node, 0, len(rc.Args))
	rawParts := make([]string, 0, len(rc.Args))
	for _, a := range rc.Args {
		var v *ir.Node
		var raw string
		if a.Interp != nil {
			v, err = e.evalFragment(a.Interp, anchor, root, visiting)
			raw = renderFragment(a.Interp)
		} else {
			v, err = e.elementValue(a.Element, anchor, root, visiting)
			raw = renderElement(a.Element)
		}
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		rawParts = append(rawParts, raw)
	}
	if rc.TrailingEmpty {
		hlog.L().Warn("empty trailing resolver argument is deprecated",
			zap.String("resolver", name), zap.String("path", anchor.Path()))
		rawParts = append(rawParts, "")
	}
	argText := strings.Join(rawParts, ",")

	parent := anchor.Parent
	result, err := e.snap.Invoke(name, argText, args, parent, root)
	if err != nil {
		return nil, ir.NewInterpolationResolutionError(anchor, "resolver %q: %s", name, err)
	}
	if result.Type == ir.InterpType {
		return e.resolveNode(result, visiting)
	}
	return result, nil
}

func (e *Evaluator) resolveName(parts []parse.NamePart, anchor, root *ir.Node, visiting map[*ir.Node]bool) (string, error) {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('.')
		}
		if p.Literal != nil {
			b.WriteString(*p.Literal)
			continue
		}
		v, err := e.evalText(p.Dynamic, anchor, root, visiting)
		if err != nil {
			return "", err
		}
		s, err := ir.Stringify(v)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// elementValue evaluates an Element used as a resolver argument or inline
// container literal: primitives decode directly, quoted text evaluates
// through the same Text rule as any other interpolation-bearing string, and
// list/map literals recurse element by element (spec.md §4.2, §4.3).
func (e *Evaluator) elementValue(el *parse.Element, anchor, root *ir.Node, visiting map[*ir.Node]bool) (*ir.Node, error) {
	switch el.Kind {
	case parse.ElemPrimitive:
		return parse.ElementToNode(el)
	case parse.ElemQuoted:
		return e.evalText(el.Quoted, anchor, root, visiting)
	case parse.ElemList:
		l := ir.NewList()
		for _, child := range el.List {
			cn, err := e.elementValue(child, anchor, root, visiting)
			if err != nil {
				return nil, err
			}
			l.Append(cn)
		}
		return l, nil
	case parse.ElemMap:
		m := ir.NewMap()
		for _, entry := range el.Map {
			cn, err := e.elementValue(entry.Value, anchor, root, visiting)
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
