package resolve

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/hconf-go/hconf/grammar/parse"
	"github.com/hconf-go/hconf/ir"
)

// builtins returns the fixed set of resolvers registered into every fresh
// Registry (spec.md §4.3): the "oc." namespace plus the bonus oc.expr
// resolver named in SPEC_FULL.md's domain stack, grounded on
// github.com/expr-lang/expr.
func builtins() []*Resolver {
	return []*Resolver{
		{Name: "oc.env", Plain: envResolver, UseCache: false},
		{Name: "oc.decode", Plain: decodeResolver, UseCache: false},
		{Name: "oc.select", Contextual: selectResolver, UseCache: false},
		{Name: "oc.create", Contextual: createResolver, UseCache: false},
		{Name: "oc.deprecated", Contextual: deprecatedResolver, UseCache: false},
		{Name: "oc.dict.keys", Plain: dictKeysResolver, UseCache: false},
		{Name: "oc.dict.values", Plain: dictValuesResolver, UseCache: false},
		{Name: "oc.expr", Contextual: exprResolver, UseCache: true},
	}
}

// envResolver is oc.env: environment-lookup with an optional default,
// special-casing a literal "null" default the way spec.md §4.3 and
// original_source/omegaconf/resolvers.py's oc.env both do.
func envResolver(args []*ir.Node) (*ir.Node, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("oc.env requires at least a variable name")
	}
	name, err := ir.Stringify(args[0])
	if err != nil {
		return nil, fmt.Errorf("oc.env: %w", err)
	}
	if v, ok := os.LookupEnv(name); ok {
		return ir.FromString(v), nil
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("oc.env: environment variable %q is not set and no default was given", name)
	}
	return args[1].Clone(), nil
}

// decodeResolver is oc.decode: parses a string as one Element (null, bool,
// int, float, or a container literal) the way spec.md §4.3 describes.
func decodeResolver(args []*ir.Node) (*ir.Node, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("oc.decode takes exactly one argument")
	}
	if args[0].IsNull() {
		return ir.Null(ir.AnyType), nil
	}
	s, err := ir.Stringify(args[0])
	if err != nil {
		return nil, fmt.Errorf("oc.decode: %w", err)
	}
	el, err := parse.ParseElement(s)
	if err != nil {
		return nil, fmt.Errorf("oc.decode: %w", err)
	}
	return parse.ElementToNode(el)
}

// selectResolver is oc.select: a node reference that takes a default and
// never raises on a missing or null path (spec.md §4.3).
func selectResolver(args []*ir.Node, parent, root *ir.Node) (*ir.Node, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("oc.select requires a path argument")
	}
	pathStr, err := ir.Stringify(args[0])
	if err != nil {
		return nil, fmt.Errorf("oc.select: %w", err)
	}
	var def *ir.Node
	if len(args) >= 2 {
		def = args[1]
	}
	segs, err := ir.ParsePath(pathStr)
	if err != nil {
		if def != nil {
			return def.Clone(), nil
		}
		return nil, err
	}
	target, err := root.GetPath(segs)
	if err != nil || target == nil || target.IsMissing() || target.IsNull() {
		if def != nil {
			return def.Clone(), nil
		}
		return ir.Null(ir.AnyType), nil
	}
	return target, nil
}

// createResolver is oc.create: turns a map or list value (typically the
// result of oc.decode) into a freshly-detached container the caller can
// graft into the tree (spec.md §4.3).
func createResolver(args []*ir.Node, parent, root *ir.Node) (*ir.Node, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("oc.create takes exactly one argument")
	}
	v := args[0]
	if v.Type != ir.MapType && v.Type != ir.ListType {
		return nil, fmt.Errorf("oc.create: argument must be a map or list, got %s", v.Type)
	}
	return v.Clone(), nil
}

// deprecatedResolver is oc.deprecated: forwards to a replacement key,
// logging a deprecation warning, the way original_source/omegaconf's
// deprecated resolver forwards via oc.select under the hood.
func deprecatedResolver(args []*ir.Node, parent, root *ir.Node) (*ir.Node, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("oc.deprecated requires a replacement path")
	}
	pathStr, err := ir.Stringify(args[0])
	if err != nil {
		return nil, fmt.Errorf("oc.deprecated: %w", err)
	}
	msg := fmt.Sprintf("use of a deprecated key; forwarding to %q", pathStr)
	if len(args) >= 2 {
		if m, err := ir.Stringify(args[1]); err == nil {
			msg = m
		}
	}
	fmt.Fprintln(os.Stderr, "hconf: deprecated:", msg)
	segs, err := ir.ParsePath(pathStr)
	if err != nil {
		return nil, err
	}
	target, err := root.GetPath(segs)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("oc.deprecated: replacement key %q not found", pathStr)
	}
	return target, nil
}

// dictKeysResolver is oc.dict.keys: the keys of a map argument, in
// insertion order (spec.md §4.3, SPEC_FULL.md supplemented feature).
func dictKeysResolver(args []*ir.Node) (*ir.Node, error) {
	if len(args) != 1 || args[0].Type != ir.MapType {
		return nil, fmt.Errorf("oc.dict.keys requires a single map argument")
	}
	l := ir.NewList()
	for _, k := range args[0].Keys() {
		l.Append(ir.FromString(k))
	}
	return l, nil
}

// dictValuesResolver is oc.dict.values: the values of a map argument, in
// insertion order (spec.md §4.3, SPEC_FULL.md supplemented feature).
func dictValuesResolver(args []*ir.Node) (*ir.Node, error) {
	if len(args) != 1 || args[0].Type != ir.MapType {
		return nil, fmt.Errorf("oc.dict.values requires a single map argument")
	}
	l := ir.NewList()
	for _, k := range args[0].Keys() {
		l.Append(args[0].Get(k).Clone())
	}
	return l, nil
}

// exprResolver is oc.expr, the bonus resolver of SPEC_FULL.md's domain
// stack: evaluates a github.com/expr-lang/expr expression against the
// calling node's siblings as variables, caching by expression text since
// expr.Compile is comparatively expensive.
func exprResolver(args []*ir.Node, parent, root *ir.Node) (*ir.Node, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("oc.expr takes exactly one expression string")
	}
	src, err := ir.Stringify(args[0])
	if err != nil {
		return nil, fmt.Errorf("oc.expr: %w", err)
	}
	var env map[string]any
	if parent != nil {
		if pv, ok := parent.ToPlain().(map[string]any); ok {
			env = pv
		}
	}
	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("oc.expr: %w", err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("oc.expr: %w", err)
	}
	return ir.FromNative(out)
}
