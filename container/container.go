// Package container implements the container utilities of spec.md §4.8
// (C8): projection to plain language-native values, eager in-place
// resolution, missing-key enumeration, and masked copies. It is grounded on
// the teacher's dirbuild package for the "walk a tree, project to a plain
// representation" shape, and on libdiff for the DiffStrings string-diff
// helper.
package container

import (
	"fmt"

	"github.com/hconf-go/hconf/internal/hlog"
	"github.com/hconf-go/hconf/ir"
	"github.com/hconf-go/hconf/resolve"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"
)

// StructuredMode selects how a schema-bound subtree projects under
// ToContainer (spec.md §4.8).
type StructuredMode int

const (
	// KeepContainer leaves a schema-bound subtree as a plain map, just like
	// any other container.
	KeepContainer StructuredMode = iota
	// PlainDict forces every subtree, schema-bound or not, to a plain map.
	PlainDict
	// Instantiate forces interpolation resolution under a schema-bound
	// subtree regardless of the outer Resolve option. The subtree still
	// projects to a plain map; no value of the declared record type is built.
	Instantiate
)

// Options configures ToContainer.
type Options struct {
	Resolve        bool
	ThrowOnMissing bool
	Structured     StructuredMode
	Evaluator      *resolve.Evaluator // required when Resolve or Structured == Instantiate
}

// ToContainer projects cfg to a plain, language-native value per spec.md
// §4.8.
func ToContainer(cfg *ir.Node, opts Options) (any, error) {
	return toContainer(cfg, opts, false)
}

func toContainer(n *ir.Node, opts Options, forceResolve bool) (any, error) {
	resolveHere := opts.Resolve || forceResolve
	if n.Type == ir.InterpType && resolveHere {
		if opts.Evaluator == nil {
			return nil, fmt.Errorf("container.ToContainer: Resolve requested but no Evaluator was supplied")
		}
		resolved, err := opts.Evaluator.Resolve(n)
		if err != nil {
			return nil, err
		}
		return toContainer(resolved, opts, forceResolve)
	}
	switch n.Type {
	case ir.MapType:
		childForce := forceResolve
		if n.Schema != nil && opts.Structured == Instantiate {
			childForce = true
		}
		m := make(map[string]any, n.Len())
		for _, k := range n.Keys() {
			v, err := toContainer(n.Get(k), opts, childForce)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	case ir.ListType:
		l := make([]any, n.Len())
		for i := 0; i < n.Len(); i++ {
			v, err := toContainer(n.Index(i), opts, forceResolve)
			if err != nil {
				return nil, err
			}
			l[i] = v
		}
		return l, nil
	case ir.MissingType:
		if opts.ThrowOnMissing {
			return nil, ir.NewMissingMandatoryValueError(n)
		}
		return ir.MissingMarker, nil
	default:
		return n.ToPlain(), nil
	}
}

// Resolve eagerly evaluates every interpolation in cfg in place, replacing
// each expression node with its resolved value (spec.md §4.8 "resolve").
// Idempotent: resolving an already-fully-resolved tree is a no-op.
func Resolve(cfg *ir.Node, ev *resolve.Evaluator) error {
	return cfg.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return true, nil
		}
		if n.Type == ir.InterpType {
			resolved, err := ev.Resolve(n)
			if err != nil {
				return false, err
			}
			replaceInPlace(n, resolved)
		}
		return true, nil
	})
}

// replaceInPlace overwrites n's scalar/container payload with resolved's,
// keeping n's own identity (and thus its parent link) stable, since the
// merge/access layers may hold a pointer to n across the call.
func replaceInPlace(n, resolved *ir.Node) {
	parent, field, idx := n.Parent, n.ParentField, n.ParentIndex
	*n = *resolved
	n.Parent, n.ParentField, n.ParentIndex = parent, field, idx
}

// MissingKeys returns the flat set of path strings naming every descendant
// scalar whose value is MISSING, including list indices (spec.md §4.8).
func MissingKeys(cfg *ir.Node) []string {
	var out []string
	_ = cfg.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return true, nil
		}
		if n.IsMissing() {
			out = append(out, n.Path())
		}
		return true, nil
	})
	return out
}

// MaskedCopy returns a map container restricted to the named top-level
// keys, preserving types and flags (spec.md §4.8). Keys not present in cfg
// are silently skipped.
func MaskedCopy(cfg *ir.Node, keys []string) (*ir.Node, error) {
	if cfg.Type != ir.MapType {
		return nil, ir.NewTypeError(cfg, "masked-copy requires a map, got %s", cfg.Type)
	}
	out := ir.NewMap()
	out.CopyFlags(cfg)
	out.Schema = cfg.Schema
	for _, k := range keys {
		v := cfg.Get(k)
		if v == nil {
			continue
		}
		out.Put(k, v.Clone())
	}
	hlog.L().Debug("masked copy", zap.Strings("keys", keys))
	return out, nil
}

// DiffStrings renders a character-level diff of two strings as
// diffmatchpatch pretty text, with insertions and deletions marked by ANSI
// colour codes, grounded on the teacher's libdiff.DiffString use of
// diffmatchpatch.
func DiffStrings(a, b string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffPrettyText(diffs)
}
