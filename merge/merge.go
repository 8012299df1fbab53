// Package merge implements the N-ary layered merge of spec.md §4.6 (C6): a
// right-biased recursive overlay of two or more configuration trees, with
// schema-aware unknown-key validation and list merge modes. It is grounded
// on the teacher's mergeop package: a scratch-tree-then-swap error-safety
// discipline (mergeop builds into a fresh document and only then replaces
// the caller's target) and its Op vocabulary for describing a merge step
// (dive into a shared key, insert a new one, pipe a scalar through).
package merge

import (
	"github.com/hconf-go/hconf/internal/hlog"
	"github.com/hconf-go/hconf/ir"
	"go.uber.org/zap"
)

// ListMode selects how two list containers combine (spec.md §4.6 rule 2).
type ListMode int

const (
	ListReplace      ListMode = iota // right replaces left entirely (default)
	ListExtend                       // left followed by right
	ListExtendUnique                 // left followed by right's elements not already present
)

// Option configures one Merge/UnsafeMerge call.
type Option func(*config)

type config struct {
	listMode ListMode
}

// WithListMode overrides the default REPLACE list merge mode for a call.
func WithListMode(m ListMode) Option {
	return func(c *config) { c.listMode = m }
}

// Merge produces a new tree by folding cfgs left to right through the
// overlay rules of spec.md §4.6. None of the inputs are mutated: the first
// is cloned into a scratch accumulator before any layer is applied, and a
// mid-merge validation failure simply discards that scratch tree, leaving
// every input, including the partially-built accumulator, unobserved by the
// caller (spec.md §4.6 "the engine performs the operation into a scratch
// tree and swaps on success").
func Merge(cfgs []*ir.Node, opts ...Option) (*ir.Node, error) {
	if len(cfgs) == 0 {
		return ir.NewMap(), nil
	}
	c := &config{listMode: ListReplace}
	for _, o := range opts {
		o(c)
	}
	acc := cfgs[0].Clone()
	for _, next := range cfgs[1:] {
		merged, err := mergeTwo(acc, next, c)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}

// UnsafeMerge has the same contract as Merge but may destroy (move nodes
// out of) its first input for performance, as spec.md §4.6 permits. Later
// arguments are still only read from.
func UnsafeMerge(cfgs []*ir.Node, opts ...Option) (*ir.Node, error) {
	if len(cfgs) == 0 {
		return ir.NewMap(), nil
	}
	c := &config{listMode: ListReplace}
	for _, o := range opts {
		o(c)
	}
	acc := cfgs[0]
	for _, next := range cfgs[1:] {
		merged, err := mergeTwo(acc, next, c)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}

func mergeTwo(left, right *ir.Node, c *config) (*ir.Node, error) {
	if right.IsMissing() {
		// Rule 5: MISSING on the right never overwrites a concrete value.
		return left.Clone(), nil
	}
	switch {
	case left.Type == ir.MapType && right.Type == ir.MapType:
		return mergeMaps(left, right, c)
	case left.Type == ir.ListType && right.Type == ir.ListType:
		return mergeLists(left, right, c)
	case isPlainScalar(left) && isPlainScalar(right):
		return mergeScalars(left, right)
	default:
		// No explicit rule governs a container/scalar shape mismatch; the
		// right-biased overlay simply replaces the left node wholesale,
		// the way rule 1-3 all resolve in right's favor at the leaf.
		out := right.Clone()
		out.CopyFlags(left)
		return out, nil
	}
}

// isPlainScalar reports whether n is a scalar node kind that
// mergeScalars/ir.CoerceAssign can reconcile directly: an ordinary value,
// null, or an unresolved interpolation. MISSING is excluded: on the right it
// is handled by the rule-5 short-circuit in mergeTwo, and on the left it
// falls to mergeTwo's wholesale replacement.
func isPlainScalar(n *ir.Node) bool {
	return n.Type != ir.MapType && n.Type != ir.ListType && n.Type != ir.MissingType
}

func mergeScalars(left, right *ir.Node) (*ir.Node, error) {
	// Rule 6: an interpolation on either side is copied by value (a fresh
	// detached clone), never forwarded as a shared node instance.
	out, err := ir.CoerceAssign(left, right)
	if err != nil {
		return nil, err
	}
	out.CopyFlags(left)
	return out, nil
}

// mergeMaps walks both sides through the string-keyed half of the map API
// (Keys/Get/Put). A typed-key container (ir.NewTypedMap) still merges
// correctly by value, but the merged result is always string-keyed: full
// key-type-preserving merge would need GetByKey/PutByKey end to end, which
// no caller of merge.Merge currently needs.
func mergeMaps(left, right *ir.Node, c *config) (*ir.Node, error) {
	out := ir.NewMap()
	out.Schema = left.Schema
	out.ElemDeclared = left.ElemDeclared
	out.CopyFlags(left)

	for _, key := range left.Keys() {
		leftChild := left.Get(key)
		rightChild := right.Get(key)
		if rightChild == nil {
			out.Put(key, leftChild.Clone())
			continue
		}
		merged, err := mergeTwo(leftChild, rightChild, c)
		if err != nil {
			return nil, ir.NewValidationError(leftChild, nil, "merging key %q: %s", key, err)
		}
		out.Put(key, merged)
	}

	leftKeys := map[string]bool{}
	for _, k := range left.Keys() {
		leftKeys[k] = true
	}
	for _, key := range right.Keys() {
		if leftKeys[key] {
			continue
		}
		// Rule 4: an incoming key not already on the schema-bound left must
		// be accepted by the schema, unless it is open.
		if left.Schema != nil && !left.Schema.Open() && !left.Schema.HasField(key) {
			return nil, ir.NewAttributeError(left, "%q is not a declared field of the schema bound to %s", key, pathOrRoot(left))
		}
		hlog.Mergef("merge adds new key", zap.String("key", key), zap.String("into", pathOrRoot(left)))
		out.Put(key, right.Get(key).Clone())
	}
	return out, nil
}

func mergeLists(left, right *ir.Node, c *config) (*ir.Node, error) {
	out := ir.NewList()
	out.ElemDeclared = left.ElemDeclared
	out.CopyFlags(left)

	switch c.listMode {
	case ListExtend:
		for i := 0; i < left.Len(); i++ {
			out.Append(left.Index(i).Clone())
		}
		for i := 0; i < right.Len(); i++ {
			out.Append(right.Index(i).Clone())
		}
	case ListExtendUnique:
		for i := 0; i < left.Len(); i++ {
			out.Append(left.Index(i).Clone())
		}
		for i := 0; i < right.Len(); i++ {
			rc := right.Index(i)
			dup := false
			for j := 0; j < left.Len(); j++ {
				if valueEqual(left.Index(j), rc) {
					dup = true
					break
				}
			}
			if !dup {
				out.Append(rc.Clone())
			}
		}
	default: // ListReplace
		for i := 0; i < right.Len(); i++ {
			out.Append(right.Index(i).Clone())
		}
	}
	return out, nil
}

func pathOrRoot(n *ir.Node) string {
	if n.Parent == nil {
		return "$"
	}
	return n.Path()
}
