package hconf

import (
	"strconv"

	"github.com/hconf-go/hconf/container"
	"github.com/hconf-go/hconf/ir"
	"github.com/hconf-go/hconf/merge"
)

// updateOptions controls Set/Update's write behavior (spec.md §4.5).
type updateOptions struct {
	merge    bool // container values merge into an existing container
	forceAdd bool // bypass struct-mode along the written path
}

// UpdateOption configures Update.
type UpdateOption func(*updateOptions)

// WithMerge controls whether a container value merges into an existing
// container at the target path (default true, per spec.md §4.5).
func WithMerge(v bool) UpdateOption { return func(o *updateOptions) { o.merge = v } }

// WithForceAdd bypasses struct-mode for the written path, creating
// intermediate containers as needed (spec.md §4.5).
func WithForceAdd(v bool) UpdateOption { return func(o *updateOptions) { o.forceAdd = v } }

// Get resolves path and returns its language-native value, resolving every
// interpolation under it (spec.md §4.5 "the high-level accessor").
func (c *Config) Get(path string) (any, error) {
	n, err := c.GetRaw(path)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ir.NewKeyError(c.root, "key not found: %q", path)
	}
	return container.ToContainer(n, container.Options{Resolve: true, Evaluator: c.evaluator()})
}

// Select navigates to path and returns its resolved node, or (nil, nil) if
// an intermediate map key is absent. Unlike Get, Select is nil-safe and
// returns the raw Node rather than projecting it, matching the low-level
// "select" of spec.md §4.5.
func (c *Config) Select(path string) (*ir.Node, error) {
	segs, err := ir.ParsePath(path)
	if err != nil {
		return nil, err
	}
	target, err := c.root.GetPath(segs)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, nil
	}
	return c.evaluator().Resolve(target)
}

// GetRaw behaves like Select but never resolves an interpolation, for
// callers that want the raw expression node (spec.md §4.5 "low-level
// select may return the raw interpolation expression on request").
func (c *Config) GetRaw(path string) (*ir.Node, error) {
	segs, err := ir.ParsePath(path)
	if err != nil {
		return nil, err
	}
	return c.root.GetPath(segs)
}

// Set is Update with the default options (merge=true, forceAdd=false).
func (c *Config) Set(path string, value any) error {
	return c.Update(path, value)
}

// Update writes value at path, honoring struct-mode, read-only, and the
// declared-type coercion of the existing target (spec.md §4.5, §4.6 rule 4).
func (c *Config) Update(path string, value any, opts ...UpdateOption) error {
	o := updateOptions{merge: true}
	for _, fn := range opts {
		fn(&o)
	}
	node, err := ir.FromNative(value)
	if err != nil {
		return err
	}
	return setPath(c.root, path, node, o)
}

// IsMissing reports whether path resolves to MISSING.
func (c *Config) IsMissing(path string) (bool, error) {
	n, err := c.GetRaw(path)
	if err != nil || n == nil {
		return false, err
	}
	return n.IsMissing(), nil
}

// IsInterpolation reports whether path holds an unresolved interpolation.
func (c *Config) IsInterpolation(path string) (bool, error) {
	n, err := c.GetRaw(path)
	if err != nil || n == nil {
		return false, err
	}
	return n.IsInterpolation(), nil
}

// IsNone reports whether path resolves to null.
func (c *Config) IsNone(path string) (bool, error) {
	n, err := c.Select(path)
	if err != nil || n == nil {
		return false, err
	}
	return n.IsNull(), nil
}

func setPath(root *ir.Node, path string, value *ir.Node, o updateOptions) error {
	segs, err := ir.ParsePath(path)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return ir.NewKeyError(root, "empty path")
	}
	cur := root
	for i, seg := range segs[:len(segs)-1] {
		next, err := descend(cur, seg, o)
		if err != nil {
			return err
		}
		if next == nil {
			return ir.NewKeyError(cur, "cannot create intermediate container at %q", pathPrefix(segs[:i+1]))
		}
		cur = next
	}
	return writeLeaf(cur, segs[len(segs)-1], value, o)
}

// descend returns the child named by seg under cur, creating an
// intermediate map when absent and permitted (struct-mode off, or
// force_add).
func descend(cur *ir.Node, seg ir.PathSeg, o updateOptions) (*ir.Node, error) {
	if cur.IsReadOnly() {
		return nil, ir.NewReadonlyError(cur)
	}
	switch {
	case seg.Field != nil:
		if cur.Type != ir.MapType {
			return nil, ir.NewTypeError(cur, "expected a map, got %s", cur.Type)
		}
		child := cur.Get(*seg.Field)
		if child != nil {
			return child, nil
		}
		if cur.IsStruct() && !o.forceAdd {
			return nil, ir.NewAttributeError(cur, "%q is not in struct", *seg.Field)
		}
		child = ir.NewMap()
		cur.Put(*seg.Field, child)
		return child, nil
	case seg.Index != nil:
		if cur.Type != ir.ListType {
			return nil, ir.NewTypeError(cur, "expected a list, got %s", cur.Type)
		}
		if *seg.Index < 0 || *seg.Index >= cur.Len() {
			return nil, ir.NewKeyError(cur, "index %d out of range (len %d)", *seg.Index, cur.Len())
		}
		return cur.Index(*seg.Index), nil
	default:
		return nil, ir.NewKeyError(cur, "empty path segment")
	}
}

func writeLeaf(cur *ir.Node, seg ir.PathSeg, value *ir.Node, o updateOptions) error {
	if cur.IsReadOnly() {
		return ir.NewReadonlyError(cur)
	}
	switch {
	case seg.Field != nil:
		if cur.Type != ir.MapType {
			return ir.NewTypeError(cur, "expected a map, got %s", cur.Type)
		}
		existing := cur.Get(*seg.Field)
		if existing == nil {
			if cur.IsStruct() && !o.forceAdd {
				return ir.NewAttributeError(cur, "%q is not in struct", *seg.Field)
			}
			if cur.Schema != nil && !cur.Schema.Open() && !cur.Schema.HasField(*seg.Field) && !o.forceAdd {
				return ir.NewAttributeError(cur, "%q is not a declared field", *seg.Field)
			}
			cur.Put(*seg.Field, value)
			return nil
		}
		if existing.IsReadOnly() {
			return ir.NewReadonlyError(existing)
		}
		merged, err := mergeOrCoerce(existing, value, o)
		if err != nil {
			return err
		}
		cur.Put(*seg.Field, merged)
		return nil
	case seg.Index != nil:
		if cur.Type != ir.ListType {
			return ir.NewTypeError(cur, "expected a list, got %s", cur.Type)
		}
		if *seg.Index < 0 || *seg.Index >= cur.Len() {
			return ir.NewKeyError(cur, "index %d out of range (len %d)", *seg.Index, cur.Len())
		}
		existing := cur.Index(*seg.Index)
		merged, err := mergeOrCoerce(existing, value, o)
		if err != nil {
			return err
		}
		return cur.SetIndex(*seg.Index, merged)
	default:
		return ir.NewKeyError(cur, "empty path segment")
	}
}

func mergeOrCoerce(existing, value *ir.Node, o updateOptions) (*ir.Node, error) {
	if o.merge && existing.Type.IsContainer() && value.Type.IsContainer() {
		return merge.Merge([]*ir.Node{existing, value})
	}
	return ir.CoerceAssign(existing, value)
}

func pathPrefix(segs []ir.PathSeg) string {
	var b []byte
	for _, s := range segs {
		if s.Field != nil {
			if len(b) > 0 {
				b = append(b, '.')
			}
			b = append(b, *s.Field...)
		} else if s.Index != nil {
			b = append(b, '[')
			b = append(b, strconv.Itoa(*s.Index)...)
			b = append(b, ']')
		}
	}
	return string(b)
}
