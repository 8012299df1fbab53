package ir

// triState is the three-valued flag representation of spec.md §3: a
// container's read-only/struct flags are true, false, or inherit-from-parent,
// resolved by walking to the nearest ancestor with a definite value. The
// root defaults to false for both when nothing sets it, mirroring
// OmegaConf's base.py:_get_node_flag.
type triState int8

const (
	flagInherit triState = iota
	flagTrue
	flagFalse
)

type flagSet struct {
	ReadOnly triState
	Struct   triState
}

// IsReadOnly resolves the read-only flag by walking parent links, per
// spec.md invariant 5 (read-only propagates to descendants).
func (n *Node) IsReadOnly() bool {
	for cur := n; cur != nil; cur = cur.Parent {
		switch cur.flags.ReadOnly {
		case flagTrue:
			return true
		case flagFalse:
			return false
		}
	}
	return false
}

// IsStruct resolves the struct flag the same way.
func (n *Node) IsStruct() bool {
	for cur := n; cur != nil; cur = cur.Parent {
		switch cur.flags.Struct {
		case flagTrue:
			return true
		case flagFalse:
			return false
		}
	}
	return false
}

// SetReadOnly sets this node's own read-only flag. v == nil resets it to
// inherit-from-parent.
func (n *Node) SetReadOnly(v *bool) {
	n.flags.ReadOnly = triOf(v)
}

// SetStruct sets this node's own struct flag. v == nil resets it to
// inherit-from-parent.
func (n *Node) SetStruct(v *bool) {
	n.flags.Struct = triOf(v)
}

// ReadOnlyFlag returns this node's own (non-inherited) read-only setting:
// nil means inherit-from-parent.
func (n *Node) ReadOnlyFlag() *bool { return triPtr(n.flags.ReadOnly) }

// StructFlag returns this node's own (non-inherited) struct setting.
func (n *Node) StructFlag() *bool { return triPtr(n.flags.Struct) }

func triOf(v *bool) triState {
	if v == nil {
		return flagInherit
	}
	if *v {
		return flagTrue
	}
	return flagFalse
}

func triPtr(t triState) *bool {
	switch t {
	case flagTrue:
		b := true
		return &b
	case flagFalse:
		b := false
		return &b
	default:
		return nil
	}
}

// CopyFlags copies src's own (non-inherited) read-only/struct settings onto
// n, the way the merge engine preserves a merge target's flags on its
// result and lets newly-created children inherit them in turn (spec.md
// §4.6 rule 7).
func (n *Node) CopyFlags(src *Node) {
	n.flags = src.flags
}

// ReadOnlyGuard temporarily lifts read-only on a node (and, by extension,
// its descendants that inherit from it) and restores the prior setting on
// Release, including on a panicking exit path if the caller defers Release
// immediately (spec.md §4.5, §9 "scoped flag overrides").
type ReadOnlyGuard struct {
	node *Node
	prev triState
	done bool
}

// OpenForWrite returns a guard that makes n writable until Release is
// called. Use as:
//
//	g := n.OpenForWrite()
//	defer g.Release()
func (n *Node) OpenForWrite() *ReadOnlyGuard {
	g := &ReadOnlyGuard{node: n, prev: n.flags.ReadOnly}
	n.flags.ReadOnly = flagFalse
	return g
}

// Release restores the read-only flag captured when the guard was created.
// It is idempotent.
func (g *ReadOnlyGuard) Release() {
	if g.done {
		return
	}
	g.node.flags.ReadOnly = g.prev
	g.done = true
}
