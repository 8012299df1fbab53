package ir

import "testing"

func boolp(b bool) *bool { return &b }

func TestReadOnlyInheritsFromNearestAncestor(t *testing.T) {
	root := NewMap()
	child := NewMap()
	root.Put("a", child)
	grandchild := FromInt(1)
	child.Put("b", grandchild)

	if grandchild.IsReadOnly() {
		t.Fatal("expected read-only false by default")
	}

	root.SetReadOnly(boolp(true))
	if !grandchild.IsReadOnly() {
		t.Fatal("expected read-only to inherit from the root")
	}

	child.SetReadOnly(boolp(false))
	if grandchild.IsReadOnly() {
		t.Fatal("expected the nearer ancestor's false to win over the root's true")
	}
}

func TestStructFlagSameInheritanceRule(t *testing.T) {
	root := NewMap()
	root.SetStruct(boolp(true))
	child := NewMap()
	root.Put("a", child)

	if !child.IsStruct() {
		t.Fatal("expected struct-mode to inherit from the root")
	}
}

func TestSetReadOnlyNilResetsToInherit(t *testing.T) {
	root := NewMap()
	root.SetReadOnly(boolp(true))
	child := NewMap()
	root.Put("a", child)
	child.SetReadOnly(boolp(false))
	child.SetReadOnly(nil)

	if !child.IsReadOnly() {
		t.Fatal("expected resetting to inherit to pick up the root's true")
	}
}

func TestReadOnlyFlagAndStructFlagReportOwnSettingOnly(t *testing.T) {
	n := NewMap()
	if n.ReadOnlyFlag() != nil {
		t.Fatalf("ReadOnlyFlag() = %v, want nil before any SetReadOnly call", n.ReadOnlyFlag())
	}
	n.SetReadOnly(boolp(true))
	if got := n.ReadOnlyFlag(); got == nil || !*got {
		t.Fatalf("ReadOnlyFlag() = %v, want true", got)
	}
}

func TestOpenForWriteLiftsAndReleaseRestores(t *testing.T) {
	n := NewMap()
	n.SetReadOnly(boolp(true))
	if !n.IsReadOnly() {
		t.Fatal("expected read-only true before OpenForWrite")
	}

	g := n.OpenForWrite()
	if n.IsReadOnly() {
		t.Fatal("expected read-only false while the guard is held")
	}
	g.Release()
	if !n.IsReadOnly() {
		t.Fatal("expected read-only true restored after Release")
	}
}

func TestOpenForWriteReleaseIsIdempotent(t *testing.T) {
	n := NewMap()
	n.SetReadOnly(boolp(true))
	g := n.OpenForWrite()
	g.Release()
	g.Release() // must not panic or double-restore incorrectly
	if !n.IsReadOnly() {
		t.Fatal("expected read-only true after two Release calls")
	}
}

func TestCopyFlagsCopiesOwnSettingsOnly(t *testing.T) {
	src := NewMap()
	src.SetReadOnly(boolp(true))
	src.SetStruct(boolp(true))

	dst := NewMap()
	dst.CopyFlags(src)

	if !dst.IsReadOnly() || !dst.IsStruct() {
		t.Fatalf("dst flags not copied: readOnly=%v struct=%v", dst.IsReadOnly(), dst.IsStruct())
	}
}
