package ir

import "testing"

func TestMapPutGetKeysDelete(t *testing.T) {
	m := NewMap()
	m.Put("a", FromInt(1))
	m.Put("b", FromString("x"))

	if got := m.Get("a"); got == nil || got.Int != 1 {
		t.Fatalf("Get(a) = %#v", got)
	}
	if got := m.Get("missing"); got != nil {
		t.Fatalf("Get(missing) = %#v, want nil", got)
	}
	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Keys() = %v", got)
	}

	m.Delete("a")
	if m.Len() != 1 {
		t.Fatalf("Len() after Delete = %d", m.Len())
	}
	if got := m.Get("a"); got != nil {
		t.Fatalf("Get(a) after Delete = %#v, want nil", got)
	}
}

func TestMapPutSetsParentLinks(t *testing.T) {
	m := NewMap()
	child := FromInt(1)
	m.Put("a", child)

	if child.Parent != m || child.ParentField != "a" {
		t.Fatalf("child parent links = %v %q", child.Parent, child.ParentField)
	}
}

func TestListAppendIndexSetIndex(t *testing.T) {
	l := NewList()
	l.Append(FromInt(1))
	l.Append(FromInt(2))

	if l.Len() != 2 {
		t.Fatalf("Len() = %d", l.Len())
	}
	if got := l.Index(0); got.Int != 1 {
		t.Fatalf("Index(0) = %#v", got)
	}
	if got := l.Index(5); got != nil {
		t.Fatalf("Index(5) = %#v, want nil", got)
	}

	if err := l.SetIndex(1, FromInt(9)); err != nil {
		t.Fatalf("SetIndex: %v", err)
	}
	if got := l.Index(1); got.Int != 9 {
		t.Fatalf("Index(1) after SetIndex = %#v", got)
	}
	if err := l.SetIndex(5, FromInt(0)); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestListAppendSetsParentIndex(t *testing.T) {
	l := NewList()
	a := FromInt(1)
	b := FromInt(2)
	l.Append(a)
	l.Append(b)

	if a.ParentIndex != 0 || b.ParentIndex != 1 {
		t.Fatalf("parent indices = %d %d", a.ParentIndex, b.ParentIndex)
	}
}

func TestReindexAfterDelete(t *testing.T) {
	l := NewList()
	l.Append(FromInt(0))
	l.Append(FromInt(1))
	l.Append(FromInt(2))

	m := NewMap()
	m.Put("a", FromInt(1))
	m.Put("b", FromInt(2))
	m.Delete("a")

	if got := m.Get("b"); got.ParentField != "b" {
		t.Fatalf("b.ParentField = %q", got.ParentField)
	}
}

func TestIsMissingIsNullIsInterpolation(t *testing.T) {
	if !Missing(IntType).IsMissing() {
		t.Fatal("Missing().IsMissing() = false")
	}
	if !Null(IntType).IsNull() {
		t.Fatal("Null().IsNull() = false")
	}
	if !FromInterpolation("${a}").IsInterpolation() {
		t.Fatal("FromInterpolation().IsInterpolation() = false")
	}
	if FromInt(1).IsMissing() || FromInt(1).IsNull() || FromInt(1).IsInterpolation() {
		t.Fatal("FromInt(1) reports a non-scalar predicate as true")
	}
}

func TestRoot(t *testing.T) {
	root := NewMap()
	child := NewMap()
	root.Put("a", child)
	grandchild := FromInt(1)
	child.Put("b", grandchild)

	if grandchild.Root() != root {
		t.Fatalf("Root() = %p, want %p", grandchild.Root(), root)
	}
}

func TestClonePreservesValueAndDetachesParent(t *testing.T) {
	root := NewMap()
	root.Put("a", FromString("x"))
	clone := root.Clone()

	if clone == root {
		t.Fatal("Clone() returned the same pointer")
	}
	if clone.Parent != nil {
		t.Fatalf("clone.Parent = %v, want nil", clone.Parent)
	}
	if clone.Get("a").String != "x" {
		t.Fatalf("clone.Get(a) = %#v", clone.Get("a"))
	}
	// mutating the clone must not affect the original
	clone.Put("a", FromString("y"))
	if root.Get("a").String != "x" {
		t.Fatalf("original mutated via clone: %#v", root.Get("a"))
	}
}

func TestVisitPreAndPostOrder(t *testing.T) {
	root := NewMap()
	root.Put("a", FromInt(1))
	root.Put("b", FromInt(2))

	var pre, post []Type
	err := root.Visit(func(n *Node, isPost bool) (bool, error) {
		if isPost {
			post = append(post, n.Type)
		} else {
			pre = append(pre, n.Type)
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("Visit: %v", err)
	}
	// pre-order: map, int, int ; post-order: map (only containers get a post visit)
	if len(pre) != 3 || pre[0] != MapType {
		t.Fatalf("pre = %v", pre)
	}
	if len(post) != 1 || post[0] != MapType {
		t.Fatalf("post = %v", post)
	}
}

func TestVisitSkipsDescendWhenPreReturnsFalse(t *testing.T) {
	root := NewMap()
	root.Put("a", FromInt(1))

	var visited []Type
	err := root.Visit(func(n *Node, isPost bool) (bool, error) {
		visited = append(visited, n.Type)
		return false, nil
	})
	if err != nil {
		t.Fatalf("Visit: %v", err)
	}
	if len(visited) != 1 {
		t.Fatalf("visited = %v, want exactly the root", visited)
	}
}

func TestTruth(t *testing.T) {
	cases := []struct {
		name string
		n    *Node
		want bool
	}{
		{"empty map", NewMap(), false},
		{"nonempty map", func() *Node { m := NewMap(); m.Put("a", FromInt(1)); return m }(), true},
		{"empty string", FromString(""), false},
		{"nonempty string", FromString("x"), true},
		{"zero int", FromInt(0), false},
		{"nonzero int", FromInt(1), true},
		{"false bool", FromBool(false), false},
		{"true bool", FromBool(true), true},
		{"null", Null(AnyType), false},
		{"missing", Missing(AnyType), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Truth(c.n); got != c.want {
				t.Fatalf("Truth(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}
