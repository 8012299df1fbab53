package ir

import "testing"

func buildTree() *Node {
	root := NewMap()
	sub := NewMap()
	sub.Put("c", FromInt(1))
	root.Put("a", sub)
	list := NewList()
	list.Append(FromString("x"))
	list.Append(FromString("y"))
	root.Put("list", list)
	return root
}

func TestNodePathRendersDottedAndBracketedSegments(t *testing.T) {
	root := buildTree()
	c := root.Get("a").Get("c")
	if got := c.Path(); got != "a.c" {
		t.Fatalf("Path() = %q", got)
	}
	elem := root.Get("list").Index(1)
	if got := elem.Path(); got != "list[1]" {
		t.Fatalf("Path() = %q", got)
	}
	if got := root.Path(); got != "" {
		t.Fatalf("root.Path() = %q, want empty", got)
	}
}

func TestParsePathSimpleAndBracketed(t *testing.T) {
	segs, err := ParsePath("a.b[0].c")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if len(segs) != 4 {
		t.Fatalf("len(segs) = %d, want 4", len(segs))
	}
	if *segs[0].Field != "a" || *segs[1].Field != "b" || *segs[2].Index != 0 || *segs[3].Field != "c" {
		t.Fatalf("segs = %+v", segs)
	}
}

func TestParsePathEmptyStringIsNoSegments(t *testing.T) {
	segs, err := ParsePath("")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if len(segs) != 0 {
		t.Fatalf("segs = %v, want none", segs)
	}
}

func TestParsePathUnterminatedBracketErrors(t *testing.T) {
	if _, err := ParsePath("a[0"); err == nil {
		t.Fatal("expected an error for an unterminated '['")
	}
}

func TestParsePathQuotedFieldWithDot(t *testing.T) {
	segs, err := ParsePath("'a.b'.c")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	want := []PathSeg{{Field: strPtr("a.b")}, {Field: strPtr("c")}}
	if len(segs) != 2 || *segs[0].Field != *want[0].Field || *segs[1].Field != *want[1].Field {
		t.Fatalf("segs = %+v", segs)
	}
}

func TestGetPathNavigatesMapsAndLists(t *testing.T) {
	root := buildTree()
	segs, err := ParsePath("a.c")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	got, err := root.GetPath(segs)
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if got == nil || got.Int != 1 {
		t.Fatalf("got %#v", got)
	}

	segs2, _ := ParsePath("list[0]")
	got2, err := root.GetPath(segs2)
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if got2.String != "x" {
		t.Fatalf("got %#v", got2)
	}
}

func TestGetPathAbsentMapKeyIsNilNilNotError(t *testing.T) {
	root := buildTree()
	segs, _ := ParsePath("nope.deeper")
	got, err := root.GetPath(segs)
	if err != nil {
		t.Fatalf("GetPath returned an error for a structurally absent key: %v", err)
	}
	if got != nil {
		t.Fatalf("got %#v, want nil", got)
	}
}

func TestGetPathOutOfRangeIndexIsError(t *testing.T) {
	root := buildTree()
	segs, _ := ParsePath("list[99]")
	if _, err := root.GetPath(segs); err == nil {
		t.Fatal("expected a KeyError for an out-of-range index")
	}
}

func TestGetPathKindMismatchIsError(t *testing.T) {
	root := buildTree()
	segs, _ := ParsePath("a[0]")
	if _, err := root.GetPath(segs); err == nil {
		t.Fatal("expected a TypeError indexing a map as a list")
	}
}

func TestAscend(t *testing.T) {
	root := buildTree()
	c := root.Get("a").Get("c")

	got, err := c.Ascend(1)
	if err != nil {
		t.Fatalf("Ascend(1): %v", err)
	}
	if got != root.Get("a") {
		t.Fatalf("Ascend(1) = %p, want %p", got, root.Get("a"))
	}

	got2, err := c.Ascend(2)
	if err != nil {
		t.Fatalf("Ascend(2): %v", err)
	}
	if got2 != root {
		t.Fatalf("Ascend(2) = %p, want root %p", got2, root)
	}

	if _, err := c.Ascend(3); err == nil {
		t.Fatal("expected an error ascending past the root")
	}
}

func strPtr(s string) *string { return &s }
