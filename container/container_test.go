package container

import (
	"sort"
	"testing"

	"github.com/hconf-go/hconf/ir"
	"github.com/hconf-go/hconf/resolve"
)

func TestToContainerPlainTree(t *testing.T) {
	root := ir.NewMap()
	root.Put("foo", ir.FromInt(1))
	list := ir.NewList()
	list.Append(ir.FromString("a"))
	list.Append(ir.FromString("b"))
	root.Put("items", list)

	got, err := ToContainer(root, Options{})
	if err != nil {
		t.Fatalf("ToContainer: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", got)
	}
	if m["foo"] != int64(1) {
		t.Fatalf("got foo=%#v", m["foo"])
	}
	items, ok := m["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("got items=%#v", m["items"])
	}
}

func TestToContainerMissingDefaultNoThrow(t *testing.T) {
	root := ir.NewMap()
	root.Put("missing", ir.Missing(ir.StringType))
	got, err := ToContainer(root, Options{})
	if err != nil {
		t.Fatalf("ToContainer: %v", err)
	}
	m := got.(map[string]any)
	if !ir.IsMissingMarker(m["missing"]) {
		t.Fatalf("expected the MISSING marker, got %#v", m["missing"])
	}
}

func TestToContainerThrowOnMissing(t *testing.T) {
	root := ir.NewMap()
	root.Put("missing", ir.Missing(ir.StringType))
	_, err := ToContainer(root, Options{ThrowOnMissing: true})
	if err == nil {
		t.Fatal("expected a MissingMandatoryValueError")
	}
}

func newEvaluator() *resolve.Evaluator {
	return resolve.NewEvaluator(resolve.NewRegistry())
}

func TestResolveInPlace(t *testing.T) {
	root := ir.NewMap()
	root.Put("base", ir.FromInt(10))
	root.Put("derived", ir.FromInterpolation("${base}"))

	ev := newEvaluator()
	if err := Resolve(root, ev); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if root.Get("derived").Int != 10 {
		t.Fatalf("got %#v", root.Get("derived"))
	}
	if root.Get("derived").Type == ir.InterpType {
		t.Fatal("expected the interpolation node to have been replaced in place")
	}
}

func TestToContainerResolvesWhenRequested(t *testing.T) {
	root := ir.NewMap()
	root.Put("base", ir.FromInt(10))
	root.Put("derived", ir.FromInterpolation("${base}"))

	ev := newEvaluator()
	got, err := ToContainer(root, Options{Resolve: true, Evaluator: ev})
	if err != nil {
		t.Fatalf("ToContainer: %v", err)
	}
	m := got.(map[string]any)
	if m["derived"] != int64(10) {
		t.Fatalf("got %#v", m["derived"])
	}
}

func TestMissingKeysIncludesListIndex(t *testing.T) {
	root := ir.NewMap()
	foo := ir.NewMap()
	foo.Put("bar", ir.Missing(ir.StringType))
	root.Put("foo", foo)
	list := ir.NewList()
	list.Append(ir.FromInt(1))
	list.Append(ir.FromInt(2))
	list.Append(ir.Missing(ir.IntType))
	root.Put("list", list)

	keys := MissingKeys(root)
	sort.Strings(keys)
	want := []string{"foo.bar", "list[2]"}
	sort.Strings(want)
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}

func TestMaskedCopyKeepsOnlyNamedKeys(t *testing.T) {
	root := ir.NewMap()
	root.Put("a", ir.FromInt(1))
	root.Put("b", ir.FromInt(2))
	root.Put("c", ir.FromInt(3))

	masked, err := MaskedCopy(root, []string{"a", "c", "nope"})
	if err != nil {
		t.Fatalf("MaskedCopy: %v", err)
	}
	if masked.Len() != 2 {
		t.Fatalf("got len %d", masked.Len())
	}
	if masked.Get("a").Int != 1 || masked.Get("c").Int != 3 {
		t.Fatalf("got %#v", masked)
	}
	if masked.Get("b") != nil {
		t.Fatal("expected b to be excluded")
	}
}

func TestMaskedCopyRequiresMap(t *testing.T) {
	_, err := MaskedCopy(ir.FromInt(1), []string{"a"})
	if err == nil {
		t.Fatal("expected a TypeError for a non-map node")
	}
}

func TestDiffStringsReportsChange(t *testing.T) {
	out := DiffStrings("line one\nline two\n", "line one\nline TWO\n")
	if out == "" {
		t.Fatal("expected a non-empty diff")
	}
}
