package merge

import (
	"testing"

	"github.com/hconf-go/hconf/ir"
)

func strList(vals ...string) *ir.Node {
	l := ir.NewList()
	for _, v := range vals {
		l.Append(ir.FromString(v))
	}
	return l
}

func TestMergeMapsListExtendUnique(t *testing.T) {
	left := ir.NewMap()
	left.Put("server", ir.NewMap())
	left.Get("server").Put("port", ir.FromInt(80))
	left.Put("users", strList("user1", "user2"))

	right := ir.NewMap()
	right.Put("users", strList("user2", "user3"))

	out, err := Merge([]*ir.Node{left, right}, WithListMode(ListExtendUnique))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out.Get("server").Get("port").Int != 80 {
		t.Fatalf("expected server.port preserved from left")
	}
	users := out.Get("users")
	want := []string{"user1", "user2", "user3"}
	if users.Len() != len(want) {
		t.Fatalf("got %d users, want %d", users.Len(), len(want))
	}
	for i, w := range want {
		if users.Index(i).String != w {
			t.Fatalf("users[%d] = %q, want %q", i, users.Index(i).String, w)
		}
	}
}

func TestMergeListReplace(t *testing.T) {
	left := strList("a", "b")
	right := strList("c")
	out, err := Merge([]*ir.Node{left, right})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out.Len() != 1 || out.Index(0).String != "c" {
		t.Fatalf("expected REPLACE to yield [c], got len=%d", out.Len())
	}
}

func TestMergeListExtend(t *testing.T) {
	left := strList("a", "b")
	right := strList("c")
	out, err := Merge([]*ir.Node{left, right}, WithListMode(ListExtend))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", out.Len())
	}
}

func TestMergeMissingOnRightNeverOverwrites(t *testing.T) {
	left := ir.NewMap()
	left.Put("port", ir.FromInt(8080))
	right := ir.NewMap()
	right.Put("port", ir.Missing(ir.IntType))

	out, err := Merge([]*ir.Node{left, right})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out.Get("port").Int != 8080 {
		t.Fatalf("expected left's concrete value to survive, got %#v", out.Get("port"))
	}
}

func TestMergeScalarTypeValidation(t *testing.T) {
	left := ir.NewMap()
	port := ir.FromInt(80)
	left.Put("port", port)
	right := ir.NewMap()
	right.Put("port", ir.FromString("not-a-number"))

	_, err := Merge([]*ir.Node{left, right})
	if err == nil {
		t.Fatal("expected a validation error merging an unparseable string into an int field")
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	left := ir.NewMap()
	left.Put("a", ir.FromInt(1))
	right := ir.NewMap()
	right.Put("a", ir.FromInt(2))

	if _, err := Merge([]*ir.Node{left, right}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if left.Get("a").Int != 1 {
		t.Fatalf("left was mutated: %#v", left.Get("a"))
	}
	if right.Get("a").Int != 2 {
		t.Fatalf("right was mutated: %#v", right.Get("a"))
	}
}

func TestMergeUnknownKeyRejectedUnderClosedSchema(t *testing.T) {
	left := ir.NewMap()
	left.Schema = closedSchema{fields: map[string]bool{"port": true}}
	left.Put("port", ir.FromInt(80))
	right := ir.NewMap()
	right.Put("extra", ir.FromInt(1))

	_, err := Merge([]*ir.Node{left, right})
	if err == nil {
		t.Fatal("expected an attribute error for an unknown key under a closed schema")
	}
}

type closedSchema struct{ fields map[string]bool }

func (s closedSchema) HasField(name string) bool { return s.fields[name] }
func (s closedSchema) Open() bool                { return false }
