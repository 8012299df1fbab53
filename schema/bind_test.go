package schema

import (
	"testing"

	"github.com/hconf-go/hconf/ir"
)

type withStringMap struct {
	Tags map[string]string
}

type withIntKeyedMap struct {
	ByCode map[int]string
}

func TestFromStructStringKeyedMapUsesDefaultKeyType(t *testing.T) {
	node, err := FromStruct(withStringMap{Tags: map[string]string{"env": "prod"}})
	if err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	tags := node.Get("Tags")
	if tags.KeyDeclared != ir.StringType {
		t.Fatalf("Tags.KeyDeclared = %v, want StringType", tags.KeyDeclared)
	}
	if got := tags.Get("env"); got == nil || got.String != "prod" {
		t.Fatalf("Tags.Get(env) = %#v", got)
	}
}

func TestFromStructIntKeyedMapPreservesKeyType(t *testing.T) {
	node, err := FromStruct(withIntKeyedMap{ByCode: map[int]string{200: "OK", 404: "Not Found"}})
	if err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	byCode := node.Get("ByCode")
	if byCode.KeyDeclared != ir.IntType {
		t.Fatalf("ByCode.KeyDeclared = %v, want IntType", byCode.KeyDeclared)
	}
	if got := byCode.GetByKey(ir.FromInt(200)); got == nil || got.String != "OK" {
		t.Fatalf("ByCode.GetByKey(200) = %#v", got)
	}
	if got := byCode.GetByKey(ir.FromInt(404)); got == nil || got.String != "Not Found" {
		t.Fatalf("ByCode.GetByKey(404) = %#v", got)
	}
	// the string-keyed projection still finds the same entries by their
	// rendered key, matching ir.Node.ToPlain's documented key-rendering rule
	if got := byCode.Get("200"); got == nil || got.String != "OK" {
		t.Fatalf("ByCode.Get(\"200\") = %#v", got)
	}
}

func TestFromStructIntKeyedMapOnNilMapStillDeclaresKeyType(t *testing.T) {
	node, err := FromStruct(withIntKeyedMap{})
	if err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	byCode := node.Get("ByCode")
	if byCode.Type != ir.MapType || byCode.Len() != 0 {
		t.Fatalf("got %#v", byCode)
	}
	if byCode.KeyDeclared != ir.IntType {
		t.Fatalf("ByCode.KeyDeclared = %v, want IntType", byCode.KeyDeclared)
	}
}
