package hconf

import (
	"testing"

	"github.com/hconf-go/hconf/ir"
)

func TestCreateEmpty(t *testing.T) {
	c, err := Create(nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Root().Type != ir.MapType || c.Root().Len() != 0 {
		t.Fatalf("got %#v", c.Root())
	}
}

func TestCreateFromMap(t *testing.T) {
	c, err := Create(map[string]any{"a": 1, "b": map[string]any{"c": "x"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := c.Get("b.c")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "x" {
		t.Fatalf("got %#v", got)
	}
}

func TestCreateFromYAML(t *testing.T) {
	c, err := Create("base: 10\nderived: ${base}\n")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := c.Get("derived")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != int64(10) {
		t.Fatalf("got %#v", got)
	}
}

func TestCreateFromDotList(t *testing.T) {
	c, err := Create([]string{"server.port=8080", "server.name=api"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	port, err := c.Get("server.port")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if port != int64(8080) {
		t.Fatalf("got %#v", port)
	}
	name, err := c.Get("server.name")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if name != "api" {
		t.Fatalf("got %#v", name)
	}
}

func TestGetMissingKeyErrors(t *testing.T) {
	c, _ := Create(map[string]any{"a": 1})
	if _, err := c.Get("nope"); err == nil {
		t.Fatal("expected a ConfigKeyError")
	}
}

func TestSetAndGetRoundTrip(t *testing.T) {
	c, _ := Create(nil)
	if err := c.Set("a.b", 42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get("a.b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("got %#v", got)
	}
}

func TestStructModeRejectsNewField(t *testing.T) {
	c, _ := Create(map[string]any{"a": 1})
	c.Root().SetStruct(boolPtr(true))
	if err := c.Set("b", 1); err == nil {
		t.Fatal("expected an AttributeError under struct-mode")
	}
	if err := c.Update("b", 1, WithForceAdd(true)); err != nil {
		t.Fatalf("force_add Update: %v", err)
	}
}

func TestReadOnlyRejectsMutation(t *testing.T) {
	c, _ := Create(map[string]any{"a": 1})
	c.Root().SetReadOnly(boolPtr(true))
	if err := c.Set("a", 2); err == nil {
		t.Fatal("expected a ReadonlyConfigError")
	}
	g := c.Root().OpenForWrite()
	if err := c.Set("a", 2); err != nil {
		t.Fatalf("Set after OpenForWrite: %v", err)
	}
	g.Release()
}

func TestUpdateMergesContainers(t *testing.T) {
	c, _ := Create(map[string]any{"a": map[string]any{"x": 1}})
	if err := c.Update("a", map[string]any{"y": 2}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	x, err := c.Get("a.x")
	if err != nil || x != int64(1) {
		t.Fatalf("got %#v err=%v", x, err)
	}
	y, err := c.Get("a.y")
	if err != nil || y != int64(2) {
		t.Fatalf("got %#v err=%v", y, err)
	}
}

func TestMergeConfigs(t *testing.T) {
	base, _ := Create(map[string]any{"a": 1, "b": 2})
	override, _ := Create(map[string]any{"b": 3, "c": 4})
	merged, err := base.Merge(override)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	b, _ := merged.Get("b")
	if b != int64(3) {
		t.Fatalf("got %#v", b)
	}
	c, _ := merged.Get("c")
	if c != int64(4) {
		t.Fatalf("got %#v", c)
	}
}

func TestMissingKeysAndIsMissing(t *testing.T) {
	c, err := Create(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := c.Update("b", nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	c.Root().Put("missing", ir.Missing(ir.StringType))
	missing, err := c.IsMissing("missing")
	if err != nil {
		t.Fatalf("IsMissing: %v", err)
	}
	if !missing {
		t.Fatal("expected missing to report true")
	}
	keys := c.MissingKeys()
	found := false
	for _, k := range keys {
		if k == "missing" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected missing-keys to include %q, got %v", "missing", keys)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	c, _ := Create(map[string]any{"name": "server"})
	text, err := c.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	c2, err := Create(text)
	if err != nil {
		t.Fatalf("Create from rendered YAML: %v", err)
	}
	got, err := c2.Get("name")
	if err != nil || got != "server" {
		t.Fatalf("got %#v err=%v", got, err)
	}
}

func boolPtr(b bool) *bool { return &b }
