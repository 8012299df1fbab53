// Package hconf is the public facade of the hierarchical configuration
// engine (spec.md §6.2): a single Create entry point fanning out over every
// programmatic construction input, plus the dotted/bracketed Get/Set/
// Select/Update access API of §4.5. It wires together ir (the node model),
// grammar/parse (the Element grammar used to decode dotlist values),
// resolve (the interpolation evaluator), merge, schema, container, and
// yamlenc, the way the teacher's cmd/o commands compose the ir/eval/encode
// packages behind one CLI surface.
package hconf

import (
	"fmt"
	"os"
	"strings"

	"github.com/hconf-go/hconf/container"
	"github.com/hconf-go/hconf/grammar/parse"
	"github.com/hconf-go/hconf/internal/hlog"
	"github.com/hconf-go/hconf/ir"
	"github.com/hconf-go/hconf/merge"
	"github.com/hconf-go/hconf/resolve"
	"github.com/hconf-go/hconf/schema"
	"github.com/hconf-go/hconf/yamlenc"
	"go.uber.org/zap"
)

// Config is a bound configuration tree plus the resolver registry that
// governs its interpolations. The zero value is not usable; build one with
// Create.
type Config struct {
	root *ir.Node
	reg  *resolve.Registry
}

// Create builds a Config from any of spec.md §6.2's construction inputs:
//
//   - nil: an empty map container.
//   - map[string]any / []any: a language-native literal.
//   - string: YAML document text.
//   - []string: a dot-list of "path=value" assignments, each right-hand
//     side parsed through the Element grammar (grammar/parse.ParseElement).
//   - *schema.Binding: a declared schema type, instantiated with defaults.
//   - any other value: a Go struct (or pointer to one), bound via
//     schema.FromStruct.
func Create(v any) (*Config, error) {
	root, err := buildRoot(v)
	if err != nil {
		return nil, err
	}
	return &Config{root: root, reg: resolve.NewRegistry()}, nil
}

func buildRoot(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.NewMap(), nil
	case map[string]any:
		return ir.FromNative(x)
	case []any:
		return ir.FromNative(x)
	case string:
		return yamlenc.Decode([]byte(x))
	case []string:
		return fromDotList(x)
	case *schema.Binding:
		return schema.Instantiate(x), nil
	default:
		return schema.FromStruct(x)
	}
}

func fromDotList(assignments []string) (*ir.Node, error) {
	root := ir.NewMap()
	for _, a := range assignments {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("hconf.Create: dotlist entry %q is missing '='", a)
		}
		el, err := parse.ParseElement(v)
		if err != nil {
			return nil, fmt.Errorf("hconf.Create: dotlist entry %q: %w", a, err)
		}
		node, err := parse.ElementToNode(el)
		if err != nil {
			return nil, fmt.Errorf("hconf.Create: dotlist entry %q: %w", a, err)
		}
		if err := setPath(root, k, node, updateOptions{forceAdd: true, merge: true}); err != nil {
			return nil, fmt.Errorf("hconf.Create: dotlist entry %q: %w", a, err)
		}
	}
	return root, nil
}

// Root returns the Config's underlying node tree, for callers that need to
// drop down to package ir/merge/container directly.
func (c *Config) Root() *ir.Node { return c.root }

// Registry returns the resolver registry backing this Config's
// interpolations, for RegisterResolver-style customization (spec.md §4.3).
func (c *Config) Registry() *resolve.Registry { return c.reg }

func (c *Config) evaluator() *resolve.Evaluator {
	return resolve.NewEvaluator(c.reg)
}

// ToContainer projects the whole tree to a plain, language-native value
// (spec.md §4.8), resolving interpolations.
func (c *Config) ToContainer(throwOnMissing bool) (any, error) {
	return container.ToContainer(c.root, container.Options{
		Resolve:        true,
		ThrowOnMissing: throwOnMissing,
		Evaluator:      c.evaluator(),
	})
}

// Resolve eagerly evaluates every interpolation in place (spec.md §4.8).
func (c *Config) Resolve() error {
	if err := container.Resolve(c.root, c.evaluator()); err != nil {
		return err
	}
	hlog.Dump(c.root, os.Stderr)
	return nil
}

// MissingKeys returns the flat set of MISSING descendant paths (spec.md §4.8).
func (c *Config) MissingKeys() []string {
	return container.MissingKeys(c.root)
}

// MaskedCopy returns a new Config restricted to the named top-level keys.
func (c *Config) MaskedCopy(keys []string) (*Config, error) {
	masked, err := container.MaskedCopy(c.root, keys)
	if err != nil {
		return nil, err
	}
	return &Config{root: masked, reg: c.reg}, nil
}

// Merge layers others on top of c, right-biased, returning a new Config
// (spec.md §4.6). c and others are left unchanged.
func (c *Config) Merge(others ...*Config) (*Config, error) {
	trees := make([]*ir.Node, 0, len(others)+1)
	trees = append(trees, c.root)
	for _, o := range others {
		trees = append(trees, o.root)
	}
	merged, err := merge.Merge(trees)
	if err != nil {
		return nil, err
	}
	hlog.Mergef("merged configs", zap.Int("count", len(trees)))
	return &Config{root: merged, reg: c.reg}, nil
}

// Diff renders a JSON merge-patch from c to other, per merge.Diff.
func (c *Config) Diff(other *Config) (string, error) {
	return merge.Diff(c.root, other.root)
}

// YAML renders the Config's raw (unresolved) tree as canonical YAML text
// (spec.md §6.1).
func (c *Config) YAML() (string, error) {
	var b strings.Builder
	if err := yamlenc.Encode(c.root, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Clone returns a deep, independent copy of c sharing the same registry.
func (c *Config) Clone() *Config {
	return &Config{root: c.root.Clone(), reg: c.reg}
}
