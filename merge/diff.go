package merge

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/hconf-go/hconf/ir"
)

// Diff renders an RFC 7386 JSON merge patch that turns the plain-container
// projection of before into that of after, for merge audit logging (SPEC_FULL.md
// domain stack). It does not resolve interpolations: the diff is computed
// over ir.Node.ToPlain(), so an untouched interpolation expression shows up
// as its own "${...}" string rather than its resolved value.
func Diff(before, after *ir.Node) (string, error) {
	a, err := json.Marshal(plainForDiff(before))
	if err != nil {
		return "", fmt.Errorf("merge.Diff: %w", err)
	}
	b, err := json.Marshal(plainForDiff(after))
	if err != nil {
		return "", fmt.Errorf("merge.Diff: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return "", fmt.Errorf("merge.Diff: %w", err)
	}
	return string(patch), nil
}

// plainForDiff is ToPlain with the MISSING marker rewritten to the "???"
// string and byte slices rewritten to strings, since encoding/json cannot
// marshal ir.MissingMarker or raw []byte the way the YAML codec does.
func plainForDiff(n *ir.Node) any {
	return rewriteForJSON(n.ToPlain())
}

func rewriteForJSON(v any) any {
	if ir.IsMissingMarker(v) {
		return "???"
	}
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, vv := range x {
			m[k] = rewriteForJSON(vv)
		}
		return m
	case []any:
		l := make([]any, len(x))
		for i, vv := range x {
			l[i] = rewriteForJSON(vv)
		}
		return l
	case []byte:
		return string(x)
	default:
		return x
	}
}
