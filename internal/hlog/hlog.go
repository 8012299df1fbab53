// Package hlog is the logging seam used by every hconf package.
//
// It mirrors the teacher repo's env-var gated debug package, but backs the
// actual log lines with a structured zap.Logger instead of fmt.Fprintf, so
// that callers embedding hconf in a service can redirect or format its
// diagnostics the same way they do their own.
package hlog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/hconf-go/hconf/ir"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log *zap.Logger

	flags struct {
		Eval    bool
		Merge   bool
		Resolve bool
		Schema  bool
		Dump    bool
	}
)

func init() {
	log = zap.NewNop()
	flags.Eval = boolEnv("HCONF_DEBUG_EVAL")
	flags.Merge = boolEnv("HCONF_DEBUG_MERGE")
	flags.Resolve = boolEnv("HCONF_DEBUG_RESOLVE")
	flags.Schema = boolEnv("HCONF_DEBUG_SCHEMA")
	flags.Dump = boolEnv("HCONF_DEBUG_DUMP")
	if flags.Eval || flags.Merge || flags.Resolve || flags.Schema || flags.Dump {
		if l, err := zap.NewDevelopment(); err == nil {
			log = l
		}
	}
}

func boolEnv(name string) bool {
	v := os.Getenv(name)
	if v == "" {
		return false
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// SetLogger installs l as the logger used by every hconf package. Passing
// nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		log = zap.NewNop()
		return
	}
	log = l
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func EvalEnabled() bool    { return flags.Eval }
func MergeEnabled() bool   { return flags.Merge }
func ResolveEnabled() bool { return flags.Resolve }
func SchemaEnabled() bool  { return flags.Schema }
func DumpEnabled() bool    { return flags.Dump }

// Evalf logs a fragment-by-fragment evaluator trace when HCONF_DEBUG_EVAL is set.
func Evalf(msg string, fields ...zap.Field) {
	if !flags.Eval {
		return
	}
	L().Debug(msg, fields...)
}

// Mergef logs a layered-merge trace when HCONF_DEBUG_MERGE is set.
func Mergef(msg string, fields ...zap.Field) {
	if !flags.Merge {
		return
	}
	L().Debug(msg, fields...)
}

// Resolvef logs resolver registry activity when HCONF_DEBUG_RESOLVE is set.
func Resolvef(msg string, fields ...zap.Field) {
	if !flags.Resolve {
		return
	}
	L().Debug(msg, fields...)
}

// Schemaf logs structured-schema binding activity when HCONF_DEBUG_SCHEMA is set.
func Schemaf(msg string, fields ...zap.Field) {
	if !flags.Schema {
		return
	}
	L().Debug(msg, fields...)
}

// typeColors maps each ir.Type to the SprintfFunc used to render its values
// in Dump, following the teacher's per-Type Colorable table
// (go-tony/encode/encode_colors.go), collapsed to one color per type rather
// than one per type+field-role.
var typeColors = map[ir.Type]func(string, ...any) string{
	ir.MapType:    color.RGB(128, 168, 196).SprintfFunc(),
	ir.ListType:   color.RGB(196, 128, 128).SprintfFunc(),
	ir.StringType: color.RGB(8, 196, 16).SprintfFunc(),
	ir.IntType:    color.RGB(128, 216, 236).SprintfFunc(),
	ir.FloatType:  color.RGB(128, 216, 236).SprintfFunc(),
	ir.BoolType:   color.CyanString,
	ir.NullType:   color.RGB(168, 0, 196).SprintfFunc(),
	ir.MissingType: color.RGB(196, 96, 16).SprintfFunc(),
	ir.InterpType: color.RGB(74, 92, 138).SprintfFunc(),
}

// Dump writes a colorized tree dump of n to w when HCONF_DEBUG_DUMP is set,
// one line per node with its path and type, colored by type. Color is
// suppressed when w is not a terminal (go-isatty), matching the teacher's
// cmd/o/configs.go terminal-detection before emitting ANSI codes.
func Dump(n *ir.Node, w io.Writer) {
	if !flags.Dump || n == nil {
		return
	}
	plain := true
	if f, ok := w.(*os.File); ok {
		plain = !isatty.IsTerminal(f.Fd())
	}
	dumpNode(n, w, plain)
}

func dumpNode(n *ir.Node, w io.Writer, plain bool) {
	n.Visit(func(cur *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return true, nil
		}
		line := fmt.Sprintf("%s %s", pathLabel(cur), cur.Type)
		paint := typeColors[cur.Type]
		if plain || paint == nil {
			fmt.Fprintln(w, line)
		} else {
			fmt.Fprintln(w, paint(line))
		}
		return true, nil
	})
}

func pathLabel(n *ir.Node) string {
	p := n.Path()
	if p == "" {
		return "."
	}
	return strings.TrimPrefix(p, ".")
}
