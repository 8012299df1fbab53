// Package resolve implements the resolver registry (spec.md §4.3, C3) and
// the interpolation evaluator (spec.md §4.4, C4). It is grounded on the
// teacher's eval package: a global, mutex-guarded name->callable table
// (eval/register.go) seeded by an init() that registers built-ins
// (mirroring eval/register.go's own init), and on the Symbol/Op split of
// mergeop for dispatching a resolver call to its implementation.
package resolve

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hconf-go/hconf/internal/hlog"
	"github.com/hconf-go/hconf/ir"
	"go.uber.org/zap"
)

// Plain is a resolver with no need for tree context: it sees only its
// evaluated arguments (spec.md §9 "plain / context-aware" function shapes).
type Plain func(args []*ir.Node) (*ir.Node, error)

// Contextual is a resolver that also receives the node whose text is being
// evaluated (parent) and the tree root, the way environment-lookup does not
// need them but select-with-default, create-subconfig, and deprecated do.
type Contextual func(args []*ir.Node, parent, root *ir.Node) (*ir.Node, error)

// Resolver is one registered entry. Exactly one of Plain/Contextual is set;
// the evaluator inspects which at call time to decide whether to inject
// parent/root, per the "inspects the callable's formal parameter spec at
// registration" design note (spec.md §9).
type Resolver struct {
	Name       string
	Plain      Plain
	Contextual Contextual
	UseCache   bool
	builtin    bool
}

func (r *Resolver) call(args []*ir.Node, parent, root *ir.Node) (*ir.Node, error) {
	if r.Contextual != nil {
		return r.Contextual(args, parent, root)
	}
	return r.Plain(args)
}

// ErrResolverExists is returned by Register when name is already bound and
// replace is false.
var ErrResolverExists = fmt.Errorf("resolver already registered")

// Registry is the name -> Resolver table plus its per-entry memoization
// cache. It uses copy-on-write semantics (spec.md §5): Snapshot returns an
// immutable view that an in-flight evaluation holds for its whole
// lifetime, so a concurrent Register/Clear elsewhere is never visible
// mid-evaluation.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]*Resolver
	cache     map[cacheKey]*ir.Node
}

type cacheKey struct {
	name    string
	argText string
}

// NewRegistry returns a Registry seeded with the built-ins of spec.md §4.3
// (plus the oc.expr bonus resolver of SPEC_FULL.md's domain stack).
func NewRegistry() *Registry {
	r := &Registry{
		resolvers: map[string]*Resolver{},
		cache:     map[cacheKey]*ir.Node{},
	}
	r.RestoreBuiltins()
	return r
}

// Register binds name to res. It fails with ErrResolverExists unless
// replace is true or name is not yet bound (spec.md §4.3 "register").
func (r *Registry) Register(name string, res *Resolver, replace bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resolvers[name]; exists && !replace {
		return fmt.Errorf("%s: %w", name, ErrResolverExists)
	}
	res.Name = name
	r.resolvers[name] = res
	r.invalidateLocked(name)
	hlog.Resolvef("resolver registered", zap.String("name", name), zap.Bool("use_cache", res.UseCache))
	return nil
}

// Has reports whether name is bound.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.resolvers[name]
	return ok
}

// Clear unbinds name, builtin or custom, and drops its cache entries.
func (r *Registry) Clear(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resolvers, name)
	r.invalidateLocked(name)
}

// ClearAll unbinds every resolver, builtin and custom, and drops the whole
// cache (spec.md §4.3 "clear_all: lifecycle for test isolation").
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers = map[string]*Resolver{}
	r.cache = map[cacheKey]*ir.Node{}
}

// RestoreBuiltins re-registers every built-in resolver (overwriting any
// custom resolver registered under the same name), without touching other
// custom resolvers. Tests use ClearAll followed by RestoreBuiltins to reset
// to a known state (spec.md §5 "tests MUST be able to clear custom
// resolvers and restore built-ins").
func (r *Registry) RestoreBuiltins() {
	for _, b := range builtins() {
		r.mu.Lock()
		b.builtin = true
		r.resolvers[b.Name] = b
		r.mu.Unlock()
	}
}

func (r *Registry) lookup(name string) *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolvers[name]
}

func (r *Registry) invalidateLocked(name string) {
	for k := range r.cache {
		if k.name == name {
			delete(r.cache, k)
		}
	}
}

// snapshot is the copy-on-write view an evaluation holds for its duration.
type snapshot struct {
	resolvers map[string]*Resolver
	reg       *Registry
}

// Snapshot captures the current resolver set. Mutating the Registry after
// Snapshot returns does not affect the snapshot's Lookup results,
// satisfying spec.md §5's "snapshot taken at the start of an evaluation is
// stable across that evaluation".
func (r *Registry) Snapshot() *snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make(map[string]*Resolver, len(r.resolvers))
	for k, v := range r.resolvers {
		cp[k] = v
	}
	return &snapshot{resolvers: cp, reg: r}
}

func (s *snapshot) Lookup(name string) *Resolver {
	return s.resolvers[name]
}

// Invoke calls the resolver bound to name, consulting/populating the cache
// when the resolver opted into it, keyed by the normalized textual
// argument list rather than the evaluated values (spec.md §4.3: this is
// what makes "${r:0,1}" and "${r:0, 1}" (stripped) cache-hit each other).
func (s *snapshot) Invoke(name, argText string, args []*ir.Node, parent, root *ir.Node) (*ir.Node, error) {
	res := s.Lookup(name)
	if res == nil {
		return nil, fmt.Errorf("no such resolver %q", name)
	}
	if res.UseCache {
		key := cacheKey{name: name, argText: normalizeArgText(argText)}
		s.reg.mu.RLock()
		if v, ok := s.reg.cache[key]; ok {
			s.reg.mu.RUnlock()
			hlog.Resolvef("resolver cache hit", zap.String("name", name), zap.String("args", key.argText))
			return v.Clone(), nil
		}
		s.reg.mu.RUnlock()
		v, err := res.call(args, parent, root)
		if err != nil {
			return nil, err
		}
		s.reg.mu.Lock()
		s.reg.cache[key] = v
		s.reg.mu.Unlock()
		return v.Clone(), nil
	}
	return res.call(args, parent, root)
}

func normalizeArgText(s string) string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}
