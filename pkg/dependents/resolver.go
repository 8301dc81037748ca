package dependents

import (
	"sort"

	"github.com/quarrybuild/quarry/pkg/model"
)

// Resolver resolves the transitive dependents of native binaries. It is the
// resolution strategy for model.KindNative targets; targets of other kinds
// are declined so a dispatching layer can try another strategy.
//
// Every ResolveDependents call builds its own state snapshot from the scope
// registry and discards it when the call returns, so a Resolver may be
// shared across goroutines as long as the registry's enumeration is safe.
type Resolver struct {
	registry model.ScopeRegistry

	extraBinaries     func(model.Scope) []model.NativeBinary
	extraDependencies func(model.NativeBinary) []model.NativeBinary
}

// NewResolver creates a resolver over the given scope registry. The
// extension hooks default to contributing nothing.
func NewResolver(registry model.ScopeRegistry) *Resolver {
	return &Resolver{
		registry:          registry,
		extraBinaries:     func(model.Scope) []model.NativeBinary { return nil },
		extraDependencies: func(model.NativeBinary) []model.NativeBinary { return nil },
	}
}

// SetExtraBinaries installs a hook contributing per-scope binaries that the
// standard component enumeration cannot see. Specialized strategies for
// other binary kinds set this; the default contributes nothing.
func (r *Resolver) SetExtraBinaries(hook func(model.Scope) []model.NativeBinary) {
	r.extraBinaries = hook
}

// SetExtraDependencies installs a hook contributing per-binary forward
// dependency edges beyond the declared ones.
func (r *Resolver) SetExtraDependencies(hook func(model.NativeBinary) []model.NativeBinary) {
	r.extraDependencies = hook
}

// ResolveDependents resolves the ordered tree of binaries that transitively
// depend on target, not including target itself. ok is false when target is
// not a native binary; the caller is expected to try another strategy. The
// only error paths are a *CircularDependencyError for a cyclic build graph
// and registry enumeration failures, which propagate unmodified.
func (r *Resolver) ResolveDependents(target model.Binary) (results []*ResolvedResult, ok bool, err error) {
	native, isNative := target.(model.NativeBinary)
	if !isNative {
		return nil, false, nil
	}
	st, err := r.buildState()
	if err != nil {
		return nil, true, err
	}
	results, err = r.buildResult(native, st, nil)
	if err != nil {
		return nil, true, err
	}
	return results, true, nil
}

// buildState walks all scopes in lexicographic path order so resolution is
// reproducible regardless of registration order, collects every native
// binary under its canonical key, and records each binary's forward edges.
// Prebuilt dependencies are recorded by their owners but never become
// edges: they are leaves with no dependents of their own to track.
func (r *Resolver) buildState() (*state, error) {
	st := newState()

	scopes, err := r.registry.AllScopes()
	if err != nil {
		return nil, err
	}
	ordered := make([]model.Scope, len(scopes))
	copy(ordered, scopes)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Path() < ordered[j].Path() })

	for _, scope := range ordered {
		if scope.HasNativeModel() {
			for _, component := range scope.NativeComponents() {
				for _, binary := range component.Binaries() {
					st.register(binary)
				}
			}
		}
		for _, extra := range r.extraBinaries(scope) {
			st.register(extra)
		}
	}

	for _, key := range st.keys {
		binary := st.binaries[key]
		edges := make([]model.NativeBinary, 0)
		for _, dep := range binary.Dependencies() {
			// Skip prebuilt libraries.
			if native, isNative := dep.(model.NativeBinary); isNative {
				edges = append(edges, native)
			}
		}
		edges = append(edges, r.extraDependencies(binary)...)
		st.dependencies[key] = edges
	}

	return st, nil
}

// buildResult recursively resolves the dependents of target. path holds the
// ancestors currently being expanded; finding target among them means the
// graph loops back into the active traversal, which is reported as a cycle
// rather than recursed into. Sibling order follows the dependents index
// scan order at every depth.
func (r *Resolver) buildResult(target model.NativeBinary, st *state, path []model.NativeBinary) ([]*ResolvedResult, error) {
	if containsBinary(path, target) {
		return nil, newCircularDependencyError(st, path, target)
	}
	path = append(path, target)

	result := make([]*ResolvedResult, 0)
	for _, dependent := range st.dependentsOf(target) {
		children, err := r.buildResult(dependent, st, path)
		if err != nil {
			return nil, err
		}
		result = append(result, &ResolvedResult{
			ID:        dependent.ID(),
			Buildable: dependent.Buildable(),
			TestSuite: dependent.TestSuite(),
			Children:  children,
		})
	}
	return result, nil
}
