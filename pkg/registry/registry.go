package registry

import (
	"github.com/quarrybuild/quarry/pkg/model"
)

// Registry is a concrete model.ScopeRegistry built from workspace manifests.
// It is immutable once built; reloading produces a new Registry.
type Registry struct {
	scopes   []*scope
	byKey    map[string]model.Binary
	binaries int
}

// AllScopes returns every scope in the workspace, in manifest load order.
func (r *Registry) AllScopes() ([]model.Scope, error) {
	scopes := make([]model.Scope, len(r.scopes))
	for i, s := range r.scopes {
		scopes[i] = s
	}
	return scopes, nil
}

// FindBinary looks up a binary by its canonical key. Prebuilt libraries are
// not addressable this way; only registered native binaries are.
func (r *Registry) FindBinary(key string) (model.Binary, bool) {
	binary, ok := r.byKey[key]
	return binary, ok
}

// ScopeCount returns the number of scopes in the workspace.
func (r *Registry) ScopeCount() int { return len(r.scopes) }

// BinaryCount returns the number of registered native binaries.
func (r *Registry) BinaryCount() int { return r.binaries }

type scope struct {
	path       string
	native     bool
	components []*component
}

func (s *scope) Path() string { return s.path }
func (s *scope) HasNativeModel() bool { return s.native }

func (s *scope) NativeComponents() []model.NativeComponent {
	components := make([]model.NativeComponent, len(s.components))
	for i, c := range s.components {
		components[i] = c
	}
	return components
}

type component struct {
	name     string
	binaries []*binary
}

func (c *component) Name() string { return c.name }

func (c *component) Binaries() []model.NativeBinary {
	binaries := make([]model.NativeBinary, len(c.binaries))
	for i, b := range c.binaries {
		binaries[i] = b
	}
	return binaries
}

type binary struct {
	id        model.BinaryID
	buildable bool
	testSuite bool
	deps      []model.Binary
}

func (b *binary) ID() model.BinaryID { return b.id }
func (b *binary) Kind() model.BinaryKind { return model.KindNative }
func (b *binary) Buildable() bool { return b.buildable }
func (b *binary) TestSuite() bool { return b.testSuite }
func (b *binary) Dependencies() []model.Binary {
	return b.deps
}

// prebuilt is an externally supplied library. It satisfies model.Binary only,
// which is what keeps it out of the dependents graph.
type prebuilt struct {
	id model.BinaryID
}

func (p *prebuilt) ID() model.BinaryID { return p.id }
func (p *prebuilt) Kind() model.BinaryKind { return model.KindPrebuilt }
