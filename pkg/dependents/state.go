package dependents

import (
	"github.com/quarrybuild/quarry/pkg/model"
)

// state is a snapshot of every native binary in the build together with its
// forward dependency edges. It is owned by exactly one resolution call,
// built once, and never mutated afterwards except for the dependents cache,
// which fills in lazily under that call's single goroutine.
type state struct {
	// keys preserves registration order; Go maps do not.
	keys         []string
	binaries     map[string]model.NativeBinary
	dependencies map[string][]model.NativeBinary

	// dependents caches reverse edges per target key, computed on first use.
	dependents map[string][]model.NativeBinary
}

func newState() *state {
	return &state{
		binaries:     make(map[string]model.NativeBinary),
		dependencies: make(map[string][]model.NativeBinary),
		dependents:   make(map[string][]model.NativeBinary),
	}
}

// register inserts a binary under its canonical key. Later insertions for a
// duplicate key overwrite earlier ones; keys are unique across scopes by
// construction of the key scheme, so a duplicate indicates a key-scheme bug
// rather than valid input.
func (s *state) register(binary model.NativeBinary) {
	key := binary.ID().Key()
	if _, seen := s.binaries[key]; !seen {
		s.keys = append(s.keys, key)
	}
	s.binaries[key] = binary
}

// dependentsOf returns the binaries that directly depend on target. The list
// is computed on first call by a linear scan of all forward edges in
// registration order, then cached for the lifetime of the state. The scan
// tolerates cyclic graphs because it never recurses.
func (s *state) dependentsOf(target model.NativeBinary) []model.NativeBinary {
	key := target.ID().Key()
	if cached, ok := s.dependents[key]; ok {
		return cached
	}
	result := make([]model.NativeBinary, 0)
	for _, owner := range s.keys {
		for _, dep := range s.dependencies[owner] {
			if dep.ID().Key() == key {
				result = append(result, s.binaries[owner])
				break
			}
		}
	}
	s.dependents[key] = result
	return result
}
