package dependents

import (
	"fmt"

	"github.com/quarrybuild/quarry/pkg/model"
	"github.com/quarrybuild/quarry/pkg/textgraph"
)

// CircularDependencyError reports a dependency cycle among the binaries that
// were on the active traversal path when the cycle was detected. It is fatal
// for the whole resolution call: a cycle is a structural authoring defect in
// the build graph, so no partial result is returned and nothing is retried.
type CircularDependencyError struct {
	// Path holds the identities on the active traversal path at detection
	// time, outermost ancestor first. The revisited binary is among them;
	// that containment is what detected the cycle.
	Path []model.BinaryID
	// Diagram is a rendered directed-graph view of the cycle.
	Diagram string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency between the following binaries:\n%s", e.Diagram)
}

// newCircularDependencyError restricts the graph to the members of the
// active path, renders it rooted at target, and wraps the diagram in an
// error. path already contains target: that containment is what detected
// the cycle.
func newCircularDependencyError(st *state, path []model.NativeBinary, target model.NativeBinary) error {
	ids := make([]model.BinaryID, 0, len(path))
	for _, binary := range path {
		ids = append(ids, binary.ID())
	}

	renderer := textgraph.Renderer[model.NativeBinary]{
		Label: func(node model.NativeBinary) string { return node.ID().String() },
		Key:   func(node model.NativeBinary) string { return node.ID().Key() },
		Edges: func(node model.NativeBinary) []model.NativeBinary {
			var connected []model.NativeBinary
			for _, onPath := range path {
				if containsBinary(st.dependentsOf(node), onPath) {
					connected = append(connected, onPath)
				}
			}
			return connected
		},
	}

	return &CircularDependencyError{
		Path:    ids,
		Diagram: renderer.Render(target),
	}
}

func containsBinary(binaries []model.NativeBinary, candidate model.NativeBinary) bool {
	key := candidate.ID().Key()
	for _, binary := range binaries {
		if binary.ID().Key() == key {
			return true
		}
	}
	return false
}
