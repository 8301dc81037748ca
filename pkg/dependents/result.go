package dependents

import "github.com/quarrybuild/quarry/pkg/model"

// ResolvedResult is one node of the resolved dependents tree. Trees are
// built bottom-up during traversal, are immutable once returned, and hold no
// references back into resolver state.
type ResolvedResult struct {
	ID        model.BinaryID    `json:"id"`
	Buildable bool              `json:"buildable"`
	TestSuite bool              `json:"testSuite"`
	Children  []*ResolvedResult `json:"children"`
}

// CountNodes returns the total number of nodes in the given result forest.
func CountNodes(results []*ResolvedResult) int {
	count := 0
	for _, result := range results {
		count += 1 + CountNodes(result.Children)
	}
	return count
}
