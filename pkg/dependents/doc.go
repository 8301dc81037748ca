// Package dependents resolves the transitive set of binaries that depend on
// a given native binary, walking the reverse dependency graph.
//
// # Overview
//
// The resolver aggregates every native binary and its declared forward
// dependencies from all scopes into one immutable snapshot, inverts the
// forward edges into a lazily cached dependents index, and walks that index
// depth-first from the query target to build an ordered result tree. Genuine
// cycles in user-authored build graphs are detected against the active
// traversal path and reported with a rendered diagram instead of recursing
// forever.
//
// # Usage Example
//
// Resolve the dependents of a binary:
//
//	resolver := dependents.NewResolver(registry)
//	results, ok, err := resolver.ResolveDependents(target)
//	if !ok {
//		// target is not a native binary; try another strategy
//	}
//
// Report a cycle:
//
//	var cycleErr *dependents.CircularDependencyError
//	if errors.As(err, &cycleErr) {
//		fmt.Println(cycleErr.Diagram)
//	}
//
// Each ResolveDependents call builds a fresh snapshot and runs to completion
// on the calling goroutine; concurrent calls never share state.
//
// # Related Packages
//
//   - pkg/model: the binary and scope contracts this engine consumes
//   - pkg/textgraph: cycle diagram rendering
package dependents
