// Package textgraph renders small directed graphs as indented text trees
// suitable for terminal and log output.
package textgraph

import (
	"fmt"
	"io"
	"strings"
)

// Renderer renders a directed graph rooted at a chosen node. The caller
// supplies the graph shape through callbacks; nodes are deduplicated by Key,
// and a node reached a second time is printed with a "(*)" marker instead of
// being expanded again, so cyclic graphs render in finite space.
type Renderer[N any] struct {
	// Label returns the display text for a node.
	Label func(N) string
	// Key returns a stable identity for a node, used to detect revisits.
	Key func(N) string
	// Edges returns the nodes directly connected to a node, in render order.
	Edges func(N) []N
}

// Render renders the graph rooted at root and returns it as a string.
func (r Renderer[N]) Render(root N) string {
	var sb strings.Builder
	r.RenderTo(root, &sb)
	return sb.String()
}

// RenderTo renders the graph rooted at root to w.
func (r Renderer[N]) RenderTo(root N, w io.Writer) {
	seen := map[string]bool{r.Key(root): true}
	fmt.Fprintf(w, "%s\n", r.Label(root))
	r.renderChildren(root, "", seen, w)
}

func (r Renderer[N]) renderChildren(node N, prefix string, seen map[string]bool, w io.Writer) {
	edges := r.Edges(node)
	for i, child := range edges {
		connector, childPrefix := "+--- ", prefix+"|    "
		if i == len(edges)-1 {
			connector, childPrefix = `\--- `, prefix+"     "
		}
		key := r.Key(child)
		if seen[key] {
			fmt.Fprintf(w, "%s%s%s (*)\n", prefix, connector, r.Label(child))
			continue
		}
		seen[key] = true
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, r.Label(child))
		r.renderChildren(child, childPrefix, seen, w)
	}
}
