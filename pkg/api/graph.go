package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quarrybuild/quarry/pkg/dependents"
	"github.com/quarrybuild/quarry/pkg/httputil"
)

// CytoscapeNode represents a node in Cytoscape.js format
type CytoscapeNode struct {
	Data CytoscapeNodeData `json:"data"`
}

// CytoscapeNodeData contains node data for Cytoscape.js
type CytoscapeNodeData struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"` // "current" or "dependent"
}

// CytoscapeEdge represents an edge in Cytoscape.js format
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains edge data for Cytoscape.js
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// CytoscapeGraph represents the complete graph in Cytoscape.js format
type CytoscapeGraph struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// getDependentsGraph handles GET /api/v1/binaries/{key}/graph
func (s *Server) getDependentsGraph(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	results, ok := s.resolve(w, r, key)
	if !ok {
		return
	}
	httputil.WriteSuccess(w, buildCytoscapeGraph(key, results))
}

// buildCytoscapeGraph flattens a resolved dependents forest into node and
// edge sets. Edges point from each dependent to the binary it depends on.
// Diamond shapes collapse to a single node here even though the result tree
// keeps a subtree per ancestor.
func buildCytoscapeGraph(targetKey string, results []*dependents.ResolvedResult) CytoscapeGraph {
	graph := CytoscapeGraph{
		Nodes: make([]CytoscapeNode, 0),
		Edges: make([]CytoscapeEdge, 0),
	}

	graph.Nodes = append(graph.Nodes, CytoscapeNode{
		Data: CytoscapeNodeData{ID: targetKey, Label: targetKey, Type: "current"},
	})
	seenNodes := map[string]bool{targetKey: true}
	seenEdges := map[string]bool{}

	var walk func(parentKey string, nodes []*dependents.ResolvedResult)
	walk = func(parentKey string, nodes []*dependents.ResolvedResult) {
		for _, node := range nodes {
			nodeKey := node.ID.Key()
			if !seenNodes[nodeKey] {
				seenNodes[nodeKey] = true
				graph.Nodes = append(graph.Nodes, CytoscapeNode{
					Data: CytoscapeNodeData{ID: nodeKey, Label: binaryLabel(node.ID), Type: "dependent"},
				})
			}
			edgeID := nodeKey + "->" + parentKey
			if !seenEdges[edgeID] {
				seenEdges[edgeID] = true
				graph.Edges = append(graph.Edges, CytoscapeEdge{
					Data: CytoscapeEdgeData{
						ID:     edgeID,
						Source: nodeKey,
						Target: parentKey,
						Type:   "depends-on",
					},
				})
			}
			walk(nodeKey, node.Children)
		}
	}
	walk(targetKey, results)

	return graph
}
