package validation

import (
	"sort"

	"github.com/multicode/codegraph/pkg/schema"
)

// validateDataFlow runs cycle detection (Kahn's algorithm) over the data
// edges of a graph. Execution edges may legitimately loop back and are
// truncated during traversal, but a data cycle means an expression would
// need its own value to compute itself, so it is an error here.
func validateDataFlow(g *schema.Graph) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	nodeIDs := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeIDs[n.ID] = true
	}

	// edges[id] = data suppliers of node id, reverse[id] = data consumers.
	edges := make(map[string][]string, len(g.Nodes))
	reverse := make(map[string][]string, len(g.Nodes))

	for _, e := range g.Edges {
		if e.Kind != schema.EdgeData {
			continue
		}
		if !nodeIDs[e.SourceNode] || !nodeIDs[e.TargetNode] {
			continue // invalid refs already caught by semantic
		}
		edges[e.TargetNode] = append(edges[e.TargetNode], e.SourceNode)
		reverse[e.SourceNode] = append(reverse[e.SourceNode], e.TargetNode)
	}

	inDegree := make(map[string]int, len(g.Nodes))
	for id := range nodeIDs {
		inDegree[id] = len(edges[id])
	}

	queue := make([]string, 0, len(g.Nodes))
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	// Sort roots for deterministic output.
	sort.Strings(queue)

	visited := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visited++
		for _, consumer := range reverse[node] {
			inDegree[consumer]--
			if inDegree[consumer] == 0 {
				queue = append(queue, consumer)
			}
		}
	}

	if visited != len(nodeIDs) {
		result.AddError("edges", schema.CodeCycleDetected,
			"graph contains a data dependency cycle")
	}

	for _, fn := range g.Functions {
		if fn.Graph != nil {
			result.Merge(validateDataFlow(fn.Graph))
		}
	}

	return result
}
