package diagram

import (
	"fmt"
	"strings"

	"github.com/multicode/codegraph/internal/codegen"
	"github.com/multicode/codegraph/pkg/schema"
)

// Build constructs a DiagramModel from a graph document. Every node becomes a
// diagram node, execution edges keep their branch labels, data edges render
// dashed with the port's data type. User-defined functions become subgraphs.
func Build(g *schema.Graph) (*DiagramModel, error) {
	if g == nil {
		return nil, fmt.Errorf("diagram: graph is nil")
	}

	nodes := make([]*Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, graphNode(n))
	}

	edges := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, graphEdge(g, e))
	}

	model := &DiagramModel{
		Title:  g.Name,
		Nodes:  nodes,
		Edges:  edges,
		Levels: buildLevels(g),
	}

	for _, fn := range g.Functions {
		model.Functions = append(model.Functions, functionSubGraph(fn))
	}

	return model, nil
}

// graphNode maps a schema node to a diagram node.
func graphNode(n *schema.Node) *Node {
	return &Node{
		ID:    n.ID,
		Label: nodeLabel(n),
		Kind:  typeToKind(n.Type),
	}
}

// typeToKind converts a node type tag to a NodeKind.
func typeToKind(t string) NodeKind {
	switch t {
	case codegen.TypeStart:
		return NodeKindStart
	case codegen.TypeEnd, codegen.TypeFunctionReturn:
		return NodeKindEnd
	case codegen.TypeBranch:
		return NodeKindBranch
	case codegen.TypeForLoop, codegen.TypeWhileLoop:
		return NodeKindLoop
	case codegen.TypeSwitch:
		return NodeKindSwitch
	case codegen.TypeSetVariable, codegen.TypeGetVariable:
		return NodeKindVariable
	case codegen.TypeFunctionCall:
		return NodeKindCall
	case codegen.TypeComment:
		return NodeKindComment
	}
	for _, prefix := range []string{"core.literal.", "core.math.", "core.logic.", "core.compare."} {
		if strings.HasPrefix(t, prefix) {
			return NodeKindPure
		}
	}
	return NodeKindAction
}

// nodeLabel creates a human-readable label for a node.
func nodeLabel(n *schema.Node) string {
	if n.Label != "" {
		return fmt.Sprintf("%s\n(%s)", n.Label, shortType(n.Type))
	}
	return shortType(n.Type)
}

// shortType strips the "core." prefix for compactness.
func shortType(t string) string {
	return strings.TrimPrefix(t, "core.")
}

// graphEdge maps a schema edge to a diagram edge. Execution edges carry their
// source port name when it is a branch label (then, else, body, case N); data
// edges carry the source port's data type.
func graphEdge(g *schema.Graph, e *schema.Edge) Edge {
	edge := Edge{From: e.SourceNode, To: e.TargetNode}
	if e.Kind == schema.EdgeData {
		edge.Data = true
		edge.Label = dataEdgeLabel(g, e)
		return edge
	}
	if src := g.NodeByID(e.SourceNode); src != nil {
		if port := src.Output(e.SourcePort); port != nil && port.Name != "exec" {
			edge.Label = port.Name
		}
	}
	return edge
}

func dataEdgeLabel(g *schema.Graph, e *schema.Edge) string {
	if e.DataType != "" {
		return string(e.DataType)
	}
	if src := g.NodeByID(e.SourceNode); src != nil {
		if port := src.Output(e.SourcePort); port != nil {
			return string(port.DataType)
		}
	}
	return ""
}

// buildLevels layers nodes by execution order: breadth-first over execution
// edges from the start nodes. Pure nodes and anything unreachable form the
// last level. Cycles terminate because visited nodes are never re-layered.
func buildLevels(g *schema.Graph) [][]string {
	visited := make(map[string]bool, len(g.Nodes))
	var levels [][]string

	var frontier []string
	for _, n := range g.Nodes {
		if n.Type == codegen.TypeStart {
			frontier = append(frontier, n.ID)
			visited[n.ID] = true
		}
	}

	for len(frontier) > 0 {
		levels = append(levels, frontier)
		var next []string
		for _, id := range frontier {
			for _, e := range g.Edges {
				if e.Kind != schema.EdgeExecution || e.SourceNode != id {
					continue
				}
				if !visited[e.TargetNode] {
					visited[e.TargetNode] = true
					next = append(next, e.TargetNode)
				}
			}
		}
		frontier = next
	}

	var rest []string
	for _, n := range g.Nodes {
		if !visited[n.ID] {
			rest = append(rest, n.ID)
		}
	}
	if len(rest) > 0 {
		levels = append(levels, rest)
	}
	return levels
}

// functionSubGraph flattens a user-defined function body into a SubGraph.
// Node IDs are qualified with the function ID to stay unique in the model.
func functionSubGraph(fn *schema.Function) *SubGraph {
	sg := &SubGraph{Label: fn.Name}
	if fn.Graph == nil {
		return sg
	}
	for _, n := range fn.Graph.Nodes {
		node := graphNode(n)
		node.ID = fn.ID + "." + n.ID
		sg.Nodes = append(sg.Nodes, node)
	}
	for _, e := range fn.Graph.Edges {
		edge := graphEdge(fn.Graph, e)
		edge.From = fn.ID + "." + edge.From
		edge.To = fn.ID + "." + edge.To
		sg.Edges = append(sg.Edges, edge)
	}
	return sg
}
