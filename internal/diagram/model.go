// Package diagram renders graph documents as Mermaid, Graphviz PNG or ASCII
// diagrams so large graphs can be reviewed without the authoring UI.
package diagram

// NodeKind classifies a diagram node by its graph node type.
type NodeKind string

const (
	NodeKindStart    NodeKind = "start"
	NodeKindEnd      NodeKind = "end"
	NodeKindBranch   NodeKind = "branch"
	NodeKindLoop     NodeKind = "loop"
	NodeKindSwitch   NodeKind = "switch"
	NodeKindVariable NodeKind = "variable"
	NodeKindPure     NodeKind = "pure" // literals, math, logic, comparisons
	NodeKindCall     NodeKind = "call"
	NodeKindComment  NodeKind = "comment"
	NodeKindAction   NodeKind = "action"
)

// DiagramModel is the intermediate representation used by all renderers.
type DiagramModel struct {
	Title     string
	Nodes     []*Node
	Edges     []Edge
	Levels    [][]string  // execution-order layers for the ASCII renderer
	Functions []*SubGraph // one subgraph per user-defined function
}

// Node represents a single graph node in the diagram.
type Node struct {
	ID    string
	Label string
	Kind  NodeKind
}

// SubGraph holds the flattened body of a user-defined function.
type SubGraph struct {
	Label string
	Nodes []*Node
	Edges []Edge
}

// Edge represents a link between two nodes. Data edges render dashed.
type Edge struct {
	From  string
	To    string
	Label string
	Data  bool
}
