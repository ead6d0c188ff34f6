package diagram

import (
	"fmt"
	"strings"
)

// RenderMermaid renders a DiagramModel as a Mermaid flowchart string.
func RenderMermaid(model *DiagramModel) string {
	var b strings.Builder

	b.WriteString("graph TD\n")

	// Title as comment.
	if model.Title != "" {
		b.WriteString(fmt.Sprintf("    %%%% %s\n", model.Title))
	}

	for _, node := range model.Nodes {
		b.WriteString(fmt.Sprintf("    %s\n", mermaidNodeDef(node)))
	}

	for _, edge := range model.Edges {
		b.WriteString("    " + mermaidEdge(edge) + "\n")
	}

	// One subgraph per user-defined function.
	for _, sg := range model.Functions {
		b.WriteString(fmt.Sprintf("    subgraph %s[\"fn: %s\"]\n", mermaidSafeID(sg.Label), sg.Label))
		for _, node := range sg.Nodes {
			b.WriteString(fmt.Sprintf("        %s\n", mermaidNodeDef(node)))
		}
		for _, edge := range sg.Edges {
			b.WriteString("        " + mermaidEdge(edge) + "\n")
		}
		b.WriteString("    end\n")
	}

	// Kind class definitions.
	b.WriteString("\n")
	b.WriteString("    classDef pure fill:#4a4a4a,stroke:#333,color:#ddd\n")
	b.WriteString("    classDef variable fill:#1a5276,stroke:#0e3a52,color:#fff\n")
	b.WriteString("    classDef comment fill:#6b6b6b,stroke:#4a4a4a,color:#fff,stroke-dasharray:5 5\n")

	for _, node := range allNodes(model) {
		switch node.Kind {
		case NodeKindPure, NodeKindVariable, NodeKindComment:
			b.WriteString(fmt.Sprintf("    class %s %s\n", mermaidSafeID(node.ID), node.Kind))
		}
	}

	return b.String()
}

// mermaidEdge renders one edge: data edges dashed, execution edges solid.
func mermaidEdge(edge Edge) string {
	arrow := "-->"
	if edge.Data {
		arrow = "-.->"
	}
	label := ""
	if edge.Label != "" {
		label = fmt.Sprintf("|%s|", edge.Label)
	}
	return fmt.Sprintf("%s %s%s %s", mermaidSafeID(edge.From), arrow, label, mermaidSafeID(edge.To))
}

// mermaidNodeDef returns a Mermaid node definition with the appropriate shape.
func mermaidNodeDef(node *Node) string {
	id := mermaidSafeID(node.ID)
	label := firstLine(node.Label)

	switch node.Kind {
	case NodeKindBranch:
		return fmt.Sprintf("%s{%q}", id, label)
	case NodeKindSwitch:
		return fmt.Sprintf("%s{{%q}}", id, label)
	case NodeKindLoop:
		return fmt.Sprintf("%s[[%q]]", id, label)
	case NodeKindCall:
		return fmt.Sprintf("%s[[%q]]", id, label)
	case NodeKindVariable:
		return fmt.Sprintf("%s([%q])", id, label)
	case NodeKindStart, NodeKindEnd:
		return fmt.Sprintf("%s((%q))", id, label)
	default:
		return fmt.Sprintf("%s[%q]", id, label)
	}
}

// mermaidSafeID converts a node ID to a Mermaid-safe identifier.
// Replaces dots and dashes with underscores.
func mermaidSafeID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_", ":", "_")
	return r.Replace(id)
}

func allNodes(model *DiagramModel) []*Node {
	out := make([]*Node, 0, len(model.Nodes))
	out = append(out, model.Nodes...)
	for _, sg := range model.Functions {
		out = append(out, sg.Nodes...)
	}
	return out
}
