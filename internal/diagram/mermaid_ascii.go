package diagram

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RenderASCIIAuto tries to render using the mermaid-ascii CLI binary if available,
// falling back to the hand-rolled RenderASCII renderer.
func RenderASCIIAuto(model *DiagramModel, binDir string) string {
	if binDir != "" {
		binPath := filepath.Join(binDir, "mermaid-ascii")
		if _, err := os.Stat(binPath); err == nil {
			result, err := RenderASCIIViaCLI(model, binPath)
			if err == nil {
				return result
			}
		}
	}
	return RenderASCII(model)
}

// RenderASCIIViaCLI pipes simplified Mermaid syntax through the mermaid-ascii binary.
func RenderASCIIViaCLI(model *DiagramModel, binPath string) (string, error) {
	mermaid := RenderMermaidForCLI(model)

	cmd := exec.Command(binPath)
	cmd.Stdin = strings.NewReader(mermaid)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("mermaid-ascii: %w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// RenderMermaidForCLI generates simplified Mermaid syntax compatible with the
// mermaid-ascii CLI tool. Unlike RenderMermaid, this avoids node declarations
// with ["label"] syntax (which mermaid-ascii cannot parse) and refers to nodes
// by display ID only. Function subgraphs are flattened into top-level edges
// since mermaid-ascii silently ignores subgraph blocks.
func RenderMermaidForCLI(model *DiagramModel) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	// Build a mapping from node ID to display ID.
	// Includes both top-level nodes and function body nodes.
	displayID := make(map[string]string, len(model.Nodes))
	for _, node := range allNodes(model) {
		displayID[node.ID] = cliNodeID(node)
	}

	resolve := func(id string) string {
		if d, ok := displayID[id]; ok {
			return d
		}
		return mermaidSafeID(id)
	}

	emit := func(indent string, edge Edge) {
		label := ""
		if edge.Label != "" {
			label = fmt.Sprintf("|%s|", edge.Label)
		}
		b.WriteString(fmt.Sprintf("%s%s -->%s %s\n", indent, resolve(edge.From), label, resolve(edge.To)))
	}

	for _, edge := range model.Edges {
		emit("    ", edge)
	}
	for _, sg := range model.Functions {
		for _, edge := range sg.Edges {
			emit("    ", edge)
		}
	}

	return b.String()
}

// cliNodeID builds a display ID for the mermaid-ascii CLI from the label.
func cliNodeID(node *Node) string {
	id := firstLine(node.Label)
	if id == "" {
		id = node.ID
	}

	// Strip the type suffix like " (flow.branch)" for cleaner IDs.
	if idx := strings.Index(id, " ("); idx > 0 {
		id = id[:idx]
	}

	// Replace separators with dashes for valid Mermaid IDs.
	r := strings.NewReplacer(" ", "-", ".", "-", ":", "-", "(", "", ")", "")
	return r.Replace(id)
}
