package codegen

import "github.com/multicode/codegraph/pkg/schema"

// Preflight checks whether a graph can be compiled at all, independently of a
// Generate call: exactly one entry node must exist and every node's type tag
// must be known to the registry. Returned diagnostics are all errors.
func Preflight(g *schema.Graph, reg *Registry) []schema.Diagnostic {
	var diags []schema.Diagnostic

	var starts []*schema.Node
	for _, n := range g.Nodes {
		if n.Type == TypeStart {
			starts = append(starts, n)
		}
	}
	switch {
	case len(starts) == 0:
		diags = append(diags, schema.Diagnostic{
			Code:    schema.CodeNoStartNode,
			Message: "graph has no entry node",
		})
	case len(starts) > 1:
		diags = append(diags, schema.Diagnostic{
			Code:    schema.CodeMultipleStartNodes,
			NodeID:  starts[1].ID,
			Message: "graph has more than one entry node",
		})
	}

	diags = append(diags, unknownTypes(g, reg)...)
	for _, fn := range g.Functions {
		if fn.Graph != nil {
			diags = append(diags, unknownTypes(fn.Graph, reg)...)
		}
	}
	return diags
}

// CanGenerate reports whether generation may proceed, with the preflight
// diagnostics explaining a refusal.
func CanGenerate(g *schema.Graph, reg *Registry) (bool, []schema.Diagnostic) {
	diags := Preflight(g, reg)
	return len(diags) == 0, diags
}

func unknownTypes(g *schema.Graph, reg *Registry) []schema.Diagnostic {
	var diags []schema.Diagnostic
	for _, n := range g.Nodes {
		if !reg.Has(n.Type) {
			diags = append(diags, schema.Diagnostic{
				Code:    schema.CodeUnknownNodeType,
				NodeID:  n.ID,
				Message: "unknown node type " + n.Type,
			})
		}
	}
	return diags
}
