package validation

import (
	"fmt"

	"github.com/multicode/codegraph/internal/codegen"
	"github.com/multicode/codegraph/pkg/schema"
)

// validateSemantic checks reference integrity and port compatibility:
// edge endpoints resolve to real nodes and ports, variable and function
// references resolve to declarations, and data edges join compatible types.
// Function sub-graphs are validated recursively.
func validateSemantic(g *schema.Graph, root *schema.Graph) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	for i, e := range g.Edges {
		path := fmt.Sprintf("edges[%d]", i)
		validateEdge(g, e, path, result)
	}

	for i, n := range g.Nodes {
		path := fmt.Sprintf("nodes[%d]", i)
		validateNodeRefs(n, path, g, root, result)
	}

	for i, fn := range g.Functions {
		if fn.Graph != nil {
			sub := validateSemantic(fn.Graph, root)
			prefixPaths(sub, fmt.Sprintf("functions[%d].graph.", i))
			result.Merge(sub)
		}
	}

	return result
}

// validateEdge checks that both endpoints exist and that a data edge joins
// ports of compatible types. "any" and "auto" match everything; a mismatch is
// a warning because the generated code may still compile via conversions.
func validateEdge(g *schema.Graph, e *schema.Edge, path string, result *schema.ValidationResult) {
	src := g.NodeByID(e.SourceNode)
	if src == nil {
		result.AddError(path+".sourceNode", schema.ErrCodeValidation,
			fmt.Sprintf("references non-existent node %q", e.SourceNode))
		return
	}
	dst := g.NodeByID(e.TargetNode)
	if dst == nil {
		result.AddError(path+".targetNode", schema.ErrCodeValidation,
			fmt.Sprintf("references non-existent node %q", e.TargetNode))
		return
	}

	srcPort := src.Output(e.SourcePort)
	if srcPort == nil {
		result.AddError(path+".sourcePort", schema.ErrCodeValidation,
			fmt.Sprintf("node %q has no output port %q", e.SourceNode, e.SourcePort))
		return
	}
	dstPort := dst.Input(e.TargetPort)
	if dstPort == nil {
		result.AddError(path+".targetPort", schema.ErrCodeValidation,
			fmt.Sprintf("node %q has no input port %q", e.TargetNode, e.TargetPort))
		return
	}

	if e.Kind == schema.EdgeData && !typesCompatible(srcPort.DataType, dstPort.DataType) {
		result.AddWarning(path, schema.CodeTypeMismatch,
			fmt.Sprintf("data edge joins %s output to %s input", srcPort.DataType, dstPort.DataType))
	}
}

func typesCompatible(a, b schema.DataType) bool {
	if a == b {
		return true
	}
	if a == schema.TypeAny || a == schema.TypeAuto || b == schema.TypeAny || b == schema.TypeAuto {
		return true
	}
	// Numeric widening is legal in the target language.
	if a == schema.TypeInt && b == schema.TypeFloat {
		return true
	}
	return false
}

// validateNodeRefs checks property-level references: variable nodes must name
// a declared variable, call nodes must name a defined function. Variables and
// functions are declared at the root graph; sub-graphs see them too.
func validateNodeRefs(n *schema.Node, path string, g, root *schema.Graph, result *schema.ValidationResult) {
	switch n.Type {
	case codegen.TypeSetVariable, codegen.TypeGetVariable:
		id, _ := n.Properties["variable"].(string)
		if id == "" {
			result.AddError(path+".properties.variable", schema.ErrCodeValidation,
				fmt.Sprintf("node %q has no variable reference", n.ID))
			return
		}
		if g.VariableByID(id) == nil && root.VariableByID(id) == nil {
			result.AddError(path+".properties.variable", schema.ErrCodeValidation,
				fmt.Sprintf("references non-existent variable %q", id))
		}
	case codegen.TypeFunctionCall:
		id, _ := n.Properties["function"].(string)
		if id == "" {
			result.AddError(path+".properties.function", schema.ErrCodeValidation,
				fmt.Sprintf("node %q has no function reference", n.ID))
			return
		}
		if root.FunctionByID(id) == nil {
			result.AddError(path+".properties.function", schema.ErrCodeValidation,
				fmt.Sprintf("references non-existent function %q", id))
		}
	}
}

func prefixPaths(r *schema.ValidationResult, prefix string) {
	for i := range r.Errors {
		r.Errors[i].Path = prefix + r.Errors[i].Path
	}
	for i := range r.Warnings {
		r.Warnings[i].Path = prefix + r.Warnings[i].Path
	}
}
