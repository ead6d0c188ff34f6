package validation

import "github.com/multicode/codegraph/pkg/schema"

// Validator checks graph documents for correctness before compilation.
// Uses JSON Schema Draft 2020-12 for structural validation.
type Validator interface {
	ValidateGraph(g *schema.Graph) error
	ValidateProperties(props map[string]any, propSchema []byte) error
}
