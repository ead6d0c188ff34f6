package validation

import "github.com/multicode/codegraph/pkg/schema"

// GraphValidator orchestrates the three-stage validation pipeline:
// 1. Structural (JSON Schema)
// 2. Semantic (edge endpoints, variable and function refs, port types)
// 3. Data flow (data dependency cycles)
type GraphValidator struct {
	jsonSchema *JSONSchemaValidator
}

// NewGraphValidator creates a GraphValidator.
func NewGraphValidator() (*GraphValidator, error) {
	jsv, err := NewJSONSchemaValidator()
	if err != nil {
		return nil, err
	}
	return &GraphValidator{jsonSchema: jsv}, nil
}

// Validate runs the full 3-stage pipeline and returns an aggregated result.
// Structural errors short-circuit: semantic and data-flow stages are skipped.
func (gv *GraphValidator) Validate(g *schema.Graph) *schema.ValidationResult {
	if g == nil {
		r := &schema.ValidationResult{}
		r.AddError("/", schema.ErrCodeValidation, "graph is nil")
		return r
	}

	// Stage 1: Structural (JSON Schema).
	result := validateStructural(gv.jsonSchema, g)
	if !result.Valid() {
		return result
	}

	// Stage 2: Semantic.
	result.Merge(validateSemantic(g, g))

	// Stage 3: Data flow (skip if semantic errors, references may dangle).
	if result.Valid() {
		result.Merge(validateDataFlow(g))
	}

	return result
}

// ValidateGraph satisfies the Validator interface.
func (gv *GraphValidator) ValidateGraph(g *schema.Graph) error {
	return gv.Validate(g).ToError()
}

// ValidateProperties delegates to the underlying JSONSchemaValidator.
func (gv *GraphValidator) ValidateProperties(props map[string]any, propSchema []byte) error {
	return gv.jsonSchema.ValidateProperties(props, propSchema)
}

// ValidateManifestBytes delegates to the underlying JSONSchemaValidator.
func (gv *GraphValidator) ValidateManifestBytes(data []byte) error {
	return gv.jsonSchema.ValidateManifestBytes(data)
}

// validateStructural wraps JSONSchemaValidator.ValidateGraph, converting its
// error output into ValidationResult.
func validateStructural(v *JSONSchemaValidator, g *schema.Graph) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	err := v.ValidateGraph(g)
	if err == nil {
		return result
	}

	cgErr, ok := err.(*schema.CodegraphError)
	if !ok {
		result.AddError("/", schema.ErrCodeValidation, err.Error())
		return result
	}

	if cgErr.Details != nil {
		if violations, ok := cgErr.Details["violations"].([]string); ok {
			for _, v := range violations {
				result.AddError("/", schema.ErrCodeValidation, v)
			}
			return result
		}
	}
	result.AddError("/", schema.ErrCodeValidation, cgErr.Message)
	return result
}
