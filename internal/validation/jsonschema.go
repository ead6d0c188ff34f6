// Package validation checks graph documents and package manifests before they
// reach the compiler: structural shape via JSON Schema Draft 2020-12, then
// semantic checks (reference integrity, port type compatibility) that a
// schema cannot express.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/multicode/codegraph/pkg/schema"
)

// graphSchemaJSON is the JSON Schema for graph documents. Embedded as a
// constant to avoid filesystem dependencies.
const graphSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://codegraph.dev/schemas/graph.json",
  "type": "object",
  "required": ["nodes", "edges"],
  "properties": {
    "name": { "type": "string" },
    "nodes": {
      "type": ["array", "null"],
      "items": { "$ref": "#/$defs/node" }
    },
    "edges": {
      "type": ["array", "null"],
      "items": { "$ref": "#/$defs/edge" }
    },
    "variables": {
      "type": "array",
      "items": { "$ref": "#/$defs/variable" }
    },
    "functions": {
      "type": "array",
      "items": { "$ref": "#/$defs/function" }
    }
  },
  "additionalProperties": false,
  "$defs": {
    "dataType": {
      "type": "string",
      "enum": ["execution", "boolean", "integer", "float", "string", "any", "auto", "void"]
    },
    "port": {
      "type": "object",
      "required": ["id", "name", "dataType", "direction"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "name": { "type": "string", "minLength": 1 },
        "dataType": { "$ref": "#/$defs/dataType" },
        "direction": { "type": "string", "enum": ["input", "output"] },
        "defaultValue": {},
        "value": {}
      },
      "additionalProperties": false
    },
    "node": {
      "type": "object",
      "required": ["id", "type"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "type": { "type": "string", "minLength": 1 },
        "label": { "type": "string" },
        "x": { "type": "number" },
        "y": { "type": "number" },
        "inputs": { "type": "array", "items": { "$ref": "#/$defs/port" } },
        "outputs": { "type": "array", "items": { "$ref": "#/$defs/port" } },
        "properties": { "type": "object" },
        "comment": { "type": "string" }
      },
      "additionalProperties": false
    },
    "edge": {
      "type": "object",
      "required": ["id", "sourceNode", "sourcePort", "targetNode", "targetPort", "kind"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "sourceNode": { "type": "string", "minLength": 1 },
        "sourcePort": { "type": "string", "minLength": 1 },
        "targetNode": { "type": "string", "minLength": 1 },
        "targetPort": { "type": "string", "minLength": 1 },
        "kind": { "type": "string", "enum": ["execution", "data"] },
        "dataType": { "$ref": "#/$defs/dataType" }
      },
      "additionalProperties": false
    },
    "variable": {
      "type": "object",
      "required": ["id", "name", "dataType"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "name": { "type": "string", "minLength": 1 },
        "dataType": { "$ref": "#/$defs/dataType" },
        "defaultValue": {}
      },
      "additionalProperties": false
    },
    "parameter": {
      "type": "object",
      "required": ["id", "name", "dataType", "direction"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "name": { "type": "string", "minLength": 1 },
        "dataType": { "$ref": "#/$defs/dataType" },
        "direction": { "type": "string", "enum": ["input", "output"] },
        "defaultValue": {}
      },
      "additionalProperties": false
    },
    "function": {
      "type": "object",
      "required": ["id", "name", "graph"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "name": { "type": "string", "minLength": 1 },
        "description": { "type": "string" },
        "parameters": { "type": "array", "items": { "$ref": "#/$defs/parameter" } },
        "graph": { "$ref": "#" }
      },
      "additionalProperties": false
    }
  }
}`

// manifestSchemaJSON is the JSON Schema for node package manifests.
const manifestSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://codegraph.dev/schemas/manifest.json",
  "type": "object",
  "required": ["name", "nodes"],
  "properties": {
    "name": { "type": "string", "minLength": 1 },
    "version": { "type": "string" },
    "nodes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["type", "templates"],
        "properties": {
          "type": { "type": "string", "minLength": 1 },
          "label": { "type": "string" },
          "templates": {
            "type": "object",
            "minProperties": 1,
            "additionalProperties": { "type": "string" }
          },
          "includes": {
            "type": "object",
            "additionalProperties": {
              "type": "array",
              "items": { "type": "string" }
            }
          }
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// JSONSchemaValidator checks raw documents against the embedded schemas.
// It is safe for concurrent use.
type JSONSchemaValidator struct {
	graphSchema    *jsonschema.Schema
	manifestSchema *jsonschema.Schema

	// mu guards the cache for dynamically compiled schemas.
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator creates a validator with both embedded schemas
// pre-compiled.
func NewJSONSchemaValidator() (*JSONSchemaValidator, error) {
	gs, err := compileEmbedded("https://codegraph.dev/schemas/graph.json", graphSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("graph schema: %w", err)
	}
	ms, err := compileEmbedded("https://codegraph.dev/schemas/manifest.json", manifestSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("manifest schema: %w", err)
	}
	return &JSONSchemaValidator{
		graphSchema:    gs,
		manifestSchema: ms,
		cache:          make(map[string]*jsonschema.Schema),
	}, nil
}

// ValidateGraph validates a decoded graph against the graph JSON Schema, plus
// the structural checks JSON Schema cannot express: duplicate node, variable
// and function IDs.
func (v *JSONSchemaValidator) ValidateGraph(g *schema.Graph) error {
	if g == nil {
		return schema.NewError(schema.ErrCodeValidation, "graph is nil")
	}

	doc, err := toJSONValue(g)
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "failed to serialize graph").WithCause(err)
	}
	if err := v.graphSchema.Validate(doc); err != nil {
		return toCodegraphError(err)
	}

	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, exists := seen[n.ID]; exists {
			return schema.NewError(schema.ErrCodeValidation,
				fmt.Sprintf("duplicate node id %q", n.ID))
		}
		seen[n.ID] = struct{}{}
	}
	vars := make(map[string]struct{}, len(g.Variables))
	for _, gv := range g.Variables {
		if _, exists := vars[gv.ID]; exists {
			return schema.NewError(schema.ErrCodeValidation,
				fmt.Sprintf("duplicate variable id %q", gv.ID))
		}
		vars[gv.ID] = struct{}{}
	}
	fns := make(map[string]struct{}, len(g.Functions))
	for _, fn := range g.Functions {
		if _, exists := fns[fn.ID]; exists {
			return schema.NewError(schema.ErrCodeValidation,
				fmt.Sprintf("duplicate function id %q", fn.ID))
		}
		fns[fn.ID] = struct{}{}
	}

	return nil
}

// ValidateManifestBytes validates a raw package manifest document.
func (v *JSONSchemaValidator) ValidateManifestBytes(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return schema.NewError(schema.ErrCodeDocument, "package manifest is not valid JSON").WithCause(err)
	}
	if err := v.manifestSchema.Validate(doc); err != nil {
		return toCodegraphError(err)
	}
	return nil
}

// ValidateProperties validates node properties against a JSON Schema provided
// as raw bytes. The schema is compiled and cached for subsequent calls with
// the same schema.
func (v *JSONSchemaValidator) ValidateProperties(props map[string]any, propSchema []byte) error {
	if len(propSchema) == 0 {
		return nil // no schema means no validation needed
	}

	compiled, err := v.getOrCompile(propSchema)
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "invalid properties schema").WithCause(err)
	}

	doc, err := toJSONValue(props)
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "failed to serialize properties").WithCause(err)
	}
	if err := compiled.Validate(doc); err != nil {
		return toCodegraphError(err)
	}
	return nil
}

// getOrCompile returns a cached compiled schema or compiles and caches a new one.
func (v *JSONSchemaValidator) getOrCompile(schemaBytes []byte) (*jsonschema.Schema, error) {
	key := string(schemaBytes)

	v.mu.RLock()
	if cached, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return cached, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Double-check after acquiring write lock.
	if cached, ok := v.cache[key]; ok {
		return cached, nil
	}

	// Each dynamic schema gets a unique URL to avoid collisions in the compiler.
	url := fmt.Sprintf("codegraph://properties-schema/%d", len(v.cache))
	compiled, err := compileEmbedded(url, key)
	if err != nil {
		return nil, err
	}

	v.cache[key] = compiled
	return compiled, nil
}

func compileEmbedded(url, schemaJSON string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// toJSONValue round-trips a Go value through JSON encoding/decoding so that
// numeric values become json.Number (required by the jsonschema library).
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

// toCodegraphError converts a jsonschema.ValidationError into a
// CodegraphError with one message per leaf violation.
func toCodegraphError(err error) *schema.CodegraphError {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeValidation, err.Error())
	}

	violations := collectViolations(verr)
	if len(violations) == 0 {
		return schema.NewError(schema.ErrCodeValidation, verr.Error())
	}

	if len(violations) == 1 {
		return schema.NewError(schema.ErrCodeValidation, violations[0]).
			WithDetails(map[string]any{"violations": violations})
	}

	msg := fmt.Sprintf("validation failed with %d errors", len(violations))
	return schema.NewError(schema.ErrCodeValidation, msg).
		WithDetails(map[string]any{"violations": violations})
}

// collectViolations walks a ValidationError tree and collects leaf error
// messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
