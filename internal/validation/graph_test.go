package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multicode/codegraph/internal/codegen"
	"github.com/multicode/codegraph/pkg/schema"
)

func newValidator(t *testing.T) *GraphValidator {
	t.Helper()
	gv, err := NewGraphValidator()
	require.NoError(t, err)
	return gv
}

func outPort(id string, dt schema.DataType) schema.Port {
	return schema.Port{ID: id, Name: id, DataType: dt, Direction: schema.DirectionOutput}
}

func inPort(id string, dt schema.DataType) schema.Port {
	return schema.Port{ID: id, Name: id, DataType: dt, Direction: schema.DirectionInput}
}

func minimalGraph() *schema.Graph {
	return &schema.Graph{
		Name: "demo",
		Nodes: []*schema.Node{
			{ID: "n1", Type: codegen.TypeStart,
				Outputs: []schema.Port{outPort("exec", schema.TypeExecution)}},
			{ID: "n2", Type: codegen.TypePrint,
				Inputs: []schema.Port{
					inPort("exec", schema.TypeExecution),
					inPort("value", schema.TypeString),
				},
				Outputs: []schema.Port{outPort("exec", schema.TypeExecution)}},
		},
		Edges: []*schema.Edge{
			{ID: "e1", SourceNode: "n1", SourcePort: "exec",
				TargetNode: "n2", TargetPort: "exec", Kind: schema.EdgeExecution},
		},
	}
}

// --- structural stage ---

func TestValidate_MinimalGraphPasses(t *testing.T) {
	gv := newValidator(t)

	result := gv.Validate(minimalGraph())
	assert.True(t, result.Valid())
	assert.Empty(t, result.Warnings)
}

func TestValidate_NilGraph(t *testing.T) {
	gv := newValidator(t)

	result := gv.Validate(nil)
	require.False(t, result.Valid())
	assert.Equal(t, schema.ErrCodeValidation, result.Errors[0].Code)
}

func TestValidate_UnknownDataTypeRejected(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Nodes[1].Inputs[1].DataType = "quaternion"

	result := gv.Validate(g)
	assert.False(t, result.Valid())
}

func TestValidate_DuplicateNodeID(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Nodes = append(g.Nodes, &schema.Node{ID: "n1", Type: codegen.TypeComment})

	result := gv.Validate(g)
	require.False(t, result.Valid())
	assert.Contains(t, result.Errors[0].Message, "duplicate node id")
}

func TestValidate_StructuralErrorShortCircuits(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Nodes[0].ID = "" // structural violation
	// This dangling edge would be a semantic error, but the semantic stage
	// must not run.
	g.Edges = append(g.Edges, &schema.Edge{
		ID: "e2", SourceNode: "ghost", SourcePort: "x",
		TargetNode: "n2", TargetPort: "value", Kind: schema.EdgeData,
	})

	result := gv.Validate(g)
	require.False(t, result.Valid())
	for _, issue := range result.Errors {
		assert.NotContains(t, issue.Message, "non-existent node")
	}
}

// --- semantic stage ---

func TestValidate_EdgeToMissingNode(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Edges[0].TargetNode = "ghost"

	result := gv.Validate(g)
	require.False(t, result.Valid())
	assert.Contains(t, result.Errors[0].Message, `non-existent node "ghost"`)
}

func TestValidate_EdgeToMissingPort(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Edges[0].TargetPort = "nope"

	result := gv.Validate(g)
	require.False(t, result.Valid())
	assert.Contains(t, result.Errors[0].Message, `no input port "nope"`)
}

func TestValidate_VariableRefMustResolve(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Nodes = append(g.Nodes, &schema.Node{
		ID: "n3", Type: codegen.TypeGetVariable,
		Properties: map[string]any{"variable": "var-missing"},
		Outputs:    []schema.Port{outPort("value", schema.TypeInt)},
	})

	result := gv.Validate(g)
	require.False(t, result.Valid())
	assert.Contains(t, result.Errors[0].Message, `non-existent variable "var-missing"`)
}

func TestValidate_VariableRefResolves(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Variables = []*schema.Variable{{ID: "var-1", Name: "count", DataType: schema.TypeInt}}
	g.Nodes = append(g.Nodes, &schema.Node{
		ID: "n3", Type: codegen.TypeGetVariable,
		Properties: map[string]any{"variable": "var-1"},
		Outputs:    []schema.Port{outPort("value", schema.TypeInt)},
	})

	assert.True(t, gv.Validate(g).Valid())
}

func TestValidate_FunctionRefMustResolve(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Nodes = append(g.Nodes, &schema.Node{
		ID: "n3", Type: codegen.TypeFunctionCall,
		Properties: map[string]any{"function": "fn-missing"},
	})

	result := gv.Validate(g)
	require.False(t, result.Valid())
	assert.Contains(t, result.Errors[0].Message, `non-existent function "fn-missing"`)
}

func TestValidate_TypeMismatchIsWarning(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Nodes = append(g.Nodes, &schema.Node{
		ID: "n3", Type: codegen.TypeLiteralInt,
		Outputs: []schema.Port{outPort("value", schema.TypeInt)},
	})
	// Integer output into a string input: suspicious but not fatal.
	g.Edges = append(g.Edges, &schema.Edge{
		ID: "e2", SourceNode: "n3", SourcePort: "value",
		TargetNode: "n2", TargetPort: "value", Kind: schema.EdgeData,
	})

	result := gv.Validate(g)
	assert.True(t, result.Valid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, schema.CodeTypeMismatch, result.Warnings[0].Code)
}

func TestValidate_AnyMatchesEverything(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Nodes[1].Inputs[1].DataType = schema.TypeAny
	g.Nodes = append(g.Nodes, &schema.Node{
		ID: "n3", Type: codegen.TypeLiteralInt,
		Outputs: []schema.Port{outPort("value", schema.TypeInt)},
	})
	g.Edges = append(g.Edges, &schema.Edge{
		ID: "e2", SourceNode: "n3", SourcePort: "value",
		TargetNode: "n2", TargetPort: "value", Kind: schema.EdgeData,
	})

	result := gv.Validate(g)
	assert.True(t, result.Valid())
	assert.Empty(t, result.Warnings)
}

func TestValidate_IntToFloatWidens(t *testing.T) {
	assert.True(t, typesCompatible(schema.TypeInt, schema.TypeFloat))
	assert.False(t, typesCompatible(schema.TypeFloat, schema.TypeInt))
}

// --- data-flow stage ---

func TestValidate_DataCycleDetected(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Nodes = append(g.Nodes,
		&schema.Node{ID: "a", Type: codegen.TypeMathAdd,
			Inputs:  []schema.Port{inPort("a", schema.TypeInt), inPort("b", schema.TypeInt)},
			Outputs: []schema.Port{outPort("result", schema.TypeInt)}},
		&schema.Node{ID: "b", Type: codegen.TypeMathAdd,
			Inputs:  []schema.Port{inPort("a", schema.TypeInt), inPort("b", schema.TypeInt)},
			Outputs: []schema.Port{outPort("result", schema.TypeInt)}},
	)
	g.Edges = append(g.Edges,
		&schema.Edge{ID: "e2", SourceNode: "a", SourcePort: "result",
			TargetNode: "b", TargetPort: "a", Kind: schema.EdgeData},
		&schema.Edge{ID: "e3", SourceNode: "b", SourcePort: "result",
			TargetNode: "a", TargetPort: "a", Kind: schema.EdgeData},
	)

	result := gv.Validate(g)
	require.False(t, result.Valid())
	assert.Equal(t, schema.CodeCycleDetected, result.Errors[0].Code)
}

func TestValidate_ExecutionLoopIsNotADataCycle(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	// Print loops back to itself via execution: allowed, truncated at
	// generation time.
	g.Edges = append(g.Edges, &schema.Edge{
		ID: "e2", SourceNode: "n2", SourcePort: "exec",
		TargetNode: "n2", TargetPort: "exec", Kind: schema.EdgeExecution,
	})

	assert.True(t, gv.Validate(g).Valid())
}

// --- function sub-graphs ---

func TestValidate_FunctionSubGraphChecked(t *testing.T) {
	gv := newValidator(t)
	g := minimalGraph()
	g.Functions = []*schema.Function{{
		ID: "fn-1", Name: "helper",
		Graph: &schema.Graph{
			Nodes: []*schema.Node{{ID: "f1", Type: codegen.TypeStart,
				Outputs: []schema.Port{outPort("exec", schema.TypeExecution)}}},
			Edges: []*schema.Edge{{ID: "fe1", SourceNode: "f1", SourcePort: "exec",
				TargetNode: "ghost", TargetPort: "exec", Kind: schema.EdgeExecution}},
		},
	}}

	result := gv.Validate(g)
	require.False(t, result.Valid())
	assert.Contains(t, result.Errors[0].Path, "functions[0].graph.")
}

// --- manifests and properties ---

func TestValidateManifestBytes(t *testing.T) {
	gv := newValidator(t)

	valid := []byte(`{
		"name": "strings-extra",
		"version": "1.0.0",
		"nodes": [{
			"type": "pkg.strings.reverse",
			"templates": {"cpp": "std::reverse(s.begin(), s.end());"},
			"includes": {"cpp": ["<algorithm>"]}
		}]
	}`)
	assert.NoError(t, gv.ValidateManifestBytes(valid))

	missingTemplates := []byte(`{"name": "bad", "nodes": [{"type": "x"}]}`)
	assert.Error(t, gv.ValidateManifestBytes(missingTemplates))

	notJSON := []byte(`{`)
	assert.Error(t, gv.ValidateManifestBytes(notJSON))
}

func TestValidateProperties_SchemaCached(t *testing.T) {
	gv := newValidator(t)
	propSchema := []byte(`{
		"type": "object",
		"required": ["value"],
		"properties": {"value": {"type": "integer"}}
	}`)

	require.NoError(t, gv.ValidateProperties(map[string]any{"value": 3}, propSchema))
	assert.Error(t, gv.ValidateProperties(map[string]any{"value": "three"}, propSchema))

	// Second round hits the compiled-schema cache.
	require.NoError(t, gv.ValidateProperties(map[string]any{"value": 7}, propSchema))
	assert.Len(t, gv.jsonSchema.cache, 1)
}

func TestValidateProperties_NoSchemaIsNoop(t *testing.T) {
	gv := newValidator(t)
	assert.NoError(t, gv.ValidateProperties(map[string]any{"anything": true}, nil))
}
