package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multicode/codegraph/internal/store"
	"github.com/multicode/codegraph/internal/validation"
	"github.com/multicode/codegraph/pkg/schema"
)

// --- Mock Store ---

type mockStore struct {
	store.Store // embed for unimplemented methods

	runs      []*store.Run
	recordErr error
}

func (m *mockStore) RecordRun(_ context.Context, run *store.Run) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockStore) ListRuns(_ context.Context, filter store.RunFilter) ([]*store.Run, error) {
	result := make([]*store.Run, 0)
	for _, r := range m.runs {
		if filter.Graph != "" && r.Graph != filter.Graph {
			continue
		}
		if filter.Language != "" && r.Language != filter.Language {
			continue
		}
		if filter.Success != nil && r.Success != *filter.Success {
			continue
		}
		result = append(result, r)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// --- Helpers ---

func buildRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		},
	}
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	return mcp.GetTextFromContent(result.Content[0])
}

func unmarshalResult(t *testing.T, result *mcp.CallToolResult, target any) {
	t.Helper()
	text := extractText(t, result)
	require.NoError(t, json.Unmarshal([]byte(text), target))
}

func newTestServer(t *testing.T, s store.Store) *CodegraphServer {
	t.Helper()
	validator, err := validation.NewGraphValidator()
	require.NoError(t, err)
	return NewCodegraphServer(CodegraphServerDeps{Validator: validator, Store: s})
}

// graphArg is a minimal runnable graph: start -> print("hi").
func graphArg() map[string]any {
	return map[string]any{
		"name": "demo",
		"nodes": []any{
			map[string]any{
				"id": "n1", "type": "core.flow.start",
				"outputs": []any{map[string]any{
					"id": "exec", "name": "exec", "dataType": "execution", "direction": "output",
				}},
			},
			map[string]any{
				"id": "n2", "type": "core.io.print",
				"inputs": []any{
					map[string]any{"id": "exec", "name": "exec", "dataType": "execution", "direction": "input"},
					map[string]any{"id": "value", "name": "value", "dataType": "string", "direction": "input", "value": "hi"},
				},
				"outputs": []any{map[string]any{
					"id": "exec", "name": "exec", "dataType": "execution", "direction": "output",
				}},
			},
		},
		"edges": []any{
			map[string]any{
				"id": "e1", "sourceNode": "n1", "sourcePort": "exec",
				"targetNode": "n2", "targetPort": "exec", "kind": "execution",
			},
		},
	}
}

// --- Tests ---

func TestGenerateTool(t *testing.T) {
	ms := &mockStore{}
	s := newTestServer(t, ms)

	req := buildRequest("codegraph.generate", map[string]any{"graph": graphArg()})
	result, err := s.handleGenerate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var gen schema.GenerationResult
	unmarshalResult(t, result, &gen)
	assert.True(t, gen.Success)
	assert.Contains(t, gen.Code, `std::cout << "hi" << std::endl;`)

	// Run recorded with a checksum.
	require.Len(t, ms.runs, 1)
	assert.Equal(t, "demo", ms.runs[0].Graph)
	assert.True(t, ms.runs[0].Success)
	assert.NotEmpty(t, ms.runs[0].Checksum)
}

func TestGenerateTool_MissingGraph(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleGenerate(context.Background(), buildRequest("codegraph.generate", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGenerateTool_UnknownLanguage(t *testing.T) {
	s := newTestServer(t, nil)

	req := buildRequest("codegraph.generate", map[string]any{
		"graph":    graphArg(),
		"language": "cobol",
	})
	result, err := s.handleGenerate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(t, result), "cobol")
}

func TestPreflightTool(t *testing.T) {
	s := newTestServer(t, nil)

	// Valid graph.
	result, err := s.handlePreflight(context.Background(),
		buildRequest("codegraph.preflight", map[string]any{"graph": graphArg()}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		CanGenerate bool                `json:"canGenerate"`
		Diagnostics []schema.Diagnostic `json:"diagnostics"`
	}
	unmarshalResult(t, result, &out)
	assert.True(t, out.CanGenerate)

	// No start node.
	g := graphArg()
	g["nodes"] = g["nodes"].([]any)[1:]
	g["edges"] = []any{}
	result, err = s.handlePreflight(context.Background(),
		buildRequest("codegraph.preflight", map[string]any{"graph": g}))
	require.NoError(t, err)
	unmarshalResult(t, result, &out)
	assert.False(t, out.CanGenerate)
	require.NotEmpty(t, out.Diagnostics)
	assert.Equal(t, schema.CodeNoStartNode, out.Diagnostics[0].Code)
}

func TestValidateTool(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleValidate(context.Background(),
		buildRequest("codegraph.validate", map[string]any{"graph": graphArg()}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var vr schema.ValidationResult
	unmarshalResult(t, result, &vr)
	assert.True(t, vr.Valid())
}

func TestBlocksTool(t *testing.T) {
	s := newTestServer(t, nil)

	text := "// codegraph:begin main\nx();\n// codegraph:end main\n"
	result, err := s.handleBlocks(context.Background(),
		buildRequest("codegraph.blocks", map[string]any{"text": text}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		Blocks []struct {
			ID      string `json:"id"`
			Preview string `json:"preview"`
		} `json:"blocks"`
	}
	unmarshalResult(t, result, &out)
	require.Len(t, out.Blocks, 1)
	assert.Equal(t, "main", out.Blocks[0].ID)
	assert.Equal(t, "x();", out.Blocks[0].Preview)
}

func TestBlocksTool_MalformedMarkers(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleBlocks(context.Background(),
		buildRequest("codegraph.blocks", map[string]any{"text": "// codegraph:end stray\n"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(t, result), "ORPHAN_END")
}

func TestPatchTool(t *testing.T) {
	s := newTestServer(t, nil)

	req := buildRequest("codegraph.patch", map[string]any{
		"text":  "// codegraph:begin m\nold();\n// codegraph:end m\n",
		"block": "m",
		"code":  "fresh();\n",
	})
	result, err := s.handlePatch(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "// codegraph:begin m\nfresh();\n// codegraph:end m\n", extractText(t, result))
}

func TestPatchTool_UnknownBlock(t *testing.T) {
	s := newTestServer(t, nil)

	req := buildRequest("codegraph.patch", map[string]any{
		"text":  "// codegraph:begin m\n// codegraph:end m\n",
		"block": "ghost",
		"code":  "x();\n",
	})
	result, err := s.handlePatch(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestAppendTool(t *testing.T) {
	s := newTestServer(t, nil)

	req := buildRequest("codegraph.append", map[string]any{
		"text":  "",
		"block": "main",
		"code":  "x();\n",
	})
	result, err := s.handleAppend(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "// codegraph:begin main\nx();\n// codegraph:end main\n", extractText(t, result))
}

func TestHistoryTool(t *testing.T) {
	ms := &mockStore{runs: []*store.Run{
		{ID: "r1", Graph: "alpha", Language: "cpp", Success: true},
		{ID: "r2", Graph: "beta", Language: "cpp", Success: false},
	}}
	s := newTestServer(t, ms)

	req := buildRequest("codegraph.history", map[string]any{
		"filter": map[string]any{"graph": "alpha"},
	})
	result, err := s.handleHistory(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		Runs []*store.Run `json:"runs"`
	}
	unmarshalResult(t, result, &out)
	require.Len(t, out.Runs, 1)
	assert.Equal(t, "r1", out.Runs[0].ID)
}

func TestHistoryTool_NoStore(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleHistory(context.Background(),
		buildRequest("codegraph.history", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServerRegistersTools(t *testing.T) {
	s := newTestServer(t, nil)
	require.NotNil(t, s.MCPServer())
	assert.Len(t, s.tools(), 7)
}
