package mcp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/multicode/codegraph/internal/codegen"
	"github.com/multicode/codegraph/internal/markers"
	"github.com/multicode/codegraph/internal/store"
	"github.com/multicode/codegraph/pkg/schema"
)

const defaultLanguage = "cpp"

// handleGenerate compiles a graph and, when a store is wired, records the run.
func (s *CodegraphServer) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := parseGraph(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	language := req.GetString("language", defaultLanguage)

	compiler, err := codegen.For(language, codegen.Options{Logger: s.logger})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := parseOptions(mcp.ParseStringMap(req, "options", nil))
	result := compiler.Generate(g, opts)

	s.recordRun(ctx, g, language, result)
	return marshalResult(result)
}

// handlePreflight reports whether a graph can be compiled at all.
func (s *CodegraphServer) handlePreflight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := parseGraph(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	language := req.GetString("language", defaultLanguage)

	compiler, err := codegen.For(language, codegen.Options{Logger: s.logger})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	diags := compiler.Preflight(g)
	return marshalResult(map[string]any{
		"canGenerate": len(diags) == 0,
		"diagnostics": diags,
	})
}

// handleValidate runs the full validation pipeline over a graph.
func (s *CodegraphServer) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.validator == nil {
		return mcp.NewToolResultError("validator is not configured"), nil
	}
	g, err := parseGraph(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return marshalResult(s.validator.Validate(g))
}

// handleBlocks lists the marker blocks in a source file.
func (s *CodegraphServer) handleBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}

	blocks, parseErr := markers.Parse(text)
	if parseErr != nil {
		return mcp.NewToolResultError(parseErr.Error()), nil
	}
	if blocks == nil {
		blocks = []markers.Block{}
	}
	return marshalResult(map[string]any{"blocks": blocks})
}

// handlePatch replaces the interior of a marker block.
func (s *CodegraphServer) handlePatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}
	block, err := req.RequireString("block")
	if err != nil {
		return mcp.NewToolResultError("block is required"), nil
	}
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code is required"), nil
	}

	out, patchErr := markers.Patch(text, block, code)
	if patchErr != nil {
		return mcp.NewToolResultError(patchErr.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// handleAppend adds a new marker block to a source file.
func (s *CodegraphServer) handleAppend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	block, err := req.RequireString("block")
	if err != nil {
		return mcp.NewToolResultError("block is required"), nil
	}
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code is required"), nil
	}

	out, appendErr := markers.Append(text, block, code)
	if appendErr != nil {
		return mcp.NewToolResultError(appendErr.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// handleHistory lists past generation runs.
func (s *CodegraphServer) handleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("generation history is disabled (no store configured)"), nil
	}

	filter := mcp.ParseStringMap(req, "filter", nil)
	rf := store.RunFilter{
		Limit: extractInt(filter, "limit", 50),
	}
	if graph, ok := filter["graph"].(string); ok {
		rf.Graph = graph
	}
	if language, ok := filter["language"].(string); ok {
		rf.Language = language
	}
	if success, ok := filter["success"].(bool); ok {
		rf.Success = &success
	}

	runs, err := s.store.ListRuns(ctx, rf)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history query failed: %v", err)), nil
	}
	return marshalResult(map[string]any{"runs": runs})
}

// --- Internal helpers ---

// parseGraph extracts and decodes the required graph argument.
func parseGraph(req mcp.CallToolRequest) (*schema.Graph, error) {
	raw := mcp.ParseStringMap(req, "graph", nil)
	if raw == nil {
		return nil, fmt.Errorf("graph is required")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid graph: %v", err)
	}
	return schema.DecodeGraph(data)
}

// parseOptions maps the options object onto generation options, keeping
// defaults for anything absent.
func parseOptions(raw map[string]any) schema.CodeGenOptions {
	opts := schema.DefaultOptions()
	if raw == nil {
		return opts
	}
	if v, ok := raw["comments"].(bool); ok {
		opts.IncludeComments = v
	}
	if v, ok := raw["markers"].(bool); ok {
		opts.IncludeSourceMarkers = v
	}
	if v, ok := raw["headers"].(bool); ok {
		opts.IncludeHeaders = v
	}
	if v, ok := raw["wrapper"].(bool); ok {
		opts.GenerateEntryWrapper = v
	}
	if n := extractInt(raw, "indent", 0); n > 0 {
		opts.IndentSize = n
	}
	return opts
}

// recordRun persists a generation outcome. History failures are logged, never
// surfaced: the generated code is already in the tool result.
func (s *CodegraphServer) recordRun(ctx context.Context, g *schema.Graph, language string, result *schema.GenerationResult) {
	if s.store == nil {
		return
	}

	run := &store.Run{
		ID:         uuid.New().String(),
		Graph:      g.Name,
		Language:   language,
		Success:    result.Success,
		Nodes:      result.Stats.NodesProcessed,
		Lines:      result.Stats.LinesOfCode,
		DurationMs: result.Stats.GenerationTimeMs,
		CreatedAt:  time.Now().UTC(),
	}
	run.Diagnostics = append(run.Diagnostics, result.Errors...)
	run.Diagnostics = append(run.Diagnostics, result.Warnings...)
	if result.Success {
		run.Checksum = checksum(result.Code)
	}

	if err := s.store.RecordRun(ctx, run); err != nil {
		s.logger.Error("failed to record generation run",
			slog.String("graph", g.Name),
			slog.String("error", err.Error()))
	}
}

// checksum returns the hex SHA-256 of generated code.
func checksum(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// extractInt safely extracts an integer from a filter map.
func extractInt(filter map[string]any, key string, defaultVal int) int {
	if filter == nil {
		return defaultVal
	}
	v, ok := filter[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n)
		}
	}
	return defaultVal
}

// marshalResult converts a value to a JSON text tool result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}
