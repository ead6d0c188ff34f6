// Package mcp exposes graph compilation and source patching as MCP tools
// over stdio, so editor agents can generate code without shelling out.
package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/multicode/codegraph/internal/store"
	"github.com/multicode/codegraph/internal/validation"
)

// CodegraphServerDeps holds the dependencies for creating a CodegraphServer.
// Store may be nil; the history tool then reports that history is disabled.
type CodegraphServerDeps struct {
	Validator *validation.GraphValidator
	Store     store.Store
	Logger    *slog.Logger
}

// CodegraphServer wraps an MCP server with codegraph-specific tool handlers.
type CodegraphServer struct {
	validator *validation.GraphValidator
	store     store.Store
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewCodegraphServer creates a new CodegraphServer with all 7 tools registered.
func NewCodegraphServer(deps CodegraphServerDeps) *CodegraphServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	s := &CodegraphServer{
		validator: deps.Validator,
		store:     deps.Store,
		logger:    logger,
	}

	mcpSrv := server.NewMCPServer(
		"codegraph",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Codegraph compiles visual node graphs into source code and keeps the output inside marker blocks of real files. Use codegraph.generate to compile a graph, codegraph.preflight and codegraph.validate to check one, codegraph.blocks to list marker blocks in a file, codegraph.patch and codegraph.append to rewrite them, and codegraph.history to inspect past generation runs."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *CodegraphServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *CodegraphServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns the registered MCP tools as ServerTool entries.
func (s *CodegraphServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: generateTool(), Handler: s.handleGenerate},
		{Tool: preflightTool(), Handler: s.handlePreflight},
		{Tool: validateTool(), Handler: s.handleValidate},
		{Tool: blocksTool(), Handler: s.handleBlocks},
		{Tool: patchTool(), Handler: s.handlePatch},
		{Tool: appendTool(), Handler: s.handleAppend},
		{Tool: historyTool(), Handler: s.handleHistory},
	}
}

// --- Tool definitions ---

func generateTool() mcp.Tool {
	return mcp.NewTool("codegraph.generate",
		mcp.WithDescription("Compile a visual node graph into source code"),
		mcp.WithObject("graph", mcp.Required(), mcp.Description("The graph document (nodes, edges, variables, functions)")),
		mcp.WithString("language", mcp.Description("Target language (default: cpp)")),
		mcp.WithObject("options", mcp.Description("Generation options: comments, markers, headers, wrapper (booleans), indent (number)")),
	)
}

func preflightTool() mcp.Tool {
	return mcp.NewTool("codegraph.preflight",
		mcp.WithDescription("Check whether a graph can be compiled: entry node count and unknown node types"),
		mcp.WithObject("graph", mcp.Required(), mcp.Description("The graph document")),
		mcp.WithString("language", mcp.Description("Target language (default: cpp)")),
	)
}

func validateTool() mcp.Tool {
	return mcp.NewTool("codegraph.validate",
		mcp.WithDescription("Validate a graph document: structure, reference integrity, port types, data cycles"),
		mcp.WithObject("graph", mcp.Required(), mcp.Description("The graph document")),
	)
}

func blocksTool() mcp.Tool {
	return mcp.NewTool("codegraph.blocks",
		mcp.WithDescription("List the generated-code marker blocks in a source file"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full source file contents")),
	)
}

func patchTool() mcp.Tool {
	return mcp.NewTool("codegraph.patch",
		mcp.WithDescription("Replace the interior of a named marker block, preserving everything else byte-for-byte"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full source file contents")),
		mcp.WithString("block", mcp.Required(), mcp.Description("Block id to patch")),
		mcp.WithString("code", mcp.Required(), mcp.Description("New generated code for the block interior")),
	)
}

func appendTool() mcp.Tool {
	return mcp.NewTool("codegraph.append",
		mcp.WithDescription("Append a new marker block to the end of a source file"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full source file contents (may be empty)")),
		mcp.WithString("block", mcp.Required(), mcp.Description("Block id to create")),
		mcp.WithString("code", mcp.Required(), mcp.Description("Generated code for the block interior")),
	)
}

func historyTool() mcp.Tool {
	return mcp.NewTool("codegraph.history",
		mcp.WithDescription("List past generation runs"),
		mcp.WithObject("filter", mcp.Description("Filter: graph, language, success (bool), limit (number)")),
	)
}
