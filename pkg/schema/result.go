package schema

// CodeGenOptions controls a single generation run.
type CodeGenOptions struct {
	IncludeComments      bool `json:"includeComments"`      // node label comments
	IncludeSourceMarkers bool `json:"includeSourceMarkers"` // per-node begin/end marker comments
	IndentSize           int  `json:"indentSize"`           // spaces per indent level (default 4)
	IncludeHeaders       bool `json:"includeHeaders"`       // tool/timestamp header comment
	GenerateEntryWrapper bool `json:"generateEntryWrapper"` // wrap traversal output in the entry point
}

// DefaultOptions returns the options the authoring UI uses out of the box.
func DefaultOptions() CodeGenOptions {
	return CodeGenOptions{
		IncludeComments:      true,
		IndentSize:           4,
		IncludeHeaders:       true,
		GenerateEntryWrapper: true,
	}
}

// Diagnostic is a structured error or warning raised during preflight or
// generation. Diagnostics are values carried in the result, never panics.
type Diagnostic struct {
	Code    string `json:"code"`
	NodeID  string `json:"nodeId,omitempty"`
	Message string `json:"message"`
}

// SourceMapEntry maps a 1-based line range of the generated file back to the
// node that produced it.
type SourceMapEntry struct {
	NodeID    string `json:"nodeId"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// GenerationStats summarizes a generation run.
type GenerationStats struct {
	NodesProcessed   int   `json:"nodesProcessed"`
	LinesOfCode      int   `json:"linesOfCode"`
	GenerationTimeMs int64 `json:"generationTimeMs"`
}

// GenerationResult is the complete outcome of one Generate call.
type GenerationResult struct {
	Success   bool             `json:"success"`
	Code      string           `json:"code"`
	Errors    []Diagnostic     `json:"errors,omitempty"`
	Warnings  []Diagnostic     `json:"warnings,omitempty"`
	SourceMap []SourceMapEntry `json:"sourceMap,omitempty"`
	Stats     GenerationStats  `json:"stats"`
}
