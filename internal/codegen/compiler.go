package codegen

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/multicode/codegraph/pkg/schema"
)

// Compiler turns a graph value into source code for one target language.
// Implementations are safe for concurrent Generate calls: every call builds
// its own run state, including its own include collector.
type Compiler interface {
	Language() string
	Preflight(g *schema.Graph) []schema.Diagnostic
	Generate(g *schema.Graph, opts schema.CodeGenOptions) *schema.GenerationResult
}

// cppCompiler is the C++ target.
type cppCompiler struct {
	reg *Registry
	log *slog.Logger
}

// NewCppCompiler creates the C++ compiler. A nil registry means the default
// built-in registry; a nil logger means a stderr text handler.
func NewCppCompiler(reg *Registry, log *slog.Logger) Compiler {
	if reg == nil {
		reg = NewDefaultRegistry()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &cppCompiler{reg: reg, log: log}
}

func (c *cppCompiler) Language() string { return "cpp" }

func (c *cppCompiler) Preflight(g *schema.Graph) []schema.Diagnostic {
	return Preflight(g, c.reg)
}

// Generate compiles the graph. Assembly is two-pass: the body (functions,
// then the traversal output) is produced first because the header cannot be
// known until the body has declared its include needs.
func (c *cppCompiler) Generate(g *schema.Graph, opts schema.CodeGenOptions) *schema.GenerationResult {
	started := time.Now()
	result := &schema.GenerationResult{}

	if diags := c.Preflight(g); len(diags) > 0 {
		result.Errors = diags
		result.Stats.GenerationTimeMs = time.Since(started).Milliseconds()
		return result
	}

	run := &runState{root: g, includes: NewIncludeCollector()}
	// Collected includes must start empty on every call; this is a
	// precondition of header assembly, not a garbage-collection accident.
	run.includes.Reset()

	// Pass 1: user functions, then the event-graph traversal.
	sections := make([]section, 0, len(g.Functions)+1)
	for _, fn := range g.Functions {
		sections = append(sections, synthesizeFunction(fn, opts, c.reg, run, c.log))
	}

	top := newContext(g, nil, opts, c.reg, run, c.log)
	top.Walk(findStartNode(g))
	top.reportUnusedNodes()

	for _, sec := range sections {
		result.Errors = append(result.Errors, sec.errors...)
		result.Warnings = append(result.Warnings, sec.warnings...)
	}
	result.Errors = append(result.Errors, top.errors...)
	result.Warnings = append(result.Warnings, top.warnings...)

	// Pass 2: header, then the assembled body with absolute line numbers.
	var out []string
	appendSection := func(lines []string, srcMap []schema.SourceMapEntry) {
		offset := len(out)
		out = append(out, lines...)
		for _, e := range srcMap {
			e.StartLine += offset
			e.EndLine += offset
			result.SourceMap = append(result.SourceMap, e)
		}
	}

	appendSection(c.header(opts, run), nil)

	for _, sec := range sections {
		appendSection(sec.lines, sec.srcMap)
		out = append(out, "")
	}

	if opts.GenerateEntryWrapper {
		out = append(out, "int main() {")
		appendSection(top.lines, top.srcMap)
		if needsDefaultReturn(top.lines) {
			out = append(out, indentUnit(opts)+"return 0;")
		}
		out = append(out, "}")
	} else {
		appendSection(top.lines, top.srcMap)
	}

	result.Code = strings.Join(out, "\n") + "\n"
	result.Success = len(result.Errors) == 0
	result.Stats = schema.GenerationStats{
		NodesProcessed:   run.nodes,
		LinesOfCode:      len(out),
		GenerationTimeMs: time.Since(started).Milliseconds(),
	}

	c.log.Info("generation finished",
		slog.String("graph", g.Name),
		slog.Bool("success", result.Success),
		slog.Int("nodes", result.Stats.NodesProcessed),
		slog.Int("lines", result.Stats.LinesOfCode),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)))

	return result
}

// header renders the top of the file: the tool/timestamp comment block when
// headers are enabled, then the sorted, deduplicated include directives.
// Include directives are emitted regardless of IncludeHeaders; the option
// only controls the comment block so timestamp-free output stays compilable.
func (c *cppCompiler) header(opts schema.CodeGenOptions, run *runState) []string {
	var lines []string
	if opts.IncludeHeaders {
		lines = append(lines,
			"// Generated by codegraph. Changes inside generated blocks will be overwritten.",
			"// "+time.Now().UTC().Format(time.RFC3339),
		)
	}

	includes := NewIncludeCollector()
	includes.Add("<iostream>")
	includes.Add("<string>")
	if run.needsTuple {
		includes.Add("<tuple>")
	}
	for _, inc := range run.includes.Sorted() {
		includes.Add(inc)
	}
	for _, inc := range includes.Sorted() {
		lines = append(lines, "#include "+inc)
	}
	lines = append(lines, "")
	return lines
}

// needsDefaultReturn checks whether the wrapper must append its own return.
func needsDefaultReturn(body []string) bool {
	for i := len(body) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(body[i])
		if trimmed == "" {
			continue
		}
		return !strings.HasPrefix(trimmed, "return")
	}
	return true
}
