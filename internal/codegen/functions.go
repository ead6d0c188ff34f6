package codegen

import (
	"log/slog"
	"strings"

	"github.com/multicode/codegraph/pkg/schema"
)

// section is a contiguous run of output lines plus its section-relative
// source map and the diagnostics raised while producing it.
type section struct {
	lines    []string
	srcMap   []schema.SourceMapEntry
	errors   []schema.Diagnostic
	warnings []schema.Diagnostic
}

// synthesizeFunction builds the full definition of one user-defined function:
// an optional documentation comment, a synthesized result type when the
// function has more than one output, the signature, and the body produced by
// traversing the sub-graph in a fresh context. Diagnostics are merged back to
// the caller; the sub-graph's visited set is not, so function-body nodes are
// never flagged unused by the outer graph's pass.
func synthesizeFunction(fn *schema.Function, opts schema.CodeGenOptions, reg *Registry, run *runState, log *slog.Logger) section {
	var sec section
	pad := indentUnit(opts)

	if opts.IncludeComments && fn.Description != "" {
		for _, line := range strings.Split(fn.Description, "\n") {
			sec.lines = append(sec.lines, "// "+line)
		}
	}

	outputs := fn.Outputs()
	if len(outputs) > 1 {
		run.needsTuple = true
		sec.lines = append(sec.lines, "struct "+resultTypeName(fn)+" {")
		for _, p := range outputs {
			sec.lines = append(sec.lines, pad+cppType(p.DataType)+" "+sanitizeIdentifier(p.Name)+";")
		}
		sec.lines = append(sec.lines, "};", "")
	}

	sec.lines = append(sec.lines, signature(fn)+" {")

	body := newContext(fn.Graph, fn, opts, reg, run, log)
	body.indent = 1

	if fn.Graph != nil {
		if entry := findStartNode(fn.Graph); entry != nil {
			// The entry itself emits nothing: traversal is rooted at its
			// immediate successor.
			body.visited[entry.ID] = true
			run.nodes++
			body.Walk(body.execSuccessor(entry))
		}
		body.reportUnusedNodes()
	}

	if body.Line() == 0 {
		emitDefaultReturn(body, fn)
	}

	offset := len(sec.lines)
	sec.lines = append(sec.lines, body.lines...)
	sec.lines = append(sec.lines, "}")

	for _, e := range body.srcMap {
		e.StartLine += offset
		e.EndLine += offset
		sec.srcMap = append(sec.srcMap, e)
	}
	sec.errors = body.errors
	sec.warnings = body.warnings
	return sec
}

// emitDefaultReturn covers a function whose sub-graph has no reachable
// statements: no value for zero outputs, the type default for one, a
// synthesized-type value built from per-field defaults for several.
func emitDefaultReturn(ctx *Context, fn *schema.Function) {
	outputs := fn.Outputs()
	switch len(outputs) {
	case 0:
		ctx.Emit("return;")
	case 1:
		ctx.Emit("return %s;", defaultForParam(outputs[0]))
	default:
		ctx.RequireTuple()
		fields := make([]string, len(outputs))
		for i, p := range outputs {
			fields[i] = defaultForParam(p)
		}
		ctx.Emit("return %s{%s};", resultTypeName(fn), strings.Join(fields, ", "))
	}
}

// signature renders the C++ function signature.
func signature(fn *schema.Function) string {
	var ret string
	outputs := fn.Outputs()
	switch len(outputs) {
	case 0:
		ret = "void"
	case 1:
		ret = cppType(outputs[0].DataType)
	default:
		ret = resultTypeName(fn)
	}

	params := make([]string, 0, len(fn.Parameters))
	for _, p := range fn.Inputs() {
		params = append(params, cppType(p.DataType)+" "+sanitizeIdentifier(p.Name))
	}
	return ret + " " + functionName(fn) + "(" + strings.Join(params, ", ") + ")"
}

func indentUnit(opts schema.CodeGenOptions) string {
	size := opts.IndentSize
	if size <= 0 {
		size = 4
	}
	return strings.Repeat(" ", size)
}

func findStartNode(g *schema.Graph) *schema.Node {
	for _, n := range g.Nodes {
		if n.Type == TypeStart {
			return n
		}
	}
	return nil
}
