package codegen

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/multicode/codegraph/pkg/schema"
)

// Binding is one entry of the variable binding table: a logical variable that
// has been declared in the generated code.
type Binding struct {
	CodeName     string
	OriginalName string
	TargetType   schema.DataType
	OwnerNodeID  string
}

// IncludeCollector accumulates include directives contributed by package
// template generators during one Generate call. It is a per-call value, never
// a process-wide singleton, so concurrent generations cannot contaminate each
// other. Reset is still called at the start of every run as a hard guarantee.
type IncludeCollector struct {
	includes map[string]struct{}
}

// NewIncludeCollector creates an empty collector.
func NewIncludeCollector() *IncludeCollector {
	return &IncludeCollector{includes: make(map[string]struct{})}
}

// Reset drops all collected includes.
func (c *IncludeCollector) Reset() {
	c.includes = make(map[string]struct{})
}

// Add records an include directive target, e.g. "<vector>" or "\"pkg/api.h\"".
func (c *IncludeCollector) Add(include string) {
	if include != "" {
		c.includes[include] = struct{}{}
	}
}

// Sorted returns the collected includes in lexical order.
func (c *IncludeCollector) Sorted() []string {
	out := make([]string, 0, len(c.includes))
	for inc := range c.includes {
		out = append(out, inc)
	}
	sort.Strings(out)
	return out
}

// runState is shared by every context of one Generate call: the top-level
// traversal and each function body get fresh scopes, but includes, the
// tuple-support flag and the processed-node count span the whole run.
type runState struct {
	root       *schema.Graph
	includes   *IncludeCollector
	needsTuple bool
	nodes      int
}

// Context is the mutable, scoped state threaded through one traversal. A
// fresh Context is created per top-level traversal and per function body so
// variable scopes and visited sets never leak between a function and the
// graph that calls it.
type Context struct {
	graph *schema.Graph
	fn    *schema.Function // non-nil inside a function body
	opts  schema.CodeGenOptions
	reg   *Registry
	run   *runState
	log   *slog.Logger

	indent   int
	lines    []string
	visited  map[string]bool
	vars     map[string]*Binding // keyed by stable variable ID
	names    map[string]int      // identifier -> times taken
	exprs    map[string]string   // output port ID -> memoized expression
	errors   []schema.Diagnostic
	warnings []schema.Diagnostic
	srcMap   []schema.SourceMapEntry
}

func newContext(g *schema.Graph, fn *schema.Function, opts schema.CodeGenOptions, reg *Registry, run *runState, log *slog.Logger) *Context {
	indent := 0
	if fn != nil || opts.GenerateEntryWrapper {
		indent = 1
	}
	return &Context{
		graph:   g,
		fn:      fn,
		opts:    opts,
		reg:     reg,
		run:     run,
		log:     log,
		indent:  indent,
		visited: make(map[string]bool),
		vars:    make(map[string]*Binding),
		names:   make(map[string]int),
		exprs:   make(map[string]string),
	}
}

// Line returns the number of lines emitted so far in this context.
func (c *Context) Line() int {
	return len(c.lines)
}

// Emit appends one line at the current indent level.
func (c *Context) Emit(format string, args ...any) {
	line := format
	if len(args) > 0 {
		line = fmt.Sprintf(format, args...)
	}
	c.lines = append(c.lines, c.pad()+line)
}

// EmitBlank appends an empty line.
func (c *Context) EmitBlank() {
	c.lines = append(c.lines, "")
}

func (c *Context) pad() string {
	size := c.opts.IndentSize
	if size <= 0 {
		size = 4
	}
	return strings.Repeat(" ", size*c.indent)
}

// Indented runs fn with the indent level raised by one.
func (c *Context) Indented(fn func()) {
	c.indent++
	fn()
	c.indent--
}

// AddError appends a generation-time error diagnostic.
func (c *Context) AddError(code, nodeID, message string) {
	c.errors = append(c.errors, schema.Diagnostic{Code: code, NodeID: nodeID, Message: message})
}

// AddWarning appends a generation-time warning diagnostic.
func (c *Context) AddWarning(code, nodeID, message string) {
	c.warnings = append(c.warnings, schema.Diagnostic{Code: code, NodeID: nodeID, Message: message})
}

// RequireTuple flags that the generated file needs tuple/product-type support
// in its header. Set by the function synthesizer and by generators that inline
// a product-type expression; the composer never re-derives it from text.
func (c *Context) RequireTuple() {
	c.run.needsTuple = true
}

// Includes exposes the per-run include collector to template generators.
func (c *Context) Includes() *IncludeCollector {
	return c.run.includes
}

// Binding returns the binding for a logical variable ID, or nil when the
// variable has not been declared in this scope yet.
func (c *Context) Binding(varID string) *Binding {
	return c.vars[varID]
}

// Declare binds a logical variable to a fresh, unique code identifier.
func (c *Context) Declare(v *schema.Variable, ownerNodeID string) *Binding {
	b := &Binding{
		CodeName:     c.UniqueName(sanitizeIdentifier(v.Name)),
		OriginalName: v.Name,
		TargetType:   v.DataType,
		OwnerNodeID:  ownerNodeID,
	}
	c.vars[v.ID] = b
	return b
}

// UniqueName reserves an identifier in this scope, suffixing a counter when
// the base name is already taken.
func (c *Context) UniqueName(base string) string {
	if base == "" {
		base = "var"
	}
	n := c.names[base]
	c.names[base]++
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n+1)
}

// SetOutputExpr memoizes the expression that reads an output port, e.g. a
// loop index variable or a function call result field.
func (c *Context) SetOutputExpr(portID, expr string) {
	c.exprs[portID] = expr
}
