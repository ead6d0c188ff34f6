package codegen

import "github.com/multicode/codegraph/pkg/schema"

// NodeGenerator emits code for one node kind. Implementations are stateless;
// all per-run state lives in the Context.
type NodeGenerator interface {
	// Type returns the node type tag this generator handles.
	Type() string
	// DefaultLabel is the type's stock display label; the traversal engine
	// emits a label comment only when a node's custom label differs from it.
	DefaultLabel() string
	// Pure reports whether nodes of this kind carry no execution ports.
	// Pure nodes contribute inline expressions, are never visited by the
	// traversal engine and are exempt from unused-node warnings.
	Pure() bool
	// CustomExecution reports whether Emit recurses into successors itself.
	// Branching and looping generators return true and call Context.WalkPort
	// once per successor port; all others let the engine follow the single
	// outgoing execution edge.
	CustomExecution() bool
	// Emit appends this node's statements to the context.
	Emit(ctx *Context, node *schema.Node)
}

// OutputResolver is implemented by generators whose nodes can be read through
// data edges. The returned expression is inlined at the consumer.
type OutputResolver interface {
	ResolveOutput(ctx *Context, node *schema.Node, portID string) (string, bool)
}

// statementNode is embedded by generators of plain sequential statements.
type statementNode struct{}

func (statementNode) Pure() bool            { return false }
func (statementNode) CustomExecution() bool { return false }

// pureNode is embedded by generators of expression-only nodes.
type pureNode struct{}

func (pureNode) Pure() bool            { return true }
func (pureNode) CustomExecution() bool { return false }

// Emit on a pure node is a no-op: pure nodes are only ever reached through
// expression resolution, never through execution traversal.
func (pureNode) Emit(*Context, *schema.Node) {}

// flowNode is embedded by generators that drive their own successor walks.
type flowNode struct{}

func (flowNode) Pure() bool            { return false }
func (flowNode) CustomExecution() bool { return true }
