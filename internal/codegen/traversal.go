package codegen

import (
	"log/slog"

	"github.com/multicode/codegraph/pkg/schema"
)

// Walk runs the execution traversal starting at the given node. Revisiting a
// node stops the walk: graph cycles truncate emission silently instead of
// recursing forever (the visited set bounds recursion by the number of
// reachable nodes).
func (c *Context) Walk(node *schema.Node) {
	if node == nil {
		return
	}
	if c.visited[node.ID] {
		return
	}
	c.visited[node.ID] = true
	c.run.nodes++

	gen := c.reg.Get(node.Type)
	if gen == nil {
		c.AddError(schema.CodeUnknownNodeType, node.ID, "no generator registered for node type "+node.Type)
		return
	}

	start := c.Line() + 1

	if c.opts.IncludeComments && node.Label != "" && node.Label != gen.DefaultLabel() {
		c.Emit("// %s", node.Label)
	}
	if c.opts.IncludeSourceMarkers {
		c.Emit("// node:%s begin", node.ID)
	}

	gen.Emit(c, node)

	if c.opts.IncludeSourceMarkers {
		c.Emit("// node:%s end", node.ID)
	}

	end := c.Line()
	if end < start {
		end = start // node emitted nothing; point at the following line
	}
	c.srcMap = append(c.srcMap, schema.SourceMapEntry{NodeID: node.ID, StartLine: start, EndLine: end})

	c.log.Debug("node emitted",
		slog.String("node_id", node.ID),
		slog.String("type", node.Type),
		slog.Int("lines", end-start+1))

	if !gen.CustomExecution() {
		c.Walk(c.execSuccessor(node))
	}
}

// WalkPort recurses into the execution successor connected to the named
// output port. Used by generators with custom execution handling (branch,
// loops, sequence, switch); each successor shares this context's variable
// table and visited set.
func (c *Context) WalkPort(node *schema.Node, portName string) {
	port := node.Output(portName)
	if port == nil {
		return
	}
	edge := c.graph.ExecEdgeFrom(node.ID, port.ID)
	if edge == nil {
		return
	}
	c.Walk(c.graph.NodeByID(edge.TargetNode))
}

// HasSuccessor reports whether an execution edge leaves the named output port.
func (c *Context) HasSuccessor(node *schema.Node, portName string) bool {
	port := node.Output(portName)
	if port == nil {
		return false
	}
	return c.graph.ExecEdgeFrom(node.ID, port.ID) != nil
}

// execSuccessor finds the target of the node's single outgoing execution edge.
func (c *Context) execSuccessor(node *schema.Node) *schema.Node {
	for i := range node.Outputs {
		p := &node.Outputs[i]
		if p.DataType != schema.TypeExecution {
			continue
		}
		if edge := c.graph.ExecEdgeFrom(node.ID, p.ID); edge != nil {
			return c.graph.NodeByID(edge.TargetNode)
		}
	}
	return nil
}

// reportUnusedNodes warns about nodes never reached by the traversal.
// Purely-annotative comment nodes and pure expression nodes are exempt:
// unreachability detection is a byproduct of traversal, and pure nodes are
// never traversed by design.
func (c *Context) reportUnusedNodes() {
	for _, n := range c.graph.Nodes {
		if c.visited[n.ID] || n.Type == TypeComment {
			continue
		}
		if gen := c.reg.Get(n.Type); gen != nil && gen.Pure() {
			continue
		}
		c.AddWarning(schema.CodeUnusedNode, n.ID, "node is not connected to the execution flow and produces no code")
	}
}
