package codegen

import "github.com/multicode/codegraph/pkg/schema"

// ResolveInput produces the C++ expression feeding the named input port.
// Resolution order: the data edge terminating at the port (recursing into the
// source node's output expression), then the port's user-set value, then its
// declared default. Returns false when the port does not exist or nothing
// feeds it and no fallback value is declared.
func (c *Context) ResolveInput(node *schema.Node, portName string) (string, bool) {
	port := node.Input(portName)
	if port == nil {
		return "", false
	}

	if edge := c.graph.DataEdgeInto(node.ID, port.ID); edge != nil {
		source := c.graph.NodeByID(edge.SourceNode)
		if source != nil {
			return c.ResolveOutput(source, edge.SourcePort), true
		}
	}

	if port.Value != nil {
		return cppLiteral(port.Value, port.DataType), true
	}
	if port.DefaultValue != nil {
		return cppLiteral(port.DefaultValue, port.DataType), true
	}
	return "", false
}

// ResolveInputOr resolves an input port, falling back to the type's default
// expression when nothing feeds it.
func (c *Context) ResolveInputOr(node *schema.Node, portName string, fallback string) string {
	if expr, ok := c.ResolveInput(node, portName); ok {
		return expr
	}
	return fallback
}

// ResolveOutput produces the expression that reads an output port of the
// given node. Memoized per port so a value wired into several consumers is
// computed once; pure nodes (operators, literals, variable reads) inline an
// expression here without ever being visited by the traversal engine.
func (c *Context) ResolveOutput(node *schema.Node, portID string) string {
	if expr, ok := c.exprs[portID]; ok {
		return expr
	}

	port := node.Output(portID)

	var expr string
	switch gen := c.reg.Get(node.Type).(type) {
	case OutputResolver:
		if e, ok := gen.ResolveOutput(c, node, portID); ok {
			expr = e
		}
	}
	if expr == "" {
		// No resolver (or it declined): fall back to the port type's default,
		// e.g. data dragged off the entry node.
		t := schema.TypeAny
		if port != nil {
			t = port.DataType
		}
		expr = cppDefault(t)
	}

	c.exprs[portID] = expr
	return expr
}
