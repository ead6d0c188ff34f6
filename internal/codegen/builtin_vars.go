package codegen

import (
	"github.com/multicode/codegraph/pkg/schema"
)

// setVariableGenerator assigns a value to a graph variable. The binding table
// is keyed by the variable's stable ID, never its display name: the first
// assignment in a scope emits a typed declaration, later ones a bare
// assignment.
type setVariableGenerator struct{ statementNode }

func (setVariableGenerator) Type() string         { return TypeSetVariable }
func (setVariableGenerator) DefaultLabel() string { return "Set Variable" }

func (setVariableGenerator) Emit(ctx *Context, node *schema.Node) {
	varID, _ := node.Properties["variable"].(string)
	v := ctx.graphVariable(varID)
	if v == nil {
		ctx.AddError(schema.CodeUnknownNodeType, node.ID, "set-variable node references unknown variable "+varID)
		return
	}

	value := ctx.ResolveInputOr(node, "value", cppDefault(v.DataType))

	if b := ctx.Binding(varID); b != nil {
		ctx.Emit("%s = %s;", b.CodeName, value)
		return
	}
	b := ctx.Declare(v, node.ID)
	ctx.Emit("%s %s = %s;", cppType(b.TargetType), b.CodeName, value)
}

// getVariableGenerator is pure: reading a variable inlines its code name.
// Reading a variable that no set-node has declared yet warns and falls back
// to the type's default so downstream expressions stay well-formed.
type getVariableGenerator struct{ pureNode }

func (getVariableGenerator) Type() string         { return TypeGetVariable }
func (getVariableGenerator) DefaultLabel() string { return "Get Variable" }

func (getVariableGenerator) ResolveOutput(ctx *Context, node *schema.Node, _ string) (string, bool) {
	varID, _ := node.Properties["variable"].(string)
	v := ctx.graphVariable(varID)
	if v == nil {
		return "", false
	}
	if b := ctx.Binding(varID); b != nil {
		return b.CodeName, true
	}
	ctx.AddWarning(schema.CodeUninitializedVariable, node.ID,
		"variable \""+v.Name+"\" is read before any assignment")
	return cppDefault(v.DataType), true
}

// graphVariable looks a variable up by stable ID, falling back to the
// top-level graph so function bodies can read globals.
func (c *Context) graphVariable(id string) *schema.Variable {
	if v := c.graph.VariableByID(id); v != nil {
		return v
	}
	if c.run.root != nil && c.run.root != c.graph {
		return c.run.root.VariableByID(id)
	}
	return nil
}
