package codegen

import (
	"strings"

	"github.com/multicode/codegraph/pkg/schema"
)

// functionCallGenerator invokes a user-defined function. Arguments are
// resolved per input parameter in declaration order; results are captured in
// a local so output ports can be read by later nodes.
type functionCallGenerator struct{ statementNode }

func (functionCallGenerator) Type() string         { return TypeFunctionCall }
func (functionCallGenerator) DefaultLabel() string { return "Call Function" }

func (functionCallGenerator) Emit(ctx *Context, node *schema.Node) {
	fnID, _ := node.Properties["function"].(string)
	fn := ctx.run.root.FunctionByID(fnID)
	if fn == nil {
		ctx.AddError(schema.CodeUnknownNodeType, node.ID, "call node references unknown function "+fnID)
		return
	}

	var args []string
	for _, p := range fn.Inputs() {
		args = append(args, ctx.ResolveInputOr(node, p.Name, cppDefault(p.DataType)))
	}
	call := functionName(fn) + "(" + strings.Join(args, ", ") + ")"

	outputs := fn.Outputs()
	switch len(outputs) {
	case 0:
		ctx.Emit("%s;", call)
	case 1:
		result := ctx.UniqueName(functionName(fn) + "_result")
		ctx.Emit("%s %s = %s;", cppType(outputs[0].DataType), result, call)
		bindCallOutputs(ctx, node, outputs, result, false)
	default:
		ctx.RequireTuple()
		result := ctx.UniqueName(functionName(fn) + "_result")
		ctx.Emit("%s %s = %s;", resultTypeName(fn), result, call)
		bindCallOutputs(ctx, node, outputs, result, true)
	}
}

// bindCallOutputs publishes expressions for the call node's data output ports.
// Output ports are matched to output parameters by name.
func bindCallOutputs(ctx *Context, node *schema.Node, outputs []schema.Parameter, result string, byField bool) {
	for _, p := range outputs {
		port := node.Output(p.Name)
		if port == nil {
			continue
		}
		if byField {
			ctx.SetOutputExpr(port.ID, result+"."+sanitizeIdentifier(p.Name))
		} else {
			ctx.SetOutputExpr(port.ID, result)
		}
	}
}

// functionReturnGenerator terminates a function body. Its input ports mirror
// the function's output parameters.
type functionReturnGenerator struct{ flowNode }

func (functionReturnGenerator) Type() string         { return TypeFunctionReturn }
func (functionReturnGenerator) DefaultLabel() string { return "Return" }

func (functionReturnGenerator) Emit(ctx *Context, node *schema.Node) {
	if ctx.fn == nil {
		ctx.Emit("return 0;") // return node misplaced in the event graph
		return
	}

	outputs := ctx.fn.Outputs()
	switch len(outputs) {
	case 0:
		ctx.Emit("return;")
	case 1:
		expr := ctx.ResolveInputOr(node, outputs[0].Name, defaultForParam(outputs[0]))
		ctx.Emit("return %s;", expr)
	default:
		ctx.RequireTuple()
		fields := make([]string, len(outputs))
		for i, p := range outputs {
			fields[i] = ctx.ResolveInputOr(node, p.Name, defaultForParam(p))
		}
		ctx.Emit("return %s{%s};", resultTypeName(ctx.fn), strings.Join(fields, ", "))
	}
}

func defaultForParam(p schema.Parameter) string {
	if p.DefaultValue != nil {
		return cppLiteral(p.DefaultValue, p.DataType)
	}
	return cppDefault(p.DataType)
}

// functionName is the sanitized identifier a user-defined function compiles to.
func functionName(fn *schema.Function) string {
	return sanitizeIdentifier(fn.Name)
}

// resultTypeName is the synthesized product type for a multi-output function.
func resultTypeName(fn *schema.Function) string {
	return pascalCase(fn.Name) + "Result"
}
