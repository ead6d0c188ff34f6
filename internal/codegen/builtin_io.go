package codegen

import "github.com/multicode/codegraph/pkg/schema"

// printGenerator writes the "value" input to standard output.
type printGenerator struct{ statementNode }

func (printGenerator) Type() string         { return TypePrint }
func (printGenerator) DefaultLabel() string { return "Print" }

func (printGenerator) Emit(ctx *Context, node *schema.Node) {
	value := ctx.ResolveInputOr(node, "value", cppDefault(schema.TypeString))
	ctx.Emit("std::cout << %s << std::endl;", value)
}
