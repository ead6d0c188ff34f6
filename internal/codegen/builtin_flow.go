package codegen

import (
	"fmt"
	"sort"

	"github.com/multicode/codegraph/pkg/schema"
)

// startGenerator handles the entry node. It emits nothing; traversal simply
// continues into its single execution successor.
type startGenerator struct{ statementNode }

func (startGenerator) Type() string           { return TypeStart }
func (startGenerator) DefaultLabel() string   { return "Start" }
func (startGenerator) Emit(*Context, *schema.Node) {}

// endGenerator terminates the entry flow.
type endGenerator struct{ statementNode }

func (endGenerator) Type() string         { return TypeEnd }
func (endGenerator) DefaultLabel() string { return "End" }

func (endGenerator) Emit(ctx *Context, _ *schema.Node) {
	ctx.Emit("return 0;")
}

// branchGenerator emits an if/else over the condition input and recurses into
// both arms itself. Arms share the surrounding variable table and visited set:
// the whole event graph is one scope.
type branchGenerator struct{ flowNode }

func (branchGenerator) Type() string         { return TypeBranch }
func (branchGenerator) DefaultLabel() string { return "Branch" }

func (branchGenerator) Emit(ctx *Context, node *schema.Node) {
	cond := ctx.ResolveInputOr(node, "condition", "false")

	if !ctx.HasSuccessor(node, "true") && !ctx.HasSuccessor(node, "false") {
		ctx.AddWarning(schema.CodeEmptyBranch, node.ID, "branch has no connected execution outputs")
	}

	ctx.Emit("if (%s) {", cond)
	ctx.Indented(func() { ctx.WalkPort(node, "true") })
	ctx.Emit("} else {")
	ctx.Indented(func() { ctx.WalkPort(node, "false") })
	ctx.Emit("}")
}

// sequenceGenerator fires its execution outputs in port-name order.
type sequenceGenerator struct{ flowNode }

func (sequenceGenerator) Type() string         { return TypeSequence }
func (sequenceGenerator) DefaultLabel() string { return "Sequence" }

func (sequenceGenerator) Emit(ctx *Context, node *schema.Node) {
	var ports []string
	for i := range node.Outputs {
		if node.Outputs[i].DataType == schema.TypeExecution {
			ports = append(ports, node.Outputs[i].Name)
		}
	}
	sort.Strings(ports)
	for _, name := range ports {
		ctx.WalkPort(node, name)
	}
}

// forLoopGenerator emits a counted for loop. The loop index is published as
// the expression for the "index" output port before the body is walked, so
// body nodes wired to it read the loop variable.
type forLoopGenerator struct{ flowNode }

func (forLoopGenerator) Type() string         { return TypeForLoop }
func (forLoopGenerator) DefaultLabel() string { return "For Loop" }

func (forLoopGenerator) Emit(ctx *Context, node *schema.Node) {
	first := ctx.ResolveInputOr(node, "first_index", "0")
	last := ctx.ResolveInputOr(node, "last_index", "10")

	loopVar := ctx.UniqueName("i_" + sanitizeIdentifier(node.ID))
	if idx := node.Output("index"); idx != nil {
		ctx.SetOutputExpr(idx.ID, loopVar)
	}

	ctx.Emit("for (int %s = %s; %s < %s; ++%s) {", loopVar, first, loopVar, last, loopVar)
	ctx.Indented(func() { ctx.WalkPort(node, "loop_body") })
	ctx.Emit("}")
	ctx.WalkPort(node, "completed")
}

// whileLoopGenerator emits a while loop. Termination cannot be proven
// statically, so every while loop carries an INFINITE_LOOP warning.
type whileLoopGenerator struct{ flowNode }

func (whileLoopGenerator) Type() string         { return TypeWhileLoop }
func (whileLoopGenerator) DefaultLabel() string { return "While Loop" }

func (whileLoopGenerator) Emit(ctx *Context, node *schema.Node) {
	cond := ctx.ResolveInputOr(node, "condition", "false")

	ctx.AddWarning(schema.CodeInfiniteLoop, node.ID, "while loop termination cannot be verified")

	ctx.Emit("while (%s) {", cond)
	ctx.Indented(func() { ctx.WalkPort(node, "loop_body") })
	ctx.Emit("}")
	ctx.WalkPort(node, "completed")
}

// switchGenerator dispatches over an integer or string selector. Integers use
// a native switch; strings fall back to an if/else chain since C++ cannot
// switch over std::string.
type switchGenerator struct{ flowNode }

func (switchGenerator) Type() string         { return TypeSwitch }
func (switchGenerator) DefaultLabel() string { return "Switch" }

func (switchGenerator) Emit(ctx *Context, node *schema.Node) {
	value := ctx.ResolveInputOr(node, "value", "0")
	cases := switchCases(node)

	selector := node.Input("value")
	isString := selector != nil && selector.DataType == schema.TypeString

	if isString {
		emitStringSwitch(ctx, node, value, cases)
		ctx.WalkPort(node, "completed")
		return
	}

	ctx.Emit("switch (%s) {", value)
	for i, cs := range cases {
		ctx.Emit("case %s: {", cppLiteral(cs, schema.TypeInt))
		ctx.Indented(func() {
			ctx.WalkPort(node, fmt.Sprintf("case_%d", i))
			ctx.Emit("break;")
		})
		ctx.Emit("}")
	}
	ctx.Emit("default: {")
	ctx.Indented(func() {
		ctx.WalkPort(node, "default")
		ctx.Emit("break;")
	})
	ctx.Emit("}")
	ctx.Emit("}")
	ctx.WalkPort(node, "completed")
}

func emitStringSwitch(ctx *Context, node *schema.Node, value string, cases []any) {
	for i, cs := range cases {
		keyword := "} else if"
		if i == 0 {
			keyword = "if"
		}
		ctx.Emit("%s (%s == %s) {", keyword, value, cppLiteral(cs, schema.TypeString))
		ctx.Indented(func() { ctx.WalkPort(node, fmt.Sprintf("case_%d", i)) })
	}
	if len(cases) == 0 {
		ctx.Emit("if (false) {")
	}
	ctx.Emit("} else {")
	ctx.Indented(func() { ctx.WalkPort(node, "default") })
	ctx.Emit("}")
}

func switchCases(node *schema.Node) []any {
	raw, ok := node.Properties["cases"]
	if !ok {
		return nil
	}
	cases, ok := raw.([]any)
	if !ok {
		return nil
	}
	return cases
}

// commentGenerator handles purely-annotative comment nodes. They are never
// part of the execution flow; when one is wired in anyway it emits its text.
type commentGenerator struct{ statementNode }

func (commentGenerator) Type() string         { return TypeComment }
func (commentGenerator) DefaultLabel() string { return "Comment" }

func (commentGenerator) Emit(ctx *Context, node *schema.Node) {
	if node.Comment != "" {
		ctx.Emit("// %s", node.Comment)
	}
}
