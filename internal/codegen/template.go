package codegen

import (
	"strings"

	"github.com/multicode/codegraph/internal/packages"
	"github.com/multicode/codegraph/pkg/schema"
)

// templateGenerator drives nodes supplied by third-party packages. The
// definition carries a per-language code template with {{input.<portName>}}
// placeholders, resolved through the expression resolver, plus the includes
// the emitted code needs, fed into the per-run collector.
type templateGenerator struct {
	statementNode
	typeTag string
	def     *packages.NodeDefinition
}

func newTemplateGenerator(typeTag string, def *packages.NodeDefinition) *templateGenerator {
	return &templateGenerator{typeTag: typeTag, def: def}
}

func (g *templateGenerator) Type() string { return g.typeTag }

func (g *templateGenerator) DefaultLabel() string {
	if g.def.Label != "" {
		return g.def.Label
	}
	return g.typeTag
}

func (g *templateGenerator) Emit(ctx *Context, node *schema.Node) {
	tpl, ok := g.def.Template("cpp")
	if !ok {
		ctx.AddError(schema.CodeUnknownNodeType, node.ID,
			"package definition for "+g.typeTag+" has no cpp template")
		return
	}

	for _, inc := range g.def.IncludesFor("cpp") {
		ctx.Includes().Add(inc)
	}

	rendered := renderTemplate(ctx, node, tpl)
	for _, line := range strings.Split(rendered, "\n") {
		if line == "" {
			ctx.EmitBlank()
			continue
		}
		ctx.Emit("%s", line)
	}
}

// renderTemplate substitutes {{input.<portName>}} placeholders. Unresolvable
// placeholders are replaced with a comment so the surrounding code stays
// scannable instead of silently disappearing.
func renderTemplate(ctx *Context, node *schema.Node, tpl string) string {
	var out strings.Builder
	out.Grow(len(tpl))

	i := 0
	for i < len(tpl) {
		open := strings.Index(tpl[i:], "{{")
		if open == -1 {
			out.WriteString(tpl[i:])
			break
		}
		out.WriteString(tpl[i : i+open])

		start := i + open + 2
		close := strings.Index(tpl[start:], "}}")
		if close == -1 {
			// Unterminated placeholder: keep the rest verbatim.
			out.WriteString(tpl[i+open:])
			break
		}
		close += start

		ref := strings.TrimSpace(tpl[start:close])
		out.WriteString(resolvePlaceholder(ctx, node, ref))
		i = close + 2
	}
	return out.String()
}

func resolvePlaceholder(ctx *Context, node *schema.Node, ref string) string {
	name, ok := strings.CutPrefix(ref, "input.")
	if !ok || name == "" {
		return "/* unknown placeholder: " + ref + " */"
	}
	if expr, found := ctx.ResolveInput(node, name); found {
		return expr
	}
	if port := node.Input(name); port != nil {
		return cppDefault(port.DataType)
	}
	return "/* missing input: " + name + " */"
}
