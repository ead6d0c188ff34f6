package codegen

import "github.com/multicode/codegraph/pkg/schema"

// literalGenerator inlines a constant from the node's "value" property.
type literalGenerator struct {
	pureNode
	typeTag  string
	label    string
	dataType schema.DataType
}

func (g *literalGenerator) Type() string         { return g.typeTag }
func (g *literalGenerator) DefaultLabel() string { return g.label }

func (g *literalGenerator) ResolveOutput(_ *Context, node *schema.Node, _ string) (string, bool) {
	v, ok := node.Properties["value"]
	if !ok {
		return cppDefault(g.dataType), true
	}
	return cppLiteral(v, g.dataType), true
}

func literalGenerators() []NodeGenerator {
	return []NodeGenerator{
		&literalGenerator{typeTag: TypeLiteralString, label: "String", dataType: schema.TypeString},
		&literalGenerator{typeTag: TypeLiteralInt, label: "Integer", dataType: schema.TypeInt},
		&literalGenerator{typeTag: TypeLiteralFloat, label: "Float", dataType: schema.TypeFloat},
		&literalGenerator{typeTag: TypeLiteralBool, label: "Boolean", dataType: schema.TypeBool},
	}
}

// binaryOpGenerator inlines a parenthesized binary-operator expression over
// the "a" and "b" inputs.
type binaryOpGenerator struct {
	pureNode
	typeTag  string
	label    string
	operator string
	operandT schema.DataType
}

func (g *binaryOpGenerator) Type() string         { return g.typeTag }
func (g *binaryOpGenerator) DefaultLabel() string { return g.label }

func (g *binaryOpGenerator) ResolveOutput(ctx *Context, node *schema.Node, _ string) (string, bool) {
	a := ctx.ResolveInputOr(node, "a", cppDefault(g.operandT))
	b := ctx.ResolveInputOr(node, "b", cppDefault(g.operandT))
	return "(" + a + " " + g.operator + " " + b + ")", true
}

// unaryOpGenerator inlines a prefix-operator expression over the "a" input.
type unaryOpGenerator struct {
	pureNode
	typeTag  string
	label    string
	operator string
	operandT schema.DataType
}

func (g *unaryOpGenerator) Type() string         { return g.typeTag }
func (g *unaryOpGenerator) DefaultLabel() string { return g.label }

func (g *unaryOpGenerator) ResolveOutput(ctx *Context, node *schema.Node, _ string) (string, bool) {
	a := ctx.ResolveInputOr(node, "a", cppDefault(g.operandT))
	return "(" + g.operator + a + ")", true
}

func operatorGenerators() []NodeGenerator {
	num := schema.TypeInt
	boolean := schema.TypeBool
	return []NodeGenerator{
		&binaryOpGenerator{typeTag: TypeMathAdd, label: "Add", operator: "+", operandT: num},
		&binaryOpGenerator{typeTag: TypeMathSubtract, label: "Subtract", operator: "-", operandT: num},
		&binaryOpGenerator{typeTag: TypeMathMultiply, label: "Multiply", operator: "*", operandT: num},
		&binaryOpGenerator{typeTag: TypeMathDivide, label: "Divide", operator: "/", operandT: num},
		&binaryOpGenerator{typeTag: TypeMathModulo, label: "Modulo", operator: "%", operandT: num},

		&binaryOpGenerator{typeTag: TypeLogicAnd, label: "And", operator: "&&", operandT: boolean},
		&binaryOpGenerator{typeTag: TypeLogicOr, label: "Or", operator: "||", operandT: boolean},
		&unaryOpGenerator{typeTag: TypeLogicNot, label: "Not", operator: "!", operandT: boolean},

		&binaryOpGenerator{typeTag: TypeCompareEqual, label: "Equal", operator: "==", operandT: num},
		&binaryOpGenerator{typeTag: TypeCompareNotEqual, label: "Not Equal", operator: "!=", operandT: num},
		&binaryOpGenerator{typeTag: TypeCompareLess, label: "Less", operator: "<", operandT: num},
		&binaryOpGenerator{typeTag: TypeCompareLessEq, label: "Less or Equal", operator: "<=", operandT: num},
		&binaryOpGenerator{typeTag: TypeCompareGreater, label: "Greater", operator: ">", operandT: num},
		&binaryOpGenerator{typeTag: TypeCompareGreaterEq, label: "Greater or Equal", operator: ">=", operandT: num},
	}
}
