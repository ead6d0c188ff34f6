package codegen

// Built-in node type tags. Third-party packages contribute additional tags
// through the package-aware registry.
const (
	TypeStart     = "core.flow.start"
	TypeEnd       = "core.flow.end"
	TypeBranch    = "core.flow.branch"
	TypeSequence  = "core.flow.sequence"
	TypeForLoop   = "core.flow.for_loop"
	TypeWhileLoop = "core.flow.while_loop"
	TypeSwitch    = "core.flow.switch"

	TypePrint = "core.io.print"

	TypeSetVariable = "core.var.set"
	TypeGetVariable = "core.var.get"

	TypeLiteralString = "core.literal.string"
	TypeLiteralInt    = "core.literal.int"
	TypeLiteralFloat  = "core.literal.float"
	TypeLiteralBool   = "core.literal.bool"

	TypeMathAdd      = "core.math.add"
	TypeMathSubtract = "core.math.subtract"
	TypeMathMultiply = "core.math.multiply"
	TypeMathDivide   = "core.math.divide"
	TypeMathModulo   = "core.math.modulo"

	TypeLogicAnd = "core.logic.and"
	TypeLogicOr  = "core.logic.or"
	TypeLogicNot = "core.logic.not"

	TypeCompareEqual     = "core.compare.equal"
	TypeCompareNotEqual  = "core.compare.not_equal"
	TypeCompareLess      = "core.compare.less"
	TypeCompareLessEq    = "core.compare.less_equal"
	TypeCompareGreater   = "core.compare.greater"
	TypeCompareGreaterEq = "core.compare.greater_equal"

	TypeFunctionCall   = "core.function.call"
	TypeFunctionReturn = "core.function.return"

	TypeComment = "core.comment"
)

// builtinGenerators returns one generator per built-in node type.
func builtinGenerators() []NodeGenerator {
	gens := []NodeGenerator{
		&startGenerator{},
		&endGenerator{},
		&branchGenerator{},
		&sequenceGenerator{},
		&forLoopGenerator{},
		&whileLoopGenerator{},
		&switchGenerator{},
		&printGenerator{},
		&setVariableGenerator{},
		&getVariableGenerator{},
		&commentGenerator{},
		&functionCallGenerator{},
		&functionReturnGenerator{},
	}
	gens = append(gens, literalGenerators()...)
	gens = append(gens, operatorGenerators()...)
	return gens
}
