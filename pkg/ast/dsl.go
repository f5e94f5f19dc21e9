package ast

// Compact builders used throughout the tests and by the numeral desugarer.

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Unit() *UnitLiteral {
	return NewUnitLiteral()
}

func PairE(first, second Expression) *PairExpression {
	return NewPairExpression(first, second)
}

// Nat builds the unary expansion of n: Succ(Succ(...Zero)). Numeric
// literals in source desugar through this at parse time.
func Nat(n uint64) Expression {
	var expr Expression = Call("Zero")
	for ; n > 0; n-- {
		expr = Call("Succ", expr)
	}
	return expr
}

func Call(name string, args ...Expression) *CallExpression {
	return NewCallExpression(ID(name), args)
}

func Lam(params []string, body Expression) *LambdaExpression {
	ids := make([]*Identifier, 0, len(params))
	for _, p := range params {
		ids = append(ids, ID(p))
	}
	return NewLambdaExpression(ids, body)
}

// Match helpers.

func Clause(pattern Pattern, body Expression) *MatchClause {
	return NewMatchClause(pattern, body)
}

func Match(subject Expression, clauses ...*MatchClause) *MatchExpression {
	return NewMatchExpression(subject, clauses)
}

// Pattern helpers.

func Wc() *WildcardPattern {
	return NewWildcardPattern()
}

func Bind(name string) *Identifier {
	return NewIdentifier(name)
}

func CtorP(name string, fields ...Pattern) *ConstructorPattern {
	return NewConstructorPattern(ID(name), fields)
}

func ZeroP() *ConstructorPattern {
	return CtorP("Zero")
}

func SuccP(field Pattern) *ConstructorPattern {
	return CtorP("Succ", field)
}

func PairP(first, second Pattern) *ConstructorPattern {
	return CtorP("Pair", first, second)
}

// Declaration helpers.

func Ctor(name string, fieldTypes ...string) *ConstructorSpec {
	fields := make([]*Identifier, 0, len(fieldTypes))
	for _, f := range fieldTypes {
		fields = append(fields, ID(f))
	}
	return NewConstructorSpec(ID(name), fields)
}

func Datatype(name string, constructors ...*ConstructorSpec) *DatatypeDefinition {
	return NewDatatypeDefinition(ID(name), constructors)
}

// Fn declares a function recursing on its first parameter.
func Fn(name string, params []string, body Expression) *FunctionDefinition {
	return FnDec(name, params, 0, body)
}

// FnDec declares a function with an explicit decreasing parameter position.
func FnDec(name string, params []string, decreasing int, body Expression) *FunctionDefinition {
	ids := make([]*Identifier, 0, len(params))
	for _, p := range params {
		ids = append(ids, ID(p))
	}
	return NewFunctionDefinition(ID(name), ids, decreasing, body)
}

func Import(name string) *ImportDeclaration {
	return NewImportDeclaration(ID(name))
}

func Prog(decls []Declaration, result Expression, imports ...*ImportDeclaration) *Program {
	return NewProgram(imports, decls, result)
}
