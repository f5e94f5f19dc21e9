package interpreter

import (
	"testing"

	"peano/interpreter-go/pkg/ast"
	"peano/interpreter-go/pkg/runtime"
)

func TestEvaluateUnitLiteral(t *testing.T) {
	interp := New()
	val, err := interp.Evaluate(ast.Unit(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := val.(runtime.UnitValue); !ok {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateNumeralExpansion(t *testing.T) {
	interp := New()
	if got := evalNat(t, interp, ast.Nat(7)); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestEvaluateIdentifierLookup(t *testing.T) {
	interp := New()
	interp.GlobalEnvironment().Define("x", runtime.Nat(3))
	if got := evalNat(t, interp, ast.ID("x")); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestEvaluateUnboundVariable(t *testing.T) {
	interp := New()
	_, err := interp.Evaluate(ast.ID("ghost"), nil)
	if !IsKind(err, ErrUnboundVariable) {
		t.Fatalf("expected UnboundVariable, got %v", err)
	}
}

func TestNullaryConstructorReadsAsIdentifier(t *testing.T) {
	interp := New()
	val, err := interp.Evaluate(ast.ID("Zero"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := val.(runtime.ZeroValue); !ok {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestConstructorApplicationArity(t *testing.T) {
	interp := New()
	_, err := interp.Evaluate(ast.Call("Succ"), nil)
	if !IsKind(err, ErrArityMismatch) {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
	_, err = interp.Evaluate(ast.ID("Succ"), nil)
	if !IsKind(err, ErrArityMismatch) {
		t.Fatalf("expected ArityMismatch for bare Succ, got %v", err)
	}
}

func TestEvaluatePairExpression(t *testing.T) {
	interp := New()
	val, err := interp.Evaluate(ast.PairE(ast.Nat(1), ast.Unit()), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pair, ok := val.(*runtime.PairValue)
	if !ok {
		t.Fatalf("expected pair, got %#v", val)
	}
	if n, _ := runtime.AsNat(pair.First); n != 1 {
		t.Fatalf("unexpected first component: %s", FormatValue(pair.First))
	}
}

func TestAddThreeFour(t *testing.T) {
	interp := New()
	mustDefine(t, interp, addDef())
	got := evalNat(t, interp, ast.Call("add", ast.Nat(3), ast.Nat(4)))
	if got != 7 {
		t.Fatalf("add(3, 4) = %d, expected 7", got)
	}
}

func TestMultThreeFour(t *testing.T) {
	interp := New()
	mustDefine(t, interp, addDef(), multDef())
	got := evalNat(t, interp, ast.Call("mult", ast.Nat(3), ast.Nat(4)))
	if got != 12 {
		t.Fatalf("mult(3, 4) = %d, expected 12", got)
	}
}

func TestCallScopesAreDiscarded(t *testing.T) {
	interp := New()
	mustDefine(t, interp, addDef())
	if _, err := interp.Evaluate(ast.Call("add", ast.Nat(1), ast.Nat(1)), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := interp.GlobalEnvironment().Get("k"); ok {
		t.Fatalf("clause binding leaked into the global scope")
	}
}

func TestLambdaApplication(t *testing.T) {
	interp := New()
	lam := ast.Lam([]string{"x"}, ast.Call("Succ", ast.Call("Succ", ast.ID("x"))))
	val, err := interp.Evaluate(lam, nil)
	if err != nil {
		t.Fatalf("lambda evaluation failed: %v", err)
	}
	fn, ok := val.(*runtime.FunctionValue)
	if !ok {
		t.Fatalf("expected function value, got %#v", val)
	}
	result, err := interp.apply(fn, []runtime.Value{runtime.Nat(3)}, nil)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if n, _ := runtime.AsNat(result); n != 5 {
		t.Fatalf("expected 5, got %s", FormatValue(result))
	}
}

func TestFunctionArityMismatch(t *testing.T) {
	interp := New()
	mustDefine(t, interp, addDef())
	_, err := interp.Evaluate(ast.Call("add", ast.Nat(1)), nil)
	if !IsKind(err, ErrArityMismatch) {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
}

func TestStackExhaustedUnderSmallBudget(t *testing.T) {
	interp := New()
	interp.SetMaxDepth(8)
	mustDefine(t, interp, addDef())
	_, err := interp.Evaluate(ast.Call("add", ast.Nat(50), ast.Nat(0)), nil)
	if !IsKind(err, ErrStackExhausted) {
		t.Fatalf("expected StackExhausted, got %v", err)
	}
}

func TestEvaluateProgramYieldsResult(t *testing.T) {
	interp := New()
	prog := ast.Prog([]ast.Declaration{addDef()}, ast.Call("add", ast.Nat(2), ast.Nat(2)))
	val, err := interp.EvaluateProgram(prog)
	if err != nil {
		t.Fatalf("program evaluation failed: %v", err)
	}
	if n, _ := runtime.AsNat(val); n != 4 {
		t.Fatalf("expected 4, got %s", FormatValue(val))
	}
}

func TestEvaluateProgramWithoutResultYieldsUnit(t *testing.T) {
	interp := New()
	prog := ast.Prog([]ast.Declaration{addDef()}, nil)
	val, err := interp.EvaluateProgram(prog)
	if err != nil {
		t.Fatalf("program evaluation failed: %v", err)
	}
	if _, ok := val.(runtime.UnitValue); !ok {
		t.Fatalf("expected unit, got %#v", val)
	}
}

func TestMalformedDefinitionStopsProgram(t *testing.T) {
	interp := New()
	loop := ast.Fn("loop", []string{"n"}, ast.Call("loop", ast.ID("n")))
	prog := ast.Prog([]ast.Declaration{loop, addDef()}, ast.Call("add", ast.Nat(1), ast.Nat(1)))
	_, err := interp.EvaluateProgram(prog)
	if !IsKind(err, ErrMalformedDefinition) {
		t.Fatalf("expected MalformedDefinition, got %v", err)
	}
	if _, ok := interp.functions["add"]; ok {
		t.Fatalf("definitions after the malformed one must not be processed")
	}
}

func TestUserDatatypeDeclarationAndUse(t *testing.T) {
	interp := New()
	prog := ast.Prog([]ast.Declaration{
		ast.Datatype("List", ast.Ctor("Nil"), ast.Ctor("Cons", "Nat", "List")),
		ast.Fn("len", []string{"xs"},
			ast.Match(ast.ID("xs"),
				ast.Clause(ast.CtorP("Nil"), ast.Call("Zero")),
				ast.Clause(ast.CtorP("Cons", ast.Wc(), ast.Bind("rest")),
					ast.Call("Succ", ast.Call("len", ast.ID("rest")))),
			)),
	}, ast.Call("len", ast.Call("Cons", ast.Nat(5), ast.Call("Cons", ast.Nat(9), ast.ID("Nil")))))
	val, err := interp.EvaluateProgram(prog)
	if err != nil {
		t.Fatalf("program evaluation failed: %v", err)
	}
	if n, _ := runtime.AsNat(val); n != 2 {
		t.Fatalf("expected length 2, got %s", FormatValue(val))
	}
}

func TestDuplicateDatatypeRejected(t *testing.T) {
	interp := New()
	err := interp.DefineDatatype(ast.Datatype("Nat", ast.Ctor("O")))
	if !IsKind(err, ErrMalformedDefinition) {
		t.Fatalf("expected MalformedDefinition, got %v", err)
	}
}

func TestDuplicateConstructorRejected(t *testing.T) {
	interp := New()
	err := interp.DefineDatatype(ast.Datatype("Bit", ast.Ctor("Zero")))
	if !IsKind(err, ErrMalformedDefinition) {
		t.Fatalf("expected MalformedDefinition, got %v", err)
	}
}

func TestLoadLibraryQualifiesFunctions(t *testing.T) {
	interp := New()
	lib := ast.Prog([]ast.Declaration{
		ast.Fn("double", []string{"n"},
			ast.Match(ast.ID("n"),
				ast.Clause(ast.ZeroP(), ast.Call("Zero")),
				ast.Clause(ast.SuccP(ast.Bind("k")),
					ast.Call("Succ", ast.Call("Succ", ast.Call("double", ast.ID("k"))))),
			)),
	}, nil)
	if err := interp.LoadLibrary("math", lib); err != nil {
		t.Fatalf("library load failed: %v", err)
	}
	prog := ast.Prog(nil, ast.Call("math.double", ast.Nat(3)), ast.Import("math"))
	val, err := interp.EvaluateProgram(prog)
	if err != nil {
		t.Fatalf("program evaluation failed: %v", err)
	}
	if n, _ := runtime.AsNat(val); n != 6 {
		t.Fatalf("expected 6, got %s", FormatValue(val))
	}
}
