package interpreter

import (
	"testing"

	"peano/interpreter-go/pkg/ast"
	"peano/interpreter-go/pkg/runtime"
)

// addDef is the canonical hand-rolled addition on Peano naturals,
// recursing on its first argument.
func addDef() *ast.FunctionDefinition {
	return ast.Fn("add", []string{"n", "m"},
		ast.Match(ast.ID("n"),
			ast.Clause(ast.ZeroP(), ast.ID("m")),
			ast.Clause(ast.SuccP(ast.Bind("k")),
				ast.Call("Succ", ast.Call("add", ast.ID("k"), ast.ID("m")))),
		))
}

// multDef defines multiplication by iterated addition, structurally
// recursive on its first argument.
func multDef() *ast.FunctionDefinition {
	return ast.Fn("mult", []string{"n", "m"},
		ast.Match(ast.ID("n"),
			ast.Clause(ast.ZeroP(), ast.Call("Zero")),
			ast.Clause(ast.SuccP(ast.Bind("k")),
				ast.Call("add", ast.ID("m"), ast.Call("mult", ast.ID("k"), ast.ID("m")))),
		))
}

func mustDefine(t *testing.T, interp *Interpreter, defs ...*ast.FunctionDefinition) {
	t.Helper()
	for _, def := range defs {
		if err := interp.DefineFunction(def); err != nil {
			t.Fatalf("define %s failed: %v", def.ID.Name, err)
		}
	}
}

func evalNat(t *testing.T, interp *Interpreter, expr ast.Expression) uint64 {
	t.Helper()
	val, err := interp.Evaluate(expr, nil)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	n, ok := runtime.AsNat(val)
	if !ok {
		t.Fatalf("expected a numeral, got %s", FormatValue(val))
	}
	return n
}
