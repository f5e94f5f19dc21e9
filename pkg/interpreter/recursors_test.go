package interpreter

import (
	"testing"

	"peano/interpreter-go/pkg/ast"
	"peano/interpreter-go/pkg/runtime"
)

func TestFoldNatComputesAddition(t *testing.T) {
	interp := New()
	// add n m = foldNat(n, m, Succ): primitive recursion on n.
	expr := ast.Call("foldNat",
		ast.Nat(3),
		ast.Nat(4),
		ast.Lam([]string{"r"}, ast.Call("Succ", ast.ID("r"))),
	)
	if got := evalNat(t, interp, expr); got != 7 {
		t.Fatalf("foldNat addition gave %d, expected 7", got)
	}
}

func TestFoldNatNullaryHandlerMayBePlainValue(t *testing.T) {
	interp := New()
	expr := ast.Call("foldNat",
		ast.Nat(0),
		ast.Nat(9),
		ast.Lam([]string{"r"}, ast.ID("r")),
	)
	if got := evalNat(t, interp, expr); got != 9 {
		t.Fatalf("zero case should return the base value, got %d", got)
	}
}

func TestFoldSynthesizedForUserDatatype(t *testing.T) {
	interp := New()
	if err := interp.DefineDatatype(ast.Datatype("List", ast.Ctor("Nil"), ast.Ctor("Cons", "Nat", "List"))); err != nil {
		t.Fatalf("datatype definition failed: %v", err)
	}
	if _, ok := interp.GlobalEnvironment().Get("foldList"); !ok {
		t.Fatalf("declaring List must synthesize foldList")
	}
	// Sum a list with its fold: Cons handler adds head to folded tail.
	mustDefine(t, interp, addDef())
	list := ast.Call("Cons", ast.Nat(2), ast.Call("Cons", ast.Nat(5), ast.ID("Nil")))
	expr := ast.Call("foldList",
		list,
		ast.Call("Zero"),
		ast.Lam([]string{"head", "tailSum"}, ast.Call("add", ast.ID("head"), ast.ID("tailSum"))),
	)
	if got := evalNat(t, interp, expr); got != 7 {
		t.Fatalf("foldList sum gave %d, expected 7", got)
	}
}

func TestFoldRejectsForeignValue(t *testing.T) {
	interp := New()
	if err := interp.DefineDatatype(ast.Datatype("Bool", ast.Ctor("True"), ast.Ctor("False"))); err != nil {
		t.Fatalf("datatype definition failed: %v", err)
	}
	expr := ast.Call("foldBool", ast.Nat(1), ast.Nat(0), ast.Nat(0))
	if _, err := interp.Evaluate(expr, nil); err == nil {
		t.Fatalf("folding a Nat with foldBool must fail")
	}
}

func TestFoldArityIsChecked(t *testing.T) {
	interp := New()
	_, err := interp.Evaluate(ast.Call("foldNat", ast.Nat(1)), nil)
	if !IsKind(err, ErrArityMismatch) {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
}

func TestFoldDepthIsBudgeted(t *testing.T) {
	interp := New()
	interp.SetMaxDepth(8)
	expr := ast.Call("foldNat",
		ast.Nat(50),
		ast.Call("Zero"),
		ast.Lam([]string{"r"}, ast.ID("r")),
	)
	_, err := interp.Evaluate(expr, nil)
	if !IsKind(err, ErrStackExhausted) {
		t.Fatalf("expected StackExhausted, got %v", err)
	}
}

func TestFoldHandlersReceiveFoldedRecursivePositions(t *testing.T) {
	interp := New()
	// Depth of a binary tree via its fold.
	if err := interp.DefineDatatype(ast.Datatype("Tree", ast.Ctor("Leaf"), ast.Ctor("Node", "Tree", "Tree"))); err != nil {
		t.Fatalf("datatype definition failed: %v", err)
	}
	mustDefine(t, interp, addDef(), ast.Fn("max", []string{"a", "b"},
		ast.Match(ast.ID("a"),
			ast.Clause(ast.ZeroP(), ast.ID("b")),
			ast.Clause(ast.SuccP(ast.Bind("a'")),
				ast.Match(ast.ID("b"),
					ast.Clause(ast.ZeroP(), ast.Call("Succ", ast.ID("a'"))),
					ast.Clause(ast.SuccP(ast.Bind("b'")),
						ast.Call("Succ", ast.Call("max", ast.ID("a'"), ast.ID("b'")))),
				)),
		)))
	tree := ast.Call("Node", ast.Call("Node", ast.ID("Leaf"), ast.ID("Leaf")), ast.ID("Leaf"))
	expr := ast.Call("foldTree",
		tree,
		ast.Call("Zero"),
		ast.Lam([]string{"l", "r"}, ast.Call("Succ", ast.Call("max", ast.ID("l"), ast.ID("r")))),
	)
	if got := evalNat(t, interp, expr); got != 2 {
		t.Fatalf("tree depth gave %d, expected 2", got)
	}
}

func TestFoldValueIsNative(t *testing.T) {
	interp := New()
	val, ok := interp.GlobalEnvironment().Get("foldNat")
	if !ok {
		t.Fatalf("foldNat must exist in the global scope")
	}
	native, ok := val.(runtime.NativeFunctionValue)
	if !ok {
		t.Fatalf("expected native function, got %#v", val)
	}
	if native.Arity != 3 {
		t.Fatalf("foldNat arity = %d, expected 3", native.Arity)
	}
}
