package runtime

import (
	"fmt"

	"peano/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindZero Kind = iota
	KindSucc
	KindPair
	KindUnit
	KindConstructor
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindZero:
		return "zero"
	case KindSucc:
		return "succ"
	case KindPair:
		return "pair"
	case KindUnit:
		return "unit"
	case KindConstructor:
		return "constructor"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Inductive values
//-----------------------------------------------------------------------------

// ZeroValue is the Peano zero.
type ZeroValue struct{}

func (ZeroValue) Kind() Kind { return KindZero }

// SuccValue wraps its predecessor; naturals are unary and unbounded.
type SuccValue struct {
	Pred Value
}

func (v *SuccValue) Kind() Kind { return KindSucc }

type PairValue struct {
	First  Value
	Second Value
}

func (v *PairValue) Kind() Kind { return KindPair }

type UnitValue struct{}

func (UnitValue) Kind() Kind { return KindUnit }

// ConstructorValue is an instance of a user-declared variant.
type ConstructorValue struct {
	Name   string
	Fields []Value
}

func (v *ConstructorValue) Kind() Kind { return KindConstructor }

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue closes a FunctionDefinition or LambdaExpression over the
// environment it was defined in.
type FunctionValue struct {
	Declaration ast.Node
	Closure     *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Name returns the declared name, or "" for lambdas.
func (v *FunctionValue) Name() string {
	if def, ok := v.Declaration.(*ast.FunctionDefinition); ok && def.ID != nil {
		return def.ID.Name
	}
	return ""
}

// Params returns the parameter list of the underlying declaration.
func (v *FunctionValue) Params() []*ast.Identifier {
	switch decl := v.Declaration.(type) {
	case *ast.FunctionDefinition:
		return decl.Params
	case *ast.LambdaExpression:
		return decl.Params
	default:
		return nil
	}
}

// Body returns the body expression of the underlying declaration.
func (v *FunctionValue) Body() ast.Expression {
	switch decl := v.Declaration.(type) {
	case *ast.FunctionDefinition:
		return decl.Body
	case *ast.LambdaExpression:
		return decl.Body
	default:
		return nil
	}
}

type NativeFunc func(args []Value) (Value, error)

// NativeFunctionValue backs synthesized recursors (foldNat and friends).
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Tag helpers
//-----------------------------------------------------------------------------

// Tag reports the constructor name and ordered fields of an inductive
// value. Function values have no tag.
func Tag(v Value) (string, []Value, bool) {
	switch val := v.(type) {
	case ZeroValue:
		return "Zero", nil, true
	case *SuccValue:
		return "Succ", []Value{val.Pred}, true
	case *PairValue:
		return "Pair", []Value{val.First, val.Second}, true
	case UnitValue:
		return "Unit", nil, true
	case *ConstructorValue:
		return val.Name, val.Fields, true
	default:
		return "", nil, false
	}
}

// Nat builds the unary value for n.
func Nat(n uint64) Value {
	var v Value = ZeroValue{}
	for ; n > 0; n-- {
		v = &SuccValue{Pred: v}
	}
	return v
}

// AsNat reports the decimal magnitude of a pure Zero/Succ chain.
func AsNat(v Value) (uint64, bool) {
	var n uint64
	for {
		switch val := v.(type) {
		case ZeroValue:
			return n, true
		case *SuccValue:
			n++
			v = val.Pred
		default:
			return 0, false
		}
	}
}

// StructurallyEqual compares two inductive values by tag and fields.
// Function values are never structurally equal.
func StructurallyEqual(a, b Value) bool {
	tagA, fieldsA, okA := Tag(a)
	tagB, fieldsB, okB := Tag(b)
	if !okA || !okB || tagA != tagB || len(fieldsA) != len(fieldsB) {
		return false
	}
	for i := range fieldsA {
		if !StructurallyEqual(fieldsA[i], fieldsB[i]) {
			return false
		}
	}
	return true
}
