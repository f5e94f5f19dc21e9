package interpreter

import (
	"fmt"

	"peano/interpreter-go/pkg/ast"
	"peano/interpreter-go/pkg/runtime"
)

// DefaultMaxDepth bounds the evaluator's call depth. Unary arithmetic is
// recursion-heavy, so the budget is generous; runaway (but syntactically
// accepted) recursion surfaces as ErrStackExhausted instead of taking the
// host stack down.
const DefaultMaxDepth = 10000

type datatypeInfo struct {
	name         string
	constructors []*ast.ConstructorSpec
}

type constructorInfo struct {
	datatype string
	spec     *ast.ConstructorSpec
}

// Interpreter evaluates programs of the structural-recursion language.
// The definition tables are populated before any evaluation begins and are
// read-only afterwards; evaluation itself is a strict, eager, single-
// threaded recursive descent.
type Interpreter struct {
	global       *runtime.Environment
	datatypes    map[string]*datatypeInfo
	constructors map[string]constructorInfo
	functions    map[string]*runtime.FunctionValue

	maxDepth int
	depth    int
	frames   []string
}

// New returns an interpreter with the builtin datatypes (Nat, Pair, Unit)
// declared and their folds synthesized.
func New() *Interpreter {
	i := &Interpreter{
		global:       runtime.NewEnvironment(nil),
		datatypes:    make(map[string]*datatypeInfo),
		constructors: make(map[string]constructorInfo),
		functions:    make(map[string]*runtime.FunctionValue),
		maxDepth:     DefaultMaxDepth,
	}
	for _, builtin := range []*ast.DatatypeDefinition{
		ast.Datatype("Nat", ast.Ctor("Zero"), ast.Ctor("Succ", "Nat")),
		ast.Datatype("Pair", ast.Ctor("Pair", "_", "_")),
		ast.Datatype("Unit", ast.Ctor("Unit")),
	} {
		if err := i.DefineDatatype(builtin); err != nil {
			panic(fmt.Sprintf("builtin datatype %s: %v", builtin.ID.Name, err))
		}
	}
	return i
}

// SetMaxDepth overrides the call-depth budget (tests use small budgets to
// provoke ErrStackExhausted cheaply).
func (i *Interpreter) SetMaxDepth(depth int) {
	i.maxDepth = depth
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

//-----------------------------------------------------------------------------
// Definition phase
//-----------------------------------------------------------------------------

// DefineDatatype registers a tagged-variant declaration and synthesizes its
// fold combinator into the global environment.
func (i *Interpreter) DefineDatatype(def *ast.DatatypeDefinition) error {
	name := def.ID.Name
	if _, exists := i.datatypes[name]; exists {
		return newError(ErrMalformedDefinition, name, "datatype %s is already declared", name)
	}
	if len(def.Constructors) == 0 {
		return newError(ErrMalformedDefinition, name, "datatype %s declares no constructors", name)
	}
	info := &datatypeInfo{name: name, constructors: def.Constructors}
	for _, spec := range def.Constructors {
		ctorName := spec.Name.Name
		if _, exists := i.constructors[ctorName]; exists {
			return newError(ErrMalformedDefinition, name, "constructor %s is already declared", ctorName)
		}
		i.constructors[ctorName] = constructorInfo{datatype: name, spec: spec}
	}
	i.datatypes[name] = info
	fold := i.synthesizeFold(info)
	i.global.Define(fold.Name, fold)
	return nil
}

// DefineFunction runs the structural-descent check and, on success, binds
// the function in the global environment. A failed check is fatal for the
// whole program: nothing after it is evaluated.
func (i *Interpreter) DefineFunction(def *ast.FunctionDefinition) error {
	name := def.ID.Name
	if _, exists := i.functions[name]; exists {
		return newError(ErrMalformedDefinition, name, "function %s is already defined", name)
	}
	if err := i.checkStructuralDescent(def); err != nil {
		return err
	}
	fn := &runtime.FunctionValue{Declaration: def, Closure: i.global}
	i.functions[name] = fn
	i.global.Define(name, fn)
	return nil
}

// EvaluateProgram processes declarations in order, resolves names, and
// evaluates the result expression. Library programs (no result) yield Unit.
func (i *Interpreter) EvaluateProgram(prog *ast.Program) (runtime.Value, error) {
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.DatatypeDefinition:
			if err := i.DefineDatatype(d); err != nil {
				return nil, err
			}
		case *ast.FunctionDefinition:
			if err := i.DefineFunction(d); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported declaration type: %s", decl.NodeType())
		}
	}
	if err := i.Resolve(prog); err != nil {
		return nil, err
	}
	if prog.Result == nil {
		return runtime.UnitValue{}, nil
	}
	return i.Evaluate(prog.Result, nil)
}

// CheckProgram runs the definition phase and the resolve pass without
// evaluating the result expression. `peano check` uses this to vet
// definitions cheaply.
func (i *Interpreter) CheckProgram(prog *ast.Program) error {
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.DatatypeDefinition:
			if err := i.DefineDatatype(d); err != nil {
				return err
			}
		case *ast.FunctionDefinition:
			if err := i.DefineFunction(d); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported declaration type: %s", decl.NodeType())
		}
	}
	return i.Resolve(prog)
}

// LoadLibrary registers a library program's functions under qualified
// names ("math.double"). Unqualified names stay visible only inside the
// library's own scope, so sibling libraries cannot collide; datatypes keep
// their unqualified names since constructor tags are global.
func (i *Interpreter) LoadLibrary(name string, prog *ast.Program) error {
	libEnv := i.global.Extend()
	locals := make(map[string]bool)
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.DatatypeDefinition:
			if err := i.DefineDatatype(d); err != nil {
				return err
			}
		case *ast.FunctionDefinition:
			qualified := name + "." + d.ID.Name
			if _, exists := i.functions[qualified]; exists {
				return newError(ErrMalformedDefinition, qualified, "function %s is already defined", qualified)
			}
			if err := i.checkStructuralDescent(d); err != nil {
				return err
			}
			fn := &runtime.FunctionValue{Declaration: d, Closure: libEnv}
			libEnv.Define(d.ID.Name, fn)
			locals[d.ID.Name] = true
			i.functions[qualified] = fn
			i.global.Define(qualified, fn)
		default:
			return fmt.Errorf("unsupported declaration type in library %s: %s", name, decl.NodeType())
		}
	}
	return i.resolveProgram(prog, locals)
}

//-----------------------------------------------------------------------------
// Evaluation
//-----------------------------------------------------------------------------

// Evaluate reduces an expression to a value. A nil environment means the
// global scope.
func (i *Interpreter) Evaluate(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	if env == nil {
		env = i.global
	}
	return i.evaluateExpression(expr, env)
}

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.UnitLiteral:
		return runtime.UnitValue{}, nil
	case *ast.Identifier:
		if val, ok := env.Get(n.Name); ok {
			return val, nil
		}
		// Nullary constructors read as bare identifiers: Zero, Nil, Unit.
		if ctor, ok := i.constructors[n.Name]; ok {
			if len(ctor.spec.Fields) != 0 {
				return nil, newError(ErrArityMismatch, where(n, i.currentFrame()),
					"constructor %s expects %d arguments, got 0", n.Name, len(ctor.spec.Fields))
			}
			return i.buildConstructor(n.Name, nil), nil
		}
		return nil, newError(ErrUnboundVariable, where(n, i.currentFrame()), "undefined variable '%s'", n.Name)
	case *ast.PairExpression:
		first, err := i.evaluateExpression(n.First, env)
		if err != nil {
			return nil, err
		}
		second, err := i.evaluateExpression(n.Second, env)
		if err != nil {
			return nil, err
		}
		return &runtime.PairValue{First: first, Second: second}, nil
	case *ast.LambdaExpression:
		return &runtime.FunctionValue{Declaration: n, Closure: env}, nil
	case *ast.MatchExpression:
		return i.evaluateMatch(n, env)
	case *ast.CallExpression:
		return i.evaluateCall(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateMatch(expr *ast.MatchExpression, env *runtime.Environment) (runtime.Value, error) {
	subject, err := i.evaluateExpression(expr.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, clause := range expr.Clauses {
		clauseEnv, matched, err := i.matchPattern(clause.Pattern, subject, env)
		if err != nil {
			return nil, err
		}
		if matched {
			return i.evaluateExpression(clause.Body, clauseEnv)
		}
	}
	tag, _, ok := runtime.Tag(subject)
	if !ok {
		tag = subject.Kind().String()
	}
	return nil, newError(ErrNonExhaustiveMatch, where(expr, i.currentFrame()),
		"no clause matches %s", tag)
}

func (i *Interpreter) evaluateCall(call *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	name := call.Callee.Name
	if ctor, ok := i.constructors[name]; ok {
		if len(call.Args) != len(ctor.spec.Fields) {
			return nil, newError(ErrArityMismatch, where(call, i.currentFrame()),
				"constructor %s expects %d arguments, got %d", name, len(ctor.spec.Fields), len(call.Args))
		}
		fields := make([]runtime.Value, 0, len(call.Args))
		for _, arg := range call.Args {
			val, err := i.evaluateExpression(arg, env)
			if err != nil {
				return nil, err
			}
			fields = append(fields, val)
		}
		return i.buildConstructor(name, fields), nil
	}

	callee, ok := env.Get(name)
	if !ok {
		return nil, newError(ErrUnboundVariable, where(call, i.currentFrame()), "undefined function '%s'", name)
	}
	args := make([]runtime.Value, 0, len(call.Args))
	for _, arg := range call.Args {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.apply(callee, args, call)
}

// apply invokes a function or native value with already-evaluated arguments.
func (i *Interpreter) apply(callee runtime.Value, args []runtime.Value, site ast.Node) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.invokeFunction(fn, args, site)
	case runtime.NativeFunctionValue:
		if len(args) != fn.Arity {
			return nil, newError(ErrArityMismatch, where(site, i.currentFrame()),
				"%s expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
		}
		return fn.Impl(args)
	default:
		return nil, fmt.Errorf("value of kind %s is not callable", callee.Kind())
	}
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value, site ast.Node) (runtime.Value, error) {
	params := fn.Params()
	if len(args) != len(params) {
		label := fn.Name()
		if label == "" {
			label = "lambda"
		}
		return nil, newError(ErrArityMismatch, where(site, i.currentFrame()),
			"%s expects %d arguments, got %d", label, len(params), len(args))
	}
	if err := i.enter(fn.Name(), site); err != nil {
		return nil, err
	}
	defer i.leave()

	// A fresh child environment per call; discarded on return.
	callEnv := fn.Closure.Extend()
	for idx, param := range params {
		callEnv.Define(param.Name, args[idx])
	}
	return i.evaluateExpression(fn.Body(), callEnv)
}

func (i *Interpreter) buildConstructor(name string, fields []runtime.Value) runtime.Value {
	switch name {
	case "Zero":
		return runtime.ZeroValue{}
	case "Succ":
		return &runtime.SuccValue{Pred: fields[0]}
	case "Pair":
		return &runtime.PairValue{First: fields[0], Second: fields[1]}
	case "Unit":
		return runtime.UnitValue{}
	default:
		return &runtime.ConstructorValue{Name: name, Fields: fields}
	}
}

//-----------------------------------------------------------------------------
// Call-depth accounting
//-----------------------------------------------------------------------------

func (i *Interpreter) enter(frame string, site ast.Node) error {
	if i.depth >= i.maxDepth {
		return newError(ErrStackExhausted, where(site, i.currentFrame()),
			"call depth exceeded %d frames", i.maxDepth)
	}
	i.depth++
	if frame == "" {
		frame = "lambda"
	}
	i.frames = append(i.frames, frame)
	return nil
}

func (i *Interpreter) leave() {
	i.depth--
	i.frames = i.frames[:len(i.frames)-1]
}

func (i *Interpreter) currentFrame() string {
	if len(i.frames) == 0 {
		return "program"
	}
	return i.frames[len(i.frames)-1]
}
