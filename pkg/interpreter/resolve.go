package interpreter

import (
	"strings"

	"peano/interpreter-go/pkg/ast"
)

// Resolve walks a program once, before evaluation, and rejects references
// that can never bind: unknown constructors, unknown qualified names, and
// calls to functions that no declaration or import provides. It models the
// flat declaration table with explicit qualification; plain variable
// lookups still fail at evaluation time with ErrUnboundVariable if they
// escape their scope.
func (i *Interpreter) Resolve(prog *ast.Program) error {
	return i.resolveProgram(prog, nil)
}

// resolveProgram accepts extra names visible without qualification; library
// loading passes the library's own function names through here.
func (i *Interpreter) resolveProgram(prog *ast.Program, locals map[string]bool) error {
	imported := make(map[string]bool, len(prog.Imports))
	for _, imp := range prog.Imports {
		imported[imp.Name.Name] = true
	}
	r := &resolver{interp: i, imported: imported, locals: locals}
	for _, decl := range prog.Decls {
		def, ok := decl.(*ast.FunctionDefinition)
		if !ok {
			continue
		}
		bound := make(map[string]bool, len(def.Params))
		for _, param := range def.Params {
			bound[param.Name] = true
		}
		if err := r.walk(def.Body, def.ID.Name, bound); err != nil {
			return err
		}
	}
	if prog.Result != nil {
		if err := r.walk(prog.Result, "program", map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

type resolver struct {
	interp   *Interpreter
	imported map[string]bool
	locals   map[string]bool
}

func (r *resolver) walk(expr ast.Expression, frame string, bound map[string]bool) error {
	switch n := expr.(type) {
	case *ast.UnitLiteral:
		return nil
	case *ast.Identifier:
		return r.checkName(n, frame, bound, false)
	case *ast.PairExpression:
		if err := r.walk(n.First, frame, bound); err != nil {
			return err
		}
		return r.walk(n.Second, frame, bound)
	case *ast.LambdaExpression:
		inner := copyBound(bound)
		for _, param := range n.Params {
			inner[param.Name] = true
		}
		return r.walk(n.Body, frame, inner)
	case *ast.CallExpression:
		if err := r.checkName(n.Callee, frame, bound, true); err != nil {
			return err
		}
		for _, arg := range n.Args {
			if err := r.walk(arg, frame, bound); err != nil {
				return err
			}
		}
		return nil
	case *ast.MatchExpression:
		if err := r.walk(n.Subject, frame, bound); err != nil {
			return err
		}
		for _, clause := range n.Clauses {
			inner := copyBound(bound)
			collectPatternBinders(clause.Pattern, inner)
			if err := r.walk(clause.Body, frame, inner); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// checkName flags names that the declaration table can prove unbindable.
// Bare lowercase identifiers in non-call position may be clause binders or
// parameters; only calls and qualified/constructor references are decided
// here.
func (r *resolver) checkName(id *ast.Identifier, frame string, bound map[string]bool, isCall bool) error {
	name := id.Name
	if bound[name] || r.locals[name] {
		return nil
	}
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		lib := name[:dot]
		if !r.imported[lib] {
			return newError(ErrUnboundVariable, where(id, frame),
				"qualified reference %s requires import %s", name, lib)
		}
		if _, ok := r.interp.functions[name]; !ok {
			return newError(ErrUnboundVariable, where(id, frame),
				"library %s does not define %s", lib, name[dot+1:])
		}
		return nil
	}
	if _, ok := r.interp.constructors[name]; ok {
		return nil
	}
	if _, ok := r.interp.functions[name]; ok {
		return nil
	}
	if _, ok := r.interp.global.Get(name); ok {
		return nil
	}
	if isCall || isConstructorName(name) {
		return newError(ErrUnboundVariable, where(id, frame), "undefined reference '%s'", name)
	}
	return nil
}

func isConstructorName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

func collectPatternBinders(pattern ast.Pattern, bound map[string]bool) {
	switch p := pattern.(type) {
	case *ast.Identifier:
		bound[p.Name] = true
	case *ast.ConstructorPattern:
		for _, sub := range p.Fields {
			collectPatternBinders(sub, bound)
		}
	}
}

func copyBound(bound map[string]bool) map[string]bool {
	out := make(map[string]bool, len(bound))
	for k, v := range bound {
		out[k] = v
	}
	return out
}
