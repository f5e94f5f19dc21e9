package interpreter

import (
	"peano/interpreter-go/pkg/ast"
)

// checkStructuralDescent enforces the primitive-recursion restriction at
// definition time: every self-call's argument at the decreasing position
// must be a variable extracted by a constructor pattern from the function's
// own decreasing parameter (possibly through several match layers). The
// check is syntactic and conservative; terminating-but-non-obvious programs
// are rejected, never accepted and diverging at call time.
func (i *Interpreter) checkStructuralDescent(def *ast.FunctionDefinition) error {
	name := def.ID.Name
	if def.Decreasing < 0 || (len(def.Params) > 0 && def.Decreasing >= len(def.Params)) {
		return newError(ErrMalformedDefinition, name,
			"decreasing position %d is outside the parameter list", def.Decreasing)
	}
	c := &descentChecker{def: def}
	marks := make(map[string]int, len(def.Params))
	if len(def.Params) > 0 {
		// Rank 0 marks the decreasing parameter itself; every constructor
		// layer peeled off by a pattern adds one.
		marks[def.Params[def.Decreasing].Name] = 0
	}
	return c.walk(def.Body, marks)
}

type descentChecker struct {
	def *ast.FunctionDefinition
}

func (c *descentChecker) walk(expr ast.Expression, marks map[string]int) error {
	switch n := expr.(type) {
	case *ast.Identifier, *ast.UnitLiteral:
		return nil
	case *ast.PairExpression:
		if err := c.walk(n.First, marks); err != nil {
			return err
		}
		return c.walk(n.Second, marks)
	case *ast.LambdaExpression:
		inner := copyMarks(marks)
		for _, param := range n.Params {
			delete(inner, param.Name)
		}
		return c.walk(n.Body, inner)
	case *ast.CallExpression:
		if err := c.checkCall(n, marks); err != nil {
			return err
		}
		for _, arg := range n.Args {
			if err := c.walk(arg, marks); err != nil {
				return err
			}
		}
		return nil
	case *ast.MatchExpression:
		return c.walkMatch(n, marks)
	default:
		return nil
	}
}

func (c *descentChecker) checkCall(call *ast.CallExpression, marks map[string]int) error {
	name := c.def.ID.Name
	if call.Callee.Name != name {
		return nil
	}
	if len(c.def.Params) == 0 {
		return newError(ErrMalformedDefinition, name,
			"recursive call in %s, but the function has no decreasing parameter", name)
	}
	if len(call.Args) != len(c.def.Params) {
		return newError(ErrMalformedDefinition, name,
			"recursive call passes %d arguments, %s takes %d", len(call.Args), name, len(c.def.Params))
	}
	arg := call.Args[c.def.Decreasing]
	id, ok := arg.(*ast.Identifier)
	if !ok {
		return newError(ErrMalformedDefinition, name,
			"recursive call argument at decreasing position %d is not a pattern-bound variable", c.def.Decreasing)
	}
	rank, tracked := marks[id.Name]
	if !tracked || rank < 1 {
		return newError(ErrMalformedDefinition, name,
			"recursive call on '%s' does not structurally decrease parameter '%s'",
			id.Name, c.def.Params[c.def.Decreasing].Name)
	}
	return nil
}

func (c *descentChecker) walkMatch(m *ast.MatchExpression, marks map[string]int) error {
	if err := c.walk(m.Subject, marks); err != nil {
		return err
	}
	subjRank := -1
	if id, ok := m.Subject.(*ast.Identifier); ok {
		if rank, tracked := marks[id.Name]; tracked {
			subjRank = rank
		}
	}
	for _, clause := range m.Clauses {
		clauseMarks := copyMarks(marks)
		markBinders(clause.Pattern, subjRank, 0, clauseMarks)
		if err := c.walk(clause.Body, clauseMarks); err != nil {
			return err
		}
	}
	return nil
}

// markBinders records the descent rank of every binder in a clause
// pattern. depth counts constructor layers between the scrutinee and the
// binder; when the scrutinee is not a tracked variable (subjRank < 0) the
// binders simply shadow whatever they collide with.
func markBinders(pattern ast.Pattern, subjRank, depth int, marks map[string]int) {
	switch p := pattern.(type) {
	case *ast.Identifier:
		if subjRank >= 0 {
			marks[p.Name] = subjRank + depth
		} else {
			delete(marks, p.Name)
		}
	case *ast.ConstructorPattern:
		for _, sub := range p.Fields {
			markBinders(sub, subjRank, depth+1, marks)
		}
	}
}

func copyMarks(marks map[string]int) map[string]int {
	out := make(map[string]int, len(marks))
	for k, v := range marks {
		out[k] = v
	}
	return out
}
