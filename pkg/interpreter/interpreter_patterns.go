package interpreter

import (
	"fmt"

	"peano/interpreter-go/pkg/ast"
	"peano/interpreter-go/pkg/runtime"
)

// matchPattern tries a clause pattern against a value. On success it
// returns a fresh child environment holding the clause bindings; the caller
// discards it when the clause body finishes. A false result with nil error
// means "try the next clause"; an error aborts the whole match.
func (i *Interpreter) matchPattern(pattern ast.Pattern, value runtime.Value, base *runtime.Environment) (*runtime.Environment, bool, error) {
	matchEnv := base.Extend()
	matched, err := i.bindPattern(pattern, value, matchEnv)
	if err != nil {
		return nil, false, err
	}
	if !matched {
		return nil, false, nil
	}
	return matchEnv, true, nil
}

func (i *Interpreter) bindPattern(pattern ast.Pattern, value runtime.Value, env *runtime.Environment) (bool, error) {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.Identifier:
		env.Define(p.Name, value)
		return true, nil
	case *ast.ConstructorPattern:
		tag, fields, ok := runtime.Tag(value)
		if !ok {
			// Function values carry no tag and match nothing but binders.
			return false, nil
		}
		if tag != p.Name.Name {
			return false, nil
		}
		if len(p.Fields) != len(fields) {
			return false, newError(ErrArityMismatch, where(p, i.currentFrame()),
				"pattern %s binds %d fields, value carries %d", tag, len(p.Fields), len(fields))
		}
		for idx, sub := range p.Fields {
			matched, err := i.bindPattern(sub, fields[idx], env)
			if err != nil || !matched {
				return false, err
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("unsupported pattern %s", pattern.NodeType())
	}
}
