package interpreter

import (
	"fmt"

	"peano/interpreter-go/pkg/runtime"
)

// synthesizeFold builds the recursion principle of a datatype as a fold
// combinator: foldT(value, handler-per-constructor...). Fields in recursive
// position (those declared with the datatype's own name) arrive at the
// handler already folded, so foldNat(n, z, s) computes primitive recursion
// on n. Handlers for nullary constructors may be plain values.
func (i *Interpreter) synthesizeFold(info *datatypeInfo) runtime.NativeFunctionValue {
	name := "fold" + info.name
	arity := 1 + len(info.constructors)

	impl := func(args []runtime.Value) (runtime.Value, error) {
		handlers := args[1:]
		var fold func(v runtime.Value) (runtime.Value, error)
		fold = func(v runtime.Value) (runtime.Value, error) {
			if err := i.enter(name, nil); err != nil {
				return nil, err
			}
			defer i.leave()

			tag, fields, ok := runtime.Tag(v)
			if !ok {
				return nil, fmt.Errorf("%s: cannot fold a %s value", name, v.Kind())
			}
			idx := -1
			for ci, spec := range info.constructors {
				if spec.Name.Name == tag {
					idx = ci
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("%s: value tagged %s does not inhabit %s", name, tag, info.name)
			}
			spec := info.constructors[idx]
			if len(fields) != len(spec.Fields) {
				return nil, newError(ErrArityMismatch, name,
					"constructor %s carries %d fields, declaration has %d", tag, len(fields), len(spec.Fields))
			}
			folded := make([]runtime.Value, len(fields))
			for fi, field := range fields {
				if spec.Fields[fi].Name == info.name {
					sub, err := fold(field)
					if err != nil {
						return nil, err
					}
					folded[fi] = sub
				} else {
					folded[fi] = field
				}
			}
			handler := handlers[idx]
			if len(folded) == 0 {
				switch handler.(type) {
				case *runtime.FunctionValue, runtime.NativeFunctionValue:
					return i.apply(handler, nil, nil)
				default:
					return handler, nil
				}
			}
			return i.apply(handler, folded, nil)
		}
		return fold(args[0])
	}

	return runtime.NativeFunctionValue{Name: name, Arity: arity, Impl: impl}
}
