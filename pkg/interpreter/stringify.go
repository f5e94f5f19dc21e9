package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"peano/interpreter-go/pkg/runtime"
)

// FormatValue renders a value as its canonical constructor tree, with one
// exception: pure Zero/Succ chains print as decimal numerals, matching the
// unary model the language teaches (Succ(Succ(Zero)) prints as 2).
func FormatValue(val runtime.Value) string {
	if n, ok := runtime.AsNat(val); ok {
		return strconv.FormatUint(n, 10)
	}
	switch v := val.(type) {
	case *runtime.FunctionValue:
		if name := v.Name(); name != "" {
			return fmt.Sprintf("<fn %s>", name)
		}
		return "<fn>"
	case runtime.NativeFunctionValue:
		return fmt.Sprintf("<fn %s>", v.Name)
	}
	tag, fields, ok := runtime.Tag(val)
	if !ok {
		return fmt.Sprintf("<%s>", val.Kind())
	}
	if len(fields) == 0 {
		return tag
	}
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, FormatValue(field))
	}
	return tag + "(" + strings.Join(parts, ", ") + ")"
}
