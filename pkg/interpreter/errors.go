package interpreter

import (
	"errors"
	"fmt"

	"peano/interpreter-go/pkg/ast"
)

// ErrorKind is the fixed failure taxonomy of the evaluator. Every kind is
// deterministic and reproducible for the same input; nothing is retried.
type ErrorKind string

const (
	// ErrMalformedDefinition: the structural-descent check rejected a
	// definition. Reported at definition time; the rest of the program is
	// not evaluated.
	ErrMalformedDefinition ErrorKind = "MalformedDefinition"
	// ErrUnboundVariable: a name was referenced outside its defining scope.
	ErrUnboundVariable ErrorKind = "UnboundVariable"
	// ErrNonExhaustiveMatch: no clause matched the scrutinee's tag.
	ErrNonExhaustiveMatch ErrorKind = "NonExhaustiveMatch"
	// ErrArityMismatch: a constructor pattern or application carried the
	// wrong number of fields.
	ErrArityMismatch ErrorKind = "ArityMismatch"
	// ErrStackExhausted: evaluation exceeded the configured call-depth
	// budget.
	ErrStackExhausted ErrorKind = "StackExhausted"
)

// Error carries the taxonomy kind and a location: a source position when
// the offending node has one, otherwise the enclosing definition name.
type Error struct {
	Kind    ErrorKind
	Message string
	Where   string
}

func (e *Error) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, e.Where)
}

func newError(kind ErrorKind, where string, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Where: where}
}

// KindOf extracts the taxonomy kind from an error chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// where renders a node's location, falling back to the provided frame name.
func where(node ast.Node, frame string) string {
	if node != nil {
		if pos := node.Pos(); pos != nil {
			return fmt.Sprintf("%d:%d", pos.Line, pos.Col)
		}
	}
	return frame
}
