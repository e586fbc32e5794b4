// Package activation binds names to values and function overloads for an
// evaluation, the host-provided side of a CEL evaluation (spec.md §4.8).
// celval only carries an evaluation's variable bindings and passes function
// overloads through opaquely; it never interprets them itself.
package activation

import "github.com/oxhq/celval/internal/value"

// Overload is an opaque marker the evaluator side owns; celval's activation
// layer only stores and returns these, never inspects them.
type Overload any

// Activation resolves variable names to values and function names to their
// registered overloads for one evaluation.
type Activation interface {
	FindVariable(name string) (value.Value, bool)
	FindFunctionOverloads(name string) []Overload
}
