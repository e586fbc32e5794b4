package activation

import "github.com/oxhq/celval/internal/value"

// Chain composes activations in shadowing order: the first activation that
// has the name wins. This is the same first-match-wins composition
// reflect.Chain applies to schema lookups (C6), applied here to variable
// resolution — the pattern a comprehension needs to layer its loop
// variable over the enclosing activation without mutating it.
type Chain struct {
	activations []Activation
}

// NewChain composes activations front-to-back; activations[0] shadows
// activations[1], and so on.
func NewChain(activations ...Activation) *Chain {
	return &Chain{activations: activations}
}

func (c *Chain) FindVariable(name string) (value.Value, bool) {
	for _, a := range c.activations {
		if v, ok := a.FindVariable(name); ok {
			return v, true
		}
	}
	return nil, false
}

// FindFunctionOverloads concatenates overloads from every activation in the
// chain, front-to-back, rather than shadowing — functions in CEL are
// resolved by overload signature match, not by name alone, so a later
// activation's overloads of the same name remain candidates.
func (c *Chain) FindFunctionOverloads(name string) []Overload {
	var all []Overload
	for _, a := range c.activations {
		all = append(all, a.FindFunctionOverloads(name)...)
	}
	return all
}

// WithVariable returns a new two-link chain shadowing c with a single
// eager variable binding — the common case of adding one comprehension
// variable over a base activation without constructing a full Map.
func WithVariable(base Activation, name string, v value.Value) *Chain {
	local := NewMap()
	local.BindVariable(name, v)
	return NewChain(local, base)
}
