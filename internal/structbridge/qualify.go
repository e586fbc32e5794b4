// Package structbridge provides the concrete value.StructValue backings
// spec §4.7 (C7) requires: a protobuf-message adapter and a plain-map
// adapter, both exercised through the same qualifier fast path.
package structbridge

import (
	"fmt"

	"github.com/oxhq/celval/internal/value"
)

// qualifyField handles the one qualifier kind a StructValue itself can
// consume (a field selector, possibly a presence test), then hands
// whatever the field held off to continueQualify for the rest of the
// chain. Both adapters in this package call this as their Qualify body.
func qualifyField(self value.StructValue, qualifiers []value.Qualifier, scratch *value.Value) (value.Value, []value.Qualifier, error) {
	if len(qualifiers) == 0 {
		return self, nil, nil
	}
	q := qualifiers[0]
	if q.Kind != value.QualifierField {
		return nil, qualifiers, fmt.Errorf("structbridge: struct value requires a field qualifier, got kind %d", q.Kind)
	}
	if q.PresenceTest {
		if len(qualifiers) != 1 {
			return nil, qualifiers, fmt.Errorf("structbridge: presence test qualifier must be last in the chain")
		}
		return value.Bool(self.HasFieldByName(q.FieldName)), nil, nil
	}
	return continueQualify(self.GetFieldByName(q.FieldName), qualifiers[1:], scratch)
}

// continueQualify walks the remaining qualifiers over whatever kind of
// container the previous step produced, recursing into nested structs,
// indexing into lists, and keying into maps, exactly as spec §4.4.3's
// Qualify fast path describes for chained access like a.b.c[i].d.
func continueQualify(v value.Value, rest []value.Qualifier, scratch *value.Value) (value.Value, []value.Qualifier, error) {
	if len(rest) == 0 {
		return v, nil, nil
	}
	switch next := v.(type) {
	case value.StructValue:
		return next.Qualify(rest, scratch)
	case value.ListValue:
		q := rest[0]
		if q.Kind != value.QualifierIndex {
			return nil, rest, fmt.Errorf("structbridge: list value requires an index qualifier")
		}
		if q.PresenceTest {
			if len(rest) != 1 {
				return nil, rest, fmt.Errorf("structbridge: presence test qualifier must be last in the chain")
			}
			elem := next.Get(q.Index, scratch)
			_, isErr := elem.(value.ErrorValue)
			return value.Bool(!isErr), nil, nil
		}
		return continueQualify(next.Get(q.Index, scratch), rest[1:], scratch)
	case value.MapValue:
		q := rest[0]
		if q.Kind != value.QualifierMapKey {
			return nil, rest, fmt.Errorf("structbridge: map value requires a map-key qualifier")
		}
		if q.PresenceTest {
			if len(rest) != 1 {
				return nil, rest, fmt.Errorf("structbridge: presence test qualifier must be last in the chain")
			}
			_, ok := next.Find(q.MapKey)
			return value.Bool(ok), nil, nil
		}
		return continueQualify(next.Get(q.MapKey, scratch), rest[1:], scratch)
	default:
		// v is a scalar; the chain can't go any deeper natively, so hand
		// the remainder back to the caller (the evaluator) to continue.
		return v, rest, nil
	}
}
