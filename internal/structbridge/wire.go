package structbridge

import (
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/value"
)

// countingWriter backs SerializedSize the same way internal/value's does:
// count bytes written without actually buffering them.
type countingWriter struct{ n int }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

func structEqual(self value.StructValue, other value.Value) value.Value {
	if p, ok := value.Propagate(self, other); ok {
		return p
	}
	o, ok := other.(value.StructValue)
	if !ok || o.FullName() != self.FullName() {
		return value.Bool(false)
	}
	equal := true
	var propagated value.Value
	self.ForEachField(func(name string, _ int32, v value.Value) bool {
		if !o.HasFieldByName(name) {
			equal = false
			return false
		}
		cmp := v.Equal(o.GetFieldByName(name))
		if k := cmp.Kind(); k == core.KindError || k == core.KindUnknown {
			propagated = cmp
			return false
		}
		truthy, err := asTruthy(cmp)
		if err != nil || !truthy {
			equal = false
			return false
		}
		return true
	})
	if propagated != nil {
		return propagated
	}
	return value.Bool(equal)
}

// asTruthy extracts a plain bool out of an Equal result, treating any
// non-bool result as "not equal" for the purposes of struct-field
// comparison, since this package cannot see value's unexported boolValue
// type to assert against directly. Callers must check cmp.Kind() against
// core.KindError/core.KindUnknown before calling this, since those must
// propagate rather than collapse to false.
func asTruthy(v value.Value) (bool, error) {
	j, err := v.ConvertToJSON()
	if err != nil {
		return false, err
	}
	b, ok := j.(bool)
	if !ok {
		return false, nil
	}
	return b, nil
}

func structToJSON(self value.StructValue) (any, error) {
	out := make(map[string]any)
	var firstErr error
	self.ForEachField(func(name string, _ int32, v value.Value) bool {
		j, err := v.ConvertToJSON()
		if err != nil {
			firstErr = err
			return false
		}
		out[name] = j
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func structToAny(self value.StructValue, typeURLPrefix string) (value.Value, error) {
	fields, err := structToJSON(self)
	if err != nil {
		return nil, err
	}
	st, err := structpb.NewStruct(fields.(map[string]any))
	if err != nil {
		return nil, err
	}
	data, err := proto.Marshal(st)
	if err != nil {
		return nil, err
	}
	return value.NewAny(typeURLPrefix+"google.protobuf.Struct", data), nil
}

func serializeStructFields(w io.Writer, self value.StructValue) (int, error) {
	fields, err := structToJSON(self)
	if err != nil {
		return 0, err
	}
	st, err := structpb.NewStruct(fields.(map[string]any))
	if err != nil {
		return 0, err
	}
	data, err := proto.Marshal(st)
	if err != nil {
		return 0, err
	}
	wrapped := &anypb.Any{
		TypeUrl: "type.googleapis.com/google.protobuf.Struct",
		Value:   data,
	}
	out, err := proto.Marshal(wrapped)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(out)
	return n, err
}
