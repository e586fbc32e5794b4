package value

import (
	"bytes"
	"encoding/base64"
	"io"
	"math"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oxhq/celval/internal/core"
)

// serializeAnyMessage and anyMessageSize back anyValue's wire form: the
// protobuf encoding of google.protobuf.Any itself (spec §6.3 — "Any wraps
// (type_url, serialized)").
func serializeAnyMessage(w io.Writer, typeURL string, data []byte) (int, error) {
	msg := &anypb.Any{TypeUrl: typeURL, Value: data}
	b, err := proto.Marshal(msg)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

func anyMessageSize(typeURL string, data []byte) int {
	return proto.Size(&anypb.Any{TypeUrl: typeURL, Value: data})
}

// marshalTo runs proto.Marshal on msg and writes the result to w, the
// shared tail of every primitive's SerializeTo (spec §6.3: "primitives as
// the corresponding wrapper message").
func marshalTo(w io.Writer, msg proto.Message) (int, error) {
	b, err := proto.Marshal(msg)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

// mustMarshal backs SerializedSize, which has no error return in the Value
// interface (spec §4.4.1 treats size as a pure query). A wrapper message
// built from an already-valid Go value cannot fail to marshal.
func mustMarshal(msg proto.Message) []byte {
	b, err := proto.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return b
}

func bytesEqual(a, b []byte) bool { return bytes.Equal(a, b) }

func base64Encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func isNaN(d float64) bool    { return math.IsNaN(d) }
func isPosInf(d float64) bool { return math.IsInf(d, 1) }
func isNegInf(d float64) bool { return math.IsInf(d, -1) }

// countingWriter implements io.Writer by only counting bytes, used to
// derive SerializedSize from the same code path as SerializeTo without
// allocating the encoded form twice.
type countingWriter struct{ n int }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

// serializeListValue writes a list value's canonical wire form: the
// protobuf encoding of google.protobuf.ListValue built from the list's
// JSON-ready representation (spec §6.3 — "list as ListValue").
func serializeListValue(w io.Writer, l ListValue) (int, error) {
	j, err := l.ConvertToJSON()
	if err != nil {
		return 0, err
	}
	arr, ok := j.([]any)
	if !ok {
		return 0, &OpError{Code: core.CodeInternal, Message: "list JSON conversion did not yield an array"}
	}
	lv, err := structpb.NewList(arr)
	if err != nil {
		return 0, err
	}
	return marshalTo(w, lv)
}

// serializeStructMessage writes a map/struct-shaped value's canonical
// wire form: the protobuf encoding of google.protobuf.Struct built from a
// string-keyed JSON-ready representation (spec §6.3 — "map ... as
// Struct").
func serializeStructMessage(w io.Writer, fields map[string]any) (int, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return 0, err
	}
	return marshalTo(w, st)
}
