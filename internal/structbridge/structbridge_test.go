package structbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/factory"
	"github.com/oxhq/celval/internal/mem"
	"github.com/oxhq/celval/internal/reflect"
	"github.com/oxhq/celval/internal/types"
	"github.com/oxhq/celval/internal/value"
)

func newTestFactory() *factory.ValueFactory {
	return factory.NewValueFactory(mem.NewRCManager())
}

func asJSONBool(t *testing.T, v value.Value) bool {
	t.Helper()
	j, err := v.ConvertToJSON()
	require.NoError(t, err)
	b, ok := j.(bool)
	require.True(t, ok)
	return b
}

func TestMapAdapterBuildAndGetField(t *testing.T) {
	vf := newTestFactory()
	schema := reflect.NewStaticSchema()
	structType := vf.Struct("celval.test.Person")
	require.NoError(t, schema.RegisterType("celval.test.Person", structType))
	require.NoError(t, schema.RegisterField("celval.test.Person", reflect.FieldInfo{Name: "name", Number: 1, Type: types.String()}))
	require.NoError(t, schema.RegisterField("celval.test.Person", reflect.FieldInfo{Name: "age", Number: 2, Type: types.Int()}))

	b := NewMapStructBuilder("celval.test.Person", structType, schema)
	require.NoError(t, b.SetField("name", value.NewUncheckedString("ada")))
	require.NoError(t, b.SetField("age", value.Int(30)))
	built, err := b.Build()
	require.NoError(t, err)

	sv := built.(value.StructValue)
	assert.Equal(t, "celval.test.Person", sv.FullName())
	assert.True(t, asJSONBool(t, value.NewUncheckedString("ada").Equal(sv.GetFieldByName("name"))))
	assert.True(t, sv.HasFieldByName("age"))
	assert.False(t, sv.HasFieldByName("missing"))

	got := sv.GetFieldByName("missing")
	ev, ok := got.(value.ErrorValue)
	require.True(t, ok)
	assert.Equal(t, core.CodeNotFound, ev.Code())
}

func TestMapStructBuilderRejectsWrongKind(t *testing.T) {
	vf := newTestFactory()
	schema := reflect.NewStaticSchema()
	structType := vf.Struct("celval.test.Person")
	require.NoError(t, schema.RegisterType("celval.test.Person", structType))
	require.NoError(t, schema.RegisterField("celval.test.Person", reflect.FieldInfo{Name: "age", Number: 1, Type: types.Int()}))

	b := NewMapStructBuilder("celval.test.Person", structType, schema)
	err := b.SetField("age", value.NewUncheckedString("not a number"))
	require.Error(t, err)
	opErr, ok := err.(*value.OpError)
	require.True(t, ok)
	assert.Equal(t, core.CodeInvalidArgument, opErr.Code)
}

func TestMapStructBuilderSingleUse(t *testing.T) {
	vf := newTestFactory()
	schema := reflect.NewStaticSchema()
	structType := vf.Struct("celval.test.Empty")
	require.NoError(t, schema.RegisterType("celval.test.Empty", structType))

	b := NewMapStructBuilder("celval.test.Empty", structType, schema)
	_, err := b.Build()
	require.NoError(t, err)
	_, err = b.Build()
	assert.ErrorIs(t, err, core.ErrBuilderConsumed)
}

func TestMapReflectorWiring(t *testing.T) {
	vf := newTestFactory()
	schema := reflect.NewStaticSchema()
	structType := vf.Struct("celval.test.Thing")
	require.NoError(t, schema.RegisterType("celval.test.Thing", structType))
	require.NoError(t, schema.RegisterField("celval.test.Thing", reflect.FieldInfo{Name: "n", Number: 1, Type: types.Int()}))

	r := NewMapReflector(vf, schema)
	sb, err := r.StructBuilder("celval.test.Thing")
	require.NoError(t, err)
	require.NoError(t, sb.SetField("n", value.Int(1)))
	built, err := sb.Build()
	require.NoError(t, err)
	assert.True(t, asJSONBool(t, value.Int(1).Equal(built.(value.StructValue).GetFieldByName("n"))))
}

func TestQualifyFieldChain(t *testing.T) {
	vf := newTestFactory()
	schema := reflect.NewStaticSchema()
	innerType := vf.Struct("celval.test.Inner")
	outerType := vf.Struct("celval.test.Outer")
	require.NoError(t, schema.RegisterType("celval.test.Inner", innerType))
	require.NoError(t, schema.RegisterType("celval.test.Outer", outerType))
	require.NoError(t, schema.RegisterField("celval.test.Inner", reflect.FieldInfo{Name: "x", Number: 1, Type: types.Int()}))
	require.NoError(t, schema.RegisterField("celval.test.Outer", reflect.FieldInfo{Name: "inner", Number: 1, Type: innerType}))

	innerBuilder := NewMapStructBuilder("celval.test.Inner", innerType, schema)
	require.NoError(t, innerBuilder.SetField("x", value.Int(7)))
	innerValue, err := innerBuilder.Build()
	require.NoError(t, err)

	outerBuilder := NewMapStructBuilder("celval.test.Outer", outerType, schema)
	require.NoError(t, outerBuilder.SetField("inner", innerValue))
	outerValue, err := outerBuilder.Build()
	require.NoError(t, err)

	var scratch value.Value
	got, remaining, err := outerValue.(value.StructValue).Qualify([]value.Qualifier{
		{Kind: value.QualifierField, FieldName: "inner"},
		{Kind: value.QualifierField, FieldName: "x"},
	}, &scratch)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.True(t, asJSONBool(t, value.Int(7).Equal(got)))
}

func TestQualifyPresenceTest(t *testing.T) {
	vf := newTestFactory()
	schema := reflect.NewStaticSchema()
	structType := vf.Struct("celval.test.Thing")
	require.NoError(t, schema.RegisterType("celval.test.Thing", structType))
	require.NoError(t, schema.RegisterField("celval.test.Thing", reflect.FieldInfo{Name: "n", Number: 1, Type: types.Int()}))

	b := NewMapStructBuilder("celval.test.Thing", structType, schema)
	require.NoError(t, b.SetField("n", value.Int(1)))
	built, err := b.Build()
	require.NoError(t, err)

	var scratch value.Value
	got, _, err := built.(value.StructValue).Qualify([]value.Qualifier{
		{Kind: value.QualifierField, FieldName: "n", PresenceTest: true},
	}, &scratch)
	require.NoError(t, err)
	assert.True(t, asJSONBool(t, got))
}

func TestStructEqualPropagatesFieldError(t *testing.T) {
	vf := newTestFactory()
	schema := reflect.NewStaticSchema()
	structType := vf.Struct("celval.test.Flaky")
	require.NoError(t, schema.RegisterType("celval.test.Flaky", structType))
	require.NoError(t, schema.RegisterField("celval.test.Flaky", reflect.FieldInfo{Name: "n", Number: 1, Type: types.Dyn()}))

	lhsBuilder := NewMapStructBuilder("celval.test.Flaky", structType, schema)
	require.NoError(t, lhsBuilder.SetField("n", value.Int(1)))
	lhs, err := lhsBuilder.Build()
	require.NoError(t, err)

	rhsBuilder := NewMapStructBuilder("celval.test.Flaky", structType, schema)
	fieldErr := value.NewError(core.CodeInvalidArgument, "boom")
	require.NoError(t, rhsBuilder.SetField("n", fieldErr))
	rhs, err := rhsBuilder.Build()
	require.NoError(t, err)

	got := lhs.(value.StructValue).Equal(rhs.(value.StructValue))
	ev, ok := got.(value.ErrorValue)
	require.True(t, ok)
	assert.Equal(t, core.CodeInvalidArgument, ev.Code())
}

// --- golden scenario S8: unset well-known wrapper field reads as null ------

// hostWithWrapperField builds a throwaway message descriptor, via
// protodesc + dynamicpb, for a single message "celval.test.Host" with one
// field of type google.protobuf.Int32Value — enough to exercise
// ProtoAdapter's unset-wrapper-is-null rule without a generated .pb.go.
func hostWithWrapperField(t *testing.T) protoreflect.Message {
	t.Helper()
	fdProto := &descriptorpb.FileDescriptorProto{
		Name:       proto.String("celval/test/host.proto"),
		Syntax:     proto.String("proto3"),
		Package:    proto.String("celval.test"),
		Dependency: []string{"google/protobuf/wrappers.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Host"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:     proto.String("field"),
						Number:   proto.Int32(1),
						Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
						Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
						TypeName: proto.String(".google.protobuf.Int32Value"),
					},
				},
			},
		},
	}
	fd, err := protodesc.NewFile(fdProto, protoregistry.GlobalFiles)
	require.NoError(t, err)
	md := fd.Messages().Get(0)
	return dynamicpb.NewMessage(md)
}

func TestS8_UnsetWrapperFieldIsNull(t *testing.T) {
	tf := types.NewFactory(mem.NewRCManager())
	msg := hostWithWrapperField(t)
	adapter := NewProtoAdapter(msg, tf.Struct("celval.test.Host"), tf)

	got := adapter.GetFieldByName("field")
	assert.Equal(t, value.Null, got)
	assert.False(t, adapter.HasFieldByName("field"))
}

func TestS8_SetWrapperFieldUnwraps(t *testing.T) {
	tf := types.NewFactory(mem.NewRCManager())
	msg := hostWithWrapperField(t)
	fd := msg.Descriptor().Fields().ByName("field")
	msg.Set(fd, protoreflect.ValueOfMessage(wrapperspb.Int32(42).ProtoReflect()))

	adapter := NewProtoAdapter(msg, tf.Struct("celval.test.Host"), tf)
	assert.True(t, adapter.HasFieldByName("field"))
	assert.True(t, asJSONBool(t, value.Int(42).Equal(adapter.GetFieldByName("field"))))
}

func TestWellKnownWrapperUnwrap(t *testing.T) {
	iv := wrapperspb.Int32(42)
	got := unwrapWellKnown("google.protobuf.Int32Value", iv.ProtoReflect())
	assert.True(t, asJSONBool(t, value.Int(42).Equal(got)))
}

func TestIsWellKnownWrapper(t *testing.T) {
	assert.True(t, isWellKnownWrapper("google.protobuf.Int32Value"))
	assert.False(t, isWellKnownWrapper("celval.test.Person"))
}
