package structbridge

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
	"github.com/oxhq/celval/internal/value"
)

// ProtoAdapter wraps a live protoreflect.Message as a value.StructValue
// (spec §4.7): scalar fields map to their celval kind directly, repeated
// fields become list-kind values, map fields become map-kind values, and
// the nine well-known wrapper messages translate to either the wrapped
// primitive or null — proto3's "unset message field" becomes celval's
// null, which is exactly golden scenario S8
// (struct{google.protobuf.Int32Value field=null}.get_field("field") →
// null).
type ProtoAdapter struct {
	msg protoreflect.Message
	t   types.Type
	tf  *types.Factory
}

// NewProtoAdapter wraps msg as a StructValue of type t, using tf to intern
// any composite types (list/map/struct/enum) fields translate into.
func NewProtoAdapter(msg protoreflect.Message, t types.Type, tf *types.Factory) *ProtoAdapter {
	return &ProtoAdapter{msg: msg, t: t, tf: tf}
}

func (p *ProtoAdapter) Kind() core.Kind  { return core.KindStruct }
func (p *ProtoAdapter) Type() types.Type { return p.t }
func (p *ProtoAdapter) FullName() string { return string(p.msg.Descriptor().FullName()) }

func (p *ProtoAdapter) fieldByName(name string) protoreflect.FieldDescriptor {
	return p.msg.Descriptor().Fields().ByName(protoreflect.Name(name))
}

func (p *ProtoAdapter) GetFieldByName(name string) value.Value {
	fd := p.fieldByName(name)
	if fd == nil {
		return value.NewError(core.CodeNotFound, fmt.Sprintf("no such field: %s.%s", p.FullName(), name))
	}
	return p.getField(fd)
}

func (p *ProtoAdapter) GetFieldByNumber(number int32) value.Value {
	fd := p.msg.Descriptor().Fields().ByNumber(protoreflect.FieldNumber(number))
	if fd == nil {
		return value.NewError(core.CodeNotFound, fmt.Sprintf("no field with number %d on %s", number, p.FullName()))
	}
	return p.getField(fd)
}

func (p *ProtoAdapter) HasFieldByName(name string) bool {
	fd := p.fieldByName(name)
	return fd != nil && p.msg.Has(fd)
}

func (p *ProtoAdapter) HasFieldByNumber(number int32) bool {
	fd := p.msg.Descriptor().Fields().ByNumber(protoreflect.FieldNumber(number))
	return fd != nil && p.msg.Has(fd)
}

func (p *ProtoAdapter) ForEachField(fn func(name string, number int32, v value.Value) bool) {
	fds := p.msg.Descriptor().Fields()
	for i := 0; i < fds.Len(); i++ {
		fd := fds.Get(i)
		if !p.msg.Has(fd) {
			continue
		}
		if !fn(string(fd.Name()), int32(fd.Number()), p.getField(fd)) {
			return
		}
	}
}

func (p *ProtoAdapter) Qualify(qualifiers []value.Qualifier, scratch *value.Value) (value.Value, []value.Qualifier, error) {
	return qualifyField(p, qualifiers, scratch)
}

func (p *ProtoAdapter) DebugString() string {
	var sb []byte
	sb = append(sb, p.FullName()...)
	sb = append(sb, '{')
	first := true
	p.ForEachField(func(name string, _ int32, v value.Value) bool {
		if !first {
			sb = append(sb, ", "...)
		}
		first = false
		sb = append(sb, name...)
		sb = append(sb, ": "...)
		sb = append(sb, v.DebugString()...)
		return true
	})
	sb = append(sb, '}')
	return string(sb)
}

func (p *ProtoAdapter) Equal(other value.Value) value.Value { return structEqual(p, other) }

func (p *ProtoAdapter) SerializeTo(w io.Writer) (int, error) {
	data, err := proto.Marshal(p.msg.Interface())
	if err != nil {
		return 0, err
	}
	return w.Write(data)
}

func (p *ProtoAdapter) SerializedSize() int { return proto.Size(p.msg.Interface()) }

func (p *ProtoAdapter) ConvertToJSON() (any, error) { return structToJSON(p) }

func (p *ProtoAdapter) ConvertToAny(prefix string) (value.Value, error) {
	data, err := proto.Marshal(p.msg.Interface())
	if err != nil {
		return nil, err
	}
	return value.NewAny(prefix+p.FullName(), data), nil
}

func (p *ProtoAdapter) IsZeroValue() bool {
	fds := p.msg.Descriptor().Fields()
	for i := 0; i < fds.Len(); i++ {
		if p.msg.Has(fds.Get(i)) {
			return false
		}
	}
	return true
}

func (p *ProtoAdapter) getField(fd protoreflect.FieldDescriptor) value.Value {
	switch {
	case fd.IsMap():
		return p.getMapField(fd)
	case fd.IsList():
		return p.getListField(fd)
	default:
		return p.scalarValue(fd, p.msg.Get(fd), p.msg.Has(fd))
	}
}

func (p *ProtoAdapter) getListField(fd protoreflect.FieldDescriptor) value.Value {
	list := p.msg.Get(fd).List()
	elemType := fieldElemType(fd, p.tf)
	items := make([]value.Value, list.Len())
	for i := 0; i < list.Len(); i++ {
		items[i] = p.scalarValue(fd, list.Get(i), true)
	}
	return value.NewList(p.tf.List(elemType), items)
}

func (p *ProtoAdapter) getMapField(fd protoreflect.FieldDescriptor) value.Value {
	keyType := fieldElemType(fd.MapKey(), p.tf)
	valType := fieldElemType(fd.MapValue(), p.tf)
	mb := value.NewMapBuilder(p.tf.Map(keyType, valType), p.tf.List(types.Dyn()))

	var putErr error
	p.msg.Get(fd).Map().Range(func(mk protoreflect.MapKey, mv protoreflect.Value) bool {
		kv := mapKeyValue(fd.MapKey(), mk)
		vv := p.scalarValue(fd.MapValue(), mv, true)
		if err := mb.Put(kv, vv); err != nil {
			putErr = err
			return false
		}
		return true
	})
	if putErr != nil {
		return value.NewError(core.CodeInvalidArgument, putErr.Error())
	}
	built, err := mb.Build()
	if err != nil {
		return value.NewError(core.CodeInternal, err.Error())
	}
	return built
}

// scalarValue translates one protoreflect.Value of the kind fd describes
// (whether fd is the field itself, a repeated field's element descriptor,
// or a map's key/value descriptor). present distinguishes "this field
// slot was never set" from "this slot holds proto3's zero value", which
// only matters for message-kind fields (spec §4.7's null-on-unset rule).
func (p *ProtoAdapter) scalarValue(fd protoreflect.FieldDescriptor, v protoreflect.Value, present bool) value.Value {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return value.Bool(v.Bool())
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return value.Int(v.Int())
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return value.Uint(v.Uint())
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return value.Double(v.Float())
	case protoreflect.StringKind:
		return value.NewUncheckedString(v.String())
	case protoreflect.BytesKind:
		return value.Bytes(v.Bytes())
	case protoreflect.EnumKind:
		return value.NewEnum(p.tf.Enum(string(fd.Enum().FullName())).(types.EnumType), int32(v.Enum()))
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return p.messageValue(fd, v, present)
	default:
		return value.NewError(core.CodeUnimplemented, fmt.Sprintf("structbridge: unsupported proto field kind %v", fd.Kind()))
	}
}

func (p *ProtoAdapter) messageValue(fd protoreflect.FieldDescriptor, v protoreflect.Value, present bool) value.Value {
	full := string(fd.Message().FullName())
	if !present {
		// An unset message-kind field has no instance to read — proto3's
		// presence signal becomes celval's null (spec §4.7, golden S8).
		return value.Null
	}
	switch full {
	case "google.protobuf.Duration":
		d := v.Message().Interface().(*durationpb.Duration)
		dv, err := value.NewDuration(d.Seconds, d.Nanos)
		if err != nil {
			return value.FromOpError(err.(*value.OpError))
		}
		return dv
	case "google.protobuf.Timestamp":
		ts := v.Message().Interface().(*timestamppb.Timestamp)
		tv, err := value.NewTimestamp(ts.Seconds, ts.Nanos)
		if err != nil {
			return value.FromOpError(err.(*value.OpError))
		}
		return tv
	case "google.protobuf.Any":
		a := v.Message().Interface().(*anypb.Any)
		return value.NewAny(a.TypeUrl, a.Value)
	default:
		if isWellKnownWrapper(full) {
			return unwrapWellKnown(full, v.Message())
		}
		return NewProtoAdapter(v.Message(), p.tf.Struct(full), p.tf)
	}
}

func isWellKnownWrapper(fullName string) bool {
	switch fullName {
	case "google.protobuf.BoolValue", "google.protobuf.Int32Value", "google.protobuf.Int64Value",
		"google.protobuf.UInt32Value", "google.protobuf.UInt64Value", "google.protobuf.FloatValue",
		"google.protobuf.DoubleValue", "google.protobuf.StringValue", "google.protobuf.BytesValue":
		return true
	default:
		return false
	}
}

func unwrapWellKnown(fullName string, m protoreflect.Message) value.Value {
	switch fullName {
	case "google.protobuf.BoolValue":
		return value.Bool(m.Interface().(*wrapperspb.BoolValue).GetValue())
	case "google.protobuf.Int32Value":
		return value.Int(int64(m.Interface().(*wrapperspb.Int32Value).GetValue()))
	case "google.protobuf.Int64Value":
		return value.Int(m.Interface().(*wrapperspb.Int64Value).GetValue())
	case "google.protobuf.UInt32Value":
		return value.Uint(uint64(m.Interface().(*wrapperspb.UInt32Value).GetValue()))
	case "google.protobuf.UInt64Value":
		return value.Uint(m.Interface().(*wrapperspb.UInt64Value).GetValue())
	case "google.protobuf.FloatValue":
		return value.Double(float64(m.Interface().(*wrapperspb.FloatValue).GetValue()))
	case "google.protobuf.DoubleValue":
		return value.Double(m.Interface().(*wrapperspb.DoubleValue).GetValue())
	case "google.protobuf.StringValue":
		return value.NewUncheckedString(m.Interface().(*wrapperspb.StringValue).GetValue())
	case "google.protobuf.BytesValue":
		return value.Bytes(m.Interface().(*wrapperspb.BytesValue).GetValue())
	default:
		return value.NewError(core.CodeInternal, "structbridge: unreachable wrapper kind "+fullName)
	}
}

func mapKeyValue(fd protoreflect.FieldDescriptor, mk protoreflect.MapKey) value.Value {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return value.Bool(mk.Bool())
	case protoreflect.StringKind:
		return value.NewUncheckedString(mk.String())
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind, protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return value.Uint(mk.Value().Uint())
	default:
		return value.Int(mk.Value().Int())
	}
}

// fieldElemType maps one protoreflect field descriptor (the field itself,
// or a map's synthesized key/value descriptor) to its celval type, so
// composite fields can be built through the type factory's interning.
func fieldElemType(fd protoreflect.FieldDescriptor, tf *types.Factory) types.Type {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return types.Bool()
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return types.Int()
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return types.Uint()
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return types.Double()
	case protoreflect.StringKind:
		return types.String()
	case protoreflect.BytesKind:
		return types.Bytes()
	case protoreflect.EnumKind:
		return tf.Enum(string(fd.Enum().FullName()))
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return wellKnownOrStructType(fd.Message(), tf)
	default:
		return types.Dyn()
	}
}

func wellKnownOrStructType(md protoreflect.MessageDescriptor, tf *types.Factory) types.Type {
	switch string(md.FullName()) {
	case "google.protobuf.Duration":
		return types.Duration()
	case "google.protobuf.Timestamp":
		return types.Timestamp()
	case "google.protobuf.Any":
		return types.Any()
	case "google.protobuf.BoolValue":
		return types.Wrapper(core.PrimitiveBool)
	case "google.protobuf.Int32Value", "google.protobuf.Int64Value":
		return types.Wrapper(core.PrimitiveInt)
	case "google.protobuf.UInt32Value", "google.protobuf.UInt64Value":
		return types.Wrapper(core.PrimitiveUint)
	case "google.protobuf.FloatValue", "google.protobuf.DoubleValue":
		return types.Wrapper(core.PrimitiveDouble)
	case "google.protobuf.StringValue":
		return types.Wrapper(core.PrimitiveString)
	case "google.protobuf.BytesValue":
		return types.Wrapper(core.PrimitiveBytes)
	default:
		return tf.Struct(string(md.FullName()))
	}
}
