package structbridge

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/reflect"
	"github.com/oxhq/celval/internal/types"
	"github.com/oxhq/celval/internal/value"
)

// ProtoReflector is the reflect.TypeReflector backing ProtoAdapter: it
// resolves names against a protoregistry.Files (by default the global
// registry every linked-in .pb.go file registers itself into) and
// deserializes type-URL+bytes by looking up the message type and
// unmarshaling into it — the Any payload path spec §6.3 describes.
type ProtoReflector struct {
	files        *protoregistry.Files
	typeRegistry *protoregistry.Types
	tf           *types.Factory
}

// NewProtoReflector constructs a ProtoReflector over the given descriptor
// and type registries (pass protoregistry.GlobalFiles/GlobalTypes to use
// every statically linked-in proto package).
func NewProtoReflector(files *protoregistry.Files, reg *protoregistry.Types, tf *types.Factory) *ProtoReflector {
	return &ProtoReflector{files: files, typeRegistry: reg, tf: tf}
}

func (r *ProtoReflector) LookupType(qualifiedName string) (types.Type, bool) {
	md, err := r.findMessage(qualifiedName)
	if err != nil {
		return nil, false
	}
	return wellKnownOrStructType(md, r.tf), true
}

func (r *ProtoReflector) LookupField(structTypeName, fieldName string) (reflect.FieldInfo, bool) {
	md, err := r.findMessage(structTypeName)
	if err != nil {
		return reflect.FieldInfo{}, false
	}
	fd := md.Fields().ByName(protoreflect.Name(fieldName))
	if fd == nil {
		return reflect.FieldInfo{}, false
	}
	return reflect.FieldInfo{
		Name:   fieldName,
		Number: int32(fd.Number()),
		Type:   fieldElemType(fd, r.tf),
	}, true
}

func (r *ProtoReflector) findMessage(fullName string) (protoreflect.MessageDescriptor, error) {
	desc, err := r.files.FindDescriptorByName(protoreflect.FullName(fullName))
	if err != nil {
		return nil, err
	}
	md, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("structbridge: %q is not a message type", fullName)
	}
	return md, nil
}

func (r *ProtoReflector) ListBuilder(elem types.Type) *value.ListBuilder {
	return value.NewListBuilder(r.tf.List(elem))
}

func (r *ProtoReflector) MapBuilder(key, val types.Type) *value.MapBuilder {
	return value.NewMapBuilder(r.tf.Map(key, val), r.tf.List(types.Dyn()))
}

// StructBuilder is not implemented on the protobuf side: constructing a
// well-formed message generically (without generated setters) requires a
// dynamicpb.Message, which is out of scope here since nothing in this
// codebase needs to originate new protobuf messages — only read ones a
// host already constructed. Hosts that need this should build the
// message with their generated Go type and wrap it with NewProtoAdapter.
func (r *ProtoReflector) StructBuilder(structTypeName string) (reflect.StructBuilder, error) {
	return nil, &value.OpError{
		Code:    core.CodeUnimplemented,
		Message: fmt.Sprintf("structbridge: ProtoReflector cannot build new instances of %q", structTypeName),
	}
}

func (r *ProtoReflector) DeserializeAny(typeURL string, data []byte) (value.Value, error) {
	fullName := typeURL
	if idx := strings.LastIndexByte(typeURL, '/'); idx >= 0 {
		fullName = typeURL[idx+1:]
	}
	mt, err := r.typeRegistry.FindMessageByName(protoreflect.FullName(fullName))
	if err != nil {
		return nil, fmt.Errorf("structbridge: no registered type for %q: %w", typeURL, err)
	}
	msg := mt.New()
	if err := proto.Unmarshal(data, msg.Interface()); err != nil {
		return nil, fmt.Errorf("structbridge: unmarshal %q: %w", typeURL, err)
	}
	return NewProtoAdapter(msg, wellKnownOrStructType(msg.Descriptor(), r.tf), r.tf), nil
}
