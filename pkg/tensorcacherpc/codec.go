package tensorcacherpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the gRPC content-subtype this package negotiates:
// "application/grpc+json" instead of the default protobuf-binary framing.
const codecName = "json"

// jsonCodec implements encoding.Codec by delegating to encoding/json. It
// is registered globally at package init time, the same way
// protoc-gen-go-grpc's generated code relies on the protobuf codec being
// registered by google.golang.org/grpc's own init().
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
