// Package tensorcacherpc defines the redstone wire protocol: the
// request/response message shapes and the gRPC service descriptor that
// binds them to four unary RPCs — Put, Get, Delete, GetStats — per
// spec.md §6.
//
// This harness cannot invoke protoc, so the layer protoc-gen-go-grpc
// would normally generate is hand-written directly against
// google.golang.org/grpc's public extension points: a custom
// encoding.Codec (JSON framing instead of protobuf-binary) and a
// grpc.ServiceDesc built by hand. Every type here is a plain Go struct;
// none of it is a stand-in for a dependency that couldn't be resolved —
// google.golang.org/grpc itself does all the transport, multiplexing and
// status-code work.
//
// © 2025 redstone authors. MIT License.
package tensorcacherpc

// DTypeWire mirrors spec.md §6's wire enum, including the UNSPECIFIED(0)
// sentinel that always fails InvalidArgument.
type DTypeWire int32

const (
	DTypeUnspecified DTypeWire = 0
	DTypeF32         DTypeWire = 1
	DTypeF64         DTypeWire = 2
	DTypeI32         DTypeWire = 3
	DTypeI64         DTypeWire = 4
	DTypeU8          DTypeWire = 5
)

// LayoutWire mirrors spec.md §6's wire enum.
type LayoutWire int32

const (
	LayoutRowMajor    LayoutWire = 0
	LayoutColumnMajor LayoutWire = 1
)

// TensorMetaWire is the wire representation of tensor metadata.
type TensorMetaWire struct {
	DType  DTypeWire  `json:"dtype"`
	Shape  []uint64   `json:"shape"`
	Layout LayoutWire `json:"layout"`
}

type PutRequest struct {
	Key  string          `json:"key"`
	Meta *TensorMetaWire `json:"meta"`
	Data []byte          `json:"data"`
}

type PutResponse struct{}

type GetRequest struct {
	Key string `json:"key"`
}

type GetResponse struct {
	Meta *TensorMetaWire `json:"meta"`
	Data []byte          `json:"data"`
}

type DeleteRequest struct {
	Key string `json:"key"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type StatsRequest struct{}

type StatsResponse struct {
	Entries           int64   `json:"entries"`
	MemoryUsed        uint64  `json:"memory_used"`
	MemoryLimit       uint64  `json:"memory_limit"`
	Hits              uint64  `json:"hits"`
	Misses            uint64  `json:"misses"`
	Evictions         uint64  `json:"evictions"`
	HitRate           float64 `json:"hit_rate"`
	MemoryUtilization float64 `json:"memory_utilization"`
}
