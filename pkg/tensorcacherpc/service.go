package tensorcacherpc

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the fully-qualified name protoc would otherwise derive
// from the .proto package/service declaration.
const serviceName = "redstone.v1.RedStone"

// RedStoneServer is the service implemented by the cache server. It is
// the interface protoc-gen-go-grpc would generate from the four unary
// RPCs in spec.md §6.
type RedStoneServer interface {
	Put(context.Context, *PutRequest) (*PutResponse, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResponse, error)
	GetStats(context.Context, *StatsRequest) (*StatsResponse, error)
}

// RegisterRedStoneServer binds srv to s under the RedStone service
// descriptor. s is typically a *grpc.Server.
func RegisterRedStoneServer(s grpc.ServiceRegistrar, srv RedStoneServer) {
	s.RegisterService(&RedStone_ServiceDesc, srv)
}

func _RedStone_Put_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PutRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RedStoneServer).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Put"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RedStoneServer).Put(ctx, req.(*PutRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RedStone_Get_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RedStoneServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Get"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RedStoneServer).Get(ctx, req.(*GetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RedStone_Delete_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RedStoneServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Delete"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RedStoneServer).Delete(ctx, req.(*DeleteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RedStone_GetStats_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StatsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RedStoneServer).GetStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetStats"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RedStoneServer).GetStats(ctx, req.(*StatsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RedStone_ServiceDesc is the grpc.ServiceDesc that protoc-gen-go-grpc
// would emit for the RedStone service. It is registered against the
// json codec (see codec.go), not the protobuf-binary one.
var RedStone_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RedStoneServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Put", Handler: _RedStone_Put_Handler},
		{MethodName: "Get", Handler: _RedStone_Get_Handler},
		{MethodName: "Delete", Handler: _RedStone_Delete_Handler},
		{MethodName: "GetStats", Handler: _RedStone_GetStats_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tensorcacherpc/redstone.proto",
}

// RedStoneClient is the client-side stub for the RedStone service.
type RedStoneClient interface {
	Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*PutResponse, error)
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error)
	Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error)
	GetStats(ctx context.Context, in *StatsRequest, opts ...grpc.CallOption) (*StatsResponse, error)
}

type redStoneClient struct {
	cc grpc.ClientConnInterface
}

// NewRedStoneClient wraps cc with the RedStone client stub. Every call is
// pinned to the json content-subtype so the server's codec negotiation
// picks jsonCodec regardless of what else is registered process-wide.
func NewRedStoneClient(cc grpc.ClientConnInterface) RedStoneClient {
	return &redStoneClient{cc: cc}
}

func withJSONSubtype(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
}

func (c *redStoneClient) Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*PutResponse, error) {
	out := new(PutResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Put", in, out, withJSONSubtype(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *redStoneClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error) {
	out := new(GetResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Get", in, out, withJSONSubtype(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *redStoneClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	out := new(DeleteResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Delete", in, out, withJSONSubtype(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *redStoneClient) GetStats(ctx context.Context, in *StatsRequest, opts ...grpc.CallOption) (*StatsResponse, error) {
	out := new(StatsResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetStats", in, out, withJSONSubtype(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}
