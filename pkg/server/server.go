// Package server implements the gRPC-facing side of redstone: it adapts
// the wire messages in pkg/tensorcacherpc onto pkg/engine operations and
// translates engine sentinel errors into codes.Code + status.Error, per
// spec.md §4.3.
//
// © 2025 redstone authors. MIT License.
package server

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pri1712/redstone/pkg/engine"
	"github.com/pri1712/redstone/pkg/tensor"
	"github.com/pri1712/redstone/pkg/tensorcacherpc"
)

// CacheServer implements tensorcacherpc.RedStoneServer over a single
// in-process *engine.Cache.
type CacheServer struct {
	cache  *engine.Cache
	logger *zap.Logger
}

// New wraps cache for gRPC serving. A nil logger disables logging.
func New(cache *engine.Cache, logger *zap.Logger) *CacheServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheServer{cache: cache, logger: logger}
}

var _ tensorcacherpc.RedStoneServer = (*CacheServer)(nil)

func (s *CacheServer) Put(_ context.Context, req *tensorcacherpc.PutRequest) (*tensorcacherpc.PutResponse, error) {
	if req.Meta == nil {
		return nil, status.Error(codes.InvalidArgument, "missing tensor metadata")
	}
	dtype, err := dtypeFromWire(req.Meta.DType)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	layout, err := layoutFromWire(req.Meta.Layout)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	meta, err := tensor.NewMetadata(dtype, req.Meta.Shape, layout)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	t, err := tensor.New(meta, req.Data)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	switch err := s.cache.Put(req.Key, t); {
	case err == nil:
		return &tensorcacherpc.PutResponse{}, nil
	case errors.Is(err, engine.ErrAlreadyExists):
		return nil, status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, engine.ErrOutOfMemory):
		return nil, status.Error(codes.ResourceExhausted, err.Error())
	default:
		s.logger.Error("put failed", zap.String("key", req.Key), zap.Error(err))
		return nil, status.Error(codes.Internal, err.Error())
	}
}

func (s *CacheServer) Get(_ context.Context, req *tensorcacherpc.GetRequest) (*tensorcacherpc.GetResponse, error) {
	t, ok := s.cache.Get(req.Key)
	if !ok {
		return nil, status.Error(codes.NotFound, "key not found: "+req.Key)
	}
	meta := t.Metadata()
	return &tensorcacherpc.GetResponse{
		Meta: &tensorcacherpc.TensorMetaWire{
			DType:  dtypeToWire(meta.DType()),
			Shape:  meta.Shape(),
			Layout: layoutToWire(meta.Layout()),
		},
		Data: t.Payload(),
	}, nil
}

func (s *CacheServer) Delete(_ context.Context, req *tensorcacherpc.DeleteRequest) (*tensorcacherpc.DeleteResponse, error) {
	return &tensorcacherpc.DeleteResponse{Deleted: s.cache.Delete(req.Key)}, nil
}

func (s *CacheServer) GetStats(_ context.Context, _ *tensorcacherpc.StatsRequest) (*tensorcacherpc.StatsResponse, error) {
	st := s.cache.Stats()
	return &tensorcacherpc.StatsResponse{
		Entries:           int64(st.Entries),
		MemoryUsed:        st.MemoryUsed,
		MemoryLimit:       st.MemoryLimit,
		Hits:              st.Hits,
		Misses:            st.Misses,
		Evictions:         st.Evictions,
		HitRate:           st.HitRate,
		MemoryUtilization: st.MemoryUtilization,
	}, nil
}
