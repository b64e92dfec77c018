// Package client is a thin single-node stub over the redstone wire
// protocol: typed Put/Get/Delete/GetStats helpers around a
// *grpc.ClientConn, per spec.md §4.4.
//
// © 2025 redstone authors. MIT License.
package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/pri1712/redstone/pkg/tensor"
	"github.com/pri1712/redstone/pkg/tensorcacherpc"
)

// ErrNotFound is returned by nothing in this package directly — Get
// reports absence via its bool return, mirroring spec.md §4.4's "absent
// is a sentinel, not an error". It is exported so callers composing
// higher-level absent-on-miss semantics (e.g. pkg/cluster) have a
// stable value to compare against if they choose to surface one.
var ErrNotFound = errors.New("redstone: key not found")

// StatusError wraps a non-OK, non-NotFound gRPC status returned by the
// server, carrying the original code for callers that need to branch on
// it (e.g. pkg/cluster's retry classifier).
type StatusError struct {
	Code    codes.Code
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("redstone: %s: %s", e.Code, e.Message)
}

// Stats is the client-side mirror of engine.Stats, decoded off the wire.
type Stats struct {
	Entries           int64
	MemoryUsed        uint64
	MemoryLimit       uint64
	Hits              uint64
	Misses            uint64
	Evictions         uint64
	HitRate           float64
	MemoryUtilization float64
}

// Client is a connection to a single redstone node. The zero value is
// not usable; construct with Dial or New.
type Client struct {
	conn *grpc.ClientConn
	rpc  tensorcacherpc.RedStoneClient
}

// Dial opens a new connection to address and wraps it in a Client.
func Dial(address string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("redstone: dial %s: %w", address, err)
	}
	return New(conn), nil
}

// New wraps an existing *grpc.ClientConn. The Client does not own the
// connection's lifecycle beyond what Close does.
func New(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn, rpc: tensorcacherpc.NewRedStoneClient(conn)}
}

// Clone returns a new Client sharing this one's underlying connection;
// connection pooling belongs to the transport layer, not the stub
// (spec.md §4.4).
func (c *Client) Clone() *Client {
	return &Client{conn: c.conn, rpc: c.rpc}
}

// Close tears down the underlying connection. Clones sharing it become
// unusable too.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Put stores t under key. It returns *StatusError on AlreadyExists,
// ResourceExhausted or InvalidArgument, per spec.md §4.3's table.
func (c *Client) Put(ctx context.Context, key string, t tensor.Tensor) error {
	meta := t.Metadata()
	req := &tensorcacherpc.PutRequest{
		Key: key,
		Meta: &tensorcacherpc.TensorMetaWire{
			DType:  dtypeToWire(meta.DType()),
			Shape:  meta.Shape(),
			Layout: layoutToWire(meta.Layout()),
		},
		Data: t.Payload(),
	}
	if _, err := c.rpc.Put(ctx, req); err != nil {
		return translateError(err)
	}
	return nil
}

// Get fetches key. A miss is reported as (zero Tensor, false, nil), not
// an error: the server's NotFound status is translated into an absent
// sentinel per spec.md §4.4.
func (c *Client) Get(ctx context.Context, key string) (tensor.Tensor, bool, error) {
	resp, err := c.rpc.Get(ctx, &tensorcacherpc.GetRequest{Key: key})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return tensor.Tensor{}, false, nil
		}
		return tensor.Tensor{}, false, translateError(err)
	}
	dtype, derr := dtypeFromWire(resp.Meta.DType)
	if derr != nil {
		return tensor.Tensor{}, false, derr
	}
	meta, err := tensor.NewMetadata(dtype, resp.Meta.Shape, layoutFromWire(resp.Meta.Layout))
	if err != nil {
		return tensor.Tensor{}, false, err
	}
	t, err := tensor.New(meta, resp.Data)
	if err != nil {
		return tensor.Tensor{}, false, err
	}
	return t, true, nil
}

// Delete removes key and reports whether it was present.
func (c *Client) Delete(ctx context.Context, key string) (bool, error) {
	resp, err := c.rpc.Delete(ctx, &tensorcacherpc.DeleteRequest{Key: key})
	if err != nil {
		return false, translateError(err)
	}
	return resp.Deleted, nil
}

// GetStats fetches a point-in-time snapshot from the node.
func (c *Client) GetStats(ctx context.Context) (Stats, error) {
	resp, err := c.rpc.GetStats(ctx, &tensorcacherpc.StatsRequest{})
	if err != nil {
		return Stats{}, translateError(err)
	}
	return Stats{
		Entries:           resp.Entries,
		MemoryUsed:        resp.MemoryUsed,
		MemoryLimit:       resp.MemoryLimit,
		Hits:              resp.Hits,
		Misses:            resp.Misses,
		Evictions:         resp.Evictions,
		HitRate:           resp.HitRate,
		MemoryUtilization: resp.MemoryUtilization,
	}, nil
}

func translateError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &StatusError{Code: st.Code(), Message: st.Message()}
}
