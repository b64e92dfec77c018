package client

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/pri1712/redstone/pkg/engine"
	"github.com/pri1712/redstone/pkg/server"
	"github.com/pri1712/redstone/pkg/tensor"
	"github.com/pri1712/redstone/pkg/tensorcacherpc"
)

const bufSize = 1 << 20

func startTestClient(t *testing.T, maxBytes uint64) (*Client, func()) {
	t.Helper()

	cache, err := engine.New(maxBytes)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	lis := bufconn.Listen(bufSize)
	gs := grpc.NewServer()
	tensorcacherpc.RegisterRedStoneServer(gs, server.New(cache, nil))
	go func() { _ = gs.Serve(lis) }()

	dialer := func(context.Context, string) (net.Conn, error) { return lis.Dial() }
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}

	c := New(conn)
	cleanup := func() {
		_ = c.Close()
		gs.Stop()
		cache.Close()
	}
	return c, cleanup
}

func mustTensor(t *testing.T, shape ...uint64) tensor.Tensor {
	t.Helper()
	meta, err := tensor.NewMetadata(tensor.DTypeF32, shape, tensor.LayoutRowMajor)
	if err != nil {
		t.Fatalf("NewMetadata: %v", err)
	}
	tn, err := tensor.New(meta, make([]byte, meta.ByteSize()))
	if err != nil {
		t.Fatalf("tensor.New: %v", err)
	}
	return tn
}

func TestClientPutGetRoundTrip(t *testing.T) {
	c, cleanup := startTestClient(t, 1024)
	defer cleanup()
	ctx := context.Background()

	tn := mustTensor(t, 2, 2)
	if err := c.Put(ctx, "k", tn); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v, %v", got, ok, err)
	}
	if got.ByteSize() != tn.ByteSize() {
		t.Fatalf("ByteSize = %d, want %d", got.ByteSize(), tn.ByteSize())
	}
}

func TestClientGetAbsentIsNotAnError(t *testing.T) {
	c, cleanup := startTestClient(t, 1024)
	defer cleanup()

	_, ok, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get err = %v, want nil", err)
	}
	if ok {
		t.Fatalf("Get ok = true, want false")
	}
}

func TestClientPutDuplicateReturnsStatusError(t *testing.T) {
	c, cleanup := startTestClient(t, 1024)
	defer cleanup()
	ctx := context.Background()

	tn := mustTensor(t, 1)
	if err := c.Put(ctx, "dup", tn); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	err := c.Put(ctx, "dup", tn)
	var se *StatusError
	if err == nil {
		t.Fatalf("second Put err = nil, want *StatusError")
	}
	if !asStatusError(err, &se) {
		t.Fatalf("err = %v (%T), want *StatusError", err, err)
	}
}

func asStatusError(err error, target **StatusError) bool {
	se, ok := err.(*StatusError)
	if ok {
		*target = se
	}
	return ok
}

func TestClientCloneSharesConnection(t *testing.T) {
	c, cleanup := startTestClient(t, 1024)
	defer cleanup()

	clone := c.Clone()
	if clone.conn != c.conn {
		t.Fatalf("Clone() did not share underlying connection")
	}
}

func TestClientDeleteAndStats(t *testing.T) {
	c, cleanup := startTestClient(t, 1024)
	defer cleanup()
	ctx := context.Background()

	tn := mustTensor(t, 1)
	_ = c.Put(ctx, "k", tn)

	deleted, err := c.Delete(ctx, "k")
	if err != nil || !deleted {
		t.Fatalf("Delete = %v, %v, want true, nil", deleted, err)
	}

	stats, err := c.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Entries != 0 {
		t.Fatalf("stats.Entries = %d, want 0", stats.Entries)
	}
}
