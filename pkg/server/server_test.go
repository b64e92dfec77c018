package server

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/pri1712/redstone/pkg/engine"
	"github.com/pri1712/redstone/pkg/tensorcacherpc"
)

const bufSize = 1 << 20

func startTestServer(t *testing.T, maxBytes uint64) (tensorcacherpc.RedStoneClient, func()) {
	t.Helper()

	cache, err := engine.New(maxBytes)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	lis := bufconn.Listen(bufSize)
	gs := grpc.NewServer()
	tensorcacherpc.RegisterRedStoneServer(gs, New(cache, nil))
	go func() { _ = gs.Serve(lis) }()

	dialer := func(context.Context, string) (net.Conn, error) { return lis.Dial() }
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}

	cleanup := func() {
		_ = conn.Close()
		gs.Stop()
		cache.Close()
	}
	return tensorcacherpc.NewRedStoneClient(conn), cleanup
}

func f32Meta(shape ...uint64) *tensorcacherpc.TensorMetaWire {
	return &tensorcacherpc.TensorMetaWire{DType: tensorcacherpc.DTypeF32, Shape: shape, Layout: tensorcacherpc.LayoutRowMajor}
}

func TestPutGetRoundTrip(t *testing.T) {
	client, cleanup := startTestServer(t, 1024)
	defer cleanup()
	ctx := context.Background()

	data := make([]byte, 16) // 2x2 f32
	if _, err := client.Put(ctx, &tensorcacherpc.PutRequest{Key: "k", Meta: f32Meta(2, 2), Data: data}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := client.Get(ctx, &tensorcacherpc.GetRequest{Key: "k"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Data) != 16 {
		t.Fatalf("Get data len = %d, want 16", len(got.Data))
	}
}

func TestGetAbsentIsNotFound(t *testing.T) {
	client, cleanup := startTestServer(t, 1024)
	defer cleanup()

	_, err := client.Get(context.Background(), &tensorcacherpc.GetRequest{Key: "missing"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("Get code = %v, want NotFound", status.Code(err))
	}
}

func TestPutDuplicateIsAlreadyExists(t *testing.T) {
	client, cleanup := startTestServer(t, 1024)
	defer cleanup()
	ctx := context.Background()

	req := &tensorcacherpc.PutRequest{Key: "dup", Meta: f32Meta(1), Data: make([]byte, 4)}
	if _, err := client.Put(ctx, req); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	_, err := client.Put(ctx, req)
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("second Put code = %v, want AlreadyExists", status.Code(err))
	}
}

func TestPutOversizedIsResourceExhausted(t *testing.T) {
	client, cleanup := startTestServer(t, 8)
	defer cleanup()

	req := &tensorcacherpc.PutRequest{Key: "big", Meta: f32Meta(4), Data: make([]byte, 16)}
	_, err := client.Put(context.Background(), req)
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("Put code = %v, want ResourceExhausted", status.Code(err))
	}
}

func TestPutUnspecifiedDTypeIsInvalidArgument(t *testing.T) {
	client, cleanup := startTestServer(t, 1024)
	defer cleanup()

	req := &tensorcacherpc.PutRequest{
		Key:  "bad",
		Meta: &tensorcacherpc.TensorMetaWire{DType: tensorcacherpc.DTypeUnspecified, Shape: []uint64{1}},
		Data: make([]byte, 4),
	}
	_, err := client.Put(context.Background(), req)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("Put code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestPutPayloadLengthMismatchIsInvalidArgument(t *testing.T) {
	client, cleanup := startTestServer(t, 1024)
	defer cleanup()

	req := &tensorcacherpc.PutRequest{Key: "mismatch", Meta: f32Meta(4), Data: make([]byte, 3)}
	_, err := client.Put(context.Background(), req)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("Put code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestDeleteReportsPresence(t *testing.T) {
	client, cleanup := startTestServer(t, 1024)
	defer cleanup()
	ctx := context.Background()

	if _, err := client.Put(ctx, &tensorcacherpc.PutRequest{Key: "k", Meta: f32Meta(1), Data: make([]byte, 4)}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	resp, err := client.Delete(ctx, &tensorcacherpc.DeleteRequest{Key: "k"})
	if err != nil || !resp.Deleted {
		t.Fatalf("Delete = %+v, %v, want deleted=true", resp, err)
	}
	resp, err = client.Delete(ctx, &tensorcacherpc.DeleteRequest{Key: "k"})
	if err != nil || resp.Deleted {
		t.Fatalf("second Delete = %+v, %v, want deleted=false", resp, err)
	}
}

func TestGetStats(t *testing.T) {
	client, cleanup := startTestServer(t, 1024)
	defer cleanup()
	ctx := context.Background()

	_, _ = client.Put(ctx, &tensorcacherpc.PutRequest{Key: "k", Meta: f32Meta(1), Data: make([]byte, 4)})
	_, _ = client.Get(ctx, &tensorcacherpc.GetRequest{Key: "k"})

	stats, err := client.GetStats(ctx, &tensorcacherpc.StatsRequest{})
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Entries != 1 || stats.Hits != 1 || stats.MemoryUsed != 4 {
		t.Fatalf("stats = %+v, want entries=1 hits=1 used=4", stats)
	}
}
