package cluster

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/pri1712/redstone/pkg/tensor"
	"github.com/pri1712/redstone/pkg/tensorcacherpc"
)

const bufSize = 1 << 20

// scriptedServer answers Put with a caller-supplied sequence of
// statuses, one per call, repeating the last entry once exhausted.
type scriptedServer struct {
	tensorcacherpc.RedStoneServer
	statuses []codes.Code
	calls    atomic.Int64
}

func (s *scriptedServer) Put(_ context.Context, _ *tensorcacherpc.PutRequest) (*tensorcacherpc.PutResponse, error) {
	n := s.calls.Add(1) - 1
	idx := int(n)
	if idx >= len(s.statuses) {
		idx = len(s.statuses) - 1
	}
	code := s.statuses[idx]
	if code == codes.OK {
		return &tensorcacherpc.PutResponse{}, nil
	}
	return nil, status.Error(code, "scripted failure")
}

func testDialOpts(lis *bufconn.Listener) []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
}

func oneTensor(t *testing.T) tensor.Tensor {
	t.Helper()
	meta, err := tensor.NewMetadata(tensor.DTypeF32, []uint64{1}, tensor.LayoutRowMajor)
	if err != nil {
		t.Fatalf("NewMetadata: %v", err)
	}
	tn, err := tensor.New(meta, make([]byte, meta.ByteSize()))
	if err != nil {
		t.Fatalf("tensor.New: %v", err)
	}
	return tn
}

// Scenario 9: two transient Unavailable failures followed by success —
// three attempts observed, router ultimately succeeds.
func TestRouterRetriesTransientFailures(t *testing.T) {
	srv := &scriptedServer{statuses: []codes.Code{codes.Unavailable, codes.Unavailable, codes.OK}}
	lis := bufconn.Listen(bufSize)
	gs := grpc.NewServer()
	tensorcacherpc.RegisterRedStoneServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	defer gs.Stop()

	node := Node{Name: "n0", Address: "passthrough:///bufnet"}
	cfg := RouterConfig{MaxRetries: 3, Timeout: 2 * time.Second, VirtualNodeCount: 8}
	r := NewRouter([]Node{node}, cfg, WithDialOptions(testDialOpts(lis)...))
	defer func() { _ = r.Close() }()

	if err := r.Put(context.Background(), "k", oneTensor(t)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := srv.calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

// Scenario 10: a terminal AlreadyExists surfaces on the first attempt,
// with no retry.
func TestRouterDoesNotRetryTerminalErrors(t *testing.T) {
	srv := &scriptedServer{statuses: []codes.Code{codes.AlreadyExists}}
	lis := bufconn.Listen(bufSize)
	gs := grpc.NewServer()
	tensorcacherpc.RegisterRedStoneServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	defer gs.Stop()

	node := Node{Name: "n0", Address: "passthrough:///bufnet"}
	cfg := RouterConfig{MaxRetries: 3, Timeout: 2 * time.Second, VirtualNodeCount: 8}
	r := NewRouter([]Node{node}, cfg, WithDialOptions(testDialOpts(lis)...))
	defer func() { _ = r.Close() }()

	err := r.Put(context.Background(), "k", oneTensor(t))
	if err == nil {
		t.Fatalf("Put err = nil, want AlreadyExists-wrapped error")
	}
	if got := srv.calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1 (non-retryable must not retry)", got)
	}
}

func TestRouterGivesUpAfterMaxRetries(t *testing.T) {
	srv := &scriptedServer{statuses: []codes.Code{codes.Unavailable}}
	lis := bufconn.Listen(bufSize)
	gs := grpc.NewServer()
	tensorcacherpc.RegisterRedStoneServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	defer gs.Stop()

	node := Node{Name: "n0", Address: "passthrough:///bufnet"}
	cfg := RouterConfig{MaxRetries: 3, Timeout: 2 * time.Second, VirtualNodeCount: 8}
	r := NewRouter([]Node{node}, cfg, WithDialOptions(testDialOpts(lis)...))
	defer func() { _ = r.Close() }()

	err := r.Put(context.Background(), "k", oneTensor(t))
	if err == nil {
		t.Fatalf("Put err = nil, want ErrMaxRetriesExceeded")
	}
	if got := srv.calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}
