package cluster

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"

	"github.com/pri1712/redstone/pkg/client"
)

// isRetryable implements spec.md §4.5's retryable taxonomy: transport
// failures, transient timeouts, and server-reported {Unavailable,
// DeadlineExceeded, Internal} are retryable; {AlreadyExists, NotFound,
// InvalidArgument, ResourceExhausted} are terminal since retrying
// cannot change the outcome.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var se *client.StatusError
	if !errors.As(err, &se) {
		// connection-establishment failures (NodePool.GetOrCreate) and any
		// other non-status error are transport-level: retryable.
		return true
	}
	switch se.Code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal:
		return true
	case codes.AlreadyExists, codes.NotFound, codes.InvalidArgument, codes.ResourceExhausted:
		return false
	default:
		return false
	}
}
