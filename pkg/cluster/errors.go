package cluster

import "errors"

// ErrMaxRetriesExceeded is returned when every attempt for an operation
// has been exhausted and the last one still failed retryably (spec.md
// §4.5 step 5).
var ErrMaxRetriesExceeded = errors.New("redstone: max retries exceeded")
