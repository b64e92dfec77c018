package tensor

// Tensor is an immutable metadata + payload pair. Once constructed its
// payload is never partially written or resized; it is safe to share a
// Tensor by value or by reference across goroutines and across cache
// eviction, since nothing ever mutates it in place.
type Tensor struct {
	meta    Metadata
	payload []byte
}

// New validates that payload's length matches the metadata's declared
// byte size and constructs a Tensor. The payload is copied so the caller
// cannot mutate the tensor's contents after construction.
func New(meta Metadata, payload []byte) (Tensor, error) {
	if uint64(len(payload)) != meta.ByteSize() {
		return Tensor{}, ErrInvalidTensor
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return Tensor{meta: meta, payload: buf}, nil
}

// Metadata returns the tensor's metadata.
func (t Tensor) Metadata() Metadata { return t.meta }

// Payload returns the raw byte buffer. Callers must not mutate the
// returned slice: Tensor is shared by reference from the cache and
// mutation would violate the immutability invariant for every other
// holder of the same Tensor.
func (t Tensor) Payload() []byte { return t.payload }

// ByteSize returns len(Payload()), equivalently Metadata().ByteSize().
func (t Tensor) ByteSize() uint64 { return uint64(len(t.payload)) }
