package tensor

import (
	"errors"
	"math/bits"
)

// Errors returned by metadata and tensor construction. Checked with
// errors.Is by callers that translate them to wire statuses.
var (
	ErrInvalidMetadata = errors.New("tensor: invalid metadata")
	ErrInvalidTensor   = errors.New("tensor: invalid tensor")
)

// Metadata describes the shape, element type and memory layout of a
// tensor. It is immutable once constructed: NewMetadata validates every
// invariant up front so no partially-valid Metadata is ever observable.
type Metadata struct {
	dtype  DType
	shape  []uint64
	layout Layout
}

// NewMetadata validates and constructs tensor metadata. It fails when the
// dtype or layout is not one of the named enum values, when shape is
// empty, when any dimension is zero, or when product(shape) * sizeof(dtype)
// overflows a 64-bit unsigned integer.
func NewMetadata(dtype DType, shape []uint64, layout Layout) (Metadata, error) {
	if !dtype.Valid() {
		return Metadata{}, ErrInvalidMetadata
	}
	if !layout.Valid() {
		return Metadata{}, ErrInvalidMetadata
	}
	if len(shape) == 0 {
		return Metadata{}, ErrInvalidMetadata
	}
	shapeCopy := make([]uint64, len(shape))
	copy(shapeCopy, shape)
	for _, dim := range shapeCopy {
		if dim == 0 {
			return Metadata{}, ErrInvalidMetadata
		}
	}
	if _, err := byteSizeOf(shapeCopy, dtype); err != nil {
		return Metadata{}, ErrInvalidMetadata
	}
	return Metadata{dtype: dtype, shape: shapeCopy, layout: layout}, nil
}

// byteSizeOf multiplies the dimensions and the element size, failing on
// overflow instead of wrapping silently.
func byteSizeOf(shape []uint64, dtype DType) (uint64, error) {
	total := uint64(1)
	for _, dim := range shape {
		hi, lo := bits.Mul64(total, dim)
		if hi != 0 {
			return 0, ErrInvalidMetadata
		}
		total = lo
	}
	hi, lo := bits.Mul64(total, dtype.byteSize())
	if hi != 0 {
		return 0, ErrInvalidMetadata
	}
	return lo, nil
}

// DType returns the element type.
func (m Metadata) DType() DType { return m.dtype }

// Layout returns the storage layout.
func (m Metadata) Layout() Layout { return m.layout }

// Shape returns a copy of the dimension sequence; callers cannot mutate
// the metadata's internal state through the returned slice.
func (m Metadata) Shape() []uint64 {
	out := make([]uint64, len(m.shape))
	copy(out, m.shape)
	return out
}

// NumElements returns product(shape). Only valid metadata reaches this
// point, so overflow cannot occur here (checked at construction).
func (m Metadata) NumElements() uint64 {
	total := uint64(1)
	for _, dim := range m.shape {
		total *= dim
	}
	return total
}

// ByteSize returns product(shape) * sizeof(dtype), the exact payload
// length a Tensor built from this metadata must carry.
func (m Metadata) ByteSize() uint64 {
	size, _ := byteSizeOf(m.shape, m.dtype)
	return size
}
