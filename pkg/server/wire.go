package server

import (
	"errors"

	"github.com/pri1712/redstone/pkg/tensor"
	"github.com/pri1712/redstone/pkg/tensorcacherpc"
)

// errUnspecifiedDType, errUnknownDType and errUnknownLayout back the "every wire enum value
// maps to exactly one internal value or to InvalidArgument" rule in
// spec.md §4.3: UNSPECIFIED and any out-of-range ordinal are rejected
// the same way.
var (
	errUnspecifiedDType = errors.New("dtype UNSPECIFIED is not a valid wire value")
	errUnknownDType     = errors.New("unknown dtype ordinal")
	errUnknownLayout    = errors.New("unknown layout ordinal")
)

func dtypeFromWire(w tensorcacherpc.DTypeWire) (tensor.DType, error) {
	switch w {
	case tensorcacherpc.DTypeUnspecified:
		return 0, errUnspecifiedDType
	case tensorcacherpc.DTypeF32:
		return tensor.DTypeF32, nil
	case tensorcacherpc.DTypeF64:
		return tensor.DTypeF64, nil
	case tensorcacherpc.DTypeI32:
		return tensor.DTypeI32, nil
	case tensorcacherpc.DTypeI64:
		return tensor.DTypeI64, nil
	case tensorcacherpc.DTypeU8:
		return tensor.DTypeU8, nil
	default:
		return 0, errUnknownDType
	}
}

func dtypeToWire(d tensor.DType) tensorcacherpc.DTypeWire {
	switch d {
	case tensor.DTypeF32:
		return tensorcacherpc.DTypeF32
	case tensor.DTypeF64:
		return tensorcacherpc.DTypeF64
	case tensor.DTypeI32:
		return tensorcacherpc.DTypeI32
	case tensor.DTypeI64:
		return tensorcacherpc.DTypeI64
	case tensor.DTypeU8:
		return tensorcacherpc.DTypeU8
	default:
		return tensorcacherpc.DTypeUnspecified
	}
}

func layoutFromWire(w tensorcacherpc.LayoutWire) (tensor.Layout, error) {
	switch w {
	case tensorcacherpc.LayoutRowMajor:
		return tensor.LayoutRowMajor, nil
	case tensorcacherpc.LayoutColumnMajor:
		return tensor.LayoutColumnMajor, nil
	default:
		return 0, errUnknownLayout
	}
}

func layoutToWire(l tensor.Layout) tensorcacherpc.LayoutWire {
	if l == tensor.LayoutColumnMajor {
		return tensorcacherpc.LayoutColumnMajor
	}
	return tensorcacherpc.LayoutRowMajor
}
