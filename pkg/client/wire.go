package client

import (
	"fmt"

	"github.com/pri1712/redstone/pkg/tensor"
	"github.com/pri1712/redstone/pkg/tensorcacherpc"
)

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

func dtypeFromWire(w tensorcacherpc.DTypeWire) (tensor.DType, error) {
	switch w {
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
		return 0, fmt.Errorf("redstone: server returned unrecognized dtype ordinal %d", w)
	}
}

func layoutToWire(l tensor.Layout) tensorcacherpc.LayoutWire {
	if l == tensor.LayoutColumnMajor {
		return tensorcacherpc.LayoutColumnMajor
	}
	return tensorcacherpc.LayoutRowMajor
}

func layoutFromWire(w tensorcacherpc.LayoutWire) tensor.Layout {
	if w == tensorcacherpc.LayoutColumnMajor {
		return tensor.LayoutColumnMajor
	}
	return tensor.LayoutRowMajor
}
