package narrowphase

import "errors"

var (
	ErrUnimplemented     = errors.New("narrowphase: sphere/hull collision is not implemented")
	ErrUnreachable       = errors.New("narrowphase: plane/plane pair reached the narrowphase")
	ErrPrimitiveMismatch = errors.New("narrowphase: primitive payload does not match its type tag")
	ErrUnknownPrimitive  = errors.New("narrowphase: unknown primitive type combination")
	ErrNoAllocator       = errors.New("narrowphase: no scratch allocator supplied")
	ErrEmptyHull         = errors.New("narrowphase: hull has no vertices or faces")
)
