package broadphase

import "errors"

var (
	ErrLeafCapacity  = errors.New("broadphase: leaf capacity exceeded")
	ErrInvalidLeaf   = errors.New("broadphase: leaf id out of range")
	ErrStackOverflow = errors.New("broadphase: traversal stack overflow")
	ErrNotBuilt      = errors.New("broadphase: tree has not been built")
)
