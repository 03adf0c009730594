package geo

import "errors"

var (
	ErrDegenerateFace = errors.New("geo: face has fewer than 3 vertices or zero area")
	ErrOpenMesh       = errors.New("geo: half-edge has no twin; mesh is not closed")
	ErrNonManifold    = errors.New("geo: directed edge is shared by more than one face")
	ErrInvalidIndex   = errors.New("geo: vertex index out of range")
	ErrBrokenTopology = errors.New("geo: half-edge topology is inconsistent")
)
