package world

import "errors"

var (
	ErrNoWorkers         = errors.New("world: at least one worker is required")
	ErrUnknownObject     = errors.New("world: unknown object")
	ErrUnknownEntity     = errors.New("world: unknown entity")
	ErrInvalidObject     = errors.New("world: invalid object parameters")
	ErrNonUniformSphere  = errors.New("world: spheres require a uniform scale")
	ErrUnknownScheduler  = errors.New("world: unknown scheduler")
	ErrInvalidCapacities = errors.New("world: entity and contact capacities must be positive")
)
