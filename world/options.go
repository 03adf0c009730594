package world

import "github.com/shacklettbp/miwe/arena"

type Options struct {
	// Number of entities the broadphase can hold.
	MaxEntities int

	// Capacity of the contact and event buffers for a single pass.
	MaxContacts int
	MaxEvents   int

	// Number of goroutines running narrowphase tests.
	NumWorkers int

	// Scratch memory strategy and the per worker capacity in elements.
	Allocator     arena.Strategy
	ArenaCapacity int

	// Pair scheduler: "naive" or "perfect".
	Scheduler string
}

// DefaultOptions returns options suitable for small scenes.
func DefaultOptions() Options {
	return Options{
		MaxEntities:   1024,
		MaxContacts:   4096,
		MaxEvents:     1024,
		NumWorkers:    4,
		Allocator:     arena.Heap,
		ArenaCapacity: arena.DefaultCapacity,
		Scheduler:     "perfect",
	}
}
