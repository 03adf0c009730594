package arena

import (
	"fmt"
	"strings"

	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

// Strategy selects how an allocator obtains its backing memory.
type Strategy uint8

const (
	// Heap arenas grow by appending new chunks whenever the current chunk
	// cannot satisfy a request.
	Heap Strategy = iota

	// Fixed arenas preallocate their whole capacity and fail with
	// ErrExhausted once it is used up.
	Fixed
)

// The default number of elements per chunk for each element type.
const DefaultCapacity = 4096

// Allocator hands out typed scratch slices. Slices stay valid until the
// next call to Reset; there is no way to free a single allocation.
//
// Returned slices have their capacity clipped to their length so appending
// to them never writes into memory owned by another allocation.
//
// An Allocator is not safe for concurrent use. Workers running in parallel
// each own a separate instance.
type Allocator interface {
	// Allocate n zeroed vectors.
	Vec3s(n int) ([]types.Vec3, error)

	// Allocate n zeroed planes.
	Planes(n int) ([]geo.Plane, error)

	// Allocate n zeroed scalars.
	Float32s(n int) ([]float32, error)

	// Release every allocation at once.
	Reset()

	// The number of elements handed out since the last Reset.
	Used() int
}

// New creates an allocator for the given strategy. The capacity is the
// number of elements reserved per element type; for heap arenas it is the
// size of each chunk.
func New(strategy Strategy, capacity int) (Allocator, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	switch strategy {
	case Heap:
		return newHeapArena(capacity), nil
	case Fixed:
		return newFixedArena(capacity), nil
	}

	return nil, fmt.Errorf("strategy %d: %w", strategy, ErrUnknownStrategy)
}

// ParseStrategy maps a strategy name ("heap" or "fixed") to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "heap":
		return Heap, nil
	case "fixed":
		return Fixed, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
}

func (s Strategy) String() string {
	switch s {
	case Heap:
		return "heap"
	case Fixed:
		return "fixed"
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// A bump allocator for a single element type. Chunks are retained across
// resets so a warmed-up pool stops allocating.
type pool[T any] struct {
	chunks    [][]T
	chunk     int
	offset    int
	chunkSize int
	growable  bool
	used      int
}

func newPool[T any](chunkSize int, growable bool) *pool[T] {
	return &pool[T]{
		chunks:    [][]T{make([]T, chunkSize)},
		chunkSize: chunkSize,
		growable:  growable,
	}
}

func (p *pool[T]) alloc(n int) ([]T, error) {
	if n < 0 {
		return nil, ErrInvalidSize
	}

	for {
		cur := p.chunks[p.chunk]
		if p.offset+n <= len(cur) {
			out := cur[p.offset : p.offset+n : p.offset+n]
			clear(out)
			p.offset += n
			p.used += n
			return out, nil
		}

		if !p.growable {
			return nil, fmt.Errorf("requested %d elements with %d of %d in use: %w", n, p.offset, len(cur), ErrExhausted)
		}

		// Move to the next retained chunk or append a new one large
		// enough for this request.
		p.chunk++
		p.offset = 0
		if p.chunk == len(p.chunks) {
			size := p.chunkSize
			if n > size {
				size = n
			}
			p.chunks = append(p.chunks, make([]T, size))
		}
	}
}

func (p *pool[T]) reset() {
	p.chunk = 0
	p.offset = 0
	p.used = 0
}
