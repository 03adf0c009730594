package arena

import (
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

// A fixed arena never allocates after construction. It mirrors devices
// where scratch memory is carved out of a preallocated block.
type fixedArena struct {
	vec3s  *pool[types.Vec3]
	planes *pool[geo.Plane]
	floats *pool[float32]
}

func newFixedArena(capacity int) *fixedArena {
	return &fixedArena{
		vec3s:  newPool[types.Vec3](capacity, false),
		planes: newPool[geo.Plane](capacity, false),
		floats: newPool[float32](capacity, false),
	}
}

func (a *fixedArena) Vec3s(n int) ([]types.Vec3, error) { return a.vec3s.alloc(n) }
func (a *fixedArena) Planes(n int) ([]geo.Plane, error) { return a.planes.alloc(n) }
func (a *fixedArena) Float32s(n int) ([]float32, error) { return a.floats.alloc(n) }

func (a *fixedArena) Reset() {
	a.vec3s.reset()
	a.planes.reset()
	a.floats.reset()
}

func (a *fixedArena) Used() int {
	return a.vec3s.used + a.planes.used + a.floats.used
}
