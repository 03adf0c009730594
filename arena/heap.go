package arena

import (
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

type heapArena struct {
	vec3s  *pool[types.Vec3]
	planes *pool[geo.Plane]
	floats *pool[float32]
}

func newHeapArena(chunkSize int) *heapArena {
	return &heapArena{
		vec3s:  newPool[types.Vec3](chunkSize, true),
		planes: newPool[geo.Plane](chunkSize, true),
		floats: newPool[float32](chunkSize, true),
	}
}

func (a *heapArena) Vec3s(n int) ([]types.Vec3, error) { return a.vec3s.alloc(n) }
func (a *heapArena) Planes(n int) ([]geo.Plane, error) { return a.planes.alloc(n) }
func (a *heapArena) Float32s(n int) ([]float32, error) { return a.floats.alloc(n) }

func (a *heapArena) Reset() {
	a.vec3s.reset()
	a.planes.reset()
	a.floats.reset()
}

func (a *heapArena) Used() int {
	return a.vec3s.used + a.planes.used + a.floats.used
}
