package world

import (
	"fmt"

	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/narrowphase"
	"github.com/shacklettbp/miwe/types"
)

// Half size of the slab used as the object space bounds of a plane.
const planeExtent = 1e4

// ObjectManager is the table of primitives shared by all entities. Objects
// are registered before a pass starts and are read-only afterwards.
type ObjectManager struct {
	primitives []narrowphase.Primitive
	bounds     []geo.AABB
}

func NewObjectManager() *ObjectManager {
	return &ObjectManager{}
}

func (m *ObjectManager) add(prim narrowphase.Primitive, bounds geo.AABB) narrowphase.ObjectID {
	m.primitives = append(m.primitives, prim)
	m.bounds = append(m.bounds, bounds)
	return narrowphase.ObjectID(len(m.primitives) - 1)
}

// AddSphere registers a sphere centered at the object origin.
func (m *ObjectManager) AddSphere(radius float32) (narrowphase.ObjectID, error) {
	if !(radius > 0) {
		return -1, fmt.Errorf("sphere radius %f: %w", radius, ErrInvalidObject)
	}
	r := types.XYZ(radius, radius, radius)
	return m.add(narrowphase.Sphere{Radius: radius}, geo.AABB{Min: r.Mul(-1), Max: r}), nil
}

// AddHull registers a convex hull after validating its topology.
func (m *ObjectManager) AddHull(mesh *geo.HalfEdgeMesh) (narrowphase.ObjectID, error) {
	if mesh == nil || mesh.NumVertices() == 0 {
		return -1, fmt.Errorf("empty hull: %w", ErrInvalidObject)
	}
	if err := mesh.Validate(); err != nil {
		return -1, err
	}
	return m.add(narrowphase.Hull{Mesh: mesh}, mesh.AABB()), nil
}

// AddBox registers a box hull with the given half extents.
func (m *ObjectManager) AddBox(halfExtents types.Vec3) (narrowphase.ObjectID, error) {
	if !(halfExtents[0] > 0 && halfExtents[1] > 0 && halfExtents[2] > 0) {
		return -1, fmt.Errorf("box half extents %v: %w", halfExtents, ErrInvalidObject)
	}
	return m.AddHull(geo.NewBoxMesh(halfExtents))
}

// AddPlane registers the plane z = 0 with a +Z normal. Entities orient and
// place it through their pose.
func (m *ObjectManager) AddPlane() narrowphase.ObjectID {
	return m.add(narrowphase.Plane{}, geo.AABB{
		Min: types.XYZ(-planeExtent, -planeExtent, -planeExtent),
		Max: types.XYZ(planeExtent, planeExtent, 0),
	})
}

// NumObjects returns the number of registered objects.
func (m *ObjectManager) NumObjects() int { return len(m.primitives) }

func (m *ObjectManager) Primitive(obj narrowphase.ObjectID) narrowphase.Primitive {
	return m.primitives[obj]
}

func (m *ObjectManager) AABB(obj narrowphase.ObjectID) geo.AABB {
	return m.bounds[obj]
}

func (m *ObjectManager) valid(obj narrowphase.ObjectID) bool {
	return obj >= 0 && int(obj) < len(m.primitives)
}
