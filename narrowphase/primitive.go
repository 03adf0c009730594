package narrowphase

import (
	"fmt"

	"github.com/shacklettbp/miwe/geo"
)

// PrimitiveType tags a collision primitive. The values are distinct powers
// of two so OR-ing the tags of a pair yields a unique PairTest.
type PrimitiveType uint32

const (
	SphereType PrimitiveType = 1 << iota
	HullType
	PlaneType
)

func (t PrimitiveType) String() string {
	switch t {
	case SphereType:
		return "sphere"
	case HullType:
		return "hull"
	case PlaneType:
		return "plane"
	}
	return fmt.Sprintf("PrimitiveType(%d)", uint32(t))
}

// Primitive is a collision shape. It is implemented by Sphere, Hull and
// Plane only.
type Primitive interface {
	Type() PrimitiveType
	isPrimitive()
}

// Sphere is centered at the entity position.
type Sphere struct {
	Radius float32
}

// Hull is a convex polytope in object space.
type Hull struct {
	Mesh *geo.HalfEdgeMesh
}

// Plane is the infinite plane through the entity position whose normal is
// the entity rotation applied to +Z. Planes are always static.
type Plane struct{}

func (Sphere) Type() PrimitiveType { return SphereType }
func (Hull) Type() PrimitiveType { return HullType }
func (Plane) Type() PrimitiveType { return PlaneType }

func (Sphere) isPrimitive() {}
func (Hull) isPrimitive() {}
func (Plane) isPrimitive() {}

// PairTest identifies the exact test for an unordered pair of primitive
// types.
type PairTest uint32

const (
	SphereSphere PairTest = 1
	HullHull     PairTest = 2
	SphereHull   PairTest = 3
	PlanePlane   PairTest = 4
	SpherePlane  PairTest = 5
	HullPlane    PairTest = 6
)

// TestFor returns the test key for a pair of primitive types.
func TestFor(a, b PrimitiveType) PairTest {
	return PairTest(a | b)
}

func (t PairTest) String() string {
	switch t {
	case SphereSphere:
		return "sphere/sphere"
	case HullHull:
		return "hull/hull"
	case SphereHull:
		return "sphere/hull"
	case PlanePlane:
		return "plane/plane"
	case SpherePlane:
		return "sphere/plane"
	case HullPlane:
		return "hull/plane"
	}
	return fmt.Sprintf("PairTest(%d)", uint32(t))
}
