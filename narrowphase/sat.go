package narrowphase

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/shacklettbp/miwe/arena"
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

// Edge directions whose normalized dot product is within this distance of
// +-1 are treated as parallel.
const parallelTolerance = 1e-4

// FaceQuery holds the face of one hull with the greatest separation from
// the other hull.
type FaceQuery struct {
	Separation float32
	Face       int32
}

// EdgeQuery holds the edge pair with the greatest separation. EdgeA and
// EdgeB are half-edge indices.
type EdgeQuery struct {
	Separation float32
	Normal     types.Vec3
	EdgeA      int32
	EdgeB      int32
}

// Frame is the rigid transform applied to a manifold once it is built.
type Frame struct {
	Offset   types.Vec3
	Rotation types.Quat
}

// IdentityFrame leaves manifolds in the space of the hull states.
func IdentityFrame() Frame {
	return Frame{Rotation: types.QuatIdent()}
}

func (f Frame) point(p types.Vec3) types.Vec3 {
	return f.Rotation.Rotate(p).Add(f.Offset)
}

func queryFaceDirections(a, b *HullState) FaceQuery {
	query := FaceQuery{Separation: -math.MaxFloat32}
	for i, plane := range a.FacePlanes {
		supportB := b.support(plane.Normal.Mul(-1))
		if dist := plane.Distance(supportB); dist > query.Separation {
			query = FaceQuery{Separation: dist, Face: int32(i)}
		}
	}
	return query
}

func queryFaceDirectionsPlane(plane geo.Plane, h *HullState) FaceQuery {
	support := h.support(plane.Normal.Mul(-1))
	return FaceQuery{Separation: plane.Distance(support)}
}

// Test whether the arcs a-b and c-d on the Gauss map intersect, which makes
// the cross product of the corresponding edges a face normal of the
// Minkowski difference.
func isMinkowskiFace(a, b, c, d types.Vec3) bool {
	bxa := b.Cross(a)
	dxc := d.Cross(c)

	cba := c.Dot(bxa)
	dba := d.Dot(bxa)
	adc := a.Dot(dxc)
	bdc := b.Dot(dxc)

	return cba*dba < 0 && adc*bdc < 0 && cba*bdc > 0
}

func buildsMinkowskiFace(a, b *HullState, edgeA, edgeB geo.HalfEdge) bool {
	aNormal1, aNormal2 := a.edgeNormals(edgeA)
	bNormal1, bNormal2 := b.edgeNormals(edgeB)
	return isMinkowskiFace(aNormal1, aNormal2, bNormal1.Mul(-1), bNormal2.Mul(-1))
}

func areParallel(a, b types.Vec3) bool {
	d := mgl32.Abs(a.Normalize().Dot(b.Normalize()))
	return mgl32.Abs(d-1) < parallelTolerance
}

// Return the separation of two edges along their common normal, which is
// oriented away from the center of a.
func edgeDistance(a, b *HullState, edgeA, edgeB geo.HalfEdge) (types.Vec3, float32) {
	segA := a.edgeSegment(edgeA)
	segB := b.edgeSegment(edgeB)
	dirA := segA.Direction()
	dirB := segB.Direction()

	if areParallel(dirA, dirB) {
		return types.Vec3{}, -math.MaxFloat32
	}

	normal := dirA.Cross(dirB).Normalize()
	if normal.Dot(segA.P1.Sub(a.Center)) < 0 {
		normal = normal.Mul(-1)
	}

	return normal, normal.Dot(segB.P1.Sub(segA.P1))
}

func queryEdgeDirections(a, b *HullState) EdgeQuery {
	query := EdgeQuery{Separation: -math.MaxFloat32}
	for _, heA := range a.EdgeIndices {
		edgeA := a.HalfEdges[heA]
		for _, heB := range b.EdgeIndices {
			edgeB := b.HalfEdges[heB]
			if !buildsMinkowskiFace(a, b, edgeA, edgeB) {
				continue
			}

			normal, separation := edgeDistance(a, b, edgeA, edgeB)
			if separation > query.Separation {
				query = EdgeQuery{
					Separation: separation,
					Normal:     normal,
					EdgeA:      heA,
					EdgeB:      heB,
				}
			}
		}
	}
	return query
}

// DoSAT tests two hulls for overlap with the separating axis theorem. A
// separating axis yields an empty manifold without touching the allocator.
// Otherwise a face contact is built when either face query beats the edge
// query and an edge contact is built when it does not.
func DoSAT(a, b *HullState, alloc arena.Allocator, frame Frame) (Manifold, error) {
	faceQueryA := queryFaceDirections(a, b)
	if faceQueryA.Separation > 0 {
		return Manifold{}, nil
	}

	faceQueryB := queryFaceDirections(b, a)
	if faceQueryB.Separation > 0 {
		return Manifold{}, nil
	}

	edgeQuery := queryEdgeDirections(a, b)
	if edgeQuery.Separation > 0 {
		return Manifold{}, nil
	}

	if faceQueryA.Separation > edgeQuery.Separation || faceQueryB.Separation > edgeQuery.Separation {
		return createFaceContact(faceQueryA, a, faceQueryB, b, alloc, frame)
	}
	return createEdgeContact(edgeQuery, a, b, frame), nil
}

// DoSATPlane tests a hull against a plane. The plane is always the
// reference body of the resulting manifold.
func DoSATPlane(plane geo.Plane, h *HullState, alloc arena.Allocator, frame Frame) (Manifold, error) {
	if query := queryFaceDirectionsPlane(plane, h); query.Separation > 0 {
		return Manifold{}, nil
	}
	return createFaceContactPlane(h, plane, alloc, frame)
}
