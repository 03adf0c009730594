package narrowphase

import (
	"github.com/shacklettbp/miwe/arena"
	"github.com/shacklettbp/miwe/contact"
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

// Manifold is the result of a single test.
type Manifold struct {
	Points    [contact.MaxPoints]types.Vec3
	Depths    [contact.MaxPoints]float32
	NumPoints int

	// Unit normal pointing from the reference body towards the other body.
	Normal types.Vec3

	// True when the first body of the test defines the normal.
	AIsReference bool
}

// Contact converts the manifold into a solver record for the bodies a and b
// in the order they were passed to the test.
func (m *Manifold) Contact(a, b types.Entity) contact.Contact {
	c := contact.Contact{
		Ref:       b,
		Alt:       a,
		NumPoints: int32(m.NumPoints),
		Normal:    m.Normal,
	}
	if m.AIsReference {
		c.Ref, c.Alt = a, b
	}
	for i := 0; i < m.NumPoints; i++ {
		c.Points[i] = types.PackVec4(m.Points[i], m.Depths[i])
	}
	return c
}

type scratchBuffers struct {
	input, output []types.Vec3
	depths        []float32
}

// Clipping a polygon with n vertices against k planes yields at most n+k
// vertices.
func allocScratch(alloc arena.Allocator, size int) (scratchBuffers, error) {
	if alloc == nil {
		return scratchBuffers{}, ErrNoAllocator
	}

	var (
		s   scratchBuffers
		err error
	)
	if s.input, err = alloc.Vec3s(size); err != nil {
		return s, err
	}
	if s.output, err = alloc.Vec3s(size); err != nil {
		return s, err
	}
	if s.depths, err = alloc.Float32s(size); err != nil {
		return s, err
	}
	return s, nil
}

func createFaceContact(faceQueryA FaceQuery, a *HullState, faceQueryB FaceQuery, b *HullState, alloc arena.Allocator, frame Frame) (Manifold, error) {
	aIsRef := faceQueryA.Separation > faceQueryB.Separation

	ref, other, refFace := b, a, faceQueryB.Face
	if aIsRef {
		ref, other, refFace = a, b, faceQueryA.Face
	}
	refNormal := ref.FacePlanes[refFace].Normal
	incident := other.incidentFace(refNormal)

	scratch, err := allocScratch(alloc, other.faceVertexCount(incident)+ref.faceVertexCount(refFace))
	if err != nil {
		return Manifold{}, err
	}

	points, depths := clipToReferenceFace(ref, refFace, other, incident, scratch)
	return buildFaceContactManifold(refNormal, points, depths, aIsRef, frame), nil
}

func createFaceContactPlane(h *HullState, plane geo.Plane, alloc arena.Allocator, frame Frame) (Manifold, error) {
	incident := h.incidentFace(plane.Normal)

	scratch, err := allocScratch(alloc, h.faceVertexCount(incident))
	if err != nil {
		return Manifold{}, err
	}

	points := h.faceVertices(incident, scratch.input)
	points, depths := filterBelowPlane(plane, points, scratch.depths)
	return buildFaceContactManifold(plane.Normal, points, depths, false, frame), nil
}

func createEdgeContact(query EdgeQuery, a, b *HullState, frame Frame) Manifold {
	segA := a.edgeSegment(a.HalfEdges[query.EdgeA])
	segB := b.edgeSegment(b.HalfEdges[query.EdgeB])

	closest := geo.ShortestSegmentBetween(segA, segB)

	m := Manifold{
		NumPoints:    1,
		Normal:       frame.Rotation.Rotate(query.Normal),
		AIsReference: true,
	}
	m.Points[0] = frame.point(closest.P1.Add(closest.P2).Mul(0.5))
	m.Depths[0] = closest.P2.Sub(closest.P1).Len() / 2
	return m
}

// Keep up to four points. Larger sets are reduced to the first point, the
// point furthest from it and the two points spanning the largest triangles
// on either side of the line through the first two. No point is picked
// twice.
func buildFaceContactManifold(normal types.Vec3, points []types.Vec3, depths []float32, aIsRef bool, frame Frame) Manifold {
	m := Manifold{AIsReference: aIsRef}

	if len(points) <= contact.MaxPoints {
		m.NumPoints = len(points)
		copy(m.Points[:], points)
		copy(m.Depths[:], depths)
	} else {
		picked := reduceToFourPoints(normal, points)
		m.NumPoints = contact.MaxPoints
		for i, idx := range picked {
			m.Points[i] = points[idx]
			m.Depths[i] = depths[idx]
		}
	}

	for i := 0; i < m.NumPoints; i++ {
		m.Points[i] = frame.point(m.Points[i])
	}
	m.Normal = frame.Rotation.Rotate(normal)

	return m
}

// Return the indices of four distinct points out of five or more.
func reduceToFourPoints(normal types.Vec3, points []types.Vec3) [contact.MaxPoints]int {
	p0 := points[0]

	furthest := 1
	largestD2 := types.Distance2(p0, points[1])
	for i := 2; i < len(points); i++ {
		if d2 := types.Distance2(p0, points[i]); d2 > largestD2 {
			largestD2 = d2
			furthest = i
		}
	}

	diff0 := points[furthest].Sub(p0)
	signedArea := func(i int) float32 {
		return normal.Dot(diff0.Cross(points[i].Sub(p0)))
	}

	maxIdx, minIdx := -1, -1
	var maxArea, minArea float32
	for i := 1; i < len(points); i++ {
		if i == furthest {
			continue
		}
		if area := signedArea(i); maxIdx < 0 || area > maxArea {
			maxArea = area
			maxIdx = i
		}
	}
	for i := 1; i < len(points); i++ {
		if i == furthest || i == maxIdx {
			continue
		}
		if area := signedArea(i); minIdx < 0 || area < minArea {
			minArea = area
			minIdx = i
		}
	}

	return [contact.MaxPoints]int{0, furthest, maxIdx, minIdx}
}
