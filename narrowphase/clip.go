package narrowphase

import (
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

// Clip a convex polygon against a plane keeping the part on or behind it.
// dst must hold at least len(input)+1 vertices.
func clipPolygon(dst []types.Vec3, plane geo.Plane, input []types.Vec3) []types.Vec3 {
	if len(input) == 0 {
		return dst[:0]
	}

	n := 0
	v1 := input[len(input)-1]
	d1 := plane.Distance(v1)
	for _, v2 := range input {
		d2 := plane.Distance(v2)

		switch {
		case d1 <= 0 && d2 <= 0:
			dst[n] = v2
			n++
		case d1 <= 0 && d2 > 0:
			dst[n] = plane.Intersect(v1, v2)
			n++
		case d2 <= 0 && d1 > 0:
			dst[n] = plane.Intersect(v1, v2)
			dst[n+1] = v2
			n += 2
		}

		v1, d1 = v2, d2
	}

	return dst[:n]
}

// Clip the incident polygon of other against the side planes of the
// reference face. Returns the surviving points projected onto the reference
// plane with their penetration depths.
func clipToReferenceFace(ref *HullState, refFace int32, other *HullState, incident int32, scratch scratchBuffers) ([]types.Vec3, []float32) {
	refPlane := ref.FacePlanes[refFace]

	input := other.faceVertices(incident, scratch.input)
	dst := scratch.output

	start := ref.FaceEdgeIndices[refFace]
	cur := ref.HalfEdges[start]
	curPoint := ref.Vertices[cur.RootVertex]
	for he := start; ; {
		he = cur.Next
		cur = ref.HalfEdges[he]
		nextPoint := ref.Vertices[cur.RootVertex]

		sideNormal := nextPoint.Sub(curPoint).Cross(refPlane.Normal)
		side := geo.Plane{Normal: sideNormal, D: sideNormal.Dot(curPoint)}
		curPoint = nextPoint

		clipped := clipPolygon(dst, side, input)
		dst = input[:cap(input)]
		input = clipped

		if he == start {
			break
		}
	}

	return filterBelowPlane(refPlane, input, scratch.depths)
}

// Keep points strictly behind the plane, projected onto it, and record
// their depth. Survivors are compacted to the front of points.
func filterBelowPlane(plane geo.Plane, points []types.Vec3, depths []float32) ([]types.Vec3, []float32) {
	n := 0
	for _, p := range points {
		if d := plane.Distance(p); d < 0 {
			points[n] = p.Sub(plane.Normal.Mul(d))
			depths[n] = -d
			n++
		}
	}
	return points[:n], depths[:n]
}
