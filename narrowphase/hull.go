package narrowphase

import (
	"github.com/shacklettbp/miwe/arena"
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

// HullState is the view of a hull used by a single test. Vertices and face
// planes are either freshly transformed into arena scratch memory or alias
// the object space mesh; the topology always aliases the mesh.
type HullState struct {
	Vertices        []types.Vec3
	FacePlanes      []geo.Plane
	HalfEdges       []geo.HalfEdge
	EdgeIndices     []int32
	FaceEdgeIndices []int32
	Center          types.Vec3
}

// MakeHullState prepares a hull for testing. With a nil allocator the state
// aliases the mesh data as is, which suits static hulls whose data already
// lives in world space. Otherwise vertices are mapped by R*S*v + t and face
// normals by R*S^-1, which keeps them perpendicular to the faces under
// non-uniform scale.
func MakeHullState(mesh *geo.HalfEdgeMesh, pose types.Pose, alloc arena.Allocator) (HullState, error) {
	if len(mesh.Vertices) == 0 || len(mesh.FacePlanes) == 0 {
		return HullState{}, ErrEmptyHull
	}

	state := HullState{
		Vertices:        mesh.Vertices,
		FacePlanes:      mesh.FacePlanes,
		HalfEdges:       mesh.HalfEdges,
		EdgeIndices:     mesh.Edges,
		FaceEdgeIndices: mesh.Polygons,
		Center:          pose.Position,
	}
	if alloc == nil {
		return state, nil
	}

	vertices, err := alloc.Vec3s(len(mesh.Vertices))
	if err != nil {
		return HullState{}, err
	}
	planes, err := alloc.Planes(len(mesh.FacePlanes))
	if err != nil {
		return HullState{}, err
	}

	rot := types.RotationMat3(pose.Rotation)
	vertexTxfm := rot.Mul3(pose.Scale.Mat3())
	normalTxfm := rot.Mul3(pose.Scale.Inv().Mat3())

	for i, v := range mesh.Vertices {
		vertices[i] = vertexTxfm.Mul3x1(v).Add(pose.Position)
	}

	for i, plane := range mesh.FacePlanes {
		origin := vertexTxfm.Mul3x1(plane.Normal.Mul(plane.D)).Add(pose.Position)
		normal := normalTxfm.Mul3x1(plane.Normal).Normalize()
		planes[i] = geo.PlaneFromPoint(normal, origin)
	}

	state.Vertices = vertices
	state.FacePlanes = planes
	return state, nil
}

func (h *HullState) NumFaces() int { return len(h.FacePlanes) }

func (h *HullState) NumEdges() int { return len(h.EdgeIndices) }

// Return the vertex furthest along dir.
func (h *HullState) support(dir types.Vec3) types.Vec3 {
	furthest := h.Vertices[0]
	maxDist := dir.Dot(furthest)
	for _, v := range h.Vertices[1:] {
		if d := dir.Dot(v); d > maxDist {
			maxDist = d
			furthest = v
		}
	}
	return furthest
}

// The normals of the two faces sharing a half-edge.
func (h *HullState) edgeNormals(he geo.HalfEdge) (types.Vec3, types.Vec3) {
	return h.FacePlanes[he.Polygon].Normal, h.FacePlanes[h.HalfEdges[he.Twin].Polygon].Normal
}

func (h *HullState) edgeSegment(he geo.HalfEdge) geo.Segment {
	return geo.Segment{
		P1: h.Vertices[he.RootVertex],
		P2: h.Vertices[h.HalfEdges[he.Next].RootVertex],
	}
}

// Walk the loop of a face and count its vertices.
func (h *HullState) faceVertexCount(face int32) int {
	start := h.FaceEdgeIndices[face]
	count := 0
	for he := start; ; {
		count++
		he = h.HalfEdges[he].Next
		if he == start {
			return count
		}
	}
}

// Copy the vertices of a face loop into dst and return the filled prefix.
func (h *HullState) faceVertices(face int32, dst []types.Vec3) []types.Vec3 {
	start := h.FaceEdgeIndices[face]
	n := 0
	for he := start; ; {
		cur := h.HalfEdges[he]
		dst[n] = h.Vertices[cur.RootVertex]
		n++
		he = cur.Next
		if he == start {
			return dst[:n]
		}
	}
}

// Return the face whose normal is most anti-parallel to refNormal.
func (h *HullState) incidentFace(refNormal types.Vec3) int32 {
	incident := int32(0)
	minDot := h.FacePlanes[0].Normal.Dot(refNormal)
	for i := 1; i < len(h.FacePlanes); i++ {
		if d := h.FacePlanes[i].Normal.Dot(refNormal); d < minDot {
			minDot = d
			incident = int32(i)
		}
	}
	return incident
}
