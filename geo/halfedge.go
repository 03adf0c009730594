package geo

import (
	"fmt"

	"github.com/shacklettbp/miwe/types"
)

// HalfEdge is one directed side of a mesh edge. The half-edges of each face
// form a closed loop through Next and every half-edge has a Twin running in
// the opposite direction on the neighboring face.
type HalfEdge struct {
	// Index of the vertex this half-edge starts from.
	RootVertex int32

	// Next half-edge in the loop of the owning face.
	Next int32

	// The opposite half-edge.
	Twin int32

	// The face this half-edge belongs to.
	Polygon int32
}

// HalfEdgeMesh describes a closed convex polytope. Face planes point
// outwards and face loops wind counter-clockwise when seen from outside.
type HalfEdgeMesh struct {
	Vertices   []types.Vec3
	FacePlanes []Plane
	HalfEdges  []HalfEdge

	// One half-edge per undirected edge.
	Edges []int32

	// The first half-edge of each face loop.
	Polygons []int32
}

// NumVertices returns the number of vertices.
func (m *HalfEdgeMesh) NumVertices() int { return len(m.Vertices) }

// NumFaces returns the number of faces.
func (m *HalfEdgeMesh) NumFaces() int { return len(m.Polygons) }

// NumEdges returns the number of undirected edges.
func (m *HalfEdgeMesh) NumEdges() int { return len(m.Edges) }

type directedEdge struct {
	from, to int32
}

// NewHalfEdgeMesh builds the half-edge topology and face planes of a convex
// polytope. Each face lists vertex indices counter-clockwise as seen from
// outside the hull.
func NewHalfEdgeMesh(vertices []types.Vec3, faces [][]int32) (*HalfEdgeMesh, error) {
	mesh := &HalfEdgeMesh{
		Vertices:   append([]types.Vec3(nil), vertices...),
		FacePlanes: make([]Plane, 0, len(faces)),
		Polygons:   make([]int32, 0, len(faces)),
	}

	lookup := make(map[directedEdge]int32)
	for faceIdx, face := range faces {
		if len(face) < 3 {
			return nil, fmt.Errorf("face %d: %w", faceIdx, ErrDegenerateFace)
		}

		start := int32(len(mesh.HalfEdges))
		mesh.Polygons = append(mesh.Polygons, start)
		for i, v := range face {
			if v < 0 || int(v) >= len(vertices) {
				return nil, fmt.Errorf("face %d: %w", faceIdx, ErrInvalidIndex)
			}

			next := face[(i+1)%len(face)]
			key := directedEdge{v, next}
			if _, exists := lookup[key]; exists {
				return nil, fmt.Errorf("edge %d->%d: %w", v, next, ErrNonManifold)
			}

			heIdx := start + int32(i)
			lookup[key] = heIdx
			mesh.HalfEdges = append(mesh.HalfEdges, HalfEdge{
				RootVertex: v,
				Next:       start + int32((i+1)%len(face)),
				Twin:       -1,
				Polygon:    int32(faceIdx),
			})
		}

		plane, err := facePlane(vertices, face)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", faceIdx, err)
		}
		mesh.FacePlanes = append(mesh.FacePlanes, plane)
	}

	for key, heIdx := range lookup {
		twin, exists := lookup[directedEdge{key.to, key.from}]
		if !exists {
			return nil, fmt.Errorf("edge %d->%d: %w", key.from, key.to, ErrOpenMesh)
		}
		mesh.HalfEdges[heIdx].Twin = twin
	}

	// Keep the lower index of each twin pair so edge order is deterministic.
	for heIdx, he := range mesh.HalfEdges {
		if int32(heIdx) < he.Twin {
			mesh.Edges = append(mesh.Edges, int32(heIdx))
		}
	}

	return mesh, nil
}

// Compute the outward plane of a face using Newell's method, which stays
// stable for slightly non-planar or nearly collinear polygons.
func facePlane(vertices []types.Vec3, face []int32) (Plane, error) {
	var normal, centroid types.Vec3
	for i, idx := range face {
		cur := vertices[idx]
		next := vertices[face[(i+1)%len(face)]]
		normal[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		normal[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		normal[2] += (cur[0] - next[0]) * (cur[1] + next[1])
		centroid = centroid.Add(cur)
	}

	if normal.Len() < 1e-12 {
		return Plane{}, ErrDegenerateFace
	}
	normal = normal.Normalize()
	centroid = centroid.Mul(1.0 / float32(len(face)))

	return PlaneFromPoint(normal, centroid), nil
}

// NewBoxMesh returns an axis aligned box centered at the origin.
func NewBoxMesh(halfExtents types.Vec3) *HalfEdgeMesh {
	x, y, z := halfExtents[0], halfExtents[1], halfExtents[2]
	vertices := []types.Vec3{
		{-x, -y, -z},
		{x, -y, -z},
		{x, y, -z},
		{-x, y, -z},
		{-x, -y, z},
		{x, -y, z},
		{x, y, z},
		{-x, y, z},
	}
	faces := [][]int32{
		{4, 5, 6, 7}, // +z
		{0, 3, 2, 1}, // -z
		{1, 2, 6, 5}, // +x
		{0, 4, 7, 3}, // -x
		{3, 7, 6, 2}, // +y
		{0, 1, 5, 4}, // -y
	}

	mesh, err := NewHalfEdgeMesh(vertices, faces)
	if err != nil {
		panic(fmt.Sprintf("box mesh construction failed: %v", err))
	}
	return mesh
}

// FaceVertexCount returns the number of vertices in a face loop.
func (m *HalfEdgeMesh) FaceVertexCount(face int) int {
	start := m.Polygons[face]
	count := 0
	for he := start; ; {
		count++
		he = m.HalfEdges[he].Next
		if he == start {
			return count
		}
	}
}

// EdgeSegment returns the segment covered by a half-edge.
func (m *HalfEdgeMesh) EdgeSegment(heIdx int32) Segment {
	he := m.HalfEdges[heIdx]
	return Segment{
		P1: m.Vertices[he.RootVertex],
		P2: m.Vertices[m.HalfEdges[he.Next].RootVertex],
	}
}

// AABB returns the object space bounds of the mesh.
func (m *HalfEdgeMesh) AABB() AABB {
	return AABBFromPoints(m.Vertices)
}

// Validate checks that every face loop closes, that twins are mutual and run
// in opposite directions, and that every vertex lies on or behind each face
// plane.
func (m *HalfEdgeMesh) Validate() error {
	numHalfEdges := int32(len(m.HalfEdges))
	if len(m.FacePlanes) != len(m.Polygons) {
		return fmt.Errorf("%d planes for %d faces: %w", len(m.FacePlanes), len(m.Polygons), ErrBrokenTopology)
	}

	for heIdx, he := range m.HalfEdges {
		if he.Next < 0 || he.Next >= numHalfEdges || he.Twin < 0 || he.Twin >= numHalfEdges {
			return fmt.Errorf("half-edge %d: %w", heIdx, ErrBrokenTopology)
		}
		twin := m.HalfEdges[he.Twin]
		if twin.Twin != int32(heIdx) {
			return fmt.Errorf("half-edge %d: twin is not mutual: %w", heIdx, ErrBrokenTopology)
		}
		if twin.RootVertex != m.HalfEdges[he.Next].RootVertex {
			return fmt.Errorf("half-edge %d: twin does not run backwards: %w", heIdx, ErrBrokenTopology)
		}
	}

	for faceIdx, start := range m.Polygons {
		he := start
		for steps := int32(0); ; steps++ {
			if steps > numHalfEdges {
				return fmt.Errorf("face %d: loop does not close: %w", faceIdx, ErrBrokenTopology)
			}
			if m.HalfEdges[he].Polygon != int32(faceIdx) {
				return fmt.Errorf("face %d: loop leaves the face: %w", faceIdx, ErrBrokenTopology)
			}
			he = m.HalfEdges[he].Next
			if he == start {
				break
			}
		}
	}

	const convexTolerance = 1e-4
	for faceIdx, plane := range m.FacePlanes {
		for vIdx, v := range m.Vertices {
			if plane.Distance(v) > convexTolerance {
				return fmt.Errorf("vertex %d lies in front of face %d: %w", vIdx, faceIdx, ErrBrokenTopology)
			}
		}
	}

	return nil
}
