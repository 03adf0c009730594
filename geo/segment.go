package geo

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/shacklettbp/miwe/types"
)

// Below this determinant the segment directions are treated as parallel.
const singularDeterminant = 1e-5

// Segment is the line segment between P1 and P2.
type Segment struct {
	P1, P2 types.Vec3
}

// Direction returns P2 - P1.
func (s Segment) Direction() types.Vec3 {
	return s.P2.Sub(s.P1)
}

// At returns the point at parameter t along the segment.
func (s Segment) At(t float32) types.Vec3 {
	return s.P1.Add(s.Direction().Mul(t))
}

// ShortestSegmentBetween returns the segment joining the closest points of
// seg1 and seg2. The returned P1 lies on seg1 and P2 lies on seg2.
func ShortestSegmentBetween(seg1, seg2 Segment) Segment {
	v1 := seg1.Direction()
	v2 := seg2.Direction()
	v21 := seg2.P1.Sub(seg1.P1)

	dotv22 := v2.Dot(v2)
	dotv11 := v1.Dot(v1)
	dotv21 := v2.Dot(v1)
	dotv211 := v21.Dot(v1)
	dotv212 := v21.Dot(v2)

	denom := dotv21*dotv21 - dotv22*dotv11

	var s, t float32
	if mgl32.Abs(denom) < singularDeterminant {
		// Parallel directions: pin s and solve for t alone.
		s = 0
		if dotv22 > 0 {
			t = (dotv21*s - dotv212) / dotv22
		}
	} else {
		s = (dotv212*dotv21 - dotv22*dotv211) / denom
		t = (-dotv211*dotv21 + dotv11*dotv212) / denom
	}

	s = mgl32.Clamp(s, 0, 1)
	t = mgl32.Clamp(t, 0, 1)

	return Segment{
		P1: seg1.At(s),
		P2: seg2.At(t),
	}
}
