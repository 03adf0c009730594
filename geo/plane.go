package geo

import "github.com/shacklettbp/miwe/types"

// Plane is the set of points p with dot(Normal, p) == D. Normal is unit length.
type Plane struct {
	Normal types.Vec3
	D      float32
}

// PlaneFromPoint builds the plane with the given normal passing through p.
func PlaneFromPoint(normal, p types.Vec3) Plane {
	return Plane{
		Normal: normal,
		D:      normal.Dot(p),
	}
}

// Distance returns the signed distance of p to the plane. Points on the side
// the normal points to have a positive distance.
func (pl Plane) Distance(p types.Vec3) float32 {
	return p.Dot(pl.Normal) - pl.D
}

// Intersect returns the intersection of the plane and the line passing
// through p1 and p2. The line must not be parallel to the plane.
func (pl Plane) Intersect(p1, p2 types.Vec3) types.Vec3 {
	dist := pl.Distance(p1)
	delta := p2.Sub(p1)
	return p1.Add(delta.Mul(-dist / pl.Normal.Dot(delta)))
}

// Project moves p along the normal onto the plane.
func (pl Plane) Project(p types.Vec3) types.Vec3 {
	return p.Sub(pl.Normal.Mul(pl.Distance(p)))
}
