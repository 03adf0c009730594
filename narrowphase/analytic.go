package narrowphase

import (
	"github.com/shacklettbp/miwe/contact"
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

// SphereSphereContact tests two spheres. The normal points from a to b and
// the stored depth is half the overlap. Coincident centers fall back to +Z.
// Ref and Alt are left for the caller to fill in.
func SphereSphereContact(centerA types.Vec3, radiusA float32, centerB types.Vec3, radiusB float32) (contact.Contact, bool) {
	toB := centerB.Sub(centerA)
	dist := toB.Len()
	if dist >= radiusA+radiusB {
		return contact.Contact{}, false
	}

	normal := types.XYZ(0, 0, 1)
	if dist > 0 {
		normal = toB.Mul(1 / dist)
	}

	// Midway between the deepest points of both spheres.
	surfaceA := centerA.Add(normal.Mul(radiusA))
	surfaceB := centerB.Sub(normal.Mul(radiusB))
	point := surfaceA.Add(surfaceB).Mul(0.5)

	c := contact.Contact{
		NumPoints: 1,
		Normal:    normal,
	}
	c.Points[0] = types.PackVec4(point, (radiusA+radiusB-dist)/2)
	return c, true
}

// SpherePlaneContact tests a sphere against a plane. The contact point is
// the sphere center projected onto the plane and the normal is the plane
// normal. Ref and Alt are left for the caller to fill in.
func SpherePlaneContact(center types.Vec3, radius float32, plane geo.Plane) (contact.Contact, bool) {
	t := plane.Distance(center)
	penetration := radius - t
	if penetration <= 0 {
		return contact.Contact{}, false
	}

	c := contact.Contact{
		NumPoints: 1,
		Normal:    plane.Normal,
	}
	c.Points[0] = types.PackVec4(center.Sub(plane.Normal.Mul(t)), penetration)
	return c, true
}
