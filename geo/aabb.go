package geo

import (
	"math"

	"github.com/shacklettbp/miwe/types"
)

// AABB is an axis-aligned bounding box. Min must be <= Max componentwise.
type AABB struct {
	Min types.Vec3
	Max types.Vec3
}

// EmptyAABB returns an inverted box that can be grown with Merge/Expand.
func EmptyAABB() AABB {
	return AABB{
		Min: types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// AABBFromPoints returns the tightest box enclosing points.
func AABBFromPoints(points []types.Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.Expand(p)
	}
	return box
}

// Overlaps reports whether the two boxes intersect. Touching boxes overlap.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min[0] <= b.Max[0] && b.Min[0] <= a.Max[0] &&
		a.Min[1] <= b.Max[1] && b.Min[1] <= a.Max[1] &&
		a.Min[2] <= b.Max[2] && b.Min[2] <= a.Max[2]
}

// Contains reports whether other lies completely within a.
func (a AABB) Contains(other AABB) bool {
	return a.Min[0] <= other.Min[0] && a.Max[0] >= other.Max[0] &&
		a.Min[1] <= other.Min[1] && a.Max[1] >= other.Max[1] &&
		a.Min[2] <= other.Min[2] && a.Max[2] >= other.Max[2]
}

// Merge returns a box holding both boxes.
func (a AABB) Merge(b AABB) AABB {
	return AABB{
		Min: types.MinVec3(a.Min, b.Min),
		Max: types.MaxVec3(a.Max, b.Max),
	}
}

// Expand returns a box holding a and p.
func (a AABB) Expand(p types.Vec3) AABB {
	return AABB{
		Min: types.MinVec3(a.Min, p),
		Max: types.MaxVec3(a.Max, p),
	}
}

// Center returns the center of the box.
func (a AABB) Center() types.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extents returns the half size of the box.
func (a AABB) Extents() types.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// SurfaceArea returns the half surface area of the box, which is all the SAH
// needs for ranking candidate splits.
func (a AABB) SurfaceArea() float32 {
	side := a.Max.Sub(a.Min)
	return side[0]*side[1] + side[1]*side[2] + side[0]*side[2]
}

// IsEmpty reports whether the box is inverted.
func (a AABB) IsEmpty() bool {
	return a.Min[0] > a.Max[0] || a.Min[1] > a.Max[1] || a.Min[2] > a.Max[2]
}

// ApplyTRS transforms an object space box by a scale, rotation and
// translation and returns the world space box enclosing the result.
func (a AABB) ApplyTRS(translation types.Vec3, rotation types.Quat, scale types.Diag3x3) AABB {
	txfm := types.RotationMat3(rotation).Mul3(scale.Mat3())

	center := txfm.Mul3x1(a.Center()).Add(translation)
	extents := types.AbsMat3(txfm).Mul3x1(a.Extents())

	return AABB{
		Min: center.Sub(extents),
		Max: center.Add(extents),
	}
}
