package types

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Quat = mgl32.Quat

// Create identity quaternion.
func QuatIdent() Quat {
	return mgl32.QuatIdent()
}

// Create a quaternion from an axis vector and an angle in radians. The axis
// does not need to be normalized.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	return mgl32.QuatRotate(angle, SafeNormalize(axis))
}

// Create a quaternion from an axis and an angle in degrees.
func QuatFromAxisDegrees(axis Vec3, degrees float32) Quat {
	return QuatFromAxisAngle(axis, degrees*math.Pi/180.0)
}

// Returns the 3x3 rotation matrix for a unit quaternion.
func RotationMat3(q Quat) Mat3 {
	return q.Normalize().Mat4().Mat3()
}
