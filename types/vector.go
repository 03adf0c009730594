package types

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/math/f32"
)

type Vec3 = mgl32.Vec3
type Mat3 = mgl32.Mat3

// Vec4 is the packed 4-lane layout handed to the solver. The first three
// lanes hold a point and the last lane holds a scalar attached to it.
type Vec4 f32.Vec4

const floatCmpEpsilon = 1e-6

// Define a 3 component vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Pack a 3 component vector and a scalar into a Vec4.
func PackVec4(v Vec3, w float32) Vec4 {
	return Vec4{v[0], v[1], v[2], w}
}

// Reduce a 4 component vector to a Vec3.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Get the scalar lane.
func (v Vec4) W() float32 {
	return v[3]
}

// Normalize v. Zero-length vectors are returned unchanged instead of
// producing NaNs.
func SafeNormalize(v Vec3) Vec3 {
	l := v.Len()
	if l < floatCmpEpsilon {
		return v
	}
	return v.Mul(1.0 / l)
}

// Calc min component from two vectors
func MinVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// Calc max component from two vectors
func MaxVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}

// Component-wise absolute value.
func AbsVec3(v Vec3) Vec3 {
	return Vec3{abs(v[0]), abs(v[1]), abs(v[2])}
}

// Squared distance between two points.
func Distance2(v1, v2 Vec3) float32 {
	return v2.Sub(v1).LenSqr()
}

// Check whether two vectors are equal within the given tolerance.
func ApproxEqual(v1, v2 Vec3, tolerance float32) bool {
	return abs(v1[0]-v2[0]) <= tolerance &&
		abs(v1[1]-v2[1]) <= tolerance &&
		abs(v1[2]-v2[2]) <= tolerance
}

func abs(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

// Diag3x3 is a diagonal 3x3 matrix, used for per-axis scale.
type Diag3x3 struct {
	D0, D1, D2 float32
}

// Identity scale.
func DiagIdent() Diag3x3 {
	return Diag3x3{1, 1, 1}
}

// Build a diagonal matrix from a vector.
func DiagFromVec3(v Vec3) Diag3x3 {
	return Diag3x3{v[0], v[1], v[2]}
}

// Uniform scale.
func DiagUniform(s float32) Diag3x3 {
	return Diag3x3{s, s, s}
}

// Invert the diagonal.
func (d Diag3x3) Inv() Diag3x3 {
	return Diag3x3{1 / d.D0, 1 / d.D1, 1 / d.D2}
}

// Scale a vector.
func (d Diag3x3) Apply(v Vec3) Vec3 {
	return Vec3{d.D0 * v[0], d.D1 * v[1], d.D2 * v[2]}
}

// Expand into a full 3x3 matrix.
func (d Diag3x3) Mat3() Mat3 {
	return mgl32.Diag3(Vec3{d.D0, d.D1, d.D2})
}

// Return the diagonal as a vector.
func (d Diag3x3) Vec3() Vec3 {
	return Vec3{d.D0, d.D1, d.D2}
}

// Component-wise absolute value of a matrix.
func AbsMat3(m Mat3) Mat3 {
	var out Mat3
	for i := range m {
		out[i] = abs(m[i])
	}
	return out
}
