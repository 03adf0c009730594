package types

// Pose is the placement of an entity in the world.
type Pose struct {
	Position Vec3
	Rotation Quat
	Scale    Diag3x3
}

// IdentityPose returns a pose at the origin with no rotation or scale.
func IdentityPose() Pose {
	return Pose{
		Rotation: QuatIdent(),
		Scale:    DiagIdent(),
	}
}

// PoseAt returns an unrotated, unscaled pose at p.
func PoseAt(p Vec3) Pose {
	pose := IdentityPose()
	pose.Position = p
	return pose
}

// TransformPoint maps an object space point to world space.
func (p Pose) TransformPoint(v Vec3) Vec3 {
	return p.Rotation.Rotate(p.Scale.Apply(v)).Add(p.Position)
}

// IsUniform reports whether all scale components match.
func (d Diag3x3) IsUniform() bool {
	return d.D0 == d.D1 && d.D1 == d.D2
}
