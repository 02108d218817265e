package scene

import "github.com/Faultbox/glrimport/pkg/math"

// TransformHint is the placement the host should give imported objects.
// The core never applies it to geometry.
type TransformHint struct {
	Translation math.Vec3 `yaml:"translation,flow"`
	Rotation    math.Vec3 `yaml:"rotation,flow"` // XYZ Euler angles, radians
	Scale       math.Vec3 `yaml:"scale,flow"`
}

// IdentityTransform returns a hint that leaves objects where they are.
func IdentityTransform() TransformHint {
	return TransformHint{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// Matrix composes translation * rotation * scale.
func (t TransformHint) Matrix() math.Mat4 {
	return math.Translate(t.Translation.X, t.Translation.Y, t.Translation.Z).
		Mul(math.RotateEuler(t.Rotation)).
		Mul(math.Scale(t.Scale.X, t.Scale.Y, t.Scale.Z))
}

// Apply transforms a point by the hint.
func (t TransformHint) Apply(p math.Vec3) math.Vec3 {
	return t.Matrix().TransformVec3(p)
}

// IsIdentity reports whether the hint leaves points unchanged.
func (t TransformHint) IsIdentity() bool {
	return t == IdentityTransform()
}

// Quaternion returns the rotation as a unit quaternion.
func (t TransformHint) Quaternion() math.Quat {
	return math.QuatFromEuler(t.Rotation)
}
