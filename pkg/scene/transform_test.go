package scene

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/glrimport/pkg/math"
)

func TestTransformHint(t *testing.T) {
	assert.True(t, IdentityTransform().IsIdentity())
	assert.False(t, TransformHint{}.IsIdentity())

	p := math.Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, p, IdentityTransform().Apply(p))

	hint := TransformHint{
		Translation: math.Vec3{X: 10, Y: 0, Z: 0},
		Rotation:    math.Vec3{Z: stdmath.Pi / 2},
		Scale:       math.Vec3{X: 2, Y: 2, Z: 2},
	}
	got := hint.Apply(math.Vec3{X: 1})
	// Scale to (2,0,0), rotate to (0,2,0), then translate.
	assert.InDelta(t, 10, got.X, 1e-5)
	assert.InDelta(t, 2, got.Y, 1e-5)
	assert.InDelta(t, 0, got.Z, 1e-5)
	assert.Equal(t, hint.Translation, hint.Matrix().Translation())
}

func TestTransformHintQuaternion(t *testing.T) {
	hint := TransformHint{Rotation: math.Vec3{X: 0.3, Y: -1.1, Z: 2.0}, Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
	p := math.Vec3{X: 1, Y: 2, Z: 3}

	want := hint.Apply(p)
	got := hint.Quaternion().ToMat4().TransformVec3(p)
	assert.InDelta(t, want.X, got.X, 1e-4)
	assert.InDelta(t, want.Y, got.Y, 1e-4)
	assert.InDelta(t, want.Z, got.Z, 1e-4)
}
