package math

import (
	"math"
	"testing"
)

func approxVec3(a, b Vec3, tol float64) bool {
	return math.Abs(float64(a.X-b.X)) <= tol &&
		math.Abs(float64(a.Y-b.Y)) <= tol &&
		math.Abs(float64(a.Z-b.Z)) <= tol
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v, want (5, 10, 15)", got)
	}
}

func TestTransformVec3(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformVec3(Vec3{1, 2, 3})
	want := Vec3{12, 24, 36}
	if got != want {
		t.Errorf("TransformVec3: got %v, want %v", got, want)
	}
}

func TestRotateZ(t *testing.T) {
	m := RotateZ(float32(math.Pi / 2))
	got := m.TransformVec3(Vec3{1, 0, 0})
	if !approxVec3(got, Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("RotateZ(90°) * X = %v, want (0, 1, 0)", got)
	}
}

func TestRotateEulerMatchesQuat(t *testing.T) {
	e := Vec3{0.3, -1.1, 2.0}
	m := RotateEuler(e)
	q := QuatFromEuler(e).ToMat4()

	p := Vec3{1, 2, 3}
	if got, want := m.TransformVec3(p), q.TransformVec3(p); !approxVec3(got, want, 1e-5) {
		t.Errorf("RotateEuler and QuatFromEuler disagree: %v vs %v", got, want)
	}
}
