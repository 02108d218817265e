package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec2BitsEqual(t *testing.T) {
	var negZero float32
	negZero = -negZero

	tests := []struct {
		name string
		a, b Vec2
		want bool
	}{
		{"identical", Vec2{0.5, 0.25}, Vec2{0.5, 0.25}, true},
		{"different", Vec2{0.5, 0.25}, Vec2{0.5, 0.26}, false},
		{"signed zero", Vec2{0, 0}, Vec2{negZero, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.BitsEqual(tt.b); got != tt.want {
				t.Errorf("BitsEqual = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Distance(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 3}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := a.DistanceSquared(b); got != 25 {
		t.Errorf("DistanceSquared = %v, want 25", got)
	}
}

func TestVec3YUpToZUp(t *testing.T) {
	got := Vec3{1, 2, 3}.YUpToZUp()
	want := Vec3{1, -3, 2}
	if got != want {
		t.Errorf("YUpToZUp() = %v, want %v", got, want)
	}
}

func TestVec3IsFinite(t *testing.T) {
	var zero float32
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("expected finite vector")
	}
	if (Vec3{1, 0 / zero * 0, 3}).IsFinite() {
		t.Error("expected NaN component to be reported")
	}
}
