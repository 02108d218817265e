package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector. Texture coordinates use it as (S, T).
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// BitsEqual reports whether both components have identical IEEE-754 bit patterns.
// Unlike ==, it distinguishes -0 from +0 and treats identical NaNs as equal.
func (v Vec2) BitsEqual(other Vec2) bool {
	return math32.Float32bits(v.X) == math32.Float32bits(other.X) &&
		math32.Float32bits(v.Y) == math32.Float32bits(other.Y)
}
