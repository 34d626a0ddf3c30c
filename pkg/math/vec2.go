// Package math provides the 2D geometry used by SC display objects:
// points, axis-aligned rectangles and 2x3 affine transforms.
package math

import "math"

// Vec2 is a 2D point or vector in logical (non-twip) units.
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
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Round2 rounds both components to two decimals, the precision of twip-derived values.
func (v Vec2) Round2() Vec2 {
	return Vec2{Round2(v.X), Round2(v.Y)}
}

// Round2 rounds f to two decimal places.
func Round2(f float32) float32 {
	return float32(math.Round(float64(f)*100) / 100)
}
