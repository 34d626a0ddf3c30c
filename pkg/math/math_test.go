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
	if back := got.Sub(b); back != a {
		t.Errorf("Vec2.Sub() = %v, want %v", back, a)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
	if got := v.Scale(2).Length(); got != 10 {
		t.Errorf("Vec2.Scale(2).Length() = %v, want 10", got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{1.005, 1.0},
		{0.1 + 0.2, 0.3},
		{-2.499, -2.5},
		{20, 20},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRectFromSize(t *testing.T) {
	r := RectFromSize(-10, -20, 30, 40)
	want := Rect{Left: -10, Top: -20, Right: 20, Bottom: 20}
	if r != want {
		t.Errorf("RectFromSize() = %v, want %v", r, want)
	}
	if r.Width() != 30 || r.Height() != 40 {
		t.Errorf("size = %vx%v, want 30x40", r.Width(), r.Height())
	}
	if r.MidX() != 5 || r.MidY() != 0 {
		t.Errorf("mid = (%v, %v), want (5, 0)", r.MidX(), r.MidY())
	}
}

func TestBounds(t *testing.T) {
	if got := Bounds(nil); got != (Rect{}) {
		t.Errorf("Bounds(nil) = %v, want zero", got)
	}

	r := Bounds([]Vec2{{1, 1}, {-2, 5}, {4, -3}})
	want := Rect{Left: -2, Top: -3, Right: 4, Bottom: 5}
	if r != want {
		t.Errorf("Bounds() = %v, want %v", r, want)
	}
	if !r.Contains(Vec2{0, 0}) || r.Contains(Vec2{5, 0}) {
		t.Error("Contains() mismatch")
	}
}

func TestAffineApply(t *testing.T) {
	m := Affine{A: 2, B: 0, C: 0, D: 3, X: 10, Y: -5}
	got := m.Apply(Vec2{1, 1})
	want := Vec2{12, -2}
	if got != want {
		t.Errorf("Affine.Apply() = %v, want %v", got, want)
	}
	if id := IdentityAffine().Apply(Vec2{7, 8}); id != (Vec2{7, 8}) {
		t.Errorf("identity Apply() = %v", id)
	}
}

func TestAffineMultiply(t *testing.T) {
	child := Affine{A: 1, D: 1, X: 5, Y: 0}
	parent := Affine{A: 0, B: 1, C: -1, D: 0, X: 100, Y: 0} // rotate 90 then translate

	combined := child.Multiply(parent)
	p := Vec2{1, 2}

	want := parent.Apply(child.Apply(p))
	if got := combined.Apply(p); got != want {
		t.Errorf("Multiply().Apply() = %v, want %v", got, want)
	}
	if det := combined.Determinant(); det != 1 {
		t.Errorf("Determinant() = %v, want 1", det)
	}
}
