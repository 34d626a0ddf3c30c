package math

// Affine is a 2x3 affine transform:
//
//	| A C X |
//	| B D Y |
type Affine struct {
	A, B, C, D float32
	X, Y       float32
}

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{A: 1, D: 1}
}

// ApplyX returns the transformed x coordinate of (x, y).
func (m Affine) ApplyX(x, y float32) float32 {
	return x*m.A + y*m.C + m.X
}

// ApplyY returns the transformed y coordinate of (x, y).
func (m Affine) ApplyY(x, y float32) float32 {
	return y*m.D + x*m.B + m.Y
}

// Apply transforms p.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{m.ApplyX(p.X, p.Y), m.ApplyY(p.X, p.Y)}
}

// Multiply returns the transform that applies m first, then parent.
func (m Affine) Multiply(parent Affine) Affine {
	return Affine{
		A: m.A*parent.A + m.B*parent.C,
		B: m.A*parent.B + m.B*parent.D,
		C: m.C*parent.A + m.D*parent.C,
		D: m.C*parent.B + m.D*parent.D,
		X: parent.ApplyX(m.X, m.Y),
		Y: parent.ApplyY(m.X, m.Y),
	}
}

// Determinant returns A*D - B*C.
func (m Affine) Determinant() float32 {
	return m.A*m.D - m.B*m.C
}
