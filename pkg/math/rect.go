package math

// Rect is an axis-aligned rectangle stored as edges.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// RectFromSize builds a rectangle from its top-left corner and size.
// Right and bottom are rounded to two decimals.
func RectFromSize(left, top, width, height float32) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  Round2(left + width),
		Bottom: Round2(top + height),
	}
}

// PointRect returns a zero-size rectangle at p.
func PointRect(p Vec2) Rect {
	return Rect{p.X, p.Y, p.X, p.Y}
}

// Width returns Right - Left.
func (r Rect) Width() float32 {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r Rect) Height() float32 {
	return r.Bottom - r.Top
}

// MidX returns the horizontal center.
func (r Rect) MidX() float32 {
	return (r.Left + r.Right) / 2
}

// MidY returns the vertical center.
func (r Rect) MidY() float32 {
	return (r.Top + r.Bottom) / 2
}

// AddPoint grows the rectangle to include p.
func (r Rect) AddPoint(p Vec2) Rect {
	if p.X < r.Left {
		r.Left = p.X
	}
	if p.X > r.Right {
		r.Right = p.X
	}
	if p.Y < r.Top {
		r.Top = p.Y
	}
	if p.Y > r.Bottom {
		r.Bottom = p.Y
	}
	return r
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Bounds returns the smallest rectangle containing all points.
// It returns the zero Rect when points is empty.
func Bounds(points []Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := PointRect(points[0])
	for _, p := range points[1:] {
		r = r.AddPoint(p)
	}
	return r
}
