package gesture

// Point is a position in viewport coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned box with its top-left corner at (X, Y).
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// TopLeft returns the corner the rectangle is positioned by.
func (r Rect) TopLeft() Point {
	return Point{X: r.X, Y: r.Y}
}

// CenterY returns the vertical middle of the rectangle.
func (r Rect) CenterY() float64 {
	return r.Y + r.Height/2
}

// Hit reports whether p lies inside r, counting the left and top edges only.
// Adjacent rectangles therefore never both hit the same point.
func (r Rect) Hit(p Point) bool {
	return p.X >= r.Left() && p.X < r.Right() && p.Y >= r.Top() && p.Y < r.Bottom()
}

// ContainsInclusive reports whether p lies inside r or on any of its edges.
func (r Rect) ContainsInclusive(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}
