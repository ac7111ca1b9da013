package graphic

import "math"

// Rect represents an axis-aligned rectangle. Width and Height may be negative
// for shapes laid out from a baseline; Normalize returns the positive form.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Normalize returns the same rectangle with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	n := r.Normalize()
	return x >= n.X && x <= n.X+n.Width && y >= n.Y && y <= n.Y+n.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects reports whether two rects overlap. Touching edges count as overlap.
func (r Rect) Intersects(other Rect) bool {
	a := r.Normalize()
	b := other.Normalize()
	return !(a.X+a.Width < b.X || b.X+b.Width < a.X || a.Y+a.Height < b.Y || b.Y+b.Height < a.Y)
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Expand grows the rect by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// BoundsOfPoints returns the bounding rect of a point list.
func BoundsOfPoints(points [][2]float64) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = min(minX, p[0])
		minY = min(minY, p[1])
		maxX = max(maxX, p[0])
		maxY = max(maxY, p[1])
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
