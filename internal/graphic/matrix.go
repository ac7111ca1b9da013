package graphic

import "math"

// Matrix2D is a 2D affine transform stored as [a, b, c, d, e, f]:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Rotate returns a rotation matrix for an angle in radians, measured the
// screen way (positive turns clockwise on a y-down canvas).
func Rotate(radians float64) Matrix2D {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns m * other, i.e. other is applied first.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// TransformPoint applies the matrix to a point.
func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Corners returns the four transformed corners of r, clockwise from (x, y).
func (m Matrix2D) Corners(r Rect) [4][2]float64 {
	var out [4][2]float64
	pts := [4][2]float64{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
	for i, p := range pts {
		out[i][0], out[i][1] = m.TransformPoint(p[0], p[1])
	}
	return out
}

// TransformRect transforms a rectangle and returns its axis-aligned bounding box.
func (m Matrix2D) TransformRect(r Rect) Rect {
	c := m.Corners(r)
	return BoundsOfPoints(c[:])
}

// Invert returns the inverse of the matrix, or Identity if it is singular.
func (m Matrix2D) Invert() Matrix2D {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Identity()
	}
	inv := 1.0 / det
	return Matrix2D{
		m[3] * inv,
		-m[1] * inv,
		-m[2] * inv,
		m[0] * inv,
		(m[2]*m[5] - m[3]*m[4]) * inv,
		(m[1]*m[4] - m[0]*m[5]) * inv,
	}
}

// IsAxisAligned reports whether the matrix carries no rotation or skew.
func (m Matrix2D) IsAxisAligned() bool {
	const eps = 1e-5
	return math.Abs(m[1]) < eps && math.Abs(m[2]) < eps
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// IsIdentity checks if this is the identity matrix (within epsilon).
func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m[0]-1) < eps && math.Abs(m[1]) < eps &&
		math.Abs(m[2]) < eps && math.Abs(m[3]-1) < eps &&
		math.Abs(m[4]) < eps && math.Abs(m[5]) < eps
}
