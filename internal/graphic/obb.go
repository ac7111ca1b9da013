package graphic

import "math"

// OrientedRect is a rectangle after an arbitrary affine transform, kept as its
// four corners so rotated labels can be tested exactly.
type OrientedRect struct {
	Corners [4][2]float64
	axes    [2][2]float64
}

// NewOrientedRect transforms r by m.
func NewOrientedRect(r Rect, m Matrix2D) OrientedRect {
	o := OrientedRect{Corners: m.Corners(r)}
	for i := 0; i < 2; i++ {
		dx := o.Corners[i+1][0] - o.Corners[i][0]
		dy := o.Corners[i+1][1] - o.Corners[i][1]
		l := math.Hypot(dx, dy)
		if l > 0 {
			dx, dy = dx/l, dy/l
		}
		o.axes[i] = [2]float64{dx, dy}
	}
	return o
}

func (o OrientedRect) project(axis [2]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range o.Corners {
		p := c[0]*axis[0] + c[1]*axis[1]
		lo = min(lo, p)
		hi = max(hi, p)
	}
	return lo, hi
}

// Intersects runs a separating axis test on the four edge normals. Rects
// closer than margin along every axis count as intersecting.
func (o OrientedRect) Intersects(other OrientedRect, margin float64) bool {
	axes := [4][2]float64{o.axes[0], o.axes[1], other.axes[0], other.axes[1]}
	for _, axis := range axes {
		if axis == ([2]float64{}) {
			continue
		}
		aLo, aHi := o.project(axis)
		bLo, bHi := other.project(axis)
		if aHi+margin < bLo || bHi+margin < aLo {
			return false
		}
	}
	return true
}
