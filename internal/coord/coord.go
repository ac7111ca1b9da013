// Package coord holds the coordinate systems series are laid out on.
package coord

import (
	"math"

	"github.com/inamate/chartview/internal/graphic"
)

// Coordinate system types.
const (
	TypeCartesian2D = "cartesian2d"
	TypePolar       = "polar"
)

// System is the view-facing contract of a coordinate system.
type System interface {
	Type() string
	BaseAxis() *Axis
	OtherAxis(*Axis) *Axis
	// DataToPoint maps a (base, value)-agnostic pair given in the system's own
	// dimension order: (x, y) for cartesian, (radius, angle) for polar.
	DataToPoint(a, b float64) (float64, float64)
	Contain(x, y float64) bool
}

// Cartesian2D is a rectangular grid with one x and one y axis.
type Cartesian2D struct {
	X, Y *Axis
	rect graphic.Rect
}

// NewCartesian2D lays the axes out on rect. Y grows upwards.
func NewCartesian2D(rect graphic.Rect, x, y *Axis) *Cartesian2D {
	x.SetExtent(rect.X, rect.X+rect.Width)
	y.SetExtent(rect.Y+rect.Height, rect.Y)
	return &Cartesian2D{X: x, Y: y, rect: rect}
}

func (c *Cartesian2D) Type() string { return TypeCartesian2D }

// Area returns the plotting rectangle.
func (c *Cartesian2D) Area() graphic.Rect { return c.rect }

// BaseAxis prefers a category axis, falling back to x.
func (c *Cartesian2D) BaseAxis() *Axis {
	if c.X.Type == AxisCategory {
		return c.X
	}
	if c.Y.Type == AxisCategory {
		return c.Y
	}
	return c.X
}

func (c *Cartesian2D) OtherAxis(a *Axis) *Axis {
	if a == c.X {
		return c.Y
	}
	return c.X
}

func (c *Cartesian2D) DataToPoint(x, y float64) (float64, float64) {
	return c.X.DataToCoord(x), c.Y.DataToCoord(y)
}

func (c *Cartesian2D) Contain(x, y float64) bool {
	return c.rect.Contains(x, y)
}

// PolarArea is the annular sector covered by a polar system. Angles are
// canvas radians; clockwise sweeps toward increasing angle.
type PolarArea struct {
	CX, CY     float64
	R0, R      float64
	StartAngle float64
	EndAngle   float64
	Clockwise  bool
}

// Polar is a coordinate system with an angle axis and a radius axis.
type Polar struct {
	CX, CY float64
	Angle  *Axis
	Radius *Axis
}

// NewPolar lays out a polar system. startDeg follows the option convention:
// degrees counterclockwise from 3 o'clock.
func NewPolar(cx, cy, r0, r, startDeg float64, clockwise bool, angle, radius *Axis) *Polar {
	start := -startDeg * math.Pi / 180
	end := start + 2*math.Pi
	if !clockwise {
		end = start - 2*math.Pi
	}
	angle.SetExtent(start, end)
	radius.SetExtent(r0, r)
	return &Polar{CX: cx, CY: cy, Angle: angle, Radius: radius}
}

func (p *Polar) Type() string { return TypePolar }

// Area returns the covered sector.
func (p *Polar) Area() PolarArea {
	re := p.Radius.Extent()
	ae := p.Angle.Extent()
	r0, r := math.Min(re[0], re[1]), math.Max(re[0], re[1])
	return PolarArea{
		CX: p.CX, CY: p.CY,
		R0: r0, R: r,
		StartAngle: ae[0], EndAngle: ae[1],
		Clockwise: ae[1] >= ae[0],
	}
}

// BaseAxis prefers a category axis, falling back to the angle axis.
func (p *Polar) BaseAxis() *Axis {
	if p.Radius.Type == AxisCategory {
		return p.Radius
	}
	return p.Angle
}

func (p *Polar) OtherAxis(a *Axis) *Axis {
	if a == p.Angle {
		return p.Radius
	}
	return p.Angle
}

// DataToPoint maps (radius value, angle value) to canvas coordinates.
func (p *Polar) DataToPoint(radius, angle float64) (float64, float64) {
	r := p.Radius.DataToCoord(radius)
	a := p.Angle.DataToCoord(angle)
	return p.CX + r*math.Cos(a), p.CY + r*math.Sin(a)
}

func (p *Polar) Contain(x, y float64) bool {
	area := p.Area()
	return graphic.SectorShape{
		CX: area.CX, CY: area.CY, R0: area.R0, R: area.R,
		StartAngle: area.StartAngle, EndAngle: area.EndAngle, Clockwise: area.Clockwise,
	}.Contains(x, y)
}
