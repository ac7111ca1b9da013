// Package clip builds clip shapes from coordinate systems and clips item
// layouts against them.
package clip

import (
	"math"

	"github.com/inamate/chartview/internal/anim"
	"github.com/inamate/chartview/internal/coord"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/series"
)

// FromCoordSys returns a clip element covering the plotting area of cs, or
// nil when cs is nil or of an unknown type. With hasAnimation the clip grows
// in from the leading edge and done runs when it reaches full size.
func FromCoordSys(cs coord.System, hasAnimation bool, s *series.Series, an *anim.Animator, done func()) *graphic.Node {
	switch c := cs.(type) {
	case *coord.Cartesian2D:
		return gridClipPath(c, hasAnimation, s, an, done)
	case *coord.Polar:
		return polarClipPath(c, hasAnimation, s, an, done)
	}
	return nil
}

func gridClipPath(cs *coord.Cartesian2D, hasAnimation bool, s *series.Series, an *anim.Animator, done func()) *graphic.Node {
	area := cs.Area()
	lineWidth := 0.0
	if s != nil {
		lineWidth = s.Model.FloatOr(0, "lineStyle", "width")
	}
	x := math.Floor(area.X - lineWidth/2)
	y := area.Y - lineWidth/2
	width := math.Round(area.Width + lineWidth)
	height := area.Height + lineWidth
	full := graphic.RectShape{X: x, Y: y, Width: width, Height: height}

	el := graphic.NewPath(full, graphic.DefaultStyle())
	if !hasAnimation || an == nil || s == nil {
		return el
	}

	start := full
	base := cs.BaseAxis()
	if base.IsHorizontal() {
		if base.Inverse {
			start.X += width
		}
		start.Width = 0
	} else {
		if !base.Inverse {
			start.Y += height
		}
		start.Height = 0
	}
	el.Shape = start
	an.InitProps(el, anim.Props{Shape: full}, s.AnimationConfig(false), done)
	return el
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func polarClipPath(cs *coord.Polar, hasAnimation bool, s *series.Series, an *anim.Animator, done func()) *graphic.Node {
	area := cs.Area()
	full := graphic.SectorShape{
		CX:         round1(area.CX),
		CY:         round1(area.CY),
		R0:         round1(area.R0),
		R:          round1(area.R),
		StartAngle: area.StartAngle,
		EndAngle:   area.EndAngle,
		Clockwise:  area.Clockwise,
	}

	el := graphic.NewPath(full, graphic.DefaultStyle())
	if !hasAnimation || an == nil || s == nil {
		return el
	}

	start := full
	if cs.BaseAxis() == cs.Angle {
		start.EndAngle = full.StartAngle
	} else {
		start.R = full.R0
	}
	el.Shape = start
	an.InitProps(el, anim.Props{Shape: full}, s.AnimationConfig(false), done)
	return el
}

// Rect clips a bar layout to area. Width and height may be negative; their
// signs are kept. A fully clipped layout collapses onto the nearest edge of
// the area so a later transition starts from there. It reports whether the
// layout lies completely outside.
func Rect(area graphic.Rect, layout graphic.RectShape) (graphic.RectShape, bool) {
	signW, signH := 1.0, 1.0
	if layout.Width < 0 {
		signW = -1
		layout.X += layout.Width
		layout.Width = -layout.Width
	}
	if layout.Height < 0 {
		signH = -1
		layout.Y += layout.Height
		layout.Height = -layout.Height
	}

	areaX2 := area.X + area.Width
	areaY2 := area.Y + area.Height
	x := math.Max(layout.X, area.X)
	x2 := math.Min(layout.X+layout.Width, areaX2)
	y := math.Max(layout.Y, area.Y)
	y2 := math.Min(layout.Y+layout.Height, areaY2)
	xClipped := x2 < x
	yClipped := y2 < y

	layout.X = x
	if xClipped && x > areaX2 {
		layout.X = x2
	}
	layout.Y = y
	if yClipped && y > areaY2 {
		layout.Y = y2
	}
	layout.Width = x2 - x
	if xClipped {
		layout.Width = 0
	}
	layout.Height = y2 - y
	if yClipped {
		layout.Height = 0
	}

	if signW < 0 {
		layout.X += layout.Width
		layout.Width = -layout.Width
	}
	if signH < 0 {
		layout.Y += layout.Height
		layout.Height = -layout.Height
	}
	return layout, xClipped || yClipped
}

// Sector clamps a polar bar layout between the inner and outer radius of
// area and reports whether nothing is left.
func Sector(area coord.PolarArea, layout graphic.SectorShape) (graphic.SectorShape, bool) {
	flipped := layout.R0 > layout.R
	if flipped {
		layout.R0, layout.R = layout.R, layout.R0
	}
	layout.R = math.Min(layout.R, area.R)
	layout.R0 = math.Max(layout.R0, area.R0)
	clipped := layout.R-layout.R0 < 0
	if flipped {
		layout.R0, layout.R = layout.R, layout.R0
	}
	return layout, clipped
}

// PointsOutside reports whether none of the points lies inside area.
func PointsOutside(area graphic.Rect, points [][2]float64) bool {
	for _, p := range points {
		if area.Contains(p[0], p[1]) {
			return false
		}
	}
	return true
}
