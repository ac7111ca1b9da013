package coord

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/chartview/internal/graphic"
)

func TestCategoryAxisOnBand(t *testing.T) {
	a := NewCategoryAxis("x", []string{"a", "b", "c", "d"}, true)
	a.SetExtent(0, 100)

	assert.Equal(t, 25.0, a.BandWidth())
	assert.Equal(t, 12.5, a.DataToCoord(0))
	assert.Equal(t, 87.5, a.DataToCoord(3))
	assert.InDelta(t, 2, a.CoordToData(62.5), 1e-9)

	idx, ok := a.CategoryIndex("c")
	assert.True(t, ok)
	assert.Equal(t, 2.0, idx)
	_, ok = a.CategoryIndex("z")
	assert.False(t, ok)
}

func TestCategoryAxisOnTicks(t *testing.T) {
	a := NewCategoryAxis("x", []string{"a", "b", "c"}, false)
	a.SetExtent(0, 100)
	assert.Equal(t, 50.0, a.BandWidth())
	assert.Equal(t, 0.0, a.DataToCoord(0))
	assert.Equal(t, 100.0, a.DataToCoord(2))
}

func TestValueAxisInverse(t *testing.T) {
	a := NewValueAxis("y", 0, 10)
	a.Inverse = true
	a.SetExtent(100, 0)
	assert.Equal(t, [2]float64{0, 100}, a.Extent())
	assert.Equal(t, 0.0, a.DataToCoord(0))
	assert.Equal(t, 30.0, a.DataToCoord(3))

	flat := NewValueAxis("y", 5, 5)
	assert.Equal(t, [2]float64{5, 6}, flat.ScaleExtent())
}

func TestCartesianMapsYUpwards(t *testing.T) {
	c := NewCartesian2D(
		graphic.Rect{X: 10, Y: 20, Width: 100, Height: 50},
		NewCategoryAxis("x", []string{"a", "b"}, true),
		NewValueAxis("y", 0, 10),
	)
	assert.Same(t, c.X, c.BaseAxis())
	assert.Same(t, c.Y, c.OtherAxis(c.X))

	x, y := c.DataToPoint(1, 0)
	assert.Equal(t, 85.0, x)
	assert.Equal(t, 70.0, y)
	_, y = c.DataToPoint(1, 10)
	assert.Equal(t, 20.0, y)

	assert.True(t, c.Contain(10, 20))
	assert.False(t, c.Contain(9, 20))
}

func TestHorizontalBarsUseCategoryY(t *testing.T) {
	c := NewCartesian2D(
		graphic.Rect{Width: 100, Height: 100},
		NewValueAxis("x", 0, 1),
		NewCategoryAxis("y", []string{"a"}, true),
	)
	assert.Same(t, c.Y, c.BaseAxis())
	assert.False(t, c.BaseAxis().IsHorizontal())
}

func TestPolarArea(t *testing.T) {
	p := NewPolar(50, 50, 10, 40, 90, true,
		NewCategoryAxis("angle", []string{"a", "b", "c", "d"}, true),
		NewValueAxis("radius", 0, 10),
	)
	area := p.Area()
	assert.Equal(t, 10.0, area.R0)
	assert.Equal(t, 40.0, area.R)
	assert.InDelta(t, -math.Pi/2, area.StartAngle, 1e-9)
	assert.InDelta(t, 3*math.Pi/2, area.EndAngle, 1e-9)
	assert.True(t, area.Clockwise)
	assert.Same(t, p.Angle, p.BaseAxis())

	// The first band's center sits an eighth turn clockwise from 12 o'clock.
	x, y := p.DataToPoint(10, 0)
	assert.InDelta(t, 50+40*math.Cos(-math.Pi/4), x, 1e-9)
	assert.InDelta(t, 50+40*math.Sin(-math.Pi/4), y, 1e-9)

	assert.True(t, p.Contain(50, 20))
	assert.False(t, p.Contain(50, 55), "inside the inner radius")
}
