package coord

import "math"

// Axis types.
const (
	AxisCategory = "category"
	AxisValue    = "value"
)

// Axis maps data values onto a pixel (or radian) extent with a linear scale.
type Axis struct {
	Dim        string // x, y, angle, radius
	Type       string
	Inverse    bool
	Categories []string
	// OnBand places category ticks in the middle of their band.
	OnBand bool

	// Min and Max are the data domain of a value axis.
	Min, Max float64

	extent [2]float64
}

// NewCategoryAxis creates a category axis over the given names.
func NewCategoryAxis(dim string, categories []string, onBand bool) *Axis {
	return &Axis{Dim: dim, Type: AxisCategory, Categories: categories, OnBand: onBand}
}

// NewValueAxis creates a linear value axis over [min, max].
func NewValueAxis(dim string, min, max float64) *Axis {
	if min == max {
		max = min + 1
	}
	return &Axis{Dim: dim, Type: AxisValue, Min: min, Max: max}
}

// SetExtent sets the pixel span the axis maps onto, honoring Inverse.
func (a *Axis) SetExtent(start, end float64) {
	if a.Inverse {
		start, end = end, start
	}
	a.extent = [2]float64{start, end}
}

// Extent returns the pixel span in mapping order.
func (a *Axis) Extent() [2]float64 {
	return a.extent
}

// IsHorizontal reports whether a cartesian axis runs along x.
func (a *Axis) IsHorizontal() bool {
	return a.Dim == "x"
}

// ScaleExtent returns the data domain. Category axes span [0, n-1].
func (a *Axis) ScaleExtent() [2]float64 {
	if a.Type == AxisCategory {
		return [2]float64{0, float64(max(len(a.Categories)-1, 0))}
	}
	return [2]float64{a.Min, a.Max}
}

// BandWidth returns the pixel width of one category band, or zero for value axes.
func (a *Axis) BandWidth() float64 {
	if a.Type != AxisCategory || len(a.Categories) == 0 {
		return 0
	}
	span := math.Abs(a.extent[1] - a.extent[0])
	n := len(a.Categories)
	if !a.OnBand {
		if n <= 1 {
			return span
		}
		return span / float64(n-1)
	}
	return span / float64(n)
}

// DataToCoord maps a data value (a category index for category axes) onto the extent.
func (a *Axis) DataToCoord(v float64) float64 {
	start, end := a.extent[0], a.extent[1]
	if a.Type == AxisCategory {
		n := len(a.Categories)
		if n == 0 {
			return start
		}
		if a.OnBand {
			return start + (end-start)*(v+0.5)/float64(n)
		}
		if n == 1 {
			return (start + end) / 2
		}
		return start + (end-start)*v/float64(n-1)
	}
	return start + (end-start)*(v-a.Min)/(a.Max-a.Min)
}

// CoordToData is the inverse of DataToCoord.
func (a *Axis) CoordToData(c float64) float64 {
	start, end := a.extent[0], a.extent[1]
	if end == start {
		return a.ScaleExtent()[0]
	}
	t := (c - start) / (end - start)
	if a.Type == AxisCategory {
		n := float64(len(a.Categories))
		if a.OnBand {
			return t*n - 0.5
		}
		return t * (n - 1)
	}
	return a.Min + t*(a.Max-a.Min)
}

// CategoryIndex resolves a category name or numeric index.
func (a *Axis) CategoryIndex(v any) (float64, bool) {
	switch t := v.(type) {
	case string:
		for i, c := range a.Categories {
			if c == t {
				return float64(i), true
			}
		}
		return 0, false
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}
