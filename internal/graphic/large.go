package graphic

import "math"

// LargeBarShape draws many bars as one path: each bar is a single segment
// from the value-axis start to its end point, stroked with the bar width.
type LargeBarShape struct {
	// Points is a flat [x0, y0, x1, y1, ...] list of bar end points.
	Points []float64
	// BaseDim is 0 when the base axis is horizontal, 1 when it is vertical.
	BaseDim     int
	StartValue  float64
	DataIndices []int
	BarWidth    float64
}

func (s LargeBarShape) Kind() string { return "largeBar" }

func (s LargeBarShape) start(i int) (float64, float64) {
	var p [2]float64
	p[s.BaseDim] = s.Points[i+s.BaseDim]
	p[1-s.BaseDim] = s.StartValue
	return p[0], p[1]
}

func (s LargeBarShape) BuildPath() []PathCommand {
	cmds := make([]PathCommand, 0, len(s.Points))
	for i := 0; i+1 < len(s.Points); i += 2 {
		sx, sy := s.start(i)
		cmds = append(cmds, PathCommand{"M", sx, sy}, PathCommand{"L", s.Points[i], s.Points[i+1]})
	}
	return cmds
}

func (s LargeBarShape) Bounds() Rect {
	pts := make([][2]float64, 0, len(s.Points))
	for i := 0; i+1 < len(s.Points); i += 2 {
		sx, sy := s.start(i)
		pts = append(pts, [2]float64{sx, sy}, [2]float64{s.Points[i], s.Points[i+1]})
	}
	return BoundsOfPoints(pts).Expand(math.Abs(s.BarWidth) / 2)
}

func (s LargeBarShape) Contains(x, y float64) bool {
	return s.FindDataIndex(x, y) >= 0
}

func (s LargeBarShape) Interpolate(to Shape, t float64) Shape { return to }

// FindDataIndex scans the bars for one under (x, y) and returns its data
// index, or -1. A bar matches when the pointer is within half a bar width
// on the base axis and between the start and end on the value axis.
func (s LargeBarShape) FindDataIndex(x, y float64) int {
	pos := [2]float64{x, y}
	valueDim := 1 - s.BaseDim
	half := math.Abs(s.BarWidth / 2)
	pointerBase := pos[s.BaseDim]
	pointerValue := pos[valueDim]
	lower, upper := pointerBase-half, pointerBase+half

	for i := 0; i*2+1 < len(s.Points); i++ {
		ii := i * 2
		barBase := s.Points[ii+s.BaseDim]
		barValue := s.Points[ii+valueDim]
		if barBase < lower || barBase > upper {
			continue
		}
		var within bool
		if s.StartValue <= barValue {
			within = pointerValue >= s.StartValue && pointerValue <= barValue
		} else {
			within = pointerValue >= barValue && pointerValue <= s.StartValue
		}
		if within {
			if i < len(s.DataIndices) {
				return s.DataIndices[i]
			}
			return i
		}
	}
	return -1
}

// LargeCandleShape draws the wicks of every candle whose sign matches Sign.
// Points is laid out as [sign, x, yHigh, yLow, sign, x, yHigh, yLow, ...].
type LargeCandleShape struct {
	Points []float64
	Sign   float64
}

func (s LargeCandleShape) Kind() string { return "largeCandlestickBox" }

func (s LargeCandleShape) BuildPath() []PathCommand {
	var cmds []PathCommand
	for i := 0; i+3 < len(s.Points); i += 4 {
		if s.Points[i] != s.Sign {
			continue
		}
		x := s.Points[i+1]
		cmds = append(cmds, PathCommand{"M", x, s.Points[i+2]}, PathCommand{"L", x, s.Points[i+3]})
	}
	return cmds
}

func (s LargeCandleShape) Bounds() Rect {
	var pts [][2]float64
	for i := 0; i+3 < len(s.Points); i += 4 {
		if s.Points[i] == s.Sign {
			pts = append(pts, [2]float64{s.Points[i+1], s.Points[i+2]}, [2]float64{s.Points[i+1], s.Points[i+3]})
		}
	}
	return BoundsOfPoints(pts)
}

func (s LargeCandleShape) Contains(x, y float64) bool {
	for i := 0; i+3 < len(s.Points); i += 4 {
		if s.Points[i] != s.Sign {
			continue
		}
		a := [2]float64{s.Points[i+1], s.Points[i+2]}
		b := [2]float64{s.Points[i+1], s.Points[i+3]}
		if distToSegment(a, b, x, y) <= 2 {
			return true
		}
	}
	return false
}

func (s LargeCandleShape) Interpolate(to Shape, t float64) Shape { return to }
