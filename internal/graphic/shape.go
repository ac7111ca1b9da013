package graphic

import "math"

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["Q", cx, cy, x, y],
// ["A", cx, cy, r, startAngle, endAngle, anticlockwise], ["Z"].
type PathCommand []interface{}

// Shape is the geometry of a path element.
type Shape interface {
	Kind() string
	BuildPath() []PathCommand
	Bounds() Rect
	// Contains tests a point in the shape's local coordinates.
	Contains(x, y float64) bool
	// Interpolate returns the shape at t in [0, 1] between the receiver and to.
	// Shapes of a different kind snap to the target.
	Interpolate(to Shape, t float64) Shape
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// RectShape is an axis-aligned rectangle with optional corner radius.
type RectShape struct {
	X, Y, Width, Height float64
	R                   float64
}

func (s RectShape) Kind() string { return "rect" }

func (s RectShape) Rect() Rect {
	return Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

func (s RectShape) BuildPath() []PathCommand {
	r := s.Rect().Normalize()
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.Width, r.Y+r.Height
	rad := math.Min(s.R, math.Min(r.Width, r.Height)/2)
	if rad <= 0 {
		return []PathCommand{
			{"M", x0, y0}, {"L", x1, y0}, {"L", x1, y1}, {"L", x0, y1}, {"Z"},
		}
	}
	return []PathCommand{
		{"M", x0 + rad, y0},
		{"L", x1 - rad, y0},
		{"Q", x1, y0, x1, y0 + rad},
		{"L", x1, y1 - rad},
		{"Q", x1, y1, x1 - rad, y1},
		{"L", x0 + rad, y1},
		{"Q", x0, y1, x0, y1 - rad},
		{"L", x0, y0 + rad},
		{"Q", x0, y0, x0 + rad, y0},
		{"Z"},
	}
}

func (s RectShape) Bounds() Rect { return s.Rect().Normalize() }

func (s RectShape) Contains(x, y float64) bool { return s.Rect().Contains(x, y) }

func (s RectShape) Interpolate(to Shape, t float64) Shape {
	o, ok := to.(RectShape)
	if !ok {
		return to
	}
	return RectShape{
		X:      lerp(s.X, o.X, t),
		Y:      lerp(s.Y, o.Y, t),
		Width:  lerp(s.Width, o.Width, t),
		Height: lerp(s.Height, o.Height, t),
		R:      lerp(s.R, o.R, t),
	}
}

// SectorShape is an annular sector. Angles are in radians on a y-down canvas.
type SectorShape struct {
	CX, CY     float64
	R0, R      float64
	StartAngle float64
	EndAngle   float64
	Clockwise  bool
}

func (s SectorShape) Kind() string { return "sector" }

func (s SectorShape) BuildPath() []PathCommand {
	cos0, sin0 := math.Cos(s.StartAngle), math.Sin(s.StartAngle)
	cos1, sin1 := math.Cos(s.EndAngle), math.Sin(s.EndAngle)
	cmds := []PathCommand{
		{"M", s.CX + s.R0*cos0, s.CY + s.R0*sin0},
		{"L", s.CX + s.R*cos0, s.CY + s.R*sin0},
		{"A", s.CX, s.CY, s.R, s.StartAngle, s.EndAngle, !s.Clockwise},
	}
	if s.R0 > 0 {
		cmds = append(cmds,
			PathCommand{"L", s.CX + s.R0*cos1, s.CY + s.R0*sin1},
			PathCommand{"A", s.CX, s.CY, s.R0, s.EndAngle, s.StartAngle, s.Clockwise},
		)
	}
	return append(cmds, PathCommand{"Z"})
}

func (s SectorShape) Bounds() Rect {
	r := math.Max(math.Abs(s.R), math.Abs(s.R0))
	return Rect{X: s.CX - r, Y: s.CY - r, Width: 2 * r, Height: 2 * r}
}

func (s SectorShape) Contains(x, y float64) bool {
	dx, dy := x-s.CX, y-s.CY
	d := math.Hypot(dx, dy)
	r0, r := s.R0, s.R
	if r0 > r {
		r0, r = r, r0
	}
	if d < r0 || d > r {
		return false
	}
	return AngleInSweep(math.Atan2(dy, dx), s.StartAngle, s.EndAngle, s.Clockwise)
}

func (s SectorShape) Interpolate(to Shape, t float64) Shape {
	o, ok := to.(SectorShape)
	if !ok {
		return to
	}
	return SectorShape{
		CX:         lerp(s.CX, o.CX, t),
		CY:         lerp(s.CY, o.CY, t),
		R0:         lerp(s.R0, o.R0, t),
		R:          lerp(s.R, o.R, t),
		StartAngle: lerp(s.StartAngle, o.StartAngle, t),
		EndAngle:   lerp(s.EndAngle, o.EndAngle, t),
		Clockwise:  o.Clockwise,
	}
}

// AngleInSweep reports whether angle lies on the arc from start to end.
// Clockwise arcs run in the direction of increasing angle on a y-down canvas.
func AngleInSweep(angle, start, end float64, clockwise bool) bool {
	const twoPi = 2 * math.Pi
	if !clockwise {
		start, end = end, start
	}
	span := end - start
	if span >= twoPi || span <= -twoPi {
		return true
	}
	span = math.Mod(span+twoPi, twoPi)
	a := math.Mod(math.Mod(angle-start, twoPi)+twoPi, twoPi)
	return a <= span+1e-9
}

// PolylineShape is an open or closed list of points.
type PolylineShape struct {
	Points [][2]float64
	Closed bool
}

func (s PolylineShape) Kind() string {
	if s.Closed {
		return "polygon"
	}
	return "polyline"
}

func (s PolylineShape) BuildPath() []PathCommand {
	if len(s.Points) == 0 {
		return nil
	}
	cmds := make([]PathCommand, 0, len(s.Points)+1)
	for i, p := range s.Points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		cmds = append(cmds, PathCommand{op, p[0], p[1]})
	}
	if s.Closed {
		cmds = append(cmds, PathCommand{"Z"})
	}
	return cmds
}

func (s PolylineShape) Bounds() Rect { return BoundsOfPoints(s.Points) }

func (s PolylineShape) Contains(x, y float64) bool {
	if s.Closed {
		return pointInPolygon(s.Points, x, y)
	}
	for i := 1; i < len(s.Points); i++ {
		if distToSegment(s.Points[i-1], s.Points[i], x, y) <= 3 {
			return true
		}
	}
	return false
}

func (s PolylineShape) Interpolate(to Shape, t float64) Shape {
	o, ok := to.(PolylineShape)
	if !ok || len(o.Points) != len(s.Points) {
		return to
	}
	pts := make([][2]float64, len(s.Points))
	for i := range pts {
		pts[i] = [2]float64{lerp(s.Points[i][0], o.Points[i][0], t), lerp(s.Points[i][1], o.Points[i][1], t)}
	}
	return PolylineShape{Points: pts, Closed: o.Closed}
}

// LineShape is a single segment.
type LineShape struct {
	X1, Y1, X2, Y2 float64
}

func (s LineShape) Kind() string { return "line" }

func (s LineShape) BuildPath() []PathCommand {
	return []PathCommand{{"M", s.X1, s.Y1}, {"L", s.X2, s.Y2}}
}

func (s LineShape) Bounds() Rect {
	return BoundsOfPoints([][2]float64{{s.X1, s.Y1}, {s.X2, s.Y2}})
}

func (s LineShape) Contains(x, y float64) bool {
	return distToSegment([2]float64{s.X1, s.Y1}, [2]float64{s.X2, s.Y2}, x, y) <= 3
}

func (s LineShape) Interpolate(to Shape, t float64) Shape {
	o, ok := to.(LineShape)
	if !ok {
		return to
	}
	return LineShape{lerp(s.X1, o.X1, t), lerp(s.Y1, o.Y1, t), lerp(s.X2, o.X2, t), lerp(s.Y2, o.Y2, t)}
}

// CircleShape is used for line symbols.
type CircleShape struct {
	CX, CY, R float64
}

func (s CircleShape) Kind() string { return "circle" }

func (s CircleShape) BuildPath() []PathCommand {
	return []PathCommand{
		{"M", s.CX + s.R, s.CY},
		{"A", s.CX, s.CY, s.R, 0.0, 2 * math.Pi, false},
		{"Z"},
	}
}

func (s CircleShape) Bounds() Rect {
	return Rect{X: s.CX - s.R, Y: s.CY - s.R, Width: 2 * s.R, Height: 2 * s.R}
}

func (s CircleShape) Contains(x, y float64) bool {
	return math.Hypot(x-s.CX, y-s.CY) <= s.R
}

func (s CircleShape) Interpolate(to Shape, t float64) Shape {
	o, ok := to.(CircleShape)
	if !ok {
		return to
	}
	return CircleShape{lerp(s.CX, o.CX, t), lerp(s.CY, o.CY, t), lerp(s.R, o.R, t)}
}

// PointerShape is a gauge needle pivoting at (X, Y).
type PointerShape struct {
	X, Y  float64
	Width float64
	R     float64
	Angle float64
}

func (s PointerShape) Kind() string { return "pointer" }

func (s PointerShape) points() [][2]float64 {
	back := s.Width
	if s.Width < s.R/3 {
		back *= 2
	}
	tailX := s.X - math.Cos(s.Angle)*back
	tailY := s.Y - math.Sin(s.Angle)*back
	side := s.Angle - math.Pi/2
	return [][2]float64{
		{tailX, tailY},
		{s.X + math.Cos(side)*s.Width, s.Y + math.Sin(side)*s.Width},
		{s.X + math.Cos(s.Angle)*s.R, s.Y + math.Sin(s.Angle)*s.R},
		{s.X - math.Cos(side)*s.Width, s.Y - math.Sin(side)*s.Width},
	}
}

func (s PointerShape) BuildPath() []PathCommand {
	return PolylineShape{Points: s.points(), Closed: true}.BuildPath()
}

func (s PointerShape) Bounds() Rect { return BoundsOfPoints(s.points()) }

func (s PointerShape) Contains(x, y float64) bool {
	return pointInPolygon(s.points(), x, y)
}

func (s PointerShape) Interpolate(to Shape, t float64) Shape {
	o, ok := to.(PointerShape)
	if !ok {
		return to
	}
	return PointerShape{
		X:     lerp(s.X, o.X, t),
		Y:     lerp(s.Y, o.Y, t),
		Width: lerp(s.Width, o.Width, t),
		R:     lerp(s.R, o.R, t),
		Angle: lerp(s.Angle, o.Angle, t),
	}
}

// CandleBoxShape draws a candlestick from its eight ends: four body corners
// followed by the two wick segments. A simple box draws only the wick.
type CandleBoxShape struct {
	Points [][2]float64
	Simple bool
}

func (s CandleBoxShape) Kind() string { return "candlestickBox" }

func (s CandleBoxShape) BuildPath() []PathCommand {
	e := s.Points
	if len(e) < 8 {
		return nil
	}
	if s.Simple {
		return []PathCommand{{"M", e[4][0], e[4][1]}, {"L", e[6][0], e[6][1]}}
	}
	return []PathCommand{
		{"M", e[0][0], e[0][1]},
		{"L", e[1][0], e[1][1]},
		{"L", e[2][0], e[2][1]},
		{"L", e[3][0], e[3][1]},
		{"Z"},
		{"M", e[4][0], e[4][1]},
		{"L", e[5][0], e[5][1]},
		{"M", e[6][0], e[6][1]},
		{"L", e[7][0], e[7][1]},
	}
}

func (s CandleBoxShape) Bounds() Rect { return BoundsOfPoints(s.Points) }

func (s CandleBoxShape) Contains(x, y float64) bool {
	return s.Bounds().Contains(x, y)
}

func (s CandleBoxShape) Interpolate(to Shape, t float64) Shape {
	o, ok := to.(CandleBoxShape)
	if !ok || len(o.Points) != len(s.Points) {
		return to
	}
	pts := make([][2]float64, len(s.Points))
	for i := range pts {
		pts[i] = [2]float64{lerp(s.Points[i][0], o.Points[i][0], t), lerp(s.Points[i][1], o.Points[i][1], t)}
	}
	return CandleBoxShape{Points: pts, Simple: o.Simple}
}

func pointInPolygon(pts [][2]float64, x, y float64) bool {
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		xi, yi := pts[i][0], pts[i][1]
		xj, yj := pts[j][0], pts[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func distToSegment(a, b [2]float64, x, y float64) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(x-a[0], y-a[1])
	}
	t := ((x-a[0])*dx + (y-a[1])*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(x-(a[0]+t*dx), y-(a[1]+t*dy))
}
