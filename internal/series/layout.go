package series

import (
	"math"

	"github.com/inamate/chartview/internal/coord"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
)

// Series-wide layout keys.
const (
	LayoutBandWidth        = "bandWidth"
	LayoutOffset           = "offset"
	LayoutSize             = "size"
	LayoutLargePoints      = "largePoints"
	LayoutLargeDataIndices = "largeDataIndices"
	LayoutValueAxisStart   = "valueAxisStart"
	LayoutBaseDim          = "baseDim"
	LayoutPoints           = "points"
	LayoutViewRoot         = "viewRoot"
)

type barColumn struct {
	width  float64
	offset float64
}

// barColumns shares the band of each base axis between the bar series drawn
// on it, using barWidth, barGap and barCategoryGap.
func barColumns(list []*Series) map[*Series]barColumn {
	type stack struct {
		band   float64
		series []*Series
	}
	var order []*coord.Axis
	stacks := make(map[*coord.Axis]*stack)
	for _, s := range list {
		if s.Type != "bar" || s.CoordSys == nil {
			continue
		}
		base := s.CoordSys.BaseAxis()
		st, ok := stacks[base]
		if !ok {
			st = &stack{band: base.BandWidth()}
			if base.Type != coord.AxisCategory {
				st.band = math.Abs(base.Extent()[1]-base.Extent()[0]) / float64(max(s.Data().Count(), 1))
			}
			stacks[base] = st
			order = append(order, base)
		}
		st.series = append(st.series, s)
	}

	out := make(map[*Series]barColumn)
	for _, base := range order {
		st := stacks[base]
		var categoryGap, barGap any = "20%", "30%"
		remained := st.band
		autoCount := 0
		fixed := make(map[*Series]float64)
		for _, s := range st.series {
			if v := s.Get("barCategoryGap"); v != nil {
				categoryGap = v
			}
			if v := s.Get("barGap"); v != nil {
				barGap = v
			}
			if v := s.Get("barWidth"); v != nil {
				w := model.ParsePercent(v, st.band)
				fixed[s] = w
				remained -= w
			} else {
				autoCount++
			}
		}
		gapPercent := model.ParsePercent(barGap, 1)
		catGap := model.ParsePercent(categoryGap, st.band)

		autoWidth := 0.0
		if autoCount > 0 {
			autoWidth = (remained - catGap) / (float64(autoCount) + float64(autoCount-1)*gapPercent)
			autoWidth = math.Max(autoWidth, 0)
		}

		total := 0.0
		widths := make([]float64, len(st.series))
		for i, s := range st.series {
			w, ok := fixed[s]
			if !ok {
				w = autoWidth
				if mw := s.Get("barMaxWidth"); mw != nil {
					w = math.Min(w, model.ParsePercent(mw, st.band))
				}
			}
			widths[i] = w
			total += w * (1 + gapPercent)
		}
		if len(widths) > 0 {
			total -= widths[len(widths)-1] * gapPercent
		}

		offset := -total / 2
		for i, s := range st.series {
			out[s] = barColumn{width: widths[i], offset: offset}
			offset += widths[i] * (1 + gapPercent)
		}
	}
	return out
}

// layoutBar computes a rect (cartesian) or sector (polar) per item, plus the
// flat end point list used by the large path.
func layoutBar(s *Series, col barColumn) {
	d := s.Data()
	d.SetLayout(LayoutSize, col.width)
	d.SetLayout(LayoutOffset, col.offset)

	switch cs := s.CoordSys.(type) {
	case *coord.Cartesian2D:
		layoutBarCartesian(s, cs, col)
	case *coord.Polar:
		layoutBarPolar(s, cs, col)
	}
}

func layoutBarCartesian(s *Series, cs *coord.Cartesian2D, col barColumn) {
	d := s.Data()
	base := cs.BaseAxis()
	valueAxis := cs.OtherAxis(base)
	valueStart := valueAxis.DataToCoord(0)
	horizontalValue := valueAxis.IsHorizontal()
	baseDim := 0
	if !base.IsHorizontal() {
		baseDim = 1
	}
	d.SetLayout(LayoutBandWidth, base.BandWidth())
	d.SetLayout(LayoutValueAxisStart, valueStart)
	d.SetLayout(LayoutBaseDim, baseDim)

	var largePoints []float64
	var largeIndices []int
	for i := 0; i < d.Count(); i++ {
		if !d.HasValue(i) {
			d.SetItemLayout(i, nil)
			continue
		}
		px, py := cs.DataToPoint(coordValues(s, i))
		var r graphic.RectShape
		if horizontalValue {
			r = graphic.RectShape{X: valueStart, Y: py + col.offset, Width: px - valueStart, Height: col.width}
		} else {
			r = graphic.RectShape{X: px + col.offset, Y: valueStart, Width: col.width, Height: py - valueStart}
		}
		d.SetItemLayout(i, r)

		if s.Pipeline.Large {
			pt := [2]float64{px, py}
			pt[baseDim] += col.offset + col.width/2
			largePoints = append(largePoints, pt[0], pt[1])
			largeIndices = append(largeIndices, i)
		}
	}
	if s.Pipeline.Large {
		d.SetLayout(LayoutLargePoints, largePoints)
		d.SetLayout(LayoutLargeDataIndices, largeIndices)
	}
}

func layoutBarPolar(s *Series, cs *coord.Polar, col barColumn) {
	d := s.Data()
	area := cs.Area()
	base := cs.BaseAxis()
	d.SetLayout(LayoutBandWidth, base.BandWidth())

	dir := 1.0
	if ext := base.Extent(); ext[1] < ext[0] {
		dir = -1
	}
	for i := 0; i < d.Count(); i++ {
		if !d.HasValue(i) {
			d.SetItemLayout(i, nil)
			continue
		}
		radius, angle := coordValues(s, i)
		sector := graphic.SectorShape{CX: area.CX, CY: area.CY}
		if base == cs.Radius {
			sector.R0 = cs.Radius.DataToCoord(radius) + dir*col.offset
			sector.R = sector.R0 + dir*col.width
			sector.StartAngle = cs.Angle.DataToCoord(0)
			sector.EndAngle = cs.Angle.DataToCoord(angle)
		} else {
			sector.R0 = cs.Radius.DataToCoord(0)
			sector.R = cs.Radius.DataToCoord(radius)
			sector.StartAngle = cs.Angle.DataToCoord(angle) + dir*col.offset
			sector.EndAngle = sector.StartAngle + dir*col.width
		}
		sector.Clockwise = sector.EndAngle >= sector.StartAngle
		d.SetItemLayout(i, sector)
	}
}

// layoutLine maps every item to a point; items without a value get no layout.
func layoutLine(s *Series) {
	d := s.Data()
	var points [][2]float64
	for i := 0; i < d.Count(); i++ {
		if !d.HasValue(i) || s.CoordSys == nil {
			d.SetItemLayout(i, nil)
			continue
		}
		x, y := s.CoordSys.DataToPoint(coordValues(s, i))
		pt := [2]float64{x, y}
		d.SetItemLayout(i, pt)
		points = append(points, pt)
	}
	d.SetLayout(LayoutPoints, points)
}

// CandleWidth resolves barWidth, barMaxWidth and barMinWidth against the band.
func CandleWidth(m *model.Model, band float64) float64 {
	if v := m.Get("barWidth"); v != nil {
		return model.ParsePercent(v, band)
	}
	maxWidth := model.ParsePercent(orDefault(m.Get("barMaxWidth"), band), band)
	minWidth := model.ParsePercent(orDefault(m.Get("barMinWidth"), 1.0), band)
	return math.Max(math.Min(band/2, maxWidth), minWidth)
}

// SubPixelOptimize snaps a coordinate so a line of lineWidth lands on whole
// device pixels.
func SubPixelOptimize(pos, lineWidth float64, positive bool) float64 {
	doubled := math.Round(pos * 2)
	if int(doubled+math.Round(lineWidth))%2 == 0 {
		return doubled / 2
	}
	if positive {
		return (doubled + 1) / 2
	}
	return (doubled - 1) / 2
}

// layoutCandlestick builds the eight ends of each candle: four body corners
// then the high and low wick segments. Values are [open, close, lowest, highest].
func layoutCandlestick(s *Series) {
	cs, ok := s.CoordSys.(*coord.Cartesian2D)
	if !ok {
		return
	}
	d := s.Data()
	base := cs.BaseAxis()
	valueAxis := cs.OtherAxis(base)
	baseDim, valueDim := 0, 1
	if !base.IsHorizontal() {
		baseDim, valueDim = 1, 0
	}
	width := CandleWidth(s.Model, base.BandWidth())
	d.SetLayout(LayoutSize, width)
	d.SetLayout(LayoutBaseDim, baseDim)

	point := func(baseCoord, v float64) [2]float64 {
		var p [2]float64
		p[baseDim] = baseCoord
		p[valueDim] = valueAxis.DataToCoord(v)
		return p
	}
	snap := func(p [2]float64) [2]float64 {
		return [2]float64{SubPixelOptimize(p[0], 1, false), SubPixelOptimize(p[1], 1, true)}
	}

	var large []float64
	for i := 0; i < d.Count(); i++ {
		vals := d.Values(i)
		if !d.HasValue(i) || len(vals) < 4 {
			d.SetItemLayout(i, nil)
			continue
		}
		open, closeVal, lowest, highest := vals[0], vals[1], vals[2], vals[3]
		baseCoord := base.DataToCoord(float64(i))
		ocLow := point(baseCoord, math.Min(open, closeVal))
		ocHigh := point(baseCoord, math.Max(open, closeVal))
		lowestPt := point(baseCoord, lowest)
		highestPt := point(baseCoord, highest)

		sign := 1.0
		if closeVal < open {
			sign = -1
		}

		var ends [][2]float64
		addBodyEnd := func(p [2]float64, start bool) {
			p1, p2 := p, p
			p1[baseDim] = SubPixelOptimize(p[baseDim]+width/2, 1, false)
			p2[baseDim] = SubPixelOptimize(p[baseDim]-width/2, 1, true)
			if start {
				ends = append(ends, p1, p2)
			} else {
				ends = append(ends, p2, p1)
			}
		}
		addBodyEnd(ocHigh, false)
		addBodyEnd(ocLow, true)
		ends = append(ends, snap(highestPt), snap(ocHigh), snap(lowestPt), snap(ocLow))

		baseline := ocLow[valueDim]
		if open > closeVal {
			baseline = ocHigh[valueDim]
		}
		d.SetItemLayout(i, CandleLayout{
			Sign:         sign,
			InitBaseline: baseline,
			Ends:         ends,
			BrushRect:    graphic.BoundsOfPoints(ends),
		})

		if s.Pipeline.Large {
			large = append(large, sign, baseCoord, highestPt[valueDim], lowestPt[valueDim])
		}
	}
	if s.Pipeline.Large {
		d.SetLayout(LayoutLargePoints, large)
	}
}

// layoutSunburst lays the tree out as concentric rings around the view root.
// Angles are proportional to value against the view root's total.
func layoutSunburst(s *Series, viewRootID string, width, height float64) {
	d := s.Data()
	t := d.Tree
	if t == nil {
		return
	}
	for i := 0; i < d.Count(); i++ {
		d.SetItemLayout(i, nil)
	}

	root := t.Find(viewRootID)
	if root == nil {
		root = t.Root
	}
	d.SetLayout(LayoutViewRoot, root)

	cx, cy, r0, r := polarGeometry(modelWithDefaults(s.Model, "radius", []any{0.0, "75%"}), width, height)
	start := -s.Model.FloatOr(90, "startAngle") * math.Pi / 180
	dir := 1.0
	if !s.Model.BoolOr(true, "clockwise") {
		dir = -1
	}

	height0 := root.Height()
	firstLevel := 0
	if root != t.Root {
		height0++
		firstLevel = 1
		d.SetItemLayout(root.DataIndex, graphic.SectorShape{
			CX: cx, CY: cy, R0: r0, R: r0 + (r-r0)/float64(max(height0, 1)),
			StartAngle: start, EndAngle: start + dir*2*math.Pi, Clockwise: dir > 0,
		})
	}
	rPer := (r - r0) / float64(max(height0, 1))

	total := 0.0
	for _, c := range root.Children {
		total += c.Value
	}
	if root != t.Root && root.Value > total {
		total = root.Value
	}
	unit := 0.0
	if total > 0 {
		unit = 2 * math.Pi / total
	}

	var walk func(n *TreeNode, level int, angle float64)
	walk = func(n *TreeNode, level int, angle float64) {
		for _, c := range n.Children {
			span := c.Value * unit
			d.SetItemLayout(c.DataIndex, graphic.SectorShape{
				CX: cx, CY: cy,
				R0:         r0 + rPer*float64(level),
				R:          r0 + rPer*float64(level+1),
				StartAngle: angle,
				EndAngle:   angle + dir*span,
				Clockwise:  dir > 0,
			})
			walk(c, level+1, angle)
			angle += dir * span
		}
	}
	walk(root, firstLevel, start)
}

func modelWithDefaults(m *model.Model, key string, def any) *model.Model {
	if m.Has(key) {
		return m
	}
	return model.New(map[string]any{key: def}, m)
}
