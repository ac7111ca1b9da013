package series

import (
	"fmt"
	"math"
	"strconv"

	"github.com/inamate/chartview/internal/coord"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
)

type coordGroup struct {
	key    string
	series []*Series
}

// attachCoordSystems builds one coordinate system per distinct axis
// combination and shares it between the series drawn on it.
func attachCoordSystems(g *model.Global, list []*Series, width, height float64) {
	var groups []*coordGroup
	byKey := make(map[string]*coordGroup)
	for _, s := range list {
		var key string
		switch s.Model.StringOr("", "coordinateSystem") {
		case coord.TypeCartesian2D:
			key = fmt.Sprintf("%s/%d/%d", coord.TypeCartesian2D,
				int(s.Model.FloatOr(0, "xAxisIndex")), int(s.Model.FloatOr(0, "yAxisIndex")))
		case coord.TypePolar:
			key = fmt.Sprintf("%s/%d", coord.TypePolar, int(s.Model.FloatOr(0, "polarIndex")))
		default:
			continue
		}
		grp, ok := byKey[key]
		if !ok {
			grp = &coordGroup{key: key}
			byKey[key] = grp
			groups = append(groups, grp)
		}
		grp.series = append(grp.series, s)
	}

	for _, grp := range groups {
		first := grp.series[0].Model
		switch first.StringOr("", "coordinateSystem") {
		case coord.TypeCartesian2D:
			cs := buildCartesian(g, grp.series,
				int(first.FloatOr(0, "xAxisIndex")), int(first.FloatOr(0, "yAxisIndex")), width, height)
			for _, s := range grp.series {
				s.CoordSys = cs
			}
		case coord.TypePolar:
			cs := buildPolar(g, grp.series, int(first.FloatOr(0, "polarIndex")), width, height)
			for _, s := range grp.series {
				s.CoordSys = cs
			}
		}
	}
}

func component(g *model.Global, name string, index int) *model.Model {
	if m := g.Component(name, index); m != nil {
		return m
	}
	return model.New(nil, nil)
}

func axisType(opt *model.Model, fallback string) string {
	if t := opt.StringOr("", "type"); t != "" {
		return t
	}
	if opt.Has("data") {
		return coord.AxisCategory
	}
	return fallback
}

func categories(opt *model.Model, count int) []string {
	var out []string
	for _, c := range model.AsList(opt.Get("data")) {
		switch t := c.(type) {
		case string:
			out = append(out, t)
		case map[string]any:
			name, _ := t["value"].(string)
			out = append(out, name)
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	for i := len(out); i < count; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

// extent collects the value range a value axis must cover.
type extent struct {
	min, max float64
	set      bool
}

func (e *extent) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if !e.set {
		e.min, e.max, e.set = v, v, true
		return
	}
	e.min = math.Min(e.min, v)
	e.max = math.Max(e.max, v)
}

func newAxis(dim string, opt *model.Model, typ string, ext extent) *coord.Axis {
	var a *coord.Axis
	if typ == coord.AxisCategory {
		count := 0
		if ext.set {
			count = int(ext.max) + 1
		}
		a = coord.NewCategoryAxis(dim, categories(opt, count), opt.BoolOr(true, "boundaryGap"))
	} else {
		if !ext.set {
			ext = extent{min: 0, max: 1, set: true}
		}
		if !opt.BoolOr(false, "scale") {
			ext.add(0)
		}
		a = coord.NewValueAxis(dim, opt.FloatOr(ext.min, "min"), opt.FloatOr(ext.max, "max"))
	}
	a.Inverse = opt.BoolOr(false, "inverse")
	return a
}

// itemValues splits an item into values for the first and second dimension
// of its coordinate system. A single value goes to the value axis and the
// item position to the category axis.
func itemValues(vals []float64, i int, firstIsCategory, secondIsCategory bool) (float64, float64) {
	if len(vals) >= 2 {
		return vals[0], vals[1]
	}
	v := math.NaN()
	if len(vals) == 1 {
		v = vals[0]
	}
	if secondIsCategory && !firstIsCategory {
		return v, float64(i)
	}
	return float64(i), v
}

// polarValues is itemValues for (radius, angle) pairs. A single value goes
// on the radius unless the radius axis holds the categories.
func polarValues(vals []float64, i int, radiusIsCategory, angleIsCategory bool) (float64, float64) {
	if len(vals) >= 2 {
		return vals[0], vals[1]
	}
	v := math.NaN()
	if len(vals) == 1 {
		v = vals[0]
	}
	if radiusIsCategory && !angleIsCategory {
		return float64(i), v
	}
	return v, float64(i)
}

// coordValues returns item i in the dimension order of the series'
// coordinate system.
func coordValues(s *Series, i int) (float64, float64) {
	vals := s.Data().Values(i)
	switch cs := s.CoordSys.(type) {
	case *coord.Cartesian2D:
		return itemValues(vals, i, cs.X.Type == coord.AxisCategory, cs.Y.Type == coord.AxisCategory)
	case *coord.Polar:
		return polarValues(vals, i, cs.Radius.Type == coord.AxisCategory, cs.Angle.Type == coord.AxisCategory)
	}
	return math.NaN(), math.NaN()
}

func buildCartesian(g *model.Global, list []*Series, xi, yi int, width, height float64) *coord.Cartesian2D {
	xOpt := component(g, "xAxis", xi)
	yOpt := component(g, "yAxis", yi)
	xType := axisType(xOpt, coord.AxisCategory)
	yType := axisType(yOpt, coord.AxisValue)
	xCat, yCat := xType == coord.AxisCategory, yType == coord.AxisCategory

	var xExt, yExt extent
	for _, s := range list {
		d := s.Data()
		for i := 0; i < d.Count(); i++ {
			vals := d.Values(i)
			if s.Type == "candlestick" {
				base, value := &xExt, &yExt
				if yCat {
					base, value = &yExt, &xExt
				}
				base.add(float64(i))
				for _, v := range vals {
					value.add(v)
				}
				continue
			}
			x, y := itemValues(vals, i, xCat, yCat)
			xExt.add(x)
			yExt.add(y)
		}
	}

	grid := component(g, "grid", 0)
	rect := graphic.Rect{
		X: model.ParsePercent(orDefault(grid.Get("left"), "10%"), width),
		Y: model.ParsePercent(orDefault(grid.Get("top"), 60.0), height),
	}
	right := model.ParsePercent(orDefault(grid.Get("right"), "10%"), width)
	bottom := model.ParsePercent(orDefault(grid.Get("bottom"), 60.0), height)
	rect.Width = math.Max(width-rect.X-right, 0)
	rect.Height = math.Max(height-rect.Y-bottom, 0)

	return coord.NewCartesian2D(rect,
		newAxis("x", xOpt, xType, xExt),
		newAxis("y", yOpt, yType, yExt))
}

func buildPolar(g *model.Global, list []*Series, pi int, width, height float64) *coord.Polar {
	polarOpt := component(g, "polar", pi)
	angleOpt := component(g, "angleAxis", pi)
	radiusOpt := component(g, "radiusAxis", pi)
	radiusType := axisType(radiusOpt, coord.AxisValue)
	angleType := axisType(angleOpt, coord.AxisValue)
	rCat, aCat := radiusType == coord.AxisCategory, angleType == coord.AxisCategory

	var rExt, aExt extent
	for _, s := range list {
		d := s.Data()
		for i := 0; i < d.Count(); i++ {
			r, a := polarValues(d.Values(i), i, rCat, aCat)
			rExt.add(r)
			aExt.add(a)
		}
	}

	cx, cy, r0, r := polarGeometry(polarOpt, width, height)
	return coord.NewPolar(cx, cy, r0, r,
		angleOpt.FloatOr(90, "startAngle"), angleOpt.BoolOr(true, "clockwise"),
		newAxis("angle", angleOpt, angleType, aExt),
		newAxis("radius", radiusOpt, radiusType, rExt))
}

// polarGeometry resolves center and radius options, which accept pixels or
// percentages of the canvas (radius percentages are of half the short side).
func polarGeometry(m *model.Model, width, height float64) (cx, cy, r0, r float64) {
	center := model.AsList(m.Get("center"))
	cx, cy = width/2, height/2
	if len(center) == 2 {
		cx = model.ParsePercent(center[0], width)
		cy = model.ParsePercent(center[1], height)
	}
	size := math.Min(width, height) / 2
	radius := model.AsList(orDefault(m.Get("radius"), "80%"))
	switch len(radius) {
	case 1:
		r = model.ParsePercent(radius[0], size)
	case 2:
		r0 = model.ParsePercent(radius[0], size)
		r = model.ParsePercent(radius[1], size)
	}
	return cx, cy, r0, r
}

func orDefault(v, def any) any {
	if v == nil {
		return def
	}
	return v
}
