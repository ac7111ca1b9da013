package chart

import (
	"math"

	"github.com/inamate/chartview/internal/anim"
	"github.com/inamate/chartview/internal/clip"
	"github.com/inamate/chartview/internal/coord"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

func init() {
	Register("line", func(ctx *Context) View { return newLineView(ctx) })
}

type lineView struct {
	viewBase

	lineGroup   *graphic.Node
	symbolGroup *graphic.Node
	polyline    *graphic.Node
	polygon     *graphic.Node
	coordType   string
}

func newLineView(ctx *Context) *lineView {
	v := &lineView{
		viewBase:    newViewBase(ctx),
		lineGroup:   graphic.NewGroup(),
		symbolGroup: graphic.NewGroup(),
	}
	v.tempEl = v.symbolStandIn
	return v
}

func (v *lineView) Type() string { return "line" }

// symbolArea is the plotting area grown slightly so symbols sitting on the
// axis edge are not dropped by rounding.
func symbolArea(cs coord.System) func(x, y float64) bool {
	switch c := cs.(type) {
	case *coord.Cartesian2D:
		area := c.Area()
		area.X -= 0.1
		area.Y -= 0.1
		area.Width += 0.2
		area.Height += 0.2
		return area.Contains
	case *coord.Polar:
		area := c.Area()
		if area.R0 > 0 {
			area.R0 -= 0.5
		}
		area.R += 0.5
		return graphic.SectorShape{
			CX: area.CX, CY: area.CY, R0: area.R0, R: area.R,
			StartAngle: area.StartAngle, EndAngle: area.EndAngle, Clockwise: area.Clockwise,
		}.Contains
	}
	return nil
}

func (v *lineView) Render(s *series.Series, _ *model.Global, _ API) error {
	cs := s.CoordSys
	if cs == nil {
		v.warnCoordSys(s, "line")
		return nil
	}
	data := s.Data()
	if v.data != nil {
		v.dropTemps(v.data)
	}
	points, _ := data.Layout(series.LayoutPoints).([][2]float64)
	animated := s.IsAnimationEnabled()
	color := s.Color

	v.group.Add(v.lineGroup)
	v.group.Add(v.symbolGroup)

	showSymbol := s.Model.BoolOr(true, "showSymbol") && !s.Pipeline.Large &&
		s.Model.StringOr("emptyCircle", "symbol") != "none"
	var inArea func(x, y float64) bool
	if s.Model.BoolOr(true, "clip") {
		inArea = symbolArea(cs)
	}

	_, isArea := s.Model.Get("areaStyle").(map[string]any)
	var areaPoints [][2]float64
	if isArea {
		areaPoints = areaPolygon(cs, points)
	}

	firstRender := v.polyline == nil || v.coordType != cs.Type()
	if firstRender {
		v.lineGroup.RemoveAll()
		v.polyline = graphic.NewPath(graphic.PolylineShape{Points: points}, graphic.DefaultStyle())
		v.lineGroup.Add(v.polyline)
		v.polygon = nil
		if isArea && areaPoints != nil {
			v.polygon = v.newPolygon(areaPoints)
		}
		v.lineGroup.SetClipPath(v.clipPath(s, animated))
	} else {
		if isArea && v.polygon == nil && areaPoints != nil {
			v.polygon = v.newPolygon(areaPoints)
		} else if v.polygon != nil && !isArea {
			v.lineGroup.Remove(v.polygon)
			v.polygon = nil
		}

		if old := v.lineGroup.ClipPath; old != nil {
			if next := v.clipPath(s, false); next != nil {
				v.ctx.Animator.InitProps(old, anim.Props{Shape: next.Shape}, s.AnimationConfig(true), nil)
			}
		} else {
			v.lineGroup.SetClipPath(v.clipPath(s, animated))
		}

		cfg := s.AnimationConfig(true)
		v.ctx.Animator.UpdateProps(v.polyline, anim.Props{Shape: graphic.PolylineShape{Points: points}}, cfg, nil)
		if v.polygon != nil && areaPoints != nil {
			v.ctx.Animator.UpdateProps(v.polygon, anim.Props{Shape: graphic.PolylineShape{Points: areaPoints, Closed: true}}, cfg, nil)
		}
	}
	v.coordType = cs.Type()

	lineStyle := graphic.DefaultStyle().Apply(s.GetModel("lineStyle").LineStyle())
	if lineStyle.Stroke == "" {
		lineStyle.Stroke = color
	}
	if lineStyle.LineWidth == 0 {
		lineStyle.LineWidth = 2
	}
	lineStyle.Fill = "none"
	v.polyline.Style = lineStyle
	v.polyline.Data.SeriesIndex = s.Index
	v.polyline.Data.DataType = s.Type
	armEmphasis(v.polyline, s.Model, "lineStyle")
	if lineStyle.LineWidth > 0 && s.Model.StringOr("", "emphasis", "lineStyle", "width") == "bolder" {
		v.polyline.EnsureState("emphasis").Style.LineWidth = graphic.Num(lineStyle.LineWidth + 1)
	}

	if v.polygon != nil {
		am := s.GetModel("areaStyle")
		areaStyle := graphic.DefaultStyle()
		areaStyle.Fill = am.StringOr(color, "color")
		areaStyle.Opacity = am.FloatOr(0.7, "opacity")
		v.polygon.Style = areaStyle
		v.polygon.Data.SeriesIndex = s.Index
		v.polygon.Data.DataType = s.Type
		armEmphasis(v.polygon, s.Model, "areaStyle")
	}

	if showSymbol {
		v.updateSymbols(s, v.data, inArea, !firstRender && animated)
	} else {
		v.symbolGroup.RemoveAll()
		data.EachItemGraphicEl(func(_ *graphic.Node, i int) { data.SetItemGraphicEl(i, nil) })
	}
	v.data = data
	return nil
}

func (v *lineView) newPolygon(points [][2]float64) *graphic.Node {
	el := graphic.NewPath(graphic.PolylineShape{Points: points, Closed: true}, graphic.DefaultStyle())
	v.lineGroup.Add(el)
	return el
}

// clipPath clips the line group to the plotting area. The first render
// reveals the line by growing the clip along the base axis.
func (v *lineView) clipPath(s *series.Series, animated bool) *graphic.Node {
	if !s.Model.BoolOr(true, "clip") {
		return nil
	}
	return clip.FromCoordSys(s.CoordSys, animated, s, v.ctx.Animator, nil)
}

// areaPolygon closes the line down to the value axis start. Only grids
// have a straight value axis to close onto.
func areaPolygon(cs coord.System, points [][2]float64) [][2]float64 {
	c, ok := cs.(*coord.Cartesian2D)
	if !ok || len(points) == 0 {
		return nil
	}
	valueAxis := c.OtherAxis(c.BaseAxis())
	ext := valueAxis.ScaleExtent()
	origin := valueAxis.DataToCoord(math.Max(math.Min(0, ext[1]), ext[0]))

	out := make([][2]float64, 0, len(points)*2)
	out = append(out, points...)
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		if valueAxis.IsHorizontal() {
			p[0] = origin
		} else {
			p[1] = origin
		}
		out = append(out, p)
	}
	return out
}

func symbolSize(m *model.Model) float64 {
	return m.FloatOr(4, "symbolSize")
}

func (v *lineView) newSymbol(s *series.Series, i int, pt [2]float64) *graphic.Node {
	d := s.Data()
	itemModel := d.ItemModel(i)
	el := graphic.NewPath(graphic.CircleShape{CX: pt[0], CY: pt[1], R: symbolSize(itemModel) / 2}, graphic.DefaultStyle())
	el.Z2 = 2
	bindItem(el, s, i)
	v.styleSymbol(el, s, i)
	return el
}

func (v *lineView) styleSymbol(el *graphic.Node, s *series.Series, i int) {
	d := s.Data()
	itemModel := d.ItemModel(i)
	vis := d.ItemVisual(i)
	style := vis.Style()
	if style.Fill == "" {
		style.Fill = s.Color
	}
	if itemModel.StringOr("emptyCircle", "symbol") == "emptyCircle" {
		style.Stroke = style.Fill
		style.Fill = "#fff"
		if style.LineWidth == 0 {
			style.LineWidth = 2
		}
	}
	el.Style = style
	armEmphasis(el, itemModel, "itemStyle")
	lm := itemModel.GetModel("label")
	if _, ok := lm.Get("position").(string); !ok {
		lm = model.New(map[string]any{"position": "top"}, lm)
	}
	setLabel(el, lm, labelText(s, lm, i, itemValueText(d, i)), el.Shape.Bounds(), style.Stroke)
}

// updateSymbols diffs the per-point symbols. Points outside the plotting
// area get no symbol.
func (v *lineView) updateSymbols(s *series.Series, old *series.Data, inArea func(x, y float64) bool, animated bool) {
	data := s.Data()
	cfg := anim.Config{}
	if animated {
		cfg = s.AnimationConfig(true)
	}
	point := func(i int) ([2]float64, bool) {
		pt, ok := data.ItemLayout(i).([2]float64)
		if !ok || math.IsNaN(pt[0]) || math.IsNaN(pt[1]) {
			return pt, false
		}
		if inArea != nil && !inArea(pt[0], pt[1]) {
			return pt, false
		}
		return pt, true
	}

	data.Diff(old).
		Add(func(i int) {
			pt, ok := point(i)
			if !ok {
				return
			}
			el := v.newSymbol(s, i, pt)
			v.symbolGroup.Add(el)
			data.SetItemGraphicEl(i, el)
		}).
		Update(func(newIndex, oldIndex int) {
			el := old.ItemGraphicEl(oldIndex)
			data.SetItemGraphicEl(newIndex, nil)
			pt, ok := point(newIndex)
			if !ok {
				if el != nil {
					v.symbolGroup.Remove(el)
				}
				return
			}
			if el == nil || el.Parent != v.symbolGroup {
				el = v.newSymbol(s, newIndex, pt)
				v.symbolGroup.Add(el)
			} else {
				target := graphic.CircleShape{CX: pt[0], CY: pt[1], R: symbolSize(data.ItemModel(newIndex)) / 2}
				v.ctx.Animator.UpdateProps(el, anim.Props{Shape: target}, cfg, nil)
				bindItem(el, s, newIndex)
				v.styleSymbol(el, s, newIndex)
			}
			data.SetItemGraphicEl(newIndex, el)
		}).
		Remove(func(i int) {
			if el := old.ItemGraphicEl(i); el != nil {
				v.ctx.Animator.RemoveElement(el, anim.Props{}, cfg, nil)
			}
		}).
		Execute()
}

// symbolStandIn draws a symbol for a point that has none, so it can be
// highlighted.
func (v *lineView) symbolStandIn(s *series.Series, i int) *graphic.Node {
	pt, ok := s.Data().ItemLayout(i).([2]float64)
	if !ok {
		return nil
	}
	if s.Model.BoolOr(true, "clip") {
		if inArea := symbolArea(s.CoordSys); inArea != nil && !inArea(pt[0], pt[1]) {
			return nil
		}
	}
	return v.newSymbol(s, i, pt)
}

func (v *lineView) IncrementalPrepareRender(s *series.Series, _ *model.Global, _ API) {
	v.Remove(nil, nil)
	v.group.Add(v.lineGroup)
	v.lineGroup.SetClipPath(v.clipPath(s, false))
}

// IncrementalRender appends one polyline per chunk, starting from the last
// point of the previous chunk so the line stays connected.
func (v *lineView) IncrementalRender(params series.ProgressParams, s *series.Series, _ *model.Global, _ API) {
	d := s.Data()
	var pts [][2]float64
	from := max(params.Start-1, 0)
	for i := from; i < params.End && i < d.Count(); i++ {
		if pt, ok := d.ItemLayout(i).([2]float64); ok {
			pts = append(pts, pt)
		}
	}
	if len(pts) < 2 {
		return
	}
	style := graphic.DefaultStyle().Apply(s.GetModel("lineStyle").LineStyle())
	if style.Stroke == "" {
		style.Stroke = s.Color
	}
	if style.LineWidth == 0 {
		style.LineWidth = 2
	}
	style.Fill = "none"
	el := graphic.NewPath(graphic.PolylineShape{Points: pts}, style)
	el.Incremental = true
	el.Data.SeriesIndex = s.Index
	el.Data.DataType = s.Type
	v.lineGroup.Add(el)
}

func (v *lineView) Remove(_ *model.Global, _ API) {
	v.group.RemoveAll()
	v.lineGroup.RemoveAll()
	v.lineGroup.RemoveClipPath()
	v.symbolGroup.RemoveAll()
	v.polyline = nil
	v.polygon = nil
	v.coordType = ""
	v.data = nil
}
