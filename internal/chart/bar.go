package chart

import (
	"math"
	"sort"

	"github.com/inamate/chartview/internal/anim"
	"github.com/inamate/chartview/internal/clip"
	"github.com/inamate/chartview/internal/coord"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

func init() {
	Register("bar", func(ctx *Context) View { return newBarView(ctx) })
}

type barView struct {
	viewBase

	// isLarge is nil until the first render picks a draw mode.
	isLarge *bool

	backgroundGroup *graphic.Node
	backgroundEls   []*graphic.Node
}

func newBarView(ctx *Context) *barView {
	v := &barView{viewBase: newViewBase(ctx)}
	v.tempEl = v.largeStandIn
	return v
}

func (v *barView) Type() string { return "bar" }

func (v *barView) Render(s *series.Series, _ *model.Global, _ API) error {
	v.updateDrawMode(s)
	switch s.CoordSys.(type) {
	case *coord.Cartesian2D, *coord.Polar:
	default:
		v.warnCoordSys(s, "bar")
		return nil
	}
	if *v.isLarge {
		v.renderLarge(s)
	} else {
		v.renderNormal(s)
	}
	return nil
}

func (v *barView) IncrementalPrepareRender(s *series.Series, _ *model.Global, _ API) {
	v.clear()
	v.updateDrawMode(s)
	v.updateLargeClip(s)
}

// IncrementalRender only supports the aggregated path.
func (v *barView) IncrementalRender(params series.ProgressParams, s *series.Series, _ *model.Global, _ API) {
	v.removeBackground()
	v.createLarge(s, params, true)
}

func (v *barView) Remove(_ *model.Global, _ API) {
	v.clear()
}

func (v *barView) updateDrawMode(s *series.Series) {
	large := s.Pipeline.Large
	if v.isLarge == nil || *v.isLarge != large {
		v.isLarge = &large
		v.clear()
	}
}

// clear drops every element at once.
func (v *barView) clear() {
	v.group.RemoveAll()
	v.group.RemoveClipPath()
	v.backgroundGroup = nil
	v.backgroundEls = nil
	v.data = nil
}

func (v *barView) removeBackground() {
	if v.backgroundGroup != nil {
		v.group.Remove(v.backgroundGroup)
		v.backgroundGroup = nil
	}
}

// baseIsHorizontalOrAngular reports whether the base axis is the x axis of a
// grid or the angle axis of a polar system.
func baseIsHorizontalOrAngular(cs coord.System) bool {
	switch c := cs.(type) {
	case *coord.Cartesian2D:
		return c.BaseAxis().IsHorizontal()
	case *coord.Polar:
		return c.BaseAxis() == c.Angle
	}
	return false
}

func (v *barView) renderNormal(s *series.Series) {
	group := v.group
	data := s.Data()
	old := v.data
	if old != nil {
		v.dropTemps(old)
	}
	group.RemoveClipPath()

	cs := s.CoordSys
	_, isPolar := cs.(*coord.Polar)
	isHorizontalOrRadial := baseIsHorizontalOrAngular(cs)
	animated := s.IsAnimationEnabled()
	needsClip := s.Model.BoolOr(true, "clip")
	drawBackground := s.Model.BoolOr(false, "showBackground")
	backgroundModel := s.GetModel("backgroundStyle")

	initCfg := s.AnimationConfig(false)
	updateCfg := s.AnimationConfig(true)

	oldBg := v.backgroundEls
	bgEls := make([]*graphic.Node, data.Count())

	data.Diff(old).
		Add(func(i int) {
			itemModel := data.ItemModel(i)
			layout, ok := v.itemLayout(data, i, itemModel, isPolar)
			if drawBackground && ok {
				bg := v.createBackground(cs, isHorizontalOrRadial, layout, backgroundModel)
				bgEls[i] = bg
			}
			if !ok || !data.HasValue(i) {
				return
			}
			if needsClip {
				var clipped bool
				if layout, clipped = v.clipLayout(cs, layout); clipped {
					return
				}
			}
			el := v.createElement(s, i, layout, isHorizontalOrRadial, animated, false, initCfg, updateCfg)
			data.SetItemGraphicEl(i, el)
			group.Add(el)
			v.updateStyle(el, s, i, itemModel, layout, isPolar)
		}).
		Update(func(newIndex, oldIndex int) {
			itemModel := data.ItemModel(newIndex)
			layout, ok := v.itemLayout(data, newIndex, itemModel, isPolar)
			if drawBackground && ok {
				var bg *graphic.Node
				if oldIndex < len(oldBg) {
					bg = oldBg[oldIndex]
				}
				bgShape := backgroundShape(cs, isHorizontalOrRadial, layout)
				if bg == nil {
					bg = v.createBackground(cs, isHorizontalOrRadial, layout, backgroundModel)
				} else {
					bg.Style = backgroundStyle(backgroundModel)
					v.ctx.Animator.UpdateProps(bg, anim.Props{Shape: bgShape}, updateCfg, nil)
				}
				bgEls[newIndex] = bg
			}

			el := old.ItemGraphicEl(oldIndex)
			data.SetItemGraphicEl(newIndex, nil)
			if !ok || !data.HasValue(newIndex) {
				if el != nil {
					v.removeElement(el, isHorizontalOrRadial, updateCfg)
				}
				return
			}
			if needsClip {
				var clipped bool
				if layout, clipped = v.clipLayout(cs, layout); clipped {
					if el != nil {
						v.ctx.Animator.Stop(el)
						group.Remove(el)
					}
					return
				}
			}
			if el != nil {
				v.ctx.Animator.UpdateProps(el, anim.Props{Shape: layout}, updateCfg, nil)
			} else {
				el = v.createElement(s, newIndex, layout, isHorizontalOrRadial, animated, true, initCfg, updateCfg)
			}
			data.SetItemGraphicEl(newIndex, el)
			group.Add(el)
			v.updateStyle(el, s, newIndex, itemModel, layout, isPolar)
		}).
		Remove(func(i int) {
			if el := old.ItemGraphicEl(i); el != nil {
				v.removeElement(el, isHorizontalOrRadial, updateCfg)
			}
		}).
		Execute()

	if drawBackground {
		if v.backgroundGroup == nil {
			v.backgroundGroup = graphic.NewGroup()
		}
		v.backgroundGroup.RemoveAll()
		for _, bg := range bgEls {
			if bg != nil {
				v.backgroundGroup.Add(bg)
			}
		}
		group.Add(v.backgroundGroup)
		v.backgroundEls = bgEls
	} else {
		v.removeBackground()
		v.backgroundEls = nil
	}
	v.data = data
}

// itemLayout returns the drawable layout of item i. Rects are shrunk by
// half the border width on each side so the stroke stays inside the bar.
func (v *barView) itemLayout(d *series.Data, i int, itemModel *model.Model, isPolar bool) (graphic.Shape, bool) {
	if isPolar {
		sector, ok := d.ItemLayout(i).(graphic.SectorShape)
		return sector, ok
	}
	r, ok := d.ItemLayout(i).(graphic.RectShape)
	if !ok {
		return nil, false
	}
	lineWidth := 0.0
	if vis := d.ItemVisual(i); vis.BorderColor != "" && vis.BorderColor != "none" {
		w, h := math.Abs(r.Width), math.Abs(r.Height)
		if math.IsNaN(r.Width) {
			w = math.MaxFloat64
		}
		if math.IsNaN(r.Height) {
			h = math.MaxFloat64
		}
		lineWidth = math.Min(vis.BorderWidth, math.Min(w, h))
	}
	signX, signY := 1.0, 1.0
	if r.Width <= 0 {
		signX = -1
	}
	if r.Height <= 0 {
		signY = -1
	}
	r.X += signX * lineWidth / 2
	r.Y += signY * lineWidth / 2
	r.Width -= signX * lineWidth
	r.Height -= signY * lineWidth
	r.R = itemModel.FloatOr(0, "itemStyle", "borderRadius")
	return r, true
}

func (v *barView) clipLayout(cs coord.System, layout graphic.Shape) (graphic.Shape, bool) {
	switch c := cs.(type) {
	case *coord.Cartesian2D:
		return clip.Rect(c.Area(), layout.(graphic.RectShape))
	case *coord.Polar:
		return clip.Sector(c.Area(), layout.(graphic.SectorShape))
	}
	return layout, false
}

// createElement builds the rect or sector of item i. Animated bars grow
// from the value axis: rects from zero height (or width on a vertical base
// axis), sectors from the inner radius or the start angle.
func (v *barView) createElement(s *series.Series, i int, layout graphic.Shape, isHorizontalOrRadial, animated, isUpdate bool, initCfg, updateCfg anim.Config) *graphic.Node {
	el := graphic.NewPath(layout, graphic.DefaultStyle())
	el.Z2 = 1
	el.Name = "item"
	bindItem(el, s, i)
	if !animated {
		return el
	}

	start := layout
	switch l := layout.(type) {
	case graphic.RectShape:
		if isHorizontalOrRadial {
			l.Height = 0
		} else {
			l.Width = 0
		}
		start = l
	case graphic.SectorShape:
		if isHorizontalOrRadial {
			l.R = l.R0
		} else {
			l.EndAngle = l.StartAngle
		}
		start = l
	}
	el.Shape = start
	if isUpdate {
		v.ctx.Animator.UpdateProps(el, anim.Props{Shape: layout}, updateCfg, nil)
	} else {
		v.ctx.Animator.InitProps(el, anim.Props{Shape: layout}, initCfg, nil)
	}
	return el
}

// removeElement collapses a bar onto its value axis start, then detaches it.
func (v *barView) removeElement(el *graphic.Node, isHorizontalOrRadial bool, cfg anim.Config) {
	el.SetTextContent(nil)
	var target graphic.Shape
	switch l := el.Shape.(type) {
	case graphic.RectShape:
		if isHorizontalOrRadial {
			l.Height = 0
		} else {
			l.Width = 0
		}
		target = l
	case graphic.SectorShape:
		if isHorizontalOrRadial {
			l.R = l.R0
		} else {
			l.EndAngle = l.StartAngle
		}
		target = l
	}
	v.ctx.Animator.RemoveElement(el, anim.Props{Shape: target}, cfg, nil)
}

func (v *barView) updateStyle(el *graphic.Node, s *series.Series, i int, itemModel *model.Model, layout graphic.Shape, isPolar bool) {
	d := s.Data()
	vis := d.ItemVisual(i)
	el.Style = vis.Style()
	if el.Style.Fill == "" {
		el.Style.Fill = s.Color
	}
	armEmphasis(el, itemModel, "itemStyle")

	if sector, ok := layout.(graphic.SectorShape); ok && isPolar && sector.StartAngle == sector.EndAngle {
		el.Style.Fill, el.Style.Stroke = "none", "none"
		for _, st := range el.States {
			if st.Style.Fill != nil {
				st.Style.Fill = graphic.Str("none")
			}
			if st.Style.Stroke != nil {
				st.Style.Stroke = graphic.Str("none")
			}
		}
	}

	lm := itemModel.GetModel("label")
	setLabel(el, lm, labelText(s, lm, i, itemValueText(d, i)), layout.Bounds(), el.Style.Fill)
}

func backgroundStyle(m *model.Model) graphic.Style {
	style := graphic.DefaultStyle()
	style.Fill = m.StringOr("rgba(180, 180, 180, 0.2)", "color")
	style.Stroke = m.StringOr("", "borderColor")
	style.LineWidth = m.FloatOr(0, "borderWidth")
	style.Opacity = m.FloatOr(1, "opacity")
	return style
}

// backgroundShape spans the whole plotting area along the value axis.
func backgroundShape(cs coord.System, isHorizontalOrRadial bool, layout graphic.Shape) graphic.Shape {
	switch c := cs.(type) {
	case *coord.Cartesian2D:
		r := layout.(graphic.RectShape)
		area := c.Area()
		if isHorizontalOrRadial {
			return graphic.RectShape{X: r.X, Y: area.Y, Width: r.Width, Height: area.Height, R: r.R}
		}
		return graphic.RectShape{X: area.X, Y: r.Y, Width: area.Width, Height: r.Height, R: r.R}
	case *coord.Polar:
		sector := layout.(graphic.SectorShape)
		area := c.Area()
		out := graphic.SectorShape{CX: area.CX, CY: area.CY, Clockwise: true}
		if isHorizontalOrRadial {
			out.R0, out.R = area.R0, area.R
			out.StartAngle, out.EndAngle = sector.StartAngle, sector.EndAngle
			out.Clockwise = sector.Clockwise
		} else {
			out.R0, out.R = sector.R0, sector.R
			out.StartAngle, out.EndAngle = 0, 2*math.Pi
		}
		return out
	}
	return layout
}

func (v *barView) createBackground(cs coord.System, isHorizontalOrRadial bool, layout graphic.Shape, m *model.Model) *graphic.Node {
	el := graphic.NewPath(backgroundShape(cs, isHorizontalOrRadial, layout), backgroundStyle(m))
	el.Silent = true
	el.Z2 = 0
	return el
}

func (v *barView) renderLarge(s *series.Series) {
	v.clear()
	v.createLarge(s, series.ProgressParams{Start: 0, End: s.Data().Count()}, false)
	v.updateLargeClip(s)
	v.data = s.Data()
}

// updateLargeClip clips the aggregated path to the plotting area. Large
// bars skip the per-item clip test.
func (v *barView) updateLargeClip(s *series.Series) {
	v.group.RemoveClipPath()
	if !s.Model.BoolOr(true, "clip") {
		return
	}
	if c := clip.FromCoordSys(s.CoordSys, false, s, nil, nil); c != nil {
		v.group.SetClipPath(c)
	}
}

// createLarge draws the items in params as one aggregated path, plus one
// more for their backgrounds.
func (v *barView) createLarge(s *series.Series, params series.ProgressParams, incremental bool) {
	cs, ok := s.CoordSys.(*coord.Cartesian2D)
	if !ok {
		return
	}
	d := s.Data()
	points, _ := d.Layout(series.LayoutLargePoints).([]float64)
	indices, _ := d.Layout(series.LayoutLargeDataIndices).([]int)
	lo := sort.SearchInts(indices, params.Start)
	hi := sort.SearchInts(indices, params.End)
	if hi <= lo {
		return
	}
	points = points[lo*2 : hi*2]
	indices = indices[lo:hi]

	baseDim, _ := d.Layout(series.LayoutBaseDim).(int)
	barWidth, _ := d.Layout(series.LayoutSize).(float64)
	start, _ := d.Layout(series.LayoutValueAxisStart).(float64)

	if s.Model.BoolOr(false, "showBackground") {
		area := cs.Area()
		bgPoints := make([]float64, len(points))
		copy(bgPoints, points)
		bgStart, bgEnd := area.Y+area.Height, area.Y
		if baseDim == 1 {
			bgStart, bgEnd = area.X, area.X+area.Width
		}
		for i := 1 - baseDim; i < len(bgPoints); i += 2 {
			bgPoints[i] = bgEnd
		}
		bm := s.GetModel("backgroundStyle")
		style := backgroundStyle(bm)
		style.Stroke = bm.StringOr(style.Fill, "borderColor")
		style.Fill = ""
		style.LineWidth = barWidth
		bg := graphic.NewPath(graphic.LargeBarShape{
			Points: bgPoints, BaseDim: baseDim, StartValue: bgStart, DataIndices: indices, BarWidth: barWidth,
		}, style)
		bg.Silent = true
		bg.Incremental = incremental
		v.group.Add(bg)
	}

	style := graphic.DefaultStyle()
	style.Stroke = s.Color
	style.LineWidth = barWidth
	style.Opacity = s.Model.FloatOr(1, "itemStyle", "opacity")
	el := graphic.NewPath(graphic.LargeBarShape{
		Points: points, BaseDim: baseDim, StartValue: start, DataIndices: indices, BarWidth: barWidth,
	}, style)
	el.Incremental = incremental
	el.Data.SeriesIndex = s.Index
	el.Data.DataType = s.Type
	el.Silent = s.Model.BoolOr(false, "silent")
	v.group.Add(el)
}

// largeStandIn builds a rect for an item drawn by the aggregated path so it
// can be highlighted on its own.
func (v *barView) largeStandIn(s *series.Series, i int) *graphic.Node {
	if v.isLarge == nil || !*v.isLarge {
		return nil
	}
	d := s.Data()
	layout, ok := v.itemLayout(d, i, d.ItemModel(i), false)
	if !ok || !d.HasValue(i) {
		return nil
	}
	el := graphic.NewPath(layout, d.ItemVisual(i).Style())
	if el.Style.Fill == "" {
		el.Style.Fill = s.Color
	}
	el.Z2 = 1
	bindItem(el, s, i)
	armEmphasis(el, d.ItemModel(i), "itemStyle")
	return el
}
