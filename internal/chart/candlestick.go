package chart

import (
	"github.com/inamate/chartview/internal/anim"
	"github.com/inamate/chartview/internal/clip"
	"github.com/inamate/chartview/internal/coord"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

// simpleBoxWidth is the candle width at or below which only the wick is drawn.
const simpleBoxWidth = 1.3

func init() {
	Register("candlestick", func(ctx *Context) View { return newCandlestickView(ctx) })
}

type candlestickView struct {
	viewBase
	isLarge *bool
}

func newCandlestickView(ctx *Context) *candlestickView {
	return &candlestickView{viewBase: newViewBase(ctx)}
}

func (v *candlestickView) Type() string { return "candlestick" }

func (v *candlestickView) Render(s *series.Series, _ *model.Global, _ API) error {
	cs, ok := s.CoordSys.(*coord.Cartesian2D)
	if !ok {
		v.warnCoordSys(s, "candlestick")
		return nil
	}
	v.updateDrawMode(s)
	v.group.RemoveClipPath()
	if s.Pipeline.Large {
		v.renderLarge(s)
	} else {
		v.renderNormal(s, cs)
	}
	if s.Model.BoolOr(true, "clip") {
		v.group.SetClipPath(clip.FromCoordSys(cs, false, s, v.ctx.Animator, nil))
	}
	return nil
}

func (v *candlestickView) updateDrawMode(s *series.Series) {
	large := s.Pipeline.Large
	if v.isLarge == nil || *v.isLarge != large {
		v.Remove(nil, nil)
	}
	v.isLarge = &large
}

func (v *candlestickView) renderNormal(s *series.Series, cs *coord.Cartesian2D) {
	data := s.Data()
	old := v.data
	if old != nil {
		v.dropTemps(old)
	}
	needsClip := s.Model.BoolOr(true, "clip")
	area := cs.Area()
	width, _ := data.Layout(series.LayoutSize).(float64)
	simple := width <= simpleBoxWidth
	baseDim, _ := data.Layout(series.LayoutBaseDim).(int)
	cfg := s.AnimationConfig(true)

	layoutOf := func(i int) (series.CandleLayout, bool) {
		l, ok := data.ItemLayout(i).(series.CandleLayout)
		if !ok || !data.HasValue(i) {
			return l, false
		}
		if needsClip && clip.PointsOutside(area, l.Ends) {
			return l, false
		}
		return l, true
	}

	data.Diff(old).
		Add(func(i int) {
			l, ok := layoutOf(i)
			if !ok {
				return
			}
			el := v.createBox(s, i, l, baseDim, simple, true)
			v.group.Add(el)
			data.SetItemGraphicEl(i, el)
		}).
		Update(func(newIndex, oldIndex int) {
			el := old.ItemGraphicEl(oldIndex)
			data.SetItemGraphicEl(newIndex, nil)
			l, ok := layoutOf(newIndex)
			if !ok {
				if el != nil {
					v.ctx.Animator.Stop(el)
					v.group.Remove(el)
				}
				return
			}
			if el == nil {
				el = v.createBox(s, newIndex, l, baseDim, simple, false)
			} else {
				v.ctx.Animator.UpdateProps(el, anim.Props{Shape: graphic.CandleBoxShape{Points: l.Ends, Simple: simple}}, cfg, nil)
				v.styleBox(el, s, newIndex)
			}
			v.group.Add(el)
			data.SetItemGraphicEl(newIndex, el)
		}).
		Remove(func(i int) {
			if el := old.ItemGraphicEl(i); el != nil {
				v.ctx.Animator.Stop(el)
				v.group.Remove(el)
			}
		}).
		Execute()

	v.data = data
}

// createBox builds one candle. An animated box grows out of its baseline.
func (v *candlestickView) createBox(s *series.Series, i int, l series.CandleLayout, baseDim int, simple, isInit bool) *graphic.Node {
	target := graphic.CandleBoxShape{Points: l.Ends, Simple: simple}
	start := target
	if isInit && s.IsAnimationEnabled() {
		valueDim := 1 - baseDim
		pts := make([][2]float64, len(l.Ends))
		for k, p := range l.Ends {
			p[valueDim] = l.InitBaseline
			pts[k] = p
		}
		start.Points = pts
	}
	el := graphic.NewPath(start, graphic.DefaultStyle())
	el.Name = "item"
	el.Z2 = 100
	bindItem(el, s, i)
	if isInit {
		v.ctx.Animator.InitProps(el, anim.Props{Shape: target}, s.AnimationConfig(false), nil)
	} else {
		v.ctx.Animator.UpdateProps(el, anim.Props{Shape: target}, s.AnimationConfig(true), nil)
	}
	v.styleBox(el, s, i)
	return el
}

func (v *candlestickView) styleBox(el *graphic.Node, s *series.Series, i int) {
	d := s.Data()
	vis := d.ItemVisual(i)
	style := vis.Style()
	style.Fill = vis.Color
	style.Stroke = vis.BorderColor
	el.Style = style
	bindItem(el, s, i)
	armEmphasis(el, d.ItemModel(i), "itemStyle")
}

func (v *candlestickView) renderLarge(s *series.Series) {
	v.Remove(nil, nil)
	v.createLarge(s, s.Data().Layout(series.LayoutLargePoints))
}

// createLarge draws all rising wicks in one path and all falling wicks in another.
func (v *candlestickView) createLarge(s *series.Series, raw any) {
	points, _ := raw.([]float64)
	if len(points) == 0 {
		return
	}
	im := s.GetModel("itemStyle")
	for _, sign := range []float64{1, -1} {
		colorKey, borderKey, def := "color", "borderColor", series.CandleUpColor
		if sign < 0 {
			colorKey, borderKey, def = "color0", "borderColor0", series.CandleDownColor
		}
		stroke := im.StringOr("", borderKey)
		if stroke == "" {
			stroke = im.StringOr(def, colorKey)
		}
		style := graphic.DefaultStyle()
		style.Stroke = stroke
		style.Fill = "none"
		style.LineWidth = im.FloatOr(1, "borderWidth")
		style.Opacity = im.FloatOr(1, "opacity")

		el := graphic.NewPath(graphic.LargeCandleShape{Points: points, Sign: sign}, style)
		el.Incremental = s.Pipeline.Progressive
		el.Data.SeriesIndex = s.Index
		el.Data.DataType = s.Type
		v.group.Add(el)
	}
}

func (v *candlestickView) IncrementalPrepareRender(s *series.Series, _ *model.Global, _ API) {
	v.Remove(nil, nil)
	v.updateDrawMode(s)
}

// IncrementalRender draws one chunk. Large chunks go through the aggregated
// paths, others get one incremental box per item.
func (v *candlestickView) IncrementalRender(params series.ProgressParams, s *series.Series, _ *model.Global, _ API) {
	if s.Pipeline.Large {
		all, _ := s.Data().Layout(series.LayoutLargePoints).([]float64)
		start, end := params.Start*4, params.End*4
		if start >= len(all) {
			return
		}
		v.createLarge(s, all[start:min(end, len(all))])
		return
	}
	d := s.Data()
	width, _ := d.Layout(series.LayoutSize).(float64)
	simple := width <= simpleBoxWidth
	for i := params.Start; i < params.End && i < d.Count(); i++ {
		l, ok := d.ItemLayout(i).(series.CandleLayout)
		if !ok || !d.HasValue(i) {
			continue
		}
		el := graphic.NewPath(graphic.CandleBoxShape{Points: l.Ends, Simple: simple}, graphic.DefaultStyle())
		el.Incremental = true
		el.Z2 = 100
		v.styleBox(el, s, i)
		v.group.Add(el)
		d.SetItemGraphicEl(i, el)
	}
}

func (v *candlestickView) Remove(_ *model.Global, _ API) {
	v.group.RemoveAll()
	v.group.RemoveClipPath()
	v.data = nil
}
