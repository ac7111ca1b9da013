package chart

import (
	"math"
	"strings"

	"github.com/inamate/chartview/internal/anim"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

func init() {
	Register("gauge", func(ctx *Context) View { return newGaugeView(ctx) })
}

type gaugeView struct {
	viewBase
}

func newGaugeView(ctx *Context) *gaugeView {
	return &gaugeView{viewBase: newViewBase(ctx)}
}

func (v *gaugeView) Type() string { return "gauge" }

type gaugePos struct {
	cx, cy, r float64
}

type colorStop struct {
	at    float64
	color string
}

// colorStops reads axisLine.lineStyle.color: a list of [percent, color].
func colorStops(m *model.Model) []colorStop {
	var out []colorStop
	for _, raw := range model.AsList(m.Get("axisLine", "lineStyle", "color")) {
		pair := model.AsList(raw)
		if len(pair) < 2 {
			continue
		}
		at, _ := model.ToFloat(pair[0])
		c, _ := pair[1].(string)
		out = append(out, colorStop{at: at, color: c})
	}
	return out
}

// stopColor returns the color of the band that percent falls in.
func stopColor(stops []colorStop, percent float64) string {
	if len(stops) == 0 {
		return ""
	}
	if percent <= 0 {
		return stops[0].color
	}
	for i, s := range stops {
		prev := 0.0
		if i > 0 {
			prev = stops[i-1].at
		}
		if s.at >= percent && prev < percent {
			return s.color
		}
	}
	return stops[len(stops)-1].color
}

// linearMap maps v from [d0, d1] onto [r0, r1], clamped to the range.
func linearMap(v, d0, d1, r0, r1 float64) float64 {
	if d1 == d0 {
		return r0
	}
	t := (v - d0) / (d1 - d0)
	t = math.Max(0, math.Min(1, t))
	return r0 + t*(r1-r0)
}

func gaugeLabel(value float64, formatter string) string {
	text := formatValue(value)
	if formatter != "" {
		text = strings.Replace(formatter, "{value}", text, 1)
	}
	return text
}

func (v *gaugeView) Render(s *series.Series, _ *model.Global, api API) error {
	v.group.RemoveAll()

	m := s.Model
	center := model.AsList(m.Get("center"))
	w, h := api.Width(), api.Height()
	pos := gaugePos{cx: w / 2, cy: h / 2}
	if len(center) == 2 {
		pos.cx = model.ParsePercent(center[0], w)
		pos.cy = model.ParsePercent(center[1], h)
	}
	pos.r = model.ParsePercent(m.Get("radius"), math.Min(w, h)/2)

	stops := colorStops(m)
	clockwise := m.BoolOr(true, "clockwise")
	startAngle := -m.FloatOr(225, "startAngle") * math.Pi / 180
	endAngle := -m.FloatOr(-45, "endAngle") * math.Pi / 180
	span := math.Mod(endAngle-startAngle, 2*math.Pi)

	if m.BoolOr(true, "axisLine", "show") {
		lineModel := m.GetModel("axisLine", "lineStyle")
		width := lineModel.FloatOr(30, "width")
		prevEnd := startAngle
		for _, stop := range stops {
			end := startAngle + span*math.Max(0, math.Min(1, stop.at))
			style := graphic.DefaultStyle()
			style.Fill = stop.color
			style.Opacity = lineModel.FloatOr(1, "opacity")
			band := graphic.NewPath(graphic.SectorShape{
				CX: pos.cx, CY: pos.cy, R0: pos.r - width, R: pos.r,
				StartAngle: prevEnd, EndAngle: end, Clockwise: clockwise,
			}, style)
			band.Silent = true
			v.group.Add(band)
			prevEnd = end
		}
	}

	colorAt := func(percent float64) string { return stopColor(stops, percent) }
	if !clockwise {
		startAngle, endAngle = endAngle, startAngle
	}

	v.renderTicks(s, colorAt, pos, startAngle, endAngle)
	v.renderPointers(s, colorAt, pos, startAngle, endAngle)
	v.renderTitle(s, colorAt, pos)
	v.renderDetail(s, colorAt, pos)
	return nil
}

func gaugeLineStyle(m *model.Model, stroke, autoColor string, width float64) graphic.Style {
	style := graphic.DefaultStyle()
	style.Stroke = stroke
	style.LineWidth = width
	style = style.Apply(m.LineStyle())
	if style.Stroke == "auto" {
		style.Stroke = autoColor
	}
	return style
}

func (v *gaugeView) renderTicks(s *series.Series, colorAt func(float64) string, pos gaugePos, startAngle, endAngle float64) {
	m := s.Model
	minVal, maxVal := m.FloatOr(0, "min"), m.FloatOr(100, "max")
	splitModel := m.GetModel("splitLine")
	tickModel := m.GetModel("axisTick")
	labelModel := m.GetModel("axisLabel")

	splitNumber := max(int(m.FloatOr(10, "splitNumber")), 1)
	subSplitNumber := max(int(tickModel.FloatOr(5, "splitNumber")), 1)
	splitLen := model.ParsePercent(splitModel.Get("length"), pos.r)
	if splitModel.Get("length") == nil {
		splitLen = 30
	}
	tickLen := model.ParsePercent(tickModel.Get("length"), pos.r)
	if tickModel.Get("length") == nil {
		tickLen = 8
	}

	step := (endAngle - startAngle) / float64(splitNumber)
	subStep := step / float64(subSplitNumber)
	radial := func(angle, from, to float64) graphic.LineShape {
		ux, uy := math.Cos(angle), math.Sin(angle)
		return graphic.LineShape{
			X1: ux*from + pos.cx, Y1: uy*from + pos.cy,
			X2: ux*to + pos.cx, Y2: uy*to + pos.cy,
		}
	}

	angle := startAngle
	for i := 0; i <= splitNumber; i++ {
		percent := float64(i) / float64(splitNumber)
		ux, uy := math.Cos(angle), math.Sin(angle)
		if splitModel.BoolOr(true, "show") {
			line := graphic.NewPath(radial(angle, pos.r, pos.r-splitLen),
				gaugeLineStyle(splitModel.GetModel("lineStyle"), "#eee", colorAt(percent), 2))
			line.Silent = true
			v.group.Add(line)
		}

		if labelModel.BoolOr(true, "show") {
			value := math.Round((percent*(maxVal-minVal)+minVal)*1e10) / 1e10
			distance := labelModel.FloatOr(5, "distance")
			style := graphic.DefaultStyle()
			style.Text = gaugeLabel(value, labelModel.StringOr("", "formatter"))
			style.FontSize = labelModel.FloatOr(graphic.DefaultFontSize, "fontSize")
			style.Fill = labelModel.StringOr("auto", "color")
			if style.Fill == "auto" {
				style.Fill = colorAt(percent)
			}
			style.VerticalAlign = "middle"
			if uy < -0.4 {
				style.VerticalAlign = "top"
			} else if uy > 0.4 {
				style.VerticalAlign = "bottom"
			}
			style.Align = "center"
			if ux < -0.4 {
				style.Align = "left"
			} else if ux > 0.4 {
				style.Align = "right"
			}
			r := pos.r - splitLen - distance
			text := graphic.NewText(ux*r+pos.cx, uy*r+pos.cy, style)
			text.Silent = true
			v.group.Add(text)
		}

		if tickModel.BoolOr(true, "show") && i != splitNumber {
			for j := 0; j <= subSplitNumber; j++ {
				sub := (float64(i) + float64(j)/float64(subSplitNumber)) / float64(splitNumber)
				tick := graphic.NewPath(radial(angle, pos.r, pos.r-tickLen),
					gaugeLineStyle(tickModel.GetModel("lineStyle"), "#eee", colorAt(sub), 1))
				tick.Silent = true
				v.group.Add(tick)
				angle += subStep
			}
			angle -= subStep
		} else {
			angle += step
		}
	}
}

// renderPointers diffs one needle per item. Needles survive across renders
// so value changes swing them instead of redrawing.
func (v *gaugeView) renderPointers(s *series.Series, colorAt func(float64) string, pos gaugePos, startAngle, endAngle float64) {
	old := v.data
	data := s.Data()
	if !s.Model.BoolOr(true, "pointer", "show") {
		old.EachItemGraphicEl(func(el *graphic.Node, _ int) {
			v.ctx.Animator.Stop(el)
			v.group.Remove(el)
		})
		v.data = nil
		return
	}

	minVal, maxVal := s.Model.FloatOr(0, "min"), s.Model.FloatOr(100, "max")
	shapeOf := func(i int, angle float64) graphic.PointerShape {
		pm := data.ItemModel(i).GetModel("pointer")
		return graphic.PointerShape{
			X: pos.cx, Y: pos.cy,
			Width: model.ParsePercent(orDefault(pm.Get("width"), 8.0), pos.r),
			R:     model.ParsePercent(orDefault(pm.Get("length"), "80%"), pos.r),
			Angle: angle,
		}
	}
	target := func(i int) graphic.PointerShape {
		return shapeOf(i, linearMap(data.Value(i, 0), minVal, maxVal, startAngle, endAngle))
	}

	data.Diff(old).
		Add(func(i int) {
			el := graphic.NewPath(shapeOf(i, startAngle), graphic.DefaultStyle())
			v.ctx.Animator.InitProps(el, anim.Props{Shape: target(i)}, s.AnimationConfig(false), nil)
			v.group.Add(el)
			data.SetItemGraphicEl(i, el)
		}).
		Update(func(newIndex, oldIndex int) {
			el := old.ItemGraphicEl(oldIndex)
			if el == nil {
				el = graphic.NewPath(target(newIndex), graphic.DefaultStyle())
			} else {
				v.ctx.Animator.UpdateProps(el, anim.Props{Shape: target(newIndex)}, s.AnimationConfig(true), nil)
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

	data.EachItemGraphicEl(func(el *graphic.Node, i int) {
		itemModel := data.ItemModel(i)
		style := graphic.DefaultStyle()
		style.Fill = "auto"
		style = style.Apply(itemModel.GetModel("itemStyle").ItemStyle())
		if style.Fill == "auto" {
			style.Fill = colorAt(linearMap(data.Value(i, 0), minVal, maxVal, 0, 1))
		}
		el.Style = style
		bindItem(el, s, i)
		armEmphasis(el, itemModel, "itemStyle")
	})
	v.data = data
}

// centerText places the title or detail text at the center plus its
// offsetCenter, both given in percent of the radius.
func (v *gaugeView) centerText(s *series.Series, key string, colorAt func(float64) string, pos gaugePos, text string, fontSize float64, offsetY string) {
	tm := s.GetModel(key)
	if !tm.BoolOr(true, "show") || s.Data().Count() == 0 {
		return
	}
	offset := model.AsList(tm.Get("offsetCenter"))
	ox, oy := 0.0, model.ParsePercent(offsetY, pos.r)
	if len(offset) == 2 {
		ox = model.ParsePercent(offset[0], pos.r)
		oy = model.ParsePercent(offset[1], pos.r)
	}
	value := s.Data().Value(0, 0)
	style := graphic.DefaultStyle()
	style.Text = text
	style.Align, style.VerticalAlign = "center", "middle"
	style.FontSize = tm.FloatOr(fontSize, "fontSize")
	style.Fill = tm.StringOr("auto", "color")
	if style.Fill == "auto" {
		style.Fill = colorAt(linearMap(value, s.Model.FloatOr(0, "min"), s.Model.FloatOr(100, "max"), 0, 1))
	}
	el := graphic.NewText(pos.cx+ox, pos.cy+oy, style)
	el.Silent = true
	v.group.Add(el)
}

func (v *gaugeView) renderTitle(s *series.Series, colorAt func(float64) string, pos gaugePos) {
	if s.Data().Count() == 0 {
		return
	}
	v.centerText(s, "title", colorAt, pos, s.Data().Name(0), 15, "-40%")
}

func (v *gaugeView) renderDetail(s *series.Series, colorAt func(float64) string, pos gaugePos) {
	d := s.Data()
	if d.Count() == 0 {
		return
	}
	text := gaugeLabel(d.Value(0, 0), s.Model.StringOr("{value}", "detail", "formatter"))
	v.centerText(s, "detail", colorAt, pos, text, 30, "40%")
}

func (v *gaugeView) Remove(_ *model.Global, _ API) {
	v.group.RemoveAll()
	v.data = nil
}

func orDefault(v, def any) any {
	if v == nil {
		return def
	}
	return v
}
