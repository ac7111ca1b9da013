package chart

import (
	"math"
	"strconv"
	"strings"

	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

const labelDistance = 5

// formatValue prints a value the way labels show it: integers without a
// fraction, NaN as "-".
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// itemValueText is the default label text of item i: its last value.
func itemValueText(d *series.Data, i int) string {
	vals := d.Values(i)
	if len(vals) == 0 {
		return "-"
	}
	return formatValue(vals[len(vals)-1])
}

// labelText applies the label formatter of lm. {a} is the series name, {b}
// the item name and {c} the default text.
func labelText(s *series.Series, lm *model.Model, i int, defaultText string) string {
	f, ok := lm.Get("formatter").(string)
	if !ok {
		return defaultText
	}
	return strings.NewReplacer(
		"{a}", s.Name,
		"{b}", s.Data().Name(i),
		"{c}", defaultText,
	).Replace(f)
}

// setLabel attaches, updates or drops the label of host according to the
// "label" model. The label is placed relative to bounds, which is in the
// host's coordinates. An existing label node is reused.
func setLabel(host *graphic.Node, lm *model.Model, text string, bounds graphic.Rect, color string) {
	if !lm.BoolOr(false, "show") || text == "" {
		host.SetTextContent(nil)
		return
	}
	lbl := host.TextContent
	if lbl == nil {
		lbl = graphic.NewText(0, 0, graphic.DefaultStyle())
		host.SetTextContent(lbl)
	}

	position := lm.StringOr("inside", "position")
	distance := lm.FloatOr(labelDistance, "distance")
	b := bounds.Normalize()
	cx, cy := b.Center()

	style := graphic.DefaultStyle()
	style.Text = text
	style.FontSize = lm.FloatOr(graphic.DefaultFontSize, "fontSize")
	style.Fill = lm.StringOr("", "color")
	style.Align, style.VerticalAlign = "center", "middle"
	x, y := cx, cy
	switch position {
	case "top":
		y = b.Y - distance
		style.VerticalAlign = "bottom"
	case "bottom":
		y = b.Y + b.Height + distance
		style.VerticalAlign = "top"
	case "left":
		x = b.X - distance
		style.Align = "right"
	case "right":
		x = b.X + b.Width + distance
		style.Align = "left"
	}
	if style.Fill == "" {
		if position == "inside" {
			style.Fill = "#fff"
		} else {
			style.Fill = color
		}
	}
	if a, ok := lm.Get("align").(string); ok {
		style.Align = a
	}
	if va, ok := lm.Get("verticalAlign").(string); ok {
		style.VerticalAlign = va
	}

	lbl.Style = style
	lbl.X, lbl.Y = x, y
	lbl.Rotation = lm.FloatOr(0, "rotate") * math.Pi / 180
	lbl.Silent = lm.BoolOr(false, "silent")
	lbl.TextConfig = graphic.TextConfig{Position: position, Inside: position == "inside", Distance: distance}
}
