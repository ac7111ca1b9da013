package series

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
)

// Candlestick colors for rising and falling items.
const (
	CandleUpColor   = "#eb5454"
	CandleDownColor = "#47b262"
)

// applyVisual resolves the series color and the per-item visuals.
func applyVisual(g *model.Global, s *Series) {
	s.Color = g.PaletteColor(s.Index)
	if c, ok := s.Model.Get("itemStyle", "color").(string); ok && c != "" {
		s.Color = c
	}

	d := s.Data()
	vm, hasVisualMap := g.VisualMapFor(s.Index)
	for i := 0; i < d.Count(); i++ {
		im := d.ItemModel(i).GetModel("itemStyle")
		v := Visual{
			Color:       im.StringOr(s.Color, "color"),
			Opacity:     im.FloatOr(1, "opacity"),
			BorderColor: im.StringOr("", "borderColor"),
			BorderWidth: im.FloatOr(0, "borderWidth"),
			Decal:       im.StringOr("", "decal"),
		}
		if s.Type == "candlestick" {
			v = candleVisual(im, d.Values(i))
		}
		if hasVisualMap {
			dim := len(d.Values(i)) - 1
			if vm.HasDimension {
				dim = vm.Dimension
			}
			if c, ok := VisualMapColor(vm, d.Value(i, dim)); ok {
				v.Color = c
			}
		}
		d.SetItemVisual(i, v)
	}

	if d.Tree != nil {
		applyTreeVisual(g, d)
	}
}

func candleVisual(im *model.Model, vals []float64) Visual {
	v := Visual{Opacity: im.FloatOr(1, "opacity"), BorderWidth: im.FloatOr(1, "borderWidth")}
	if len(vals) >= 2 && vals[1] < vals[0] {
		v.Color = im.StringOr(CandleDownColor, "color0")
		v.BorderColor = im.StringOr(CandleDownColor, "borderColor0")
		return v
	}
	v.Color = im.StringOr(CandleUpColor, "color")
	v.BorderColor = im.StringOr(CandleUpColor, "borderColor")
	return v
}

// applyTreeVisual gives every top-level node a palette color; descendants
// inherit their parent's color unless they set their own.
func applyTreeVisual(g *model.Global, d *Data) {
	for i, top := range d.Tree.Root.Children {
		top.Traverse(func(n *TreeNode) {
			v := d.ItemVisual(n.DataIndex)
			own, _ := d.ItemModel(n.DataIndex).GetShallow("itemStyle", "color").(string)
			switch {
			case own != "":
				v.Color = own
			case n.Parent == d.Tree.Root:
				v.Color = g.PaletteColor(i)
			default:
				v.Color = d.ItemVisual(n.Parent.DataIndex).Color
			}
			d.SetItemVisual(n.DataIndex, v)
		})
	}
}

// VisualMapColor maps value onto the color ramp of vm, blending stops in
// Lab space. Values outside [Min, Max] take OutOfRange when set, else clamp.
func VisualMapColor(vm model.VisualMap, value float64) (string, bool) {
	if math.IsNaN(value) || len(vm.Colors) == 0 {
		return "", false
	}
	if (value < vm.Min || value > vm.Max) && vm.OutOfRange != "" {
		return vm.OutOfRange, true
	}
	t := 0.0
	if vm.Max > vm.Min {
		t = (value - vm.Min) / (vm.Max - vm.Min)
	}
	t = math.Max(0, math.Min(1, t))

	type stop struct {
		col   colorful.Color
		alpha float64
	}
	stops := make([]stop, 0, len(vm.Colors))
	for _, c := range vm.Colors {
		col, alpha, ok := graphic.ParseColor(c)
		if !ok {
			continue
		}
		stops = append(stops, stop{col, alpha})
	}
	switch len(stops) {
	case 0:
		return "", false
	case 1:
		return graphic.FormatColor(stops[0].col, stops[0].alpha), true
	}
	pos := t * float64(len(stops)-1)
	idx := int(math.Floor(pos))
	if idx >= len(stops)-1 {
		last := stops[len(stops)-1]
		return graphic.FormatColor(last.col, last.alpha), true
	}
	a, b := stops[idx], stops[idx+1]
	f := pos - float64(idx)
	if f == 0 {
		return graphic.FormatColor(a.col, a.alpha), true
	}
	return graphic.FormatColor(a.col.BlendLab(b.col, f).Clamped(), a.alpha+(b.alpha-a.alpha)*f), true
}
