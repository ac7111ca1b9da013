package chart

import (
	"fmt"
	"math"

	"github.com/inamate/chartview/internal/coord"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

func init() {
	Register("heatmap", func(ctx *Context) View { return newHeatmapView(ctx) })
}

// heatmapView draws one rect per cell. Cells are rebuilt on every render.
type heatmapView struct {
	viewBase
}

func newHeatmapView(ctx *Context) *heatmapView {
	return &heatmapView{viewBase: newViewBase(ctx)}
}

func (v *heatmapView) Type() string { return "heatmap" }

func (v *heatmapView) Render(s *series.Series, g *model.Global, _ API) error {
	if _, ok := g.VisualMapFor(s.Index); !ok {
		if v.ctx.DevMode {
			return fmt.Errorf("render heatmap series %d: %w", s.Index, ErrHeatmapVisualMap)
		}
		v.group.RemoveAll()
		return nil
	}
	v.group.RemoveAll()
	cs, ok := s.CoordSys.(*coord.Cartesian2D)
	if !ok {
		v.warnCoordSys(s, "heatmap")
		return nil
	}
	if v.ctx.DevMode && (cs.X.Type != coord.AxisCategory || cs.Y.Type != coord.AxisCategory) {
		v.logger().Warn("heatmap on cartesian needs two category axes", "series", s.Index)
	}
	v.renderCells(s, cs, 0, s.Data().Count(), false)
	v.data = s.Data()
	return nil
}

func (v *heatmapView) IncrementalPrepareRender(*series.Series, *model.Global, API) {
	v.group.RemoveAll()
}

func (v *heatmapView) IncrementalRender(params series.ProgressParams, s *series.Series, _ *model.Global, _ API) {
	cs, ok := s.CoordSys.(*coord.Cartesian2D)
	if !ok {
		return
	}
	v.renderCells(s, cs, params.Start, params.End, true)
	v.data = s.Data()
}

// renderCells draws items [start, end). Cells without a value or outside
// the axis extents are skipped.
func (v *heatmapView) renderCells(s *series.Series, cs *coord.Cartesian2D, start, end int, incremental bool) {
	d := s.Data()
	width, height := cs.X.BandWidth(), cs.Y.BandWidth()
	xExt, yExt := cs.X.ScaleExtent(), cs.Y.ScaleExtent()

	for i := start; i < end && i < d.Count(); i++ {
		x, y, value := d.Value(i, 0), d.Value(i, 1), d.Value(i, 2)
		if math.IsNaN(value) || x < xExt[0] || x > xExt[1] || y < yExt[0] || y > yExt[1] {
			continue
		}
		px, py := cs.DataToPoint(x, y)
		rect := graphic.RectShape{
			X:      math.Floor(math.Round(px) - width/2),
			Y:      math.Floor(math.Round(py) - height/2),
			Width:  math.Ceil(width),
			Height: math.Ceil(height),
		}
		el := graphic.NewPath(rect, d.ItemVisual(i).Style())
		itemModel := d.ItemModel(i)
		bindItem(el, s, i)
		armEmphasis(el, itemModel, "itemStyle")

		lm := itemModel.GetModel("label")
		setLabel(el, lm, labelText(s, lm, i, formatValue(value)), rect.Bounds(), "")

		el.Incremental = incremental
		if incremental {
			el.EnsureState("emphasis").HoverLayer = true
		}
		v.group.Add(el)
		d.SetItemGraphicEl(i, el)
	}
}
