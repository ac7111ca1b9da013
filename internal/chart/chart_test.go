package chart

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/chartview/internal/emphasis"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/series"
)

func newChart(t *testing.T, option string, opts ...func(*Options)) *Chart {
	t.Helper()
	o := Options{Width: 100, Height: 100}
	for _, fn := range opts {
		fn(&o)
	}
	c := New(o)
	require.NoError(t, c.SetOption([]byte(option)))
	return c
}

func devMode(o *Options) { o.DevMode = true }

func barOption(data string, extra string) string {
	return fmt.Sprintf(`{
		"grid": {"left": 0, "right": 0, "top": 0, "bottom": 0},
		"xAxis": {"type": "category", "data": ["a", "b", "c"]},
		"yAxis": {"type": "value"%s},
		"series": [{"type": "bar", "data": %s}]
	}`, extra, data)
}

func intp(i int) *int { return &i }

func TestRegisteredTypes(t *testing.T) {
	assert.Equal(t,
		[]string{"bar", "candlestick", "gauge", "heatmap", "line", "sunburst"},
		RegisteredTypes())
}

func TestNewViewUnknownType(t *testing.T) {
	_, err := NewView("pie3d", &Context{})
	assert.ErrorIs(t, err, ErrUnknownSeriesType)
}

func TestSetOptionUnknownSeriesType(t *testing.T) {
	c := New(Options{Width: 100, Height: 100})
	err := c.SetOption([]byte(`{"series": [{"type": "pie3d", "data": [1]}]}`))
	assert.ErrorIs(t, err, ErrUnknownSeriesType)
}

func TestBarShrinkKeepsIdentityAndAnimatesRemoval(t *testing.T) {
	c := newChart(t, barOption("[1, 5, 3]", ""))
	c.Finish()

	d := c.Series()[0].Data()
	group := c.views[0].Group()
	var before [3]*graphic.Node
	for i, want := range []float64{-20, -100, -60} {
		before[i] = d.ItemGraphicEl(i)
		require.NotNil(t, before[i])
		assert.Same(t, group, before[i].Parent)
		assert.Same(t, before[i], group.ChildAt(i), "bars join the group in data order")
		assert.Equal(t, 1, before[i].Z2)

		r, ok := before[i].Shape.(graphic.RectShape)
		require.True(t, ok)
		assert.InDelta(t, want, r.Height, 1e-9, "bar %d grows up from the axis", i)
	}
	removed := before[2]

	require.NoError(t, c.SetOption([]byte(barOption("[1, 3]", ""))))
	d = c.Series()[0].Data()
	assert.Same(t, before[0], d.ItemGraphicEl(0))
	assert.Same(t, before[1], d.ItemGraphicEl(1))

	// The removed bar stays attached until its collapse finishes.
	assert.Same(t, group, removed.Parent)
	assert.True(t, c.Animator().IsAnimating(removed))

	c.Finish()
	assert.Nil(t, removed.Parent)
	r, ok := removed.Shape.(graphic.RectShape)
	require.True(t, ok)
	assert.Zero(t, r.Height)
	assert.Equal(t, 2, group.ChildCount())
}

func TestRenderIsIdempotent(t *testing.T) {
	option := barOption("[1, 5, 3]", "")
	c := newChart(t, option)
	c.Finish()
	first := c.Frame()

	require.NoError(t, c.SetOption([]byte(option)))
	c.Finish()
	assert.Equal(t, first, c.Frame())
}

func TestNoLeakedElementsAfterShrink(t *testing.T) {
	values := func(n int) string {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = fmt.Sprint(i%7 + 1)
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	option := func(n int) string {
		return fmt.Sprintf(`{"grid": {"left": 0, "right": 0, "top": 0, "bottom": 0}, "series": [{"type": "bar", "data": %s}]}`, values(n))
	}
	c := newChart(t, option(100))
	c.Finish()
	require.NoError(t, c.SetOption([]byte(option(10))))
	c.Finish()

	assert.Equal(t, 10, c.views[0].Group().ChildCount())
	assert.Zero(t, c.Animator().Pending())
}

func TestClippedBarsAreSkippedAndRemoved(t *testing.T) {
	c := newChart(t, barOption("[15, 5, 18]", `, "min": 10, "max": 20`))
	d := c.Series()[0].Data()
	assert.NotNil(t, d.ItemGraphicEl(0))
	assert.Nil(t, d.ItemGraphicEl(1), "a bar below the axis minimum is not drawn")
	assert.NotNil(t, d.ItemGraphicEl(2))

	require.NoError(t, c.SetOption([]byte(barOption("[15, 15, 18]", `, "min": 10, "max": 20`))))
	c.Finish()
	el := c.Series()[0].Data().ItemGraphicEl(1)
	require.NotNil(t, el)

	require.NoError(t, c.SetOption([]byte(barOption("[15, 5, 18]", `, "min": 10, "max": 20`))))
	assert.Nil(t, c.Series()[0].Data().ItemGraphicEl(1))
	assert.Nil(t, el.Parent, "clipped bars are dropped without a transition")
}

func TestBarWithoutAnimationDropsRemovedBarsAtOnce(t *testing.T) {
	option := func(data string) string {
		return fmt.Sprintf(`{"animation": false, "grid": {"left": 0, "right": 0, "top": 0, "bottom": 0}, "series": [{"type": "bar", "data": %s}]}`, data)
	}
	c := newChart(t, option("[1, 2, 3]"))
	removed := c.Series()[0].Data().ItemGraphicEl(2)
	require.NoError(t, c.SetOption([]byte(option("[1, 2]"))))
	assert.Nil(t, removed.Parent)
	assert.Zero(t, c.Animator().Pending())
}

func TestLargeBarHitTestAndStandIn(t *testing.T) {
	c := newChart(t, `{
		"animation": false,
		"grid": {"left": 0, "right": 0, "top": 0, "bottom": 0},
		"xAxis": {"type": "category", "data": ["a", "b", "c"]},
		"series": [{"type": "bar", "large": true, "largeThreshold": 1, "data": [1, 5, 3]}]
	}`)
	s := c.Series()[0]
	require.True(t, s.Pipeline.Large)
	assert.Nil(t, s.Data().ItemGraphicEl(1))

	hit, ok := c.HitTest(50, 90)
	require.True(t, ok)
	assert.Equal(t, 1, hit.DataIndex)
	assert.Equal(t, 0, hit.SeriesIndex)

	require.NoError(t, c.DispatchAction(Payload{Type: ActionHighlight, SeriesIndex: intp(0), DataIndex: intp(1)}))
	el := s.Data().ItemGraphicEl(1)
	require.NotNil(t, el)
	assert.True(t, el.Temp)
	assert.True(t, emphasis.IsHighlighted(el))

	require.NoError(t, c.DispatchAction(Payload{Type: ActionDownplay, SeriesIndex: intp(0), DataIndex: intp(1)}))
	assert.Nil(t, s.Data().ItemGraphicEl(1))
	assert.Nil(t, el.Parent)
}

func TestHighlightKeysAreIndependent(t *testing.T) {
	c := newChart(t, barOption("[1, 5, 3]", ""))
	el := c.Series()[0].Data().ItemGraphicEl(0)
	p := Payload{SeriesIndex: intp(0), DataIndex: intp(0)}

	p.Type, p.HighlightKey = ActionHighlight, "legend"
	require.NoError(t, c.DispatchAction(p))
	p.HighlightKey = "tooltip"
	require.NoError(t, c.DispatchAction(p))

	p.Type, p.HighlightKey = ActionDownplay, "legend"
	require.NoError(t, c.DispatchAction(p))
	assert.True(t, emphasis.IsHighlighted(el))

	p.HighlightKey = "tooltip"
	require.NoError(t, c.DispatchAction(p))
	assert.False(t, emphasis.IsHighlighted(el))
}

func TestSelectAndUnselect(t *testing.T) {
	c := newChart(t, barOption("[1, 5, 3]", ""))
	el := c.Series()[0].Data().ItemGraphicEl(2)
	require.NoError(t, c.DispatchAction(Payload{Type: ActionSelect, DataIndex: intp(2)}))
	assert.True(t, el.Selected)
	require.NoError(t, c.DispatchAction(Payload{Type: ActionUnselect, DataIndex: intp(2)}))
	assert.False(t, el.Selected)
}

func TestDispatchActionErrors(t *testing.T) {
	c := New(Options{Width: 100, Height: 100})
	assert.ErrorIs(t, c.DispatchAction(Payload{Type: ActionHighlight}), ErrNoOption)

	require.NoError(t, c.SetOption([]byte(barOption("[1]", ""))))
	assert.ErrorIs(t, c.DispatchAction(Payload{Type: "explode"}), ErrUnknownAction)
	assert.ErrorIs(t, c.DispatchAction(Payload{Type: ActionHighlight, SeriesIndex: intp(4)}), ErrNoSeries)
}

func TestHoverAtEmphasizesElementUnderPointer(t *testing.T) {
	c := newChart(t, barOption("[1, 5, 3]", ""))
	c.Finish()
	el := c.Series()[0].Data().ItemGraphicEl(1)

	assert.True(t, c.HoverAt(50, 90))
	assert.True(t, emphasis.IsHighlighted(el))
	assert.False(t, c.HoverAt(50, 91))

	assert.True(t, c.HoverAt(-10, -10))
	assert.False(t, emphasis.IsHighlighted(el))
}

func TestHoverAndKeyedHighlightSettleToNormal(t *testing.T) {
	c := newChart(t, barOption("[1, 5, 3]", ""))
	c.Finish()
	el := c.Series()[0].Data().ItemGraphicEl(1)
	p := Payload{SeriesIndex: intp(0), DataIndex: intp(1), HighlightKey: "legend"}

	require.True(t, c.HoverAt(50, 90))
	p.Type = ActionHighlight
	require.NoError(t, c.DispatchAction(p))
	p.Type = ActionDownplay
	require.NoError(t, c.DispatchAction(p))
	assert.True(t, emphasis.IsHighlighted(el), "the pointer is still over the bar")

	require.True(t, c.HoverAt(-50, -50))
	assert.False(t, emphasis.IsHighlighted(el))
	assert.Zero(t, el.HighByOuter)
	assert.Equal(t, graphic.HoverNormal, el.HoverState)
	assert.Empty(t, emphasis.ActiveStates(el))
	assert.Equal(t, el.Z2, c.ctx.Emphasis.Resolve(el).Z2)
}

func TestFocusSelfBlursOtherItems(t *testing.T) {
	c := newChart(t, `{
		"animation": false,
		"grid": {"left": 0, "right": 0, "top": 0, "bottom": 0},
		"series": [{"type": "bar", "emphasis": {"focus": "self"}, "data": [1, 5, 3]}]
	}`)
	d := c.Series()[0].Data()
	require.NoError(t, c.DispatchAction(Payload{Type: ActionHighlight, SeriesIndex: intp(0), DataIndex: intp(1)}))
	assert.Equal(t, graphic.HoverEmphasis, d.ItemGraphicEl(1).HoverState)
	assert.Equal(t, graphic.HoverBlur, d.ItemGraphicEl(0).HoverState)
	assert.Equal(t, graphic.HoverBlur, d.ItemGraphicEl(2).HoverState)

	require.NoError(t, c.DispatchAction(Payload{Type: ActionDownplay, SeriesIndex: intp(0), DataIndex: intp(1)}))
	assert.Equal(t, graphic.HoverNormal, d.ItemGraphicEl(0).HoverState)
	assert.Equal(t, graphic.HoverNormal, d.ItemGraphicEl(1).HoverState)
}

func TestViewsAreReplacedWhenTypeChanges(t *testing.T) {
	c := newChart(t, barOption("[1, 5, 3]", ""))
	oldGroup := c.views[0].Group()
	require.NoError(t, c.SetOption([]byte(`{"series": [{"type": "line", "data": [1, 5, 3]}]}`)))
	assert.Equal(t, "line", c.views[0].Type())
	assert.False(t, c.Root().Contains(oldGroup))
	assert.True(t, c.Root().Contains(c.views[0].Group()))
}

func TestHeatmapRequiresVisualMapInDevMode(t *testing.T) {
	option := `{"series": [{"type": "heatmap", "data": [[0, 0, 1]]}]}`

	c := New(Options{Width: 100, Height: 100, DevMode: true})
	err := c.SetOption([]byte(option))
	assert.ErrorIs(t, err, ErrHeatmapVisualMap)

	c = newChart(t, option)
	assert.Zero(t, c.views[0].Group().ChildCount())
}

func TestHeatmapCells(t *testing.T) {
	c := newChart(t, `{
		"grid": {"left": 0, "right": 0, "top": 0, "bottom": 0},
		"xAxis": {"type": "category", "data": ["a", "b"]},
		"yAxis": {"type": "category", "data": ["x", "y"]},
		"visualMap": {"min": 0, "max": 10, "inRange": {"color": ["#000000", "#ffffff"]}},
		"series": [{"type": "heatmap", "data": [[0, 0, 0], [1, 1, 10], [1, 0, null]]}]
	}`, devMode)
	d := c.Series()[0].Data()
	require.NotNil(t, d.ItemGraphicEl(0))
	require.NotNil(t, d.ItemGraphicEl(1))
	assert.Nil(t, d.ItemGraphicEl(2), "cells without a value are skipped")
	assert.Equal(t, 2, c.views[0].Group().ChildCount())

	r := d.ItemGraphicEl(0).Shape.(graphic.RectShape)
	assert.Equal(t, graphic.RectShape{X: 0, Y: 50, Width: 50, Height: 50}, r)
	assert.Equal(t, "#000000", d.ItemGraphicEl(0).Style.Fill)
	assert.Equal(t, "#ffffff", d.ItemGraphicEl(1).Style.Fill)
}

func TestHeatmapIncrementalCellsUseHoverLayer(t *testing.T) {
	c := newChart(t, `{
		"visualMap": {"min": 0, "max": 10},
		"grid": {"left": 0, "right": 0, "top": 0, "bottom": 0},
		"xAxis": {"type": "category", "data": ["a", "b"]},
		"yAxis": {"type": "category", "data": ["x", "y"]},
		"series": [{"type": "heatmap", "progressive": 1, "progressiveThreshold": 1,
			"data": [[0, 0, 1], [1, 1, 2]]}]
	}`)
	s := c.Series()[0]
	require.True(t, s.Pipeline.Progressive)
	assert.Zero(t, c.views[0].Group().ChildCount())

	assert.True(t, c.Tick(0))
	assert.Equal(t, 1, c.views[0].Group().ChildCount())
	c.Finish()
	assert.Equal(t, 2, c.views[0].Group().ChildCount())

	el := s.Data().ItemGraphicEl(1)
	require.NotNil(t, el)
	assert.True(t, el.Incremental)
	assert.True(t, el.State(emphasis.StateEmphasis).HoverLayer)
}

func TestGaugePointerFollowsValue(t *testing.T) {
	option := func(v float64) string {
		return fmt.Sprintf(`{"animation": false, "width": 200, "height": 200,
			"series": [{"type": "gauge", "data": [{"value": %v, "name": "speed"}]}]}`, v)
	}
	c := newChart(t, option(40))
	pointer := c.Series()[0].Data().ItemGraphicEl(0)
	require.NotNil(t, pointer)
	shape, ok := pointer.Shape.(graphic.PointerShape)
	require.True(t, ok)

	start, end := -225*math.Pi/180, 45*math.Pi/180
	assert.InDelta(t, start+0.4*(end-start), shape.Angle, 1e-9)
	assert.InDelta(t, 100, shape.X, 1e-9)
	assert.InDelta(t, 60, shape.R, 1e-9)
	assert.Equal(t, "#63869e", pointer.Style.Fill, "auto resolves through the axis color stops")

	require.NoError(t, c.SetOption([]byte(option(250))))
	assert.Same(t, pointer, c.Series()[0].Data().ItemGraphicEl(0))
	assert.InDelta(t, end, pointer.Shape.(graphic.PointerShape).Angle, 1e-9, "values past max are clamped")

	var texts []string
	c.Root().Traverse(func(n *graphic.Node) {
		if n.Type == graphic.TypeText {
			texts = append(texts, n.Style.Text)
		}
	})
	assert.Contains(t, texts, "speed")
	assert.Contains(t, texts, "250")
}

func TestStopColor(t *testing.T) {
	stops := []colorStop{{0.2, "a"}, {0.8, "b"}, {1, "c"}}
	assert.Equal(t, "a", stopColor(stops, -1))
	assert.Equal(t, "a", stopColor(stops, 0.2))
	assert.Equal(t, "b", stopColor(stops, 0.5))
	assert.Equal(t, "c", stopColor(stops, 0.9))
	assert.Equal(t, "c", stopColor(stops, 2))
}

const sunburstOption = `{
	"animation": false, "width": 200, "height": 200,
	"series": [{"type": "sunburst", "data": [
		{"name": "A", "children": [{"name": "a1", "value": 2}, {"name": "a2", "value": 3}]},
		{"name": "B", "value": 5}
	]}]
}`

func TestSunburstPiecesAndRootToNode(t *testing.T) {
	c := newChart(t, sunburstOption)
	d := c.Series()[0].Data()
	group := c.views[0].Group()
	assert.Equal(t, 4, group.ChildCount())

	a := d.ItemGraphicEl(0)
	require.NotNil(t, a)
	assert.Equal(t, sunburstSectorZ2, a.Z2)
	require.NotNil(t, a.TextContent)
	assert.Equal(t, "A", a.TextContent.Style.Text)
	assert.Equal(t, sunburstTextZ2, a.TextContent.Z2)

	require.NoError(t, c.DispatchAction(Payload{Type: ActionSunburstRootToNode, SeriesIndex: intp(0), TargetNodeID: "A"}))
	d = c.Series()[0].Data()
	assert.Equal(t, 3, group.ChildCount())
	assert.Same(t, a, d.ItemGraphicEl(0), "the new root keeps its piece")
	assert.Nil(t, d.ItemGraphicEl(3))

	ring := a.Shape.(graphic.SectorShape)
	assert.InDelta(t, 2*math.Pi, math.Abs(ring.EndAngle-ring.StartAngle), 1e-9)
}

func TestSunburstHighlightPolicy(t *testing.T) {
	c := newChart(t, sunburstOption)
	d := c.Series()[0].Data()
	el := func(i int) *graphic.Node { return d.ItemGraphicEl(i) }

	require.NoError(t, c.DispatchAction(Payload{Type: ActionHighlight, SeriesIndex: intp(0), DataIndex: intp(0)}))
	assert.True(t, emphasis.IsHighlighted(el(0)))
	assert.True(t, emphasis.IsHighlighted(el(1)), "descendants light up with their ancestor")
	assert.True(t, emphasis.IsHighlighted(el(2)))
	assert.Equal(t, graphic.HoverBlur, el(3).HoverState)

	require.NoError(t, c.DispatchAction(Payload{Type: ActionDownplay, SeriesIndex: intp(0), DataIndex: intp(0)}))
	for i := 0; i < 4; i++ {
		assert.Equal(t, graphic.HoverNormal, el(i).HoverState)
	}
}

func TestIsNodeHighlighted(t *testing.T) {
	root := &series.TreeNode{}
	a := &series.TreeNode{Parent: root}
	a1 := &series.TreeNode{Parent: a}
	b := &series.TreeNode{Parent: root}

	assert.True(t, isNodeHighlighted(a1, a, HighlightPolicyDescendant))
	assert.False(t, isNodeHighlighted(a, a1, HighlightPolicyDescendant))
	assert.True(t, isNodeHighlighted(a, a1, HighlightPolicyAncestor))
	assert.False(t, isNodeHighlighted(a1, a, HighlightPolicySelf))
	assert.True(t, isNodeHighlighted(a, a, HighlightPolicySelf))
	assert.False(t, isNodeHighlighted(b, a, HighlightPolicyDescendant))
	assert.False(t, isNodeHighlighted(a, a, HighlightPolicyNone))
}

func TestLabelRotation(t *testing.T) {
	assert.InDelta(t, -0.5, labelRotation("radial", 0.5), 1e-9)
	assert.InDelta(t, -math.Pi/2, labelRotation("radial", math.Pi*3/2), 1e-9)
	assert.InDelta(t, math.Pi/2-1, labelRotation("tangential", 1), 1e-9)
	assert.InDelta(t, math.Pi/4, labelRotation(45.0, 2), 1e-9)
	assert.Zero(t, labelRotation(nil, 2))
}

func TestLineSymbolsAndTempHighlight(t *testing.T) {
	option := func(showSymbol bool) string {
		return fmt.Sprintf(`{"animation": false, "grid": {"left": 0, "right": 0, "top": 0, "bottom": 0},
			"series": [{"type": "line", "showSymbol": %v, "data": [1, 2, 3]}]}`, showSymbol)
	}
	c := newChart(t, option(true))
	d := c.Series()[0].Data()
	for i := 0; i < 3; i++ {
		el := d.ItemGraphicEl(i)
		require.NotNil(t, el)
		assert.IsType(t, graphic.CircleShape{}, el.Shape)
	}
	lv := c.views[0].(*lineView)
	require.NotNil(t, lv.polyline)
	assert.Len(t, lv.polyline.Shape.(graphic.PolylineShape).Points, 3)
	assert.NotNil(t, lv.lineGroup.ClipPath)

	require.NoError(t, c.SetOption([]byte(option(false))))
	d = c.Series()[0].Data()
	assert.Nil(t, d.ItemGraphicEl(1))
	assert.Zero(t, lv.symbolGroup.ChildCount())

	require.NoError(t, c.DispatchAction(Payload{Type: ActionHighlight, SeriesIndex: intp(0), DataIndex: intp(1)}))
	temp := d.ItemGraphicEl(1)
	require.NotNil(t, temp)
	assert.True(t, temp.Temp)

	require.NoError(t, c.DispatchAction(Payload{Type: ActionDownplay, SeriesIndex: intp(0), DataIndex: intp(1)}))
	assert.Nil(t, d.ItemGraphicEl(1))
	assert.Nil(t, temp.Parent)
}

func TestLineAreaPolygonClosesOnValueAxis(t *testing.T) {
	c := newChart(t, `{"animation": false,
		"grid": {"left": 0, "right": 0, "top": 0, "bottom": 0},
		"series": [{"type": "line", "areaStyle": {}, "data": [1, 2]}]}`)
	lv := c.views[0].(*lineView)
	require.NotNil(t, lv.polygon)
	pts := lv.polygon.Shape.(graphic.PolylineShape).Points
	require.Len(t, pts, 4)
	assert.InDelta(t, 100, pts[2][1], 1e-9)
	assert.InDelta(t, 100, pts[3][1], 1e-9)
	assert.Equal(t, 0.7, lv.polygon.Style.Opacity)
}

func TestCandlestickBoxes(t *testing.T) {
	option := `{"animation": false, "grid": {"left": 0, "right": 0, "top": 0, "bottom": 0},
		"xAxis": {"type": "category", "data": ["d1", "d2"]},
		"series": [{"type": "candlestick", "large": false,
			"data": [[10, 20, 5, 25], [20, 15, 12, 22]]}]}`
	c := newChart(t, option)
	d := c.Series()[0].Data()
	up, down := d.ItemGraphicEl(0), d.ItemGraphicEl(1)
	require.NotNil(t, up)
	require.NotNil(t, down)
	assert.Equal(t, 100, up.Z2)
	assert.Equal(t, series.CandleUpColor, up.Style.Fill)
	assert.Equal(t, series.CandleDownColor, down.Style.Fill)
	assert.Len(t, up.Shape.(graphic.CandleBoxShape).Points, 8)

	require.NoError(t, c.SetOption([]byte(option)))
	assert.Same(t, up, c.Series()[0].Data().ItemGraphicEl(0))
}

func TestCandlestickLargeSplitsBySign(t *testing.T) {
	c := newChart(t, `{"animation": false, "grid": {"left": 0, "right": 0, "top": 0, "bottom": 0},
		"series": [{"type": "candlestick", "largeThreshold": 1,
			"data": [[10, 20, 5, 25], [20, 15, 12, 22]]}]}`)
	group := c.views[0].Group()
	require.Equal(t, 2, group.ChildCount())
	signs := []float64{
		group.ChildAt(0).Shape.(graphic.LargeCandleShape).Sign,
		group.ChildAt(1).Shape.(graphic.LargeCandleShape).Sign,
	}
	assert.ElementsMatch(t, []float64{1, -1}, signs)
}

func TestSVGExport(t *testing.T) {
	c := newChart(t, barOption("[1, 5, 3]", ""))
	c.Finish()
	var buf bytes.Buffer
	c.SVG(&buf)
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "<path")

	js, err := c.FrameJSON()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(js, "["))
}

func TestDisposeDetachesViews(t *testing.T) {
	c := newChart(t, barOption("[1, 5, 3]", ""))
	c.Dispose()
	assert.Zero(t, c.Root().ChildCount())
	assert.Zero(t, c.Animator().Pending())
	assert.Empty(t, c.Frame())
}
