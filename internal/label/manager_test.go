package label

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

func text(s string, x, y, size float64) *graphic.Node {
	style := graphic.DefaultStyle()
	style.Text = s
	style.FontSize = size
	return graphic.NewText(x, y, style)
}

func TestEarlierLabelWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sizeA := rapid.Float64Range(6, 40).Draw(t, "sizeA")
		sizeB := rapid.Float64Range(6, 40).Draw(t, "sizeB")
		lenA := rapid.IntRange(1, 20).Draw(t, "lenA")
		lenB := rapid.IntRange(1, 20).Draw(t, "lenB")
		dx := rapid.Float64Range(0, 5).Draw(t, "dx")

		a := text(strings.Repeat("W", lenA), 10, 10, sizeA)
		b := text(strings.Repeat("W", lenB), 10+dx, 10, sizeB)

		m := NewManager(0)
		m.AddLabel(0, 0, a, nil)
		m.AddLabel(1, 0, b, nil)
		m.UpdateLayoutConfig(nil)
		m.Layout(nil)

		if a.Invisible {
			t.Fatalf("first label hidden")
		}
		if !b.Invisible {
			t.Fatalf("second label shown despite overlap")
		}
	})
}

func TestHiddenLabelReappears(t *testing.T) {
	a := text("label", 0, 0, 12)
	b := text("label", 5, 0, 12)
	m := NewManager(0)

	m.AddLabel(0, 0, a, nil)
	m.AddLabel(1, 0, b, nil)
	m.UpdateLayoutConfig(nil)
	m.Layout(nil)
	require.True(t, b.Invisible)
	assert.False(t, b.Ignore, "overlap only toggles Invisible")

	b.X = 200
	m.ClearLabels()
	m.AddLabel(0, 0, a, nil)
	m.AddLabel(1, 0, b, nil)
	m.UpdateLayoutConfig(nil)
	m.Layout(nil)
	assert.False(t, b.Invisible)
}

func TestRotatedLabelsUseOrientedTest(t *testing.T) {
	a := text("aaaaaaaaaa", 0, 0, 12)
	a.Rotation = math.Pi / 4
	off := 30 / math.Sqrt2
	b := text("aaaaaaaaaa", off, off, 12)
	b.Rotation = math.Pi / 4

	ra := a.WorldTransform().TransformRect(graphic.TextRect(a.Style))
	rb := b.WorldTransform().TransformRect(graphic.TextRect(b.Style))
	require.True(t, ra.Intersects(rb), "bounding boxes overlap")

	m := NewManager(0)
	m.AddLabel(0, 0, a, nil)
	m.AddLabel(1, 0, b, nil)
	m.UpdateLayoutConfig(nil)
	m.Layout(nil)
	assert.False(t, a.Invisible)
	assert.False(t, b.Invisible, "parallel rotated labels do not touch")
}

func TestOverlapMargin(t *testing.T) {
	w, _ := graphic.MeasureText("label", 12)
	build := func(margin float64) (*graphic.Node, *Manager) {
		a := text("label", 0, 0, 12)
		b := text("label", w+5, 0, 12)
		m := NewManager(margin)
		m.AddLabel(0, 0, a, nil)
		m.AddLabel(1, 0, b, nil)
		m.UpdateLayoutConfig(nil)
		m.Layout(nil)
		return b, m
	}

	b, _ := build(0)
	assert.False(t, b.Invisible)
	b, _ = build(4)
	assert.False(t, b.Invisible)
	b, _ = build(10)
	assert.True(t, b.Invisible)
}

func TestOverlapShowAndIgnore(t *testing.T) {
	a := text("label", 0, 0, 12)
	b := text("label", 0, 0, 12)
	c := text("label", 0, 0, 12)
	a.Ignore = true

	m := NewManager(0)
	m.AddLabel(0, 0, a, nil)
	m.AddLabel(1, 0, b, nil)
	m.AddLabel(2, 0, c, Static(Option{Overlap: OverlapShow}))
	m.UpdateLayoutConfig(nil)
	m.Layout(nil)

	assert.False(t, b.Invisible, "ignored labels do not take space")
	assert.False(t, c.Invisible)
	assert.False(t, a.Invisible)
}

func TestAddLabelsOfSeries(t *testing.T) {
	group := graphic.NewGroup()
	mk := func(dataIndex int, x float64) (*graphic.Node, *graphic.Node) {
		host := graphic.NewPath(graphic.RectShape{X: x, Y: 0, Width: 10, Height: 10}, graphic.DefaultStyle())
		host.Data.DataIndex = dataIndex
		lbl := text("label", x, 0, 12)
		host.SetTextContent(lbl)
		group.Add(host)
		return host, lbl
	}
	_, l0 := mk(0, 0)
	_, l1 := mk(1, 2)
	hidden, _ := mk(2, 4)
	hidden.Ignore = true

	s := &series.Series{Index: 3, Model: model.New(map[string]any{
		"labelLayout": map[string]any{"hideOverlap": false},
	}, nil)}

	m := NewManager(0)
	m.AddLabelsOfSeries(group, s)
	assert.Equal(t, 2, m.Len())

	m.UpdateLayoutConfig(nil)
	m.Layout(nil)
	assert.False(t, l0.Invisible)
	assert.False(t, l1.Invisible, "hideOverlap false keeps every label")
}

func TestSeriesResolverSeesParams(t *testing.T) {
	group := graphic.NewGroup()
	host := graphic.NewPath(graphic.RectShape{X: 10, Y: 20, Width: 30, Height: 40}, graphic.DefaultStyle())
	host.Data.DataIndex = 7
	lbl := text("hi", 10, 20, 12)
	host.SetTextContent(lbl)
	group.Add(host)

	var got Params
	m := NewManager(0)
	m.SetSeriesResolver(1, func(p Params) Option {
		got = p
		return Option{Align: "center"}
	})
	m.AddLabelsOfSeries(group, &series.Series{Index: 1, Model: model.New(nil, nil)})
	m.UpdateLayoutConfig(nil)

	assert.Equal(t, 7, got.DataIndex)
	assert.Equal(t, 1, got.SeriesIndex)
	assert.Equal(t, "hi", got.Text)
	assert.Equal(t, graphic.Rect{X: 10, Y: 20, Width: 30, Height: 40}, got.Rect)
	assert.Equal(t, "center", lbl.Style.Align)

	// A re-render resets the label style; without a resolver it stays put.
	lbl.Style.Align = "left"
	m.SetSeriesResolver(1, nil)
	m.ClearLabels()
	m.AddLabelsOfSeries(group, &series.Series{Index: 1, Model: model.New(nil, nil)})
	m.UpdateLayoutConfig(nil)
	assert.Equal(t, "left", lbl.Style.Align)
}
