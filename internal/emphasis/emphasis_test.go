package emphasis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
)

func newRect(fill string) *graphic.Node {
	style := graphic.DefaultStyle()
	style.Fill = fill
	return graphic.NewPath(graphic.RectShape{Width: 10, Height: 10}, style)
}

func TestHighlightBitsAreIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d1 := rapid.IntRange(0, 31).Draw(t, "d1")
		d2 := rapid.IntRange(0, 31).Filter(func(d int) bool { return d != d1 }).Draw(t, "d2")
		el := newRect("#5470c6")

		EnterEmphasis(el, d1)
		EnterEmphasis(el, d2)
		LeaveEmphasis(el, d1)
		if !IsHighlighted(el) || el.HoverState != graphic.HoverEmphasis {
			t.Fatalf("leaving digit %d cleared digit %d", d1, d2)
		}
		LeaveEmphasis(el, d2)
		if IsHighlighted(el) || el.HoverState != graphic.HoverNormal {
			t.Fatalf("element still highlighted after both digits left: mask %b", el.HighByOuter)
		}
	})
}

func TestHoverFlagKeepsEmphasis(t *testing.T) {
	el := newRect("#5470c6")
	SetHover(el, true)
	EnterEmphasis(el, 3)
	LeaveEmphasis(el, 3)
	assert.True(t, IsHighlighted(el))
	assert.Equal(t, []string{StateEmphasis}, ActiveStates(el))

	SetHover(el, false)
	assert.False(t, IsHighlighted(el))
	assert.Equal(t, graphic.HoverNormal, el.HoverState)
	assert.Empty(t, ActiveStates(el))
}

func TestHoverOnlyEmphasis(t *testing.T) {
	c := NewController()
	el := newRect("#646464")
	el.Z2 = 1

	SetHover(el, true)
	assert.Equal(t, graphic.HoverEmphasis, el.HoverState)
	assert.Equal(t, 1+Z2EmphasisLift, c.Resolve(el).Z2)

	SetHover(el, false)
	assert.Equal(t, graphic.HoverNormal, el.HoverState)
	assert.Equal(t, 1, c.Resolve(el).Z2)
}

func TestGroupEmphasisReachesChildren(t *testing.T) {
	g := graphic.NewGroup()
	a, b := newRect("#000000"), newRect("#000000")
	g.Add(a)
	g.Add(b)

	EnterEmphasis(g, 0)
	assert.True(t, IsHighlighted(a))
	assert.True(t, IsHighlighted(b))
	LeaveEmphasis(g, 0)
	assert.False(t, IsHighlighted(a))
}

func TestHighlightDigitAllocation(t *testing.T) {
	c := NewController()
	assert.Equal(t, DefaultDigit, c.HighlightDigit(""))

	first := c.HighlightDigit("legend")
	assert.Equal(t, 1, first)
	assert.Equal(t, first, c.HighlightDigit("legend"))
	assert.Equal(t, 2, c.HighlightDigit("api"))

	for i := 0; i < 40; i++ {
		d := c.HighlightDigit(string(rune('a' + i)))
		assert.GreaterOrEqual(t, d, 0)
		assert.LessOrEqual(t, d, 31)
	}
}

func TestLift(t *testing.T) {
	assert.Equal(t, "#6e6e6e", Lift("#646464", -0.1))
	assert.Equal(t, "#ffffff", Lift("#f0f0f0", -0.1), "channels clamp at 255")
	assert.Equal(t, "#7f7f7f", Lift("#000000", 0.5))
	assert.Equal(t, "not-a-color", Lift("not-a-color", -0.1))
}

func TestLiftCSSForms(t *testing.T) {
	cases := []struct{ in, want string }{
		{"#5470c6", "#5c7bd9"},
		{"rgb(84,112,198)", "#5c7bd9"},
		{"rgb( 84, 112, 198 )", "#5c7bd9"},
		{"rgba(84,112,198,0.5)", "rgba(92,123,217,0.5)"},
		{"#abc", "#bbcde0"},
		{"red", "#ff0000"},
		{"Gray", "#8c8c8c"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Lift(tc.in, -0.1))
		})
	}
}

func TestResolveKeepsAlphaWhenLifting(t *testing.T) {
	c := NewController()
	el := newRect("rgba(84,112,198,0.5)")
	EnterEmphasis(el, 0)
	assert.Equal(t, "rgba(92,123,217,0.5)", c.Resolve(el).Style.Fill)
}

func TestResolveEmphasisFallsBackToLiftedColor(t *testing.T) {
	c := NewController()
	el := newRect("#646464")
	el.Z2 = 1

	r := c.Resolve(el)
	assert.Equal(t, "#646464", r.Style.Fill)
	assert.Equal(t, 1, r.Z2)

	EnterEmphasis(el, 0)
	r = c.Resolve(el)
	assert.Equal(t, "#6e6e6e", r.Style.Fill)
	assert.Equal(t, 1+Z2EmphasisLift, r.Z2)
	assert.Equal(t, "#646464", el.Style.Fill, "resolve leaves the base style alone")
}

func TestResolveExplicitStates(t *testing.T) {
	c := NewController()
	el := newRect("#646464")
	item := model.New(map[string]any{
		"emphasis": map[string]any{"itemStyle": map[string]any{"color": "#ff0000"}},
		"select":   map[string]any{"itemStyle": map[string]any{"borderColor": "#00ff00"}},
	}, nil)
	SetStatesStylesFromModel(el, item, "itemStyle")
	require.NotNil(t, el.State(StateEmphasis))
	assert.Nil(t, el.State(StateBlur))

	EnterSelect(el)
	EnterEmphasis(el, 0)
	r := c.Resolve(el)
	assert.Equal(t, "#ff0000", r.Style.Fill)
	assert.Equal(t, "#00ff00", r.Style.Stroke, "select applies before emphasis")
	assert.Equal(t, Z2SelectLift+Z2EmphasisLift, r.Z2)
}

func TestResolveBlur(t *testing.T) {
	c := NewController()
	el := newRect("#646464")
	el.Style.Opacity = 0.8

	EnterBlur(el)
	r := c.Resolve(el)
	assert.InDelta(t, 0.08, r.Style.Opacity, 1e-9)

	EnterEmphasis(el, 0)
	assert.Equal(t, []string{StateEmphasis}, ActiveStates(el), "emphasis wins over blur")
	LeaveEmphasis(el, 0)
	LeaveBlur(el)
	assert.InDelta(t, 0.8, c.Resolve(el).Style.Opacity, 1e-9)

	// Highlighted elements are not blurred.
	EnterEmphasis(el, 0)
	EnterBlur(el)
	assert.Equal(t, graphic.HoverEmphasis, el.HoverState)
}

func TestFocusTargets(t *testing.T) {
	mk := func(series, index int) *graphic.Node {
		el := newRect("#000000")
		el.Data.SeriesIndex = series
		el.Data.DataIndex = index
		return el
	}
	a0, a1, b0, c0 := mk(0, 0), mk(0, 1), mk(1, 0), mk(2, 0)
	all := []*graphic.Node{a0, a1, b0, c0}
	sameCoord := func(x, y int) bool { return x != 2 && y != 2 }

	EnableHoverEmphasis(a0, FocusSelf, BlurScopeCoordinateSystem)
	assert.ElementsMatch(t, []*graphic.Node{a1, b0}, FocusTargets(a0, all, sameCoord))

	EnableHoverEmphasis(a0, FocusSeries, BlurScopeGlobal)
	assert.ElementsMatch(t, []*graphic.Node{b0, c0}, FocusTargets(a0, all, sameCoord))

	EnableHoverEmphasis(a0, FocusSelf, BlurScopeSeries)
	assert.ElementsMatch(t, []*graphic.Node{a1}, FocusTargets(a0, all, sameCoord))

	EnableHoverEmphasis(a0, FocusNone, BlurScopeGlobal)
	assert.Empty(t, FocusTargets(a0, all, sameCoord))
}
