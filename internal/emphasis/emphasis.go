// Package emphasis drives the normal, emphasis, blur and select states of
// scene elements and resolves the style an element paints with.
package emphasis

import (
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
)

// State names.
const (
	StateEmphasis = "emphasis"
	StateBlur     = "blur"
	StateSelect   = "select"
)

// Focus and blur scope values read from the emphasis option.
const (
	FocusNone   = "none"
	FocusSelf   = "self"
	FocusSeries = "series"

	BlurScopeCoordinateSystem = "coordinateSystem"
	BlurScopeSeries           = "series"
	BlurScopeGlobal           = "global"
)

const (
	// Z2EmphasisLift is added to z2 while an element is emphasized.
	Z2EmphasisLift = 10
	// Z2SelectLift is added to z2 while an element is selected.
	Z2SelectLift = 9

	// DefaultDigit is the highlight bit used by callers without their own key.
	DefaultDigit = 0
	maxDigit     = 31

	liftLevel     = -0.1
	liftCacheSize = 100
	blurOpacity   = 0.1
)

// Controller holds the per-chart highlight digit allocator and the cache of
// lifted colors. Create one per chart instance.
type Controller struct {
	mu        sync.Mutex
	digits    map[string]int
	nextDigit int
	lifted    *lru.Cache
}

// NewController creates a controller with no digits allocated.
func NewController() *Controller {
	cache, err := lru.New(liftCacheSize)
	if err != nil {
		panic(err)
	}
	return &Controller{digits: make(map[string]int), nextDigit: 1, lifted: cache}
}

// HighlightDigit returns the bit reserved for key, allocating the next free
// one on first use. Once all bits are taken, new keys share DefaultDigit.
func (c *Controller) HighlightDigit(key string) int {
	if key == "" {
		return DefaultDigit
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.digits[key]; ok {
		return d
	}
	if c.nextDigit > maxDigit {
		return DefaultDigit
	}
	d := c.nextDigit
	c.digits[key] = d
	c.nextDigit++
	return d
}

// Lift lightens (negative level) or darkens a color by the emphasis amount.
// Results are cached by source color.
func (c *Controller) Lift(color string) string {
	if v, ok := c.lifted.Get(color); ok {
		return v.(string)
	}
	out := Lift(color, liftLevel)
	c.lifted.Add(color, out)
	return out
}

// Lift scales each channel of a CSS color. A negative level multiplies the
// channel by (1 - level); a positive level moves it toward 255. Alpha is
// kept. Colors that do not parse are returned unchanged.
func Lift(color string, level float64) string {
	col, alpha, ok := graphic.ParseColor(color)
	if !ok {
		return color
	}
	ch := [3]float64{col.R * 255, col.G * 255, col.B * 255}
	for i, v := range ch {
		v = math.Round(v)
		if level < 0 {
			v = math.Trunc(v * (1 - level))
		} else {
			v = math.Trunc((255-v)*level + v)
		}
		ch[i] = math.Min(v, 255)
	}
	return graphic.FormatColor(colorful.Color{R: ch[0] / 255, G: ch[1] / 255, B: ch[2] / 255}, alpha)
}

func walk(el *graphic.Node, fn func(*graphic.Node)) {
	if el == nil {
		return
	}
	fn(el)
	el.Traverse(fn)
}

// EnableHoverEmphasis arms el and its descendants for pointer hover.
func EnableHoverEmphasis(el *graphic.Node, focus, blurScope string) {
	walk(el, func(n *graphic.Node) {
		n.HighDownEnabled = true
		n.Data.Focus = focus
		n.Data.BlurScope = blurScope
	})
}

// SetHover records the pointer-over flag on el and its descendants. Clearing
// it returns an element to normal once no highlight bit is left either.
func SetHover(el *graphic.Node, on bool) {
	walk(el, func(n *graphic.Node) {
		n.HoverHighlighted = on
		refresh(n)
	})
}

// IsHighlighted reports whether any caller currently requests emphasis.
func IsHighlighted(el *graphic.Node) bool {
	return el.HighByOuter != 0 || el.HoverHighlighted
}

// refresh keeps HoverState in line with IsHighlighted. Blur is left alone.
func refresh(n *graphic.Node) {
	switch {
	case IsHighlighted(n):
		n.HoverState = graphic.HoverEmphasis
	case n.HoverState == graphic.HoverEmphasis:
		n.HoverState = graphic.HoverNormal
	}
}

// EnterEmphasis sets one highlight bit on el and its descendants.
func EnterEmphasis(el *graphic.Node, digit int) {
	bit := uint32(1) << uint(digit&maxDigit)
	walk(el, func(n *graphic.Node) {
		n.HighByOuter |= bit
		refresh(n)
	})
}

// LeaveEmphasis clears one highlight bit. The element returns to normal only
// when no bit and no hover flag is left.
func LeaveEmphasis(el *graphic.Node, digit int) {
	bit := uint32(1) << uint(digit&maxDigit)
	walk(el, func(n *graphic.Node) {
		n.HighByOuter &^= bit
		refresh(n)
	})
}

// EnterBlur fades el and its descendants unless they are highlighted.
func EnterBlur(el *graphic.Node) {
	walk(el, func(n *graphic.Node) {
		if !IsHighlighted(n) {
			n.HoverState = graphic.HoverBlur
		}
	})
}

// LeaveBlur restores blurred elements.
func LeaveBlur(el *graphic.Node) {
	walk(el, func(n *graphic.Node) {
		if n.HoverState == graphic.HoverBlur {
			n.HoverState = graphic.HoverNormal
		}
	})
}

// EnterSelect marks el and its descendants selected.
func EnterSelect(el *graphic.Node) {
	walk(el, func(n *graphic.Node) { n.Selected = true })
}

// LeaveSelect clears the selection of el and its descendants.
func LeaveSelect(el *graphic.Node) {
	walk(el, func(n *graphic.Node) { n.Selected = false })
}

// SetStatesStylesFromModel builds the emphasis, blur and select override
// records of el from "<state>.<styleKey>" of the item model. styleKey is
// itemStyle or lineStyle.
func SetStatesStylesFromModel(el *graphic.Node, itemModel *model.Model, styleKey string) {
	for _, state := range []string{StateEmphasis, StateBlur, StateSelect} {
		sub := itemModel.GetModel(state, styleKey)
		var o graphic.StyleOverride
		if styleKey == "lineStyle" {
			o = sub.LineStyle()
		} else {
			o = sub.ItemStyle()
		}
		if o.IsZero() {
			if s := el.State(state); s != nil {
				s.Style = o
			}
			continue
		}
		el.EnsureState(state).Style = o
	}
}

// ActiveStates lists the states in effect for el, in application order:
// select first, then emphasis or blur.
func ActiveStates(el *graphic.Node) []string {
	var states []string
	if el.Selected {
		states = append(states, StateSelect)
	}
	switch {
	case IsHighlighted(el):
		states = append(states, StateEmphasis)
	case el.HoverState == graphic.HoverBlur:
		states = append(states, StateBlur)
	}
	return states
}

// Resolve computes the paint of el from its base style and active states.
// It does not modify el.
func (c *Controller) Resolve(el *graphic.Node) graphic.Resolved {
	style := el.Style
	z2 := el.Z2
	for _, name := range ActiveStates(el) {
		var o graphic.StyleOverride
		var z2Override *int
		if st := el.State(name); st != nil {
			o = st.Style
			z2Override = st.Z2
		}
		switch name {
		case StateSelect:
			z2 = liftZ2(z2, z2Override, Z2SelectLift)
		case StateEmphasis:
			if el.Type == graphic.TypePath {
				if o.Fill == nil && style.Fill != "" && style.Fill != "none" {
					o.Fill = graphic.Str(c.Lift(style.Fill))
				}
				if o.Stroke == nil && style.Stroke != "" && style.Stroke != "none" {
					o.Stroke = graphic.Str(c.Lift(style.Stroke))
				}
			}
			z2 = liftZ2(z2, z2Override, Z2EmphasisLift)
		case StateBlur:
			if o.Opacity == nil {
				o.Opacity = graphic.Num(style.Opacity * blurOpacity)
			}
		}
		style = style.Apply(o)
	}
	return graphic.Resolved{Style: style, Z2: z2}
}

func liftZ2(z2 int, override *int, lift int) int {
	if override != nil {
		return *override
	}
	return z2 + lift
}

// FocusTargets returns the elements to blur while target is emphasized.
// focus "self" blurs every other item, focus "series" every item of another
// series. Both are limited to the blur scope: the same series, series on the
// same coordinate system (sameCoordSys), or the whole chart.
func FocusTargets(target *graphic.Node, candidates []*graphic.Node, sameCoordSys func(a, b int) bool) []*graphic.Node {
	focus := target.Data.Focus
	if focus != FocusSelf && focus != FocusSeries {
		return nil
	}
	series := target.Data.SeriesIndex
	var out []*graphic.Node
	for _, el := range candidates {
		if el == target || el.Data.DataIndex < 0 {
			continue
		}
		other := el.Data.SeriesIndex
		inScope := false
		switch target.Data.BlurScope {
		case BlurScopeGlobal:
			inScope = true
		case BlurScopeSeries:
			inScope = other == series
		default:
			inScope = other == series || sameCoordSys == nil || sameCoordSys(series, other)
		}
		if !inScope {
			continue
		}
		if other != series || (focus == FocusSelf && el.Data.DataIndex != target.Data.DataIndex) {
			out = append(out, el)
		}
	}
	return out
}
