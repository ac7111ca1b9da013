// Package series holds the per-series data table and the stages that
// prepare layouts and visuals before views draw them.
package series

import (
	"math"
	"strconv"

	"github.com/inamate/chartview/internal/diff"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
)

// Visual is the resolved paint of one item.
type Visual struct {
	Color       string
	Opacity     float64
	BorderColor string
	BorderWidth float64
	Decal       string
}

// Style converts the visual into a base element style.
func (v Visual) Style() graphic.Style {
	s := graphic.DefaultStyle()
	s.Fill = v.Color
	s.Stroke = v.BorderColor
	s.LineWidth = v.BorderWidth
	s.Opacity = v.Opacity
	s.Decal = v.Decal
	return s
}

// CandleLayout is the geometry of one candlestick item.
type CandleLayout struct {
	Sign         float64
	InitBaseline float64
	Ends         [][2]float64
	BrushRect    graphic.Rect
}

// Data is an ordered table of items. Views read it and attach element back
// references; they never change values.
type Data struct {
	values [][]float64
	ids    []string
	names  []string
	items  []*model.Model

	layouts []any
	visuals []Visual
	els     []*graphic.Node

	layout map[string]any

	// Tree is set for hierarchical series; items are its nodes in preorder.
	Tree *Tree
}

// NewData parses the series "data" list. Each item is a number, a list of
// numbers or an object with value, id, name and per-item style options.
func NewData(raw []any, parent *model.Model) *Data {
	d := &Data{layout: make(map[string]any)}
	for _, item := range raw {
		var (
			opt  map[string]any
			vals []float64
			id   string
			name string
		)
		switch t := item.(type) {
		case map[string]any:
			opt = t
			vals = parseValues(t["value"])
			if s, ok := t["id"].(string); ok {
				id = s
			} else if f, ok := t["id"].(float64); ok {
				id = strconv.FormatFloat(f, 'f', -1, 64)
			}
			name, _ = t["name"].(string)
		default:
			vals = parseValues(t)
		}
		d.append(vals, id, name, model.New(opt, parent))
	}
	return d
}

func (d *Data) append(vals []float64, id, name string, item *model.Model) int {
	d.values = append(d.values, vals)
	d.ids = append(d.ids, id)
	d.names = append(d.names, name)
	d.items = append(d.items, item)
	d.layouts = append(d.layouts, nil)
	d.visuals = append(d.visuals, Visual{Opacity: 1})
	d.els = append(d.els, nil)
	return len(d.values) - 1
}

func parseValues(v any) []float64 {
	switch t := v.(type) {
	case nil:
		return []float64{math.NaN()}
	case []any:
		out := make([]float64, len(t))
		for i, x := range t {
			out[i] = toValue(x)
		}
		return out
	default:
		return []float64{toValue(t)}
	}
}

func toValue(v any) float64 {
	if f, ok := model.ToFloat(v); ok {
		return f
	}
	return math.NaN()
}

// Count returns the number of items.
func (d *Data) Count() int {
	if d == nil {
		return 0
	}
	return len(d.values)
}

// Values returns the raw values of item i.
func (d *Data) Values(i int) []float64 {
	return d.values[i]
}

// Value returns dimension dim of item i, NaN when absent.
func (d *Data) Value(i, dim int) float64 {
	v := d.values[i]
	if dim < 0 || dim >= len(v) {
		return math.NaN()
	}
	return v[dim]
}

// HasValue reports whether every value of item i is a number.
func (d *Data) HasValue(i int) bool {
	if i < 0 || i >= len(d.values) || len(d.values[i]) == 0 {
		return false
	}
	for _, v := range d.values[i] {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// ID returns the diff key of item i: its explicit id or its position.
func (d *Data) ID(i int) string {
	if d.ids[i] != "" {
		return d.ids[i]
	}
	return strconv.Itoa(i)
}

// Name returns the item name.
func (d *Data) Name(i int) string {
	return d.names[i]
}

// ItemModel returns the item option model; it falls back to the series model.
func (d *Data) ItemModel(i int) *model.Model {
	return d.items[i]
}

func (d *Data) ItemLayout(i int) any { return d.layouts[i] }

func (d *Data) SetItemLayout(i int, l any) { d.layouts[i] = l }

func (d *Data) ItemVisual(i int) Visual { return d.visuals[i] }

func (d *Data) SetItemVisual(i int, v Visual) { d.visuals[i] = v }

// ItemGraphicEl returns the element bound to item i.
func (d *Data) ItemGraphicEl(i int) *graphic.Node {
	if d == nil || i < 0 || i >= len(d.els) {
		return nil
	}
	return d.els[i]
}

// SetItemGraphicEl binds el to item i. Passing nil clears the binding.
func (d *Data) SetItemGraphicEl(i int, el *graphic.Node) {
	if i < 0 || i >= len(d.els) {
		return
	}
	d.els[i] = el
}

// EachItemGraphicEl visits every bound element.
func (d *Data) EachItemGraphicEl(fn func(el *graphic.Node, i int)) {
	if d == nil {
		return
	}
	for i, el := range d.els {
		if el != nil {
			fn(el, i)
		}
	}
}

// Layout returns a series-wide layout value.
func (d *Data) Layout(key string) any {
	return d.layout[key]
}

// SetLayout stores a series-wide layout value.
func (d *Data) SetLayout(key string, v any) {
	d.layout[key] = v
}

// Diff prepares a keyed diff from old to d. A nil old diffs against an empty list.
func (d *Data) Diff(old *Data) *diff.Differ {
	return diff.New(old.Count(), d.Count(),
		func(i int) string { return old.ID(i) },
		func(i int) string { return d.ID(i) },
	)
}
