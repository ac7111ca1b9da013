package model

import (
	"strconv"
	"strings"

	"github.com/inamate/chartview/internal/graphic"
)

// Model wraps one level of a decoded option tree. Lookups that miss fall
// back to the parent model at the same path, which is how item options
// inherit from their series and series from global defaults.
type Model struct {
	option map[string]any
	parent *Model
}

// New wraps option with an optional parent.
func New(option map[string]any, parent *Model) *Model {
	if option == nil {
		option = map[string]any{}
	}
	return &Model{option: option, parent: parent}
}

// Option returns the raw map of this level.
func (m *Model) Option() map[string]any {
	if m == nil {
		return nil
	}
	return m.option
}

// Parent returns the fallback model.
func (m *Model) Parent() *Model {
	if m == nil {
		return nil
	}
	return m.parent
}

func lookup(option map[string]any, path []string) (any, bool) {
	var cur any = option
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// Get returns the value at path, consulting parents when absent here.
func (m *Model) Get(path ...string) any {
	for cur := m; cur != nil; cur = cur.parent {
		if v, ok := lookup(cur.option, path); ok {
			return v
		}
	}
	return nil
}

// GetShallow returns the value at path on this level only.
func (m *Model) GetShallow(path ...string) any {
	if m == nil {
		return nil
	}
	v, _ := lookup(m.option, path)
	return v
}

// Has reports whether any level defines path.
func (m *Model) Has(path ...string) bool {
	return m.Get(path...) != nil
}

// GetModel returns the sub-model at path. Its parent is the parent's
// sub-model at the same path, so inheritance carries through.
func (m *Model) GetModel(path ...string) *Model {
	if m == nil {
		return nil
	}
	sub, _ := lookup(m.option, path)
	obj, _ := sub.(map[string]any)
	var parent *Model
	if m.parent != nil {
		parent = m.parent.GetModel(path...)
	}
	return New(obj, parent)
}

// Float returns a number at path. Numeric strings are accepted.
func (m *Model) Float(path ...string) (float64, bool) {
	return ToFloat(m.Get(path...))
}

// FloatOr returns the number at path or def.
func (m *Model) FloatOr(def float64, path ...string) float64 {
	if v, ok := m.Float(path...); ok {
		return v
	}
	return def
}

// StringOr returns the string at path or def.
func (m *Model) StringOr(def string, path ...string) string {
	if s, ok := m.Get(path...).(string); ok {
		return s
	}
	return def
}

// BoolOr returns the bool at path or def.
func (m *Model) BoolOr(def bool, path ...string) bool {
	if b, ok := m.Get(path...).(bool); ok {
		return b
	}
	return def
}

// ToFloat converts decoded JSON scalars to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ParsePercent resolves "50%" against all; plain numbers pass through.
func ParsePercent(v any, all float64) float64 {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if strings.HasSuffix(s, "%") {
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return 0
			}
			return f / 100 * all
		}
	}
	f, _ := ToFloat(v)
	return f
}

// ItemStyle reads an itemStyle-like model into a style override:
// color → fill, borderColor → stroke, borderWidth → line width, opacity.
func (m *Model) ItemStyle() graphic.StyleOverride {
	var o graphic.StyleOverride
	if s, ok := m.Get("color").(string); ok {
		o.Fill = graphic.Str(s)
	}
	if s, ok := m.Get("borderColor").(string); ok {
		o.Stroke = graphic.Str(s)
	}
	if f, ok := m.Float("borderWidth"); ok {
		o.LineWidth = graphic.Num(f)
	}
	if f, ok := m.Float("opacity"); ok {
		o.Opacity = graphic.Num(f)
	}
	return o
}

// LineStyle reads a lineStyle-like model: color → stroke, width → line width.
func (m *Model) LineStyle() graphic.StyleOverride {
	var o graphic.StyleOverride
	if s, ok := m.Get("color").(string); ok {
		o.Stroke = graphic.Str(s)
	}
	if f, ok := m.Float("width"); ok {
		o.LineWidth = graphic.Num(f)
	}
	if f, ok := m.Float("opacity"); ok {
		o.Opacity = graphic.Num(f)
	}
	return o
}
