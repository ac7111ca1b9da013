package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidOption = errors.New("invalid option")
	ErrMissingType   = errors.New("series type is required")
)

// DefaultPalette colors series that do not set their own.
var DefaultPalette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc",
}

// VisualMap is a continuous color scale bound to some series.
type VisualMap struct {
	Min, Max     float64
	Colors       []string
	Dimension    int
	SeriesIndex  []int // empty targets every series
	OutOfRange   string
	HasDimension bool
}

// Targets reports whether the visual map applies to the series at index.
func (v VisualMap) Targets(seriesIndex int) bool {
	if len(v.SeriesIndex) == 0 {
		return true
	}
	for _, i := range v.SeriesIndex {
		if i == seriesIndex {
			return true
		}
	}
	return false
}

// Global is the parsed root of an option document.
type Global struct {
	*Model
	Width      float64
	Height     float64
	Palette    []string
	Series     []*Model
	VisualMaps []VisualMap
}

// Parse decodes an option document.
func Parse(data []byte) (*Global, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return FromMap(raw)
}

// FromMap builds a Global from an already decoded option.
func FromMap(raw map[string]any) (*Global, error) {
	g := &Global{Model: New(raw, nil), Palette: DefaultPalette}
	g.Width = g.FloatOr(0, "width")
	g.Height = g.FloatOr(0, "height")

	if colors, ok := raw["color"].([]any); ok && len(colors) > 0 {
		g.Palette = make([]string, 0, len(colors))
		for _, c := range colors {
			if s, ok := c.(string); ok {
				g.Palette = append(g.Palette, s)
			}
		}
	}

	for i, s := range AsList(raw["series"]) {
		obj, ok := s.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: series %d is not an object", ErrInvalidOption, i)
		}
		if t, _ := obj["type"].(string); t == "" {
			return nil, fmt.Errorf("series %d: %w", i, ErrMissingType)
		}
		g.Series = append(g.Series, New(obj, g.Model))
	}

	for _, v := range AsList(raw["visualMap"]) {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		g.VisualMaps = append(g.VisualMaps, parseVisualMap(New(obj, nil)))
	}
	return g, nil
}

// Component returns the first object of a component that may be written
// as an object or a list of objects (xAxis, yAxis, polar...).
func (g *Global) Component(name string, index int) *Model {
	list := AsList(g.GetShallow(name))
	if index < 0 || index >= len(list) {
		return nil
	}
	obj, ok := list[index].(map[string]any)
	if !ok {
		return nil
	}
	return New(obj, nil)
}

// PaletteColor returns the palette color for a series index.
func (g *Global) PaletteColor(i int) string {
	if len(g.Palette) == 0 {
		return DefaultPalette[i%len(DefaultPalette)]
	}
	return g.Palette[i%len(g.Palette)]
}

// VisualMapFor returns the last visual map targeting the series, if any.
func (g *Global) VisualMapFor(seriesIndex int) (VisualMap, bool) {
	var found VisualMap
	ok := false
	for _, v := range g.VisualMaps {
		if v.Targets(seriesIndex) {
			found, ok = v, true
		}
	}
	return found, ok
}

func parseVisualMap(m *Model) VisualMap {
	v := VisualMap{
		Min:        m.FloatOr(0, "min"),
		Max:        m.FloatOr(100, "max"),
		OutOfRange: m.StringOr("", "outOfRange", "color"),
	}
	if d, ok := m.Float("dimension"); ok {
		v.Dimension = int(d)
		v.HasDimension = true
	}
	for _, c := range AsList(m.Get("inRange", "color")) {
		if s, ok := c.(string); ok {
			v.Colors = append(v.Colors, s)
		}
	}
	if len(v.Colors) == 0 {
		v.Colors = []string{"#f6efa6", "#d88273", "#bf444c"}
	}
	for _, idx := range AsList(m.Get("seriesIndex")) {
		if f, ok := ToFloat(idx); ok {
			v.SeriesIndex = append(v.SeriesIndex, int(f))
		}
	}
	return v
}

// AsList normalises a value written as a single item or a list.
func AsList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}
