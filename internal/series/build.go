package series

import (
	"fmt"
	"strconv"

	"github.com/inamate/chartview/internal/model"
)

// Defaults maps a series type to the option values used when neither the
// series nor the global option sets them.
type Defaults map[string]map[string]any

// BuildOptions controls Build.
type BuildOptions struct {
	Width    float64
	Height   float64
	Defaults Defaults
	// ViewRoots holds the drill-down root id of hierarchical series by index.
	ViewRoots map[int]string
}

// Build prepares every series of g: data, coordinate systems, visuals and layouts.
func Build(g *model.Global, opts BuildOptions) ([]*Series, error) {
	list := make([]*Series, 0, len(g.Series))
	for i, sm := range g.Series {
		typ := sm.StringOr("", "type")
		if typ == "" {
			return nil, fmt.Errorf("series %d: %w", i, model.ErrMissingType)
		}
		m := model.New(sm.Option(), model.New(opts.Defaults[typ], g.Model))
		s := &Series{
			Type:  typ,
			Index: i,
			Model: m,
			ID:    m.StringOr("", "id"),
			Name:  m.StringOr("series"+strconv.Itoa(i), "name"),
		}
		raw := model.AsList(m.GetShallow("data"))
		if typ == "sunburst" {
			s.data = NewTreeData(raw, m)
		} else {
			s.data = NewData(raw, m)
		}
		s.Pipeline = pipelineOf(m, s.data.Count())
		list = append(list, s)
	}

	attachCoordSystems(g, list, opts.Width, opts.Height)
	for _, s := range list {
		applyVisual(g, s)
	}

	columns := barColumns(list)
	for _, s := range list {
		switch s.Type {
		case "bar":
			if s.CoordSys != nil {
				layoutBar(s, columns[s])
			}
		case "line":
			layoutLine(s)
		case "candlestick":
			layoutCandlestick(s)
		case "sunburst":
			layoutSunburst(s, opts.ViewRoots[s.Index], opts.Width, opts.Height)
		}
	}
	return list, nil
}

// pipelineOf picks the large and progressive paths from the series option.
func pipelineOf(m *model.Model, count int) Pipeline {
	p := Pipeline{}
	if m.BoolOr(false, "large") && float64(count) >= m.FloatOr(0, "largeThreshold") {
		p.Large = true
	}
	chunk := int(m.FloatOr(0, "progressive"))
	if chunk > 0 && float64(count) > m.FloatOr(0, "progressiveThreshold") {
		p.Progressive = true
		p.Chunk = chunk
	}
	return p
}
