// Package chart turns prepared series into scene elements through one View
// per series and drives them from a Chart instance.
package chart

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/inamate/chartview/internal/anim"
	"github.com/inamate/chartview/internal/emphasis"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

var (
	ErrUnknownSeriesType = errors.New("unknown series type")
	ErrHeatmapVisualMap  = errors.New("heatmap requires a visualMap")
)

// Action types accepted by DispatchAction.
const (
	ActionHighlight          = "highlight"
	ActionDownplay           = "downplay"
	ActionSelect             = "select"
	ActionUnselect           = "unselect"
	ActionSunburstRootToNode = "sunburstRootToNode"
)

// Payload is an action dispatched to a chart.
type Payload struct {
	Type         string `json:"type"`
	SeriesIndex  *int   `json:"seriesIndex,omitempty"`
	DataIndex    *int   `json:"dataIndex,omitempty"`
	Name         string `json:"name,omitempty"`
	TargetNodeID string `json:"targetNodeId,omitempty"`
	// HighlightKey names the caller so independent callers get separate
	// highlight bits. Empty uses the shared default bit.
	HighlightKey string `json:"highlightKey,omitempty"`
}

// API is what views may ask of the chart that owns them.
type API interface {
	Width() float64
	Height() float64
	DispatchAction(p Payload)
}

// Context is shared by every view of one chart instance.
type Context struct {
	Animator *anim.Animator
	Emphasis *emphasis.Controller
	Logger   *slog.Logger
	DevMode  bool
}

// View renders one series into its own group.
type View interface {
	Type() string
	Group() *graphic.Node
	Render(s *series.Series, g *model.Global, api API) error
	IncrementalPrepareRender(s *series.Series, g *model.Global, api API)
	IncrementalRender(params series.ProgressParams, s *series.Series, g *model.Global, api API)
	Highlight(s *series.Series, g *model.Global, api API, p Payload)
	Downplay(s *series.Series, g *model.Global, api API, p Payload)
	Remove(g *model.Global, api API)
}

// clicker is implemented by views that react to clicks on their elements.
type clicker interface {
	Click(s *series.Series, el *graphic.Node, api API)
}

// Constructor creates a view bound to a chart context.
type Constructor func(ctx *Context) View

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes a view available for a series type. Registering the same
// type twice replaces the constructor.
func Register(typ string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typ] = ctor
}

// NewView creates the view registered for typ.
func NewView(typ string, ctx *Context) (View, error) {
	registryMu.RLock()
	ctor, ok := registry[typ]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("new view %q: %w", typ, ErrUnknownSeriesType)
	}
	return ctor(ctx), nil
}

// RegisteredTypes lists the series types with a view, sorted.
func RegisteredTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// viewBase carries what every view shares: the group, the data the current
// elements are bound to, and highlight handling.
type viewBase struct {
	ctx   *Context
	group *graphic.Node
	data  *series.Data

	// tempEl builds a stand-in element for an item drawn without its own
	// element, e.g. by an aggregated path. Nil disables stand-ins.
	tempEl func(s *series.Series, dataIndex int) *graphic.Node
}

func newViewBase(ctx *Context) viewBase {
	return viewBase{ctx: ctx, group: graphic.NewGroup()}
}

func (b *viewBase) Group() *graphic.Node {
	return b.group
}

func (b *viewBase) IncrementalPrepareRender(*series.Series, *model.Global, API) {}

func (b *viewBase) IncrementalRender(series.ProgressParams, *series.Series, *model.Global, API) {}

func (b *viewBase) Remove(*model.Global, API) {
	b.group.RemoveAll()
	b.group.RemoveClipPath()
	b.data = nil
}

func (b *viewBase) logger() *slog.Logger {
	if b.ctx.Logger != nil {
		return b.ctx.Logger
	}
	return slog.Default()
}

// warnCoordSys reports an unsupported coordinate system in dev mode.
func (b *viewBase) warnCoordSys(s *series.Series, typ string) {
	if !b.ctx.DevMode {
		return
	}
	b.logger().Warn("unsupported coordinate system",
		"series", s.Index,
		"type", typ,
		"coordinateSystem", s.Model.StringOr("", "coordinateSystem"))
}

// dropTemps removes stand-in elements left bound to data.
func (b *viewBase) dropTemps(data *series.Data) {
	data.EachItemGraphicEl(func(el *graphic.Node, i int) {
		if el.Temp {
			b.group.Remove(el)
			data.SetItemGraphicEl(i, nil)
		}
	})
}

func (b *viewBase) digit(p Payload) int {
	return b.ctx.Emphasis.HighlightDigit(p.HighlightKey)
}

func (b *viewBase) Highlight(s *series.Series, _ *model.Global, _ API, p Payload) {
	b.toggleEmphasis(s, p, true)
}

func (b *viewBase) Downplay(s *series.Series, _ *model.Global, _ API, p Payload) {
	b.toggleEmphasis(s, p, false)
}

func (b *viewBase) toggleEmphasis(s *series.Series, p Payload, on bool) {
	d := s.Data()
	digit := b.digit(p)
	indices, whole := payloadIndices(d, p)
	if whole {
		if on {
			emphasis.EnterEmphasis(b.group, digit)
		} else {
			emphasis.LeaveEmphasis(b.group, digit)
		}
		return
	}
	for _, i := range indices {
		el := d.ItemGraphicEl(i)
		if el == nil && on && b.tempEl != nil {
			el = b.tempEl(s, i)
			if el != nil {
				el.Temp = true
				b.group.Add(el)
				d.SetItemGraphicEl(i, el)
			}
		}
		if el == nil {
			continue
		}
		if on {
			emphasis.EnterEmphasis(el, digit)
			continue
		}
		if el.Temp {
			b.group.Remove(el)
			d.SetItemGraphicEl(i, nil)
			continue
		}
		emphasis.LeaveEmphasis(el, digit)
	}
}

// payloadIndices resolves the items an action targets. whole is true when
// the payload names no item, meaning the action applies to the series.
func payloadIndices(d *series.Data, p Payload) (indices []int, whole bool) {
	if p.DataIndex != nil {
		if *p.DataIndex < 0 || *p.DataIndex >= d.Count() {
			return nil, false
		}
		return []int{*p.DataIndex}, false
	}
	if p.Name != "" {
		for i := 0; i < d.Count(); i++ {
			if d.Name(i) == p.Name {
				indices = append(indices, i)
			}
		}
		return indices, false
	}
	return nil, true
}

// bindItem links el back to item i of s.
func bindItem(el *graphic.Node, s *series.Series, i int) {
	el.Data.SeriesIndex = s.Index
	el.Data.DataIndex = i
	el.Data.DataType = s.Type
}

// armEmphasis installs the state styles of item i and arms hover emphasis.
func armEmphasis(el *graphic.Node, itemModel *model.Model, styleKey string) {
	emphasis.SetStatesStylesFromModel(el, itemModel, styleKey)
	emphasis.EnableHoverEmphasis(el,
		itemModel.StringOr(emphasis.FocusNone, "emphasis", "focus"),
		itemModel.StringOr(emphasis.BlurScopeCoordinateSystem, "emphasis", "blurScope"))
}
