// Package label runs the cross-series label pass: it collects the labels
// every view attached to its elements and hides the ones that collide with
// labels registered before them.
package label

import (
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

// Overlap policies.
const (
	OverlapHidden = "hidden"
	OverlapShow   = "show"
)

// Params describes one label to a layout callback. Rects are in chart
// coordinates.
type Params struct {
	DataIndex     int
	SeriesIndex   int
	Text          string
	Align         string
	VerticalAlign string
	Rect          graphic.Rect // host element
	LabelRect     graphic.Rect
}

// Option is the resolved layout of a label. Empty fields keep the label's
// own values.
type Option struct {
	Overlap       string
	OverlapMargin *float64
	Align         string
	VerticalAlign string
}

// Resolver produces the layout option of a label.
type Resolver func(Params) Option

// Static returns a resolver that always yields o.
func Static(o Option) Resolver {
	return func(Params) Option { return o }
}

// Sizer is the part of the chart API the manager needs.
type Sizer interface {
	Width() float64
	Height() float64
}

type defaults struct {
	ignore        bool
	align         string
	verticalAlign string
}

type item struct {
	label       *graphic.Node
	dataIndex   int
	seriesIndex int
	resolver    Resolver
	hostRect    graphic.Rect

	overlap       string
	overlapMargin float64

	def defaults
}

type placed struct {
	rect        graphic.Rect
	localRect   graphic.Rect
	transform   graphic.Matrix2D
	axisAligned bool
	obb         *graphic.OrientedRect
}

// Manager holds the labels of one frame. It is owned by a chart instance and
// is not safe for concurrent use.
type Manager struct {
	margin    float64
	labels    []*item
	resolvers map[int]Resolver
}

// NewManager creates a manager whose labels keep margin pixels apart unless
// their layout option says otherwise.
func NewManager(margin float64) *Manager {
	return &Manager{margin: margin, resolvers: make(map[int]Resolver)}
}

// SetSeriesResolver installs a layout callback for every label of a series.
// It survives ClearLabels and replaces the series labelLayout option.
func (m *Manager) SetSeriesResolver(seriesIndex int, r Resolver) {
	if r == nil {
		delete(m.resolvers, seriesIndex)
		return
	}
	m.resolvers[seriesIndex] = r
}

// ClearLabels forgets every registered label.
func (m *Manager) ClearLabels() {
	m.labels = m.labels[:0]
}

// Len returns the number of registered labels.
func (m *Manager) Len() int {
	return len(m.labels)
}

// AddLabel registers a label. Registration order is priority: a label is
// hidden when it overlaps one added before it.
func (m *Manager) AddLabel(dataIndex, seriesIndex int, label *graphic.Node, r Resolver) {
	if label == nil {
		return
	}
	it := &item{
		label:       label,
		dataIndex:   dataIndex,
		seriesIndex: seriesIndex,
		resolver:    r,
		overlap:     OverlapHidden,
		def: defaults{
			ignore:        label.Ignore,
			align:         label.Style.Align,
			verticalAlign: label.Style.VerticalAlign,
		},
	}
	if host := label.Host(); host != nil && host.Shape != nil {
		it.hostRect = host.WorldTransform().TransformRect(host.Shape.Bounds())
	}
	m.labels = append(m.labels, it)
}

// AddLabelsOfSeries registers the labels attached to the elements of a view
// group. Ignored subtrees are skipped.
func (m *Manager) AddLabelsOfSeries(group *graphic.Node, s *series.Series) {
	if group == nil || s == nil {
		return
	}
	r, ok := m.resolvers[s.Index]
	if !ok {
		r = Static(optionFromModel(s.GetModel("labelLayout")))
	}
	var visit func(n *graphic.Node)
	visit = func(n *graphic.Node) {
		for _, c := range n.Children {
			if c.Ignore {
				continue
			}
			if c.TextContent != nil && c.Data.DataIndex >= 0 {
				m.AddLabel(c.Data.DataIndex, s.Index, c.TextContent, r)
			}
			visit(c)
		}
	}
	visit(group)
}

func optionFromModel(lm *model.Model) Option {
	var o Option
	if hide, ok := lm.Get("hideOverlap").(bool); ok && !hide {
		o.Overlap = OverlapShow
	}
	if s := lm.StringOr("", "overlap"); s != "" {
		o.Overlap = s
	}
	if f, ok := lm.Float("overlapMargin"); ok {
		o.OverlapMargin = &f
	}
	o.Align = lm.StringOr("", "align")
	o.VerticalAlign = lm.StringOr("", "verticalAlign")
	return o
}

func (it *item) params() Params {
	st := it.label.Style
	return Params{
		DataIndex:     it.dataIndex,
		SeriesIndex:   it.seriesIndex,
		Text:          st.Text,
		Align:         st.Align,
		VerticalAlign: st.VerticalAlign,
		Rect:          it.hostRect,
		LabelRect:     it.label.WorldTransform().TransformRect(graphic.TextRect(st)),
	}
}

// UpdateLayoutConfig resolves the layout option of every label and records
// its overlap policy. Labels are not moved.
func (m *Manager) UpdateLayoutConfig(_ Sizer) {
	for _, it := range m.labels {
		var o Option
		if it.resolver != nil {
			o = it.resolver(it.params())
		}

		it.label.Style.Align = it.def.align
		if o.Align != "" {
			it.label.Style.Align = o.Align
		}
		it.label.Style.VerticalAlign = it.def.verticalAlign
		if o.VerticalAlign != "" {
			it.label.Style.VerticalAlign = o.VerticalAlign
		}

		it.overlap = OverlapHidden
		if o.Overlap != "" {
			it.overlap = o.Overlap
		}
		it.overlapMargin = m.margin
		if o.OverlapMargin != nil {
			it.overlapMargin = *o.OverlapMargin
		}
	}
}

// Layout shows every label that does not collide with an earlier shown one
// and hides the rest. Hidden labels only get Invisible set, so they come
// back on a later pass once the conflict is gone.
func (m *Manager) Layout(_ Sizer) {
	var shown []*placed
	for _, it := range m.labels {
		label := it.label
		label.Invisible = false
		if it.def.ignore {
			continue
		}

		transform := label.WorldTransform()
		local := graphic.TextRect(label.Style)
		p := &placed{
			rect:        transform.TransformRect(local),
			localRect:   local,
			transform:   transform,
			axisAligned: transform.IsAxisAligned(),
		}

		if it.overlap != OverlapShow && overlaps(p, shown, it.overlapMargin) {
			label.Invisible = true
			continue
		}
		shown = append(shown, p)
	}
}

func overlaps(p *placed, shown []*placed, margin float64) bool {
	for _, other := range shown {
		if !p.rect.Expand(margin / 2).Intersects(other.rect.Expand(margin / 2)) {
			continue
		}
		if p.axisAligned && other.axisAligned {
			return true
		}
		if p.obb == nil {
			o := graphic.NewOrientedRect(p.localRect, p.transform)
			p.obb = &o
		}
		if other.obb == nil {
			o := graphic.NewOrientedRect(other.localRect, other.transform)
			other.obb = &o
		}
		if p.obb.Intersects(*other.obb, margin) {
			return true
		}
	}
	return false
}
