package chart

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/inamate/chartview/internal/anim"
	"github.com/inamate/chartview/internal/emphasis"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/label"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/render"
	"github.com/inamate/chartview/internal/series"
	"github.com/inamate/chartview/internal/typeid"
)

var (
	ErrNoOption      = errors.New("no option set")
	ErrUnknownAction = errors.New("unknown action")
	ErrNoSeries      = errors.New("series not found")
)

// Options configures a chart instance.
type Options struct {
	// ID names the chart. Empty generates a chart typeid.
	ID     string
	Width  float64
	Height float64
	// DevMode turns structural violations into errors and logs unsupported
	// coordinate systems.
	DevMode            bool
	Logger             *slog.Logger
	Thresholds         Thresholds
	LabelOverlapMargin float64
}

// Chart owns the views, animator, emphasis controller and label manager of
// one rendered option. It is not safe for concurrent use.
type Chart struct {
	id     string
	width  float64
	height float64
	opts   Options

	ctx    *Context
	labels *label.Manager
	root   *graphic.Node

	global    *model.Global
	series    []*series.Series
	views     []View
	viewRoots map[int]string

	// progress holds the next item index of series still rendering in chunks.
	progress map[int]int

	hovered *graphic.Node
	blurred []*graphic.Node
}

// chartAPI is what views see of the chart.
type chartAPI struct {
	c *Chart
}

func (a chartAPI) Width() float64  { return a.c.width }
func (a chartAPI) Height() float64 { return a.c.height }

func (a chartAPI) DispatchAction(p Payload) {
	if err := a.c.DispatchAction(p); err != nil {
		a.c.ctx.Logger.Warn("dispatch action", "type", p.Type, "error", err)
	}
}

// New creates an empty chart.
func New(opts Options) *Chart {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.ID == "" {
		opts.ID = typeid.NewChartID()
	}
	return &Chart{
		id:     opts.ID,
		width:  opts.Width,
		height: opts.Height,
		opts:   opts,
		ctx: &Context{
			Animator: anim.New(),
			Emphasis: emphasis.NewController(),
			Logger:   opts.Logger,
			DevMode:  opts.DevMode,
		},
		labels:    label.NewManager(opts.LabelOverlapMargin),
		root:      graphic.NewGroup(),
		viewRoots: make(map[int]string),
		progress:  make(map[int]int),
	}
}

// ID returns the chart's typeid.
func (c *Chart) ID() string { return c.id }

// Width returns the chart width in pixels.
func (c *Chart) Width() float64 { return c.width }

// Height returns the chart height in pixels.
func (c *Chart) Height() float64 { return c.height }

// Root returns the scene root. Each series view group is a child.
func (c *Chart) Root() *graphic.Node { return c.root }

// Animator returns the chart's animator.
func (c *Chart) Animator() *anim.Animator { return c.ctx.Animator }

// Series returns the prepared series of the last render.
func (c *Chart) Series() []*series.Series { return c.series }

// SetOption parses an option document and renders it. Views of series
// whose type is unchanged are kept, so their elements transition.
func (c *Chart) SetOption(data []byte) error {
	g, err := model.Parse(data)
	if err != nil {
		return fmt.Errorf("set option: %w", err)
	}
	if g.Width > 0 {
		c.width = g.Width
	}
	if g.Height > 0 {
		c.height = g.Height
	}
	if c.global != nil && len(g.Series) < len(c.series) {
		for i := len(g.Series); i < len(c.series); i++ {
			delete(c.viewRoots, i)
		}
	}
	c.global = g
	return c.render()
}

// Resize changes the chart size and re-renders the current option.
func (c *Chart) Resize(width, height float64) error {
	c.width, c.height = width, height
	if c.global == nil {
		return nil
	}
	return c.render()
}

func (c *Chart) render() error {
	list, err := series.Build(c.global, series.BuildOptions{
		Width:     c.width,
		Height:    c.height,
		Defaults:  seriesDefaults(c.opts.Thresholds),
		ViewRoots: c.viewRoots,
	})
	if err != nil {
		return fmt.Errorf("build series: %w", err)
	}

	views := make([]View, len(list))
	for i, s := range list {
		if i < len(c.views) && c.views[i] != nil && c.views[i].Type() == s.Type {
			views[i] = c.views[i]
			continue
		}
		v, err := NewView(s.Type, c.ctx)
		if err != nil {
			return err
		}
		views[i] = v
	}
	api := chartAPI{c}
	for i, old := range c.views {
		if old != nil && (i >= len(views) || views[i] != old) {
			old.Remove(c.global, api)
			c.root.Remove(old.Group())
		}
	}

	c.clearHover()
	c.series = list
	c.views = views
	clear(c.progress)

	var errs []error
	for i, s := range list {
		v := views[i]
		group := v.Group()
		group.Z = int(s.Model.FloatOr(2, "z"))
		group.Data.SeriesIndex = s.Index
		c.root.Add(group)
		if s.Pipeline.Progressive {
			v.IncrementalPrepareRender(s, c.global, api)
			c.progress[i] = 0
			continue
		}
		if err := v.Render(s, c.global, api); err != nil {
			errs = append(errs, fmt.Errorf("render series %d: %w", i, err))
		}
	}
	c.layoutLabels()
	return errors.Join(errs...)
}

// layoutLabels runs the cross-series label overlap pass.
func (c *Chart) layoutLabels() {
	api := chartAPI{c}
	c.labels.ClearLabels()
	for i, s := range c.series {
		c.labels.AddLabelsOfSeries(c.views[i].Group(), s)
	}
	c.labels.UpdateLayoutConfig(api)
	c.labels.Layout(api)
}

// SetLabelLayout installs a label layout callback for one series. It takes
// effect on the next render.
func (c *Chart) SetLabelLayout(seriesIndex int, r label.Resolver) {
	c.labels.SetSeriesResolver(seriesIndex, r)
}

// Tick renders one chunk of every progressive series and advances
// animations by dt. It reports whether more work is pending.
func (c *Chart) Tick(dt time.Duration) bool {
	api := chartAPI{c}
	chunked := false
	for i, start := range c.progress {
		s := c.series[i]
		count := s.Data().Count()
		end := min(start+max(s.Pipeline.Chunk, 1), count)
		if start < end {
			c.views[i].IncrementalRender(series.ProgressParams{Start: start, End: end}, s, c.global, api)
			chunked = true
		}
		if end >= count {
			delete(c.progress, i)
		} else {
			c.progress[i] = end
		}
	}
	if chunked {
		c.layoutLabels()
	}
	animating := c.ctx.Animator.Tick(dt)
	return animating || len(c.progress) > 0
}

// Finish completes all progressive rendering and jumps every animation to
// its end.
func (c *Chart) Finish() {
	for len(c.progress) > 0 {
		c.Tick(0)
	}
	c.ctx.Animator.Finish()
}

// Frame compiles the scene into draw commands.
func (c *Chart) Frame() []render.DrawCommand {
	return render.Compile(c.root, c.ctx.Emphasis)
}

// FrameJSON compiles the scene and serializes it.
func (c *Chart) FrameJSON() (string, error) {
	return render.DrawCommandsToJSON(c.Frame())
}

// SVG writes the current frame as an SVG document.
func (c *Chart) SVG(w io.Writer) {
	render.WriteSVG(w, c.width, c.height, c.Frame())
}

// HitTest returns the topmost element under (x, y).
func (c *Chart) HitTest(x, y float64) (render.HitTestResult, bool) {
	return render.HitTest(c.root, c.ctx.Emphasis, x, y)
}

// HoverAt moves the pointer to (x, y): the element under it takes the
// hover emphasis and its focus blurs the others. It reports whether the
// hovered element changed.
func (c *Chart) HoverAt(x, y float64) bool {
	var target *graphic.Node
	if hit, ok := c.HitTest(x, y); ok && hit.Element != nil && hit.Element.HighDownEnabled {
		target = hit.Element
	}
	if target == c.hovered {
		return false
	}
	c.clearHover()
	if target != nil {
		emphasis.SetHover(target, true)
		c.hovered = target
		c.blurFocus(target)
	}
	return true
}

func (c *Chart) clearHover() {
	if c.hovered != nil {
		emphasis.SetHover(c.hovered, false)
		c.hovered = nil
	}
	c.leaveBlur()
}

// Click forwards a click at (x, y) to the view that owns the element.
func (c *Chart) Click(x, y float64) bool {
	hit, ok := c.HitTest(x, y)
	if !ok || hit.Element == nil {
		return false
	}
	i := hit.SeriesIndex
	if i < 0 || i >= len(c.views) {
		return false
	}
	cv, ok := c.views[i].(clicker)
	if !ok {
		return false
	}
	cv.Click(c.series[i], hit.Element, chartAPI{c})
	return true
}

// boundElements lists every element bound to an item, across series.
func (c *Chart) boundElements() []*graphic.Node {
	var out []*graphic.Node
	for _, s := range c.series {
		s.Data().EachItemGraphicEl(func(el *graphic.Node, _ int) {
			out = append(out, el)
		})
	}
	return out
}

func (c *Chart) sameCoordSys(a, b int) bool {
	if a < 0 || b < 0 || a >= len(c.series) || b >= len(c.series) {
		return false
	}
	return c.series[a].CoordSys != nil && c.series[a].CoordSys == c.series[b].CoordSys
}

// blurFocus blurs what the focus of target asks for.
func (c *Chart) blurFocus(target *graphic.Node) {
	for _, el := range emphasis.FocusTargets(target, c.boundElements(), c.sameCoordSys) {
		emphasis.EnterBlur(el)
		c.blurred = append(c.blurred, el)
	}
}

func (c *Chart) leaveBlur() {
	for _, el := range c.blurred {
		emphasis.LeaveBlur(el)
	}
	c.blurred = nil
}

// targets returns the series indices an action applies to: the one it
// names, or all of them.
func (c *Chart) targets(p Payload) ([]int, error) {
	if p.SeriesIndex != nil {
		i := *p.SeriesIndex
		if i < 0 || i >= len(c.series) {
			return nil, fmt.Errorf("series %d: %w", i, ErrNoSeries)
		}
		return []int{i}, nil
	}
	out := make([]int, len(c.series))
	for i := range out {
		out[i] = i
	}
	return out, nil
}

// DispatchAction applies an action to the chart.
func (c *Chart) DispatchAction(p Payload) error {
	if c.global == nil {
		return ErrNoOption
	}
	idx, err := c.targets(p)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", p.Type, err)
	}
	api := chartAPI{c}
	switch p.Type {
	case ActionHighlight:
		for _, i := range idx {
			c.views[i].Highlight(c.series[i], c.global, api, p)
			d := c.series[i].Data()
			items, _ := payloadIndices(d, p)
			for _, k := range items {
				if el := d.ItemGraphicEl(k); el != nil {
					c.blurFocus(el)
				}
			}
		}
	case ActionDownplay:
		for _, i := range idx {
			c.views[i].Downplay(c.series[i], c.global, api, p)
		}
		c.leaveBlur()
	case ActionSelect, ActionUnselect:
		for _, i := range idx {
			d := c.series[i].Data()
			items, whole := payloadIndices(d, p)
			if whole {
				d.EachItemGraphicEl(func(_ *graphic.Node, k int) { items = append(items, k) })
			}
			for _, k := range items {
				el := d.ItemGraphicEl(k)
				if el == nil {
					continue
				}
				if p.Type == ActionSelect {
					emphasis.EnterSelect(el)
				} else {
					emphasis.LeaveSelect(el)
				}
			}
		}
	case ActionSunburstRootToNode:
		if p.SeriesIndex == nil {
			return fmt.Errorf("dispatch %s: %w", p.Type, ErrNoSeries)
		}
		s := c.series[*p.SeriesIndex]
		if s.Type != "sunburst" {
			return fmt.Errorf("dispatch %s to %s series: %w", p.Type, s.Type, ErrNoSeries)
		}
		c.viewRoots[s.Index] = p.TargetNodeID
		return c.render()
	default:
		return fmt.Errorf("dispatch %q: %w", p.Type, ErrUnknownAction)
	}
	return nil
}

// Dispose removes every view and stops all animations.
func (c *Chart) Dispose() {
	api := chartAPI{c}
	c.clearHover()
	for _, v := range c.views {
		if v != nil {
			v.Remove(c.global, api)
			c.root.Remove(v.Group())
		}
	}
	c.ctx.Animator.Finish()
	c.views = nil
	c.series = nil
	c.global = nil
	clear(c.progress)
	c.labels.ClearLabels()
}
