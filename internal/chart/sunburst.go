package chart

import (
	"math"

	"github.com/inamate/chartview/internal/anim"
	"github.com/inamate/chartview/internal/emphasis"
	"github.com/inamate/chartview/internal/graphic"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/series"
)

// Sunburst highlight policies: which pieces light up with the hovered one.
const (
	HighlightPolicyDescendant = "descendant"
	HighlightPolicyAncestor   = "ancestor"
	HighlightPolicySelf       = "self"
	HighlightPolicyNone       = "none"
)

const (
	sunburstSectorZ2 = 2
	sunburstTextZ2   = 4
)

func init() {
	Register("sunburst", func(ctx *Context) View { return newSunburstView(ctx) })
}

type sunburstView struct {
	viewBase
}

func newSunburstView(ctx *Context) *sunburstView {
	return &sunburstView{viewBase: newViewBase(ctx)}
}

func (v *sunburstView) Type() string { return "sunburst" }

// Render diffs one piece per laid out node. Nodes outside the current view
// root have no layout and lose their piece.
func (v *sunburstView) Render(s *series.Series, _ *model.Global, _ API) error {
	data := s.Data()
	old := v.data
	if data.Tree == nil {
		v.Remove(nil, nil)
		return nil
	}
	sectorOf := func(i int) (graphic.SectorShape, bool) {
		sec, ok := data.ItemLayout(i).(graphic.SectorShape)
		return sec, ok
	}
	cfg := s.AnimationConfig(true)

	data.Diff(old).
		Add(func(i int) {
			sec, ok := sectorOf(i)
			if !ok {
				return
			}
			el := v.newPiece(s, i, sec)
			v.group.Add(el)
			data.SetItemGraphicEl(i, el)
		}).
		Update(func(newIndex, oldIndex int) {
			el := old.ItemGraphicEl(oldIndex)
			data.SetItemGraphicEl(newIndex, nil)
			sec, ok := sectorOf(newIndex)
			if !ok {
				if el != nil {
					v.ctx.Animator.Stop(el)
					v.group.Remove(el)
				}
				return
			}
			if el == nil {
				el = v.newPiece(s, newIndex, sec)
				v.group.Add(el)
			} else {
				v.ctx.Animator.UpdateProps(el, anim.Props{Shape: sec}, cfg, nil)
				v.stylePiece(el, s, newIndex, sec)
			}
			data.SetItemGraphicEl(newIndex, el)
		}).
		Remove(func(i int) {
			if el := old.ItemGraphicEl(i); el != nil {
				v.ctx.Animator.Stop(el)
				v.group.Remove(el)
			}
		}).
		Execute()

	v.data = data
	return nil
}

// newPiece creates a sector that grows outward from its inner radius.
func (v *sunburstView) newPiece(s *series.Series, i int, sec graphic.SectorShape) *graphic.Node {
	start := sec
	start.R = sec.R0
	el := graphic.NewPath(start, graphic.DefaultStyle())
	el.Z2 = sunburstSectorZ2
	v.ctx.Animator.UpdateProps(el, anim.Props{Shape: sec}, s.AnimationConfig(false), nil)
	v.stylePiece(el, s, i, sec)
	return el
}

func (v *sunburstView) stylePiece(el *graphic.Node, s *series.Series, i int, sec graphic.SectorShape) {
	d := s.Data()
	itemModel := d.ItemModel(i)
	vis := d.ItemVisual(i)
	style := vis.Style()
	style = style.Apply(itemModel.GetModel("itemStyle").ItemStyle())
	style.Fill = vis.Color
	el.Style = style
	bindItem(el, s, i)
	armEmphasis(el, itemModel, "itemStyle")
	if st := el.State(emphasis.StateBlur); st == nil || st.Style.IsZero() {
		if down := itemModel.GetModel("downplay", "itemStyle").ItemStyle(); !down.IsZero() {
			el.EnsureState(emphasis.StateBlur).Style = down
		}
	}
	v.updateLabel(el, s, i, sec, vis.Color)
}

// updateLabel places the label along the piece's mid angle.
func (v *sunburstView) updateLabel(el *graphic.Node, s *series.Series, i int, sec graphic.SectorShape, color string) {
	d := s.Data()
	lm := d.ItemModel(i).GetModel("label")
	text := labelText(s, lm, i, d.Name(i))
	if !lm.BoolOr(true, "show") {
		text = ""
	}
	minAngle := lm.FloatOr(0, "minAngle") * math.Pi / 180
	if minAngle > 0 && math.Abs(sec.EndAngle-sec.StartAngle) < minAngle {
		text = ""
	}
	if text == "" {
		el.SetTextContent(nil)
		return
	}

	mid := (sec.StartAngle + sec.EndAngle) / 2
	dx, dy := math.Cos(mid), math.Sin(mid)
	position := lm.StringOr("inside", "position")
	distance := lm.FloatOr(labelDistance, "distance")
	align := lm.StringOr("center", "align")

	var r float64
	if position == "outside" {
		r = sec.R + distance
		align = "left"
		if mid > math.Pi/2 {
			align = "right"
		}
	} else {
		switch align {
		case "left":
			r = sec.R0 + distance
			if mid > math.Pi/2 {
				align = "right"
			}
		case "right":
			r = sec.R - distance
			if mid > math.Pi/2 {
				align = "left"
			}
		default:
			r = (sec.R + sec.R0) / 2
			align = "center"
		}
	}

	lbl := el.TextContent
	if lbl == nil {
		lbl = graphic.NewText(0, 0, graphic.DefaultStyle())
		el.SetTextContent(lbl)
	}
	style := graphic.DefaultStyle()
	style.Text = text
	style.Align = align
	style.VerticalAlign = lm.StringOr("middle", "verticalAlign")
	style.FontSize = lm.FloatOr(graphic.DefaultFontSize, "fontSize")
	style.Opacity = lm.FloatOr(1, "opacity")
	style.Fill = lm.StringOr("", "color")
	if style.Fill == "" {
		if position == "outside" {
			style.Fill = color
		} else {
			style.Fill = "#fff"
		}
	}
	lbl.Style = style
	lbl.Z2 = sunburstTextZ2
	lbl.Silent = lm.BoolOr(true, "silent")
	lbl.X = r*dx + sec.CX
	lbl.Y = r*dy + sec.CY
	lbl.Rotation = labelRotation(lm.Get("rotate"), mid)
	lbl.TextConfig = graphic.TextConfig{Position: position, Inside: position != "outside", Distance: distance}
}

// labelRotation resolves "radial", "tangential" or a number of degrees.
func labelRotation(rotate any, mid float64) float64 {
	switch rotate {
	case "radial":
		r := -mid
		if r < -math.Pi/2 {
			r += math.Pi
		}
		return r
	case "tangential":
		r := math.Pi/2 - mid
		if r > math.Pi/2 {
			r -= math.Pi
		} else if r < -math.Pi/2 {
			r += math.Pi
		}
		return r
	}
	if f, ok := model.ToFloat(rotate); ok {
		return f * math.Pi / 180
	}
	return 0
}

// isNodeHighlighted reports whether n lights up while active is emphasized.
func isNodeHighlighted(n, active *series.TreeNode, policy string) bool {
	switch policy {
	case HighlightPolicyNone:
		return false
	case HighlightPolicySelf:
		return n == active
	case HighlightPolicyAncestor:
		return n == active || n.IsAncestorOf(active)
	default:
		return n == active || active.IsAncestorOf(n)
	}
}

// Highlight emphasizes the targeted pieces plus their relatives under
// highlightPolicy. Every other piece is blurred unless the policy is none.
func (v *sunburstView) Highlight(s *series.Series, g *model.Global, api API, p Payload) {
	d := s.Data()
	indices, whole := payloadIndices(d, p)
	if whole || d.Tree == nil {
		v.viewBase.Highlight(s, g, api, p)
		return
	}
	policy := s.Model.StringOr(HighlightPolicyDescendant, "highlightPolicy")
	digit := v.digit(p)
	for _, i := range indices {
		active := d.Tree.NodeAt(i)
		if active == nil {
			continue
		}
		d.EachItemGraphicEl(func(el *graphic.Node, j int) {
			n := d.Tree.NodeAt(j)
			switch {
			case isNodeHighlighted(n, active, policy) || n == active:
				emphasis.EnterEmphasis(el, digit)
			case policy != HighlightPolicyNone:
				emphasis.EnterBlur(el)
			}
		})
	}
}

func (v *sunburstView) Downplay(s *series.Series, g *model.Global, api API, p Payload) {
	d := s.Data()
	_, whole := payloadIndices(d, p)
	if whole || d.Tree == nil {
		v.viewBase.Downplay(s, g, api, p)
		return
	}
	digit := v.digit(p)
	d.EachItemGraphicEl(func(el *graphic.Node, _ int) {
		emphasis.LeaveEmphasis(el, digit)
		emphasis.LeaveBlur(el)
	})
}

// Click drills into the clicked node. Clicking the current view root goes
// back up one level.
func (v *sunburstView) Click(s *series.Series, el *graphic.Node, api API) {
	if s.Model.StringOr("rootToNode", "nodeClick") != "rootToNode" {
		return
	}
	d := s.Data()
	n := d.Tree.NodeAt(el.Data.DataIndex)
	if n == nil {
		return
	}
	target := n
	if root, ok := d.Layout(series.LayoutViewRoot).(*series.TreeNode); ok && root == n && n.Parent != nil {
		target = n.Parent
	}
	idx := s.Index
	api.DispatchAction(Payload{Type: ActionSunburstRootToNode, SeriesIndex: &idx, TargetNodeID: target.ID})
}

func (v *sunburstView) Remove(_ *model.Global, _ API) {
	v.group.RemoveAll()
	v.data = nil
}
