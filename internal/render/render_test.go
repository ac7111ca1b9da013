package render

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/chartview/internal/emphasis"
	"github.com/inamate/chartview/internal/graphic"
)

type plain struct{}

func (plain) Resolve(el *graphic.Node) graphic.Resolved {
	return graphic.Resolved{Style: el.Style, Z2: el.Z2}
}

func rect(x, y, w, h float64, fill string) *graphic.Node {
	style := graphic.DefaultStyle()
	style.Fill = fill
	return graphic.NewPath(graphic.RectShape{X: x, Y: y, Width: w, Height: h}, style)
}

func ops(cmds []DrawCommand) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Op
	}
	return out
}

func TestCompileSortsByZ2(t *testing.T) {
	root := graphic.NewGroup()
	top := rect(0, 0, 10, 10, "#ff0000")
	top.Z2 = 5
	bottom := rect(0, 0, 10, 10, "#00ff00")
	root.Add(top)
	root.Add(bottom)

	cmds := Compile(root, plain{})
	require.Len(t, cmds, 2)
	assert.Equal(t, bottom.ID, cmds[0].ObjectID)
	assert.Equal(t, top.ID, cmds[1].ObjectID)
}

func TestCompileSkipsHiddenAndWrapsClips(t *testing.T) {
	root := graphic.NewGroup()
	g := graphic.NewGroup()
	g.SetClipPath(graphic.NewPath(graphic.RectShape{Width: 5, Height: 5}, graphic.DefaultStyle()))
	root.Add(g)
	visible := rect(0, 0, 10, 10, "#000")
	ignored := rect(0, 0, 10, 10, "#000")
	ignored.Ignore = true
	g.Add(visible)
	g.Add(ignored)

	cmds := Compile(root, plain{})
	assert.Equal(t, []string{"save", "clip", "path", "restore"}, ops(cmds))
	assert.Equal(t, visible.ID, cmds[2].ObjectID)
}

func TestCompileLabelFollowsHost(t *testing.T) {
	root := graphic.NewGroup()
	host := rect(0, 0, 10, 10, "#000")
	host.Z2 = 3
	host.Data.SeriesIndex = 2
	host.Data.DataIndex = 4
	style := graphic.DefaultStyle()
	style.Text = "hello"
	label := graphic.NewText(1, 2, style)
	host.SetTextContent(label)
	root.Add(host)
	other := rect(0, 0, 10, 10, "#fff")
	other.Z2 = 10
	root.Add(other)

	cmds := Compile(root, plain{})
	require.Len(t, cmds, 3)
	assert.Equal(t, "path", cmds[0].Op)
	assert.Equal(t, "text", cmds[1].Op)
	assert.Equal(t, "hello", cmds[1].Text)
	assert.Equal(t, 4, cmds[1].DataIndex)
	assert.Equal(t, []float64{1, 0, 0, 1, 1, 2}, cmds[1].Transform)

	label.Invisible = true
	assert.Len(t, Compile(root, plain{}), 2)
}

func TestCompileUsesResolvedStyle(t *testing.T) {
	root := graphic.NewGroup()
	el := rect(0, 0, 10, 10, "#646464")
	root.Add(el)
	emphasis.EnterEmphasis(el, 0)

	cmds := Compile(root, emphasis.NewController())
	require.Len(t, cmds, 1)
	assert.Equal(t, "#6e6e6e", cmds[0].Fill)
}

func TestDrawCommandsToJSON(t *testing.T) {
	out, err := DrawCommandsToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	out, err = DrawCommandsToJSON([]DrawCommand{{Op: "path", Opacity: 0}})
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded[0], "opacity", "zero opacity is sent")
}

func TestHitTestTopmost(t *testing.T) {
	root := graphic.NewGroup()
	below := rect(0, 0, 20, 20, "#000")
	below.Data.DataIndex = 0
	above := rect(5, 5, 10, 10, "#000")
	above.Data.DataIndex = 1
	above.Z2 = 1
	root.Add(above)
	root.Add(below)

	hit, ok := HitTest(root, plain{}, 8, 8)
	require.True(t, ok)
	assert.Equal(t, 1, hit.DataIndex)
	assert.Same(t, above, hit.Element)

	hit, ok = HitTest(root, plain{}, 2, 2)
	require.True(t, ok)
	assert.Equal(t, 0, hit.DataIndex)

	_, ok = HitTest(root, plain{}, 50, 50)
	assert.False(t, ok)

	above.Silent = true
	hit, _ = HitTest(root, plain{}, 8, 8)
	assert.Equal(t, 0, hit.DataIndex, "silent elements are transparent")
}

func TestHitTestRespectsClipAndTransform(t *testing.T) {
	root := graphic.NewGroup()
	g := graphic.NewGroup()
	g.X, g.Y = 100, 100
	g.SetClipPath(graphic.NewPath(graphic.RectShape{Width: 5, Height: 5}, graphic.DefaultStyle()))
	el := rect(0, 0, 10, 10, "#000")
	g.Add(el)
	root.Add(g)

	_, ok := HitTest(root, plain{}, 103, 103)
	assert.True(t, ok)
	_, ok = HitTest(root, plain{}, 108, 108)
	assert.False(t, ok, "outside the clip")
	_, ok = HitTest(root, plain{}, 3, 3)
	assert.False(t, ok)
}

func TestHitTestLargeBar(t *testing.T) {
	root := graphic.NewGroup()
	style := graphic.DefaultStyle()
	style.Stroke = "#000"
	large := graphic.NewPath(graphic.LargeBarShape{
		Points:      []float64{10, 50, 30, 20},
		BaseDim:     0,
		StartValue:  100,
		DataIndices: []int{7, 9},
		BarWidth:    8,
	}, style)
	large.Data.SeriesIndex = 1
	root.Add(large)

	hit, ok := HitTest(root, plain{}, 31, 40)
	require.True(t, ok)
	assert.Equal(t, 9, hit.DataIndex)
	assert.Equal(t, 1, hit.SeriesIndex)

	_, ok = HitTest(root, plain{}, 10, 40)
	assert.False(t, ok, "above the first bar")
}

func TestPathDataArcs(t *testing.T) {
	d := PathData([]graphic.PathCommand{{"M", 0.0, 0.0}, {"L", 10.0, 0.0}, {"Z"}})
	assert.Equal(t, "M 0 0 L 10 0 Z", d)

	half := PathData([]graphic.PathCommand{{"A", 0.0, 0.0, 10.0, 0.0, math.Pi / 2, false}})
	assert.Equal(t, "M 10 0 A 10 10 0 0 1 0 10", half)

	ccw := PathData([]graphic.PathCommand{{"M", 0.0, 0.0}, {"A", 0.0, 0.0, 10.0, 0.0, math.Pi / 2, true}})
	assert.Equal(t, "M 0 0 L 10 0 A 10 10 0 1 0 0 10", ccw)

	full := PathData(graphic.CircleShape{CX: 0, CY: 0, R: 5}.BuildPath())
	assert.Equal(t, 2, strings.Count(full, "A "), "full circles are split")
}

func TestWriteSVG(t *testing.T) {
	root := graphic.NewGroup()
	g := graphic.NewGroup()
	g.SetClipPath(graphic.NewPath(graphic.RectShape{Width: 50, Height: 50}, graphic.DefaultStyle()))
	g.Add(rect(0, 0, 10, 10, "#ff0000"))
	root.Add(g)
	style := graphic.DefaultStyle()
	style.Text = "a<b"
	root.Add(graphic.NewText(5, 5, style))

	var buf bytes.Buffer
	WriteSVG(&buf, 100.5, 80, Compile(root, plain{}))
	out := buf.String()

	assert.Contains(t, out, `width="101"`)
	assert.Contains(t, out, `<clipPath id="clip1"`)
	assert.Contains(t, out, `clip-path="url(#clip1)"`)
	assert.Contains(t, out, "fill:#ff0000")
	assert.Contains(t, out, "a&lt;b")
	assert.Equal(t, strings.Count(out, "<g"), strings.Count(out, "</g>"))
}
