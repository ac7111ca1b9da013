// Package render compiles a chart scene into draw commands, hit tests it and
// exports it as SVG.
package render

import (
	"encoding/json"
	"sort"

	"github.com/inamate/chartview/internal/graphic"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string                `json:"op"`                    // "path", "text", "save", "restore", "clip"
	ObjectID    string                `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64             `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []graphic.PathCommand `json:"path,omitempty"`        // Path data for "path" and "clip" ops
	Fill        string                `json:"fill,omitempty"`        // Fill color
	Stroke      string                `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64               `json:"strokeWidth,omitempty"` // Stroke width
	LineDash    []float64             `json:"lineDash,omitempty"`
	Opacity     float64               `json:"opacity"` // Global alpha
	Decal       string                `json:"decal,omitempty"`

	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Align    string  `json:"align,omitempty"`
	Baseline string  `json:"baseline,omitempty"`

	SeriesIndex int `json:"seriesIndex"`
	DataIndex   int `json:"dataIndex"`
}

// Styler resolves the effective paint of an element for the current frame.
type Styler interface {
	Resolve(el *graphic.Node) graphic.Resolved
}

type clipRef struct {
	node      *graphic.Node
	transform graphic.Matrix2D
}

// displayable is one drawable element in paint order.
type displayable struct {
	node      *graphic.Node
	host      *graphic.Node // set for labels
	resolved  graphic.Resolved
	transform graphic.Matrix2D
	z         int
	order     int
	clips     []clipRef
	silent    bool
}

func (d *displayable) dataRef() *graphic.Node {
	if d.host != nil {
		return d.host
	}
	return d.node
}

// collect walks the scene and returns every visible element sorted by z,
// then z2, then scene order.
func collect(root *graphic.Node, st Styler) []*displayable {
	var list []*displayable
	var visit func(n *graphic.Node, z int, clips []clipRef, silent bool)
	visit = func(n *graphic.Node, z int, clips []clipRef, silent bool) {
		if n == nil || n.Ignore || n.Invisible {
			return
		}
		z += n.Z
		silent = silent || n.Silent
		world := n.WorldTransform()

		if n.Type != graphic.TypeGroup && (n.Shape != nil || n.Type == graphic.TypeText) {
			d := &displayable{
				node:      n,
				resolved:  st.Resolve(n),
				transform: world,
				z:         z,
				order:     len(list),
				clips:     clips,
				silent:    silent,
			}
			list = append(list, d)

			if label := n.TextContent; label != nil && !label.Ignore && !label.Invisible {
				list = append(list, labelOf(d, label))
			}
		}

		if n.ClipPath != nil {
			clips = append(clips[:len(clips):len(clips)], clipRef{node: n.ClipPath, transform: world})
		}
		for _, c := range n.Children {
			visit(c, z, clips, silent)
		}
	}
	visit(root, 0, nil, false)

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].z != list[j].z {
			return list[i].z < list[j].z
		}
		return list[i].resolved.Z2 < list[j].resolved.Z2
	})
	return list
}

// labelOf builds the displayable of a label right above its host. Host blur
// carries over to the label.
func labelOf(host *displayable, label *graphic.Node) *displayable {
	style := label.Style
	if base := host.node.Style.Opacity; base > 0 {
		style.Opacity *= host.resolved.Style.Opacity / base
	}
	z2 := label.Z2
	if z2 <= host.resolved.Z2 {
		z2 = host.resolved.Z2 + 1
	}
	return &displayable{
		node:      label,
		host:      host.node,
		resolved:  graphic.Resolved{Style: style, Z2: z2},
		transform: label.WorldTransform(),
		z:         host.z,
		order:     host.order + 1,
		clips:     host.clips,
		silent:    host.silent || label.Silent,
	}
}

// Compile generates a draw command buffer from a scene graph.
// Commands are in painter's order (back to front).
func Compile(root *graphic.Node, st Styler) []DrawCommand {
	if root == nil {
		return nil
	}
	var commands []DrawCommand
	for _, d := range collect(root, st) {
		compileDisplayable(d, &commands)
	}
	return commands
}

func compileDisplayable(d *displayable, commands *[]DrawCommand) {
	hasClip := len(d.clips) > 0
	if hasClip {
		*commands = append(*commands, DrawCommand{Op: "save"})
		for _, c := range d.clips {
			if c.node.Shape == nil {
				continue
			}
			*commands = append(*commands, DrawCommand{
				Op:        "clip",
				Transform: c.transform.ToSlice(),
				Path:      c.node.Shape.BuildPath(),
			})
		}
	}

	ref := d.dataRef()
	st := d.resolved.Style
	cmd := DrawCommand{
		ObjectID:    d.node.ID,
		Transform:   d.transform.ToSlice(),
		Opacity:     st.Opacity,
		Fill:        st.Fill,
		Stroke:      st.Stroke,
		StrokeWidth: st.LineWidth,
		LineDash:    st.LineDash,
		Decal:       st.Decal,
		SeriesIndex: ref.Data.SeriesIndex,
		DataIndex:   ref.Data.DataIndex,
	}
	if d.node.Type == graphic.TypeText {
		cmd.Op = "text"
		cmd.Text = st.Text
		cmd.FontSize = st.FontSize
		cmd.Align = st.Align
		cmd.Baseline = baseline(st.VerticalAlign)
	} else {
		cmd.Op = "path"
		cmd.Path = d.node.Shape.BuildPath()
	}
	*commands = append(*commands, cmd)

	if hasClip {
		*commands = append(*commands, DrawCommand{Op: "restore"})
	}
}

func baseline(verticalAlign string) string {
	switch verticalAlign {
	case "middle":
		return "middle"
	case "bottom":
		return "bottom"
	}
	return "top"
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
