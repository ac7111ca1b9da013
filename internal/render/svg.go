package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/inamate/chartview/internal/graphic"
)

// WriteSVG renders a draw command buffer as an SVG document of the given size.
func WriteSVG(w io.Writer, width, height float64, commands []DrawCommand) {
	canvas := svg.New(w)
	canvas.Start(int(math.Ceil(width)), int(math.Ceil(height)))

	clipID := 0
	var open []int // groups opened since each save
	for _, cmd := range commands {
		switch cmd.Op {
		case "save":
			open = append(open, 0)
		case "restore":
			if len(open) == 0 {
				continue
			}
			for i := 0; i < open[len(open)-1]; i++ {
				canvas.Gend()
			}
			open = open[:len(open)-1]
		case "clip":
			clipID++
			id := "clip" + strconv.Itoa(clipID)
			canvas.ClipPath(`id="` + id + `"`)
			canvas.Path(PathData(cmd.Path), transformAttr(cmd.Transform))
			canvas.ClipEnd()
			canvas.Group(`clip-path="url(#` + id + `)"`)
			if len(open) > 0 {
				open[len(open)-1]++
			}
		case "path":
			canvas.Path(PathData(cmd.Path), transformAttr(cmd.Transform), pathStyle(cmd))
		case "text":
			canvas.Gtransform(matrix(cmd.Transform))
			canvas.Text(0, 0, cmd.Text, textStyle(cmd))
			canvas.Gend()
		}
	}
	for _, n := range open {
		for i := 0; i < n; i++ {
			canvas.Gend()
		}
	}
	canvas.End()
}

func num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func matrix(m []float64) string {
	if len(m) != 6 {
		return "matrix(1 0 0 1 0 0)"
	}
	parts := make([]string, 6)
	for i, v := range m {
		parts[i] = num(v)
	}
	return "matrix(" + strings.Join(parts, " ") + ")"
}

func transformAttr(m []float64) string {
	return `transform="` + matrix(m) + `"`
}

func orNone(c string) string {
	if c == "" {
		return "none"
	}
	return c
}

func pathStyle(cmd DrawCommand) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fill:%s;stroke:%s;opacity:%s", orNone(cmd.Fill), orNone(cmd.Stroke), num(cmd.Opacity))
	if cmd.StrokeWidth > 0 {
		fmt.Fprintf(&b, ";stroke-width:%s", num(cmd.StrokeWidth))
	}
	if len(cmd.LineDash) > 0 {
		dash := make([]string, len(cmd.LineDash))
		for i, d := range cmd.LineDash {
			dash[i] = num(d)
		}
		fmt.Fprintf(&b, ";stroke-dasharray:%s", strings.Join(dash, ","))
	}
	return b.String()
}

func textStyle(cmd DrawCommand) string {
	anchor := "start"
	switch cmd.Align {
	case "center":
		anchor = "middle"
	case "right":
		anchor = "end"
	}
	base := "hanging"
	switch cmd.Baseline {
	case "middle":
		base = "middle"
	case "bottom":
		base = "text-after-edge"
	}
	fill := cmd.Fill
	if fill == "" {
		fill = "#333"
	}
	return fmt.Sprintf("fill:%s;opacity:%s;font-size:%spx;text-anchor:%s;dominant-baseline:%s",
		fill, num(cmd.Opacity), num(cmd.FontSize), anchor, base)
}

func arg(c graphic.PathCommand, i int) float64 {
	if i >= len(c) {
		return 0
	}
	switch v := c[i].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// PathData converts Canvas2D-style path commands to SVG path data. Arcs
// become SVG elliptical arc segments; full circles are split in two.
func PathData(cmds []graphic.PathCommand) string {
	var b strings.Builder
	hasPoint := false
	emit := func(op string, vals ...float64) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(op)
		for _, v := range vals {
			b.WriteByte(' ')
			b.WriteString(num(v))
		}
	}
	for _, c := range cmds {
		if len(c) == 0 {
			continue
		}
		op, _ := c[0].(string)
		switch op {
		case "M", "L":
			emit(op, arg(c, 1), arg(c, 2))
			hasPoint = true
		case "Q":
			emit("Q", arg(c, 1), arg(c, 2), arg(c, 3), arg(c, 4))
		case "Z":
			emit("Z")
		case "A":
			anticlockwise := false
			if len(c) > 6 {
				anticlockwise, _ = c[6].(bool)
			}
			arc(emit, hasPoint, arg(c, 1), arg(c, 2), arg(c, 3), arg(c, 4), arg(c, 5), anticlockwise)
			hasPoint = true
		}
	}
	return b.String()
}

func arc(emit func(string, ...float64), hasPoint bool, cx, cy, r, start, end float64, anticlockwise bool) {
	const twoPi = 2 * math.Pi
	x0, y0 := cx+r*math.Cos(start), cy+r*math.Sin(start)
	if hasPoint {
		emit("L", x0, y0)
	} else {
		emit("M", x0, y0)
	}
	if r <= 0 {
		return
	}

	delta := end - start
	dir := 1.0
	if anticlockwise {
		delta = -delta
		dir = -1
	}
	var sweep float64
	if delta >= twoPi {
		sweep = twoPi
	} else {
		sweep = math.Mod(math.Mod(delta, twoPi)+twoPi, twoPi)
	}
	if sweep == 0 {
		return
	}

	sweepFlag := 1.0
	if anticlockwise {
		sweepFlag = 0
	}
	if sweep >= twoPi-1e-9 {
		mid := start + dir*math.Pi
		emit("A", r, r, 0, 0, sweepFlag, cx+r*math.Cos(mid), cy+r*math.Sin(mid))
		emit("A", r, r, 0, 0, sweepFlag, x0, y0)
		return
	}
	large := 0.0
	if sweep > math.Pi {
		large = 1
	}
	stop := start + dir*sweep
	emit("A", r, r, 0, large, sweepFlag, cx+r*math.Cos(stop), cy+r*math.Sin(stop))
}
