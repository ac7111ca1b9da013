//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"syscall/js"
	"time"

	"github.com/inamate/chartview/internal/chart"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

var c *chart.Chart

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})))

	c = chart.New(chart.Options{Width: defaultWidth, Height: defaultHeight, DevMode: true})

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → chart) ---
	api.Set("init", js.FuncOf(initChart))
	api.Set("setOption", js.FuncOf(setOption))
	api.Set("resize", js.FuncOf(resize))
	api.Set("tick", js.FuncOf(tick))
	api.Set("finish", js.FuncOf(finish))
	api.Set("dispatchAction", js.FuncOf(dispatchAction))
	api.Set("hover", js.FuncOf(hover))
	api.Set("click", js.FuncOf(click))
	api.Set("dispose", js.FuncOf(dispose))

	// --- Queries (frontend ← chart) ---
	api.Set("render", js.FuncOf(render))
	api.Set("svg", js.FuncOf(svg))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("seriesTypes", js.FuncOf(seriesTypes))

	js.Global().Set("chartview", api)
	js.Global().Set("chartviewWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okValue() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

// initChart replaces the chart with a fresh one: init(width, height, devMode).
func initChart(this js.Value, args []js.Value) interface{} {
	opts := chart.Options{Width: defaultWidth, Height: defaultHeight, DevMode: true}
	if len(args) >= 2 {
		opts.Width, opts.Height = args[0].Float(), args[1].Float()
	}
	if len(args) >= 3 && args[2].Type() == js.TypeBoolean {
		opts.DevMode = args[2].Bool()
	}
	c.Dispose()
	c = chart.New(opts)
	return js.ValueOf(c.ID())
}

func setOption(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing option JSON"})
	}
	if err := c.SetOption([]byte(args[0].String())); err != nil {
		return errorValue(err)
	}
	return okValue()
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	if err := c.Resize(args[0].Float(), args[1].Float()); err != nil {
		return errorValue(err)
	}
	return okValue()
}

// tick advances by the given milliseconds and reports whether another
// frame is needed.
func tick(this js.Value, args []js.Value) interface{} {
	var dt time.Duration
	if len(args) > 0 {
		dt = time.Duration(args[0].Float() * float64(time.Millisecond))
	}
	return js.ValueOf(c.Tick(dt))
}

func finish(this js.Value, args []js.Value) interface{} {
	c.Finish()
	return nil
}

func dispatchAction(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing action JSON"})
	}
	var p chart.Payload
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return errorValue(err)
	}
	if err := c.DispatchAction(p); err != nil {
		return errorValue(err)
	}
	return okValue()
}

func hover(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(c.HoverAt(args[0].Float(), args[1].Float()))
}

func click(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(c.Click(args[0].Float(), args[1].Float()))
}

func dispose(this js.Value, args []js.Value) interface{} {
	c.Dispose()
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	frame, err := c.FrameJSON()
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(frame)
}

func svg(this js.Value, args []js.Value) interface{} {
	var b strings.Builder
	c.SVG(&b)
	return js.ValueOf(b.String())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.Null()
	}
	res, ok := c.HitTest(args[0].Float(), args[1].Float())
	if !ok {
		return js.Null()
	}
	return js.ValueOf(map[string]interface{}{
		"objectId":    res.ObjectID,
		"seriesIndex": res.SeriesIndex,
		"dataIndex":   res.DataIndex,
	})
}

func seriesTypes(this js.Value, args []js.Value) interface{} {
	types := chart.RegisteredTypes()
	out := make([]interface{}, len(types))
	for i, t := range types {
		out[i] = t
	}
	return js.ValueOf(out)
}
