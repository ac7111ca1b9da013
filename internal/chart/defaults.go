package chart

import "github.com/inamate/chartview/internal/series"

// Thresholds picks when series switch to the large and progressive paths.
type Thresholds struct {
	Large            int
	Progressive      int
	ProgressiveChunk int
}

// DefaultThresholds returns the thresholds used when Options leaves them zero.
func DefaultThresholds() Thresholds {
	return Thresholds{Large: 400, Progressive: 3000, ProgressiveChunk: 3000}
}

// seriesDefaults returns the per-type option defaults. Series and global
// options override them.
func seriesDefaults(t Thresholds) series.Defaults {
	return series.Defaults{
		"bar": {
			"coordinateSystem":     "cartesian2d",
			"clip":                 true,
			"large":                false,
			"largeThreshold":       float64(t.Large),
			"progressive":          float64(t.ProgressiveChunk),
			"progressiveThreshold": float64(t.Progressive),
			"showBackground":       false,
			"backgroundStyle": map[string]any{
				"color":       "rgba(180, 180, 180, 0.2)",
				"borderColor": nil,
				"borderWidth": 0.0,
			},
			"label": map[string]any{"position": "inside"},
		},
		"line": {
			"coordinateSystem": "cartesian2d",
			"clip":             true,
			"symbol":           "emptyCircle",
			"symbolSize":       4.0,
			"showSymbol":       true,
			"lineStyle":        map[string]any{"width": 2.0},
			"label":            map[string]any{"position": "top"},
		},
		"candlestick": {
			"coordinateSystem":     "cartesian2d",
			"clip":                 true,
			"large":                true,
			"largeThreshold":       600.0,
			"progressive":          float64(t.ProgressiveChunk),
			"progressiveThreshold": 10000.0,
			"barMaxWidth":          nil,
			"barMinWidth":          nil,
			"itemStyle":            map[string]any{"borderWidth": 1.0},
		},
		"heatmap": {
			"coordinateSystem":     "cartesian2d",
			"progressive":          float64(t.ProgressiveChunk),
			"progressiveThreshold": float64(t.Progressive),
		},
		"gauge": {
			"center":      []any{"50%", "50%"},
			"radius":      "75%",
			"startAngle":  225.0,
			"endAngle":    -45.0,
			"clockwise":   true,
			"min":         0.0,
			"max":         100.0,
			"splitNumber": 10.0,
			"axisLine": map[string]any{
				"show": true,
				"lineStyle": map[string]any{
					"color": []any{
						[]any{0.2, "#91c7ae"},
						[]any{0.8, "#63869e"},
						[]any{1.0, "#c23531"},
					},
					"width": 30.0,
				},
			},
			"splitLine": map[string]any{
				"show":      true,
				"length":    30.0,
				"lineStyle": map[string]any{"color": "#eee", "width": 2.0},
			},
			"axisTick": map[string]any{
				"show":        true,
				"splitNumber": 5.0,
				"length":      8.0,
				"lineStyle":   map[string]any{"color": "#eee", "width": 1.0},
			},
			"axisLabel": map[string]any{"show": true, "distance": 5.0, "color": "auto"},
			"pointer":   map[string]any{"show": true, "length": "80%", "width": 8.0},
			"itemStyle": map[string]any{"color": "auto"},
			"title": map[string]any{
				"show":         true,
				"offsetCenter": []any{0.0, "-40%"},
				"color":        "#333",
				"fontSize":     15.0,
			},
			"detail": map[string]any{
				"show":         true,
				"offsetCenter": []any{0.0, "40%"},
				"color":        "auto",
				"fontSize":     30.0,
				"formatter":    "{value}",
			},
		},
		"sunburst": {
			"center":          []any{"50%", "50%"},
			"radius":          []any{0.0, "75%"},
			"clockwise":       true,
			"startAngle":      90.0,
			"nodeClick":       "rootToNode",
			"highlightPolicy": HighlightPolicyDescendant,
			"label": map[string]any{
				"rotate":   "radial",
				"show":     true,
				"opacity":  1.0,
				"align":    "center",
				"position": "inside",
				"distance": 5.0,
				"silent":   true,
			},
			"itemStyle": map[string]any{
				"borderWidth": 1.0,
				"borderColor": "white",
				"opacity":     1.0,
			},
			"emphasis":                map[string]any{"focus": "descendant"},
			"animationDurationUpdate": 500.0,
		},
	}
}
