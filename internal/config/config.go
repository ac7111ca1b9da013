package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/chartview/internal/chart"
)

type Config struct {
	Port int `envconfig:"PORT" default:"8080"`
	// DatabaseURL selects the PostgreSQL snapshot store. Empty keeps
	// snapshots in memory.
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`

	DevMode       bool          `envconfig:"CHART_DEV_MODE" default:"false"`
	Width         float64       `envconfig:"CHART_WIDTH" default:"800"`
	Height        float64       `envconfig:"CHART_HEIGHT" default:"600"`
	FrameInterval time.Duration `envconfig:"FRAME_INTERVAL" default:"16ms"`

	LargeThreshold       int     `envconfig:"LARGE_THRESHOLD" default:"400"`
	ProgressiveThreshold int     `envconfig:"PROGRESSIVE_THRESHOLD" default:"3000"`
	ProgressiveChunk     int     `envconfig:"PROGRESSIVE_CHUNK" default:"3000"`
	LabelOverlapMargin   float64 `envconfig:"LABEL_OVERLAP_MARGIN" default:"0"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ChartOptions returns the chart options for a chart of the given size.
// Zero sizes fall back to the configured defaults.
func (c *Config) ChartOptions(width, height float64) chart.Options {
	if width <= 0 {
		width = c.Width
	}
	if height <= 0 {
		height = c.Height
	}
	return chart.Options{
		Width:   width,
		Height:  height,
		DevMode: c.DevMode,
		Thresholds: chart.Thresholds{
			Large:            c.LargeThreshold,
			Progressive:      c.ProgressiveThreshold,
			ProgressiveChunk: c.ProgressiveChunk,
		},
		LabelOverlapMargin: c.LabelOverlapMargin,
	}
}
