package series

import (
	"time"

	"github.com/inamate/chartview/internal/anim"
	"github.com/inamate/chartview/internal/coord"
	"github.com/inamate/chartview/internal/model"
)

// Pipeline carries the rendering mode chosen for a series.
type Pipeline struct {
	// Large selects the aggregated path.
	Large bool
	// Progressive selects chunked rendering across ticks.
	Progressive bool
	// Chunk is the number of items rendered per tick.
	Chunk int
}

// ProgressParams is the item range of one progressive chunk.
type ProgressParams struct {
	Start int
	End   int
}

// Series is a prepared series: its option model, data and coordinate system.
type Series struct {
	Type  string
	Index int
	ID    string
	Name  string

	Model    *model.Model
	CoordSys coord.System
	Pipeline Pipeline

	// Color is the series-level color from itemStyle or the palette.
	Color string

	data *Data
}

// Data returns the current data table.
func (s *Series) Data() *Data {
	return s.data
}

// SetData replaces the data table.
func (s *Series) SetData(d *Data) {
	s.data = d
}

// Get reads the series option with default fallback.
func (s *Series) Get(path ...string) any {
	return s.Model.Get(path...)
}

// GetModel returns a sub-model of the series option.
func (s *Series) GetModel(path ...string) *model.Model {
	return s.Model.GetModel(path...)
}

// IsAnimationEnabled reports whether transitions should run for this series.
// Series above animationThreshold items render without animation.
func (s *Series) IsAnimationEnabled() bool {
	if !s.Model.BoolOr(true, "animation") {
		return false
	}
	if s.Pipeline.Progressive {
		return false
	}
	threshold := s.Model.FloatOr(2000, "animationThreshold")
	return float64(s.data.Count()) <= threshold
}

// AnimationConfig returns the transition settings for the first render
// (update false) or for updates.
func (s *Series) AnimationConfig(update bool) anim.Config {
	if !s.IsAnimationEnabled() {
		return anim.Config{}
	}
	durKey, easeKey, dur := "animationDuration", "animationEasing", 1000.0
	if update {
		durKey, easeKey, dur = "animationDurationUpdate", "animationEasingUpdate", 300
	}
	return anim.Config{
		Duration: ms(s.Model.FloatOr(dur, durKey)),
		Delay:    ms(s.Model.FloatOr(0, "animationDelay")),
		Easing:   s.Model.StringOr(anim.EasingCubicOut, easeKey),
	}
}

func ms(f float64) time.Duration {
	return time.Duration(f * float64(time.Millisecond))
}
