package graphic

// Style holds the paint properties of a node in one display state.
type Style struct {
	Fill      string
	Stroke    string
	LineWidth float64
	Opacity   float64
	LineDash  []float64
	Decal     string

	// Text nodes only.
	Text          string
	FontSize      float64
	Align         string // left, center, right
	VerticalAlign string // top, middle, bottom
}

// DefaultStyle returns an opaque style without paint.
func DefaultStyle() Style {
	return Style{Opacity: 1}
}

// StyleOverride is a partial Style. Nil fields leave the base value in place.
type StyleOverride struct {
	Fill      *string
	Stroke    *string
	LineWidth *float64
	Opacity   *float64
}

// IsZero reports whether the override changes nothing.
func (o StyleOverride) IsZero() bool {
	return o.Fill == nil && o.Stroke == nil && o.LineWidth == nil && o.Opacity == nil
}

// Merge returns o with unset fields taken from fallback.
func (o StyleOverride) Merge(fallback StyleOverride) StyleOverride {
	if o.Fill == nil {
		o.Fill = fallback.Fill
	}
	if o.Stroke == nil {
		o.Stroke = fallback.Stroke
	}
	if o.LineWidth == nil {
		o.LineWidth = fallback.LineWidth
	}
	if o.Opacity == nil {
		o.Opacity = fallback.Opacity
	}
	return o
}

// Apply merges an override onto a copy of s.
func (s Style) Apply(o StyleOverride) Style {
	if o.Fill != nil {
		s.Fill = *o.Fill
	}
	if o.Stroke != nil {
		s.Stroke = *o.Stroke
	}
	if o.LineWidth != nil {
		s.LineWidth = *o.LineWidth
	}
	if o.Opacity != nil {
		s.Opacity = *o.Opacity
	}
	return s
}

// State is a named override record (emphasis, blur, select...).
type State struct {
	Style StyleOverride
	// Z2 replaces the default z2 lift of the state when set.
	Z2 *int
	// HoverLayer asks the renderer to draw the element on a separate layer
	// while the state is active. Used by incremental elements.
	HoverLayer bool
}

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// Num returns a pointer to f.
func Num(f float64) *float64 { return &f }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Resolved is the effective paint of a node for one frame.
type Resolved struct {
	Style Style
	Z2    int
}
