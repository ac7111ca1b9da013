package graphic

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		r, g, b uint8
		alpha   float64
	}{
		{"#5470c6", 84, 112, 198, 1},
		{"#ABC", 170, 187, 204, 1},
		{"#00ff0080", 0, 255, 0, 128.0 / 255},
		{"#f008", 255, 0, 0, 136.0 / 255},
		{"rgb(84, 112, 198)", 84, 112, 198, 1},
		{"rgba(84,112,198,0.25)", 84, 112, 198, 0.25},
		{"rgb(100%, 0%, 50%)", 255, 0, 128, 1},
		{"rgba(300,-5,0,2)", 255, 0, 0, 1},
		{"steelblue", 70, 130, 180, 1},
		{" Red ", 255, 0, 0, 1},
		{"transparent", 0, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			c, alpha, ok := ParseColor(tc.in)
			assert.True(t, ok)
			r, g, b := c.RGB255()
			assert.Equal(t, [3]uint8{tc.r, tc.g, tc.b}, [3]uint8{r, g, b})
			assert.InDelta(t, tc.alpha, alpha, 1e-9)
		})
	}
}

func TestParseColorRejects(t *testing.T) {
	for _, in := range []string{"", "#12", "#ggg", "rgb(1,2)", "rgb(a,b,c)", "hsl(0,0%,0%)", "notacolor", "rgbx(1,2,3)"} {
		_, _, ok := ParseColor(in)
		assert.False(t, ok, in)
	}
}

func TestFormatColor(t *testing.T) {
	c := colorful.Color{R: 92.0 / 255, G: 123.0 / 255, B: 217.0 / 255}
	assert.Equal(t, "#5c7bd9", FormatColor(c, 1))
	assert.Equal(t, "rgba(92,123,217,0.5)", FormatColor(c, 0.5))
	assert.Equal(t, "rgba(0,0,0,0)", FormatColor(colorful.Color{}, 0))
}
