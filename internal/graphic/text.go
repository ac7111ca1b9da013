package graphic

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// DefaultFontSize is used by text nodes without an explicit size.
const DefaultFontSize = 12

// MeasureText returns the width and height of a possibly multi-line string.
// Metrics come from the fixed 7x13 face scaled to fontSize.
func MeasureText(text string, fontSize float64) (float64, float64) {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	face := basicfont.Face7x13
	scale := fontSize / float64(face.Height)
	lines := strings.Split(text, "\n")

	var width float64
	for _, line := range lines {
		adv := font.MeasureString(face, line)
		width = max(width, float64(adv)/64*scale)
	}
	return width, float64(len(lines)) * fontSize
}

// TextRect returns the local bounding rect of a text node, offset by its
// alignment relative to the anchor at (0, 0).
func TextRect(style Style) Rect {
	w, h := MeasureText(style.Text, style.FontSize)
	r := Rect{Width: w, Height: h}
	switch style.Align {
	case "center":
		r.X = -w / 2
	case "right":
		r.X = -w
	}
	switch style.VerticalAlign {
	case "middle":
		r.Y = -h / 2
	case "bottom":
		r.Y = -h
	}
	return r
}
