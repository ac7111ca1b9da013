package graphic

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor reads a CSS color: #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(),
// rgba(), an SVG color name or "transparent". Alpha is returned separately,
// in [0, 1].
func ParseColor(s string) (colorful.Color, float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return colorful.Color{}, 0, false
	case s == "transparent":
		return colorful.Color{}, 0, true
	case s[0] == '#':
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	}
	if nc, ok := colornames.Map[s]; ok {
		return colorful.Color{R: float64(nc.R) / 255, G: float64(nc.G) / 255, B: float64(nc.B) / 255}, float64(nc.A) / 255, true
	}
	return colorful.Color{}, 0, false
}

func parseHex(x string) (colorful.Color, float64, bool) {
	var digits []uint64
	switch len(x) {
	case 3, 4:
		for i := 0; i < len(x); i++ {
			v, err := strconv.ParseUint(x[i:i+1], 16, 8)
			if err != nil {
				return colorful.Color{}, 0, false
			}
			digits = append(digits, v<<4|v)
		}
	case 6, 8:
		for i := 0; i < len(x); i += 2 {
			v, err := strconv.ParseUint(x[i:i+2], 16, 8)
			if err != nil {
				return colorful.Color{}, 0, false
			}
			digits = append(digits, v)
		}
	default:
		return colorful.Color{}, 0, false
	}
	alpha := 1.0
	if len(digits) == 4 {
		alpha = float64(digits[3]) / 255
	}
	return colorful.Color{R: float64(digits[0]) / 255, G: float64(digits[1]) / 255, B: float64(digits[2]) / 255}, alpha, true
}

func parseRGBFunc(s string) (colorful.Color, float64, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return colorful.Color{}, 0, false
	}
	name := strings.TrimSpace(s[:open])
	if name != "rgb" && name != "rgba" {
		return colorful.Color{}, 0, false
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return colorful.Color{}, 0, false
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		p := strings.TrimSpace(parts[i])
		scale := 255.0
		if strings.HasSuffix(p, "%") {
			p, scale = strings.TrimSuffix(p, "%"), 100
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		ch[i] = math.Max(0, math.Min(1, v/scale))
	}
	alpha := 1.0
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		alpha = math.Max(0, math.Min(1, v))
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, alpha, true
}

// FormatColor writes c as #rrggbb, or as rgba() when it is translucent.
func FormatColor(c colorful.Color, alpha float64) string {
	if alpha >= 1 {
		return c.Clamped().Hex()
	}
	r, g, b := c.Clamped().RGB255()
	return "rgba(" + strconv.Itoa(int(r)) + "," + strconv.Itoa(int(g)) + "," + strconv.Itoa(int(b)) + "," +
		strconv.FormatFloat(math.Max(0, alpha), 'f', -1, 64) + ")"
}
