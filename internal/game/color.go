package game

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSL is a color in integer degrees and percent, the resolution the
// resource ranges are declared at.
type HSL struct {
	H, S, L int
}

func ToHSL(c colorful.Color) HSL {
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSL{
		H: int(math.Round(h)),
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// Contains reports whether c falls inside r. All bounds are inclusive and
// the hue check wraps when HueMin > HueMax.
func (r HSLRange) Contains(c HSL) bool {
	if c.S < r.SatMin || c.S > r.SatMax {
		return false
	}
	if c.L < r.LightMin || c.L > r.LightMax {
		return false
	}
	if r.HueMin > r.HueMax {
		return c.H >= r.HueMin || c.H <= r.HueMax
	}
	return c.H >= r.HueMin && c.H <= r.HueMax
}

var (
	rgbPattern     = regexp.MustCompile(`rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)
	hexPattern     = regexp.MustCompile(`#([0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	digitsPattern  = regexp.MustCompile(`\d+`)
	transparentRGB = regexp.MustCompile(`^rgba\(\s*0\s*,\s*0\s*,\s*0\s*,\s*0\s*\)$`)
)

// colorSet reports whether a computed color value carries a visible color.
func colorSet(v string) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	return v != "" && v != "transparent" && v != "none" && !transparentRGB.MatchString(v)
}

// ParseColor accepts the computed-style forms the engine sees: #rgb,
// #rrggbb, rgb() and rgba(). Alpha is ignored.
func ParseColor(v string) (colorful.Color, bool) {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return colorful.Color{}, false
		}
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	}
	if strings.HasPrefix(strings.ToLower(v), "rgb") {
		parts := digitsPattern.FindAllString(v, 3)
		if len(parts) < 3 {
			return colorful.Color{}, false
		}
		var rgb [3]uint8
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return colorful.Color{}, false
			}
			rgb[i] = uint8(min(n, 255))
		}
		return colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}, true
	}
	return colorful.Color{}, false
}

// gradientColor returns the first color stop of a CSS gradient.
func gradientColor(image string) (colorful.Color, bool) {
	if m := rgbPattern.FindString(image); m != "" {
		return ParseColor(m)
	}
	if m := hexPattern.FindString(image); m != "" {
		return ParseColor(m)
	}
	return colorful.Color{}, false
}

const colorAncestorDepth = 3

// DominantColor picks one representative color for el by walking a fixed
// fallback chain: background, gradient stop, text decoration and text
// color (textual elements) or border (visual elements), ancestor
// backgrounds, then the text color.
func DominantColor(el Element) (colorful.Color, bool) {
	st := el.Style()
	if colorSet(st.BackgroundColor) {
		if c, ok := ParseColor(st.BackgroundColor); ok {
			return c, true
		}
	}
	if colorSet(st.BackgroundImage) {
		if c, ok := gradientColor(st.BackgroundImage); ok {
			return c, true
		}
	}
	if IsTextual(el) {
		if colorSet(st.TextDecorationColor) && !strings.EqualFold(st.TextDecorationColor, "currentcolor") {
			if c, ok := ParseColor(st.TextDecorationColor); ok {
				return c, true
			}
		}
		if colorSet(st.Color) {
			if c, ok := ParseColor(st.Color); ok {
				return c, true
			}
		}
	} else if colorSet(st.BorderColor) {
		if c, ok := ParseColor(st.BorderColor); ok {
			return c, true
		}
	}

	parent := el.Parent()
	for depth := 0; parent != nil && depth < colorAncestorDepth; depth++ {
		if bg := parent.Style().BackgroundColor; colorSet(bg) {
			if c, ok := ParseColor(bg); ok {
				return c, true
			}
		}
		parent = parent.Parent()
	}

	if colorSet(st.Color) {
		return ParseColor(st.Color)
	}
	return colorful.Color{}, false
}
