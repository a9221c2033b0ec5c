package page

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

const (
	defaultColor      = "rgb(0, 0, 0)"
	defaultBackground = "rgba(0, 0, 0, 0)"
)

var blockTags = map[string]bool{
	"html": true, "body": true, "div": true, "p": true, "section": true, "article": true,
	"header": true, "footer": true, "aside": true, "nav": true, "main": true, "ul": true,
	"ol": true, "li": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "blockquote": true, "pre": true, "figure": true, "figcaption": true,
	"form": true, "table": true, "tr": true, "hr": true,
}

// named colors resolve the way a computed style would report them.
var namedColors = map[string]string{
	"black": "#000000", "white": "#ffffff", "red": "#ff0000", "green": "#008000",
	"lime": "#00ff00", "blue": "#0000ff", "yellow": "#ffff00", "orange": "#ffa500",
	"gold": "#ffd700", "purple": "#800080", "violet": "#ee82ee", "pink": "#ffc0cb",
	"brown": "#a52a2a", "gray": "#808080", "grey": "#808080", "silver": "#c0c0c0",
	"navy": "#000080", "teal": "#008080", "cyan": "#00ffff", "aqua": "#00ffff",
	"magenta": "#ff00ff", "maroon": "#800000", "olive": "#808000", "indigo": "#4b0082",
	"darkgray": "#a9a9a9", "lightgray": "#d3d3d3", "crimson": "#dc143c", "tan": "#d2b48c",
}

// computedColor turns a declared color into the rgb() form browsers
// report. Values it does not understand pass through unchanged.
func computedColor(v string) string {
	v = strings.TrimSpace(v)
	lower := strings.ToLower(v)
	if lower == "transparent" {
		return defaultBackground
	}
	if hex, ok := namedColors[lower]; ok {
		v = hex
	}
	if c, ok := game.ParseColor(v); ok {
		r, g, b := c.RGB255()
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	}
	return v
}

func parseDeclarations(s string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "!important"))
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

func parseLength(v string) float64 {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// computeStyle derives n's computed style from its inline declarations,
// presentational attributes and the inherited text color.
func computeStyle(n *Node, parentColor string) {
	decl := parseDeclarations(n.attrs["style"])
	st := game.Style{
		BackgroundColor: defaultBackground,
		Color:           parentColor,
		Display:         "inline",
		Position:        "static",
	}
	if blockTags[n.tag] {
		st.Display = "block"
	}
	if bg := n.attrs["bgcolor"]; bg != "" {
		st.BackgroundColor = computedColor(bg)
	}
	if c := n.attrs["color"]; c != "" && n.tag == "font" {
		st.Color = computedColor(c)
	}
	if bg, ok := decl["background"]; ok {
		if strings.Contains(bg, "gradient(") || strings.Contains(bg, "url(") {
			st.BackgroundImage = bg
		} else {
			st.BackgroundColor = computedColor(strings.Fields(bg)[0])
		}
	}
	if v, ok := decl["background-color"]; ok {
		st.BackgroundColor = computedColor(v)
	}
	if v, ok := decl["background-image"]; ok {
		st.BackgroundImage = v
	}
	if v, ok := decl["color"]; ok {
		st.Color = computedColor(v)
	}
	st.BorderColor = st.Color
	if v, ok := decl["border-color"]; ok {
		st.BorderColor = computedColor(v)
	}
	st.TextDecorationColor = st.Color
	if v, ok := decl["text-decoration-color"]; ok {
		st.TextDecorationColor = computedColor(v)
	}
	if v, ok := decl["display"]; ok {
		st.Display = strings.ToLower(v)
	}
	if v, ok := decl["position"]; ok {
		st.Position = strings.ToLower(v)
	}
	if v, ok := decl["z-index"]; ok {
		if z, err := strconv.Atoi(v); err == nil {
			st.ZIndex = z
		}
	}
	n.style = st

	n.explicitHeight = parseLength(decl["height"])
	n.explicitWidth = parseLength(decl["width"])
	if n.tag == "img" || n.tag == "iframe" {
		if n.explicitHeight == 0 {
			n.explicitHeight = parseLength(n.attrs["height"])
		}
		if n.explicitWidth == 0 {
			n.explicitWidth = parseLength(n.attrs["width"])
		}
	}
}
