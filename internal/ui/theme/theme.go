package theme

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type TextDrawFunc func(text string, x, y, fontSize int32, clr rl.Color)

type TextMeasureFunc func(text string, fontSize int32) int32

var (
	textDrawFn TextDrawFunc = func(text string, x, y, fontSize int32, clr rl.Color) {
		rl.DrawText(text, x, y, fontSize, clr)
	}
	textMeasureFn TextMeasureFunc = func(text string, fontSize int32) int32 {
		return int32(rl.MeasureText(text, fontSize))
	}
)

// SetTextRenderer routes every theme label through the host's font. Nil
// arguments keep the current function.
func SetTextRenderer(draw TextDrawFunc, measure TextMeasureFunc) {
	if draw != nil {
		textDrawFn = draw
	}
	if measure != nil {
		textMeasureFn = measure
	}
}

func drawText(text string, x, y, fontSize int32, clr rl.Color) {
	textDrawFn(text, x, y, fontSize, clr)
}

func measureText(text string, fontSize int32) int32 {
	return textMeasureFn(text, fontSize)
}

// WrapText breaks text on spaces into lines no wider than maxWidth. A word
// longer than the width gets a line of its own.
func WrapText(text string, size, maxWidth int32) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measureText(candidate, size) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// FitText truncates s with an ellipsis to fit width pixels.
func FitText(s string, size, width int32) string {
	if width <= 0 {
		return ""
	}
	if measureText(s, size) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && measureText(string(r)+"...", size) > width {
		r = r[:len(r)-1]
	}
	if len(r) == 0 {
		return ""
	}
	return string(r) + "..."
}
