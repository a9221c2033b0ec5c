package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/page"
	"github.com/appengine-ltd/mine-anything/internal/snapshot"
)

// renderMinimapANSI draws the page as half-block characters, two pixel
// rows per text row.
func renderMinimapANSI(doc *page.Document, target game.Element, progress float64, widthChars, heightRows int) string {
	if doc == nil || widthChars < 8 || heightRows < 4 {
		return ""
	}
	widthChars = clampInt(widthChars, 8, 60)
	heightRows = clampInt(heightRows, 4, 80)

	img := snapshot.Render(doc, snapshot.Options{
		Width:    widthChars,
		Height:   heightRows * 2,
		Target:   target,
		Progress: progress,
		Viewport: true,
	})
	return rgbaImageToANSIHalfBlocks(img)
}

func rgbaImageToANSIHalfBlocks(img image.Image) string {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return ""
	}

	var out strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			tr, tg, tb, ta := rgba8(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			br, bg, bb, ba := uint8(0), uint8(0), uint8(0), uint8(0)
			if y+1 < height {
				br, bg, bb, ba = rgba8(img.At(bounds.Min.X+x, bounds.Min.Y+y+1))
			}

			if ta < 8 && ba < 8 {
				out.WriteByte(' ')
				continue
			}

			out.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb))
		}
		out.WriteString("\x1b[0m\n")
	}
	return out.String()
}

func rgba8(c color.Color) (r, g, b, a uint8) {
	r16, g16, b16, a16 := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8), uint8(a16 >> 8)
}
