// Package assets writes the placeholder textures the window host loads:
// nine-slice UI skin, block-breaking stages and resource icons. Replace
// any file with real art of the same slice size.
package assets

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

const (
	iconSize   = 16
	crackSize  = 16
	crackCount = 10
)

type skinTexture struct {
	name   string
	size   int
	slice  int
	border color.RGBA
	centre color.RGBA
}

var skin = []skinTexture{
	// Cobblestone border around the playfield.
	{"frame_stone.png", 64, 10, color.RGBA{0x55, 0x57, 0x5C, 0xFF}, color.RGBA{0x12, 0x13, 0x16, 0xFF}},
	{"panel_9slice.png", 48, 8, color.RGBA{0x3B, 0x3F, 0x46, 0xFF}, color.RGBA{0x1E, 0x20, 0x24, 0xFF}},
	// Oak plank buttons.
	{"button_9slice.png", 32, 8, color.RGBA{0x6B, 0x51, 0x2F, 0xFF}, color.RGBA{0x2A, 0x2D, 0x33, 0xFF}},
	{"input_9slice.png", 24, 6, color.RGBA{0x3B, 0x3F, 0x46, 0xFF}, color.RGBA{0x0C, 0x0D, 0x0F, 0xFF}},
}

// Generate writes every placeholder under root and returns the paths
// written.
func Generate(root string) ([]string, error) {
	var written []string
	for _, dir := range []string{"ui", "blocks", "resources"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	for _, s := range skin {
		path := filepath.Join(root, "ui", s.name)
		if err := gg.SavePNG(path, drawSkin(s).Image()); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	for i := 0; i < crackCount; i++ {
		path := filepath.Join(root, "blocks", fmt.Sprintf("destroy_stage_%d.png", i))
		if err := gg.SavePNG(path, drawCrackStage(i).Image()); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	for _, r := range game.Resources {
		path := filepath.Join(root, "resources", string(r.ID)+".png")
		if err := gg.SavePNG(path, drawOre(ResourceColor(r)).Image()); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// drawSkin paints a bevelled border of slice pixels around a flat centre.
func drawSkin(s skinTexture) *gg.Context {
	dc := gg.NewContext(s.size, s.size)
	dc.SetColor(s.border)
	dc.Clear()
	n := float64(s.size)
	sl := float64(s.slice)
	dc.SetColor(color.RGBA{0xFF, 0xFF, 0xFF, 0x30})
	dc.DrawRectangle(0, 0, n, 2)
	dc.DrawRectangle(0, 0, 2, n)
	dc.Fill()
	dc.SetColor(color.RGBA{0x00, 0x00, 0x00, 0x50})
	dc.DrawRectangle(0, n-2, n, 2)
	dc.DrawRectangle(n-2, 0, 2, n)
	dc.Fill()
	dc.SetColor(s.centre)
	dc.DrawRectangle(sl, sl, n-2*sl, n-2*sl)
	dc.Fill()
	return dc
}

// drawCrackStage draws stage+1 crack branches on a transparent tile.
func drawCrackStage(stage int) *gg.Context {
	dc := gg.NewContext(crackSize, crackSize)
	c := float64(crackSize) / 2
	dc.SetColor(color.RGBA{0x10, 0x10, 0x10, 0xDC})
	dc.SetLineWidth(1)
	for i := 0; i <= stage; i++ {
		a := float64(i) * 2 * math.Pi * 0.382
		reach := c * (0.5 + 0.5*float64(i+1)/crackCount)
		dc.MoveTo(c, c)
		dc.LineTo(c+math.Cos(a+0.4)*reach*0.5, c+math.Sin(a+0.4)*reach*0.5)
		dc.LineTo(c+math.Cos(a)*reach, c+math.Sin(a)*reach)
		dc.Stroke()
	}
	return dc
}

// drawOre speckles a stone tile with the resource color.
func drawOre(ore colorful.Color) *gg.Context {
	dc := gg.NewContext(iconSize, iconSize)
	dc.SetRGB255(0x7F, 0x7F, 0x7F)
	dc.Clear()
	r, g, b := ore.Clamped().RGB255()
	dc.SetRGB255(int(r), int(g), int(b))
	for _, p := range [][2]float64{{3, 3}, {10, 4}, {6, 8}, {12, 11}, {4, 12}} {
		dc.DrawRectangle(p[0], p[1], 3, 3)
	}
	dc.Fill()
	return dc
}

// ResourceColor is the centre of the resource's HSL classification band.
func ResourceColor(r game.Resource) colorful.Color {
	hue := float64(r.Range.HueMin+r.Range.HueMax) / 2
	if r.Range.HueMin > r.Range.HueMax {
		hue = math.Mod(float64(r.Range.HueMin+r.Range.HueMax+360)/2, 360)
	}
	sat := float64(r.Range.SatMin+r.Range.SatMax) / 200
	light := float64(r.Range.LightMin+r.Range.LightMax) / 200
	return colorful.Hsl(hue, sat, light)
}
