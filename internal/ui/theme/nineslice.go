package theme

import rl "github.com/gen2brain/raylib-go/raylib"

// NineSlice is a scalable texture whose corners keep their source size.
// Insets are in source pixels.
type NineSlice struct {
	Tex    rl.Texture2D
	Left   int32
	Right  int32
	Top    int32
	Bottom int32
}

// DrawNineSlice renders ns into dest. Without a texture it fills dest with a
// faded tint.
func DrawNineSlice(ns NineSlice, dest rl.Rectangle, tint rl.Color) {
	if ns.Tex.ID == 0 {
		rl.DrawRectangleRec(dest, rl.Fade(tint, 0.35))
		return
	}
	info := rl.NPatchInfo{
		Source: rl.NewRectangle(0, 0, float32(ns.Tex.Width), float32(ns.Tex.Height)),
		Left:   ns.Left,
		Top:    ns.Top,
		Right:  ns.Right,
		Bottom: ns.Bottom,
		Layout: rl.NPatchNinePatch,
	}
	rl.DrawTextureNPatch(ns.Tex, info, dest, rl.NewVector2(0, 0), 0, tint)
}
