package theme

import (
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CrackStages is the number of block-breaking overlay frames.
const CrackStages = 10

// Skin holds loaded textures. Zero-value slots draw flat fallbacks, so the
// HUD works without an assets directory.
var Skin skinAssets

type skinAssets struct {
	Frame  NineSlice
	Panel  NineSlice
	Button NineSlice
	Input  NineSlice
	Cracks [CrackStages]rl.Texture2D

	loaded bool
}

const (
	frameSlice  = int32(10)
	panelSlice  = int32(8)
	buttonSlice = int32(8)
	inputSlice  = int32(6)
)

// InitSkin loads textures from root/ui and root/blocks. Call once after
// rl.InitWindow.
func InitSkin(root string) {
	if Skin.loaded {
		return
	}
	Skin.loaded = true
	if root == "" {
		root = "assets"
	}
	ui := filepath.Join(root, "ui")
	Skin.Frame = loadNineSlice(filepath.Join(ui, "frame_stone.png"), frameSlice)
	Skin.Panel = loadNineSlice(filepath.Join(ui, "panel_9slice.png"), panelSlice)
	Skin.Button = loadNineSlice(filepath.Join(ui, "button_9slice.png"), buttonSlice)
	Skin.Input = loadNineSlice(filepath.Join(ui, "input_9slice.png"), inputSlice)
	for i := range Skin.Cracks {
		Skin.Cracks[i] = loadTexture(filepath.Join(root, "blocks", fmt.Sprintf("destroy_stage_%d.png", i)))
	}
}

// UnloadSkin releases GPU texture memory. Call before rl.CloseWindow.
func UnloadSkin() {
	unloadTex(&Skin.Frame.Tex)
	unloadTex(&Skin.Panel.Tex)
	unloadTex(&Skin.Button.Tex)
	unloadTex(&Skin.Input.Tex)
	for i := range Skin.Cracks {
		unloadTex(&Skin.Cracks[i])
	}
	Skin.loaded = false
}

// FrameInset returns the area inside the window border.
func FrameInset(screenW, screenH int32) rl.Rectangle {
	m := float32(frameSlice)
	return rl.NewRectangle(m, m, float32(screenW)-m*2, float32(screenH)-m*2)
}

// CrackStage maps mining progress to a break-overlay frame, or -1 before
// the first crack.
func CrackStage(progress float64) int {
	if progress <= 0 {
		return -1
	}
	stage := int(progress * CrackStages)
	if stage >= CrackStages {
		stage = CrackStages - 1
	}
	return stage
}

// DrawCracks overlays the break texture for progress on rect, or crossing
// lines when the stage texture is missing.
func DrawCracks(rect rl.Rectangle, progress float64) {
	stage := CrackStage(progress)
	if stage < 0 {
		return
	}
	if tex := Skin.Cracks[stage]; tex.ID != 0 {
		src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
		rl.DrawTexturePro(tex, src, rect, rl.NewVector2(0, 0), 0, rl.White)
		return
	}
	cx, cy := rect.X+rect.Width/2, rect.Y+rect.Height/2
	reach := rect.Width
	if rect.Height < reach {
		reach = rect.Height
	}
	reach *= 0.45
	for i := 0; i <= stage; i++ {
		dx := reach * float32((i%3)+1) / 3
		dy := reach * float32(((i+1)%3)+1) / 3
		if i%2 == 1 {
			dx = -dx
		}
		if i%4 >= 2 {
			dy = -dy
		}
		drawLine(cx, cy, cx+dx, cy+dy, 1.5, rl.Fade(rl.Black, 0.8))
	}
}

func loadNineSlice(path string, inset int32) NineSlice {
	return NineSlice{Tex: loadTexture(path), Left: inset, Right: inset, Top: inset, Bottom: inset}
}

func loadTexture(path string) rl.Texture2D {
	if _, err := os.Stat(path); err != nil {
		return rl.Texture2D{}
	}
	tex := rl.LoadTexture(path)
	if tex.ID != 0 {
		rl.SetTextureFilter(tex, rl.FilterPoint)
	}
	return tex
}

func unloadTex(t *rl.Texture2D) {
	if t != nil && t.ID != 0 {
		rl.UnloadTexture(*t)
		*t = rl.Texture2D{}
	}
}
