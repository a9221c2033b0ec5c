package gui

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	uitheme "github.com/appengine-ltd/mine-anything/internal/ui/theme"
)

type typographyScale struct {
	Title  int32
	Header int32
	Body   int32
	Small  int32
}

type typographyState struct {
	base       rl.Font
	ownsBase   bool
	lineFactor float32
}

var (
	typeScale = typographyScale{
		Title:  uitheme.Type.Title,
		Header: uitheme.Type.Header,
		Body:   uitheme.Type.Body,
		Small:  uitheme.Type.Small,
	}
	uiType = typographyState{lineFactor: uitheme.Type.LineFactor}
)

func initTypography(assetsDir string) {
	uiType.base = rl.GetFontDefault()
	if assetsDir == "" {
		assetsDir = "assets"
	}
	fontCandidates := []string{
		filepath.Join(assetsDir, "fonts", "NotoSans-Regular.ttf"),
		filepath.Join(assetsDir, "fonts", "Inter-Regular.ttf"),
		filepath.Join(assetsDir, "fonts", "Minecraftia-Regular.ttf"),
	}
	if f, ok := loadFontFromCandidates(fontCandidates, 36); ok {
		uiType.base = f
		uiType.ownsBase = true
	}

	rl.SetTextureFilter(uiType.base.Texture, rl.FilterBilinear)
	uitheme.SetTextRenderer(drawText, measureText)
}

func shutdownTypography() {
	if uiType.ownsBase && uiType.base.Texture.ID != 0 {
		rl.UnloadFont(uiType.base)
	}
	uiType = typographyState{lineFactor: uitheme.Type.LineFactor}
}

func loadFontFromCandidates(candidates []string, fontSize int32) (rl.Font, bool) {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		font := rl.LoadFontEx(path, fontSize, nil, 0)
		if font.Texture.ID == 0 {
			continue
		}
		return font, true
	}
	return rl.Font{}, false
}

func drawText(text string, x, y, fontSize int32, clr rl.Color) {
	text = plainText(text)
	if uiType.base.Texture.ID == 0 {
		rl.DrawText(text, x, y, fontSize, clr)
		return
	}
	rl.DrawTextEx(uiType.base, text, rl.Vector2{X: float32(x), Y: float32(y)}, float32(fontSize), 1, clr)
}

func measureText(text string, fontSize int32) int32 {
	text = plainText(text)
	if uiType.base.Texture.ID == 0 {
		return int32(rl.MeasureText(text, fontSize))
	}
	return int32(math.Round(float64(rl.MeasureTextEx(uiType.base, text, float32(fontSize), 1).X)))
}

func textLineHeight(size int32) int32 {
	if size < 1 {
		size = 1
	}
	return int32(math.Round(float64(size) * float64(uiType.lineFactor)))
}

// plainText drops pictographs the bundled fonts cannot draw, along with
// the space that followed them.
func plainText(s string) string {
	if strings.IndexFunc(s, pictograph) < 0 {
		return s
	}
	var b strings.Builder
	skipSpace := false
	for _, r := range s {
		if pictograph(r) {
			skipSpace = true
			continue
		}
		if skipSpace && r == ' ' {
			skipSpace = false
			continue
		}
		skipSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func pictograph(r rune) bool {
	return r >= 0x2190 || r == 0x200D
}
