package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/mine-anything/internal/app"
	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/page"
	uitheme "github.com/appengine-ltd/mine-anything/internal/ui/theme"
)

const (
	wheelStep = 60.0
	toggleW   = float32(132)
	toggleH   = float32(36)
)

// pageView maps between window pixels and document coordinates. The page
// keeps its own viewport width and is scaled to fit the area.
type pageView struct {
	area  rl.Rectangle
	scale float64
}

func newPageView(area rl.Rectangle, doc *page.Document) pageView {
	v := pageView{area: area, scale: 1}
	if doc == nil || doc.ViewportWidth() <= 0 || area.Width <= 0 {
		return v
	}
	v.scale = float64(area.Width) / doc.ViewportWidth()
	if h := float64(area.Height) / v.scale; math.Abs(h-doc.ViewportHeight()) > 0.5 {
		doc.SetViewport(doc.ViewportWidth(), h)
	}
	return v
}

// toDoc converts a window point to document coordinates. ok is false
// outside the page area.
func (v pageView) toDoc(p rl.Vector2, scrollY float64) (x, y float64, ok bool) {
	if !rl.CheckCollisionPointRec(p, v.area) {
		return 0, 0, false
	}
	x = float64(p.X-v.area.X) / v.scale
	y = float64(p.Y-v.area.Y)/v.scale + scrollY
	return x, y, true
}

func (v pageView) toScreen(r game.Rect, scrollY float64) rl.Rectangle {
	return rl.NewRectangle(
		v.area.X+float32(r.X*v.scale),
		v.area.Y+float32((r.Y-scrollY)*v.scale),
		float32(r.Width*v.scale),
		float32(r.Height*v.scale),
	)
}

// visible reports whether r overlaps the page area.
func (v pageView) visible(r rl.Rectangle) bool {
	return r.Width > 0 && r.Height > 0 && rl.CheckCollisionRecs(r, v.area)
}

// toggleRect places the mining-mode switch in a corner of area.
func toggleRect(position string, area rl.Rectangle) rl.Rectangle {
	x := area.X + spaceS
	y := area.Y + area.Height - toggleH - spaceS
	switch position {
	case "top-left":
		y = area.Y + spaceS
	case "top-right":
		x = area.X + area.Width - toggleW - spaceS
		y = area.Y + spaceS
	case "bottom-right":
		x = area.X + area.Width - toggleW - spaceS
	}
	return rl.NewRectangle(x, y, toggleW, toggleH)
}

func nodeColor(n *page.Node) rl.Color {
	if c, ok := game.DominantColor(n); ok {
		r, g, b := c.Clamped().RGB255()
		return rl.NewColor(r, g, b, 255)
	}
	return rl.Fade(AppTheme.TextMuted, 0.25)
}

func (ui *gameUI) drawPage(v pageView) {
	doc := ui.rt.Document()
	rl.DrawRectangleRec(v.area, rl.NewColor(0xF4, 0xF1, 0xEA, 255))
	if doc == nil {
		drawText("No page loaded.", int32(v.area.X+spaceL), int32(v.area.Y+spaceL), typeScale.Body, AppTheme.TextMuted)
		return
	}
	scrollY := doc.ScrollY()
	st := ui.rt.Engine.Mining()
	hover := ui.rt.Controller.Hover()

	rl.BeginScissorMode(int32(v.area.X), int32(v.area.Y), int32(v.area.Width), int32(v.area.Height))
	for _, n := range doc.Nodes() {
		if n.Tag() == "html" || n.Tag() == "body" || !n.Visible() {
			continue
		}
		r := v.toScreen(n.Rect(), scrollY)
		if !v.visible(r) {
			continue
		}
		rl.DrawRectangleRec(r, nodeColor(n))
		rl.DrawRectangleLinesEx(r, 1, rl.Fade(rl.Black, 0.25))
		if text := n.Text(); text != "" && r.Height >= float32(typeScale.Small)+4 && len(n.ChildNodes()) == 0 {
			drawText(uitheme.FitText(text, typeScale.Small, int32(r.Width)-8), int32(r.X+4), int32(r.Y+3), typeScale.Small, rl.NewColor(20, 20, 20, 255))
		}
	}

	if hover != nil && hover.Attached() && (st.Target == nil || hover != st.Target) {
		rl.DrawRectangleLinesEx(v.toScreen(hover.Rect(), scrollY), 2, AppTheme.Highlight)
	}
	if st.Target != nil && st.Target.Attached() {
		r := v.toScreen(st.Target.Rect(), scrollY)
		uitheme.DrawCracks(r, st.Progress)
		edge := AppTheme.Warning
		if st.Paused {
			edge = rl.Fade(edge, 0.5)
		}
		rl.DrawRectangleLinesEx(r, 2, edge)
	}
	ui.drawMobs(v, scrollY)
	rl.EndScissorMode()

	if stage := ui.rt.HUD.WardenStage; stage > 0 {
		rl.DrawRectangleLinesEx(v.area, float32(4*stage), wardenColor(stage))
	}
}

// drawMobs marks zombie and creeper encounters on the element they stand
// on; clicking the mark strikes them.
func (ui *gameUI) drawMobs(v pageView, scrollY float64) {
	for _, enc := range ui.rt.HUD.Encounters() {
		if enc.Kind != game.SpawnZombie && enc.Kind != game.SpawnCreeper {
			continue
		}
		r, ok := ui.mobRect(v, enc, scrollY)
		if !ok {
			continue
		}
		clr := AppTheme.Mob
		label := "ZOMBIE"
		if enc.Kind == game.SpawnCreeper {
			clr = rl.NewColor(0x5D, 0xC2, 0x3C, 255)
			label = "CREEPER"
			if int(rl.GetTime()*4)%2 == 0 {
				clr = rl.White
			}
		}
		rl.DrawRectangleRec(r, clr)
		rl.DrawRectangleLinesEx(r, 2, rl.Black)
		drawText(label, int32(r.X+4), int32(r.Y+r.Height+2), typeScale.Small, AppTheme.Danger)
	}
}

func (ui *gameUI) mobRect(v pageView, enc app.Encounter, scrollY float64) (rl.Rectangle, bool) {
	if enc.Element == nil || !enc.Element.Attached() {
		return rl.Rectangle{}, false
	}
	r := v.toScreen(enc.Element.Rect(), scrollY)
	size := float32(40)
	return rl.NewRectangle(r.X+r.Width/2-size/2, r.Y+r.Height/2-size/2, size, size), true
}

func (ui *gameUI) drawToggle(rect rl.Rectangle) {
	state := buttonStateNormal
	label := "Mining OFF"
	if ui.rt.Controller.MiningEnabled() {
		state = buttonStateSelected
		label = "Mining ON"
	}
	if ui.rt.Engine.Disabled() {
		state = buttonStateDisabled
		label = "Blocked"
	}
	uitheme.DrawButton(rect, state, label)
}
