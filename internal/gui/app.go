package gui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/mine-anything/internal/app"
	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/page"
	uitheme "github.com/appengine-ltd/mine-anything/internal/ui/theme"
)

const (
	feedTTL     = 6 * time.Second
	statusTTL   = 4 * time.Second
	flashTime   = 400 * time.Millisecond
	sideWidth   = float32(380)
	barHeight   = float32(64)
	consoleMax  = 160
	consoleKeep = 6
)

type AppConfig struct {
	Version   string
	Commit    string
	BuildDate string
}

type App struct {
	cfg AppConfig
	rt  *app.Runtime
}

func NewApp(cfg AppConfig, rt *app.Runtime) *App {
	return &App{cfg: cfg, rt: rt}
}

type gameUI struct {
	cfg AppConfig
	rt  *app.Runtime

	width  int32
	height int32
	quit   bool

	consoleOpen bool
	console     string
	consoleOut  []string

	invIdx     int
	status     string
	statusAt   time.Time
	flashUntil time.Time
	pagePress  bool

	icons    map[game.ResourceID]rl.Texture2D
	lastTick time.Time
}

func (a *App) Run() error {
	ui := newGameUI(a.cfg, a.rt)
	return ui.Run()
}

func newGameUI(cfg AppConfig, rt *app.Runtime) *gameUI {
	return &gameUI{
		cfg:      cfg,
		rt:       rt,
		width:    1366,
		height:   800,
		icons:    map[game.ResourceID]rl.Texture2D{},
		lastTick: time.Now(),
	}
}

func (ui *gameUI) Run() error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(ui.width, ui.height, "Mine Anything")
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)
	uitheme.InitSkin(ui.rt.Config.AssetsDir)
	initTypography(ui.rt.Config.AssetsDir)
	ui.loadIcons()
	ui.rt.Log.Infof("window open %dx%d", ui.width, ui.height)

	for !ui.quit && !rl.WindowShouldClose() {
		now := time.Now()
		delta := now.Sub(ui.lastTick)
		if delta < 0 {
			delta = 0
		}
		ui.lastTick = now

		ui.width = int32(rl.GetScreenWidth())
		ui.height = int32(rl.GetScreenHeight())

		ui.update(delta)

		rl.BeginDrawing()
		rl.ClearBackground(AppTheme.Background)
		ui.draw()
		rl.EndDrawing()
	}

	for id, tex := range ui.icons {
		rl.UnloadTexture(tex)
		delete(ui.icons, id)
	}
	shutdownTypography()
	uitheme.UnloadSkin()
	rl.CloseWindow()
	return nil
}

// loadIcons resolves resource icons through the runtime's asset root.
// Missing icons fall back to text.
func (ui *gameUI) loadIcons() {
	for _, res := range game.Resources {
		loc := game.ResolveIcon(ui.rt.Assets, ui.rt.Log, "resources", string(res.ID), "")
		if loc == "" {
			continue
		}
		if tex := rl.LoadTexture(loc); tex.ID != 0 {
			ui.icons[res.ID] = tex
		}
	}
}

type screenLayout struct {
	inner rl.Rectangle
	page  rl.Rectangle
	side  rl.Rectangle
	bar   rl.Rectangle
}

func computeLayout(w, h int32) screenLayout {
	inner := uitheme.FrameInset(w, h)
	side := sideWidth
	if inner.Width < 3*sideWidth {
		side = inner.Width / 3
	}
	pageW := inner.Width - side - spaceS
	l := screenLayout{inner: inner}
	l.page = rl.NewRectangle(inner.X, inner.Y, pageW, inner.Height-barHeight-spaceS)
	l.bar = rl.NewRectangle(inner.X, inner.Y+inner.Height-barHeight, pageW, barHeight)
	l.side = rl.NewRectangle(inner.X+pageW+spaceS, inner.Y, side, inner.Height)
	return l
}

func (ui *gameUI) update(delta time.Duration) {
	now := time.Now()
	for _, ev := range ui.rt.Step(delta) {
		if ev.Kind == game.EventExplosion {
			ui.flashUntil = now.Add(flashTime)
		}
	}
	ui.rt.HUD.Expire(ui.rt.Clock.Now(), feedTTL)
	if ui.status != "" && now.Sub(ui.statusAt) > statusTTL {
		ui.status = ""
	}

	ui.updateConsole()
	if HotkeysEnabled(ui) {
		ui.updateHotkeys()
	}
	ui.pollEngineKeys()
	ui.updateMouse(computeLayout(ui.width, ui.height))
}

func (ui *gameUI) setStatus(s string) {
	ui.status = s
	ui.statusAt = time.Now()
}

func (ui *gameUI) updateConsole() {
	if !ui.consoleOpen {
		if rl.IsKeyPressed(rl.KeyGrave) {
			ui.consoleOpen = true
			for rl.GetCharPressed() > 0 {
			}
		}
		return
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		ui.consoleOpen = false
		ui.console = ""
		return
	}
	captureTextInput(&ui.console, consoleMax)
	if !rl.IsKeyPressed(rl.KeyEnter) {
		return
	}
	line := strings.TrimSpace(ui.console)
	ui.console = ""
	if line == "" {
		return
	}
	out, err := ui.rt.Debug.Run(line)
	if err != nil {
		out = append(out, err.Error())
	}
	ui.consoleOut = append(ui.consoleOut, "> "+line)
	ui.consoleOut = append(ui.consoleOut, out...)
	if len(ui.consoleOut) > consoleKeep {
		ui.consoleOut = append([]string(nil), ui.consoleOut[len(ui.consoleOut)-consoleKeep:]...)
	}
}

func (ui *gameUI) updateHotkeys() {
	switch {
	case ctrlQ():
		ui.quit = true
		return
	case rl.IsKeyPressed(rl.KeyT):
		ui.rt.Controller.Toggle()
	case rl.IsKeyPressed(rl.KeyB):
		blocked, err := ui.rt.ToggleBlocked(context.Background())
		if err != nil {
			ui.setStatus(describeError(err))
		} else if blocked {
			ui.setStatus("Mining blocked on " + ui.rt.Host())
		} else {
			ui.setStatus("Mining allowed on " + ui.rt.Host())
		}
	}

	if enc, ok := ui.rt.HUD.Top(); ok {
		for i := 0; i < 9; i++ {
			if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
				ui.act(enc, i)
			}
		}
	}

	if ui.rt.Controller.InventoryOpen() {
		actions := app.InventoryActions(ui.rt.Engine.Profile())
		switch {
		case rl.IsKeyPressed(rl.KeyUp):
			ui.invIdx = clampInt(ui.invIdx-1, 0, max(0, len(actions)-1))
		case rl.IsKeyPressed(rl.KeyDown):
			ui.invIdx = clampInt(ui.invIdx+1, 0, max(0, len(actions)-1))
		case rl.IsKeyPressed(rl.KeyEnter):
			ui.runInventory(actions, ui.invIdx)
		}
		return
	}

	doc := ui.rt.Document()
	if doc == nil {
		return
	}
	switch {
	case rl.IsKeyPressed(rl.KeyPageDown):
		doc.ScrollBy(doc.ViewportHeight() * 0.9)
	case rl.IsKeyPressed(rl.KeyPageUp):
		doc.ScrollBy(-doc.ViewportHeight() * 0.9)
	case rl.IsKeyPressed(rl.KeyHome):
		doc.ScrollTo(0)
	case rl.IsKeyPressed(rl.KeyEnd):
		doc.ScrollTo(doc.Height())
	}
}

func ctrlQ() bool {
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
	return ctrl && rl.IsKeyPressed(rl.KeyQ)
}

func (ui *gameUI) runInventory(actions []app.InventoryAction, i int) {
	if i < 0 || i >= len(actions) {
		return
	}
	if err := actions[i].Run(ui.rt.Engine); err != nil {
		ui.setStatus(describeError(err))
		return
	}
	ui.setStatus(actions[i].Label)
}

// choiceArg maps a button index to the argument Act takes; the villager's
// trailing "No thanks" button declines.
func choiceArg(enc app.Encounter, i int) int {
	if enc.Kind == game.SpawnVillager && i == len(enc.Trades) {
		return -1
	}
	return i
}

func (ui *gameUI) act(enc app.Encounter, i int) {
	if i >= len(app.Choices(enc)) {
		return
	}
	text, err := ui.rt.Act(enc, choiceArg(enc, i))
	switch {
	case text != "":
		ui.setStatus(text)
	case err != nil:
		ui.setStatus(describeError(err))
	}
}

func (ui *gameUI) updateMouse(l screenLayout) {
	doc := ui.rt.Document()
	v := newPageView(l.page, doc)
	pos := rl.GetMousePosition()

	if doc != nil && rl.CheckCollisionPointRec(pos, l.page) {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			step := wheelStep
			if shiftDown() {
				step *= 4
			}
			doc.ScrollBy(-float64(wheel) * step)
		}
	}

	target := ui.pageTarget(v, pos)
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) && ui.pagePress {
		ui.pagePress = false
		ui.rt.Controller.MouseUp(elementOrNil(target))
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		ui.rt.Controller.MouseOver(elementOrNil(target))
		return
	}

	if ui.rt.Settings.ShowToggle && rl.CheckCollisionPointRec(pos, toggleRect(ui.rt.Settings.TogglePosition, l.page)) {
		ui.rt.Controller.Toggle()
		return
	}
	if enc, ok := ui.dialogEncounter(); ok {
		for i, r := range choiceRects(len(app.Choices(enc)), dialogRect(l.page)) {
			if rl.CheckCollisionPointRec(pos, r) {
				ui.act(enc, i)
				return
			}
		}
		if rl.CheckCollisionPointRec(pos, dialogRect(l.page)) {
			return
		}
	}
	for _, enc := range ui.rt.HUD.Encounters() {
		if doc == nil || (enc.Kind != game.SpawnZombie && enc.Kind != game.SpawnCreeper) {
			continue
		}
		if r, ok := ui.mobRect(v, enc, doc.ScrollY()); ok && rl.CheckCollisionPointRec(pos, r) {
			ui.act(enc, 0)
			return
		}
	}
	if ui.rt.Controller.InventoryOpen() {
		actions := app.InventoryActions(ui.rt.Engine.Profile())
		for i, r := range inventoryRows(len(actions), l.side) {
			if rl.CheckCollisionPointRec(pos, r) {
				ui.invIdx = i
				ui.runInventory(actions, i)
				return
			}
		}
	}
	if target == nil {
		return
	}
	ui.pagePress = true
	if err := ui.rt.Controller.MouseDown(0, elementOrNil(target)); err != nil {
		ui.setStatus(describeError(err))
	}
}

// pageTarget hit-tests the page under pos.
func (ui *gameUI) pageTarget(v pageView, pos rl.Vector2) *page.Node {
	doc := ui.rt.Document()
	if doc == nil {
		return nil
	}
	x, y, ok := v.toDoc(pos, doc.ScrollY())
	if !ok {
		return nil
	}
	return doc.ElementAt(x, y)
}

// dialogEncounter is the top encounter shown as a dialog. Mobs on the
// page are clicked directly instead.
func (ui *gameUI) dialogEncounter() (app.Encounter, bool) {
	for _, enc := range ui.rt.HUD.Encounters() {
		if enc.Kind != game.SpawnZombie && enc.Kind != game.SpawnCreeper {
			return enc, true
		}
	}
	return app.Encounter{}, false
}

func (ui *gameUI) draw() {
	l := computeLayout(ui.width, ui.height)
	uitheme.DrawFrame(ui.width, ui.height)

	v := newPageView(l.page, ui.rt.Document())
	ui.drawPage(v)
	if ui.rt.Settings.ShowToggle {
		ui.drawToggle(toggleRect(ui.rt.Settings.TogglePosition, l.page))
	}
	ui.drawMobBanner(l.page)
	if enc, ok := ui.dialogEncounter(); ok {
		ui.drawDialog(enc, l.page)
	}
	ui.drawMiningBar(l.bar)
	ui.drawSidebar(l.side)
	if ui.consoleOpen {
		ui.drawConsole(l.page)
	}
	if time.Now().Before(ui.flashUntil) {
		rl.DrawRectangleRec(l.inner, rl.Fade(AppTheme.Danger, 0.35))
	}
}

func elementOrNil(n *page.Node) game.Element {
	if n == nil {
		return nil
	}
	return n
}

func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, game.ErrNotMineable):
		return "Nothing mineable there."
	case errors.Is(err, game.ErrDisabled):
		return "Mining is blocked on this site. Press B to allow it."
	case errors.Is(err, game.ErrInsufficientResources):
		return "Not enough resources."
	}
	return err.Error()
}

func describe(el game.Element) string {
	if el == nil {
		return ""
	}
	s := "<" + el.Tag()
	if id := el.ID(); id != "" {
		s += "#" + id
	}
	s += ">"
	if t := strings.TrimSpace(el.Text()); t != "" {
		s += " " + t
	}
	return s
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func captureTextInput(target *string, maxLen int) {
	for ch := rl.GetCharPressed(); ch > 0; ch = rl.GetCharPressed() {
		if ch >= 32 && ch <= 126 && len(*target) < maxLen {
			*target += string(rune(ch))
		}
	}
	if (rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace)) && len(*target) > 0 {
		*target = (*target)[:len(*target)-1]
	}
}

func clampInt(v int, min int, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
