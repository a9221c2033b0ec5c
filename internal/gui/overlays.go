package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/mine-anything/internal/app"
	"github.com/appengine-ltd/mine-anything/internal/game"
	uitheme "github.com/appengine-ltd/mine-anything/internal/ui/theme"
)

const (
	dialogW    = float32(460)
	choiceH    = float32(36)
	choiceGap  = float32(8)
	feedRows   = 8
	invRowGap  = float32(4)
	invTopSkip = float32(250)
)

func dialogRect(area rl.Rectangle) rl.Rectangle {
	w := dialogW
	if area.Width-2*spaceL < w {
		w = area.Width - 2*spaceL
	}
	h := float32(300)
	return rl.NewRectangle(area.X+(area.Width-w)/2, area.Y+(area.Height-h)/2, w, h)
}

// choiceRects stacks n buttons from the bottom of a dialog.
func choiceRects(n int, dialog rl.Rectangle) []rl.Rectangle {
	out := make([]rl.Rectangle, n)
	y := dialog.Y + dialog.Height - spaceM - float32(n)*choiceH - float32(max(n-1, 0))*choiceGap
	for i := range out {
		out[i] = rl.NewRectangle(dialog.X+spaceM, y, dialog.Width-2*spaceM, choiceH)
		y += choiceH + choiceGap
	}
	return out
}

func dialogTitle(kind game.SpawnKind) string {
	switch kind {
	case game.SpawnChest:
		return "Treasure Chest"
	case game.SpawnVillager:
		return "Villager"
	case game.SpawnWarden:
		return "THE WARDEN"
	case game.SpawnPet:
		return "A friend appears"
	case game.SpawnEnchantment:
		return "Enchanted Book"
	}
	return string(kind)
}

func (ui *gameUI) drawDialog(enc app.Encounter, area rl.Rectangle) {
	rect := dialogRect(area)
	rl.DrawRectangleRec(area, rl.Fade(rl.Black, 0.35))
	variant := uitheme.PanelLifted
	if enc.Kind == game.SpawnWarden {
		variant = uitheme.PanelDanger
	}
	DrawPanel(rect, dialogTitle(enc.Kind), variant)

	y := int32(panelBodyY(rect))
	for _, line := range uitheme.WrapText(enc.Message, typeScale.Body, int32(rect.Width-2*spaceM)) {
		drawText(line, int32(rect.X+spaceM), y, typeScale.Body, AppTheme.TextPrimary)
		y += textLineHeight(typeScale.Body)
	}
	if enc.Kind == game.SpawnWarden && ui.rt.Engine.Profile().DiamondSword == 0 {
		drawText("You have no Diamond Sword.", int32(rect.X+spaceM), y+4, typeScale.Small, AppTheme.Danger)
	}

	mouse := rl.GetMousePosition()
	for i, r := range choiceRects(len(app.Choices(enc)), rect) {
		state := buttonStateNormal
		if rl.CheckCollisionPointRec(mouse, r) {
			state = buttonStateSelected
		}
		uitheme.DrawButton(r, state, fmt.Sprintf("%d. %s", i+1, app.Choices(enc)[i]))
	}
}

// drawMobBanner announces zombies and creepers standing on the page.
func (ui *gameUI) drawMobBanner(area rl.Rectangle) {
	y := area.Y + spaceS
	for _, enc := range ui.rt.HUD.Encounters() {
		if enc.Kind != game.SpawnZombie && enc.Kind != game.SpawnCreeper {
			continue
		}
		text := enc.Message
		if text == "" {
			text = app.Choices(enc)[0]
		}
		w := float32(measureText(text, typeScale.Body)) + 2*spaceM
		r := rl.NewRectangle(area.X+(area.Width-w)/2, y, w, float32(typeScale.Body)+2*spaceXS)
		rl.DrawRectangleRec(r, rl.Fade(AppTheme.Danger, 0.85))
		drawText(text, int32(r.X+spaceM), int32(r.Y+spaceXS), typeScale.Body, rl.White)
		y += r.Height + spaceXS
	}
}

func (ui *gameUI) drawMiningBar(rect rl.Rectangle) {
	DrawPanel(rect, "", uitheme.PanelStandard)
	st := ui.rt.Engine.Mining()
	x := int32(rect.X + spaceM)
	label := "Hover an element and hold the mouse to mine."
	if !ui.rt.Controller.MiningEnabled() {
		label = "Hold " + shortcutLabel(ui.rt.Controller.Shortcut()) + " or press T for mining mode."
	}
	if ui.rt.Engine.Disabled() {
		label = "Mining is blocked on " + ui.rt.Host() + ". Press B to allow it."
	}
	if st.State == game.StateMining {
		label = fmt.Sprintf("Mining %s  %.0f%% of %s", describe(st.Target), st.Progress*100, formatSeconds(st.MiningTime))
		if st.Paused {
			label += "  (paused, press on it again)"
		}
	}
	drawText(uitheme.FitText(label, typeScale.Small, int32(rect.Width-2*spaceM)), x, int32(rect.Y+spaceXS), typeScale.Small, AppTheme.TextSecondary)
	bar := rl.NewRectangle(rect.X+spaceM, rect.Y+rect.Height-spaceM-14, rect.Width-2*spaceM, 14)
	uitheme.DrawProgress(bar, float32(st.Progress), miningBarColor(st.Progress, st.Paused))
}

func shortcutLabel(keys []string) string {
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "+"
		}
		out += k
	}
	if out == "" {
		return "the shortcut"
	}
	return out
}

func (ui *gameUI) drawSidebar(rect rl.Rectangle) {
	p := ui.rt.Engine.Profile()
	head := rl.NewRectangle(rect.X, rect.Y, rect.Width, invTopSkip-spaceS)
	DrawPanel(head, "MINE ANYTHING", uitheme.PanelLifted)
	x := int32(head.X + spaceM)
	y := int32(panelBodyY(head))
	width := int32(head.Width - 2*spaceM)
	for _, line := range uitheme.WrapText(app.StatusLine(p, ui.rt.Engine.Depth()), typeScale.Small, width) {
		drawText(line, x, y, typeScale.Small, AppTheme.TextPrimary)
		y += textLineHeight(typeScale.Small)
	}
	host := ui.rt.Host()
	if host == "" {
		host = "no page"
	}
	hostColor := AppTheme.TextSecondary
	if ui.rt.Engine.Disabled() {
		host += "  BLOCKED"
		hostColor = AppTheme.Danger
	}
	drawText(host, x, y, typeScale.Small, hostColor)
	y += textLineHeight(typeScale.Small)
	drawText(fmt.Sprintf("Mined here: %d   Total: %d", ui.rt.HUD.MinedOnPage, p.TotalMined), x, y, typeScale.Small, AppTheme.TextMuted)
	y += textLineHeight(typeScale.Small) + 4
	ui.drawResources(p, x, y, width)

	body := rl.NewRectangle(rect.X, rect.Y+invTopSkip, rect.Width, rect.Height-invTopSkip)
	if ui.rt.Controller.InventoryOpen() {
		ui.drawInventory(body, p)
	} else {
		ui.drawFeed(body)
	}

	if ui.status != "" {
		r := rl.NewRectangle(rect.X, rect.Y+rect.Height-choiceH, rect.Width, choiceH)
		rl.DrawRectangleRec(r, rl.Fade(AppTheme.PanelRaised, 0.95))
		drawText(uitheme.FitText(ui.status, typeScale.Small, int32(r.Width-2*spaceS)), int32(r.X+spaceS), int32(r.Y+8), typeScale.Small, AppTheme.Warning)
	}
}

// drawResources lays resource counts out in two columns, with icons when
// the asset root provides them.
func (ui *gameUI) drawResources(p *game.Profile, x, y, width int32) {
	col := width / 2
	for i, res := range game.Resources {
		cx := x + int32(i%2)*col
		cy := y + int32(i/2)*textLineHeight(typeScale.Small)
		count := p.Inventory[res.ID]
		label := fmt.Sprintf("%s: %d", res.Name, count)
		if tex, ok := ui.icons[res.ID]; ok {
			src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
			dst := rl.NewRectangle(float32(cx), float32(cy), float32(typeScale.Small), float32(typeScale.Small))
			rl.DrawTexturePro(tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
			cx += typeScale.Small + 4
		}
		drawText(label, cx, cy, typeScale.Small, AppTheme.TextSecondary)
	}
}

// inventoryRows lays out up to n action rows inside the sidebar, below
// the status panel and above the status line.
func inventoryRows(n int, side rl.Rectangle) []rl.Rectangle {
	out := make([]rl.Rectangle, 0, n)
	y := panelBodyY(rl.NewRectangle(side.X, side.Y+invTopSkip, side.Width, 0))
	for i := 0; i < n; i++ {
		r := rl.NewRectangle(side.X+spaceS, y, side.Width-2*spaceS, uitheme.RowHeight)
		if r.Y+r.Height > side.Y+side.Height-choiceH {
			break
		}
		out = append(out, r)
		y += uitheme.RowHeight + invRowGap
	}
	return out
}

func (ui *gameUI) drawInventory(body rl.Rectangle, p *game.Profile) {
	DrawPanel(body, "Inventory", uitheme.PanelStandard)
	actions := app.InventoryActions(p)
	ui.invIdx = clampInt(ui.invIdx, 0, max(0, len(actions)-1))
	side := rl.NewRectangle(body.X, body.Y-invTopSkip, body.Width, body.Height+invTopSkip)
	for i, r := range inventoryRows(len(actions), side) {
		state := listStateNormal
		switch {
		case i == ui.invIdx:
			state = listStateSelected
		case !actions[i].Ready:
			state = listStateDisabled
		}
		uitheme.DrawListItem(r, state, uitheme.FitText(actions[i].Label, typeScale.Small, int32(r.Width-2*spaceM)), "")
	}
}

func (ui *gameUI) drawFeed(body rl.Rectangle) {
	DrawPanel(body, "Events", uitheme.PanelStandard)
	x := int32(body.X + spaceM)
	y := int32(panelBodyY(body))
	msgs := ui.rt.HUD.Messages()
	if len(msgs) > feedRows {
		msgs = msgs[len(msgs)-feedRows:]
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		clr := AppTheme.TextPrimary
		switch msgs[i].Kind {
		case game.EventWardenWarning, game.EventExplosion:
			clr = AppTheme.Danger
		case game.EventAchievement, game.EventToolUpgrade, game.EventChallenge:
			clr = AppTheme.Warning
		}
		for _, line := range uitheme.WrapText(msgs[i].Text, typeScale.Small, int32(body.Width-2*spaceM)) {
			drawText(line, x, y, typeScale.Small, clr)
			y += textLineHeight(typeScale.Small)
		}
	}
	uitheme.DrawHintText("T mode  I inventory  B block  ` console", x, int32(body.Y+body.Height-choiceH-float32(typeScale.Small)-spaceXS))
}

func (ui *gameUI) drawConsole(area rl.Rectangle) {
	h := float32(len(ui.consoleOut)+1)*float32(textLineHeight(typeScale.Small)) + 2*spaceS + choiceH
	rect := rl.NewRectangle(area.X, area.Y+area.Height-h, area.Width, h)
	rl.DrawRectangleRec(rect, rl.Fade(AppTheme.Background, 0.92))
	y := int32(rect.Y + spaceS)
	for _, line := range ui.consoleOut {
		drawText(line, int32(rect.X+spaceS), y, typeScale.Small, AppTheme.TextSecondary)
		y += textLineHeight(typeScale.Small)
	}
	input := rl.NewRectangle(rect.X+spaceS, rect.Y+rect.Height-choiceH-spaceXS, rect.Width-2*spaceS, choiceH)
	uitheme.DrawInput(input, ui.console, "debug command, e.g. add-xp 50", true)
}
