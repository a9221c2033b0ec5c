package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	uitheme "github.com/appengine-ltd/mine-anything/internal/ui/theme"
)

type Theme struct {
	Background    rl.Color
	Panel         rl.Color
	PanelRaised   rl.Color
	Border        rl.Color
	TextPrimary   rl.Color
	TextSecondary rl.Color
	TextMuted     rl.Color
	Accent        rl.Color
	Highlight     rl.Color
	Success       rl.Color
	Warning       rl.Color
	Danger        rl.Color
	Mob           rl.Color
}

const (
	spaceXS = uitheme.PaddingXS
	spaceS  = uitheme.PaddingS
	spaceM  = uitheme.PaddingM
	spaceL  = uitheme.PaddingL
)

var AppTheme = Theme{
	Background:    uitheme.BG,
	Panel:         uitheme.Panel,
	PanelRaised:   uitheme.PanelRaised,
	Border:        uitheme.Border,
	TextPrimary:   uitheme.TextPrimary,
	TextSecondary: uitheme.TextSecondary,
	TextMuted:     uitheme.TextMuted,
	Accent:        uitheme.AccentTorch,
	Highlight:     uitheme.AccentDiamond,
	Success:       uitheme.AccentEmerald,
	Warning:       uitheme.WarningGold,
	Danger:        uitheme.Danger,
	Mob:           rl.NewColor(0x4C, 0x9A, 0x3A, 255),
}

type ButtonState = uitheme.ButtonState

const (
	buttonStateNormal   = uitheme.ButtonNormal
	buttonStateSelected = uitheme.ButtonSelected
	buttonStateDisabled = uitheme.ButtonDisabled
)

type ListItemState = uitheme.ListItemState

const (
	listStateNormal   = uitheme.ListItemNormal
	listStateSelected = uitheme.ListItemSelected
	listStateDisabled = uitheme.ListItemDisabled
)

// DrawPanel draws a themed panel with an optional header and divider.
func DrawPanel(rect rl.Rectangle, title string, variant uitheme.PanelVariant) {
	uitheme.DrawPanel(rect, variant)
	if title != "" {
		uitheme.DrawHeader(title, int32(rect.X+spaceM), int32(rect.Y+spaceS))
		dividerY := rect.Y + spaceS + float32(typeScale.Header) + 10
		uitheme.DrawDivider(rect.X+spaceM, dividerY, rect.X+rect.Width-spaceM, dividerY)
	}
}

// panelBodyY is the first text baseline below a titled panel header.
func panelBodyY(rect rl.Rectangle) float32 {
	return rect.Y + spaceS + float32(typeScale.Header) + 18
}

// miningBarColor shades from torch orange to emerald as the block nears
// breaking; a paused session shows gold.
func miningBarColor(progress float64, paused bool) rl.Color {
	if paused {
		return AppTheme.Warning
	}
	return uitheme.Mix(AppTheme.Accent, AppTheme.Success, float32(progress))
}

// wardenColor tints the screen edge by warning stage.
func wardenColor(stage int) rl.Color {
	switch {
	case stage >= 3:
		return rl.Fade(AppTheme.Danger, 0.55)
	case stage == 2:
		return rl.Fade(uitheme.Sculk, 0.55)
	case stage == 1:
		return rl.Fade(uitheme.Sculk, 0.3)
	}
	return rl.Blank
}
