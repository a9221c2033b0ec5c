package theme

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	PaddingXS = float32(6)
	PaddingS  = float32(10)
	PaddingM  = float32(16)
	PaddingL  = float32(24)

	CornerRadius   = float32(0.06)
	CornerSegments = int32(6)

	BorderWidth      = float32(1.2)
	BorderWidthFocus = float32(2.0)
	RowHeight        = float32(34)
	ButtonHeight     = float32(40)
	AccentStripWidth = float32(4)
)

type PanelVariant int

const (
	PanelStandard PanelVariant = iota
	PanelLifted
	PanelMuted
	PanelDanger
)

type ButtonState int

const (
	ButtonNormal ButtonState = iota
	ButtonSelected
	ButtonFocused
	ButtonDisabled
)

type ListItemState int

const (
	ListItemNormal ListItemState = iota
	ListItemSelected
	ListItemFocused
	ListItemDisabled
)

// DrawFrame paints the window border and returns the inner rectangle left
// for content.
func DrawFrame(screenW, screenH int32) rl.Rectangle {
	inner := FrameInset(screenW, screenH)
	outer := rl.NewRectangle(0, 0, float32(screenW), float32(screenH))
	if Skin.Frame.Tex.ID != 0 {
		DrawNineSlice(Skin.Frame, outer, rl.White)
		return inner
	}
	rl.DrawRectangleLinesEx(outer, float32(frameSlice), BG)
	rl.DrawRectangleLinesEx(inner, 1, rl.Fade(Border, 0.8))
	return inner
}

func DrawPanel(rect rl.Rectangle, variant PanelVariant) {
	fill := Panel
	stroke := Border
	strokeWidth := BorderWidth

	switch variant {
	case PanelLifted:
		fill = PanelRaised
		stroke = mix(Border, AccentTorch, 0.35)
		strokeWidth = 1.4
	case PanelMuted:
		fill = DisabledPanel
		stroke = rl.Fade(Border, 0.75)
	case PanelDanger:
		fill = mix(PanelRaised, Sculk, 0.6)
		stroke = Danger
		strokeWidth = BorderWidthFocus
	}

	if Skin.Panel.Tex.ID != 0 && variant != PanelDanger {
		DrawNineSlice(Skin.Panel, rect, fill)
	} else {
		rl.DrawRectangleRounded(rect, CornerRadius, CornerSegments, fill)
	}
	rl.DrawRectangleRoundedLinesEx(rect, CornerRadius, CornerSegments, strokeWidth, stroke)
}

func DrawButton(rect rl.Rectangle, state ButtonState, text string) {
	fill := Panel
	stroke := Border
	label := TextPrimary
	strokeWidth := BorderWidth

	switch state {
	case ButtonSelected, ButtonFocused:
		fill = PanelRaised
		stroke = AccentTorch
		strokeWidth = BorderWidthFocus
	case ButtonDisabled:
		fill = DisabledPanel
		stroke = rl.Fade(Border, 0.75)
		label = DisabledText
	}

	if Skin.Button.Tex.ID != 0 {
		DrawNineSlice(Skin.Button, rect, fill)
	} else {
		rl.DrawRectangleRounded(rect, CornerRadius, CornerSegments, fill)
	}
	rl.DrawRectangleRoundedLinesEx(rect, CornerRadius, CornerSegments, strokeWidth, stroke)

	if text == "" {
		return
	}
	size := Type.Body
	labelW := measureText(text, size)
	textX := int32(rect.X + (rect.Width-float32(labelW))/2)
	textY := int32(rect.Y + (rect.Height-float32(size))/2 - 1)
	drawText(text, textX, textY, size, label)
}

func DrawListItem(rect rl.Rectangle, state ListItemState, leftText, rightText string) {
	fill := rl.Fade(PanelRaised, 0.45)
	stroke := rl.Fade(Border, 0.9)
	left := TextPrimary
	right := TextSecondary
	strokeWidth := BorderWidth
	drawStrip := false

	switch state {
	case ListItemSelected, ListItemFocused:
		fill = PanelRaised
		stroke = AccentDiamond
		strokeWidth = BorderWidthFocus
		drawStrip = true
		right = AccentDiamond
	case ListItemDisabled:
		fill = DisabledPanel
		stroke = rl.Fade(Border, 0.75)
		left = DisabledText
		right = DisabledText
	}

	rl.DrawRectangleRounded(rect, CornerRadius, CornerSegments, fill)
	rl.DrawRectangleRoundedLinesEx(rect, CornerRadius, CornerSegments, strokeWidth, stroke)

	if drawStrip {
		stripRect := rl.NewRectangle(rect.X+1, rect.Y+2, AccentStripWidth, rect.Height-4)
		if stripRect.Height > 0 {
			rl.DrawRectangleRec(stripRect, AccentDiamond)
		}
	}

	textY := int32(rect.Y + (rect.Height-float32(Type.Small))/2)
	if leftText != "" {
		drawText(leftText, int32(rect.X+PaddingM), textY, Type.Small, left)
	}
	if rightText != "" {
		rightW := measureText(rightText, Type.Small)
		rightX := int32(rect.X + rect.Width - PaddingM - float32(rightW))
		drawText(rightText, rightX, textY, Type.Small, right)
	}
}

// DrawInput renders a single-line text field. The placeholder shows only
// while the field is empty and unfocused.
func DrawInput(rect rl.Rectangle, text, placeholder string, focused bool) {
	stroke := Border
	if focused {
		stroke = AccentDiamond
	}
	if Skin.Input.Tex.ID != 0 {
		DrawNineSlice(Skin.Input, rect, rl.White)
	} else {
		rl.DrawRectangleRec(rect, BG)
	}
	rl.DrawRectangleLinesEx(rect, BorderWidth, stroke)

	textY := int32(rect.Y + (rect.Height-float32(Type.Body))/2)
	x := int32(rect.X + PaddingS)
	switch {
	case text != "":
		drawText(text, x, textY, Type.Body, TextPrimary)
	case !focused && placeholder != "":
		drawText(placeholder, x, textY, Type.Body, TextMuted)
	}
	if focused && (int(rl.GetTime()*2))%2 == 0 {
		cx := float32(x + measureText(text, Type.Body) + 2)
		rl.DrawRectangleRec(rl.NewRectangle(cx, float32(textY), 2, float32(Type.Body)), AccentDiamond)
	}
}

// DrawProgress draws a horizontal bar filled to frac in [0,1].
func DrawProgress(rect rl.Rectangle, frac float32, fill rl.Color) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	rl.DrawRectangleRec(rect, rl.Fade(PanelRaised, 0.9))
	inner := rl.NewRectangle(rect.X+1, rect.Y+1, (rect.Width-2)*frac, rect.Height-2)
	if inner.Width > 0 {
		rl.DrawRectangleRec(inner, fill)
	}
	rl.DrawRectangleLinesEx(rect, 1.0, rl.Fade(Border, 0.95))
}

func DrawHeader(text string, x, y int32) {
	if text == "" {
		return
	}
	drawText(text, x, y, Type.Header, TextPrimary)
	w := measureText(text, Type.Header)
	lineW := int32(float32(w) * 0.6)
	if lineW < 44 {
		lineW = 44
	}
	drawLine(float32(x), float32(y+Type.Header+6), float32(x+lineW), float32(y+Type.Header+6), 2.0, AccentTorch)
}

func DrawDivider(x1, y1, x2, y2 float32) {
	drawLine(x1, y1, x2, y2, 1.0, rl.Fade(Divider, 0.95))
}

func DrawHintText(text string, x, y int32) {
	if text == "" {
		return
	}
	drawText(text, x, y, Type.Small, TextMuted)
}

func drawLine(x1, y1, x2, y2, thickness float32, clr rl.Color) {
	rl.DrawLineEx(rl.NewVector2(x1, y1), rl.NewVector2(x2, y2), thickness, clr)
}

func mix(a, b rl.Color, t float32) rl.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	inv := 1.0 - t
	return rl.NewColor(
		uint8(float32(a.R)*inv+float32(b.R)*t),
		uint8(float32(a.G)*inv+float32(b.G)*t),
		uint8(float32(a.B)*inv+float32(b.B)*t),
		uint8(float32(a.A)*inv+float32(b.A)*t),
	)
}

// Mix blends a toward b by t.
func Mix(a, b rl.Color, t float32) rl.Color { return mix(a, b, t) }
