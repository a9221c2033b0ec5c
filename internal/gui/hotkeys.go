package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

type keyBinding struct {
	key  int32
	name string
}

// engineKeys are forwarded to the controller as key down/up edges. Names
// match the canonical shortcut names in settings.
var engineKeys = []keyBinding{
	{rl.KeyLeftAlt, "Alt"},
	{rl.KeyRightAlt, "Alt"},
	{rl.KeyLeftControl, "Control"},
	{rl.KeyRightControl, "Control"},
	{rl.KeyLeftShift, "Shift"},
	{rl.KeyRightShift, "Shift"},
	{rl.KeyLeftSuper, "Meta"},
	{rl.KeyRightSuper, "Meta"},
	{rl.KeyEscape, "Escape"},
}

func init() {
	for k := int32(rl.KeyA); k <= rl.KeyZ; k++ {
		engineKeys = append(engineKeys, keyBinding{k, string(rune('a' + k - rl.KeyA))})
	}
}

// keyName returns the controller name for a raylib key, or "".
func keyName(key int32) string {
	for _, b := range engineKeys {
		if b.key == key {
			return b.name
		}
	}
	return ""
}

// keyHeld reports whether any physical key bound to name is still down,
// so releasing one of two Alt keys does not end hold-to-mine.
func keyHeld(name string, down func(int32) bool) bool {
	for _, b := range engineKeys {
		if b.name == name && down(b.key) {
			return true
		}
	}
	return false
}

// pollEngineKeys forwards this frame's key edges to the controller.
// Letters and Escape are withheld while the console has focus.
func (ui *gameUI) pollEngineKeys() {
	typing := !HotkeysEnabled(ui)
	for _, b := range engineKeys {
		if typing && (len(b.name) == 1 || b.name == "Escape") {
			continue
		}
		if rl.IsKeyPressed(b.key) {
			ui.rt.Controller.KeyDown(game.KeyEvent{Key: b.name})
		} else if rl.IsKeyPressedRepeat(b.key) {
			ui.rt.Controller.KeyDown(game.KeyEvent{Key: b.name, Repeat: true})
		}
		if rl.IsKeyReleased(b.key) && !keyHeld(b.name, rl.IsKeyDown) {
			ui.rt.Controller.KeyUp(game.KeyEvent{Key: b.name})
		}
	}
}

// HotkeysEnabled is false while text entry owns the keyboard.
func HotkeysEnabled(uiState *gameUI) bool {
	if uiState == nil {
		return true
	}
	return !uiState.consoleOpen
}

func shiftDown() bool {
	return rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
}
