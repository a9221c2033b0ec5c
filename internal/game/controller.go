package game

import (
	"slices"
	"strings"
)

const (
	toggleHostID  = "mine-toggle-host"
	inventoryKey  = "i"
	escapeKey     = "Escape"
	primaryButton = 0
)

type KeyEvent struct {
	Key    string
	Repeat bool
	// Focus is the element holding keyboard focus, if any.
	Focus Element
}

// Controller turns raw host input into engine calls. It is driven from
// the host's event goroutine and is not safe for concurrent use.
type Controller struct {
	engine   *Engine
	notifier Notifier

	shortcut  []string
	pressed   map[string]bool
	toggled   bool
	enabled   bool
	inventory bool
	hover     Element
}

func NewController(e *Engine, shortcut []string, n Notifier) *Controller {
	c := &Controller{engine: e, notifier: n, pressed: map[string]bool{}}
	c.SetShortcut(shortcut)
	return c
}

func (c *Controller) SetShortcut(keys []string) {
	if len(keys) == 0 {
		keys = []string{"Alt"}
	}
	c.shortcut = slices.Clone(keys)
}

func (c *Controller) Shortcut() []string { return slices.Clone(c.shortcut) }

// MiningEnabled reports whether pointer presses start mining.
func (c *Controller) MiningEnabled() bool { return c.enabled }

func (c *Controller) InventoryOpen() bool { return c.inventory }

func (c *Controller) Hover() Element { return c.hover }

func (c *Controller) shortcutHeld() bool {
	for _, k := range c.shortcut {
		if !c.pressed[k] {
			return false
		}
	}
	return true
}

func (c *Controller) setEnabled(on bool) {
	if c.enabled == on {
		return
	}
	c.enabled = on
	if !on {
		c.hover = nil
	}
	c.emit(Event{Kind: EventMiningMode, Enabled: on})
}

func (c *Controller) emit(ev Event) {
	if c.notifier != nil {
		c.notifier.Notify(ev)
	}
}

func (c *Controller) KeyDown(ev KeyEvent) {
	c.pressed[ev.Key] = true
	switch {
	case strings.EqualFold(ev.Key, inventoryKey):
		if IsTyping(ev.Focus) || ev.Repeat {
			return
		}
		c.ToggleInventory()
		return
	case ev.Key == escapeKey:
		_ = c.engine.CancelMining()
		if c.inventory {
			c.ToggleInventory()
		}
		return
	}
	if ev.Repeat || c.toggled || !c.shortcutHeld() {
		return
	}
	c.setEnabled(true)
}

func (c *Controller) KeyUp(ev KeyEvent) {
	delete(c.pressed, ev.Key)
	if slices.Contains(c.shortcut, ev.Key) && !c.toggled {
		c.setEnabled(false)
	}
}

// Toggle flips persistent mining mode, as the on-page switch does.
func (c *Controller) Toggle() bool {
	c.toggled = !c.toggled
	c.setEnabled(c.toggled || c.shortcutHeld())
	return c.toggled
}

func (c *Controller) ToggleInventory() bool {
	c.inventory = !c.inventory
	c.emit(Event{Kind: EventInventory, Enabled: c.inventory})
	return c.inventory
}

// MouseDown starts mining the element under the pointer, or resumes the
// paused session when the press lands on its element.
func (c *Controller) MouseDown(button int, target Element) error {
	if button != primaryButton || !c.enabled || onToggleHost(target) {
		return nil
	}
	if st := c.engine.Mining(); st.State == StateMining {
		if !c.engine.ResumeMining(target) {
			return ErrNotIdle
		}
		return nil
	}
	el := FindMineable(target)
	if el == nil {
		return ErrNotMineable
	}
	return c.engine.StartMining(el)
}

func (c *Controller) MouseUp(target Element) {
	if c.engine.Mining().State != StateMining {
		return
	}
	_ = c.engine.ReleaseMining(target)
}

// MouseOver updates the hover highlight and returns the element that a
// press would mine.
func (c *Controller) MouseOver(target Element) Element {
	if !c.enabled || onToggleHost(target) {
		c.hover = nil
		return nil
	}
	c.hover = FindMineable(target)
	return c.hover
}

// ShouldSwallow reports whether a click, auxclick or contextmenu on
// target must be suppressed so the page does not react to it.
func (c *Controller) ShouldSwallow(target Element) bool {
	if onToggleHost(target) {
		return false
	}
	return c.enabled || c.shortcutHeld() || c.engine.Mining().State == StateMining
}

func onToggleHost(el Element) bool {
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur.ID() == toggleHostID {
			return true
		}
	}
	return false
}

var typingTagHints = []string{"input", "search", "text", "composer", "editor"}

// IsTyping reports whether focus sits in something that accepts text.
func IsTyping(el Element) bool {
	if el == nil {
		return false
	}
	tag := strings.ToLower(el.Tag())
	switch tag {
	case "input", "textarea", "select":
		return true
	}
	if strings.EqualFold(el.Attr("contenteditable"), "true") {
		return true
	}
	switch el.Attr("role") {
	case "textbox", "searchbox", "search":
		return true
	}
	for _, hint := range typingTagHints {
		if strings.Contains(tag, hint) {
			return true
		}
	}
	return strings.HasPrefix(tag, "shreddit-") || strings.HasPrefix(tag, "faceplate-")
}
