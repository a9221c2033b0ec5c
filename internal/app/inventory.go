package app

import (
	"fmt"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

// InventoryAction is one selectable row of the inventory panel.
type InventoryAction struct {
	Label string
	// Ready is false when the player cannot afford or use it right now.
	Ready bool
	run   func(*game.Engine) error
}

func (a InventoryAction) Run(e *game.Engine) error {
	if a.run == nil {
		return game.ErrNothingToUse
	}
	return a.run(e)
}

func affordable(p *game.Profile, recipe []game.Ingredient) bool {
	for _, in := range recipe {
		if p.Inventory[in.Resource] < in.Amount {
			return false
		}
	}
	return true
}

func recipeText(recipe []game.Ingredient) string {
	out := ""
	for i, in := range recipe {
		if i > 0 {
			out += ", "
		}
		name := string(in.Resource)
		if res, ok := game.LookupResource(in.Resource); ok {
			name = res.Name
		}
		out += fmt.Sprintf("%d %s", in.Amount, name)
	}
	return out
}

// InventoryActions lists craft, use and enchantment rows for p.
func InventoryActions(p *game.Profile) []InventoryAction {
	var out []InventoryAction
	for _, it := range game.Items {
		id := it.ID
		out = append(out, InventoryAction{
			Label: fmt.Sprintf("Craft %s (%s): %s", it.Name, recipeText(it.Recipe), it.Description),
			Ready: affordable(p, it.Recipe),
			run:   func(e *game.Engine) error { return e.Craft(id) },
		})
	}
	for _, it := range game.Items {
		n := p.CraftedItems[it.ID]
		if n <= 0 || it.ID == game.ItemDiamondSword {
			continue
		}
		id := it.ID
		out = append(out, InventoryAction{
			Label: fmt.Sprintf("Use %s (x%d)", it.Name, n),
			Ready: true,
			run:   func(e *game.Engine) error { return e.UseItem(id) },
		})
	}
	active := -1
	if p.ActiveEnchantIndex != nil {
		active = *p.ActiveEnchantIndex
	}
	for i, slot := range p.EnchantInventory {
		name := string(slot.Type)
		if def, ok := game.LookupEnchantment(slot.Type); ok {
			name = def.Name
		}
		// Selecting the active slot takes the enchantment off the tool.
		label := fmt.Sprintf("Apply %s %d/%d", name, slot.Durability, slot.MaxDurability)
		if i == active {
			label = fmt.Sprintf("Remove %s %d/%d ⚡ ACTIVE", name, slot.Durability, slot.MaxDurability)
		}
		idx := i
		out = append(out, InventoryAction{
			Label: label,
			Ready: true,
			run:   func(e *game.Engine) error { return e.SelectEnchantment(idx) },
		})
	}
	return out
}

// ResourceLines renders the resource counts, one per catalog entry.
func ResourceLines(p *game.Profile) []string {
	out := make([]string, 0, len(game.Resources))
	for _, r := range game.Resources {
		out = append(out, fmt.Sprintf("%s %s: %d", r.Icon, r.Name, p.Inventory[r.ID]))
	}
	return out
}

// StatusLine summarises tool, XP and the progress to the next tool.
func StatusLine(p *game.Profile, d game.Depth) string {
	tool, _ := game.LookupTool(p.CurrentTool)
	line := fmt.Sprintf("%s %s | XP %d | Y=%d %s", tool.Icon, tool.Name, p.XP, d.YCoord, d.Name)
	if next := game.ToolIndex(p.CurrentTool) + 1; next < len(game.Tools) {
		line += fmt.Sprintf(" | next %s at %d XP", game.Tools[next].Name, game.Tools[next].XPRequired)
	}
	if p.DiamondSword > 0 {
		line += fmt.Sprintf(" | 🗡️ %d", p.DiamondSword)
	}
	return line
}
