package game

import "strings"

// NormalizeKey turns a user-typed catalog name into its id form.
func NormalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// ForcePet makes the next completed mine spawn pet id.
func (e *Engine) ForcePet(id PetID) error {
	if _, ok := LookupPet(id); !ok {
		return ErrUnknownPet
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.debug.Pet = id
	return nil
}

// ForceEnchantment makes the next completed mine spawn an enchantment
// book; an empty id picks one at random.
func (e *Engine) ForceEnchantment(id EnchantID) error {
	if id != "" {
		if _, ok := LookupEnchantment(id); !ok {
			return ErrUnknownEnchantment
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.debug.Enchantment = true
	e.debug.EnchantmentID = id
	return nil
}

// ForceSpawn arms a creature or chest for the next completed mine.
func (e *Engine) ForceSpawn(kind SpawnKind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch kind {
	case SpawnCreeper:
		e.debug.Creeper = true
	case SpawnZombie:
		e.debug.Zombie = true
	case SpawnVillager:
		e.debug.Villager = true
	case SpawnChest:
		e.debug.Chest = true
	case SpawnWarden:
		e.debug.Warden = true
	default:
		return false
	}
	return true
}

func (e *Engine) Debug() DebugFlags {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.debug
}

func (e *Engine) ResetPets() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile.Pets = map[PetID]*PetState{}
	e.persist()
}

// AddXP grants n XP and returns the new total.
func (e *Engine) AddXP(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile.AddXP(n)
	e.recomputeTool()
	e.checkAchievements()
	e.persist()
	return e.profile.XP
}

// AddResource grants n of resource id and returns the new amount.
func (e *Engine) AddResource(id ResourceID, n int) (int, error) {
	if _, ok := LookupResource(id); !ok {
		return 0, ErrUnknownResource
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile.Inventory[id] = max(0, e.profile.Inventory[id]+n)
	e.checkAchievements()
	e.persist()
	return e.profile.Inventory[id], nil
}

func (e *Engine) ClearInventory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile.Inventory = map[ResourceID]int{}
	e.persist()
}

// AddEnchantment appends a full-durability book to the inventory.
func (e *Engine) AddEnchantment(id EnchantID) error {
	if id == EnchantHaste {
		return ErrUnknownEnchantment
	}
	if _, ok := LookupEnchantment(id); !ok {
		return ErrUnknownEnchantment
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile.addEnchantBook(id)
	e.persist()
	return nil
}

// ActivateEnchantment puts slot i on the tool. Unlike SelectEnchantment
// it never toggles off.
func (e *Engine) ActivateEnchantment(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.profile; p.ActiveEnchantIndex != nil && *p.ActiveEnchantIndex == i {
		return nil
	}
	return e.selectEnchantment(i)
}

// AddDiamonds grants n diamonds, never exceeding the diamond cap, and
// returns the new count.
func (e *Engine) AddDiamonds(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.profile
	p.Inventory[ResourceDiamond] = min(diamondInventoryCap, max(0, p.Inventory[ResourceDiamond]+n))
	e.checkAchievements()
	e.persist()
	return p.Inventory[ResourceDiamond]
}

func (e *Engine) ResetDiamonds() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile.Inventory[ResourceDiamond] = 0
	e.profile.DiamondSword = 0
	e.persist()
}

// GiveSword grants a fresh diamond sword.
func (e *Engine) GiveSword() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sword, ok := LookupItem(ItemDiamondSword); ok {
		e.profile.DiamondSword = sword.Uses
	}
	e.persist()
}
