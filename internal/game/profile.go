package game

import "time"

// Profile is the persisted save record. JSON names match the stored
// playerData record so existing saves decode unchanged.
type Profile struct {
	TotalMined          int                       `json:"totalMined"`
	XP                  int                       `json:"xp"`
	CurrentTool         ToolID                    `json:"currentTool"`
	HighestToolUnlocked ToolID                    `json:"highestToolUnlocked"`
	Inventory           map[ResourceID]int        `json:"inventory"`
	Pets                map[PetID]*PetState       `json:"pets"`
	Enchantments        map[EnchantID]int         `json:"enchantments"`
	EnchantInventory    []EnchantSlot             `json:"enchantmentInventory"`
	ActiveEnchantIndex  *int                      `json:"activeEnchantmentIndex"`
	ToolEnchantment     *EnchantID                `json:"toolEnchantment"`
	SafeZone            *MineCounter              `json:"safeZone,omitempty"`
	XPBoost             *XPBoost                  `json:"xpBoost,omitempty"`
	DoubleDrops         *MineCounter              `json:"doubleDrops,omitempty"`
	HasteEffect         *MineCounter              `json:"hasteEffect,omitempty"`
	ZombieSlowdown      *Timed                    `json:"zombieSlowdown,omitempty"`
	DiamondSword        int                       `json:"diamond_sword"`
	UnbreakingUses      int                       `json:"unbreakingUses"`
	Achievements        map[AchievementID]bool    `json:"achievements"`
	DailyChallenges     DailyChallengeState       `json:"dailyChallenges"`
	CraftedItems        map[ItemID]int            `json:"craftedItems"`
	DeepMiningCount     int                       `json:"deepMiningCount"`
	ChallengesCompleted int                       `json:"challengesCompleted"`
	CatDeflections      int                       `json:"catDeflections"`
	GuaranteedChest     bool                      `json:"guaranteedChestSpawn,omitempty"`
}

type PetState struct {
	Count     int  `json:"count"`
	Collected bool `json:"collected"`
	Uses      int  `json:"uses"`
}

type EnchantSlot struct {
	Type          EnchantID `json:"type"`
	Durability    int       `json:"durability"`
	MaxDurability int       `json:"maxDurability"`
}

type MineCounter struct {
	RemainingMines int `json:"remainingMines"`
}

// XPBoost.EndTime is a unix millisecond timestamp.
type XPBoost struct {
	EndTime    int64   `json:"endTime"`
	Multiplier float64 `json:"multiplier"`
}

// Timed.EndTime is a unix millisecond timestamp.
type Timed struct {
	EndTime int64 `json:"endTime"`
}

type DailyChallengeState struct {
	LastReset     string      `json:"lastReset"`
	NextResetTime int64       `json:"nextResetTime"`
	Challenges    []Challenge `json:"challenges"`
	Completed     []string    `json:"completed"`
}

type Challenge struct {
	ID        string `json:"id"`
	Target    int    `json:"target"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

func NewProfile() *Profile {
	p := &Profile{
		CurrentTool:         ToolHand,
		HighestToolUnlocked: ToolHand,
	}
	p.ensureMaps()
	return p
}

func (p *Profile) ensureMaps() {
	if p.Inventory == nil {
		p.Inventory = map[ResourceID]int{}
	}
	if p.Pets == nil {
		p.Pets = map[PetID]*PetState{}
	}
	if p.Enchantments == nil {
		p.Enchantments = map[EnchantID]int{}
	}
	if p.Achievements == nil {
		p.Achievements = map[AchievementID]bool{}
	}
	if p.CraftedItems == nil {
		p.CraftedItems = map[ItemID]int{}
	}
	if p.DailyChallenges.Completed == nil {
		p.DailyChallenges.Completed = []string{}
	}
}

// Normalize repairs invariant violations in place by clamping. It never
// fails: a normalized profile is always savable.
func (p *Profile) Normalize() {
	p.ensureMaps()
	p.TotalMined = max(0, p.TotalMined)
	p.enforceXPFloor()
	for k, v := range p.Inventory {
		p.Inventory[k] = max(0, v)
	}
	for k, v := range p.CraftedItems {
		p.CraftedItems[k] = max(0, v)
	}
	for id, ps := range p.Pets {
		if ps == nil {
			delete(p.Pets, id)
			continue
		}
		ps.Count = max(0, ps.Count)
		ps.Uses = max(0, ps.Uses)
	}
	p.DiamondSword = max(0, p.DiamondSword)
	p.UnbreakingUses = max(0, p.UnbreakingUses)
	p.DeepMiningCount = max(0, p.DeepMiningCount)
	p.ChallengesCompleted = max(0, p.ChallengesCompleted)
	p.CatDeflections = max(0, p.CatDeflections)
	if _, ok := LookupTool(p.CurrentTool); !ok {
		p.CurrentTool = ToolHand
	}
	if _, ok := LookupTool(p.HighestToolUnlocked); !ok {
		p.HighestToolUnlocked = p.CurrentTool
	}

	kept := p.EnchantInventory[:0]
	for _, slot := range p.EnchantInventory {
		if slot.Durability > 0 {
			kept = append(kept, slot)
		}
	}
	if len(kept) != len(p.EnchantInventory) {
		// Indices shifted; the active slot cannot be trusted.
		p.ActiveEnchantIndex = nil
	}
	p.EnchantInventory = kept
	if p.ActiveEnchantIndex != nil && (*p.ActiveEnchantIndex < 0 || *p.ActiveEnchantIndex >= len(p.EnchantInventory)) {
		p.ActiveEnchantIndex = nil
	}
	p.syncToolEnchantment()
}

// enforceXPFloor keeps XP at or above the number of mined elements.
func (p *Profile) enforceXPFloor() {
	if p.XP < p.TotalMined {
		p.XP = p.TotalMined
	}
}

// AddXP applies delta (which may be negative) and re-applies the XP floor.
func (p *Profile) AddXP(delta int) {
	p.XP += delta
	if p.XP < 0 {
		p.XP = 0
	}
	p.enforceXPFloor()
}

func (p *Profile) pet(id PetID) *PetState {
	ps, ok := p.Pets[id]
	if !ok || ps == nil {
		ps = &PetState{}
		p.Pets[id] = ps
	}
	return ps
}

func (p *Profile) petActive(id PetID) bool {
	ps, ok := p.Pets[id]
	return ok && ps != nil && ps.Collected
}

// usePet consumes one use of an active pet. It returns false when the pet
// is inactive or spent, and left=true when this use hit the usage limit.
func (p *Profile) usePet(id PetID) (used, left bool) {
	def, ok := LookupPet(id)
	if !ok || !p.petActive(id) {
		return false, false
	}
	ps := p.Pets[id]
	if ps.Uses >= def.UsageLimit {
		ps.Collected = false
		return false, true
	}
	ps.Uses++
	if ps.Uses >= def.UsageLimit {
		ps.Collected = false
		return true, true
	}
	return true, false
}

func (p *Profile) CollectedPets() int {
	n := 0
	for _, ps := range p.Pets {
		if ps != nil && ps.Collected {
			n++
		}
	}
	return n
}

// ActiveEnchantment returns the enchantment currently applied to the tool.
func (p *Profile) ActiveEnchantment() (EnchantID, bool) {
	if p.ActiveEnchantIndex == nil {
		return "", false
	}
	i := *p.ActiveEnchantIndex
	if i < 0 || i >= len(p.EnchantInventory) {
		return "", false
	}
	return p.EnchantInventory[i].Type, true
}

func (p *Profile) enchantActive(id EnchantID) bool {
	cur, ok := p.ActiveEnchantment()
	return ok && cur == id
}

func (p *Profile) syncToolEnchantment() {
	if id, ok := p.ActiveEnchantment(); ok {
		p.ToolEnchantment = &id
		return
	}
	p.ToolEnchantment = nil
}

// consumeEnchantCharge spends one durability point of the active
// enchantment. It returns the enchantment that broke, if any.
func (p *Profile) consumeEnchantCharge() (EnchantID, bool) {
	if p.ActiveEnchantIndex == nil {
		return "", false
	}
	i := *p.ActiveEnchantIndex
	if i < 0 || i >= len(p.EnchantInventory) {
		p.ActiveEnchantIndex = nil
		p.syncToolEnchantment()
		return "", false
	}
	slot := &p.EnchantInventory[i]
	if slot.Durability <= 0 {
		return "", false
	}
	slot.Durability--
	if slot.Durability > 0 {
		return "", false
	}
	broken := slot.Type
	p.EnchantInventory = append(p.EnchantInventory[:i], p.EnchantInventory[i+1:]...)
	p.ActiveEnchantIndex = nil
	p.ToolEnchantment = nil
	return broken, true
}

func (p *Profile) addEnchantBook(id EnchantID) {
	def, _ := LookupEnchantment(id)
	p.EnchantInventory = append(p.EnchantInventory, EnchantSlot{
		Type:          id,
		Durability:    def.Durability,
		MaxDurability: def.Durability,
	})
	p.Enchantments[id]++
}

func (p *Profile) xpBoostActive(now time.Time) bool {
	return p.XPBoost != nil && now.UnixMilli() < p.XPBoost.EndTime
}

func (p *Profile) zombieActive(now time.Time) bool {
	return p.ZombieSlowdown != nil && now.UnixMilli() < p.ZombieSlowdown.EndTime
}

func (p *Profile) safeZoneActive() bool {
	return p.SafeZone != nil && p.SafeZone.RemainingMines > 0
}

func (p *Profile) hasteActive() bool {
	return p.HasteEffect != nil && p.HasteEffect.RemainingMines > 0
}

func (p *Profile) doubleDropsActive() bool {
	return p.DoubleDrops != nil && p.DoubleDrops.RemainingMines > 0
}

// Clone returns a deep copy suitable for handing to hosts.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Inventory = cloneMap(p.Inventory)
	c.Enchantments = cloneMap(p.Enchantments)
	c.Achievements = cloneMap(p.Achievements)
	c.CraftedItems = cloneMap(p.CraftedItems)
	c.Pets = make(map[PetID]*PetState, len(p.Pets))
	for k, v := range p.Pets {
		if v == nil {
			continue
		}
		ps := *v
		c.Pets[k] = &ps
	}
	c.EnchantInventory = append([]EnchantSlot(nil), p.EnchantInventory...)
	if p.ActiveEnchantIndex != nil {
		i := *p.ActiveEnchantIndex
		c.ActiveEnchantIndex = &i
	}
	if p.ToolEnchantment != nil {
		e := *p.ToolEnchantment
		c.ToolEnchantment = &e
	}
	c.SafeZone = clonePtr(p.SafeZone)
	c.XPBoost = clonePtr(p.XPBoost)
	c.DoubleDrops = clonePtr(p.DoubleDrops)
	c.HasteEffect = clonePtr(p.HasteEffect)
	c.ZombieSlowdown = clonePtr(p.ZombieSlowdown)
	c.DailyChallenges.Challenges = append([]Challenge(nil), p.DailyChallenges.Challenges...)
	c.DailyChallenges.Completed = append([]string(nil), p.DailyChallenges.Completed...)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
