package game

import "github.com/google/uuid"

const (
	wardenChance        = 0.50
	wardenFinalStage    = 4
	mobChance           = 0.15
	creeperShare        = 0.65
	villagerChance      = 0.05
	chestBaseRate       = 0.005
	chestRateSpread     = 0.01
	minVillagerTrades   = 3
	maxVillagerTrades   = 5
	safeZoneChanceScale = 0.5
)

var wardenStageMessages = [...]string{
	1: "Warden approaches...",
	2: "Warden advances...",
	3: "Warden draws close...",
	4: "Warden emerges...",
}

// PageSession is the state that lives for one page load.
type PageSession struct {
	ID      string
	Host    string
	Spawned map[SpawnKind]bool
	Warden  WardenWarning
	// Mined records hidden elements with their display value before
	// hiding, so a reset can restore them.
	Mined []MinedElement
}

type WardenWarning struct {
	Triggered bool
	Stage     int
}

type MinedElement struct {
	Element         Element
	OriginalDisplay string
}

func NewPageSession(host string) *PageSession {
	return &PageSession{
		ID:      uuid.NewString(),
		Host:    host,
		Spawned: map[SpawnKind]bool{},
	}
}

func (s *PageSession) isMined(el Element) bool {
	for _, m := range s.Mined {
		if m.Element == el {
			return true
		}
	}
	return false
}

// DebugFlags force the next spawn. Each flag is cleared when consumed.
type DebugFlags struct {
	Pet         PetID
	Creeper     bool
	Chest       bool
	Warden      bool
	Zombie      bool
	Villager    bool
	Enchantment bool
	// EnchantmentID narrows a forced enchantment; empty means random.
	EnchantmentID EnchantID
}

// Decision is the outcome of one arbitration.
type Decision struct {
	Kind        SpawnKind
	Pet         PetID
	Enchantment EnchantID
	Trades      []Trade
	WardenStage int
	Message     string
	// Delayed marks a warden that spawns after the emerge delay.
	Delayed bool
	Forced  bool
}

// ArbiterInput is everything one arbitration may read. Page and Debug are
// mutated: page flags are set and consumed debug flags cleared.
type ArbiterInput struct {
	Profile *Profile
	Page    *PageSession
	Debug   *DebugFlags
	// Deep reports whether the mined element sits in the deepest zone.
	Deep bool
}

// Arbiter decides what, if anything, spawns after a completed mine. The
// first matching branch wins.
type Arbiter struct {
	rng Rand
}

func NewArbiter(rng Rand) *Arbiter {
	return &Arbiter{rng: rng}
}

func (a *Arbiter) Decide(in ArbiterInput) Decision {
	if d, ok := a.forced(in); ok {
		return d
	}
	p, page := in.Profile, in.Page

	if in.Deep {
		if d, ok := a.warden(p, page); ok {
			return d
		}
	}

	if !page.Spawned[SpawnEnchantment] {
		if d, ok := a.enchantment(p); ok {
			page.Spawned[SpawnEnchantment] = true
			return d
		}
	}

	if !page.Spawned[SpawnChest] && p.Inventory[ResourceDiamond] < diamondInventoryCap {
		rate := chestBaseRate + a.rng.Float64()*chestRateSpread
		if p.GuaranteedChest || a.rng.Float64() < rate {
			p.GuaranteedChest = false
			page.Spawned[SpawnChest] = true
			return Decision{Kind: SpawnChest}
		}
	}

	chance := mobChance
	if p.safeZoneActive() {
		chance *= safeZoneChanceScale
	}
	if a.rng.Float64() < chance {
		if a.rng.Float64() < creeperShare {
			return Decision{Kind: SpawnCreeper}
		}
		return Decision{Kind: SpawnZombie}
	}

	if !page.Spawned[SpawnVillager] && a.rng.Float64() < villagerChance {
		page.Spawned[SpawnVillager] = true
		return Decision{Kind: SpawnVillager, Trades: a.trades()}
	}

	if !page.Spawned[SpawnPet] {
		if id, ok := a.pet(p); ok {
			page.Spawned[SpawnPet] = true
			return Decision{Kind: SpawnPet, Pet: id}
		}
	}
	return Decision{}
}

func (a *Arbiter) forced(in ArbiterInput) (Decision, bool) {
	dbg := in.Debug
	if dbg == nil {
		return Decision{}, false
	}
	switch {
	case dbg.Pet != "":
		id := dbg.Pet
		dbg.Pet = ""
		return Decision{Kind: SpawnPet, Pet: id, Forced: true}, true
	case dbg.Creeper:
		dbg.Creeper = false
		return Decision{Kind: SpawnCreeper, Forced: true}, true
	case dbg.Chest:
		dbg.Chest = false
		return Decision{Kind: SpawnChest, Forced: true}, true
	case dbg.Warden:
		dbg.Warden = false
		return Decision{Kind: SpawnWarden, Forced: true}, true
	case dbg.Zombie:
		dbg.Zombie = false
		return Decision{Kind: SpawnZombie, Forced: true}, true
	case dbg.Villager:
		dbg.Villager = false
		return Decision{Kind: SpawnVillager, Trades: a.trades(), Forced: true}, true
	case dbg.Enchantment:
		id := dbg.EnchantmentID
		dbg.Enchantment, dbg.EnchantmentID = false, ""
		if id == "" {
			id = Enchantments[a.rng.IntN(len(Enchantments))].ID
		}
		in.Page.Spawned[SpawnEnchantment] = true
		return Decision{Kind: SpawnEnchantment, Enchantment: id, Forced: true}, true
	}
	return Decision{}, false
}

func (a *Arbiter) warden(p *Profile, page *PageSession) (Decision, bool) {
	w := &page.Warden
	if !w.Triggered {
		chance := wardenChance
		if p.safeZoneActive() {
			chance *= safeZoneChanceScale
		}
		if a.rng.Float64() >= chance {
			return Decision{}, false
		}
		w.Triggered, w.Stage = true, 1
		return Decision{Kind: SpawnWardenWarning, WardenStage: 1, Message: wardenStageMessages[1]}, true
	}
	if w.Stage >= wardenFinalStage {
		return Decision{}, false
	}
	w.Stage++
	d := Decision{Kind: SpawnWardenWarning, WardenStage: w.Stage, Message: wardenStageMessages[w.Stage]}
	if w.Stage == wardenFinalStage {
		d.Delayed = true
	}
	return d, true
}

// enchantment rolls Haste first, then the book table with a single draw.
func (a *Arbiter) enchantment(p *Profile) (Decision, bool) {
	haste := hasteRateLate
	if earlyTool(p.CurrentTool) {
		haste = hasteRateEarly
	}
	if a.rng.Float64() < haste {
		return Decision{Kind: SpawnEnchantment, Enchantment: EnchantHaste}, true
	}
	var table weighted[EnchantID]
	for _, e := range bookEnchantments() {
		table.add(e.ID, e.SpawnRate)
	}
	if id, ok := table.pick(a.rng.Float64()); ok {
		return Decision{Kind: SpawnEnchantment, Enchantment: id}, true
	}
	return Decision{}, false
}

func (a *Arbiter) pet(p *Profile) (PetID, bool) {
	mult := 1.0
	if p.enchantActive(EnchantLooting) {
		e, _ := LookupEnchantment(EnchantLooting)
		mult = e.PetSpawnMultiplier
	}
	var table weighted[PetID]
	for _, def := range Pets {
		if ps, ok := p.Pets[def.ID]; ok && ps != nil && ps.Count >= def.MaxSpawns {
			continue
		}
		table.add(def.ID, def.SpawnRate*mult)
	}
	return table.pick(a.rng.Float64())
}

// trades draws 3 to 5 distinct offers.
func (a *Arbiter) trades() []Trade {
	n := min(randRange(a.rng, minVillagerTrades, maxVillagerTrades), len(Trades))
	idx := make([]int, len(Trades))
	for i := range idx {
		idx[i] = i
	}
	out := make([]Trade, 0, n)
	for i := 0; i < n; i++ {
		j := i + a.rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, Trades[idx[i]])
	}
	return out
}
