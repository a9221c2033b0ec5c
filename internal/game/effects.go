package game

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"
)

const (
	collectDelay       = 1500 * time.Millisecond
	chestCloseDelay    = 1 * time.Second
	encounterWindow    = 4 * time.Second
	wardenEmergeDelay  = 2 * time.Second
	wardenDefeatDelay  = 1 * time.Second
	defuseRewardDelay  = 2 * time.Second
	zombieXPPenalty    = 100
	zombieXPRecovery   = 50
	zombieSlowdown     = 60 * time.Second
	creeperDefuseClick = 2
	blastMinTargets    = 8
	blastTargetSpread  = 8
	blastDelay         = 1 * time.Second
	blastStagger       = 100 * time.Millisecond
	wardenDiamondSteal = 4
	wardenXPSteal      = 500
	wardenXPShare      = 0.2
	wardenDefeatXP     = 1000
)

var blastTags = []string{"div", "p", "span", "img", "section", "article", "header", "footer", "aside", "nav"}

type villagerOffer struct {
	handle string
	trades []Trade
}

type zombieEncounter struct {
	struck bool
}

type creeperEncounter struct {
	anchor Element
	clicks int
}

func (e *Engine) execute(d Decision, el Element) {
	switch d.Kind {
	case SpawnWardenWarning:
		e.emit(Event{Kind: EventWardenWarning, Message: d.Message, Amount: d.WardenStage})
		if d.Delayed {
			e.after(wardenEmergeDelay, e.spawnWarden)
		}
	case SpawnWarden:
		e.spawnWarden()
	case SpawnPet:
		e.spawnPet(d.Pet, el)
	case SpawnEnchantment:
		e.spawnEnchantment(d.Enchantment, el)
	case SpawnChest:
		e.spawnChest(el)
	case SpawnVillager:
		e.spawnVillager(d.Trades, el)
	case SpawnZombie:
		e.spawnZombie()
	case SpawnCreeper:
		e.spawnCreeper(el)
	}
}

// register claims the overlay slot. When a later overlay preempts this
// one, its encounter state is dropped and hosts are told to remove it.
func (e *Engine) register(kind SpawnKind, anchor Element) (string, error) {
	var handle string
	h, err := e.overlays.Register(kind, anchor, func() {
		e.forget(handle)
		e.emit(Event{Kind: EventDespawn, Spawn: kind, Handle: handle})
	})
	if err != nil {
		e.log.Debugf("%s overlay suppressed: %v", kind, err)
		return "", err
	}
	handle = h
	return h, nil
}

func (e *Engine) release(kind SpawnKind, handle string) {
	e.forget(handle)
	if e.overlays.Release(handle) {
		e.emit(Event{Kind: EventDespawn, Spawn: kind, Handle: handle})
	}
}

func (e *Engine) forget(handle string) {
	if handle == "" {
		return
	}
	if e.enc.chest == handle {
		e.enc.chest = ""
	}
	if e.enc.warden == handle {
		e.enc.warden = ""
	}
	if e.enc.villager != nil && e.enc.villager.handle == handle {
		e.enc.villager = nil
	}
}

func (e *Engine) spawnPet(id PetID, el Element) {
	def, ok := LookupPet(id)
	if !ok {
		e.log.Warnf("spawn of unknown pet %q dropped", id)
		return
	}
	h, err := e.register(SpawnPet, el)
	if err != nil {
		return
	}
	e.emit(Event{
		Kind:    EventSpawn,
		Spawn:   SpawnPet,
		Handle:  h,
		Element: el,
		Pet:     id,
		Message: fmt.Sprintf("%s A wild %s appeared!", def.Icon, def.Name),
	})
	e.after(collectDelay, func() { e.collectPet(def, h) })
}

func (e *Engine) collectPet(def Pet, handle string) {
	ps := e.profile.pet(def.ID)
	ps.Count++
	ps.Collected = true
	ps.Uses = 0
	e.emit(notice(fmt.Sprintf("%s %s collected! %s", def.Icon, def.Name, def.Ability)))
	e.advance("collect_pets", 1)
	e.checkAchievements()
	e.persist()
	e.release(SpawnPet, handle)
}

func (e *Engine) spawnEnchantment(id EnchantID, el Element) {
	def, ok := LookupEnchantment(id)
	if !ok {
		e.log.Warnf("spawn of unknown enchantment %q dropped", id)
		return
	}
	h, err := e.register(SpawnEnchantment, el)
	if err != nil {
		return
	}
	e.emit(Event{
		Kind:        EventSpawn,
		Spawn:       SpawnEnchantment,
		Handle:      h,
		Element:     el,
		Enchantment: id,
		Message:     fmt.Sprintf("📖 A %s book appeared!", def.Name),
	})
	e.after(collectDelay, func() { e.collectEnchantment(def, h) })
}

func (e *Engine) collectEnchantment(def Enchantment, handle string) {
	p := e.profile
	if def.ID == EnchantHaste {
		p.HasteEffect = &MineCounter{RemainingMines: def.MineCount}
		e.emit(notice(fmt.Sprintf("⚡ Haste active for %d mines!", def.MineCount)))
	} else {
		p.addEnchantBook(def.ID)
		e.emit(notice(fmt.Sprintf("✨ %s book added to inventory!", def.Name)))
		e.advance("collect_enchantments", 1)
	}
	e.checkAchievements()
	e.persist()
	e.release(SpawnEnchantment, handle)
}

func (e *Engine) spawnChest(el Element) {
	h, err := e.register(SpawnChest, el)
	if err != nil {
		return
	}
	e.enc.chest = h
	e.emit(Event{Kind: EventSpawn, Spawn: SpawnChest, Handle: h, Element: el, Message: "📦 A treasure chest appeared!"})
}

// OpenChest collects the chest behind handle: one or two diamonds.
func (e *Engine) OpenChest(handle string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if handle == "" || e.enc.chest != handle {
		return ErrNoEncounter
	}
	e.enc.chest = ""
	p := e.profile
	n := 1 + e.rng.IntN(2)
	p.Inventory[ResourceDiamond] += n
	suffix := ""
	if n > 1 {
		suffix = "s"
	}
	e.emit(Event{Kind: EventResource, Resource: ResourceDiamond, Amount: n,
		Message: fmt.Sprintf("💎 %d Diamond%s found! (%d total)", n, suffix, p.Inventory[ResourceDiamond])})
	e.checkAchievements()
	e.persist()
	e.after(chestCloseDelay, func() { e.release(SpawnChest, handle) })
	return nil
}

func (e *Engine) spawnVillager(trades []Trade, el Element) {
	h, err := e.register(SpawnVillager, el)
	if err != nil {
		return
	}
	e.enc.villager = &villagerOffer{handle: h, trades: trades}
	e.emit(Event{
		Kind:    EventSpawn,
		Spawn:   SpawnVillager,
		Handle:  h,
		Element: el,
		Trades:  slices.Clone(trades),
		Message: "🧑‍🌾 A villager wants to trade!",
	})
}

// Trade executes offer i of the villager behind handle. The villager
// leaves after one completed trade.
func (e *Engine) Trade(handle string, i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	offer := e.enc.villager
	if offer == nil || offer.handle != handle {
		return ErrNoEncounter
	}
	if i < 0 || i >= len(offer.trades) {
		return ErrNoSuchIndex
	}
	t := offer.trades[i]
	p := e.profile
	if p.Inventory[t.Give.Resource] < t.Give.Amount {
		return fmt.Errorf("%s needs %d %s: %w", t.ID, t.Give.Amount, t.Give.Resource, ErrInsufficientResources)
	}
	p.Inventory[t.Give.Resource] -= t.Give.Amount
	switch {
	case t.Receive.Enchantment != "":
		p.addEnchantBook(t.Receive.Enchantment)
	case t.Receive.XP > 0:
		p.AddXP(t.Receive.XP)
		e.recomputeTool()
	case t.Receive.Resource != "":
		p.Inventory[t.Receive.Resource] += t.Receive.Amount
	}
	e.checkAchievements()
	e.persist()
	e.emit(notice("✓ Trade completed!"))
	e.release(SpawnVillager, handle)
	return nil
}

// CloseOverlay dismisses a chest, villager, pet or enchantment overlay.
// The warden cannot be closed; it must be fought or fled.
func (e *Engine) CloseOverlay(handle string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if handle == "" || handle == e.enc.warden {
		return ErrNoEncounter
	}
	o, ok := e.overlays.Active()
	if !ok || o.Handle != handle {
		return ErrNoEncounter
	}
	e.release(o.Kind, handle)
	return nil
}

func (e *Engine) spawnZombie() {
	p := e.profile
	now := e.clock.Now()
	p.AddXP(-zombieXPPenalty)
	msg := fmt.Sprintf("🧟 A zombie stole %d XP!", zombieXPPenalty)
	if !p.zombieActive(now) {
		p.ZombieSlowdown = &Timed{EndTime: now.Add(zombieSlowdown).UnixMilli()}
		msg += " Mining slowed for 60s!"
	}
	e.persist()
	z := &zombieEncounter{}
	e.enc.zombie = z
	e.emit(Event{Kind: EventSpawn, Spawn: SpawnZombie, Message: msg})
	e.after(encounterWindow, func() {
		if e.enc.zombie != z {
			return
		}
		e.enc.zombie = nil
		e.emit(notice("Zombie escaped with your XP!"))
		e.emit(Event{Kind: EventDespawn, Spawn: SpawnZombie})
	})
}

// StrikeZombie hits the fleeing zombie and recovers part of the stolen XP.
func (e *Engine) StrikeZombie() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	z := e.enc.zombie
	if z == nil || z.struck {
		return ErrNoEncounter
	}
	z.struck = true
	e.enc.zombie = nil
	e.profile.AddXP(zombieXPRecovery)
	e.recomputeTool()
	e.persist()
	e.emit(notice(fmt.Sprintf("⚔️ Hit the zombie! +%d XP recovered", zombieXPRecovery)))
	e.emit(Event{Kind: EventDespawn, Spawn: SpawnZombie})
	return nil
}

func (e *Engine) spawnCreeper(el Element) {
	p := e.profile
	for _, id := range []PetID{PetCat, PetDennis} {
		used, left := p.usePet(id)
		if !used {
			continue
		}
		def, _ := LookupPet(id)
		if id == PetCat {
			p.CatDeflections++
		}
		e.emit(notice(fmt.Sprintf("%s %s scared away a creeper!", def.Icon, def.Name)))
		if left {
			e.emit(notice(def.LeaveNotice))
		}
		e.persist()
		e.after(defuseRewardDelay, func() {
			e.profile.AddXP(1)
			e.emit(Event{Kind: EventXPGain, XP: 1})
			e.persist()
		})
		return
	}

	c := &creeperEncounter{anchor: el}
	e.enc.creeper = c
	e.emit(Event{Kind: EventSpawn, Spawn: SpawnCreeper, Element: el, Message: "💥 Creeper! Click it twice to defuse!"})
	e.after(encounterWindow, func() {
		if e.enc.creeper != c {
			return
		}
		e.enc.creeper = nil
		e.explode(c.anchor)
	})
}

// ClickCreeper registers a hit on the hissing creeper. It reports true
// once the creeper is defused.
func (e *Engine) ClickCreeper() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.enc.creeper
	if c == nil {
		return false, ErrNoEncounter
	}
	c.clicks++
	if c.clicks < creeperDefuseClick {
		return false, nil
	}
	e.enc.creeper = nil
	e.emit(notice("Creeper defused!"))
	e.emit(Event{Kind: EventDespawn, Spawn: SpawnCreeper, Element: c.anchor})
	return true, nil
}

func (e *Engine) explode(anchor Element) {
	targets := e.blastTargets(anchor, blastMinTargets+e.rng.IntN(blastTargetSpread))
	e.emit(Event{Kind: EventExplosion, Element: anchor, Amount: len(targets), Message: "💥 BOOM!"})
	for i, t := range targets {
		e.after(blastDelay+time.Duration(i)*blastStagger, func() {
			if t.Attached() {
				e.hide(t)
			}
		})
	}
}

// blastTargets returns up to n unmined elements nearest to anchor.
func (e *Engine) blastTargets(anchor Element, n int) []Element {
	if e.doc == nil || anchor == nil {
		return nil
	}
	ax, ay := anchor.Rect().Center()
	type candidate struct {
		el   Element
		dist float64
	}
	var cands []candidate
	for _, el := range e.doc.Elements() {
		if el == anchor || !slices.Contains(blastTags, el.Tag()) {
			continue
		}
		if !el.Attached() || e.page.isMined(el) || !Mineable(el) {
			continue
		}
		x, y := el.Rect().Center()
		cands = append(cands, candidate{el: el, dist: math.Hypot(x-ax, y-ay)})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	out := make([]Element, 0, min(n, len(cands)))
	for _, c := range cands[:min(n, len(cands))] {
		out = append(out, c.el)
	}
	return out
}

func (e *Engine) spawnWarden() {
	msg := e.wardenPenalty()
	e.recomputeTool()
	e.advance("survive_warden", 1)
	e.persist()
	if e.enc.warden != "" {
		e.emit(notice(msg))
		return
	}
	h, err := e.register(SpawnWarden, nil)
	if err != nil {
		return
	}
	e.enc.warden = h
	e.emit(Event{Kind: EventSpawn, Spawn: SpawnWarden, Handle: h, Message: msg})
}

// wardenPenalty takes the most valuable thing the player has, in order:
// diamonds, a collected pet, the active enchantment, then XP.
func (e *Engine) wardenPenalty() string {
	p := e.profile
	if have := p.Inventory[ResourceDiamond]; have > 0 {
		n := min(wardenDiamondSteal, have)
		p.Inventory[ResourceDiamond] = have - n
		suffix := ""
		if n > 1 {
			suffix = "s"
		}
		return fmt.Sprintf("The Warden stole %d Diamond%s (%d remaining)", n, suffix, p.Inventory[ResourceDiamond])
	}

	var collected []PetID
	for _, def := range Pets {
		if p.petActive(def.ID) {
			collected = append(collected, def.ID)
		}
	}
	if len(collected) > 0 {
		id := collected[e.rng.IntN(len(collected))]
		ps := p.Pets[id]
		ps.Collected = false
		ps.Count = max(0, ps.Count-1)
		def, _ := LookupPet(id)
		return fmt.Sprintf("The Warden stole your %s", def.Name)
	}

	if active, ok := p.ActiveEnchantment(); ok && p.CurrentTool != ToolHand {
		def, _ := LookupEnchantment(active)
		tool, _ := LookupTool(p.CurrentTool)
		if active == EnchantUnbreaking && p.UnbreakingUses < def.ProtectionUses {
			p.UnbreakingUses++
			left := def.ProtectionUses - p.UnbreakingUses
			return fmt.Sprintf("Unbreaking protected your %s! (%d protections remaining)", tool.Name, left)
		}
		i := *p.ActiveEnchantIndex
		p.EnchantInventory = append(p.EnchantInventory[:i], p.EnchantInventory[i+1:]...)
		p.ActiveEnchantIndex = nil
		p.syncToolEnchantment()
		p.UnbreakingUses = 0
		return fmt.Sprintf("The Warden stole your %s Enchantment", def.Name)
	}

	if p.XP >= wardenXPSteal {
		p.AddXP(-wardenXPSteal)
		return fmt.Sprintf("The Warden stole %d XP", wardenXPSteal)
	}
	if p.XP > 0 {
		lost := int(math.Floor(float64(p.XP) * wardenXPShare))
		p.AddXP(-lost)
		return fmt.Sprintf("The Warden stole %d XP", lost)
	}
	return "The Warden emerges... But you have nothing to lose!"
}

// AttackWarden swings the diamond sword. The warden falls a moment after
// the blow.
func (e *Engine) AttackWarden() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := e.enc.warden
	if h == "" {
		return ErrNoEncounter
	}
	p := e.profile
	if p.DiamondSword <= 0 {
		return ErrNothingToUse
	}
	p.DiamondSword--
	if p.DiamondSword == 0 {
		e.emit(notice("🗡️ Diamond Sword broke!"))
	}
	e.enc.warden = ""
	e.persist()
	e.after(wardenDefeatDelay, func() {
		e.overlays.Release(h)
		e.emit(Event{Kind: EventDespawn, Spawn: SpawnWarden, Handle: h})
		e.profile.AddXP(wardenDefeatXP)
		e.recomputeTool()
		e.advance("defeat_warden", 1)
		e.checkAchievements()
		e.persist()
		e.emit(Event{Kind: EventXPGain, XP: wardenDefeatXP, Message: fmt.Sprintf("⚔️ Warden Defeated! +%d XP", wardenDefeatXP)})
	})
	return nil
}

// RetreatWarden flees the page: mined elements come back and a fresh page
// session starts, as if the page had been reloaded.
func (e *Engine) RetreatWarden() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.enc.warden == "" {
		return ErrNoEncounter
	}
	host := e.page.Host
	e.restoreMined()
	e.stopSession()
	e.overlays.Clear()
	e.emit(Event{Kind: EventDespawn, Spawn: SpawnWarden, Handle: e.enc.warden})
	e.enc = encounters{}
	e.page = NewPageSession(host)
	e.gen++
	return nil
}

// Craft spends the recipe and applies the item's effect right away. The
// diamond sword instead adds its uses to the sword counter.
func (e *Engine) Craft(id ItemID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := LookupItem(id)
	if !ok {
		return ErrUnknownItem
	}
	p := e.profile
	for _, ing := range item.Recipe {
		if p.Inventory[ing.Resource] < ing.Amount {
			return fmt.Errorf("craft %s: %w", id, ErrInsufficientResources)
		}
	}
	for _, ing := range item.Recipe {
		p.Inventory[ing.Resource] -= ing.Amount
	}
	if item.Effect == EffectWardenSlayer {
		p.DiamondSword += item.Uses
	} else {
		p.CraftedItems[id]++
		e.applyEffect(item)
	}
	e.emit(Event{Kind: EventInventory, Message: fmt.Sprintf("🔨 Crafted %s!", item.Name)})
	e.checkAchievements()
	e.persist()
	return nil
}

// UseItem activates a crafted item already in the inventory.
func (e *Engine) UseItem(id ItemID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := LookupItem(id)
	if !ok {
		return ErrUnknownItem
	}
	p := e.profile
	if item.Effect == EffectWardenSlayer {
		if p.DiamondSword <= 0 {
			return ErrNothingToUse
		}
		e.emit(notice("🗡️ The Diamond Sword is used against the Warden"))
		return nil
	}
	if p.CraftedItems[id] <= 0 {
		return ErrNothingToUse
	}
	if e.effectActive(item.Effect) {
		return ErrEffectActive
	}
	if item.Effect == EffectInstantXP {
		p.CraftedItems[id]--
	}
	e.applyEffect(item)
	e.persist()
	return nil
}

func (e *Engine) effectActive(effect ItemEffect) bool {
	p := e.profile
	switch effect {
	case EffectSafeZone:
		return p.safeZoneActive()
	case EffectXPBoost:
		return p.xpBoostActive(e.clock.Now())
	case EffectDoubleDrops:
		return p.doubleDropsActive()
	}
	return false
}

func (e *Engine) applyEffect(item Item) {
	p := e.profile
	switch item.Effect {
	case EffectSafeZone:
		p.SafeZone = &MineCounter{RemainingMines: item.MineCount}
		e.emit(notice(fmt.Sprintf("🔥 Safe zone active for %d mines!", item.MineCount)))
	case EffectDoubleDrops:
		p.DoubleDrops = &MineCounter{RemainingMines: item.MineCount}
		e.emit(notice(fmt.Sprintf("🔷 2x drops for %d mines!", item.MineCount)))
	case EffectXPBoost:
		end := e.clock.Now().Add(item.Duration).UnixMilli()
		p.XPBoost = &XPBoost{EndTime: end, Multiplier: item.Multiplier}
		e.scheduleBoostExpiry()
		e.emit(notice(fmt.Sprintf("💡 %gx XP for %ds!", item.Multiplier, int(item.Duration/time.Second))))
	case EffectInstantXP:
		p.AddXP(item.XPAmount)
		e.emit(Event{Kind: EventXPGain, XP: item.XPAmount, Message: fmt.Sprintf("🍎 +%d XP!", item.XPAmount)})
		e.recomputeTool()
	}
}

func (e *Engine) scheduleBoostExpiry() {
	if e.boostTimer != nil {
		e.boostTimer.Stop()
	}
	p := e.profile
	if p.XPBoost == nil {
		return
	}
	end := p.XPBoost.EndTime
	wait := time.Duration(end-e.clock.Now().UnixMilli()) * time.Millisecond
	e.boostTimer = e.clock.AfterFunc(max(0, wait), func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.profile.XPBoost == nil || e.profile.XPBoost.EndTime != end {
			return
		}
		e.expireBoost()
	})
}

// syncBoost expires a boost whose end has passed and arms the expiry
// timer for one still running. It reports whether the profile changed.
func (e *Engine) syncBoost() bool {
	p := e.profile
	if p.XPBoost == nil {
		return false
	}
	if !p.xpBoostActive(e.clock.Now()) {
		e.expireBoost()
		return true
	}
	if e.boostTimer == nil {
		e.scheduleBoostExpiry()
	}
	return false
}

func (e *Engine) expireBoost() {
	e.profile.XPBoost = nil
	e.boostTimer = nil
	e.consumeItem(ItemRedstoneLamp)
	e.emit(notice("💡 XP boost ended!"))
	e.persist()
}

// SelectEnchantment toggles inventory slot i onto the tool.
func (e *Engine) SelectEnchantment(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectEnchantment(i)
}

func (e *Engine) selectEnchantment(i int) error {
	p := e.profile
	if i < 0 || i >= len(p.EnchantInventory) {
		return ErrNoSuchIndex
	}
	if p.ActiveEnchantIndex != nil && *p.ActiveEnchantIndex == i {
		p.ActiveEnchantIndex = nil
		p.syncToolEnchantment()
		e.emit(notice("Enchantment removed"))
	} else {
		p.ActiveEnchantIndex = &i
		p.syncToolEnchantment()
		def, _ := LookupEnchantment(p.EnchantInventory[i].Type)
		e.emit(notice(fmt.Sprintf("✨ %s activated!", def.Name)))
	}
	e.checkAchievements()
	e.persist()
	return nil
}
