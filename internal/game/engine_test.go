package game

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) of(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) hasNotice(substr string) bool {
	for _, ev := range r.of(EventNotice) {
		if strings.Contains(ev.Message, substr) {
			return true
		}
	}
	return false
}

type memStore struct {
	data map[string]json.RawMessage
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]json.RawMessage{}}
}

func (m *memStore) Get(_ context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]json.RawMessage{}
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memStore) Set(_ context.Context, values map[string]json.RawMessage) error {
	if m.err != nil {
		return m.err
	}
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

type captureLogger struct {
	warnings []string
}

func (l *captureLogger) Debugf(string, ...any) {}
func (l *captureLogger) Infof(string, ...any)  {}
func (l *captureLogger) Warnf(format string, _ ...any) {
	l.warnings = append(l.warnings, format)
}
func (l *captureLogger) Errorf(string, ...any) {}

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	engine *Engine
	clock  *ManualClock
	events *recorder
	store  *memStore
	doc    *testDocument
}

// newHarness builds an engine over doc whose random draws all miss
// unless the test scripts them.
func newHarness(t *testing.T, rng *FixedRand, doc *testDocument) *harness {
	t.Helper()
	if rng == nil {
		rng = &FixedRand{Default: 0.99}
	}
	h := &harness{
		clock:  NewManualClock(testStart),
		events: &recorder{},
		store:  newMemStore(),
		doc:    doc,
	}
	h.engine = New(Options{Clock: h.clock, Rand: rng, Notifier: h.events, Store: h.store})
	h.engine.Navigate(doc, "example.com")
	return h
}

func (h *harness) mine(t *testing.T, el Element) {
	t.Helper()
	require.NoError(t, h.engine.StartMining(el))
	h.clock.Advance(h.engine.Mining().MiningTime)
	require.Equal(t, StateIdle, h.engine.Mining().State, "session should have completed")
}

func (h *harness) spawned(kind SpawnKind) (Event, bool) {
	for _, ev := range h.events.of(EventSpawn) {
		if ev.Spawn == kind {
			return ev, true
		}
	}
	return Event{}, false
}

func surfaceDoc(elements ...*testElement) *testDocument {
	return &testDocument{height: 1000, center: 100, elements: elements}
}

func TestCompletionUpgradesToolAndUnlocksAchievement(t *testing.T) {
	deep := newTestElement("div", 0, 800, 200, 100)
	h := newHarness(t, nil, surfaceDoc(deep))
	p := NewProfile()
	p.XP, p.TotalMined = 95, 95
	h.engine.profile = p

	h.mine(t, deep)

	got := h.engine.Profile()
	assert.Equal(t, 96, got.TotalMined)
	assert.Equal(t, 100, got.XP)
	assert.Equal(t, ToolWoodenAxe, got.CurrentTool)
	assert.True(t, got.Achievements["first_upgrade"])
	assert.Equal(t, 1, got.DeepMiningCount)
	assert.Equal(t, "none", deep.display)
	require.Len(t, h.events.of(EventToolUpgrade), 1)
	assert.Equal(t, 1, h.engine.Page().Mined)
}

func TestMiningProgressIsMonotonicWhileHeld(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	require.NoError(t, h.engine.StartMining(el))

	last := -1.0
	for i := 0; i < 49; i++ {
		h.clock.Advance(DefaultTickInterval)
		p := h.engine.Mining().Progress
		require.GreaterOrEqual(t, p, last)
		last = p
	}
	assert.InDelta(t, 98, last, 1e-9)
	h.clock.Advance(DefaultTickInterval)
	assert.Equal(t, StateIdle, h.engine.Mining().State)
	require.Len(t, h.events.of(EventMined), 1)
}

func TestReleaseOverTargetPausesAndRegresses(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	child := newTestElement("span", 0, 0, 40, 20)
	el.add(child)
	h := newHarness(t, nil, surfaceDoc(el))
	require.NoError(t, h.engine.StartMining(el))
	h.clock.Advance(10 * DefaultTickInterval)
	require.InDelta(t, 20, h.engine.Mining().Progress, 1e-9)

	require.NoError(t, h.engine.ReleaseMining(child))
	assert.True(t, h.engine.Mining().Paused)
	h.clock.Advance(3 * DefaultTickInterval)
	assert.InDelta(t, 8, h.engine.Mining().Progress, 1e-9)

	assert.False(t, h.engine.ResumeMining(newTestElement("div", 500, 500, 50, 50)))
	assert.True(t, h.engine.ResumeMining(child))
	h.clock.Advance(DefaultTickInterval)
	assert.InDelta(t, 10, h.engine.Mining().Progress, 1e-9)
}

func TestReleaseElsewhereCancelsWithoutHiding(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	require.NoError(t, h.engine.StartMining(el))
	h.clock.Advance(5 * DefaultTickInterval)

	require.NoError(t, h.engine.ReleaseMining(nil))
	assert.Equal(t, StateIdle, h.engine.Mining().State)
	assert.Empty(t, el.display)
	require.Len(t, h.events.of(EventCancelled), 1)
	assert.Equal(t, 0, h.clock.Pending())
	assert.ErrorIs(t, h.engine.CancelMining(), ErrNotMining)

	require.NoError(t, h.engine.StartMining(el), "a cancelled element can be mined again")
}

func TestStartMiningRejections(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	other := newTestElement("p", 0, 100, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el, other))

	assert.ErrorIs(t, h.engine.StartMining(newTestElement("body", 0, 0, 10, 10)), ErrNotMineable)
	require.NoError(t, h.engine.StartMining(el))
	assert.ErrorIs(t, h.engine.StartMining(other), ErrNotIdle)
	h.clock.Advance(5 * time.Second)
	assert.ErrorIs(t, h.engine.StartMining(el), ErrNotMineable, "mined elements stay mined")

	h.engine.SetDisabled(true)
	assert.ErrorIs(t, h.engine.StartMining(other), ErrDisabled)
}

func TestDetachedTargetCancelsSession(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	require.NoError(t, h.engine.StartMining(el))
	el.detached = true
	h.clock.Advance(DefaultTickInterval)
	assert.Equal(t, StateIdle, h.engine.Mining().State)
	assert.Len(t, h.events.of(EventCancelled), 1)
}

func TestEnchantmentRemovedAfterDurability(t *testing.T) {
	els := []*testElement{
		newTestElement("p", 0, 0, 200, 40),
		newTestElement("p", 0, 50, 200, 40),
		newTestElement("p", 0, 100, 200, 40),
	}
	h := newHarness(t, nil, surfaceDoc(els...))
	p := NewProfile()
	p.EnchantInventory = []EnchantSlot{{Type: EnchantFortune, Durability: 3, MaxDurability: 100}}
	idx := 0
	p.ActiveEnchantIndex = &idx
	p.syncToolEnchantment()
	h.engine.profile = p

	for i, el := range els {
		h.mine(t, el)
		got := h.engine.Profile()
		if i < 2 {
			require.Len(t, got.EnchantInventory, 1)
			assert.Equal(t, 2-i, got.EnchantInventory[0].Durability)
		}
	}
	got := h.engine.Profile()
	assert.Empty(t, got.EnchantInventory)
	assert.Nil(t, got.ActiveEnchantIndex)
	assert.Nil(t, got.ToolEnchantment)
	assert.True(t, h.events.hasNotice("Fortune enchantment broke"))
}

func TestXPFloorSurvivesZombie(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	p := NewProfile()
	p.XP, p.TotalMined = 10, 10
	h.engine.profile = p
	require.True(t, h.engine.ForceSpawn(SpawnZombie))

	h.mine(t, el)
	got := h.engine.Profile()
	assert.Equal(t, 11, got.TotalMined)
	assert.Equal(t, 11, got.XP)
	require.NotNil(t, got.ZombieSlowdown)
	assert.Equal(t, testStart.Add(5*time.Second+zombieSlowdown).UnixMilli(), got.ZombieSlowdown.EndTime)

	require.NoError(t, h.engine.StrikeZombie())
	assert.Equal(t, 61, h.engine.Profile().XP)
	assert.ErrorIs(t, h.engine.StrikeZombie(), ErrNoEncounter, "the zombie can be hit only once")
}

func TestZombieEscapes(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	h.engine.ForceSpawn(SpawnZombie)
	h.mine(t, el)

	h.clock.Advance(encounterWindow)
	assert.True(t, h.events.hasNotice("Zombie escaped with your XP!"))
	assert.ErrorIs(t, h.engine.StrikeZombie(), ErrNoEncounter)
}

func TestForcedPetIsCollected(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	require.NoError(t, h.engine.ForcePet(PetAllay))
	assert.ErrorIs(t, h.engine.ForcePet("dragon"), ErrUnknownPet)

	h.mine(t, el)
	ev, ok := h.spawned(SpawnPet)
	require.True(t, ok)
	assert.Equal(t, PetAllay, ev.Pet)
	active, ok := h.engine.ActiveOverlay()
	require.True(t, ok)
	assert.Equal(t, ev.Handle, active.Handle)

	h.clock.Advance(collectDelay)
	got := h.engine.Profile()
	require.NotNil(t, got.Pets[PetAllay])
	assert.True(t, got.Pets[PetAllay].Collected)
	assert.Equal(t, 1, got.Pets[PetAllay].Count)
	assert.True(t, got.Achievements["pet_collector"])
	_, ok = h.engine.ActiveOverlay()
	assert.False(t, ok, "collection releases the overlay")
	assert.False(t, h.engine.Page().Spawned[SpawnPet], "forced pets leave the page flag alone")
}

func TestNavigationDropsPendingCollection(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	require.NoError(t, h.engine.ForcePet(PetCat))
	h.mine(t, el)

	h.engine.Navigate(surfaceDoc(), "example.org")
	h.clock.Advance(collectDelay)
	assert.Nil(t, h.engine.Profile().Pets[PetCat])
	_, ok := h.engine.ActiveOverlay()
	assert.False(t, ok)
}

func TestForcedEnchantmentBookAndHaste(t *testing.T) {
	a := newTestElement("p", 0, 0, 200, 40)
	b := newTestElement("p", 0, 50, 200, 40)
	h := newHarness(t, nil, surfaceDoc(a, b))

	require.NoError(t, h.engine.ForceEnchantment(EnchantLooting))
	h.mine(t, a)
	h.clock.Advance(collectDelay)
	got := h.engine.Profile()
	require.Len(t, got.EnchantInventory, 1)
	assert.Equal(t, EnchantSlot{Type: EnchantLooting, Durability: 150, MaxDurability: 150}, got.EnchantInventory[0])
	assert.Equal(t, 1, got.Enchantments[EnchantLooting])
	assert.True(t, h.events.hasNotice("Looting book added to inventory!"))
	assert.True(t, h.engine.Page().Spawned[SpawnEnchantment])

	require.NoError(t, h.engine.ForceEnchantment(EnchantHaste))
	h.mine(t, b)
	h.clock.Advance(collectDelay)
	got = h.engine.Profile()
	require.NotNil(t, got.HasteEffect)
	assert.Equal(t, 20, got.HasteEffect.RemainingMines)
	assert.Len(t, got.EnchantInventory, 1, "haste never enters the inventory")
}

func TestChestOpens(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	h.engine.ForceSpawn(SpawnChest)
	h.mine(t, el)

	ev, ok := h.spawned(SpawnChest)
	require.True(t, ok)
	assert.ErrorIs(t, h.engine.OpenChest("bogus"), ErrNoEncounter)
	require.NoError(t, h.engine.OpenChest(ev.Handle))
	got := h.engine.Profile()
	assert.Equal(t, 1, got.Inventory[ResourceDiamond])
	assert.True(t, got.Achievements["treasure_hunter"])
	assert.ErrorIs(t, h.engine.OpenChest(ev.Handle), ErrNoEncounter, "a chest opens once")

	h.clock.Advance(chestCloseDelay)
	_, ok = h.engine.ActiveOverlay()
	assert.False(t, ok)
}

func TestVillagerTrade(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	h.engine.ForceSpawn(SpawnVillager)
	h.mine(t, el)

	ev, ok := h.spawned(SpawnVillager)
	require.True(t, ok)
	require.Len(t, ev.Trades, 3)
	assert.Equal(t, "coal_for_iron", ev.Trades[0].ID)
	assert.Equal(t, "iron_for_gold", ev.Trades[1].ID)

	before := h.engine.Profile()
	err := h.engine.Trade(ev.Handle, 1)
	assert.ErrorIs(t, err, ErrInsufficientResources)
	assert.Equal(t, before.Inventory, h.engine.Profile().Inventory, "a refused trade changes nothing")
	assert.ErrorIs(t, h.engine.Trade(ev.Handle, 7), ErrNoSuchIndex)

	_, err = h.engine.AddResource(ResourceCoal, 12)
	require.NoError(t, err)
	require.NoError(t, h.engine.Trade(ev.Handle, 0))
	got := h.engine.Profile()
	assert.Equal(t, 2, got.Inventory[ResourceCoal])
	assert.Equal(t, 3, got.Inventory[ResourceIron])
	assert.True(t, h.events.hasNotice("Trade completed!"))
	assert.ErrorIs(t, h.engine.Trade(ev.Handle, 0), ErrNoEncounter, "the villager leaves after trading")
}

func TestCreeperDefusedByCat(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	p := NewProfile()
	p.Pets[PetCat] = &PetState{Count: 1, Collected: true}
	p.Pets[PetDennis] = &PetState{Count: 1, Collected: true}
	h.engine.profile = p
	h.engine.ForceSpawn(SpawnCreeper)

	h.mine(t, el)
	got := h.engine.Profile()
	assert.Equal(t, 1, got.CatDeflections)
	assert.Equal(t, 1, got.Pets[PetCat].Uses)
	assert.Equal(t, 0, got.Pets[PetDennis].Uses, "only one pet defuses")
	_, ok := h.spawned(SpawnCreeper)
	assert.False(t, ok)

	xp := got.XP
	h.clock.Advance(defuseRewardDelay)
	assert.Equal(t, xp+1, h.engine.Profile().XP)
}

func blastPage() (*testElement, []*testElement, *testDocument) {
	anchor := newTestElement("div", 0, 0, 200, 40)
	var around []*testElement
	for i := 1; i <= 10; i++ {
		around = append(around, newTestElement("div", 0, float64(i)*60, 200, 40))
	}
	return anchor, around, surfaceDoc(append([]*testElement{anchor}, around...)...)
}

func TestCreeperExplodesNearestElements(t *testing.T) {
	anchor, around, doc := blastPage()
	h := newHarness(t, nil, doc)
	h.engine.ForceSpawn(SpawnCreeper)
	h.mine(t, anchor)
	_, ok := h.spawned(SpawnCreeper)
	require.True(t, ok)

	h.clock.Advance(encounterWindow)
	require.Len(t, h.events.of(EventExplosion), 1)
	assert.Equal(t, 8, h.events.of(EventExplosion)[0].Amount)
	h.clock.Advance(blastDelay + 8*blastStagger)

	assert.Equal(t, 9, h.engine.Page().Mined)
	for i, el := range around {
		if i < 8 {
			assert.Equal(t, "none", el.display, "element %d should be blasted", i)
		} else {
			assert.Empty(t, el.display, "element %d is out of range", i)
		}
	}

	assert.Equal(t, 9, h.engine.RestoreMined())
	assert.Empty(t, around[0].display)
	assert.Equal(t, 0, h.engine.Page().Mined)
}

func TestCreeperClickedTwiceIsDefused(t *testing.T) {
	anchor, around, doc := blastPage()
	h := newHarness(t, nil, doc)
	h.engine.ForceSpawn(SpawnCreeper)
	h.mine(t, anchor)

	defused, err := h.engine.ClickCreeper()
	require.NoError(t, err)
	assert.False(t, defused)
	defused, err = h.engine.ClickCreeper()
	require.NoError(t, err)
	assert.True(t, defused)

	h.clock.Advance(encounterWindow + 2*time.Second)
	assert.Empty(t, h.events.of(EventExplosion))
	assert.Empty(t, around[0].display)
}

func TestWardenStealsAndIsDefeated(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	p := NewProfile()
	p.Inventory[ResourceDiamond] = 6
	p.DiamondSword = 1
	h.engine.profile = p
	h.engine.ForceSpawn(SpawnWarden)

	h.mine(t, el)
	ev, ok := h.spawned(SpawnWarden)
	require.True(t, ok)
	assert.Contains(t, ev.Message, "4 Diamonds")
	assert.Equal(t, 2, h.engine.Profile().Inventory[ResourceDiamond])
	active, ok := h.engine.ActiveOverlay()
	require.True(t, ok)
	assert.Equal(t, SpawnWarden, active.Kind)
	assert.ErrorIs(t, h.engine.CloseOverlay(ev.Handle), ErrNoEncounter)

	require.NoError(t, h.engine.AttackWarden())
	assert.True(t, h.events.hasNotice("Diamond Sword broke!"))
	h.clock.Advance(wardenDefeatDelay)
	got := h.engine.Profile()
	assert.Equal(t, 0, got.DiamondSword)
	assert.Equal(t, 1001, got.XP)
	_, ok = h.engine.ActiveOverlay()
	assert.False(t, ok)
}

func TestWardenNeedsSword(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	assert.ErrorIs(t, h.engine.AttackWarden(), ErrNoEncounter)
	h.engine.ForceSpawn(SpawnWarden)
	h.mine(t, el)
	assert.ErrorIs(t, h.engine.AttackWarden(), ErrNothingToUse)

	require.NoError(t, h.engine.RetreatWarden())
	assert.Empty(t, el.display, "retreating reloads the page")
	assert.Equal(t, 0, h.engine.Page().Mined)
}

func TestWardenPenaltyOrder(t *testing.T) {
	slot := func(p *Profile, id EnchantID) {
		def, _ := LookupEnchantment(id)
		p.EnchantInventory = append(p.EnchantInventory, EnchantSlot{Type: id, Durability: def.Durability, MaxDurability: def.Durability})
		i := len(p.EnchantInventory) - 1
		p.ActiveEnchantIndex = &i
		p.syncToolEnchantment()
	}
	cases := []struct {
		name  string
		setup func(p *Profile)
		check func(t *testing.T, p *Profile, msg string)
	}{
		{"diamonds first", func(p *Profile) {
			p.Inventory[ResourceDiamond] = 2
			p.Pets[PetCat] = &PetState{Count: 1, Collected: true}
		}, func(t *testing.T, p *Profile, msg string) {
			assert.Equal(t, 0, p.Inventory[ResourceDiamond])
			assert.True(t, p.Pets[PetCat].Collected)
			assert.Contains(t, msg, "2 Diamonds")
		}},
		{"then a pet", func(p *Profile) {
			p.Pets[PetCat] = &PetState{Count: 1, Collected: true}
		}, func(t *testing.T, p *Profile, msg string) {
			assert.False(t, p.Pets[PetCat].Collected)
			assert.Equal(t, 0, p.Pets[PetCat].Count)
			assert.Contains(t, msg, "Cat")
		}},
		{"unbreaking protects", func(p *Profile) {
			p.CurrentTool = ToolWoodenAxe
			slot(p, EnchantUnbreaking)
		}, func(t *testing.T, p *Profile, msg string) {
			assert.Equal(t, 1, p.UnbreakingUses)
			assert.Len(t, p.EnchantInventory, 1)
			assert.Contains(t, msg, "2 protections remaining")
		}},
		{"spent unbreaking is stolen", func(p *Profile) {
			p.CurrentTool = ToolWoodenAxe
			slot(p, EnchantUnbreaking)
			p.UnbreakingUses = 3
		}, func(t *testing.T, p *Profile, msg string) {
			assert.Empty(t, p.EnchantInventory)
			assert.Equal(t, 0, p.UnbreakingUses)
			assert.Nil(t, p.ToolEnchantment)
		}},
		{"active enchantment stolen", func(p *Profile) {
			p.CurrentTool = ToolWoodenAxe
			slot(p, EnchantFortune)
		}, func(t *testing.T, p *Profile, msg string) {
			assert.Empty(t, p.EnchantInventory)
			assert.Nil(t, p.ActiveEnchantIndex)
			assert.Contains(t, msg, "Fortune Enchantment")
		}},
		{"hand falls through to xp", func(p *Profile) {
			slot(p, EnchantFortune)
			p.XP = 600
		}, func(t *testing.T, p *Profile, msg string) {
			assert.Equal(t, 100, p.XP)
			assert.Len(t, p.EnchantInventory, 1)
		}},
		{"fifth of small xp", func(p *Profile) {
			p.XP = 203
		}, func(t *testing.T, p *Profile, msg string) {
			assert.Equal(t, 163, p.XP)
			assert.Contains(t, msg, "40 XP")
		}},
		{"xp floor respected", func(p *Profile) {
			p.XP, p.TotalMined = 600, 400
		}, func(t *testing.T, p *Profile, msg string) {
			assert.Equal(t, 400, p.XP)
		}},
		{"nothing to lose", func(p *Profile) {}, func(t *testing.T, p *Profile, msg string) {
			assert.Contains(t, msg, "nothing to lose")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := New(Options{Rand: &FixedRand{}, Clock: NewManualClock(testStart)})
			p := NewProfile()
			tc.setup(p)
			e.profile = p
			msg := e.wardenPenalty()
			tc.check(t, p, msg)
		})
	}
}

func TestCraftingAndItems(t *testing.T) {
	h := newHarness(t, nil, surfaceDoc())
	assert.ErrorIs(t, h.engine.Craft(ItemTorch), ErrInsufficientResources)
	assert.ErrorIs(t, h.engine.Craft("anvil"), ErrUnknownItem)

	h.engine.AddResource(ResourceCoal, 8)
	h.engine.AddResource(ResourceGold, 2)
	require.NoError(t, h.engine.Craft(ItemTorch))
	got := h.engine.Profile()
	assert.Equal(t, 1, got.CraftedItems[ItemTorch])
	require.NotNil(t, got.SafeZone)
	assert.Equal(t, 25, got.SafeZone.RemainingMines)
	assert.Equal(t, 0, got.Inventory[ResourceCoal])
	assert.ErrorIs(t, h.engine.UseItem(ItemTorch), ErrEffectActive)

	h.engine.AddResource(ResourceGold, 8)
	h.engine.AddResource(ResourceEmerald, 1)
	require.NoError(t, h.engine.Craft(ItemGoldenApple))
	assert.Equal(t, 50, h.engine.Profile().XP)
	require.NoError(t, h.engine.UseItem(ItemGoldenApple))
	got = h.engine.Profile()
	assert.Equal(t, 100, got.XP)
	assert.Equal(t, 0, got.CraftedItems[ItemGoldenApple])
	assert.ErrorIs(t, h.engine.UseItem(ItemGoldenApple), ErrNothingToUse)

	h.engine.AddResource(ResourceDiamond, 15)
	require.NoError(t, h.engine.Craft(ItemDiamondSword))
	got = h.engine.Profile()
	assert.Equal(t, 3, got.DiamondSword)
	assert.True(t, got.Achievements["warden_slayer"])
}

func TestXPBoostExpires(t *testing.T) {
	h := newHarness(t, nil, surfaceDoc())
	h.engine.AddResource(ResourceRedstone, 12)
	h.engine.AddResource(ResourceGold, 4)
	require.NoError(t, h.engine.Craft(ItemRedstoneLamp))
	got := h.engine.Profile()
	require.NotNil(t, got.XPBoost)
	assert.Equal(t, 2.0, got.XPBoost.Multiplier)
	assert.True(t, h.events.hasNotice("2x XP for 120s!"))
	assert.ErrorIs(t, h.engine.UseItem(ItemRedstoneLamp), ErrEffectActive)

	h.clock.Advance(2 * time.Minute)
	got = h.engine.Profile()
	assert.Nil(t, got.XPBoost)
	assert.Equal(t, 0, got.CraftedItems[ItemRedstoneLamp])
	assert.True(t, h.events.hasNotice("XP boost ended!"))
}

func TestEffectChargesRunOut(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	p := NewProfile()
	p.SafeZone = &MineCounter{RemainingMines: 1}
	p.DoubleDrops = &MineCounter{RemainingMines: 2}
	p.HasteEffect = &MineCounter{RemainingMines: 1}
	p.CraftedItems[ItemTorch] = 1
	h.engine.profile = p

	h.mine(t, el)
	got := h.engine.Profile()
	assert.Nil(t, got.SafeZone)
	assert.Nil(t, got.HasteEffect)
	require.NotNil(t, got.DoubleDrops)
	assert.Equal(t, 1, got.DoubleDrops.RemainingMines)
	assert.Equal(t, 0, got.CraftedItems[ItemTorch])
	assert.True(t, h.events.hasNotice("Torch burned out!"))
	assert.True(t, h.events.hasNotice("Haste effect ended!"))
}

func TestColoredElementDropsResource(t *testing.T) {
	el := newTestElement("div", 0, 0, 200, 40)
	el.style.BackgroundColor = "rgb(20, 20, 20)"
	rng := &FixedRand{Floats: []float64{0.1}, Default: 0.99}
	h := newHarness(t, rng, surfaceDoc(el))

	h.mine(t, el)
	got := h.engine.Profile()
	assert.Equal(t, 1, got.Inventory[ResourceCoal])
	res := h.events.of(EventResource)
	require.Len(t, res, 1)
	assert.Equal(t, ResourceCoal, res[0].Resource)
}

func TestSelectEnchantmentToggles(t *testing.T) {
	h := newHarness(t, nil, surfaceDoc())
	require.NoError(t, h.engine.AddEnchantment(EnchantEfficiency))
	assert.ErrorIs(t, h.engine.AddEnchantment(EnchantHaste), ErrUnknownEnchantment)
	assert.ErrorIs(t, h.engine.SelectEnchantment(3), ErrNoSuchIndex)

	require.NoError(t, h.engine.SelectEnchantment(0))
	got := h.engine.Profile()
	require.NotNil(t, got.ToolEnchantment)
	assert.Equal(t, EnchantEfficiency, *got.ToolEnchantment)
	assert.True(t, got.Achievements["enchanter"])

	require.NoError(t, h.engine.SelectEnchantment(0))
	got = h.engine.Profile()
	assert.Nil(t, got.ToolEnchantment)
	assert.Nil(t, got.ActiveEnchantIndex)

	require.NoError(t, h.engine.ActivateEnchantment(0))
	require.NoError(t, h.engine.ActivateEnchantment(0))
	assert.NotNil(t, h.engine.Profile().ToolEnchantment, "activate never toggles off")
}

func TestDebugDiamondsAreCapped(t *testing.T) {
	h := newHarness(t, nil, surfaceDoc())
	assert.Equal(t, 10, h.engine.AddDiamonds(10))
	assert.Equal(t, 15, h.engine.AddDiamonds(10))
	h.engine.ResetDiamonds()
	got := h.engine.Profile()
	assert.Equal(t, 0, got.Inventory[ResourceDiamond])
	assert.Equal(t, 0, got.DiamondSword)
}

func TestLoadMigratesAndWritesBack(t *testing.T) {
	st := newMemStore()
	st.data[KeyPlayerData] = json.RawMessage(`{"xp":50,"totalMined":10,"currentTool":"wooden_axe","inventory":{"coal":3}}`)
	e := New(Options{Store: st, Rand: &FixedRand{}, Clock: NewManualClock(testStart)})
	require.NoError(t, e.Load(context.Background()))

	got := e.Profile()
	assert.Equal(t, ToolWoodenAxe, got.CurrentTool)
	assert.Equal(t, ToolWoodenAxe, got.HighestToolUnlocked)
	assert.Equal(t, 3, got.Inventory[ResourceCoal])
	assert.Len(t, got.DailyChallenges.Challenges, 3)
	assert.Equal(t, "2026-03-01", got.DailyChallenges.LastReset)

	var stored map[string]any
	require.NoError(t, json.Unmarshal(st.data[KeyPlayerData], &stored))
	assert.Contains(t, stored, "catDeflections")
	assert.Contains(t, stored, "pets")
	assert.Equal(t, "wooden_axe", stored["highestToolUnlocked"])
}

func TestLoadCreatesFreshProfile(t *testing.T) {
	st := newMemStore()
	e := New(Options{Store: st, Rand: &FixedRand{}, Clock: NewManualClock(testStart)})
	require.NoError(t, e.Load(context.Background()))
	assert.Contains(t, st.data, KeyPlayerData)
	assert.Equal(t, ToolHand, e.Profile().CurrentTool)
}

func TestLoadSurfacesStoreErrors(t *testing.T) {
	st := newMemStore()
	st.err = errors.New("disk on fire")
	e := New(Options{Store: st, Rand: &FixedRand{}, Clock: NewManualClock(testStart)})
	assert.Error(t, e.Load(context.Background()))
}

func TestPersistFailureDoesNotStopMining(t *testing.T) {
	el := newTestElement("p", 0, 0, 200, 40)
	h := newHarness(t, nil, surfaceDoc(el))
	log := &captureLogger{}
	h.engine.log = log
	h.store.err = errors.New("quota exceeded")

	h.mine(t, el)
	assert.Equal(t, 1, h.engine.Profile().TotalMined)
	assert.NotEmpty(t, log.warnings)
}
