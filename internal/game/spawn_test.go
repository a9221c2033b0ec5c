package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArbiterPerPageSpawnCaps(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 2026} {
		a := NewArbiter(seededRNG(seed))
		p := NewProfile()
		page := NewPageSession("example.com")
		counts := map[SpawnKind]int{}
		for i := 0; i < 3000; i++ {
			d := a.Decide(ArbiterInput{Profile: p, Page: page, Debug: &DebugFlags{}})
			if d.Kind == SpawnEnchantment && d.Enchantment == EnchantHaste {
				counts["haste"]++
				continue
			}
			counts[d.Kind]++
		}
		assert.LessOrEqual(t, counts[SpawnChest], 1, "seed %d chest", seed)
		assert.LessOrEqual(t, counts[SpawnVillager], 1, "seed %d villager", seed)
		assert.LessOrEqual(t, counts[SpawnPet], 1, "seed %d pet", seed)
		assert.LessOrEqual(t, counts[SpawnEnchantment]+counts["haste"], 1, "seed %d enchantment", seed)
		assert.Greater(t, counts[SpawnCreeper]+counts[SpawnZombie], 0, "seed %d mobs are uncapped", seed)
	}
}

func TestArbiterDebugFlagsWinInFixedOrder(t *testing.T) {
	a := NewArbiter(&FixedRand{Default: 0.99})
	p := NewProfile()
	page := NewPageSession("example.com")
	dbg := &DebugFlags{Pet: PetCat, Creeper: true, Chest: true, Warden: true, Zombie: true, Villager: true, Enchantment: true, EnchantmentID: EnchantLooting}

	want := []SpawnKind{SpawnPet, SpawnCreeper, SpawnChest, SpawnWarden, SpawnZombie, SpawnVillager, SpawnEnchantment}
	for _, kind := range want {
		d := a.Decide(ArbiterInput{Profile: p, Page: page, Debug: dbg, Deep: true})
		require.Equal(t, kind, d.Kind)
		assert.True(t, d.Forced)
	}
	assert.Equal(t, DebugFlags{}, *dbg, "every flag is cleared once consumed")
	assert.True(t, page.Spawned[SpawnEnchantment], "forced enchantment blocks the natural one")

	d := a.Decide(ArbiterInput{Profile: p, Page: page, Debug: dbg})
	assert.Equal(t, SpawnNone, d.Kind)
}

func TestArbiterWardenEscalation(t *testing.T) {
	a := NewArbiter(&FixedRand{Floats: []float64{0.4}, Default: 0.99})
	p := NewProfile()
	page := NewPageSession("example.com")
	in := ArbiterInput{Profile: p, Page: page, Debug: &DebugFlags{}, Deep: true}

	for stage := 1; stage <= 4; stage++ {
		d := a.Decide(in)
		require.Equal(t, SpawnWardenWarning, d.Kind, "stage %d", stage)
		assert.Equal(t, stage, d.WardenStage)
		assert.Equal(t, stage == 4, d.Delayed)
	}
	assert.Equal(t, "Warden emerges...", wardenStageMessages[4])

	d := a.Decide(in)
	assert.NotEqual(t, SpawnWardenWarning, d.Kind, "sequence ends after stage 4")
}

func TestArbiterWardenHalvedUnderSafeZone(t *testing.T) {
	p := NewProfile()
	p.SafeZone = &MineCounter{RemainingMines: 3}
	a := NewArbiter(&FixedRand{Floats: []float64{0.3}, Default: 0.99})
	page := NewPageSession("example.com")

	d := a.Decide(ArbiterInput{Profile: p, Page: page, Debug: &DebugFlags{}, Deep: true})
	assert.NotEqual(t, SpawnWardenWarning, d.Kind)
	assert.False(t, page.Warden.Triggered)
}

func TestArbiterWardenOnlyInDeepZone(t *testing.T) {
	a := NewArbiter(&FixedRand{Default: 0.99, Floats: []float64{0.01}})
	page := NewPageSession("example.com")
	d := a.Decide(ArbiterInput{Profile: NewProfile(), Page: page, Debug: &DebugFlags{}})
	assert.NotEqual(t, SpawnWardenWarning, d.Kind)
	assert.False(t, page.Warden.Triggered)
}

func TestArbiterHasteRateDependsOnTool(t *testing.T) {
	p := NewProfile()
	a := NewArbiter(&FixedRand{Floats: []float64{0.2}, Default: 0.99})
	d := a.Decide(ArbiterInput{Profile: p, Page: NewPageSession("a"), Debug: &DebugFlags{}})
	assert.Equal(t, EnchantHaste, d.Enchantment)

	p.CurrentTool = ToolIronAxe
	a = NewArbiter(&FixedRand{Floats: []float64{0.2}, Default: 0.99})
	d = a.Decide(ArbiterInput{Profile: p, Page: NewPageSession("a"), Debug: &DebugFlags{}})
	assert.NotEqual(t, SpawnEnchantment, d.Kind)
}

func TestArbiterEnchantmentTableRarestFirst(t *testing.T) {
	a := NewArbiter(&FixedRand{Floats: []float64{0.99, 0.0001}, Default: 0.99})
	d := a.Decide(ArbiterInput{Profile: NewProfile(), Page: NewPageSession("a"), Debug: &DebugFlags{}})
	require.Equal(t, SpawnEnchantment, d.Kind)
	assert.Equal(t, EnchantLooting, d.Enchantment)
}

func TestArbiterChestGuaranteedAndCapped(t *testing.T) {
	p := NewProfile()
	p.GuaranteedChest = true
	a := NewArbiter(&FixedRand{Default: 0.99})
	page := NewPageSession("a")
	d := a.Decide(ArbiterInput{Profile: p, Page: page, Debug: &DebugFlags{}})
	assert.Equal(t, SpawnChest, d.Kind)
	assert.False(t, p.GuaranteedChest)

	p = NewProfile()
	p.GuaranteedChest = true
	p.Inventory[ResourceDiamond] = diamondInventoryCap
	d = a.Decide(ArbiterInput{Profile: p, Page: NewPageSession("a"), Debug: &DebugFlags{}})
	assert.NotEqual(t, SpawnChest, d.Kind)
}

func TestArbiterMobSplit(t *testing.T) {
	cases := []struct {
		split float64
		want  SpawnKind
	}{
		{0.64, SpawnCreeper},
		{0.65, SpawnZombie},
	}
	for _, tc := range cases {
		// haste, enchant table, chest rate, chest roll, mob roll, split
		r := &FixedRand{Floats: []float64{0.99, 0.99, 0, 0.99, 0.1, tc.split}, Default: 0.99}
		d := NewArbiter(r).Decide(ArbiterInput{Profile: NewProfile(), Page: NewPageSession("a"), Debug: &DebugFlags{}})
		assert.Equal(t, tc.want, d.Kind)
	}
}

func TestArbiterPetSkipsCappedAndHonoursLooting(t *testing.T) {
	p := NewProfile()
	p.Pets[PetAllay] = &PetState{Count: 1}
	// haste, enchant, chest rate, chest roll, mob, villager, pet draw
	r := &FixedRand{Floats: []float64{0.99, 0.99, 0, 0.99, 0.99, 0.99, 0.01}, Default: 0.99}
	d := NewArbiter(r).Decide(ArbiterInput{Profile: p, Page: NewPageSession("a"), Debug: &DebugFlags{}})
	require.Equal(t, SpawnPet, d.Kind)
	assert.Equal(t, PetAxolotl, d.Pet)

	p = NewProfile()
	p.addEnchantBook(EnchantLooting)
	i := 0
	p.ActiveEnchantIndex = &i
	r = &FixedRand{Floats: []float64{0.99, 0.99, 0, 0.99, 0.99, 0.99, 0.04}, Default: 0.99}
	d = NewArbiter(r).Decide(ArbiterInput{Profile: p, Page: NewPageSession("a"), Debug: &DebugFlags{}})
	require.Equal(t, SpawnPet, d.Kind)
	assert.Equal(t, PetAllay, d.Pet, "looting doubles allay's interval to 0.05")
}

func TestArbiterVillagerTradesAreDistinct(t *testing.T) {
	a := NewArbiter(seededRNG(5))
	for i := 0; i < 50; i++ {
		trades := a.trades()
		require.GreaterOrEqual(t, len(trades), 3)
		require.LessOrEqual(t, len(trades), 5)
		seen := map[string]bool{}
		for _, tr := range trades {
			require.False(t, seen[tr.ID], "duplicate trade %s", tr.ID)
			seen[tr.ID] = true
		}
	}
}
