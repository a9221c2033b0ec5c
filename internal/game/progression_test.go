package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeToolNeverDowngrades(t *testing.T) {
	pr := NewProgression(&FixedRand{})
	p := NewProfile()

	trajectory := []int{0, 99, 100, 600, 1600, 200, 0, 5000, 1500}
	last := 0
	for _, xp := range trajectory {
		p.XP = xp
		pr.RecomputeTool(p)
		idx := ToolIndex(p.CurrentTool)
		if idx < last {
			t.Fatalf("tool downgraded at xp=%d: %s", xp, p.CurrentTool)
		}
		last = idx
	}
	assert.Equal(t, ToolGoldenAxe, p.CurrentTool)
	assert.Equal(t, ToolGoldenAxe, p.HighestToolUnlocked)
}

func TestRecomputeToolReportsChange(t *testing.T) {
	pr := NewProgression(&FixedRand{})
	p := NewProfile()
	p.XP = 100
	tool, changed := pr.RecomputeTool(p)
	assert.True(t, changed)
	assert.Equal(t, ToolWoodenAxe, tool)

	_, changed = pr.RecomputeTool(p)
	assert.False(t, changed)
}

func TestCheckAchievementsIsWriteOnce(t *testing.T) {
	pr := NewProgression(&FixedRand{})
	p := NewProfile()
	p.TotalMined = 1
	p.XP = 1

	got := pr.CheckAchievements(p)
	require.Len(t, got, 1)
	assert.Equal(t, AchievementID("first_mine"), got[0].ID)

	assert.Empty(t, pr.CheckAchievements(p))
	p.TotalMined = 0
	assert.True(t, p.Achievements["first_mine"], "achievements stay unlocked")
}

func TestCheckAchievementsDiamondsUsesInventory(t *testing.T) {
	pr := NewProgression(&FixedRand{})
	p := NewProfile()
	p.Inventory[ResourceDiamond] = 1
	var ids []AchievementID
	for _, a := range pr.CheckAchievements(p) {
		ids = append(ids, a.ID)
	}
	assert.Contains(t, ids, AchievementID("treasure_hunter"))
}

func TestAdvanceChallengeMatchesVariants(t *testing.T) {
	pr := NewProgression(&FixedRand{})
	p := NewProfile()
	p.DailyChallenges.Challenges = []Challenge{
		{ID: "mine_blocks_easy", Target: 2},
		{ID: "mine_blocks", Target: 50},
		{ID: "mine_ads", Target: 10},
	}

	done := pr.AdvanceChallenge(p, "mine_blocks", 1)
	assert.Empty(t, done)
	assert.Equal(t, 1, p.DailyChallenges.Challenges[0].Progress)
	assert.Equal(t, 1, p.DailyChallenges.Challenges[1].Progress)
	assert.Equal(t, 0, p.DailyChallenges.Challenges[2].Progress)

	done = pr.AdvanceChallenge(p, "mine_blocks", 1)
	require.Len(t, done, 1)
	assert.Equal(t, "mine_blocks_easy", done[0].ID)
	assert.Equal(t, 1, p.ChallengesCompleted)
	assert.Equal(t, 50, p.XP, "easy reward is +50 XP")

	pr.AdvanceChallenge(p, "mine_blocks", 5)
	assert.Equal(t, 2, p.DailyChallenges.Challenges[0].Progress, "completed challenges stop advancing")
	assert.Equal(t, []string{"mine_blocks_easy"}, p.DailyChallenges.Completed)
}

func TestChallengeRewards(t *testing.T) {
	pr := NewProgression(&FixedRand{})

	p := NewProfile()
	p.Inventory[ResourceDiamond] = 14
	p.DailyChallenges.Challenges = []Challenge{{ID: "collect_pets", Target: 1}}
	pr.AdvanceChallenge(p, "collect_pets", 1)
	assert.Equal(t, 15, p.Inventory[ResourceDiamond], "diamond rewards cap at 15")

	p = NewProfile()
	p.DailyChallenges.Challenges = []Challenge{{ID: "survive_warden", Target: 1}}
	pr.AdvanceChallenge(p, "survive_warden", 1)
	assert.True(t, p.GuaranteedChest)
}

func TestEnsureDailyPicksOnePerBand(t *testing.T) {
	pr := NewProgression(&FixedRand{Ints: []int{0, 1, 2}})
	p := NewProfile()
	now := time.Date(2026, 3, 4, 22, 30, 0, 0, time.UTC)

	require.True(t, pr.EnsureDaily(p, now))
	require.Len(t, p.DailyChallenges.Challenges, 3)

	bands := map[int]bool{}
	for _, c := range p.DailyChallenges.Challenges {
		def, ok := lookupChallenge(c.ID)
		require.True(t, ok)
		switch {
		case def.Difficulty <= 2:
			bands[0] = true
		case def.Difficulty <= 4:
			bands[1] = true
		default:
			bands[2] = true
		}
	}
	assert.Len(t, bands, 3)
	assert.Equal(t, "2026-03-04", p.DailyChallenges.LastReset)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC).UnixMilli(), p.DailyChallenges.NextResetTime)

	assert.False(t, pr.EnsureDaily(p, now.Add(time.Hour)), "same UTC day keeps challenges")
	assert.True(t, pr.EnsureDaily(p, now.Add(2*time.Hour)), "next UTC day regenerates")
}
