package game

import (
	"strings"
	"time"
)

// Progression evaluates tool tiers, achievements and daily challenges.
// All methods mutate the profile they are given and report what changed.
type Progression struct {
	rng Rand
}

func NewProgression(rng Rand) *Progression {
	return &Progression{rng: rng}
}

// RecomputeTool equips the best of the tool affordable by XP and the
// highest tool ever unlocked. Tools never downgrade.
func (pr *Progression) RecomputeTool(p *Profile) (ToolID, bool) {
	prev := p.CurrentTool
	affordable := 0
	for i := len(Tools) - 1; i >= 0; i-- {
		if p.XP >= Tools[i].XPRequired {
			affordable = i
			break
		}
	}
	highest := ToolIndex(p.HighestToolUnlocked)
	if affordable > highest {
		p.HighestToolUnlocked = Tools[affordable].ID
		highest = affordable
	}
	best := max(affordable, highest, ToolIndex(p.CurrentTool))
	p.CurrentTool = Tools[best].ID
	if ToolIndex(p.HighestToolUnlocked) < best {
		p.HighestToolUnlocked = p.CurrentTool
	}
	return p.CurrentTool, p.CurrentTool != prev
}

func requirementMet(p *Profile, req Requirement) bool {
	switch req.Kind {
	case ReqTotalMined:
		return p.TotalMined >= req.Value
	case ReqTool:
		return p.CurrentTool == req.Tool
	case ReqPets:
		return p.CollectedPets() >= req.Value
	case ReqDiamonds:
		return p.Inventory[ResourceDiamond] >= req.Value
	case ReqHasDiamondSword:
		return p.DiamondSword > 0
	case ReqHasEnchantment:
		return p.ToolEnchantment != nil
	case ReqDeepMining:
		return p.DeepMiningCount >= req.Value
	case ReqXP:
		return p.XP >= req.Value
	case ReqChallengesCompleted:
		return p.ChallengesCompleted >= req.Value
	}
	return false
}

// CheckAchievements unlocks every achievement whose requirement now holds.
// Unlocked achievements are never revisited.
func (pr *Progression) CheckAchievements(p *Profile) []Achievement {
	var unlocked []Achievement
	for _, a := range Achievements {
		if p.Achievements[a.ID] {
			continue
		}
		if requirementMet(p, a.Requirement) {
			p.Achievements[a.ID] = true
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

func challengeMatches(id, base string) bool {
	if id == base {
		return true
	}
	return strings.HasPrefix(id, base+"_") || strings.HasPrefix(id, base+"-")
}

// AdvanceChallenge adds amount to every open challenge matching base
// (exactly or as a suffixed variant) and completes those that reach their
// target. Rewards are granted once.
func (pr *Progression) AdvanceChallenge(p *Profile, base string, amount int) []ChallengeDef {
	var done []ChallengeDef
	for i := range p.DailyChallenges.Challenges {
		c := &p.DailyChallenges.Challenges[i]
		if c.Completed || !challengeMatches(c.ID, base) {
			continue
		}
		c.Progress += amount
		if c.Progress < c.Target {
			continue
		}
		c.Completed = true
		p.DailyChallenges.Completed = append(p.DailyChallenges.Completed, c.ID)
		p.ChallengesCompleted++
		def, ok := lookupChallenge(c.ID)
		if !ok {
			continue
		}
		pr.applyReward(p, def.Reward)
		done = append(done, def)
	}
	return done
}

func (pr *Progression) applyReward(p *Profile, r ChallengeReward) {
	switch r.Kind {
	case RewardXP:
		p.AddXP(r.Amount)
		pr.RecomputeTool(p)
	case RewardDiamond:
		p.Inventory[ResourceDiamond] = min(diamondInventoryCap, p.Inventory[ResourceDiamond]+r.Amount)
	case RewardChest:
		p.GuaranteedChest = true
	}
}

func utcDay(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func nextUTCMidnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

// EnsureDaily regenerates the daily challenges when the UTC day changed:
// one easy, one medium and one hard challenge.
func (pr *Progression) EnsureDaily(p *Profile, now time.Time) bool {
	today := utcDay(now)
	if p.DailyChallenges.LastReset == today && len(p.DailyChallenges.Challenges) > 0 {
		return false
	}
	var easy, medium, hard []ChallengeDef
	for _, c := range DailyChallenges {
		switch {
		case c.Difficulty <= 2:
			easy = append(easy, c)
		case c.Difficulty <= 4:
			medium = append(medium, c)
		default:
			hard = append(hard, c)
		}
	}
	picked := make([]Challenge, 0, 3)
	for _, band := range [][]ChallengeDef{easy, medium, hard} {
		if len(band) == 0 {
			continue
		}
		def := band[pr.rng.IntN(len(band))]
		picked = append(picked, Challenge{ID: def.ID, Target: def.Target})
	}
	p.DailyChallenges = DailyChallengeState{
		LastReset:     today,
		NextResetTime: nextUTCMidnight(now).UnixMilli(),
		Challenges:    picked,
		Completed:     []string{},
	}
	return true
}
