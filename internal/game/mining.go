package game

import (
	"math"
	"time"
)

const zombieSlowdownFactor = 2

// MiningTime computes how long el takes to mine with p's current loadout.
// Speed pets spend a use each time this is called; an expired zombie
// slowdown is cleared. The result is floored at 100ms.
func MiningTime(p *Profile, now time.Time) (time.Duration, []Event) {
	var events []Event
	tool, ok := LookupTool(p.CurrentTool)
	if !ok {
		tool = Tools[0]
	}
	d := tool.Speed

	for _, id := range []PetID{PetToad, PetWhiteToad} {
		used, left := p.usePet(id)
		def, _ := LookupPet(id)
		if used {
			d -= def.SpeedBonus
		}
		if left {
			events = append(events, notice(def.LeaveNotice))
		}
	}

	if p.enchantActive(EnchantEfficiency) {
		e, _ := LookupEnchantment(EnchantEfficiency)
		d = scaleDuration(d, e.TimeMultiplier)
	}

	if p.zombieActive(now) {
		d *= zombieSlowdownFactor
	} else if p.ZombieSlowdown != nil {
		p.ZombieSlowdown = nil
		events = append(events, notice("🐌 Zombie slowdown wore off"))
	}

	if p.hasteActive() {
		h, _ := LookupEnchantment(EnchantHaste)
		d = scaleDuration(d, h.TimeMultiplier)
	}

	return max(d, minMiningTime), events
}

// XPGain computes the XP for one completed mine. depthXP is the zone value
// of the mined element. Flat pet bonuses spend a use.
func XPGain(p *Profile, depthXP int, isAd bool, now time.Time) (int, []Event) {
	var events []Event
	gain := float64(depthXP)
	if isAd {
		mult := 2.0
		if p.enchantActive(EnchantSilkTouch) {
			e, _ := LookupEnchantment(EnchantSilkTouch)
			mult = e.AdXPMultiplier
		}
		gain *= mult
	}
	if p.enchantActive(EnchantFortune) {
		e, _ := LookupEnchantment(EnchantFortune)
		gain *= e.XPMultiplier
	}
	for _, id := range []PetID{PetAllay, PetAxolotl} {
		used, left := p.usePet(id)
		def, _ := LookupPet(id)
		if used {
			gain += float64(def.XPBonus)
		}
		if left {
			events = append(events, notice(def.LeaveNotice))
		}
	}
	if p.xpBoostActive(now) {
		gain = math.Floor(gain * p.XPBoost.Multiplier)
	}
	return int(math.Floor(gain)), events
}

func scaleDuration(d time.Duration, f float64) time.Duration {
	return time.Duration(math.Round(float64(d) * f))
}
