package game

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Drop is one classifier outcome.
type Drop struct {
	Resource ResourceID
	Amount   int
	// DeepBonus marks the deep-dark diamond roll that bypasses color.
	DeepBonus bool
	// Fallback marks an award made after every independent roll failed.
	Fallback bool
	Color    HSL
}

type Candidate struct {
	ID   ResourceID
	Rate float64
}

// Classifier turns a mined element into a resource drop.
type Classifier struct {
	rng Rand
}

func NewClassifier(rng Rand) *Classifier {
	return &Classifier{rng: rng}
}

// Match returns every resource whose range contains c, rarest first. The
// diamond rate is replaced by the shallow constant outside the deep dark
// and diamond is excluded inside it.
func Match(c HSL, zone Zone) []Candidate {
	var out []Candidate
	for _, r := range Resources {
		if !r.Range.Contains(c) {
			continue
		}
		rate := r.DropRate
		if r.ID == ResourceDiamond {
			if zone == ZoneDeepDark {
				continue
			}
			rate = shallowDiamondRate
		}
		out = append(out, Candidate{ID: r.ID, Rate: rate})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate < out[j].Rate })
	return out
}

// Classify decides the drop for el. It does not mutate p; fortune and
// double drops only shape the quantity.
func (c *Classifier) Classify(el Element, zone Zone, p *Profile) (Drop, bool) {
	if zone == ZoneDeepDark && c.rng.Float64() < deepDiamondChance {
		return Drop{Resource: ResourceDiamond, Amount: c.amount(p), DeepBonus: true}, true
	}
	col, ok := DominantColor(el)
	if !ok {
		return Drop{}, false
	}
	return c.classifyColor(col, zone, p)
}

func (c *Classifier) classifyColor(col colorful.Color, zone Zone, p *Profile) (Drop, bool) {
	hsl := ToHSL(col)
	matches := Match(hsl, zone)
	if len(matches) == 0 {
		return Drop{Color: hsl}, false
	}
	for _, m := range matches {
		if c.rng.Float64() < m.Rate {
			return Drop{Resource: m.ID, Amount: c.amount(p), Color: hsl}, true
		}
	}
	return Drop{Resource: matches[0].ID, Amount: c.amount(p), Fallback: true, Color: hsl}, true
}

func (c *Classifier) amount(p *Profile) int {
	n := 1
	if p.enchantActive(EnchantFortune) {
		n += c.rng.IntN(2)
	}
	if p.doubleDropsActive() {
		n *= 2
	}
	return n
}
