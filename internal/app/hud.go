package app

import (
	"fmt"
	"sort"
	"time"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

const defaultFeedSize = 8

// Encounter is a spawn the player can act on.
type Encounter struct {
	Kind    game.SpawnKind
	Handle  string
	Message string
	Element game.Element
	Trades  []game.Trade
	Since   time.Time
}

// Message is one line of the notification feed.
type Message struct {
	Kind game.EventKind
	Text string
	At   time.Time
}

// HUD folds engine events into what a host draws: the notification feed,
// open encounters and the mining progress of the current target.
type HUD struct {
	feedSize   int
	messages   []Message
	encounters map[game.SpawnKind]Encounter

	Target       game.Element
	Progress     float64
	MiningMode   bool
	Inventory    bool
	WardenStage  int
	Explosions   int
	LastExplode  game.Element
	MinedOnPage  int
	HiddenOnPage int
}

func NewHUD(feedSize int) *HUD {
	if feedSize < 1 {
		feedSize = defaultFeedSize
	}
	return &HUD{feedSize: feedSize, encounters: map[game.SpawnKind]Encounter{}}
}

// Apply records ev. now stamps feed messages and encounters.
func (h *HUD) Apply(ev game.Event, now time.Time) {
	switch ev.Kind {
	case game.EventProgress:
		h.Target = ev.Element
		h.Progress = ev.Progress
	case game.EventCancelled:
		h.Target, h.Progress = nil, 0
	case game.EventMined:
		h.Target, h.Progress = nil, 0
		h.MinedOnPage++
	case game.EventHidden:
		h.HiddenOnPage++
	case game.EventRestored:
		h.HiddenOnPage = max(0, h.HiddenOnPage-1)
	case game.EventMiningMode:
		h.MiningMode = ev.Enabled
	case game.EventInventory:
		if ev.Message == "" {
			h.Inventory = ev.Enabled
		}
	case game.EventWardenWarning:
		h.WardenStage = ev.Amount
	case game.EventSpawn:
		h.encounters[ev.Spawn] = Encounter{
			Kind:    ev.Spawn,
			Handle:  ev.Handle,
			Message: ev.Message,
			Element: ev.Element,
			Trades:  ev.Trades,
			Since:   now,
		}
		if ev.Spawn == game.SpawnWarden {
			h.WardenStage = 0
		}
	case game.EventDespawn:
		h.despawn(ev.Spawn, ev.Handle)
	case game.EventExplosion:
		delete(h.encounters, game.SpawnCreeper)
		h.Explosions++
		h.LastExplode = ev.Element
	}
	if text := messageFor(ev); text != "" {
		h.push(Message{Kind: ev.Kind, Text: text, At: now})
	}
}

func (h *HUD) despawn(kind game.SpawnKind, handle string) {
	if kind != game.SpawnNone {
		if enc, ok := h.encounters[kind]; ok && (handle == "" || enc.Handle == handle) {
			delete(h.encounters, kind)
		}
		return
	}
	for k, enc := range h.encounters {
		if handle != "" && enc.Handle == handle {
			delete(h.encounters, k)
		}
	}
}

func (h *HUD) push(m Message) {
	h.messages = append(h.messages, m)
	if over := len(h.messages) - h.feedSize; over > 0 {
		h.messages = h.messages[over:]
	}
}

// Messages returns the feed, oldest first.
func (h *HUD) Messages() []Message {
	return append([]Message(nil), h.messages...)
}

// Expire drops feed lines older than ttl.
func (h *HUD) Expire(now time.Time, ttl time.Duration) {
	kept := h.messages[:0]
	for _, m := range h.messages {
		if now.Sub(m.At) < ttl {
			kept = append(kept, m)
		}
	}
	h.messages = kept
}

// Reset forgets page-scoped state after a navigation.
func (h *HUD) Reset() {
	h.encounters = map[game.SpawnKind]Encounter{}
	h.Target, h.Progress = nil, 0
	h.WardenStage = 0
	h.MinedOnPage, h.HiddenOnPage = 0, 0
	h.LastExplode = nil
}

// mob encounters have no overlay slot but need an answer within seconds,
// so they rank between the warden and the villager.
var encounterRank = map[game.SpawnKind]int{
	game.SpawnCreeper: 90,
	game.SpawnZombie:  80,
}

func rank(kind game.SpawnKind) int {
	if r, ok := encounterRank[kind]; ok {
		return r
	}
	return game.OverlayPriority(kind)
}

// Encounters lists open encounters, most urgent first.
func (h *HUD) Encounters() []Encounter {
	out := make([]Encounter, 0, len(h.encounters))
	for _, enc := range h.encounters {
		out = append(out, enc)
	}
	sort.Slice(out, func(i, j int) bool { return rank(out[i].Kind) > rank(out[j].Kind) })
	return out
}

// Top is the encounter a host should show first.
func (h *HUD) Top() (Encounter, bool) {
	list := h.Encounters()
	if len(list) == 0 {
		return Encounter{}, false
	}
	return list[0], true
}

func messageFor(ev game.Event) string {
	if ev.Message != "" {
		return ev.Message
	}
	switch ev.Kind {
	case game.EventXPGain:
		if ev.XP > 0 {
			return fmt.Sprintf("+%d XP", ev.XP)
		}
	case game.EventResource:
		if res, ok := game.LookupResource(ev.Resource); ok {
			return fmt.Sprintf("%s +%d %s", res.Icon, ev.Amount, res.Name)
		}
	case game.EventCancelled:
		return "Mining cancelled"
	case game.EventMiningMode:
		if ev.Enabled {
			return "⛏️ Mining mode ON"
		}
		return "⛏️ Mining mode OFF"
	}
	return ""
}

// Choices lists the actions available for enc, in the order Act takes
// them.
func Choices(enc Encounter) []string {
	switch enc.Kind {
	case game.SpawnChest:
		return []string{"Open chest", "Leave it"}
	case game.SpawnVillager:
		out := make([]string, 0, len(enc.Trades)+1)
		for _, t := range enc.Trades {
			out = append(out, t.Label)
		}
		return append(out, "No thanks")
	case game.SpawnWarden:
		return []string{"Attack with Diamond Sword", "Retreat"}
	case game.SpawnZombie:
		return []string{"Strike the zombie"}
	case game.SpawnCreeper:
		return []string{"Defuse (click twice)"}
	case game.SpawnPet, game.SpawnEnchantment:
		return []string{"Dismiss"}
	}
	return nil
}

// Act performs choice on enc against e. The returned text is feedback for
// the player; an error means the choice was refused.
func Act(e *game.Engine, enc Encounter, choice int) (string, error) {
	switch enc.Kind {
	case game.SpawnChest:
		if choice == 0 {
			return "", e.OpenChest(enc.Handle)
		}
		return "", e.CloseOverlay(enc.Handle)
	case game.SpawnVillager:
		if choice < 0 || choice >= len(enc.Trades) {
			return "", e.CloseOverlay(enc.Handle)
		}
		return "", e.Trade(enc.Handle, choice)
	case game.SpawnWarden:
		if choice == 0 {
			if err := e.AttackWarden(); err != nil {
				return "You need a Diamond Sword to fight the Warden!", err
			}
			return "⚔️ You strike the Warden!", nil
		}
		if err := e.RetreatWarden(); err != nil {
			return "", err
		}
		return "🏃 You fled. The page is as you found it.", nil
	case game.SpawnZombie:
		return "", e.StrikeZombie()
	case game.SpawnCreeper:
		defused, err := e.ClickCreeper()
		if err != nil || defused {
			return "", err
		}
		return "Hit it again!", nil
	case game.SpawnPet, game.SpawnEnchantment:
		return "", e.CloseOverlay(enc.Handle)
	}
	return "", game.ErrNoEncounter
}
