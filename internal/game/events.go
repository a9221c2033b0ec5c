package game

type EventKind string

const (
	EventNotice        EventKind = "notice"
	EventProgress      EventKind = "progress"
	EventMined         EventKind = "mined"
	EventCancelled     EventKind = "cancelled"
	EventXPGain        EventKind = "xp_gain"
	EventResource      EventKind = "resource"
	EventToolUpgrade   EventKind = "tool_upgrade"
	EventAchievement   EventKind = "achievement"
	EventChallenge     EventKind = "challenge"
	EventWardenWarning EventKind = "warden_warning"
	EventSpawn         EventKind = "spawn"
	EventDespawn       EventKind = "despawn"
	EventExplosion     EventKind = "explosion"
	EventHidden        EventKind = "hidden"
	EventRestored      EventKind = "restored"
	EventProfile       EventKind = "profile"
	EventMiningMode    EventKind = "mining_mode"
	EventInventory     EventKind = "inventory"
)

// Event is what hosts render. Only the fields relevant to Kind are set.
type Event struct {
	Kind        EventKind
	Message     string
	Element     Element
	XP          int
	Resource    ResourceID
	Amount      int
	Spawn       SpawnKind
	Handle      string
	Pet         PetID
	Enchantment EnchantID
	Trades      []Trade
	Achievement AchievementID
	Tool        ToolID
	Challenge   string
	Progress    float64
	Enabled     bool
}

type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

func notice(msg string) Event {
	return Event{Kind: EventNotice, Message: msg}
}
