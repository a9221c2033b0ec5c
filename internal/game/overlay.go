package game

import (
	"sync"

	"github.com/google/uuid"
)

type SpawnKind string

const (
	SpawnNone        SpawnKind = ""
	SpawnPet         SpawnKind = "pet"
	SpawnEnchantment SpawnKind = "enchantment"
	SpawnChest       SpawnKind = "chest"
	SpawnVillager    SpawnKind = "villager"
	SpawnZombie      SpawnKind = "zombie"
	SpawnCreeper     SpawnKind = "creeper"
	SpawnWarden      SpawnKind = "warden"
	// SpawnWardenWarning is an escalation stage, not a creature.
	SpawnWardenWarning SpawnKind = "warden_warning"
)

var overlayPriorities = map[SpawnKind]int{
	SpawnWarden:      100,
	SpawnVillager:    50,
	SpawnChest:       30,
	SpawnEnchantment: 20,
	SpawnPet:         10,
}

func OverlayPriority(kind SpawnKind) int {
	return overlayPriorities[kind]
}

// Overlay is the single modal spawn view currently on screen.
type Overlay struct {
	Handle   string
	Kind     SpawnKind
	Priority int
	// Anchor is the element the overlay was spawned over. When it leaves
	// the document the slot is freed by Sweep.
	Anchor  Element
	dismiss func()
}

// OverlayRegister arbitrates the one modal slot by priority. The owner of
// an overlay frees the slot with Release; Sweep catches anchors removed
// through any other path.
type OverlayRegister struct {
	mu     sync.Mutex
	active *Overlay
}

func NewOverlayRegister() *OverlayRegister {
	return &OverlayRegister{}
}

// Register installs an overlay of kind. An active overlay with equal or
// lower priority is dismissed first; a higher one blocks the new overlay
// with ErrOverlayBlocked. dismiss is invoked if this overlay is later
// preempted.
func (r *OverlayRegister) Register(kind SpawnKind, anchor Element, dismiss func()) (string, error) {
	r.mu.Lock()
	prio := OverlayPriority(kind)
	var preempted *Overlay
	if r.active != nil {
		if prio < r.active.Priority {
			r.mu.Unlock()
			return "", ErrOverlayBlocked
		}
		preempted = r.active
	}
	o := &Overlay{
		Handle:   uuid.NewString(),
		Kind:     kind,
		Priority: prio,
		Anchor:   anchor,
		dismiss:  dismiss,
	}
	r.active = o
	r.mu.Unlock()

	if preempted != nil && preempted.dismiss != nil {
		preempted.dismiss()
	}
	return o.Handle, nil
}

// Release frees the slot if handle still owns it. Stale handles are a
// no-op.
func (r *OverlayRegister) Release(handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil || r.active.Handle != handle {
		return false
	}
	r.active = nil
	return true
}

// Sweep frees the slot when its anchor is no longer attached.
func (r *OverlayRegister) Sweep() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil || r.active.Anchor == nil || r.active.Anchor.Attached() {
		return "", false
	}
	h := r.active.Handle
	r.active = nil
	return h, true
}

// Active returns a copy of the current overlay.
func (r *OverlayRegister) Active() (Overlay, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return Overlay{}, false
	}
	o := *r.active
	o.dismiss = nil
	return o, true
}

// Clear drops the slot without dismiss hooks; used on navigation.
func (r *OverlayRegister) Clear() {
	r.mu.Lock()
	r.active = nil
	r.mu.Unlock()
}
