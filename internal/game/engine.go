package game

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultSaveTimeout = 5 * time.Second

type Options struct {
	Store        Store
	Clock        Clock
	Rand         Rand
	Logger       Logger
	Notifier     Notifier
	TickInterval time.Duration
	SaveTimeout  time.Duration
}

// Engine owns the profile and the page session and runs every mining,
// spawn and progression flow against them. Public methods are safe for
// concurrent use; scheduled callbacks re-enter through the same lock.
//
// The Notifier is called with the engine lock held and must not call back
// into the engine synchronously.
type Engine struct {
	mu sync.Mutex

	store       Store
	clock       Clock
	rng         Rand
	log         Logger
	notifier    Notifier
	tick        time.Duration
	saveTimeout time.Duration

	arbiter     *Arbiter
	classifier  *Classifier
	progression *Progression
	overlays    *OverlayRegister

	profile  *Profile
	doc      Document
	page     *PageSession
	debug    DebugFlags
	disabled bool

	session    Session
	sessionSeq int
	tickTimer  Timer
	boostTimer Timer
	// gen changes on every navigation; callbacks from an earlier page are
	// dropped.
	gen int
	enc encounters
}

type encounters struct {
	chest    string
	warden   string
	villager *villagerOffer
	zombie   *zombieEncounter
	creeper  *creeperEncounter
}

func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(0)
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = defaultSaveTimeout
	}
	return &Engine{
		store:       opts.Store,
		clock:       opts.Clock,
		rng:         opts.Rand,
		log:         opts.Logger,
		notifier:    opts.Notifier,
		tick:        opts.TickInterval,
		saveTimeout: opts.SaveTimeout,
		arbiter:     NewArbiter(opts.Rand),
		classifier:  NewClassifier(opts.Rand),
		progression: NewProgression(opts.Rand),
		overlays:    NewOverlayRegister(),
		profile:     NewProfile(),
		page:        NewPageSession(""),
	}
}

// Load reads the stored profile, migrating and repairing it, and rolls the
// daily challenges. A fresh or patched profile is written back.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, dirty := NewProfile(), true
	if e.store != nil {
		loaded, changed, err := LoadProfile(ctx, e.store)
		if err != nil {
			return err
		}
		p, dirty = loaded, changed
	}
	if _, changed := e.progression.RecomputeTool(p); changed {
		dirty = true
	}
	if e.progression.EnsureDaily(p, e.clock.Now()) {
		dirty = true
	}
	e.profile = p
	if e.syncBoost() {
		dirty = true
	}
	if !dirty || e.store == nil {
		return nil
	}
	return SaveProfile(ctx, e.store, e.profile)
}

// Navigate binds the engine to a new page. Any session, overlay and
// pending encounter of the previous page is abandoned.
func (e *Engine) Navigate(doc Document, host string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopSession()
	e.overlays.Clear()
	e.enc = encounters{}
	e.debug = DebugFlags{}
	e.doc = doc
	e.page = NewPageSession(host)
	e.gen++
	if e.progression.EnsureDaily(e.profile, e.clock.Now()) {
		e.persist()
	}
	e.log.Debugf("page %s bound to %q", e.page.ID, host)
}

// SetDisabled turns mining off for the current page, for example on a
// blocked domain.
func (e *Engine) SetDisabled(disabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = disabled
	if disabled {
		e.stopSession()
	}
}

func (e *Engine) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

// Profile returns a copy of the current profile.
func (e *Engine) Profile() *Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile.Clone()
}

type PageStatus struct {
	ID      string
	Host    string
	Spawned map[SpawnKind]bool
	Warden  WardenWarning
	Mined   int
}

func (e *Engine) Page() PageStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PageStatus{
		ID:      e.page.ID,
		Host:    e.page.Host,
		Spawned: cloneMap(e.page.Spawned),
		Warden:  e.page.Warden,
		Mined:   len(e.page.Mined),
	}
}

type MiningStatus struct {
	State      SessionState
	Target     Element
	Paused     bool
	Progress   float64
	MiningTime time.Duration
}

func (e *Engine) Mining() MiningStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return MiningStatus{
		State:      e.session.State(),
		Target:     e.session.Target(),
		Paused:     e.session.Paused(),
		Progress:   e.session.Progress(),
		MiningTime: e.session.MiningTime(),
	}
}

// Depth is the depth at the centre of the viewport.
func (e *Engine) Depth() Depth {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return DepthAt(0, 0)
	}
	return ViewportDepth(e.doc)
}

func (e *Engine) ActiveOverlay() (Overlay, bool) {
	return e.overlays.Active()
}

// Sweep frees the overlay slot when its anchor left the document.
func (e *Engine) Sweep() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if h, ok := e.overlays.Sweep(); ok {
		e.forget(h)
		e.emit(Event{Kind: EventDespawn, Handle: h})
	}
}

// StartMining begins a session on el.
func (e *Engine) StartMining(el Element) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disabled {
		return ErrDisabled
	}
	if e.session.State() != StateIdle {
		return ErrNotIdle
	}
	if !Mineable(el) || e.page.isMined(el) {
		return ErrNotMineable
	}
	d, events := MiningTime(e.profile, e.clock.Now())
	if err := e.session.Start(el, d, e.tick); err != nil {
		return err
	}
	e.emitAll(events)
	if len(events) > 0 {
		e.persist()
	}
	e.sessionSeq++
	e.emit(Event{Kind: EventProgress, Element: el})
	e.scheduleTick()
	return nil
}

func (e *Engine) PauseMining() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Pause()
}

// ResumeMining continues a paused session when target is the mined
// element or inside it.
func (e *Engine) ResumeMining(target Element) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Resume(target)
}

// ReleaseMining handles the pointer being released: over the mined element
// the session pauses, anywhere else it is cancelled.
func (e *Engine) ReleaseMining(over Element) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.State() != StateMining {
		return ErrNotMining
	}
	if over != nil && Contains(e.session.Target(), over) {
		return e.session.Pause()
	}
	return e.cancelSession()
}

func (e *Engine) CancelMining() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelSession()
}

func (e *Engine) cancelSession() error {
	target := e.session.Target()
	if err := e.session.Cancel(); err != nil {
		return err
	}
	e.stopTick()
	e.session.Reset()
	e.emit(Event{Kind: EventCancelled, Element: target})
	return nil
}

func (e *Engine) stopSession() {
	if e.session.State() == StateMining {
		_ = e.cancelSession()
		return
	}
	e.stopTick()
	e.session.Reset()
}

func (e *Engine) stopTick() {
	if e.tickTimer != nil {
		e.tickTimer.Stop()
		e.tickTimer = nil
	}
}

func (e *Engine) scheduleTick() {
	seq := e.sessionSeq
	e.tickTimer = e.clock.AfterFunc(e.tick, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if seq != e.sessionSeq || e.session.State() != StateMining {
			return
		}
		e.onTick()
	})
}

func (e *Engine) onTick() {
	target := e.session.Target()
	if !target.Attached() {
		_ = e.cancelSession()
		return
	}
	done := e.session.Tick()
	e.emit(Event{Kind: EventProgress, Element: target, Progress: e.session.Progress()})
	if done {
		e.complete(target)
		return
	}
	e.scheduleTick()
}

func (e *Engine) complete(el Element) {
	e.stopTick()
	e.session.Reset()
	p := e.profile
	now := e.clock.Now()
	e.syncBoost()

	depth := DepthAt(el.Rect().Y, 0)
	if e.doc != nil {
		depth = ElementDepth(el, e.doc)
	}
	deep := depth.Zone == ZoneDeepDark
	ad := IsAd(el)

	gain, events := XPGain(p, depth.XP, ad, now)
	e.emitAll(events)
	p.TotalMined++
	p.AddXP(gain)
	e.emit(Event{Kind: EventXPGain, Element: el, XP: gain})
	if broken, ok := p.consumeEnchantCharge(); ok {
		def, _ := LookupEnchantment(broken)
		e.emit(notice(fmt.Sprintf("💔 %s enchantment broke!", def.Name)))
	}
	e.recomputeTool()
	e.persist()

	e.advance("mine_blocks", 1)
	if ad {
		e.advance("mine_ads", 1)
	}
	if el.Tag() == "img" {
		e.advance("mine_images", 1)
	}
	e.advance("xp_gain", gain)
	if deep {
		p.DeepMiningCount++
		e.advance("deep_mining", 1)
	}
	e.checkAchievements()

	e.collectDrop(el)
	e.hide(el)
	e.emit(Event{Kind: EventMined, Element: el, XP: gain})
	e.persist()

	d := e.arbiter.Decide(ArbiterInput{Profile: p, Page: e.page, Debug: &e.debug, Deep: deep})
	if d.Kind != SpawnNone {
		e.log.Debugf("page %s: spawn %s (forced=%t)", e.page.ID, d.Kind, d.Forced)
		e.execute(d, el)
	}
}

func (e *Engine) collectDrop(el Element) {
	p := e.profile
	zone := ZoneSurface
	if e.doc != nil {
		zone = ViewportDepth(e.doc).Zone
	}
	if drop, ok := e.classifier.Classify(el, zone, p); ok {
		p.Inventory[drop.Resource] += drop.Amount
		res, _ := LookupResource(drop.Resource)
		e.emit(Event{
			Kind:     EventResource,
			Element:  el,
			Resource: drop.Resource,
			Amount:   drop.Amount,
			Message:  fmt.Sprintf("%s +%d %s", res.Icon, drop.Amount, res.Name),
		})
		e.advance("collect_resources", drop.Amount)
		e.advance("collect_"+string(drop.Resource), drop.Amount)
		e.checkAchievements()
	}
	e.spendCharges()
}

// spendCharges decrements the per-mine effect counters once.
func (e *Engine) spendCharges() {
	p := e.profile
	if p.SafeZone != nil {
		p.SafeZone.RemainingMines--
		if p.SafeZone.RemainingMines <= 0 {
			p.SafeZone = nil
			e.consumeItem(ItemTorch)
			e.emit(notice("🔥 Torch burned out!"))
		}
	}
	if p.DoubleDrops != nil {
		p.DoubleDrops.RemainingMines--
		if p.DoubleDrops.RemainingMines <= 0 {
			p.DoubleDrops = nil
			e.consumeItem(ItemBeacon)
			e.emit(notice("🔷 Beacon depleted!"))
		}
	}
	if p.HasteEffect != nil {
		p.HasteEffect.RemainingMines--
		if p.HasteEffect.RemainingMines <= 0 {
			p.HasteEffect = nil
			e.emit(notice("⚡ Haste effect ended!"))
		}
	}
}

func (e *Engine) consumeItem(id ItemID) {
	if e.profile.CraftedItems[id] > 0 {
		e.profile.CraftedItems[id]--
	}
}

func (e *Engine) hide(el Element) {
	if e.page.isMined(el) {
		return
	}
	e.page.Mined = append(e.page.Mined, MinedElement{Element: el, OriginalDisplay: el.Style().Display})
	el.SetDisplay("none")
	e.emit(Event{Kind: EventHidden, Element: el})
}

// RestoreMined shows every element hidden on this page again.
func (e *Engine) RestoreMined() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.restoreMined()
}

func (e *Engine) restoreMined() int {
	n := 0
	for _, m := range e.page.Mined {
		if !m.Element.Attached() {
			continue
		}
		m.Element.SetDisplay(m.OriginalDisplay)
		e.emit(Event{Kind: EventRestored, Element: m.Element})
		n++
	}
	e.page.Mined = nil
	return n
}

func (e *Engine) recomputeTool() {
	tool, changed := e.progression.RecomputeTool(e.profile)
	if !changed {
		return
	}
	def, _ := LookupTool(tool)
	e.emit(Event{Kind: EventToolUpgrade, Tool: tool, Message: fmt.Sprintf("%s Upgraded to %s!", def.Icon, def.Name)})
}

func (e *Engine) advance(base string, amount int) {
	if amount <= 0 {
		return
	}
	done := e.progression.AdvanceChallenge(e.profile, base, amount)
	for _, c := range done {
		e.emit(Event{
			Kind:      EventChallenge,
			Challenge: c.ID,
			Message:   fmt.Sprintf("🎯 Challenge Complete: %s! %s", c.Name, c.RewardText),
		})
	}
	if len(done) > 0 {
		e.recomputeTool()
		e.checkAchievements()
	}
}

func (e *Engine) checkAchievements() {
	for _, a := range e.progression.CheckAchievements(e.profile) {
		e.emit(Event{
			Kind:        EventAchievement,
			Achievement: a.ID,
			Message:     fmt.Sprintf("🏆 Achievement Unlocked: %s", a.Name),
		})
	}
}

func (e *Engine) emit(ev Event) {
	if e.notifier != nil {
		e.notifier.Notify(ev)
	}
}

func (e *Engine) emitAll(events []Event) {
	for _, ev := range events {
		e.emit(ev)
	}
}

// persist saves the profile; a failed write is logged and the in-memory
// state stays authoritative.
func (e *Engine) persist() {
	if e.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.saveTimeout)
	defer cancel()
	if err := SaveProfile(ctx, e.store, e.profile); err != nil {
		e.log.Warnf("persist profile: %v", err)
	}
}

// after schedules f under the engine lock. Callbacks scheduled before a
// navigation never run.
func (e *Engine) after(d time.Duration, f func()) Timer {
	gen := e.gen
	return e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.gen {
			return
		}
		f()
	})
}
