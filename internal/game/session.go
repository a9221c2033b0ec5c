package game

import (
	"math"
	"time"
)

type SessionState int

const (
	StateIdle SessionState = iota
	StateMining
	StateCompleted
	StateCancelled
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMining:
		return "mining"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

const (
	DefaultTickInterval = 100 * time.Millisecond
	minMiningTime       = 100 * time.Millisecond
	pausedRegressSteps  = 2
)

// Session is the mining state machine for a single element. It owns no
// timers: the caller drives Tick at the interval passed to Start.
type Session struct {
	state      SessionState
	target     Element
	paused     bool
	step       int
	totalSteps float64
	miningTime time.Duration
}

func (s *Session) State() SessionState { return s.state }
func (s *Session) Target() Element     { return s.target }
func (s *Session) Paused() bool        { return s.paused }
func (s *Session) MiningTime() time.Duration {
	return s.miningTime
}

// Progress is in [0,100].
func (s *Session) Progress() float64 {
	if s.totalSteps <= 0 {
		return 0
	}
	return math.Min(100, float64(s.step)*100/s.totalSteps)
}

// Start enters Mining on el. miningTime is clamped to the floor; tick is the
// interval the caller will drive Tick at.
func (s *Session) Start(el Element, miningTime, tick time.Duration) error {
	if s.state != StateIdle {
		return ErrNotIdle
	}
	if !Mineable(el) {
		return ErrNotMineable
	}
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	miningTime = max(miningTime, minMiningTime)
	s.state = StateMining
	s.target = el
	s.paused = false
	s.step = 0
	s.miningTime = miningTime
	s.totalSteps = float64(miningTime) / float64(tick)
	return nil
}

// Tick advances one step, or regresses while paused. It reports true on
// the tick that completes the session.
func (s *Session) Tick() bool {
	if s.state != StateMining {
		return false
	}
	if s.paused {
		s.step = max(0, s.step-pausedRegressSteps)
		return false
	}
	s.step++
	if s.Progress() >= 100 {
		s.state = StateCompleted
		return true
	}
	return false
}

func (s *Session) Pause() error {
	if s.state != StateMining {
		return ErrNotMining
	}
	s.paused = true
	return nil
}

// Resume continues mining when the press landed on the mined element or
// one of its descendants.
func (s *Session) Resume(target Element) bool {
	if s.state != StateMining || target == nil || !Contains(s.target, target) {
		return false
	}
	s.paused = false
	return true
}

func (s *Session) Cancel() error {
	if s.state != StateMining {
		return ErrNotMining
	}
	s.state = StateCancelled
	return nil
}

// Reset returns a finished session to Idle.
func (s *Session) Reset() {
	*s = Session{}
}
