package app

import "github.com/appengine-ltd/mine-anything/internal/game"

// EventQueue buffers engine events for a host frame loop. The engine
// notifies with its lock held, so Notify never blocks.
type EventQueue struct {
	ch chan game.Event
}

var _ game.Notifier = (*EventQueue)(nil)

func NewEventQueue(size int) *EventQueue {
	if size < 1 {
		size = 256
	}
	return &EventQueue{ch: make(chan game.Event, size)}
}

func (q *EventQueue) Notify(ev game.Event) {
	if q == nil {
		return
	}
	select {
	case q.ch <- ev:
	default:
		// Drop only when the host stopped draining; events are cosmetic.
	}
}

func (q *EventQueue) Dequeue() (game.Event, bool) {
	if q == nil {
		return game.Event{}, false
	}
	select {
	case ev := <-q.ch:
		return ev, true
	default:
		return game.Event{}, false
	}
}

// Drain returns everything queued so far.
func (q *EventQueue) Drain() []game.Event {
	var out []game.Event
	for {
		ev, ok := q.Dequeue()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}
