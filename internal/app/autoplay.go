package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

const (
	autoplayStep     = 100 * time.Millisecond
	autoplayPerBlock = 2 * time.Minute
)

// AutoplayReport summarises an unattended mining run.
type AutoplayReport struct {
	Mined      int
	XP         int
	Elapsed    time.Duration
	Drops      map[game.ResourceID]int
	Encounters map[game.SpawnKind]int
	Messages   []string
}

// Autoplay mines up to n elements of the bound page in document order,
// each element tried once,
// answering every encounter the way a cautious player would: open chests,
// decline trades, fight the warden only with a sword. It stops early when
// nothing mineable is left.
func (r *Runtime) Autoplay(n int) (AutoplayReport, error) {
	rep := AutoplayReport{
		Drops:      map[game.ResourceID]int{},
		Encounters: map[game.SpawnKind]int{},
	}
	doc := r.Document()
	if doc == nil {
		return rep, errors.New("no page loaded")
	}
	if r.Engine.Disabled() {
		return rep, fmt.Errorf("host %s: %w", r.Host(), game.ErrDisabled)
	}
	if !r.Controller.MiningEnabled() {
		r.Controller.Toggle()
	}

	startXP := r.Engine.Profile().XP
	budget := time.Duration(n) * autoplayPerBlock
	seen := map[string]bool{}
	skip := map[game.Element]bool{}

	for rep.Mined < n && rep.Elapsed < budget {
		r.answerEncounters(seen, &rep)
		if r.Engine.Mining().State == game.StateIdle {
			target := nextMineable(doc.Elements(), skip)
			if target == nil {
				break
			}
			skip[target] = true
			if err := r.Controller.MouseDown(0, target); err != nil {
				if errors.Is(err, game.ErrDisabled) {
					return rep, err
				}
				continue
			}
		}
		rep.tally(r.Step(autoplayStep))
		rep.Elapsed += autoplayStep
	}
	r.answerEncounters(seen, &rep)
	for _, m := range r.HUD.Messages() {
		rep.Messages = append(rep.Messages, m.Text)
	}
	rep.XP = r.Engine.Profile().XP - startXP
	return rep, nil
}

func (r *Runtime) answerEncounters(seen map[string]bool, rep *AutoplayReport) {
	for _, enc := range r.HUD.Encounters() {
		key := string(enc.Kind) + "/" + enc.Handle
		if !seen[key] {
			seen[key] = true
			rep.Encounters[enc.Kind]++
		}
		_, _ = r.Act(enc, autoplayChoice(enc, r.Engine.Profile()))
	}
	rep.tally(r.Step(0))
}

func (rep *AutoplayReport) tally(events []game.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case game.EventMined:
			rep.Mined++
		case game.EventResource:
			rep.Drops[ev.Resource] += ev.Amount
		}
	}
}

func autoplayChoice(enc Encounter, p *game.Profile) int {
	switch enc.Kind {
	case game.SpawnVillager:
		return -1
	case game.SpawnWarden:
		if p.DiamondSword == 0 {
			return 1
		}
	}
	return 0
}

func nextMineable(els []game.Element, skip map[game.Element]bool) game.Element {
	for _, el := range els {
		if skip[el] || !el.Attached() || el.Style().Display == "none" {
			continue
		}
		if rc := el.Rect(); rc.Width == 0 || rc.Height == 0 {
			continue
		}
		if m := game.FindMineable(el); m != nil && m == el {
			return el
		}
	}
	return nil
}
