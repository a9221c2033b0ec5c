package debugcmd

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type CommandDef struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
	Group   string
	MinArgs int
	MaxArgs int
	run     handler
}

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	order    []string
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]CommandDef)}
}

// Register adds c under its name. Every hyphenated name is also reachable
// with spaces ("force pet") and run together ("forcepet").
func (r *Registry) Register(c CommandDef) {
	c.Name = normaliseToken(c.Name)
	if c.Name == "" {
		return
	}
	if _, dup := r.commands[c.Name]; !dup {
		r.order = append(r.order, c.Name)
	}
	r.commands[c.Name] = c

	aliases := append([]string{c.Name}, c.Aliases...)
	if strings.Contains(c.Name, "-") {
		aliases = append(aliases, strings.ReplaceAll(c.Name, "-", " "), strings.ReplaceAll(c.Name, "-", ""))
	}
	seen := map[string]bool{}
	for _, a := range aliases {
		n := normaliseInput(a)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		r.phrases = append(r.phrases, commandPhrase{canonical: c.Name, alias: n, tokens: strings.Fields(n)})
	}
}

func (r *Registry) Command(name string) (CommandDef, bool) {
	c, ok := r.commands[normaliseToken(name)]
	return c, ok
}

// Commands returns definitions in registration order.
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

func normaliseToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "()")
	return strings.ReplaceAll(s, "_", "-")
}

func normaliseInput(raw string) string {
	fields := strings.Fields(raw)
	for i, f := range fields {
		fields[i] = normaliseToken(f)
	}
	return strings.Join(fields, " ")
}

type commandCandidate struct {
	Canonical string
	Alias     string
	Consumed  int
	Score     float64
	Source    string
}

func (r *Registry) matchCommand(tokens []string) (commandCandidate, []commandCandidate) {
	if len(tokens) == 0 {
		return commandCandidate{}, nil
	}
	cands := make([]commandCandidate, 0, len(r.phrases))
	for _, phrase := range r.phrases {
		consumed := min(len(tokens), len(phrase.tokens))
		prefix := strings.Join(tokens[:consumed], " ")

		if consumed == len(phrase.tokens) && prefix == phrase.alias {
			score := 1.0
			source := "exact"
			if phrase.alias != phrase.canonical {
				score = 0.97
				source = "alias"
			}
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Alias:     phrase.alias,
				Consumed:  consumed,
				Score:     score,
				Source:    source,
			})
			continue
		}

		if len(phrase.tokens) == 1 && strings.HasPrefix(phrase.alias, tokens[0]) && len(tokens[0]) >= 4 {
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Alias:     phrase.alias,
				Consumed:  1,
				Score:     0.9,
				Source:    "prefix",
			})
			continue
		}

		cut := consumed
		if len(phrase.tokens) > 1 && len(tokens) >= len(phrase.tokens) {
			cut = len(phrase.tokens)
		}
		compare := strings.Join(tokens[:cut], " ")
		if len(compare) < 3 {
			continue
		}
		dist := levenshtein.ComputeDistance(compare, phrase.alias)
		if dist > levenshteinLimit(len(phrase.alias)) {
			continue
		}
		score := 0.72 - (0.08 * float64(dist))
		if phrase.alias != phrase.canonical {
			score += 0.03
		}
		cands = append(cands, commandCandidate{
			Canonical: phrase.canonical,
			Alias:     phrase.alias,
			Consumed:  cut,
			Score:     score,
			Source:    "lev",
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score == cands[j].Score {
			if cands[i].Consumed == cands[j].Consumed {
				return cands[i].Canonical < cands[j].Canonical
			}
			return cands[i].Consumed > cands[j].Consumed
		}
		return cands[i].Score > cands[j].Score
	})

	if len(cands) == 0 {
		return commandCandidate{}, nil
	}
	best := cands[0]
	alts := make([]commandCandidate, 0, 4)
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if seen[c.Canonical] {
			continue
		}
		seen[c.Canonical] = true
		alts = append(alts, c)
		if len(alts) >= 4 {
			break
		}
	}
	return best, alts
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// suggest returns the options within edit distance of input, closest
// first.
func suggest(input string, options []string) []string {
	type scored struct {
		opt  string
		dist int
	}
	var hits []scored
	for _, o := range options {
		d := levenshtein.ComputeDistance(input, o)
		if d <= levenshteinLimit(len(o)) || (len(input) >= 3 && strings.HasPrefix(o, input)) {
			hits = append(hits, scored{o, d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.opt
	}
	return out
}
