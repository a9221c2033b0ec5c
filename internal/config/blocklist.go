package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

// Blocklist holds hostname patterns on which mining is disabled. A
// pattern is a glob with "." as separator: "*.example.com" covers one
// subdomain level, "**.example.com" any depth, a bare name matches itself.
type Blocklist struct {
	patterns []string
	globs    []glob.Glob
}

func NewBlocklist(patterns ...string) (*Blocklist, error) {
	b := &Blocklist{}
	for _, p := range patterns {
		if err := b.Add(p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// NormalizeHost lowercases host and strips any port.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}

// Add compiles and appends pattern. Adding an existing pattern is a no-op.
func (b *Blocklist) Add(pattern string) error {
	pattern = NormalizeHost(pattern)
	if pattern == "" {
		return fmt.Errorf("empty domain pattern")
	}
	if slices.Contains(b.patterns, pattern) {
		return nil
	}
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return fmt.Errorf("invalid domain pattern '%s': %w", pattern, err)
	}
	b.patterns = append(b.patterns, pattern)
	b.globs = append(b.globs, g)
	return nil
}

func (b *Blocklist) Remove(pattern string) bool {
	pattern = NormalizeHost(pattern)
	i := slices.Index(b.patterns, pattern)
	if i < 0 {
		return false
	}
	b.patterns = slices.Delete(b.patterns, i, i+1)
	b.globs = slices.Delete(b.globs, i, i+1)
	return true
}

// Toggle blocks host when it is not listed and unblocks it otherwise. It
// reports whether host is blocked afterwards.
func (b *Blocklist) Toggle(host string) (bool, error) {
	if b.Remove(host) {
		return false, nil
	}
	if err := b.Add(host); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Blocklist) Blocked(host string) bool {
	host = NormalizeHost(host)
	if host == "" {
		return false
	}
	for _, g := range b.globs {
		if g.Match(host) {
			return true
		}
	}
	return false
}

func (b *Blocklist) Patterns() []string {
	return slices.Clone(b.patterns)
}

// LoadBlocklist reads the "blockedDomains" record. Entries that fail to
// compile are skipped and reported together.
func LoadBlocklist(ctx context.Context, st game.Store) (*Blocklist, error) {
	b := &Blocklist{}
	got, err := st.Get(ctx, game.KeyBlockedDomains)
	if err != nil {
		return b, fmt.Errorf("load blocklist: %w", err)
	}
	raw, ok := got[game.KeyBlockedDomains]
	if !ok {
		return b, nil
	}
	var patterns []string
	if err := json.Unmarshal(raw, &patterns); err != nil {
		return b, fmt.Errorf("decode blocklist: %w", err)
	}
	var bad []string
	for _, p := range patterns {
		if err := b.Add(p); err != nil {
			bad = append(bad, p)
		}
	}
	if len(bad) > 0 {
		return b, fmt.Errorf("skipped invalid domain patterns: %s", strings.Join(bad, ", "))
	}
	return b, nil
}

func (b *Blocklist) Save(ctx context.Context, st game.Store) error {
	patterns := b.patterns
	if patterns == nil {
		patterns = []string{}
	}
	raw, err := json.Marshal(patterns)
	if err != nil {
		return err
	}
	if err := st.Set(ctx, map[string]json.RawMessage{game.KeyBlockedDomains: raw}); err != nil {
		return fmt.Errorf("save blocklist: %w", err)
	}
	return nil
}
