package config

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

var TogglePositions = []string{"top-left", "top-right", "bottom-left", "bottom-right"}

// Settings is the user-facing preference record stored under "settings".
type Settings struct {
	ShowToggle     bool     `json:"showToggle"`
	TogglePosition string   `json:"togglePosition"`
	MiningShortcut []string `json:"miningShortcut"`
	Debug          bool     `json:"debug,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		ShowToggle:     true,
		TogglePosition: "bottom-left",
		MiningShortcut: []string{"Alt"},
	}
}

// LoadSettings decodes the stored record over the defaults, so fields an
// older record lacks keep their default.
func LoadSettings(ctx context.Context, st game.Store) (Settings, error) {
	s := DefaultSettings()
	got, err := st.Get(ctx, game.KeySettings)
	if err != nil {
		return s, fmt.Errorf("load settings: %w", err)
	}
	raw, ok := got[game.KeySettings]
	if !ok {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	if !slices.Contains(TogglePositions, s.TogglePosition) {
		s.TogglePosition = DefaultSettings().TogglePosition
	}
	if len(s.MiningShortcut) == 0 {
		s.MiningShortcut = DefaultSettings().MiningShortcut
	}
	return s, nil
}

func SaveSettings(ctx context.Context, st game.Store, s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := st.Set(ctx, map[string]json.RawMessage{game.KeySettings: raw}); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// ParseShortcut turns "Ctrl+Shift" style input into a key list. Keys are
// kept in the order given, duplicates dropped.
func ParseShortcut(s string) ([]string, error) {
	var keys []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' || r == ' ' }) {
		k := canonicalKey(part)
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("empty shortcut %q", s)
	}
	return keys, nil
}

func canonicalKey(k string) string {
	switch strings.ToLower(k) {
	case "alt", "option":
		return "Alt"
	case "ctrl", "control":
		return "Control"
	case "shift":
		return "Shift"
	case "meta", "cmd", "command", "super":
		return "Meta"
	}
	if len(k) == 1 {
		return strings.ToLower(k)
	}
	return strings.ToUpper(k[:1]) + strings.ToLower(k[1:])
}
