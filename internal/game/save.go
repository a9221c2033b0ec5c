package game

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MigrateProfile patches fields that older saves lack. It works on the raw
// record so unknown fields written by other versions survive untouched.
func MigrateProfile(raw []byte) ([]byte, bool, error) {
	if !gjson.ValidBytes(raw) {
		return nil, false, fmt.Errorf("player data is not valid json")
	}
	out := raw
	changed := false
	set := func(path string, value any) error {
		next, err := sjson.SetBytes(out, path, value)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", path, err)
		}
		out = next
		changed = true
		return nil
	}

	if !gjson.GetBytes(out, "pets").Exists() {
		if err := set("pets", map[string]any{}); err != nil {
			return nil, false, err
		}
	}
	if !gjson.GetBytes(out, "diamond_sword").Exists() {
		if err := set("diamond_sword", 0); err != nil {
			return nil, false, err
		}
	}
	if !gjson.GetBytes(out, "enchantments").Exists() {
		if err := set("enchantments", map[string]any{}); err != nil {
			return nil, false, err
		}
		if err := set("toolEnchantment", nil); err != nil {
			return nil, false, err
		}
		if err := set("unbreakingUses", 0); err != nil {
			return nil, false, err
		}
	}
	if !gjson.GetBytes(out, "highestToolUnlocked").Exists() {
		tool := gjson.GetBytes(out, "currentTool").String()
		if tool == "" {
			tool = string(ToolHand)
		}
		if err := set("highestToolUnlocked", tool); err != nil {
			return nil, false, err
		}
	}
	if !gjson.GetBytes(out, "unbreakingUses").Exists() {
		if err := set("unbreakingUses", 0); err != nil {
			return nil, false, err
		}
	}
	if !gjson.GetBytes(out, "dailyChallenges").Exists() {
		if err := set("dailyChallenges", map[string]any{"lastReset": "", "challenges": []any{}, "completed": []any{}}); err != nil {
			return nil, false, err
		}
	}
	if !gjson.GetBytes(out, "catDeflections").Exists() {
		if err := set("catDeflections", 0); err != nil {
			return nil, false, err
		}
	}
	return out, changed, nil
}

// LoadProfile reads and migrates the stored profile. A missing record
// yields a fresh profile with created=true.
func LoadProfile(ctx context.Context, st Store) (p *Profile, dirty bool, err error) {
	values, err := st.Get(ctx, KeyPlayerData)
	if err != nil {
		return nil, false, fmt.Errorf("load player data: %w", err)
	}
	raw, ok := values[KeyPlayerData]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return NewProfile(), true, nil
	}
	migrated, changed, err := MigrateProfile(raw)
	if err != nil {
		return nil, false, err
	}
	p = &Profile{}
	if err := json.Unmarshal(migrated, p); err != nil {
		return nil, false, fmt.Errorf("decode player data: %w", err)
	}
	p.Normalize()
	return p, changed, nil
}

func SaveProfile(ctx context.Context, st Store, p *Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode player data: %w", err)
	}
	if err := st.Set(ctx, map[string]json.RawMessage{KeyPlayerData: raw}); err != nil {
		return fmt.Errorf("save player data: %w", err)
	}
	return nil
}
