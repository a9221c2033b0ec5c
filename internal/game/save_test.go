package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestMigrateProfileFillsMissingFields(t *testing.T) {
	out, changed, err := MigrateProfile([]byte(`{"xp":40,"totalMined":12,"futureField":{"a":1}}`))
	require.NoError(t, err)
	assert.True(t, changed)

	checks := map[string]string{
		"pets":                       "{}",
		"enchantments":               "{}",
		"toolEnchantment":            "null",
		"diamond_sword":              "0",
		"unbreakingUses":             "0",
		"highestToolUnlocked":        `"hand"`,
		"catDeflections":             "0",
		"dailyChallenges.challenges": "[]",
	}
	for path, want := range checks {
		got := gjson.GetBytes(out, path)
		require.True(t, got.Exists(), path)
		assert.JSONEq(t, want, got.Raw, path)
	}
	assert.Equal(t, int64(1), gjson.GetBytes(out, "futureField.a").Int(), "unknown fields survive")
}

func TestMigrateProfileKeepsHighestFromCurrentTool(t *testing.T) {
	out, _, err := MigrateProfile([]byte(`{"currentTool":"iron_axe"}`))
	require.NoError(t, err)
	assert.Equal(t, "iron_axe", gjson.GetBytes(out, "highestToolUnlocked").String())
}

func TestMigrateProfileLeavesCurrentRecordsAlone(t *testing.T) {
	raw, _, err := MigrateProfile([]byte(`{"xp":1}`))
	require.NoError(t, err)
	again, changed, err := MigrateProfile(raw)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, string(raw), string(again))
}

func TestMigrateProfileRejectsInvalidJSON(t *testing.T) {
	_, _, err := MigrateProfile([]byte(`{"xp":`))
	assert.Error(t, err)
}

func TestNormalizeRepairsInvariants(t *testing.T) {
	idx := 2
	p := &Profile{
		TotalMined:  30,
		XP:          5,
		CurrentTool: "stone_pick",
		Inventory:   map[ResourceID]int{ResourceCoal: -4},
		EnchantInventory: []EnchantSlot{
			{Type: EnchantFortune, Durability: 0, MaxDurability: 100},
			{Type: EnchantLooting, Durability: 9, MaxDurability: 150},
		},
		ActiveEnchantIndex: &idx,
	}
	p.Normalize()
	assert.Equal(t, 30, p.XP)
	assert.Equal(t, ToolHand, p.CurrentTool)
	assert.Equal(t, 0, p.Inventory[ResourceCoal])
	require.Len(t, p.EnchantInventory, 1)
	assert.Nil(t, p.ActiveEnchantIndex)
	assert.Nil(t, p.ToolEnchantment)
	assert.NotNil(t, p.Pets)
}
