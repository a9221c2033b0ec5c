package game

import (
	"sort"
	"time"
)

type ToolID string

const (
	ToolHand         ToolID = "hand"
	ToolWoodenAxe    ToolID = "wooden_axe"
	ToolCopperAxe    ToolID = "copper_axe"
	ToolIronAxe      ToolID = "iron_axe"
	ToolGoldenAxe    ToolID = "golden_axe"
	ToolDiamondAxe   ToolID = "diamond_axe"
	ToolNetheriteAxe ToolID = "netherite_axe"
)

type Tool struct {
	ID         ToolID
	Name       string
	Speed      time.Duration
	XPRequired int
	Icon       string
}

// Tools is ordered from weakest to strongest; the index is the tool tier.
var Tools = []Tool{
	{ID: ToolHand, Name: "Hand", Speed: 5000 * time.Millisecond, XPRequired: 0, Icon: "✋"},
	{ID: ToolWoodenAxe, Name: "Wooden Axe", Speed: 4000 * time.Millisecond, XPRequired: 100, Icon: "🪓"},
	{ID: ToolCopperAxe, Name: "Copper Axe", Speed: 3000 * time.Millisecond, XPRequired: 500, Icon: "⛏️"},
	{ID: ToolIronAxe, Name: "Iron Axe", Speed: 2000 * time.Millisecond, XPRequired: 1500, Icon: "⚒️"},
	{ID: ToolGoldenAxe, Name: "Golden Axe", Speed: 1500 * time.Millisecond, XPRequired: 5000, Icon: "👑"},
	{ID: ToolDiamondAxe, Name: "Diamond Axe", Speed: 1000 * time.Millisecond, XPRequired: 20000, Icon: "💎"},
	{ID: ToolNetheriteAxe, Name: "Netherite Axe", Speed: 500 * time.Millisecond, XPRequired: 100000, Icon: "🔥"},
}

// ToolIndex returns the tier of id, or 0 for unknown tools.
func ToolIndex(id ToolID) int {
	for i, t := range Tools {
		if t.ID == id {
			return i
		}
	}
	return 0
}

func LookupTool(id ToolID) (Tool, bool) {
	for _, t := range Tools {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// earlyTool reports whether id is one of the three lowest tiers.
func earlyTool(id ToolID) bool {
	return ToolIndex(id) <= ToolIndex(ToolCopperAxe)
}

type PetID string

const (
	PetAllay     PetID = "allay"
	PetAxolotl   PetID = "axolotl"
	PetDennis    PetID = "dennis"
	PetCat       PetID = "cat"
	PetToad      PetID = "toad"
	PetWhiteToad PetID = "white_toad"
)

type Pet struct {
	ID              PetID
	Name            string
	SpawnRate       float64
	MaxSpawns       int
	Ability         string
	XPBonus         int
	SpeedBonus      time.Duration
	DefusesCreepers bool
	UsageLimit      int
	Icon            string
	LeaveNotice     string
}

var Pets = []Pet{
	{ID: PetAllay, Name: "Allay", SpawnRate: 0.025, MaxSpawns: 1, Ability: "+1 XP per mine (100 uses)", XPBonus: 1, UsageLimit: 100, Icon: "🔵", LeaveNotice: "Your Allay flew away after helping 100 times!"},
	{ID: PetAxolotl, Name: "Axolotl", SpawnRate: 0.022, MaxSpawns: 1, Ability: "+1 XP per mine (100 uses)", XPBonus: 1, UsageLimit: 100, Icon: "💙", LeaveNotice: "Your Axolotl swam away after helping 100 times!"},
	{ID: PetDennis, Name: "Dennis", SpawnRate: 0.024, MaxSpawns: 1, Ability: "Defuses 3 creepers (+1 XP)", DefusesCreepers: true, UsageLimit: 3, Icon: "🦖", LeaveNotice: "Dennis left after defusing 3 creepers!"},
	{ID: PetCat, Name: "Cat", SpawnRate: 0.026, MaxSpawns: 1, Ability: "Defuses 3 creepers (+1 XP each)", DefusesCreepers: true, UsageLimit: 3, Icon: "🐱", LeaveNotice: "Your cat ran away after defusing 3 creepers!"},
	{ID: PetToad, Name: "Toad", SpawnRate: 0.028, MaxSpawns: 1, Ability: "-0.1s mining time (200 uses)", SpeedBonus: 100 * time.Millisecond, UsageLimit: 200, Icon: "🐸", LeaveNotice: "Your Toad hopped away after helping 200 times!"},
	{ID: PetWhiteToad, Name: "White Toad", SpawnRate: 0.015, MaxSpawns: 1, Ability: "-0.5s mining time (50 uses)", SpeedBonus: 500 * time.Millisecond, UsageLimit: 50, Icon: "🤍", LeaveNotice: "Your White Toad hopped away after helping 50 times!"},
}

func LookupPet(id PetID) (Pet, bool) {
	for _, p := range Pets {
		if p.ID == id {
			return p, true
		}
	}
	return Pet{}, false
}

type EnchantID string

const (
	EnchantFortune    EnchantID = "fortune"
	EnchantEfficiency EnchantID = "efficiency"
	EnchantUnbreaking EnchantID = "unbreaking"
	EnchantMending    EnchantID = "mending"
	EnchantLooting    EnchantID = "looting"
	EnchantSilkTouch  EnchantID = "silk_touch"
	EnchantHaste      EnchantID = "haste"
)

type Enchantment struct {
	ID                 EnchantID
	Name               string
	Description        string
	SpawnRate          float64
	XPMultiplier       float64
	TimeMultiplier     float64
	ProtectionUses     int
	PetSpawnMultiplier float64
	AdXPMultiplier     float64
	Durability         int
	MineCount          int
}

var Enchantments = []Enchantment{
	{ID: EnchantFortune, Name: "Fortune", Description: "+50% XP from mining", SpawnRate: 0.0005, XPMultiplier: 1.5, Durability: 100},
	{ID: EnchantEfficiency, Name: "Efficiency", Description: "-30% mining time", SpawnRate: 0.0005, TimeMultiplier: 0.7, Durability: 100},
	{ID: EnchantUnbreaking, Name: "Unbreaking", Description: "Protects tool from 3 Warden steals", SpawnRate: 0.0003, ProtectionUses: 3, Durability: 50},
	{ID: EnchantMending, Name: "Mending", Description: "30% chance to recover stolen tool per mine", SpawnRate: 0.0003, Durability: 50},
	{ID: EnchantLooting, Name: "Looting", Description: "Double pet spawn rates", SpawnRate: 0.0002, PetSpawnMultiplier: 2, Durability: 150},
	{ID: EnchantSilkTouch, Name: "Silk Touch", Description: "Mined ads give 3x XP instead of 2x", SpawnRate: 0.0003, AdXPMultiplier: 3, Durability: 75},
	{ID: EnchantHaste, Name: "Haste", Description: "50% faster mining for 20 mines", TimeMultiplier: 0.5, MineCount: 20},
}

const (
	hasteRateEarly = 0.33
	hasteRateLate  = 0.10
)

func LookupEnchantment(id EnchantID) (Enchantment, bool) {
	for _, e := range Enchantments {
		if e.ID == id {
			return e, true
		}
	}
	return Enchantment{}, false
}

// bookEnchantments returns every inventory enchantment ordered by ascending
// spawn rate. Haste never enters the inventory and is excluded.
func bookEnchantments() []Enchantment {
	out := make([]Enchantment, 0, len(Enchantments)-1)
	for _, e := range Enchantments {
		if e.ID == EnchantHaste {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SpawnRate < out[j].SpawnRate })
	return out
}

type ResourceID string

const (
	ResourceCoal      ResourceID = "coal"
	ResourceIron      ResourceID = "iron"
	ResourceGold      ResourceID = "gold"
	ResourceRedstone  ResourceID = "redstone"
	ResourceLapis     ResourceID = "lapis"
	ResourceEmerald   ResourceID = "emerald"
	ResourceDiamond   ResourceID = "diamond"
	ResourceNetherite ResourceID = "netherite"
)

// HSLRange bounds are inclusive. HueMin > HueMax wraps through 0.
type HSLRange struct {
	HueMin, HueMax     int
	SatMin, SatMax     int
	LightMin, LightMax int
}

type Resource struct {
	ID       ResourceID
	Name     string
	Range    HSLRange
	DropRate float64
	Icon     string
}

var Resources = []Resource{
	{ID: ResourceCoal, Name: "Coal", Range: HSLRange{0, 360, 0, 20, 0, 30}, DropRate: 0.4, Icon: "⚫"},
	{ID: ResourceIron, Name: "Iron", Range: HSLRange{0, 360, 0, 25, 35, 80}, DropRate: 0.3, Icon: "⚪"},
	{ID: ResourceGold, Name: "Gold", Range: HSLRange{35, 65, 35, 100, 40, 90}, DropRate: 0.25, Icon: "🟡"},
	{ID: ResourceRedstone, Name: "Redstone", Range: HSLRange{340, 20, 30, 100, 25, 98}, DropRate: 0.3, Icon: "🔴"},
	{ID: ResourceLapis, Name: "Lapis", Range: HSLRange{200, 250, 35, 100, 25, 80}, DropRate: 0.25, Icon: "🔷"},
	{ID: ResourceEmerald, Name: "Emerald", Range: HSLRange{110, 170, 30, 100, 25, 75}, DropRate: 0.2, Icon: "🟢"},
	{ID: ResourceDiamond, Name: "Diamond Ore", Range: HSLRange{165, 200, 35, 100, 40, 90}, DropRate: 0.15, Icon: "💎"},
	{ID: ResourceNetherite, Name: "Ancient Debris", Range: HSLRange{260, 320, 25, 100, 20, 75}, DropRate: 0.1, Icon: "🟣"},
}

const (
	deepDiamondChance   = 0.20
	shallowDiamondRate  = 0.0065
	diamondInventoryCap = 15
)

func LookupResource(id ResourceID) (Resource, bool) {
	for _, r := range Resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}

type ItemID string

const (
	ItemTorch        ItemID = "torch"
	ItemRedstoneLamp ItemID = "redstone_lamp"
	ItemBeacon       ItemID = "beacon"
	ItemGoldenApple  ItemID = "golden_apple"
	ItemDiamondSword ItemID = "diamond_sword"
)

type ItemEffect string

const (
	EffectSafeZone     ItemEffect = "safe_zone"
	EffectXPBoost      ItemEffect = "xp_boost"
	EffectDoubleDrops  ItemEffect = "double_drops"
	EffectInstantXP    ItemEffect = "instant_xp"
	EffectWardenSlayer ItemEffect = "warden_slayer"
)

type Ingredient struct {
	Resource ResourceID
	Amount   int
}

type Item struct {
	ID          ItemID
	Name        string
	Description string
	Recipe      []Ingredient
	Effect      ItemEffect
	MineCount   int
	Duration    time.Duration
	Multiplier  float64
	XPAmount    int
	Uses        int
}

var Items = []Item{
	{ID: ItemTorch, Name: "Torch", Description: "50% less mob spawns (25 mines)", Recipe: []Ingredient{{ResourceCoal, 8}, {ResourceGold, 2}}, Effect: EffectSafeZone, MineCount: 25},
	{ID: ItemRedstoneLamp, Name: "Redstone Lamp", Description: "+100% XP for 2 minutes", Recipe: []Ingredient{{ResourceRedstone, 12}, {ResourceGold, 4}}, Effect: EffectXPBoost, Duration: 2 * time.Minute, Multiplier: 2.0},
	{ID: ItemBeacon, Name: "Beacon", Description: "2x resource drops (50 mines)", Recipe: []Ingredient{{ResourceDiamond, 2}, {ResourceIron, 10}, {ResourceGold, 5}}, Effect: EffectDoubleDrops, MineCount: 50},
	{ID: ItemGoldenApple, Name: "Golden Apple", Description: "Instant +50 XP boost", Recipe: []Ingredient{{ResourceGold, 8}, {ResourceEmerald, 1}}, Effect: EffectInstantXP, XPAmount: 50},
	{ID: ItemDiamondSword, Name: "Diamond Sword", Description: "Defeat the Warden (3 uses)", Recipe: []Ingredient{{ResourceDiamond, 15}}, Effect: EffectWardenSlayer, Uses: 3},
}

func LookupItem(id ItemID) (Item, bool) {
	for _, it := range Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

type TradeReward struct {
	Resource    ResourceID
	Amount      int
	XP          int
	Enchantment EnchantID
}

type Trade struct {
	ID      string
	Label   string
	Give    Ingredient
	Receive TradeReward
}

var Trades = []Trade{
	{ID: "coal_for_iron", Label: "10 Coal → 3 Iron", Give: Ingredient{ResourceCoal, 10}, Receive: TradeReward{Resource: ResourceIron, Amount: 3}},
	{ID: "iron_for_gold", Label: "5 Iron → 2 Gold", Give: Ingredient{ResourceIron, 5}, Receive: TradeReward{Resource: ResourceGold, Amount: 2}},
	{ID: "gold_for_diamond", Label: "8 Gold → 1 Diamond", Give: Ingredient{ResourceGold, 8}, Receive: TradeReward{Resource: ResourceDiamond, Amount: 1}},
	{ID: "redstone_for_xp", Label: "15 Redstone → 100 XP", Give: Ingredient{ResourceRedstone, 15}, Receive: TradeReward{XP: 100}},
	{ID: "lapis_for_xp", Label: "10 Lapis → 75 XP", Give: Ingredient{ResourceLapis, 10}, Receive: TradeReward{XP: 75}},
	{ID: "emerald_for_diamond", Label: "3 Emerald → 2 Diamond", Give: Ingredient{ResourceEmerald, 3}, Receive: TradeReward{Resource: ResourceDiamond, Amount: 2}},
	{ID: "fortune_trade", Label: "3 Diamond → Fortune", Give: Ingredient{ResourceDiamond, 3}, Receive: TradeReward{Enchantment: EnchantFortune}},
	{ID: "efficiency_trade", Label: "5 Emerald → Efficiency", Give: Ingredient{ResourceEmerald, 5}, Receive: TradeReward{Enchantment: EnchantEfficiency}},
	{ID: "silk_touch_trade", Label: "5 Diamond → Silk Touch", Give: Ingredient{ResourceDiamond, 5}, Receive: TradeReward{Enchantment: EnchantSilkTouch}},
	{ID: "looting_trade", Label: "8 Emerald → Looting", Give: Ingredient{ResourceEmerald, 8}, Receive: TradeReward{Enchantment: EnchantLooting}},
}

type AchievementID string

type RequirementKind string

const (
	ReqTotalMined          RequirementKind = "totalMined"
	ReqTool                RequirementKind = "tool"
	ReqPets                RequirementKind = "pets"
	ReqDiamonds            RequirementKind = "diamonds"
	ReqHasDiamondSword     RequirementKind = "hasDiamondSword"
	ReqHasEnchantment      RequirementKind = "hasEnchantment"
	ReqDeepMining          RequirementKind = "deepMining"
	ReqXP                  RequirementKind = "xp"
	ReqChallengesCompleted RequirementKind = "challengesCompleted"
)

type Requirement struct {
	Kind  RequirementKind
	Value int
	Tool  ToolID
}

type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	Requirement Requirement
}

var Achievements = []Achievement{
	{ID: "first_mine", Name: "Getting Started", Description: "Mine your first element", Requirement: Requirement{Kind: ReqTotalMined, Value: 1}},
	{ID: "mining_veteran", Name: "Mining Veteran", Description: "Mine 100 elements", Requirement: Requirement{Kind: ReqTotalMined, Value: 100}},
	{ID: "mining_master", Name: "Mining Master", Description: "Mine 1000 elements", Requirement: Requirement{Kind: ReqTotalMined, Value: 1000}},
	{ID: "first_upgrade", Name: "Tool Upgrade", Description: "Upgrade to Wooden Axe", Requirement: Requirement{Kind: ReqTool, Tool: ToolWoodenAxe}},
	{ID: "iron_age", Name: "Iron Age", Description: "Upgrade to Iron Axe", Requirement: Requirement{Kind: ReqTool, Tool: ToolIronAxe}},
	{ID: "diamond_miner", Name: "Diamond Miner", Description: "Upgrade to Diamond Axe", Requirement: Requirement{Kind: ReqTool, Tool: ToolDiamondAxe}},
	{ID: "netherite_legend", Name: "Netherite Legend", Description: "Upgrade to Netherite Axe", Requirement: Requirement{Kind: ReqTool, Tool: ToolNetheriteAxe}},
	{ID: "pet_collector", Name: "Pet Collector", Description: "Collect your first pet", Requirement: Requirement{Kind: ReqPets, Value: 1}},
	{ID: "treasure_hunter", Name: "Treasure Hunter", Description: "Find your first diamond", Requirement: Requirement{Kind: ReqDiamonds, Value: 1}},
	{ID: "warden_slayer", Name: "Warden Slayer", Description: "Craft the Diamond Sword", Requirement: Requirement{Kind: ReqHasDiamondSword}},
	{ID: "enchanter", Name: "Enchanter", Description: "Apply your first enchantment", Requirement: Requirement{Kind: ReqHasEnchantment}},
	{ID: "deep_diver", Name: "Deep Diver", Description: "Mine 50 elements in the deep zone", Requirement: Requirement{Kind: ReqDeepMining, Value: 50}},
	{ID: "xp_collector", Name: "XP Collector", Description: "Reach 500 XP", Requirement: Requirement{Kind: ReqXP, Value: 500}},
	{ID: "xp_master", Name: "XP Master", Description: "Reach 5000 XP", Requirement: Requirement{Kind: ReqXP, Value: 5000}},
	{ID: "challenge_complete", Name: "Challenge Accepted", Description: "Complete your first daily challenge", Requirement: Requirement{Kind: ReqChallengesCompleted, Value: 1}},
}

type RewardKind string

const (
	RewardXP      RewardKind = "xp"
	RewardDiamond RewardKind = "diamond"
	RewardChest   RewardKind = "chest"
)

type ChallengeReward struct {
	Kind   RewardKind
	Amount int
}

type ChallengeDef struct {
	ID          string
	Name        string
	Description string
	Target      int
	Difficulty  int
	Reward      ChallengeReward
	RewardText  string
}

var DailyChallenges = []ChallengeDef{
	{ID: "mine_blocks_easy", Name: "Casual Miner", Description: "Mine 25 blocks", Target: 25, Difficulty: 1, Reward: ChallengeReward{RewardXP, 50}, RewardText: "+50 XP"},
	{ID: "mine_blocks", Name: "Active Miner", Description: "Mine 50 blocks", Target: 50, Difficulty: 2, Reward: ChallengeReward{RewardXP, 100}, RewardText: "+100 XP"},
	{ID: "mine_ads", Name: "Ad Destroyer", Description: "Mine 10 ads", Target: 10, Difficulty: 2, Reward: ChallengeReward{RewardXP, 150}, RewardText: "+150 XP"},
	{ID: "mine_images", Name: "Image Breaker", Description: "Mine 15 images", Target: 15, Difficulty: 2, Reward: ChallengeReward{RewardXP, 80}, RewardText: "+80 XP"},
	{ID: "mine_blocks_medium", Name: "Dedicated Miner", Description: "Mine 100 blocks", Target: 100, Difficulty: 3, Reward: ChallengeReward{RewardXP, 200}, RewardText: "+200 XP"},
	{ID: "collect_resources", Name: "Resource Gatherer", Description: "Collect 20 resources", Target: 20, Difficulty: 3, Reward: ChallengeReward{RewardXP, 150}, RewardText: "+150 XP"},
	{ID: "collect_coal", Name: "Coal Collector", Description: "Collect 10 coal", Target: 10, Difficulty: 2, Reward: ChallengeReward{RewardXP, 75}, RewardText: "+75 XP"},
	{ID: "collect_iron", Name: "Iron Seeker", Description: "Collect 5 iron", Target: 5, Difficulty: 3, Reward: ChallengeReward{RewardXP, 100}, RewardText: "+100 XP"},
	{ID: "collect_gold", Name: "Gold Rush", Description: "Collect 3 gold", Target: 3, Difficulty: 3, Reward: ChallengeReward{RewardXP, 125}, RewardText: "+125 XP"},
	{ID: "deep_mining", Name: "Deep Diver", Description: "Mine 20 blocks in deep zone", Target: 20, Difficulty: 3, Reward: ChallengeReward{RewardXP, 150}, RewardText: "+150 XP"},
	{ID: "xp_gain", Name: "XP Hunter", Description: "Earn 100 XP in one session", Target: 100, Difficulty: 3, Reward: ChallengeReward{RewardXP, 75}, RewardText: "+75 XP"},
	{ID: "mine_blocks_hard", Name: "Mining Marathon", Description: "Mine 200 blocks", Target: 200, Difficulty: 5, Reward: ChallengeReward{RewardXP, 400}, RewardText: "+400 XP"},
	{ID: "mine_ads_hard", Name: "Ad Annihilator", Description: "Mine 25 ads", Target: 25, Difficulty: 4, Reward: ChallengeReward{RewardXP, 300}, RewardText: "+300 XP"},
	{ID: "collect_emerald", Name: "Emerald Hunter", Description: "Collect 2 emeralds", Target: 2, Difficulty: 5, Reward: ChallengeReward{RewardDiamond, 1}, RewardText: "+1 Diamond"},
	{ID: "collect_diamond", Name: "Diamond Seeker", Description: "Collect 1 diamond", Target: 1, Difficulty: 6, Reward: ChallengeReward{RewardXP, 500}, RewardText: "+500 XP"},
	{ID: "deep_mining_hard", Name: "Abyss Explorer", Description: "Mine 50 blocks in deep zone", Target: 50, Difficulty: 5, Reward: ChallengeReward{RewardDiamond, 1}, RewardText: "+1 Diamond"},
	{ID: "collect_pets", Name: "Pet Hunter", Description: "Collect any pet", Target: 1, Difficulty: 7, Reward: ChallengeReward{RewardDiamond, 2}, RewardText: "+2 Diamonds"},
	{ID: "collect_enchantments", Name: "Enchanter", Description: "Collect an enchantment book", Target: 1, Difficulty: 7, Reward: ChallengeReward{RewardXP, 350}, RewardText: "+350 XP"},
	{ID: "survive_warden", Name: "Warden Survivor", Description: "Encounter the Warden and survive", Target: 1, Difficulty: 8, Reward: ChallengeReward{RewardChest, 1}, RewardText: "Guaranteed Chest Spawn"},
	{ID: "defeat_warden", Name: "Warden Slayer", Description: "Defeat the Warden", Target: 1, Difficulty: 9, Reward: ChallengeReward{RewardDiamond, 3}, RewardText: "+3 Diamonds"},
}

func lookupChallenge(id string) (ChallengeDef, bool) {
	for _, c := range DailyChallenges {
		if c.ID == id {
			return c, true
		}
	}
	return ChallengeDef{}, false
}
