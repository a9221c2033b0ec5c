package theme

import rl "github.com/gen2brain/raylib-go/raylib"

// Palette for the mining HUD: deepslate panels, torch-lit accents.
var (
	BG            = rl.NewColor(0x12, 0x13, 0x16, 255) // #121316
	Panel         = rl.NewColor(0x1E, 0x20, 0x24, 235) // #1E2024
	PanelRaised   = rl.NewColor(0x2A, 0x2D, 0x33, 245) // #2A2D33
	Border        = rl.NewColor(0x3B, 0x3F, 0x46, 255) // #3B3F46
	Divider       = rl.NewColor(0x30, 0x33, 0x39, 255) // #303339
	TextPrimary   = rl.NewColor(0xEE, 0xEA, 0xE0, 255) // #EEEAE0
	TextSecondary = rl.NewColor(0xB0, 0xB4, 0xB8, 255) // #B0B4B8
	TextMuted     = rl.NewColor(0x80, 0x86, 0x8C, 255) // #80868C
	AccentTorch   = rl.NewColor(0xF0, 0x9A, 0x2A, 255) // #F09A2A
	AccentEmerald = rl.NewColor(0x2E, 0xB8, 0x5C, 255) // #2EB85C
	AccentDiamond = rl.NewColor(0x4A, 0xED, 0xD9, 255) // #4AEDD9
	WarningGold   = rl.NewColor(0xFC, 0xDB, 0x05, 255) // #FCDB05
	Danger        = rl.NewColor(0xD2, 0x2B, 0x2B, 255) // #D22B2B redstone
	Sculk         = rl.NewColor(0x05, 0x3A, 0x4B, 255) // #053A4B
	DisabledPanel = rl.NewColor(0x18, 0x19, 0x1C, 230)
	DisabledText  = TextMuted
)
