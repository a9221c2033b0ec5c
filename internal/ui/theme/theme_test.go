package theme

import "testing"

func TestCrackStage(t *testing.T) {
	cases := []struct {
		progress float64
		want     int
	}{
		{0, -1},
		{0.05, 0},
		{0.1, 1},
		{0.55, 5},
		{0.99, 9},
		{1, 9},
		{1.5, 9},
	}
	for _, tc := range cases {
		if got := CrackStage(tc.progress); got != tc.want {
			t.Fatalf("CrackStage(%v) = %d, want %d", tc.progress, got, tc.want)
		}
	}
}

func TestFrameInset(t *testing.T) {
	r := FrameInset(800, 600)
	if r.X != float32(frameSlice) || r.Width != 800-2*float32(frameSlice) {
		t.Fatalf("unexpected inset %+v", r)
	}
}

// monospace measures every rune as 10px so layout helpers can run without
// a window.
func monospace(t *testing.T) {
	t.Helper()
	prev := textMeasureFn
	SetTextRenderer(nil, func(text string, _ int32) int32 { return int32(len([]rune(text))) * 10 })
	t.Cleanup(func() { textMeasureFn = prev })
}

func TestWrapText(t *testing.T) {
	monospace(t)
	got := WrapText("creeper defused by the cat", 18, 120)
	want := []string{"creeper", "defused by", "the cat"}
	if len(got) != len(want) {
		t.Fatalf("WrapText = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if lines := WrapText("   ", 18, 120); len(lines) != 1 || lines[0] != "" {
		t.Fatalf("expected one empty line for blank text, got %q", lines)
	}
}

func TestFitText(t *testing.T) {
	monospace(t)
	cases := []struct {
		in    string
		width int32
		want  string
	}{
		{"diamond", 100, "diamond"},
		{"diamond pickaxe", 100, "diamond..."},
		{"ore", 20, ""},
		{"ore", 0, ""},
	}
	for _, tc := range cases {
		if got := FitText(tc.in, 15, tc.width); got != tc.want {
			t.Fatalf("FitText(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
