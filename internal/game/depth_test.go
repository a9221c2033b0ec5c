package game

import "testing"

func TestDepthZoneBoundaries(t *testing.T) {
	cases := []struct {
		offset float64
		zone   Zone
		xp     int
	}{
		{0, ZoneSurface, 1},
		{406, ZoneSurface, 1},
		{407, ZoneUnderground, 2},
		{593, ZoneUnderground, 2},
		{594, ZoneCaves, 3},
		{703, ZoneCaves, 3},
		{704, ZoneDeepDark, 5},
		{1000, ZoneDeepDark, 5},
		{2500, ZoneDeepDark, 5},
	}
	for _, tc := range cases {
		d := DepthAt(tc.offset, 1000)
		if d.Zone != tc.zone || d.XP != tc.xp {
			t.Fatalf("offset %.0f: expected %s/%d, got %s/%d (y=%d)", tc.offset, tc.zone, tc.xp, d.Zone, d.XP, d.YCoord)
		}
	}
	if got := DepthAt(2500, 1000).YCoord; got != -64 {
		t.Fatalf("expected depth clamped to -64, got %d", got)
	}
}

func TestDepthUsesCurrentHeight(t *testing.T) {
	if got := DepthAt(800, 1000).Zone; got != ZoneDeepDark {
		t.Fatalf("expected deep dark on a short page, got %s", got)
	}
	if got := DepthAt(800, 4000).Zone; got != ZoneSurface {
		t.Fatalf("expected surface once the page grew, got %s", got)
	}
}

func TestDepthDegenerateHeight(t *testing.T) {
	for _, h := range []float64{0, -10} {
		d := DepthAt(300, h)
		if d.Zone != ZoneSurface || d.YCoord != 0 {
			t.Fatalf("height %.0f: expected surface at y=0, got %s at %d", h, d.Zone, d.YCoord)
		}
	}
}

func TestElementAndViewportDepth(t *testing.T) {
	el := newTestElement("div", 0, 900, 100, 50)
	doc := &testDocument{height: 1000, center: 100}
	if got := ElementDepth(el, doc).Zone; got != ZoneDeepDark {
		t.Fatalf("expected element in deep dark, got %s", got)
	}
	if got := ViewportDepth(doc).Zone; got != ZoneSurface {
		t.Fatalf("expected viewport at surface, got %s", got)
	}
}
