package game

import "testing"

func TestSeededRNGDeterministic(t *testing.T) {
	rngA := seededRNG(12345)
	rngB := seededRNG(12345)

	for i := 0; i < 20; i++ {
		gotA := rngA.IntN(100000)
		gotB := rngB.IntN(100000)
		if gotA != gotB {
			t.Fatalf("expected deterministic sequence, mismatch at %d: %d != %d", i, gotA, gotB)
		}
	}
}

func TestSeedWordChangesWithSalt(t *testing.T) {
	a := seedWord(99, "a")
	b := seedWord(99, "b")
	if a == b {
		t.Fatalf("expected different seed words for different salts")
	}
}

func TestWeightedPickUsesCumulativeBounds(t *testing.T) {
	var w weighted[string]
	w.add("rare", 0.1)
	w.add("zero", 0)
	w.add("common", 0.3)

	cases := []struct {
		draw float64
		want string
		ok   bool
	}{
		{0, "rare", true},
		{0.0999, "rare", true},
		{0.1, "common", true},
		{0.3999, "common", true},
		{0.4, "", false},
		{0.99, "", false},
	}
	for _, tc := range cases {
		got, ok := w.pick(tc.draw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("pick(%v) = %q,%v want %q,%v", tc.draw, got, ok, tc.want, tc.ok)
		}
	}
	if total := w.total(); total < 0.3999 || total > 0.4001 {
		t.Fatalf("expected total 0.4, got %v", total)
	}
}

func TestFixedRandReplaysScript(t *testing.T) {
	r := &FixedRand{Floats: []float64{0.2}, Ints: []int{7}, Default: 0.9}
	if got := r.Float64(); got != 0.2 {
		t.Fatalf("expected scripted float, got %v", got)
	}
	if got := r.Float64(); got != 0.9 {
		t.Fatalf("expected default float, got %v", got)
	}
	if got := r.IntN(5); got != 4 {
		t.Fatalf("expected clamp to n-1, got %d", got)
	}
	if got := r.IntN(5); got != 0 {
		t.Fatalf("expected 0 after script, got %d", got)
	}
}
