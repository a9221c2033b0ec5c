package page

import (
	"fmt"
	"strings"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

var syntheticPalette = []string{
	"#2b2b2b", "#c8c8c8", "#d4a017", "#3fd0e0", "#2ecc71", "#c0392b",
	"#8b5a2b", "#6a0dad", "#f5f5f5", "#1e90ff",
}

var syntheticWords = strings.Fields("stone ore seam vein shaft tunnel lantern pickaxe ledge cavern rail cart torch quarry")

// Synthetic generates a deterministic page of n mineable blocks for seed.
// The mix covers colored panels, text, images and the odd advertisement.
func Synthetic(n int, seed int64) *Document {
	rng := game.NewRand(seed)
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><title>Synthetic quarry</title></head><body>")
	for i := 0; i < n; i++ {
		color := syntheticPalette[rng.IntN(len(syntheticPalette))]
		height := 40 + rng.IntN(120)
		switch roll := rng.Float64(); {
		case roll < 0.1:
			fmt.Fprintf(&b, `<div id="ad-slot-%d" class="ad-banner" style="height:%dpx;background-color:%s">Sponsored</div>`, i, height, color)
		case roll < 0.25:
			fmt.Fprintf(&b, `<img id="img-%d" src="tile%d.png" width="200" height="%d" style="background-color:%s">`, i, i, height, color)
		case roll < 0.55:
			fmt.Fprintf(&b, `<p id="p-%d" style="color:%s">%s</p>`, i, color, syntheticSentence(rng))
		default:
			fmt.Fprintf(&b, `<section id="block-%d" style="height:%dpx;background:%s">%s</section>`, i, height, color, syntheticWords[rng.IntN(len(syntheticWords))])
		}
	}
	b.WriteString("</body></html>")
	d, err := ParseString(b.String())
	if err != nil {
		// Generated markup always parses.
		panic(err)
	}
	return d
}

func syntheticSentence(rng game.Rand) string {
	words := make([]string, 6+rng.IntN(10))
	for i := range words {
		words[i] = syntheticWords[rng.IntN(len(syntheticWords))]
	}
	return strings.Join(words, " ")
}
