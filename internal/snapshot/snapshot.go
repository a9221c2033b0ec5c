// Package snapshot draws a laid-out page as a picture: every visible
// element as a block in its dominant color, with the mined target and the
// viewport marked.
package snapshot

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/page"
)

const (
	DefaultWidth = 256
	maxHeight    = 4096
)

type Options struct {
	// Width in pixels; the height follows the page aspect unless Height is
	// set.
	Width  int
	Height int
	// Target is outlined and cracked according to Progress.
	Target   game.Element
	Progress float64
	Viewport bool
	Labels   bool
}

var (
	background = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	stone      = color.RGBA{R: 120, G: 120, B: 128, A: 90}
	edge       = color.RGBA{R: 0, G: 0, B: 0, A: 140}
	targetEdge = color.RGBA{R: 255, G: 214, B: 0, A: 255}
	viewEdge   = color.RGBA{R: 0, G: 229, B: 255, A: 200}
	crackLine  = color.RGBA{R: 10, G: 10, B: 10, A: 220}
)

// Render draws doc. Hidden and detached elements are skipped, so mined
// blocks show as holes.
func Render(doc *page.Document, opts Options) image.Image {
	w := opts.Width
	if w <= 0 {
		w = DefaultWidth
	}
	scale := float64(w) / math.Max(doc.ViewportWidth(), 1)
	h := opts.Height
	if h <= 0 {
		h = int(math.Ceil(doc.Height() * scale))
	}
	h = min(max(h, 1), maxHeight)

	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()

	for _, n := range doc.Nodes() {
		if n.Tag() == "html" || n.Tag() == "body" || !n.Visible() {
			continue
		}
		r := n.Rect()
		if r.Width == 0 || r.Height == 0 {
			continue
		}
		x, y, rw, rh := r.X*scale, r.Y*scale, r.Width*scale, r.Height*scale
		if c, ok := game.DominantColor(n); ok {
			dc.SetRGB(c.R, c.G, c.B)
		} else {
			dc.SetColor(stone)
		}
		dc.DrawRectangle(x, y, rw, rh)
		dc.FillPreserve()
		dc.SetColor(edge)
		dc.SetLineWidth(1)
		dc.Stroke()
		if opts.Labels && rh >= 14 && rw >= 40 {
			dc.SetColor(color.White)
			dc.DrawString(n.Tag(), x+3, y+12)
		}
	}

	if t := opts.Target; t != nil && t.Attached() {
		r := t.Rect()
		drawCracks(dc, r.X*scale, r.Y*scale, r.Width*scale, r.Height*scale, opts.Progress)
		dc.SetColor(targetEdge)
		dc.SetLineWidth(2)
		dc.DrawRectangle(r.X*scale, r.Y*scale, r.Width*scale, r.Height*scale)
		dc.Stroke()
	}

	if opts.Viewport {
		dc.SetColor(viewEdge)
		dc.SetLineWidth(1)
		dc.SetDash(4, 3)
		dc.DrawRectangle(1, doc.ScrollY()*scale, float64(w)-2, doc.ViewportHeight()*scale)
		dc.Stroke()
		dc.SetDash()
	}
	return dc.Image()
}

// drawCracks adds one crack per tenth of progress, fanning out from the
// block centre.
func drawCracks(dc *gg.Context, x, y, w, h, progress float64) {
	n := int(math.Floor(math.Min(math.Max(progress, 0), 1) * 10))
	if n == 0 {
		return
	}
	cx, cy := x+w/2, y+h/2
	dc.SetColor(crackLine)
	dc.SetLineWidth(1)
	dc.SetLineCapRound()
	for i := 0; i < n; i++ {
		a := float64(i) * 2 * math.Pi / 10
		reach := 0.45 * math.Min(w, h) * (0.6 + 0.4*float64(i%3)/2)
		mx := cx + math.Cos(a+0.3)*reach*0.5
		my := cy + math.Sin(a+0.3)*reach*0.5
		dc.DrawLine(cx, cy, mx, my)
		dc.LineTo(cx+math.Cos(a)*reach, cy+math.Sin(a)*reach)
		dc.Stroke()
	}
}

// SavePNG renders doc and writes it to path.
func SavePNG(path string, doc *page.Document, opts Options) error {
	return gg.SavePNG(path, Render(doc, opts))
}
