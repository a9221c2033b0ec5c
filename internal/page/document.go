package page

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

const (
	DefaultViewportWidth  = 1024
	DefaultViewportHeight = 768

	blockInset = 8
	lineHeight = 22
	charWidth  = 8
)

var skippedTags = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true,
	"meta": true, "link": true, "title": true,
}

// Document is a laid-out page. It is not safe for concurrent use; hosts
// touch it only from the goroutine that drives the engine.
type Document struct {
	ID    string
	Title string

	root  *Node
	nodes []*Node

	viewportWidth  float64
	viewportHeight float64
	scrollY        float64
	dirty          bool
}

var _ game.Document = (*Document)(nil)

// Parse reads an HTML document. head, script and style content is
// dropped; everything else becomes a Node.
func Parse(r io.Reader) (*Document, error) {
	tree, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	d := newDocument()
	d.Title = extractTitle(tree)
	for c := tree.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "html" {
			d.root = d.build(c, nil, defaultColor)
		}
	}
	if d.root == nil {
		return nil, fmt.Errorf("failed to parse HTML: no root element")
	}
	return d, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func newDocument() *Document {
	return &Document{
		ID:             uuid.NewString(),
		viewportWidth:  DefaultViewportWidth,
		viewportHeight: DefaultViewportHeight,
		dirty:          true,
	}
}

func extractTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := extractTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func (d *Document) build(hn *html.Node, parent *Node, parentColor string) *Node {
	n := &Node{
		doc:    d,
		parent: parent,
		tag:    strings.ToLower(hn.Data),
		attrs:  map[string]string{},
	}
	for _, a := range hn.Attr {
		n.attrs[strings.ToLower(a.Key)] = a.Val
	}
	n.id = n.attrs["id"]
	n.classes = strings.Fields(n.attrs["class"])
	computeStyle(n, parentColor)
	d.nodes = append(d.nodes, n)

	var text []string
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if t := strings.Join(strings.Fields(c.Data), " "); t != "" {
				text = append(text, t)
			}
		case html.ElementNode:
			if skippedTags[strings.ToLower(c.Data)] {
				continue
			}
			n.children = append(n.children, d.build(c, n, n.style.Color))
		}
	}
	n.text = strings.Join(text, " ")
	return n
}

func (d *Document) invalidate() { d.dirty = true }

func (d *Document) ensureLayout() {
	if !d.dirty || d.root == nil {
		return
	}
	d.dirty = false
	d.layout(d.root, 0, 0, d.viewportWidth)
	d.clampScroll()
}

// layout places n at (x, y) with width w and returns the height it takes.
// Blocks stack vertically; inline elements are treated as blocks.
func (d *Document) layout(n *Node, x, y, w float64) float64 {
	if n.explicitWidth > 0 {
		w = math.Min(n.explicitWidth, w)
	}
	if n.detached || n.style.Display == "none" {
		n.rect = game.Rect{X: x, Y: y, Width: w}
		for _, c := range n.children {
			d.layout(c, x, y, 0)
		}
		return 0
	}

	var h float64
	visible := 0
	for _, c := range n.children {
		if !c.detached && c.style.Display != "none" {
			visible++
		}
	}
	if visible > 0 {
		cy := y + blockInset
		for _, c := range n.children {
			cy += d.layout(c, x+blockInset, cy, math.Max(w-2*blockInset, 0))
		}
		h = cy - y + blockInset
		if n.text != "" {
			h += leafHeight(n, w)
		}
	} else {
		h = leafHeight(n, w)
	}
	if n.explicitHeight > 0 {
		h = n.explicitHeight
	}
	n.rect = game.Rect{X: x, Y: y, Width: w, Height: h}
	return h
}

func leafHeight(n *Node, w float64) float64 {
	switch n.tag {
	case "img", "iframe", "video", "canvas":
		return 150
	case "hr":
		return 2
	case "br":
		return 0
	case "input", "button", "select", "textarea":
		return 32
	case "h1":
		return 48
	case "h2":
		return 40
	case "h3":
		return 32
	}
	if n.text == "" {
		return 0
	}
	perLine := math.Max(math.Floor(w/charWidth), 1)
	lines := math.Ceil(float64(len([]rune(n.text))) / perLine)
	return math.Max(lines, 1) * lineHeight
}

func (d *Document) Root() *Node { return d.root }

// Height is the current laid-out height of the page.
func (d *Document) Height() float64 {
	d.ensureLayout()
	if d.root == nil {
		return 0
	}
	return d.root.rect.Height
}

func (d *Document) ViewportCenter() float64 {
	d.ensureLayout()
	return d.scrollY + d.viewportHeight/2
}

func (d *Document) ViewportHeight() float64 { return d.viewportHeight }
func (d *Document) ViewportWidth() float64  { return d.viewportWidth }
func (d *Document) ScrollY() float64        { return d.scrollY }

func (d *Document) SetViewport(w, h float64) {
	d.viewportWidth = math.Max(w, 1)
	d.viewportHeight = math.Max(h, 1)
	d.invalidate()
}

// ScrollBy moves the viewport, clamped to the page.
func (d *Document) ScrollBy(dy float64) {
	d.ensureLayout()
	d.scrollY += dy
	d.clampScroll()
}

func (d *Document) ScrollTo(y float64) {
	d.ensureLayout()
	d.scrollY = y
	d.clampScroll()
}

func (d *Document) clampScroll() {
	maxScroll := math.Max(d.root.rect.Height-d.viewportHeight, 0)
	d.scrollY = math.Min(math.Max(d.scrollY, 0), maxScroll)
}

// Elements lists the attached nodes in document order.
func (d *Document) Elements() []game.Element {
	var out []game.Element
	for _, n := range d.nodes {
		if n.Attached() {
			out = append(out, n)
		}
	}
	return out
}

// Nodes lists every node, attached or not, in document order.
func (d *Document) Nodes() []*Node { return d.nodes }

func (d *Document) ByID(id string) *Node {
	for _, n := range d.nodes {
		if n.id == id && n.Attached() {
			return n
		}
	}
	return nil
}

// First returns the first attached node with tag.
func (d *Document) First(tag string) *Node {
	for _, n := range d.nodes {
		if n.tag == tag && n.Attached() {
			return n
		}
	}
	return nil
}

// ElementAt hit-tests a point in document coordinates and returns the
// deepest visible node under it.
func (d *Document) ElementAt(x, y float64) *Node {
	d.ensureLayout()
	var hit *Node
	for _, n := range d.nodes {
		if !n.Visible() || n.rect.Height == 0 || n.rect.Width == 0 {
			continue
		}
		if n.rect.Contains(x, y) {
			// Later nodes in document order are deeper or drawn on top.
			hit = n
		}
	}
	return hit
}
