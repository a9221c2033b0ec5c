package game

import (
	"slices"
	"strings"
)

type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Style is the subset of computed style the engine reads. Empty strings
// mean "not set".
type Style struct {
	BackgroundColor     string
	BackgroundImage     string
	Color               string
	BorderColor         string
	TextDecorationColor string
	Display             string
	Position            string
	ZIndex              int
}

// Element is the DOM capability the engine calls into. Geometry is in
// document coordinates (scroll offset already applied).
type Element interface {
	Tag() string
	ID() string
	Classes() []string
	Attr(name string) string
	Text() string
	Parent() Element
	Children() []Element
	Rect() Rect
	Style() Style
	// Attached reports whether the element is still part of the document.
	Attached() bool
	SetDisplay(display string)
}

// Document exposes page geometry. Height must reflect the current page,
// not a cached value.
type Document interface {
	Height() float64
	ViewportCenter() float64
	Elements() []Element
}

const (
	maxMineableHeight = 600
	minMineableSide   = 20
	maxAncestorWalk   = 5
	uiClassPrefix     = "mine-"
)

var blockedContainerPatterns = []string{
	"main", "content", "container", "wrapper", "page",
	"site", "layout", "body", "app", "root",
}

var reservedUIIDs = []string{"mine-warden-overlay", "mine-toggle-host"}

func isRoot(el Element) bool {
	tag := el.Tag()
	return tag == "body" || tag == "html"
}

func isExtensionUI(el Element) bool {
	for cur := el; cur != nil; cur = cur.Parent() {
		if slices.Contains(reservedUIIDs, cur.ID()) {
			return true
		}
		for _, c := range cur.Classes() {
			if strings.HasPrefix(c, uiClassPrefix) {
				return true
			}
		}
	}
	return false
}

// Mineable screens an element before a mining session may start on it.
func Mineable(el Element) bool {
	if el == nil || isRoot(el) || isExtensionUI(el) {
		return false
	}
	if el.Rect().Height > maxMineableHeight {
		return false
	}
	id := strings.ToLower(el.ID())
	class := strings.ToLower(strings.Join(el.Classes(), " "))
	for _, p := range blockedContainerPatterns {
		if strings.Contains(id, p) || strings.Contains(class, p) {
			return false
		}
	}
	return true
}

func isVectorTag(tag string) bool {
	return tag == "svg" || tag == "path"
}

// FindMineable resolves a pointer target to the element that would be
// mined: the target itself when it is large enough, otherwise the nearest
// suitable ancestor within a few levels.
func FindMineable(target Element) Element {
	if target == nil || isRoot(target) || isExtensionUI(target) {
		return nil
	}
	if Mineable(target) {
		r := target.Rect()
		if r.Width >= minMineableSide && r.Height >= minMineableSide && !isVectorTag(target.Tag()) {
			return target
		}
	}
	cur := target
	for attempts := 0; cur != nil && !isRoot(cur) && attempts < maxAncestorWalk; attempts++ {
		if isVectorTag(cur.Tag()) {
			cur = cur.Parent()
			continue
		}
		r := cur.Rect()
		if r.Width < minMineableSide || r.Height < minMineableSide {
			cur = cur.Parent()
			continue
		}
		st := cur.Style()
		if (st.Position == "absolute" || st.Position == "fixed") && st.ZIndex > 1000 && (r.Width < 100 || r.Height < 100) {
			cur = cur.Parent()
			continue
		}
		if Mineable(cur) {
			return cur
		}
		cur = cur.Parent()
	}
	return nil
}

// Contains reports whether child is el or one of its descendants.
func Contains(el, child Element) bool {
	for cur := child; cur != nil; cur = cur.Parent() {
		if cur == el {
			return true
		}
	}
	return false
}

func matchesAd(el Element) bool {
	id := el.ID()
	if strings.Contains(id, "ad-") || strings.Contains(id, "ads-") {
		return true
	}
	for _, c := range el.Classes() {
		if c == "adsbygoogle" || strings.Contains(c, "ad-") || strings.Contains(c, "ads-") || strings.Contains(c, "advertisement") {
			return true
		}
	}
	if el.Attr("data-ad") != "" {
		return true
	}
	if el.Tag() == "iframe" {
		src := el.Attr("src")
		if strings.Contains(src, "doubleclick") || strings.Contains(src, "googlesyndication") {
			return true
		}
	}
	return false
}

// IsAd reports whether el or any descendant looks like an advertisement.
func IsAd(el Element) bool {
	if el == nil {
		return false
	}
	if matchesAd(el) {
		return true
	}
	for _, c := range el.Children() {
		if IsAd(c) {
			return true
		}
	}
	return false
}

var textTags = []string{
	"p", "span", "h1", "h2", "h3", "h4", "h5", "h6", "a", "blockquote", "li", "label",
	"td", "th", "figcaption", "cite", "q", "code", "pre", "strong", "em", "b", "i", "u",
	"mark", "small", "del", "ins", "sub", "sup",
}

// IsTextual classifies an element as primarily text by tag name or by text
// density.
func IsTextual(el Element) bool {
	if slices.Contains(textTags, el.Tag()) {
		return true
	}
	return len(strings.TrimSpace(el.Text())) > 10 && len(el.Children()) <= 2
}
