package game

import "math"

type Zone string

const (
	ZoneSurface     Zone = "surface"
	ZoneUnderground Zone = "underground"
	ZoneCaves       Zone = "caves"
	ZoneDeepDark    Zone = "deepdark"
)

// depthFloor is the synthetic y coordinate of the bottom of the page.
const depthFloor = -64

type Depth struct {
	YCoord           int
	Zone             Zone
	Name             string
	XP               int
	ScrollPercentage float64
	PageHeight       float64
}

// DepthAt maps a document offset to a depth zone using the page height at
// the time of the call. Callers must pass the current height every time:
// pages grow as content loads.
func DepthAt(referenceY, documentHeight float64) Depth {
	pct := 0.0
	if documentHeight > 0 {
		pct = math.Min(referenceY/documentHeight, 1)
	}
	if pct < 0 {
		pct = 0
	}
	y := int(math.Floor(-float64(-depthFloor) * pct))
	d := Depth{YCoord: y, ScrollPercentage: pct, PageHeight: documentHeight}
	switch {
	case y >= -26:
		d.Zone, d.Name, d.XP = ZoneSurface, "Surface", 1
	case y >= -38:
		d.Zone, d.Name, d.XP = ZoneUnderground, "Underground", 2
	case y >= -45:
		d.Zone, d.Name, d.XP = ZoneCaves, "Caves", 3
	default:
		d.Zone, d.Name, d.XP = ZoneDeepDark, "Deep Dark", 5
	}
	return d
}

// ElementDepth is the depth of an element's top edge in document
// coordinates.
func ElementDepth(el Element, doc Document) Depth {
	return DepthAt(el.Rect().Y, doc.Height())
}

// ViewportDepth is the depth at the centre of the viewport, used for the
// depth indicator and the deep-dark resource override.
func ViewportDepth(doc Document) Depth {
	return DepthAt(doc.ViewportCenter(), doc.Height())
}
