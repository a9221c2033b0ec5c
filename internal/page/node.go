package page

import (
	"strings"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

// Node is one element of a parsed page. Geometry is produced by the
// owning Document's layout and refreshed whenever visibility changes.
type Node struct {
	doc      *Document
	parent   *Node
	children []*Node

	tag     string
	id      string
	classes []string
	attrs   map[string]string
	text    string
	style   game.Style

	explicitWidth  float64
	explicitHeight float64

	rect     game.Rect
	detached bool
}

var _ game.Element = (*Node)(nil)

func (n *Node) Tag() string       { return n.tag }
func (n *Node) ID() string        { return n.id }
func (n *Node) Classes() []string { return n.classes }

func (n *Node) Attr(name string) string {
	return n.attrs[strings.ToLower(name)]
}

// Text is the collapsed text content of n and its descendants.
func (n *Node) Text() string {
	var parts []string
	n.collectText(&parts)
	return strings.Join(parts, " ")
}

func (n *Node) collectText(parts *[]string) {
	if n.text != "" {
		*parts = append(*parts, n.text)
	}
	for _, c := range n.children {
		c.collectText(parts)
	}
}

func (n *Node) Parent() game.Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) ParentNode() *Node { return n.parent }

func (n *Node) Children() []game.Element {
	out := make([]game.Element, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) ChildNodes() []*Node { return n.children }

func (n *Node) Rect() game.Rect {
	n.doc.ensureLayout()
	return n.rect
}

func (n *Node) Style() game.Style { return n.style }

func (n *Node) Attached() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.detached {
			return false
		}
	}
	return true
}

// SetDisplay changes the display value; "none" hides the node and the page
// reflows around it.
func (n *Node) SetDisplay(display string) {
	if n.style.Display == display {
		return
	}
	n.style.Display = display
	n.doc.invalidate()
}

// Visible reports whether n and all its ancestors are displayed.
func (n *Node) Visible() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.style.Display == "none" {
			return false
		}
	}
	return n.Attached()
}

// Detach removes n from the document, as a script removing the element
// would.
func (n *Node) Detach() {
	n.detached = true
	n.doc.invalidate()
}
