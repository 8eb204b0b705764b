package shoplens

import (
	"strconv"
	"strings"
)

// Location is a stable structural path into a rendered document tree,
// expressed as slash-separated, zero-based sibling indexes from the root
// element (e.g. "0/2/1"). Locations are valid only for the lifetime of a
// single extraction pass; a re-render or DOM mutation invalidates them.
type Location string

// RootLocation is the location of the document root element.
const RootLocation Location = "0"

// Child returns the location of the i-th element child.
func (l Location) Child(i int) Location {
	return Location(string(l) + "/" + strconv.Itoa(i))
}

// Parent returns the parent location and true, or "" and false for the root.
func (l Location) Parent() (Location, bool) {
	i := strings.LastIndexByte(string(l), '/')
	if i < 0 {
		return "", false
	}
	return Location(l[:i]), true
}

// Depth returns the number of path segments below the root.
func (l Location) Depth() int {
	return strings.Count(string(l), "/")
}

// Indexes returns the sibling-index path as integers. A malformed segment
// yields nil.
func (l Location) Indexes() []int {
	parts := strings.Split(string(l), "/")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		out[i] = n
	}
	return out
}

// Rect is an element's layout box in CSS pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns the pixel area of the box.
func (r Rect) Area() float64 { return r.W * r.H }

// Node is one element of a rendered-document snapshot. A snapshot is a
// point-in-time serialization of the element tree produced by the renderer;
// it carries enough layout information (boxes, computed font sizes) for
// visual heuristics without further renderer round trips.
type Node struct {
	Tag       string            `json:"tag"`
	Text      string            `json:"text"` // own text content, trimmed
	Classes   []string          `json:"classes,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Rect      Rect              `json:"rect"`
	FontSize  float64           `json:"fontSize,omitempty"`
	Visible   bool              `json:"visible"`
	Clickable bool              `json:"clickable,omitempty"`
	Children  []*Node           `json:"children,omitempty"`
}

// Attr returns the named attribute value, or "".
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasClass reports whether the node carries the class token.
func (n *Node) HasClass(class string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Classes {
		if strings.EqualFold(c, class) {
			return true
		}
	}
	return false
}

// Walk visits the subtree rooted at n in document order. The visit function
// receives each node's location; returning false prunes the node's subtree.
func (n *Node) Walk(visit func(loc Location, node *Node) bool) {
	if n == nil {
		return
	}
	n.walk(RootLocation, visit)
}

func (n *Node) walk(loc Location, visit func(Location, *Node) bool) {
	if !visit(loc, n) {
		return
	}
	for i, c := range n.Children {
		c.walk(loc.Child(i), visit)
	}
}

// At resolves a location against the subtree rooted at n. Returns nil when
// the path does not exist.
func (n *Node) At(loc Location) *Node {
	idx := loc.Indexes()
	if n == nil || len(idx) == 0 || idx[0] != 0 {
		return nil
	}
	cur := n
	for _, i := range idx[1:] {
		if i < 0 || i >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[i]
	}
	return cur
}

// FullText returns the node's own text joined with all descendant text in
// document order, whitespace-normalized.
func (n *Node) FullText() string {
	if n == nil {
		return ""
	}
	var parts []string
	n.Walk(func(_ Location, node *Node) bool {
		if t := strings.TrimSpace(node.Text); t != "" {
			parts = append(parts, t)
		}
		return true
	})
	return strings.Join(parts, " ")
}
