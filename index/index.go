// Package index builds an inverted index over a rendered-document
// snapshot: text content, tag names, class tokens, attribute values, and
// parent/child structure. The index is built once per page load and is
// never persisted; locations in it are valid for one extraction pass only.
package index

import (
	"sort"
	"strings"

	"github.com/shoplens/shoplens"
)

const (
	// Indexable text length bounds. Longer blocks are prose, not field
	// values; they stay reachable through direct scans.
	minTextLen = 1
	maxTextLen = 199

	// shingleSize is the window for overlapping substring entries used by
	// fuzzy lookup.
	shingleSize = 10
)

// identifyingAttrs get a bare-value entry in addition to name=value, so a
// lookup for "pincode" finds <input name="pincode"> without knowing which
// attribute carried it.
var identifyingAttrs = map[string]bool{
	"id":          true,
	"name":        true,
	"placeholder": true,
	"title":       true,
	"alt":         true,
}

// Index is the inverted index over one document snapshot. All keys are
// lower-cased. Location slices are in document order.
type Index struct {
	Text     map[string][]shoplens.Location
	Tags     map[string][]shoplens.Location
	Classes  map[string][]shoplens.Location
	Attrs    map[string][]shoplens.Location
	Children map[shoplens.Location][]shoplens.Location
}

// Build indexes the visible elements of the snapshot rooted at root.
// Elements with a zero layout box are skipped, except the root itself.
// If traversal panics the result is nil: callers must treat a nil index as
// "index unavailable" and degrade to direct-scan strategies.
func Build(root *shoplens.Node) (ix *Index) {
	defer func() {
		if recover() != nil {
			ix = nil
		}
	}()

	if root == nil {
		return nil
	}

	ix = &Index{
		Text:     make(map[string][]shoplens.Location),
		Tags:     make(map[string][]shoplens.Location),
		Classes:  make(map[string][]shoplens.Location),
		Attrs:    make(map[string][]shoplens.Location),
		Children: make(map[shoplens.Location][]shoplens.Location),
	}

	root.Walk(func(loc shoplens.Location, n *shoplens.Node) bool {
		if loc != shoplens.RootLocation && (!n.Visible || n.Rect.Area() == 0) {
			return false
		}

		ix.indexText(loc, n)

		if tag := strings.ToLower(n.Tag); tag != "" {
			ix.Tags[tag] = append(ix.Tags[tag], loc)
		}
		for _, class := range n.Classes {
			if class = strings.ToLower(strings.TrimSpace(class)); class != "" {
				ix.Classes[class] = append(ix.Classes[class], loc)
			}
		}
		for name, value := range n.Attrs {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			name = strings.ToLower(name)
			lower := strings.ToLower(value)
			ix.Attrs[name+"="+lower] = append(ix.Attrs[name+"="+lower], loc)
			if identifyingAttrs[name] {
				ix.Attrs[lower] = append(ix.Attrs[lower], loc)
			}
		}

		if parent, ok := loc.Parent(); ok {
			ix.Children[parent] = append(ix.Children[parent], loc)
		}
		return true
	})

	// Attribute iteration order is random; restore document order.
	for k := range ix.Attrs {
		sortByDocumentOrder(ix.Attrs[k])
	}

	return ix
}

func (ix *Index) indexText(loc shoplens.Location, n *shoplens.Node) {
	text := strings.TrimSpace(n.Text)
	if len(text) < minTextLen || len(text) > maxTextLen {
		return
	}
	lower := strings.ToLower(text)
	ix.Text[lower] = append(ix.Text[lower], loc)

	if len(lower) <= shingleSize {
		return
	}
	for i := 0; i+shingleSize <= len(lower); i++ {
		shingle := lower[i : i+shingleSize]
		locs := ix.Text[shingle]
		if len(locs) > 0 && locs[len(locs)-1] == loc {
			continue // repeated shingle within one element
		}
		ix.Text[shingle] = append(ix.Text[shingle], loc)
	}
}

// LookupText returns the locations whose full text equals term
// (case-insensitive).
func (ix *Index) LookupText(term string) []shoplens.Location {
	return ix.Text[strings.ToLower(strings.TrimSpace(term))]
}

// FuzzyText returns locations matching term by overlapping-substring votes,
// most votes first, document order within a vote count. Terms at or under
// the shingle size fall back to exact lookup.
func (ix *Index) FuzzyText(term string) []shoplens.Location {
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) <= shingleSize {
		return ix.Text[term]
	}

	votes := make(map[shoplens.Location]int)
	var order []shoplens.Location
	for i := 0; i+shingleSize <= len(term); i++ {
		for _, loc := range ix.Text[term[i:i+shingleSize]] {
			if votes[loc] == 0 {
				order = append(order, loc)
			}
			votes[loc]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return votes[order[i]] > votes[order[j]]
	})
	return order
}

// LookupAttr returns locations carrying the attribute, either as
// "name=value" or as a bare identifying value.
func (ix *Index) LookupAttr(key string) []shoplens.Location {
	return ix.Attrs[strings.ToLower(strings.TrimSpace(key))]
}

// LookupTag returns locations of elements with the tag name.
func (ix *Index) LookupTag(tag string) []shoplens.Location {
	return ix.Tags[strings.ToLower(tag)]
}

// LookupClass returns locations carrying the class token.
func (ix *Index) LookupClass(class string) []shoplens.Location {
	return ix.Classes[strings.ToLower(class)]
}

// ChildrenOf returns the indexed children of a location, in document order.
func (ix *Index) ChildrenOf(loc shoplens.Location) []shoplens.Location {
	return ix.Children[loc]
}

func sortByDocumentOrder(locs []shoplens.Location) {
	sort.SliceStable(locs, func(i, j int) bool {
		return docLess(locs[i], locs[j])
	})
}

func docLess(a, b shoplens.Location) bool {
	ai, bi := a.Indexes(), b.Indexes()
	for k := 0; k < len(ai) && k < len(bi); k++ {
		if ai[k] != bi[k] {
			return ai[k] < bi[k]
		}
	}
	return len(ai) < len(bi)
}
