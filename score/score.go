// Package score generates scored field candidates from a document snapshot
// and its inverted index. Each field scorer enumerates plausible locations
// using tag, pattern, size/position and label-proximity heuristics, assigns
// additive integer weights, and returns the best candidate in document
// order on ties. A field that cannot be resolved yields nil, never an
// error.
package score

import (
	"strings"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/index"
)

// Heuristic rule weights. These are tunable constants, deterministic by
// construction; values follow no universal scale beyond "more specific
// evidence scores higher".
const (
	WeightIDMatch     = 8 // id names the field outright
	WeightTableMatch  = 7 // value sits in a spec/detail table row
	WeightClassMatch  = 6 // class token names the field
	WeightPattern     = 6 // text matches the field's value pattern
	WeightTagH1       = 5 // h1 for titles
	WeightLabel       = 5 // value adjacent to a labelled keyword
	WeightAttrMatch   = 4 // identifying attribute names the field
	WeightTagH2       = 3 // h2 for titles
	WeightContainer   = 3 // inside a product-ish container
	WeightLengthPlaus = 2 // text length plausible for the field
)

// Candidate is a scored, field-scoped guess at where a piece of data lives.
// Candidates are transient and never merged across fields.
type Candidate struct {
	Location shoplens.Location
	Score    int
	Text     string // extracted text or URL
}

// Scorer runs the per-field heuristics over one snapshot. The index may be
// nil ("index unavailable"), in which case scorers degrade to direct
// structural scans only.
type Scorer struct {
	Root  *shoplens.Node
	Index *index.Index
}

// New creates a Scorer for a snapshot and its (possibly nil) index.
func New(root *shoplens.Node, ix *index.Index) *Scorer {
	return &Scorer{Root: root, Index: ix}
}

// each visits visible snapshot elements in document order.
func (s *Scorer) each(visit func(loc shoplens.Location, n *shoplens.Node)) {
	if s.Root == nil {
		return
	}
	s.Root.Walk(func(loc shoplens.Location, n *shoplens.Node) bool {
		if loc != shoplens.RootLocation && (!n.Visible || n.Rect.Area() == 0) {
			return false
		}
		visit(loc, n)
		return true
	})
}

// picker keeps the best candidate seen so far. Candidates must be offered
// in document order: ties keep the first offered.
type picker struct {
	best Candidate
	ok   bool
}

func (p *picker) offer(c Candidate) {
	if c.Score <= 0 || strings.TrimSpace(c.Text) == "" {
		return
	}
	if !p.ok || c.Score > p.best.Score {
		p.best = c
		p.ok = true
	}
}

func (p *picker) result() *Candidate {
	if !p.ok {
		return nil
	}
	c := p.best
	return &c
}

// indexBonus builds a location→bonus map from index lookups, so that index
// evidence folds into the document-order walk without disturbing tie
// breaking.
func (s *Scorer) indexBonus(bonus int, lookup func(*index.Index) []shoplens.Location) map[shoplens.Location]int {
	out := make(map[shoplens.Location]int)
	if s.Index == nil {
		return out
	}
	for _, loc := range lookup(s.Index) {
		out[loc] += bonus
	}
	return out
}

// tokenMatch reports whether any of the node's id, classes or identifying
// attributes contain one of the tokens.
func tokenMatch(n *shoplens.Node, tokens ...string) bool {
	haystacks := make([]string, 0, len(n.Classes)+3)
	haystacks = append(haystacks, strings.ToLower(n.Attr("id")), strings.ToLower(n.Attr("name")), strings.ToLower(n.Attr("itemprop")))
	for _, c := range n.Classes {
		haystacks = append(haystacks, strings.ToLower(c))
	}
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(h, tok) {
				return true
			}
		}
	}
	return false
}

// insideTableRow reports whether the location sits under a tr/th/td chain.
func (s *Scorer) insideTableRow(loc shoplens.Location) bool {
	for cur, ok := loc.Parent(); ok; cur, ok = cur.Parent() {
		n := s.Root.At(cur)
		if n == nil {
			return false
		}
		switch strings.ToLower(n.Tag) {
		case "tr", "td", "th", "table":
			return true
		}
	}
	return false
}

// insideProductContainer reports whether an ancestor looks like the product
// detail container.
func (s *Scorer) insideProductContainer(loc shoplens.Location) bool {
	for cur, ok := loc.Parent(); ok; cur, ok = cur.Parent() {
		n := s.Root.At(cur)
		if n == nil {
			return false
		}
		if tokenMatch(n, "product", "pdp", "detail", "centercol", "item-detail") {
			return true
		}
	}
	return false
}
