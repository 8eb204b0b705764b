package score

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/index"
)

// CurrencyPattern matches a priced amount with its symbol or code.
var CurrencyPattern = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr|\$|usd|€|eur|£|gbp)\s*[0-9][0-9,]*(?:\.[0-9]{1,2})?`)

// weightPattern matches a quantity with a mass unit.
var weightPattern = regexp.MustCompile(`(?i)\b([0-9]+(?:\.[0-9]+)?)\s*(kg|kilograms?|g|grams?|lbs?|pounds?|oz|ounces?)\b`)

// Title scores heading tags, product-title markers and plausible lengths.
func (s *Scorer) Title() *Candidate {
	bonus := s.indexBonus(WeightIDMatch, func(ix *index.Index) []shoplens.Location {
		return append(ix.LookupAttr("producttitle"), ix.LookupAttr("title=product")...)
	})

	var p picker
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		text := strings.TrimSpace(n.FullText())
		if len(text) < 4 || len(text) > maxTitleLen {
			return
		}
		score := bonus[loc]
		switch strings.ToLower(n.Tag) {
		case "h1":
			score += WeightTagH1
		case "h2":
			score += WeightTagH2
		}
		if tokenMatch(n, "producttitle", "product-title", "pdp-title", "b-ttl", "vu-product-name", "prod-name") {
			score += WeightIDMatch
		} else if tokenMatch(n, "title", "name") {
			score += WeightClassMatch
		}
		if s.insideProductContainer(loc) {
			score += WeightContainer
		}
		if len(text) >= 15 && len(text) <= 120 {
			score += WeightLengthPlaus
		}
		p.offer(Candidate{Location: loc, Score: score, Text: text})
	})
	return p.result()
}

const maxTitleLen = 199

// Price scores currency-pattern text with price-ish markers. Struck-through
// amounts are excluded here; they belong to OriginalPrice.
func (s *Scorer) Price() *Candidate {
	bonus := s.indexBonus(WeightClassMatch, func(ix *index.Index) []shoplens.Location {
		locs := ix.LookupClass("a-price-whole")
		locs = append(locs, ix.LookupClass("pdp-price")...)
		return append(locs, ix.LookupAttr("priceblock_ourprice")...)
	})

	var p picker
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		if struckThrough(n) {
			return
		}
		amount := CurrencyPattern.FindString(n.Text)
		if amount == "" {
			return
		}
		score := WeightPattern + bonus[loc]
		if tokenMatch(n, "price", "amount", "selling", "deal") {
			score += WeightClassMatch
		}
		if s.insideProductContainer(loc) {
			score += WeightContainer
		}
		if tokenMatch(n, "mrp", "list-price", "strike", "was") {
			score -= WeightClassMatch // likely the crossed-out original
		}
		p.offer(Candidate{Location: loc, Score: score, Text: amount})
	})
	return p.result()
}

// OriginalPrice scores struck-through or MRP-marked amounts.
func (s *Scorer) OriginalPrice() *Candidate {
	var p picker
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		amount := CurrencyPattern.FindString(n.Text)
		if amount == "" {
			return
		}
		var score int
		if struckThrough(n) {
			score += WeightPattern
		}
		if tokenMatch(n, "mrp", "original", "list-price", "strike", "text-price", "was") {
			score += WeightClassMatch
		}
		p.offer(Candidate{Location: loc, Score: score, Text: amount})
	})
	return p.result()
}

func struckThrough(n *shoplens.Node) bool {
	switch strings.ToLower(n.Tag) {
	case "del", "s", "strike":
		return true
	}
	return n.HasClass("a-text-price") || n.HasClass("strike") || n.HasClass("strikethrough")
}

// Description scores long text blocks under description-ish containers.
func (s *Scorer) Description() *Candidate {
	var p picker
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		text := strings.TrimSpace(n.FullText())
		if len(text) < minDescriptionLen {
			return
		}
		var score int
		if tokenMatch(n, "description", "productdescription", "about", "overview", "details") {
			score += WeightClassMatch
		}
		if strings.ToLower(n.Tag) == "p" && len(text) >= 120 {
			score += WeightLengthPlaus
		}
		if s.insideProductContainer(loc) {
			score += WeightContainer
		}
		p.offer(Candidate{Location: loc, Score: score, Text: clampText(text, maxDescriptionLen)})
	})
	return p.result()
}

const (
	minDescriptionLen = 60
	maxDescriptionLen = 2000
)

// clampText cuts s to at most max bytes, backing up so the cut never
// splits a multibyte rune (currency signs are everywhere in this text).
func clampText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}

// Features collects bullet-point feature lists near the product container.
func (s *Scorer) Features() []string {
	var out []string
	seen := make(map[string]struct{})
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		if strings.ToLower(n.Tag) != "li" {
			return
		}
		parent, ok := loc.Parent()
		if !ok {
			return
		}
		container := s.Root.At(parent)
		if container == nil || !tokenMatch(container, "feature", "highlight", "bullet", "a-unordered-list", "key-features") {
			return
		}
		text := strings.TrimSpace(n.FullText())
		if len(text) < 3 || len(text) > maxTitleLen {
			return
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, text)
	})
	return out
}

// Weight resolves the product weight by unit pattern and label proximity.
func (s *Scorer) Weight() *Candidate {
	var p picker
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		m := weightPattern.FindString(n.Text)
		if m == "" {
			return
		}
		score := WeightPattern
		if s.insideTableRow(loc) {
			score += WeightTableMatch
		}
		if nearLabel(s, loc, "weight") {
			score += WeightLabel
		}
		p.offer(Candidate{Location: loc, Score: score, Text: m})
	})
	if c := p.result(); c != nil {
		return c
	}
	// Label-driven fallback catches values the unit pattern misses
	// (e.g. "Weight: 450 Grams approx.").
	return s.LabelValue("weight", "item weight", "net weight")
}

// Category takes the deepest breadcrumb that is not the product itself.
func (s *Scorer) Category() *Candidate {
	var best *Candidate
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		if !tokenMatch(n, "breadcrumb", "wayfinding", "crumbs") {
			return
		}
		var crumbs []string
		n.Walk(func(_ shoplens.Location, c *shoplens.Node) bool {
			if strings.ToLower(c.Tag) == "a" {
				if t := strings.TrimSpace(c.FullText()); t != "" {
					crumbs = append(crumbs, t)
				}
				return false
			}
			return true
		})
		if len(crumbs) == 0 {
			return
		}
		// Last crumb before the leaf is usually the category.
		cat := crumbs[len(crumbs)-1]
		if best == nil {
			best = &Candidate{Location: loc, Score: WeightClassMatch, Text: cat}
		}
	})
	return best
}
