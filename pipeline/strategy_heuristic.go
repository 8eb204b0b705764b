package pipeline

import (
	"context"
	"strings"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/score"
)

var _ shoplens.Strategy = (*HeuristicStrategy)(nil)

// HeuristicStrategy is the terminal fallback: pure visual heuristics over
// the snapshot, no index and no external service. Title comes from the
// largest-font text near the top of the viewport, price from a
// currency-pattern scan ranked by font size, description from the longest
// qualifying text block, images from the area/URL scorer.
type HeuristicStrategy struct {
	// Content provides boilerplate-free page text for the description
	// pass. Optional; the snapshot scan covers its absence.
	Content shoplens.ContentExtractor
}

const (
	// Title candidates must start above this viewport offset.
	titleViewportCutoff = 800.0

	minHeuristicTitleLen = 4
	maxHeuristicTitleLen = 199
	minDescriptionLen    = 60
	maxDescriptionLen    = 2000
)

func (s *HeuristicStrategy) Name() string { return "heuristic" }

func (s *HeuristicStrategy) Extract(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error) {
	if page.Root == nil && page.HTML == "" {
		return nil, shoplens.Errorf(shoplens.EINTERNAL, "heuristic strategy has no page to scan")
	}

	rec := &shoplens.ProductRecord{}
	if page.Root != nil {
		rec.Title = shoplens.String(heuristicTitle(page.Root))
		rec.Price = shoplens.String(heuristicPrice(page.Root))
		rec.Description = shoplens.String(heuristicDescription(page.Root))
		rec.Images = score.New(page.Root, nil).Images(shoplens.MaxImages)
	}
	if rec.Description == nil && s.Content != nil && page.HTML != "" {
		if c, err := s.Content.Extract(page.HTML); err == nil {
			rec.Description = shoplens.String(longestBlock(c.Text))
		}
	}
	return rec, nil
}

// heuristicTitle picks the visible text with the largest computed font size
// in the upper part of the viewport. Storefronts reliably set the product
// name in the biggest type above the fold.
func heuristicTitle(root *shoplens.Node) string {
	best := ""
	bestFont := 0.0
	bestY := 0.0
	eachVisible(root, func(n *shoplens.Node) {
		text := strings.TrimSpace(n.Text)
		if len(text) < minHeuristicTitleLen || len(text) > maxHeuristicTitleLen {
			return
		}
		if n.Rect.Y >= titleViewportCutoff {
			return
		}
		if n.FontSize > bestFont || (n.FontSize == bestFont && best != "" && n.Rect.Y < bestY) {
			best, bestFont, bestY = text, n.FontSize, n.Rect.Y
		}
	})
	return best
}

// heuristicPrice scans for currency-pattern text and keeps the match with
// the largest font size: the selling price is set bigger than struck-out
// list prices and fee fine print.
func heuristicPrice(root *shoplens.Node) string {
	best := ""
	bestFont := -1.0
	eachVisible(root, func(n *shoplens.Node) {
		m := score.CurrencyPattern.FindString(n.Text)
		if m == "" {
			return
		}
		if n.FontSize > bestFont {
			best, bestFont = m, n.FontSize
		}
	})
	return best
}

// heuristicDescription returns the longest visible text block within the
// qualifying length band.
func heuristicDescription(root *shoplens.Node) string {
	best := ""
	eachVisible(root, func(n *shoplens.Node) {
		text := strings.TrimSpace(n.Text)
		if len(text) < minDescriptionLen {
			return
		}
		if len(text) > len(best) {
			best = text
		}
	})
	best = truncate(best, maxDescriptionLen)
	return best
}

// longestBlock picks the longest qualifying paragraph out of extracted
// plain text.
func longestBlock(text string) string {
	best := ""
	for _, block := range strings.Split(text, "\n") {
		block = strings.TrimSpace(block)
		if len(block) >= minDescriptionLen && len(block) > len(best) {
			best = block
		}
	}
	best = truncate(best, maxDescriptionLen)
	return best
}

func eachVisible(root *shoplens.Node, visit func(*shoplens.Node)) {
	root.Walk(func(loc shoplens.Location, n *shoplens.Node) bool {
		if loc != shoplens.RootLocation && (!n.Visible || n.Rect.Area() == 0) {
			return false
		}
		visit(n)
		return true
	})
}
