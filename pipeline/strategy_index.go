package pipeline

import (
	"context"
	"strings"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/index"
	"github.com/shoplens/shoplens/score"
)

var _ shoplens.Strategy = (*IndexStrategy)(nil)

// IndexStrategy is the first extraction tier: it builds the inverted index
// over the page snapshot and runs the per-field candidate scorers, then
// overlays structured-metadata hints where the scorers came up empty.
type IndexStrategy struct {
	Hints shoplens.HintParser // optional
}

func (s *IndexStrategy) Name() string { return "index" }

func (s *IndexStrategy) Extract(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error) {
	if page.Root == nil {
		return nil, shoplens.Errorf(shoplens.EINTERNAL, "index strategy needs a snapshot")
	}

	// A nil index degrades the scorers to direct scans; it never fails the
	// strategy.
	sc := score.New(page.Root, index.Build(page.Root))

	rec := &shoplens.ProductRecord{}
	if c := sc.Title(); c != nil {
		rec.Title = shoplens.String(c.Text)
	}
	if c := sc.Price(); c != nil {
		rec.Price = shoplens.String(c.Text)
	}
	if c := sc.OriginalPrice(); c != nil {
		rec.OriginalPrice = shoplens.String(c.Text)
	}
	if c := sc.Description(); c != nil {
		rec.Description = shoplens.String(c.Text)
	}
	if c := sc.Weight(); c != nil {
		rec.Weight = shoplens.String(c.Text)
	}
	if c := sc.Category(); c != nil {
		rec.Category = shoplens.String(c.Text)
	}
	rec.Features = sc.Features()
	rec.Images = sc.Images(shoplens.MaxImages)
	rec.Variants.Sizes = variantOptions(page.Root, "size")
	rec.Variants.Colors = variantOptions(page.Root, "color", "colour")

	s.applyHints(page.HTML, rec)
	return rec, nil
}

// applyHints fills still-null fields from meta/JSON-LD metadata and adds
// hint images ahead of scored ones: the metadata image is the storefront's
// own pick for the product shot.
func (s *IndexStrategy) applyHints(html string, rec *shoplens.ProductRecord) {
	if s.Hints == nil || html == "" {
		return
	}
	h, err := s.Hints.Parse(html)
	if err != nil || h == nil {
		return
	}
	rec.Title = fillStr(rec.Title, shoplens.String(h.Title))
	rec.Description = fillStr(rec.Description, shoplens.String(h.Description))
	rec.Category = fillStr(rec.Category, shoplens.String(h.Category))
	if rec.Price == nil && h.Price != "" {
		price := h.Price
		if h.Currency != "" {
			price = h.Currency + " " + price
		}
		rec.Price = shoplens.String(price)
	}
	if len(h.Images) > 0 {
		rec.Images = union(h.Images, rec.Images)
	}
}

// variantOptions collects short clickable option texts near a label whose
// text names the variant type.
func variantOptions(root *shoplens.Node, keywords ...string) []string {
	const maxOptionLen = 20
	var out []string
	seen := map[string]struct{}{}

	root.Walk(func(loc shoplens.Location, label *shoplens.Node) bool {
		text := strings.ToLower(strings.TrimSpace(label.Text))
		if text == "" || len(text) > 40 {
			return true
		}
		matched := false
		for _, k := range keywords {
			if strings.Contains(text, k) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}
		parentLoc, ok := loc.Parent()
		if !ok {
			return true
		}
		container := root.At(parentLoc)
		if container == nil {
			return true
		}
		container.Walk(func(_ shoplens.Location, n *shoplens.Node) bool {
			opt := strings.TrimSpace(n.Text)
			if opt == "" || len(opt) > maxOptionLen || !clickableOption(n) {
				return true
			}
			key := strings.ToLower(opt)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				out = append(out, opt)
			}
			return true
		})
		return true
	})
	return out
}

func clickableOption(n *shoplens.Node) bool {
	if n.Clickable {
		return true
	}
	switch strings.ToLower(n.Tag) {
	case "button", "option":
		return true
	case "input":
		return strings.EqualFold(n.Attr("type"), "radio")
	}
	return strings.EqualFold(n.Attr("role"), "button") || strings.EqualFold(n.Attr("role"), "radio")
}
