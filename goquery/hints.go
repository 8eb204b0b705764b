// Package goquery parses structured page metadata out of rendered HTML:
// og:/twitter: meta tags and schema.org Product JSON-LD. Storefronts
// maintain these blocks for search engines, so when present they are more
// trustworthy than scored DOM guesses.
package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/jsonrepair"
)

// Ensure HintParser implements shoplens.HintParser at compile time.
var _ shoplens.HintParser = (*HintParser)(nil)

// HintParser extracts metadata hints from rendered HTML.
type HintParser struct{}

// NewHintParser creates a new HintParser.
func NewHintParser() *HintParser {
	return &HintParser{}
}

// Parse reads meta tags first, then overlays schema.org Product data,
// which tends to be the more complete of the two.
func (p *HintParser) Parse(html string) (*shoplens.Hints, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, shoplens.Errorf(shoplens.EPARSE, "parsing html: %v", err)
	}

	h := &shoplens.Hints{}
	p.parseMeta(doc, h)
	p.parseProductLD(doc, h)
	return h, nil
}

func (p *HintParser) parseMeta(doc *goquery.Document, h *shoplens.Hints) {
	meta := func(names ...string) string {
		for _, name := range names {
			sel := "meta[property='" + name + "'], meta[name='" + name + "']"
			if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	h.Title = meta("og:title", "twitter:title")
	h.Description = meta("og:description", "twitter:description", "description")
	h.Price = meta("product:price:amount", "og:price:amount")
	h.Currency = meta("product:price:currency", "og:price:currency")
	if img := meta("og:image", "twitter:image"); img != "" {
		h.Images = append(h.Images, img)
	}
}

// productLD is the subset of a schema.org Product block the pipeline can
// use. Image and offers appear in the wild as both scalars and arrays, so
// they decode into any.
type productLD struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       any    `json:"image"`
	Category    string `json:"category"`
	Offers      any    `json:"offers"`
}

func (p *HintParser) parseProductLD(doc *goquery.Document, h *shoplens.Hints) {
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var ld productLD
		if err := jsonrepair.Decode(s.Text(), &ld); err != nil {
			return true
		}
		if !strings.EqualFold(ld.Type, "Product") {
			return true
		}

		if h.Title == "" {
			h.Title = strings.TrimSpace(ld.Name)
		}
		if h.Description == "" {
			h.Description = strings.TrimSpace(ld.Description)
		}
		if h.Category == "" {
			h.Category = strings.TrimSpace(ld.Category)
		}
		h.Images = append(h.Images, ldStrings(ld.Image)...)
		if price, currency, ok := ldOffer(ld.Offers); ok && h.Price == "" {
			h.Price = price
			if h.Currency == "" {
				h.Currency = currency
			}
		}
		return false // first Product block wins
	})
}

// ldStrings flattens a JSON-LD value that may be a string or an array of
// strings.
func ldStrings(v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

// ldOffer pulls price and currency out of an offers value, which may be a
// single offer object or an array of them.
func ldOffer(v any) (price, currency string, ok bool) {
	offer, isMap := v.(map[string]any)
	if !isMap {
		arr, isArr := v.([]any)
		if !isArr || len(arr) == 0 {
			return "", "", false
		}
		offer, isMap = arr[0].(map[string]any)
		if !isMap {
			return "", "", false
		}
	}
	price = ldScalar(offer["price"])
	currency = ldScalar(offer["priceCurrency"])
	return price, currency, price != ""
}

func ldScalar(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}
