package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shoplens/shoplens"
)

// Ensure Detector implements shoplens.Detector at compile time.
var _ shoplens.Detector = (*Detector)(nil)

// Detector identifies platforms from page markup. It checks for
// platform-specific structural markers, which catches layout families
// served from hosts the URL tables do not enumerate.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified platform. The second
// return is false when no marker matches.
func (d *Detector) Detect(html string) (shoplens.Platform, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	// Amazon markers: the a-* class system and the buybox/title ids are
	// unique to its detail pages.
	if d.has(doc, "#productTitle") ||
		d.has(doc, "#centerCol") ||
		d.has(doc, "#nav-logo-sprites") ||
		d.has(doc, ".a-price-whole") {
		return shoplens.PlatformAmazon, true
	}

	// Flipkart ships hashed class names but keeps stable ids and its app
	// shell marker.
	if d.has(doc, "#container [data-reactroot]") ||
		d.has(doc, "img[src*='flixcart.com']") ||
		d.metaContains(doc, "og:site_name", "flipkart") {
		return shoplens.PlatformFlipkart, true
	}

	if d.has(doc, ".pdp-details") ||
		d.has(doc, ".pdp-price-info") ||
		d.metaContains(doc, "og:site_name", "myntra") {
		return shoplens.PlatformMyntra, true
	}

	if d.has(doc, "#pdp-product-name") ||
		d.has(doc, ".pdp-e-i-head") ||
		d.metaContains(doc, "og:site_name", "snapdeal") {
		return shoplens.PlatformSnapdeal, true
	}

	return "", false
}

func (d *Detector) has(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

func (d *Detector) metaContains(doc *goquery.Document, property, want string) bool {
	v, ok := doc.Find("meta[property='" + property + "']").First().Attr("content")
	return ok && strings.Contains(strings.ToLower(v), want)
}
