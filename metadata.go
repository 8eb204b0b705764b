package shoplens

import "context"

// Hints are high-confidence field values parsed from structured page
// metadata: og:/twitter: meta tags and schema.org Product JSON-LD.
// Storefronts maintain these for search engines, so when present they beat
// scored guesses. Absent values are empty strings.
type Hints struct {
	Title       string
	Description string
	Price       string
	Currency    string
	Images      []string
	Category    string
}

// HintParser extracts structured-metadata hints from rendered HTML.
type HintParser interface {
	Parse(html string) (*Hints, error)
}

// Detector identifies the platform from page markup. It refines the
// URL-based detection: some platforms serve the same layout family from
// hosts the URL tables do not enumerate.
type Detector interface {
	// Detect returns the platform whose markup markers match, and whether
	// any matched at all.
	Detect(html string) (Platform, bool)
}

// DomainLimiter throttles pipeline work per domain so that concurrent
// extractions of different URLs on the same storefront stay polite.
type DomainLimiter interface {
	// Wait blocks until the limit allows another request to the domain, or
	// the context is done.
	Wait(ctx context.Context, domain string) error
}
