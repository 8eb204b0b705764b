package shoplens

import (
	"net/url"
	"strings"
	"time"
)

// MaxImages caps the images carried on a ProductRecord.
const MaxImages = 5

// ProductRecord is the output of the extraction pipeline. Nullable fields
// are pointers so they marshal as JSON null rather than disappearing;
// Normalize guarantees every other field holds a defined default.
type ProductRecord struct {
	Title         *string   `json:"title"`
	Price         *string   `json:"price"`
	OriginalPrice *string   `json:"originalPrice"`
	Description   *string   `json:"description"`
	Features      []string  `json:"features"`
	Images        []string  `json:"images"`
	Variants      Variants  `json:"variants"`
	Delivery      Delivery  `json:"delivery"`
	Weight        *string   `json:"weight"`
	Category      *string   `json:"category"`
	Source        Platform  `json:"source"`
	ScrapedAt     time.Time `json:"scrapedAt"`
	OriginalURL   string    `json:"originalUrl"`
}

// Variants groups the product options discovered on the page. Each slice is
// an insertion-ordered set: no duplicates.
type Variants struct {
	Sizes  []string `json:"sizes"`
	Colors []string `json:"colors"`
	Other  []string `json:"other"`
}

// Delivery is the outcome of a delivery inquiry. Unresolved fields are
// null, never omitted.
type Delivery struct {
	Available     *bool   `json:"available"`
	EstimatedDate *string `json:"estimatedDate"`
	Charges       *string `json:"charges"`
	LocationCode  string  `json:"locationCode"`
}

// String returns a pointer to s. Empty strings become nil so that the
// "unresolved" representation is uniform across strategies.
func String(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Normalize fills defaults so that no field is ever absent: nil slices
// become empty, whitespace-only strings become null, images are cleaned
// against the record's original URL, and the scrape timestamp is stamped if
// unset.
func (r *ProductRecord) Normalize() {
	r.Title = reclean(r.Title)
	r.Price = reclean(r.Price)
	r.OriginalPrice = reclean(r.OriginalPrice)
	r.Description = reclean(r.Description)
	r.Weight = reclean(r.Weight)
	r.Category = reclean(r.Category)

	r.Features = dedupe(r.Features)
	r.Variants.Sizes = dedupe(r.Variants.Sizes)
	r.Variants.Colors = dedupe(r.Variants.Colors)
	r.Variants.Other = dedupe(r.Variants.Other)

	var base *url.URL
	if u, err := url.Parse(r.OriginalURL); err == nil && u.Host != "" {
		base = u
	}
	r.Images = CleanImageURLs(base, r.Images)

	if r.ScrapedAt.IsZero() {
		r.ScrapedAt = time.Now().UTC()
	}
}

// Complete reports whether the record satisfies the escalation rule: title,
// price and description present and at least one image.
func (r *ProductRecord) Complete() bool {
	return r.Title != nil && r.Price != nil && r.Description != nil && len(r.Images) > 0
}

// Validate returns EINCOMPLETE when the record lacks a mandatory field.
// Only the title is mandatory; everything else degrades to null.
func (r *ProductRecord) Validate() error {
	if r.Title == nil {
		return Errorf(EINCOMPLETE, "no title could be extracted from %s", r.OriginalURL)
	}
	return nil
}

// imageExcludeMarkers identify sprite sheets, icons and UI chrome that must
// never appear in the images list. Markers match whole words between URL
// delimiters, so "icon" flags "nav-icon.png" but not "silicon-case.jpg".
var imageExcludeMarkers = []string{"sprite", "icon", "icons", "favicon", "logo", "loading", "spinner", "placeholder", "transparent-pixel", "grey-pixel"}

// CleanImageURLs normalizes an image URL list: data-embedded entries are
// dropped, relative URLs are resolved against base, icon/sprite URLs are
// excluded, duplicates are removed preserving order, and the result is
// capped at MaxImages.
func CleanImageURLs(base *url.URL, urls []string) []string {
	out := make([]string, 0, len(urls))
	seen := make(map[string]struct{})
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "data:") {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if !u.IsAbs() {
			if base == nil {
				continue
			}
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		abs := u.String()
		if excludedImage(abs) {
			continue
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
		if len(out) == MaxImages {
			break
		}
	}
	return out
}

func excludedImage(u string) bool {
	lower := strings.ToLower(u)
	for _, m := range imageExcludeMarkers {
		if containsWord(lower, m) {
			return true
		}
	}
	return false
}

// containsWord reports whether w occurs in s bounded by non-alphanumeric
// bytes on both sides. Hyphens, underscores, dots and slashes all count as
// boundaries, so hyphenated markers still match across segments.
func containsWord(s, w string) bool {
	for i := 0; ; i++ {
		j := strings.Index(s[i:], w)
		if j < 0 {
			return false
		}
		j += i
		end := j + len(w)
		if (j == 0 || !alnum(s[j-1])) && (end == len(s) || !alnum(s[end])) {
			return true
		}
		i = j
	}
}

func alnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func reclean(s *string) *string {
	if s == nil {
		return nil
	}
	return String(*s)
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{})
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
