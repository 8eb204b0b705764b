package score

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shoplens/shoplens"
)

// Image area thresholds in CSS pixels. Anything smaller than a thumbnail is
// dropped outright.
const (
	heroImageArea  = 250 * 250
	mediumImgArea  = 100 * 100
	thumbnailArea  = 60 * 60
	WeightHeroArea = 6
	WeightMedArea  = 3
	WeightImgURL   = 4 // URL names the product image family
)

var productImageMarkers = []string{"product", "zoom", "large", "hires", "sl1500", "832", "landing"}

// Images returns product image URLs ranked by score: pixel area, URL
// markers, product-container proximity, and the highest-resolution source
// among responsive variants. The result is not yet normalized; the caller
// runs shoplens.CleanImageURLs.
func (s *Scorer) Images(limit int) []string {
	type scored struct {
		url   string
		score int
		order int
	}
	var found []scored

	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		if strings.ToLower(n.Tag) != "img" {
			return
		}
		if area := n.Rect.Area(); area > 0 && area < thumbnailArea {
			return
		}
		u := bestImageSource(n)
		if u == "" {
			return
		}

		var sc int
		switch area := n.Rect.Area(); {
		case area >= heroImageArea:
			sc += WeightHeroArea
		case area >= mediumImgArea:
			sc += WeightMedArea
		}
		lower := strings.ToLower(u)
		for _, m := range productImageMarkers {
			if strings.Contains(lower, m) {
				sc += WeightImgURL
				break
			}
		}
		if s.insideProductContainer(loc) {
			sc += WeightContainer
		}
		if tokenMatch(n, "landingimage", "main-image", "primary-image") {
			sc += WeightIDMatch
		}
		found = append(found, scored{url: u, score: sc, order: len(found)})
	})

	sort.SliceStable(found, func(i, j int) bool { return found[i].score > found[j].score })

	out := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, f := range found {
		if _, dup := seen[f.url]; dup {
			continue
		}
		seen[f.url] = struct{}{}
		out = append(out, f.url)
		if len(out) == limit {
			break
		}
	}
	return out
}

// bestImageSource picks the highest-resolution source for an img element:
// the largest srcset entry when present, then high-res data attributes,
// then plain src.
func bestImageSource(n *shoplens.Node) string {
	if srcset := n.Attr("srcset"); srcset != "" {
		if u := largestSrcsetEntry(srcset); u != "" {
			return u
		}
	}
	for _, attr := range []string{"data-old-hires", "data-zoom-image", "data-src"} {
		if u := strings.TrimSpace(n.Attr(attr)); u != "" {
			return u
		}
	}
	return strings.TrimSpace(n.Attr("src"))
}

// largestSrcsetEntry parses "url 320w, url2 832w" and returns the widest
// entry's URL. Density descriptors ("2x") rank by their multiplier.
func largestSrcsetEntry(srcset string) string {
	bestURL, bestW := "", -1.0
	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(entry))
		if len(fields) == 0 {
			continue
		}
		u := fields[0]
		w := 1.0
		if len(fields) > 1 {
			d := fields[1]
			switch {
			case strings.HasSuffix(d, "w"):
				w, _ = strconv.ParseFloat(strings.TrimSuffix(d, "w"), 64)
			case strings.HasSuffix(d, "x"):
				w, _ = strconv.ParseFloat(strings.TrimSuffix(d, "x"), 64)
			}
		}
		if w > bestW {
			bestURL, bestW = u, w
		}
	}
	return bestURL
}
