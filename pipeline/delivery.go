package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/jsonrepair"
	"github.com/shoplens/shoplens/score"
)

// deliveryInputKeywords drive the generic input finder when the platform's
// own selectors miss.
var deliveryInputKeywords = []string{"pincode", "pin code", "zip", "postal", "delivery"}

// deliveryTextKeywords rank page text blocks in the last DOM-based
// fallback.
var deliveryTextKeywords = []string{"delivery", "deliver", "shipping", "dispatch", "arrives", "get it by", "pincode"}

var datePattern = regexp.MustCompile(`(?i)\b(?:mon|tues?|wednes|thurs?|fri|satur|sun)day\b|\b\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b|\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2}\b|\btomorrow\b|\btoday\b`)

var unavailableMarkers = []string{"not deliverable", "cannot be delivered", "not available", "unavailable", "does not deliver", "out of stock", "currently unserviceable", "unserviceable"}

var availableMarkers = []string{"free delivery", "delivery by", "get it by", "expected delivery", "in stock", "deliver to", "delivered by", "arrives"}

const deliveryInferPrompt = `The attached screenshot shows an e-commerce product page after a delivery
location code was submitted. Respond with ONLY a JSON object:

{"available": true|false|null, "estimatedDate": string|null, "charges": string|null}

Use null for anything the page does not state.`

// inquireDelivery runs the delivery-inquiry protocol: locate the location
// input, submit the code, wait for the page to settle, parse the result.
// Each stage has fallbacks (generic scored input finder, keyword-density
// text scan, AI with screenshot); the returned record is always complete,
// with unresolved fields null.
func (p *Pipeline) inquireDelivery(ctx context.Context, page *shoplens.PageContext, code string, log *slog.Logger) shoplens.Delivery {
	d := shoplens.Delivery{LocationCode: code}
	session := page.Session
	if session == nil || code == "" {
		return d
	}
	cfg := page.Platform.Config()

	if loc, ok := p.locateDeliveryInput(ctx, session, cfg); ok {
		p.submitDeliveryCode(ctx, session, cfg, loc, code, log)
	} else {
		log.Debug("no delivery input found", "platform", page.Platform)
	}

	snap, err := session.Snapshot(ctx)
	if err != nil {
		log.Debug("delivery snapshot failed", "error", err)
		return p.inferDelivery(ctx, session, d, log)
	}

	text := deliveryResultText(ctx, session, snap, cfg)
	if text == "" {
		text = deliveryTextScan(snap, code)
	}
	if text == "" {
		return p.inferDelivery(ctx, session, d, log)
	}
	parseDeliveryText(text, &d)
	return d
}

// locateDeliveryInput tries the platform selector table first, then the
// generic scored finder over a fresh snapshot.
func (p *Pipeline) locateDeliveryInput(ctx context.Context, session shoplens.Session, cfg shoplens.PlatformConfig) (shoplens.Location, bool) {
	for _, sel := range cfg.DeliveryInputSelectors {
		if loc, err := session.Find(ctx, sel); err == nil {
			return loc, true
		}
	}
	snap, err := session.Snapshot(ctx)
	if err != nil {
		return "", false
	}
	return score.New(snap, nil).Input(deliveryInputKeywords...)
}

// submitDeliveryCode types the code, clicks the platform's submit control
// or presses Enter, then waits out the page update.
func (p *Pipeline) submitDeliveryCode(ctx context.Context, session shoplens.Session, cfg shoplens.PlatformConfig, input shoplens.Location, code string, log *slog.Logger) {
	if err := session.Type(ctx, input, code); err != nil {
		log.Debug("delivery code type failed", "error", err)
		return
	}
	submitted := false
	for _, sel := range cfg.DeliverySubmitSelectors {
		loc, err := session.Find(ctx, sel)
		if err != nil {
			continue
		}
		if err := session.Click(ctx, loc); err == nil {
			submitted = true
			break
		}
	}
	if !submitted {
		if err := session.Press(ctx, input, "Enter"); err != nil {
			log.Debug("delivery submit failed", "error", err)
		}
	}
	if err := session.WaitStable(ctx, defaultSettle); err != nil {
		log.Debug("delivery settle wait", "error", err)
	}
}

// deliveryResultText reads the platform's result elements out of the
// post-submission snapshot.
func deliveryResultText(ctx context.Context, session shoplens.Session, snap *shoplens.Node, cfg shoplens.PlatformConfig) string {
	for _, sel := range cfg.DeliveryResultSelectors {
		loc, err := session.Find(ctx, sel)
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(snap.At(loc).FullText()); text != "" {
			return text
		}
	}
	return ""
}

// deliveryTextScan is the DOM fallback: rank visible text blocks by
// delivery-keyword density, date/day patterns and presence of the
// submitted code. Ties go to the later block: the result renders below
// the widget whose label carries the same vocabulary.
func deliveryTextScan(snap *shoplens.Node, code string) string {
	best := ""
	bestScore := 0
	snap.Walk(func(loc shoplens.Location, n *shoplens.Node) bool {
		if loc != shoplens.RootLocation && (!n.Visible || n.Rect.Area() == 0) {
			return false
		}
		text := strings.TrimSpace(n.Text)
		if len(text) < 10 || len(text) > 300 {
			return true
		}
		lower := strings.ToLower(text)
		rank := countDeliveryKeywords(lower)
		if rank == 0 {
			return true
		}
		if datePattern.MatchString(lower) {
			rank += 2
		}
		if code != "" && strings.Contains(text, code) {
			rank += 2
		}
		if rank >= bestScore {
			best, bestScore = text, rank
		}
		return true
	})
	if bestScore < 2 {
		return ""
	}
	return best
}

// countDeliveryKeywords counts distinct keyword hits. A keyword that is a
// substring of an already-counted one ("deliver" inside "delivery") is
// the same hit, not a second one.
func countDeliveryKeywords(lower string) int {
	count := 0
	var matched []string
	for _, k := range deliveryTextKeywords {
		if !strings.Contains(lower, k) {
			continue
		}
		dup := false
		for _, m := range matched {
			if strings.Contains(m, k) || strings.Contains(k, m) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		matched = append(matched, k)
		count++
	}
	return count
}

// parseDeliveryText fills the delivery record from free-form result text.
func parseDeliveryText(text string, d *shoplens.Delivery) {
	lower := strings.ToLower(text)

	for _, m := range unavailableMarkers {
		if strings.Contains(lower, m) {
			d.Available = shoplens.Bool(false)
			break
		}
	}
	if d.Available == nil {
		for _, m := range availableMarkers {
			if strings.Contains(lower, m) {
				d.Available = shoplens.Bool(true)
				break
			}
		}
	}

	if m := datePattern.FindString(text); m != "" {
		d.EstimatedDate = shoplens.String(m)
		if d.Available == nil {
			d.Available = shoplens.Bool(true)
		}
	}

	if strings.Contains(lower, "free delivery") || strings.Contains(lower, "free shipping") {
		d.Charges = shoplens.String("Free")
		return
	}
	for _, marker := range []string{"delivery charge", "shipping"} {
		i := strings.Index(lower, marker)
		if i < 0 {
			continue
		}
		if m := score.CurrencyPattern.FindString(text[i:]); m != "" {
			d.Charges = shoplens.String(m)
			return
		}
	}
}

// inferDelivery is the final fallback: screenshot plus a fixed-shape
// schema request to the inference service.
func (p *Pipeline) inferDelivery(ctx context.Context, session shoplens.Session, d shoplens.Delivery, log *slog.Logger) shoplens.Delivery {
	if p.Inferrer == nil {
		return d
	}
	img, err := session.Screenshot(ctx)
	if err != nil {
		log.Debug("delivery screenshot failed", "error", err)
		return d
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultInferTimeout)
	defer cancel()
	raw, err := p.Inferrer.Infer(ctx, deliveryInferPrompt, img)
	if err != nil {
		log.Debug("delivery inference failed", "error", err)
		return d
	}
	var out struct {
		Available     *bool   `json:"available"`
		EstimatedDate *string `json:"estimatedDate"`
		Charges       *string `json:"charges"`
	}
	if err := jsonrepair.Decode(raw, &out); err != nil {
		log.Debug("delivery inference unparsable", "error", err)
		return d
	}
	d.Available = out.Available
	d.EstimatedDate = derefClean(out.EstimatedDate)
	d.Charges = derefClean(out.Charges)
	return d
}
