package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/score"
)

// selectVariants activates the requested variant controls before
// extraction. For each type→value pair: exact-text clickable match first,
// then a clickable near a label naming the type, then any clickable whose
// text contains the value. Returns true only when every pair was located
// and activated; false is advisory and never blocks extraction.
func (p *Pipeline) selectVariants(ctx context.Context, page *shoplens.PageContext, want map[string]string, log *slog.Logger) bool {
	session := page.Session
	if session == nil {
		return false
	}
	settle := page.Platform.Config().VariantSettle
	if settle == 0 {
		settle = defaultSettle
	}

	types := make([]string, 0, len(want))
	for t := range want {
		types = append(types, t)
	}
	sort.Strings(types)

	all := true
	for _, typ := range types {
		value := want[typ]

		// Re-snapshot per variant: each activation mutates the DOM and
		// invalidates prior locations.
		snap, err := session.Snapshot(ctx)
		if err != nil {
			log.Debug("variant snapshot failed", "type", typ, "error", err)
			all = false
			continue
		}
		sc := score.New(snap, nil)

		loc, ok := sc.ClickableByText(value)
		if !ok {
			loc, ok = sc.ClickableNear(value, variantKeywords(typ)...)
		}
		if !ok {
			loc, ok = clickableContaining(snap, value)
		}
		if !ok {
			log.Debug("variant control not found", "type", typ, "value", value)
			all = false
			continue
		}
		if err := session.Click(ctx, loc); err != nil {
			log.Debug("variant click failed", "type", typ, "value", value, "error", err)
			all = false
			continue
		}
		sleep(ctx, settle)
	}
	return all
}

// variantKeywords expands a variant type into label keywords, covering the
// spelling split storefronts never agree on.
func variantKeywords(typ string) []string {
	typ = strings.ToLower(strings.TrimSpace(typ))
	switch typ {
	case "color", "colour":
		return []string{"color", "colour"}
	}
	return []string{typ}
}

// clickableContaining is the loosest tier: any clickable element whose text
// contains the value.
func clickableContaining(root *shoplens.Node, value string) (shoplens.Location, bool) {
	want := strings.ToLower(strings.TrimSpace(value))
	if want == "" {
		return "", false
	}
	sc := score.New(root, nil)
	var found shoplens.Location
	ok := false
	sc.EachClickable(func(loc shoplens.Location, n *shoplens.Node) bool {
		if strings.Contains(strings.ToLower(n.FullText()), want) {
			found, ok = loc, true
			return false
		}
		return true
	})
	return found, ok
}
