package score

import (
	"strings"

	"github.com/shoplens/shoplens"
)

// Input is the generic scored input-field finder: keyword matches on
// placeholder, name, id, aria-label and nearby label text, with a small
// boost for texty input types. Used when a platform's own selectors fail.
func (s *Scorer) Input(keywords ...string) (shoplens.Location, bool) {
	bestScore := 0
	var bestLoc shoplens.Location

	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		tag := strings.ToLower(n.Tag)
		if tag != "input" && tag != "textarea" {
			return
		}
		var sc int
		if containsAny(strings.ToLower(n.Attr("id"))+" "+strings.ToLower(n.Attr("name")), keywords) {
			sc += WeightIDMatch
		}
		if containsAny(strings.ToLower(n.Attr("placeholder"))+" "+strings.ToLower(n.Attr("aria-label")), keywords) {
			sc += WeightClassMatch
		}
		if nearLabel(s, loc, keywords...) {
			sc += WeightLabel
		}
		switch strings.ToLower(n.Attr("type")) {
		case "", "text", "tel", "number", "search":
			sc += WeightLengthPlaus
		default:
			return // checkboxes, hidden fields etc. never take codes
		}
		if sc > bestScore {
			bestScore, bestLoc = sc, loc
		}
	})

	return bestLoc, bestScore > WeightLengthPlaus
}

// ClickableByText finds a clickable element whose text equals value
// (case-insensitive). Exact matches only; the variant selector owns the
// looser fallbacks.
func (s *Scorer) ClickableByText(value string) (shoplens.Location, bool) {
	want := strings.ToLower(strings.TrimSpace(value))
	if want == "" {
		return "", false
	}
	var found shoplens.Location
	ok := false
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		if ok || !clickable(n) {
			return
		}
		if strings.ToLower(strings.TrimSpace(n.FullText())) == want {
			found, ok = loc, true
		}
	})
	return found, ok
}

// ClickableNear finds a clickable element with the given text inside the
// container of a label matching the keywords, i.e. "the L button next to
// the Size label".
func (s *Scorer) ClickableNear(value string, labelKeywords ...string) (shoplens.Location, bool) {
	want := strings.ToLower(strings.TrimSpace(value))
	var found shoplens.Location
	ok := false

	s.each(func(labelLoc shoplens.Location, label *shoplens.Node) {
		if ok {
			return
		}
		text := strings.ToLower(strings.TrimSpace(label.Text))
		if text == "" || len(text) > maxLabelLen || !containsAny(text, labelKeywords) {
			return
		}
		containerLoc, has := labelLoc.Parent()
		if !has {
			return
		}
		container := s.Root.At(containerLoc)
		if container == nil {
			return
		}
		container.Walk(func(rel shoplens.Location, n *shoplens.Node) bool {
			if ok || !clickable(n) {
				return true
			}
			if strings.ToLower(strings.TrimSpace(n.FullText())) == want {
				found, ok = rebase(containerLoc, rel), true
				return false
			}
			return true
		})
	})
	return found, ok
}

// EachClickable visits visible clickable elements in document order.
// Returning false stops the visit.
func (s *Scorer) EachClickable(visit func(loc shoplens.Location, n *shoplens.Node) bool) {
	stopped := false
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		if stopped || !clickable(n) {
			return
		}
		if !visit(loc, n) {
			stopped = true
		}
	})
}

func clickable(n *shoplens.Node) bool {
	if n.Clickable {
		return true
	}
	switch strings.ToLower(n.Tag) {
	case "a", "button", "option", "label":
		return true
	case "input":
		t := strings.ToLower(n.Attr("type"))
		return t == "submit" || t == "button" || t == "radio"
	}
	return n.Attr("onclick") != "" || strings.EqualFold(n.Attr("role"), "button")
}

// rebase converts a location relative to a subtree root into an absolute
// one.
func rebase(base shoplens.Location, rel shoplens.Location) shoplens.Location {
	idx := rel.Indexes()
	out := base
	for _, i := range idx[1:] {
		out = out.Child(i)
	}
	return out
}
