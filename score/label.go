package score

import (
	"strings"

	"github.com/shoplens/shoplens"
)

// maxLabelLen bounds what can plausibly be a label rather than prose.
const maxLabelLen = 40

// LabelValue locates a label element whose text contains one of the
// keywords, then searches its table row, siblings and container for the
// paired value. Table rows score highest; the best pairing wins.
func (s *Scorer) LabelValue(keywords ...string) *Candidate {
	var p picker
	s.each(func(loc shoplens.Location, n *shoplens.Node) {
		label := strings.ToLower(strings.TrimSpace(n.Text))
		if label == "" || len(label) > maxLabelLen || !containsAny(label, keywords) {
			return
		}

		if value, vloc, ok := s.rowValue(loc); ok {
			p.offer(Candidate{Location: vloc, Score: WeightTableMatch + WeightLabel, Text: value})
			return
		}
		if value, vloc, ok := s.siblingValue(loc, label); ok {
			p.offer(Candidate{Location: vloc, Score: WeightLabel, Text: value})
			return
		}
		if value, ok := s.containerValue(loc, n); ok {
			p.offer(Candidate{Location: loc, Score: WeightLabel - 1, Text: value})
		}
	})
	return p.result()
}

// nearLabel reports whether a keyword label sits in the location's row or
// among its siblings.
func nearLabel(s *Scorer, loc shoplens.Location, keywords ...string) bool {
	parent, ok := loc.Parent()
	if !ok {
		return false
	}
	container := s.Root.At(parent)
	if container == nil {
		return false
	}
	// Climb one more level for th/td pairs split across cells.
	if t := strings.ToLower(container.Tag); t == "td" || t == "th" {
		if up, ok := parent.Parent(); ok {
			if row := s.Root.At(up); row != nil {
				container = row
			}
		}
	}
	return containsAny(strings.ToLower(container.FullText()), keywords)
}

// rowValue extracts the value cell paired with a label cell in a table row.
func (s *Scorer) rowValue(labelLoc shoplens.Location) (string, shoplens.Location, bool) {
	cellLoc := labelLoc
	for {
		n := s.Root.At(cellLoc)
		if n == nil {
			return "", "", false
		}
		if t := strings.ToLower(n.Tag); t == "td" || t == "th" {
			break
		}
		parent, ok := cellLoc.Parent()
		if !ok {
			return "", "", false
		}
		cellLoc = parent
	}

	rowLoc, ok := cellLoc.Parent()
	if !ok {
		return "", "", false
	}
	row := s.Root.At(rowLoc)
	if row == nil || strings.ToLower(row.Tag) != "tr" {
		return "", "", false
	}

	idx := lastIndex(cellLoc)
	for i := idx + 1; i < len(row.Children); i++ {
		vloc := rowLoc.Child(i)
		if text := strings.TrimSpace(row.Children[i].FullText()); text != "" {
			return text, vloc, true
		}
	}
	return "", "", false
}

// siblingValue takes the first non-empty text among following siblings.
func (s *Scorer) siblingValue(labelLoc shoplens.Location, label string) (string, shoplens.Location, bool) {
	parentLoc, ok := labelLoc.Parent()
	if !ok {
		return "", "", false
	}
	parent := s.Root.At(parentLoc)
	if parent == nil {
		return "", "", false
	}
	for i := lastIndex(labelLoc) + 1; i < len(parent.Children); i++ {
		text := strings.TrimSpace(parent.Children[i].FullText())
		if text != "" && strings.ToLower(text) != label {
			return text, parentLoc.Child(i), true
		}
	}
	return "", "", false
}

// containerValue strips the label prefix out of the parent's combined text
// ("Weight: 1.2 kg" on one element).
func (s *Scorer) containerValue(labelLoc shoplens.Location, label *shoplens.Node) (string, bool) {
	text := strings.TrimSpace(label.Text)
	if i := strings.IndexByte(text, ':'); i >= 0 && i+1 < len(text) {
		if value := strings.TrimSpace(text[i+1:]); value != "" {
			return value, true
		}
	}
	parentLoc, ok := labelLoc.Parent()
	if !ok {
		return "", false
	}
	parent := s.Root.At(parentLoc)
	if parent == nil {
		return "", false
	}
	combined := strings.TrimSpace(parent.FullText())
	value := strings.TrimSpace(strings.TrimPrefix(combined, strings.TrimSpace(label.Text)))
	value = strings.TrimLeft(value, ":  ")
	if value == "" || value == combined {
		return "", false
	}
	return value, true
}

func containsAny(haystack string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(haystack, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func lastIndex(loc shoplens.Location) int {
	idx := loc.Indexes()
	if len(idx) == 0 {
		return -1
	}
	return idx[len(idx)-1]
}
