package flow

import (
	"fmt"
	"strconv"
	"strings"

	"geonotes/internal/domain"
)

// Item is a choosable entity offered to a Selection.
type Item struct {
	ID    int64
	Title string
}

// Row is one choosable item in a Selection with its rendered label.
type Row struct {
	Label string
	ID    int64
}

// Selection is an immutable snapshot of choosable items captured at prompt
// time. The snapshot stays authoritative for validating the reply even if
// the underlying entities change in between; a stale ID then surfaces as a
// not-found at lookup time.
type Selection struct {
	rows []Row
}

// NewSelection builds a Selection from "<ordinal> <title>" labels over the
// given (title, id) pairs, ordinals starting at 1.
func NewSelection(items []Item) *Selection {
	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = Row{
			Label: fmt.Sprintf("%d %s", i+1, it.Title),
			ID:    it.ID,
		}
	}
	return &Selection{rows: rows}
}

// Labels returns the display labels in order, for keyboard rendering.
func (s *Selection) Labels() []string {
	labels := make([]string, len(s.rows))
	for i, r := range s.rows {
		labels[i] = r.Label
	}
	return labels
}

// Len reports the number of rows.
func (s *Selection) Len() int {
	return len(s.rows)
}

// Resolve validates a reply against the snapshot. It accepts either the
// exact label (what the quick-reply keyboard sends back) or a bare ordinal.
func (s *Selection) Resolve(text string) (Row, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Row{}, fmt.Errorf("empty selection: %w", domain.ErrInvalidInput)
	}
	for _, r := range s.rows {
		if r.Label == text {
			return r, nil
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > len(s.rows) {
		return Row{}, fmt.Errorf("selection %q: %w", text, domain.ErrInvalidInput)
	}
	return s.rows[n-1], nil
}
