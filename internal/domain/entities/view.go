package entities

import (
	"sort"

	"github.com/samber/lo"
)

// ProgressView is the raw per-day progress of a session together with its stats.
type ProgressView struct {
	Content     map[string]ContentSet `json:"content"`
	TermsByDate map[string][]string   `json:"terms_by_date"`
	Stats       Stats                 `json:"stats"`
}

// BuildProgressView groups DailyContent sets by date and merges the term
// groups of each date into one sorted, deduplicated list. Corrupt records are
// left out.
func BuildProgressView(records []ProgressRecord, stats Stats) ProgressView {
	view := ProgressView{
		Content:     make(map[string]ContentSet),
		TermsByDate: make(map[string][]string),
		Stats:       stats,
	}

	for _, r := range records {
		kind := Classify(r.Key)
		switch kind.Kind {
		case KindDailyContent:
			set, err := DecodeContentSet(r.Payload)
			if err != nil {
				continue
			}
			view.Content[kind.Date] = set
		case KindTermGroup:
			set, err := DecodeTermSet(r.Payload)
			if err != nil {
				continue
			}
			view.TermsByDate[kind.Date] = append(view.TermsByDate[kind.Date], set...)
		}
	}

	for date, terms := range view.TermsByDate {
		terms = lo.Uniq(terms)
		sort.Strings(terms)
		view.TermsByDate[date] = terms
	}

	return view
}
