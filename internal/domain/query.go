package domain

import (
	"strings"
	"time"
)

// SortKey selects an event ordering.
type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortDate       SortKey = "date"
	SortPrice      SortKey = "price"
	SortPopularity SortKey = "popularity"
)

// ParseSortKey maps s to a known key, falling back to relevance.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortDate, SortPrice, SortPopularity:
		return k
	default:
		return SortRelevance
	}
}

// DateRange bounds are kept as caller-supplied text. A range applies only when both bounds
// are present and parse.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const dateOnlyLayout = "2006-01-02"

// Bounds parses the range. ok is false when either bound is absent or unparsable.
// A date-only end bound covers the whole day.
func (r DateRange) Bounds() (start, end time.Time, ok bool) {
	s, _, err := parseBound(r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	e, eDateOnly, err := parseBound(r.End)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if eDateOnly {
		e = e.Add(24*time.Hour - time.Nanosecond)
	}
	return s, e, true
}

func parseBound(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// PriceRange is an inclusive price window in whole currency units.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Criteria is the filter descriptor. Every predicate is optional and left at its zero value it
// does not narrow the result.
type Criteria struct {
	Query        string      `json:"query"`
	Category     Category    `json:"category"`
	Location     string      `json:"location"`
	City         string      `json:"city"`
	DateRange    DateRange   `json:"date_range"`
	PriceRange   *PriceRange `json:"price_range,omitempty"`
	FeaturedOnly bool        `json:"featured"`
	SortBy       SortKey     `json:"sort_by"`
}
